package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/danielaviles128-glitch/avarjoyas-api/internal/subscribers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestSubscribers() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.dbDataCleanup())
	token := s.doLogin(ctx, t)

	subscribeJson, err := json.Marshal(map[string]string{
		"email": "ana@example.com",
	})
	require.NoError(t, err)

	// first subscription creates a row
	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/api/suscribirse", serverEndpoint), bytes.NewBuffer(subscribeJson))
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	// second one is a no-op
	req, err = http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/api/suscribirse", serverEndpoint), bytes.NewBuffer(subscribeJson))
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	resp, err = s.httpClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	// exactly one row persisted
	var count int
	require.NoError(t, s.DB.QueryRow(`SELECT COUNT(*) FROM public.suscriptor;`).Scan(&count))
	assert.Equal(t, 1, count)

	// bogus email rejected
	badSubscribeJson, err := json.Marshal(map[string]string{
		"email": "not-an-email",
	})
	require.NoError(t, err)

	req, err = http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/api/suscribirse", serverEndpoint), bytes.NewBuffer(badSubscribeJson))
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	resp, err = s.httpClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	// listing needs auth
	req, err = http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/api/suscriptores", serverEndpoint), nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")

	resp, err = s.httpClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	req, err = http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/api/suscriptores?search=ana", serverEndpoint), nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err = s.httpClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	var listed []subscribers.Subscriber
	require.NoError(t, json.Unmarshal(respBytes, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "ana@example.com", listed[0].Email)

	// delete
	req, err = http.NewRequestWithContext(ctx, "DELETE", fmt.Sprintf("%s/api/suscriptores/%d", serverEndpoint, listed[0].ID), nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err = s.httpClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	// deleting again gives 404
	req, err = http.NewRequestWithContext(ctx, "DELETE", fmt.Sprintf("%s/api/suscriptores/%d", serverEndpoint, listed[0].ID), nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err = s.httpClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NoError(t, resp.Body.Close())
}

func (s *IntegrationTestSuite) TestContactValidation() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// incomplete submission never reaches the mail provider
	contactJson, err := json.Marshal(map[string]string{
		"nombre":  "Ana",
		"mensaje": "hola",
	})
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/api/contacto", serverEndpoint), bytes.NewBuffer(contactJson))
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
