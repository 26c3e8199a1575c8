package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/danielaviles128-glitch/avarjoyas-api/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestCatalog() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.dbDataCleanup())
	token := s.doLogin(ctx, t)

	newProduct := map[string]interface{}{
		"nombre":          "Anillo Luna",
		"precio":          24.5,
		"categoria":       "anillos",
		"stock":           3,
		"imagen":          "https://img.example.com/anillo-luna.jpg",
		"nueva_coleccion": true,
	}
	newProductJson, err := json.Marshal(newProduct)
	require.NoError(t, err)

	// create without token fails
	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/api/productos", serverEndpoint), bytes.NewBuffer(newProductJson))
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	// create with token
	req, err = http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/api/productos", serverEndpoint), bytes.NewBuffer(newProductJson))
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err = s.httpClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	var createResp struct {
		Message string          `json:"mensaje"`
		Product catalog.Product `json:"producto"`
	}
	require.NoError(t, json.Unmarshal(respBytes, &createResp))
	assert.Equal(t, "producto creado", createResp.Message)
	assert.True(t, createResp.Product.ID > 0)
	assert.Equal(t, "Anillo Luna", createResp.Product.Name)
	assert.Equal(t, 24.5, createResp.Product.Price)
	assert.Equal(t, 3, createResp.Product.Stock)
	assert.True(t, createResp.Product.NewCollection)

	productID := createResp.Product.ID

	// the public listing eventually includes the new product, the
	// listing cache expires after a second in the test config
	time.Sleep(1100 * time.Millisecond)

	req, err = http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/api/productos", serverEndpoint), nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")

	resp, err = s.httpClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	respBytes, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	var products []catalog.Product
	require.NoError(t, json.Unmarshal(respBytes, &products))
	require.Len(t, products, 1)
	assert.Equal(t, productID, products[0].ID)

	// update
	updateJson, err := json.Marshal(map[string]interface{}{
		"nombre":    "Anillo Luna Edition",
		"precio":    29.9,
		"categoria": "anillos",
		"stock":     2,
	})
	require.NoError(t, err)

	req, err = http.NewRequestWithContext(ctx, "PUT", fmt.Sprintf("%s/api/productos/%d", serverEndpoint, productID), bytes.NewBuffer(updateJson))
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err = s.httpClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	respBytes, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	require.NoError(t, json.Unmarshal(respBytes, &createResp))
	assert.Equal(t, "producto actualizado", createResp.Message)
	assert.Equal(t, "Anillo Luna Edition", createResp.Product.Name)
	assert.Equal(t, 29.9, createResp.Product.Price)

	// delete
	req, err = http.NewRequestWithContext(ctx, "DELETE", fmt.Sprintf("%s/api/productos/%d", serverEndpoint, productID), nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err = s.httpClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	// delete once more
	req, err = http.NewRequestWithContext(ctx, "DELETE", fmt.Sprintf("%s/api/productos/%d", serverEndpoint, productID), nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err = s.httpClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NoError(t, resp.Body.Close())
}

func (s *IntegrationTestSuite) TestConnectivityProbe() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/api/test", serverEndpoint), nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(respBytes), `"ok": true`)
}
