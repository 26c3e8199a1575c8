package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/danielaviles128-glitch/avarjoyas-api/internal/telemetry/metrics"
	"github.com/danielaviles128-glitch/avarjoyas-api/internal/telemetry/tracing"
	"github.com/danielaviles128-glitch/avarjoyas-api/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

type Handler struct {
	service *Service
	metrics *metrics.Manager
}

func NewHandler(service *Service, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service: service,
		metrics: metricsManager,
	}
}

// SetupRoutes registers the login and auth-check endpoints. The login route
// goes through the given rate limit middleware to prevent brute forcing.
func (handler *Handler) SetupRoutes(mainRouter *mux.Router, rateLimit mux.MiddlewareFunc) {
	loginSubrouter := mainRouter.PathPrefix("/api/login").Subrouter()
	loginSubrouter.
		HandleFunc("", handler.handleLogin).
		Methods("POST", "OPTIONS").Name("login")
	loginSubrouter.Use(rateLimit)

	mainRouter.
		HandleFunc("/api/auth-check", handler.handleAuthCheck).
		Methods("GET", "OPTIONS").Name("auth-check")
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.login")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	type loginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	var loginReq loginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
			log.Errorf("login, unmarshal json params: %s", err)
			pkg.WriteJSONError(w, "login failed", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("login failed, parse form error: %s", err)
			pkg.WriteJSONError(w, "parse form error", http.StatusBadRequest)
			return
		}
		loginReq = loginRequest{
			Username: r.Form.Get("username"),
			Password: r.Form.Get("password"),
		}
	}

	token, err := handler.service.Login(loginReq.Username, loginReq.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingCredentials):
			pkg.WriteJSONError(w, "username and password required", http.StatusBadRequest)
		case errors.Is(err, ErrInvalidCredentials):
			// same response for unknown username and wrong password
			log.Tracef("failed login attempt for user: %s", loginReq.Username)
			handler.metrics.CounterFailedLogins.Inc()
			pkg.WriteJSONError(w, "wrong credentials", http.StatusUnauthorized)
		case errors.Is(err, ErrNotConfigured):
			log.Error("login attempt, but admin credentials not configured")
			pkg.WriteJSONError(w, "server misconfigured", http.StatusInternalServerError)
		default:
			log.Errorf("login failed, generate token error: %s", err)
			pkg.WriteJSONError(w, "generate token error", http.StatusInternalServerError)
		}
		span.SetStatus(codes.Error, "login-failed")
		return
	}

	log.Trace("new login success")
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"token": "%s"}`, token))
}

// handleAuthCheck relies on the auth middleware having verified the bearer
// token and attached the claims to the request context.
func (handler *Handler) handleAuthCheck(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		pkg.WriteJSONError(w, "no can do", http.StatusUnauthorized)
		return
	}

	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"ok": true, "user": "%s"}`, claims.Username()))
}
