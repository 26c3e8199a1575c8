package subscribers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"github.com/danielaviles128-glitch/avarjoyas-api/internal/telemetry/metrics"
	"github.com/danielaviles128-glitch/avarjoyas-api/internal/telemetry/tracing"
	"github.com/danielaviles128-glitch/avarjoyas-api/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	subscribersApi Api
	metricsManager *metrics.Manager
}

func NewHandler(subscribersApi Api, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		subscribersApi: subscribersApi,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/api/suscribirse", handler.handleSubscribe).Methods("POST", "OPTIONS").Name("subscribe")
	router.HandleFunc("/api/suscriptores", handler.handleList).Methods("GET", "OPTIONS").Name("subscribers")
	router.HandleFunc("/api/suscriptores/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("delete-subscriber")
}

type subscribeRequest struct {
	Email string `json:"email"`
}

func emailIsValid(email string) bool {
	addr, err := mail.ParseAddress(email)
	// reject the "Name <addr>" form, the storefront sends a bare address
	return err == nil && addr.Address == email
}

func (handler *Handler) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "subscribersHandler.subscribe")
	defer span.End()

	var req subscribeRequest
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Errorf("new subscriber, unmarshal json params: %s", err)
			pkg.WriteJSONError(w, "invalid payload", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("new subscriber, parse form error: %s", err)
			pkg.WriteJSONError(w, "invalid payload", http.StatusBadRequest)
			return
		}
		req.Email = r.Form.Get("email")
	}

	email := strings.TrimSpace(req.Email)
	if !emailIsValid(email) {
		pkg.WriteJSONError(w, "invalid email", http.StatusBadRequest)
		return
	}

	_, inserted, err := handler.subscribersApi.Add(ctx, email)
	if err != nil {
		log.Errorf("store new subscriber error: %s", err)
		pkg.WriteJSONError(w, "failed to subscribe", http.StatusInternalServerError)
		span.RecordError(err)
		return
	}

	if !inserted {
		pkg.WriteResponse(w, pkg.ContentType.JSON, `{"mensaje": "ya suscrito"}`, http.StatusOK)
		return
	}

	handler.metricsManager.CounterNewSubscribers.Inc()
	pkg.WriteResponse(w, pkg.ContentType.JSON, `{"mensaje": "suscripcion creada"}`, http.StatusCreated)
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "subscribersHandler.list")
	defer span.End()

	search := r.URL.Query().Get("search")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	subscribers, err := handler.subscribersApi.List(ctx, search, limit, offset)
	if err != nil {
		log.Errorf("get subscribers error: %s", err)
		pkg.WriteJSONError(w, "failed to get subscribers", http.StatusInternalServerError)
		span.RecordError(err)
		return
	}

	totalCount, err := handler.subscribersApi.Count(ctx)
	if err != nil {
		log.Errorf("get subscribers count error: %s", err)
	} else {
		w.Header().Set("X-Total-Count", strconv.Itoa(totalCount))
	}

	if len(subscribers) == 0 {
		pkg.WriteJSONResponseOK(w, "[]")
		return
	}

	subscribersJson, err := json.Marshal(subscribers)
	if err != nil {
		log.Errorf("marshal subscribers error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, subscribersJson)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "subscribersHandler.delete")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteJSONError(w, "invalid subscriber id", http.StatusBadRequest)
		return
	}

	if err := handler.subscribersApi.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrSubscriberNotFound) {
			pkg.WriteJSONError(w, "suscriptor no encontrado", http.StatusNotFound)
			return
		}
		log.Errorf("delete subscriber %d error: %s", id, err)
		pkg.WriteJSONError(w, "failed to delete subscriber", http.StatusInternalServerError)
		span.RecordError(err)
		return
	}

	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"message": "suscriptor %d eliminado"}`, id))
}
