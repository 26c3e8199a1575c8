package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/danielaviles128-glitch/avarjoyas-api/internal/telemetry/metrics"
	"github.com/danielaviles128-glitch/avarjoyas-api/internal/telemetry/tracing"
	"github.com/danielaviles128-glitch/avarjoyas-api/pkg"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const listingCacheKey = "productos"

type Handler struct {
	catalogApi Api
	// caches the full listing JSON; the public storefront hits it on
	// every page load
	cache          *freecache.Cache
	cacheTTL       int // seconds
	metricsManager *metrics.Manager
}

func NewHandler(catalogApi Api, metricsManager *metrics.Manager, cacheTTLSeconds int) *Handler {
	megabyte := 1024 * 1024
	return &Handler{
		catalogApi:     catalogApi,
		cache:          freecache.NewCache(10 * megabyte),
		cacheTTL:       cacheTTLSeconds,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/api/productos", handler.handleList).Methods("GET", "OPTIONS").Name("list-products")
	router.HandleFunc("/api/productos", handler.handleAdd).Methods("POST", "OPTIONS").Name("new-product")
	router.HandleFunc("/api/productos/{id}", handler.handleUpdate).Methods("PUT", "OPTIONS").Name("update-product")
	router.HandleFunc("/api/productos/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("delete-product")
}

type productRequest struct {
	Name          string  `json:"nombre"`
	Price         float64 `json:"precio"`
	Category      string  `json:"categoria"`
	Stock         int     `json:"stock"`
	ImageURL      string  `json:"imagen"`
	NewCollection bool    `json:"nueva_coleccion"`
}

// validate reports the first problem found; zero price and zero stock are
// valid values, not missing ones
func (req *productRequest) validate() string {
	switch {
	case req.Name == "":
		return "nombre required"
	case req.Category == "":
		return "categoria required"
	case req.Price < 0:
		return "precio must not be negative"
	case req.Stock < 0:
		return "stock must not be negative"
	default:
		return ""
	}
}

type productResponse struct {
	Message string   `json:"mensaje"`
	Product *Product `json:"producto"`
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "catalogHandler.list")
	defer span.End()

	if cached, err := handler.cache.Get([]byte(listingCacheKey)); err == nil {
		log.Tracef("catalog listing served from cache [%d bytes]", len(cached))
		pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, cached)
		return
	}

	products, err := handler.catalogApi.List(ctx)
	if err != nil {
		log.Errorf("get products error: %s", err)
		http.Error(w, "failed to get products", http.StatusInternalServerError)
		span.RecordError(err)
		return
	}

	if products == nil {
		// nil slice marshals to json null, the storefront expects an array
		products = make([]Product, 0)
	}

	productsJson, err := json.Marshal(products)
	if err != nil {
		log.Errorf("marshal products error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := handler.cache.Set([]byte(listingCacheKey), productsJson, handler.cacheTTL); err != nil {
		log.Errorf("failed to write catalog listing cache: %s", err)
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, productsJson)
}

func (handler *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "catalogHandler.add")
	defer span.End()

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("add new product, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid product payload", http.StatusBadRequest)
		return
	}

	if problem := req.validate(); problem != "" {
		pkg.WriteJSONError(w, problem, http.StatusBadRequest)
		return
	}

	product, err := handler.catalogApi.Add(ctx, Product{
		Name:          req.Name,
		Price:         req.Price,
		Category:      req.Category,
		Stock:         req.Stock,
		ImageURL:      req.ImageURL,
		NewCollection: req.NewCollection,
	})
	if err != nil {
		log.Errorf("store new product error: %s", err)
		pkg.WriteJSONError(w, "failed to store product", http.StatusInternalServerError)
		span.RecordError(err)
		return
	}

	handler.invalidateListingCache()
	handler.metricsManager.CounterProductMutations.With(prometheus.Labels{"op": "add"}).Inc()

	handler.writeProductResponse(w, "producto creado", product, http.StatusCreated)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "catalogHandler.update")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteJSONError(w, "invalid product id", http.StatusBadRequest)
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("update product %d, unmarshal json params: %s", id, err)
		pkg.WriteJSONError(w, "invalid product payload", http.StatusBadRequest)
		return
	}

	if problem := req.validate(); problem != "" {
		pkg.WriteJSONError(w, problem, http.StatusBadRequest)
		return
	}

	product, err := handler.catalogApi.Update(ctx, Product{
		ID:            id,
		Name:          req.Name,
		Price:         req.Price,
		Category:      req.Category,
		Stock:         req.Stock,
		ImageURL:      req.ImageURL,
		NewCollection: req.NewCollection,
	})
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			pkg.WriteJSONError(w, "producto no encontrado", http.StatusNotFound)
			return
		}
		log.Errorf("update product %d error: %s", id, err)
		pkg.WriteJSONError(w, "failed to update product", http.StatusInternalServerError)
		span.RecordError(err)
		return
	}

	handler.invalidateListingCache()
	handler.metricsManager.CounterProductMutations.With(prometheus.Labels{"op": "update"}).Inc()

	handler.writeProductResponse(w, "producto actualizado", product, http.StatusOK)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "catalogHandler.delete")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteJSONError(w, "invalid product id", http.StatusBadRequest)
		return
	}

	if err := handler.catalogApi.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			pkg.WriteJSONError(w, "producto no encontrado", http.StatusNotFound)
			return
		}
		log.Errorf("delete product %d error: %s", id, err)
		pkg.WriteJSONError(w, "failed to delete product", http.StatusInternalServerError)
		span.RecordError(err)
		return
	}

	handler.invalidateListingCache()
	handler.metricsManager.CounterProductMutations.With(prometheus.Labels{"op": "delete"}).Inc()

	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) invalidateListingCache() {
	handler.cache.Del([]byte(listingCacheKey))
}

func (handler *Handler) writeProductResponse(w http.ResponseWriter, message string, product *Product, statusCode int) {
	respJson, err := json.Marshal(productResponse{
		Message: message,
		Product: product,
	})
	if err != nil {
		log.Errorf("marshal product response error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, statusCode)
}
