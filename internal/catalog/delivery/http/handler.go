package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stride/stride-backend/internal/catalog/domain"
	"github.com/stride/stride-backend/internal/catalog/usecase/query"
	"github.com/stride/stride-backend/pkg/logger"
)

// timestamp formats accepted for the price history date bounds
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CatalogHandler handles HTTP requests for the sneaker catalog using CQRS pattern
type CatalogHandler struct {
	// Query handlers
	listSneakersHandler    *query.ListSneakersHandler
	listBrandsHandler      *query.ListBrandsHandler
	listRetailersHandler   *query.ListRetailersHandler
	priceHistoryHandler    *query.PriceHistoryHandler
	sneakerCompleteHandler *query.SneakerCompleteHandler

	repo           domain.CatalogRepository
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	requestSummary *prometheus.SummaryVec
	totalSneakers  prometheus.Gauge
}

// NewCatalogHandler creates a new catalog handler (manual DI for backwards compatibility)
func NewCatalogHandler(repo domain.CatalogRepository, favorites query.FavoriteSource) *CatalogHandler {
	return newCatalogHandler(
		query.NewListSneakersHandler(repo),
		query.NewListBrandsHandler(repo),
		query.NewListRetailersHandler(repo),
		query.NewPriceHistoryHandler(repo),
		query.NewSneakerCompleteHandler(repo, favorites),
		repo,
	)
}

// NewCatalogHandlerWithDI creates a new catalog handler using dependency injection
// This is used by Wire for automatic dependency injection
func NewCatalogHandlerWithDI(
	listSneakersHandler *query.ListSneakersHandler,
	listBrandsHandler *query.ListBrandsHandler,
	listRetailersHandler *query.ListRetailersHandler,
	priceHistoryHandler *query.PriceHistoryHandler,
	sneakerCompleteHandler *query.SneakerCompleteHandler,
	repo domain.CatalogRepository,
) *CatalogHandler {
	return newCatalogHandler(
		listSneakersHandler, listBrandsHandler, listRetailersHandler,
		priceHistoryHandler, sneakerCompleteHandler,
		repo,
	)
}

// newCatalogHandler is the internal constructor used by both manual and Wire DI
func newCatalogHandler(
	listSneakersHandler *query.ListSneakersHandler,
	listBrandsHandler *query.ListBrandsHandler,
	listRetailersHandler *query.ListRetailersHandler,
	priceHistoryHandler *query.PriceHistoryHandler,
	sneakerCompleteHandler *query.SneakerCompleteHandler,
	repo domain.CatalogRepository,
) *CatalogHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_service_requests_total",
			Help: "Total number of requests to catalog service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_service_request_duration_seconds",
			Help:    "Duration of catalog service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Summary metric for percentile calculation (p50, p90, p95, p99)
	requestSummary := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "catalog_service_request_duration_summary",
			Help: "Summary of request durations with percentiles (client-side quantiles)",
			Objectives: map[float64]float64{
				0.5:  0.05,
				0.9:  0.01,
				0.95: 0.01,
				0.99: 0.001,
			},
			MaxAge: 10 * time.Minute,
		},
		[]string{"method", "endpoint"},
	)

	totalSneakers := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_service_total_sneakers",
			Help: "Total number of sneakers in the catalog",
		},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(requestSummary)
	prometheus.MustRegister(totalSneakers)

	return &CatalogHandler{
		listSneakersHandler:    listSneakersHandler,
		listBrandsHandler:      listBrandsHandler,
		listRetailersHandler:   listRetailersHandler,
		priceHistoryHandler:    priceHistoryHandler,
		sneakerCompleteHandler: sneakerCompleteHandler,
		repo:                   repo,
		requestCounter:         requestCounter,
		requestLatency:         requestLatency,
		requestSummary:         requestSummary,
		totalSneakers:          totalSneakers,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *CatalogHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()

		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestSummary.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

func (h *CatalogHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/sneakers", h.metricsMiddleware("/api/sneakers", h.ListSneakers)).Methods("GET")
	router.HandleFunc("/api/sneakers/prices", h.metricsMiddleware("/api/sneakers/prices", h.GetPriceHistory)).Methods("POST")
	router.HandleFunc("/api/sneakers/{sneaker_id}/complete", h.metricsMiddleware("/api/sneakers/{sneaker_id}/complete", h.GetCompleteSneaker)).Methods("GET")
	router.HandleFunc("/api/brands", h.metricsMiddleware("/api/brands", h.ListBrands)).Methods("GET")
	router.HandleFunc("/api/retailers", h.metricsMiddleware("/api/retailers", h.ListRetailers)).Methods("GET")
}

// ListSneakers handles GET /api/sneakers
func (h *CatalogHandler) ListSneakers(w http.ResponseWriter, r *http.Request) {
	sneakers, err := h.listSneakersHandler.Handle(query.ListSneakersQuery{})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to list sneakers")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list sneakers",
		})
		return
	}
	if sneakers == nil {
		sneakers = []domain.SneakerWithBrand{}
	}

	respondJSON(w, http.StatusOK, sneakers)
}

// GetPriceHistory handles POST /api/sneakers/prices
func (h *CatalogHandler) GetPriceHistory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SneakerIDs []uint `json:"sneaker_ids"`
		StartDate  string `json:"start_date"`
		EndDate    string `json:"end_date"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	start, err := parseDateBound(req.StartDate)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid start_date",
		})
		return
	}
	end, err := parseDateBound(req.EndDate)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid end_date",
		})
		return
	}

	points, err := h.priceHistoryHandler.Handle(query.PriceHistoryQuery{
		SneakerIDs: req.SneakerIDs,
		StartDate:  start,
		EndDate:    end,
	})
	if errors.Is(err, domain.ErrEmptySneakerIDs) {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "No sneaker IDs provided",
		})
		return
	}
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to query price history")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to query price history",
		})
		return
	}
	if points == nil {
		points = []domain.PricePoint{}
	}

	respondJSON(w, http.StatusOK, points)
}

// GetCompleteSneaker handles GET /api/sneakers/{sneaker_id}/complete
func (h *CatalogHandler) GetCompleteSneaker(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["sneaker_id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid sneaker ID",
		})
		return
	}

	result, err := h.sneakerCompleteHandler.Handle(query.SneakerCompleteQuery{SneakerID: uint(id)})
	if errors.Is(err, domain.ErrSneakerNotFound) {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Sneaker not found",
		})
		return
	}
	if err != nil {
		logger.Logger.Error().Err(err).Uint64("sneaker_id", id).Msg("Failed to build complete sneaker view")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to load sneaker",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// ListBrands handles GET /api/brands
func (h *CatalogHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.listBrandsHandler.Handle(query.ListBrandsQuery{})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to list brands")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list brands",
		})
		return
	}
	if brands == nil {
		brands = []domain.Brand{}
	}

	respondJSON(w, http.StatusOK, brands)
}

// ListRetailers handles GET /api/retailers
func (h *CatalogHandler) ListRetailers(w http.ResponseWriter, r *http.Request) {
	retailers, err := h.listRetailersHandler.Handle(query.ListRetailersQuery{})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to list retailers")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list retailers",
		})
		return
	}
	if retailers == nil {
		retailers = []domain.Retailer{}
	}

	respondJSON(w, http.StatusOK, retailers)
}

func (h *CatalogHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Database unavailable",
			})
			return
		}

		respondJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
		})
	}).Methods("GET")
}

// RefreshMetrics updates the sneaker gauge from current storage counts.
// Called after seeding rewrites the catalog.
func (h *CatalogHandler) RefreshMetrics() {
	count, err := h.repo.SneakerCount()
	if err == nil {
		h.totalSneakers.Set(float64(count))
	}
}

// parseDateBound accepts the supported timestamp formats; an empty string
// means the bound is absent
func parseDateBound(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return &t, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
