package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stride/stride-backend/internal/seeding"
	"github.com/stride/stride-backend/kafka"
	"github.com/stride/stride-backend/pkg/cache"
	"github.com/stride/stride-backend/pkg/logger"
)

// SeedingHandler handles the data initialization endpoint
type SeedingHandler struct {
	seeder    *seeding.Seeder
	cache     *redis.Client
	publisher *kafka.Publisher

	// onSeeded runs after a successful seed, e.g. to refresh gauges
	onSeeded func()

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	seedRuns       *prometheus.CounterVec
}

// NewSeedingHandler creates a new seeding handler
func NewSeedingHandler(seeder *seeding.Seeder, cacheClient *redis.Client, publisher *kafka.Publisher, onSeeded func()) *SeedingHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seeding_service_requests_total",
			Help: "Total number of requests to the seeding endpoint",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seeding_service_request_duration_seconds",
			Help:    "Duration of seeding requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	seedRuns := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seeding_service_runs_total",
			Help: "Total number of seeding runs by outcome",
		},
		[]string{"outcome"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(seedRuns)

	return &SeedingHandler{
		seeder:         seeder,
		cache:          cacheClient,
		publisher:      publisher,
		onSeeded:       onSeeded,
		requestCounter: requestCounter,
		requestLatency: requestLatency,
		seedRuns:       seedRuns,
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
func (h *SeedingHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

func (h *SeedingHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/init-data", h.metricsMiddleware("/api/init-data", h.InitData)).Methods("POST")
}

// InitData handles POST /api/init-data
func (h *SeedingHandler) InitData(w http.ResponseWriter, r *http.Request) {
	summary, err := h.seeder.Run(r.Context())
	if errors.Is(err, seeding.ErrSourceMissing) {
		h.seedRuns.WithLabelValues("missing_source").Inc()
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "CSV file not found: " + err.Error(),
		})
		return
	}
	if err != nil {
		h.seedRuns.WithLabelValues("error").Inc()
		logger.Logger.Error().Err(err).Msg("Seeding failed")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to initialize data: " + err.Error(),
		})
		return
	}

	h.seedRuns.WithLabelValues("success").Inc()

	// cached catalog listings are stale after a reseed
	if err := cache.Invalidate(r.Context(), h.cache, "cache:*"); err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to invalidate response cache")
	}

	if err := h.publisher.PublishCatalogSeeded(r.Context(), kafka.CatalogSeededEvent{
		Retailers:   summary.Retailers,
		Brands:      summary.Brands,
		Users:       summary.Users,
		Sneakers:    summary.Sneakers,
		PricePoints: summary.PricePoints,
		Favorites:   summary.Favorites,
		Timestamp:   time.Now(),
	}); err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to publish catalog seeded event")
	}

	if h.onSeeded != nil {
		h.onSeeded()
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Database initialized successfully from CSV files",
		"summary": summary,
	})
}

// InitData godoc
// @Summary Initialize database
// @Description Reset all tables and reload them from the CSV sources
// @Tags Seeding
// @Produce json
// @Success 200 {object} object{status=string,message=string,summary=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 500 {object} object{success=bool,error=string}
// @Router /api/init-data [post]
func (h *SeedingHandler) InitDataDoc() {}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
