package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stride/stride-backend/internal/user/domain"
	"github.com/stride/stride-backend/internal/user/usecase/command"
	"github.com/stride/stride-backend/internal/user/usecase/query"
	"github.com/stride/stride-backend/kafka"
	"github.com/stride/stride-backend/pkg/logger"
)

// UserHandler handles HTTP requests for users and favorites using CQRS pattern
type UserHandler struct {
	// Command handlers
	registerHandler       *command.RegisterUserHandler
	loginHandler          *command.LoginUserHandler
	addFavoriteHandler    *command.AddFavoriteHandler
	removeFavoriteHandler *command.RemoveFavoriteHandler

	// Query handlers
	listFavoritesHandler *query.ListFavoritesHandler

	repo      domain.UserRepository
	publisher *kafka.Publisher

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	totalFavorites prometheus.Counter
}

// NewUserHandler creates a new user handler (manual DI for backwards compatibility)
func NewUserHandler(repo domain.UserRepository, publisher *kafka.Publisher) *UserHandler {
	return newUserHandler(
		command.NewRegisterUserHandler(repo),
		command.NewLoginUserHandler(repo),
		command.NewAddFavoriteHandler(repo),
		command.NewRemoveFavoriteHandler(repo),
		query.NewListFavoritesHandler(repo),
		repo,
		publisher,
	)
}

// NewUserHandlerWithDI creates a new user handler using dependency injection
// This is used by Wire for automatic dependency injection
func NewUserHandlerWithDI(
	registerHandler *command.RegisterUserHandler,
	loginHandler *command.LoginUserHandler,
	addFavoriteHandler *command.AddFavoriteHandler,
	removeFavoriteHandler *command.RemoveFavoriteHandler,
	listFavoritesHandler *query.ListFavoritesHandler,
	repo domain.UserRepository,
	publisher *kafka.Publisher,
) *UserHandler {
	return newUserHandler(
		registerHandler, loginHandler,
		addFavoriteHandler, removeFavoriteHandler,
		listFavoritesHandler,
		repo,
		publisher,
	)
}

// newUserHandler is the internal constructor used by both manual and Wire DI
func newUserHandler(
	registerHandler *command.RegisterUserHandler,
	loginHandler *command.LoginUserHandler,
	addFavoriteHandler *command.AddFavoriteHandler,
	removeFavoriteHandler *command.RemoveFavoriteHandler,
	listFavoritesHandler *query.ListFavoritesHandler,
	repo domain.UserRepository,
	publisher *kafka.Publisher,
) *UserHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_service_requests_total",
			Help: "Total number of requests to user service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "user_service_request_duration_seconds",
			Help:    "Duration of user service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	totalFavorites := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "user_service_favorites_added_total",
			Help: "Total number of favorites added through the API",
		},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(totalFavorites)

	return &UserHandler{
		registerHandler:       registerHandler,
		loginHandler:          loginHandler,
		addFavoriteHandler:    addFavoriteHandler,
		removeFavoriteHandler: removeFavoriteHandler,
		listFavoritesHandler:  listFavoritesHandler,
		repo:                  repo,
		publisher:             publisher,
		requestCounter:        requestCounter,
		requestLatency:        requestLatency,
		totalFavorites:        totalFavorites,
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
func (h *UserHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/favorites", h.metricsMiddleware("/api/favorites", h.AddFavorite)).Methods("POST")
	router.HandleFunc("/api/favorites/{user_id}/{sneaker_id}", h.metricsMiddleware("/api/favorites/{user_id}/{sneaker_id}", h.RemoveFavorite)).Methods("DELETE")
	router.HandleFunc("/api/favorites/{user_id}", h.metricsMiddleware("/api/favorites/{user_id}", h.ListFavorites)).Methods("GET")

	router.HandleFunc("/api/auth/register", h.metricsMiddleware("/api/auth/register", h.Register)).Methods("POST")
	router.HandleFunc("/api/auth/login", h.metricsMiddleware("/api/auth/login", h.Login)).Methods("POST")
}

// AddFavorite handles POST /api/favorites
func (h *UserHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID    uint `json:"user_id"`
		SneakerID uint `json:"sneaker_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	result, err := h.addFavoriteHandler.Handle(command.AddFavoriteCommand{
		UserID:    req.UserID,
		SneakerID: req.SneakerID,
	})
	if err != nil {
		logger.Logger.Error().Err(err).Uint("user_id", req.UserID).Uint("sneaker_id", req.SneakerID).Msg("Failed to add favorite")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to add favorite",
		})
		return
	}

	if result.AlreadyExists {
		respondJSON(w, http.StatusOK, map[string]string{
			"status":  "already_exists",
			"message": "Already in favorites",
		})
		return
	}

	h.totalFavorites.Inc()

	if err := h.publisher.PublishSneakerFavorited(r.Context(), kafka.SneakerFavoritedEvent{
		UserID:    req.UserID,
		SneakerID: req.SneakerID,
		Timestamp: time.Now(),
	}, false); err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to publish favorite event")
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Added to favorites",
	})
}

// RemoveFavorite handles DELETE /api/favorites/{user_id}/{sneaker_id}
func (h *UserHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseUint(vars["user_id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid user ID",
		})
		return
	}
	sneakerID, err := strconv.ParseUint(vars["sneaker_id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid sneaker ID",
		})
		return
	}

	err = h.removeFavoriteHandler.Handle(command.RemoveFavoriteCommand{
		UserID:    uint(userID),
		SneakerID: uint(sneakerID),
	})
	if errors.Is(err, domain.ErrFavoriteNotFound) {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Favorite not found",
		})
		return
	}
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to remove favorite")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to remove favorite",
		})
		return
	}

	if err := h.publisher.PublishSneakerFavorited(r.Context(), kafka.SneakerFavoritedEvent{
		UserID:    uint(userID),
		SneakerID: uint(sneakerID),
		Timestamp: time.Now(),
	}, true); err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to publish unfavorite event")
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Removed from favorites",
	})
}

// ListFavorites handles GET /api/favorites/{user_id}
func (h *UserHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseUint(vars["user_id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid user ID",
		})
		return
	}

	result, err := h.listFavoritesHandler.Handle(query.ListFavoritesQuery{UserID: uint(userID)})
	if err != nil {
		logger.Logger.Error().Err(err).Uint64("user_id", userID).Msg("Failed to list favorites")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list favorites",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Register handles POST /api/auth/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	user, err := h.registerHandler.Handle(command.RegisterUserCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if errors.Is(err, domain.ErrEmailExists) {
		respondJSON(w, http.StatusConflict, Response{
			Success: false,
			Error:   "Email already exists",
		})
		return
	}
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "User registered successfully",
		Data:    user,
	})
}

// Login handles POST /api/auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	result, err := h.loginHandler.Handle(command.LoginUserCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if errors.Is(err, domain.ErrInvalidCredentials) {
		respondJSON(w, http.StatusUnauthorized, Response{
			Success: false,
			Error:   "Invalid email or password",
		})
		return
	}
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to login user")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to login",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Login successful",
		Data: map[string]interface{}{
			"user":  result.User,
			"token": result.Token,
		},
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
