package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	catalogHTTP "github.com/stride/stride-backend/internal/catalog/delivery/http"
	catalogdomain "github.com/stride/stride-backend/internal/catalog/domain"
	catalogrepo "github.com/stride/stride-backend/internal/catalog/repository"
	"github.com/stride/stride-backend/internal/seeding"
	seedingHTTP "github.com/stride/stride-backend/internal/seeding/delivery/http"
	userHTTP "github.com/stride/stride-backend/internal/user/delivery/http"
	userrepo "github.com/stride/stride-backend/internal/user/repository"
	"github.com/stride/stride-backend/kafka"
	"github.com/stride/stride-backend/pkg/cache"
	"github.com/stride/stride-backend/pkg/database"
	"github.com/stride/stride-backend/pkg/logger"
	"github.com/stride/stride-backend/pkg/tracing"

	_ "github.com/stride/stride-backend/docs"
)

func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "stride-backend")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting stride backend")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Load database configuration
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "stride"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Connect to database
	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Initialize repositories and run migrations
	catalogRepo := catalogrepo.NewGormCatalogRepositoryWithTracing(db)
	if err := catalogRepo.AutoMigrate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run catalog migrations")
	}
	userRepo := userrepo.NewGormUserRepository(db)
	if err := userRepo.AutoMigrate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run user migrations")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	// Redis response cache (optional; handlers degrade to uncached reads)
	var redisClient *redis.Client
	if addr := getEnv("REDIS_ADDR", ""); addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       0,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Logger.Warn().Err(err).Str("addr", addr).Msg("Redis unreachable, response cache disabled")
			redisClient = nil
		}
	}

	// Kafka publisher and price update consumer (optional)
	var publisher *kafka.Publisher
	var consumer *kafka.Consumer
	if brokerList := getEnv("KAFKA_BROKERS", ""); brokerList != "" {
		brokers := strings.Split(brokerList, ",")

		publisher, err = kafka.NewPublisher(brokers)
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Kafka unreachable, event publishing disabled")
			publisher = nil
		} else {
			defer publisher.Close()
		}

		consumer, err = kafka.NewConsumer(brokers, getEnv("KAFKA_GROUP_ID", "stride-backend"), func(ctx context.Context, event kafka.PriceUpdatedEvent) error {
			return catalogRepo.CreatePricePointContext(ctx, &catalogdomain.PriceHistory{
				SneakerID: event.SneakerID,
				Price:     event.Price,
				Timestamp: event.Timestamp,
			})
		})
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Kafka unreachable, price update consumer disabled")
		} else {
			consumerCtx, cancelConsumer := context.WithCancel(context.Background())
			defer cancelConsumer()
			consumer.Start(consumerCtx)
			defer consumer.Close()
		}
	}

	// Initialize handlers
	catalogHandler := catalogHTTP.NewCatalogHandler(catalogRepo, userRepo)
	userHandler := userHTTP.NewUserHandler(userRepo, publisher)

	seeder := seeding.NewSeeder(
		seeding.NewGormStore(db),
		seeding.DefaultSources(getEnv("DATA_DIR", "data")),
	)
	seedingHandler := seedingHTTP.NewSeedingHandler(seeder, redisClient, publisher, catalogHandler.RefreshMetrics)

	catalogHandler.RefreshMetrics()

	// Start HTTP server
	httpPort := getEnv("HTTP_PORT", "8000")
	startHTTPServer(catalogHandler, userHandler, seedingHandler, redisClient, sqlDB, httpPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
}

func startHTTPServer(
	catalogHandler *catalogHTTP.CatalogHandler,
	userHandler *userHTTP.UserHandler,
	seedingHandler *seedingHTTP.SeedingHandler,
	redisClient *redis.Client,
	db *sql.DB,
	port string,
) {
	// Setup router
	router := mux.NewRouter()

	// Cached catalog listings
	router.Use(cache.Middleware(redisClient, cache.DefaultConfig()))

	// Register routes
	catalogHandler.RegisterRoutes(router)
	userHandler.RegisterRoutes(router)
	seedingHandler.RegisterRoutes(router)

	// Health check endpoint
	catalogHandler.RegisterHealthCheck(router, db)

	// API information endpoint
	router.HandleFunc("/", apiInfo).Methods("GET")

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// Swagger UI
	catalogHTTP.RegisterSwaggerDocs(router, httpSwagger.WrapHandler)

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   corsOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	logger.Logger.Info().
		Str("port", port).
		Str("metrics_endpoint", "/metrics").
		Str("swagger_endpoint", "/swagger/").
		Msg("HTTP server started")

	handler := otelhttp.NewHandler(c.Handler(router), "stride-backend")
	go func() {
		if err := http.ListenAndServe(":"+port, handler); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()
}

// apiInfo handles GET /
func apiInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{
  "name": "Stride API",
  "version": "1.0.0",
  "description": "Sneaker Price Visualization Platform",
  "endpoints": {
    "GET /api/sneakers": "Get all sneakers with brand information",
    "POST /api/sneakers/prices": "Get price history for selected sneakers",
    "POST /api/init-data": "Initialize database with sample data",
    "GET /swagger/": "Interactive API documentation"
  }
}`))
}

// corsOrigins builds the allowed origin list from the frontend URL plus any
// comma-separated extras
func corsOrigins() []string {
	origins := []string{
		getEnv("FRONTEND_URL", "http://localhost:3000"),
		"http://localhost:5173",
		"http://localhost:3000",
		"http://localhost:3001",
	}
	if extra := getEnv("CORS_ORIGINS", ""); extra != "" {
		for _, origin := range strings.Split(extra, ",") {
			origins = append(origins, strings.TrimSpace(origin))
		}
	}
	return origins
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
