package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/auth-portal/internal/cache"
	"github.com/SAP-F-2025/auth-portal/internal/config"
	"github.com/SAP-F-2025/auth-portal/internal/events"
	"github.com/SAP-F-2025/auth-portal/internal/handlers"
	"github.com/SAP-F-2025/auth-portal/internal/i18n"
	"github.com/SAP-F-2025/auth-portal/internal/metrics"
	"github.com/SAP-F-2025/auth-portal/internal/repositories"
	"github.com/SAP-F-2025/auth-portal/internal/repositories/casdoor"
	"github.com/SAP-F-2025/auth-portal/internal/repositories/postgres"
	"github.com/SAP-F-2025/auth-portal/internal/services"
	"github.com/SAP-F-2025/auth-portal/internal/utils"
	"github.com/SAP-F-2025/auth-portal/internal/validator"
)

const guardTTL = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize Redis
	redisClient, stopRedis, err := newRedisClient(cfg, slogLogger)
	if err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}
	defer stopRedis()
	cacheManager := cache.NewCacheManager(redisClient)

	// Initialize the identity backend
	repo, err := newRepository(cfg, cacheManager, slogLogger)
	if err != nil {
		log.Fatalf("Failed to initialize repository: %v", err)
	}

	// Initialize events
	publisher, err := newPublisher(cfg, slogLogger)
	if err != nil {
		log.Fatalf("Failed to initialize event publisher: %v", err)
	}

	catalog, err := i18n.Default()
	if err != nil {
		log.Fatalf("Failed to load locales: %v", err)
	}

	m := metrics.NewRegistry()

	// Initialize services
	serviceManager := services.NewServiceManager(services.ServiceDependencies{
		Repository: repo,
		Cache:      cacheManager,
		Publisher:  publisher,
		Catalog:    catalog,
		Metrics:    m,
		Validator:  validator.New(),
		Logger:     slogLogger,
	}, services.ServiceManagerConfig{
		Auth: services.AuthServiceConfig{
			Timeout:  cfg.AuthTimeout,
			ResetURL: cfg.ResetURL,
		},
		SessionTTL: cfg.Session.TTL,
		GuardTTL:   guardTTL,
	})
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Setup middleware
	handlers.SetupMiddleware(router, logger, handlers.MiddlewareConfig{
		SecureCookies: cfg.Session.SecureCookie,
		CORSOrigins:   cfg.CORSOrigins,
	})

	// Setup routes
	handlerManager := handlers.NewHandlerManager(serviceManager, m, logger, cfg.Session)
	if err := handlerManager.SetupRoutes(router); err != nil {
		log.Fatalf("Failed to setup routes: %v", err)
	}

	// Create HTTP server
	server := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment, "provider", cfg.AuthProvider)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Shutdown services
	if err := serviceManager.Shutdown(ctx); err != nil {
		log.Printf("Failed to shutdown services: %v", err)
	}

	logger.Info("Server exited")
}

// newRedisClient connects to REDIS_URL. Outside production an in-memory
// server stands in when no URL is configured.
func newRedisClient(cfg *config.Config, logger *slog.Logger) (*redis.Client, func(), error) {
	if cfg.RedisURL == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, nil, err
		}
		logger.Warn("REDIS_URL not set, using in-memory Redis", "addr", mr.Addr())
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		return client, func() {
			_ = client.Close()
			mr.Close()
		}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis not reachable yet", "error", err)
	}
	return client, func() { _ = client.Close() }, nil
}

func newRepository(cfg *config.Config, cm *cache.CacheManager, logger *slog.Logger) (repositories.Repository, error) {
	switch cfg.AuthProvider {
	case config.ProviderLocal:
		db, err := postgres.InitDatabase(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{
			DB:           db,
			CacheManager: cm,
			Logger:       logger,
		}), nil
	default:
		return casdoor.NewRepository(casdoor.CasdoorConfig{
			Endpoint:         cfg.Casdoor.Endpoint,
			ClientID:         cfg.Casdoor.ClientID,
			ClientSecret:     cfg.Casdoor.ClientSecret,
			Certificate:      cfg.Casdoor.Cert,
			OrganizationName: cfg.Casdoor.Organization,
			ApplicationName:  cfg.Casdoor.Application,
			MailSender:       cfg.Casdoor.MailSender,
		}, cm), nil
	}
}

// newPublisher publishes to Kafka when brokers are configured, otherwise in process
func newPublisher(cfg *config.Config, logger *slog.Logger) (events.EventPublisher, error) {
	if len(cfg.KafkaBrokers) > 0 {
		return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.EventsTopic, logger)
	}
	publisher, _ := events.NewInProcessPublisher(cfg.EventsTopic, logger)
	return publisher, nil
}
