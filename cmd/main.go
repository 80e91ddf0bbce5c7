package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "github.com/Sunaan-Sultan/News-Portal-Mock-Backend/docs"
	authMiddleware "github.com/Sunaan-Sultan/News-Portal-Mock-Backend/internal/auth/middleware"
	authService "github.com/Sunaan-Sultan/News-Portal-Mock-Backend/internal/auth/service"
	"github.com/Sunaan-Sultan/News-Portal-Mock-Backend/internal/cache"
	"github.com/Sunaan-Sultan/News-Portal-Mock-Backend/internal/config"
	"github.com/Sunaan-Sultan/News-Portal-Mock-Backend/internal/handlers"
	"github.com/Sunaan-Sultan/News-Portal-Mock-Backend/internal/logger"
	loggerMiddleware "github.com/Sunaan-Sultan/News-Portal-Mock-Backend/internal/logger/middleware"
	"github.com/Sunaan-Sultan/News-Portal-Mock-Backend/internal/middlewares"
	"github.com/Sunaan-Sultan/News-Portal-Mock-Backend/internal/repositories"
	"github.com/Sunaan-Sultan/News-Portal-Mock-Backend/internal/services"
)

// @title News Portal API
// @version 1.0
// @description API for user authentication and news/comment management

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting News Portal Backend")

	// Initialize document store
	store, err := repositories.NewDocumentStore(cfg.Store.File, logger.Logger)
	if err != nil {
		logger.Logger.Fatal("Failed to initialize document store", zap.Error(err))
	}

	// Initialize response cache
	responseCache, memCache, err := buildCache(cfg)
	if err != nil {
		logger.Logger.Fatal("Failed to initialize cache", zap.Error(err))
	}

	// Initialize JWT token generator
	tokenGenerator := authService.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize services
	authSvc := services.NewAuthService(store, tokenGenerator, logger.Logger)
	newsSvc := services.NewNewsService(store, responseCache, logger.Logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authSvc, logger.Logger)
	newsHandler := handlers.NewNewsHandler(newsSvc, logger.Logger)

	// Initialize auth middleware
	requireAuth := authMiddleware.AuthMiddleware(tokenGenerator)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middlewares.RequestIDMiddleware)
	r.Use(loggerMiddleware.LoggerMiddleware(logger.Logger))
	r.Use(middlewares.RecoveryMiddleware(logger.Logger))
	r.Use(middlewares.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, 15*time.Minute))
	r.Use(middlewares.RequestSizeLimitMiddleware(1 * 1024 * 1024)) // 1MB

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	// Register routes
	authHandler.RegisterRoutes(r, requireAuth)
	newsHandler.RegisterRoutes(r, requireAuth)

	// Start scheduled jobs: store backups and memory cache sweep
	scheduler := startScheduler(cfg, store, memCache)
	if scheduler != nil {
		defer scheduler.Stop()
	}

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// buildCache constructs the response cache backend selected by config.
// The second return value is non-nil only for the memory backend, which
// needs a periodic expired-entry sweep.
func buildCache(cfg *config.Config) (services.ResponseCache, *cache.MemoryCache, error) {
	if cfg.Cache.Backend == config.CacheBackendRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		return cache.NewRedisCache(client, cfg.Cache.TTL, logger.Logger), nil, nil
	}

	memCache := cache.NewMemoryCache(cfg.Cache.TTL)
	return memCache, memCache, nil
}

// startScheduler registers cron jobs and starts the scheduler. Returns
// nil when no job is configured.
func startScheduler(cfg *config.Config, store *repositories.DocumentStore, memCache *cache.MemoryCache) *cron.Cron {
	c := cron.New()
	registered := false

	if cfg.Store.BackupSchedule != "" {
		_, err := c.AddFunc(cfg.Store.BackupSchedule, func() {
			if _, err := store.Snapshot(context.Background(), cfg.Store.BackupDir); err != nil {
				logger.Logger.Error("scheduled backup failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Logger.Fatal("invalid BACKUP_SCHEDULE", zap.Error(err))
		}
		registered = true
	}

	if memCache != nil {
		if _, err := c.AddFunc("@every 1m", func() {
			if removed := memCache.DeleteExpired(); removed > 0 {
				logger.Logger.Debug("cache sweep", zap.Int("removed", removed))
			}
		}); err != nil {
			logger.Logger.Fatal("failed to schedule cache sweep", zap.Error(err))
		}
		registered = true
	}

	if !registered {
		return nil
	}

	c.Start()
	return c
}
