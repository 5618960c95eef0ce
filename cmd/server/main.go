package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stwalsh4118/campusplan/internal/config"
	"github.com/stwalsh4118/campusplan/internal/database"
	"github.com/stwalsh4118/campusplan/internal/handlers"
	"github.com/stwalsh4118/campusplan/internal/logger"
	"github.com/stwalsh4118/campusplan/internal/middleware"
	"github.com/stwalsh4118/campusplan/internal/repository"
	"github.com/stwalsh4118/campusplan/internal/services"
	"github.com/stwalsh4118/campusplan/internal/space"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithLevel(cfg.Server.Env, cfg.Server.LogLevel)
	log.Info("Starting campusplan API", map[string]interface{}{
		"version":        handlers.APIVersion,
		"environment":    cfg.Server.Env,
		"port":           cfg.Server.Port,
		"dataset_source": cfg.Dataset.Source,
	})

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	source, db, err := newRecordSource(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize dataset source", err, map[string]interface{}{
			"source": cfg.Dataset.Source,
		})
	}
	if db != nil {
		defer db.Close()
	}

	catalog := space.DefaultCatalog()
	if cfg.Space.CatalogPath != "" {
		catalog, err = space.LoadCatalog(cfg.Space.CatalogPath)
		if err != nil {
			log.Fatal("Failed to load space catalog", err, map[string]interface{}{
				"path": cfg.Space.CatalogPath,
			})
		}
		log.Info("Space catalog loaded", map[string]interface{}{
			"path":  cfg.Space.CatalogPath,
			"types": len(catalog.Types),
		})
	}

	// Initialize repository and service layers
	store := repository.NewDatasetStore()
	commuteService := services.NewCommuteService(store, source, log)
	spaceService := services.NewSpaceService(catalog, log)

	// The default dataset loads in the background; commute endpoints
	// answer 503 until it lands. An upload that lands first wins.
	go func() {
		loadCtx, cancel := context.WithTimeout(ctx, cfg.Dataset.FetchTimeout)
		defer cancel()
		_, err := commuteService.LoadDefault(loadCtx)
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, services.ErrDatasetSuperseded) {
			log.Warn("Default dataset unavailable, waiting for upload or reload", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.MaxMultipartMemory = cfg.Upload.MaxBytes

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	// Register health check routes
	var pinger handlers.Pinger
	if db != nil {
		pinger = db
	}
	healthHandler := handlers.NewHealthHandler(store, pinger, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/api/v1/info", healthHandler.Info)

	// Initialize handlers
	commuteHandler := handlers.NewCommuteHandler(commuteService, cfg.Upload.MaxBytes)
	spaceHandler := handlers.NewSpaceHandler(spaceService)
	throttle := middleware.RateLimit(middleware.NewClientLimiter(cfg.Upload.RatePerMinute))

	// Register API v1 routes
	v1 := router.Group("/api/v1")
	{
		commute := v1.Group("/commute")
		{
			commute.GET("/summary", commuteHandler.Summary)
			commute.GET("/distribution", commuteHandler.Distribution)
			commute.GET("/markers", commuteHandler.Markers)
			commute.GET("/dataset", commuteHandler.Dataset)
			commute.POST("/dataset", throttle, commuteHandler.Upload)
			commute.POST("/dataset/reload", throttle, commuteHandler.Reload)
		}

		spaces := v1.Group("/space")
		{
			spaces.GET("/catalog", spaceHandler.Catalog)
			spaces.POST("/summary", spaceHandler.Summary)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}

// newRecordSource builds the configured default dataset source. The
// database is only opened for the postgres source.
func newRecordSource(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.RecordSource, *database.Database, error) {
	switch cfg.Dataset.Source {
	case config.SourceFile:
		return repository.NewFileSource(cfg.Dataset.Path), nil, nil

	case config.SourcePostgres:
		db, err := database.NewPostgresPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Database connection established", map[string]interface{}{
			"host":     cfg.Database.Host,
			"port":     cfg.Database.Port,
			"database": cfg.Database.Name,
			"pool_min": cfg.Database.PoolMin,
			"pool_max": cfg.Database.PoolMax,
			"table":    cfg.Dataset.Table,
		})
		return repository.NewPostgresSource(db.Pool, cfg.Dataset.Table), db, nil

	default:
		return repository.NewHTTPSource(cfg.Dataset.URL, cfg.Dataset.FetchTimeout), nil, nil
	}
}
