package main

// @title Municipal Boundary Service API
// @version 1.0.0
// @description Resolves a coordinate pair to the South African administrative hierarchy containing it (province, district, local municipality).
// @description
// @description Resolution order: result cache, local boundary index with exact containment, MapIt remote fallback. The boundary dataset is versioned and can be reloaded without a restart.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/municipal-boundary-service/docs"
	"github.com/municipal-boundary-service/internal/boundary"
	"github.com/municipal-boundary-service/internal/config"
	httpDelivery "github.com/municipal-boundary-service/internal/delivery/http"
	"github.com/municipal-boundary-service/internal/delivery/http/handler"
	"github.com/municipal-boundary-service/internal/domain/repository"
	"github.com/municipal-boundary-service/internal/infrastructure/mapit"
	"github.com/municipal-boundary-service/internal/pkg/logger"
	"github.com/municipal-boundary-service/internal/pkg/metrics"
	"github.com/municipal-boundary-service/internal/repository/cache"
	"github.com/municipal-boundary-service/internal/repository/geojson"
	"github.com/municipal-boundary-service/internal/repository/postgres"
	"github.com/municipal-boundary-service/internal/usecase"
	"github.com/municipal-boundary-service/internal/worker"
	datasetworker "github.com/municipal-boundary-service/internal/worker/dataset"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Municipal Boundary Service")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("dataset_source", cfg.Dataset.Source),
	)

	collector := metrics.NewCollector("muniresolve")

	// 3. Boundary dataset source
	var source repository.BoundarySource
	switch cfg.Dataset.Source {
	case "postgres":
		db, err := postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close PostgreSQL connection", zap.Error(err))
			}
		}()
		source = postgres.NewBoundarySource(db)
	default:
		source = geojson.NewSource(cfg.Dataset.Path, log)
	}

	// 4. Result cache
	var resultCache repository.ResultCache
	switch cfg.Cache.Backend {
	case "redis":
		redisCache, err := cache.NewRedisCache(&cfg.Redis, &cfg.Cache, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		resultCache = redisCache
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Error("Failed to close Redis connection", zap.Error(err))
			}
		}()
	default:
		resultCache = cache.NewMemoryCache(&cfg.Cache, log)
	}
	log.Info("Result cache initialized", zap.String("backend", cfg.Cache.Backend))

	// 5. Remote fallback client
	fallback := mapit.NewMapItClient(&cfg.MapIt, log)

	// 6. Load the initial dataset version. A malformed dataset blocks
	// startup rather than serving undefined answers.
	provider := boundary.NewProvider(nil)
	reloadUC := usecase.NewReloadUseCase(source, provider, collector, log)

	startupCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	initial, err := reloadUC.Reload(startupCtx)
	cancel()
	if err != nil {
		log.Fatal("Failed to load boundary dataset", zap.Error(err))
	}
	log.Info("Boundary dataset loaded",
		zap.String("version", initial.Version),
		zap.Int("municipalities", initial.Municipalities),
	)

	// 7. Use cases and handlers
	resolveUC := usecase.NewResolveUseCase(
		resultCache,
		provider,
		fallback,
		collector,
		log,
		time.Duration(cfg.MapIt.RequestTimeout)*time.Second,
	)

	resolveHandler := handler.NewResolveHandler(resolveUC, log)
	adminHandler := handler.NewAdminHandler(reloadUC, provider, resultCache, log)

	// 8. HTTP server
	server := httpDelivery.NewServer(cfg, log, resolveHandler, adminHandler)

	// 9. Dataset file watcher
	var manager *worker.Manager
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	if cfg.Watcher.Enabled && cfg.Dataset.Source == "geojson" {
		manager = worker.NewManager(log)
		manager.Register(datasetworker.NewWatchWorker(
			cfg.Dataset.Path,
			cfg.Watcher.Debounce,
			reloadUC,
			log,
		))
		if err := manager.Start(workerCtx); err != nil {
			log.Error("Failed to start workers", zap.Error(err))
		}
	}

	// 10. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully...")

	if manager != nil {
		workerCancel()
		if err := manager.Stop(); err != nil {
			log.Error("Worker shutdown error", zap.Error(err))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
