package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OldStager01/f1-predictor/api"
	"github.com/OldStager01/f1-predictor/internal/collector"
	"github.com/OldStager01/f1-predictor/internal/events"
	"github.com/OldStager01/f1-predictor/internal/features"
	"github.com/OldStager01/f1-predictor/internal/logger"
	"github.com/OldStager01/f1-predictor/internal/metrics"
	"github.com/OldStager01/f1-predictor/internal/model"
	"github.com/OldStager01/f1-predictor/internal/pipeline"
	"github.com/OldStager01/f1-predictor/internal/predictor"
	"github.com/OldStager01/f1-predictor/internal/resilience"
	"github.com/OldStager01/f1-predictor/pkg/config"
	"github.com/OldStager01/f1-predictor/pkg/database"
	"github.com/OldStager01/f1-predictor/pkg/database/queries"
)

// Overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// @title           F1 Race Predictor API
// @version         1.0
// @description     Race-winner prediction service: telemetry collection, feature engineering and model serving.
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @description                JWT from /api/v1/auth/token, sent as "Bearer <token>"
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	migrate := flag.Bool("migrate", false, "run database migrations and exit")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("f1-predictor %s\n", version)
		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Setup(cfg.App.LogLevel, cfg.App.Mode)
	logger.Infof("Starting %s %s in %s mode", cfg.App.Name, version, cfg.App.Mode)

	if *migrate {
		return runMigrations(cfg)
	}

	// Storage is optional. A database that is enabled but unreachable at
	// boot degrades the storage endpoints to 503 instead of killing the
	// process; prediction serving never depends on it.
	var db *database.DB
	if cfg.Database.Enabled {
		db, err = database.New(cfg.Database.ToDBConfig())
		if err != nil {
			logger.Errorf("Database unavailable, continuing without storage: %v", err)
			db = nil
		} else {
			defer db.Close()
			logger.Info("Database connection established")
		}
	}

	bus := events.NewEventBus(cfg.Events.BufferSize)
	eventLogger := events.NewEventLogger(db, bus.SubscribeAll())
	eventLogger.Start()
	pub := events.NewPublisher(bus)

	if cfg.Prometheus.Enabled {
		metrics.StartServer(cfg.Prometheus.Port)
	}

	store := model.NewStore(cfg.Model.Path)
	if info, err := store.Load(); err != nil {
		logger.Errorf("Model load failed, serving unhealthy until reload: %v", err)
		metrics.Get().SetModelLoaded(false)
	} else {
		logger.WithFields(map[string]interface{}{
			"version":  info.Version,
			"features": info.FeatureCount,
			"trees":    info.TreeCount,
		}).Info("Model loaded")
		metrics.Get().SetModelLoaded(true)
		pub.ModelLoaded(info.Version, info.FeatureCount, info.TreeCount)
	}

	transformer := features.New(cfg.Features.CompoundCategories)
	service := predictor.NewService(store, transformer)

	httpCollector := collector.NewHTTPCollector(collector.HTTPCollectorConfig{
		Endpoint: cfg.Collector.Endpoint,
		Timeout:  cfg.Collector.Timeout,
	})
	resilient := collector.NewResilientCollector(collector.ResilientCollectorConfig{
		Collector:     httpCollector,
		MaxFailures:   cfg.Collector.CircuitBreaker.MaxFailures,
		Timeout:       cfg.Collector.CircuitBreaker.Timeout,
		RetryAttempts: cfg.Collector.RetryAttempts,
		RetryDelay:    cfg.Collector.RetryDelay,
		OnStateChange: func(name string, _, to resilience.State) {
			metrics.Get().SetCircuitBreakerState(name, int(to))
		},
	})
	defer resilient.Close()

	var lapStore pipeline.LapStore
	if db != nil {
		lapStore = queries.NewLapRepository(db.DB)
	}

	pipe := pipeline.NewPipeline(pipeline.Config{
		Collector:    resilient,
		Transformer:  transformer,
		RawDir:       cfg.Data.RawDir,
		ProcessedDir: cfg.Data.ProcessedDir,
		Store:        lapStore,
		Publisher:    pub,
	})

	server := api.NewServer(cfg, api.Dependencies{
		DB:        db,
		Store:     store,
		Service:   service,
		Bus:       bus,
		Publisher: pub,
		Pipeline:  pipe,
	})

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Infof("API server listening on port %d", cfg.API.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdownChan:
		logger.Infof("Received signal %v, shutting down", sig)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	bus.Close()
	eventLogger.Stop()

	logger.Info("Server stopped gracefully")
	return nil
}

func runMigrations(cfg *config.Config) error {
	if !cfg.Database.Enabled {
		return fmt.Errorf("migrations require database.enabled")
	}

	db, err := database.New(cfg.Database.ToDBConfig())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	timeout := cfg.Database.MigrationTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Info("Running database migrations")
	migrator := database.NewMigrator(db)
	if err := migrator.Run(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Migrations completed successfully")
	return nil
}
