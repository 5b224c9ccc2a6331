package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/OldStager01/f1-predictor/internal/collector"
	"github.com/OldStager01/f1-predictor/internal/events"
	"github.com/OldStager01/f1-predictor/internal/features"
	"github.com/OldStager01/f1-predictor/internal/logger"
	"github.com/OldStager01/f1-predictor/internal/pipeline"
	"github.com/OldStager01/f1-predictor/internal/resilience"
	"github.com/OldStager01/f1-predictor/pkg/config"
	"github.com/OldStager01/f1-predictor/pkg/database"
	"github.com/OldStager01/f1-predictor/pkg/database/queries"
	"github.com/OldStager01/f1-predictor/pkg/validation"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	season := flag.Int("season", 0, "championship season, e.g. 2023")
	event := flag.String("event", "", "grand prix name, e.g. Monza")
	outDir := flag.String("out-dir", "", "override the raw and processed data directories")
	process := flag.Bool("process", true, "run feature engineering on the collected session")
	store := flag.Bool("store", false, "insert laps into PostgreSQL (requires database.enabled)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Setup(cfg.App.LogLevel, cfg.App.Mode)

	if err := validation.ValidateSeason(*season); err != nil {
		return err
	}
	if err := validation.ValidateEventName(*event); err != nil {
		return err
	}

	rawDir, processedDir := cfg.Data.RawDir, cfg.Data.ProcessedDir
	if *outDir != "" {
		rawDir, processedDir = *outDir, *outDir
	}

	var lapStore pipeline.LapStore
	if *store {
		if !cfg.Database.Enabled {
			return fmt.Errorf("-store requires database.enabled")
		}
		db, err := database.New(cfg.Database.ToDBConfig())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		lapStore = queries.NewLapRepository(db.DB)
	}

	bus := events.NewEventBus(cfg.Events.BufferSize)
	defer bus.Close()
	eventLogger := events.NewEventLogger(nil, bus.SubscribeAll())
	eventLogger.Start()

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
			logger.Infof("Circuit %s now %s", name, to)
		},
	})
	defer resilient.Close()

	var transformer *features.Transformer
	if *process {
		transformer = features.New(cfg.Features.CompoundCategories)
	}

	pipe := pipeline.NewPipeline(pipeline.Config{
		Collector:    resilient,
		Transformer:  transformer,
		RawDir:       rawDir,
		ProcessedDir: processedDir,
		Store:        lapStore,
		Publisher:    events.NewPublisher(bus),
	})

	summary, err := pipe.Run(context.Background(), *season, validation.SanitizeString(*event))
	if err != nil {
		return fmt.Errorf("collection failed: %w", err)
	}

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
