package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/OldStager01/f1-predictor/internal/collector"
	"github.com/OldStager01/f1-predictor/internal/dataset"
	"github.com/OldStager01/f1-predictor/internal/events"
	"github.com/OldStager01/f1-predictor/internal/features"
	"github.com/OldStager01/f1-predictor/internal/logger"
	"github.com/OldStager01/f1-predictor/internal/metrics"
	"github.com/OldStager01/f1-predictor/pkg/models"
)

// LapStore is the slice of the lap repository the pipeline needs. Nil means
// collected sessions are kept on disk only.
type LapStore interface {
	InsertBatch(ctx context.Context, laps []models.Lap) (int, error)
}

type Config struct {
	Collector    collector.Collector
	Transformer  *features.Transformer
	RawDir       string
	ProcessedDir string
	Store        LapStore
	Publisher    *events.Publisher
	Timeout      time.Duration
}

// Pipeline runs one session through collect, raw CSV, transform, processed
// CSV and optional storage. Each run is independent; the zero-value
// timeout defaults to a minute.
type Pipeline struct {
	config Config
}

func NewPipeline(cfg Config) *Pipeline {
	if cfg.Timeout == 0 {
		cfg.Timeout = time.Minute
	}
	return &Pipeline{config: cfg}
}

// Summary reports what one run produced.
type Summary struct {
	Season        int                `json:"season"`
	Event         string             `json:"event"`
	Laps          int                `json:"laps"`
	Results       int                `json:"results"`
	RawPath       string             `json:"raw_path"`
	ProcessedPath string             `json:"processed_path,omitempty"`
	ProcessedRows int                `json:"processed_rows,omitempty"`
	Stored        int                `json:"stored,omitempty"`
	Warnings      []features.Warning `json:"warnings,omitempty"`
	DurationMS    float64            `json:"duration_ms"`
}

// Run executes the pipeline once for a season/event pair.
func (p *Pipeline) Run(ctx context.Context, season int, event string) (*Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	start := time.Now()
	log := logger.WithRace(season, event)

	p.config.Publisher.CollectionStarted(season, event)

	session, err := p.collect(ctx, season, event)
	if err != nil {
		p.config.Publisher.CollectionFailed(season, event, err)
		metrics.Get().IncCollection("failure")
		return nil, err
	}

	summary := &Summary{
		Season:  season,
		Event:   event,
		Laps:    len(session.Laps),
		Results: len(session.Results),
	}

	records := models.RecordBatch(session.Laps)

	summary.RawPath = dataset.RawPath(p.config.RawDir, season, event)
	if err := dataset.WriteRecords(summary.RawPath, models.LapColumns(), records); err != nil {
		p.config.Publisher.Error("Raw dataset write failed", err)
		metrics.Get().IncCollection("failure")
		return nil, fmt.Errorf("write raw dataset: %w", err)
	}
	log.Infof("Wrote %d laps to %s", len(records), summary.RawPath)

	if p.config.Transformer != nil {
		if err := p.process(records, summary); err != nil {
			p.config.Publisher.Error("Feature processing failed", err)
			metrics.Get().IncCollection("failure")
			return nil, err
		}
	}

	if p.config.Store != nil {
		stored, err := p.config.Store.InsertBatch(ctx, session.Laps)
		if err != nil {
			p.config.Publisher.Error("Lap storage failed", err)
			metrics.Get().IncCollection("failure")
			return nil, fmt.Errorf("store laps: %w", err)
		}
		summary.Stored = stored
		log.Infof("Stored %d laps", stored)
	}

	summary.DurationMS = float64(time.Since(start).Microseconds()) / 1000.0

	p.config.Publisher.CollectionCompleted(season, event, len(session.Laps))
	metrics.Get().IncCollection("success")
	metrics.Get().ObserveCollectionLatency(time.Since(start))

	return summary, nil
}

func (p *Pipeline) collect(ctx context.Context, season int, event string) (*models.Session, error) {
	session, err := p.config.Collector.Collect(ctx, season, event)
	if err != nil {
		return nil, fmt.Errorf("collect session: %w", err)
	}
	return session, nil
}

func (p *Pipeline) process(records []models.Record, summary *Summary) error {
	frame, warnings, err := p.config.Transformer.Transform(records)
	if err != nil {
		return fmt.Errorf("transform laps: %w", err)
	}

	summary.Warnings = warnings
	p.config.Publisher.TransformWarnings(warnings)
	for _, w := range warnings {
		metrics.Get().IncTransformWarning(string(w.Code))
	}

	summary.ProcessedPath = dataset.ProcessedPath(p.config.ProcessedDir, summary.Season, summary.Event)
	if err := dataset.WriteFrame(summary.ProcessedPath, frame); err != nil {
		return fmt.Errorf("write processed dataset: %w", err)
	}
	summary.ProcessedRows = frame.NumRows()

	logger.WithRace(summary.Season, summary.Event).Infof(
		"Wrote %d processed rows to %s", frame.NumRows(), summary.ProcessedPath)

	return nil
}
