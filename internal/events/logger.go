package events

import (
	"context"
	"encoding/json"

	"github.com/OldStager01/f1-predictor/internal/logger"
	"github.com/OldStager01/f1-predictor/pkg/database"
	"github.com/OldStager01/f1-predictor/pkg/models"
)

// EventLogger consumes the full event stream, writes every event to the
// structured log, and persists served predictions off the request path.
type EventLogger struct {
	db        *database.DB
	eventChan <-chan *models.Event
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewEventLogger creates an event logger. db may be nil, in which case
// events are logged but nothing is persisted.
func NewEventLogger(db *database.DB, eventChan <-chan *models.Event) *EventLogger {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventLogger{
		db:        db,
		eventChan: eventChan,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (l *EventLogger) Start() {
	go l.run()
}

func (l *EventLogger) Stop() {
	l.cancel()
}

func (l *EventLogger) run() {
	for {
		select {
		case <-l.ctx.Done():
			return
		case event, ok := <-l.eventChan:
			if !ok {
				return
			}
			l.processEvent(event)
		}
	}
}

func (l *EventLogger) processEvent(event *models.Event) {
	entry := logger.WithFields(map[string]interface{}{
		"event_type": event.Type,
		"race":       event.Race,
		"severity":   event.Severity,
		"trace_id":   event.TraceID,
	})

	switch event.Severity {
	case models.SeverityCritical:
		entry.Error(event.Message)
	case models.SeverityWarning:
		entry.Warn(event.Message)
	default:
		entry.Info(event.Message)
	}

	if l.db == nil {
		return
	}

	if event.Type == models.EventTypePredictionServed {
		l.persistPredictions(event)
	}
}

func (l *EventLogger) persistPredictions(event *models.Event) {
	logs, ok := event.Data.([]*models.PredictionLog)
	if !ok {
		return
	}

	query := `
		INSERT INTO prediction_logs
			(id, trace_id, batch_size, row_index, winner, model_version, latency_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for _, log := range logs {
		_, err := l.db.ExecContext(l.ctx, query,
			log.ID,
			log.TraceID,
			log.BatchSize,
			log.RowIndex,
			log.Winner,
			log.ModelVersion,
			log.LatencyMS,
			log.CreatedAt,
		)

		if err != nil {
			logger.Errorf("Failed to persist prediction log: %v", err)
		}
	}
}

func (l *EventLogger) LogToJSON(event *models.Event) string {
	data, _ := json.Marshal(event)
	return string(data)
}
