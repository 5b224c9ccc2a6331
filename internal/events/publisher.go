package events

import (
	"fmt"

	"github.com/OldStager01/f1-predictor/internal/features"
	"github.com/OldStager01/f1-predictor/pkg/models"
)

type Publisher struct {
	bus     *EventBus
	traceID string
}

func NewPublisher(bus *EventBus) *Publisher {
	return &Publisher{bus: bus}
}

func (p *Publisher) WithTraceID(traceID string) *Publisher {
	return &Publisher{
		bus:     p.bus,
		traceID: traceID,
	}
}

func (p *Publisher) publish(event *models.Event) {
	if p.traceID != "" {
		event.TraceID = p.traceID
	}
	p.bus.Publish(event)
}

func (p *Publisher) PredictionServed(logs []*models.PredictionLog) {
	winners := 0
	for _, l := range logs {
		if l.Winner {
			winners++
		}
	}
	msg := fmt.Sprintf("Prediction served: %d rows, %d winners", len(logs), winners)
	event := models.NewEvent(models.EventTypePredictionServed, msg).
		WithData(logs)
	p.publish(event)
}

func (p *Publisher) PredictionRejected(kind string, status int) {
	event := models.NewEvent(models.EventTypePredictionRejected, "Prediction rejected: "+kind).
		WithData(map[string]interface{}{
			"kind":   kind,
			"status": status,
		})

	if status >= 500 {
		event.WithSeverity(models.SeverityCritical)
	} else {
		event.WithSeverity(models.SeverityWarning)
	}

	p.publish(event)
}

func (p *Publisher) CollectionStarted(season int, eventName string) {
	race := models.RaceLabel(season, eventName)
	event := models.NewEvent(models.EventTypeCollectionStarted, "Collection started").
		WithRace(race)
	p.publish(event)
}

func (p *Publisher) CollectionCompleted(season int, eventName string, laps int) {
	race := models.RaceLabel(season, eventName)
	msg := fmt.Sprintf("Collection complete: %d laps", laps)
	event := models.NewEvent(models.EventTypeCollectionCompleted, msg).
		WithRace(race).
		WithData(map[string]interface{}{
			"laps": laps,
		})
	p.publish(event)
}

func (p *Publisher) CollectionFailed(season int, eventName string, err error) {
	race := models.RaceLabel(season, eventName)
	event := models.NewEvent(models.EventTypeCollectionFailed, "Collection failed").
		WithSeverity(models.SeverityCritical).
		WithRace(race).
		WithData(map[string]interface{}{
			"error": err.Error(),
		})
	p.publish(event)
}

func (p *Publisher) ModelLoaded(version string, featureCount, treeCount int) {
	msg := fmt.Sprintf("Model %s loaded: %d features, %d trees", version, featureCount, treeCount)
	event := models.NewEvent(models.EventTypeModelLoaded, msg).
		WithData(map[string]interface{}{
			"version":       version,
			"feature_count": featureCount,
			"tree_count":    treeCount,
		})
	p.publish(event)
}

func (p *Publisher) ModelReloaded(version string, featureCount, treeCount int) {
	event := models.NewEvent(models.EventTypeModelReloaded, "Model reloaded: now serving "+version).
		WithData(map[string]interface{}{
			"version":       version,
			"feature_count": featureCount,
			"tree_count":    treeCount,
		})
	p.publish(event)
}

func (p *Publisher) ModelReloadFailed(err error) {
	event := models.NewEvent(models.EventTypeModelReloadFailed, "Model reload failed").
		WithSeverity(models.SeverityCritical).
		WithData(map[string]interface{}{
			"error": err.Error(),
		})
	p.publish(event)
}

func (p *Publisher) TransformWarnings(warnings []features.Warning) {
	if len(warnings) == 0 {
		return
	}
	codes := make([]string, len(warnings))
	for i, w := range warnings {
		codes[i] = string(w.Code)
	}
	msg := fmt.Sprintf("Preprocessing produced %d warnings", len(warnings))
	event := models.NewEvent(models.EventTypeTransformWarning, msg).
		WithSeverity(models.SeverityWarning).
		WithData(map[string]interface{}{
			"codes":    codes,
			"warnings": warnings,
		})
	p.publish(event)
}

func (p *Publisher) Error(message string, err error) {
	event := models.NewEvent(models.EventTypeError, message).
		WithSeverity(models.SeverityCritical).
		WithData(map[string]interface{}{
			"error": err.Error(),
		})
	p.publish(event)
}
