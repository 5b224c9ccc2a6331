package models

import "time"

type EventType string

const (
	EventTypePredictionServed    EventType = "prediction.served"
	EventTypePredictionRejected  EventType = "prediction.rejected"
	EventTypeCollectionStarted   EventType = "collection.started"
	EventTypeCollectionCompleted EventType = "collection.completed"
	EventTypeCollectionFailed    EventType = "collection.failed"
	EventTypeModelLoaded         EventType = "model.loaded"
	EventTypeModelReloaded       EventType = "model.reloaded"
	EventTypeModelReloadFailed   EventType = "model.reload_failed"
	EventTypeTransformWarning    EventType = "transform.warning"
	EventTypeError               EventType = "error"
)

type EventSeverity string

const (
	SeverityInfo     EventSeverity = "info"
	SeverityWarning  EventSeverity = "warning"
	SeverityCritical EventSeverity = "critical"
)

// Event represents an internal system event
type Event struct {
	ID        string        `json:"id"`
	Type      EventType     `json:"type"`
	Severity  EventSeverity `json:"severity"`
	Race      string        `json:"race,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Message   string        `json:"message"`
	Data      interface{}   `json:"data,omitempty"`
	TraceID   string        `json:"trace_id,omitempty"`
}

func NewEvent(eventType EventType, message string) *Event {
	return &Event{
		ID:        NewUUID(),
		Type:      eventType,
		Severity:  SeverityInfo,
		Timestamp: time.Now(),
		Message:   message,
	}
}

func (e *Event) WithSeverity(severity EventSeverity) *Event {
	e.Severity = severity
	return e
}

func (e *Event) WithRace(race string) *Event {
	e.Race = race
	return e
}

func (e *Event) WithData(data interface{}) *Event {
	e.Data = data
	return e
}

func (e *Event) WithTraceID(traceID string) *Event {
	e.TraceID = traceID
	return e
}
