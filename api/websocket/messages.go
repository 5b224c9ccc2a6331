package websocket

import (
	"encoding/json"
	"time"

	"github.com/OldStager01/f1-predictor/pkg/models"
)

type MessageType string

const (
	MessageTypeWelcome      MessageType = "welcome"
	MessageTypeEvent        MessageType = "event"
	MessageTypeSubscription MessageType = "subscription_update"
)

type OutgoingMessage struct {
	Type      MessageType   `json:"type"`
	Race      string        `json:"race,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Event     *models.Event `json:"event,omitempty"`
	Data      interface{}   `json:"data,omitempty"`
}

func NewMessage(msgType MessageType, race string, data interface{}) *OutgoingMessage {
	return &OutgoingMessage{
		Type:      msgType,
		Race:      race,
		Timestamp: time.Now(),
		Data:      data,
	}
}

// NewEventMessage wraps an internal event for the stream, carrying it whole
// so clients see the same shape the event log does.
func NewEventMessage(event *models.Event) *OutgoingMessage {
	return &OutgoingMessage{
		Type:      MessageTypeEvent,
		Race:      event.Race,
		Timestamp: event.Timestamp,
		Event:     event,
	}
}

func (m *OutgoingMessage) JSON() []byte {
	data, _ := json.Marshal(m)
	return data
}
