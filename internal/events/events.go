package events

import (
	"sync"

	"github.com/OldStager01/f1-predictor/internal/logger"
	"github.com/OldStager01/f1-predictor/pkg/models"
)

const defaultBufferSize = 100

// EventBus fans events out to typed subscribers and to catch-all
// subscribers. Delivery is best effort: see Publish.
type EventBus struct {
	mu         sync.RWMutex
	typed      map[models.EventType][]chan *models.Event
	all        []chan *models.Event
	bufferSize int
	closed     bool
}

func NewEventBus(bufferSize int) *EventBus {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &EventBus{
		typed:      make(map[models.EventType][]chan *models.Event),
		bufferSize: bufferSize,
	}
}

// Subscribe returns a channel receiving only events of the given type.
func (b *EventBus) Subscribe(eventType models.EventType) <-chan *models.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan *models.Event, b.bufferSize)
	b.typed[eventType] = append(b.typed[eventType], ch)
	return ch
}

// SubscribeAll returns a channel receiving every published event, whatever
// its type.
func (b *EventBus) SubscribeAll() <-chan *models.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan *models.Event, b.bufferSize)
	b.all = append(b.all, ch)
	return ch
}

// Publish never blocks the publishing path: a subscriber that cannot keep
// up loses events rather than stalling a prediction request.
func (b *EventBus) Publish(event *models.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, ch := range b.typed[event.Type] {
		b.offer(ch, event)
	}
	for _, ch := range b.all {
		b.offer(ch, event)
	}
}

func (b *EventBus) offer(ch chan *models.Event, event *models.Event) {
	select {
	case ch <- event:
	default:
		logger.Warnf("Event channel full, dropping event: %s", event.Type)
	}
}

// Close ends every subscription. Publishing afterwards is a no-op.
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for _, subscribers := range b.typed {
		for _, ch := range subscribers {
			close(ch)
		}
	}
	for _, ch := range b.all {
		close(ch)
	}

	b.typed = make(map[models.EventType][]chan *models.Event)
	b.all = nil
}
