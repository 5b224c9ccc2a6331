package websocket

import (
	"sync"

	"github.com/OldStager01/f1-predictor/internal/logger"
	"github.com/OldStager01/f1-predictor/internal/metrics"
	"github.com/OldStager01/f1-predictor/pkg/config"
)

const defaultBroadcastBuffer = 256

// Hub owns the set of connected clients. Register, unregister and global
// broadcasts all funnel through Run's loop; race-scoped sends read the
// client set directly under the lock.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	settings   *WebSocketSettings
}

func NewHub(cfg *config.WebSocketConfig) *Hub {
	broadcastBuffer := defaultBroadcastBuffer
	if cfg != nil && cfg.BroadcastBuffer > 0 {
		broadcastBuffer = cfg.BroadcastBuffer
	}

	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		settings:   NewWebSocketSettings(cfg),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.add(client)
		case client := <-h.unregister:
			h.drop(client)
		case message := <-h.broadcast:
			h.fanOut(message)
		}
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()

	metrics.Get().SetWSClients(h.ClientCount())
	logger.Infof("WebSocket client connected (total: %d)", h.ClientCount())
}

func (h *Hub) drop(client *Client) {
	h.mu.Lock()
	_, known := h.clients[client]
	if known {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()

	if known {
		metrics.Get().SetWSClients(h.ClientCount())
		logger.Infof("WebSocket client disconnected (total: %d)", h.ClientCount())
	}
}

// fanOut delivers to every client. Clients whose send buffer is full are
// disconnected: a reader that stopped draining would otherwise pin the
// buffer forever.
func (h *Hub) fanOut(message []byte) {
	var stalled []*Client

	h.mu.RLock()
	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			stalled = append(stalled, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stalled {
		h.drop(client)
	}
}

// Broadcast queues a message for every client, dropping it when the hub
// cannot keep up.
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		logger.Warn("Broadcast channel full, dropping message")
	}
}

// BroadcastToRace delivers a race-scoped message. Clients subscribed to a
// specific race only see that race; clients with no filter see everything.
func (h *Hub) BroadcastToRace(race string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if client.race == "" || client.race == race {
			select {
			case client.send <- message:
			default:
			}
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// AtCapacity reports whether the connection limit has been reached.
func (h *Hub) AtCapacity() bool {
	return h.ClientCount() >= h.settings.MaxConnections
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}
