package websocket

import (
	"time"

	"github.com/OldStager01/f1-predictor/pkg/config"
)

// Defaults applied when the config omits a value.
const (
	defaultWriteTimeout    = 10 * time.Second
	defaultPongTimeout     = 60 * time.Second
	defaultMaxMessageSize  = 4096
	defaultReadBufferSize  = 1024
	defaultWriteBufferSize = 1024
	defaultClientBuffer    = 64
	defaultMaxConnections  = 1000
)

// WebSocketSettings are the per-connection knobs, resolved once at hub
// construction so clients never consult raw config.
type WebSocketSettings struct {
	PingInterval    time.Duration
	WriteTimeout    time.Duration
	PongTimeout     time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	ClientBuffer    int
	MaxConnections  int
}

func NewWebSocketSettings(cfg *config.WebSocketConfig) *WebSocketSettings {
	s := &WebSocketSettings{
		WriteTimeout:    defaultWriteTimeout,
		PongTimeout:     defaultPongTimeout,
		MaxMessageSize:  defaultMaxMessageSize,
		ReadBufferSize:  defaultReadBufferSize,
		WriteBufferSize: defaultWriteBufferSize,
		ClientBuffer:    defaultClientBuffer,
		MaxConnections:  defaultMaxConnections,
	}

	if cfg != nil {
		if cfg.WriteTimeout > 0 {
			s.WriteTimeout = cfg.WriteTimeout
		}
		if cfg.PongTimeout > 0 {
			s.PongTimeout = cfg.PongTimeout
		}
		if cfg.PingInterval > 0 {
			s.PingInterval = cfg.PingInterval
		}
		if cfg.MaxMessageSize > 0 {
			s.MaxMessageSize = cfg.MaxMessageSize
		}
		if cfg.ReadBufferSize > 0 {
			s.ReadBufferSize = cfg.ReadBufferSize
		}
		if cfg.WriteBufferSize > 0 {
			s.WriteBufferSize = cfg.WriteBufferSize
		}
		if cfg.ClientBuffer > 0 {
			s.ClientBuffer = cfg.ClientBuffer
		}
		if cfg.MaxConnections > 0 {
			s.MaxConnections = cfg.MaxConnections
		}
	}

	// Pings must fire comfortably before the pong deadline expires.
	if s.PingInterval <= 0 || s.PingInterval >= s.PongTimeout {
		s.PingInterval = (s.PongTimeout * 9) / 10
	}

	return s
}
