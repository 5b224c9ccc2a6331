package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/OldStager01/f1-predictor/internal/logger"
	"github.com/OldStager01/f1-predictor/pkg/models"
)

type Config struct {
	Port int
	Seed int64
	Laps int
}

// Simulator serves generated race sessions over the timing-provider wire
// API. Sessions are generated on first request and cached, so repeated
// collections of the same event see identical data.
type Simulator struct {
	config     Config
	sessions   map[string]*models.Session
	conditions map[string]Condition
	mu         sync.RWMutex
	httpServer *http.Server
}

func New(cfg Config) *Simulator {
	if cfg.Port == 0 {
		cfg.Port = 9000
	}
	if cfg.Laps <= 0 {
		cfg.Laps = 52
	}

	return &Simulator{
		config:     cfg,
		sessions:   make(map[string]*models.Session),
		conditions: make(map[string]Condition),
	}
}

func cors(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// Handler builds the provider API routes.
func (s *Simulator) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", cors(s.healthHandler))
	mux.HandleFunc("/api/v1/sessions", cors(s.listSessionsHandler))
	mux.HandleFunc("/api/v1/sessions/", cors(s.sessionHandler))
	mux.HandleFunc("/api/v1/condition", cors(s.conditionHandler))

	return mux
}

func (s *Simulator) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logger.Infof("Simulator listening on %s", addr)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("Simulator server error: %v", err)
		}
	}()

	return nil
}

func (s *Simulator) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// GetOrCreateSession returns the cached session for a race, generating it
// on first access.
func (s *Simulator) GetOrCreateSession(season int, event string) *models.Session {
	key := models.RaceLabel(season, event)

	s.mu.Lock()
	defer s.mu.Unlock()

	if session, exists := s.sessions[key]; exists {
		return session
	}

	session := GenerateRace(season, event, RaceConfig{
		Laps:      s.config.Laps,
		Seed:      s.config.Seed,
		Condition: s.conditions[key],
	})
	s.sessions[key] = session

	logger.WithRace(season, event).Infof("Generated session: %d laps, %d classified",
		len(session.Laps), len(session.Results))
	return session
}

// HTTP handlers

func (s *Simulator) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "session-simulator",
	})
}

// wire types for the provider payload

type wireSession struct {
	Session wireMeta     `json:"session"`
	Laps    []wireLap    `json:"laps"`
	Results []wireResult `json:"results"`
}

type wireMeta struct {
	Season int    `json:"season"`
	Event  string `json:"event"`
	Type   string `json:"type"`
}

type wireLap struct {
	Time           *float64 `json:"time"`
	Driver         string   `json:"driver"`
	DriverNumber   string   `json:"driver_number"`
	Team           string   `json:"team"`
	LapNumber      int      `json:"lap_number"`
	LapTime        *float64 `json:"lap_time"`
	Sector1Time    *float64 `json:"sector1_time"`
	Sector2Time    *float64 `json:"sector2_time"`
	Sector3Time    *float64 `json:"sector3_time"`
	Compound       *string  `json:"compound"`
	IsPersonalBest *bool    `json:"is_personal_best"`
}

type wireResult struct {
	DriverNumber string  `json:"driver_number"`
	Driver       string  `json:"driver"`
	Position     int     `json:"position"`
	Points       float64 `json:"points"`
}

// sessionHandler serves GET /api/v1/sessions/{season}/{event}/{type}
func (s *Simulator) sessionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/v1/sessions/"), "/")
	if len(parts) != 3 {
		http.Error(w, "expected /api/v1/sessions/{season}/{event}/{type}", http.StatusBadRequest)
		return
	}

	season, err := strconv.Atoi(parts[0])
	if err != nil {
		http.Error(w, "invalid season", http.StatusBadRequest)
		return
	}

	event, err := url.PathUnescape(parts[1])
	if err != nil || event == "" {
		http.Error(w, "invalid event", http.StatusBadRequest)
		return
	}

	if parts[2] != models.SessionTypeRace {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	session := s.GetOrCreateSession(season, event)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toWire(session))
}

func toWire(session *models.Session) wireSession {
	laps := make([]wireLap, len(session.Laps))
	for i, l := range session.Laps {
		laps[i] = wireLap{
			Time:           l.Time,
			Driver:         l.Driver,
			DriverNumber:   l.DriverNumber,
			Team:           l.Team,
			LapNumber:      l.LapNumber,
			LapTime:        l.LapTime,
			Sector1Time:    l.Sector1Time,
			Sector2Time:    l.Sector2Time,
			Sector3Time:    l.Sector3Time,
			Compound:       l.Compound,
			IsPersonalBest: l.IsPersonalBest,
		}
	}

	results := make([]wireResult, len(session.Results))
	for i, r := range session.Results {
		results[i] = wireResult{
			DriverNumber: r.DriverNumber,
			Driver:       r.Driver,
			Position:     r.Position,
			Points:       r.Points,
		}
	}

	return wireSession{
		Session: wireMeta{
			Season: session.Season,
			Event:  session.Event,
			Type:   session.Type,
		},
		Laps:    laps,
		Results: results,
	}
}

func (s *Simulator) listSessionsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.RLock()
	sessions := make([]map[string]interface{}, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, map[string]interface{}{
			"season":     session.Season,
			"event":      session.Event,
			"laps":       len(session.Laps),
			"classified": len(session.Results),
		})
	}
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

type ConditionRequest struct {
	Season    int    `json:"season"`
	Event     string `json:"event"`
	Condition string `json:"condition"` // "dry", "hot", "rain", "drying"
}

// conditionHandler sets the track condition for a race and drops any cached
// session so the next fetch regenerates under the new profile.
func (s *Simulator) conditionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ConditionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	condition := ParseCondition(req.Condition)
	key := models.RaceLabel(req.Season, req.Event)

	s.mu.Lock()
	s.conditions[key] = condition
	delete(s.sessions, key)
	s.mu.Unlock()

	logger.Infof("Set condition %s on %s", condition.Name(), key)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":   "condition set",
		"season":    req.Season,
		"event":     req.Event,
		"condition": condition.Name(),
	})
}
