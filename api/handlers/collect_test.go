package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/f1-predictor/internal/collector"
	"github.com/OldStager01/f1-predictor/internal/features"
	"github.com/OldStager01/f1-predictor/internal/pipeline"
	"github.com/OldStager01/f1-predictor/pkg/models"
)

func fp(v float64) *float64 { return &v }
func sp(v string) *string   { return &v }
func bp(v bool) *bool       { return &v }

func cannedSession(season int, event string) *models.Session {
	return &models.Session{
		Season: season,
		Event:  event,
		Type:   "R",
		Laps: []models.Lap{
			{
				Season: season, Event: event, Driver: "VER", DriverNumber: "1",
				Team: "Red Bull Racing", LapNumber: 12, LapTime: fp(85.2),
				Sector1Time: fp(28.1), Sector2Time: fp(28.4), Sector3Time: fp(28.7),
				Compound: sp("SOFT"), IsPersonalBest: bp(true),
				Position: 1, Points: 25, Win: 1,
			},
			{
				Season: season, Event: event, Driver: "SAI", DriverNumber: "55",
				Team: "Ferrari", LapNumber: 12, LapTime: fp(86.9),
				Sector1Time: fp(28.8), Sector2Time: fp(29.0), Sector3Time: fp(29.1),
				Compound: sp("MEDIUM"), IsPersonalBest: bp(false),
				Position: 4, Points: 12, Win: 0,
			},
		},
		Results: []models.Result{
			{DriverNumber: "1", Driver: "VER", Position: 1, Points: 25},
			{DriverNumber: "55", Driver: "SAI", Position: 4, Points: 12},
		},
		CollectedAt: time.Now().UTC(),
	}
}

func collectRouter(t *testing.T, mock *collector.MockCollector) *gin.Engine {
	t.Helper()

	pub, _ := newPublisher(t)
	dir := t.TempDir()
	pipe := pipeline.NewPipeline(pipeline.Config{
		Collector:    mock,
		Transformer:  features.New(nil),
		RawDir:       dir,
		ProcessedDir: dir,
		Publisher:    pub,
	})

	h := NewCollectHandler(pipe)
	router := gin.New()
	router.POST("/collect", h.Collect)
	return router
}

func TestCollect_ReturnsSummary(t *testing.T) {
	mock := collector.NewMockCollector()
	mock.SetSession(2023, "Monza", cannedSession(2023, "Monza"))
	router := collectRouter(t, mock)

	w := performRequest(router, http.MethodPost, "/collect", `{"season": 2023, "event": "Monza"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var summary pipeline.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 2023, summary.Season)
	assert.Equal(t, "Monza", summary.Event)
	assert.Equal(t, 2, summary.Laps)
	assert.Equal(t, 2, summary.Results)
	assert.NotEmpty(t, summary.RawPath)
	assert.Equal(t, 2, summary.ProcessedRows)
}

func TestCollect_BadRequests(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantError string
	}{
		{
			name:      "malformed json",
			body:      `{"season":`,
			wantError: "invalid request body",
		},
		{
			name:      "missing event",
			body:      `{"season": 2023}`,
			wantError: "invalid request body",
		},
		{
			name:      "season before first championship",
			body:      `{"season": 1900, "event": "Monza"}`,
			wantError: "season",
		},
		{
			name:      "event with sql metacharacters",
			body:      `{"season": 2023, "event": "Monza; DROP TABLE laps"}`,
			wantError: "event name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := collector.NewMockCollector()
			router := collectRouter(t, mock)

			w := performRequest(router, http.MethodPost, "/collect", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantError)
			assert.Zero(t, mock.CollectCalls(), "invalid requests must not reach the provider")
		})
	}
}

func TestCollect_UnknownSessionIsProviderFailure(t *testing.T) {
	router := collectRouter(t, collector.NewMockCollector())

	w := performRequest(router, http.MethodPost, "/collect", `{"season": 2023, "event": "Monza"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"error": "collection failed"}`, w.Body.String())
}

func TestCollect_ProviderOutage(t *testing.T) {
	mock := collector.NewMockCollector()
	mock.SetShouldFail(true, nil)
	router := collectRouter(t, mock)

	w := performRequest(router, http.MethodPost, "/collect", `{"season": 2023, "event": "Monza"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"error": "collection failed"}`, w.Body.String())
}
