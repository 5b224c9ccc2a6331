package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/f1-predictor/api"
	"github.com/OldStager01/f1-predictor/internal/auth"
	"github.com/OldStager01/f1-predictor/internal/collector"
	"github.com/OldStager01/f1-predictor/internal/dataset"
	"github.com/OldStager01/f1-predictor/internal/events"
	"github.com/OldStager01/f1-predictor/internal/features"
	"github.com/OldStager01/f1-predictor/internal/model"
	"github.com/OldStager01/f1-predictor/internal/pipeline"
	"github.com/OldStager01/f1-predictor/internal/predictor"
	"github.com/OldStager01/f1-predictor/internal/resilience"
	"github.com/OldStager01/f1-predictor/internal/simulator"
	"github.com/OldStager01/f1-predictor/pkg/config"
	"github.com/OldStager01/f1-predictor/pkg/models"
)

const apiKey = "integration-admin-key"

// serving schema for records carrying sector times, a compound and a
// personal-best flag
var featureSchema = []string{
	"Sector1Time", "Sector2Time", "Sector3Time", "IsPersonalBest",
	"AvgSectorTime", "FastestLap", "Compound_MEDIUM", "Compound_SOFT",
}

func writeArtifact(t *testing.T, path string) {
	t.Helper()

	index := func(name string) int {
		for i, n := range featureSchema {
			if n == name {
				return i
			}
		}
		t.Fatalf("feature %s not in schema", name)
		return -1
	}

	doc := map[string]interface{}{
		"version":             "3.1.0",
		"algorithm":           "random_forest",
		"feature_names":       featureSchema,
		"compound_categories": []string{"HARD", "MEDIUM", "SOFT"},
		"trees": []map[string]interface{}{
			{
				"nodes": []map[string]interface{}{
					{"feature": index("AvgSectorTime"), "threshold": 29.0, "left": 1, "right": 2},
					{"leaf": true, "value": 0.9},
					{"leaf": true, "value": 0.1},
				},
			},
			{
				"nodes": []map[string]interface{}{
					{"feature": index("FastestLap"), "threshold": 0.5, "left": 1, "right": 2},
					{"leaf": true, "value": 0.2},
					{"leaf": true, "value": 0.8},
				},
			},
		},
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))
}

type testStack struct {
	server *api.Server
	mock   *collector.MockCollector
	store  *model.Store
}

// newStack wires the full server the way the predictor binary does, minus
// the database.
func newStack(t *testing.T) *testStack {
	t.Helper()

	dir := t.TempDir()
	artifactPath := filepath.Join(dir, "model.json")
	writeArtifact(t, artifactPath)

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.App.Mode = "test"
	cfg.Model.Path = artifactPath
	cfg.Data.RawDir = dir
	cfg.Data.ProcessedDir = dir

	hash, err := auth.HashAPIKey(apiKey)
	require.NoError(t, err)
	cfg.API.Auth.APIKeyHash = hash

	store := model.NewStore(cfg.Model.Path)
	_, err = store.Load()
	require.NoError(t, err)

	transformer := features.New(cfg.Features.CompoundCategories)
	service := predictor.NewService(store, transformer)

	bus := events.NewEventBus(cfg.Events.BufferSize)
	publisher := events.NewPublisher(bus)

	mock := collector.NewMockCollector()
	pipe := pipeline.NewPipeline(pipeline.Config{
		Collector:    mock,
		Transformer:  transformer,
		RawDir:       cfg.Data.RawDir,
		ProcessedDir: cfg.Data.ProcessedDir,
		Publisher:    publisher,
	})

	server := api.NewServer(cfg, api.Dependencies{
		Store:     store,
		Service:   service,
		Bus:       bus,
		Publisher: publisher,
		Pipeline:  pipe,
	})

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		server.Shutdown(ctx)
		bus.Close()
	})

	return &testStack{server: server, mock: mock, store: store}
}

func (s *testStack) request(method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.server.Router().ServeHTTP(w, req)
	return w
}

func (s *testStack) token(t *testing.T) string {
	t.Helper()

	w := s.request(http.MethodPost, "/api/v1/auth/token", fmt.Sprintf(`{"api_key": %q}`, apiKey), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestServer_PredictionFlow(t *testing.T) {
	stack := newStack(t)

	w := stack.request(http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "healthy"}`, w.Body.String())

	w = stack.request(http.MethodGet, "/model", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version":"3.1.0"`)

	fast := `{"Sector1Time": 25.3, "Sector2Time": 30.1, "Sector3Time": 28.7, "Compound": "MEDIUM", "IsPersonalBest": true}`
	w = stack.request(http.MethodPost, "/predict", fast, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"winner": true}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))

	slow := `{"Sector1Time": 31.0, "Sector2Time": 32.0, "Sector3Time": 30.0, "Compound": "HARD", "IsPersonalBest": false}`
	w = stack.request(http.MethodPost, "/predict", "["+fast+","+slow+"]", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `[{"winner": true}, {"winner": false}]`, w.Body.String())

	w = stack.request(http.MethodPost, "/predict", "[]", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error": "empty input"}`, w.Body.String())
}

func TestServer_AdminFlow(t *testing.T) {
	stack := newStack(t)
	stack.mock.SetSession(2024, "Suzuka", simulator.GenerateRace(2024, "Suzuka", simulator.RaceConfig{Laps: 10, Seed: 7}))

	// Protected routes demand a token.
	w := stack.request(http.MethodPost, "/api/v1/collect", `{"season": 2024, "event": "Suzuka"}`, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	token := stack.token(t)

	w = stack.request(http.MethodPost, "/api/v1/collect", `{"season": 2024, "event": "Suzuka"}`, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var summary pipeline.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 2024, summary.Season)
	assert.Greater(t, summary.Laps, 0)
	assert.Equal(t, summary.Laps, summary.ProcessedRows)
	assert.FileExists(t, summary.RawPath)
	assert.FileExists(t, summary.ProcessedPath)

	w = stack.request(http.MethodGet, "/api/v1/status", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"model_loaded":true`)

	// No database wired, so storage endpoints degrade instead of failing.
	w = stack.request(http.MethodGet, "/api/v1/laps", "", token)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"error": "storage not configured"}`, w.Body.String())
}

func TestResilientCollector_WithCircuitBreaker(t *testing.T) {
	mock := collector.NewMockCollector()
	mock.SetShouldFail(true, nil)

	resilient := collector.NewResilientCollector(collector.ResilientCollectorConfig{
		Collector:     mock,
		MaxFailures:   3,
		Timeout:       100 * time.Millisecond,
		RetryAttempts: 1,
		RetryDelay:    time.Millisecond,
	})

	ctx := context.Background()

	// Fail enough times to open the circuit
	for i := 0; i < 3; i++ {
		resilient.Collect(ctx, 2024, "Suzuka")
	}

	assert.Equal(t, resilience.StateOpen, resilient.CircuitState())

	// Open circuit rejects without calling the provider
	calls := mock.CollectCalls()
	_, err := resilient.Collect(ctx, 2024, "Suzuka")
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, calls, mock.CollectCalls())

	// After the timeout the breaker probes again; enough successes close it
	mock.SetShouldFail(false, nil)
	mock.SetSession(2024, "Suzuka", simulator.GenerateRace(2024, "Suzuka", simulator.RaceConfig{Laps: 5, Seed: 1}))
	time.Sleep(150 * time.Millisecond)

	for i := 0; i < 3; i++ {
		session, err := resilient.Collect(ctx, 2024, "Suzuka")
		require.NoError(t, err)
		assert.NotEmpty(t, session.Laps)
	}
	assert.Equal(t, resilience.StateClosed, resilient.CircuitState())
}

func TestSimulatorCollectAndPredict(t *testing.T) {
	sim := simulator.New(simulator.Config{Seed: 42, Laps: 20})
	provider := httptest.NewServer(sim.Handler())
	defer provider.Close()

	httpCollector := collector.NewHTTPCollector(collector.HTTPCollectorConfig{
		Endpoint: provider.URL,
		Timeout:  5 * time.Second,
	})

	bus := events.NewEventBus(100)
	defer bus.Close()

	dir := t.TempDir()
	pipe := pipeline.NewPipeline(pipeline.Config{
		Collector:    httpCollector,
		Transformer:  features.New(nil),
		RawDir:       dir,
		ProcessedDir: dir,
		Publisher:    events.NewPublisher(bus),
	})

	summary, err := pipe.Run(context.Background(), 2024, "Monza")
	require.NoError(t, err)
	assert.Greater(t, summary.Laps, 100)
	assert.Equal(t, summary.Laps, summary.ProcessedRows)

	columns, records, err := dataset.ReadRecords(summary.RawPath)
	require.NoError(t, err)
	assert.Contains(t, columns, "Sector1Time")
	require.Len(t, records, summary.Laps)

	// Serve predictions for a few collected laps, shaped the way clients
	// send them.
	artifactPath := filepath.Join(dir, "model.json")
	writeArtifact(t, artifactPath)
	store := model.NewStore(artifactPath)
	_, err = store.Load()
	require.NoError(t, err)
	service := predictor.NewService(store, features.New(nil))

	var batch []models.Record
	for _, rec := range records {
		if rec.Get("Sector1Time").IsMissing() ||
			rec.Get("Sector2Time").IsMissing() ||
			rec.Get("Sector3Time").IsMissing() ||
			rec.Get("Compound").IsMissing() {
			continue
		}
		batch = append(batch, models.Record{
			"Sector1Time":    rec.Get("Sector1Time"),
			"Sector2Time":    rec.Get("Sector2Time"),
			"Sector3Time":    rec.Get("Sector3Time"),
			"Compound":       rec.Get("Compound"),
			"IsPersonalBest": rec.Get("IsPersonalBest"),
		})
		if len(batch) == 5 {
			break
		}
	}
	require.Len(t, batch, 5)

	body, err := json.Marshal(batch)
	require.NoError(t, err)

	result, perr := service.Predict(body)
	require.Nil(t, perr)
	assert.Equal(t, 5, result.Rows())
	assert.Equal(t, "3.1.0", result.ModelVersion)
}
