package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/f1-predictor/internal/events"
	"github.com/OldStager01/f1-predictor/internal/features"
	"github.com/OldStager01/f1-predictor/internal/model"
	"github.com/OldStager01/f1-predictor/internal/predictor"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fullSchema matches what the transformer produces for records holding the
// three sector times, a compound and a personal-best flag.
var fullSchema = []string{
	"Sector1Time", "Sector2Time", "Sector3Time", "IsPersonalBest",
	"AvgSectorTime", "FastestLap", "Compound_MEDIUM", "Compound_SOFT",
}

const fastLap = `{"Sector1Time":25.3,"Sector2Time":30.1,"Sector3Time":28.7,"Compound":"MEDIUM","IsPersonalBest":true}`
const slowLap = `{"Sector1Time":31.0,"Sector2Time":32.0,"Sector3Time":30.0,"Compound":"HARD","IsPersonalBest":false}`

// writeArtifact materializes a two-tree forest fixture: fast average sectors
// and fastest-lap flags score as winners.
func writeArtifact(t *testing.T, path, version string, featureNames []string) {
	t.Helper()
	doc := map[string]interface{}{
		"version":             version,
		"algorithm":           "random_forest",
		"feature_names":       featureNames,
		"compound_categories": []string{"HARD", "MEDIUM", "SOFT"},
		"trees": []map[string]interface{}{
			{
				"nodes": []map[string]interface{}{
					{"feature": indexOf(t, featureNames, "AvgSectorTime"), "threshold": 29.0, "left": 1, "right": 2},
					{"leaf": true, "value": 0.9},
					{"leaf": true, "value": 0.1},
				},
			},
			{
				"nodes": []map[string]interface{}{
					{"feature": indexOf(t, featureNames, "FastestLap"), "threshold": 0.5, "left": 1, "right": 2},
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

func indexOf(t *testing.T, names []string, want string) int {
	t.Helper()
	for i, n := range names {
		if n == want {
			return i
		}
	}
	t.Fatalf("feature %s not in %v", want, names)
	return -1
}

// loadedStore returns a store serving the fixture artifact plus its path so
// reload tests can rewrite or remove the file.
func loadedStore(t *testing.T) (*model.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	writeArtifact(t, path, "1.2.0", fullSchema)

	store := model.NewStore(path)
	_, err := store.Load()
	require.NoError(t, err)
	return store, path
}

func emptyStore(t *testing.T) *model.Store {
	t.Helper()
	return model.NewStore(filepath.Join(t.TempDir(), "missing.json"))
}

func newPublisher(t *testing.T) (*events.Publisher, *events.EventBus) {
	t.Helper()
	bus := events.NewEventBus(50)
	t.Cleanup(bus.Close)
	return events.NewPublisher(bus), bus
}

func newPredictService(t *testing.T) *predictor.Service {
	t.Helper()
	store, _ := loadedStore(t)
	return predictor.NewService(store, features.New(nil))
}

func performRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
