package predictor

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/f1-predictor/internal/features"
	"github.com/OldStager01/f1-predictor/internal/model"
)

// testArtifact writes a small two-tree forest whose schema matches what the
// transformer produces for {Sector1Time, Sector2Time, Sector3Time,
// Compound, IsPersonalBest} records: fast laps and personal bests win.
func testArtifact(t *testing.T, featureNames []string) *model.Store {
	t.Helper()
	doc := map[string]interface{}{
		"version":             "svc-test",
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
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	store := model.NewStore(path)
	_, err = store.Load()
	require.NoError(t, err)
	return store
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

var fullSchema = []string{
	"Sector1Time", "Sector2Time", "Sector3Time", "IsPersonalBest",
	"AvgSectorTime", "FastestLap", "Compound_MEDIUM", "Compound_SOFT",
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(testArtifact(t, fullSchema), features.New(nil))
}

const fastLap = `{"Sector1Time":25.3,"Sector2Time":30.1,"Sector3Time":28.7,"Compound":"MEDIUM","IsPersonalBest":true}`
const slowLap = `{"Sector1Time":31.0,"Sector2Time":32.0,"Sector3Time":30.0,"Compound":"HARD","IsPersonalBest":false}`

func TestPredictModelNotLoaded(t *testing.T) {
	svc := NewService(model.NewStore(filepath.Join(t.TempDir(), "missing.json")), features.New(nil))

	result, err := svc.Predict([]byte(fastLap))
	assert.Nil(t, result)
	require.NotNil(t, err)
	assert.Equal(t, KindModelNotLoaded, err.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, err.Kind.HTTPStatus())
	assert.False(t, svc.Healthy())
}

func TestPredictLadderRejections(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind Kind
	}{
		{name: "empty body", body: "", kind: KindNoInput},
		{name: "whitespace body", body: "   \n", kind: KindNoInput},
		{name: "null body", body: "null", kind: KindNoInput},
		{name: "bare number", body: "5", kind: KindInvalidShape},
		{name: "bare string", body: `"lap"`, kind: KindInvalidShape},
		{name: "bare bool", body: "true", kind: KindInvalidShape},
		{name: "array of scalars", body: "[1,2]", kind: KindInvalidShape},
		{name: "malformed json", body: `{"Sector1Time":`, kind: KindInvalidShape},
		{name: "nested object cell", body: `{"Sector1Time":{"v":1}}`, kind: KindInvalidShape},
		{name: "empty array", body: "[]", kind: KindEmptyInput},
		{name: "object with no fields", body: "{}", kind: KindEmptyInput},
		{name: "rows with no fields", body: "[{},{}]", kind: KindEmptyInput},
		{name: "unparseable personal best", body: `{"Sector1Time":25,"Sector2Time":30,"Sector3Time":28,"Compound":"SOFT","IsPersonalBest":"yes"}`, kind: KindPreprocessFailed},
	}

	svc := newTestService(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Predict([]byte(tt.body))
			assert.Nil(t, result)
			require.NotNil(t, err)
			assert.Equal(t, tt.kind, err.Kind, "detail: %s", err.Detail)
		})
	}
}

func TestPredictFeatureMismatchByCount(t *testing.T) {
	svc := newTestService(t)

	// An extra passthrough column widens the frame to nine features.
	body := `{"Sector1Time":25.3,"Sector2Time":30.1,"Sector3Time":28.7,"Compound":"MEDIUM","IsPersonalBest":true,"LapNumber":12}`
	result, err := svc.Predict([]byte(body))
	assert.Nil(t, result)
	require.NotNil(t, err)
	assert.Equal(t, KindFeatureMismatch, err.Kind)
	assert.Equal(t, 8, err.Expected)
	assert.Equal(t, 9, err.Actual)
	assert.Contains(t, err.Detail, "LapNumber")
}

func TestPredictFeatureMismatchByName(t *testing.T) {
	svc := newTestService(t)

	// Dropping IsPersonalBest and adding LapNumber keeps the count at
	// eight but changes the schema; a count-only check would let this
	// through.
	body := `{"Sector1Time":25.3,"Sector2Time":30.1,"Sector3Time":28.7,"Compound":"MEDIUM","LapNumber":12}`
	result, err := svc.Predict([]byte(body))
	assert.Nil(t, result)
	require.NotNil(t, err)
	assert.Equal(t, KindFeatureMismatch, err.Kind)
	assert.Equal(t, 8, err.Expected)
	assert.Equal(t, 8, err.Actual)
	assert.Contains(t, err.Detail, "IsPersonalBest")
	assert.Contains(t, err.Detail, "LapNumber")
}

func TestPredictInferenceFailure(t *testing.T) {
	// Schema without Sector3Time: the transformer leaves AvgSectorTime
	// missing, which inference rejects.
	schema := []string{"Sector1Time", "Sector2Time", "AvgSectorTime", "FastestLap", "Compound_MEDIUM", "Compound_SOFT"}
	svc := NewService(testArtifact(t, schema), features.New(nil))

	body := `{"Sector1Time":25.0,"Sector2Time":30.0,"Compound":"SOFT"}`
	result, err := svc.Predict([]byte(body))
	assert.Nil(t, result)
	require.NotNil(t, err)
	assert.Equal(t, KindPredictFailed, err.Kind)
	assert.Equal(t, http.StatusInternalServerError, err.Kind.HTTPStatus())
}

func TestPredictSingleRecord(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.Predict([]byte(fastLap))
	require.Nil(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Single)
	assert.Equal(t, []bool{true}, result.Winners)
	assert.Equal(t, "svc-test", result.ModelVersion)
	assert.Empty(t, result.Warnings)
	assert.True(t, svc.Healthy())
}

func TestPredictBatchPreservesOrder(t *testing.T) {
	svc := newTestService(t)

	body := "[" + fastLap + "," + slowLap + "," + fastLap + "]"
	result, err := svc.Predict([]byte(body))
	require.Nil(t, err)
	assert.False(t, result.Single)
	assert.Equal(t, []bool{true, false, true}, result.Winners)
	assert.Equal(t, 3, result.Rows())
}

func TestPredictIgnoresJSONKeyOrder(t *testing.T) {
	svc := newTestService(t)

	reordered := `{"IsPersonalBest":true,"Compound":"MEDIUM","Sector3Time":28.7,"Sector1Time":25.3,"Sector2Time":30.1}`
	a, errA := svc.Predict([]byte(fastLap))
	b, errB := svc.Predict([]byte(reordered))
	require.Nil(t, errA)
	require.Nil(t, errB)
	assert.Equal(t, a.Winners, b.Winners)
}

func TestPredictSurfacesTransformWarnings(t *testing.T) {
	svc := newTestService(t)

	// No Compound column: indicators still come from the vocabulary, and
	// the policy is reported as a warning for the caller to log.
	body := `{"Sector1Time":25.3,"Sector2Time":30.1,"Sector3Time":28.7,"IsPersonalBest":true}`
	result, err := svc.Predict([]byte(body))
	require.Nil(t, err)
	require.NotNil(t, result)
	assert.Equal(t, []bool{true}, result.Winners)

	var codes []features.WarningCode
	for _, w := range result.Warnings {
		codes = append(codes, w.Code)
	}
	assert.Contains(t, codes, features.WarnCompoundAbsent)
}

func TestPredictBatchHasNoPartialSuccess(t *testing.T) {
	svc := newTestService(t)

	// Second row breaks the cast; the whole batch fails with one error.
	body := "[" + fastLap + `,{"Sector1Time":25,"Sector2Time":30,"Sector3Time":28,"Compound":"SOFT","IsPersonalBest":"yes"}]`
	result, err := svc.Predict([]byte(body))
	assert.Nil(t, result)
	require.NotNil(t, err)
	assert.Equal(t, KindPreprocessFailed, err.Kind)
}
