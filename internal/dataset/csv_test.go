package dataset_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/f1-predictor/internal/dataset"
	"github.com/OldStager01/f1-predictor/pkg/models"
)

func TestRecordsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "laps", "2023_Monza_raw.csv")

	columns := []string{"Driver", "LapTime", "Sector1Time", "IsPersonalBest", "Compound"}
	batch := []models.Record{
		{
			"Driver":         models.NewString("VER"),
			"LapTime":        models.NewNumber(85.321),
			"Sector1Time":    models.NewNumber(28.1),
			"IsPersonalBest": models.NewBool(true),
			"Compound":       models.NewString("MEDIUM"),
		},
		{
			"Driver":         models.NewString("SAI"),
			"LapTime":        models.NewNumber(86.002),
			"Sector1Time":    models.Missing(),
			"IsPersonalBest": models.NewBool(false),
			"Compound":       models.Missing(),
		},
	}

	require.NoError(t, dataset.WriteRecords(path, columns, batch))

	gotColumns, gotBatch, err := dataset.ReadRecords(path)
	require.NoError(t, err)

	assert.Equal(t, columns, gotColumns)
	require.Len(t, gotBatch, 2)

	lapTime, ok := gotBatch[0].Get("LapTime").AsNumber()
	require.True(t, ok)
	assert.Equal(t, 85.321, lapTime)

	pb, ok := gotBatch[0].Get("IsPersonalBest").AsBool()
	require.True(t, ok)
	assert.True(t, pb)

	driver, ok := gotBatch[1].Get("Driver").AsString()
	require.True(t, ok)
	assert.Equal(t, "SAI", driver)

	assert.True(t, gotBatch[1].Get("Sector1Time").IsMissing(),
		"empty cell must come back Missing")
	assert.True(t, gotBatch[1].Get("Compound").IsMissing())
}

func TestWriteRecordsFillsAbsentColumns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "raw.csv")

	columns := []string{"Driver", "LapTime"}
	batch := []models.Record{
		{"Driver": models.NewString("VER")},
	}

	require.NoError(t, dataset.WriteRecords(path, columns, batch))

	_, gotBatch, err := dataset.ReadRecords(path)
	require.NoError(t, err)
	require.Len(t, gotBatch, 1)
	assert.True(t, gotBatch[0].Get("LapTime").IsMissing())
}

func TestWriteFrame(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "processed.csv")

	frame := models.NewFeatureFrame([]string{"AvgSectorTime", "FastestLap"}, 2)
	frame.Set(0, 0, 28.5)
	frame.Set(0, 1, 1)
	frame.Set(1, 1, 0)
	// (1,0) stays missing

	require.NoError(t, dataset.WriteFrame(path, frame))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "AvgSectorTime,FastestLap\n28.5,1\n,0\n", string(data))
}

func TestReadRecordsErrors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := dataset.ReadRecords(filepath.Join(dir, "absent.csv"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, _, err = dataset.ReadRecords(empty)
	assert.Error(t, err)

	ragged := filepath.Join(dir, "ragged.csv")
	require.NoError(t, os.WriteFile(ragged, []byte("a,b\n1\n"), 0o644))
	_, _, err = dataset.ReadRecords(ragged)
	assert.Error(t, err)
}

func TestSessionPaths(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "raw", "2023_Monza_raw.csv"),
		dataset.RawPath(filepath.Join("data", "raw"), 2023, "Monza"))
	assert.Equal(t, filepath.Join("out", "2024_Abu_Dhabi_processed.csv"),
		dataset.ProcessedPath("out", 2024, "Abu Dhabi"))
}
