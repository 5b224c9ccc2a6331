package dataset

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/OldStager01/f1-predictor/pkg/models"
)

// WriteRecords writes a raw record batch as CSV with a header row. Missing
// cells are written empty. A failed write leaves no partial file behind.
func WriteRecords(path string, columns []string, batch []models.Record) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(path)
		}
	}()

	w := csv.NewWriter(f)

	if err = w.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(columns))
	for _, record := range batch {
		for i, col := range columns {
			row[i] = record.Get(col).String()
		}
		if err = w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err = w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}

	if err = f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// ReadRecords reads a CSV written by WriteRecords. The header row names the
// columns; empty cells come back Missing.
func ReadRecords(path string) ([]string, []models.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%s has no header row", path)
	}

	columns := rows[0]
	batch := make([]models.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(models.Record, len(columns))
		for i, col := range columns {
			record[col] = models.ParseCell(row[i])
		}
		batch = append(batch, record)
	}

	return columns, batch, nil
}

// WriteFrame writes a feature frame as CSV with a header row. The missing
// marker becomes an empty cell.
func WriteFrame(path string, frame *models.FeatureFrame) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(path)
		}
	}()

	w := csv.NewWriter(f)

	columns := frame.Columns()
	if err = w.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(columns))
	for r := 0; r < frame.NumRows(); r++ {
		for c := range columns {
			row[c] = formatCell(frame.At(r, c))
		}
		if err = w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err = w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}

	if err = f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// RawPath names the raw lap CSV for a session under dir.
func RawPath(dir string, season int, event string) string {
	return filepath.Join(dir, fmt.Sprintf("%d_%s_raw.csv", season, sanitize(event)))
}

// ProcessedPath names the transformed feature CSV for a session under dir.
func ProcessedPath(dir string, season int, event string) string {
	return filepath.Join(dir, fmt.Sprintf("%d_%s_processed.csv", season, sanitize(event)))
}

// sanitize makes an event name safe as a file name fragment.
func sanitize(event string) string {
	out := make([]rune, 0, len(event))
	for _, r := range event {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == ' ', r == '/', r == '\\':
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
