package predictor

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/OldStager01/f1-predictor/internal/features"
	"github.com/OldStager01/f1-predictor/internal/model"
	"github.com/OldStager01/f1-predictor/pkg/models"
)

// Service runs the prediction validation ladder: parse, transform, check
// the frame against the installed artifact, infer. It is free of side
// effects (logging, events, metrics and persistence belong to the caller),
// so every branch is a plain input/output to test.
type Service struct {
	store       *model.Store
	transformer *features.Transformer
}

func NewService(store *model.Store, transformer *features.Transformer) *Service {
	return &Service{store: store, transformer: transformer}
}

// Result is a successful prediction run.
type Result struct {
	// Single records whether the request was one object rather than an
	// array, which decides the response shape.
	Single       bool
	Winners      []bool
	Warnings     []features.Warning
	ModelVersion string
}

// Rows is the batch size; response order matches input order.
func (r *Result) Rows() int { return len(r.Winners) }

// Healthy reports whether an artifact is installed and predictions can be
// served.
func (s *Service) Healthy() bool {
	return s.store.Loaded()
}

// Predict validates and serves one request body. Each ladder step
// short-circuits: the first failing condition decides the error kind, and
// a batch either fully succeeds or fully fails.
func (s *Service) Predict(body []byte) (*Result, *Error) {
	// Snapshot once: a concurrent model reload must not split this batch
	// between two artifacts.
	artifact := s.store.Current()
	if artifact == nil {
		return nil, newError(KindModelNotLoaded, "no artifact installed")
	}

	single, batch, perr := parseBody(body)
	if perr != nil {
		return nil, perr
	}
	if emptyBatch(batch) {
		return nil, newError(KindEmptyInput, fmt.Sprintf("%d rows with no columns", len(batch)))
	}

	frame, warnings, err := s.transformer.Transform(batch)
	if err != nil {
		return nil, newError(KindPreprocessFailed, err.Error())
	}
	if frame.Empty() {
		return nil, newError(KindNoUsableRows, "transform returned an empty frame")
	}

	expected := artifact.FeatureCount()
	if actual := frame.NumCols(); actual != expected {
		detail := describeMismatch(artifact.FeatureNames(), frame.Columns())
		return nil, mismatchError(expected, actual, detail)
	}

	// Same count does not mean same schema: realign by name so column
	// order never depends on how the client happened to serialize keys,
	// and reject frames whose names differ.
	aligned, err := frame.Select(artifact.FeatureNames())
	if err != nil {
		detail := describeMismatch(artifact.FeatureNames(), frame.Columns())
		return nil, mismatchError(expected, frame.NumCols(), detail)
	}

	winners, err := artifact.Predict(aligned)
	if err != nil {
		return nil, newError(KindPredictFailed, err.Error())
	}

	return &Result{
		Single:       single,
		Winners:      winners,
		Warnings:     warnings,
		ModelVersion: artifact.Version(),
	}, nil
}

// parseBody decodes the raw request body into a record batch, reporting
// whether it was a single object. Only an object or an array of objects is
// a valid shape.
func parseBody(body []byte) (bool, []models.Record, *Error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return false, nil, newError(KindNoInput, "request body is empty or null")
	}

	switch trimmed[0] {
	case '{':
		var rec models.Record
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			return false, nil, newError(KindInvalidShape, err.Error())
		}
		return true, []models.Record{rec}, nil
	case '[':
		var batch []models.Record
		if err := json.Unmarshal(trimmed, &batch); err != nil {
			return false, nil, newError(KindInvalidShape, err.Error())
		}
		return false, batch, nil
	default:
		return false, nil, newError(KindInvalidShape, "body is neither an object nor an array")
	}
}

// emptyBatch mirrors a dataframe's emptiness: no rows, or rows that carry
// no columns at all.
func emptyBatch(batch []models.Record) bool {
	if len(batch) == 0 {
		return true
	}
	for _, rec := range batch {
		if len(rec) > 0 {
			return false
		}
	}
	return true
}

// describeMismatch names the columns missing from and unexpected in the
// frame. It goes to logs, never to clients.
func describeMismatch(expected, actual []string) string {
	have := make(map[string]bool, len(actual))
	for _, c := range actual {
		have[c] = true
	}
	want := make(map[string]bool, len(expected))
	for _, c := range expected {
		want[c] = true
	}

	var missing, unexpected []string
	for _, c := range expected {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	for _, c := range actual {
		if !want[c] {
			unexpected = append(unexpected, c)
		}
	}
	return fmt.Sprintf("missing columns %v, unexpected columns %v", missing, unexpected)
}
