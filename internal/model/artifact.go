package model

import (
	"fmt"
	"math"
	"time"

	"github.com/OldStager01/f1-predictor/pkg/models"
)

// Info is the artifact metadata surfaced over the API and in logs.
type Info struct {
	Version      string    `json:"version"`
	Algorithm    string    `json:"algorithm"`
	TrainedAt    time.Time `json:"trained_at,omitempty"`
	FeatureNames []string  `json:"feature_names"`
	FeatureCount int       `json:"feature_count"`
	TreeCount    int       `json:"tree_count"`
	Threshold    float64   `json:"threshold"`
	LoadedAt     time.Time `json:"loaded_at"`
}

// Artifact is a trained win classifier. It is immutable once loaded; the
// serving path only ever reads it.
type Artifact struct {
	version    string
	algorithm  string
	trainedAt  time.Time
	features   []string
	categories []string
	threshold  float64
	trees      []tree
	loadedAt   time.Time
}

func (a *Artifact) Version() string { return a.version }

// FeatureNames returns the training-time schema in training order.
func (a *Artifact) FeatureNames() []string {
	return append([]string(nil), a.features...)
}

func (a *Artifact) FeatureCount() int { return len(a.features) }

// CompoundCategories returns the vocabulary the artifact was trained with.
func (a *Artifact) CompoundCategories() []string {
	return append([]string(nil), a.categories...)
}

func (a *Artifact) Metadata() Info {
	return Info{
		Version:      a.version,
		Algorithm:    a.algorithm,
		TrainedAt:    a.trainedAt,
		FeatureNames: a.FeatureNames(),
		FeatureCount: len(a.features),
		TreeCount:    len(a.trees),
		Threshold:    a.threshold,
		LoadedAt:     a.loadedAt,
	}
}

// Predict classifies every row of an aligned frame. The frame's columns
// must equal the artifact's feature names in order; the caller aligns them
// before handing the frame over. Non-finite cells fail the whole batch:
// there is no sensible tree path for a missing value.
func (a *Artifact) Predict(frame *models.FeatureFrame) ([]bool, error) {
	cols := frame.Columns()
	if len(cols) != len(a.features) {
		return nil, fmt.Errorf("frame has %d columns, artifact expects %d", len(cols), len(a.features))
	}
	for i, name := range a.features {
		if cols[i] != name {
			return nil, fmt.Errorf("frame column %d is %q, artifact expects %q", i, cols[i], name)
		}
	}

	out := make([]bool, frame.NumRows())
	for r := 0; r < frame.NumRows(); r++ {
		row := frame.Row(r)
		for c, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("row %d column %q is not finite", r, cols[c])
			}
		}

		var sum float64
		for _, tr := range a.trees {
			sum += tr.score(row)
		}
		score := sum / float64(len(a.trees))
		out[r] = score >= a.threshold
	}
	return out, nil
}
