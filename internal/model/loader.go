package model

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// artifactFile is the on-disk JSON layout, exported by the training
// pipeline alongside the feature schema it was fitted on.
type artifactFile struct {
	Version            string    `json:"version"`
	Algorithm          string    `json:"algorithm"`
	TrainedAt          time.Time `json:"trained_at"`
	FeatureNames       []string  `json:"feature_names"`
	CompoundCategories []string  `json:"compound_categories"`
	Threshold          *float64  `json:"threshold"`
	Trees              []tree    `json:"trees"`
}

const defaultThreshold = 0.5

// Load reads and validates a model artifact. It never installs anything;
// callers decide what to do with the result.
func Load(path string) (*Artifact, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var doc artifactFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}
	if err := validateArtifact(&doc); err != nil {
		return nil, fmt.Errorf("invalid model artifact %s: %w", path, err)
	}

	threshold := defaultThreshold
	if doc.Threshold != nil {
		threshold = *doc.Threshold
	}

	return &Artifact{
		version:    doc.Version,
		algorithm:  doc.Algorithm,
		trainedAt:  doc.TrainedAt,
		features:   doc.FeatureNames,
		categories: doc.CompoundCategories,
		threshold:  threshold,
		trees:      doc.Trees,
		loadedAt:   time.Now(),
	}, nil
}

func validateArtifact(doc *artifactFile) error {
	if doc.Version == "" {
		return fmt.Errorf("version is required")
	}
	if doc.Algorithm != "random_forest" {
		return fmt.Errorf("unsupported algorithm %q", doc.Algorithm)
	}
	if len(doc.FeatureNames) == 0 {
		return fmt.Errorf("feature_names is empty")
	}
	seen := make(map[string]bool, len(doc.FeatureNames))
	for _, name := range doc.FeatureNames {
		if name == "" {
			return fmt.Errorf("feature_names contains an empty name")
		}
		if seen[name] {
			return fmt.Errorf("feature_names contains %q twice", name)
		}
		seen[name] = true
	}
	if doc.Threshold != nil && (*doc.Threshold <= 0 || *doc.Threshold >= 1) {
		return fmt.Errorf("threshold %v is outside (0, 1)", *doc.Threshold)
	}
	if len(doc.Trees) == 0 {
		return fmt.Errorf("trees is empty")
	}
	for ti, tr := range doc.Trees {
		if err := validateTree(tr, len(doc.FeatureNames)); err != nil {
			return fmt.Errorf("tree %d: %w", ti, err)
		}
	}
	return nil
}

// validateTree enforces the invariants the scorer relies on: in-range
// feature indices and strictly forward child links, which make every walk
// finite.
func validateTree(tr tree, featureCount int) error {
	if len(tr.Nodes) == 0 {
		return fmt.Errorf("has no nodes")
	}
	for i, n := range tr.Nodes {
		if n.Leaf {
			if n.Value < 0 || n.Value > 1 {
				return fmt.Errorf("node %d: leaf value %v is outside [0, 1]", i, n.Value)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= featureCount {
			return fmt.Errorf("node %d: feature index %d out of range", i, n.Feature)
		}
		if n.Left <= i || n.Left >= len(tr.Nodes) {
			return fmt.Errorf("node %d: left child %d must point forward", i, n.Left)
		}
		if n.Right <= i || n.Right >= len(tr.Nodes) {
			return fmt.Errorf("node %d: right child %d must point forward", i, n.Right)
		}
	}
	return nil
}
