package collector

import (
	"context"
	"errors"

	"github.com/OldStager01/f1-predictor/pkg/models"
)

var (
	ErrCollectionFailed = errors.New("session collection failed")
	ErrTimeout          = errors.New("collection timeout")
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidResponse  = errors.New("invalid response from data source")
)

// Collector defines the interface for race session collection
type Collector interface {
	// Collect fetches the race session for a season and event
	Collect(ctx context.Context, season int, event string) (*models.Session, error)

	// HealthCheck verifies the collector can reach its data source
	HealthCheck(ctx context.Context) error

	// Close releases any resources held by the collector
	Close() error
}
