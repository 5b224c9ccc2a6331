package collector

import (
	"context"
	"sync"

	"github.com/OldStager01/f1-predictor/pkg/models"
)

// MockCollector serves canned sessions from memory. It backs unit tests and
// local development without a timing provider.
type MockCollector struct {
	mu           sync.Mutex
	sessions     map[string]*models.Session
	shouldFail   bool
	failureError error
	collectCalls int
}

func NewMockCollector() *MockCollector {
	return &MockCollector{
		sessions: make(map[string]*models.Session),
	}
}

func (c *MockCollector) SetSession(season int, event string, session *models.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[models.RaceLabel(season, event)] = session
}

func (c *MockCollector) SetShouldFail(shouldFail bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shouldFail = shouldFail
	c.failureError = err
}

// CollectCalls reports how many times Collect ran, including failures.
func (c *MockCollector) CollectCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collectCalls
}

func (c *MockCollector) Collect(ctx context.Context, season int, event string) (*models.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.collectCalls++

	if c.shouldFail {
		if c.failureError != nil {
			return nil, c.failureError
		}
		return nil, ErrCollectionFailed
	}

	session, exists := c.sessions[models.RaceLabel(season, event)]
	if !exists {
		return nil, ErrSessionNotFound
	}

	return session, nil
}

func (c *MockCollector) HealthCheck(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.shouldFail {
		return ErrCollectionFailed
	}
	return nil
}

func (c *MockCollector) Close() error {
	return nil
}
