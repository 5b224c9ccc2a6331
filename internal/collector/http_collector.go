package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/OldStager01/f1-predictor/internal/logger"
	"github.com/OldStager01/f1-predictor/pkg/models"
)

type HTTPCollector struct {
	client   *http.Client
	endpoint string
	timeout  time.Duration
}

type HTTPCollectorConfig struct {
	Endpoint string
	Timeout  time.Duration
}

func NewHTTPCollector(cfg HTTPCollectorConfig) *HTTPCollector {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &HTTPCollector{
		client: &http.Client{
			Timeout: timeout,
		},
		endpoint: cfg.Endpoint,
		timeout:  timeout,
	}
}

// sessionResponse matches the timing provider's session payload
type sessionResponse struct {
	Session sessionMeta      `json:"session"`
	Laps    []lapResponse    `json:"laps"`
	Results []resultResponse `json:"results"`
}

type sessionMeta struct {
	Season int    `json:"season"`
	Event  string `json:"event"`
	Type   string `json:"type"`
}

type lapResponse struct {
	Time           *float64 `json:"time"`
	Driver         string   `json:"driver"`
	DriverNumber   string   `json:"driver_number"`
	Team           string   `json:"team"`
	LapNumber      int      `json:"lap_number"`
	LapTime        *float64 `json:"lap_time"`
	Sector1Time    *float64 `json:"sector1_time"`
	Sector2Time    *float64 `json:"sector2_time"`
	Sector3Time    *float64 `json:"sector3_time"`
	Compound       *string  `json:"compound"`
	IsPersonalBest *bool    `json:"is_personal_best"`
}

type resultResponse struct {
	DriverNumber string  `json:"driver_number"`
	Driver       string  `json:"driver"`
	Position     int     `json:"position"`
	Points       float64 `json:"points"`
}

func (c *HTTPCollector) Collect(ctx context.Context, season int, event string) (*models.Session, error) {
	reqURL := fmt.Sprintf("%s/api/v1/sessions/%d/%s/race", c.endpoint, season, url.PathEscape(event))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrCollectionFailed, err)
	}

	req.Header.Set("Accept", "application/json")

	logger.WithRace(season, event).Debugf("Collecting session from %s", reqURL)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrCollectionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrSessionNotFound
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrCollectionFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrCollectionFailed, err)
	}

	var wire sessionResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if len(wire.Laps) == 0 {
		return nil, fmt.Errorf("%w: session carries no laps", ErrInvalidResponse)
	}

	session := c.convertResponse(season, event, &wire)

	logger.WithRace(season, event).Debugf("Collected %d laps, %d classified drivers",
		len(session.Laps), len(session.Results))

	return session, nil
}

// convertResponse merges lap rows with the classification sheet on driver
// number. Laps without a result row are kept with zero position and points
// rather than dropped, so a partial sheet never shrinks the dataset.
func (c *HTTPCollector) convertResponse(season int, event string, wire *sessionResponse) *models.Session {
	results := make([]models.Result, len(wire.Results))
	byDriver := make(map[string]models.Result, len(wire.Results))
	for i, r := range wire.Results {
		results[i] = models.Result{
			DriverNumber: r.DriverNumber,
			Driver:       r.Driver,
			Position:     r.Position,
			Points:       r.Points,
		}
		byDriver[r.DriverNumber] = results[i]
	}

	laps := make([]models.Lap, len(wire.Laps))
	unmatched := 0
	for i, l := range wire.Laps {
		lap := models.Lap{
			Season:         season,
			Event:          event,
			Time:           l.Time,
			Driver:         l.Driver,
			DriverNumber:   l.DriverNumber,
			Team:           l.Team,
			LapNumber:      l.LapNumber,
			LapTime:        l.LapTime,
			Sector1Time:    l.Sector1Time,
			Sector2Time:    l.Sector2Time,
			Sector3Time:    l.Sector3Time,
			Compound:       l.Compound,
			IsPersonalBest: l.IsPersonalBest,
		}

		if result, ok := byDriver[l.DriverNumber]; ok {
			lap.Position = result.Position
			lap.Points = result.Points
			if result.Position == 1 {
				lap.Win = 1
			}
		} else {
			unmatched++
		}

		laps[i] = lap
	}

	if unmatched > 0 {
		logger.WithRace(season, event).Warnf(
			"%d laps have no classification row, keeping them unlabeled", unmatched)
	}

	return &models.Session{
		Season:      season,
		Event:       event,
		Type:        models.SessionTypeRace,
		Laps:        laps,
		Results:     results,
		CollectedAt: time.Now(),
	}
}

func (c *HTTPCollector) HealthCheck(ctx context.Context) error {
	reqURL := fmt.Sprintf("%s/health", c.endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

func (c *HTTPCollector) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
