package models

import "time"

// PredictionLog is one served prediction row, kept for audit and drift
// review. A batch of n rows produces n log entries sharing a trace ID.
type PredictionLog struct {
	ID           string    `json:"id"`
	TraceID      string    `json:"trace_id,omitempty"`
	BatchSize    int       `json:"batch_size"`
	RowIndex     int       `json:"row_index"`
	Winner       bool      `json:"winner"`
	ModelVersion string    `json:"model_version,omitempty"`
	LatencyMS    float64   `json:"latency_ms"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewPredictionLog(traceID string, batchSize, rowIndex int, winner bool, modelVersion string, latency time.Duration) *PredictionLog {
	return &PredictionLog{
		ID:           NewUUID(),
		TraceID:      traceID,
		BatchSize:    batchSize,
		RowIndex:     rowIndex,
		Winner:       winner,
		ModelVersion: modelVersion,
		LatencyMS:    float64(latency.Microseconds()) / 1000.0,
		CreatedAt:    time.Now(),
	}
}

// PredictionStats aggregates the prediction log.
type PredictionStats struct {
	TotalRows    int     `json:"total_rows"`
	Winners      int     `json:"winners"`
	Batches      int     `json:"batches"`
	AvgLatencyMS float64 `json:"avg_latency_ms"`
}

// WinRate is the fraction of logged rows predicted as winners.
func (s PredictionStats) WinRate() float64 {
	if s.TotalRows == 0 {
		return 0
	}
	return float64(s.Winners) / float64(s.TotalRows)
}
