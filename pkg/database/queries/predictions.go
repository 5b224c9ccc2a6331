package queries

import (
	"context"
	"database/sql"

	"github.com/OldStager01/f1-predictor/pkg/models"
)

// PredictionRepository reads the prediction audit log. Writes happen on the
// event path, off the request hot path.
type PredictionRepository struct {
	db *sql.DB
}

func NewPredictionRepository(db *sql.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) Recent(ctx context.Context, limit int) ([]models.PredictionLog, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, trace_id, batch_size, row_index, winner, model_version,
			   latency_ms, created_at
		FROM prediction_logs
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.PredictionLog
	for rows.Next() {
		var l models.PredictionLog
		err := rows.Scan(
			&l.ID, &l.TraceID, &l.BatchSize, &l.RowIndex,
			&l.Winner, &l.ModelVersion, &l.LatencyMS, &l.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}

func (r *PredictionRepository) Stats(ctx context.Context) (*models.PredictionStats, error) {
	query := `
		SELECT
			COUNT(*) AS total_rows,
			COUNT(*) FILTER (WHERE winner) AS winners,
			COUNT(DISTINCT trace_id) AS batches,
			COALESCE(AVG(latency_ms), 0) AS avg_latency_ms
		FROM prediction_logs`

	var stats models.PredictionStats
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalRows, &stats.Winners, &stats.Batches, &stats.AvgLatencyMS,
	)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
