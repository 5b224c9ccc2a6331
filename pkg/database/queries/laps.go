package queries

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/OldStager01/f1-predictor/pkg/models"
)

type LapRepository struct {
	db *sql.DB
}

func NewLapRepository(db *sql.DB) *LapRepository {
	return &LapRepository{db: db}
}

// LapFilter narrows List. Zero values mean no constraint.
type LapFilter struct {
	Season int    `json:"season,omitempty"`
	Event  string `json:"event,omitempty"`
	Driver string `json:"driver,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// InsertBatch stores a session's laps in one transaction. Re-collecting a
// session is safe: rows that already exist for the same (season, event,
// driver, lap) are skipped. Returns the number of rows actually written.
func (r *LapRepository) InsertBatch(ctx context.Context, laps []models.Lap) (int, error) {
	if len(laps) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO laps
			(season, event, time, driver, driver_number, team, lap_number,
			 lap_time, sector1_time, sector2_time, sector3_time, compound,
			 is_personal_best, position, points, win)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (season, event, driver_number, lap_number) DO NOTHING`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, lap := range laps {
		res, err := stmt.ExecContext(ctx,
			lap.Season, lap.Event, lap.Time, lap.Driver, lap.DriverNumber,
			lap.Team, lap.LapNumber, lap.LapTime, lap.Sector1Time,
			lap.Sector2Time, lap.Sector3Time, lap.Compound,
			lap.IsPersonalBest, lap.Position, lap.Points, lap.Win,
		)
		if err != nil {
			return 0, err
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, nil
}

func (r *LapRepository) List(ctx context.Context, filter LapFilter) ([]models.Lap, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, season, event, time, driver, driver_number, team, lap_number,
			   lap_time, sector1_time, sector2_time, sector3_time, compound,
			   is_personal_best, position, points, win
		FROM laps
		WHERE ($1 = 0 OR season = $1)
		  AND ($2 = '' OR event = $2)
		  AND ($3 = '' OR driver = $3)
		ORDER BY season DESC, event, driver_number, lap_number
		LIMIT $4`

	rows, err := r.db.QueryContext(ctx, query, filter.Season, filter.Event, filter.Driver, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var laps []models.Lap
	for rows.Next() {
		var lap models.Lap
		err := rows.Scan(
			&lap.ID, &lap.Season, &lap.Event, &lap.Time, &lap.Driver,
			&lap.DriverNumber, &lap.Team, &lap.LapNumber, &lap.LapTime,
			&lap.Sector1Time, &lap.Sector2Time, &lap.Sector3Time,
			&lap.Compound, &lap.IsPersonalBest, &lap.Position,
			&lap.Points, &lap.Win,
		)
		if err != nil {
			return nil, err
		}
		laps = append(laps, lap)
	}

	return laps, rows.Err()
}

func (r *LapRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM laps`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
