package cycles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mkorolev/whoopsync/internal/common"
	"github.com/mkorolev/whoopsync/internal/dbx"
	"github.com/mkorolev/whoopsync/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const cycleColumns = `id, start_time, end_time, timezone_offset, score_state,
	strain, kilojoule, average_heart_rate, max_heart_rate, created_at, updated_at`

// Upsert fully replaces the row on conflict; score columns are NULL for
// unscored cycles.
func (r *SQLiteRepository) Upsert(ctx context.Context, c *models.Cycle) error {
	query := `INSERT INTO cycles (` + cycleColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET start_time = excluded.start_time,
				end_time = excluded.end_time,
				timezone_offset = excluded.timezone_offset,
				score_state = excluded.score_state,
				strain = excluded.strain,
				kilojoule = excluded.kilojoule,
				average_heart_rate = excluded.average_heart_rate,
				max_heart_rate = excluded.max_heart_rate,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at
	`
	var strain, kilojoule, avgHR, maxHR *float64
	if c.Score != nil {
		strain, kilojoule, avgHR, maxHR = &c.Score.Strain, &c.Score.Kilojoule,
			&c.Score.AverageHeartRate, &c.Score.MaxHeartRate
	}
	var end *time.Time
	if c.End != nil {
		u := c.End.UTC()
		end = &u
	}
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Start.UTC(), end, c.TimezoneOffset, c.ScoreState,
		strain, kilojoule, avgHR, maxHR, c.CreatedAt.UTC(), c.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert cycle: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetLatest(ctx context.Context) (*models.Cycle, error) {
	query := `SELECT ` + cycleColumns + ` FROM cycles ORDER BY start_time DESC LIMIT 1`
	c, err := scanCycle(r.db.QueryRowContext(ctx, query))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest cycle: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) GetRange(ctx context.Context, start, end time.Time) ([]models.Cycle, error) {
	query := `SELECT ` + cycleColumns + ` FROM cycles
			WHERE start_time >= ? AND start_time <= ? ORDER BY start_time DESC`
	rows, err := r.db.QueryContext(ctx, query, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to select cycles: %w", err)
	}
	defer rows.Close()

	var result []models.Cycle
	for rows.Next() {
		c, err := scanCycle(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) StrainTrends(ctx context.Context, since time.Time) ([]models.StrainTrendPoint, error) {
	query := `SELECT start_time, strain, kilojoule, average_heart_rate, max_heart_rate
			FROM cycles WHERE strain IS NOT NULL AND start_time >= ?
			ORDER BY start_time DESC`
	rows, err := r.db.QueryContext(ctx, query, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to select strain trends: %w", err)
	}
	defer rows.Close()

	var result []models.StrainTrendPoint
	for rows.Next() {
		var start time.Time
		var strain, kilojoule, avgHR, maxHR float64
		if err := rows.Scan(&start, &strain, &kilojoule, &avgHR, &maxHR); err != nil {
			return nil, err
		}
		result = append(result, models.StrainTrendPoint{
			Date:             start.UTC().Format("2006-01-02"),
			Strain:           strain,
			Calories:         kilojoule / 4.184,
			AverageHeartRate: avgHR,
			MaxHeartRate:     maxHR,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCycle(row rowScanner) (*models.Cycle, error) {
	c := &models.Cycle{}
	var strain, kilojoule, avgHR, maxHR *float64
	err := row.Scan(&c.ID, &c.Start, &c.End, &c.TimezoneOffset, &c.ScoreState,
		&strain, &kilojoule, &avgHR, &maxHR, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if strain != nil {
		c.Score = &models.CycleScore{
			Strain:           *strain,
			Kilojoule:        *kilojoule,
			AverageHeartRate: *avgHR,
			MaxHeartRate:     *maxHR,
		}
	}
	return c, nil
}
