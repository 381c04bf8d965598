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

// PostgresRepository implements Repository over pgx's database/sql driver.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, c *models.Cycle) error {
	query := `INSERT INTO cycles (` + cycleColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
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

func (r *PostgresRepository) GetLatest(ctx context.Context) (*models.Cycle, error) {
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

func (r *PostgresRepository) GetRange(ctx context.Context, start, end time.Time) ([]models.Cycle, error) {
	query := `SELECT ` + cycleColumns + ` FROM cycles
			WHERE start_time >= $1 AND start_time <= $2 ORDER BY start_time DESC`
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

func (r *PostgresRepository) StrainTrends(ctx context.Context, since time.Time) ([]models.StrainTrendPoint, error) {
	query := `SELECT start_time, strain, kilojoule, average_heart_rate, max_heart_rate
			FROM cycles WHERE strain IS NOT NULL AND start_time >= $1
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
