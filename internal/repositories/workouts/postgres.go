package workouts

import (
	"context"
	"fmt"
	"time"

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

func (r *PostgresRepository) Upsert(ctx context.Context, w *models.Workout) error {
	query := `INSERT INTO workouts (` + workoutColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
				$12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
			ON CONFLICT(id) DO UPDATE SET sport_name = excluded.sport_name,
				start_time = excluded.start_time,
				end_time = excluded.end_time,
				timezone_offset = excluded.timezone_offset,
				score_state = excluded.score_state,
				strain = excluded.strain,
				average_heart_rate = excluded.average_heart_rate,
				max_heart_rate = excluded.max_heart_rate,
				kilojoule = excluded.kilojoule,
				percent_recorded = excluded.percent_recorded,
				distance_meter = excluded.distance_meter,
				altitude_gain_meter = excluded.altitude_gain_meter,
				zone_zero_milli = excluded.zone_zero_milli,
				zone_one_milli = excluded.zone_one_milli,
				zone_two_milli = excluded.zone_two_milli,
				zone_three_milli = excluded.zone_three_milli,
				zone_four_milli = excluded.zone_four_milli,
				zone_five_milli = excluded.zone_five_milli,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at
	`
	args := flattenWorkout(w)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert workout: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetRange(ctx context.Context, start, end time.Time) ([]models.Workout, error) {
	query := `SELECT ` + workoutColumns + ` FROM workouts
			WHERE start_time >= $1 AND start_time <= $2 ORDER BY start_time DESC`
	rows, err := r.db.QueryContext(ctx, query, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to select workouts: %w", err)
	}
	defer rows.Close()

	var result []models.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
