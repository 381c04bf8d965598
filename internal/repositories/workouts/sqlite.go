package workouts

import (
	"context"
	"fmt"
	"time"

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

const workoutColumns = `id, sport_name, start_time, end_time, timezone_offset,
	score_state, strain, average_heart_rate, max_heart_rate, kilojoule,
	percent_recorded, distance_meter, altitude_gain_meter,
	zone_zero_milli, zone_one_milli, zone_two_milli, zone_three_milli,
	zone_four_milli, zone_five_milli, created_at, updated_at`

func (r *SQLiteRepository) Upsert(ctx context.Context, w *models.Workout) error {
	query := `INSERT INTO workouts (` + workoutColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
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

func (r *SQLiteRepository) GetRange(ctx context.Context, start, end time.Time) ([]models.Workout, error) {
	query := `SELECT ` + workoutColumns + ` FROM workouts
			WHERE start_time >= ? AND start_time <= ? ORDER BY start_time DESC`
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

// flattenWorkout produces the bind arguments in workoutColumns order.
func flattenWorkout(w *models.Workout) []any {
	var strain, avgHR, maxHR, kilojoule, percentRecorded *float64
	var distance, altitudeGain *float64
	var z0, z1, z2, z3, z4, z5 *int64
	if w.Score != nil {
		strain, avgHR, maxHR = &w.Score.Strain, &w.Score.AverageHeartRate, &w.Score.MaxHeartRate
		kilojoule, percentRecorded = &w.Score.Kilojoule, &w.Score.PercentRecorded
		distance, altitudeGain = w.Score.DistanceMeter, w.Score.AltitudeGainMeter
		zd := w.Score.ZoneDurations
		z0, z1, z2 = &zd.ZoneZeroMilli, &zd.ZoneOneMilli, &zd.ZoneTwoMilli
		z3, z4, z5 = &zd.ZoneThreeMilli, &zd.ZoneFourMilli, &zd.ZoneFiveMilli
	}
	return []any{
		w.ID, w.SportName, w.Start.UTC(), w.End.UTC(), w.TimezoneOffset,
		w.ScoreState, strain, avgHR, maxHR, kilojoule,
		percentRecorded, distance, altitudeGain,
		z0, z1, z2, z3, z4, z5, w.CreatedAt.UTC(), w.UpdatedAt.UTC(),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkout(row rowScanner) (*models.Workout, error) {
	w := &models.Workout{}
	var strain, avgHR, maxHR, kilojoule, percentRecorded *float64
	var distance, altitudeGain *float64
	var z0, z1, z2, z3, z4, z5 *int64
	err := row.Scan(&w.ID, &w.SportName, &w.Start, &w.End, &w.TimezoneOffset,
		&w.ScoreState, &strain, &avgHR, &maxHR, &kilojoule,
		&percentRecorded, &distance, &altitudeGain,
		&z0, &z1, &z2, &z3, &z4, &z5, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if strain != nil {
		w.Score = &models.WorkoutScore{
			Strain:            *strain,
			AverageHeartRate:  *avgHR,
			MaxHeartRate:      *maxHR,
			Kilojoule:         *kilojoule,
			PercentRecorded:   *percentRecorded,
			DistanceMeter:     distance,
			AltitudeGainMeter: altitudeGain,
			ZoneDurations: models.ZoneDurations{
				ZoneZeroMilli:  *z0,
				ZoneOneMilli:   *z1,
				ZoneTwoMilli:   *z2,
				ZoneThreeMilli: *z3,
				ZoneFourMilli:  *z4,
				ZoneFiveMilli:  *z5,
			},
		}
	}
	return w, nil
}
