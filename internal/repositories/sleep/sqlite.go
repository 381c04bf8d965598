package sleep

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

const sleepColumns = `id, cycle_id, start_time, end_time, timezone_offset, nap,
	score_state, total_in_bed_milli, total_awake_milli, total_light_milli,
	total_sws_milli, total_rem_milli, sleep_cycle_count, disturbance_count,
	respiratory_rate, performance_pct, consistency_pct, efficiency_pct,
	created_at, updated_at`

func (r *SQLiteRepository) Upsert(ctx context.Context, s *models.Sleep) error {
	query := `INSERT INTO sleep (` + sleepColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET cycle_id = excluded.cycle_id,
				start_time = excluded.start_time,
				end_time = excluded.end_time,
				timezone_offset = excluded.timezone_offset,
				nap = excluded.nap,
				score_state = excluded.score_state,
				total_in_bed_milli = excluded.total_in_bed_milli,
				total_awake_milli = excluded.total_awake_milli,
				total_light_milli = excluded.total_light_milli,
				total_sws_milli = excluded.total_sws_milli,
				total_rem_milli = excluded.total_rem_milli,
				sleep_cycle_count = excluded.sleep_cycle_count,
				disturbance_count = excluded.disturbance_count,
				respiratory_rate = excluded.respiratory_rate,
				performance_pct = excluded.performance_pct,
				consistency_pct = excluded.consistency_pct,
				efficiency_pct = excluded.efficiency_pct,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at
	`
	var inBed, awake, light, sws, rem *int64
	var cycleCount, disturbances *int
	var respRate, performance, consistency, efficiency *float64
	if s.Score != nil {
		ss := s.Score.StageSummary
		inBed, awake, light = &ss.TotalInBedTimeMilli, &ss.TotalAwakeTimeMilli, &ss.TotalLightSleepTimeMilli
		sws, rem = &ss.TotalSlowWaveSleepTimeMilli, &ss.TotalRemSleepTimeMilli
		cycleCount, disturbances = &ss.SleepCycleCount, &ss.DisturbanceCount
		respRate = s.Score.RespiratoryRate
		performance = s.Score.SleepPerformancePercentage
		consistency = s.Score.SleepConsistencyPercentage
		efficiency = s.Score.SleepEfficiencyPercentage
	}
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.CycleID, s.Start.UTC(), s.End.UTC(), s.TimezoneOffset, s.Nap,
		s.ScoreState, inBed, awake, light, sws, rem, cycleCount, disturbances,
		respRate, performance, consistency, efficiency,
		s.CreatedAt.UTC(), s.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert sleep: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetLatestMain(ctx context.Context) (*models.Sleep, error) {
	query := `SELECT ` + sleepColumns + ` FROM sleep WHERE nap = 0
			ORDER BY start_time DESC LIMIT 1`
	s, err := scanSleep(r.db.QueryRowContext(ctx, query))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest sleep: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) GetRange(ctx context.Context, start, end time.Time, includeNaps bool) ([]models.Sleep, error) {
	query := `SELECT ` + sleepColumns + ` FROM sleep
			WHERE start_time >= ? AND start_time <= ?`
	if !includeNaps {
		query += ` AND nap = 0`
	}
	query += ` ORDER BY start_time DESC`
	rows, err := r.db.QueryContext(ctx, query, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to select sleeps: %w", err)
	}
	defer rows.Close()

	var result []models.Sleep
	for rows.Next() {
		s, err := scanSleep(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) SleepTrends(ctx context.Context, since time.Time) ([]models.SleepTrendPoint, error) {
	query := `SELECT start_time, total_in_bed_milli, total_awake_milli,
			performance_pct, efficiency_pct, disturbance_count
			FROM sleep WHERE nap = 0 AND performance_pct IS NOT NULL AND start_time >= ?
			ORDER BY start_time DESC`
	rows, err := r.db.QueryContext(ctx, query, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to select sleep trends: %w", err)
	}
	defer rows.Close()

	var result []models.SleepTrendPoint
	for rows.Next() {
		var start time.Time
		var inBed, awake int64
		var performance float64
		var efficiency *float64
		var disturbances int
		if err := rows.Scan(&start, &inBed, &awake, &performance, &efficiency, &disturbances); err != nil {
			return nil, err
		}
		result = append(result, models.SleepTrendPoint{
			Date:                       start.UTC().Format("2006-01-02"),
			TotalSleepHours:            float64(inBed-awake) / 3600000.0,
			SleepPerformancePercentage: performance,
			SleepEfficiencyPercentage:  efficiency,
			DisturbanceCount:           disturbances,
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

func scanSleep(row rowScanner) (*models.Sleep, error) {
	s := &models.Sleep{}
	var inBed, awake, light, sws, rem *int64
	var cycleCount, disturbances *int
	var respRate, performance, consistency, efficiency *float64
	err := row.Scan(&s.ID, &s.CycleID, &s.Start, &s.End, &s.TimezoneOffset, &s.Nap,
		&s.ScoreState, &inBed, &awake, &light, &sws, &rem, &cycleCount, &disturbances,
		&respRate, &performance, &consistency, &efficiency,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if inBed != nil {
		s.Score = &models.SleepScore{
			StageSummary: models.SleepStageSummary{
				TotalInBedTimeMilli:         *inBed,
				TotalAwakeTimeMilli:         *awake,
				TotalLightSleepTimeMilli:    *light,
				TotalSlowWaveSleepTimeMilli: *sws,
				TotalRemSleepTimeMilli:      *rem,
				SleepCycleCount:             *cycleCount,
				DisturbanceCount:            *disturbances,
			},
			RespiratoryRate:            respRate,
			SleepPerformancePercentage: performance,
			SleepConsistencyPercentage: consistency,
			SleepEfficiencyPercentage:  efficiency,
		}
	}
	return s, nil
}
