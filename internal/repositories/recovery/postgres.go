package recovery

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

func (r *PostgresRepository) Upsert(ctx context.Context, rec *models.Recovery) error {
	query := `INSERT INTO recovery (` + recoveryColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT(cycle_id) DO UPDATE SET sleep_id = excluded.sleep_id,
				score_state = excluded.score_state,
				user_calibrating = excluded.user_calibrating,
				recovery_score = excluded.recovery_score,
				resting_heart_rate = excluded.resting_heart_rate,
				hrv_rmssd_milli = excluded.hrv_rmssd_milli,
				spo2_percentage = excluded.spo2_percentage,
				skin_temp_celsius = excluded.skin_temp_celsius,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at
	`
	var calibrating *bool
	var score, restingHR, hrv, spo2, skinTemp *float64
	if rec.Score != nil {
		calibrating = &rec.Score.UserCalibrating
		score, restingHR, hrv = &rec.Score.RecoveryScore, &rec.Score.RestingHeartRate, &rec.Score.HRVRmssdMilli
		spo2, skinTemp = rec.Score.Spo2Percentage, rec.Score.SkinTempCelsius
	}
	_, err := r.db.ExecContext(ctx, query,
		rec.CycleID, rec.SleepID, rec.ScoreState, calibrating,
		score, restingHR, hrv, spo2, skinTemp,
		rec.CreatedAt.UTC(), rec.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert recovery: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetLatest(ctx context.Context) (*models.Recovery, error) {
	query := `SELECT ` + recoveryColumns + ` FROM recovery ORDER BY created_at DESC LIMIT 1`
	rec, err := scanRecovery(r.db.QueryRowContext(ctx, query))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest recovery: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) GetRange(ctx context.Context, start, end time.Time) ([]models.Recovery, error) {
	query := `SELECT ` + recoveryColumns + ` FROM recovery
			WHERE created_at >= $1 AND created_at <= $2 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to select recoveries: %w", err)
	}
	defer rows.Close()

	var result []models.Recovery
	for rows.Next() {
		rec, err := scanRecovery(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) RecoveryTrends(ctx context.Context, since time.Time) ([]models.RecoveryTrendPoint, error) {
	query := `SELECT created_at, recovery_score, resting_heart_rate, hrv_rmssd_milli
			FROM recovery WHERE recovery_score IS NOT NULL AND created_at >= $1
			ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to select recovery trends: %w", err)
	}
	defer rows.Close()

	var result []models.RecoveryTrendPoint
	for rows.Next() {
		var createdAt time.Time
		var score, restingHR, hrv float64
		if err := rows.Scan(&createdAt, &score, &restingHR, &hrv); err != nil {
			return nil, err
		}
		result = append(result, models.RecoveryTrendPoint{
			Date:             createdAt.UTC().Format("2006-01-02"),
			RecoveryScore:    score,
			RestingHeartRate: restingHR,
			HRVRmssdMilli:    hrv,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
