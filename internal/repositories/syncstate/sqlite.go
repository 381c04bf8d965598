package syncstate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mkorolev/whoopsync/internal/dbx"
	"github.com/mkorolev/whoopsync/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
// Widen is read-modify-write; callers wanting atomicity run it inside
// dbx.WithTx (the repomanager does).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context) (*models.SyncState, error) {
	query := `SELECT last_sync_at, oldest_synced_date, newest_synced_date FROM sync_state WHERE id = 1`
	row := r.db.QueryRowContext(ctx, query)

	s := &models.SyncState{}
	if err := row.Scan(&s.LastSyncAt, &s.OldestSyncedDate, &s.NewestSyncedDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.SyncState{}, nil
		}
		return nil, fmt.Errorf("failed to get sync state: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) Widen(ctx context.Context, oldest, newest, now time.Time) error {
	existing, err := r.Get(ctx)
	if err != nil {
		return err
	}

	oldestDate := truncateToDate(oldest)
	newestDate := truncateToDate(newest)
	if existing.OldestSyncedDate != nil && existing.OldestSyncedDate.Before(oldestDate) {
		oldestDate = *existing.OldestSyncedDate
	}
	if existing.NewestSyncedDate != nil && existing.NewestSyncedDate.After(newestDate) {
		newestDate = *existing.NewestSyncedDate
	}

	query := `INSERT INTO sync_state (id, last_sync_at, oldest_synced_date, newest_synced_date)
			VALUES (1, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET last_sync_at = excluded.last_sync_at,
				oldest_synced_date = excluded.oldest_synced_date,
				newest_synced_date = excluded.newest_synced_date
	`
	if _, err := r.db.ExecContext(ctx, query, now.UTC(), oldestDate, newestDate); err != nil {
		return fmt.Errorf("failed to update sync state: %w", err)
	}
	return nil
}

// truncateToDate drops the time-of-day part, keeping a date at midnight UTC.
func truncateToDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
