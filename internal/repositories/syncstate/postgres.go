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

// PostgresRepository implements Repository over pgx's database/sql driver.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context) (*models.SyncState, error) {
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

func (r *PostgresRepository) Widen(ctx context.Context, oldest, newest, now time.Time) error {
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
			VALUES (1, $1, $2, $3)
			ON CONFLICT(id) DO UPDATE SET last_sync_at = excluded.last_sync_at,
				oldest_synced_date = excluded.oldest_synced_date,
				newest_synced_date = excluded.newest_synced_date
	`
	if _, err := r.db.ExecContext(ctx, query, now.UTC(), oldestDate, newestDate); err != nil {
		return fmt.Errorf("failed to update sync state: %w", err)
	}
	return nil
}
