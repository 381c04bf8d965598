package recovery

import (
	"context"
	"time"

	"github.com/mkorolev/whoopsync/internal/models"
)

// Repository stores recovery scores keyed by cycle id (1:1 with cycles).
// Re-syncing replaces the row wholesale.
type Repository interface {
	// Upsert inserts or fully replaces a recovery by cycle id.
	Upsert(ctx context.Context, rec *models.Recovery) error

	// GetLatest returns the most recent recovery by creation time, or
	// common.ErrNotFound when the table is empty.
	GetLatest(ctx context.Context) (*models.Recovery, error)

	// GetRange returns recoveries created within [start, end], newest first.
	GetRange(ctx context.Context, start, end time.Time) ([]models.Recovery, error)

	// RecoveryTrends returns per-day recovery projections created at or
	// after since, newest first. Rows with a null recovery score are
	// excluded, not zero-filled.
	RecoveryTrends(ctx context.Context, since time.Time) ([]models.RecoveryTrendPoint, error)
}
