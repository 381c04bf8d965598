package sleep

import (
	"context"
	"time"

	"github.com/mkorolev/whoopsync/internal/models"
)

// Repository stores sleep activities keyed by the upstream string id.
// Re-syncing replaces the row wholesale.
type Repository interface {
	// Upsert inserts or fully replaces a sleep by id.
	Upsert(ctx context.Context, s *models.Sleep) error

	// GetLatestMain returns the most recent non-nap sleep by start time,
	// or common.ErrNotFound when there is none.
	GetLatestMain(ctx context.Context) (*models.Sleep, error)

	// GetRange returns sleeps starting within [start, end], newest first.
	// Naps are excluded unless includeNaps is set.
	GetRange(ctx context.Context, start, end time.Time, includeNaps bool) ([]models.Sleep, error)

	// SleepTrends returns per-day sleep projections for main sleeps
	// starting at or after since, newest first. Rows with a null sleep
	// performance score are excluded.
	SleepTrends(ctx context.Context, since time.Time) ([]models.SleepTrendPoint, error)
}
