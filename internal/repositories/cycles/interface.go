package cycles

import (
	"context"
	"time"

	"github.com/mkorolev/whoopsync/internal/models"
)

// Repository stores physiological day cycles keyed by the upstream numeric
// id. Re-syncing a cycle replaces the row wholesale (last-write-wins).
type Repository interface {
	// Upsert inserts or fully replaces a cycle by id.
	Upsert(ctx context.Context, cycle *models.Cycle) error

	// GetLatest returns the most recent cycle by start time, or
	// common.ErrNotFound when the table is empty.
	GetLatest(ctx context.Context) (*models.Cycle, error)

	// GetRange returns cycles starting within [start, end], newest first.
	GetRange(ctx context.Context, start, end time.Time) ([]models.Cycle, error)

	// StrainTrends returns per-day strain projections for cycles starting
	// at or after since, newest first. Unscored cycles are excluded.
	StrainTrends(ctx context.Context, since time.Time) ([]models.StrainTrendPoint, error)
}
