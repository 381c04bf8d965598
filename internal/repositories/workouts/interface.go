package workouts

import (
	"context"
	"time"

	"github.com/mkorolev/whoopsync/internal/models"
)

// Repository stores workout activities keyed by the upstream string id,
// including the six-bucket heart-rate zone histogram. Re-syncing replaces
// the row wholesale.
type Repository interface {
	// Upsert inserts or fully replaces a workout by id.
	Upsert(ctx context.Context, w *models.Workout) error

	// GetRange returns workouts starting within [start, end], newest first.
	GetRange(ctx context.Context, start, end time.Time) ([]models.Workout, error)
}
