package syncstate

import (
	"context"
	"time"

	"github.com/mkorolev/whoopsync/internal/models"
)

// Repository tracks sync progress in a singleton row. The synced-date
// boundaries only ever widen; zero-value SyncState means never synced.
type Repository interface {
	// Get returns the current sync state. When nothing has been recorded
	// yet all fields are nil (not an error).
	Get(ctx context.Context) (*models.SyncState, error)

	// Widen merges the date boundaries of a just-covered window into the
	// singleton row: oldest moves only earlier, newest only later, and
	// last_sync_at is stamped with now. Dates are compared semantically,
	// not lexically.
	Widen(ctx context.Context, oldest, newest, now time.Time) error
}
