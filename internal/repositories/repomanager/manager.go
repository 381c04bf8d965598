// Package repomanager wires the per-entity repositories over a shared
// database handle and provides the transactional batch operations the sync
// engine relies on.
package repomanager

import (
	"context"
	"time"

	"github.com/mkorolev/whoopsync/internal/models"
	"github.com/mkorolev/whoopsync/internal/repositories/cycles"
	"github.com/mkorolev/whoopsync/internal/repositories/recovery"
	"github.com/mkorolev/whoopsync/internal/repositories/sleep"
	"github.com/mkorolev/whoopsync/internal/repositories/syncstate"
	"github.com/mkorolev/whoopsync/internal/repositories/tokens"
	"github.com/mkorolev/whoopsync/internal/repositories/workouts"
)

// Manager exposes the local store: per-entity repositories plus batch
// upserts. Every UpsertX call wraps its whole batch in one transaction,
// so a partial failure commits nothing from that batch.
type Manager interface {
	Cycles() cycles.Repository
	Recoveries() recovery.Repository
	Sleeps() sleep.Repository
	Workouts() workouts.Repository
	Tokens() tokens.Repository
	SyncState() syncstate.Repository

	UpsertCycles(ctx context.Context, records []models.Cycle) error
	UpsertRecoveries(ctx context.Context, records []models.Recovery) error
	UpsertSleeps(ctx context.Context, records []models.Sleep) error
	UpsertWorkouts(ctx context.Context, records []models.Workout) error

	// UpdateSyncState widens the synced-date boundaries to cover
	// [oldest, newest] and stamps last_sync_at with the current time,
	// atomically.
	UpdateSyncState(ctx context.Context, oldest, newest time.Time) error

	Close() error
}
