// Package syncer pulls WHOOP data into the local store. A sync covers a
// trailing window of days: the four collections are fetched concurrently,
// then written kind by kind in per-kind transactions, and the sync-state
// boundaries widen to cover the window.
package syncer

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/mkorolev/whoopsync/internal/logging"
	"github.com/mkorolev/whoopsync/internal/models"
	"github.com/mkorolev/whoopsync/internal/repositories/repomanager"
)

// Window sizes and the staleness threshold SmartSync decides by.
const (
	FullWindowDays  = 90
	QuickWindowDays = 7

	staleAfter = time.Hour
)

// SyncType records which path a sync took.
type SyncType string

const (
	TypeFull    SyncType = "full"
	TypeQuick   SyncType = "quick"
	TypeSkipped SyncType = "skipped"
)

// Result reports what a sync did. Counts are records written, zero for a
// skipped sync.
type Result struct {
	Type       SyncType
	Cycles     int
	Recoveries int
	Sleeps     int
	Workouts   int
}

// Gateway is the slice of the WHOOP client the sync engine needs.
type Gateway interface {
	Cycles(ctx context.Context, start, end time.Time) ([]models.Cycle, error)
	Recoveries(ctx context.Context, start, end time.Time) ([]models.Recovery, error)
	Sleeps(ctx context.Context, start, end time.Time) ([]models.Sleep, error)
	Workouts(ctx context.Context, start, end time.Time) ([]models.Workout, error)
}

type Syncer struct {
	gw     Gateway
	store  repomanager.Manager
	logger logging.Logger

	// now is swapped out by tests
	now func() time.Time

	sf singleflight.Group
}

func New(gw Gateway, store repomanager.Manager, logger logging.Logger) *Syncer {
	return &Syncer{
		gw:     gw,
		store:  store,
		logger: logger.With("component", "syncer"),
		now:    time.Now,
	}
}

// SyncWindow syncs the trailing window of the given number of days. The
// four collections are fetched in parallel; any fetch error aborts the
// whole sync before anything is written. Writes then run sequentially, one
// transaction per kind, so a failing kind leaves earlier kinds committed.
// Sync state is updated only after every kind committed.
func (s *Syncer) SyncWindow(ctx context.Context, days int) (*Result, error) {
	end := s.now()
	start := end.AddDate(0, 0, -days)

	var (
		cycles     []models.Cycle
		recoveries []models.Recovery
		sleeps     []models.Sleep
		workouts   []models.Workout
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cycles, err = s.gw.Cycles(gctx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		recoveries, err = s.gw.Recoveries(gctx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		sleeps, err = s.gw.Sleeps(gctx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		workouts, err = s.gw.Workouts(gctx, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.store.UpsertCycles(ctx, cycles); err != nil {
		return nil, fmt.Errorf("storing cycles: %w", err)
	}
	if err := s.store.UpsertRecoveries(ctx, recoveries); err != nil {
		return nil, fmt.Errorf("storing recoveries: %w", err)
	}
	if err := s.store.UpsertSleeps(ctx, sleeps); err != nil {
		return nil, fmt.Errorf("storing sleeps: %w", err)
	}
	if err := s.store.UpsertWorkouts(ctx, workouts); err != nil {
		return nil, fmt.Errorf("storing workouts: %w", err)
	}

	if err := s.store.UpdateSyncState(ctx, start, end); err != nil {
		return nil, fmt.Errorf("updating sync state: %w", err)
	}

	res := &Result{
		Cycles:     len(cycles),
		Recoveries: len(recoveries),
		Sleeps:     len(sleeps),
		Workouts:   len(workouts),
	}
	s.logger.Info(ctx, "sync window complete",
		"days", days,
		"cycles", res.Cycles,
		"recoveries", res.Recoveries,
		"sleeps", res.Sleeps,
		"workouts", res.Workouts,
	)
	return res, nil
}

// FullSync covers the full 90-day window WHOOP serves history for.
func (s *Syncer) FullSync(ctx context.Context) (*Result, error) {
	res, err := s.SyncWindow(ctx, FullWindowDays)
	if err != nil {
		return nil, err
	}
	res.Type = TypeFull
	return res, nil
}

// QuickSync covers the trailing week.
func (s *Syncer) QuickSync(ctx context.Context) (*Result, error) {
	res, err := s.SyncWindow(ctx, QuickWindowDays)
	if err != nil {
		return nil, err
	}
	res.Type = TypeQuick
	return res, nil
}

// SmartSync picks a sync by staleness: never synced runs a full sync, an
// hour or more since the last sync runs a quick sync, anything fresher is
// a no-op. Concurrent callers collapse into one in-flight sync and share
// its result.
func (s *Syncer) SmartSync(ctx context.Context) (*Result, error) {
	v, err, _ := s.sf.Do("smart", func() (any, error) {
		return s.smartSync(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Result), nil
}

func (s *Syncer) smartSync(ctx context.Context) (*Result, error) {
	state, err := s.store.SyncState().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading sync state: %w", err)
	}

	switch {
	case state.LastSyncAt == nil:
		s.logger.Info(ctx, "no previous sync, running full sync")
		return s.FullSync(ctx)
	case s.now().Sub(*state.LastSyncAt) >= staleAfter:
		return s.QuickSync(ctx)
	default:
		s.logger.Debug(ctx, "cache fresh, skipping sync", "last_sync_at", *state.LastSyncAt)
		return &Result{Type: TypeSkipped}, nil
	}
}
