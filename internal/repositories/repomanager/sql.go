package repomanager

import (
	"context"
	"database/sql"
	"time"

	"github.com/mkorolev/whoopsync/internal/dbx"
	"github.com/mkorolev/whoopsync/internal/models"
	"github.com/mkorolev/whoopsync/internal/repositories/cycles"
	"github.com/mkorolev/whoopsync/internal/repositories/recovery"
	"github.com/mkorolev/whoopsync/internal/repositories/sleep"
	"github.com/mkorolev/whoopsync/internal/repositories/syncstate"
	"github.com/mkorolev/whoopsync/internal/repositories/tokens"
	"github.com/mkorolev/whoopsync/internal/repositories/workouts"
)

// backend is the table of repository constructors for one SQL dialect.
// Constructors take a DBTX so batch operations can bind repositories to a
// transaction instead of the root handle.
type backend struct {
	cycles     func(dbx.DBTX) cycles.Repository
	recoveries func(dbx.DBTX) recovery.Repository
	sleeps     func(dbx.DBTX) sleep.Repository
	workouts   func(dbx.DBTX) workouts.Repository
	tokens     func(dbx.DBTX) tokens.Repository
	syncState  func(dbx.DBTX) syncstate.Repository
}

// sqlManager implements Manager for any database/sql backend.
type sqlManager struct {
	db *sql.DB
	b  backend
}

func (m *sqlManager) Cycles() cycles.Repository       { return m.b.cycles(m.db) }
func (m *sqlManager) Recoveries() recovery.Repository { return m.b.recoveries(m.db) }
func (m *sqlManager) Sleeps() sleep.Repository        { return m.b.sleeps(m.db) }
func (m *sqlManager) Workouts() workouts.Repository   { return m.b.workouts(m.db) }
func (m *sqlManager) Tokens() tokens.Repository       { return m.b.tokens(m.db) }
func (m *sqlManager) SyncState() syncstate.Repository { return m.b.syncState(m.db) }

func (m *sqlManager) Close() error { return m.db.Close() }

func (m *sqlManager) UpsertCycles(ctx context.Context, records []models.Cycle) error {
	if len(records) == 0 {
		return nil
	}
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := m.b.cycles(tx)
		for i := range records {
			if err := repo.Upsert(ctx, &records[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (m *sqlManager) UpsertRecoveries(ctx context.Context, records []models.Recovery) error {
	if len(records) == 0 {
		return nil
	}
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := m.b.recoveries(tx)
		for i := range records {
			if err := repo.Upsert(ctx, &records[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (m *sqlManager) UpsertSleeps(ctx context.Context, records []models.Sleep) error {
	if len(records) == 0 {
		return nil
	}
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := m.b.sleeps(tx)
		for i := range records {
			if err := repo.Upsert(ctx, &records[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (m *sqlManager) UpsertWorkouts(ctx context.Context, records []models.Workout) error {
	if len(records) == 0 {
		return nil
	}
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := m.b.workouts(tx)
		for i := range records {
			if err := repo.Upsert(ctx, &records[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (m *sqlManager) UpdateSyncState(ctx context.Context, oldest, newest time.Time) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return m.b.syncState(tx).Widen(ctx, oldest, newest, time.Now())
	})
}
