package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver

	"github.com/mkorolev/whoopsync/internal/dbx"
	"github.com/mkorolev/whoopsync/internal/repositories/cycles"
	"github.com/mkorolev/whoopsync/internal/repositories/recovery"
	"github.com/mkorolev/whoopsync/internal/repositories/sleep"
	"github.com/mkorolev/whoopsync/internal/repositories/syncstate"
	"github.com/mkorolev/whoopsync/internal/repositories/tokens"
	"github.com/mkorolev/whoopsync/internal/repositories/workouts"
)

var postgresBackend = backend{
	cycles:     func(db dbx.DBTX) cycles.Repository { return cycles.NewPostgresRepository(db) },
	recoveries: func(db dbx.DBTX) recovery.Repository { return recovery.NewPostgresRepository(db) },
	sleeps:     func(db dbx.DBTX) sleep.Repository { return sleep.NewPostgresRepository(db) },
	workouts:   func(db dbx.DBTX) workouts.Repository { return workouts.NewPostgresRepository(db) },
	tokens:     func(db dbx.DBTX) tokens.Repository { return tokens.NewPostgresRepository(db) },
	syncState:  func(db dbx.DBTX) syncstate.Repository { return syncstate.NewPostgresRepository(db) },
}

// NewPostgresManager connects to the PostgreSQL database at dsn and runs
// pending migrations.
func NewPostgresManager(ctx context.Context, dsn string) (Manager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	if err := migrate(ctx, db, "postgres", "postgres"); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &sqlManager{db: db, b: postgresBackend}, nil
}

// New picks the backend from the DSN: postgres:// (or postgresql://) selects
// PostgreSQL, anything else is treated as a SQLite file path.
func New(ctx context.Context, dsn string) (Manager, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return NewPostgresManager(ctx, dsn)
	}
	return NewSQLiteManager(ctx, dsn)
}
