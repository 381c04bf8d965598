package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/mkorolev/whoopsync/internal/dbx"
	"github.com/mkorolev/whoopsync/internal/repositories/cycles"
	"github.com/mkorolev/whoopsync/internal/repositories/migrations"
	"github.com/mkorolev/whoopsync/internal/repositories/recovery"
	"github.com/mkorolev/whoopsync/internal/repositories/sleep"
	"github.com/mkorolev/whoopsync/internal/repositories/syncstate"
	"github.com/mkorolev/whoopsync/internal/repositories/tokens"
	"github.com/mkorolev/whoopsync/internal/repositories/workouts"
)

var sqliteBackend = backend{
	cycles:     func(db dbx.DBTX) cycles.Repository { return cycles.NewSQLiteRepository(db) },
	recoveries: func(db dbx.DBTX) recovery.Repository { return recovery.NewSQLiteRepository(db) },
	sleeps:     func(db dbx.DBTX) sleep.Repository { return sleep.NewSQLiteRepository(db) },
	workouts:   func(db dbx.DBTX) workouts.Repository { return workouts.NewSQLiteRepository(db) },
	tokens:     func(db dbx.DBTX) tokens.Repository { return tokens.NewSQLiteRepository(db) },
	syncState:  func(db dbx.DBTX) syncstate.Repository { return syncstate.NewSQLiteRepository(db) },
}

// NewSQLiteManager opens (creating if needed) the SQLite database at dsn and
// runs pending migrations.
func NewSQLiteManager(ctx context.Context, dsn string) (Manager, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// The sync engine and the tool layer share one handle; sqlite allows a
	// single writer, so serialize access at the pool level.
	db.SetMaxOpenConns(1)

	if err := migrate(ctx, db, "sqlite3", "sqlite"); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &sqlManager{db: db, b: sqliteBackend}, nil
}

func migrate(ctx context.Context, db *sql.DB, dialect, dir string) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
