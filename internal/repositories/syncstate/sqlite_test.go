package syncstate

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/mkorolev/whoopsync/internal/repositories/migrations"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.Up(db, "sqlite"))

	return db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGet_NeverSynced(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	s, err := r.Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, s.LastSyncAt)
	assert.Nil(t, s.OldestSyncedDate)
	assert.Nil(t, s.NewestSyncedDate)
}

func TestWiden_FirstSync(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	now := time.Date(2026, 8, 26, 12, 30, 0, 0, time.UTC)
	require.NoError(t, r.Widen(ctx, now.AddDate(0, 0, -90), now, now))

	s, err := r.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, s.LastSyncAt)
	assert.True(t, s.LastSyncAt.Equal(now))
	assert.True(t, s.OldestSyncedDate.Equal(date(2026, 5, 28)))
	assert.True(t, s.NewestSyncedDate.Equal(date(2026, 8, 26)))
}

func TestWiden_BoundariesOnlyWiden(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	require.NoError(t, r.Widen(ctx, date(2026, 6, 1), date(2026, 8, 1), now))

	// a narrower window must not shrink the boundaries
	later := now.Add(time.Hour)
	require.NoError(t, r.Widen(ctx, date(2026, 7, 1), date(2026, 7, 15), later))

	s, err := r.Get(ctx)
	require.NoError(t, err)
	assert.True(t, s.OldestSyncedDate.Equal(date(2026, 6, 1)))
	assert.True(t, s.NewestSyncedDate.Equal(date(2026, 8, 1)))
	// last_sync_at always advances
	assert.True(t, s.LastSyncAt.Equal(later))

	// a wider window widens both ends
	require.NoError(t, r.Widen(ctx, date(2026, 5, 1), date(2026, 8, 20), later))
	s, err = r.Get(ctx)
	require.NoError(t, err)
	assert.True(t, s.OldestSyncedDate.Equal(date(2026, 5, 1)))
	assert.True(t, s.NewestSyncedDate.Equal(date(2026, 8, 20)))
}

func TestWiden_Monotonic(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	windows := []struct{ oldest, newest time.Time }{
		{date(2026, 3, 10), date(2026, 4, 10)},
		{date(2026, 2, 1), date(2026, 3, 1)},
		{date(2026, 4, 1), date(2026, 8, 1)},
		{date(2026, 3, 1), date(2026, 3, 2)},
	}
	for _, w := range windows {
		require.NoError(t, r.Widen(ctx, w.oldest, w.newest, now))
	}

	s, err := r.Get(ctx)
	require.NoError(t, err)
	assert.True(t, s.OldestSyncedDate.Equal(date(2026, 2, 1)), "oldest must be the min of all windows")
	assert.True(t, s.NewestSyncedDate.Equal(date(2026, 8, 1)), "newest must be the max of all windows")
}
