package cycles

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/mkorolev/whoopsync/internal/common"
	"github.com/mkorolev/whoopsync/internal/models"
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

func scoredCycle(id int64, start time.Time, strain float64) *models.Cycle {
	end := start.Add(24 * time.Hour)
	return &models.Cycle{
		ID:             id,
		Start:          start,
		End:            &end,
		TimezoneOffset: "+02:00",
		ScoreState:     models.ScoreStateScored,
		Score: &models.CycleScore{
			Strain:           strain,
			Kilojoule:        8368.0,
			AverageHeartRate: 62,
			MaxHeartRate:     142,
		},
		CreatedAt: start,
		UpdatedAt: start,
	}
}

func TestUpsert_InsertAndReplace(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	start := time.Date(2026, 8, 20, 4, 0, 0, 0, time.UTC)
	require.NoError(t, r.Upsert(ctx, scoredCycle(100, start, 10.5)))

	// re-sync replaces the row wholesale
	updated := scoredCycle(100, start, 14.2)
	require.NoError(t, r.Upsert(ctx, updated))

	got, err := r.GetLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(100), got.ID)
	require.NotNil(t, got.Score)
	assert.InDelta(t, 14.2, got.Score.Strain, 1e-9)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM cycles`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestUpsert_Idempotent(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	c := scoredCycle(7, time.Date(2026, 8, 21, 4, 0, 0, 0, time.UTC), 12.0)
	require.NoError(t, r.Upsert(ctx, c))
	first, err := r.GetLatest(ctx)
	require.NoError(t, err)

	require.NoError(t, r.Upsert(ctx, c))
	second, err := r.GetLatest(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestUpsert_UnscoredCycle(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	c := &models.Cycle{
		ID:         5,
		Start:      time.Date(2026, 8, 25, 4, 0, 0, 0, time.UTC),
		ScoreState: models.ScoreStatePendingScore,
		CreatedAt:  time.Date(2026, 8, 25, 4, 0, 0, 0, time.UTC),
		UpdatedAt:  time.Date(2026, 8, 25, 4, 0, 0, 0, time.UTC),
	}
	require.NoError(t, r.Upsert(ctx, c))

	got, err := r.GetLatest(ctx)
	require.NoError(t, err)
	assert.Nil(t, got.Score)
	assert.Nil(t, got.End)
	assert.Equal(t, models.ScoreStatePendingScore, got.ScoreState)
}

func TestGetLatest_Empty(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.GetLatest(context.Background())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetRange_OrderAndBounds(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 10, 4, 0, 0, 0, time.UTC)
	for i := int64(0); i < 5; i++ {
		require.NoError(t, r.Upsert(ctx, scoredCycle(i, base.AddDate(0, 0, int(i)), 10)))
	}

	got, err := r.GetRange(ctx, base.AddDate(0, 0, 1), base.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Len(t, got, 3)
	// newest first
	assert.Equal(t, int64(3), got[0].ID)
	assert.Equal(t, int64(1), got[2].ID)
}

func TestStrainTrends_ExcludesUnscored(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, r.Upsert(ctx, scoredCycle(1, now.AddDate(0, 0, -1), 15.0)))
	require.NoError(t, r.Upsert(ctx, &models.Cycle{
		ID:         2,
		Start:      now.Add(-2 * time.Hour),
		ScoreState: models.ScoreStatePendingScore,
		CreatedAt:  now,
		UpdatedAt:  now,
	}))
	// outside the window
	require.NoError(t, r.Upsert(ctx, scoredCycle(3, now.AddDate(0, 0, -30), 9.0)))

	got, err := r.StrainTrends(ctx, now.AddDate(0, 0, -7))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 15.0, got[0].Strain, 1e-9)
	assert.InDelta(t, 8368.0/4.184, got[0].Calories, 1e-6)
	assert.Equal(t, now.AddDate(0, 0, -1).Format("2006-01-02"), got[0].Date)
}
