package sleep

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

func pctPtr(v float64) *float64 { return &v }

func mainSleep(id string, start time.Time, performance float64) *models.Sleep {
	return &models.Sleep{
		ID:             id,
		Start:          start,
		End:            start.Add(8 * time.Hour),
		TimezoneOffset: "+02:00",
		Nap:            false,
		ScoreState:     models.ScoreStateScored,
		Score: &models.SleepScore{
			StageSummary: models.SleepStageSummary{
				TotalInBedTimeMilli:         28800000,
				TotalAwakeTimeMilli:         1800000,
				TotalLightSleepTimeMilli:    14400000,
				TotalSlowWaveSleepTimeMilli: 7200000,
				TotalRemSleepTimeMilli:      5400000,
				SleepCycleCount:             5,
				DisturbanceCount:            8,
			},
			SleepPerformancePercentage: pctPtr(performance),
			SleepEfficiencyPercentage:  pctPtr(91.5),
		},
		CreatedAt: start,
		UpdatedAt: start,
	}
}

func TestUpsert_RoundTrip(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	start := time.Date(2026, 8, 23, 22, 30, 0, 0, time.UTC)
	s := mainSleep("sleep-1", start, 88)
	cycleID := int64(42)
	s.CycleID = &cycleID
	require.NoError(t, r.Upsert(ctx, s))

	got, err := r.GetLatestMain(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sleep-1", got.ID)
	require.NotNil(t, got.CycleID)
	assert.Equal(t, int64(42), *got.CycleID)
	require.NotNil(t, got.Score)
	assert.Equal(t, int64(28800000), got.Score.StageSummary.TotalInBedTimeMilli)
	assert.Equal(t, 8, got.Score.StageSummary.DisturbanceCount)
	require.NotNil(t, got.Score.SleepPerformancePercentage)
	assert.InDelta(t, 88.0, *got.Score.SleepPerformancePercentage, 1e-9)
}

func TestGetLatestMain_SkipsNaps(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	night := mainSleep("night", time.Date(2026, 8, 23, 22, 0, 0, 0, time.UTC), 85)
	require.NoError(t, r.Upsert(ctx, night))

	nap := mainSleep("nap", time.Date(2026, 8, 24, 14, 0, 0, 0, time.UTC), 70)
	nap.Nap = true
	require.NoError(t, r.Upsert(ctx, nap))

	got, err := r.GetLatestMain(ctx)
	require.NoError(t, err)
	assert.Equal(t, "night", got.ID)
}

func TestGetLatestMain_Empty(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.GetLatestMain(context.Background())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetRange_IncludeNapsToggle(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 22, 0, 0, 0, time.UTC)
	require.NoError(t, r.Upsert(ctx, mainSleep("night-1", base, 85)))
	nap := mainSleep("nap-1", base.Add(16*time.Hour), 60)
	nap.Nap = true
	require.NoError(t, r.Upsert(ctx, nap))

	withoutNaps, err := r.GetRange(ctx, base, base.AddDate(0, 0, 2), false)
	require.NoError(t, err)
	require.Len(t, withoutNaps, 1)
	assert.Equal(t, "night-1", withoutNaps[0].ID)

	withNaps, err := r.GetRange(ctx, base, base.AddDate(0, 0, 2), true)
	require.NoError(t, err)
	assert.Len(t, withNaps, 2)
}

func TestSleepTrends_DerivedHours(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	// 28800000ms in bed − 1800000ms awake = 7.5h
	require.NoError(t, r.Upsert(ctx, mainSleep("night-1", now.AddDate(0, 0, -1), 88)))

	got, err := r.SleepTrends(ctx, now.AddDate(0, 0, -7))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 7.5, got[0].TotalSleepHours, 1e-9)
	assert.InDelta(t, 88.0, got[0].SleepPerformancePercentage, 1e-9)
	assert.Equal(t, 8, got[0].DisturbanceCount)
}

func TestSleepTrends_ExcludesNapsAndUnscored(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	nap := mainSleep("nap-1", now.Add(-4*time.Hour), 60)
	nap.Nap = true
	require.NoError(t, r.Upsert(ctx, nap))

	unscored := &models.Sleep{
		ID:         "pending-1",
		Start:      now.Add(-10 * time.Hour),
		End:        now.Add(-2 * time.Hour),
		ScoreState: models.ScoreStatePendingScore,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, r.Upsert(ctx, unscored))

	got, err := r.SleepTrends(ctx, now.AddDate(0, 0, -7))
	require.NoError(t, err)
	assert.Empty(t, got)
}
