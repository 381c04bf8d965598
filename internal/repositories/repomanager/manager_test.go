package repomanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkorolev/whoopsync/internal/models"
)

func setupManager(t *testing.T) Manager {
	t.Helper()
	m, err := NewSQLiteManager(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func testCycle(id int64, start time.Time, strain float64) models.Cycle {
	end := start.Add(24 * time.Hour)
	return models.Cycle{
		ID:             id,
		Start:          start,
		End:            &end,
		TimezoneOffset: "-07:00",
		ScoreState:     models.ScoreStateScored,
		Score: &models.CycleScore{
			Strain:           strain,
			Kilojoule:        8368,
			AverageHeartRate: 62,
			MaxHeartRate:     155,
		},
		CreatedAt: start,
		UpdatedAt: start,
	}
}

func TestUpsertCycles_BatchIdempotent(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 4, 0, 0, 0, time.UTC)
	batch := []models.Cycle{
		testCycle(101, base, 12.4),
		testCycle(102, base.Add(24*time.Hour), 9.1),
		testCycle(103, base.Add(48*time.Hour), 15.8),
	}

	require.NoError(t, m.UpsertCycles(ctx, batch))
	require.NoError(t, m.UpsertCycles(ctx, batch))

	got, err := m.Cycles().GetRange(ctx, base.Add(-time.Hour), base.Add(72*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 3)

	latest, err := m.Cycles().GetLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(103), latest.ID)
	require.NotNil(t, latest.Score)
	assert.InDelta(t, 15.8, latest.Score.Strain, 1e-9)
}

func TestUpsertCycles_EmptyBatch(t *testing.T) {
	m := setupManager(t)
	require.NoError(t, m.UpsertCycles(context.Background(), nil))
}

func TestUpdateSyncState_WidensOnly(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()

	oldest := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	newest := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	require.NoError(t, m.UpdateSyncState(ctx, oldest, newest))

	// a narrower window must not shrink the recorded boundaries
	require.NoError(t, m.UpdateSyncState(ctx,
		time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)))

	state, err := m.SyncState().Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, state.OldestSyncedDate)
	require.NotNil(t, state.NewestSyncedDate)
	require.NotNil(t, state.LastSyncAt)
	assert.True(t, state.OldestSyncedDate.Equal(oldest))
	assert.True(t, state.NewestSyncedDate.Equal(newest))
}

func TestTokens_Roundtrip(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()

	expires := time.Date(2026, 8, 26, 16, 30, 0, 0, time.UTC)
	require.NoError(t, m.Tokens().Save(ctx, &models.Token{
		AccessToken:  "acc",
		RefreshToken: "ref",
		ExpiresAt:    expires,
	}))

	got, err := m.Tokens().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "acc", got.AccessToken)
	assert.Equal(t, "ref", got.RefreshToken)
	assert.True(t, got.ExpiresAt.Equal(expires))
}
