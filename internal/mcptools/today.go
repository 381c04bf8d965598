package mcptools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mkorolev/whoopsync/internal/common"
	"github.com/mkorolev/whoopsync/internal/logging"
	"github.com/mkorolev/whoopsync/internal/models"
	"github.com/mkorolev/whoopsync/internal/repositories/repomanager"
)

// TodaySummaryTool assembles the current-day snapshot: latest recovery,
// last night's sleep, the running cycle's strain, and today's workouts,
// decorated with the profile when the upstream is reachable.
type TodaySummaryTool struct {
	store   repomanager.Manager
	sync    SyncService
	profile ProfileSource
	logger  logging.Logger
	now     func() time.Time
}

func NewTodaySummaryTool(store repomanager.Manager, sync SyncService, profile ProfileSource, logger logging.Logger) *TodaySummaryTool {
	return &TodaySummaryTool{store: store, sync: sync, profile: profile, logger: logger, now: time.Now}
}

func (t *TodaySummaryTool) Definition() mcp.Tool {
	return mcp.NewTool("get_today_summary",
		mcp.WithDescription("Current WHOOP snapshot: recovery, last night's sleep, today's strain and workouts."),
	)
}

// todaySummary is the data formatTodaySummary renders. Nil sections render
// as "no data yet".
type todaySummary struct {
	Profile  *models.Profile
	Body     *models.BodyMeasurement
	Recovery *models.Recovery
	Sleep    *models.Sleep
	Cycle    *models.Cycle
	Workouts []models.Workout
}

func (t *TodaySummaryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := refreshCache(ctx, t.sync, t.logger); err != nil {
		return mcp.NewToolResultError(authHelp), nil
	}

	var sum todaySummary
	var err error

	if sum.Recovery, err = t.store.Recoveries().GetLatest(ctx); err != nil && !errors.Is(err, common.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("reading recovery: %v", err)), nil
	}
	if sum.Sleep, err = t.store.Sleeps().GetLatestMain(ctx); err != nil && !errors.Is(err, common.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("reading sleep: %v", err)), nil
	}
	if sum.Cycle, err = t.store.Cycles().GetLatest(ctx); err != nil && !errors.Is(err, common.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("reading cycle: %v", err)), nil
	}

	now := t.now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if sum.Workouts, err = t.store.Workouts().GetRange(ctx, midnight, now); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading workouts: %v", err)), nil
	}

	// profile and body measurement are decoration; a failed fetch just
	// drops them from the summary
	if p, err := t.profile.Profile(ctx); err == nil {
		sum.Profile = p
	} else {
		t.logger.Debug(ctx, "profile fetch skipped", "error", err)
	}
	if b, err := t.profile.BodyMeasurement(ctx); err == nil {
		sum.Body = b
	} else {
		t.logger.Debug(ctx, "body measurement fetch skipped", "error", err)
	}

	return mcp.NewToolResultText(formatTodaySummary(&sum, now)), nil
}
