package mcptools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mkorolev/whoopsync/internal/logging"
	"github.com/mkorolev/whoopsync/internal/repositories/repomanager"
)

func daysOption() mcp.ToolOption {
	return mcp.WithNumber("days",
		mcp.Description("Trailing window in days (1-90)"),
		mcp.DefaultNumber(defaultTrendDays),
		mcp.Min(minTrendDays),
		mcp.Max(maxTrendDays),
	)
}

// RecoveryTrendTool serves the per-day recovery history.
type RecoveryTrendTool struct {
	store  repomanager.Manager
	sync   SyncService
	logger logging.Logger
	now    func() time.Time
}

func NewRecoveryTrendTool(store repomanager.Manager, sync SyncService, logger logging.Logger) *RecoveryTrendTool {
	return &RecoveryTrendTool{store: store, sync: sync, logger: logger, now: time.Now}
}

func (t *RecoveryTrendTool) Definition() mcp.Tool {
	return mcp.NewTool("get_recovery_trend",
		mcp.WithDescription("Daily recovery score, resting heart rate and HRV for the trailing window, most recent day first."),
		daysOption(),
	)
}

func (t *RecoveryTrendTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := clampDays(req.GetInt("days", defaultTrendDays))

	if err := refreshCache(ctx, t.sync, t.logger); err != nil {
		return mcp.NewToolResultError(authHelp), nil
	}

	points, err := t.store.Recoveries().RecoveryTrends(ctx, trendWindow(t.now(), days))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading recovery trend: %v", err)), nil
	}
	return mcp.NewToolResultText(formatRecoveryTrend(points, days)), nil
}

// SleepTrendTool serves the per-day sleep history for main sleeps.
type SleepTrendTool struct {
	store  repomanager.Manager
	sync   SyncService
	logger logging.Logger
	now    func() time.Time
}

func NewSleepTrendTool(store repomanager.Manager, sync SyncService, logger logging.Logger) *SleepTrendTool {
	return &SleepTrendTool{store: store, sync: sync, logger: logger, now: time.Now}
}

func (t *SleepTrendTool) Definition() mcp.Tool {
	return mcp.NewTool("get_sleep_trend",
		mcp.WithDescription("Daily sleep duration, performance, efficiency and disturbances for the trailing window, naps excluded, most recent day first."),
		daysOption(),
	)
}

func (t *SleepTrendTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := clampDays(req.GetInt("days", defaultTrendDays))

	if err := refreshCache(ctx, t.sync, t.logger); err != nil {
		return mcp.NewToolResultError(authHelp), nil
	}

	points, err := t.store.Sleeps().SleepTrends(ctx, trendWindow(t.now(), days))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading sleep trend: %v", err)), nil
	}
	return mcp.NewToolResultText(formatSleepTrend(points, days)), nil
}

// StrainTrendTool serves the per-day strain history.
type StrainTrendTool struct {
	store  repomanager.Manager
	sync   SyncService
	logger logging.Logger
	now    func() time.Time
}

func NewStrainTrendTool(store repomanager.Manager, sync SyncService, logger logging.Logger) *StrainTrendTool {
	return &StrainTrendTool{store: store, sync: sync, logger: logger, now: time.Now}
}

func (t *StrainTrendTool) Definition() mcp.Tool {
	return mcp.NewTool("get_strain_trend",
		mcp.WithDescription("Daily strain, calories and heart-rate summary for the trailing window, most recent day first."),
		daysOption(),
	)
}

func (t *StrainTrendTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := clampDays(req.GetInt("days", defaultTrendDays))

	if err := refreshCache(ctx, t.sync, t.logger); err != nil {
		return mcp.NewToolResultError(authHelp), nil
	}

	points, err := t.store.Cycles().StrainTrends(ctx, trendWindow(t.now(), days))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading strain trend: %v", err)), nil
	}
	return mcp.NewToolResultText(formatStrainTrend(points, days)), nil
}
