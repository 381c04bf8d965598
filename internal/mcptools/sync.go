package mcptools

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mkorolev/whoopsync/internal/common"
	"github.com/mkorolev/whoopsync/internal/logging"
	"github.com/mkorolev/whoopsync/internal/syncer"
)

// SyncTool triggers a sync on demand. Unlike the data tools it reports
// sync failures verbatim instead of falling back to the cache.
type SyncTool struct {
	sync   SyncService
	logger logging.Logger
}

func NewSyncTool(sync SyncService, logger logging.Logger) *SyncTool {
	return &SyncTool{sync: sync, logger: logger}
}

func (t *SyncTool) Definition() mcp.Tool {
	return mcp.NewTool("sync_whoop_data",
		mcp.WithDescription("Fetch fresh data from WHOOP into the local cache. Covers the last 7 days, or the full 90-day history when full is set."),
		mcp.WithBoolean("full",
			mcp.Description("Re-sync the full 90-day history instead of the last week"),
			mcp.DefaultBool(false),
		),
	)
}

func (t *SyncTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	full := req.GetBool("full", false)

	var (
		res *syncer.Result
		err error
	)
	if full {
		res, err = t.sync.FullSync(ctx)
	} else {
		res, err = t.sync.QuickSync(ctx)
	}
	if err != nil {
		if errors.Is(err, common.ErrAuthMissing) {
			return mcp.NewToolResultError(authHelp), nil
		}
		t.logger.Error(ctx, "manual sync failed", "full", full, "error", err)
		return mcp.NewToolResultError("sync failed: " + err.Error()), nil
	}

	return mcp.NewToolResultText(formatSyncResult(res)), nil
}
