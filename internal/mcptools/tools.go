// Package mcptools implements the MCP tools exposed to the model: cached
// WHOOP summaries and trends, manual sync, and the OAuth bootstrap. Each
// tool is a struct with a Definition for registration and a Handle method;
// handlers report failures as tool results, never as protocol errors.
package mcptools

import (
	"context"
	"errors"
	"time"

	"github.com/mkorolev/whoopsync/internal/common"
	"github.com/mkorolev/whoopsync/internal/logging"
	"github.com/mkorolev/whoopsync/internal/models"
	"github.com/mkorolev/whoopsync/internal/syncer"
)

// Trend windows are clamped to what the store can actually answer for:
// WHOOP serves 90 days of history.
const (
	defaultTrendDays = 14
	minTrendDays     = 1
	maxTrendDays     = 90
)

const authHelp = "Not authenticated with WHOOP. Call get_auth_url, open the returned link in a browser and approve access; the local callback captures the tokens automatically. Then retry this tool."

// SyncService is the slice of the sync engine the tools call.
type SyncService interface {
	SmartSync(ctx context.Context) (*syncer.Result, error)
	QuickSync(ctx context.Context) (*syncer.Result, error)
	FullSync(ctx context.Context) (*syncer.Result, error)
}

// ProfileSource fetches the two upstream singletons the today summary
// decorates itself with.
type ProfileSource interface {
	Profile(ctx context.Context) (*models.Profile, error)
	BodyMeasurement(ctx context.Context) (*models.BodyMeasurement, error)
}

// Authorizer produces OAuth authorization URLs with fresh CSRF states.
type Authorizer interface {
	AuthorizationURL(scopes ...string) (authURL, state string)
}

func clampDays(days int) int {
	if days < minTrendDays {
		return minTrendDays
	}
	if days > maxTrendDays {
		return maxTrendDays
	}
	return days
}

// refreshCache runs an opportunistic sync before a data tool reads the
// cache. Missing authorization is the caller's problem to report; any
// other failure is logged and swallowed so the cached data still serves.
func refreshCache(ctx context.Context, sync SyncService, logger logging.Logger) error {
	if _, err := sync.SmartSync(ctx); err != nil {
		if errors.Is(err, common.ErrAuthMissing) {
			return err
		}
		logger.Warn(ctx, "opportunistic sync failed, serving cached data", "error", err)
	}
	return nil
}

func trendWindow(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, -days)
}
