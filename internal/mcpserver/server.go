// Package mcpserver is the composition root for the MCP surface: it builds
// the server instance, registers every tool, and wires session tracking
// hooks for the SSE transport. No business logic lives here.
package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mkorolev/whoopsync/internal/logging"
	"github.com/mkorolev/whoopsync/internal/mcptools"
	"github.com/mkorolev/whoopsync/internal/repositories/repomanager"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Gateway is what the tool layer needs from the WHOOP client, beyond
// syncing: the profile singletons and the OAuth bootstrap.
type Gateway interface {
	mcptools.ProfileSource
	mcptools.Authorizer
}

// New creates the MCP server with all tools registered. sessions may be
// nil for the stdio transport; with a registry the server tracks SSE
// sessions through lifecycle hooks so the idle sweeper can evict them.
func New(
	store repomanager.Manager,
	sync mcptools.SyncService,
	gw Gateway,
	states mcptools.PendingStates,
	sessions *SessionRegistry,
	logger logging.Logger,
) *server.MCPServer {
	opts := []server.ServerOption{
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions),
	}
	if sessions != nil {
		opts = append(opts, server.WithHooks(sessionHooks(sessions)))
	}

	s := server.NewMCPServer("whoopsync", Version, opts...)

	today := mcptools.NewTodaySummaryTool(store, sync, gw, logger)
	s.AddTool(today.Definition(), today.Handle)

	recovery := mcptools.NewRecoveryTrendTool(store, sync, logger)
	s.AddTool(recovery.Definition(), recovery.Handle)

	sleep := mcptools.NewSleepTrendTool(store, sync, logger)
	s.AddTool(sleep.Definition(), sleep.Handle)

	strain := mcptools.NewStrainTrendTool(store, sync, logger)
	s.AddTool(strain.Definition(), strain.Handle)

	syncTool := mcptools.NewSyncTool(sync, logger)
	s.AddTool(syncTool.Definition(), syncTool.Handle)

	auth := mcptools.NewAuthURLTool(gw, states)
	s.AddTool(auth.Definition(), auth.Handle)

	return s
}

func sessionHooks(sessions *SessionRegistry) *server.Hooks {
	hooks := &server.Hooks{}
	hooks.AddOnRegisterSession(func(ctx context.Context, session server.ClientSession) {
		sessions.Register(session.SessionID())
	})
	hooks.AddOnUnregisterSession(func(ctx context.Context, session server.ClientSession) {
		sessions.Remove(session.SessionID())
	})
	hooks.AddBeforeAny(func(ctx context.Context, id any, method mcp.MCPMethod, message any) {
		if session := server.ClientSessionFromContext(ctx); session != nil {
			sessions.Touch(session.SessionID())
		}
	})
	return hooks
}

const serverInstructions = `whoopsync exposes cached WHOOP fitness data.

Data tools (get_today_summary, get_recovery_trend, get_sleep_trend,
get_strain_trend) read a local cache and refresh it opportunistically, so
they are cheap to call. Use sync_whoop_data to force a refresh, with
full=true after long gaps. If tools report missing authorization, call
get_auth_url and have the user open the link.`
