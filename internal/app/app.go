// Package app initializes and runs the whoopsync server: it builds the
// store, the WHOOP gateway, the sync engine and the MCP surface, starts
// the chosen transport plus the OAuth callback listener, and handles
// graceful shutdown.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mkorolev/whoopsync/internal/config"
	"github.com/mkorolev/whoopsync/internal/credstore"
	"github.com/mkorolev/whoopsync/internal/cryptox"
	"github.com/mkorolev/whoopsync/internal/logging"
	"github.com/mkorolev/whoopsync/internal/mcpserver"
	"github.com/mkorolev/whoopsync/internal/repositories/repomanager"
	"github.com/mkorolev/whoopsync/internal/syncer"
	"github.com/mkorolev/whoopsync/internal/whoop"
)

// sweepInterval is how often the SSE session sweeper looks for idle
// sessions.
const sweepInterval = time.Minute

type App struct {
	config   *config.Config
	logger   logging.Logger
	store    repomanager.Manager
	gateway  *whoop.Client
	states   *PendingStates
	sessions *mcpserver.SessionRegistry
	mcp      *server.MCPServer
}

func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	store, err := repomanager.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	cipher, err := cryptox.New(cfg.EncryptionSecret)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("cipher init error: %w", err)
	}
	creds := credstore.New(store.Tokens(), cipher)

	gateway := whoop.NewClient(whoop.Config{
		ClientID:     cfg.WhoopClientID,
		ClientSecret: cfg.WhoopClientSecret,
		RedirectURL:  cfg.RedirectURL,
	}, creds, logger)

	sync := syncer.New(gateway, store, logger)
	states := NewPendingStates()

	var sessions *mcpserver.SessionRegistry
	if cfg.Transport == config.TransportSSE {
		sessions = mcpserver.NewSessionRegistry(cfg.SessionTTL, logger)
	}

	mcpSrv := mcpserver.New(store, sync, gateway, states, sessions, logger)

	return &App{
		config:   cfg,
		logger:   logger,
		store:    store,
		gateway:  gateway,
		states:   states,
		sessions: sessions,
		mcp:      mcpSrv,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startCallbackServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := NewCallbackServer(app.config.CallbackAddr, app.gateway, app.states, app.logger)
	app.logger.Info(ctx, "callback listener starting", "addr", app.config.CallbackAddr)
	if err := srv.Run(ctx); err != nil {
		app.logger.Error(ctx, "callback listener failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startStdio(ctx context.Context, cancelFunc context.CancelFunc) {
	app.logger.Info(ctx, "serving MCP over stdio")
	stdio := server.NewStdioServer(app.mcp)
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		app.logger.Error(ctx, "stdio transport failed", "error", err)
	}
	// stdin EOF means the client is gone either way
	cancelFunc()
}

func (app *App) startSSE(ctx context.Context, cancelFunc context.CancelFunc) {
	sse := server.NewSSEServer(app.mcp)

	go app.sessions.Run(ctx, sweepInterval, func(id string) {
		app.mcp.UnregisterSession(ctx, id)
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = sse.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "serving MCP over SSE", "addr", app.config.HTTPAddr)
	if err := sse.Start(app.config.HTTPAddr); err != nil && ctx.Err() == nil {
		app.logger.Error(ctx, "SSE transport failed", "error", err)
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting whoopsync",
		"transport", app.config.Transport, "dsn", app.config.DatabaseDSN)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startCallbackServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if app.config.Transport == config.TransportSSE {
			app.startSSE(ctx, cancelFunc)
		} else {
			app.startStdio(ctx, cancelFunc)
		}
	}()

	wg.Wait()

	if err := app.store.Close(); err != nil {
		app.logger.Error(ctx, "closing store", "error", err)
	}
	app.logger.Info(ctx, "whoopsync stopped")
}
