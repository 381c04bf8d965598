package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/mkorolev/whoopsync/internal/app"
	"github.com/mkorolev/whoopsync/internal/config"
	"github.com/mkorolev/whoopsync/internal/logging"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	// stdout carries JSON-RPC in stdio mode, so logs go to stderr
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	maybePromptSecret(cfg)

	a, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	a.Run(ctx)
}

// maybePromptSecret asks for the encryption secret interactively when it
// was not configured and a human is at the terminal. Under an MCP client
// stdin is the protocol stream, so no prompt happens there.
func maybePromptSecret(cfg *config.Config) {
	if cfg.EncryptionSecret != "" || !term.IsTerminal(int(os.Stdin.Fd())) {
		return
	}

	fmt.Fprint(os.Stderr, "Token encryption secret: ")
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil || len(secret) == 0 {
		return
	}
	cfg.EncryptionSecret = string(secret)
}
