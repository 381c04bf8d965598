package config

import (
	"flag"
	"os"
	"time"

	"github.com/mkorolev/whoopsync/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-d string   database DSN (sqlite path or postgres:// URL)
//	-i string   WHOOP OAuth client id
//	-s string   WHOOP OAuth client secret
//	-r string   OAuth redirect URL
//	-b string   callback listener bind address
//	-e string   token encryption secret
//	-t string   transport, "stdio" or "sse"
//	-a string   SSE bind address
//	-l int      SSE session idle TTL, minutes
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with the -c/-config flags.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-i", "-s", "-r", "-b", "-e", "-t", "-a", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.WhoopClientID, "i", config.WhoopClientID, "WHOOP client id")
	fs.StringVar(&config.WhoopClientSecret, "s", config.WhoopClientSecret, "WHOOP client secret")
	fs.StringVar(&config.RedirectURL, "r", config.RedirectURL, "OAuth redirect URL")
	fs.StringVar(&config.CallbackAddr, "b", config.CallbackAddr, "callback listener address")
	fs.StringVar(&config.EncryptionSecret, "e", config.EncryptionSecret, "token encryption secret")
	fs.StringVar(&config.Transport, "t", config.Transport, "transport (stdio or sse)")
	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "SSE bind address")

	sessionTTL := fs.Int("l", int(config.SessionTTL.Minutes()), "SSE session idle TTL (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTTL = time.Duration(*sessionTTL) * time.Minute
}
