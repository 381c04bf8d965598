// Package config handles runtime configuration: defaults, an optional JSON
// overlay, environment variables, and command-line flags, applied in that
// order.
package config

import "time"

// Transport selects how the MCP server talks to its client.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// Config holds runtime settings for the whoopsync server.
//
// Fields:
//   - DatabaseDSN: sqlite file path, or a postgres:// DSN for pgx.
//   - WhoopClientID / WhoopClientSecret: OAuth client registration.
//   - RedirectURL: registered OAuth redirect, served by the local callback
//     listener.
//   - CallbackAddr: bind address of the callback listener.
//   - EncryptionSecret: operator secret for token encryption at rest.
//   - Transport: "stdio" (default) or "sse".
//   - HTTPAddr: bind address for the SSE transport.
//   - SessionTTL: idle lifetime of an SSE session before the sweeper
//     closes it.
type Config struct {
	DatabaseDSN       string
	WhoopClientID     string
	WhoopClientSecret string
	RedirectURL       string
	CallbackAddr      string
	EncryptionSecret  string
	Transport         string
	HTTPAddr          string
	SessionTTL        time.Duration
}

// LoadDefaults populates Config with development defaults. The OAuth client
// registration and encryption secret have no sane default and must come
// from the JSON file, environment, or flags.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "whoopsync.db"
	c.RedirectURL = "http://localhost:8756/callback"
	c.CallbackAddr = ":8756"
	c.Transport = TransportStdio
	c.HTTPAddr = ":8757"
	c.SessionTTL = 30 * time.Minute
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment, and finally command-line
// flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
