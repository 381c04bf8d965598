package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/mkorolev/whoopsync/internal/flagx"
	"github.com/mkorolev/whoopsync/internal/timex"
)

// JsonConfig is the intermediate DTO for JSON config files. It uses
// timex.Duration for interval fields so both "30m" and integer nanoseconds
// parse.
type JsonConfig struct {
	DatabaseDSN       string         `json:"database_dsn"`
	WhoopClientID     string         `json:"whoop_client_id"`
	WhoopClientSecret string         `json:"whoop_client_secret"`
	RedirectURL       string         `json:"redirect_url"`
	CallbackAddr      string         `json:"callback_addr"`
	EncryptionSecret  string         `json:"encryption_secret"`
	Transport         string         `json:"transport"`
	HTTPAddr          string         `json:"http_addr"`
	SessionTTL        timex.Duration `json:"session_ttl"`
}

// parseJson overlays values from the JSON file named by the -c/-config
// flags, when given. Keys absent from the file keep their current values.
// An unreadable or invalid file panics: a config file that was explicitly
// asked for must not be silently ignored.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.WhoopClientID != "" {
		config.WhoopClientID = c.WhoopClientID
	}
	if c.WhoopClientSecret != "" {
		config.WhoopClientSecret = c.WhoopClientSecret
	}
	if c.RedirectURL != "" {
		config.RedirectURL = c.RedirectURL
	}
	if c.CallbackAddr != "" {
		config.CallbackAddr = c.CallbackAddr
	}
	if c.EncryptionSecret != "" {
		config.EncryptionSecret = c.EncryptionSecret
	}
	if c.Transport != "" {
		config.Transport = c.Transport
	}
	if c.HTTPAddr != "" {
		config.HTTPAddr = c.HTTPAddr
	}
	if c.SessionTTL.Duration != 0 {
		config.SessionTTL = time.Duration(c.SessionTTL.Duration)
	}
}
