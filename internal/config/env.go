package config

import "os"

// parseEnv overlays values from environment variables. Secrets usually
// arrive this way so they stay out of command lines and config files.
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("WHOOPSYNC_DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("WHOOP_CLIENT_ID"); ok {
		config.WhoopClientID = v
	}
	if v, ok := os.LookupEnv("WHOOP_CLIENT_SECRET"); ok {
		config.WhoopClientSecret = v
	}
	if v, ok := os.LookupEnv("WHOOP_REDIRECT_URL"); ok {
		config.RedirectURL = v
	}
	if v, ok := os.LookupEnv("WHOOPSYNC_ENCRYPTION_SECRET"); ok {
		config.EncryptionSecret = v
	}
}
