package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "whoopsync.db", c.DatabaseDSN)
	assert.Equal(t, "http://localhost:8756/callback", c.RedirectURL)
	assert.Equal(t, ":8756", c.CallbackAddr)
	assert.Equal(t, TransportStdio, c.Transport)
	assert.Equal(t, ":8757", c.HTTPAddr)
	assert.Equal(t, 30*time.Minute, c.SessionTTL)
	assert.Empty(t, c.WhoopClientID)
	assert.Empty(t, c.WhoopClientSecret)
	assert.Empty(t, c.EncryptionSecret)
}

func Test_parseJson_OverlaysOnlyPresentKeys(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"database_dsn": "postgres://localhost/whoop",
		"transport":    "sse",
		"session_ttl":  "15m",
	})
	os.Args = []string{"testbin", "-config", path}

	c := &Config{}
	c.LoadDefaults()
	parseJson(c)

	assert.Equal(t, "postgres://localhost/whoop", c.DatabaseDSN)
	assert.Equal(t, TransportSSE, c.Transport)
	assert.Equal(t, 15*time.Minute, c.SessionTTL)

	// keys missing from the file keep their defaults
	assert.Equal(t, ":8756", c.CallbackAddr)
	assert.Equal(t, ":8757", c.HTTPAddr)
}

func Test_parseJson_NoFileFlag(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	c := &Config{}
	c.LoadDefaults()
	parseJson(c)

	assert.Equal(t, "whoopsync.db", c.DatabaseDSN)
}

func Test_parseEnv(t *testing.T) {
	t.Setenv("WHOOP_CLIENT_ID", "env-id")
	t.Setenv("WHOOP_CLIENT_SECRET", "env-secret")
	t.Setenv("WHOOPSYNC_ENCRYPTION_SECRET", "env-enc")

	c := &Config{}
	c.LoadDefaults()
	parseEnv(c)

	assert.Equal(t, "env-id", c.WhoopClientID)
	assert.Equal(t, "env-secret", c.WhoopClientSecret)
	assert.Equal(t, "env-enc", c.EncryptionSecret)
	assert.Equal(t, "whoopsync.db", c.DatabaseDSN, "unset variables leave fields alone")
}

func Test_parseFlags_OverridesEverything(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin", "-d", "other.db", "-t", "sse", "-l", "5"}

	c := &Config{}
	c.LoadDefaults()
	parseFlags(c)

	assert.Equal(t, "other.db", c.DatabaseDSN)
	assert.Equal(t, TransportSSE, c.Transport)
	assert.Equal(t, 5*time.Minute, c.SessionTTL)
}

func Test_LayeringOrder(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{"database_dsn": "from-json.db"})
	t.Setenv("WHOOPSYNC_DATABASE_DSN", "from-env.db")
	os.Args = []string{"testbin", "-config", path, "-d", "from-flag.db"}

	c := LoadConfig()
	assert.Equal(t, "from-flag.db", c.DatabaseDSN, "flags beat env beats json beats defaults")
}
