package mcpserver

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mkorolev/whoopsync/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSessionRegistry_SweepClosesOnlyIdle(t *testing.T) {
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	r := NewSessionRegistry(30*time.Minute, testLogger())
	r.now = func() time.Time { return now }

	r.Register("old")
	r.Register("fresh")

	// "fresh" stays active, "old" goes quiet
	now = now.Add(31 * time.Minute)
	r.Touch("fresh")

	expired := r.Sweep()
	assert.Equal(t, []string{"old"}, expired)
	assert.Equal(t, 1, r.Len())

	// nothing left to sweep
	assert.Empty(t, r.Sweep())
}

func TestSessionRegistry_TouchUnknownIgnored(t *testing.T) {
	r := NewSessionRegistry(time.Minute, testLogger())
	r.Touch("ghost")
	assert.Zero(t, r.Len())
}

func TestSessionRegistry_Remove(t *testing.T) {
	r := NewSessionRegistry(time.Minute, testLogger())
	r.Register("a")
	r.Remove("a")
	assert.Zero(t, r.Len())
}

func TestSessionRegistry_TouchDefersExpiry(t *testing.T) {
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	r := NewSessionRegistry(10*time.Minute, testLogger())
	r.now = func() time.Time { return now }

	r.Register("s")
	for i := 0; i < 5; i++ {
		now = now.Add(8 * time.Minute)
		r.Touch("s")
		assert.Empty(t, r.Sweep(), "an active session never expires")
	}

	now = now.Add(11 * time.Minute)
	assert.Equal(t, []string{"s"}, r.Sweep())
}
