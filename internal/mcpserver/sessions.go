package mcpserver

import (
	"context"
	"sync"
	"time"

	"github.com/mkorolev/whoopsync/internal/logging"
)

// SessionRegistry tracks live SSE sessions by last-activity time so idle
// ones can be swept out. Stdio mode has a single implicit session and
// never sweeps.
type SessionRegistry struct {
	ttl    time.Duration
	logger logging.Logger

	mu       sync.Mutex
	lastSeen map[string]time.Time

	// now is swapped out by tests
	now func() time.Time
}

func NewSessionRegistry(ttl time.Duration, logger logging.Logger) *SessionRegistry {
	return &SessionRegistry{
		ttl:      ttl,
		logger:   logger.With("component", "sessions"),
		lastSeen: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Register inserts a session with the current time.
func (r *SessionRegistry) Register(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastSeen[id] = r.now()
}

// Touch refreshes a session's activity stamp. Unknown ids are ignored:
// the session may already have been swept.
func (r *SessionRegistry) Touch(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lastSeen[id]; ok {
		r.lastSeen[id] = r.now()
	}
}

// Remove drops a session, typically when the client disconnects on its own.
func (r *SessionRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lastSeen, id)
}

// Len reports the live session count.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lastSeen)
}

// Sweep removes and returns every session idle beyond the TTL.
func (r *SessionRegistry) Sweep() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	var expired []string
	for id, seen := range r.lastSeen {
		if seen.Before(cutoff) {
			expired = append(expired, id)
			delete(r.lastSeen, id)
		}
	}
	return expired
}

// Run sweeps periodically until ctx is cancelled, calling expire for every
// session it evicts.
func (r *SessionRegistry) Run(ctx context.Context, interval time.Duration, expire func(id string)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, id := range r.Sweep() {
				r.logger.Info(ctx, "closing idle session", "session_id", id, "ttl", r.ttl)
				expire(id)
			}
		}
	}
}
