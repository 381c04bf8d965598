package app

import (
	"sync"
	"time"
)

// stateTTL bounds how long an authorization attempt may stay pending.
const stateTTL = 10 * time.Minute

// PendingStates holds the CSRF states handed out by get_auth_url until the
// OAuth callback consumes them. States expire so an abandoned attempt does
// not stay redeemable forever.
type PendingStates struct {
	mu     sync.Mutex
	issued map[string]time.Time

	now func() time.Time
}

func NewPendingStates() *PendingStates {
	return &PendingStates{
		issued: make(map[string]time.Time),
		now:    time.Now,
	}
}

// Add records a freshly issued state.
func (p *PendingStates) Add(state string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.issued[state] = p.now()

	// opportunistic cleanup of abandoned attempts
	cutoff := p.now().Add(-stateTTL)
	for s, at := range p.issued {
		if at.Before(cutoff) {
			delete(p.issued, s)
		}
	}
}

// Consume redeems a state exactly once. It reports false for unknown,
// already-used, or expired states.
func (p *PendingStates) Consume(state string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	at, ok := p.issued[state]
	if !ok {
		return false
	}
	delete(p.issued, state)
	return !at.Before(p.now().Add(-stateTTL))
}
