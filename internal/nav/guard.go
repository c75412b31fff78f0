package nav

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// GuardWindow is how long URL-driven syncs are ignored after a manual clear.
const GuardWindow = 100 * time.Millisecond

// ClearGuard remembers when the user last cleared the query by hand.
//
// This is a time window, not a lock: a URL sync that lands just after the
// window closes still applies, even if it carries stale state.
type ClearGuard struct {
	clock clockwork.Clock

	mu   sync.Mutex
	last time.Time
}

// NewClearGuard returns a guard on clock. A nil clock uses the real clock.
func NewClearGuard(clock clockwork.Clock) *ClearGuard {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ClearGuard{clock: clock}
}

// Mark records a manual clear now.
func (g *ClearGuard) Mark() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last = g.clock.Now()
}

// Blocked reports whether a manual clear happened within GuardWindow.
func (g *ClearGuard) Blocked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.last.IsZero() {
		return false
	}
	return g.clock.Since(g.last) < GuardWindow
}
