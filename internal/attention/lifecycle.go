package attention

import "time"

// LifecycleGuard watches the participant count and decides when a session
// that holds only its local participant should be torn down. The deadline is
// evaluated on the controller's tick, so its lifetime is exactly the
// session's: no timer can outlive the session or fire across sessions.
type LifecycleGuard struct {
	aloneSince time.Time
	fired      bool
}

func NewLifecycleGuard() *LifecycleGuard {
	return &LifecycleGuard{}
}

// Update feeds the guard a roster change. Two or more participants cancel
// any pending teardown; dropping to one (or zero) arms it.
func (g *LifecycleGuard) Update(now time.Time, participantCount int) {
	if participantCount >= 2 {
		g.aloneSince = time.Time{}
		g.fired = false
		return
	}
	if g.aloneSince.IsZero() {
		g.aloneSince = now
	}
}

// Expired reports whether the alone deadline has passed. It fires at most
// once per alone period.
func (g *LifecycleGuard) Expired(now time.Time) bool {
	if g.fired || g.aloneSince.IsZero() {
		return false
	}
	if now.Sub(g.aloneSince) >= AloneTimeout {
		g.fired = true
		return true
	}
	return false
}

// Alone reports whether the session currently holds only its local
// participant, and since when.
func (g *LifecycleGuard) Alone() (time.Time, bool) {
	return g.aloneSince, !g.aloneSince.IsZero()
}

// Reset returns the guard to its initial state.
func (g *LifecycleGuard) Reset() {
	*g = LifecycleGuard{}
}
