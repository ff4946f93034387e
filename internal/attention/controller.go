package attention

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Stage/internal/core"
	"github.com/dkeye/Stage/internal/domain"
)

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithClock replaces the wall clock, used by tests.
func WithClock(c Clock) Option {
	return func(ctl *Controller) { ctl.clock = c }
}

// WithSessionName tags the controller's log output.
func WithSessionName(name domain.SessionName) Option {
	return func(ctl *Controller) {
		ctl.log = log.With().Str("module", "attention").Str("session", string(name)).Logger()
	}
}

// WithPrimaryChanged registers a callback invoked after every change of the
// primary decision, with "" when no participant is primary. Invoked outside
// the controller lock; re-entry is safe.
func WithPrimaryChanged(fn func(domain.ParticipantID)) Option {
	return func(ctl *Controller) { ctl.onPrimaryChanged = fn }
}

// WithAutoDisconnect registers a callback invoked once after the alone
// timeout has fired and the provider has been told to disconnect.
func WithAutoDisconnect(fn func()) Option {
	return func(ctl *Controller) { ctl.onAutoDisconnect = fn }
}

// Controller is the per-session attention state machine. All mutation is
// serialized behind one mutex, so every evaluation observes a fully-updated
// score map and handlers stay O(participants) without blocking. Provider
// calls and callbacks are issued outside the lock, fire-and-forget.
type Controller struct {
	mu       sync.Mutex
	clock    Clock
	provider core.MediaProvider
	log      zerolog.Logger

	scores   *ScoreModel
	selector *PrimarySelector
	quality  *QualityAllocator
	guard    *LifecycleGuard

	local     domain.ParticipantID
	roster    []domain.ParticipantID
	active    map[domain.ParticipantID]bool
	overrides Overrides

	onPrimaryChanged func(domain.ParticipantID)
	onAutoDisconnect func()

	ticker  *time.Ticker
	done    chan struct{}
	started bool
	closed  bool
}

// NewController builds a controller for one session. The roster starts with
// the local participant only, so the alone countdown is armed from birth.
func NewController(local domain.ParticipantID, provider core.MediaProvider, opts ...Option) *Controller {
	ctl := &Controller{
		clock:    realClock{},
		provider: provider,
		log:      log.With().Str("module", "attention").Logger(),
		scores:   NewScoreModel(),
		selector: NewPrimarySelector(),
		quality:  NewQualityAllocator(),
		guard:    NewLifecycleGuard(),
		local:    local,
		roster:   []domain.ParticipantID{local},
		active:   make(map[domain.ParticipantID]bool),
	}
	for _, opt := range opts {
		opt(ctl)
	}
	ctl.guard.Update(ctl.clock.Now(), len(ctl.roster))
	return ctl
}

// Start arms the periodic decay ticker. The ticker lives exactly as long as
// the controller: Close stops it, and it is never shared across sessions.
func (c *Controller) Start() {
	c.mu.Lock()
	if c.started || c.closed {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.ticker = time.NewTicker(TickInterval)
	c.done = make(chan struct{})
	c.mu.Unlock()
	go c.run()
	c.log.Info().Str("local", string(c.local)).Msg("controller started")
}

func (c *Controller) run() {
	for {
		select {
		case <-c.done:
			return
		case <-c.ticker.C:
			c.Tick()
		}
	}
}

// Close tears the controller down and resets all owned state. Idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.ticker != nil {
		c.ticker.Stop()
	}
	done := c.done
	c.scores.Reset()
	c.selector.Reset()
	c.quality.Reset()
	c.guard.Reset()
	c.active = make(map[domain.ParticipantID]bool)
	c.overrides = Overrides{}
	c.mu.Unlock()
	if done != nil {
		close(done)
	}
	c.log.Info().Msg("controller closed")
}

// Terminate is the best-effort unload path: tell the provider to disconnect
// synchronously, no acknowledgement expected, then tear down.
func (c *Controller) Terminate() {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if !closed {
		c.provider.Disconnect()
	}
	c.Close()
}

// Tick advances one decay cycle: scores decay fully before the selector
// reads them, then the alone deadline is checked. Runs every TickInterval
// while the controller is started.
func (c *Controller) Tick() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	now := c.clock.Now()
	c.scores.Tick()
	primary, changed := c.evaluate(now)
	expired := c.guard.Expired(now)
	c.mu.Unlock()

	c.fire(primary, changed, nil, expired)
}

// HandleParticipantJoined feeds a roster addition.
func (c *Controller) HandleParticipantJoined(id domain.ParticipantID) {
	c.mu.Lock()
	if c.closed || c.inRoster(id) {
		c.mu.Unlock()
		return
	}
	now := c.clock.Now()
	c.roster = append(c.roster, id)
	c.guard.Update(now, len(c.roster))
	primary, changed := c.evaluate(now)
	assignments := c.quality.Allocate(c.roster, c.local, c.active)
	c.mu.Unlock()

	c.log.Debug().Str("participant", string(id)).Int("roster", len(assignments)+1).Msg("participant joined")
	c.fire(primary, changed, assignments, false)
}

// HandleParticipantLeft feeds a roster removal. Unknown participants are a
// no-op. Override slots naming the departed participant stay set but inert.
func (c *Controller) HandleParticipantLeft(id domain.ParticipantID) {
	c.mu.Lock()
	if c.closed || !c.inRoster(id) {
		c.mu.Unlock()
		return
	}
	now := c.clock.Now()
	for i, r := range c.roster {
		if r == id {
			c.roster = append(c.roster[:i], c.roster[i+1:]...)
			break
		}
	}
	c.scores.Remove(id)
	c.quality.Remove(id)
	delete(c.active, id)
	c.guard.Update(now, len(c.roster))
	primary, changed := c.evaluate(now)
	assignments := c.quality.Allocate(c.roster, c.local, c.active)
	c.mu.Unlock()

	c.log.Debug().Str("participant", string(id)).Msg("participant left")
	c.fire(primary, changed, assignments, false)
}

// HandleActiveSpeakers feeds the provider's current active-speakers set.
// Arrives at irregular cadence. Ids absent from the roster are ignored.
func (c *Controller) HandleActiveSpeakers(ids []domain.ParticipantID) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	now := c.clock.Now()
	known := ids[:0:0]
	for _, id := range ids {
		if c.inRoster(id) {
			known = append(known, id)
		}
	}
	c.scores.Boost(known)
	c.active = make(map[domain.ParticipantID]bool, len(known))
	for _, id := range known {
		c.active[id] = true
	}
	c.quality.NoteSpeakingSignal(c.roster)
	primary, changed := c.evaluate(now)
	assignments := c.quality.Allocate(c.roster, c.local, c.active)
	c.mu.Unlock()

	c.fire(primary, changed, assignments, false)
}

// SetOverride installs or clears a manual designation. OverrideNone clears
// both slots. Naming a participant not in the roster is accepted; the slot
// stays inert until they appear.
func (c *Controller) SetOverride(kind domain.OverrideKind, id domain.ParticipantID) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	switch kind {
	case domain.OverridePinned:
		c.overrides.Pinned = id
	case domain.OverrideSpotlighted:
		c.overrides.Spotlighted = id
	case domain.OverrideNone:
		c.overrides = Overrides{}
	}
	primary, changed := c.evaluate(c.clock.Now())
	c.mu.Unlock()

	c.log.Debug().Str("kind", kind.String()).Str("participant", string(id)).Msg("override set")
	c.fire(primary, changed, nil, false)
}

// Primary returns the current primary decision, false when none.
func (c *Controller) Primary() (domain.ParticipantID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.selector.Primary()
	return p, p != ""
}

// IsSpeaking reports whether the participant's decayed score is above the
// speaking threshold, for per-tile indicators.
func (c *Controller) IsSpeaking(id domain.ParticipantID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scores.Score(id) > SpeakingThreshold
}

// Scores returns a copy of the score map, for diagnostics.
func (c *Controller) Scores() map[domain.ParticipantID]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scores.Scores()
}

// Roster returns the join-ordered roster.
func (c *Controller) Roster() []domain.ParticipantID {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.ParticipantID, len(c.roster))
	copy(out, c.roster)
	return out
}

func (c *Controller) inRoster(id domain.ParticipantID) bool {
	for _, r := range c.roster {
		if r == id {
			return true
		}
	}
	return false
}

func (c *Controller) evaluate(now time.Time) (domain.ParticipantID, bool) {
	return c.selector.Evaluate(now, c.scores.Scores(), c.roster, c.overrides)
}

// fire performs provider calls and callbacks collected under the lock.
// Everything here is advisory: failures are the provider's problem and the
// next triggering event re-issues the same requests.
func (c *Controller) fire(primary domain.ParticipantID, changed bool, assignments []Assignment, expired bool) {
	for _, a := range assignments {
		c.provider.RequestVideoQuality(a.Participant, a.Tier)
	}
	if changed {
		c.log.Info().Str("primary", string(primary)).Msg("primary changed")
		if c.onPrimaryChanged != nil {
			c.onPrimaryChanged(primary)
		}
	}
	if expired {
		c.log.Info().Msg("alone timeout expired, disconnecting")
		// Exactly one disconnect per expiry: close first so a re-entrant
		// Terminate from the callback becomes a no-op.
		c.provider.Disconnect()
		c.Close()
		if c.onAutoDisconnect != nil {
			c.onAutoDisconnect()
		}
	}
}
