// Package attention owns the session attention and resource control state:
// speaking-activity scores, the primary-participant decision, per-participant
// video quality tiers and the idle-session teardown guard. One Controller is
// created per session and destroyed with it.
package attention

import "time"

// Tuning values are product decisions, fixed at these values on purpose.
// They are not exposed through configuration.
const (
	// TickInterval is the decay period of the score model.
	TickInterval = 100 * time.Millisecond
	// DecayFactor is the share of a score retained per tick. Full decay to
	// a negligible magnitude takes roughly 2-3 s of silence.
	DecayFactor = 0.85
	// SpeakingBoost is added to a participant's score per speaking report.
	SpeakingBoost = 1.0
	// ScoreFloor is the magnitude below which an entry is dropped.
	ScoreFloor = 0.01
	// SpeakingThreshold separates "someone is speaking" from decayed residue.
	SpeakingThreshold = 0.1

	// SwitchThreshold is how convincingly a challenger must outscore the
	// current primary before a switch is even considered.
	SwitchThreshold = 1.25
	// DwellTime is how long a challenger must continuously qualify before
	// a switch commits.
	DwellTime = 1500 * time.Millisecond
	// SwitchCooldown is the minimum gap between two committed switches.
	SwitchCooldown = 2000 * time.Millisecond
	// SilenceTimeout is how long the room may be silent before the current
	// primary is held unconditionally.
	SilenceTimeout = 5000 * time.Millisecond

	// AloneTimeout is how long a session may hold only its local
	// participant before it is torn down.
	AloneTimeout = 10 * time.Minute
)
