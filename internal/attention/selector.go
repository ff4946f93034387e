package attention

import (
	"time"

	"github.com/dkeye/Stage/internal/domain"
)

// Overrides holds at most one manual designation per kind. Either slot may
// name a participant not (yet) present; such a slot is inert until the
// participant appears.
type Overrides struct {
	Pinned      domain.ParticipantID
	Spotlighted domain.ParticipantID
}

// PrimarySelector converts the score map plus manual overrides into a single
// primary-participant decision with hysteresis: a challenger must outscore
// the incumbent by SwitchThreshold, hold that lead for DwellTime, and the
// last committed switch must be at least SwitchCooldown in the past. During
// sustained silence the incumbent is held unconditionally.
//
// Not safe for concurrent use; the Controller serializes all access.
type PrimarySelector struct {
	primary        domain.ParticipantID
	candidate      domain.ParticipantID
	candidateSince time.Time
	lastSwitchAt   time.Time
	lastActivityAt time.Time
}

func NewPrimarySelector() *PrimarySelector {
	return &PrimarySelector{}
}

// Primary returns the current decision, "" when no participant is primary.
func (s *PrimarySelector) Primary() domain.ParticipantID {
	return s.primary
}

// Reset returns the selector to its initial state for a fresh session.
func (s *PrimarySelector) Reset() {
	*s = PrimarySelector{}
}

// Evaluate recomputes the primary decision. roster must be in join order so
// the no-speaker fallback stays deterministic. Returns the decision and
// whether it changed.
func (s *PrimarySelector) Evaluate(
	now time.Time,
	scores map[domain.ParticipantID]float64,
	roster []domain.ParticipantID,
	ov Overrides,
) (domain.ParticipantID, bool) {
	prev := s.primary

	if len(roster) == 0 {
		s.primary = ""
		s.clearCandidate()
		return "", prev != ""
	}

	present := make(map[domain.ParticipantID]bool, len(roster))
	for _, id := range roster {
		present[id] = true
	}
	if s.primary != "" && !present[s.primary] {
		s.primary = ""
	}

	// Overrides outrank automatic selection and bypass all hysteresis.
	// A vanished override target falls through to the next tier.
	if id := ov.Pinned; id != "" && present[id] {
		s.adopt(id, now)
		s.lastActivityAt = now
		return s.primary, s.primary != prev
	}
	if id := ov.Spotlighted; id != "" && present[id] {
		s.adopt(id, now)
		s.lastActivityAt = now
		return s.primary, s.primary != prev
	}

	var best domain.ParticipantID
	var bestScore float64
	for _, id := range roster {
		if v := scores[id]; best == "" || v > bestScore {
			best, bestScore = id, v
		}
	}

	if bestScore > SpeakingThreshold {
		s.lastActivityAt = now
	}

	// Silence hold: nobody is speaking loud enough to justify a switch, so
	// keep the last known speaker rather than flap to a near-zero winner.
	if s.primary != "" && now.Sub(s.lastActivityAt) > SilenceTimeout {
		s.clearCandidate()
		return s.primary, s.primary != prev
	}

	// First selection happens without dwell or cooldown since there is
	// nothing to destabilize. With no speech yet, fall back to join order.
	if s.primary == "" {
		pick := best
		if bestScore <= 0 {
			pick = roster[0]
		}
		s.adopt(pick, now)
		return s.primary, s.primary != prev
	}

	if best == s.primary {
		s.clearCandidate()
		return s.primary, false
	}

	current := scores[s.primary]
	if bestScore < current*SwitchThreshold {
		// Challenger lost its lead: candidacy is abandoned outright.
		s.clearCandidate()
		return s.primary, false
	}

	if s.candidate != best {
		s.candidate = best
		s.candidateSince = now
	}

	if now.Sub(s.lastSwitchAt) >= SwitchCooldown && now.Sub(s.candidateSince) >= DwellTime {
		s.adopt(best, now)
	}
	return s.primary, s.primary != prev
}

func (s *PrimarySelector) adopt(id domain.ParticipantID, now time.Time) {
	if s.primary != id {
		s.primary = id
		s.lastSwitchAt = now
	}
	s.clearCandidate()
}

func (s *PrimarySelector) clearCandidate() {
	s.candidate = ""
	s.candidateSince = time.Time{}
}
