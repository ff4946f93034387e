package attention

import "github.com/dkeye/Stage/internal/domain"

// ScoreModel tracks a decaying speaking-activity score per participant.
// Decay plus additive boost gives a stable ranking under near-simultaneous
// speech and natural recency weighting without storing history.
//
// Not safe for concurrent use; the Controller serializes all access.
type ScoreModel struct {
	scores map[domain.ParticipantID]float64
}

func NewScoreModel() *ScoreModel {
	return &ScoreModel{scores: make(map[domain.ParticipantID]float64)}
}

// Tick applies one decay step and evicts entries below the floor.
func (m *ScoreModel) Tick() {
	for id, v := range m.scores {
		v *= DecayFactor
		if v < ScoreFloor {
			delete(m.scores, id)
			continue
		}
		m.scores[id] = v
	}
}

// Boost bumps the score of every reported active speaker.
func (m *ScoreModel) Boost(ids []domain.ParticipantID) {
	for _, id := range ids {
		m.scores[id] += SpeakingBoost
	}
}

// Score returns the current score for id, zero when untracked.
func (m *ScoreModel) Score(id domain.ParticipantID) float64 {
	return m.scores[id]
}

// Scores returns a copy of the score map.
func (m *ScoreModel) Scores() map[domain.ParticipantID]float64 {
	out := make(map[domain.ParticipantID]float64, len(m.scores))
	for id, v := range m.scores {
		out[id] = v
	}
	return out
}

// Remove drops a participant's entry, used when they leave the roster.
func (m *ScoreModel) Remove(id domain.ParticipantID) {
	delete(m.scores, id)
}

// Reset drops all entries.
func (m *ScoreModel) Reset() {
	m.scores = make(map[domain.ParticipantID]float64)
}
