package attention_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Stage/internal/attention"
	"github.com/dkeye/Stage/internal/domain"
)

const (
	alice = domain.ParticipantID("alice")
	bob   = domain.ParticipantID("bob")
	carol = domain.ParticipantID("carol")
)

func TestScoreModel_BoostThenDecay(t *testing.T) {
	m := attention.NewScoreModel()

	m.Boost([]domain.ParticipantID{alice})
	require.InDelta(t, 1.0, m.Score(alice), 1e-9)

	m.Tick()
	require.InDelta(t, attention.SpeakingBoost*attention.DecayFactor, m.Score(alice), 1e-9)

	// After n further silent ticks: 0.85 * 0.85^(n-1).
	for n := 1; n <= 5; n++ {
		m.Tick()
		want := 0.85 * math.Pow(0.85, float64(n))
		assert.InDelta(t, want, m.Score(alice), 1e-9, "after %d extra ticks", n)
	}
}

func TestScoreModel_DecayIsMonotonic(t *testing.T) {
	m := attention.NewScoreModel()
	m.Boost([]domain.ParticipantID{alice, bob})
	m.Boost([]domain.ParticipantID{alice})

	prev := m.Score(alice)
	for i := 0; i < 50; i++ {
		m.Tick()
		cur := m.Score(alice)
		require.LessOrEqual(t, cur, prev, "tick %d", i)
		prev = cur
	}
	// Bounded decay to zero: the entry must be evicted, not linger.
	assert.Zero(t, m.Score(alice))
	assert.Zero(t, m.Score(bob))
	assert.Empty(t, m.Scores())
}

func TestScoreModel_FloorEviction(t *testing.T) {
	m := attention.NewScoreModel()
	m.Boost([]domain.ParticipantID{alice})

	// 1.0 * 0.85^n drops below 0.01 between tick 28 and 29.
	for i := 0; i < 28; i++ {
		m.Tick()
	}
	require.Contains(t, m.Scores(), alice)
	m.Tick()
	require.NotContains(t, m.Scores(), alice)
}

func TestScoreModel_RepeatedSpeechAccumulates(t *testing.T) {
	m := attention.NewScoreModel()

	// Someone speaking continuously outranks a one-shot utterance.
	m.Boost([]domain.ParticipantID{alice, bob})
	for i := 0; i < 3; i++ {
		m.Tick()
		m.Boost([]domain.ParticipantID{alice})
	}
	assert.Greater(t, m.Score(alice), m.Score(bob))
}

func TestScoreModel_RemoveAndReset(t *testing.T) {
	m := attention.NewScoreModel()
	m.Boost([]domain.ParticipantID{alice, bob})

	m.Remove(alice)
	assert.Zero(t, m.Score(alice))
	assert.NotZero(t, m.Score(bob))

	m.Reset()
	assert.Empty(t, m.Scores())
}

func TestScoreModel_ScoresReturnsCopy(t *testing.T) {
	m := attention.NewScoreModel()
	m.Boost([]domain.ParticipantID{alice})

	snap := m.Scores()
	snap[alice] = 99
	assert.InDelta(t, 1.0, m.Score(alice), 1e-9)
}
