package attention_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Stage/internal/attention"
)

func TestLifecycleGuard_AloneTimeoutFiresOnce(t *testing.T) {
	g := attention.NewLifecycleGuard()

	g.Update(t0, 2)
	g.Update(t0.Add(time.Minute), 1)

	armed := t0.Add(time.Minute)
	require.False(t, g.Expired(armed.Add(attention.AloneTimeout-time.Millisecond)))
	require.True(t, g.Expired(armed.Add(attention.AloneTimeout)))
	// Exactly one firing per alone period.
	assert.False(t, g.Expired(armed.Add(attention.AloneTimeout+time.Hour)))
}

func TestLifecycleGuard_ReentryCancelsTeardown(t *testing.T) {
	g := attention.NewLifecycleGuard()

	g.Update(t0, 1)
	lastMoment := t0.Add(attention.AloneTimeout - time.Millisecond)
	require.False(t, g.Expired(lastMoment))

	// A second participant arriving just before the deadline prevents the
	// teardown entirely.
	g.Update(lastMoment, 2)
	assert.False(t, g.Expired(t0.Add(attention.AloneTimeout)))
	assert.False(t, g.Expired(t0.Add(2*attention.AloneTimeout)))

	_, alone := g.Alone()
	assert.False(t, alone)
}

func TestLifecycleGuard_RearmsAfterRepopulation(t *testing.T) {
	g := attention.NewLifecycleGuard()

	g.Update(t0, 1)
	require.True(t, g.Expired(t0.Add(attention.AloneTimeout)))

	// Populated again, then alone again: a fresh period with a fresh deadline.
	rejoin := t0.Add(attention.AloneTimeout + time.Minute)
	g.Update(rejoin, 2)
	g.Update(rejoin.Add(time.Minute), 1)

	aloneAgain := rejoin.Add(time.Minute)
	require.False(t, g.Expired(aloneAgain.Add(attention.AloneTimeout-time.Second)))
	assert.True(t, g.Expired(aloneAgain.Add(attention.AloneTimeout)))
}

func TestLifecycleGuard_AloneWindowTracksState(t *testing.T) {
	g := attention.NewLifecycleGuard()

	_, alone := g.Alone()
	require.False(t, alone)

	g.Update(t0, 1)
	since, alone := g.Alone()
	require.True(t, alone)
	assert.Equal(t, t0, since)

	// Staying alone does not move the window start.
	g.Update(t0.Add(time.Minute), 1)
	since, _ = g.Alone()
	assert.Equal(t, t0, since)
}
