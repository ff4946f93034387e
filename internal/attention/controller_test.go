package attention_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Stage/internal/attention"
	"github.com/dkeye/Stage/internal/domain"
)

type manualClock struct {
	mu sync.Mutex
	t  time.Time
}

func newManualClock() *manualClock { return &manualClock{t: t0} }

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// fakeProvider records the fire-and-forget calls the controller issues.
type fakeProvider struct {
	mu          sync.Mutex
	tiers       map[domain.ParticipantID]domain.QualityTier
	requests    int
	disconnects int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{tiers: make(map[domain.ParticipantID]domain.QualityTier)}
}

func (f *fakeProvider) RequestVideoQuality(id domain.ParticipantID, tier domain.QualityTier) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tiers[id] = tier
	f.requests++
}

func (f *fakeProvider) Disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnects++
}

func (f *fakeProvider) Tier(id domain.ParticipantID) domain.QualityTier {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tiers[id]
}

func (f *fakeProvider) Disconnects() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.disconnects
}

func TestController_AloneTimeoutDisconnectsOnce(t *testing.T) {
	fp := newFakeProvider()
	mc := newManualClock()
	autoDisconnects := 0
	ctl := attention.NewController(local, fp,
		attention.WithClock(mc),
		attention.WithAutoDisconnect(func() { autoDisconnects++ }),
	)

	mc.Advance(attention.AloneTimeout - time.Millisecond)
	ctl.Tick()
	require.Zero(t, fp.Disconnects())

	mc.Advance(time.Millisecond)
	ctl.Tick()
	require.Equal(t, 1, fp.Disconnects())
	require.Equal(t, 1, autoDisconnects)

	// The controller tore itself down; further ticks must do nothing.
	mc.Advance(time.Hour)
	ctl.Tick()
	assert.Equal(t, 1, fp.Disconnects())
}

func TestController_ReentryPreventsAloneTimeout(t *testing.T) {
	fp := newFakeProvider()
	mc := newManualClock()
	ctl := attention.NewController(local, fp, attention.WithClock(mc))
	defer ctl.Close()

	mc.Advance(attention.AloneTimeout - time.Millisecond)
	ctl.HandleParticipantJoined(alice)

	mc.Advance(2 * attention.AloneTimeout)
	ctl.Tick()
	require.Zero(t, fp.Disconnects())

	// alice leaving re-arms a fresh deadline from the moment of departure.
	ctl.HandleParticipantLeft(alice)
	mc.Advance(attention.AloneTimeout - time.Second)
	ctl.Tick()
	require.Zero(t, fp.Disconnects())
	mc.Advance(time.Second)
	ctl.Tick()
	assert.Equal(t, 1, fp.Disconnects())
}

func TestController_QualityFollowsActiveSpeakers(t *testing.T) {
	fp := newFakeProvider()
	mc := newManualClock()
	ctl := attention.NewController(local, fp, attention.WithClock(mc))
	defer ctl.Close()

	ctl.HandleParticipantJoined(alice)
	ctl.HandleParticipantJoined(bob)
	require.Equal(t, domain.QualityMedium, fp.Tier(alice))
	require.Equal(t, domain.QualityMedium, fp.Tier(bob))

	ctl.HandleActiveSpeakers([]domain.ParticipantID{alice})
	require.Equal(t, domain.QualityHigh, fp.Tier(alice))
	require.Equal(t, domain.QualityLow, fp.Tier(bob))

	// Flips on the very next report, no dwell.
	ctl.HandleActiveSpeakers([]domain.ParticipantID{bob})
	assert.Equal(t, domain.QualityLow, fp.Tier(alice))
	assert.Equal(t, domain.QualityHigh, fp.Tier(bob))
}

func TestController_UnknownParticipantEventsAreNoOps(t *testing.T) {
	fp := newFakeProvider()
	ctl := attention.NewController(local, fp, attention.WithClock(newManualClock()))
	defer ctl.Close()

	ctl.HandleActiveSpeakers([]domain.ParticipantID{"ghost"})
	assert.False(t, ctl.IsSpeaking("ghost"))
	assert.Empty(t, ctl.Scores())

	ctl.HandleParticipantLeft("ghost")
	assert.Equal(t, []domain.ParticipantID{local}, ctl.Roster())
}

func TestController_OverrideOnAbsentParticipantIsInert(t *testing.T) {
	fp := newFakeProvider()
	ctl := attention.NewController(local, fp, attention.WithClock(newManualClock()))
	defer ctl.Close()

	ctl.HandleParticipantJoined(alice)
	ctl.SetOverride(domain.OverridePinned, carol)
	p, ok := ctl.Primary()
	require.True(t, ok)
	require.NotEqual(t, carol, p)

	// The pin takes effect the moment its target appears.
	ctl.HandleParticipantJoined(carol)
	p, _ = ctl.Primary()
	assert.Equal(t, carol, p)
}

func TestController_IsSpeakingTracksDecay(t *testing.T) {
	fp := newFakeProvider()
	ctl := attention.NewController(local, fp, attention.WithClock(newManualClock()))
	defer ctl.Close()

	ctl.HandleParticipantJoined(alice)
	ctl.HandleActiveSpeakers([]domain.ParticipantID{alice})
	require.True(t, ctl.IsSpeaking(alice))

	// 1.0 * 0.85^n crosses the 0.1 speaking threshold around n = 15.
	for i := 0; i < 15; i++ {
		ctl.Tick()
	}
	assert.False(t, ctl.IsSpeaking(alice))
}

func TestController_PrimaryChangedCallback(t *testing.T) {
	fp := newFakeProvider()
	var seen []domain.ParticipantID
	ctl := attention.NewController(local, fp,
		attention.WithClock(newManualClock()),
		attention.WithPrimaryChanged(func(id domain.ParticipantID) { seen = append(seen, id) }),
	)
	defer ctl.Close()

	// First roster change selects the first joiner: the local participant.
	ctl.HandleParticipantJoined(alice)
	require.Equal(t, []domain.ParticipantID{local}, seen)

	// A pin bypasses hysteresis and reports immediately.
	ctl.SetOverride(domain.OverridePinned, alice)
	assert.Equal(t, []domain.ParticipantID{local, alice}, seen)
}

func TestController_TerminateDisconnectsBestEffort(t *testing.T) {
	fp := newFakeProvider()
	ctl := attention.NewController(local, fp, attention.WithClock(newManualClock()))

	ctl.Terminate()
	require.Equal(t, 1, fp.Disconnects())

	// Fire-and-forget and idempotent: a second unload does nothing.
	ctl.Terminate()
	assert.Equal(t, 1, fp.Disconnects())
}

func TestController_CloseStopsTickerAndResets(t *testing.T) {
	fp := newFakeProvider()
	mc := newManualClock()
	ctl := attention.NewController(local, fp, attention.WithClock(mc))

	ctl.Start()
	ctl.HandleParticipantJoined(alice)
	ctl.HandleActiveSpeakers([]domain.ParticipantID{alice})

	ctl.Close()
	ctl.Close() // idempotent

	assert.Empty(t, ctl.Scores())
	_, ok := ctl.Primary()
	assert.False(t, ok)

	// Events and ticks against a closed controller are ignored.
	ctl.HandleParticipantJoined(bob)
	mc.Advance(attention.AloneTimeout)
	ctl.Tick()
	assert.Zero(t, fp.Disconnects())
}
