package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Stage/internal/app"
	"github.com/dkeye/Stage/internal/core"
	"github.com/dkeye/Stage/internal/domain"
)

func TestRegistry_CancelInvokesBoundFunc(t *testing.T) {
	r := app.NewRegistry()
	p := r.GetOrCreateParticipant("c1")

	canceled := false
	r.BindSignal("c1", core.NewParticipantSession(p).UpdateSignal(&fakeConn{}), func() { canceled = true })

	require.True(t, r.Cancel("c1"))
	assert.True(t, canceled)

	// Unknown or already-unbound clients report false.
	assert.False(t, r.Cancel("nope"))
	r.Unbind("c1")
	assert.False(t, r.Cancel("c1"))
}

func TestRegistry_GetOrCreateIsStable(t *testing.T) {
	r := app.NewRegistry()
	p := r.GetOrCreateParticipant("c1")
	assert.Equal(t, domain.ParticipantID("c1"), p.ID)
	assert.Equal(t, domain.DefaultDisplayName, p.DisplayName)

	require.NoError(t, r.UpdateDisplayName("c1", "alice"))
	assert.Same(t, p, r.GetOrCreateParticipant("c1"))
	assert.Equal(t, "alice", p.DisplayName)
}
