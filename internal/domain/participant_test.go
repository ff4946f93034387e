package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Stage/internal/domain"
)

func TestNewParticipant(t *testing.T) {
	p := domain.NewParticipant("alice")
	assert.Equal(t, domain.ParticipantID("alice"), p.ID)
	assert.Equal(t, domain.DefaultDisplayName, p.DisplayName)
	assert.False(t, p.Local)

	// An empty id gets a generated one.
	anon := domain.NewParticipant("")
	assert.NotEmpty(t, anon.ID)
}

func TestSetDisplayName(t *testing.T) {
	p := domain.NewParticipant("alice")

	require.NoError(t, p.SetDisplayName("al"))
	assert.Equal(t, "al", p.DisplayName)

	assert.ErrorIs(t, p.SetDisplayName(""), domain.ErrDisplayNameEmpty)
	assert.ErrorIs(t, p.SetDisplayName(strings.Repeat("x", domain.MaxDisplayNameLen+1)), domain.ErrDisplayNameTooLong)
	assert.Equal(t, "al", p.DisplayName)
}

func TestOverride(t *testing.T) {
	assert.False(t, domain.Override{}.Active())
	assert.False(t, domain.Override{Kind: domain.OverridePinned}.Active())
	assert.True(t, domain.Override{Kind: domain.OverridePinned, Participant: "a"}.Active())

	assert.Equal(t, "pinned", domain.OverridePinned.String())
	assert.Equal(t, "spotlighted", domain.OverrideSpotlighted.String())
	assert.Equal(t, "none", domain.OverrideNone.String())
}

func TestQualityTierString(t *testing.T) {
	assert.Equal(t, "high", domain.QualityHigh.String())
	assert.Equal(t, "medium", domain.QualityMedium.String())
	assert.Equal(t, "low", domain.QualityLow.String())
}
