package signal_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Stage/internal/adapters/signal"
)

func TestJoinRateLimiter_BlocksOverLimit(t *testing.T) {
	rl := signal.NewJoinRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		require.True(t, rl.Allow("p1"), "attempt %d", i)
	}
	assert.False(t, rl.Allow("p1"))

	// Other participants have their own window.
	assert.True(t, rl.Allow("p2"))
}

func TestJoinRateLimiter_WindowSlides(t *testing.T) {
	rl := signal.NewJoinRateLimiter(2, 10*time.Millisecond)

	require.True(t, rl.Allow("p1"))
	require.True(t, rl.Allow("p1"))
	require.False(t, rl.Allow("p1"))

	time.Sleep(15 * time.Millisecond)
	assert.True(t, rl.Allow("p1"))
}
