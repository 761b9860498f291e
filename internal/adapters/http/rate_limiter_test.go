package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJoinRateLimiter(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewJoinRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("c-1"))
	assert.True(t, rl.Allow("c-1"))
	assert.False(t, rl.Allow("c-1"), "third attempt inside the window")
	assert.True(t, rl.Allow("c-2"), "clients are limited separately")

	now = now.Add(61 * time.Second)
	assert.True(t, rl.Allow("c-1"), "window slid past the old attempts")
}

func TestJoinRateLimiterDisabled(t *testing.T) {
	rl := NewJoinRateLimiter(0, time.Minute)
	for range 10 {
		assert.True(t, rl.Allow("c-1"))
	}
}

func TestJoinRateLimiterForgetsIdleClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewJoinRateLimiter(1, time.Minute)
	rl.now = func() time.Time { return now }

	for _, c := range []string{"c-1", "c-2", "c-3"} {
		assert.True(t, rl.Allow(c))
	}
	assert.Len(t, rl.history, 3)

	now = now.Add(2 * time.Minute)
	assert.True(t, rl.Allow("c-4"))

	assert.Len(t, rl.history, 1, "clients idle for a full window are dropped")
	assert.Contains(t, rl.history, "c-4")
	assert.True(t, rl.Allow("c-1"), "a forgotten client starts fresh")
}
