package app_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aimaster-dev/healthBridge/internal/app"
	"github.com/aimaster-dev/healthBridge/internal/domain"
)

func TestStateHubLatestWins(t *testing.T) {
	hub := app.NewStateHub()
	ch, cancel := hub.Subscribe()
	defer cancel()

	first := <-ch
	assert.Equal(t, domain.Disconnected, first.State, "subscription is primed with the current snapshot")

	hub.Publish(app.Snapshot{State: domain.Connecting, Channel: "ward-7"})
	hub.Publish(app.Snapshot{State: domain.Connected, Channel: "ward-7"})

	got := <-ch
	assert.Equal(t, domain.Connected, got.State, "intermediate snapshot skipped")
	assert.Equal(t, domain.Connected, hub.Last().State)
}

func TestStateHubCancelClosesChannel(t *testing.T) {
	hub := app.NewStateHub()
	ch, cancel := hub.Subscribe()
	<-ch
	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
	hub.Publish(app.Snapshot{State: domain.Connecting})
}

func TestSnapshotJSON(t *testing.T) {
	snap := app.Snapshot{
		State:     domain.Connected,
		Channel:   "ward-7",
		Self:      "alice-0a1b2c3d",
		LastError: domain.ErrInterrupted,
	}
	b, err := json.Marshal(snap)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "connected", got["state"])
	assert.Equal(t, "connection interrupted", got["last_error"])
	assert.Equal(t, []any{}, got["participants"])
}
