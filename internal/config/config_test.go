package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aimaster-dev/healthBridge/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.RequireAudioAndVideo)
	assert.Equal(t, 20*time.Second, cfg.JoinTimeout)
	assert.Equal(t, 54*time.Second, cfg.PingPeriod)
	assert.Equal(t, int64(32768), cfg.ReadLimit)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	yaml := []byte(`mode: debug
port: 9000
signal_url: wss://signal.example.org/ws
app_id: clinic-app
channel: ward-7
require_audio_and_video: false
join_timeout: 5s
ice_servers:
  - stun:stun.example.org:3478
`)
	require.NoError(t, os.WriteFile(path, yaml, 0o600))
	t.Setenv("HB_PORT", "9100")
	t.Setenv("HB_DISPLAY_NAME", "Dr Who")

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Mode)
	assert.Equal(t, 9100, cfg.Port, "env wins over file")
	assert.Equal(t, "Dr Who", cfg.DisplayName)
	assert.Equal(t, "ward-7", cfg.Channel)
	assert.False(t, cfg.RequireAudioAndVideo)
	assert.Equal(t, 5*time.Second, cfg.JoinTimeout)
	assert.Equal(t, []string{"stun:stun.example.org:3478"}, cfg.ICEServers)
	assert.Equal(t, "clinic-app", cfg.JoinToken(), "app id doubles as token")
}

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			Port:             8080,
			SignalURL:        "ws://localhost:7880/signal",
			JoinTimeout:      time.Second,
			ReadLimit:        1024,
			JoinRateLimit:    1,
			JoinRateInterval: time.Second,
		}
	}
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr bool
	}{
		{name: "given defaults when validated then ok", mutate: func(*config.Config) {}},
		{name: "given port zero when validated then error", mutate: func(c *config.Config) { c.Port = 0 }, wantErr: true},
		{name: "given http signal url when validated then error", mutate: func(c *config.Config) { c.SignalURL = "http://x/signal" }, wantErr: true},
		{name: "given zero join timeout when validated then error", mutate: func(c *config.Config) { c.JoinTimeout = 0 }, wantErr: true},
		{name: "given zero rate limit when validated then error", mutate: func(c *config.Config) { c.JoinRateLimit = 0 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			if tt.wantErr {
				assert.Error(t, c.Validate())
			} else {
				assert.NoError(t, c.Validate())
			}
		})
	}
}

func TestJoinTokenPrefersExplicitToken(t *testing.T) {
	c := config.Config{AppID: "app", Token: "signed"}
	assert.Equal(t, "signed", c.JoinToken())
}
