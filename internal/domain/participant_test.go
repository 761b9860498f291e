package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aimaster-dev/healthBridge/internal/domain"
)

func TestNewParticipantID(t *testing.T) {
	tests := []struct {
		name       string
		hint       string
		wantPrefix string
	}{
		{name: "given plain name when derived then lower-cased prefix", hint: "Alice", wantPrefix: "alice-"},
		{name: "given spaces when derived then dashes", hint: "Dr  John Smith", wantPrefix: "dr-john-smith-"},
		{name: "given empty hint when derived then guest", hint: "", wantPrefix: "guest-"},
		{name: "given only symbols when derived then guest", hint: "!!!", wantPrefix: "guest-"},
		{name: "given trailing separators when derived then trimmed", hint: "bob. ", wantPrefix: "bob-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := string(domain.NewParticipantID(tt.hint))
			assert.True(t, strings.HasPrefix(id, tt.wantPrefix), "got %q", id)
			assert.Len(t, id, len(tt.wantPrefix)+8)
		})
	}
}

func TestNewParticipantIDIsUnique(t *testing.T) {
	seen := make(map[domain.ParticipantID]struct{})
	for range 100 {
		id := domain.NewParticipantID("Alice")
		_, dup := seen[id]
		assert.False(t, dup, "duplicate identity %q", id)
		seen[id] = struct{}{}
	}
}

func TestDisplayNameTruncates(t *testing.T) {
	long := strings.Repeat("ж", domain.MaxDisplayNameLen+10)
	assert.Len(t, []rune(domain.DisplayName(long)), domain.MaxDisplayNameLen)
	assert.Equal(t, "Alice", domain.DisplayName("  Alice "))
}

func TestParseMediaKindAndCategory(t *testing.T) {
	k, err := domain.ParseMediaKind("video")
	assert.NoError(t, err)
	assert.Equal(t, domain.MediaVideo, k)
	_, err = domain.ParseMediaKind("screen")
	assert.Error(t, err)

	c, err := domain.ParseDeviceCategory("microphone")
	assert.NoError(t, err)
	kind, ok := c.CaptureKind()
	assert.True(t, ok)
	assert.Equal(t, domain.MediaAudio, kind)

	_, ok = domain.Speaker.CaptureKind()
	assert.False(t, ok)
	_, err = domain.ParseDeviceCategory("printer")
	assert.Error(t, err)
}
