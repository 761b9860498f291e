package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aimaster-dev/healthBridge/internal/app"
	"github.com/aimaster-dev/healthBridge/internal/domain"
)

func TestPublishPolicy(t *testing.T) {
	tests := []struct {
		name    string
		coupled bool
		sel     domain.Selections
		wantOK  bool
		wantMic string
		wantCam string
	}{
		{name: "given coupled and both selected when evaluated then both wanted", coupled: true, sel: domain.Selections{Camera: "c", Microphone: "m"}, wantOK: true, wantMic: "m", wantCam: "c"},
		{name: "given coupled and no camera when evaluated then not satisfied", coupled: true, sel: domain.Selections{Microphone: "m"}},
		{name: "given coupled and no microphone when evaluated then not satisfied", coupled: true, sel: domain.Selections{Camera: "c"}},
		{name: "given independent and microphone only when evaluated then audio wanted", sel: domain.Selections{Microphone: "m"}, wantOK: true, wantMic: "m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want, ok := app.NewPublishPolicy(tt.coupled).Want(tt.sel)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantMic, want[domain.MediaAudio])
			assert.Equal(t, tt.wantCam, want[domain.MediaVideo])
		})
	}
}
