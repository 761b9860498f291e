//go:build !linux

package media

import (
	"context"

	"github.com/pion/webrtc/v4"

	"github.com/aimaster-dev/healthBridge/internal/core"
	"github.com/aimaster-dev/healthBridge/internal/domain"
)

// Devices is receive-only off Linux: there are no capture drivers.
type Devices struct{}

var (
	_ core.DeviceSource = (*Devices)(nil)
	_ core.TrackFactory = (*Devices)(nil)
)

func New() (*Devices, error) { return &Devices{}, nil }

func (d *Devices) PopulateMediaEngine(me *webrtc.MediaEngine) error {
	return me.RegisterDefaultCodecs()
}

func (d *Devices) EnumerateCaptureDevices(ctx context.Context) ([]domain.Device, error) {
	return nil, ctx.Err()
}

func (d *Devices) CreateTrack(context.Context, domain.MediaKind, string) (core.LocalTrack, error) {
	return nil, ErrNoCapture
}
