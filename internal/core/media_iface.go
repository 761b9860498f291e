package core

import (
	"context"

	"github.com/pion/rtp"

	"github.com/aimaster-dev/healthBridge/internal/domain"
)

// LocalTrack is one capture track bound to a single device at creation.
// Close is terminal; no other method is valid afterwards.
type LocalTrack interface {
	ID() string
	Kind() domain.MediaKind
	DeviceID() string
	// Enabled reports whether media flows; a disabled track stays published.
	Enabled() bool
	SetEnabled(enabled bool)
	Close() error
}

// TrackFactory opens capture devices.
type TrackFactory interface {
	// CreateTrack opens deviceID and returns an unpublished track for kind.
	CreateTrack(ctx context.Context, kind domain.MediaKind, deviceID string) (LocalTrack, error)
}

// RTPSink receives packets of a subscribed remote track (a render target).
type RTPSink interface {
	WriteRTP(pkt *rtp.Packet) error
}

// RemoteTrack is the handle to a subscribed remote track. The view layer
// binds render targets to it; the orchestrator never renders.
type RemoteTrack interface {
	ID() string
	Kind() domain.MediaKind
	ParticipantID() domain.ParticipantID
	// Attach adds a sink and returns a func that detaches it.
	Attach(sink RTPSink) (detach func())
}
