package core

import (
	"context"

	"github.com/aimaster-dev/healthBridge/internal/domain"
)

//go:generate mockgen -destination=mocks/mock_core.go -package=mocks . Transport,PlaybackDeviceSetter,DeviceSource,RenderDeviceSource,TrackFactory,LocalTrack,RemoteTrack

type EventType int

const (
	EventPublished EventType = iota + 1
	EventUnpublished
	// EventDisconnected reports a transport-level connection loss.
	EventDisconnected
)

func (t EventType) String() string {
	switch t {
	case EventPublished:
		return "published"
	case EventUnpublished:
		return "unpublished"
	case EventDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Event is one notification from the transport. Kind is empty on an
// Unpublished event when the participant left with all of its media.
type Event struct {
	Type EventType
	UID  domain.ParticipantID
	Kind domain.MediaKind
	Err  error
}

// Transport is the real-time transport client the session controller drives.
// The controller never calls it from more than one session at a time.
type Transport interface {
	// Join connects to channel as uid. token is passed through untouched.
	Join(ctx context.Context, channel, token string, uid domain.ParticipantID) error
	Leave(ctx context.Context) error
	Publish(ctx context.Context, tracks []LocalTrack) error
	Unpublish(ctx context.Context, tracks []LocalTrack) error
	// Subscribe requests delivery of uid's track of kind.
	Subscribe(ctx context.Context, uid domain.ParticipantID, kind domain.MediaKind) (RemoteTrack, error)
	// Events returns the event stream and a func that ends the subscription.
	Events() (ch <-chan Event, cancel func())
}

// PlaybackDeviceSetter is an optional Transport capability.
type PlaybackDeviceSetter interface {
	SetPlaybackDevice(deviceID string) error
}
