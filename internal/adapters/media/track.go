// Package media opens local capture devices through pion/mediadevices and
// exposes them as core.LocalTrack values the rtc transport can send.
package media

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/aimaster-dev/healthBridge/internal/core"
	"github.com/aimaster-dev/healthBridge/internal/domain"
)

var ErrNoCapture = errors.New("capture is not supported on this platform")

// source is a capture track as the PeerConnection sees it.
// mediadevices.Track satisfies it.
type source interface {
	webrtc.TrackLocal
	Close() error
}

// captureTrack binds one device for its whole life. Muting keeps the track
// published and drops its packets at the write stream.
type captureTrack struct {
	kind     domain.MediaKind
	deviceID string
	src      source
	on       *atomic.Bool
	local    *gatedTrack

	closeOnce sync.Once
	closeErr  error
}

var _ core.LocalTrack = (*captureTrack)(nil)

func newCaptureTrack(kind domain.MediaKind, deviceID string, src source) *captureTrack {
	on := &atomic.Bool{}
	on.Store(true)
	return &captureTrack{
		kind:     kind,
		deviceID: deviceID,
		src:      src,
		on:       on,
		local:    &gatedTrack{TrackLocal: src, on: on},
	}
}

func (t *captureTrack) ID() string              { return t.src.ID() }
func (t *captureTrack) Kind() domain.MediaKind  { return t.kind }
func (t *captureTrack) DeviceID() string        { return t.deviceID }
func (t *captureTrack) Enabled() bool           { return t.on.Load() }
func (t *captureTrack) SetEnabled(enabled bool) { t.on.Store(enabled) }

// TrackLocal is what the transport adds to its PeerConnection.
func (t *captureTrack) TrackLocal() webrtc.TrackLocal { return t.local }

func (t *captureTrack) Close() error {
	t.closeOnce.Do(func() {
		t.closeErr = t.src.Close()
		log.Debug().Str("module", "media").Str("kind", string(t.kind)).Str("device", t.deviceID).Err(t.closeErr).Msg("capture track closed")
	})
	return t.closeErr
}

type gatedTrack struct {
	webrtc.TrackLocal
	on *atomic.Bool
}

func (g *gatedTrack) Bind(ctx webrtc.TrackLocalContext) (webrtc.RTPCodecParameters, error) {
	return g.TrackLocal.Bind(gatedContext{TrackLocalContext: ctx, on: g.on})
}

func (g *gatedTrack) Unbind(ctx webrtc.TrackLocalContext) error {
	return g.TrackLocal.Unbind(gatedContext{TrackLocalContext: ctx, on: g.on})
}

type gatedContext struct {
	webrtc.TrackLocalContext
	on *atomic.Bool
}

func (c gatedContext) WriteStream() webrtc.TrackLocalWriter {
	return gatedWriter{w: c.TrackLocalContext.WriteStream(), on: c.on}
}

// gatedWriter reports muted packets as written so the encoder keeps going.
type gatedWriter struct {
	w  webrtc.TrackLocalWriter
	on *atomic.Bool
}

func (g gatedWriter) WriteRTP(header *rtp.Header, payload []byte) (int, error) {
	if !g.on.Load() {
		return len(payload), nil
	}
	return g.w.WriteRTP(header, payload)
}

func (g gatedWriter) Write(b []byte) (int, error) {
	if !g.on.Load() {
		return len(b), nil
	}
	return g.w.Write(b)
}

func mediaKind(k webrtc.RTPCodecType) domain.MediaKind {
	if k == webrtc.RTPCodecTypeVideo {
		return domain.MediaVideo
	}
	return domain.MediaAudio
}
