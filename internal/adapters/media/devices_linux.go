//go:build linux

package media

import (
	"context"
	"fmt"

	"github.com/pion/mediadevices"
	"github.com/pion/mediadevices/pkg/codec/opus"
	"github.com/pion/mediadevices/pkg/codec/vpx"
	_ "github.com/pion/mediadevices/pkg/driver/camera"
	_ "github.com/pion/mediadevices/pkg/driver/microphone"
	"github.com/pion/mediadevices/pkg/frame"
	"github.com/pion/mediadevices/pkg/prop"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/aimaster-dev/healthBridge/internal/core"
	"github.com/aimaster-dev/healthBridge/internal/domain"
)

const videoBitRate = 1_500_000

// Devices enumerates V4L2 cameras and malgo microphones and opens them as
// VP8/Opus encoded tracks.
type Devices struct {
	selector *mediadevices.CodecSelector
}

var (
	_ core.DeviceSource       = (*Devices)(nil)
	_ core.RenderDeviceSource = (*Devices)(nil)
	_ core.TrackFactory       = (*Devices)(nil)
)

func New() (*Devices, error) {
	vpxParams, err := vpx.NewVP8Params()
	if err != nil {
		return nil, fmt.Errorf("vp8 params: %w", err)
	}
	vpxParams.BitRate = videoBitRate

	opusParams, err := opus.NewParams()
	if err != nil {
		return nil, fmt.Errorf("opus params: %w", err)
	}

	return &Devices{selector: mediadevices.NewCodecSelector(
		mediadevices.WithVideoEncoders(&vpxParams),
		mediadevices.WithAudioEncoders(&opusParams),
	)}, nil
}

// PopulateMediaEngine registers the codecs the capture tracks encode to.
func (d *Devices) PopulateMediaEngine(me *webrtc.MediaEngine) error {
	d.selector.Populate(me)
	return nil
}

func (d *Devices) EnumerateCaptureDevices(ctx context.Context) ([]domain.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []domain.Device
	for _, info := range mediadevices.EnumerateDevices() {
		var cat domain.DeviceCategory
		switch info.Kind {
		case mediadevices.VideoInput:
			cat = domain.Camera
		case mediadevices.AudioInput:
			cat = domain.Microphone
		default:
			continue
		}
		out = append(out, domain.Device{ID: info.DeviceID, Label: info.Label, Category: cat})
	}
	log.Debug().Str("module", "media").Int("count", len(out)).Msg("capture devices enumerated")
	return out, nil
}

func (d *Devices) EnumerateRenderDevices(ctx context.Context) ([]domain.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []domain.Device
	for _, info := range mediadevices.EnumerateDevices() {
		if info.Kind == mediadevices.AudioOutput {
			out = append(out, domain.Device{ID: info.DeviceID, Label: info.Label, Category: domain.Speaker})
		}
	}
	return out, nil
}

func (d *Devices) CreateTrack(ctx context.Context, kind domain.MediaKind, deviceID string) (core.LocalTrack, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	constraints := mediadevices.MediaStreamConstraints{Codec: d.selector}
	switch kind {
	case domain.MediaVideo:
		constraints.Video = func(c *mediadevices.MediaTrackConstraints) {
			c.DeviceID = prop.String(deviceID)
			// raw formats only; some MJPEG nodes poison the VP8 encoder
			c.FrameFormat = prop.FrameFormatOneOf{
				frame.FormatYUYV,
				frame.FormatI420,
				frame.FormatI444,
				frame.FormatRGBA,
			}
			c.Width = prop.IntRanged{Max: 640}
			c.Height = prop.IntRanged{Max: 480}
		}
	case domain.MediaAudio:
		constraints.Audio = func(c *mediadevices.MediaTrackConstraints) {
			c.DeviceID = prop.String(deviceID)
		}
	default:
		return nil, fmt.Errorf("unknown media kind %q", kind)
	}

	stream, err := mediadevices.GetUserMedia(constraints)
	if err != nil {
		return nil, fmt.Errorf("open %s device %s: %w", kind, deviceID, err)
	}
	tracks := stream.GetTracks()
	if len(tracks) == 0 {
		return nil, fmt.Errorf("open %s device %s: no track", kind, deviceID)
	}
	for _, extra := range tracks[1:] {
		_ = extra.Close()
	}
	src := tracks[0]
	if got := mediaKind(src.Kind()); got != kind {
		_ = src.Close()
		return nil, fmt.Errorf("open %s device %s: got %s track", kind, deviceID, got)
	}
	if err := ctx.Err(); err != nil {
		_ = src.Close()
		return nil, err
	}
	src.OnEnded(func(err error) {
		if err != nil {
			log.Warn().Err(err).Str("module", "media").Str("kind", string(kind)).Str("device", deviceID).Msg("capture ended")
		}
	})
	log.Info().Str("module", "media").Str("kind", string(kind)).Str("device", deviceID).Msg("capture opened")
	return newCaptureTrack(kind, deviceID, src), nil
}
