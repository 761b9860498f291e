package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/aimaster-dev/healthBridge/internal/core"
	"github.com/aimaster-dev/healthBridge/internal/domain"
)

// SetDeviceSelection validates and records a device choice. A speaker
// change goes to the transport when it supports playback routing; a
// camera or microphone change resyncs local tracks of a connected session.
// Only validation errors are returned; media failures land in LastError.
func (c *Controller) SetDeviceSelection(ctx context.Context, category domain.DeviceCategory, id string) error {
	if err := c.catalog.Select(category, id); err != nil {
		return err
	}
	log.Info().Str("module", "app.session").Str("category", string(category)).Str("device", id).Msg("device selected")

	c.mu.Lock()
	s := c.sess
	live := s != nil && c.state == domain.Connected
	c.mu.Unlock()

	if category == domain.Speaker {
		if ps, ok := c.transport.(core.PlaybackDeviceSetter); ok {
			if err := ps.SetPlaybackDevice(id); err != nil {
				log.Error().Str("module", "app.session").Str("device", id).Err(err).Msg("set playback device")
				if live {
					c.setLastErr(s, fmt.Errorf("%w: speaker %q: %w", domain.ErrMediaDevice, id, err))
				}
			}
		}
		c.publish()
		return nil
	}

	if !live {
		c.publish()
		return nil
	}
	// Derived from s.ctx so Leave cancels it before teardown starts.
	syncCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	c.syncTracks(syncCtx, s)
	return nil
}

// SetEnabled mutes or unmutes the local track of kind in place. It reports
// false when no such track is open.
func (c *Controller) SetEnabled(kind domain.MediaKind, enabled bool) bool {
	ok := c.tracks.SetEnabled(kind, enabled)
	if ok {
		c.publish()
	}
	return ok
}

func (c *Controller) syncTracks(ctx context.Context, s *session) {
	err := c.tracks.Sync(ctx, c.catalog.Selections(), true)
	switch {
	case err == nil:
		c.syncResult("ok")
	case errors.Is(err, domain.ErrMediaDevice):
		log.Error().Str("module", "app.session").Str("uid", string(s.self)).Err(err).Msg("local media unavailable")
		c.setLastErr(s, err)
		c.syncResult("error")
	default:
		log.Debug().Str("module", "app.session").Str("uid", string(s.self)).Err(err).Msg("track sync abandoned")
	}
	c.publish()
}

func (c *Controller) syncResult(result string) {
	if c.metrics != nil {
		c.metrics.SyncResult(result)
	}
}
