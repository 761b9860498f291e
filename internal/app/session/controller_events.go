package session

import (
	"github.com/rs/zerolog/log"

	"github.com/aimaster-dev/healthBridge/internal/app"
	"github.com/aimaster-dev/healthBridge/internal/core"
)

func (c *Controller) eventLoop(s *session, events <-chan core.Event) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				log.Debug().Str("module", "app.session").Str("uid", string(s.self)).Msg("event stream closed")
				return
			}
			c.handleEvent(s, ev)
		}
	}
}

func (c *Controller) handleEvent(s *session, ev core.Event) {
	switch ev.Type {
	case core.EventPublished:
		c.onPublished(s, ev)
	case core.EventUnpublished:
		c.onUnpublished(s, ev)
	case core.EventDisconnected:
		c.interrupt(s, ev.Err)
	default:
		log.Warn().Str("module", "app.session").Int("type", int(ev.Type)).Msg("unknown transport event")
	}
}

// onPublished claims uid/kind on the event loop, so duplicates and a later
// unpublish are ordered against it, then subscribes off the loop so a
// Disconnected event is never stuck behind a slow subscribe.
func (c *Controller) onPublished(s *session, ev core.Event) {
	if ev.UID == s.self || ev.UID == "" || ev.Kind == "" {
		return
	}
	cl, ok := c.registry.Claim(s.ctx, ev.UID, ev.Kind)
	if !ok {
		return
	}
	s.loop.Go(func() {
		track, inserted, err := c.registry.Complete(c.transport, c.guard(s), cl)
		if err != nil {
			if s.ctx.Err() != nil {
				return
			}
			log.Error().Str("module", "app.session").Str("uid", string(ev.UID)).Str("kind", string(ev.Kind)).Err(err).
				Msg("remote subscribe failed")
			c.setLastErr(s, err)
			c.publish()
			return
		}
		if !inserted {
			return
		}
		c.publish()
		if c.cb.OnRemoteTrack != nil {
			c.cb.OnRemoteTrack(ev.UID, ev.Kind, track)
		}
	})
}

func (c *Controller) onUnpublished(s *session, ev core.Event) {
	if s.ctx.Err() != nil {
		return
	}
	removed := c.registry.Unpublished(ev.UID, ev.Kind)
	if len(removed) == 0 {
		return
	}
	c.publish()
	if c.cb.OnRemoteTrackRemoved != nil {
		for _, kind := range removed {
			c.cb.OnRemoteTrackRemoved(ev.UID, kind)
		}
	}
}

// guard runs fn under the controller lock while s is live. Leave cancels
// s under the same lock, so nothing inserted here outlives teardown.
func (c *Controller) guard(s *session) app.Guard {
	return func(fn func()) bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.sess != s || s.ctx.Err() != nil {
			return false
		}
		fn()
		return true
	}
}
