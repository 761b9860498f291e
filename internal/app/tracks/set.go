// Package tracks owns the local capture tracks of a session: at most one
// audio and one video track, each bound to one device.
package tracks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/aimaster-dev/healthBridge/internal/app"
	"github.com/aimaster-dev/healthBridge/internal/core"
	"github.com/aimaster-dev/healthBridge/internal/domain"
)

// Publisher is the part of core.Transport the set drives.
type Publisher interface {
	Publish(ctx context.Context, tracks []core.LocalTrack) error
	Unpublish(ctx context.Context, tracks []core.LocalTrack) error
}

type Set struct {
	factory core.TrackFactory
	pub     Publisher
	policy  app.PublishPolicy

	// run serializes syncs; a queued sync applies the newest want.
	run sync.Mutex

	mu            sync.Mutex
	slots         map[domain.MediaKind]*slot
	want          domain.Selections
	wantConnected bool
}

func NewSet(factory core.TrackFactory, pub Publisher, policy app.PublishPolicy) *Set {
	if policy == nil {
		policy = app.CoupledPolicy{}
	}
	return &Set{
		factory: factory,
		pub:     pub,
		policy:  policy,
		slots:   make(map[domain.MediaKind]*slot),
	}
}

// Sync brings the open tracks in line with sel. Only kinds whose device
// changed are recreated. On failure every local track is closed and
// unpublished and the error wraps domain.ErrMediaDevice. A cancelled ctx
// returns ctx.Err() after closing anything half-created; one cancelled on
// entry leaves the recorded want untouched.
func (s *Set) Sync(ctx context.Context, sel domain.Selections, connected bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.want, s.wantConnected = sel, connected
	s.mu.Unlock()

	s.run.Lock()
	defer s.run.Unlock()

	s.mu.Lock()
	sel, connected = s.want, s.wantConnected
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if !connected {
		return nil
	}
	want, ok := s.policy.Want(sel)
	if !ok {
		log.Debug().Str("module", "app.tracks").
			Str("camera", sel.Camera).
			Str("microphone", sel.Microphone).
			Msg("publish policy not satisfied, skipping sync")
		return nil
	}

	for _, kind := range domain.MediaKinds {
		device := want[kind]
		s.mu.Lock()
		cur := s.slots[kind]
		s.mu.Unlock()
		if cur == nil && device == "" {
			continue
		}
		if cur != nil && cur.track.DeviceID() == device {
			continue
		}
		if err := s.replace(ctx, kind, cur, device); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			log.Error().Str("module", "app.tracks").Str("kind", string(kind)).Str("device", device).Err(err).
				Msg("track sync failed, dropping local media")
			s.closeAll(ctx)
			return fmt.Errorf("%w: %w", domain.ErrMediaDevice, err)
		}
	}
	return nil
}

// replace closes cur (then unpublishes it even if close failed) and opens
// and publishes a track on device. An empty device only removes.
func (s *Set) replace(ctx context.Context, kind domain.MediaKind, cur *slot, device string) error {
	if cur != nil {
		s.mu.Lock()
		if s.slots[kind] == cur {
			delete(s.slots, kind)
		}
		s.mu.Unlock()
		if err := s.release(ctx, cur); err != nil {
			return err
		}
	}
	if device == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	track, err := s.factory.CreateTrack(ctx, kind, device)
	if err != nil {
		return fmt.Errorf("create %s track on %q: %w", kind, device, err)
	}
	sl := newSlot(track)

	s.mu.Lock()
	if err := ctx.Err(); err != nil {
		s.mu.Unlock()
		sl.markClosed()
		if cerr := track.Close(); cerr != nil {
			log.Warn().Str("module", "app.tracks").Str("kind", string(kind)).Err(cerr).Msg("close cancelled track")
		}
		return err
	}
	s.slots[kind] = sl
	s.mu.Unlock()

	log.Info().Str("module", "app.tracks").Str("kind", string(kind)).Str("device", device).Msg("track created")

	if err := s.pub.Publish(ctx, []core.LocalTrack{track}); err != nil {
		return fmt.Errorf("publish %s track: %w", kind, err)
	}

	s.mu.Lock()
	owned := s.slots[kind] == sl
	if owned {
		sl.published = true
	}
	s.mu.Unlock()
	if !owned {
		// Close ran while publishing; it could not know to unpublish.
		if err := s.pub.Unpublish(context.WithoutCancel(ctx), []core.LocalTrack{track}); err != nil {
			log.Warn().Str("module", "app.tracks").Str("kind", string(kind)).Err(err).Msg("unpublish orphaned track")
		}
	}
	return nil
}

// release closes a detached slot and unpublishes it if it was published.
func (s *Set) release(ctx context.Context, sl *slot) error {
	if !sl.markClosed() {
		return nil
	}
	closeErr := sl.track.Close()
	if closeErr != nil {
		closeErr = fmt.Errorf("close %s track: %w", sl.track.Kind(), closeErr)
	}
	s.mu.Lock()
	published := sl.published
	s.mu.Unlock()
	if !published {
		return closeErr
	}
	var unpubErr error
	if err := s.pub.Unpublish(ctx, []core.LocalTrack{sl.track}); err != nil {
		unpubErr = fmt.Errorf("unpublish %s track: %w", sl.track.Kind(), err)
	}
	return errors.Join(closeErr, unpubErr)
}

func (s *Set) detachAll() []*slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*slot, 0, len(s.slots))
	for _, kind := range domain.MediaKinds {
		if sl, ok := s.slots[kind]; ok {
			out = append(out, sl)
			delete(s.slots, kind)
		}
	}
	return out
}

func (s *Set) closeAll(ctx context.Context) error {
	var errs []error
	for _, sl := range s.detachAll() {
		if err := s.release(ctx, sl); err != nil {
			log.Warn().Str("module", "app.tracks").Str("kind", string(sl.track.Kind())).Err(err).Msg("release track")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close tears down both tracks. It does not wait for an in-flight Sync;
// that sync observes its cancelled ctx and closes what it created.
func (s *Set) Close(ctx context.Context) error {
	s.mu.Lock()
	s.wantConnected = false
	s.mu.Unlock()
	return s.closeAll(ctx)
}

// SetEnabled toggles an existing track without republishing it. It
// reports false when no track of kind is open.
func (s *Set) SetEnabled(kind domain.MediaKind, enabled bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.slots[kind]
	if !ok || sl.getState() == slotClosed {
		return false
	}
	sl.track.SetEnabled(enabled)
	if enabled {
		sl.markLive()
	} else {
		sl.markMuted()
	}
	log.Debug().Str("module", "app.tracks").Str("kind", string(kind)).Bool("enabled", enabled).Msg("track toggled")
	return true
}

func (s *Set) State() domain.LocalMediaState {
	s.mu.Lock()
	defer s.mu.Unlock()
	var st domain.LocalMediaState
	for kind, sl := range s.slots {
		info := &domain.LocalTrackInfo{
			Kind:      kind,
			DeviceID:  sl.track.DeviceID(),
			Enabled:   sl.getState() == slotLive,
			Published: sl.published,
		}
		switch kind {
		case domain.MediaAudio:
			st.Audio = info
		case domain.MediaVideo:
			st.Video = info
		}
	}
	return st
}
