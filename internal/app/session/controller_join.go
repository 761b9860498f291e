package session

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/aimaster-dev/healthBridge/internal/domain"
)

const (
	joinOK        = "ok"
	joinFailed    = "failed"
	joinCancelled = "cancelled"
)

// JoinHandle resolves when the transport join settles: nil once
// Connected, an ErrConnectFailed wrap, or ErrJoinCancelled.
type JoinHandle struct {
	c    *Controller
	s    *session
	done chan struct{}
	err  error
}

func (h *JoinHandle) ParticipantID() domain.ParticipantID { return h.s.self }

func (h *JoinHandle) Done() <-chan struct{} { return h.done }

// Err is valid once Done is closed.
func (h *JoinHandle) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

// Wait blocks until the join settles or ctx ends. An expired ctx does not
// cancel the join; call Cancel or Controller.Leave for that.
func (h *JoinHandle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel abandons the join if it is still pending and reports whether it
// did. A session that already connected is left alone and Cancel returns
// false; the handle then settles with the real outcome.
func (h *JoinHandle) Cancel() bool {
	return h.c.leave(context.Background(), h.s)
}

func (h *JoinHandle) resolve(err error) {
	h.err = err
	close(h.done)
}

// Join starts joining channelID. Validation errors are returned
// synchronously; the transport outcome arrives on the handle.
func (c *Controller) Join(channelID, displayNameHint string) (*JoinHandle, error) {
	if channelID == "" {
		return nil, domain.ErrInvalidChannel
	}

	c.mu.Lock()
	if c.state != domain.Disconnected {
		c.mu.Unlock()
		return nil, domain.ErrAlreadyActive
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &session{
		channel:  channelID,
		self:     domain.NewParticipantID(displayNameHint),
		ctx:      ctx,
		cancel:   cancel,
		joinDone: make(chan struct{}),
		left:     make(chan struct{}),
	}
	prev := c.lastJoin
	c.lastJoin = s.joinDone
	c.sess = s
	c.state = domain.Connecting
	c.lastErr = nil
	c.mu.Unlock()

	log.Info().Str("module", "app.session").Str("channel", channelID).Str("uid", string(s.self)).Msg("joining")
	c.publish()

	h := &JoinHandle{c: c, s: s, done: make(chan struct{})}
	c.wg.Go(func() { c.runJoin(s, prev, h) })
	return h, nil
}

func (c *Controller) runJoin(s *session, prev <-chan struct{}, h *JoinHandle) {
	defer close(s.joinDone)

	// The previous attempt may still owe the transport an orphan leave.
	if prev != nil {
		select {
		case <-prev:
		case <-s.ctx.Done():
		}
	}

	var err error
	joined := false
	if err = s.ctx.Err(); err == nil {
		err = c.transport.Join(s.ctx, s.channel, c.token, s.self)
		joined = err == nil
	}

	c.mu.Lock()
	if c.sess != s || s.ctx.Err() != nil {
		c.mu.Unlock()
		if joined {
			if lerr := c.transport.Leave(context.Background()); lerr != nil {
				log.Warn().Str("module", "app.session").Str("uid", string(s.self)).Err(lerr).Msg("leave after cancelled join")
			}
		}
		log.Info().Str("module", "app.session").Str("channel", s.channel).Str("uid", string(s.self)).Msg("join cancelled")
		c.joinResult(joinCancelled)
		h.resolve(domain.ErrJoinCancelled)
		return
	}

	if err != nil {
		s.cancel()
		c.sess = nil
		c.state = domain.Disconnected
		c.lastErr = fmt.Errorf("%w: %w", domain.ErrConnectFailed, err)
		abortErr := c.lastErr
		c.mu.Unlock()

		log.Error().Str("module", "app.session").Str("channel", s.channel).Err(err).Msg("join failed")
		c.joinResult(joinFailed)
		c.publish()
		c.abort(abortErr)
		h.resolve(abortErr)
		return
	}

	c.state = domain.Connected
	s.connected = true
	events, stop := c.transport.Events()
	s.stopEvents = stop
	s.loop.Go(func() { c.eventLoop(s, events) })
	c.mu.Unlock()

	log.Info().Str("module", "app.session").Str("channel", s.channel).Str("uid", string(s.self)).Msg("connected")
	c.joinResult(joinOK)
	c.publish()
	if c.cb.OnConnected != nil {
		c.cb.OnConnected(s.channel, s.self)
	}
	h.resolve(nil)

	c.syncTracks(s.ctx, s)
}

// Leave ends the current session, cancelling a pending join. It is
// idempotent and never fails; teardown errors are logged. When a teardown
// is already underway Leave waits for it, bounded by ctx.
func (c *Controller) Leave(ctx context.Context) {
	c.leave(ctx, nil)
}

// leave tears down the current session and reports whether it did. With a
// non-nil target it only acts on that session while it is still joining.
func (c *Controller) leave(ctx context.Context, target *session) bool {
	c.mu.Lock()
	s := c.sess
	if s != nil && s.leaving && target == nil {
		c.mu.Unlock()
		select {
		case <-s.left:
		case <-ctx.Done():
		}
		return false
	}
	if s == nil || s.leaving || (target != nil && (s != target || s.connected)) {
		c.mu.Unlock()
		return false
	}
	s.leaving = true
	s.cancel()
	c.state = domain.Leaving
	connected, stop := s.connected, s.stopEvents
	c.mu.Unlock()

	log.Info().Str("module", "app.session").Str("channel", s.channel).Str("uid", string(s.self)).Msg("leaving")
	c.publish()

	if connected {
		c.teardown(ctx, s, stop)
		s.loop.Wait()
	}
	c.registry.Clear()

	c.mu.Lock()
	if c.sess == s {
		c.sess = nil
		c.state = domain.Disconnected
	}
	c.mu.Unlock()
	close(s.left)
	log.Info().Str("module", "app.session").Str("channel", s.channel).Msg("left")
	c.publish()
	return true
}

// interrupt handles a transport disconnect. It runs on the event loop, so
// it must not wait for it.
func (c *Controller) interrupt(s *session, cause error) {
	c.mu.Lock()
	if c.sess != s || s.leaving {
		c.mu.Unlock()
		return
	}
	s.leaving = true
	s.cancel()
	c.state = domain.Leaving
	stop := s.stopEvents
	c.mu.Unlock()

	log.Warn().Str("module", "app.session").Str("channel", s.channel).Err(cause).Msg("transport disconnected")
	c.publish()

	c.teardown(context.Background(), s, stop)
	c.registry.Clear()

	err := domain.ErrInterrupted
	if cause != nil {
		err = fmt.Errorf("%w: %w", domain.ErrInterrupted, cause)
	}
	c.mu.Lock()
	if c.sess == s {
		c.sess = nil
		c.state = domain.Disconnected
		c.lastErr = err
	}
	c.mu.Unlock()
	close(s.left)
	c.publish()
	c.abort(err)
}

// teardown releases local media and the channel. Each step runs even if
// an earlier one failed.
func (c *Controller) teardown(ctx context.Context, s *session, stopEvents func()) {
	if err := c.tracks.Close(ctx); err != nil {
		log.Warn().Str("module", "app.session").Str("uid", string(s.self)).Err(err).Msg("close local tracks")
	}
	if err := c.transport.Leave(ctx); err != nil {
		log.Warn().Str("module", "app.session").Str("uid", string(s.self)).Err(err).Msg("transport leave")
	}
	if stopEvents != nil {
		stopEvents()
	}
}

func (c *Controller) joinResult(result string) {
	if c.metrics != nil {
		c.metrics.JoinResult(result)
	}
}
