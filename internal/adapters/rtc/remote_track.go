package rtc

import (
	"context"
	"maps"
	"sync"

	"github.com/pion/interceptor"
	"github.com/pion/rtp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aimaster-dev/healthBridge/internal/core"
	"github.com/aimaster-dev/healthBridge/internal/domain"
)

// rtpReader is satisfied by *webrtc.TrackRemote.
type rtpReader interface {
	ReadRTP() (*rtp.Packet, interceptor.Attributes, error)
}

// remoteTrack is a subscribed remote track. Its loop forwards every packet
// to the attached sinks.
type remoteTrack struct {
	id   string
	uid  domain.ParticipantID
	kind domain.MediaKind
	src  rtpReader

	mu    sync.RWMutex
	sinks map[uint64]core.RTPSink
	next  uint64

	cancel context.CancelFunc
	done   chan struct{}
}

var _ core.RemoteTrack = (*remoteTrack)(nil)

func newRemoteTrack(id string, uid domain.ParticipantID, kind domain.MediaKind, src rtpReader) *remoteTrack {
	return &remoteTrack{
		id:    id,
		uid:   uid,
		kind:  kind,
		src:   src,
		sinks: make(map[uint64]core.RTPSink),
		done:  make(chan struct{}),
	}
}

func (r *remoteTrack) ID() string                          { return r.id }
func (r *remoteTrack) Kind() domain.MediaKind              { return r.kind }
func (r *remoteTrack) ParticipantID() domain.ParticipantID { return r.uid }

func (r *remoteTrack) Attach(sink core.RTPSink) func() {
	r.mu.Lock()
	id := r.next
	r.next++
	r.sinks[id] = sink
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.sinks, id)
			r.mu.Unlock()
		})
	}
}

func (r *remoteTrack) start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	logger := log.With().Str("module", "rtc.remote").Str("uid", string(r.uid)).Str("kind", string(r.kind)).Logger()
	go func() {
		defer close(r.done)
		r.loop(ctx, &logger)
	}()
}

// stop ends forwarding. The loop exits on the next packet or when the
// source closes.
func (r *remoteTrack) stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Lock()
	clear(r.sinks)
	r.mu.Unlock()
}

func (r *remoteTrack) loop(ctx context.Context, logger *zerolog.Logger) {
	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("remote track ctx done")
			return
		default:
		}
		pkt, _, err := r.src.ReadRTP()
		if err != nil {
			logger.Debug().Err(err).Msg("remote track read ended")
			return
		}
		r.forward(pkt, logger)
	}
}

func (r *remoteTrack) forward(pkt *rtp.Packet, logger *zerolog.Logger) {
	r.mu.RLock()
	snapshot := maps.Clone(r.sinks)
	r.mu.RUnlock()

	var dirty []uint64
	for id, sink := range snapshot {
		if err := sink.WriteRTP(pkt); err != nil {
			logger.Warn().Err(err).Uint64("sink", id).Msg("sink write error, detaching")
			dirty = append(dirty, id)
		}
	}
	if len(dirty) > 0 {
		r.mu.Lock()
		for _, id := range dirty {
			delete(r.sinks, id)
		}
		r.mu.Unlock()
	}
}
