package app

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/aimaster-dev/healthBridge/internal/core"
	"github.com/aimaster-dev/healthBridge/internal/domain"
)

// Subscriber is the part of core.Transport the registry drives.
type Subscriber interface {
	Subscribe(ctx context.Context, uid domain.ParticipantID, kind domain.MediaKind) (core.RemoteTrack, error)
}

// Guard runs fn only while the owning session is still live, holding the
// session lock, and reports whether fn ran.
type Guard func(fn func()) bool

type remoteEntry struct {
	tracks map[domain.MediaKind]core.RemoteTrack
}

type claimKey struct {
	uid  domain.ParticipantID
	kind domain.MediaKind
}

// Claim is one in-flight subscribe of a uid/kind. Unpublished and Clear
// revoke it, cancelling its context.
type Claim struct {
	ctx    context.Context
	cancel context.CancelFunc
	key    claimKey
}

// Registry keeps remote participants of the current session. A participant
// is present iff at least one of its kinds is published.
type Registry struct {
	mu      sync.RWMutex
	members map[domain.ParticipantID]*remoteEntry
	pending map[claimKey]*Claim
}

func NewRegistry() *Registry {
	return &Registry{
		members: make(map[domain.ParticipantID]*remoteEntry),
		pending: make(map[claimKey]*Claim),
	}
}

// Claim reserves uid/kind for a subscribe. It reports false when the kind
// is already present or another subscribe of it is in flight.
func (r *Registry) Claim(ctx context.Context, uid domain.ParticipantID, kind domain.MediaKind) (*Claim, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := claimKey{uid: uid, kind: kind}
	if _, busy := r.pending[key]; busy {
		return nil, false
	}
	if e, ok := r.members[uid]; ok {
		if _, dup := e.tracks[kind]; dup {
			return nil, false
		}
	}
	cl := &Claim{key: key}
	cl.ctx, cl.cancel = context.WithCancel(ctx)
	r.pending[key] = cl
	return cl, true
}

// Complete subscribes the claimed uid/kind and records it. The insert
// happens inside guard so an event handled after teardown began never lands
// in the registry. A claim revoked meanwhile yields neither insert nor error.
func (r *Registry) Complete(sub Subscriber, guard Guard, cl *Claim) (core.RemoteTrack, bool, error) {
	defer r.release(cl)
	uid, kind := cl.key.uid, cl.key.kind

	handle, err := sub.Subscribe(cl.ctx, uid, kind)
	if err != nil {
		if cl.ctx.Err() != nil && r.revoked(cl) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %s/%s: %w", domain.ErrSubscribeFailed, uid, kind, err)
	}

	inserted := false
	guard(func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.pending[cl.key] != cl {
			return
		}
		e, ok := r.members[uid]
		if !ok {
			e = &remoteEntry{tracks: make(map[domain.MediaKind]core.RemoteTrack, 2)}
			r.members[uid] = e
		}
		e.tracks[kind] = handle
		inserted = true
	})
	if !inserted {
		log.Debug().Str("module", "app.registry").Str("uid", string(uid)).Str("kind", string(kind)).
			Msg("published event dropped, session no longer live")
		return nil, false, nil
	}
	log.Info().Str("module", "app.registry").Str("uid", string(uid)).Str("kind", string(kind)).Msg("remote track subscribed")
	return handle, true, nil
}

// Published claims and subscribes uid/kind in one step.
func (r *Registry) Published(
	ctx context.Context,
	sub Subscriber,
	guard Guard,
	uid domain.ParticipantID,
	kind domain.MediaKind,
) (core.RemoteTrack, bool, error) {
	cl, ok := r.Claim(ctx, uid, kind)
	if !ok {
		return nil, false, nil
	}
	return r.Complete(sub, guard, cl)
}

func (r *Registry) revoked(cl *Claim) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pending[cl.key] != cl
}

func (r *Registry) release(cl *Claim) {
	r.mu.Lock()
	if r.pending[cl.key] == cl {
		delete(r.pending, cl.key)
	}
	r.mu.Unlock()
	cl.cancel()
}

// revokeLocked drops in-flight claims of uid, all kinds when kind is empty.
func (r *Registry) revokeLocked(uid domain.ParticipantID, kind domain.MediaKind) {
	for key, cl := range r.pending {
		if key.uid != uid || (kind != "" && key.kind != kind) {
			continue
		}
		delete(r.pending, key)
		cl.cancel()
	}
}

// Unpublished removes kind from uid, or the whole participant when kind is
// empty, and returns the kinds that were removed.
func (r *Registry) Unpublished(uid domain.ParticipantID, kind domain.MediaKind) []domain.MediaKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revokeLocked(uid, kind)
	e, ok := r.members[uid]
	if !ok {
		return nil
	}
	var removed []domain.MediaKind
	for _, k := range domain.MediaKinds {
		if kind != "" && k != kind {
			continue
		}
		if _, ok := e.tracks[k]; ok {
			delete(e.tracks, k)
			removed = append(removed, k)
		}
	}
	if len(e.tracks) == 0 {
		delete(r.members, uid)
		log.Info().Str("module", "app.registry").Str("uid", string(uid)).Msg("participant left")
	}
	return removed
}

func (r *Registry) Has(uid domain.ParticipantID, kind domain.MediaKind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.members[uid]
	if !ok {
		return false
	}
	_, ok = e.tracks[kind]
	return ok
}

// Track returns the subscribed handle of uid's kind.
func (r *Registry) Track(uid domain.ParticipantID, kind domain.MediaKind) (core.RemoteTrack, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.members[uid]
	if !ok {
		return nil, false
	}
	t, ok := e.tracks[kind]
	return t, ok
}

// Clear forgets every participant without unsubscribing; the transport
// has already been left. In-flight claims are revoked.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cl := range r.pending {
		cl.cancel()
	}
	clear(r.pending)
	n := len(r.members)
	clear(r.members)
	log.Info().Str("module", "app.registry").Int("participants", n).Msg("registry cleared")
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// Snapshot returns the participants sorted by uid.
func (r *Registry) Snapshot() []domain.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Participant, 0, len(r.members))
	for uid, e := range r.members {
		_, audio := e.tracks[domain.MediaAudio]
		_, video := e.tracks[domain.MediaVideo]
		out = append(out, domain.Participant{ID: uid, Audio: audio, Video: video})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
