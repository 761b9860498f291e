// Package rtc is the real-time transport client: JSON signaling over one
// WebSocket plus a single pion PeerConnection for all media.
package rtc

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"

	"github.com/aimaster-dev/healthBridge/internal/core"
	"github.com/aimaster-dev/healthBridge/internal/domain"
)

var (
	ErrNotJoined     = errors.New("not joined")
	ErrAlreadyJoined = errors.New("already joined")
	ErrLinkLost      = errors.New("connection lost")
	// ErrUnsendable is returned by Publish for tracks that carry no media.
	ErrUnsendable = errors.New("track has no media source")
)

type Config struct {
	SignalURL  string
	ICEServers []string
	PingPeriod time.Duration
	ReadLimit  int64
	// MediaEngine registers codecs; nil registers the pion defaults.
	MediaEngine func(*webrtc.MediaEngine) error
}

// TrackLocalProvider is implemented by local tracks that can be sent.
type TrackLocalProvider interface {
	TrackLocal() webrtc.TrackLocal
}

type remoteKey struct {
	uid  domain.ParticipantID
	kind domain.MediaKind
}

type eventSub struct {
	ch   chan core.Event
	done chan struct{}
}

type Transport struct {
	cfg    Config
	api    *webrtc.API
	dialer *websocket.Dialer

	mu   sync.Mutex
	link *link

	subsMu  sync.Mutex
	subs    map[uint64]*eventSub
	nextSub uint64
	// backlog holds events that arrive before anyone subscribed.
	backlog []core.Event
}

var _ core.Transport = (*Transport)(nil)

func New(cfg Config) (*Transport, error) {
	api, err := NewAPI(cfg.MediaEngine)
	if err != nil {
		return nil, err
	}
	return &Transport{
		cfg:    cfg,
		api:    api,
		dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		subs:   make(map[uint64]*eventSub),
	}, nil
}

// link is one signaling session and its PeerConnection.
type link struct {
	uid  domain.ParticipantID
	conn *signalConn
	peer *peer

	// ctx scopes event delivery and remote track loops.
	ctx    context.Context
	cancel context.CancelFunc
	// pumpCtx only forces the write pump down when a flush cannot finish.
	pumpCtx    context.Context
	pumpCancel context.CancelFunc
	pumps      conc.WaitGroup

	joinOnce sync.Once
	joinRes  chan error
	joined   atomic.Bool
	leaving  atomic.Bool
	lostOnce sync.Once
	// gone is closed when the link is lost; pending subscribes give up.
	gone chan struct{}

	mu      sync.Mutex
	senders map[string]*webrtc.RTPSender
	remotes map[remoteKey]*remoteTrack
	arrived map[remoteKey]*webrtc.TrackRemote
	waiters map[remoteKey][]chan *webrtc.TrackRemote
}

func newLink(uid domain.ParticipantID, conn *signalConn, p *peer) *link {
	ctx, cancel := context.WithCancel(context.Background())
	pumpCtx, pumpCancel := context.WithCancel(context.Background())
	return &link{
		uid:        uid,
		conn:       conn,
		peer:       p,
		ctx:        ctx,
		cancel:     cancel,
		pumpCtx:    pumpCtx,
		pumpCancel: pumpCancel,
		joinRes:    make(chan error, 1),
		gone:       make(chan struct{}),
		senders:    make(map[string]*webrtc.RTPSender),
		remotes:    make(map[remoteKey]*remoteTrack),
		arrived:    make(map[remoteKey]*webrtc.TrackRemote),
		waiters:    make(map[remoteKey][]chan *webrtc.TrackRemote),
	}
}

func (l *link) resolveJoin(err error) {
	l.joinOnce.Do(func() {
		if err == nil {
			l.joined.Store(true)
		}
		l.joinRes <- err
	})
}

func (t *Transport) Join(ctx context.Context, channel, token string, uid domain.ParticipantID) error {
	t.mu.Lock()
	busy := t.link != nil
	t.mu.Unlock()
	if busy {
		return ErrAlreadyJoined
	}

	ws, _, err := t.dialer.DialContext(ctx, t.cfg.SignalURL, nil)
	if err != nil {
		return fmt.Errorf("dial signaling: %w", err)
	}
	if t.cfg.ReadLimit > 0 {
		ws.SetReadLimit(t.cfg.ReadLimit)
	}
	p, err := newPeer(t.api, webrtcConfig(t.cfg.ICEServers), uid)
	if err != nil {
		_ = ws.Close()
		return fmt.Errorf("new peer connection: %w", err)
	}

	t.subsMu.Lock()
	t.backlog = nil
	t.subsMu.Unlock()

	l := newLink(uid, newSignalConn(ws), p)
	t.bind(l)
	l.pumps.Go(func() { l.conn.writePump(l.pumpCtx, t.cfg.PingPeriod) })
	l.pumps.Go(func() {
		l.conn.readPump(func(m message) { t.handle(l, m) }, func(err error) { t.onSocketDone(l, err) })
	})

	log.Info().Str("module", "rtc").Str("channel", channel).Str("uid", string(uid)).Msg("joining channel")
	if err := l.conn.sendJSON(message{Type: msgJoin, Channel: channel, Token: token, UID: string(uid)}); err != nil {
		t.shutdown(context.Background(), l)
		return fmt.Errorf("send join: %w", err)
	}

	select {
	case err := <-l.joinRes:
		if err != nil {
			t.shutdown(context.Background(), l)
			return err
		}
	case <-ctx.Done():
		t.shutdown(context.Background(), l)
		return ctx.Err()
	}

	t.mu.Lock()
	t.link = l
	t.mu.Unlock()
	log.Info().Str("module", "rtc").Str("channel", channel).Str("uid", string(uid)).Msg("joined channel")
	return nil
}

// bind connects the peer's callbacks to the link.
func (t *Transport) bind(l *link) {
	l.peer.onICE = func(ci webrtc.ICECandidateInit) {
		if err := l.conn.sendJSON(candidateMessage(ci)); err != nil {
			log.Warn().Err(err).Str("module", "rtc").Msg("send candidate")
		}
	}
	l.peer.onNegotiation = func() {
		offer, err := l.peer.createOffer()
		if err != nil {
			log.Error().Err(err).Str("module", "rtc").Msg("create offer")
			return
		}
		if err := l.conn.sendJSON(message{Type: msgOffer, SDP: offer.SDP}); err != nil {
			log.Warn().Err(err).Str("module", "rtc").Msg("send offer")
		}
	}
	l.peer.onTrack = func(track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
		t.onTrack(l, track)
	}
	l.peer.onLost = func(state webrtc.PeerConnectionState) {
		t.lost(l, fmt.Errorf("peer connection %s", state))
	}
	l.peer.start()
}

func (t *Transport) handle(l *link, m message) {
	switch m.Type {
	case msgJoined:
		l.resolveJoin(nil)
	case msgError:
		if !l.joined.Load() {
			l.resolveJoin(fmt.Errorf("join rejected: %s", m.Error))
			return
		}
		log.Error().Str("module", "rtc").Str("error", m.Error).Msg("signaling error")
	case msgOffer:
		answer, err := l.peer.applyOfferAndCreateAnswer(m.SDP)
		if errors.Is(err, errOfferCollision) {
			log.Debug().Str("module", "rtc").Str("uid", string(l.uid)).Msg("colliding offer dropped, awaiting answer")
			return
		}
		if err != nil {
			log.Error().Err(err).Str("module", "rtc").Msg("apply offer")
			return
		}
		if err := l.conn.sendJSON(message{Type: msgAnswer, SDP: answer.SDP}); err != nil {
			log.Warn().Err(err).Str("module", "rtc").Msg("send answer")
		}
	case msgAnswer:
		if err := l.peer.applyAnswer(m.SDP); err != nil {
			log.Error().Err(err).Str("module", "rtc").Msg("apply answer")
		}
	case msgCandidate:
		if err := l.peer.addICECandidate(m.candidateInit()); err != nil {
			log.Error().Err(err).Str("module", "rtc").Msg("add ice candidate")
		}
	case msgPublished:
		kind, err := domain.ParseMediaKind(m.Kind)
		if err != nil || m.UID == "" {
			log.Warn().Str("module", "rtc").Str("uid", m.UID).Str("kind", m.Kind).Msg("bad published message")
			return
		}
		t.emit(l, core.Event{Type: core.EventPublished, UID: domain.ParticipantID(m.UID), Kind: kind})
	case msgUnpublished:
		var kind domain.MediaKind
		if m.Kind != "" {
			k, err := domain.ParseMediaKind(m.Kind)
			if err != nil {
				log.Warn().Str("module", "rtc").Str("kind", m.Kind).Msg("bad unpublished message")
				return
			}
			kind = k
		}
		uid := domain.ParticipantID(m.UID)
		l.dropRemote(uid, kind)
		t.emit(l, core.Event{Type: core.EventUnpublished, UID: uid, Kind: kind})
	case msgPong:
		log.Debug().Str("module", "rtc").Msg("pong")
	default:
		log.Warn().Str("module", "rtc").Str("type", m.Type).Msg("unknown signal")
	}
}

func (t *Transport) onSocketDone(l *link, err error) {
	if l.leaving.Load() {
		return
	}
	if !l.joined.Load() {
		l.resolveJoin(fmt.Errorf("signaling closed: %w", err))
		return
	}
	t.lost(l, fmt.Errorf("signaling closed: %w", err))
}

// lost reports a connection loss once per link, unless it is being left.
func (t *Transport) lost(l *link, cause error) {
	if l.leaving.Load() || !l.joined.Load() {
		return
	}
	l.lostOnce.Do(func() {
		log.Warn().Str("module", "rtc").Str("uid", string(l.uid)).Err(cause).Msg("connection lost")
		close(l.gone)
		t.emit(l, core.Event{Type: core.EventDisconnected, Err: cause})
	})
}

func (t *Transport) Leave(ctx context.Context) error {
	t.mu.Lock()
	l := t.link
	t.link = nil
	t.mu.Unlock()
	if l == nil {
		return nil
	}
	l.leaving.Store(true)
	var err error
	if serr := l.conn.sendJSON(message{Type: msgLeave}); serr != nil {
		err = fmt.Errorf("send leave: %w", serr)
	}
	t.shutdown(ctx, l)
	log.Info().Str("module", "rtc").Str("uid", string(l.uid)).Msg("left channel")
	return err
}

// shutdown flushes and closes the socket, waits for the pumps and closes
// the PeerConnection. ctx bounds the flush.
func (t *Transport) shutdown(ctx context.Context, l *link) {
	l.leaving.Store(true)
	l.cancel()
	l.conn.closeSend()

	done := make(chan struct{})
	go func() {
		l.pumps.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		l.pumpCancel()
		l.conn.Close()
		<-done
	}
	l.pumpCancel()

	l.mu.Lock()
	remotes := slices.Collect(maps.Values(l.remotes))
	clear(l.remotes)
	clear(l.arrived)
	clear(l.senders)
	l.mu.Unlock()
	for _, rt := range remotes {
		rt.stop()
	}
	l.peer.close()
}

func (t *Transport) current() (*link, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.link == nil {
		return nil, ErrNotJoined
	}
	return t.link, nil
}

func (t *Transport) Publish(_ context.Context, tracks []core.LocalTrack) error {
	l, err := t.current()
	if err != nil {
		return err
	}
	infos := make([]trackInfo, 0, len(tracks))
	for _, tr := range tracks {
		p, ok := tr.(TrackLocalProvider)
		if !ok {
			return fmt.Errorf("%s track %s: %w", tr.Kind(), tr.ID(), ErrUnsendable)
		}
		sender, err := l.peer.addTrack(p.TrackLocal())
		if err != nil {
			return fmt.Errorf("add %s track: %w", tr.Kind(), err)
		}
		l.mu.Lock()
		l.senders[tr.ID()] = sender
		l.mu.Unlock()
		infos = append(infos, trackInfo{ID: tr.ID(), Kind: string(tr.Kind())})
	}
	return l.conn.sendJSON(message{Type: msgPublish, Tracks: infos})
}

func (t *Transport) Unpublish(_ context.Context, tracks []core.LocalTrack) error {
	l, err := t.current()
	if err != nil {
		return err
	}
	var errs []error
	infos := make([]trackInfo, 0, len(tracks))
	for _, tr := range tracks {
		l.mu.Lock()
		sender, ok := l.senders[tr.ID()]
		delete(l.senders, tr.ID())
		l.mu.Unlock()
		if !ok {
			continue
		}
		if err := l.peer.removeTrack(sender); err != nil {
			errs = append(errs, fmt.Errorf("remove %s track: %w", tr.Kind(), err))
		}
		infos = append(infos, trackInfo{ID: tr.ID(), Kind: string(tr.Kind())})
	}
	if len(infos) > 0 {
		if err := l.conn.sendJSON(message{Type: msgUnpublish, Tracks: infos}); err != nil {
			errs = append(errs, fmt.Errorf("send unpublish: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Subscribe asks for uid's track of kind and waits until it arrives on the
// PeerConnection. Tracks are matched by stream id (the publisher's uid).
func (t *Transport) Subscribe(ctx context.Context, uid domain.ParticipantID, kind domain.MediaKind) (core.RemoteTrack, error) {
	l, err := t.current()
	if err != nil {
		return nil, err
	}
	key := remoteKey{uid: uid, kind: kind}

	l.mu.Lock()
	if rt, ok := l.remotes[key]; ok {
		l.mu.Unlock()
		return rt, nil
	}
	ch := make(chan *webrtc.TrackRemote, 1)
	tr, early := l.arrived[key]
	if early {
		delete(l.arrived, key)
		ch <- tr
	} else {
		l.waiters[key] = append(l.waiters[key], ch)
	}
	l.mu.Unlock()

	if !early {
		if err := l.conn.sendJSON(message{Type: msgSubscribe, UID: string(uid), Kind: string(kind)}); err != nil {
			l.dropWaiter(key, ch)
			return nil, fmt.Errorf("send subscribe: %w", err)
		}
	}

	select {
	case tr := <-ch:
		rt := newRemoteTrack(tr.ID(), uid, kind, tr)
		l.mu.Lock()
		l.remotes[key] = rt
		l.mu.Unlock()
		rt.start(l.ctx)
		if kind == domain.MediaVideo {
			if err := l.peer.requestKeyframe(tr.SSRC()); err != nil {
				log.Warn().Err(err).Str("module", "rtc").Str("uid", string(uid)).Msg("request keyframe")
			}
		}
		log.Info().Str("module", "rtc").Str("uid", string(uid)).Str("kind", string(kind)).Msg("subscribed")
		return rt, nil
	case <-ctx.Done():
		l.dropWaiter(key, ch)
		return nil, ctx.Err()
	case <-l.ctx.Done():
		l.dropWaiter(key, ch)
		return nil, ErrNotJoined
	case <-l.gone:
		l.dropWaiter(key, ch)
		return nil, ErrLinkLost
	}
}

func (t *Transport) onTrack(l *link, track *webrtc.TrackRemote) {
	kind := mediaKind(track.Kind())
	if kind == "" {
		return
	}
	key := remoteKey{uid: domain.ParticipantID(track.StreamID()), kind: kind}
	l.mu.Lock()
	defer l.mu.Unlock()
	if ws := l.waiters[key]; len(ws) > 0 {
		ws[0] <- track
		l.waiters[key] = ws[1:]
		if len(l.waiters[key]) == 0 {
			delete(l.waiters, key)
		}
		return
	}
	l.arrived[key] = track
}

func (l *link) dropWaiter(key remoteKey, ch chan *webrtc.TrackRemote) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.waiters[key] = slices.DeleteFunc(l.waiters[key], func(c chan *webrtc.TrackRemote) bool { return c == ch })
	if len(l.waiters[key]) == 0 {
		delete(l.waiters, key)
	}
}

// dropRemote stops the remote tracks of uid; an empty kind means all.
func (l *link) dropRemote(uid domain.ParticipantID, kind domain.MediaKind) {
	l.mu.Lock()
	var stopped []*remoteTrack
	for _, k := range domain.MediaKinds {
		if kind != "" && k != kind {
			continue
		}
		key := remoteKey{uid: uid, kind: k}
		if rt, ok := l.remotes[key]; ok {
			stopped = append(stopped, rt)
			delete(l.remotes, key)
		}
		delete(l.arrived, key)
	}
	l.mu.Unlock()
	for _, rt := range stopped {
		rt.stop()
	}
}

// Events subscribes to transport events. Events that arrived since Join
// with no subscriber are delivered first.
func (t *Transport) Events() (<-chan core.Event, func()) {
	t.subsMu.Lock()
	backlog := t.backlog
	t.backlog = nil
	sub := &eventSub{ch: make(chan core.Event, len(backlog)+64), done: make(chan struct{})}
	for _, ev := range backlog {
		sub.ch <- ev
	}
	id := t.nextSub
	t.nextSub++
	t.subs[id] = sub
	t.subsMu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			t.subsMu.Lock()
			delete(t.subs, id)
			t.subsMu.Unlock()
			close(sub.done)
		})
	}
}

func (t *Transport) emit(l *link, ev core.Event) {
	t.subsMu.Lock()
	if len(t.subs) == 0 {
		t.backlog = append(t.backlog, ev)
		t.subsMu.Unlock()
		return
	}
	subs := slices.Collect(maps.Values(t.subs))
	t.subsMu.Unlock()

	for _, s := range subs {
		select {
		case s.ch <- ev:
		case <-s.done:
		case <-l.ctx.Done():
		}
	}
}

func mediaKind(k webrtc.RTPCodecType) domain.MediaKind {
	switch k {
	case webrtc.RTPCodecTypeAudio:
		return domain.MediaAudio
	case webrtc.RTPCodecTypeVideo:
		return domain.MediaVideo
	}
	return ""
}
