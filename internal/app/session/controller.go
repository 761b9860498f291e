// Package session drives one live call at a time: join and leave, local
// track sync, and remote participant discovery.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"

	"github.com/aimaster-dev/healthBridge/internal/app"
	"github.com/aimaster-dev/healthBridge/internal/app/devices"
	"github.com/aimaster-dev/healthBridge/internal/app/tracks"
	"github.com/aimaster-dev/healthBridge/internal/core"
	"github.com/aimaster-dev/healthBridge/internal/domain"
)

// Callbacks are invoked without the controller lock held. Any may be nil.
// The remote track callbacks run on goroutines owned by the session and
// must not call Leave synchronously.
type Callbacks struct {
	OnConnected          func(channel string, self domain.ParticipantID)
	OnAbort              func(err error)
	OnRemoteTrack        func(uid domain.ParticipantID, kind domain.MediaKind, track core.RemoteTrack)
	OnRemoteTrackRemoved func(uid domain.ParticipantID, kind domain.MediaKind)
}

// Metrics receives call state changes.
type Metrics interface {
	SetConnectionState(state domain.ConnectionState)
	SetParticipants(n int)
	JoinResult(result string)
	SyncResult(result string)
}

type Options struct {
	// Token is passed to Transport.Join untouched.
	Token     string
	Policy    app.PublishPolicy
	Callbacks Callbacks
	Metrics   Metrics
}

type Controller struct {
	transport core.Transport
	catalog   *devices.Catalog
	tracks    *tracks.Set
	registry  *app.Registry
	hub       *app.StateHub
	token     string
	cb        Callbacks
	metrics   Metrics

	// wg tracks join continuations.
	wg conc.WaitGroup

	mu      sync.Mutex
	state   domain.ConnectionState
	sess    *session
	lastErr error
	// lastJoin is closed when the most recent join continuation returns.
	lastJoin <-chan struct{}

	pubMu sync.Mutex
}

// session is one join attempt. ctx is its cancellation token.
type session struct {
	channel string
	self    domain.ParticipantID
	ctx     context.Context
	cancel  context.CancelFunc

	joinDone chan struct{}
	loop     conc.WaitGroup
	// left is closed once teardown finishes and the session is gone.
	left chan struct{}

	// guarded by Controller.mu
	connected  bool
	leaving    bool
	stopEvents func()
}

func New(transport core.Transport, source core.DeviceSource, factory core.TrackFactory, opts Options) *Controller {
	policy := opts.Policy
	if policy == nil {
		policy = app.CoupledPolicy{}
	}
	return &Controller{
		transport: transport,
		catalog:   devices.NewCatalog(source),
		tracks:    tracks.NewSet(factory, transport, policy),
		registry:  app.NewRegistry(),
		hub:       app.NewStateHub(),
		token:     opts.Token,
		cb:        opts.Callbacks,
		metrics:   opts.Metrics,
	}
}

// Start runs the one-time device enumeration.
func (c *Controller) Start(ctx context.Context) error {
	_, err := c.catalog.Refresh(ctx)
	c.publish()
	return err
}

// Close leaves any session and waits for background work to finish.
func (c *Controller) Close(ctx context.Context) {
	c.Leave(ctx)
	c.wg.Wait()
	log.Info().Str("module", "app.session").Msg("controller closed")
}

func (c *Controller) Devices() (domain.DeviceList, domain.Selections) {
	return c.catalog.List(), c.catalog.Selections()
}

func (c *Controller) Snapshot() app.Snapshot {
	c.mu.Lock()
	snap := app.Snapshot{State: c.state, LastError: c.lastErr}
	if c.sess != nil {
		snap.Channel = c.sess.channel
		snap.Self = c.sess.self
	}
	c.mu.Unlock()
	snap.Local = c.tracks.State()
	snap.Participants = c.registry.Snapshot()
	return snap
}

// Subscribe streams snapshots, latest first.
func (c *Controller) Subscribe() (<-chan app.Snapshot, func()) {
	return c.hub.Subscribe()
}

// RemoteTrack returns the subscribed handle of uid's kind, for binding a
// render target.
func (c *Controller) RemoteTrack(uid domain.ParticipantID, kind domain.MediaKind) (core.RemoteTrack, bool) {
	return c.registry.Track(uid, kind)
}

// publish recomputes the snapshot and pushes it out. Serialized so the
// last published snapshot is never older than the current state.
func (c *Controller) publish() {
	c.pubMu.Lock()
	defer c.pubMu.Unlock()
	snap := c.Snapshot()
	c.hub.Publish(snap)
	if c.metrics != nil {
		c.metrics.SetConnectionState(snap.State)
		c.metrics.SetParticipants(len(snap.Participants))
	}
}

func (c *Controller) setLastErr(s *session, err error) {
	c.mu.Lock()
	if c.sess == s {
		c.lastErr = err
	}
	c.mu.Unlock()
}

func (c *Controller) abort(err error) {
	if c.cb.OnAbort != nil {
		c.cb.OnAbort(err)
	}
}
