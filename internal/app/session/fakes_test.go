package session_test

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/aimaster-dev/healthBridge/internal/app"
	"github.com/aimaster-dev/healthBridge/internal/app/session"
	"github.com/aimaster-dev/healthBridge/internal/core"
	"github.com/aimaster-dev/healthBridge/internal/core/mocks"
	"github.com/aimaster-dev/healthBridge/internal/domain"
)

type fakeTransport struct {
	mu           sync.Mutex
	calls        []string
	joinGate     chan struct{}
	joinErr      error
	leaveGate    chan struct{}
	subGate      chan struct{}
	subscribeErr error
	events       chan core.Event
	playback     []string
}

func (f *fakeTransport) record(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeTransport) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

func (f *fakeTransport) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *fakeTransport) Count(call string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeTransport) Join(_ context.Context, channel, token string, uid domain.ParticipantID) error {
	f.mu.Lock()
	gate := f.joinGate
	f.joinGate = nil
	err := f.joinErr
	f.mu.Unlock()
	f.record("join %s %s", channel, token)
	// A gated join ignores ctx, like a transport that cannot abort mid-flight.
	if gate != nil {
		<-gate
	}
	return err
}

func (f *fakeTransport) Leave(context.Context) error {
	f.mu.Lock()
	gate := f.leaveGate
	f.leaveGate = nil
	f.mu.Unlock()
	f.record("leave")
	if gate != nil {
		<-gate
	}
	return nil
}

func (f *fakeTransport) Publish(_ context.Context, ts []core.LocalTrack) error {
	for _, t := range ts {
		f.record("publish %s %s", t.Kind(), t.DeviceID())
	}
	return nil
}

func (f *fakeTransport) Unpublish(_ context.Context, ts []core.LocalTrack) error {
	for _, t := range ts {
		f.record("unpublish %s %s", t.Kind(), t.DeviceID())
	}
	return nil
}

func (f *fakeTransport) Subscribe(_ context.Context, uid domain.ParticipantID, kind domain.MediaKind) (core.RemoteTrack, error) {
	f.mu.Lock()
	gate, err := f.subGate, f.subscribeErr
	f.mu.Unlock()
	f.record("subscribe %s %s", uid, kind)
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return &fakeRemote{uid: uid, kind: kind}, nil
}

func (f *fakeTransport) Events() (<-chan core.Event, func()) {
	f.record("events")
	ch := make(chan core.Event, 16)
	f.mu.Lock()
	f.events = ch
	f.mu.Unlock()
	return ch, func() { f.record("events-cancel") }
}

func (f *fakeTransport) SetPlaybackDevice(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playback = append(f.playback, id)
	return nil
}

func (f *fakeTransport) emit(ev core.Event) {
	f.mu.Lock()
	ch := f.events
	f.mu.Unlock()
	ch <- ev
}

type fakeRemote struct {
	uid  domain.ParticipantID
	kind domain.MediaKind
}

func (r *fakeRemote) ID() string                          { return string(r.uid) + "/" + string(r.kind) }
func (r *fakeRemote) Kind() domain.MediaKind              { return r.kind }
func (r *fakeRemote) ParticipantID() domain.ParticipantID { return r.uid }
func (r *fakeRemote) Attach(core.RTPSink) func()          { return func() {} }

type fakeLocal struct {
	f       *fakeFactory
	kind    domain.MediaKind
	device  string
	mu      sync.Mutex
	enabled bool
}

func (t *fakeLocal) ID() string             { return string(t.kind) + "/" + t.device }
func (t *fakeLocal) Kind() domain.MediaKind { return t.kind }
func (t *fakeLocal) DeviceID() string       { return t.device }

func (t *fakeLocal) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

func (t *fakeLocal) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
}

func (t *fakeLocal) Close() error {
	t.f.record("close %s %s", t.kind, t.device)
	return nil
}

type fakeFactory struct {
	mu    sync.Mutex
	calls []string
	fail  error
	// gate holds CreateTrack until closed or ctx ends.
	gate chan struct{}
}

func (f *fakeFactory) record(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeFactory) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

func (f *fakeFactory) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *fakeFactory) CreateTrack(ctx context.Context, kind domain.MediaKind, deviceID string) (core.LocalTrack, error) {
	f.mu.Lock()
	err, gate := f.fail, f.gate
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if gate != nil {
		f.record("wait %s %s", kind, deviceID)
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.record("create %s %s", kind, deviceID)
	return &fakeLocal{f: f, kind: kind, device: deviceID, enabled: true}, nil
}

type fakeMetrics struct {
	mu    sync.Mutex
	joins []string
	syncs []string
}

func (m *fakeMetrics) SetConnectionState(domain.ConnectionState) {}
func (m *fakeMetrics) SetParticipants(int)                       {}

func (m *fakeMetrics) JoinResult(r string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.joins = append(m.joins, r)
}

func (m *fakeMetrics) SyncResult(r string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncs = append(m.syncs, r)
}

func (m *fakeMetrics) Joins() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.joins)
}

type callbackLog struct {
	mu        sync.Mutex
	connected int
	aborts    []error
	added     []string
	removed   []string
}

func (l *callbackLog) callbacks() session.Callbacks {
	return session.Callbacks{
		OnConnected: func(string, domain.ParticipantID) {
			l.mu.Lock()
			defer l.mu.Unlock()
			l.connected++
		},
		OnAbort: func(err error) {
			l.mu.Lock()
			defer l.mu.Unlock()
			l.aborts = append(l.aborts, err)
		},
		OnRemoteTrack: func(uid domain.ParticipantID, kind domain.MediaKind, _ core.RemoteTrack) {
			l.mu.Lock()
			defer l.mu.Unlock()
			l.added = append(l.added, string(uid)+"/"+string(kind))
		},
		OnRemoteTrackRemoved: func(uid domain.ParticipantID, kind domain.MediaKind) {
			l.mu.Lock()
			defer l.mu.Unlock()
			l.removed = append(l.removed, string(uid)+"/"+string(kind))
		},
	}
}

func (l *callbackLog) Connected() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.connected
}

func (l *callbackLog) Aborts() []error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.aborts)
}

func (l *callbackLog) Added() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.added)
}

func (l *callbackLog) Removed() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.removed)
}

type harness struct {
	c       *session.Controller
	tr      *fakeTransport
	factory *fakeFactory
	cb      *callbackLog
	metrics *fakeMetrics
}

var capture = []domain.Device{
	{ID: "cam-1", Label: "Front", Category: domain.Camera},
	{ID: "mic-1", Label: "Built-in", Category: domain.Microphone},
	{ID: "mic-2", Label: "Headset", Category: domain.Microphone},
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	src := mocks.NewMockDeviceSource(ctrl)
	src.EXPECT().EnumerateCaptureDevices(gomock.Any()).Return(capture, nil)

	h := &harness{
		tr:      &fakeTransport{},
		factory: &fakeFactory{},
		cb:      &callbackLog{},
		metrics: &fakeMetrics{},
	}
	h.c = session.New(h.tr, src, h.factory, session.Options{
		Token:     "app-token",
		Policy:    app.CoupledPolicy{},
		Callbacks: h.cb.callbacks(),
		Metrics:   h.metrics,
	})
	require.NoError(t, h.c.Start(context.Background()))
	t.Cleanup(func() { h.c.Close(context.Background()) })
	return h
}
