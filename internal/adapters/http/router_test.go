package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/aimaster-dev/healthBridge/internal/app"
	"github.com/aimaster-dev/healthBridge/internal/app/session"
	"github.com/aimaster-dev/healthBridge/internal/config"
	"github.com/aimaster-dev/healthBridge/internal/core"
	"github.com/aimaster-dev/healthBridge/internal/core/mocks"
	"github.com/aimaster-dev/healthBridge/internal/domain"
	"github.com/aimaster-dev/healthBridge/internal/metric"
)

type stubTransport struct {
	mu       sync.Mutex
	joinGate chan struct{}
	joinErr  error
}

func (s *stubTransport) Join(context.Context, string, string, domain.ParticipantID) error {
	s.mu.Lock()
	gate, err := s.joinGate, s.joinErr
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return err
}

func (s *stubTransport) Leave(context.Context) error                        { return nil }
func (s *stubTransport) Publish(context.Context, []core.LocalTrack) error   { return nil }
func (s *stubTransport) Unpublish(context.Context, []core.LocalTrack) error { return nil }
func (s *stubTransport) Subscribe(context.Context, domain.ParticipantID, domain.MediaKind) (core.RemoteTrack, error) {
	return nil, errors.New("no remote media in this test")
}
func (s *stubTransport) Events() (<-chan core.Event, func()) {
	return make(chan core.Event), func() {}
}

type stubTrack struct {
	kind    domain.MediaKind
	device  string
	mu      sync.Mutex
	enabled bool
}

func (t *stubTrack) ID() string             { return string(t.kind) + "/" + t.device }
func (t *stubTrack) Kind() domain.MediaKind { return t.kind }
func (t *stubTrack) DeviceID() string       { return t.device }
func (t *stubTrack) Close() error           { return nil }
func (t *stubTrack) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}
func (t *stubTrack) SetEnabled(v bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = v
}

type stubFactory struct{}

func (stubFactory) CreateTrack(_ context.Context, kind domain.MediaKind, deviceID string) (core.LocalTrack, error) {
	return &stubTrack{kind: kind, device: deviceID, enabled: true}, nil
}

type fixture struct {
	call    *session.Controller
	tr      *stubTransport
	router  *gin.Engine
	metrics *metric.Metrics
}

type snapshotBody struct {
	State     string `json:"state"`
	Channel   string `json:"channel"`
	Self      string `json:"self"`
	LastError string `json:"last_error"`
	Local     struct {
		Audio *domain.LocalTrackInfo `json:"audio"`
	} `json:"local"`
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	src := mocks.NewMockDeviceSource(ctrl)
	src.EXPECT().EnumerateCaptureDevices(gomock.Any()).Return([]domain.Device{
		{ID: "cam-1", Label: "Front", Category: domain.Camera},
		{ID: "mic-1", Label: "Built-in", Category: domain.Microphone},
		{ID: "mic-2", Label: "Headset", Category: domain.Microphone},
	}, nil)

	f := &fixture{tr: &stubTransport{}, metrics: metric.New()}
	f.call = session.New(f.tr, src, stubFactory{}, session.Options{Token: "app-token", Policy: app.CoupledPolicy{}})
	require.NoError(t, f.call.Start(context.Background()))
	t.Cleanup(func() { f.call.Close(context.Background()) })

	if opts.JoinTimeout == 0 {
		opts.JoinTimeout = 2 * time.Second
	}
	opts.Metrics = f.metrics.Handler()
	opts.StreamMetrics = f.metrics
	cfg := &config.Config{Mode: "test", Secret: "test-secret"}
	f.router = SetupRouter(cfg, f.call, opts)
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeSnapshot(t *testing.T, w *httptest.ResponseRecorder) snapshotBody {
	t.Helper()
	var s snapshotBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s), w.Body.String())
	return s
}

func client(id string) *http.Cookie {
	return &http.Cookie{Name: clientTokenCookie, Value: id}
}

func TestState(t *testing.T) {
	f := newFixture(t, Options{})

	w := f.do(t, http.MethodGet, "/api/state", "")

	require.Equal(t, http.StatusOK, w.Code)
	s := decodeSnapshot(t, w)
	assert.Equal(t, "disconnected", s.State)
	assert.Contains(t, w.Body.String(), `"participants":[]`)
	assert.NotEmpty(t, w.Result().Cookies(), "client token cookie is issued")
}

func TestDevices(t *testing.T) {
	f := newFixture(t, Options{})

	w := f.do(t, http.MethodGet, "/api/devices", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body DevicesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Devices.Microphones, 2)
	assert.Equal(t, "mic-1", body.Selected.Microphone)
	assert.Equal(t, "cam-1", body.Selected.Camera)
}

func TestJoin(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		joinErr error
		want    int
		state   string
	}{
		{"given empty channel when join then 400", `{"channel":""}`, nil, http.StatusBadRequest, "disconnected"},
		{"given bad json when join then 400", `{`, nil, http.StatusBadRequest, "disconnected"},
		{"given rejecting transport when join then 502", `{"channel":"ward-7"}`, errors.New("bad token"), http.StatusBadGateway, "disconnected"},
		{"given channel when join then 200 connected", `{"channel":"ward-7","name":"Nurse Joy"}`, nil, http.StatusOK, "connected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{})
			f.tr.joinErr = tt.joinErr

			w := f.do(t, http.MethodPost, "/api/call/join", tt.body)

			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.Equal(t, tt.state, f.call.Snapshot().State.String())
		})
	}
}

func TestJoinWhileActive(t *testing.T) {
	f := newFixture(t, Options{})
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/call/join", `{"channel":"ward-7"}`).Code)

	w := f.do(t, http.MethodPost, "/api/call/join", `{"channel":"ward-8"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ward-7", f.call.Snapshot().Channel)
}

func TestJoinTimeoutLeaves(t *testing.T) {
	f := newFixture(t, Options{JoinTimeout: 50 * time.Millisecond})
	gate := make(chan struct{})
	f.tr.joinGate = gate
	t.Cleanup(func() { close(gate) })

	w := f.do(t, http.MethodPost, "/api/call/join", `{"channel":"ward-7"}`)

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, domain.Disconnected, f.call.Snapshot().State)
}

func TestJoinTimeoutRacingConnectReportsActualState(t *testing.T) {
	f := newFixture(t, Options{JoinTimeout: time.Nanosecond})

	for i := range 20 {
		w := f.do(t, http.MethodPost, "/api/call/join", `{"channel":"ward-7"}`)
		state := f.call.Snapshot().State

		switch w.Code {
		case http.StatusOK:
			assert.Equal(t, domain.Connected, state, "attempt %d: 200 with a call that is not live", i)
			assert.Equal(t, "connected", decodeSnapshot(t, w).State)
		case http.StatusGatewayTimeout:
			assert.Equal(t, domain.Disconnected, state, "attempt %d: 504 while the call is live", i)
		default:
			t.Fatalf("attempt %d: unexpected status %d: %s", i, w.Code, w.Body.String())
		}

		require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/call/leave", "").Code)
		require.Equal(t, domain.Disconnected, f.call.Snapshot().State)
	}
}

func TestJoinRateLimit(t *testing.T) {
	f := newFixture(t, Options{JoinRateLimit: 1, JoinRateWindow: time.Minute})

	first := f.do(t, http.MethodPost, "/api/call/join", `{"channel":""}`, client("c-1"))
	second := f.do(t, http.MethodPost, "/api/call/join", `{"channel":""}`, client("c-1"))
	other := f.do(t, http.MethodPost, "/api/call/join", `{"channel":""}`, client("c-2"))

	assert.Equal(t, http.StatusBadRequest, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, http.StatusBadRequest, other.Code)
}

func TestJoinRemembersName(t *testing.T) {
	f := newFixture(t, Options{})

	w := f.do(t, http.MethodPost, "/api/call/join", `{"channel":"ward-7","name":"Nurse Joy"}`, client("c-1"))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/call/leave", "").Code)

	cookies := append(w.Result().Cookies(), client("c-1"))
	w = f.do(t, http.MethodPost, "/api/call/join", `{"channel":"ward-7"}`, cookies...)
	require.Equal(t, http.StatusOK, w.Code)

	s := decodeSnapshot(t, w)
	assert.True(t, strings.HasPrefix(s.Self, "nurse"), s.Self)
}

func TestLeave(t *testing.T) {
	f := newFixture(t, Options{})
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/call/join", `{"channel":"ward-7"}`).Code)

	w := f.do(t, http.MethodPost, "/api/call/leave", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "disconnected", decodeSnapshot(t, w).State)
}

func TestSelectDevice(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"given known mic when select then 200", "/api/devices/microphone", `{"id":"mic-2"}`, http.StatusOK},
		{"given unknown mic when select then 404", "/api/devices/microphone", `{"id":"mic-9"}`, http.StatusNotFound},
		{"given unknown category when select then 404", "/api/devices/toaster", `{"id":"mic-2"}`, http.StatusNotFound},
		{"given missing id when select then 400", "/api/devices/camera", `{}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{})

			w := f.do(t, http.MethodPut, tt.path, tt.body)

			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestSetEnabled(t *testing.T) {
	f := newFixture(t, Options{})

	w := f.do(t, http.MethodPut, "/api/tracks/audio", `{"enabled":false}`)
	assert.Equal(t, http.StatusConflict, w.Code, "no track before joining")

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/call/join", `{"channel":"ward-7"}`).Code)
	require.Eventually(t, func() bool { return f.call.Snapshot().Local.Audio != nil }, time.Second, 5*time.Millisecond)

	w = f.do(t, http.MethodPut, "/api/tracks/audio", `{"enabled":false}`)
	require.Equal(t, http.StatusOK, w.Code)
	s := decodeSnapshot(t, w)
	require.NotNil(t, s.Local.Audio)
	assert.False(t, s.Local.Audio.Enabled)

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPut, "/api/tracks/audio", `{}`).Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPut, "/api/tracks/smell", `{"enabled":true}`).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, Options{})

	w := f.do(t, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "call_connection_state")
}

func TestStateStream(t *testing.T) {
	f := newFixture(t, Options{})
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/state"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))

	read := func() snapshotBody {
		var s snapshotBody
		_, data, err := ws.ReadMessage()
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, &s))
		return s
	}
	assert.Equal(t, "disconnected", read().State)

	w := f.do(t, http.MethodPost, "/api/call/join", `{"channel":"ward-7"}`)
	require.Equal(t, http.StatusOK, w.Code)

	for {
		s := read()
		if s.State == "connected" {
			assert.Equal(t, "ward-7", s.Channel)
			break
		}
	}
	assert.Eventually(t, func() bool {
		rec := f.do(t, http.MethodGet, "/metrics", "")
		return strings.Contains(rec.Body.String(), "state_stream_connections 1")
	}, time.Second, 10*time.Millisecond)
}
