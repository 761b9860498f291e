package metric_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aimaster-dev/healthBridge/internal/domain"
	"github.com/aimaster-dev/healthBridge/internal/metric"
)

func TestMetricsExposition(t *testing.T) {
	m := metric.New()
	m.SetConnectionState(domain.Connected)
	m.SetParticipants(3)
	m.JoinResult("ok")
	m.SyncResult("error")
	m.IncrementStreamConnections()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	out := string(body)

	assert.Contains(t, out, `call_connection_state{state="connected"} 1`)
	assert.Contains(t, out, `call_connection_state{state="disconnected"} 0`)
	assert.Contains(t, out, "call_remote_participants 3")
	assert.Contains(t, out, `call_join_results_total{result="ok"} 1`)
	assert.Contains(t, out, `call_track_sync_total{result="error"} 1`)
	assert.Contains(t, out, "state_stream_connections 1")
}

func TestNewIsIndependent(t *testing.T) {
	assert.NotPanics(t, func() {
		metric.New()
		metric.New()
	})
}
