// Package metric provides Prometheus metrics for the call agent.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aimaster-dev/healthBridge/internal/domain"
)

var states = []domain.ConnectionState{
	domain.Disconnected,
	domain.Connecting,
	domain.Connected,
	domain.Leaving,
}

// Metrics holds the registered call metrics.
type Metrics struct {
	registry          *prometheus.Registry
	connectionState   *prometheus.GaugeVec
	participants      prometheus.Gauge
	joinResults       *prometheus.CounterVec
	syncResults       *prometheus.CounterVec
	streamConnections prometheus.Gauge
}

// New creates the metrics on a private registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		connectionState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "call_connection_state",
			Help: "1 for the current call connection state, 0 otherwise.",
		}, []string{"state"}),
		participants: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "call_remote_participants",
			Help: "Current number of remote participants.",
		}),
		joinResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "call_join_results_total",
			Help: "Join attempts by outcome.",
		}, []string{"result"}), // ok, failed, cancelled
		syncResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "call_track_sync_total",
			Help: "Local track syncs by outcome.",
		}, []string{"result"}),
		streamConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "state_stream_connections",
			Help: "Current number of WebSocket state stream subscribers.",
		}),
	}
	m.registry.MustRegister(
		m.connectionState,
		m.participants,
		m.joinResults,
		m.syncResults,
		m.streamConnections,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.SetConnectionState(domain.Disconnected)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) SetConnectionState(state domain.ConnectionState) {
	for _, s := range states {
		v := 0.0
		if s == state {
			v = 1
		}
		m.connectionState.WithLabelValues(s.String()).Set(v)
	}
}

func (m *Metrics) SetParticipants(n int) {
	m.participants.Set(float64(n))
}

func (m *Metrics) JoinResult(result string) {
	m.joinResults.WithLabelValues(result).Inc()
}

func (m *Metrics) SyncResult(result string) {
	m.syncResults.WithLabelValues(result).Inc()
}

// IncrementStreamConnections increments the state stream subscriber count.
func (m *Metrics) IncrementStreamConnections() {
	m.streamConnections.Inc()
}

// DecrementStreamConnections decrements the state stream subscriber count.
func (m *Metrics) DecrementStreamConnections() {
	m.streamConnections.Dec()
}
