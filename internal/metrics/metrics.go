package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the attention server.
type Metrics struct {
	registry             *prometheus.Registry
	activeSessions       prometheus.Gauge
	participantsJoined   prometheus.Counter
	primarySwitchesTotal prometheus.Counter
	qualityRequestsTotal prometheus.Counter
	autoDisconnectsTotal prometheus.Counter
}

// New creates and registers Prometheus metrics for the server.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	activeSessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "stage_active_sessions",
		Help: "Number of sessions currently running",
	})
	participantsJoined := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stage_participants_joined_total",
		Help: "Total number of participants that joined a session",
	})
	primarySwitches := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stage_primary_switches_total",
		Help: "Total number of committed primary-participant switches",
	})
	qualityRequests := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stage_quality_requests_total",
		Help: "Total number of video quality tier requests issued",
	})
	autoDisconnects := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stage_auto_disconnects_total",
		Help: "Total number of sessions torn down by the alone timeout",
	})

	registry.MustRegister(
		activeSessions,
		participantsJoined,
		primarySwitches,
		qualityRequests,
		autoDisconnects,
	)

	return &Metrics{
		registry:             registry,
		activeSessions:       activeSessions,
		participantsJoined:   participantsJoined,
		primarySwitchesTotal: primarySwitches,
		qualityRequestsTotal: qualityRequests,
		autoDisconnectsTotal: autoDisconnects,
	}
}

// SetActiveSessions sets the running sessions gauge.
func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}

// IncParticipantsJoined increments the joined participants counter.
func (m *Metrics) IncParticipantsJoined() {
	if m == nil {
		return
	}
	m.participantsJoined.Inc()
}

// IncPrimarySwitches increments the committed switch counter.
func (m *Metrics) IncPrimarySwitches() {
	if m == nil {
		return
	}
	m.primarySwitchesTotal.Inc()
}

// IncQualityRequests increments the quality request counter.
func (m *Metrics) IncQualityRequests() {
	if m == nil {
		return
	}
	m.qualityRequestsTotal.Inc()
}

// IncAutoDisconnects increments the alone-timeout teardown counter.
func (m *Metrics) IncAutoDisconnects() {
	if m == nil {
		return
	}
	m.autoDisconnectsTotal.Inc()
}

// Handler returns an http.Handler that serves the metrics registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
