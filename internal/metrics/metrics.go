// Package metrics exposes playback counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "encore"

// Metrics groups the collectors used across playback. A nil *Metrics is a
// valid no-op so components can run without a registry.
type Metrics struct {
	registry *prometheus.Registry

	crossfades      *prometheus.CounterVec
	sessions        *prometheus.CounterVec
	analyticsErrors *prometheus.CounterVec
	playbackErrors  prometheus.Counter
	radioSignal     *prometheus.GaugeVec
	trackSeconds    prometheus.Counter
}

// New creates collectors and registers them on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		crossfades: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "crossfades_total",
			Help:      "Crossfades by outcome (completed, cancelled, failed).",
		}, []string{"outcome"}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "play_sessions_total",
			Help:      "Closed play sessions by emitted record (play, skip, discarded).",
		}, []string{"record"}),
		analyticsErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analytics_errors_total",
			Help:      "Failed analytics submissions by sink.",
		}, []string{"sink"}),
		playbackErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "playback_errors_total",
			Help:      "Tracks or streams that failed to start.",
		}),
		radioSignal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "radio_signal",
			Help:      "1 for the current radio signal state, 0 otherwise.",
		}, []string{"signal"}),
		trackSeconds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listened_seconds_total",
			Help:      "Seconds listened across closed sessions.",
		}),
	}
	reg.MustRegister(
		m.crossfades,
		m.sessions,
		m.analyticsErrors,
		m.playbackErrors,
		m.radioSignal,
		m.trackSeconds,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Crossfade(outcome string) {
	if m == nil {
		return
	}
	m.crossfades.WithLabelValues(outcome).Inc()
}

// Session counts a closed session and the seconds listened.
func (m *Metrics) Session(record string, listenedSeconds float64) {
	if m == nil {
		return
	}
	m.sessions.WithLabelValues(record).Inc()
	if listenedSeconds > 0 {
		m.trackSeconds.Add(listenedSeconds)
	}
}

func (m *Metrics) AnalyticsError(sink string) {
	if m == nil {
		return
	}
	m.analyticsErrors.WithLabelValues(sink).Inc()
}

func (m *Metrics) PlaybackError() {
	if m == nil {
		return
	}
	m.playbackErrors.Inc()
}

// RadioSignal marks signal as the current state.
func (m *Metrics) RadioSignal(signal string) {
	if m == nil {
		return
	}
	for _, s := range []string{"good", "weak", "error"} {
		v := 0.0
		if s == signal {
			v = 1
		}
		m.radioSignal.WithLabelValues(s).Set(v)
	}
}
