package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.Crossfade("completed")
	m.Crossfade("completed")
	m.Crossfade("cancelled")
	m.Session("play", 120)
	m.Session("skip", 15)
	m.AnalyticsError("backend")
	m.PlaybackError()

	assert.InDelta(t, 2.0, testutil.ToFloat64(m.crossfades.WithLabelValues("completed")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.crossfades.WithLabelValues("cancelled")), 1e-9)
	assert.InDelta(t, 135.0, testutil.ToFloat64(m.trackSeconds), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.analyticsErrors.WithLabelValues("backend")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.playbackErrors), 1e-9)
}

func TestRadioSignalIsExclusive(t *testing.T) {
	m := New()

	m.RadioSignal("good")
	m.RadioSignal("weak")

	assert.InDelta(t, 0.0, testutil.ToFloat64(m.radioSignal.WithLabelValues("good")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.radioSignal.WithLabelValues("weak")), 1e-9)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Crossfade("completed")
		m.Session("play", 1)
		m.AnalyticsError("x")
		m.PlaybackError()
		m.RadioSignal("good")
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.PlaybackError()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "encore_playback_errors_total 1"))
}
