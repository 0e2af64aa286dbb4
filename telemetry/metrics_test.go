package telemetry

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/pthm-cable/swarm/engine"
)

func TestMetricsObserve(t *testing.T) {
	m := NewMetrics()

	m.ObserveFrame(16*time.Millisecond, 2)
	m.ObserveFrame(16*time.Millisecond, 1)
	m.ObserveEvent(engine.Event{Kind: engine.ResolutionChanged})
	m.ObserveEvent(engine.Event{Kind: engine.ResolutionChanged})
	m.ObserveEvent(engine.Event{Kind: engine.AllocationFallback})
	m.ObserveWindow(WindowStats{FPSMean: 59.5, TierWidth: 256, Capacity: 65536, ActiveCount: 40000})
	m.ObserveSound(0.25)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"ticks", testutil.ToFloat64(m.Ticks), 3},
		{"resolution changes", testutil.ToFloat64(m.Events.WithLabelValues("resolution_changed")), 2},
		{"fallbacks", testutil.ToFloat64(m.Events.WithLabelValues("allocation_fallback")), 1},
		{"fps", testutil.ToFloat64(m.FPS), 59.5},
		{"tier width", testutil.ToFloat64(m.TierWidth), 256},
		{"capacity", testutil.ToFloat64(m.Capacity), 65536},
		{"active", testutil.ToFloat64(m.ActiveCount), 40000},
		{"sound", testutil.ToFloat64(m.SoundLevel), 0.25},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveFrame(time.Millisecond, 1)
	m.ObserveEvent(engine.Event{})
	m.ObserveWindow(WindowStats{})
	m.ObserveSound(1)
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.ObserveWindow(WindowStats{TierWidth: 128})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "swarm_tier_width 128") {
		t.Errorf("exposition missing tier width:\n%s", body)
	}
}
