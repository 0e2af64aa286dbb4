package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pthm-cable/swarm/engine"
)

// Metrics exposes live simulation gauges and counters on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	FPS         prometheus.Gauge
	TierWidth   prometheus.Gauge
	Capacity    prometheus.Gauge
	ActiveCount prometheus.Gauge
	SoundLevel  prometheus.Gauge
	Ticks       prometheus.Counter
	Events      *prometheus.CounterVec
	FrameTime   prometheus.Histogram
}

// NewMetrics creates and registers the simulation metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FPS: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "swarm_fps",
			Help: "Mean frames per second over the last telemetry window",
		}),
		TierWidth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "swarm_tier_width",
			Help: "Width of the particle grid",
		}),
		Capacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "swarm_capacity",
			Help: "Particle slots in the grid",
		}),
		ActiveCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "swarm_active_particles",
			Help: "Particles simulated each step",
		}),
		SoundLevel: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "swarm_sound_level",
			Help: "Smoothed audio level",
		}),
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "swarm_ticks_total",
			Help: "Fixed physics steps run",
		}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "swarm_grid_events_total",
			Help: "Grid rebuild events by kind",
		}, []string{"kind"}),
		FrameTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "swarm_frame_seconds",
			Help:    "Frame time in seconds",
			Buckets: []float64{0.004, 0.008, 0.012, 0.017, 0.025, 0.033, 0.05, 0.1},
		}),
	}
	m.registry.MustRegister(
		m.FPS, m.TierWidth, m.Capacity, m.ActiveCount, m.SoundLevel,
		m.Ticks, m.Events, m.FrameTime,
	)
	return m
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveFrame records one frame's duration and the steps it ran.
func (m *Metrics) ObserveFrame(dt time.Duration, steps int) {
	if m == nil {
		return
	}
	m.FrameTime.Observe(dt.Seconds())
	if steps > 0 {
		m.Ticks.Add(float64(steps))
	}
}

// ObserveEvent counts a grid event.
func (m *Metrics) ObserveEvent(ev engine.Event) {
	if m == nil {
		return
	}
	m.Events.WithLabelValues(ev.Kind.String()).Inc()
}

// ObserveWindow updates the gauges from a flushed telemetry window.
func (m *Metrics) ObserveWindow(s WindowStats) {
	if m == nil {
		return
	}
	m.FPS.Set(s.FPSMean)
	m.TierWidth.Set(float64(s.TierWidth))
	m.Capacity.Set(float64(s.Capacity))
	m.ActiveCount.Set(float64(s.ActiveCount))
}

// ObserveSound records the smoothed audio level.
func (m *Metrics) ObserveSound(level float64) {
	if m == nil {
		return
	}
	m.SoundLevel.Set(level)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("metrics endpoint listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics shutdown: %w", err)
		}
		return nil
	}
}
