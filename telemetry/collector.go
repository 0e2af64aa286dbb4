package telemetry

import (
	"time"

	"github.com/pthm-cable/swarm/engine"
)

// GridState is the engine state sampled at the end of a window.
type GridState struct {
	Mode        string
	TierWidth   int
	Capacity    int
	ActiveCount int
	WindowRows  int
	SimTimeSec  float64
}

// Collector accumulates frames and events within wall-clock windows and
// produces WindowStats.
type Collector struct {
	windowDuration time.Duration

	// Current window tracking
	windowStartFrame int64
	frame            int64
	elapsed          time.Duration
	wall             time.Duration

	fps       []float64
	ticks     int
	rebuilds  int
	fallbacks int
}

// NewCollector creates a collector flushing every windowDuration of frame time.
func NewCollector(windowDuration time.Duration) *Collector {
	if windowDuration <= 0 {
		windowDuration = 10 * time.Second
	}
	return &Collector{windowDuration: windowDuration}
}

// RecordFrame records one rendered frame of duration dt that ran steps ticks.
func (c *Collector) RecordFrame(dt time.Duration, steps int) {
	c.frame++
	c.elapsed += dt
	c.wall += dt
	c.ticks += steps
	if dt > 0 {
		c.fps = append(c.fps, float64(time.Second)/float64(dt))
	}
}

// RecordEvent counts an engine event.
func (c *Collector) RecordEvent(ev engine.Event) {
	switch ev.Kind {
	case engine.ResolutionChanged:
		c.rebuilds++
	case engine.AllocationFallback:
		c.fallbacks++
	}
}

// Frame returns the number of frames recorded so far.
func (c *Collector) Frame() int64 { return c.frame }

// ShouldFlush returns true once the window has covered its duration.
func (c *Collector) ShouldFlush() bool {
	return c.elapsed >= c.windowDuration
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(g GridState) WindowStats {
	fps := SummarizeFPS(c.fps)
	frames := int(c.frame - c.windowStartFrame)

	var stepsPerFrame float64
	if frames > 0 {
		stepsPerFrame = float64(c.ticks) / float64(frames)
	}

	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   c.frame,
		SimTimeSec:       g.SimTimeSec,
		WallTimeSec:      c.wall.Seconds(),

		Frames:  frames,
		FPSMean: fps.Mean,
		FPSP10:  fps.P10,
		FPSP50:  fps.P50,
		FPSP90:  fps.P90,

		Ticks:         c.ticks,
		StepsPerFrame: stepsPerFrame,

		Mode:        g.Mode,
		TierWidth:   g.TierWidth,
		Capacity:    g.Capacity,
		ActiveCount: g.ActiveCount,
		WindowRows:  g.WindowRows,

		Rebuilds:  c.rebuilds,
		Fallbacks: c.fallbacks,
	}

	// Reset for next window
	c.windowStartFrame = c.frame
	c.elapsed = 0
	c.fps = c.fps[:0]
	c.ticks = 0
	c.rebuilds = 0
	c.fallbacks = 0

	return stats
}
