package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/swarm/engine"
	"github.com/pthm-cable/swarm/telemetry"
)

// handleEvents records engine events and refreshes what depends on the grid
// size.
func (g *Game) handleEvents(events []engine.Event) {
	for _, ev := range events {
		g.collector.RecordEvent(ev)
		g.metrics.ObserveEvent(ev)

		te := telemetry.NewTierEvent(g.collector.Frame(), float64(g.engine.SimTime()), ev, g.engine.ActiveCount(), g.currentFPS())
		if err := g.output.WriteTierEvent(te); err != nil {
			slog.Error("failed to write tier event", "error", err)
		}

		switch ev.Kind {
		case engine.ResolutionChanged:
			g.setNotice(fmt.Sprintf("Grid %dx%d", ev.NewWidth, ev.NewWidth))
		case engine.AllocationFallback:
			slog.Warn("allocation fallback", "width", ev.OldWidth, "fallback", ev.NewWidth, "error", ev.Err)
		}
	}
}

// recordFrame feeds the frame to the collector and metrics and flushes a
// finished window.
func (g *Game) recordFrame() {
	g.collector.RecordFrame(g.lastDT, g.lastSteps)
	g.metrics.ObserveFrame(g.lastDT, g.lastSteps)
	g.metrics.ObserveSound(g.analyzer.Level())
	g.flushTelemetry()
}

// flushTelemetry checks if the stats window should be flushed.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush() {
		return
	}

	stats := g.collector.Flush(telemetry.GridState{
		Mode:        string(g.engine.Mode()),
		TierWidth:   g.engine.Width(),
		Capacity:    g.engine.Capacity(),
		ActiveCount: g.engine.ActiveCount(),
		WindowRows:  g.engine.Window().Height,
		SimTimeSec:  float64(g.engine.SimTime()),
	})
	perfStats := g.perf.Stats()
	g.metrics.ObserveWindow(stats)

	// Log stats if enabled (console output)
	if g.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if err := g.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.output.WritePerf(perfStats, stats.WindowEndFrame); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

func (g *Game) currentFPS() float64 {
	if g.lastDT <= 0 {
		return 0
	}
	return 1 / g.lastDT.Seconds()
}

// saveBufferSnapshot writes the active particle buffers to the snapshot dir.
func (g *Game) saveBufferSnapshot() {
	if g.opts.SnapshotDir == "" {
		g.setNotice("Snapshots disabled (-snapshot-dir)")
		return
	}
	snap, err := telemetry.BufferSnapshotFromEngine(g.engine, g.posVar, g.velVar)
	if err != nil {
		slog.Error("failed to capture snapshot", "error", err)
		return
	}
	path, err := telemetry.SaveBufferSnapshot(snap, g.opts.SnapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", g.engine.Ticks(), "active", snap.Active)
	g.setNotice("Snapshot saved")
}
