package telemetry

import (
	"testing"
	"time"

	"github.com/pthm-cable/swarm/systems"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate a few frames
	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(systems.PhaseInput)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(systems.PhaseCompute)
		time.Sleep(200 * time.Microsecond)
		pc.AddTicks(2)
		pc.EndFrame()
	}

	stats := pc.Stats()

	if stats.AvgFrameDuration <= 0 {
		t.Error("expected positive average frame duration")
	}
	if stats.MinFrameDuration > stats.MaxFrameDuration {
		t.Errorf("min %v > max %v", stats.MinFrameDuration, stats.MaxFrameDuration)
	}

	if _, ok := stats.PhaseAvg[systems.PhaseInput]; !ok {
		t.Error("expected input phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[systems.PhaseCompute]; !ok {
		t.Error("expected compute phase to be tracked")
	}

	if stats.TicksPerFrame != 2 {
		t.Errorf("ticks per frame = %v, want 2", stats.TicksPerFrame)
	}
	if stats.AvgTickCost <= 0 {
		t.Error("expected positive tick cost")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5) // Small window

	for i := 0; i < 10; i++ {
		pc.StartFrame()
		pc.StartPhase(systems.PhaseCompute)
		pc.AddTicks(i)
		pc.EndFrame()
	}

	stats := pc.Stats()

	// Only the last five frames (ticks 5..9) remain
	if stats.TicksPerFrame != 7 {
		t.Errorf("ticks per frame = %v, want 7", stats.TicksPerFrame)
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate with uneven phase durations
	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(100 * time.Microsecond)
		pc.EndFrame()
	}

	stats := pc.Stats()

	fastPct := stats.PhasePct["fast"]
	slowPct := stats.PhasePct["slow"]

	// Slow phase should take more % than fast
	if slowPct <= fastPct {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", slowPct, fastPct)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgFrameDuration != 0 {
		t.Error("expected zero avg frame duration for empty collector")
	}
	if stats.AvgTickCost != 0 {
		t.Error("expected zero tick cost for empty collector")
	}

	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}

	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfCollector_FrameInterval(t *testing.T) {
	pc := NewPerfCollector(10)

	// First call establishes baseline
	pc.StartFrame()
	pc.EndFrame()
	time.Sleep(16 * time.Millisecond) // ~60fps frame time
	// Second call measures the interval
	pc.StartFrame()
	pc.EndFrame()

	stats := pc.Stats()

	if stats.FrameInterval < 15*time.Millisecond {
		t.Errorf("expected frame interval >= 15ms, got %v", stats.FrameInterval)
	}

	if stats.FPS <= 0 {
		t.Error("expected positive FPS")
	}

	// With 16ms frames, FPS can't exceed ~62
	if stats.FPS > 65 {
		t.Errorf("expected FPS <= 65 with 16ms frame time, got %v", stats.FPS)
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	s := PerfStats{
		AvgFrameDuration: 2 * time.Millisecond,
		PhasePct: map[string]float64{
			systems.PhaseCompute: 60,
			systems.PhaseRender:  30,
		},
		TicksPerFrame: 3,
		FPS:           60,
	}

	row := s.ToCSV(120)

	if row.WindowEnd != 120 || row.AvgFrameUS != 2000 {
		t.Errorf("window_end=%d avg_frame_us=%d", row.WindowEnd, row.AvgFrameUS)
	}
	if row.ComputePct != 60 || row.RenderPct != 30 || row.AudioPct != 0 {
		t.Errorf("compute=%v render=%v audio=%v", row.ComputePct, row.RenderPct, row.AudioPct)
	}
}
