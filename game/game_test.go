package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/swarm/compute"
	"github.com/pthm-cable/swarm/config"
	"github.com/pthm-cable/swarm/resolution"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	cfg.Simulation.Mode = "static"
	cfg.Simulation.StaticWidth = 64
	cfg.Simulation.InitialCount = 1000
	cfg.Screen.RefreshRate = 60
	cfg.Device.Workers = 2
	return cfg
}

func newHeadless(t *testing.T, cfg *config.Config, opts Options) *Game {
	t.Helper()
	opts.Headless = true
	g, err := NewGame(cfg, opts)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func TestHeadlessRunsSteps(t *testing.T) {
	g := newHeadless(t, testConfig(t), Options{Seed: 1})

	for i := 0; i < 10; i++ {
		if err := g.UpdateHeadless(); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
	if g.Tick() < 5 {
		t.Errorf("ticks after 10 frames = %d, want at least 5", g.Tick())
	}
	if got := g.Engine().ActiveCount(); got != 1000 {
		t.Errorf("active = %d, want 1000", got)
	}
	if got := g.Engine().Width(); got != 64 {
		t.Errorf("width = %d, want 64", got)
	}
}

func TestPauseStopsTicks(t *testing.T) {
	g := newHeadless(t, testConfig(t), Options{})
	g.TogglePause()
	for i := 0; i < 5; i++ {
		if err := g.UpdateHeadless(); err != nil {
			t.Fatal(err)
		}
	}
	if g.Tick() != 0 {
		t.Errorf("paused game ran %d ticks", g.Tick())
	}
}

func TestCapabilityErrorIsFatal(t *testing.T) {
	cfg := testConfig(t)
	cfg.Device.FloatSurfaces = false

	_, err := NewGame(cfg, Options{Headless: true})
	var capErr *compute.CapabilityError
	if !errors.As(err, &capErr) {
		t.Fatalf("err = %v, want CapabilityError", err)
	}
	if capErr.Reason != "no float surface support" {
		t.Errorf("reason = %q", capErr.Reason)
	}
}

func TestShapePersistsAcrossSessions(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t)

	g := newHeadless(t, cfg, Options{StateDir: dir})
	next := g.Shape().Next()
	g.SetShape(next)

	hint, err := resolution.NewHintStore(dir).Load()
	if err != nil {
		t.Fatal(err)
	}
	if hint.Shape != next.String() {
		t.Fatalf("saved shape = %q, want %q", hint.Shape, next)
	}

	g2 := newHeadless(t, testConfig(t), Options{StateDir: dir})
	if g2.Shape() != next {
		t.Errorf("restored shape = %v, want %v", g2.Shape(), next)
	}
}

func TestOutputAndSnapshot(t *testing.T) {
	out := t.TempDir()
	snaps := t.TempDir()
	cfg := testConfig(t)
	cfg.Telemetry.LogIntervalSec = 0.05

	g := newHeadless(t, cfg, Options{OutputDir: out, SnapshotDir: snaps})
	for i := 0; i < 10; i++ {
		if err := g.UpdateHeadless(); err != nil {
			t.Fatal(err)
		}
	}
	g.saveBufferSnapshot()

	for _, name := range []string{"config.yaml", "telemetry.csv", "perf.csv", "tiers.csv"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	matches, _ := filepath.Glob(filepath.Join(snaps, "buffers_*.json"))
	if len(matches) != 1 {
		t.Errorf("snapshots = %v, want one file", matches)
	}
}

func TestReloadAppliesTunables(t *testing.T) {
	g := newHeadless(t, testConfig(t), Options{})

	c := testConfig(t)
	c.Forces.Spring = 0.2
	c.Audio.Sensitivity = 3
	c.Simulation.TimeScale = 2
	g.reloads <- c

	if err := g.UpdateHeadless(); err != nil {
		t.Fatal(err)
	}
	if got := g.field.Params().Spring; got != 0.2 {
		t.Errorf("spring = %v, want 0.2", got)
	}
	if got := g.analyzer.Params().Sensitivity; got != 3 {
		t.Errorf("sensitivity = %v, want 3", got)
	}
	if got := g.engine.Clock().TimeScale(); got != 2 {
		t.Errorf("time scale = %v, want 2", got)
	}
}

func TestToneSourceFeedsAnalyzer(t *testing.T) {
	cfg := testConfig(t)
	cfg.Audio.Enabled = true

	g := newHeadless(t, cfg, Options{})
	for i := 0; i < 60; i++ {
		if err := g.UpdateHeadless(); err != nil {
			t.Fatal(err)
		}
	}
	if g.analyzer.Level() <= 0 {
		t.Errorf("sound level = %v, want > 0 with the tone playing", g.analyzer.Level())
	}
}
