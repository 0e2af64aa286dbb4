// Package game hosts the particle engine in a raylib window or a headless
// loop: it turns input and audio into force uniforms, reports frame times to
// the engine, draws the active particles and records telemetry.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/swarm/audio"
	"github.com/pthm-cable/swarm/camera"
	"github.com/pthm-cable/swarm/compute"
	"github.com/pthm-cable/swarm/config"
	"github.com/pthm-cable/swarm/engine"
	"github.com/pthm-cable/swarm/forces"
	"github.com/pthm-cable/swarm/inspector"
	"github.com/pthm-cable/swarm/renderer"
	"github.com/pthm-cable/swarm/resolution"
	"github.com/pthm-cable/swarm/systems"
	"github.com/pthm-cable/swarm/telemetry"
	"github.com/pthm-cable/swarm/ui"
)

// Options configure a Game beyond the loaded config.
type Options struct {
	Seed        int64
	Headless    bool
	LogStats    bool
	ConfigPath  string // watched for tunable changes when set
	OutputDir   string // CSV logs and config copy, "" = disabled
	SnapshotDir string // buffer snapshots, "" = disabled
	StateDir    string // overrides resolution.state_dir
	MetricsAddr string // overrides telemetry.metrics_addr
}

// Game holds the complete application state.
type Game struct {
	cfg  *config.Config
	opts Options
	ctx  context.Context
	stop context.CancelFunc

	engine *engine.Engine
	field  *forces.Field
	velVar engine.Var
	posVar engine.Var

	world       *ecs.World
	interaction *systems.Interaction
	analyzer    *audio.Analyzer
	source      audioSource
	bands       forces.Bands

	camera *camera.Camera
	points *renderer.PointRenderer
	bloom  *renderer.Bloom

	overlays  *ui.OverlayRegistry
	hud       *ui.HUD
	controls  *ui.ControlsPanel
	status    *ui.StatusPanel
	perfPanel *ui.PerfPanel
	inspector *inspector.Inspector
	registry  *systems.SystemRegistry

	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	metrics   *telemetry.Metrics

	hints   *resolution.HintStore
	reloads chan *config.Config

	settings  ui.Settings
	requested int // particle count asked for, the engine may clamp it
	shape     forces.Shape
	theme     renderer.Theme

	refreshRate    float64
	refreshSamples []float64 // FPS samples while estimating the refresh rate
	estimating     bool

	paused       bool
	frameStart   time.Time
	lastDT       time.Duration
	lastSteps    int
	notice       string
	noticeUntil  float32 // display time
	screenWidth  float32
	screenHeight float32
}

// NewGame builds the engine and its host. In graphical mode the raylib
// window must already be open. A CapabilityError or ConfigurationError from
// the engine is returned unchanged.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	ctx, stop := context.WithCancel(context.Background())
	g := &Game{
		cfg:          cfg,
		opts:         opts,
		ctx:          ctx,
		stop:         stop,
		world:        ecs.NewWorld(),
		registry:     systems.NewSystemRegistry(),
		perf:         telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector:    telemetry.NewCollector(logInterval(cfg)),
		metrics:      telemetry.NewMetrics(),
		reloads:      make(chan *config.Config, 1),
		screenWidth:  cfg.Derived.ScreenW32,
		screenHeight: cfg.Derived.ScreenH32,
	}
	if !opts.Headless {
		g.screenWidth, g.screenHeight = screenSize()
	}

	stateDir := cfg.Resolution.StateDir
	if opts.StateDir != "" {
		stateDir = opts.StateDir
	}
	g.hints = resolution.NewHintStore(stateDir)
	hint, err := g.hints.Load()
	if err != nil {
		slog.Warn("ignoring tier hint", "error", err)
		hint = resolution.Hint{}
	}

	g.shape, err = forces.ParseShape(cfg.Forces.Shape)
	if err != nil {
		stop()
		return nil, fmt.Errorf("forces.shape: %w", err)
	}
	if hint.Shape != "" {
		if s, err := forces.ParseShape(hint.Shape); err == nil {
			g.shape = s
		}
	}
	g.theme, err = renderer.ParseTheme(cfg.Render.Theme)
	if err != nil {
		stop()
		return nil, fmt.Errorf("render.theme: %w", err)
	}

	g.refreshRate, g.estimating = g.initialRefreshRate()

	eopts, err := engineOptions(cfg, g.refreshRate, hint.TierWidth)
	if err != nil {
		stop()
		return nil, err
	}
	eopts.OnStable = g.saveTierHint
	g.engine = engine.New(eopts)

	g.field = forces.NewField(forces.ParamsFromConfig(cfg.Forces), opts.Seed)
	g.velVar, g.posVar, err = g.field.Declare(g.engine)
	if err != nil {
		stop()
		return nil, err
	}
	g.setUniforms(func(u *forces.Uniforms) { u.Shape = g.shape })

	if err := g.engine.Initialize(); err != nil {
		stop()
		var capErr *compute.CapabilityError
		if errors.As(err, &capErr) {
			slog.Error("device cannot run the simulation", "reason", capErr.Reason)
		}
		return nil, err
	}

	g.camera = camera.New(g.screenWidth, g.screenHeight)
	g.camera.SetZoom(float32(cfg.Render.Zoom))
	g.interaction = systems.NewInteraction(g.world, g.interactionParams(cfg))

	g.analyzer = audio.NewAnalyzer(audio.ParamsFromConfig(cfg.Audio))
	g.source = g.newAudioSource()

	g.requested = cfg.Simulation.InitialCount
	g.settings = ui.Settings{
		Count:       cfg.Simulation.InitialCount,
		MinCount:    cfg.Simulation.MinCount,
		MaxCount:    cfg.Simulation.MaxWidth * cfg.Simulation.MaxWidth,
		TimeScale:   float32(cfg.Simulation.TimeScale),
		Sensitivity: float32(cfg.Audio.Sensitivity),
		PointSize:   float32(cfg.Render.PointSize),
		Bloom:       float32(cfg.Render.Bloom),
		Shape:       g.shape.String(),
		Theme:       g.theme.String(),
	}

	if !opts.Headless {
		g.initUI()
	}

	g.output, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		g.Unload()
		return nil, err
	}
	if err := g.output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config copy", "error", err)
	}

	g.startBackground()

	slog.Info("game started",
		"mode", string(g.engine.Mode()),
		"tier_width", g.engine.Width(),
		"active", g.engine.ActiveCount(),
		"shape", g.shape.String(),
		"refresh_hz", g.refreshRate,
		"headless", opts.Headless,
	)
	return g, nil
}

// initUI creates the panels drawn in graphical mode.
func (g *Game) initUI() {
	w, h := int32(g.screenWidth), int32(g.screenHeight)
	g.points = renderer.NewPointRenderer(float32(g.cfg.Render.PointSize), g.cfg.Render.MaxDrawPoints)
	g.bloom = renderer.NewBloom(w, h, float32(g.cfg.Render.Bloom))
	g.overlays = ui.NewOverlayRegistry()
	g.hud = ui.NewHUD()
	g.controls = ui.NewControlsPanel(10, 100, 260)
	g.status = ui.NewStatusPanel(w-270, 10, 260)
	g.perfPanel = ui.NewPerfPanel(w-270, 10, 260)
	g.inspector = inspector.NewInspector(w, h)
}

// startBackground launches the config watcher and the metrics endpoint.
func (g *Game) startBackground() {
	if g.opts.ConfigPath != "" {
		err := config.Watch(g.ctx, g.opts.ConfigPath, func(c *config.Config) {
			// Keep only the newest pending reload.
			select {
			case <-g.reloads:
			default:
			}
			g.reloads <- c
		})
		if err != nil {
			slog.Warn("config hot reload disabled", "error", err)
		}
	}

	addr := g.cfg.Telemetry.MetricsAddr
	if g.opts.MetricsAddr != "" {
		addr = g.opts.MetricsAddr
	}
	if addr != "" {
		go func() {
			if err := g.metrics.Serve(g.ctx, addr); err != nil {
				slog.Error("metrics endpoint stopped", "error", err)
			}
		}()
	}
}

func logInterval(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Telemetry.LogIntervalSec * float64(time.Second))
}

// setUniforms edits the field uniforms in place.
func (g *Game) setUniforms(edit func(u *forces.Uniforms)) {
	u := g.field.Uniforms()
	edit(&u)
	g.field.SetUniforms(u)
}

// Engine returns the particle engine.
func (g *Game) Engine() *engine.Engine { return g.engine }

// Tick returns the number of physics steps run so far.
func (g *Game) Tick() uint64 { return g.engine.Ticks() }

// Shape returns the current formation.
func (g *Game) Shape() forces.Shape { return g.shape }

// Paused reports whether the simulation is paused.
func (g *Game) Paused() bool { return g.paused }

// Unload stops background work, flushes output and releases resources.
func (g *Game) Unload() {
	g.stop()
	if g.source != nil {
		g.source.Close()
		g.source = nil
	}
	if g.bloom != nil {
		g.bloom.Unload()
	}
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	g.engine.Dispose()
}
