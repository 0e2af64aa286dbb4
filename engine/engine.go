// Package engine is the orchestrator around one live compute.Simulation.
//
// It keeps variable declarations so the simulation can be rebuilt at a new
// grid size, drives the physics clock and the resolution controller from
// reported frame times, and performs rebuilds between frames. Three modes share
// the same code path: adaptive rebuilds at each tier change, ceiling allocates
// the largest grid once and only moves the scissor window, static never
// changes size.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/pthm-cable/swarm/clock"
	"github.com/pthm-cable/swarm/compute"
	"github.com/pthm-cable/swarm/resolution"
)

// Mode selects how capacity follows the resolution controller.
type Mode string

const (
	ModeAdaptive Mode = "adaptive"
	ModeCeiling  Mode = "ceiling"
	ModeStatic   Mode = "static"
)

// ParseMode converts a config string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeAdaptive, ModeCeiling, ModeStatic:
		return m, nil
	}
	return "", fmt.Errorf("unknown engine mode %q", s)
}

// Seeder produces initial data for a width x height grid, four floats per
// cell. nil means zeros.
type Seeder func(width, height int) []float32

// Options configures an Engine.
type Options struct {
	Mode       Mode
	Device     compute.Device
	Resolution resolution.Params
	Profile    resolution.HardwareProfile
	HintWidth  int // persisted tier width from a previous session

	StaticWidth  int
	MaxWidth     int
	MinCount     int
	InitialCount int

	Step            time.Duration
	MaxAccumulation time.Duration
	TimeScale       float64
	DisplayPerFrame float64

	// OnStable is called when the controller settles on a tier.
	OnStable func(width int)
}

// Var identifies a declared variable. It stays valid across rebuilds.
type Var struct {
	index  int
	name   string
	engine uint64
}

// Name returns the variable name.
func (v Var) Name() string { return v.name }

type declaration struct {
	name    string
	program compute.Program
	seed    Seeder
}

var engineIDs atomic.Uint64

// Engine owns the current simulation generation.
type Engine struct {
	id   uint64
	opts Options

	decls  []declaration
	binder *compute.Binder
	plan   *compute.Plan // fixed at Initialize, shared by every generation

	clock *clock.Clock
	ctrl  *resolution.Controller

	sim     *compute.Simulation
	handles []compute.Handle
	width   int

	requested int
	rebuilds  int
	disposed  bool
}

// New creates an engine. Nothing is allocated until Initialize.
func New(opts Options) *Engine {
	if opts.Mode == "" {
		opts.Mode = ModeAdaptive
	}
	if opts.MinCount <= 0 {
		opts.MinCount = 64
	}
	if opts.TimeScale == 0 {
		opts.TimeScale = 1
	}
	if len(opts.Resolution.Tiers) == 0 {
		opts.Resolution = resolution.DefaultParams()
	}
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = opts.Resolution.Tiers[len(opts.Resolution.Tiers)-1]
	}
	if opts.StaticWidth <= 0 {
		opts.StaticWidth = opts.Resolution.Tiers[0]
	}

	clk := clock.New(opts.Step, opts.MaxAccumulation)
	clk.SetTimeScale(opts.TimeScale)
	clk.SetDisplayPerFrame(opts.DisplayPerFrame)

	e := &Engine{
		id:        engineIDs.Add(1),
		opts:      opts,
		binder:    compute.NewBinder(),
		clock:     clk,
		requested: opts.InitialCount,
	}

	if opts.Mode != ModeStatic {
		tiers := opts.Resolution.Tiers
		if opts.Mode == ModeCeiling {
			tiers = tiersUpTo(tiers, opts.MaxWidth)
			opts.Resolution.Tiers = tiers
		}
		start := resolution.InitialTier(tiers, opts.Profile, opts.HintWidth)
		e.ctrl = resolution.NewController(opts.Resolution, start)
		e.ctrl.Cap(opts.Profile.MaxTier(tiers))
		e.ctrl.ConsumeRebuildFlag()
		if opts.OnStable != nil {
			e.ctrl.OnStable(opts.OnStable)
		}
	}
	return e
}

func tiersUpTo(tiers []int, limit int) []int {
	out := make([]int, 0, len(tiers))
	for _, w := range tiers {
		if w <= limit {
			out = append(out, w)
		}
	}
	if len(out) == 0 {
		out = append(out, limit)
	}
	return out
}

// DeclareVariable declares a state variable with its update program and
// seeder. Variables update in declaration order.
func (e *Engine) DeclareVariable(name string, program compute.Program, seed Seeder) (Var, error) {
	if program == nil {
		return Var{}, &compute.ConfigurationError{Variable: name, Reason: "nil update program"}
	}
	i, err := e.binder.Declare(name)
	if err != nil {
		return Var{}, err
	}
	e.decls = append(e.decls, declaration{name: name, program: program, seed: seed})
	return Var{index: i, name: name, engine: e.id}, nil
}

// SetDependencies makes the current buffers of deps visible to v's program.
func (e *Engine) SetDependencies(v Var, deps ...Var) error {
	modes := make([]compute.Dependency, len(deps))
	for i, d := range deps {
		if err := e.owns(d); err != nil {
			return err
		}
		modes[i] = compute.Current(d.name)
	}
	return e.SetDependencyModes(v, modes...)
}

// SetDependencyModes binds inputs of v with explicit read modes.
func (e *Engine) SetDependencyModes(v Var, deps ...compute.Dependency) error {
	if err := e.owns(v); err != nil {
		return err
	}
	return e.binder.Bind(v.name, deps...)
}

func (e *Engine) owns(v Var) error {
	if v.engine != e.id {
		return &compute.ConfigurationError{Variable: v.name, Reason: "variable does not belong to this engine"}
	}
	return nil
}

// Initialize validates the device, allocates the first generation and
// finalizes bindings. CapabilityError and ConfigurationError are fatal.
// An AllocationError at the chosen tier falls back to smaller tiers.
func (e *Engine) Initialize() error {
	if e.sim != nil || e.disposed {
		return &compute.ConfigurationError{Reason: "Initialize called twice"}
	}
	if err := e.opts.Device.Capabilities().Check(); err != nil {
		return err
	}
	if len(e.decls) == 0 {
		return &compute.ConfigurationError{Reason: "no variables declared"}
	}
	e.plan = e.binder.Finalize()

	if _, err := e.rebuild(e.targetWidth(), nil); err != nil {
		return err
	}
	slog.Info("engine initialized",
		"mode", string(e.opts.Mode),
		"width", e.width,
		"capacity", e.sim.Capacity(),
		"active", e.sim.ActiveCount(),
		"device", e.opts.Device.Name(),
	)
	return nil
}

func (e *Engine) targetWidth() int {
	switch e.opts.Mode {
	case ModeStatic:
		return e.opts.StaticWidth
	case ModeCeiling:
		return e.opts.MaxWidth
	default:
		return e.ctrl.Width()
	}
}

// candidates returns widths to try for a rebuild at target, largest first.
func (e *Engine) candidates(target int) []int {
	out := []int{target}
	if e.ctrl == nil {
		return out
	}
	tiers := e.ctrl.Tiers()
	for i := len(tiers) - 1; i >= 0; i-- {
		if tiers[i] < target {
			out = append(out, tiers[i])
		}
	}
	return out
}

// rebuild replaces the current simulation with one of width target, carrying
// over the first min(old, new) particles of every variable. The old store is
// released before allocating so a budget that fits either size fits the swap.
func (e *Engine) rebuild(target int, events []Event) ([]Event, error) {
	var carry [][]float32
	oldWidth := e.width
	if e.sim != nil {
		carry = make([][]float32, len(e.handles))
		for i, h := range e.handles {
			data, err := e.sim.Snapshot(h)
			if err != nil {
				return events, fmt.Errorf("snapshot %q: %w", h.Name(), err)
			}
			carry[i] = data
		}
		e.sim.Dispose()
		e.sim = nil
		e.handles = nil
	}

	var lastErr error
	for _, w := range e.candidates(target) {
		sim, handles, err := e.build(w, carry)
		if err == nil {
			e.sim = sim
			e.handles = handles
			e.width = w
			e.applyActiveCount()
			if oldWidth != 0 && oldWidth != w {
				e.rebuilds++
				events = append(events, Event{Kind: ResolutionChanged, OldWidth: oldWidth, NewWidth: w})
			}
			if e.ctrl != nil && e.opts.Mode == ModeAdaptive {
				e.ctrl.SetTier(resolution.TierIndex(e.ctrl.Tiers(), w))
			}
			return events, nil
		}

		var allocErr *compute.AllocationError
		if !errors.As(err, &allocErr) {
			return events, err
		}
		lastErr = err
		slog.Warn("allocation failed, falling back",
			"width", w,
			"error", err,
		)
		events = append(events, Event{Kind: AllocationFallback, OldWidth: oldWidth, NewWidth: w, Err: err})
		if e.ctrl != nil {
			e.ctrl.Cap(resolution.TierIndex(e.ctrl.Tiers(), w-1))
			e.ctrl.ConsumeRebuildFlag()
		}
	}
	return events, lastErr
}

func (e *Engine) build(width int, carry [][]float32) (*compute.Simulation, []compute.Handle, error) {
	sim := compute.NewSimulation(e.opts.Device, width, width)
	handles := make([]compute.Handle, len(e.decls))

	for i, d := range e.decls {
		var data []float32
		if d.seed != nil {
			data = d.seed(width, width)
		}
		if carry != nil {
			if data == nil {
				data = make([]float32, width*width*compute.Channels)
			}
			copy(data, carry[i])
		}
		h, err := sim.AddVariable(d.name, d.program, data)
		if err != nil {
			sim.Dispose()
			return nil, nil, err
		}
		handles[i] = h
	}
	for i := range e.plan.Len() {
		inputs := e.plan.Inputs(i)
		if len(inputs) == 0 {
			continue
		}
		deps := make([]compute.Dependency, len(inputs))
		for j, b := range inputs {
			deps[j] = compute.Dependency{Name: b.Name, Mode: b.Mode}
		}
		if err := sim.SetDependencyModes(handles[i], deps...); err != nil {
			sim.Dispose()
			return nil, nil, err
		}
	}
	if err := sim.Init(); err != nil {
		sim.Dispose()
		return nil, nil, err
	}
	return sim, handles, nil
}

// Initialized reports whether a simulation is live.
func (e *Engine) Initialized() bool { return e.sim != nil }

// Tick advances the simulation one fixed step.
func (e *Engine) Tick() error {
	if e.sim == nil {
		if e.disposed {
			return compute.ErrStaleHandle
		}
		return compute.ErrNotInitialized
	}
	err := e.sim.Compute(compute.Globals{
		Width:  e.width,
		Height: e.width,
		Tick:   e.clock.Steps(),
		Time:   e.clock.SimTime(),
		DT:     e.clock.StepSeconds(),
	})
	if err != nil {
		return err
	}
	e.clock.Tick()
	return nil
}

// CurrentBuffer returns the current surface of v for the render stage. The
// reference is only valid until the next rebuild.
func (e *Engine) CurrentBuffer(v Var) (compute.SurfaceRef, error) {
	if err := e.owns(v); err != nil {
		return compute.SurfaceRef{}, err
	}
	if e.sim == nil {
		return compute.SurfaceRef{}, compute.ErrNotInitialized
	}
	return e.sim.CurrentSurface(e.handles[v.index])
}

// Snapshot copies the current data of v.
func (e *Engine) Snapshot(v Var) ([]float32, error) {
	if err := e.owns(v); err != nil {
		return nil, err
	}
	if e.sim == nil {
		return nil, compute.ErrNotInitialized
	}
	return e.sim.Snapshot(e.handles[v.index])
}

// SetActiveCount requests n live particles and returns the effective count,
// clamped to [MinCount, limit] where limit is the capacity, or in ceiling mode
// the capacity of the controller's current tier.
func (e *Engine) SetActiveCount(n int) int {
	e.requested = n
	return e.applyActiveCount()
}

func (e *Engine) applyActiveCount() int {
	if e.sim == nil {
		return 0
	}
	limit := e.sim.Capacity()
	if e.opts.Mode == ModeCeiling && e.ctrl != nil {
		w := e.ctrl.Width()
		limit = min(limit, w*w)
	}
	n := max(min(e.requested, limit), min(e.opts.MinCount, limit))
	return e.sim.SetActiveCount(n)
}

// ReportFrameTime feeds one rendered frame's duration to the clock and the
// resolution controller. A tier change is applied here, between frames, and
// reported as an event.
func (e *Engine) ReportFrameTime(dt time.Duration) ([]Event, error) {
	e.clock.Advance(dt)
	if e.ctrl == nil || e.sim == nil {
		return nil, nil
	}
	prev := e.ctrl.Width()
	e.ctrl.SampleDelta(dt)
	if !e.ctrl.ConsumeRebuildFlag() {
		return nil, nil
	}

	if e.opts.Mode == ModeCeiling {
		e.applyActiveCount()
		slog.Info("tier changed",
			"mode", string(e.opts.Mode),
			"tier_width", e.ctrl.Width(),
			"active", e.sim.ActiveCount(),
		)
		return []Event{{Kind: ResolutionChanged, OldWidth: prev, NewWidth: e.ctrl.Width()}}, nil
	}

	start := time.Now()
	events, err := e.rebuild(e.ctrl.Width(), nil)
	if err != nil {
		return events, err
	}
	slog.Info("tier changed",
		"mode", string(e.opts.Mode),
		"width", e.width,
		"active", e.sim.ActiveCount(),
		"rebuild_ms", time.Since(start).Milliseconds(),
	)
	return events, nil
}

// FrameResult summarizes one Frame call.
type FrameResult struct {
	Steps  int
	Events []Event
}

// Frame reports dt, applies any tier change, then runs the drained steps.
func (e *Engine) Frame(dt time.Duration) (FrameResult, error) {
	events, err := e.ReportFrameTime(dt)
	if err != nil {
		return FrameResult{Events: events}, err
	}
	n := e.clock.DrainSteps()
	for i := 0; i < n; i++ {
		if err := e.Tick(); err != nil {
			return FrameResult{Steps: i, Events: events}, err
		}
	}
	return FrameResult{Steps: n, Events: events}, nil
}

// SetTimeScale changes how much simulated time each step represents.
func (e *Engine) SetTimeScale(s float64) { e.clock.SetTimeScale(s) }

// SetRefreshRate updates the controller's threshold base.
func (e *Engine) SetRefreshRate(hz float64) {
	if e.ctrl != nil {
		e.ctrl.SetRefreshRate(hz)
	}
}

// Mode returns the orchestrator mode.
func (e *Engine) Mode() Mode { return e.opts.Mode }

// Width returns the grid width of the live simulation.
func (e *Engine) Width() int { return e.width }

// Capacity returns the cell count of the live simulation.
func (e *Engine) Capacity() int {
	if e.sim == nil {
		return 0
	}
	return e.sim.Capacity()
}

// ActiveCount returns the effective number of live particles.
func (e *Engine) ActiveCount() int {
	if e.sim == nil {
		return 0
	}
	return e.sim.ActiveCount()
}

// Window returns the current scissor window.
func (e *Engine) Window() compute.Window {
	if e.sim == nil {
		return compute.Window{}
	}
	return e.sim.Window()
}

// Generation returns the live simulation generation.
func (e *Engine) Generation() uint64 {
	if e.sim == nil {
		return 0
	}
	return e.sim.Generation()
}

// Ticks returns the number of ticks run across all generations.
func (e *Engine) Ticks() uint64 { return e.clock.Steps() }

// Rebuilds returns the number of size changes since Initialize.
func (e *Engine) Rebuilds() int { return e.rebuilds }

// SimTime returns stepped simulation time in seconds.
func (e *Engine) SimTime() float32 { return e.clock.SimTime() }

// DisplayTime returns continuous display time in seconds.
func (e *Engine) DisplayTime() float32 { return e.clock.DisplayTime() }

// Clock exposes the physics clock.
func (e *Engine) Clock() *clock.Clock { return e.clock }

// Controller exposes the resolution controller, nil in static mode.
func (e *Engine) Controller() *resolution.Controller { return e.ctrl }

// Dispose releases the live simulation.
func (e *Engine) Dispose() {
	if e.sim != nil {
		e.sim.Dispose()
		e.sim = nil
	}
	e.handles = nil
	e.disposed = true
}
