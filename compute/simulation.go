package compute

import (
	"fmt"
	"sync/atomic"
)

var generations atomic.Uint64

// Handle refers to a declared variable of one Simulation generation.
type Handle struct {
	index      int
	name       string
	generation uint64
}

// Name returns the variable name.
func (h Handle) Name() string { return h.name }

// Generation returns the simulation generation the handle belongs to.
func (h Handle) Generation() uint64 { return h.generation }

// SurfaceRef is a read-only view of one surface for the render stage. It pins
// the surface that was current when it was obtained; fetch a new one after
// each tick.
type SurfaceRef struct {
	surface *Surface
	store   *Store
}

// Valid reports whether the referenced surface still exists.
func (r SurfaceRef) Valid() bool {
	return r.store != nil && !r.store.disposed && r.surface != nil
}

// Surface returns the underlying surface, or nil if the reference is stale.
func (r SurfaceRef) Surface() *Surface {
	if !r.Valid() {
		return nil
	}
	return r.surface
}

// At reads one cell. A stale reference reads zero.
func (r SurfaceRef) At(x, y int) Vec4 {
	if !r.Valid() {
		return Vec4{}
	}
	return r.surface.At(x, y)
}

type declaration struct {
	name    string
	program Program
	initial []float32
}

// Simulation is one generation of the ping-pong engine at a fixed grid size.
// Declare variables, set dependencies, Init, then Compute once per tick.
// A new grid size requires a new Simulation.
type Simulation struct {
	device        Device
	width, height int
	generation    uint64

	decls     []declaration
	binder    *Binder
	store     *Store
	scheduler *Scheduler

	activeCount int
	initialized bool
	disposed    bool
}

// NewSimulation creates a simulation with a width x height grid.
func NewSimulation(device Device, width, height int) *Simulation {
	return &Simulation{
		device:      device,
		width:       width,
		height:      height,
		generation:  generations.Add(1),
		binder:      NewBinder(),
		activeCount: width * height,
	}
}

// Generation returns the unique generation number of this simulation.
func (s *Simulation) Generation() uint64 { return s.generation }

// Size returns the grid dimensions.
func (s *Simulation) Size() (width, height int) { return s.width, s.height }

// Capacity returns the number of cells in the grid.
func (s *Simulation) Capacity() int { return s.width * s.height }

// AddVariable declares a state variable. initial may be nil for zeros.
func (s *Simulation) AddVariable(name string, program Program, initial []float32) (Handle, error) {
	if s.disposed {
		return Handle{}, ErrStaleHandle
	}
	if program == nil {
		return Handle{}, &ConfigurationError{Variable: name, Reason: "nil update program"}
	}
	i, err := s.binder.Declare(name)
	if err != nil {
		return Handle{}, err
	}
	s.decls = append(s.decls, declaration{name: name, program: program, initial: initial})
	return Handle{index: i, name: name, generation: s.generation}, nil
}

// SetDependencies binds the current buffers of deps as inputs of v.
func (s *Simulation) SetDependencies(v Handle, deps ...Handle) error {
	modes := make([]Dependency, len(deps))
	for i, d := range deps {
		if err := s.owns(d); err != nil {
			return err
		}
		modes[i] = Current(d.name)
	}
	return s.SetDependencyModes(v, modes...)
}

// SetDependencyModes binds inputs of v with explicit read modes.
func (s *Simulation) SetDependencyModes(v Handle, deps ...Dependency) error {
	if err := s.owns(v); err != nil {
		return err
	}
	return s.binder.Bind(v.name, deps...)
}

func (s *Simulation) owns(h Handle) error {
	if s.disposed {
		return ErrStaleHandle
	}
	if h.generation != s.generation {
		if h.generation == 0 {
			return &ConfigurationError{Variable: h.name, Reason: "zero handle"}
		}
		return ErrStaleHandle
	}
	return nil
}

// Init validates device capabilities, allocates and seeds both surfaces of
// every variable, and finalizes the binding plan. A CapabilityError means no
// simulation can run on this device.
func (s *Simulation) Init() error {
	if s.disposed {
		return ErrStaleHandle
	}
	if s.initialized {
		return &ConfigurationError{Reason: "Init called twice"}
	}
	if err := s.device.Capabilities().Check(); err != nil {
		return err
	}
	if len(s.decls) == 0 {
		return &ConfigurationError{Reason: "no variables declared"}
	}

	store := NewStore(s.device, s.width, s.height)
	for _, d := range s.decls {
		if err := store.Allocate(d.name); err != nil {
			store.Dispose()
			return fmt.Errorf("allocating %q: %w", d.name, err)
		}
		if err := store.Seed(d.name, d.initial); err != nil {
			store.Dispose()
			return err
		}
	}

	plan := s.binder.Finalize()
	programs := make([]Program, len(s.decls))
	for i, d := range s.decls {
		programs[i] = d.program
		s.decls[i].initial = nil // seeded; do not retain
	}

	s.store = store
	s.scheduler = NewScheduler(store, plan, programs)
	s.scheduler.SetWindow(WindowFor(s.activeCount, s.width))
	s.initialized = true
	return nil
}

// Compute runs one tick.
func (s *Simulation) Compute(g Globals) error {
	if s.disposed {
		return ErrStaleHandle
	}
	if !s.initialized {
		return ErrNotInitialized
	}
	s.scheduler.Tick(g)
	return nil
}

// Ticks returns the number of completed ticks.
func (s *Simulation) Ticks() uint64 {
	if s.scheduler == nil {
		return 0
	}
	return s.scheduler.Ticks()
}

// CurrentSurface returns the current buffer of v for reading.
func (s *Simulation) CurrentSurface(v Handle) (SurfaceRef, error) {
	if err := s.owns(v); err != nil {
		return SurfaceRef{}, err
	}
	if !s.initialized {
		return SurfaceRef{}, ErrNotInitialized
	}
	return SurfaceRef{surface: s.store.currentAt(v.index), store: s.store}, nil
}

// Snapshot copies the current data of v.
func (s *Simulation) Snapshot(v Handle) ([]float32, error) {
	if err := s.owns(v); err != nil {
		return nil, err
	}
	if !s.initialized {
		return nil, ErrNotInitialized
	}
	return s.store.Snapshot(v.name)
}

// SetActiveCount sets the number of live particles, clamped to [0, capacity],
// and recomputes the scissor window. Returns the clamped count.
func (s *Simulation) SetActiveCount(n int) int {
	n = max(0, min(n, s.Capacity()))
	s.activeCount = n
	if s.scheduler != nil {
		s.scheduler.SetWindow(WindowFor(n, s.width))
	}
	return n
}

// ActiveCount returns the number of live particles.
func (s *Simulation) ActiveCount() int { return s.activeCount }

// Window returns the scissor window used by Compute.
func (s *Simulation) Window() Window {
	if s.scheduler == nil {
		return WindowFor(s.activeCount, s.width)
	}
	return s.scheduler.Window()
}

// Store exposes the underlying store, or nil before Init.
func (s *Simulation) Store() *Store { return s.store }

// Dispose releases all surfaces. Every handle and SurfaceRef from this
// simulation becomes stale.
func (s *Simulation) Dispose() {
	if s.disposed {
		return
	}
	if s.store != nil {
		s.store.Dispose()
	}
	s.disposed = true
}
