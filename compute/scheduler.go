package compute

// Cell identifies the cell a program is computing.
type Cell struct {
	X, Y  int
	U, V  float32 // cell center in [0,1], like gl_FragCoord.xy / resolution
	Index int     // row-major particle index
}

// Globals are the per-tick values every program sees.
type Globals struct {
	Width, Height int
	Tick          uint64
	Time          float32 // stepped simulation time in seconds
	DT            float32 // fixed step in seconds
}

// Program computes the next value of one cell. It must be a pure function of
// its inputs, the cell and the globals (plus any read-only uniforms it closes
// over), so that every cell can be computed in any order.
type Program func(in *Inputs, c Cell, g Globals) Vec4

// Inputs gives a program read access to the bound dependency surfaces.
type Inputs struct {
	bindings []Binding
	surfaces []*Surface
	x, y     int
}

// Read samples a dependency at the cell being computed. Unbound names read as zero.
func (in *Inputs) Read(name string) Vec4 {
	return in.ReadAt(name, in.x, in.y)
}

// ReadAt samples a dependency at any cell, clamped to the edge.
func (in *Inputs) ReadAt(name string, x, y int) Vec4 {
	for _, b := range in.bindings {
		if b.Name == name {
			return in.surfaces[b.Slot].At(x, y)
		}
	}
	return Vec4{}
}

// Slot samples input slot i at the cell being computed.
func (in *Inputs) Slot(i int) Vec4 {
	return in.surfaces[i].At(in.x, in.y)
}

// Has reports whether name is bound.
func (in *Inputs) Has(name string) bool {
	for _, b := range in.bindings {
		if b.Name == name {
			return true
		}
	}
	return false
}

// Scheduler executes ticks: every variable in declaration order reads its
// dependencies and writes its next surface inside the window, then the store
// swaps once.
type Scheduler struct {
	store    *Store
	plan     *Plan
	programs []Program
	window   Window
	ticks    uint64

	// per-variable resolved input surfaces, reused across ticks
	resolved [][]*Surface
}

// NewScheduler creates a scheduler over a finalized plan. programs is indexed
// by declaration order.
func NewScheduler(store *Store, plan *Plan, programs []Program) *Scheduler {
	w, h := store.Size()
	resolved := make([][]*Surface, plan.Len())
	for i := range resolved {
		resolved[i] = make([]*Surface, len(plan.Inputs(i)))
	}
	return &Scheduler{
		store:    store,
		plan:     plan,
		programs: programs,
		window:   Window{Width: w, Height: h},
		resolved: resolved,
	}
}

// Window returns the current scissor window.
func (s *Scheduler) Window() Window { return s.window }

// SetWindow changes the scissor window. Rows that leave the window are
// settled so their last value persists in both buffers.
func (s *Scheduler) SetWindow(w Window) {
	width, height := s.store.Size()
	w = w.clampTo(width, height)
	if w.Height < s.window.Height {
		s.store.settleRows(w.Y+w.Height, s.window.Y+s.window.Height)
	}
	s.window = w
}

// Ticks returns the number of completed ticks.
func (s *Scheduler) Ticks() uint64 { return s.ticks }

// Tick runs one step. Partial-tick state is never visible: the swap happens
// only after every variable's next surface is written.
func (s *Scheduler) Tick(g Globals) {
	width, height := s.store.Size()
	g.Width, g.Height = width, height
	g.Tick = s.ticks
	win := s.window
	invW := 1 / float32(width)
	invH := 1 / float32(height)

	for i := 0; i < s.plan.Len(); i++ {
		bindings := s.plan.Inputs(i)
		surfaces := s.resolved[i]
		for _, b := range bindings {
			if b.Mode == ReadNext {
				surfaces[b.Slot] = s.store.nextAt(b.Source)
			} else {
				surfaces[b.Slot] = s.store.currentAt(b.Source)
			}
		}
		out := s.store.nextAt(i)
		program := s.programs[i]

		s.store.device.Dispatch(win, func(y int) {
			in := Inputs{bindings: bindings, surfaces: surfaces, y: y}
			c := Cell{Y: y, V: (float32(y) + 0.5) * invH}
			for x := win.X; x < win.X+win.Width; x++ {
				in.x = x
				c.X = x
				c.U = (float32(x) + 0.5) * invW
				c.Index = y*width + x
				out.set(x, y, program(&in, c, g))
			}
		})
	}

	s.store.Swap()
	s.ticks++
}
