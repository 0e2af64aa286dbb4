package compute

import (
	"errors"
	"math"
	"testing"
)

// newPosVel builds the two mutually dependent variables used throughout:
// pos' = pos + vel*dt, vel' = vel.
func newPosVel(t *testing.T, dev Device, w, h int) (*Simulation, Handle, Handle) {
	t.Helper()
	sim := NewSimulation(dev, w, h)

	posProg := func(in *Inputs, c Cell, g Globals) Vec4 {
		p, v := in.Read("pos"), in.Read("vel")
		return Vec4{p[0] + v[0]*g.DT, p[1] + v[1]*g.DT, p[2] + v[2]*g.DT, p[3]}
	}
	velProg := func(in *Inputs, c Cell, g Globals) Vec4 {
		return in.Read("vel")
	}

	pos, err := sim.AddVariable("pos", posProg, Fill(w, h, Vec4{0, 0, 0, 1}))
	if err != nil {
		t.Fatal(err)
	}
	vel, err := sim.AddVariable("vel", velProg, Fill(w, h, Vec4{1, 0, 0, 1}))
	if err != nil {
		t.Fatal(err)
	}
	if err := sim.SetDependencies(pos, pos, vel); err != nil {
		t.Fatal(err)
	}
	if err := sim.SetDependencies(vel, pos, vel); err != nil {
		t.Fatal(err)
	}
	if err := sim.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return sim, pos, vel
}

func TestPosVelSingleTick(t *testing.T) {
	const dt = float32(1.0 / 60.0)
	sim, pos, vel := newPosVel(t, NewCPUDevice(testCaps(), 1), 8, 8)

	if err := sim.Compute(Globals{DT: dt}); err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	posRef, err := sim.CurrentSurface(pos)
	if err != nil {
		t.Fatal(err)
	}
	velRef, err := sim.CurrentSurface(vel)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if got := posRef.At(x, y); got != (Vec4{dt, 0, 0, 1}) {
				t.Fatalf("pos(%d,%d) = %v, want (%v,0,0,1)", x, y, got, dt)
			}
			if got := velRef.At(x, y); got != (Vec4{1, 0, 0, 1}) {
				t.Fatalf("vel(%d,%d) = %v, want (1,0,0,1)", x, y, got)
			}
		}
	}
}

func TestSeedWithoutTicks(t *testing.T) {
	sim, pos, _ := newPosVel(t, NewCPUDevice(testCaps(), 1), 4, 4)

	ref, err := sim.CurrentSurface(pos)
	if err != nil {
		t.Fatal(err)
	}
	if got := ref.At(2, 3); got != (Vec4{0, 0, 0, 1}) {
		t.Errorf("current pos = %v, want seed", got)
	}
	next := sim.Store().Next("pos")
	if got := next.At(2, 3); got != (Vec4{0, 0, 0, 1}) {
		t.Errorf("next pos = %v, want seed", got)
	}
}

func TestTickDeterminism(t *testing.T) {
	run := func(workers int) []float32 {
		sim := NewSimulation(NewCPUDevice(testCaps(), workers), 128, 64)
		prog := func(in *Inputs, c Cell, g Globals) Vec4 {
			a := in.Read("a")
			s := float32(math.Sin(float64(c.U*7 + c.V*3 + a[0])))
			return Vec4{a[0] + s*g.DT, a[1] * 0.99, c.U, c.V}
		}
		a, _ := sim.AddVariable("a", prog, Fill(128, 64, Vec4{0.25, 1, 0, 0}))
		sim.SetDependencies(a, a)
		if err := sim.Init(); err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 3; i++ {
			sim.Compute(Globals{DT: 0.016})
		}
		data, err := sim.Snapshot(a)
		if err != nil {
			t.Fatal(err)
		}
		return data
	}

	serial := run(1)
	again := run(1)
	parallel := run(8)
	for i := range serial {
		if math.Float32bits(serial[i]) != math.Float32bits(again[i]) {
			t.Fatalf("index %d differs between identical runs", i)
		}
		if math.Float32bits(serial[i]) != math.Float32bits(parallel[i]) {
			t.Fatalf("index %d differs between serial and parallel dispatch", i)
		}
	}
}

func TestSynchronousUpdate(t *testing.T) {
	// a' = b and b' = a must swap values, not copy one into both.
	sim := NewSimulation(NewCPUDevice(testCaps(), 1), 2, 2)
	a, _ := sim.AddVariable("a", func(in *Inputs, c Cell, g Globals) Vec4 { return in.Read("b") }, Fill(2, 2, Vec4{1}))
	b, _ := sim.AddVariable("b", func(in *Inputs, c Cell, g Globals) Vec4 { return in.Read("a") }, Fill(2, 2, Vec4{2}))
	sim.SetDependencies(a, b)
	sim.SetDependencies(b, a)
	if err := sim.Init(); err != nil {
		t.Fatal(err)
	}

	for tick := 1; tick <= 3; tick++ {
		sim.Compute(Globals{})
		ra, _ := sim.CurrentSurface(a)
		rb, _ := sim.CurrentSurface(b)
		wantA, wantB := float32(2), float32(1)
		if tick%2 == 0 {
			wantA, wantB = 1, 2
		}
		if ra.At(0, 0)[0] != wantA || rb.At(0, 0)[0] != wantB {
			t.Fatalf("tick %d: a=%v b=%v, want a=%v b=%v", tick, ra.At(0, 0)[0], rb.At(0, 0)[0], wantA, wantB)
		}
	}
}

func TestSwapAtomicity(t *testing.T) {
	counter := func(name string) Program {
		return func(in *Inputs, c Cell, g Globals) Vec4 {
			v := in.Read(name)
			v[0]++
			return v
		}
	}
	sim := NewSimulation(NewCPUDevice(testCaps(), 1), 4, 4)
	var handles []Handle
	for _, name := range []string{"x", "y", "z"} {
		h, _ := sim.AddVariable(name, counter(name), nil)
		sim.SetDependencies(h, h)
		handles = append(handles, h)
	}
	if err := sim.Init(); err != nil {
		t.Fatal(err)
	}

	for tick := 1; tick <= 5; tick++ {
		sim.Compute(Globals{})
		for _, h := range handles {
			ref, _ := sim.CurrentSurface(h)
			if got := ref.At(1, 1)[0]; got != float32(tick) {
				t.Fatalf("tick %d: %s = %v", tick, h.Name(), got)
			}
		}
	}
	if sim.Ticks() != 5 {
		t.Errorf("Ticks() = %d, want 5", sim.Ticks())
	}
}

func TestReadNextSeesThisTick(t *testing.T) {
	sim := NewSimulation(NewCPUDevice(testCaps(), 1), 2, 1)
	vel, _ := sim.AddVariable("vel", func(in *Inputs, c Cell, g Globals) Vec4 {
		v := in.Read("vel")
		v[0] += 1
		return v
	}, nil)
	pos, _ := sim.AddVariable("pos", func(in *Inputs, c Cell, g Globals) Vec4 {
		p := in.Read("pos")
		p[0] += in.Read("vel")[0]
		return p
	}, nil)
	sim.SetDependencies(vel, vel)
	if err := sim.SetDependencyModes(pos, Current("pos"), Next("vel")); err != nil {
		t.Fatal(err)
	}
	if err := sim.Init(); err != nil {
		t.Fatal(err)
	}

	sim.Compute(Globals{})
	ref, _ := sim.CurrentSurface(pos)
	if got := ref.At(0, 0)[0]; got != 1 {
		t.Errorf("pos after one tick = %v, want 1 (integrated with this tick's velocity)", got)
	}
}

func TestPartialAreaWindow(t *testing.T) {
	const w, h = 16, 16
	sim := NewSimulation(NewCPUDevice(testCaps(), 1), w, h)
	a, _ := sim.AddVariable("a", func(in *Inputs, c Cell, g Globals) Vec4 {
		v := in.Read("a")
		v[0]++
		return v
	}, Fill(w, h, Vec4{0, 0, 0, 7}))
	sim.SetDependencies(a, a)
	if err := sim.Init(); err != nil {
		t.Fatal(err)
	}

	const k = 37 // three rows: 16 + 16 + 5
	if got := sim.SetActiveCount(k); got != k {
		t.Fatalf("SetActiveCount returned %d", got)
	}
	win := sim.Window()
	if win.Height != 3 || win.Width != w || win.X != 0 || win.Y != 0 {
		t.Fatalf("window = %+v, want 16x3 at origin", win)
	}

	sim.Compute(Globals{})
	sim.Compute(Globals{})

	ref, _ := sim.CurrentSurface(a)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			got := ref.At(x, y)
			want := Vec4{0, 0, 0, 7}
			if y < 3 {
				want[0] = 2
			}
			if got != want {
				t.Fatalf("cell (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestWindowShrinkKeepsLastValues(t *testing.T) {
	const w, h = 4, 4
	sim := NewSimulation(NewCPUDevice(testCaps(), 1), w, h)
	a, _ := sim.AddVariable("a", func(in *Inputs, c Cell, g Globals) Vec4 {
		v := in.Read("a")
		v[0]++
		return v
	}, nil)
	sim.SetDependencies(a, a)
	if err := sim.Init(); err != nil {
		t.Fatal(err)
	}

	sim.Compute(Globals{}) // all rows = 1
	sim.SetActiveCount(w)  // only row 0 stays live
	sim.Compute(Globals{})
	sim.Compute(Globals{})
	sim.Compute(Globals{})

	ref, _ := sim.CurrentSurface(a)
	if got := ref.At(0, 0)[0]; got != 4 {
		t.Errorf("live row = %v, want 4", got)
	}
	for y := 1; y < h; y++ {
		if got := ref.At(2, y)[0]; got != 1 {
			t.Errorf("row %d = %v, want 1 (value when it left the window)", y, got)
		}
	}
}

func TestActiveCountClamp(t *testing.T) {
	sim := NewSimulation(NewCPUDevice(testCaps(), 1), 4, 4)
	if got := sim.SetActiveCount(100); got != 16 {
		t.Errorf("SetActiveCount(100) = %d, want 16", got)
	}
	if got := sim.SetActiveCount(-5); got != 0 {
		t.Errorf("SetActiveCount(-5) = %d, want 0", got)
	}
}

func TestInitCapabilityErrors(t *testing.T) {
	tests := []struct {
		name string
		caps Capabilities
	}{
		{"no float surfaces", Capabilities{FloatSurfaces: false, VertexTextureSlots: 4}},
		{"no vertex textures", Capabilities{FloatSurfaces: true, VertexTextureSlots: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := NewCPUDevice(tt.caps, 1)
			sim := NewSimulation(dev, 4, 4)
			sim.AddVariable("a", func(in *Inputs, c Cell, g Globals) Vec4 { return Vec4{} }, nil)

			err := sim.Init()
			var capErr *CapabilityError
			if !errors.As(err, &capErr) {
				t.Fatalf("expected CapabilityError, got %v", err)
			}
			if dev.InUse() != 0 {
				t.Errorf("surfaces allocated despite capability failure")
			}
			if err := sim.Compute(Globals{}); !errors.Is(err, ErrNotInitialized) {
				t.Errorf("Compute after failed Init: got %v, want ErrNotInitialized", err)
			}
		})
	}
}

func TestInitAllocationError(t *testing.T) {
	caps := testCaps()
	caps.MaxSurfaceSize = 64
	sim := NewSimulation(NewCPUDevice(caps, 1), 128, 128)
	sim.AddVariable("a", func(in *Inputs, c Cell, g Globals) Vec4 { return Vec4{} }, nil)

	var allocErr *AllocationError
	if err := sim.Init(); !errors.As(err, &allocErr) {
		t.Fatalf("expected AllocationError, got %v", err)
	}
	if allocErr.Width != 128 {
		t.Errorf("AllocationError.Width = %d, want 128", allocErr.Width)
	}
}

func TestInitMemoryBudget(t *testing.T) {
	caps := testCaps()
	caps.MemoryBudget = 3 * SurfaceBytes(16, 16) // room for one variable and a half
	dev := NewCPUDevice(caps, 1)
	sim := NewSimulation(dev, 16, 16)
	sim.AddVariable("a", func(in *Inputs, c Cell, g Globals) Vec4 { return Vec4{} }, nil)
	sim.AddVariable("b", func(in *Inputs, c Cell, g Globals) Vec4 { return Vec4{} }, nil)

	var allocErr *AllocationError
	if err := sim.Init(); !errors.As(err, &allocErr) {
		t.Fatalf("expected AllocationError, got %v", err)
	}
	if dev.InUse() != 0 {
		t.Errorf("InUse = %d after failed Init, want 0", dev.InUse())
	}
}

func TestDisposeInvalidatesHandles(t *testing.T) {
	sim, pos, _ := newPosVel(t, NewCPUDevice(testCaps(), 1), 4, 4)
	ref, err := sim.CurrentSurface(pos)
	if err != nil {
		t.Fatal(err)
	}

	sim.Dispose()

	if ref.Valid() {
		t.Error("SurfaceRef still valid after Dispose")
	}
	if ref.Surface() != nil {
		t.Error("stale SurfaceRef returned a surface")
	}
	if _, err := sim.CurrentSurface(pos); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("CurrentSurface after Dispose: got %v, want ErrStaleHandle", err)
	}

	other, _, _ := newPosVel(t, NewCPUDevice(testCaps(), 1), 4, 4)
	if _, err := other.CurrentSurface(pos); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("handle from another generation: got %v, want ErrStaleHandle", err)
	}
}

func TestConfigurationAfterInit(t *testing.T) {
	sim, pos, vel := newPosVel(t, NewCPUDevice(testCaps(), 1), 4, 4)
	var cfgErr *ConfigurationError
	if err := sim.SetDependencies(pos, vel); !errors.As(err, &cfgErr) {
		t.Errorf("SetDependencies after Init: got %v, want ConfigurationError", err)
	}
	if _, err := sim.AddVariable("acc", func(in *Inputs, c Cell, g Globals) Vec4 { return Vec4{} }, nil); !errors.As(err, &cfgErr) {
		t.Errorf("AddVariable after Init: got %v, want ConfigurationError", err)
	}
}

func BenchmarkTick(b *testing.B) {
	const w, h = 512, 512
	sim := NewSimulation(NewCPUDevice(testCaps(), 0), w, h)
	pos, _ := sim.AddVariable("pos", func(in *Inputs, c Cell, g Globals) Vec4 {
		p, v := in.Slot(0), in.Slot(1)
		return Vec4{p[0] + v[0]*g.DT, p[1] + v[1]*g.DT, p[2] + v[2]*g.DT, p[3]}
	}, nil)
	vel, _ := sim.AddVariable("vel", func(in *Inputs, c Cell, g Globals) Vec4 {
		v := in.Slot(1)
		return Vec4{v[0] * 0.92, v[1] * 0.92, v[2] * 0.92, v[3]}
	}, Fill(w, h, Vec4{1, 1, 1, 1}))
	sim.SetDependencies(pos, pos, vel)
	sim.SetDependencies(vel, pos, vel)
	if err := sim.Init(); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		sim.Compute(Globals{DT: 1.0 / 60.0})
	}
}
