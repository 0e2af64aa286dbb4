package compute

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Capabilities describes what a device can do. Init refuses to run on a
// device without float surfaces or vertex-stage texture slots, since the
// render stage samples positions from the simulated surfaces.
type Capabilities struct {
	FloatSurfaces      bool
	VertexTextureSlots int
	MaxSurfaceSize     int   // largest width or height, 0 = unlimited
	MemoryBudget       int64 // bytes of surface memory, 0 = unlimited
}

// Check returns a CapabilityError if the capabilities cannot host a simulation.
func (c Capabilities) Check() error {
	if !c.FloatSurfaces {
		return &CapabilityError{Reason: "no float surface support"}
	}
	if c.VertexTextureSlots <= 0 {
		return &CapabilityError{Reason: "no vertex-stage texture slots"}
	}
	return nil
}

// Fits reports whether a width x height surface is within the size limit.
func (c Capabilities) Fits(width, height int) bool {
	if c.MaxSurfaceSize <= 0 {
		return true
	}
	return width <= c.MaxSurfaceSize && height <= c.MaxSurfaceSize
}

// Device allocates surfaces and executes passes.
type Device interface {
	Name() string
	Capabilities() Capabilities

	// Allocate returns a zeroed surface or an *AllocationError.
	Allocate(width, height int) (*Surface, error)

	// Release returns a surface's memory to the device.
	Release(s *Surface)

	// Dispatch runs pass once per row of win. Rows may run concurrently;
	// pass must only write cells of its own row. Dispatch returns once every
	// row has completed.
	Dispatch(win Window, pass func(y int))
}

// parallelThreshold is the minimum window size to fan out across workers.
// Below this, a single goroutine is faster.
const parallelThreshold = 4096

// CPUDevice emulates a GPU on the host: each pass fans rows out over a bounded
// set of goroutines, standing in for the GPU's per-fragment parallelism.
type CPUDevice struct {
	caps    Capabilities
	workers int
	inUse   int64
}

// NewCPUDevice creates a host device. workers <= 0 uses GOMAXPROCS.
func NewCPUDevice(caps Capabilities, workers int) *CPUDevice {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &CPUDevice{caps: caps, workers: workers}
}

// Name implements Device.
func (d *CPUDevice) Name() string {
	return fmt.Sprintf("cpu(%d workers)", d.workers)
}

// Capabilities implements Device.
func (d *CPUDevice) Capabilities() Capabilities { return d.caps }

// InUse returns the bytes of surface memory currently allocated.
func (d *CPUDevice) InUse() int64 { return d.inUse }

// Allocate implements Device.
func (d *CPUDevice) Allocate(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, &AllocationError{Width: width, Height: height, Reason: "non-positive dimensions"}
	}
	if !d.caps.Fits(width, height) {
		return nil, &AllocationError{
			Width: width, Height: height,
			Reason: fmt.Sprintf("exceeds max surface size %d", d.caps.MaxSurfaceSize),
		}
	}
	size := SurfaceBytes(width, height)
	if d.caps.MemoryBudget > 0 && d.inUse+size > d.caps.MemoryBudget {
		return nil, &AllocationError{
			Width: width, Height: height,
			Reason: fmt.Sprintf("memory budget exhausted (%d of %d bytes in use)", d.inUse, d.caps.MemoryBudget),
		}
	}
	d.inUse += size
	return newSurface(width, height), nil
}

// Release implements Device.
func (d *CPUDevice) Release(s *Surface) {
	if s == nil || s.data == nil {
		return
	}
	d.inUse -= s.Bytes()
	s.data = nil
}

// Dispatch implements Device.
func (d *CPUDevice) Dispatch(win Window, pass func(y int)) {
	if win.Empty() {
		return
	}
	end := win.Y + win.Height
	if d.workers <= 1 || win.Cells() < parallelThreshold {
		for y := win.Y; y < end; y++ {
			pass(y)
		}
		return
	}

	band := (win.Height + d.workers - 1) / d.workers
	var g errgroup.Group
	g.SetLimit(d.workers)
	for start := win.Y; start < end; start += band {
		stop := min(start+band, end)
		g.Go(func() error {
			for y := start; y < stop; y++ {
				pass(y)
			}
			return nil
		})
	}
	_ = g.Wait()
}
