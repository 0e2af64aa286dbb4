// Package compute runs full-grid update programs over double-buffered
// floating-point surfaces, the way a fragment-shader GPGPU pipeline does.
//
// A Simulation owns one generation of surfaces at a fixed grid size. Each
// declared variable gets two surfaces; every tick reads the current surface
// of each dependency and writes the next surface of the variable, then all
// variables flip together.
package compute

// Channels is the number of float components stored per cell.
const Channels = 4

// Vec4 is one cell value: xyz carry the state, w carries life/auxiliary data.
type Vec4 [4]float32

// Surface is a 2-D grid of Vec4 cells stored row-major.
type Surface struct {
	width, height int
	data          []float32
}

func newSurface(width, height int) *Surface {
	return &Surface{
		width:  width,
		height: height,
		data:   make([]float32, width*height*Channels),
	}
}

// Width returns the surface width in cells.
func (s *Surface) Width() int { return s.width }

// Height returns the surface height in cells.
func (s *Surface) Height() int { return s.height }

// Bytes returns the memory held by the surface.
func (s *Surface) Bytes() int64 { return SurfaceBytes(s.width, s.height) }

// At returns the cell at (x, y). Coordinates are clamped to the edge, matching
// clamp-to-edge texture sampling.
func (s *Surface) At(x, y int) Vec4 {
	if x < 0 {
		x = 0
	} else if x >= s.width {
		x = s.width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= s.height {
		y = s.height - 1
	}
	i := (y*s.width + x) * Channels
	return Vec4{s.data[i], s.data[i+1], s.data[i+2], s.data[i+3]}
}

// set writes a cell without bounds clamping.
func (s *Surface) set(x, y int, v Vec4) {
	i := (y*s.width + x) * Channels
	copy(s.data[i:i+Channels], v[:])
}

// Row returns the raw channel data of row y.
func (s *Surface) Row(y int) []float32 {
	start := y * s.width * Channels
	return s.data[start : start+s.width*Channels]
}

// Data returns the raw channel data, row-major, Channels floats per cell.
// Callers must treat it as read-only.
func (s *Surface) Data() []float32 { return s.data }

// SurfaceBytes returns the memory needed for a width x height surface.
func SurfaceBytes(width, height int) int64 {
	return int64(width) * int64(height) * Channels * 4
}

// Fill returns a channel slice for a width x height surface with every cell
// set to v. Useful as initial data.
func Fill(width, height int, v Vec4) []float32 {
	data := make([]float32, width*height*Channels)
	for i := 0; i < len(data); i += Channels {
		copy(data[i:i+Channels], v[:])
	}
	return data
}
