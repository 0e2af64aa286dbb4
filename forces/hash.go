package forces

import "math"

// Hash3 maps a texture coordinate to three pseudo-random values in [0,1).
// It is stable per cell, so every reset puts a particle back on the same
// point of the shape.
func Hash3(u, v float32) Vec3 {
	q := [3]float64{
		float64(u)*127.1 + float64(v)*311.7,
		float64(u)*269.5 + float64(v)*183.3,
		float64(u)*419.2 + float64(v)*371.9,
	}
	var out Vec3
	for i, x := range q {
		s := math.Sin(x) * 43758.5453
		out[i] = float32(s - math.Floor(s))
	}
	return out
}

// cellUV returns the texture coordinate of the center of cell i in a
// width x height grid.
func cellUV(i, width, height int) (float32, float32) {
	x, y := i%width, i/width
	return (float32(x) + 0.5) / float32(width), (float32(y) + 0.5) / float32(height)
}
