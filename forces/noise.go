package forces

import (
	"github.com/ojrac/opensimplex-go"
)

// curlEpsilon is the finite-difference step of the curl estimate.
const curlEpsilon = 0.1

// CurlNoise produces a divergence-free turbulence field from three decorrelated
// simplex noise channels. Safe for concurrent use once built.
type CurlNoise struct {
	noise opensimplex.Noise32
}

// NewCurlNoise creates a curl noise field from a seed.
func NewCurlNoise(seed int64) *CurlNoise {
	return &CurlNoise{noise: opensimplex.New32(seed)}
}

func (c *CurlNoise) vec(p Vec3) Vec3 {
	return Vec3{
		c.noise.Eval3(p[0], p[1], p[2]),
		c.noise.Eval3(p[1]-19.1, p[2]+33.4, p[0]+47.2),
		c.noise.Eval3(p[2]+74.2, p[0]-124.5, p[1]+99.4),
	}
}

// At returns the normalized curl of the noise field at p.
func (c *CurlNoise) At(p Vec3) Vec3 {
	dx := Vec3{curlEpsilon, 0, 0}
	dy := Vec3{0, curlEpsilon, 0}
	dz := Vec3{0, 0, curlEpsilon}

	px0, px1 := c.vec(p.Sub(dx)), c.vec(p.Add(dx))
	py0, py1 := c.vec(p.Sub(dy)), c.vec(p.Add(dy))
	pz0, pz1 := c.vec(p.Sub(dz)), c.vec(p.Add(dz))

	curl := Vec3{
		py1[2] - py0[2] - pz1[1] + pz0[1],
		pz1[0] - pz0[0] - px1[2] + px0[2],
		px1[1] - px0[1] - py1[0] + py0[0],
	}
	return curl.Scale(1 / (2 * curlEpsilon)).Normalize()
}

// Scalar returns the raw simplex value at p, roughly in [-1,1].
func (c *CurlNoise) Scalar(p Vec3) float32 {
	return c.noise.Eval3(p[0], p[1], p[2])
}

// noiseAt and curlAt treat a nil field as flat.
func noiseAt(c *CurlNoise, p Vec3) float32 {
	if c == nil {
		return 0
	}
	return c.Scalar(p)
}

func curlAt(c *CurlNoise, p Vec3) Vec3 {
	if c == nil {
		return Vec3{}
	}
	return c.At(p)
}
