package forces

import (
	"fmt"
	"math"
	"strings"
)

// Shape selects the target formation particles are pulled toward.
type Shape int

const (
	Sphere Shape = iota
	Cube
	Torus
	Fluid
	Galaxy
	Helix
	Wave
	Spiral
	Tesseract
	Mobius
	Rings
	Nebula
	Supernova
	Quasar
	CosmicWeb
	BinaryStars
	Wormhole
	DarkMatter
	SolarSystem
	BlackHole
	Klein
	Atom
	Hourglass
	numShapes
)

var shapeNames = [...]string{
	"sphere", "cube", "torus", "fluid", "galaxy", "helix", "wave", "spiral",
	"tesseract", "mobius", "rings", "nebula", "supernova", "quasar", "cosmic_web",
	"binary_stars", "wormhole", "dark_matter", "solar_system", "black_hole",
	"klein", "atom", "hourglass",
}

func (s Shape) String() string {
	if s < 0 || s >= numShapes {
		return fmt.Sprintf("shape(%d)", int(s))
	}
	return shapeNames[s]
}

// ParseShape looks up a shape by name, case-insensitively.
func ParseShape(name string) (Shape, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range shapeNames {
		if n == name {
			return Shape(i), nil
		}
	}
	return Sphere, fmt.Errorf("unknown shape %q", name)
}

// Shapes returns every shape in order.
func Shapes() []Shape {
	out := make([]Shape, numShapes)
	for i := range out {
		out[i] = Shape(i)
	}
	return out
}

// Next cycles to the following shape.
func (s Shape) Next() Shape { return (s + 1) % numShapes }

// Organic shapes get global curl-noise turbulence on top of their target pull.
func (s Shape) Organic() bool {
	switch s {
	case Fluid, Spiral, Nebula, CosmicWeb, DarkMatter:
		return true
	}
	return false
}

// Bands are the smoothed audio levels a shape may react to, each in [0,1].
type Bands struct {
	Sound, Bass, Mid, High float32 `inspect:"bar"`
}

const twoPi = 2 * math.Pi

// Target returns the formation point for a particle with per-cell random
// values rnd at time t. Formations span roughly 200 units.
func Target(s Shape, rnd Vec3, t float32, b Bands, curl *CurlNoise) Vec3 {
	switch s {
	case Cube:
		return cubeTarget(rnd, t, b)
	case Torus:
		return torusTarget(rnd, t, b)
	case Fluid:
		return fluidTarget(rnd, t, b, curl)
	case Galaxy:
		return galaxyTarget(rnd, t, b)
	case Helix:
		return helixTarget(rnd, t, b)
	case Wave:
		return waveTarget(rnd, t, b)
	case Spiral:
		return spiralTarget(rnd, t, b)
	case Tesseract:
		return tesseractTarget(rnd, t, b)
	case Mobius:
		return mobiusTarget(rnd, t, b)
	case Rings:
		return ringsTarget(rnd, t, b)
	case Nebula:
		return nebulaTarget(rnd, t, b, curl)
	case Supernova:
		return supernovaTarget(rnd, t, b)
	case Quasar:
		return quasarTarget(rnd, t, b)
	case CosmicWeb:
		return cosmicWebTarget(rnd, t, b, curl)
	case BinaryStars:
		return binaryStarsTarget(rnd, t, b)
	case Wormhole:
		return wormholeTarget(rnd, t, b)
	case DarkMatter:
		return darkMatterTarget(rnd, t, b, curl)
	case SolarSystem:
		return solarSystemTarget(rnd, t, b)
	case BlackHole:
		return blackHoleTarget(rnd, t, b)
	case Klein:
		return kleinTarget(rnd, t, b)
	case Atom:
		return atomTarget(rnd, t, b)
	case Hourglass:
		return hourglassTarget(rnd, t, b)
	default:
		return sphereTarget(rnd, t, b)
	}
}

func sphereTarget(rnd Vec3, t float32, b Bands) Vec3 {
	theta := rnd[0] * twoPi
	phi := acos(2*rnd[1] - 1)
	r := 100 + b.Sound*30
	p := Vec3{r * sin(phi) * cos(theta), r * sin(phi) * sin(theta), r * cos(phi)}

	// Panels pulse with the mids.
	const panel = 0.3
	pulse := sin(floor(theta/panel)+floor(phi/panel)+t*2)*0.5 + 0.5
	return p.Scale(1 + pulse*b.Mid*0.1)
}

func cubeTarget(rnd Vec3, t float32, b Bands) Vec3 {
	p := rnd.AddScalar(-0.5).Scale(200)

	// Every third 20-unit panel column rotates.
	const panel = 20
	id := floor(p[0]/panel) + floor(p[1]/panel) + floor(p[2]/panel)
	if int(math.Abs(float64(id)))%3 == 0 {
		p = rotateZ(p, t*0.3+b.Bass*0.5)
	}
	return tiltX(p, 0.611)
}

func torusTarget(rnd Vec3, t float32, b Bands) Vec3 {
	u := rnd[0] * twoPi
	v := rnd[1] * twoPi
	major := 80 + b.Sound*30
	minor := 30 + b.Sound*10
	p := Vec3{
		(major + minor*cos(v)) * cos(u),
		(major + minor*cos(v)) * sin(u),
		minor * sin(v),
	}
	p = rotateZ(p, t*0.5+b.Bass)
	if sqrt(p[0]*p[0]+p[1]*p[1]) < major*0.9 {
		p[2] += sin(u*5+t*3) * b.Mid * 5
	}
	return tiltX(p, 0.524)
}

func fluidTarget(rnd Vec3, t float32, b Bands, curl *CurlNoise) Vec3 {
	p := rnd.AddScalar(-0.5).Scale(300)
	if curl != nil {
		p = p.Add(curl.At(p.Scale(0.02).AddScalar(t * 0.1)).Scale(50 + b.Sound*30))
	}

	// A third of the particles reach out in tendrils.
	if rnd[1] < 0.3 {
		id := floor(rnd[0] * 8)
		angle := id * 0.785
		dir := Vec3{cos(angle), sin(t*2+id) * 0.5, sin(angle)}
		p = dir.Scale(rnd[2] * 150)
		p = p.Add(rnd.AddScalar(-0.5).Scale((1 - rnd[2]) * 15))
		p = p.AddScalar(sin(t*3+id) * b.Mid * 20)
	}
	ripple := Vec3{sin(p[0]*0.1 + t*2), sin(p[1]*0.1 + t*2), sin(p[2]*0.1 + t*2)}
	return p.Add(ripple.Scale(b.High * 10))
}

func galaxyTarget(rnd Vec3, t float32, b Bands) Vec3 {
	r := rnd[0] * 180
	const arms = 4
	arm := floor(rnd[1] * arms)
	angle := arm*(twoPi/arms) + r*0.15 + (rnd[2]-0.5)*0.3
	height := (rnd[2] - 0.5) * 8 * exp(-r*0.015)

	expand := 1 + b.Mid*0.2
	angle += b.Bass*0.3 + t*0.05
	p := Vec3{r * expand * cos(angle), height + b.High*15, r * expand * sin(angle)}
	return tiltX(p, 0.785)
}

func helixTarget(rnd Vec3, t float32, b Bands) Vec3 {
	s := (rnd[0] - 0.5) * 10 * math.Pi
	strand := floor(rnd[1] * 2)
	radius := 40 + b.Sound*20

	var p Vec3
	if rnd[2] < 0.85 {
		angle := s + strand*math.Pi
		p = Vec3{radius * cos(angle), s * 20, radius * sin(angle)}
	} else {
		// Base pairs bridge the two strands.
		mix := rnd[2]
		angle := s + math.Pi*mix
		r := radius * (1 - float32(math.Abs(float64(mix-0.5)))*0.3)
		p = Vec3{r * cos(angle), s * 20, r * sin(angle)}
	}
	p = rotateY(p, t*0.2)
	return tiltX(p, 0.524)
}

func waveTarget(rnd Vec3, t float32, b Bands) Vec3 {
	x := (rnd[0] - 0.5) * 400
	layer := floor(rnd[1] * 3)

	var wave, z float32
	switch {
	case layer < 1:
		wave, z = sin(x*0.03+t*4)*(b.Bass*60+10), -40
	case layer < 2:
		wave, z = sin(x*0.08-t*2.5)*(b.Mid*40+6), 0
	default:
		wave, z = sin(x*0.15+t*1.5)*(b.High*20+3), 40
	}
	p := Vec3{x, wave + (rnd[1]-0.5)*8, z + (rnd[2]-0.5)*15}

	// Loud passages wrap the spectrogram into a ring.
	if b.Bass+b.Mid+b.High > 1.5 {
		radius := 150 + wave*0.5
		angle := x / 400 * twoPi
		p[0] = radius * cos(angle)
		p[2] = radius*sin(angle) + z
	}
	return p
}

func spiralTarget(rnd Vec3, t float32, b Bands) Vec3 {
	s := rnd[0]
	angle := s*6*math.Pi + t*0.3 + b.Bass*0.5
	r := s * (150 + b.Sound*40)
	thickness := (rnd[1] - 0.5) * 20 * (1 - s)
	p := Vec3{r * cos(angle), thickness, r * sin(angle)}
	p = p.Add(rnd.AddScalar(-0.5).Scale(6 + b.High*6))
	return tiltX(p, 0.349)
}
