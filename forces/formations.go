package forces

import "math"

// Geometric formations: parametric surfaces and small mechanical models.

func tesseractTarget(rnd Vec3, t float32, b Bands) Vec3 {
	// 32 edges: the free coordinate runs along one of four axes while the
	// other three sit on a corner of the unit hypercube.
	edge := int(rnd[0] * 32)
	axis, corner := edge/8, edge%8
	var p [4]float32
	for i, bit := 0, 0; i < 4; i++ {
		if i == axis {
			p[i] = rnd[1]*2 - 1
			continue
		}
		p[i] = -1
		if corner>>bit&1 == 1 {
			p[i] = 1
		}
		bit++
	}

	size := 80 + b.Sound*30
	scale := size
	if rnd[2] < 0.3 {
		// Vertices.
		scale = size * 1.1 / sqrt(p[0]*p[0]+p[1]*p[1]+p[2]*p[2]+p[3]*p[3])
	}
	for i := range p {
		p[i] *= scale
	}

	c, s := cos(t*0.5+b.Bass*0.5), sin(t*0.5+b.Bass*0.5)
	p[0], p[3] = p[0]*c-p[3]*s, p[0]*s+p[3]*c
	c, s = cos(t*0.3+b.Mid*0.3), sin(t*0.3+b.Mid*0.3)
	p[1], p[2] = p[1]*c-p[2]*s, p[1]*s+p[2]*c

	const dist = 200
	f := dist / (dist - p[3])
	return tiltX(Vec3{p[0] * f, p[1] * f, p[2] * f}, 0.611)
}

func mobiusTarget(rnd Vec3, t float32, b Bands) Vec3 {
	u := rnd[0] * twoPi
	v := rnd[1]*2 - 1
	radius := 80 + b.Sound*30
	strip := func(u, v float32) Vec3 {
		w := radius + v*20*cos(u*0.5)
		return Vec3{w * cos(u), w * sin(u), v * 20 * sin(u*0.5)}
	}

	p := strip(u, v)
	if rnd[2] < 0.3 {
		// Ants walk the strip.
		p = strip(mod(u+t*2, twoPi), v*0.8).Add(rnd.AddScalar(-0.5).Scale(2))
	}
	if abs(v) > 0.9 {
		p = p.Scale(1.02)
	}
	thickness := (1 - abs(v)) * 3
	p[0] += (rnd[0] - 0.5) * thickness
	p[1] += (rnd[1] - 0.5) * thickness

	p = rotateY(p, t*0.3+b.Bass*0.5)
	p[1] += sin(u*3+t*2) * b.Mid * 10
	return tiltX(p, 0.436)
}

func kleinTarget(rnd Vec3, t float32, b Bands) Vec3 {
	u := rnd[0] * twoPi
	v := rnd[1] * twoPi

	// Figure-8 immersion.
	const a = 30
	const root2 = float32(math.Sqrt2)
	ring := cos(u/2)*(root2+cos(v)) + sin(u/2)*sin(v)*cos(v)
	p := Vec3{
		a * cos(u) * ring,
		a * sin(u) * ring,
		a * (-sin(u/2)*(root2+cos(v)) + cos(u/2)*sin(v)*cos(v)),
	}

	// The inner sheet sits slightly inside the outer one.
	flow := (t*0.5 + b.Mid) * 0.1
	if sin(u+flow)*cos(v) > 0 {
		p = p.Scale(1.05)
	} else {
		p = p.Scale(0.95)
	}
	if rnd[2] < 0.3 {
		p = p.Add(rnd.AddScalar(-0.5).Scale(5))
	}
	p = rotateY(p, t*0.2+b.Bass*0.3)
	return tiltX(p, 0.524)
}

var shellTilt = [...]float32{0, 1.047, 0.698}

func atomTarget(rnd Vec3, t float32, b Bands) Vec3 {
	var p Vec3
	if rnd[0] < 0.15 {
		p = rnd.AddScalar(-0.5).Normalize().Scale(20 * (1 + b.Bass*0.5))
	} else {
		shell := floor(rnd[1]*3) + 1
		r := shell * 45
		// Inner shells orbit faster; rnd[0] smears each electron into a trail.
		theta := rnd[2]*twoPi + t*(6/shell) - rnd[0]*0.3
		orbit := tiltX(Vec3{r * cos(theta), 0, r * sin(theta)}, shellTilt[int(shell)-1])
		p = orbit.Add(rnd.AddScalar(-0.5).Scale(8 / shell))
		p = p.AddScalar(sin(t*10+shell*3) * b.High * 5)
	}
	return tiltX(p, 0.436)
}

func hourglassTarget(rnd Vec3, t float32, b Bands) Vec3 {
	// Grains fall slower near the bottom.
	dilation := 1 + (1-rnd[0])*0.5
	s := fract(rnd[0] + t*0.08/dilation)

	y := (0.5 - s) * 200
	width := max(3, 80*pow(abs(y)/100, 0.8))
	angle := rnd[1] * twoPi
	r := rnd[2] * width
	p := Vec3{r * cos(angle), y, r * sin(angle)}

	if 1-s > 0.8 {
		p[0] += (rnd[0] - 0.5) * 3
		p[2] += (rnd[2] - 0.5) * 3
	}
	if abs(y) < 20 {
		neck := (20 - abs(y)) / 20
		p[0] += sin(t*5+angle) * neck * 5
		p[2] += cos(t*5+angle) * neck * 5
	}
	p[0] += (rnd[0] - 0.5) * b.Bass * 12
	p[2] += (rnd[2] - 0.5) * b.Mid * 8
	return tiltX(p, 0.262)
}
