package forces

import "math"

// Astronomical formations. The noise-driven ones take the curl field and fall
// back to flat noise when it is nil.

// ringGap lifts particles in the Cassini division out of view.
const ringGap = 1000

func ringsTarget(rnd Vec3, t float32, b Bands) Vec3 {
	r := 100 + rnd[1]*80
	theta := rnd[2] * twoPi
	spread := 1 + b.Mid*0.15
	p := Vec3{
		r * cos(theta) * spread,
		(rnd[1]-0.5)*2 + sin(r*0.1+t*5)*b.Bass*8,
		r * sin(theta) * spread,
	}
	if d := sqrt(p[0]*p[0] + p[2]*p[2]); d > 130 && d < 140 && rnd[0] < 0.7 {
		p[1] += ringGap
	}
	return tiltX(p, 0.785)
}

func nebulaTarget(rnd Vec3, t float32, b Bands, curl *CurlNoise) Vec3 {
	p := rnd.AddScalar(-0.5).Scale(300)
	q := p
	if noiseAt(curl, p.Scale(0.02)) <= 0 {
		q = p.Normalize().Scale(150)
	}
	q = q.Add(curlAt(curl, p.Scale(0.05).AddScalar(t*0.05)).Scale(20 + b.Sound*30))

	// Star-forming cores pull inward.
	if noiseAt(curl, p.Scale(0.01).AddScalar(t*0.1)) > 0.7 {
		q = q.Scale(0.7)
	}
	q = q.Scale(1 + b.Bass*0.2)
	q[1] += b.Mid * 20
	return tiltX(q, 0.349)
}

func supernovaTarget(rnd Vec3, t float32, b Bands) Vec3 {
	if rnd[1] < 0.3 {
		core := rnd.AddScalar(-0.5).Scale(50)
		return core.Add(core.Normalize().Scale(sin(t*3) * b.Bass * 40))
	}

	// Twelve double-helix threads burst outward.
	angle := floor(rnd[0]*12) * (twoPi / 12)
	s := rnd[2]
	dist := s * 200
	twist := s*12 + t*2 + floor(rnd[1]*2)*math.Pi
	radius := 15 + s*10
	hx, hy := radius*cos(twist), radius*sin(twist)

	ca, sa := cos(angle), sin(angle)
	p := Vec3{dist*ca + hx*ca - hy*sa, hy, dist*sa + hx*sa + hy*ca}
	p = p.Scale(1 + b.Mid*0.3)
	p[1] += sin(s*10+t*5) * b.High * 20
	return p
}

func quasarTarget(rnd Vec3, t float32, b Bands) Vec3 {
	var p Vec3
	if rnd[0] < 0.6 {
		// Accretion disk.
		rad := 20 + rnd[1]*100
		ang := rnd[2] * twoPi
		pulse := 1 + b.Bass*0.25
		p = Vec3{
			rad * cos(ang) * pulse,
			(rnd[0]-0.5)*3 + sin(rad*0.2+t*3)*b.Mid*10,
			rad * sin(ang) * pulse,
		}
	} else {
		// Polar jets.
		h := 60 + rnd[1]*180
		w := h * 0.08 * (1 + b.High*0.6)
		dir := float32(-1)
		if rnd[2] > 0.5 {
			dir = 1
		}
		p = Vec3{(rnd[0] - 0.5) * w, dir * h * (1 + b.Mid*0.2), (rnd[1] - 0.5) * w}
	}
	p = rotateY(p, t*2.5+b.Bass*2)
	return tiltX(p, 0.785)
}

func cosmicWebTarget(rnd Vec3, t float32, b Bands, curl *CurlNoise) Vec3 {
	p := rnd.AddScalar(-0.5).Scale(400)
	var q Vec3
	if abs(noiseAt(curl, p.Scale(0.015))) < 0.08 {
		// Filaments.
		q = p.Add(curlAt(curl, p.Scale(0.01)).Scale(30))
	} else {
		// Clusters gather on a 100-unit lattice.
		node := Vec3{floor(p[0] / 100), floor(p[1] / 100), floor(p[2] / 100)}.Scale(100)
		pulse := sin(node.Len()*0.01+t)*0.5 + 0.5
		q = node.Add(rnd.AddScalar(-0.5).Scale(40))
		q = q.Add(rnd.AddScalar(-0.5).Normalize().Scale(pulse * 20))
	}
	if noiseAt(curl, p.Scale(0.005)) > 0.5 {
		q = q.Scale(1.3)
	}
	return q.Add(curlAt(curl, p.Scale(0.02).AddScalar(t*0.1)).Scale(10 + b.Bass*40))
}

func binaryStarsTarget(rnd Vec3, t float32, b Bands) Vec3 {
	const orbit = 60
	angle := t * 0.8
	star := func(radius, phase float32) Vec3 {
		r := radius + rnd[1]*5
		theta := rnd[2] * twoPi
		phi := acos(2*rnd[1] - 1)
		a := angle + phase
		p := Vec3{
			r*sin(phi)*cos(theta) + orbit*cos(a),
			r * sin(phi) * sin(theta),
			r*cos(phi) + orbit*sin(a),
		}
		return p.Scale(1 + b.Bass*0.3)
	}

	var p Vec3
	switch {
	case rnd[0] < 0.35:
		p = star(35, 0)
	case rnd[0] < 0.7:
		p = star(30, math.Pi)
	default:
		// Mass transfer arcs from one star to the other.
		s := rnd[1]
		from := Vec3{orbit * cos(angle), 0, orbit * sin(angle)}
		to := from.Scale(-1)
		p = from.Add(to.Sub(from).Scale(s))
		w := 8 * (1 - abs(s-0.5)*2)
		p[0] += (rnd[2] - 0.5) * w
		p[1] += sin(s*math.Pi)*25 + (rnd[0]-0.5)*w*0.5 + b.Mid*10
	}
	return tiltX(p, 0.698)
}

func wormholeTarget(rnd Vec3, t float32, b Bands) Vec3 {
	r := 25 + rnd[0]*120 + b.Bass*40
	theta := rnd[1] * twoPi
	p := Vec3{r * cos(theta), 80 - 3000/(r+15), r * sin(theta)}

	// The throat spins faster than the rim.
	p = rotateY(p, t*(150/r)+b.Mid*3)
	p[1] += sin(r*0.1+t*2) * b.High * 30
	return tiltX(p, 0.785)
}

func darkMatterTarget(rnd Vec3, t float32, b Bands, curl *CurlNoise) Vec3 {
	p := rnd.AddScalar(-0.5).Scale(500)
	web := noiseAt(curl, p.Scale(0.008))

	var q Vec3
	if abs(web) < 0.15 {
		// Filaments lens toward the center, with Einstein rings every 80 units.
		d := p.Len()
		in := p.Scale(-1).Normalize()
		q = p.Add(in.Scale(100 / (d + 20) * sin(t*0.5)))
		if ring := mod(d, 80); ring < 5 {
			q = q.Add(in.Scale((5 - ring) * 3))
		}
	} else {
		q = p.Normalize().Scale(300 + web*100)
	}
	q = q.Add(curlAt(curl, p.Scale(0.01).AddScalar(t*0.05)).Scale(30 + b.Bass*40))
	q = q.Scale(1 + b.Mid*0.15)
	return rotateY(q, t*0.1)
}

// planets holds body radius and orbit radius, Mercury through Neptune.
var planets = [...]struct{ size, orbit float32 }{
	{3.5, 50}, {8.5, 75}, {9, 100}, {5, 130},
	{20, 180}, {17, 230}, {11, 280}, {10.5, 330},
}

func solarSystemTarget(rnd Vec3, t float32, b Bands) Vec3 {
	sel := rnd[1]
	var p Vec3
	switch {
	case sel < 0.15:
		// Sun.
		theta := rnd[0] * twoPi
		phi := acos(2*rnd[1] - 1)
		r := 25 * (0.85 + rnd[2]*0.15) * (1 + b.Bass*0.4)
		p = Vec3{r * sin(phi) * cos(theta), r * sin(phi) * sin(theta), r * cos(phi)}
	case sel < 0.25:
		// Asteroid belt between Mars and Jupiter.
		r := 145 + rnd[0]*25
		a := rnd[2] * twoPi
		p = Vec3{r * cos(a+t*0.3), (rnd[1] - 0.5) * 8, r * sin(a+t*0.3)}
		p = p.Add(rnd.AddScalar(-0.5).Scale(2))
		p[1] += sin(a*10+t*2) * b.Mid * 5
	default:
		band := min(int((sel-0.25)*10.67), len(planets)-1)
		pl := planets[band]
		theta := rnd[0] * twoPi
		phi := acos(2*rnd[2] - 1)
		r := pl.size * (0.9 + rnd[0]*0.1)
		// Outer planets orbit slower.
		rot := t * 250 / sqrt(pl.orbit) * 0.08
		p = Vec3{
			pl.orbit*cos(rot) + r*sin(phi)*cos(theta),
			r*sin(phi)*sin(theta) + sin(t*2+float32(band))*b.Mid*3,
			pl.orbit*sin(rot) + r*cos(phi),
		}
	}
	return tiltX(p, 0.2)
}

func blackHoleTarget(rnd Vec3, t float32, b Bands) Vec3 {
	var p Vec3
	switch r := rnd[0]; {
	case r < 0.05:
		// Event horizon.
		theta := rnd[1] * twoPi
		phi := acos(2*rnd[2] - 1)
		h := 15 * (1 + b.Bass*0.5)
		p = Vec3{h * sin(phi) * cos(theta), h * sin(phi) * sin(theta), h * cos(phi)}
	case r < 0.6:
		// Accretion disk, warped by lensing and brighter on the approaching side.
		d := 20 + rnd[1]*100
		a := rnd[2] * twoPi
		p = Vec3{d * cos(a), (rnd[0]-0.5)*3 + sin(a*3)*30/(d+5), d * sin(a)}
		if doppler := cos(a - t*3); doppler > 0 {
			p[1] += doppler * 5
		}
		p = rotateY(p, t*(1+b.Mid*2))
	default:
		// Photon ring, three stacked orbits.
		ring := 25 + rnd[1]*5
		level := floor(rnd[0] * 3)
		a := rnd[2]*twoPi + t*(5-level) + b.High*2
		p = Vec3{ring * cos(a), sin(a*2) * (3 + level*2), ring * sin(a)}
	}
	return tiltX(p, 1.047)
}
