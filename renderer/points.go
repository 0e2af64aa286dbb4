// Package renderer draws the particle surfaces with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swarm/camera"
	"github.com/pthm-cable/swarm/compute"
)

// PointFrame is everything one draw call needs.
type PointFrame struct {
	Position compute.SurfaceRef
	Velocity compute.SurfaceRef
	Active   int
	Theme    Theme
	Time     float32 // display time
	Sound    float32
}

// PointRenderer draws each active particle as a depth-scaled point.
type PointRenderer struct {
	PointSize float32
	MaxPoints int // points drawn per frame; larger counts are strided

	drawn int
}

// NewPointRenderer creates a renderer.
func NewPointRenderer(pointSize float32, maxPoints int) *PointRenderer {
	return &PointRenderer{PointSize: pointSize, MaxPoints: maxPoints}
}

// Drawn returns the number of points drawn by the last Draw.
func (r *PointRenderer) Drawn() int { return r.drawn }

// Draw renders the first f.Active cells of the position surface. Stale
// surface references draw nothing.
func (r *PointRenderer) Draw(cam *camera.Camera, f PointFrame) {
	r.drawn = 0
	pos := f.Position.Surface()
	if pos == nil || f.Active <= 0 {
		return
	}
	var velData []float32
	if vel := f.Velocity.Surface(); vel != nil {
		velData = vel.Data()
	}
	data := pos.Data()
	w, h := pos.Width(), pos.Height()
	n := min(f.Active, w*h)

	stride := 1
	if r.MaxPoints > 0 && n > r.MaxPoints {
		stride = (n + r.MaxPoints - 1) / r.MaxPoints
	}

	for i := 0; i < n; i += stride {
		o := i * compute.Channels
		sx, sy, depth, ok := cam.Project(data[o], data[o+1], data[o+2])
		if !ok {
			continue
		}

		var speed float32
		if velData != nil {
			vx, vy, vz := velData[o], velData[o+1], velData[o+2]
			speed = sqrtf(vx*vx + vy*vy + vz*vz)
		}
		size := cam.PointSize(r.PointSize, depth) * (1 + speed*0.1)
		if !cam.IsVisible(sx, sy, size) {
			continue
		}

		u := (float32(i%w) + 0.5) / float32(w)
		v := (float32(i/w) + 0.5) / float32(h)
		c, a := ParticleColor(f.Theme, u, v, speed, f.Time, f.Sound)
		col := rl.Color{R: byteOf(c.R), G: byteOf(c.G), B: byteOf(c.B), A: byteOf(a)}

		if size < 1.5 {
			rl.DrawPixelV(rl.Vector2{X: sx, Y: sy}, col)
		} else {
			rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, size/2, col)
		}
		r.drawn++
	}
}

func byteOf(x float32) uint8 { return uint8(clamp01(x)*255 + 0.5) }
