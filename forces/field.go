// Package forces provides the per-particle update programs: a pull toward an
// enum-selected formation, curl-noise turbulence, pointer and click
// interaction, blow scatter, gravity wells and audio reactivity.
package forces

import (
	"github.com/pthm-cable/swarm/compute"
	"github.com/pthm-cable/swarm/config"
	"github.com/pthm-cable/swarm/engine"
)

// Variable names of the two state surfaces.
const (
	VarVelocity = "velocity"
	VarPosition = "position"
)

// MaxWells is the number of gravity wells the velocity program evaluates.
const MaxWells = 5

// Params are the tunable force constants.
type Params struct {
	Spring       float32
	Damping      float32
	Speed        float32
	ShapeScale   float32 // formation size relative to the base 100-unit radius
	CurlStrength float32
	CurlScale    float32
	CurlSpeed    float32

	MouseRadius      float32
	MouseStrength    float32
	MouseVelRadius   float32
	MouseVelStrength float32
	ClickPull        float32
	ClickSwirl       float32
	BlowStrength     float32
	WellRadius       float32
	WellStrength     float32
	ResetExtent      float32
	AudioPulse       float32
}

// DefaultParams returns the stock force constants.
func DefaultParams() Params {
	return Params{
		Spring:           0.05,
		Damping:          0.92,
		Speed:            0.6,
		ShapeScale:       1,
		CurlStrength:     0.4,
		CurlScale:        0.02,
		CurlSpeed:        0.2,
		MouseRadius:      80,
		MouseStrength:    20,
		MouseVelRadius:   100,
		MouseVelStrength: 50,
		ClickPull:        5,
		ClickSwirl:       2,
		BlowStrength:     30,
		WellRadius:       200,
		WellStrength:     2,
		ResetExtent:      400,
	}
}

// ParamsFromConfig converts the forces config section.
func ParamsFromConfig(c config.ForcesConfig) Params {
	return Params{
		Spring:           float32(c.Spring),
		Damping:          float32(c.Damping),
		Speed:            float32(c.Speed),
		ShapeScale:       float32(c.ShapeScale / 100),
		CurlStrength:     float32(c.CurlStrength),
		CurlScale:        float32(c.CurlScale),
		CurlSpeed:        float32(c.CurlSpeed),
		MouseRadius:      float32(c.MouseRadius),
		MouseStrength:    float32(c.MouseStrength),
		MouseVelRadius:   float32(c.MouseVelRadius),
		MouseVelStrength: float32(c.MouseVelStrength),
		ClickPull:        float32(c.ClickPull),
		ClickSwirl:       float32(c.ClickSwirl),
		BlowStrength:     float32(c.BlowStrength),
		WellRadius:       float32(c.WellRadius),
		WellStrength:     float32(c.WellStrength),
		ResetExtent:      float32(c.ResetExtent),
		AudioPulse:       float32(c.AudioPulse),
	}
}

// Well is a point attractor.
type Well struct {
	Pos      Vec3
	Strength float32
}

// Uniforms are the per-frame inputs shared by every cell.
type Uniforms struct {
	Shape       Shape
	Reset       bool // scatter particles and zero velocity this tick
	Mouse       Vec3
	MouseActive bool
	MouseVel    [2]float32
	Click       bool // black-hole pull toward the origin
	Blow        float32
	Wells       [MaxWells]Well
	WellCount   int
	Bands       Bands
}

// Field owns the force parameters and the uniforms the programs read.
// Uniforms must only change between ticks.
type Field struct {
	params Params
	curl   *CurlNoise
	u      Uniforms
}

// NewField creates a field with a noise seed.
func NewField(p Params, seed int64) *Field {
	return &Field{params: p, curl: NewCurlNoise(seed)}
}

// Params returns the force constants.
func (f *Field) Params() Params { return f.params }

// SetParams replaces the force constants, e.g. after a config reload.
func (f *Field) SetParams(p Params) { f.params = p }

// Uniforms returns a copy of the current uniforms.
func (f *Field) Uniforms() Uniforms { return f.u }

// SetUniforms replaces the uniforms for the following ticks.
func (f *Field) SetUniforms(u Uniforms) {
	u.WellCount = max(0, min(u.WellCount, MaxWells))
	f.u = u
}

// ClearReset drops the reset pulse once it has been applied.
func (f *Field) ClearReset() { f.u.Reset = false }

// Declare adds velocity and position to e, both reading the current buffers
// of each other.
func (f *Field) Declare(e *engine.Engine) (vel, pos engine.Var, err error) {
	vel, err = e.DeclareVariable(VarVelocity, f.Velocity, nil)
	if err != nil {
		return vel, pos, err
	}
	pos, err = e.DeclareVariable(VarPosition, f.Position, f.SeedPositions)
	if err != nil {
		return vel, pos, err
	}
	if err := e.SetDependencies(vel, pos, vel); err != nil {
		return vel, pos, err
	}
	if err := e.SetDependencies(pos, pos, vel); err != nil {
		return vel, pos, err
	}
	return vel, pos, nil
}

// SeedPositions scatters every cell through the reset cube.
func (f *Field) SeedPositions(width, height int) []float32 {
	data := make([]float32, width*height*compute.Channels)
	for i := 0; i < width*height; i++ {
		u, v := cellUV(i, width, height)
		p := Hash3(u, v).AddScalar(-0.5).Scale(f.params.ResetExtent)
		data[i*4], data[i*4+1], data[i*4+2], data[i*4+3] = p[0], p[1], p[2], 1
	}
	return data
}

func xyz(v compute.Vec4) Vec3 { return Vec3{v[0], v[1], v[2]} }

// Velocity is the velocity update program.
func (f *Field) Velocity(in *compute.Inputs, c compute.Cell, g compute.Globals) compute.Vec4 {
	if f.u.Reset {
		return compute.Vec4{0, 0, 0, 1}
	}
	p := &f.params
	u := &f.u
	pos := xyz(in.Read(VarPosition))
	vel := xyz(in.Read(VarVelocity))

	rnd := Hash3(c.U, c.V)
	target := Target(u.Shape, rnd, g.Time, u.Bands, f.curl).Scale(p.ShapeScale)
	force := target.Sub(pos).Scale(p.Spring)

	if u.Shape.Organic() && p.CurlStrength != 0 {
		q := pos.Scale(p.CurlScale).AddScalar(g.Time * p.CurlSpeed)
		force = force.Add(f.curl.At(q).Scale(p.CurlStrength))
	}

	if u.MouseActive {
		diff := pos.Sub(u.Mouse)
		if d := diff.Len(); d < p.MouseRadius {
			force = force.Add(diff.Normalize().Scale((1 - d/p.MouseRadius) * p.MouseStrength))
		}
	}

	if speed := sqrt(u.MouseVel[0]*u.MouseVel[0] + u.MouseVel[1]*u.MouseVel[1]); speed > 0.01 {
		diff := pos.Sub(u.Mouse)
		if d := diff.Len(); d < p.MouseVelRadius {
			force = force.Add(diff.Normalize().Scale((1 - d/p.MouseVelRadius) * speed * p.MouseVelStrength))
		}
	}

	if u.Blow > 0.5 {
		force = force.Add(rnd.AddScalar(-0.5).Normalize().Scale(u.Blow * p.BlowStrength))
	}

	for i := 0; i < u.WellCount; i++ {
		w := u.Wells[i]
		if w.Strength <= 0 {
			continue
		}
		diff := w.Pos.Sub(pos)
		if d := diff.Len(); d < p.WellRadius {
			force = force.Add(diff.Normalize().Scale((1 - d/p.WellRadius) * w.Strength * p.WellStrength))
		}
	}

	if u.Click {
		dir := pos.Scale(-1).Normalize()
		force = force.Add(dir.Scale(p.ClickPull))
		force = force.Add(dir.Cross(Vec3{0, 1, 0}).Scale(p.ClickSwirl))
	}

	if p.AudioPulse != 0 && u.Bands.Bass > 0 {
		force = force.Add(pos.Normalize().Scale(u.Bands.Bass * p.AudioPulse))
	}

	vel = vel.Add(force).Scale(p.Damping)
	return compute.Vec4{vel[0], vel[1], vel[2], 1}
}

// Position is the position update program.
func (f *Field) Position(in *compute.Inputs, c compute.Cell, g compute.Globals) compute.Vec4 {
	if f.u.Reset {
		r := Hash3(c.U, c.V).AddScalar(-0.5).Scale(f.params.ResetExtent)
		return compute.Vec4{r[0], r[1], r[2], 1}
	}
	pos := xyz(in.Read(VarPosition))
	vel := xyz(in.Read(VarVelocity))
	pos = pos.Add(vel.Scale(f.params.Speed))
	return compute.Vec4{pos[0], pos[1], pos[2], 1}
}
