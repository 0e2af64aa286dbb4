package forces

import "math"

// Vec3 is a 3-component float vector.
type Vec3 [3]float32

func (a Vec3) Add(b Vec3) Vec3          { return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }
func (a Vec3) Sub(b Vec3) Vec3          { return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }
func (a Vec3) Scale(s float32) Vec3     { return Vec3{a[0] * s, a[1] * s, a[2] * s} }
func (a Vec3) AddScalar(s float32) Vec3 { return Vec3{a[0] + s, a[1] + s, a[2] + s} }
func (a Vec3) Dot(b Vec3) float32       { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

// Len returns the Euclidean length.
func (a Vec3) Len() float32 {
	return float32(math.Sqrt(float64(a.Dot(a))))
}

// Normalize returns a unit vector, or zero for a zero vector.
func (a Vec3) Normalize() Vec3 {
	l := a.Len()
	if l == 0 {
		return Vec3{}
	}
	return a.Scale(1 / l)
}

// Cross returns a x b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// tiltX rotates around the X axis by angle radians.
func tiltX(v Vec3, angle float32) Vec3 {
	c, s := cos(angle), sin(angle)
	return Vec3{v[0], v[1]*c - v[2]*s, v[1]*s + v[2]*c}
}

// rotateY rotates around the Y axis.
func rotateY(v Vec3, angle float32) Vec3 {
	c, s := cos(angle), sin(angle)
	return Vec3{v[0]*c - v[2]*s, v[1], v[0]*s + v[2]*c}
}

// rotateZ rotates around the Z axis.
func rotateZ(v Vec3, angle float32) Vec3 {
	c, s := cos(angle), sin(angle)
	return Vec3{v[0]*c - v[1]*s, v[0]*s + v[1]*c, v[2]}
}

func sin(x float32) float32   { return float32(math.Sin(float64(x))) }
func cos(x float32) float32   { return float32(math.Cos(float64(x))) }
func acos(x float32) float32  { return float32(math.Acos(float64(x))) }
func exp(x float32) float32   { return float32(math.Exp(float64(x))) }
func sqrt(x float32) float32  { return float32(math.Sqrt(float64(x))) }
func floor(x float32) float32 { return float32(math.Floor(float64(x))) }

// fract returns x - floor(x).
func fract(x float32) float32 { return x - floor(x) }
func abs(x float32) float32    { return float32(math.Abs(float64(x))) }
func pow(x, y float32) float32 { return float32(math.Pow(float64(x), float64(y))) }

// mod returns x modulo m with the sign of m.
func mod(x, m float32) float32 { return x - m*floor(x/m) }
