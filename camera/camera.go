// Package camera provides an orbiting perspective camera for viewing the
// particle cloud.
package camera

import "math"

// Defaults matching a 50 degree lens 600 units from the origin.
const (
	DefaultDistance = 600
	DefaultFOV      = 50

	// pointScale sizes points relative to their depth.
	pointScale = 350

	nearPlane = 1
	maxPitch  = 1.5
)

// Camera orbits the origin. Yaw and Pitch rotate the world before projection;
// Zoom moves the eye closer.
type Camera struct {
	Yaw, Pitch float32

	// Distance from the origin at zoom 1
	Distance float32

	// Vertical field of view in degrees
	FOV float32

	// Zoom level (1.0 = default distance, 2.0 = half the distance)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Zoom constraints
	MinZoom, MaxZoom float32

	focal float32
}

// New creates a camera looking down the Z axis at the origin.
func New(viewportW, viewportH float32) *Camera {
	c := &Camera{
		Distance:  DefaultDistance,
		FOV:       DefaultFOV,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		MinZoom:   0.25,
		MaxZoom:   4.0,
	}
	c.updateFocal()
	return c
}

func (c *Camera) updateFocal() {
	half := float64(c.FOV) * math.Pi / 360
	c.focal = float32(float64(c.ViewportH) / 2 / math.Tan(half))
}

// eye returns the distance from the eye to the origin.
func (c *Camera) eye() float32 { return c.Distance / c.Zoom }

// rotate applies yaw around Y then pitch around X.
func (c *Camera) rotate(x, y, z float32) (float32, float32, float32) {
	cy, sy := cosf(c.Yaw), sinf(c.Yaw)
	x, z = x*cy+z*sy, -x*sy+z*cy
	cp, sp := cosf(c.Pitch), sinf(c.Pitch)
	y, z = y*cp-z*sp, y*sp+z*cp
	return x, y, z
}

// unrotate is the inverse of rotate.
func (c *Camera) unrotate(x, y, z float32) (float32, float32, float32) {
	cp, sp := cosf(c.Pitch), sinf(c.Pitch)
	y, z = y*cp+z*sp, -y*sp+z*cp
	cy, sy := cosf(c.Yaw), sinf(c.Yaw)
	x, z = x*cy-z*sy, x*sy+z*cy
	return x, y, z
}

// Project converts a world point to screen coordinates. depth is the distance
// along the view axis; ok is false for points behind the near plane.
func (c *Camera) Project(x, y, z float32) (sx, sy, depth float32, ok bool) {
	x, y, z = c.rotate(x, y, z)
	depth = c.eye() - z
	if depth < nearPlane {
		return 0, 0, depth, false
	}
	s := c.focal / depth
	sx = c.ViewportW/2 + x*s
	sy = c.ViewportH/2 - y*s
	return sx, sy, depth, true
}

// ScreenToWorld converts a screen point onto the plane through the origin
// facing the camera.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy, wz float32) {
	s := c.eye() / c.focal
	x := (sx - c.ViewportW/2) * s
	y := -(sy - c.ViewportH/2) * s
	return c.unrotate(x, y, 0)
}

// PointSize scales a base point size by depth.
func (c *Camera) PointSize(base, depth float32) float32 {
	if depth <= 0 {
		return base
	}
	return base * pointScale / depth
}

// IsVisible returns true if a point at screen position (sx, sy) with the given
// radius overlaps the viewport.
func (c *Camera) IsVisible(sx, sy, radius float32) bool {
	return sx >= -radius && sy >= -radius && sx <= c.ViewportW+radius && sy <= c.ViewportH+radius
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.updateFocal()
}

// Orbit rotates the camera by a screen-space drag in pixels.
func (c *Camera) Orbit(dx, dy float32) {
	const radPerPixel = 0.005
	c.Yaw = normalizeAngle(c.Yaw + dx*radPerPixel)
	c.Pitch = clamp(c.Pitch+dy*radPerPixel, -maxPitch, maxPitch)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the default orientation and zoom.
func (c *Camera) Reset() {
	c.Yaw, c.Pitch = 0, 0
	c.Zoom = 1.0
}

func sinf(x float32) float32 { return float32(math.Sin(float64(x))) }
func cosf(x float32) float32 { return float32(math.Cos(float64(x))) }

// normalizeAngle wraps an angle to [-Pi, Pi].
func normalizeAngle(a float32) float32 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
