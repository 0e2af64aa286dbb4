// Package components defines ECS components for interactive force sources.
package components

// Position is a point in simulation space.
type Position struct {
	X, Y, Z float32
}

// Velocity is the pointer's screen-space velocity in pixels per millisecond.
type Velocity struct {
	X, Y float32
}

// Well is a gravity well pulling particles within the well radius.
type Well struct {
	Strength float32 `inspect:"bar,max:2"`
	Age      float32 `inspect:"label,fmt:%.1fs"` // seconds since placed
	Lifetime float32 `inspect:"label,fmt:%.1fs"` // 0 never expires
	Serial   uint64  `inspect:"skip"`            // placement order
}

// Pointer is the user's cursor projected into simulation space.
type Pointer struct {
	Active bool    `inspect:"bool"` // cursor has moved inside the window
	Down   bool    `inspect:"bool"` // primary button held
	Blow   float32 `inspect:"bar"`  // scatter strength, decays when released

	// Last sampled screen position for velocity estimation.
	LastX, LastY float32 `inspect:"skip"`
	LastMS       float64 `inspect:"skip"`
}
