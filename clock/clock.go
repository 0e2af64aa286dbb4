// Package clock provides the fixed-timestep physics clock that decouples the
// simulation rate from the display rate.
package clock

import "time"

// Clock accumulates frame time and releases it as whole fixed steps.
//
// It keeps two independent times. SimTime advances by one scaled step per
// Tick and drives discrete physics. DisplayTime advances once per rendered
// frame and drives continuous visual animation, so visuals keep moving even
// when a frame drains zero steps.
type Clock struct {
	step     time.Duration
	maxAccum time.Duration
	accum    time.Duration

	timeScale       float64
	displayPerFrame float64 // fixed display advance per frame in seconds, 0 = use frame time

	simTime     float64
	displayTime float64
	steps       uint64
}

// New creates a clock releasing steps of the given duration. Accumulated time
// is capped at maxAccum so a long stall cannot queue unbounded catch-up steps.
func New(step, maxAccum time.Duration) *Clock {
	if step <= 0 {
		step = time.Second / 60
	}
	if maxAccum < step {
		maxAccum = step
	}
	return &Clock{
		step:      step,
		maxAccum:  maxAccum,
		timeScale: 1,
	}
}

// SetTimeScale scales how much simulated and display time each step or frame
// represents. It does not change the number of steps drained.
func (c *Clock) SetTimeScale(scale float64) {
	if scale < 0 {
		scale = 0
	}
	c.timeScale = scale
}

// TimeScale returns the current time scale.
func (c *Clock) TimeScale() float64 { return c.timeScale }

// SetDisplayPerFrame makes DisplayTime advance by a fixed amount per frame
// instead of by the measured frame time. 0 restores frame-time advance.
func (c *Clock) SetDisplayPerFrame(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	c.displayPerFrame = seconds
}

// Advance adds one rendered frame's wall-clock duration.
func (c *Clock) Advance(frame time.Duration) {
	if frame < 0 {
		frame = 0
	}
	c.accum += frame
	if c.accum > c.maxAccum {
		c.accum = c.maxAccum
	}

	if c.displayPerFrame > 0 {
		c.displayTime += c.displayPerFrame * c.timeScale
	} else {
		c.displayTime += frame.Seconds() * c.timeScale
	}
}

// DrainSteps returns how many fixed steps are due and removes them from the
// accumulator. The remainder carries over to the next frame.
func (c *Clock) DrainSteps() int {
	n := int(c.accum / c.step)
	if n == 0 {
		return 0
	}
	c.accum -= time.Duration(n) * c.step
	return n
}

// Tick records one executed step and returns the simulation time at its
// start. Steps run outside DrainSteps advance the same counter.
func (c *Clock) Tick() float32 {
	start := c.simTime
	c.simTime += c.step.Seconds() * c.timeScale
	c.steps++
	return float32(start)
}

// Step returns the fixed step duration.
func (c *Clock) Step() time.Duration { return c.step }

// StepSeconds returns the fixed step in seconds.
func (c *Clock) StepSeconds() float32 { return float32(c.step.Seconds()) }

// MaxAccumulation returns the accumulator cap.
func (c *Clock) MaxAccumulation() time.Duration { return c.maxAccum }

// Accumulated returns time not yet released as steps.
func (c *Clock) Accumulated() time.Duration { return c.accum }

// Alpha returns the fraction of a step currently accumulated, in [0,1).
func (c *Clock) Alpha() float64 { return float64(c.accum) / float64(c.step) }

// Steps returns the total number of steps ticked.
func (c *Clock) Steps() uint64 { return c.steps }

// SimTime returns stepped simulation time in seconds.
func (c *Clock) SimTime() float32 { return float32(c.simTime) }

// DisplayTime returns continuous display time in seconds.
func (c *Clock) DisplayTime() float32 { return float32(c.displayTime) }

// Reset clears the accumulator, keeping both times.
func (c *Clock) Reset() { c.accum = 0 }
