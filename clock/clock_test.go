package clock

import (
	"math"
	"testing"
	"time"
)

func TestClockConservation(t *testing.T) {
	c := New(time.Second/60, 200*time.Millisecond)

	var total time.Duration
	steps := 0
	for i := 0; i < 10; i++ {
		c.Advance(16 * time.Millisecond)
		total += 16 * time.Millisecond
		steps += c.DrainSteps()
	}

	if steps != 9 {
		t.Errorf("drained %d steps over 160ms, want 9", steps)
	}
	if got := time.Duration(steps)*c.Step() + c.Accumulated(); got != total {
		t.Errorf("steps*step + remainder = %v, want %v", got, total)
	}
}

func TestClockConservationVaried(t *testing.T) {
	c := New(time.Second/60, 200*time.Millisecond)
	frames := []time.Duration{
		5 * time.Millisecond, 33 * time.Millisecond, 17 * time.Millisecond,
		16666667, 90 * time.Millisecond, 1 * time.Millisecond, 49 * time.Millisecond,
	}

	var total time.Duration
	steps := 0
	for _, f := range frames {
		c.Advance(f)
		total += f
		if f%3 == 0 {
			continue // drain lazily on some frames
		}
		steps += c.DrainSteps()
	}
	steps += c.DrainSteps()

	if got := time.Duration(steps)*c.Step() + c.Accumulated(); got != total {
		t.Errorf("steps*step + remainder = %v, want %v", got, total)
	}
	if c.Accumulated() >= c.Step() {
		t.Errorf("remainder %v not below one step after drain", c.Accumulated())
	}
}

func TestClockClampsStall(t *testing.T) {
	c := New(time.Second/60, 200*time.Millisecond)
	c.Advance(5 * time.Second)

	if c.Accumulated() != 200*time.Millisecond {
		t.Fatalf("accumulated %v, want clamp at 200ms", c.Accumulated())
	}
	if n := c.DrainSteps(); n != 12 {
		t.Errorf("drained %d steps after stall, want 12", n)
	}
}

func TestClockTwoTimes(t *testing.T) {
	c := New(time.Second/60, 200*time.Millisecond)
	c.SetTimeScale(2)

	// A short frame drains no steps but display time still moves.
	c.Advance(5 * time.Millisecond)
	if n := c.DrainSteps(); n != 0 {
		t.Fatalf("drained %d steps, want 0", n)
	}
	if c.SimTime() != 0 {
		t.Errorf("SimTime = %v, want 0", c.SimTime())
	}
	if got := c.DisplayTime(); math.Abs(float64(got)-0.010) > 1e-6 {
		t.Errorf("DisplayTime = %v, want 0.010", got)
	}

	// A long frame: display time is not clamped, sim time is.
	c.Advance(time.Second)
	n := c.DrainSteps()
	for range n {
		c.Tick()
	}
	wantSim := float64(n) * (1.0 / 60.0) * 2
	if math.Abs(float64(c.SimTime())-wantSim) > 1e-5 {
		t.Errorf("SimTime = %v, want %v", c.SimTime(), wantSim)
	}
	if got := c.DisplayTime(); math.Abs(float64(got)-2.010) > 1e-5 {
		t.Errorf("DisplayTime = %v, want 2.010", got)
	}
}

func TestClockDisplayPerFrame(t *testing.T) {
	c := New(time.Second/60, 200*time.Millisecond)
	c.SetDisplayPerFrame(0.01)
	for i := 0; i < 3; i++ {
		c.Advance(100 * time.Millisecond)
	}
	if got := c.DisplayTime(); math.Abs(float64(got)-0.03) > 1e-6 {
		t.Errorf("DisplayTime = %v, want 0.03", got)
	}
}

func TestClockTickAdvancesSimTime(t *testing.T) {
	c := New(time.Second/60, 200*time.Millisecond)
	c.Advance(50 * time.Millisecond)
	if n := c.DrainSteps(); n != 3 {
		t.Fatalf("drained %d, want 3", n)
	}
	if c.SimTime() != 0 {
		t.Fatalf("SimTime = %v before any tick, want 0", c.SimTime())
	}

	starts := []float32{c.Tick(), c.Tick(), c.Tick()}
	for i, got := range starts {
		want := float64(i) / 60
		if math.Abs(float64(got)-want) > 1e-6 {
			t.Errorf("tick %d started at %v, want %v", i, got, want)
		}
	}

	// A tick outside any drained batch moves the same counter.
	c.SetTimeScale(0.5)
	c.Tick()
	want := 3.0/60 + 0.5/60
	if math.Abs(float64(c.SimTime())-want) > 1e-6 {
		t.Errorf("SimTime = %v, want %v", c.SimTime(), want)
	}
	if c.Steps() != 4 {
		t.Errorf("Steps = %d, want 4", c.Steps())
	}
}
