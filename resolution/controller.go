// Package resolution decides the simulation grid size at runtime from
// measured frame rate.
//
// The Controller keeps an ordered list of tier widths and steps one tier up or
// down only after a sustained streak of samples beyond a threshold tied to the
// display refresh rate. A tier change raises a one-shot rebuild flag that the
// orchestrator consumes between frames.
package resolution

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// Decision is the outcome of one frame sample.
type Decision int

const (
	Hold Decision = iota
	Upgrade
	Downgrade
)

func (d Decision) String() string {
	switch d {
	case Upgrade:
		return "upgrade"
	case Downgrade:
		return "downgrade"
	default:
		return "hold"
	}
}

// Params configures a Controller.
type Params struct {
	Tiers           []int   // Ascending grid widths
	RefreshRate     float64 // Display refresh rate in Hz
	HighFraction    float64 // Upgrade when FPS > RefreshRate*HighFraction
	LowFraction     float64 // Downgrade when FPS < RefreshRate*LowFraction
	UpgradeWindow   int     // Consecutive high samples required to upgrade
	DowngradeWindow int     // Consecutive low samples required to downgrade
	HistorySize     int     // FPS ring size; also the in-band run needed for stability
}

// DefaultParams returns the parameters used when nothing is configured.
func DefaultParams() Params {
	return Params{
		Tiers:           []int{64, 128, 256, 512, 1024},
		RefreshRate:     60,
		HighFraction:    0.95,
		LowFraction:     0.75,
		UpgradeWindow:   120,
		DowngradeWindow: 30,
		HistorySize:     180,
	}
}

// Controller tracks FPS history and tier streaks.
type Controller struct {
	p Params

	tier    int
	ceiling int // highest tier index allowed

	history []float64
	head    int
	filled  int

	highStreak   int
	lowStreak    int
	inBandStreak int

	stable   bool
	rebuild  bool
	settling bool // drop the next sample, it spans the rebuild stall

	last    time.Time
	hasLast bool

	onStable func(width int)
}

// NewController creates a controller starting at tier index initial.
func NewController(p Params, initial int) *Controller {
	if len(p.Tiers) == 0 {
		p.Tiers = DefaultParams().Tiers
	}
	if p.RefreshRate <= 0 {
		p.RefreshRate = 60
	}
	p.UpgradeWindow = max(1, p.UpgradeWindow)
	p.DowngradeWindow = max(1, p.DowngradeWindow)
	p.HistorySize = max(1, p.HistorySize)

	c := &Controller{
		p:       p,
		ceiling: len(p.Tiers) - 1,
		history: make([]float64, p.HistorySize),
	}
	c.tier = max(0, min(initial, c.ceiling))
	return c
}

// OnStable registers fn to be called once each time the controller becomes
// stable at a tier. It is the hook used to persist the tier hint.
func (c *Controller) OnStable(fn func(width int)) { c.onStable = fn }

// SetRefreshRate updates the refresh rate the thresholds derive from.
func (c *Controller) SetRefreshRate(hz float64) {
	if hz > 0 {
		c.p.RefreshRate = hz
	}
}

// Thresholds returns the current upgrade and downgrade FPS thresholds.
func (c *Controller) Thresholds() (high, low float64) {
	return c.p.RefreshRate * c.p.HighFraction, c.p.RefreshRate * c.p.LowFraction
}

// SampleFrame records a frame boundary at now. The first call only anchors
// the timer.
func (c *Controller) SampleFrame(now time.Time) Decision {
	if !c.hasLast {
		c.last = now
		c.hasLast = true
		return Hold
	}
	dt := now.Sub(c.last)
	c.last = now
	return c.SampleDelta(dt)
}

// SampleDelta records one frame duration.
func (c *Controller) SampleDelta(dt time.Duration) Decision {
	if dt <= 0 {
		return Hold
	}
	return c.SampleFPS(float64(time.Second) / float64(dt))
}

// SampleFPS records one instantaneous FPS value and applies the tier rules.
func (c *Controller) SampleFPS(fps float64) Decision {
	if c.settling {
		c.settling = false
		return Hold
	}
	c.push(fps)

	high, low := c.Thresholds()
	switch {
	case fps > high:
		c.highStreak++
		c.lowStreak = 0
	case fps < low:
		c.lowStreak++
		c.highStreak = 0
	default:
		c.highStreak = 0
		c.lowStreak = 0
	}

	if c.highStreak >= c.p.UpgradeWindow && c.tier < c.ceiling {
		c.change(c.tier + 1)
		return Upgrade
	}
	if c.lowStreak >= c.p.DowngradeWindow && c.tier > 0 {
		c.change(c.tier - 1)
		return Downgrade
	}

	// Saturated samples (high at the top tier, low at the bottom) cannot
	// trigger a change, so they count toward stability like in-band ones.
	saturated := (fps > high && c.tier == c.ceiling) || (fps < low && c.tier == 0)
	if (fps >= low && fps <= high) || saturated {
		c.inBandStreak++
	} else {
		c.inBandStreak = 0
	}
	c.highStreak = min(c.highStreak, c.p.UpgradeWindow)
	c.lowStreak = min(c.lowStreak, c.p.DowngradeWindow)

	if !c.stable && c.inBandStreak >= c.p.HistorySize {
		c.stable = true
		if c.onStable != nil {
			c.onStable(c.Width())
		}
	}
	return Hold
}

func (c *Controller) push(fps float64) {
	c.history[c.head] = fps
	c.head = (c.head + 1) % len(c.history)
	if c.filled < len(c.history) {
		c.filled++
	}
}

func (c *Controller) change(tier int) {
	c.tier = tier
	c.highStreak = 0
	c.lowStreak = 0
	c.inBandStreak = 0
	c.stable = false
	c.rebuild = true
	c.settling = true
	c.head = 0
	c.filled = 0
}

// ConsumeRebuildFlag returns and clears the one-shot rebuild flag.
func (c *Controller) ConsumeRebuildFlag() bool {
	r := c.rebuild
	c.rebuild = false
	return r
}

// Cap limits the controller to tiers at or below index ceiling, typically
// after the orchestrator failed to allocate a larger tier. If the current tier
// is above the cap it drops to the cap and raises the rebuild flag.
func (c *Controller) Cap(ceiling int) {
	ceiling = max(0, min(ceiling, len(c.p.Tiers)-1))
	c.ceiling = ceiling
	if c.tier > ceiling {
		c.change(ceiling)
	}
}

// SetTier moves to tier index i without raising the rebuild flag, for an
// orchestrator that already rebuilt at that tier.
func (c *Controller) SetTier(i int) {
	i = max(0, min(i, c.ceiling))
	if i == c.tier {
		return
	}
	c.change(i)
	c.rebuild = false
}

// Tier returns the current tier index.
func (c *Controller) Tier() int { return c.tier }

// Width returns the current tier width.
func (c *Controller) Width() int { return c.p.Tiers[c.tier] }

// Ceiling returns the highest allowed tier index.
func (c *Controller) Ceiling() int { return c.ceiling }

// Tiers returns the tier widths.
func (c *Controller) Tiers() []int { return c.p.Tiers }

// Stable reports whether the current tier has been held through a full
// in-band history window.
func (c *Controller) Stable() bool { return c.stable }

// Streaks returns the current high and low streak counters.
func (c *Controller) Streaks() (high, low int) { return c.highStreak, c.lowStreak }

// History returns the recorded FPS samples, oldest first.
func (c *Controller) History() []float64 {
	out := make([]float64, 0, c.filled)
	start := (c.head - c.filled + len(c.history)) % len(c.history)
	for i := 0; i < c.filled; i++ {
		out = append(out, c.history[(start+i)%len(c.history)])
	}
	return out
}

// MeanFPS returns the mean of the recorded history, or 0 if empty.
func (c *Controller) MeanFPS() float64 {
	if c.filled == 0 {
		return 0
	}
	return stat.Mean(c.History(), nil)
}

// TierIndex returns the index of width in tiers, or the largest tier not
// exceeding it. Returns 0 when width is below every tier.
func TierIndex(tiers []int, width int) int {
	idx := 0
	for i, w := range tiers {
		if w <= width {
			idx = i
		}
	}
	return idx
}
