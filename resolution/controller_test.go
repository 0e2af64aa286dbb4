package resolution

import (
	"testing"
	"time"
)

func testParams() Params {
	return Params{
		Tiers:           []int{64, 128, 256},
		RefreshRate:     60,
		HighFraction:    0.9, // 54 fps
		LowFraction:     0.5, // 30 fps
		UpgradeWindow:   10,
		DowngradeWindow: 5,
		HistorySize:     20,
	}
}

func TestHysteresisShortStreakDoesNotUpgrade(t *testing.T) {
	c := NewController(testParams(), 0)

	for i := 0; i < 9; i++ {
		if d := c.SampleFPS(55); d != Hold {
			t.Fatalf("sample %d: decision %v, want hold", i, d)
		}
	}
	c.SampleFPS(45) // drops into the band

	if c.Tier() != 0 {
		t.Errorf("tier = %d after a streak of upgradeWindow-1, want 0", c.Tier())
	}
	if c.ConsumeRebuildFlag() {
		t.Error("rebuild flag raised without an upgrade")
	}
	if high, _ := c.Streaks(); high != 0 {
		t.Errorf("high streak = %d after dropping, want 0", high)
	}
}

func TestHysteresisFullStreakUpgradesOnce(t *testing.T) {
	c := NewController(testParams(), 0)

	upgrades := 0
	for i := 0; i < 10; i++ {
		if c.SampleFPS(55) == Upgrade {
			upgrades++
		}
	}
	if upgrades != 1 {
		t.Fatalf("upgrades = %d, want 1", upgrades)
	}
	if c.Tier() != 1 || c.Width() != 128 {
		t.Errorf("tier = %d width = %d, want 1/128", c.Tier(), c.Width())
	}
	if high, low := c.Streaks(); high != 0 || low != 0 {
		t.Errorf("streaks = %d/%d after upgrade, want 0/0", high, low)
	}
	if !c.ConsumeRebuildFlag() {
		t.Error("rebuild flag not raised")
	}
	if c.ConsumeRebuildFlag() {
		t.Error("rebuild flag not cleared after consume")
	}
}

func TestDowngrade(t *testing.T) {
	c := NewController(testParams(), 2)
	var last Decision
	for i := 0; i < 5; i++ {
		last = c.SampleFPS(20)
	}
	if last != Downgrade || c.Tier() != 1 {
		t.Errorf("decision %v tier %d, want downgrade to 1", last, c.Tier())
	}
}

func TestNoChangeBeyondEnds(t *testing.T) {
	c := NewController(testParams(), 2)
	for i := 0; i < 50; i++ {
		if d := c.SampleFPS(120); d != Hold {
			t.Fatalf("decision %v at top tier", d)
		}
	}
	c = NewController(testParams(), 0)
	for i := 0; i < 50; i++ {
		if d := c.SampleFPS(5); d != Hold {
			t.Fatalf("decision %v at bottom tier", d)
		}
	}
}

func TestSampleAfterChangeIsDropped(t *testing.T) {
	c := NewController(testParams(), 0)
	for i := 0; i < 10; i++ {
		c.SampleFPS(55)
	}
	before := len(c.History())
	c.SampleFPS(2) // the frame spanning the rebuild
	if got := len(c.History()); got != before {
		t.Errorf("history grew from %d to %d on the settling sample", before, got)
	}
	if _, low := c.Streaks(); low != 0 {
		t.Errorf("low streak = %d, want 0", low)
	}
}

func TestStabilityPersistsOnce(t *testing.T) {
	c := NewController(testParams(), 1)
	var saved []int
	c.OnStable(func(w int) { saved = append(saved, w) })

	for i := 0; i < 60; i++ {
		c.SampleFPS(45)
	}
	if !c.Stable() {
		t.Fatal("controller not stable after a full in-band window")
	}
	if len(saved) != 1 || saved[0] != 128 {
		t.Errorf("saved = %v, want [128]", saved)
	}
}

func TestStabilityResetByBreak(t *testing.T) {
	c := NewController(testParams(), 1)
	for i := 0; i < 19; i++ {
		c.SampleFPS(45)
	}
	c.SampleFPS(57) // above band, not long enough to upgrade
	for i := 0; i < 19; i++ {
		c.SampleFPS(45)
	}
	if c.Stable() {
		t.Error("stable without an unbroken in-band window")
	}
}

func TestCapDropsTier(t *testing.T) {
	c := NewController(testParams(), 2)
	c.Cap(1)
	if c.Tier() != 1 || !c.ConsumeRebuildFlag() {
		t.Errorf("tier %d, want 1 with rebuild", c.Tier())
	}
	for i := 0; i < 100; i++ {
		c.SampleFPS(120)
	}
	if c.Tier() != 1 {
		t.Errorf("upgraded past cap to tier %d", c.Tier())
	}
}

func TestSampleFrame(t *testing.T) {
	c := NewController(testParams(), 0)
	now := time.Unix(0, 0)
	if d := c.SampleFrame(now); d != Hold || len(c.History()) != 0 {
		t.Fatal("first SampleFrame should only anchor")
	}
	for i := 0; i < 3; i++ {
		now = now.Add(20 * time.Millisecond)
		c.SampleFrame(now)
	}
	h := c.History()
	if len(h) != 3 || h[0] != 50 {
		t.Errorf("history = %v, want three samples of 50", h)
	}
	if c.MeanFPS() != 50 {
		t.Errorf("MeanFPS = %v, want 50", c.MeanFPS())
	}
}

func TestHistoryRingDropsOldest(t *testing.T) {
	p := testParams()
	p.HistorySize = 3
	c := NewController(p, 1)
	for _, f := range []float64{40, 41, 42, 43} {
		c.SampleFPS(f)
	}
	h := c.History()
	if len(h) != 3 || h[0] != 41 || h[2] != 43 {
		t.Errorf("history = %v, want [41 42 43]", h)
	}
}

func TestTierIndex(t *testing.T) {
	tiers := []int{64, 128, 256}
	tests := []struct{ width, want int }{
		{32, 0}, {64, 0}, {200, 1}, {256, 2}, {4096, 2},
	}
	for _, tt := range tests {
		if got := TierIndex(tiers, tt.width); got != tt.want {
			t.Errorf("TierIndex(%d) = %d, want %d", tt.width, got, tt.want)
		}
	}
}
