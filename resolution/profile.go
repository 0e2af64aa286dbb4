package resolution

import (
	"runtime"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// cellsPerCore is a rough count of cells one core can update per frame at
// 60 Hz with the default force program. It only seeds the first guess; the
// controller corrects it from measured frames.
const cellsPerCore = 16384

// surfaceBytesPerCell covers two variables, each double-buffered, four
// float32 channels.
const surfaceBytesPerCell = 2 * 2 * 4 * 4

// HardwareProfile is the capability estimate used to pick a starting tier.
type HardwareProfile struct {
	Cores          int
	MaxSurfaceSize int
	MemoryBudget   int64   // bytes, 0 = unlimited
	RefreshRate    float64 // Hz, 0 = unknown
}

// ProbeHardware fills a profile from the runtime. Surface size and memory
// come from the device configuration.
func ProbeHardware(maxSurfaceSize int, memoryBudget int64, refreshRate float64) HardwareProfile {
	return HardwareProfile{
		Cores:          runtime.GOMAXPROCS(0),
		MaxSurfaceSize: maxSurfaceSize,
		MemoryBudget:   memoryBudget,
		RefreshRate:    refreshRate,
	}
}

// Fits reports whether a width x width grid fits the profile's hard limits.
func (p HardwareProfile) Fits(width int) bool {
	if p.MaxSurfaceSize > 0 && width > p.MaxSurfaceSize {
		return false
	}
	if p.MemoryBudget > 0 && int64(width)*int64(width)*surfaceBytesPerCell > p.MemoryBudget {
		return false
	}
	return true
}

// MaxTier returns the highest tier index that fits the profile's hard limits.
func (p HardwareProfile) MaxTier(tiers []int) int {
	top := 0
	for i, w := range tiers {
		if p.Fits(w) {
			top = i
		}
	}
	return top
}

// InitialTier picks the starting tier. A persisted hint wins when it names a
// tier that fits; otherwise the largest tier within the per-core throughput
// estimate is used.
func InitialTier(tiers []int, p HardwareProfile, hintWidth int) int {
	top := p.MaxTier(tiers)
	if hintWidth > 0 {
		if i := slices.Index(tiers, hintWidth); i >= 0 && i <= top {
			return i
		}
	}

	cores := max(1, p.Cores)
	budget := int64(cores) * cellsPerCore
	if p.RefreshRate > 60 {
		budget = int64(float64(budget) * 60 / p.RefreshRate)
	}
	idx := 0
	for i := 0; i <= top; i++ {
		w := int64(tiers[i])
		if w*w <= budget {
			idx = i
		}
	}
	return idx
}

// commonRefreshRates are the display rates an estimate snaps to.
var commonRefreshRates = []float64{60, 75, 90, 120, 144, 165, 240}

// EstimateRefreshRate guesses the display refresh rate from uncapped-vsync
// FPS samples: the 90th percentile snapped to the nearest common rate.
// Returns 60 without samples.
func EstimateRefreshRate(fps []float64) float64 {
	clean := make([]float64, 0, len(fps))
	for _, f := range fps {
		if f > 0 {
			clean = append(clean, f)
		}
	}
	if len(clean) == 0 {
		return 60
	}
	slices.Sort(clean)
	q := stat.Quantile(0.9, stat.Empirical, clean, nil)

	best := commonRefreshRates[0]
	for _, r := range commonRefreshRates[1:] {
		if abs(r-q) < abs(best-q) {
			best = r
		}
	}
	return best
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
