package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for one logging window.
type WindowStats struct {
	WindowStartFrame int64   `csv:"-"`
	WindowEndFrame   int64   `csv:"window_end"`
	SimTimeSec       float64 `csv:"sim_time"`
	WallTimeSec      float64 `csv:"wall_time"`

	// Frame rate distribution
	Frames  int     `csv:"frames"`
	FPSMean float64 `csv:"fps_mean"`
	FPSP10  float64 `csv:"fps_p10"`
	FPSP50  float64 `csv:"fps_p50"`
	FPSP90  float64 `csv:"fps_p90"`

	// Physics steps
	Ticks         int     `csv:"ticks"`
	StepsPerFrame float64 `csv:"steps_per_frame"`

	// Grid state at window end
	Mode        string `csv:"mode"`
	TierWidth   int    `csv:"tier_width"`
	Capacity    int    `csv:"capacity"`
	ActiveCount int    `csv:"active"`
	WindowRows  int    `csv:"window_rows"`

	// Events during window
	Rebuilds  int `csv:"rebuilds"`
	Fallbacks int `csv:"fallbacks"`
}

// FPSSummary is the distribution of frame rate samples in a window.
type FPSSummary struct {
	Mean, P10, P50, P90 float64
}

// SummarizeFPS computes the mean and empirical quantiles of samples without
// reordering them. No samples yield a zero summary.
func SummarizeFPS(samples []float64) FPSSummary {
	if len(samples) == 0 {
		return FPSSummary{}
	}
	sorted := slices.Sorted(slices.Values(samples))
	q := func(p float64) float64 { return stat.Quantile(p, stat.Empirical, sorted, nil) }
	return FPSSummary{
		Mean: stat.Mean(samples, nil),
		P10:  q(0.10),
		P50:  q(0.50),
		P90:  q(0.90),
	}
}

// LogValue implements slog.LogValuer.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("frame", s.WindowEndFrame),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Float64("fps_mean", s.FPSMean),
		slog.Float64("fps_p10", s.FPSP10),
		slog.Int("ticks", s.Ticks),
		slog.String("mode", s.Mode),
		slog.Int("tier_width", s.TierWidth),
		slog.Int("active", s.ActiveCount),
		slog.Int("rebuilds", s.Rebuilds),
	)
}

// LogStats logs the window summary.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
