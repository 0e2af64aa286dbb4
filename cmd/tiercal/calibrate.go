package main

import (
	"fmt"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/swarm/compute"
	"github.com/pthm-cable/swarm/config"
	"github.com/pthm-cable/swarm/engine"
	"github.com/pthm-cable/swarm/forces"
)

// warmupTicks run before timing starts.
const warmupTicks = 5

// TierResult is one measured tier, as written to the results CSV.
type TierResult struct {
	Width       int     `csv:"width"`
	Cells       int     `csv:"cells"`
	Ticks       int     `csv:"ticks"`
	MeanTickUS  float64 `csv:"mean_tick_us"`
	P90TickUS   float64 `csv:"p90_tick_us"`
	PredictedUS float64 `csv:"predicted_us"`
	FitsBudget  bool    `csv:"fits_budget"`
}

// Model is a linear tick cost: Intercept + Slope*cells microseconds.
type Model struct {
	Intercept float64
	Slope     float64
	R2        float64
}

// Predict returns the modelled tick cost in microseconds.
func (m Model) Predict(cells int) float64 {
	return m.Intercept + m.Slope*float64(cells)
}

// measureTier runs ticks fixed steps on a static grid of the given width with
// every cell active and returns per-tick timings.
func measureTier(cfg *config.Config, width, ticks int, seed int64) (TierResult, error) {
	caps := compute.Capabilities{
		FloatSurfaces:      true,
		VertexTextureSlots: max(1, cfg.Device.VertexTextureSlots),
		MaxSurfaceSize:     cfg.Device.MaxSurfaceSize,
	}
	e := engine.New(engine.Options{
		Mode:         engine.ModeStatic,
		Device:       compute.NewCPUDevice(caps, cfg.Device.Workers),
		StaticWidth:  width,
		MaxWidth:     width,
		InitialCount: width * width,
		Step:         cfg.Derived.Step,
	})
	defer e.Dispose()

	field := forces.NewField(forces.ParamsFromConfig(cfg.Forces), seed)
	if _, _, err := field.Declare(e); err != nil {
		return TierResult{}, err
	}
	if err := e.Initialize(); err != nil {
		return TierResult{}, err
	}
	if e.Width() != width {
		return TierResult{}, fmt.Errorf("tier %d: allocated %d instead", width, e.Width())
	}

	for i := 0; i < warmupTicks; i++ {
		if err := e.Tick(); err != nil {
			return TierResult{}, err
		}
	}

	samples := make([]float64, 0, ticks)
	for i := 0; i < ticks; i++ {
		start := time.Now()
		if err := e.Tick(); err != nil {
			return TierResult{}, err
		}
		samples = append(samples, float64(time.Since(start).Nanoseconds())/1e3)
	}
	slices.Sort(samples)

	return TierResult{
		Width:      width,
		Cells:      e.Capacity(),
		Ticks:      ticks,
		MeanTickUS: stat.Mean(samples, nil),
		P90TickUS:  stat.Quantile(0.9, stat.Empirical, samples, nil),
	}, nil
}

// FitModel fits tick cost against cell count by least squares.
func FitModel(results []TierResult) Model {
	if len(results) == 0 {
		return Model{}
	}
	xs := make([]float64, len(results))
	ys := make([]float64, len(results))
	for i, r := range results {
		xs[i] = float64(r.Cells)
		ys[i] = r.MeanTickUS
	}
	if len(results) == 1 {
		return Model{Slope: ys[0] / xs[0], R2: 1}
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return Model{
		Intercept: alpha,
		Slope:     beta,
		R2:        stat.RSquared(xs, ys, nil, alpha, beta),
	}
}

// Annotate fills in the predicted cost of each result and whether
// stepsPerFrame ticks fit in budgetUS.
func Annotate(results []TierResult, m Model, budgetUS, stepsPerFrame float64) {
	for i := range results {
		results[i].PredictedUS = m.Predict(results[i].Cells)
		results[i].FitsBudget = results[i].PredictedUS*stepsPerFrame <= budgetUS
	}
}

// LargestFitting returns the widest annotated tier within budget, or 0.
func LargestFitting(results []TierResult) int {
	best := 0
	for _, r := range results {
		if r.FitsBudget && r.Width > best {
			best = r.Width
		}
	}
	return best
}
