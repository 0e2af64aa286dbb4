package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/swarm/config"
)

func TestFitModelRecoversLine(t *testing.T) {
	results := []TierResult{
		{Width: 64, Cells: 4096},
		{Width: 128, Cells: 16384},
		{Width: 256, Cells: 65536},
	}
	for i := range results {
		results[i].MeanTickUS = 20 + 0.01*float64(results[i].Cells)
	}

	m := FitModel(results)
	if math.Abs(m.Intercept-20) > 1e-6 || math.Abs(m.Slope-0.01) > 1e-9 {
		t.Errorf("model = %+v, want intercept 20 slope 0.01", m)
	}
	if math.Abs(m.R2-1) > 1e-9 {
		t.Errorf("R2 = %v, want 1", m.R2)
	}
}

func TestLargestFitting(t *testing.T) {
	results := []TierResult{
		{Width: 64, Cells: 4096},
		{Width: 128, Cells: 16384},
		{Width: 256, Cells: 65536},
	}
	m := Model{Intercept: 10, Slope: 0.1}

	tests := []struct {
		budget float64
		steps  float64
		want   int
	}{
		{budget: 10000, steps: 1, want: 256},
		{budget: 2000, steps: 1, want: 128},
		{budget: 2000, steps: 2, want: 64},
		{budget: 100, steps: 1, want: 0},
	}
	for _, tt := range tests {
		Annotate(results, m, tt.budget, tt.steps)
		if got := LargestFitting(results); got != tt.want {
			t.Errorf("budget %v steps %v: got %d, want %d", tt.budget, tt.steps, got, tt.want)
		}
	}
}

func TestMeasureTier(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	r, err := measureTier(cfg, 16, 3, 1)
	if err != nil {
		t.Fatalf("measureTier: %v", err)
	}
	if r.Width != 16 || r.Cells != 256 || r.Ticks != 3 {
		t.Errorf("result = %+v, want width 16, 256 cells, 3 ticks", r)
	}
	if r.P90TickUS < r.MeanTickUS*0.5 {
		t.Errorf("p90 %v implausibly below mean %v", r.P90TickUS, r.MeanTickUS)
	}
}
