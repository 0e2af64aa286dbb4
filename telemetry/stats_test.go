package telemetry

import "testing"

func TestSummarizeFPS(t *testing.T) {
	tests := []struct {
		name    string
		samples []float64
		want    FPSSummary
	}{
		{"empty", nil, FPSSummary{}},
		{"single", []float64{60}, FPSSummary{Mean: 60, P10: 60, P50: 60, P90: 60}},
		{
			"stutter",
			[]float64{60, 30, 55, 58, 59, 61, 60, 62, 45, 60},
			FPSSummary{Mean: 55, P10: 30, P50: 59, P90: 61},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SummarizeFPS(tt.samples); got != tt.want {
				t.Errorf("SummarizeFPS(%v) = %+v, want %+v", tt.samples, got, tt.want)
			}
		})
	}
}

func TestSummarizeFPSKeepsOrder(t *testing.T) {
	samples := []float64{60, 30, 45}
	SummarizeFPS(samples)
	if samples[1] != 30 {
		t.Errorf("samples reordered: %v", samples)
	}
}
