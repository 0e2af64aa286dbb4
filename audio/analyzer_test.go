package audio

import (
	"math"
	"testing"
)

func pushTone(a *Analyzer, bin int) {
	p := a.Params()
	tone := &Tone{Freq: float64(bin) * 44100 / float64(p.FFTSize), Amplitude: 1, SampleRate: 44100}
	buf := make([]float32, p.FFTSize)
	tone.Fill(buf)
	a.Push(buf, 1)
}

func TestSilenceStaysQuiet(t *testing.T) {
	a := NewAnalyzer(DefaultParams())
	a.Push(make([]float32, 512), 2)
	for i := 0; i < 10; i++ {
		b := a.Update()
		if b.Sound != 0 {
			t.Fatalf("Sound = %v for silence, want 0", b.Sound)
		}
	}
}

func TestLowToneLouderThanHighTone(t *testing.T) {
	low := NewAnalyzer(DefaultParams())
	pushTone(low, 5)
	high := NewAnalyzer(DefaultParams())
	pushTone(high, 100)

	var lo, hi float64
	for i := 0; i < 30; i++ {
		lo = float64(low.Update().Sound)
		hi = float64(high.Update().Sound)
	}
	if lo < 0.01 {
		t.Errorf("low tone level = %v, want a clear response", lo)
	}
	if hi >= lo {
		t.Errorf("tone outside the averaged bins = %v, want below %v", hi, lo)
	}
}

func TestSmoothingAndBands(t *testing.T) {
	p := DefaultParams()
	a := NewAnalyzer(p)
	pushTone(a, 5)

	spectrum := a.Spectrum()
	var sum float64
	for _, l := range spectrum[:p.Bins] {
		sum += l
	}
	target := sum / float64(p.Bins)

	b := a.Update()
	if got, want := float64(b.Sound), target*p.Smoothing; math.Abs(got-want) > 1e-6 {
		t.Fatalf("first update Sound = %v, want %v", got, want)
	}
	if math.Abs(float64(b.Mid)-float64(b.Sound)*0.8) > 1e-6 || math.Abs(float64(b.High)-float64(b.Sound)*0.6) > 1e-6 {
		t.Errorf("bands %+v not scaled from sound", b)
	}
	if b.Bass != b.Sound {
		t.Errorf("Bass = %v, want %v", b.Bass, b.Sound)
	}

	before := a.Level()
	a.Decay()
	if a.Level() >= before {
		t.Errorf("Decay did not lower the level: %v -> %v", before, a.Level())
	}
}

func TestSensitivityScales(t *testing.T) {
	p := DefaultParams()
	p.Sensitivity = 0
	a := NewAnalyzer(p)
	pushTone(a, 5)
	if got := a.Update().Sound; got != 0 {
		t.Errorf("Sound = %v with zero sensitivity", got)
	}
}

func TestSpectrumLevelsInRange(t *testing.T) {
	a := NewAnalyzer(DefaultParams())
	pushTone(a, 20)
	s := a.Spectrum()
	if len(s) != 128 {
		t.Fatalf("len = %d, want 128", len(s))
	}
	for i, l := range s {
		if l < 0 || l > 1 {
			t.Fatalf("bin %d level %v outside [0,1]", i, l)
		}
	}
	if s[20] != 1 {
		t.Errorf("peak bin level = %v, want saturated", s[20])
	}
}

func TestSetParamsResize(t *testing.T) {
	a := NewAnalyzer(DefaultParams())
	pushTone(a, 5)
	p := a.Params()
	p.FFTSize = 512
	a.SetParams(p)
	if got := len(a.Spectrum()); got != 256 {
		t.Errorf("len = %d after resize, want 256", got)
	}
	if a.Update().Sound != 0 {
		t.Error("resize should drop buffered samples")
	}
}
