// Package audio turns PCM samples into the smoothed loudness levels the force
// programs react to.
package audio

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/pthm-cable/swarm/config"
	"github.com/pthm-cable/swarm/forces"
)

// Decibel range mapped onto [0,1] spectrum levels.
const (
	minDecibels = -100.0
	maxDecibels = -30.0
)

// Params configure an Analyzer.
type Params struct {
	FFTSize     int
	Bins        int     // leading spectrum bins averaged into the sound level
	Sensitivity float64 // multiplier on the averaged level
	Smoothing   float64 // lerp factor toward each new level
	BassScale   float64
	MidScale    float64
	HighScale   float64
}

// DefaultParams returns the stock analyzer settings.
func DefaultParams() Params {
	return Params{
		FFTSize:     256,
		Bins:        50,
		Sensitivity: 1,
		Smoothing:   0.2,
		BassScale:   1,
		MidScale:    0.8,
		HighScale:   0.6,
	}
}

// ParamsFromConfig converts the audio config section.
func ParamsFromConfig(c config.AudioConfig) Params {
	p := Params{
		FFTSize:     c.FFTSize,
		Bins:        c.Bins,
		Sensitivity: c.Sensitivity,
		Smoothing:   c.Smoothing,
		BassScale:   c.BassScale,
		MidScale:    c.MidScale,
		HighScale:   c.HighScale,
	}
	d := DefaultParams()
	if p.FFTSize < 2 {
		p.FFTSize = d.FFTSize
	}
	if p.Bins <= 0 {
		p.Bins = d.Bins
	}
	return p
}

// Analyzer keeps the most recent FFTSize mono samples and derives levels from
// their spectrum. Push may be called from an audio thread while Update runs on
// the frame loop.
type Analyzer struct {
	mu     sync.Mutex
	params Params
	ring   []float64
	pos    int
	filled bool

	fft    *fourier.FFT
	window []float64
	frame  []float64
	coeff  []complex128
	levels []float64

	sound float64
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(p Params) *Analyzer {
	a := &Analyzer{}
	a.setParams(p)
	return a
}

func (a *Analyzer) setParams(p Params) {
	resize := a.fft == nil || p.FFTSize != a.params.FFTSize
	a.params = p
	if !resize {
		return
	}
	n := p.FFTSize
	a.fft = fourier.NewFFT(n)
	a.ring = make([]float64, n)
	a.pos = 0
	a.filled = false
	a.frame = make([]float64, n)
	a.coeff = make([]complex128, n/2+1)
	a.levels = make([]float64, n/2)
	a.window = make([]float64, n)
	for i := range a.window {
		a.window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
}

// SetParams applies new settings. Changing FFTSize drops buffered samples.
func (a *Analyzer) SetParams(p Params) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.setParams(p)
}

// Params returns the current settings.
func (a *Analyzer) Params() Params {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.params
}

// Push appends interleaved PCM samples in [-1,1], averaging channels to mono.
func (a *Analyzer) Push(samples []float32, channels int) {
	if channels < 1 {
		channels = 1
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := 0; i+channels <= len(samples); i += channels {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(samples[i+c])
		}
		a.ring[a.pos] = sum / float64(channels)
		a.pos++
		if a.pos == len(a.ring) {
			a.pos = 0
			a.filled = true
		}
	}
}

// Spectrum returns per-bin levels in [0,1] for the buffered samples.
func (a *Analyzer) Spectrum() []float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.spectrum()
	return append([]float64(nil), a.levels...)
}

func (a *Analyzer) spectrum() {
	n := len(a.ring)
	for i := 0; i < n; i++ {
		a.frame[i] = a.ring[(a.pos+i)%n] * a.window[i]
	}
	a.coeff = a.fft.Coefficients(a.coeff, a.frame)
	for i := range a.levels {
		mag := math.Hypot(real(a.coeff[i]), imag(a.coeff[i])) / float64(n)
		if mag <= 0 {
			a.levels[i] = 0
			continue
		}
		db := 20 * math.Log10(mag)
		a.levels[i] = math.Max(0, math.Min(1, (db-minDecibels)/(maxDecibels-minDecibels)))
	}
}

// Update moves the smoothed level toward the current spectrum average and
// returns the resulting bands.
func (a *Analyzer) Update() forces.Bands {
	a.mu.Lock()
	defer a.mu.Unlock()

	var target float64
	if a.filled || a.pos > 0 {
		a.spectrum()
		bins := min(a.params.Bins, len(a.levels))
		var sum float64
		for _, l := range a.levels[:bins] {
			sum += l
		}
		target = sum / float64(bins) * a.params.Sensitivity
	}
	a.sound += (target - a.sound) * a.params.Smoothing
	return a.bands()
}

// Decay eases the level toward silence, used while no source is playing.
func (a *Analyzer) Decay() forces.Bands {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sound -= a.sound * a.params.Smoothing
	return a.bands()
}

func (a *Analyzer) bands() forces.Bands {
	s := a.sound
	return forces.Bands{
		Sound: float32(s),
		Bass:  float32(s * a.params.BassScale),
		Mid:   float32(s * a.params.MidScale),
		High:  float32(s * a.params.HighScale),
	}
}

// Level returns the smoothed sound level.
func (a *Analyzer) Level() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sound
}
