package audio

import "math"

// Tone is a sine generator used when no music source is configured.
type Tone struct {
	Freq       float64
	Amplitude  float64
	SampleRate float64
	phase      float64
}

// Fill writes mono samples into buf.
func (t *Tone) Fill(buf []float32) {
	step := 2 * math.Pi * t.Freq / t.SampleRate
	for i := range buf {
		buf[i] = float32(t.Amplitude * math.Sin(t.phase))
		t.phase += step
		if t.phase > 2*math.Pi {
			t.phase -= 2 * math.Pi
		}
	}
}
