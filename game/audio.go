package game

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swarm/audio"
	"github.com/pthm-cable/swarm/forces"
)

// audioSource feeds PCM into the analyzer once per frame.
type audioSource interface {
	Pump(dt time.Duration)
	Close()
}

// newAudioSource picks the music file in graphical mode, or a synthetic tone.
// nil means audio is disabled and the levels decay to silence.
func (g *Game) newAudioSource() audioSource {
	c := g.cfg.Audio
	if !c.Enabled {
		return nil
	}
	if c.File != "" && !g.opts.Headless {
		src, err := newMusicSource(c.File, g.analyzer)
		if err == nil {
			slog.Info("playing audio", "file", c.File)
			return src
		}
		slog.Warn("falling back to synthetic tone", "error", err)
	}
	return newToneSource(g.analyzer, float64(c.SampleRate))
}

// updateAudio pumps the source and returns the smoothed bands.
func (g *Game) updateAudio(dt time.Duration) forces.Bands {
	if g.source == nil {
		return g.analyzer.Decay()
	}
	g.source.Pump(dt)
	return g.analyzer.Update()
}

// toneSource is a low sine whose loudness swells every few seconds.
type toneSource struct {
	analyzer *audio.Analyzer
	tone     audio.Tone
	buf      []float32
	elapsed  float64
	carry    float64 // fractional samples owed from the previous frame
}

const (
	toneFreq    = 110
	tonePeriod  = 4.0 // seconds per swell
	maxPumpSecs = 0.1
)

func newToneSource(a *audio.Analyzer, sampleRate float64) *toneSource {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	return &toneSource{
		analyzer: a,
		tone:     audio.Tone{Freq: toneFreq, SampleRate: sampleRate},
	}
}

func (s *toneSource) Pump(dt time.Duration) {
	secs := min(dt.Seconds(), maxPumpSecs)
	s.elapsed += secs
	s.tone.Amplitude = 0.5 + 0.5*math.Sin(2*math.Pi*s.elapsed/tonePeriod)

	want := secs*s.tone.SampleRate + s.carry
	n := int(want)
	s.carry = want - float64(n)
	if n == 0 {
		return
	}
	if cap(s.buf) < n {
		s.buf = make([]float32, n)
	}
	s.buf = s.buf[:n]
	s.tone.Fill(s.buf)
	s.analyzer.Push(s.buf, 1)
}

func (s *toneSource) Close() {}

// musicSource streams a file through the audio device. raylib hands each
// mixed buffer to the analyzer from its audio thread.
type musicSource struct {
	music rl.Music
}

func newMusicSource(path string, a *audio.Analyzer) (*musicSource, error) {
	rl.InitAudioDevice()
	if !rl.IsAudioDeviceReady() {
		return nil, fmt.Errorf("audio device unavailable")
	}
	music := rl.LoadMusicStream(path)
	if music.FrameCount == 0 {
		rl.CloseAudioDevice()
		return nil, fmt.Errorf("loading music %s: no frames", path)
	}
	channels := int(music.Stream.Channels)
	rl.AttachAudioStreamProcessor(music.Stream, func(data []float32, frames int) {
		a.Push(data[:min(len(data), frames*channels)], channels)
	})
	rl.PlayMusicStream(music)
	return &musicSource{music: music}, nil
}

func (s *musicSource) Pump(time.Duration) { rl.UpdateMusicStream(s.music) }

func (s *musicSource) Close() {
	rl.StopMusicStream(s.music)
	rl.UnloadMusicStream(s.music)
	rl.CloseAudioDevice()
}
