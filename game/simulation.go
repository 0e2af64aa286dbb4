package game

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/swarm/forces"
	"github.com/pthm-cable/swarm/resolution"
	"github.com/pthm-cable/swarm/systems"
)

// Update runs one graphical frame: input, uniforms, the reported frame time
// and the drained physics steps.
func (g *Game) Update() error {
	g.perf.StartFrame()

	g.perf.StartPhase(systems.PhaseInput)
	g.handleInput()

	dt := frameDuration()
	g.sampleRefreshRate(dt)
	return g.advance(dt)
}

// UpdateHeadless runs one frame without raylib. The frame time is the work
// actually done, floored at one refresh interval as vsync would.
func (g *Game) UpdateHeadless() error {
	g.perf.StartFrame()

	now := time.Now()
	dt := time.Duration(float64(time.Second) / g.refreshRate)
	if !g.frameStart.IsZero() {
		dt = max(dt, now.Sub(g.frameStart))
	}
	g.frameStart = now

	if err := g.advance(dt); err != nil {
		return err
	}

	g.perf.StartPhase(systems.PhaseTelemetry)
	g.recordFrame()
	g.perf.EndFrame()
	return nil
}

// advance applies pending reloads, refreshes the uniforms, lets the engine
// react to dt and runs the steps the clock has accumulated.
func (g *Game) advance(dt time.Duration) error {
	g.lastDT = dt
	g.applyReloads()

	if g.paused {
		g.lastSteps = 0
		return nil
	}

	g.perf.StartPhase(systems.PhaseInteraction)
	g.interaction.Update(float32(dt.Seconds()))
	u := g.field.Uniforms()
	u.Shape = g.shape
	g.interaction.Fill(&u)

	g.perf.StartPhase(systems.PhaseAudio)
	g.bands = g.updateAudio(dt)
	u.Bands = g.bands
	g.field.SetUniforms(u)

	g.perf.StartPhase(systems.PhaseRebuild)
	events, err := g.engine.ReportFrameTime(dt)
	g.handleEvents(events)
	if err != nil {
		slog.Error("rebuild failed", "error", err)
		return err
	}

	g.perf.StartPhase(systems.PhaseCompute)
	n := g.engine.Clock().DrainSteps()
	for i := 0; i < n; i++ {
		if err := g.engine.Tick(); err != nil {
			return err
		}
	}
	if n > 0 {
		g.field.ClearReset()
	}
	g.perf.AddTicks(n)
	g.lastSteps = n
	return nil
}

// sampleRefreshRate collects frame rates until the display rate can be
// estimated, then hands it to the controller.
func (g *Game) sampleRefreshRate(dt time.Duration) {
	if !g.estimating || dt <= 0 {
		return
	}
	g.refreshSamples = append(g.refreshSamples, float64(time.Second)/float64(dt))
	if len(g.refreshSamples) < refreshSampleFrames {
		return
	}
	hz := resolution.EstimateRefreshRate(g.refreshSamples)
	g.refreshRate = hz
	g.engine.SetRefreshRate(hz)
	g.estimating = false
	g.refreshSamples = nil
	slog.Info("estimated refresh rate", "hz", hz)
}

// SetShape switches the formation and remembers it for the next session.
func (g *Game) SetShape(s forces.Shape) {
	g.shape = s
	g.settings.Shape = s.String()
	g.setUniforms(func(u *forces.Uniforms) { u.Shape = s })
	g.saveShapeHint()
}

// Scatter reseeds positions and zeroes velocities on the next step.
func (g *Game) Scatter() {
	g.setUniforms(func(u *forces.Uniforms) { u.Reset = true })
}

// TogglePause stops or resumes the physics clock.
func (g *Game) TogglePause() {
	g.paused = !g.paused
}

// applySettings pushes panel edits into the engine and its collaborators.
func (g *Game) applySettings() {
	s := &g.settings
	if s.Count != g.requested {
		g.requested = s.Count
		g.engine.SetActiveCount(s.Count)
	}
	if ts := float64(s.TimeScale); ts != g.engine.Clock().TimeScale() {
		g.engine.SetTimeScale(ts)
	}
	if p := g.analyzer.Params(); float64(s.Sensitivity) != p.Sensitivity {
		p.Sensitivity = float64(s.Sensitivity)
		g.analyzer.SetParams(p)
	}
	if g.points != nil {
		g.points.PointSize = s.PointSize
		g.bloom.Strength = s.Bloom
	}
}

// setNotice shows a transient message on the HUD.
func (g *Game) setNotice(msg string) {
	const noticeSeconds = 3
	g.notice = msg
	g.noticeUntil = g.engine.DisplayTime() + noticeSeconds
}
