package game

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swarm/components"
	"github.com/pthm-cable/swarm/forces"
	"github.com/pthm-cable/swarm/inspector"
	"github.com/pthm-cable/swarm/renderer"
	"github.com/pthm-cable/swarm/systems"
	"github.com/pthm-cable/swarm/ui"
)

const controlsLegend = "Tab settings | N shape | T theme | R scatter | B blow | RMB well | C clear | Space pause | F12 snapshot"

// gridView is the engine state shown by the inspector.
type gridView struct {
	Mode       string
	Width      int
	Active     int
	Capacity   int
	WindowRows int
	Generation uint64
	FPS        []float32 `inspect:"spark,max:240"`
}

// Draw renders the frame, then the UI, then records telemetry.
func (g *Game) Draw() {
	g.perf.StartPhase(systems.PhaseRender)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.bloom.Begin()
	g.drawParticles()
	g.bloom.End()

	g.perf.StartPhase(systems.PhaseUI)
	wells := g.interaction.Wells()
	if g.overlays.IsEnabled(ui.OverlayWells) {
		g.drawWells(wells)
	}
	g.inspector.DrawSelectionHighlight(wells, g.camera.Project)
	g.drawUI(wells)

	rl.EndDrawing()

	g.perf.StartPhase(systems.PhaseTelemetry)
	g.recordFrame()
	g.perf.EndFrame()
}

// drawParticles draws the active cells of the current position buffer. The
// buffers are fetched each frame so a rebuild never leaves a stale reference.
func (g *Game) drawParticles() {
	pos, err := g.engine.CurrentBuffer(g.posVar)
	if err != nil {
		slog.Error("position buffer unavailable", "error", err)
		return
	}
	vel, err := g.engine.CurrentBuffer(g.velVar)
	if err != nil {
		slog.Error("velocity buffer unavailable", "error", err)
		return
	}
	g.points.Draw(g.camera, renderer.PointFrame{
		Position: pos,
		Velocity: vel,
		Active:   g.engine.ActiveCount(),
		Theme:    g.theme,
		Time:     g.engine.DisplayTime(),
		Sound:    g.bands.Sound,
	})
}

// drawWells marks each well with a ring scaled by its remaining strength.
func (g *Game) drawWells(wells []systems.WellState) {
	for _, w := range wells {
		p := w.Position
		sx, sy, depth, ok := g.camera.Project(p.X, p.Y, p.Z)
		if !ok {
			continue
		}
		r := g.camera.PointSize(8, depth)
		fade := uint8(255)
		if w.Well.Lifetime > 0 {
			fade = uint8(255 * max(0, 1-w.Well.Age/w.Well.Lifetime))
		}
		rl.DrawCircleLines(int32(sx), int32(sy), r, rl.Color{R: 120, G: 180, B: 255, A: fade})
	}
}

func (g *Game) drawUI(wells []systems.WellState) {
	w, h := int32(g.screenWidth), int32(g.screenHeight)

	if g.overlays.IsEnabled(ui.OverlayHUD) {
		notice := ""
		if g.engine.DisplayTime() < g.noticeUntil {
			notice = g.notice
		}
		g.hud.Draw(10, ui.HUDData{
			Title:     "Swarm",
			Active:    g.engine.ActiveCount(),
			Capacity:  g.engine.Capacity(),
			TierWidth: g.engine.Width(),
			Mode:      string(g.engine.Mode()),
			Shape:     g.shape.String(),
			Theme:     g.theme.String(),
			Wells:     len(wells),
			FPS:       rl.GetFPS(),
			Paused:    g.paused,
			Notice:    notice,
		})
		g.hud.DrawControls(w, h, controlsLegend)
	}

	if g.overlays.IsEnabled(ui.OverlayControls) {
		g.settings.Shape = g.shape.String()
		g.settings.Theme = g.theme.String()
		g.handleActions(g.controls.Draw(&g.settings, g.overlays))
	}
	g.applySettings()

	if g.overlays.IsEnabled(ui.OverlayStatus) {
		g.status.Draw(g.statusData())
	}
	if g.overlays.IsEnabled(ui.OverlayPerf) {
		stats := g.perf.Stats()
		g.perfPanel.Draw(ui.PerfPanelData{
			PhaseTimes: stats.PhaseAvg,
			Total:      stats.AvgFrameDuration,
			TickCost:   stats.AvgTickCost,
			Registry:   g.registry,
		})
	}

	if g.inspector.Visible() {
		sections := []inspector.Section{{Title: "Grid", Value: g.gridView()}}
		if sel, ok := g.inspector.SelectedWell(wells); ok {
			sections = append(sections, inspector.Section{Title: "Well", Value: sel.Well})
		}
		_, _, ptr := g.interaction.Pointer()
		sections = append(sections,
			inspector.Section{Title: "Pointer", Value: ptr},
			inspector.Section{Title: "Audio", Value: g.bands},
		)
		g.inspector.Draw(sections...)
	}
}

// handleActions applies the settings panel buttons.
func (g *Game) handleActions(a ui.ControlActions) {
	if !a.Any() {
		return
	}
	if a.NextShape {
		g.SetShape(g.shape.Next())
	}
	if a.NextTheme {
		g.nextTheme()
	}
	if a.Reset {
		g.Scatter()
	}
	if a.ClearWells {
		g.interaction.ClearWells()
		g.inspector.Deselect()
	}
	if a.Snapshot {
		g.saveBufferSnapshot()
	}
}

func (g *Game) gridView() gridView {
	v := gridView{
		Mode:       string(g.engine.Mode()),
		Width:      g.engine.Width(),
		Active:     g.engine.ActiveCount(),
		Capacity:   g.engine.Capacity(),
		WindowRows: g.engine.Window().Height,
		Generation: g.engine.Generation(),
	}
	if ctrl := g.engine.Controller(); ctrl != nil {
		for _, fps := range ctrl.History() {
			v.FPS = append(v.FPS, float32(fps))
		}
	}
	return v
}

func (g *Game) statusData() ui.StatusData {
	clk := g.engine.Clock()
	d := ui.StatusData{
		SimTime:       g.engine.SimTime(),
		DisplayTime:   g.engine.DisplayTime(),
		TimeScale:     clk.TimeScale(),
		StepsPerFrame: float64(g.lastSteps),
		Alpha:         clk.Alpha(),
		RefreshRate:   g.refreshRate,
		Sound:         g.bands.Sound,
	}
	if ctrl := g.engine.Controller(); ctrl != nil {
		d.Adaptive = true
		d.MeanFPS = ctrl.MeanFPS()
		d.HighFPS, d.LowFPS = ctrl.Thresholds()
		d.HighStreak, d.LowStreak = ctrl.Streaks()
		d.Stable = ctrl.Stable()
	}
	return d
}

// nextTheme cycles the particle colouring.
func (g *Game) nextTheme() {
	names := renderer.ThemeNames()
	next, err := renderer.ParseTheme(names[(int(g.theme)+1)%len(names)])
	if err != nil {
		return
	}
	g.theme = next
	g.settings.Theme = next.String()
}

// placeWell adds a gravity well at a simulation-space point.
func (g *Game) placeWell(x, y, z float32) {
	g.interaction.PlaceWell(components.Position{X: x, Y: y, Z: z})
	g.setUniforms(func(u *forces.Uniforms) { g.interaction.Fill(u) })
	g.setNotice(fmt.Sprintf("Wells: %d", g.interaction.WellCount()))
}
