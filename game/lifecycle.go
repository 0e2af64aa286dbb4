package game

import (
	"log/slog"

	"github.com/pthm-cable/swarm/audio"
	"github.com/pthm-cable/swarm/config"
	"github.com/pthm-cable/swarm/forces"
	"github.com/pthm-cable/swarm/renderer"
	"github.com/pthm-cable/swarm/resolution"
)

// saveTierHint persists the tier the controller settled on.
func (g *Game) saveTierHint(width int) {
	err := g.hints.Update(func(h *resolution.Hint) { h.TierWidth = width })
	if err != nil {
		slog.Warn("failed to save tier hint", "error", err)
		return
	}
	if path := g.hints.Path(); path != "" {
		slog.Info("tier hint saved", "tier_width", width, "path", path)
	}
}

// saveShapeHint persists the current shape.
func (g *Game) saveShapeHint() {
	shape := g.shape.String()
	if err := g.hints.Update(func(h *resolution.Hint) { h.Shape = shape }); err != nil {
		slog.Warn("failed to save shape", "error", err)
	}
}

// applyReloads applies the newest reloaded config, if any. Only tunables
// change; mode, tiers, device and screen need a restart.
func (g *Game) applyReloads() {
	select {
	case c := <-g.reloads:
		g.applyTunables(c)
	default:
	}
}

func (g *Game) applyTunables(c *config.Config) {
	prev := *g.cfg
	g.cfg.Forces = c.Forces
	g.cfg.Audio = c.Audio
	g.cfg.Render = c.Render

	g.field.SetParams(forces.ParamsFromConfig(c.Forces))
	g.interaction.SetParams(g.interactionParams(c))

	p := audio.ParamsFromConfig(c.Audio)
	g.analyzer.SetParams(p)
	g.settings.Sensitivity = float32(p.Sensitivity)

	// Shape and theme follow the file only when the file changed them.
	if c.Forces.Shape != prev.Forces.Shape {
		if s, err := forces.ParseShape(c.Forces.Shape); err == nil {
			g.SetShape(s)
		}
	}
	if c.Render.Theme != prev.Render.Theme {
		if t, err := renderer.ParseTheme(c.Render.Theme); err == nil {
			g.theme = t
			g.settings.Theme = t.String()
		}
	}
	g.settings.PointSize = float32(c.Render.PointSize)
	g.settings.Bloom = float32(c.Render.Bloom)
	if g.points != nil {
		g.points.PointSize = g.settings.PointSize
		g.points.MaxPoints = c.Render.MaxDrawPoints
	}

	g.settings.TimeScale = float32(c.Simulation.TimeScale)
	g.engine.SetTimeScale(c.Simulation.TimeScale)

	slog.Info("applied config reload",
		"shape", g.shape.String(),
		"theme", g.theme.String(),
		"time_scale", c.Simulation.TimeScale,
	)
}
