package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swarm/components"
	"github.com/pthm-cable/swarm/compute"
	"github.com/pthm-cable/swarm/config"
	"github.com/pthm-cable/swarm/engine"
	"github.com/pthm-cable/swarm/resolution"
	"github.com/pthm-cable/swarm/systems"
)

// fallbackRefreshRate is assumed until the real rate is known.
const fallbackRefreshRate = 60

// refreshSampleFrames is how many frames are measured before estimating the
// display refresh rate.
const refreshSampleFrames = 120

// engineOptions builds engine options from the structural config sections.
func engineOptions(cfg *config.Config, refreshRate float64, hintWidth int) (engine.Options, error) {
	mode, err := engine.ParseMode(cfg.Simulation.Mode)
	if err != nil {
		return engine.Options{}, err
	}

	caps := compute.Capabilities{
		FloatSurfaces:      cfg.Device.FloatSurfaces,
		VertexTextureSlots: cfg.Device.VertexTextureSlots,
		MaxSurfaceSize:     cfg.Device.MaxSurfaceSize,
		MemoryBudget:       cfg.Derived.MemoryBudget,
	}

	return engine.Options{
		Mode:       mode,
		Device:     compute.NewCPUDevice(caps, cfg.Device.Workers),
		Resolution: resolutionParams(cfg.Resolution, refreshRate),
		Profile:    resolution.ProbeHardware(caps.MaxSurfaceSize, caps.MemoryBudget, refreshRate),
		HintWidth:  hintWidth,

		StaticWidth:  cfg.Simulation.StaticWidth,
		MaxWidth:     cfg.Simulation.MaxWidth,
		MinCount:     cfg.Simulation.MinCount,
		InitialCount: cfg.Simulation.InitialCount,

		Step:            cfg.Derived.Step,
		MaxAccumulation: cfg.Derived.MaxAccumulation,
		TimeScale:       cfg.Simulation.TimeScale,
		DisplayPerFrame: cfg.Simulation.DisplayTimePerFrame,
	}, nil
}

func resolutionParams(c config.ResolutionConfig, refreshRate float64) resolution.Params {
	return resolution.Params{
		Tiers:           c.Tiers,
		RefreshRate:     refreshRate,
		HighFraction:    c.HighFraction,
		LowFraction:     c.LowFraction,
		UpgradeWindow:   c.UpgradeWindow,
		DowngradeWindow: c.DowngradeWindow,
		HistorySize:     c.HistorySize,
	}
}

// initialRefreshRate returns the configured rate, else the monitor's. When
// neither is known the fallback is used and estimating is true.
func (g *Game) initialRefreshRate() (hz float64, estimating bool) {
	if g.cfg.Screen.RefreshRate > 0 {
		return g.cfg.Screen.RefreshRate, false
	}
	if g.opts.Headless {
		return fallbackRefreshRate, false
	}
	if r := rl.GetMonitorRefreshRate(rl.GetCurrentMonitor()); r > 0 {
		return float64(r), false
	}
	return fallbackRefreshRate, true
}

// interactionParams maps the forces section and the current screen size.
func (g *Game) interactionParams(cfg *config.Config) systems.InteractionParams {
	cam := g.camera
	return systems.InteractionParams{
		MaxWells:     cfg.Forces.MaxWells,
		WellLifetime: float32(cfg.Forces.WellLifetimeSec),
		WellStrength: float32(cfg.Forces.WellStrength),
		BlowDecay:    float32(cfg.Forces.BlowDecay),
		ScreenW:      g.screenWidth,
		ScreenH:      g.screenHeight,
		Unproject: func(x, y float32) components.Position {
			wx, wy, wz := cam.ScreenToWorld(x, y)
			return components.Position{X: wx, Y: wy, Z: wz}
		},
	}
}

func screenSize() (float32, float32) {
	return float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
}
