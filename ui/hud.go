package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swarm/systems"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title     string
	Active    int
	Capacity  int
	TierWidth int
	Mode      string
	Shape     string
	Theme     string
	Wells     int
	FPS       int32
	Paused    bool
	Notice    string // transient message, e.g. a tier change
}

// HUD renders the main heads-up display.
type HUD struct {
	painter *Painter
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{painter: NewPainter()}
}

// Draw renders the HUD in the top-left corner over a backing strip.
func (h *HUD) Draw(x int32, data HUDData) {
	grid := fmt.Sprintf("Particles: %d / %d | Grid: %dx%d (%s)", data.Active, data.Capacity, data.TierWidth, data.TierWidth, data.Mode)
	scene := fmt.Sprintf("FPS: %d | Shape: %s | Theme: %s | Wells: %d", data.FPS, data.Shape, data.Theme, data.Wells)
	width := max(rl.MeasureText(grid, 16), rl.MeasureText(scene, 16)) + 16
	h.painter.Panel(x-8, 4, width, 92)

	rl.DrawText(data.Title, x, 10, 20, rl.White)
	rl.DrawText(grid, x, 35, 16, rl.LightGray)
	rl.DrawText(scene, x, 55, 16, rl.LightGray)

	switch {
	case data.Paused:
		rl.DrawText("PAUSED", x, 75, 16, h.painter.Style.MeterMark)
	case data.Notice != "":
		rl.DrawText(data.Notice, x, 75, 16, h.painter.Style.MeterMark)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// StatusData is the clock and controller state shown by the status panel.
type StatusData struct {
	SimTime       float32
	DisplayTime   float32
	TimeScale     float64
	StepsPerFrame float64
	Alpha         float64
	RefreshRate   float64
	MeanFPS       float64
	HighFPS       float64
	LowFPS        float64
	HighStreak    int
	LowStreak     int
	Stable        bool
	Adaptive      bool
	Sound         float32
}

// StatusGroups describes the status panel layout.
func StatusGroups() []Group {
	num := func(f func(StatusData) float64) func(any) float64 {
		return func(d any) float64 { return f(d.(StatusData)) }
	}
	text := func(f func(StatusData) string) func(any) string {
		return func(d any) string { return f(d.(StatusData)) }
	}
	adaptive := func(d any) bool { return d.(StatusData).Adaptive }
	// FPS meters are scaled to the refresh rate.
	ofRefresh := func(f func(StatusData) float64) func(any) float64 {
		return num(func(s StatusData) float64 {
			if s.RefreshRate <= 0 {
				return 0
			}
			return f(s) / s.RefreshRate
		})
	}

	return []Group{
		{
			Key:   "clock",
			Title: "Clock",
			Rows: []Row{
				{Key: "sim_time", Label: "Sim time", Format: "%.1fs", Num: num(func(s StatusData) float64 { return float64(s.SimTime) })},
				{Key: "display_time", Label: "Display", Format: "%.1f", Num: num(func(s StatusData) float64 { return float64(s.DisplayTime) })},
				{Key: "time_scale", Label: "Time scale", Format: "%.2fx", Num: num(func(s StatusData) float64 { return s.TimeScale })},
				{Key: "steps", Label: "Steps/frame", Num: num(func(s StatusData) float64 { return s.StepsPerFrame })},
				{Key: "alpha", Label: "Carry", Kind: RowMeter, Num: num(func(s StatusData) float64 { return s.Alpha })},
			},
		},
		{
			Key:   "controller",
			Title: "Resolution",
			Show:  adaptive,
			Rows: []Row{
				{Key: "refresh", Label: "Refresh", Format: "%.0f Hz", Num: num(func(s StatusData) float64 { return s.RefreshRate })},
				{Key: "mean_fps", Label: "Mean FPS", Format: "%.1f", Num: num(func(s StatusData) float64 { return s.MeanFPS })},
				{
					Key:   "load",
					Label: "FPS/rate",
					Kind:  RowMeter,
					Num:   ofRefresh(func(s StatusData) float64 { return s.MeanFPS }),
					Mark:  ofRefresh(func(s StatusData) float64 { return s.HighFPS }),
				},
				{Key: "band", Label: "Band", Text: text(func(s StatusData) string {
					return fmt.Sprintf("%.0f .. %.0f", s.LowFPS, s.HighFPS)
				})},
				{Key: "streaks", Label: "Streaks", Text: text(func(s StatusData) string {
					return fmt.Sprintf("up %d / down %d", s.HighStreak, s.LowStreak)
				})},
				{Key: "stable", Label: "State", Text: text(func(s StatusData) string {
					if s.Stable {
						return "stable"
					}
					return "probing"
				})},
			},
		},
		{
			Key:   "audio",
			Title: "Audio",
			Rows: []Row{
				{Key: "sound", Label: "Level", Kind: RowMeter, Num: num(func(s StatusData) float64 { return float64(s.Sound) })},
			},
		},
	}
}

// StatusPanel renders StatusData through StatusGroups.
type StatusPanel struct {
	painter *Painter
	groups  []Group
	x, y    int32
	width   int32
}

// NewStatusPanel creates a status panel.
func NewStatusPanel(x, y, width int32) *StatusPanel {
	return &StatusPanel{
		painter: NewPainter(),
		groups:  StatusGroups(),
		x:       x,
		y:       y,
		width:   width,
	}
}

// SetPosition updates the panel position.
func (p *StatusPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Height returns the panel height for data.
func (p *StatusPanel) Height(data StatusData) int32 {
	h := p.painter.Style.Pad * 2
	for _, g := range p.groups {
		h += p.painter.GroupHeight(g, data)
	}
	return h
}

// Draw renders the panel.
func (p *StatusPanel) Draw(data StatusData) {
	pt := p.painter
	pad := pt.Style.Pad
	pt.Panel(p.x, p.y, p.width, p.Height(data))
	y := p.y + pad
	for _, g := range p.groups {
		y = pt.Group(p.x+pad, y, p.width-pad*2, g, data)
	}
}

// PerfPanelData holds performance metrics for display.
type PerfPanelData struct {
	PhaseTimes map[string]time.Duration
	Total      time.Duration
	TickCost   time.Duration
	Registry   *systems.SystemRegistry
}

// PerfPanel renders the frame phase timing panel.
type PerfPanel struct {
	painter *Painter
	x, y    int32
	width   int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		painter: NewPainter(),
		x:       x,
		y:       y,
		width:   width,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders one meter per registered phase, filled by its share of the
// frame.
func (p *PerfPanel) Draw(data PerfPanelData) {
	pt := p.painter
	pad := pt.Style.Pad
	phases := data.Registry.All()
	height := pad*2 + pt.Style.Line*2 + int32(len(phases))*rowHeight(pt.Style, RowMeter)
	pt.Panel(p.x, p.y, p.width, height)

	x := p.x + pad
	y := pt.Heading(x, p.y+pad, "Frame Phases")
	y = pt.Value(x, y, "Total", fmt.Sprintf("%s  tick %s", data.Total.Round(time.Microsecond), data.TickCost.Round(time.Microsecond)))

	for _, info := range phases {
		share := 0.0
		if data.Total > 0 {
			share = float64(data.PhaseTimes[info.ID]) / float64(data.Total)
		}
		y = pt.Meter(x, y, p.width-pad*2, info.Name, share, -1)
	}
}
