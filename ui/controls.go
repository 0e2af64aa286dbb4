package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Settings are the user-tunable values the controls panel edits in place.
type Settings struct {
	Count       int // requested particles
	MinCount    int
	MaxCount    int
	TimeScale   float32
	Sensitivity float32
	PointSize   float32
	Rotation    float32 // camera auto-orbit in pixels of drag per second
	Bloom       float32
	Shape       string
	Theme       string
}

// ControlActions are the buttons pressed this frame.
type ControlActions struct {
	NextShape  bool
	NextTheme  bool
	Reset      bool
	ClearWells bool
	Snapshot   bool
}

// Any reports whether any button was pressed.
func (a ControlActions) Any() bool {
	return a.NextShape || a.NextTheme || a.Reset || a.ClearWells || a.Snapshot
}

// CountToSlider maps a particle count onto a log2 slider position.
func CountToSlider(count int) float32 {
	if count < 1 {
		count = 1
	}
	return float32(math.Log2(float64(count)))
}

// SliderToCount maps a log2 slider position back to a count in [lo, hi].
func SliderToCount(v float32, lo, hi int) int {
	n := int(math.Round(math.Exp2(float64(v))))
	return max(lo, min(n, hi))
}

// ControlsPanel renders the left-side settings panel.
type ControlsPanel struct {
	painter *Painter
	x, y    int32
	width   int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		painter: NewPainter(),
		x:       x,
		y:       y,
		width:   width,
	}
}

// Contains reports whether a screen point is over the panel, so clicks there
// are not treated as simulation input.
func (c *ControlsPanel) Contains(px, py float32, overlays *OverlayRegistry) bool {
	h := float32(c.height(overlays))
	return px >= float32(c.x) && px <= float32(c.x+c.width) && py >= float32(c.y) && py <= float32(c.y)+h
}

const (
	sliderRows = 7
	buttonRows = 3
	controlRow = 34
)

func (c *ControlsPanel) height(overlays *OverlayRegistry) int32 {
	st := c.painter.Style
	legend := int32(len(overlays.All())+len(overlays.Categories())) * st.Line
	return st.Pad*3 + 24 + sliderRows*controlRow + buttonRows*controlRow + legend
}

// Draw renders the panel, applies slider edits to s and returns the buttons
// pressed.
func (c *ControlsPanel) Draw(s *Settings, overlays *OverlayRegistry) ControlActions {
	var act ControlActions
	st := c.painter.Style
	padding := st.Pad

	c.painter.Panel(c.x, c.y, c.width, c.height(overlays))

	x := float32(c.x + padding)
	y := float32(c.y + padding)
	w := float32(c.width - padding*2)

	rl.DrawText("Settings", int32(x), int32(y), 16, rl.White)
	y += 24

	slider := func(label, value string, v, lo, hi float32) float32 {
		rl.DrawText(label, int32(x), int32(y), st.TextSize, st.Label)
		valueW := rl.MeasureText(value, st.TextSize)
		rl.DrawText(value, int32(x+w)-valueW, int32(y), st.TextSize, st.Value)
		out := gui.SliderBar(rl.Rectangle{X: x, Y: y + 14, Width: w, Height: 14}, "", "", v, lo, hi)
		y += controlRow
		return out
	}

	pos := slider("Particles", fmt.Sprintf("%d", s.Count),
		CountToSlider(s.Count), CountToSlider(s.MinCount), CountToSlider(s.MaxCount))
	if pos != CountToSlider(s.Count) {
		s.Count = SliderToCount(pos, s.MinCount, s.MaxCount)
	}
	s.TimeScale = slider("Time scale", fmt.Sprintf("%.2f", s.TimeScale), s.TimeScale, 0, 3)
	s.Sensitivity = slider("Audio sensitivity", fmt.Sprintf("%.2f", s.Sensitivity), s.Sensitivity, 0, 5)
	s.PointSize = slider("Point size", fmt.Sprintf("%.2f", s.PointSize), s.PointSize, 0.5, 6)
	s.Rotation = slider("Rotation", fmt.Sprintf("%.0f", s.Rotation), s.Rotation, -120, 120)
	s.Bloom = slider("Bloom", fmt.Sprintf("%.2f", s.Bloom), s.Bloom, 0, 3)
	rl.DrawText(fmt.Sprintf("Shape: %s   Theme: %s", s.Shape, s.Theme), int32(x), int32(y), st.TextSize, st.Value)
	y += controlRow

	half := (w - 8) / 2
	button := func(bx float32, label string) bool {
		return gui.Button(rl.Rectangle{X: bx, Y: y, Width: half, Height: 26}, label)
	}
	act.NextShape = button(x, "Next shape")
	act.NextTheme = button(x+half+8, "Next theme")
	y += controlRow
	act.Reset = button(x, "Scatter")
	act.ClearWells = button(x+half+8, "Clear wells")
	y += controlRow
	act.Snapshot = button(x, "Snapshot")
	y += controlRow

	c.drawLegend(int32(x), int32(y), int32(w), overlays)
	return act
}

// drawLegend lists overlay toggles with their keys.
func (c *ControlsPanel) drawLegend(x, y, width int32, overlays *OverlayRegistry) {
	st := c.painter.Style
	for _, category := range overlays.Categories() {
		rl.DrawText(category.Label(), x, y, st.HeadingSize, st.Heading)
		y += st.Line

		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(x, y, desc, overlays.IsEnabled(desc.ID), width)
			y += st.Line
		}
	}
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc Overlay, enabled bool, width int32) {
	st := c.painter.Style

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	nameColor := st.Label
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, st.TextSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, st.TextSize)
		rl.DrawText(keyText, x+width-keyWidth, y, st.TextSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}
