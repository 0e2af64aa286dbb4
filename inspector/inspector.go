// Package inspector draws a reflection-driven panel of live simulation state.
package inspector

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swarm/systems"
)

// Panel dimensions
const (
	PanelWidth   = 320
	PanelPadding = 10
	HeaderHeight = 30
	sectionGap   = 24
)

// pickRadius is how close, in pixels, a click must land to select a well.
const pickRadius = 14

// Section is one titled struct shown in the panel.
type Section struct {
	Title string
	Value any
}

// Projector maps a simulation point to the screen.
type Projector func(x, y, z float32) (sx, sy, depth float32, ok bool)

// Inspector tracks the selected well and draws the panel.
type Inspector struct {
	visible bool

	selectedSerial uint64
	hasSelected    bool

	panelX       int32
	panelY       int32
	screenWidth  int32
	screenHeight int32
}

// NewInspector creates a new inspector instance.
func NewInspector(screenWidth, screenHeight int32) *Inspector {
	return &Inspector{
		panelX:       screenWidth - PanelWidth - 10,
		panelY:       10,
		screenWidth:  screenWidth,
		screenHeight: screenHeight,
	}
}

// Resize moves the panel to the right edge of a new screen size.
func (ins *Inspector) Resize(screenWidth, screenHeight int32) {
	ins.screenWidth = screenWidth
	ins.screenHeight = screenHeight
	ins.panelX = screenWidth - PanelWidth - 10
}

// Toggle shows or hides the panel.
func (ins *Inspector) Toggle() bool {
	ins.visible = !ins.visible
	return ins.visible
}

// Visible reports whether the panel is shown.
func (ins *Inspector) Visible() bool { return ins.visible }

// HandleClick selects the well nearest to the click, if any lies within
// pickRadius. Returns true when a well was selected.
func (ins *Inspector) HandleClick(mouseX, mouseY float32, wells []systems.WellState, project Projector) bool {
	bestDist := float32(pickRadius * pickRadius)
	found := false
	for _, w := range wells {
		sx, sy, _, ok := project(w.Position.X, w.Position.Y, w.Position.Z)
		if !ok {
			continue
		}
		dx, dy := sx-mouseX, sy-mouseY
		if d := dx*dx + dy*dy; d <= bestDist {
			bestDist = d
			ins.selectedSerial = w.Well.Serial
			found = true
		}
	}
	if found {
		ins.hasSelected = true
	}
	return found
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
	ins.selectedSerial = 0
}

// SelectedWell returns the selected well among wells. A selection whose well
// has expired or been evicted is cleared.
func (ins *Inspector) SelectedWell(wells []systems.WellState) (systems.WellState, bool) {
	if !ins.hasSelected {
		return systems.WellState{}, false
	}
	for _, w := range wells {
		if w.Well.Serial == ins.selectedSerial {
			return w, true
		}
	}
	ins.Deselect()
	return systems.WellState{}, false
}

// PanelHeight computes the panel height for sections.
func PanelHeight(sections []Section) int32 {
	height := int32(HeaderHeight + PanelPadding)
	for _, s := range sections {
		height += sectionGap
		for _, f := range ExtractFields(s.Value) {
			height += FieldHeight(f)
		}
	}
	return height + PanelPadding
}

// Draw renders the panel with one block per section.
func (ins *Inspector) Draw(sections ...Section) {
	if !ins.visible {
		return
	}

	panelHeight := PanelHeight(sections)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, panelHeight, palette.Panel)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(panelHeight)},
		1,
		palette.Border,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, palette.Header)
	rl.DrawText("INSPECTOR", ins.panelX+PanelPadding, ins.panelY+7, 16, palette.Title)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding

	for _, s := range sections {
		ins.drawSectionHeader(x, y, s.Title)
		y += sectionGap
		for _, f := range ExtractFields(s.Value) {
			y += DrawField(x, y, f)
		}
	}
}

// drawSectionHeader renders a section title.
func (ins *Inspector) drawSectionHeader(x, y int32, title string) {
	rl.DrawRectangle(x-2, y-2, PanelWidth-2*PanelPadding+4, 18, palette.Section)
	rl.DrawText(title, x+2, y, 14, palette.SectionText)
}

// DrawSelectionHighlight rings the selected well on screen.
func (ins *Inspector) DrawSelectionHighlight(wells []systems.WellState, project Projector) {
	w, ok := ins.SelectedWell(wells)
	if !ok {
		return
	}
	sx, sy, _, visible := project(w.Position.X, w.Position.Y, w.Position.Z)
	if !visible {
		return
	}
	rl.DrawCircleLines(int32(sx), int32(sy), pickRadius, palette.Selection)
	rl.DrawCircleLines(int32(sx), int32(sy), pickRadius+3, palette.Selection)
}
