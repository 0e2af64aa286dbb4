// Package ui draws the overlays around the particle view: the HUD line, the
// raygui settings panel, and panels built from row groups whose values are
// read from a data struct at draw time.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Style holds the colours and metrics shared by every panel.
type Style struct {
	PanelFill  rl.Color
	PanelEdge  rl.Color
	Heading    rl.Color
	Label      rl.Color
	Value      rl.Color
	MeterTrack rl.Color
	MeterFill  rl.Color
	MeterMark  rl.Color

	Pad         int32
	Line        int32
	LabelWidth  int32
	MeterHeight int32
	TextSize    int32
	HeadingSize int32
}

// DefaultStyle is a translucent dark panel that keeps the particles visible.
func DefaultStyle() Style {
	return Style{
		PanelFill:  rl.Color{R: 8, G: 10, B: 18, A: 200},
		PanelEdge:  rl.Color{R: 48, G: 56, B: 80, A: 255},
		Heading:    rl.Color{R: 120, G: 200, B: 255, A: 255},
		Label:      rl.LightGray,
		Value:      rl.RayWhite,
		MeterTrack: rl.Color{R: 30, G: 34, B: 46, A: 255},
		MeterFill:  rl.Color{R: 90, G: 140, B: 230, A: 255},
		MeterMark:  rl.Color{R: 255, G: 200, B: 80, A: 255},

		Pad:         10,
		Line:        16,
		LabelWidth:  90,
		MeterHeight: 10,
		TextSize:    12,
		HeadingSize: 14,
	}
}
