package inspector

import (
	"strconv"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// palette holds every colour the inspector draws with.
var palette = struct {
	Panel, Header, Border, Title    rl.Color
	Section, SectionText, Selection rl.Color
	Track, Fill, FillLow, Spark     rl.Color
	Text, TextDim, On, Off          rl.Color
}{
	Panel:       rl.Color{R: 12, G: 14, B: 24, A: 235},
	Header:      rl.Color{R: 28, G: 34, B: 56, A: 255},
	Border:      rl.Color{R: 60, G: 70, B: 100, A: 255},
	Title:       rl.White,
	Section:     rl.Color{R: 32, G: 38, B: 60, A: 255},
	SectionText: rl.Color{R: 170, G: 210, B: 255, A: 255},
	Selection:   rl.Color{R: 255, G: 200, B: 80, A: 210},
	Track:       rl.Color{R: 30, G: 34, B: 46, A: 255},
	Fill:        rl.Color{R: 90, G: 160, B: 240, A: 255},
	FillLow:     rl.Color{R: 200, G: 90, B: 120, A: 255},
	Spark:       rl.Color{R: 255, G: 200, B: 80, A: 255},
	Text:        rl.Color{R: 225, G: 228, B: 235, A: 255},
	TextDim:     rl.Color{R: 150, G: 155, B: 170, A: 255},
	On:          rl.Color{R: 110, G: 220, B: 160, A: 255},
	Off:         rl.Color{R: 80, G: 84, B: 96, A: 255},
}

const (
	labelWidth  = 90
	textSize    = 14
	lineHeight  = 18
	barWidth    = 120
	sparkWidth  = 160
	sparkHeight = 30
)

// DrawField draws f at (x, y) and returns the height used. Values that do not
// suit the field's widget fall back to a label.
func DrawField(x, y int32, f Field) int32 {
	rl.DrawText(f.Name, x, y, textSize, palette.TextDim)
	vx := x + labelWidth

	switch f.Widget {
	case WidgetBar:
		if v, ok := Float(f.Value); ok {
			drawBar(vx, y, v, f.Max)
			return lineHeight
		}
	case WidgetSpark:
		if vals, ok := Floats(f.Value); ok {
			drawSpark(vx, y, vals, f.Max)
			return sparkHeight + 4
		}
	case WidgetBool:
		if on, ok := f.Value.(bool); ok {
			drawBool(vx, y, on)
			return lineHeight
		}
	}
	rl.DrawText(FormatValue(f.Value, f.Format), vx, y, textSize, palette.Text)
	return lineHeight
}

// FieldHeight is the height DrawField uses for f.
func FieldHeight(f Field) int32 {
	if f.Widget == WidgetSpark {
		if _, ok := Floats(f.Value); ok {
			return sparkHeight + 4
		}
	}
	return lineHeight
}

func scaled(v, full float64) float32 {
	return float32(max(0, min(v/full, 1)))
}

func drawBar(x, y int32, v, full float64) {
	ratio := scaled(v, full)
	fill := palette.Fill
	if ratio < 0.3 {
		fill = palette.FillLow
	}
	rl.DrawRectangle(x, y, barWidth, textSize, palette.Track)
	rl.DrawRectangle(x, y, int32(barWidth*ratio), textSize, fill)
	rl.DrawText(strconv.FormatFloat(v, 'f', 2, 64), x+barWidth+5, y, textSize, palette.TextDim)
}

// drawSpark plots vals left to right, scaled so full reaches the top.
func drawSpark(x, y int32, vals []float64, full float64) {
	rl.DrawRectangle(x, y, sparkWidth, sparkHeight, palette.Track)
	point := func(i int) rl.Vector2 {
		return rl.Vector2{
			X: float32(x) + float32(i)*sparkWidth/float32(max(len(vals)-1, 1)),
			Y: float32(y+sparkHeight) - scaled(vals[i], full)*sparkHeight,
		}
	}
	for i := 1; i < len(vals); i++ {
		rl.DrawLineV(point(i-1), point(i), palette.Spark)
	}
	if len(vals) > 0 {
		last := strconv.FormatFloat(vals[len(vals)-1], 'f', 0, 64)
		rl.DrawText(last, x+sparkWidth+5, y+sparkHeight/2-7, textSize, palette.TextDim)
	}
}

func drawBool(x, y int32, on bool) {
	color, text := palette.Off, "OFF"
	if on {
		color, text = palette.On, "ON"
	}
	rl.DrawRectangle(x, y, textSize, textSize, color)
	rl.DrawText(text, x+textSize+5, y, textSize, color)
}
