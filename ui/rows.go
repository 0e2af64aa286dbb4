package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// RowKind selects how a Row is drawn.
type RowKind int

const (
	RowValue   RowKind = iota // label and formatted value
	RowMeter                  // label and a [0, 1] meter
	RowHeading                // sub-heading inside a group
	RowGap                    // blank spacing
)

const gapHeight = 6

// Row is one line of a panel. Num and Text read the value from the panel's
// data when it is drawn.
type Row struct {
	Key    string
	Label  string
	Kind   RowKind
	Format string            // for Num, default "%.2f"
	Num    func(any) float64 // numeric value
	Text   func(any) string  // text value, wins over Num
	Mark   func(any) float64 // optional meter marker in [0, 1]
	Show   func(any) bool    // nil = always shown
}

// Group is a titled block of rows.
type Group struct {
	Key   string
	Title string
	Rows  []Row
	Show  func(any) bool
}

// RowText is the text a RowValue row shows for data.
func RowText(row Row, data any) string {
	if row.Text != nil {
		return row.Text(data)
	}
	if row.Num == nil {
		return ""
	}
	format := row.Format
	if format == "" {
		format = "%.2f"
	}
	return fmt.Sprintf(format, row.Num(data))
}

func shown(show func(any) bool, data any) bool {
	return show == nil || show(data)
}

func rowHeight(s Style, kind RowKind) int32 {
	switch kind {
	case RowMeter:
		return s.Line + 2
	case RowGap:
		return gapHeight
	default:
		return s.Line
	}
}

// Painter draws panels and row groups in one Style.
type Painter struct {
	Style Style
}

// NewPainter returns a painter using DefaultStyle.
func NewPainter() *Painter {
	return &Painter{Style: DefaultStyle()}
}

// Panel draws a framed panel background.
func (p *Painter) Panel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, p.Style.PanelFill)
	rl.DrawRectangleLines(x, y, width, height, p.Style.PanelEdge)
}

// Heading draws a heading and returns the next y.
func (p *Painter) Heading(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, p.Style.HeadingSize, p.Style.Heading)
	return y + p.Style.Line
}

// Value draws a label with its value and returns the next y.
func (p *Painter) Value(x, y int32, label, value string) int32 {
	s := p.Style
	rl.DrawText(label, x, y, s.TextSize, s.Label)
	rl.DrawText(value, x+s.LabelWidth, y, s.TextSize, s.Value)
	return y + s.Line
}

// Meter draws v as a filled bar. A mark in [0, 1] draws a tick across the
// bar; pass a negative mark for none.
func (p *Painter) Meter(x, y, width int32, label string, v, mark float64) int32 {
	s := p.Style
	v = max(0, min(v, 1))
	barX := x + s.LabelWidth
	barW := width - s.LabelWidth - 40

	rl.DrawText(label, x, y, s.TextSize, s.Label)
	rl.DrawRectangle(barX, y+3, barW, s.MeterHeight, s.MeterTrack)
	rl.DrawRectangle(barX, y+3, int32(float64(barW)*v), s.MeterHeight, s.MeterFill)
	if mark >= 0 && mark <= 1 {
		mx := barX + int32(float64(barW)*mark)
		rl.DrawLine(mx, y+1, mx, y+s.MeterHeight+5, s.MeterMark)
	}
	rl.DrawText(fmt.Sprintf("%.2f", v), barX+barW+5, y, s.TextSize, s.Value)
	return y + rowHeight(s, RowMeter)
}

// Row draws one row and returns the next y.
func (p *Painter) Row(x, y, width int32, row Row, data any) int32 {
	switch row.Kind {
	case RowMeter:
		v, mark := 0.0, -1.0
		if row.Num != nil {
			v = row.Num(data)
		}
		if row.Mark != nil {
			mark = row.Mark(data)
		}
		return p.Meter(x, y, width, row.Label, v, mark)
	case RowHeading:
		return p.Heading(x, y, row.Label)
	case RowGap:
		return y + gapHeight
	default:
		return p.Value(x, y, row.Label, RowText(row, data))
	}
}

// Group draws g and returns the next y. Hidden groups draw nothing.
func (p *Painter) Group(x, y, width int32, g Group, data any) int32 {
	if !shown(g.Show, data) {
		return y
	}
	if g.Title != "" {
		y = p.Heading(x, y, g.Title)
	}
	for _, row := range g.Rows {
		if shown(row.Show, data) {
			y = p.Row(x, y, width, row, data)
		}
	}
	return y + 4
}

// GroupHeight is the height Group uses for data.
func (p *Painter) GroupHeight(g Group, data any) int32 {
	if !shown(g.Show, data) {
		return 0
	}
	var h int32
	if g.Title != "" {
		h += p.Style.Line
	}
	for _, row := range g.Rows {
		if shown(row.Show, data) {
			h += rowHeight(p.Style, row.Kind)
		}
	}
	return h + 4
}
