package ui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestCountSliderRoundTrip(t *testing.T) {
	tests := []struct {
		count, lo, hi, want int
	}{
		{64, 64, 1 << 20, 64},
		{1000, 64, 1 << 20, 1000},
		{262144, 64, 1 << 20, 262144},
		{10, 64, 1 << 20, 64},
		{1 << 22, 64, 1 << 20, 1 << 20},
	}
	for _, tt := range tests {
		got := SliderToCount(CountToSlider(tt.count), tt.lo, tt.hi)
		if got != tt.want {
			t.Errorf("round trip %d in [%d,%d] = %d, want %d", tt.count, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestOverlayDefaultsAndExclusive(t *testing.T) {
	reg := NewOverlayRegistry()

	if !reg.IsEnabled(OverlayHUD) || !reg.IsEnabled(OverlayWells) {
		t.Error("HUD and wells should start enabled")
	}
	if reg.IsEnabled(OverlayControls) {
		t.Error("settings panel should start hidden")
	}

	reg.Toggle(OverlayStatus)
	reg.Toggle(OverlayPerf)
	if reg.IsEnabled(OverlayStatus) {
		t.Error("enabling perf should hide the status panel")
	}

	id, on, ok := reg.HandleKeyPress(rl.KeyTab)
	if !ok || id != OverlayControls || !on {
		t.Errorf("Tab toggled %q on=%v ok=%v", id, on, ok)
	}
	if _, _, ok := reg.HandleKeyPress(rl.KeyZ); ok {
		t.Error("unbound key toggled an overlay")
	}
}

func TestStatusGroups(t *testing.T) {
	p := NewPainter()
	data := StatusData{SimTime: 12.5, TimeScale: 1.5, Adaptive: false}

	var clock Group
	for _, g := range StatusGroups() {
		if g.Key == "clock" {
			clock = g
		}
		if g.Key == "controller" && p.GroupHeight(g, data) != 0 {
			t.Error("controller group should hide outside adaptive mode")
		}
	}
	if got := RowText(clock.Rows[0], data); got != "12.5s" {
		t.Errorf("sim time text %q, want 12.5s", got)
	}
	if got := RowText(clock.Rows[2], data); got != "1.50x" {
		t.Errorf("time scale text %q, want 1.50x", got)
	}

	data.Adaptive = true
	panel := NewStatusPanel(0, 0, 200)
	hidden := panel.Height(StatusData{})
	if panel.Height(data) <= hidden {
		t.Error("adaptive status should be taller")
	}
}

func TestLoadMeterScalesToRefresh(t *testing.T) {
	data := StatusData{RefreshRate: 120, MeanFPS: 90, HighFPS: 108}
	for _, g := range StatusGroups() {
		for _, row := range g.Rows {
			if row.Key != "load" {
				continue
			}
			if got := row.Num(data); got != 0.75 {
				t.Errorf("load = %v, want 0.75", got)
			}
			if got := row.Mark(data); got != 0.9 {
				t.Errorf("mark = %v, want 0.9", got)
			}
			if got := row.Num(StatusData{MeanFPS: 60}); got != 0 {
				t.Errorf("load without refresh rate = %v, want 0", got)
			}
			return
		}
	}
	t.Fatal("no load row")
}

func TestGroupHeightSkipsHiddenRows(t *testing.T) {
	p := NewPainter()
	st := p.Style
	g := Group{
		Title: "T",
		Rows: []Row{
			{Label: "a"},
			{Label: "b", Kind: RowMeter},
			{Kind: RowGap},
			{Label: "c", Show: func(any) bool { return false }},
		},
	}
	want := st.Line + st.Line + (st.Line + 2) + gapHeight + 4
	if got := p.GroupHeight(g, nil); got != want {
		t.Errorf("height = %d, want %d", got, want)
	}
}
