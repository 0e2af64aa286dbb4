package ui

import (
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID names a toggleable overlay.
type OverlayID string

const (
	OverlayControls  OverlayID = "controls"
	OverlayHUD       OverlayID = "hud"
	OverlayStatus    OverlayID = "status"
	OverlayPerf      OverlayID = "perf"
	OverlayInspector OverlayID = "inspector"
	OverlayWells     OverlayID = "wells"
)

// Category groups overlays in the settings legend.
type Category string

const (
	CategoryPanel Category = "panel"
	CategoryDebug Category = "debug"
)

// Label is the legend heading for c.
func (c Category) Label() string {
	switch c {
	case CategoryPanel:
		return "Panels"
	case CategoryDebug:
		return "Debug"
	}
	return string(c)
}

// Overlay describes one toggleable overlay and its key.
type Overlay struct {
	ID       OverlayID
	Name     string
	Key      int32  // 0 = no key
	KeyLabel string // shown in the legend
	Category Category
	Default  bool        // enabled at startup
	Replaces []OverlayID // overlays sharing its screen area, hidden when it shows
}

// defaultOverlays are registered by NewOverlayRegistry, in legend order.
var defaultOverlays = []Overlay{
	{ID: OverlayControls, Name: "Settings", Key: rl.KeyTab, KeyLabel: "Tab", Category: CategoryPanel},
	{ID: OverlayHUD, Name: "HUD", Key: rl.KeyH, KeyLabel: "H", Category: CategoryPanel, Default: true},
	{ID: OverlayInspector, Name: "Inspector", Key: rl.KeyI, KeyLabel: "I", Category: CategoryPanel},
	{ID: OverlayStatus, Name: "Clock", Key: rl.KeyK, KeyLabel: "K", Category: CategoryDebug, Replaces: []OverlayID{OverlayPerf}},
	{ID: OverlayPerf, Name: "Perf", Key: rl.KeyP, KeyLabel: "P", Category: CategoryDebug, Replaces: []OverlayID{OverlayStatus}},
	{ID: OverlayWells, Name: "Wells", Key: rl.KeyG, KeyLabel: "G", Category: CategoryDebug, Default: true},
}

// OverlayRegistry tracks which overlays are shown.
type OverlayRegistry struct {
	overlays []Overlay
	enabled  map[OverlayID]bool
}

// NewOverlayRegistry creates a registry holding the default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	r := &OverlayRegistry{enabled: make(map[OverlayID]bool)}
	for _, o := range defaultOverlays {
		r.Register(o)
	}
	return r
}

// Register adds an overlay in its default state.
func (r *OverlayRegistry) Register(o Overlay) {
	r.overlays = append(r.overlays, o)
	r.enabled[o.ID] = o.Default
}

// Toggle flips an overlay and returns its new state. Showing an overlay hides
// the ones it replaces.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	i := slices.IndexFunc(r.overlays, func(o Overlay) bool { return o.ID == id })
	if i < 0 {
		return false
	}
	on := !r.enabled[id]
	r.enabled[id] = on
	if on {
		for _, other := range r.overlays[i].Replaces {
			r.enabled[other] = false
		}
	}
	return on
}

// IsEnabled reports whether an overlay is shown.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns the overlays in registration order.
func (r *OverlayRegistry) All() []Overlay {
	return r.overlays
}

// ByCategory returns the overlays in category c.
func (r *OverlayRegistry) ByCategory(c Category) []Overlay {
	var out []Overlay
	for _, o := range r.overlays {
		if o.Category == c {
			out = append(out, o)
		}
	}
	return out
}

// Categories returns the categories in first-seen order.
func (r *OverlayRegistry) Categories() []Category {
	var cats []Category
	for _, o := range r.overlays {
		if !slices.Contains(cats, o.Category) {
			cats = append(cats, o.Category)
		}
	}
	return cats
}

// HandleKeyPress toggles the overlay bound to key. ok is false when no
// overlay uses the key.
func (r *OverlayRegistry) HandleKeyPress(key int32) (id OverlayID, on, ok bool) {
	for _, o := range r.overlays {
		if o.Key == key {
			return o.ID, r.Toggle(o.ID), true
		}
	}
	return "", false, false
}
