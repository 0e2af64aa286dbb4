package systems

// Frame phase identifiers shared by the perf collector and the HUD.
const (
	PhaseInput       = "input"
	PhaseInteraction = "interaction"
	PhaseAudio       = "audio"
	PhaseRebuild     = "rebuild"
	PhaseCompute     = "compute"
	PhaseRender      = "render"
	PhaseUI          = "ui"
	PhaseTelemetry   = "telemetry"
)

// SystemInfo describes a frame phase for UI display.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string
	Category    string // "sim", "host" or "visual"
}

// SystemRegistry holds metadata about every frame phase.
// This keeps phase naming in one place so the HUD and perf tracker agree.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known phases.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.Register(SystemInfo{ID: PhaseInput, Name: "Input", Description: "Polls keyboard and pointer", Category: "host"})
	reg.Register(SystemInfo{ID: PhaseInteraction, Name: "Interaction", Description: "Ages wells and fills force uniforms", Category: "sim"})
	reg.Register(SystemInfo{ID: PhaseAudio, Name: "Audio", Description: "Updates smoothed audio levels", Category: "host"})
	reg.Register(SystemInfo{ID: PhaseRebuild, Name: "Rebuild", Description: "Resizes the particle grid after a tier change", Category: "sim"})
	reg.Register(SystemInfo{ID: PhaseCompute, Name: "Compute", Description: "Runs the fixed physics steps", Category: "sim"})
	reg.Register(SystemInfo{ID: PhaseRender, Name: "Render", Description: "Draws the active particles", Category: "visual"})
	reg.Register(SystemInfo{ID: PhaseUI, Name: "UI", Description: "Draws the settings panel and HUD", Category: "visual"})
	reg.Register(SystemInfo{ID: PhaseTelemetry, Name: "Telemetry", Description: "Records perf windows and metrics", Category: "host"})
	return reg
}

// Register adds a phase to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// GetName returns the display name for a phase ID, or the ID itself.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered phases in order.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// IDs returns all phase IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
