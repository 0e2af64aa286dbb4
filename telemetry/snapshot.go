package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pthm-cable/swarm/compute"
	"github.com/pthm-cable/swarm/engine"
)

// SnapshotVersion is the current buffer snapshot format version.
const SnapshotVersion = 1

// BufferSnapshot captures the active cells of each variable's current buffer.
type BufferSnapshot struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	Tick      uint64    `json:"tick"`
	SimTime   float32   `json:"sim_time"`
	Mode      string    `json:"mode"`
	Width     int       `json:"width"`
	Active    int       `json:"active"`

	// Variables maps a variable name to Active*4 floats (RGBA per cell).
	Variables map[string][]float32 `json:"variables"`
}

// BufferSnapshotFromEngine copies the current buffers of vars.
func BufferSnapshotFromEngine(e *engine.Engine, vars ...engine.Var) (*BufferSnapshot, error) {
	snap := &BufferSnapshot{
		Version:   SnapshotVersion,
		CreatedAt: time.Now().UTC(),
		Tick:      e.Ticks(),
		SimTime:   e.SimTime(),
		Mode:      string(e.Mode()),
		Width:     e.Width(),
		Active:    e.ActiveCount(),
		Variables: make(map[string][]float32, len(vars)),
	}
	for _, v := range vars {
		data, err := e.Snapshot(v)
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", v.Name(), err)
		}
		n := min(snap.Active*compute.Channels, len(data))
		snap.Variables[v.Name()] = data[:n]
	}
	return snap, nil
}

// Cell returns cell i of variable name.
func (s *BufferSnapshot) Cell(name string, i int) (compute.Vec4, bool) {
	data, ok := s.Variables[name]
	o := i * compute.Channels
	if !ok || i < 0 || o+compute.Channels > len(data) {
		return compute.Vec4{}, false
	}
	return compute.Vec4{data[o], data[o+1], data[o+2], data[o+3]}, true
}

// SaveBufferSnapshot writes a snapshot to dir.
// Returns the filepath where it was saved.
func SaveBufferSnapshot(snapshot *BufferSnapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("buffers_%d_w%d.json", snapshot.Tick, snapshot.Width)
	path := filepath.Join(dir, name)

	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadBufferSnapshot reads a snapshot from disk.
func LoadBufferSnapshot(path string) (*BufferSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot BufferSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
