// Package telemetry provides frame statistics, perf timing, CSV and metrics
// output, and particle buffer snapshots.
package telemetry

import "github.com/pthm-cable/swarm/engine"

// TierEvent is one resolution change or allocation fallback, as written to
// tiers.csv.
type TierEvent struct {
	Frame    int64   `csv:"frame"`
	SimTime  float64 `csv:"sim_time"`
	Kind     string  `csv:"kind"`
	OldWidth int     `csv:"old_width"`
	NewWidth int     `csv:"new_width"`
	Active   int     `csv:"active"`
	FPS      float64 `csv:"fps"`
	Error    string  `csv:"error"`
}

// NewTierEvent converts an engine event.
func NewTierEvent(frame int64, simTime float64, ev engine.Event, active int, fps float64) TierEvent {
	te := TierEvent{
		Frame:    frame,
		SimTime:  simTime,
		Kind:     ev.Kind.String(),
		OldWidth: ev.OldWidth,
		NewWidth: ev.NewWidth,
		Active:   active,
		FPS:      fps,
	}
	if ev.Err != nil {
		te.Error = ev.Err.Error()
	}
	return te
}
