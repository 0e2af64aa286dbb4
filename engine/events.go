package engine

import "fmt"

// EventKind classifies engine events.
type EventKind int

const (
	// ResolutionChanged: the grid (or in ceiling mode the active tier) changed
	// size. Surface references taken before it are stale.
	ResolutionChanged EventKind = iota
	// AllocationFallback: a tier could not be allocated and a smaller one was tried.
	AllocationFallback
)

func (k EventKind) String() string {
	switch k {
	case ResolutionChanged:
		return "resolution_changed"
	case AllocationFallback:
		return "allocation_fallback"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event reports a change the host may need to react to, such as re-fetching
// surfaces or regenerating geometry.
type Event struct {
	Kind     EventKind
	OldWidth int
	NewWidth int
	Err      error
}
