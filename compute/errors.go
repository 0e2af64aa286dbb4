package compute

import (
	"errors"
	"fmt"
)

// ErrStaleHandle is returned when a handle or surface reference outlives the
// simulation generation that created it.
var ErrStaleHandle = errors.New("compute: handle refers to a disposed simulation")

// ErrNotInitialized is returned when a tick or buffer read is attempted
// before Init has succeeded.
var ErrNotInitialized = errors.New("compute: simulation not initialized")

// CapabilityError reports a missing device feature detected at Init.
// It is fatal: no simulation may run on the device.
type CapabilityError struct {
	Reason string
}

func (e *CapabilityError) Error() string {
	return "compute: capability missing: " + e.Reason
}

// ConfigurationError reports a programmer error in variable setup.
type ConfigurationError struct {
	Variable string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	if e.Variable == "" {
		return "compute: configuration: " + e.Reason
	}
	return fmt.Sprintf("compute: configuration of %q: %s", e.Variable, e.Reason)
}

// AllocationError reports a surface request the device cannot satisfy.
type AllocationError struct {
	Width, Height int
	Reason        string
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("compute: cannot allocate %dx%d surface: %s", e.Width, e.Height, e.Reason)
}

// CycleError reports a dependency that would read another variable's output
// before that output exists within the tick.
type CycleError struct {
	Variable   string
	Dependency string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("compute: %q reads the next value of %q, which is not computed before it", e.Variable, e.Dependency)
}
