package rocket

import "fmt"

// DegenerateOrientationError is returned when an orientation matrix cannot be orthonormalized,
// i.e. one of its rows has a (near) zero norm or its first two rows are (near) parallel.
type DegenerateOrientationError struct {
	Row  int
	Norm float64
}

func (e *DegenerateOrientationError) Error() string {
	return fmt.Sprintf("degenerate orientation: row %d has norm %g", e.Row, e.Norm)
}

// IntegrationDivergedError is returned when the integrator produces a non finite or out of range state.
// The body which encountered it is frozen (paused) and keeps its last valid state.
type IntegrationDivergedError struct {
	Time  float64 // Simulated time at the start of the failed step.
	Index int     // Index in the packed state of the offending value, -1 if unknown.
	Value float64
	Err   error // Underlying cause, if any.
}

func (e *IntegrationDivergedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("integration diverged @ t=%.3f: %s", e.Time, e.Err)
	}
	return fmt.Sprintf("integration diverged @ t=%.3f: state[%d]=%g", e.Time, e.Index, e.Value)
}

// Unwrap returns the underlying cause.
func (e *IntegrationDivergedError) Unwrap() error {
	return e.Err
}

// InvalidControlStateError is returned when a control input cannot be applied.
type InvalidControlStateError struct {
	Control string
	Reason  string
}

func (e *InvalidControlStateError) Error() string {
	return fmt.Sprintf("invalid control `%s`: %s", e.Control, e.Reason)
}
