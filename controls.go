package rocket

import (
	"fmt"
	"strings"
)

// Controls is a snapshot of the control flags of a body. It is taken once per step
// and is identical for every derivative evaluation within that step.
type Controls struct {
	Thrust, LeftThrust, RightThrust, AirResistance bool
}

// String implements the Stringer interface.
func (c Controls) String() string {
	return fmt.Sprintf("thrust=%t left=%t right=%t drag=%t", c.Thrust, c.LeftThrust, c.RightThrust, c.AirResistance)
}

// Control identifies a control input.
type Control uint8

const (
	// ThrustControl toggles the main engine.
	ThrustControl Control = iota + 1
	// LeftControl toggles the left tilt thruster.
	LeftControl
	// RightControl toggles the right tilt thruster.
	RightControl
	// AirResistanceControl toggles linear drag.
	AirResistanceControl
	// PauseControl pauses (enabled) or resumes (disabled) the simulation.
	PauseControl
)

func (c Control) String() string {
	switch c {
	case ThrustControl:
		return "thrust"
	case LeftControl:
		return "left"
	case RightControl:
		return "right"
	case AirResistanceControl:
		return "air_resistance"
	case PauseControl:
		return "pause"
	}
	panic("cannot stringify unknown control")
}

// ControlFromString returns the control from its name.
func ControlFromString(name string) (Control, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "thrust", "up":
		return ThrustControl, nil
	case "left", "left_thrust":
		return LeftControl, nil
	case "right", "right_thrust":
		return RightControl, nil
	case "air_resistance", "drag":
		return AirResistanceControl, nil
	case "pause":
		return PauseControl, nil
	}
	return 0, &InvalidControlStateError{Control: name, Reason: "unknown control"}
}

// ControlEvent sets a control at a given time of the driver clock. The driver clock counts
// ticks, which are independent of the simulated time: it keeps running while the body is paused.
type ControlEvent struct {
	At      float64 // Driver clock in seconds (ticks × tick period).
	Control Control
	Enabled bool
}

// Validate returns an error if the event cannot be applied.
func (e ControlEvent) Validate() error {
	if e.Control < ThrustControl || e.Control > PauseControl {
		return &InvalidControlStateError{Control: fmt.Sprintf("#%d", e.Control), Reason: "unknown control"}
	}
	if e.At < 0 {
		return &InvalidControlStateError{Control: e.Control.String(), Reason: fmt.Sprintf("scheduled at negative time %f", e.At)}
	}
	return nil
}

func (e ControlEvent) String() string {
	return fmt.Sprintf("%s=%t @ %.2fs", e.Control, e.Enabled, e.At)
}
