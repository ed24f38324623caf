package rocket

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultMass is the default rocket mass in kg.
	DefaultMass = 5000
	// DefaultDragCoefficient is the linear drag coefficient applied to the momentum.
	DefaultDragCoefficient = 0.1
	// DefaultTiltTorque is the magnitude of the torque applied by the left or right thrusters.
	DefaultTiltTorque = 0.1
)

// DefaultThrust is the thrust vector, nominally along world up.
var DefaultThrust = mgl64.Vec3{0, 500, 0}

// Constants are the physical constants of a rigid body, immutable after construction.
type Constants struct {
	Mass            float64
	InertiaBody     mgl64.Mat3 // Inertia tensor in the body frame.
	InertiaBodyInv  mgl64.Mat3
	G               float64
	Planet          CelestialObject // Attracting body.
	DragCoefficient float64
	Thrust          mgl64.Vec3 // World frame thrust reference vector.
	TiltTorque      float64
	// PadHold cancels all forces when the thrust is off and the body sits exactly at the origin.
	PadHold bool
}

// NewConstants returns the constants of a body of the provided mass and body inertia tensor attracted by planet.
// Drag, thrust and tilt torque are set to their default values.
func NewConstants(mass float64, inertia mgl64.Mat3, planet CelestialObject) (Constants, error) {
	if !(mass > 0) {
		return Constants{}, fmt.Errorf("mass must be positive, got %f", mass)
	}
	inv, err := invert33(inertia)
	if err != nil {
		return Constants{}, fmt.Errorf("inertia tensor: %w", err)
	}
	return Constants{
		Mass:            mass,
		InertiaBody:     inertia,
		InertiaBodyInv:  inv,
		G:               G,
		Planet:          planet,
		DragCoefficient: DefaultDragCoefficient,
		Thrust:          DefaultThrust,
		TiltTorque:      DefaultTiltTorque,
	}, nil
}

// DefaultConstants returns the constants of a 5000 kg rocket with identity inertia on Earth.
func DefaultConstants() Constants {
	c, err := NewConstants(DefaultMass, mgl64.Ident3(), Earth)
	if err != nil {
		panic(err)
	}
	return c
}

// invert33 inverts a 3x3 matrix via LU.
func invert33(m mgl64.Mat3) (mgl64.Mat3, error) {
	dense := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			dense.Set(i, j, m.At(i, j))
		}
	}
	var inv mat.Dense
	if err := inv.Inverse(dense); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return mgl64.Mat3{}, fmt.Errorf("singular or ill conditioned (condition number %g)", float64(cond))
		}
		return mgl64.Mat3{}, err
	}
	var out mgl64.Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.Set(i, j, inv.At(i, j))
		}
	}
	return out, nil
}
