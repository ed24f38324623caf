package rocket

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// StateSize is the number of scalars in a packed state vector.
const StateSize = 18

// State is the state vector of a rigid body. Every vector is expressed in the world frame.
// The orientation rows express the body axes in world coordinates.
type State struct {
	Position        mgl64.Vec3 // meters
	Orientation     mgl64.Mat3
	LinearMomentum  mgl64.Vec3 // mass × velocity
	AngularMomentum mgl64.Vec3
}

// NewState returns a state at the origin, with an identity orientation and no momentum.
func NewState() State {
	return State{Orientation: mgl64.Ident3()}
}

// Pack returns the state as a flat vector: position, row major orientation, linear momentum and angular momentum.
func (s State) Pack() []float64 {
	y := make([]float64, StateSize)
	s.PackInto(y)
	return y
}

// PackInto writes the flat state vector into y, which must be at least StateSize long.
func (s State) PackInto(y []float64) {
	for i := 0; i < 3; i++ {
		y[i] = s.Position[i]
		y[12+i] = s.LinearMomentum[i]
		y[15+i] = s.AngularMomentum[i]
		for j := 0; j < 3; j++ {
			y[3+3*i+j] = s.Orientation.At(i, j)
		}
	}
}

// Unpack returns the state stored in a flat vector generated by Pack.
func Unpack(y []float64) (s State) {
	if len(y) < StateSize {
		panic(fmt.Errorf("state vector must have %d elements, got %d", StateSize, len(y)))
	}
	for i := 0; i < 3; i++ {
		s.Position[i] = y[i]
		s.LinearMomentum[i] = y[12+i]
		s.AngularMomentum[i] = y[15+i]
		for j := 0; j < 3; j++ {
			s.Orientation.Set(i, j, y[3+3*i+j])
		}
	}
	return
}

// Velocity returns the linear velocity for the given mass.
func (s State) Velocity(mass float64) mgl64.Vec3 {
	return s.LinearMomentum.Mul(1 / mass)
}

// String implements the Stringer interface.
func (s State) String() string {
	R := s.Orientation
	return fmt.Sprintf("Pos %v\nRot [%v %v %v]\nP %v\nL %v", s.Position, R.Row(0), R.Row(1), R.Row(2), s.LinearMomentum, s.AngularMomentum)
}
