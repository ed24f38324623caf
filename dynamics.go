package rocket

import "github.com/go-gl/mathgl/mgl64"

// Bias is the external force and torque applied to a body on top of the modeled ones.
type Bias struct {
	Force, Torque mgl64.Vec3
}

// Gravity returns the gravitational term for a body at the provided position.
// NOTE: The body mass is multiplied and then divided, so this is an acceleration which is
// nonetheless summed with forces in Derivative.
func Gravity(position mgl64.Vec3, c Constants) float64 {
	distance := norm(position)
	r := distance + c.Planet.Radius
	return ((-c.G * c.Planet.Mass * c.Mass) / (r * r)) / c.Mass
}

// Derivative returns the time derivative of the state s, given the external bias, the constants
// of the body and the controls of the current step. The returned State holds rates and its
// orientation is not a rotation matrix.
func Derivative(t float64, s State, bias Bias, c Constants, ctl Controls) (rate State, err error) {
	// dx/dt = P/m
	rate.Position = s.LinearMomentum.Mul(1 / c.Mass)

	R, err := Orthonormalize(s.Orientation)
	if err != nil {
		return State{}, err
	}
	// World frame inverse inertia tensor and angular velocity.
	Iinv := R.Mul3(c.InertiaBodyInv.Mul3(R.Transpose()))
	ω := Iinv.Mul3x1(s.AngularMomentum)
	rate.Orientation = Skew(ω).Mul3(R)

	g := Gravity(s.Position, c)
	var force mgl64.Vec3
	if ctl.Thrust {
		force = mgl64.Vec3{bias.Force[0], bias.Force[1] + g, bias.Force[2]}
		// XXX: The thrust is rotated to the body frame but summed with world frame forces.
		force = force.Add(WorldToBody(R, c.Thrust))
	} else if c.PadHold && norm(s.Position) == 0 {
		force = mgl64.Vec3{}
	} else {
		force = mgl64.Vec3{0, g, 0}
	}

	// The tilt thrusters are ineffective on the ground.
	altitude := s.Position[1]
	var torque mgl64.Vec3
	switch {
	case ctl.LeftThrust && altitude > 0:
		torque = mgl64.Vec3{0, 0, -c.TiltTorque}
	case ctl.RightThrust && altitude > 0:
		torque = mgl64.Vec3{0, 0, c.TiltTorque}
	default:
		torque = bias.Torque
	}

	if ctl.AirResistance {
		force[0] -= c.DragCoefficient * s.LinearMomentum[0]
		force[1] -= c.DragCoefficient * s.LinearMomentum[1]
	}

	rate.LinearMomentum = force
	rate.AngularMomentum = torque
	return rate, nil
}
