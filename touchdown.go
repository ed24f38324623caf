package rocket

import "math"

const (
	// ImpactSpeed is the vertical speed above which touching the ground destroys the rocket.
	ImpactSpeed = 1.20
	// uprightThrust is the minimum body frame vertical thrust component for the rocket to be
	// considered upright on the ground.
	uprightThrust = 400
)

// Outcome is the result of a touchdown assessment.
type Outcome uint8

const (
	// Flying means the rocket has not touched down.
	Flying Outcome = iota
	// Landed means the rocket touched down safely.
	Landed
	// Exploded means the rocket hit the ground too fast or too tilted.
	Exploded
)

func (o Outcome) String() string {
	switch o {
	case Flying:
		return "flying"
	case Landed:
		return "landed"
	case Exploded:
		return "exploded"
	}
	panic("cannot stringify unknown outcome")
}

// Assess returns whether the body is still flying, has landed or has exploded.
// The body is not modified.
func Assess(b *RigidBody) (Outcome, error) {
	s := b.State()
	if s.Position[1] > 0 {
		return Flying, nil
	}
	vy := math.Abs(s.LinearMomentum[1] / b.Constants.Mass)
	if vy > ImpactSpeed {
		return Exploded, nil
	}
	thrust, err := b.ThrustDirectionBody()
	if err != nil {
		return Flying, err
	}
	if thrust[1] <= uprightThrust {
		return Exploded, nil
	}
	if vy < ImpactSpeed && vy != 0 {
		return Landed, nil
	}
	return Flying, nil
}
