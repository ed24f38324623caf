package rocket

import (
	"errors"
	"math"
	"os"
	"sync"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	// forwardAxis is the body axis whose deviation from the world x axis defines the tilt.
	forwardAxis = mgl64.Vec3{1, 0, 0}
)

// RigidBody owns the state, constants and control flags of a single body, and advances it
// with an Integrator once per Step.
// Control setters and Pause/Resume may be called from another goroutine than Step.
type RigidBody struct {
	Constants Constants
	bias      Bias
	integ     Integrator
	logger    kitlog.Logger

	state State
	t     float64

	mu       sync.Mutex // Protects the flags below.
	controls Controls
	paused   bool
}

// NewRigidBody is the same as NewCustomRigidBody with the default constants, integrator and a logfmt logger to stdout.
func NewRigidBody(force, torque mgl64.Vec3) *RigidBody {
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	return NewCustomRigidBody(DefaultConstants(), force, torque, DefaultIntegrator(), klog)
}

// NewCustomRigidBody returns a running body at the origin, at rest, with an identity orientation at time 0.
// force and torque are a constant external bias.
func NewCustomRigidBody(c Constants, force, torque mgl64.Vec3, integ Integrator, logger kitlog.Logger) *RigidBody {
	if integ == nil {
		panic("integrator may not be nil")
	}
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &RigidBody{
		Constants: c,
		bias:      Bias{force, torque},
		integ:     integ,
		logger:    kitlog.With(logger, "subsys", "physics"),
		state:     NewState(),
	}
}

// Pause freezes the body: Step becomes a no-op.
func (b *RigidBody) Pause() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.paused = true
}

// Resume unfreezes the body.
func (b *RigidBody) Resume() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.paused = false
}

// Paused returns whether the body is paused.
func (b *RigidBody) Paused() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.paused
}

// SetThrust enables or disables the main engine.
func (b *RigidBody) SetThrust(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.controls.Thrust = enabled
}

// SetLeftThrust enables or disables the left tilt thruster.
func (b *RigidBody) SetLeftThrust(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.controls.LeftThrust = enabled
}

// SetRightThrust enables or disables the right tilt thruster.
func (b *RigidBody) SetRightThrust(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.controls.RightThrust = enabled
}

// SetAirResistance enables or disables the linear drag.
func (b *RigidBody) SetAirResistance(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.controls.AirResistance = enabled
}

// Apply applies a control event, regardless of its scheduled time.
func (b *RigidBody) Apply(e ControlEvent) error {
	if err := e.Validate(); err != nil {
		return err
	}
	switch e.Control {
	case ThrustControl:
		b.SetThrust(e.Enabled)
	case LeftControl:
		b.SetLeftThrust(e.Enabled)
	case RightControl:
		b.SetRightThrust(e.Enabled)
	case AirResistanceControl:
		b.SetAirResistance(e.Enabled)
	case PauseControl:
		if e.Enabled {
			b.Pause()
		} else {
			b.Resume()
		}
	}
	return nil
}

// Controls returns a snapshot of the current control flags.
func (b *RigidBody) Controls() Controls {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.controls
}

// snapshot returns the controls and paused flag atomically.
func (b *RigidBody) snapshot() (Controls, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.controls, b.paused
}

// Step advances the body by dt simulated seconds. It is a no-op while paused.
// On error the state and time are left unchanged. If the integration diverges, the body is also paused.
func (b *RigidBody) Step(dt float64) error {
	ctl, paused := b.snapshot()
	if paused {
		return nil
	}
	c := b.Constants
	bias := b.bias
	f := func(t float64, y, dydt []float64) error {
		rate, err := Derivative(t, Unpack(y), bias, c, ctl)
		if err != nil {
			return err
		}
		rate.PackInto(dydt)
		return nil
	}
	y, err := b.integ.Integrate(f, b.t, dt, b.state.Pack())
	if err != nil {
		var dErr *IntegrationDivergedError
		if errors.As(err, &dErr) {
			b.Pause()
			b.logger.Log("level", "critical", "status", "diverged", "t", b.t, "err", err)
		} else {
			b.logger.Log("level", "error", "status", "step failed", "t", b.t, "err", err)
		}
		return err
	}
	b.state = Unpack(y)
	b.t += dt
	return nil
}

// Time returns the simulated time in seconds.
func (b *RigidBody) Time() float64 {
	return b.t
}

// State returns a copy of the state vector.
func (b *RigidBody) State() State {
	return b.state
}

// Position returns the world frame position.
func (b *RigidBody) Position() mgl64.Vec3 {
	return b.state.Position
}

// Orientation returns the orientation matrix as integrated, i.e. not orthonormalized.
func (b *RigidBody) Orientation() mgl64.Mat3 {
	return b.state.Orientation
}

// LinearMomentum returns the linear momentum.
func (b *RigidBody) LinearMomentum() mgl64.Vec3 {
	return b.state.LinearMomentum
}

// AngularMomentum returns the angular momentum.
func (b *RigidBody) AngularMomentum() mgl64.Vec3 {
	return b.state.AngularMomentum
}

// Velocity returns the linear velocity.
func (b *RigidBody) Velocity() mgl64.Vec3 {
	return b.state.Velocity(b.Constants.Mass)
}

// TiltAngle2D returns the angle in degrees between the world x axis and the body forward axis,
// and the rotation axis between them. The angle is negative when the axis points in -z.
func (b *RigidBody) TiltAngle2D() (float64, mgl64.Vec3) {
	v2 := b.state.Orientation.Mul3x1(forwardAxis)
	cosθ := math.Max(-1, math.Min(1, forwardAxis.Dot(v2)))
	axis := cross(forwardAxis, v2)
	angle := math.Acos(cosθ) / deg2rad
	if axis[2] < 0 {
		angle *= -1
	}
	return angle, axis
}

// ThrustDirectionBody returns the thrust reference vector expressed in the body frame.
func (b *RigidBody) ThrustDirectionBody() (mgl64.Vec3, error) {
	R, err := Orthonormalize(b.state.Orientation)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return WorldToBody(R, b.Constants.Thrust), nil
}

// LogStatus logs the state of the body.
func (b *RigidBody) LogStatus() {
	angle, _ := b.TiltAngle2D()
	b.logger.Log("level", "info", "t", b.t, "pos", vecString(b.state.Position), "vel", vecString(b.Velocity()), "tilt(deg)", angle, "controls", b.Controls(), "paused", b.Paused())
}
