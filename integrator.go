package rocket

import (
	"errors"
	"fmt"
	"math"

	"github.com/ChristopherRabotin/ode"
	"gonum.org/v1/gonum/floats"
)

const (
	// StepSize is the default simulated time advanced per external step, in seconds.
	StepSize = 0.1
	// divergenceBound is the magnitude beyond which a state component is considered diverged.
	divergenceBound = 1e15
)

// Func computes the derivative of y at t into dydt.
type Func func(t float64, y, dydt []float64) error

// Integrator advances a state vector from t to t+dt.
type Integrator interface {
	// Integrate returns the state at t+dt. y is not modified.
	Integrate(f Func, t, dt float64, y []float64) ([]float64, error)
}

// checkState returns an *IntegrationDivergedError if y is not finite or out of range.
func checkState(t float64, y []float64) error {
	if isFinite(y) && floats.Norm(y, math.Inf(1)) < divergenceBound {
		return nil
	}
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) >= divergenceBound {
			return &IntegrationDivergedError{Time: t, Index: i, Value: v}
		}
	}
	return &IntegrationDivergedError{Time: t, Index: -1, Value: math.NaN()}
}

// asDiverged wraps err in an *IntegrationDivergedError unless it already is a known error.
func asDiverged(t float64, err error) error {
	var dErr *IntegrationDivergedError
	var oErr *DegenerateOrientationError
	if errors.As(err, &dErr) || errors.As(err, &oErr) {
		return err
	}
	return &IntegrationDivergedError{Time: t, Index: -1, Err: err}
}

/* Dormand-Prince 5(4) tableau. */
var (
	dpC = [7]float64{0, 1. / 5, 3. / 10, 4. / 5, 8. / 9, 1, 1}
	dpA = [7][6]float64{
		{},
		{1. / 5},
		{3. / 40, 9. / 40},
		{44. / 45, -56. / 15, 32. / 9},
		{19372. / 6561, -25360. / 2187, 64448. / 6561, -212. / 729},
		{9017. / 3168, -355. / 33, 46732. / 5247, 49. / 176, -5103. / 18656},
		{35. / 384, 0, 500. / 1113, 125. / 192, -2187. / 6784, 11. / 84},
	}
	// Difference between the 5th and 4th order weights.
	dpE = [7]float64{71. / 57600, 0, -71. / 16695, 71. / 1920, -17253. / 339200, 22. / 525, -1. / 40}
)

// DormandPrince is an adaptive step Runge-Kutta 5(4) integrator with local error control.
// Any number of internal steps may be taken to advance by the requested dt.
type DormandPrince struct {
	AbsTol, RelTol float64
	MaxSteps       int     // Maximum number of internal steps per call.
	MinStep        float64 // Smallest internal step before giving up.
	// Statistics of the last call.
	Evaluations, Accepted, Rejected int
}

// NewDormandPrince returns a new adaptive integrator with the provided tolerances.
func NewDormandPrince(absTol, relTol float64) *DormandPrince {
	if absTol <= 0 || relTol <= 0 {
		panic("tolerances must be positive")
	}
	return &DormandPrince{AbsTol: absTol, RelTol: relTol, MaxSteps: 100000, MinStep: 1e-12}
}

// DefaultIntegrator returns the default adaptive integrator.
func DefaultIntegrator() *DormandPrince {
	return NewDormandPrince(1e-10, 1e-10)
}

// Integrate implements the Integrator interface.
func (dp *DormandPrince) Integrate(f Func, t, dt float64, y []float64) ([]float64, error) {
	dp.Evaluations, dp.Accepted, dp.Rejected = 0, 0, 0
	n := len(y)
	cur := make([]float64, n)
	copy(cur, y)
	if dt == 0 {
		return cur, nil
	}
	var k [7][]float64
	for i := range k {
		k[i] = make([]float64, n)
	}
	tmp := make([]float64, n)
	next := make([]float64, n)

	eval := func(ti float64, yi, dst []float64) error {
		dp.Evaluations++
		return f(ti, yi, dst)
	}

	tEnd := t + dt
	direction := math.Copysign(1, dt)
	if err := eval(t, cur, k[0]); err != nil {
		return nil, asDiverged(t, err)
	}
	h := dp.initialStep(t, cur, k[0], dt)

	for steps := 0; direction*(tEnd-t) > 0; steps++ {
		if steps >= dp.MaxSteps {
			return nil, &IntegrationDivergedError{Time: t, Index: -1, Err: fmt.Errorf("no convergence after %d steps", steps)}
		}
		if math.Abs(h) < dp.MinStep {
			return nil, &IntegrationDivergedError{Time: t, Index: -1, Err: fmt.Errorf("step size %g below minimum", h)}
		}
		last := false
		if direction*(t+h-tEnd) >= 0 {
			h = tEnd - t
			last = true
		}

		for s := 1; s < 7; s++ {
			copy(tmp, cur)
			for j := 0; j < s; j++ {
				if dpA[s][j] != 0 {
					floats.AddScaled(tmp, h*dpA[s][j], k[j])
				}
			}
			if s == 6 {
				// The last stage is evaluated at the 5th order solution (FSAL).
				copy(next, tmp)
			}
			if err := eval(t+dpC[s]*h, tmp, k[s]); err != nil {
				return nil, asDiverged(t, err)
			}
		}

		// Scaled RMS norm of the local error estimate.
		errNorm := 0.0
		for i := 0; i < n; i++ {
			e := 0.0
			for s := 0; s < 7; s++ {
				e += dpE[s] * k[s][i]
			}
			e *= h
			sc := dp.AbsTol + dp.RelTol*math.Max(math.Abs(cur[i]), math.Abs(next[i]))
			errNorm += (e / sc) * (e / sc)
		}
		errNorm = math.Sqrt(errNorm / float64(n))
		if math.IsNaN(errNorm) || math.IsInf(errNorm, 0) {
			if err := checkState(t, next); err != nil {
				return nil, err
			}
			return nil, &IntegrationDivergedError{Time: t, Index: -1, Err: errors.New("error estimate is not finite")}
		}

		if errNorm <= 1 {
			dp.Accepted++
			t += h
			if last {
				t = tEnd
			}
			copy(cur, next)
			copy(k[0], k[6])
			if floats.Norm(cur, math.Inf(1)) >= divergenceBound {
				return nil, checkState(t, cur)
			}
		} else {
			dp.Rejected++
		}
		h *= stepFactor(errNorm)
	}
	if err := checkState(tEnd, cur); err != nil {
		return nil, err
	}
	return cur, nil
}

// initialStep guesses the first internal step from the scale of the derivative.
func (dp *DormandPrince) initialStep(t float64, y, dydt []float64, dt float64) float64 {
	d0, d1 := 0.0, 0.0
	for i := range y {
		sc := dp.AbsTol + dp.RelTol*math.Abs(y[i])
		d0 += (y[i] / sc) * (y[i] / sc)
		d1 += (dydt[i] / sc) * (dydt[i] / sc)
	}
	d0 = math.Sqrt(d0 / float64(len(y)))
	d1 = math.Sqrt(d1 / float64(len(y)))
	h := 0.01 * d0 / d1
	if d0 < 1e-5 || d1 < 1e-5 || math.IsNaN(h) {
		h = 1e-6
	}
	h = math.Min(h, math.Abs(dt))
	return math.Copysign(h, dt)
}

// stepFactor returns the factor by which to scale the step for the given error norm.
func stepFactor(errNorm float64) float64 {
	const (
		safety    = 0.9
		minFactor = 0.2
		maxFactor = 10
	)
	if errNorm == 0 {
		return maxFactor
	}
	return math.Min(maxFactor, math.Max(minFactor, safety*math.Pow(errNorm, -1./5)))
}

// RK4 is a fixed step fourth order Runge-Kutta integrator which splits each call in Substeps.
type RK4 struct {
	Substeps int
}

// NewRK4 returns a new RK4 integrator.
func NewRK4(substeps int) *RK4 {
	if substeps <= 0 {
		panic("substeps must be positive")
	}
	return &RK4{substeps}
}

// Integrate implements the Integrator interface.
func (r *RK4) Integrate(f Func, t, dt float64, y []float64) ([]float64, error) {
	p := &rk4Problem{f: f, state: make([]float64, len(y)), substeps: r.Substeps}
	copy(p.state, y)
	ode.NewRK4(t, dt/float64(r.Substeps), p).Solve() // Blocking.
	if p.err != nil {
		return nil, asDiverged(t, p.err)
	}
	if err := checkState(t+dt, p.state); err != nil {
		return nil, err
	}
	return p.state, nil
}

// rk4Problem implements ode.Integrable for a single external step.
type rk4Problem struct {
	f        Func
	state    []float64
	substeps int
	done     int
	err      error
}

// GetState implements the ode.Integrable interface.
func (p *rk4Problem) GetState() []float64 {
	return p.state
}

// SetState implements the ode.Integrable interface.
func (p *rk4Problem) SetState(t float64, s []float64) {
	copy(p.state, s)
	p.done++
}

// Stop implements the ode.Integrable interface.
func (p *rk4Problem) Stop(t float64) bool {
	return p.done >= p.substeps || p.err != nil
}

// Func implements the ode.Integrable interface.
func (p *rk4Problem) Func(t float64, s []float64) []float64 {
	dydt := make([]float64, len(s))
	if p.err != nil {
		return dydt
	}
	if err := p.f(t, s, dydt); err != nil {
		p.err = err
		for i := range dydt {
			dydt[i] = 0
		}
	}
	return dydt
}
