package rocket

import (
	"fmt"
	"strings"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/viper"
)

const (
	// OutputEnvVar overrides the export directory of any scenario.
	OutputEnvVar = "ROCKET_OUTPUT"
	dateFormat   = "2006-01-02 15:04:05"
)

// Scenario is a simulation as described by a configuration file.
type Scenario struct {
	Name       string
	Constants  Constants
	Bias       Bias
	Integrator Integrator
	Step       float64
	Tick       time.Duration
	Realtime   bool
	Duration   float64
	Events     []ControlEvent
	Export     ExportConfig
}

// RigidBody returns a new body for this scenario.
func (s Scenario) RigidBody(logger kitlog.Logger) *RigidBody {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return NewCustomRigidBody(s.Constants, s.Bias.Force, s.Bias.Torque, s.Integrator, kitlog.With(logger, "scenario", s.Name))
}

// Simulation returns a new simulation, and its body, for this scenario.
func (s Scenario) Simulation(logger kitlog.Logger) (*Simulation, error) {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	sim, err := NewSimulation(s.RigidBody(logger), s.Events, s.Export, kitlog.With(logger, "scenario", s.Name))
	if err != nil {
		return nil, err
	}
	sim.Step = s.Step
	sim.Tick = s.Tick
	sim.Realtime = s.Realtime
	sim.Duration = s.Duration
	return sim, nil
}

// newScenarioViper returns a viper instance with all the scenario defaults set.
func newScenarioViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("general.name", "rocket")
	v.SetDefault("body.mass", DefaultMass)
	v.SetDefault("body.inertia", []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	v.SetDefault("body.drag", DefaultDragCoefficient)
	v.SetDefault("body.thrust", DefaultThrust[1])
	v.SetDefault("body.tilt_torque", DefaultTiltTorque)
	v.SetDefault("body.pad_hold", false)
	v.SetDefault("body.force", []float64{0, 0, 0})
	v.SetDefault("body.torque", []float64{0, 0, 0})
	v.SetDefault("planet.name", Earth.Name)
	v.SetDefault("integrator.method", "dopri")
	v.SetDefault("integrator.abs_tol", 1e-10)
	v.SetDefault("integrator.rel_tol", 1e-10)
	v.SetDefault("integrator.substeps", 10)
	v.SetDefault("simulation.step", StepSize)
	v.SetDefault("simulation.tick", TickRate)
	v.SetDefault("simulation.realtime", false)
	v.SetDefault("simulation.duration", 0)
	v.SetDefault("export.csv", false)
	v.SetDefault("export.timestamp", false)
	v.SetDefault("export.directory", ".")
	v.BindEnv("export.directory", OutputEnvVar)
	return v
}

// DefaultScenario returns the scenario used when no configuration file is provided.
func DefaultScenario() Scenario {
	s, err := scenarioFromViper(newScenarioViper())
	if err != nil {
		panic(err)
	}
	return s
}

// LoadScenario reads the scenario from the provided configuration file (TOML, YAML or JSON).
func LoadScenario(path string) (Scenario, error) {
	v := newScenarioViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	return scenarioFromViper(v)
}

func scenarioFromViper(v *viper.Viper) (Scenario, error) {
	s := Scenario{Name: v.GetString("general.name")}

	// Body and planet
	inertia, err := readMat3(v, "body.inertia")
	if err != nil {
		return s, err
	}
	var planet CelestialObject
	if v.IsSet("planet.radius") || v.IsSet("planet.mass") {
		planet = CelestialObject{Name: v.GetString("planet.name"), Radius: v.GetFloat64("planet.radius"), Mass: v.GetFloat64("planet.mass")}
		if !(planet.Radius > 0) || !(planet.Mass > 0) {
			return s, fmt.Errorf("planet `%s` must have a positive radius and mass", planet.Name)
		}
	} else if planet, err = CelestialObjectFromString(v.GetString("planet.name")); err != nil {
		return s, err
	}
	if s.Constants, err = NewConstants(v.GetFloat64("body.mass"), inertia, planet); err != nil {
		return s, err
	}
	s.Constants.DragCoefficient = v.GetFloat64("body.drag")
	s.Constants.Thrust = mgl64.Vec3{0, v.GetFloat64("body.thrust"), 0}
	s.Constants.TiltTorque = v.GetFloat64("body.tilt_torque")
	s.Constants.PadHold = v.GetBool("body.pad_hold")
	if s.Bias.Force, err = readVec3(v, "body.force"); err != nil {
		return s, err
	}
	if s.Bias.Torque, err = readVec3(v, "body.torque"); err != nil {
		return s, err
	}

	// Integration
	switch method := strings.ToLower(v.GetString("integrator.method")); method {
	case "dopri", "dormand-prince", "rk45":
		absTol, relTol := v.GetFloat64("integrator.abs_tol"), v.GetFloat64("integrator.rel_tol")
		if !(absTol > 0) || !(relTol > 0) {
			return s, fmt.Errorf("integrator tolerances must be positive")
		}
		s.Integrator = NewDormandPrince(absTol, relTol)
	case "rk4":
		substeps := v.GetInt("integrator.substeps")
		if substeps <= 0 {
			return s, fmt.Errorf("integrator.substeps must be positive, got %d", substeps)
		}
		s.Integrator = NewRK4(substeps)
	default:
		return s, fmt.Errorf("unknown integrator `%s`", method)
	}
	s.Step = v.GetFloat64("simulation.step")
	s.Tick = v.GetDuration("simulation.tick")
	if !(s.Step > 0) || s.Tick <= 0 {
		return s, fmt.Errorf("simulation step (%f) and tick (%s) must be positive", s.Step, s.Tick)
	}
	s.Realtime = v.GetBool("simulation.realtime")
	s.Duration = v.GetFloat64("simulation.duration")

	// Control inputs
	for eventNo := 0; v.IsSet(fmt.Sprintf("controls.%d", eventNo)); eventNo++ {
		e, err := readControlEvent(v, fmt.Sprintf("controls.%d", eventNo))
		if err != nil {
			return s, err
		}
		s.Events = append(s.Events, e)
	}

	// Export
	s.Export = ExportConfig{
		Filename:  s.Name,
		OutputDir: v.GetString("export.directory"),
		AsCSV:     v.GetBool("export.csv"),
		Timestamp: v.GetBool("export.timestamp"),
		Epoch:     time.Now().UTC(),
	}
	if v.IsSet("export.epoch") {
		if s.Export.Epoch, err = time.Parse(dateFormat, v.GetString("export.epoch")); err != nil {
			return s, fmt.Errorf("export.epoch: %w", err)
		}
	}
	return s, nil
}

func readControlEvent(v *viper.Viper, key string) (ControlEvent, error) {
	name := v.GetString(key + ".control")
	e := ControlEvent{At: v.GetFloat64(key + ".at"), Enabled: true}
	if v.IsSet(key + ".enabled") {
		e.Enabled = v.GetBool(key + ".enabled")
	}
	if strings.EqualFold(strings.TrimSpace(name), "resume") {
		e.Control, e.Enabled = PauseControl, !e.Enabled
	} else {
		ctrl, err := ControlFromString(name)
		if err != nil {
			return e, fmt.Errorf("%s: %w", key, err)
		}
		e.Control = ctrl
	}
	if err := e.Validate(); err != nil {
		return e, fmt.Errorf("%s: %w", key, err)
	}
	return e, nil
}

func readVec3(v *viper.Viper, key string) (mgl64.Vec3, error) {
	vals, err := readFloats(v, key, 3)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return mgl64.Vec3{vals[0], vals[1], vals[2]}, nil
}

// readMat3 reads a row major 3x3 matrix.
func readMat3(v *viper.Viper, key string) (mgl64.Mat3, error) {
	vals, err := readFloats(v, key, 9)
	if err != nil {
		return mgl64.Mat3{}, err
	}
	return mgl64.Mat3FromRows(
		mgl64.Vec3{vals[0], vals[1], vals[2]},
		mgl64.Vec3{vals[3], vals[4], vals[5]},
		mgl64.Vec3{vals[6], vals[7], vals[8]}), nil
}

func readFloats(v *viper.Viper, key string, n int) ([]float64, error) {
	raw, ok := v.Get(key).([]interface{})
	if !ok {
		if vals, ok := v.Get(key).([]float64); ok && len(vals) == n {
			return vals, nil
		}
		return nil, fmt.Errorf("%s must be a list of %d numbers", key, n)
	}
	if len(raw) != n {
		return nil, fmt.Errorf("%s must be a list of %d numbers, got %d", key, n, len(raw))
	}
	vals := make([]float64, n)
	for i, r := range raw {
		switch x := r.(type) {
		case float64:
			vals[i] = x
		case int64:
			vals[i] = float64(x)
		case int:
			vals[i] = float64(x)
		default:
			return nil, fmt.Errorf("%s[%d] is not a number: %v", key, i, r)
		}
	}
	return vals, nil
}
