package rocket

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// newPadBody returns a body resting on the pad until the engine is lit.
func newPadBody() *RigidBody {
	c := DefaultConstants()
	c.PadHold = true
	return NewCustomRigidBody(c, mgl64.Vec3{}, mgl64.Vec3{}, DefaultIntegrator(), nil)
}

func TestSimulationImmediateLanding(t *testing.T) {
	// Without pad hold, the body sinks below the pad at the first step.
	sim, err := NewSimulation(newTestBody(), nil, ExportConfig{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	outcome, err := sim.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if outcome != Landed || sim.Outcome != Landed {
		t.Fatalf("outcome=%s", outcome)
	}
	if sim.Ticks != 0 || sim.Body.Time() != StepSize || !sim.Body.Paused() {
		t.Fatalf("ticks=%d t=%f paused=%t", sim.Ticks, sim.Body.Time(), sim.Body.Paused())
	}
}

func TestSimulationHop(t *testing.T) {
	events := []ControlEvent{
		{At: 1, Control: ThrustControl, Enabled: false},
		{At: 0, Control: ThrustControl, Enabled: true},
	}
	sim, err := NewSimulation(newPadBody(), events, ExportConfig{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	outcome, err := sim.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if outcome != Landed {
		t.Fatalf("outcome=%s after %fs", outcome, sim.Body.Time())
	}
	// About six seconds of thrust, i.e. a hundred meter hop lasting ten minutes.
	if tf := sim.Body.Time(); tf < 500 || tf > 700 {
		t.Fatalf("landed after %fs", tf)
	}
	if vy := sim.Body.Velocity()[1]; !(vy < 0) || -vy > ImpactSpeed {
		t.Fatalf("landed at %f m/s", vy)
	}
	if sim.Body.Controls().Thrust {
		t.Fatal("engine still on")
	}
}

func TestSimulationCrash(t *testing.T) {
	events := []ControlEvent{
		{At: 0, Control: ThrustControl, Enabled: true},
		{At: 4, Control: ThrustControl, Enabled: false},
	}
	sim, err := NewSimulation(newPadBody(), events, ExportConfig{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if outcome, err := sim.Run(context.Background()); err != nil || outcome != Exploded {
		t.Fatalf("outcome=%s err=%v", outcome, err)
	}
	if vy := sim.Body.Velocity()[1]; -vy <= ImpactSpeed {
		t.Fatalf("exploded at %f m/s", vy)
	}
}

func TestSimulationDuration(t *testing.T) {
	sim, err := NewSimulation(newPadBody(), nil, ExportConfig{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	sim.Duration = 1
	outcome, err := sim.Run(context.Background())
	if err != nil || outcome != Flying {
		t.Fatalf("outcome=%s err=%v", outcome, err)
	}
	if sim.Ticks != 10 {
		t.Fatalf("ticks=%d", sim.Ticks)
	}
	if sim.Body.Position() != (mgl64.Vec3{}) {
		t.Fatal("body left the pad without thrust")
	}
}

func TestSimulationPauseResume(t *testing.T) {
	events := []ControlEvent{
		{At: 0, Control: PauseControl, Enabled: true},
		{At: 0.5, Control: PauseControl, Enabled: false},
	}
	sim, err := NewSimulation(newTestBody(), events, ExportConfig{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	outcome, err := sim.Run(context.Background())
	if err != nil || outcome != Landed {
		t.Fatalf("outcome=%s err=%v", outcome, err)
	}
	// The driver clock kept running while paused.
	if sim.Ticks != 31 || sim.Body.Time() != StepSize {
		t.Fatalf("ticks=%d t=%f", sim.Ticks, sim.Body.Time())
	}
	if sim.Clock() < 0.5 {
		t.Fatalf("clock=%f", sim.Clock())
	}
}

func TestSimulationPausedForever(t *testing.T) {
	sim, err := NewSimulation(newTestBody(), []ControlEvent{{At: 0, Control: PauseControl, Enabled: true}}, ExportConfig{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	outcome, err := sim.Run(context.Background())
	if err != nil || outcome != Flying {
		t.Fatalf("outcome=%s err=%v", outcome, err)
	}
	if sim.Body.Time() != 0 || sim.Ticks != 0 {
		t.Fatal("paused body was stepped")
	}
}

func TestSimulationCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sim, err := NewSimulation(newPadBody(), nil, ExportConfig{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	sim.Realtime = true
	if _, err := sim.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if sim.Body.Time() != 0 {
		t.Fatal("canceled simulation was stepped")
	}
}

func TestSimulationInvalid(t *testing.T) {
	var cErr *InvalidControlStateError
	if _, err := NewSimulation(newTestBody(), []ControlEvent{{At: 1}}, ExportConfig{}, nil); !errors.As(err, &cErr) {
		t.Fatalf("expected an InvalidControlStateError, got %v", err)
	}
	sim, err := NewSimulation(newTestBody(), nil, ExportConfig{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	sim.Step = 0
	if _, err := sim.Run(context.Background()); err == nil {
		t.Fatal("null step accepted")
	}
}

func TestSimulationDiverged(t *testing.T) {
	b := NewCustomRigidBody(DefaultConstants(), mgl64.Vec3{}, mgl64.Vec3{}, failingIntegrator{&IntegrationDivergedError{Index: 4}}, nil)
	sim, err := NewSimulation(b, nil, ExportConfig{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = sim.Run(context.Background())
	var dErr *IntegrationDivergedError
	if !errors.As(err, &dErr) {
		t.Fatalf("expected an IntegrationDivergedError, got %v", err)
	}
	if !b.Paused() {
		t.Fatal("diverged body not frozen")
	}
}

func TestSimulationExport(t *testing.T) {
	dir := t.TempDir()
	events := []ControlEvent{
		{At: 0, Control: ThrustControl, Enabled: true},
		{At: 0.2, Control: ThrustControl, Enabled: false},
	}
	sim, err := NewSimulation(newPadBody(), events, ExportConfig{Filename: "sim", OutputDir: dir, AsCSV: true}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sim.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "traj-sim.csv"))
	if err != nil {
		t.Fatal(err)
	}
	rows := 0
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if !strings.HasPrefix(line, "#") {
			rows++
		}
	}
	// Header, initial state and one sample per step.
	if steps := int(sim.Body.Time()/sim.Step + 0.5); rows != steps+2 {
		t.Fatalf("expected %d rows, got %d", steps+2, rows)
	}
	if !strings.Contains(string(data), "# Simulation time end:") {
		t.Fatal("missing footer")
	}
}
