package rocket

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/soniakeys/meeus/v3/julian"
)

// Sample is one recorded point of a trajectory.
type Sample struct {
	Time     float64 // Simulated time in seconds.
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Tilt     float64 // Degrees.
	Controls Controls
}

// NewSample returns the current sample of the provided body.
func NewSample(b *RigidBody) Sample {
	tilt, _ := b.TiltAngle2D()
	return Sample{Time: b.Time(), Position: b.Position(), Velocity: b.Velocity(), Tilt: tilt, Controls: b.Controls()}
}

// ExportConfig configures the exporting of the simulation.
type ExportConfig struct {
	Filename  string
	OutputDir string
	AsCSV     bool
	Timestamp bool      // Append the creation time to the file name.
	Epoch     time.Time // Date of simulated time zero, used for the Julian date column.
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return !c.AsCSV
}

// path returns the path of the CSV file.
func (c ExportConfig) path() string {
	name := c.Filename
	if name == "" {
		name = "trajectory"
	}
	if c.Timestamp {
		t := time.Now()
		name = fmt.Sprintf("%s-%d-%02d-%02dT%02d.%02d.%02d", name, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	}
	dir := c.OutputDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, "traj-"+name+".csv")
}

// createCSVFile returns a file which requires a defer close statement!
func createCSVFile(conf ExportConfig) (*os.File, error) {
	f, err := os.Create(conf.path())
	if err != nil {
		return nil, err
	}
	// Header
	_, err = fmt.Fprintf(f, `# Creation date (UTC): %s
# Simulation time start (UTC): %s
#   Position in m, velocity in m/s, tilt in degrees
time,jd,x,y,z,vx,vy,vz,tilt,thrust,left,right,drag
`, time.Now().UTC(), conf.Epoch.UTC())
	if err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// StreamStates writes every sample read from the channel to the configured file until the channel is closed.
// The channel is always drained, even if writing fails, so that the producer never blocks.
func StreamStates(conf ExportConfig, samples <-chan Sample, logger kitlog.Logger) (err error) {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	logger = kitlog.With(logger, "subsys", "export")
	defer func() {
		for range samples {
		}
	}()
	if conf.IsUseless() {
		return nil
	}
	f, err := createCSVFile(conf)
	if err != nil {
		logger.Log("level", "error", "file", conf.path(), "err", err)
		return err
	}
	w := bufio.NewWriter(f)
	defer func() {
		if ferr := w.Flush(); err == nil {
			err = ferr
		}
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		logger.Log("level", "info", "file", f.Name(), "status", "closed")
	}()

	var last Sample
	count := 0
	for s := range samples {
		jd := julian.TimeToJD(conf.Epoch.Add(time.Duration(s.Time * float64(time.Second))))
		c := s.Controls
		if _, err = fmt.Fprintf(w, "%.3f,%.8f,%f,%f,%f,%f,%f,%f,%.4f,%t,%t,%t,%t\n", s.Time, jd,
			s.Position[0], s.Position[1], s.Position[2], s.Velocity[0], s.Velocity[1], s.Velocity[2],
			s.Tilt, c.Thrust, c.LeftThrust, c.RightThrust, c.AirResistance); err != nil {
			logger.Log("level", "error", "file", f.Name(), "err", err)
			return err
		}
		last = s
		count++
	}
	_, err = fmt.Fprintf(w, "# Simulation time end: %.3fs (%d samples)\n", last.Time, count)
	return err
}
