package rocket

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats"
)

const (
	deg2rad = math.Pi / 180
	// normε is the smallest norm accepted before a vector is considered degenerate.
	normε = 1e-12
)

// norm returns the norm of a given vector.
func norm(v mgl64.Vec3) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// cross performs the cross product.
func cross(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0]}
}

// Skew returns the skew-symmetric matrix of v, such that Skew(v)·x = v × x.
func Skew(v mgl64.Vec3) mgl64.Mat3 {
	return mgl64.Mat3FromRows(
		mgl64.Vec3{0, -v[2], v[1]},
		mgl64.Vec3{v[2], 0, -v[0]},
		mgl64.Vec3{-v[1], v[0], 0})
}

// isFinite returns whether all the provided values are neither NaN nor infinite.
func isFinite(s []float64) bool {
	return !floats.HasNaN(s) && !math.IsInf(floats.Max(s), 0) && !math.IsInf(floats.Min(s), 0)
}

// vecString formats a vector for logging.
func vecString(v mgl64.Vec3) string {
	return fmt.Sprintf("[%.3f %.3f %.3f]", v[0], v[1], v[2])
}

// Deg2rad converts degrees to radians, and enforced only positive numbers.
func Deg2rad(a float64) float64 {
	if a < 0 {
		a += 360
	}
	return math.Mod(a*deg2rad, 2*math.Pi)
}

// Rad2deg converts radians to degrees, and enforced only positive numbers.
func Rad2deg(a float64) float64 {
	if a < 0 {
		a += 2 * math.Pi
	}
	return math.Mod(a/deg2rad, 360)
}
