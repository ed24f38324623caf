package rocket

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

func assertPanic(t *testing.T, f func()) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("code did not panic")
		}
	}()
	f()
}

func vectorsEqual(a, b mgl64.Vec3, tol float64) bool {
	return floats.EqualApprox(a[:], b[:], tol)
}

func matricesEqual(a, b mgl64.Mat3, tol float64) bool {
	return floats.EqualApprox(a[:], b[:], tol)
}

// assertOrthonormal fails if the rows of m are not unit length and pairwise orthogonal.
func assertOrthonormal(t *testing.T, m mgl64.Mat3, tol float64) {
	t.Helper()
	for i := 0; i < 3; i++ {
		if n := m.Row(i).Len(); !scalar.EqualWithinAbs(n, 1, tol) {
			t.Fatalf("row %d has norm %.12f\n%s", i, n, m)
		}
		for j := i + 1; j < 3; j++ {
			if d := m.Row(i).Dot(m.Row(j)); !scalar.EqualWithinAbs(d, 0, tol) {
				t.Fatalf("rows %d and %d not orthogonal: %.12f\n%s", i, j, d, m)
			}
		}
	}
}

// newTestBody returns a default body which does not log.
func newTestBody() *RigidBody {
	return NewCustomRigidBody(DefaultConstants(), mgl64.Vec3{}, mgl64.Vec3{}, DefaultIntegrator(), nil)
}
