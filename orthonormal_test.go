package rocket

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestOrthonormalizeIdentity(t *testing.T) {
	m, err := Orthonormalize(mgl64.Ident3())
	if err != nil {
		t.Fatal(err)
	}
	if m != mgl64.Ident3() {
		t.Fatalf("identity changed:\n%s", m)
	}
	R := R3(0.3).Mul3(R2(-1.1))
	if m, _ := Orthonormalize(R); !matricesEqual(m, R, 1e-14) {
		t.Fatalf("rotation changed:\n%s\n%s", m, R)
	}
}

func TestOrthonormalizeRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		var m mgl64.Mat3
		for j := range m {
			m[j] = rng.Float64()*20 - 10
		}
		r0, r1, _ := m.Rows()
		if cross(r0, r1).Len() < 1e-3 {
			continue // Nearly parallel
		}
		o, err := Orthonormalize(m)
		if err != nil {
			t.Fatalf("#%d: %s", i, err)
		}
		assertOrthonormal(t, o, 1e-9)
		// Row 0 keeps its direction.
		if d := o.Row(0).Dot(r0.Normalize()); math.Abs(d-1) > 1e-12 {
			t.Fatalf("#%d: row 0 direction changed (%f)", i, d)
		}
	}
}

func TestOrthonormalizeDrift(t *testing.T) {
	// A rotation with a small integration drift.
	m := R1(0.4).Mul3(R3(1.3)).Add(mgl64.Mat3{1e-4, -2e-4, 0, 3e-5, 1e-4, -1e-4, 0, 2e-4, 1e-5})
	o, err := Orthonormalize(m)
	if err != nil {
		t.Fatal(err)
	}
	assertOrthonormal(t, o, 1e-12)
	if !matricesEqual(o, m, 1e-3) {
		t.Fatal("orthonormalization moved the matrix too much")
	}
}

func TestOrthonormalizeDegenerate(t *testing.T) {
	for name, m := range map[string]mgl64.Mat3{
		"zero":     {},
		"zero row": mgl64.Mat3FromRows(mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, 1}),
		"parallel": mgl64.Mat3FromRows(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{2, 4, 6}, mgl64.Vec3{0, 0, 1}),
		"NaN":      mgl64.Mat3FromRows(mgl64.Vec3{math.NaN(), 0, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, 1}),
	} {
		_, err := Orthonormalize(m)
		var dErr *DegenerateOrientationError
		if !errors.As(err, &dErr) {
			t.Fatalf("%s: expected a DegenerateOrientationError, got %v", name, err)
		}
	}
	// Row 2 is not used as an input.
	if _, err := Orthonormalize(mgl64.Mat3FromRows(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{})); err != nil {
		t.Fatalf("zero third row should be rebuilt: %s", err)
	}
}
