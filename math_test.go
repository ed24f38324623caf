package rocket

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestCross(t *testing.T) {
	i := mgl64.Vec3{1, 0, 0}
	j := mgl64.Vec3{0, 1, 0}
	k := mgl64.Vec3{0, 0, 1}
	if cross(i, j) != k {
		t.Fatal("i x j != k")
	}
	if cross(j, k) != i {
		t.Fatal("j x k != i")
	}
	if cross(mgl64.Vec3{2, 3, 4}, mgl64.Vec3{5, 6, 7}) != (mgl64.Vec3{-3, 6, -3}) {
		t.Fatal("cross fail")
	}
	// From Vallado
	if !vectorsEqual(cross(mgl64.Vec3{6524.834, 6862.875, 6448.296}, mgl64.Vec3{4.901327, 5.533756, -1.976341}), mgl64.Vec3{-4.924667792015100e4, 4.450050424118601e4, 0.246964476137900e4}, 1e-6) {
		t.Fatal("cross fail")
	}
}

func TestSkew(t *testing.T) {
	v := mgl64.Vec3{0.3, -1.2, 2.5}
	for _, x := range []mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {-4, 2, 7.5}} {
		if got, exp := Skew(v).Mul3x1(x), cross(v, x); !vectorsEqual(got, exp, 1e-15) {
			t.Fatalf("skew(v)·x=%v != v × x=%v", got, exp)
		}
	}
	S := Skew(v)
	if S.Add(S.Transpose()) != (mgl64.Mat3{}) {
		t.Fatal("skew matrix is not antisymmetric")
	}
}

func TestAngles(t *testing.T) {
	for i := 0.0; i < 360; i += 0.5 {
		if r := Rad2deg(Deg2rad(i)); !scalar.EqualWithinAbs(r, i, 1e-10) {
			t.Fatalf("incorrect conversion for %3.2f: %f", i, r)
		}
	}
	if !scalar.EqualWithinAbs(Deg2rad(-180), math.Pi, 1e-15) {
		t.Fatal("incorrect conversion for -180")
	}
	if !scalar.EqualWithinAbs(Rad2deg(-math.Pi/2), 270, 1e-12) {
		t.Fatal("incorrect conversion for -pi/2")
	}
}

func TestMisc(t *testing.T) {
	if norm(mgl64.Vec3{}) != 0 {
		t.Fatal("norm of a nil vector was not nil")
	}
	five0 := mgl64.Vec3{5, 6, 7}
	five1 := mgl64.Vec3{7, 6, 5}
	if norm(five0) != math.Sqrt(110) || norm(five0) != norm(five1) {
		t.Fatal("norm of the [5, 6, 7] and permutations is invalid")
	}
	if !isFinite([]float64{1, -2, 3}) {
		t.Fatal("finite vector reported as not finite")
	}
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if isFinite([]float64{1, bad, 3}) {
			t.Fatalf("%f reported as finite", bad)
		}
	}
	if vecString(mgl64.Vec3{1, 2.5, -3}) != "[1.000 2.500 -3.000]" {
		t.Fatal("unexpected vector format")
	}
}
