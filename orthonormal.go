package rocket

import "github.com/go-gl/mathgl/mgl64"

// Orthonormalize returns the closest thing to m whose rows form an orthonormal basis,
// by Gram-Schmidt on the rows: row 0 is normalized, row 2 is the normalized row0 × row1,
// and row 1 is the normalized row2 × row0.
// Returns a *DegenerateOrientationError if a row vanishes or rows 0 and 1 are parallel.
func Orthonormalize(m mgl64.Mat3) (mgl64.Mat3, error) {
	r0, r1, _ := m.Rows()

	n0 := norm(r0)
	if !(n0 >= normε) {
		return mgl64.Mat3{}, &DegenerateOrientationError{Row: 0, Norm: n0}
	}
	r0 = r0.Mul(1 / n0)

	r2 := cross(r0, r1)
	n2 := norm(r2)
	if !(n2 >= normε) {
		return mgl64.Mat3{}, &DegenerateOrientationError{Row: 2, Norm: n2}
	}
	r2 = r2.Mul(1 / n2)

	r1 = cross(r2, r0)
	n1 := norm(r1)
	if !(n1 >= normε) {
		// Only reachable for non finite inputs.
		return mgl64.Mat3{}, &DegenerateOrientationError{Row: 1, Norm: n1}
	}
	r1 = r1.Mul(1 / n1)

	return mgl64.Mat3FromRows(r0, r1, r2), nil
}
