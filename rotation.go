package rocket

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// R1 rotation about the 1st axis.
func R1(x float64) mgl64.Mat3 {
	s, c := math.Sincos(x)
	return mgl64.Mat3FromRows(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, c, s}, mgl64.Vec3{0, -s, c})
}

// R2 rotation about the 2nd axis.
func R2(x float64) mgl64.Mat3 {
	s, c := math.Sincos(x)
	return mgl64.Mat3FromRows(mgl64.Vec3{c, 0, -s}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{s, 0, c})
}

// R3 rotation about the 3rd axis.
func R3(x float64) mgl64.Mat3 {
	s, c := math.Sincos(x)
	return mgl64.Mat3FromRows(mgl64.Vec3{c, s, 0}, mgl64.Vec3{-s, c, 0}, mgl64.Vec3{0, 0, 1})
}

// BodyToWorld expresses a body frame vector in the world frame.
func BodyToWorld(R mgl64.Mat3, v mgl64.Vec3) mgl64.Vec3 {
	return R.Mul3x1(v)
}

// WorldToBody expresses a world frame vector in the body frame.
func WorldToBody(R mgl64.Mat3, v mgl64.Vec3) mgl64.Vec3 {
	return R.Transpose().Mul3x1(v)
}
