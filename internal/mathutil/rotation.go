package mathutil

import "math"

// RotX returns a 3×3 rotation matrix around the X axis. Angle in radians.
func RotX(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}
}

// RotY returns a 3×3 rotation matrix around the Y axis.
func RotY(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}
}

// SphereView composes the sphere's view rotation: camera tilt first, then
// pitch by rx about X, then yaw by rz about Y.
//
// The pitch runs opposite to RotX so that a point (x, y, z) with
// rx = atan2(-y, z) and rz = -atan2(x, hypot(y, z)) lands on +Z.
func SphereView(tilt, rx, rz float64) Mat3 {
	return Mat3Mul(Mat3Mul(RotY(rz), RotX(-rx)), RotX(tilt))
}
