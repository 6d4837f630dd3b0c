package mathutil

import "math"

// HalfPi bounds the pitch angle so a drag never flips the sphere over a pole.
const HalfPi = math.Pi / 2

// WrapAngle maps an angle in radians into (-π, π].
func WrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// AngleDelta returns the signed shortest rotation from a to b, in (-π, π].
func AngleDelta(a, b float64) float64 {
	return WrapAngle(b - a)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sign returns -1 for negative v and +1 otherwise.
func Sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}
