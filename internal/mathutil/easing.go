package mathutil

import "math"

// EaseOutCubic decelerates towards t=1.
func EaseOutCubic(t float64) float64 {
	t = Clamp(t, 0, 1)
	u := 1 - t
	return 1 - u*u*u
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Arc is a half-sine bump: 0 at t=0 and t=1, height at t=0.5.
func Arc(t, height float64) float64 {
	return math.Sin(Clamp(t, 0, 1)*math.Pi) * height
}
