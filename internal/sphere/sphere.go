// Package sphere distributes items over the unit sphere with the golden-angle
// spiral and computes the rotation that brings an item to the front.
package sphere

import (
	"math"

	"icon-sphere-renderer/internal/mathutil"
)

// GoldenAngle is π·(3-√5), the angular step between consecutive points.
var GoldenAngle = math.Pi * (3 - math.Sqrt(5))

// Pole is the position used when only one item is placed.
var Pole = mathutil.Vec3{0, 1, 0}

// Item is one labeled icon on the sphere.
type Item struct {
	Key   string
	Label string
}

// Generate returns count unit positions, index order 0..count-1.
// The first point sits at y=1 and the last at y=-1.
func Generate(count int) []mathutil.Vec3 {
	if count <= 0 {
		return nil
	}
	if count == 1 {
		return []mathutil.Vec3{Pole}
	}

	pts := make([]mathutil.Vec3, count)
	last := float64(count - 1)
	for i := 0; i < count; i++ {
		y := 1 - (float64(i)/last)*2
		r := math.Sqrt(math.Max(0, 1-y*y))
		theta := GoldenAngle * float64(i)
		pts[i] = mathutil.Vec3{math.Cos(theta) * r, y, math.Sin(theta) * r}
	}
	return pts
}

// CenteringRotation returns the (rx, rz) that brings item index of count to
// the front of the sphere under the same tilt the draw pipeline applies.
func CenteringRotation(count, index int, tilt float64) (rx, rz float64, ok bool) {
	pts := Generate(count)
	if index < 0 || index >= len(pts) {
		return 0, 0, false
	}
	p := mathutil.RotX(tilt).MulVec3(pts[index])
	rx = math.Atan2(-p[1], p[2])
	rz = -math.Atan2(p[0], math.Hypot(p[1], p[2]))
	return rx, rz, true
}

// IndexOf returns the position of key in items, or -1.
func IndexOf(items []Item, key string) int {
	for i, it := range items {
		if it.Key == key {
			return i
		}
	}
	return -1
}
