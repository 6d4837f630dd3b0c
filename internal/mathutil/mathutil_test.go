package mathutil

import (
	"math"
	"testing"
)

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-6.0, -6.0 + 2*math.Pi},
	}
	for _, tt := range tests {
		if got := WrapAngle(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("WrapAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAngleDeltaTakesShortWay(t *testing.T) {
	d := AngleDelta(3.0, -3.0)
	if math.Abs(d) > math.Pi {
		t.Fatalf("delta %v exceeds π", d)
	}
	if want := 2*math.Pi - 6.0; math.Abs(d-want) > 1e-9 {
		t.Fatalf("delta = %v, want %v", d, want)
	}
}

func TestSphereViewCentersPoint(t *testing.T) {
	p := Vec3{0.3, -0.5, 0.2}
	p = p.Scale(1 / p.Len())
	rx := math.Atan2(-p[1], p[2])
	rz := -math.Atan2(p[0], math.Hypot(p[1], p[2]))
	got := SphereView(0, rx, rz).MulVec3(p)
	if math.Abs(got[0]) > 1e-9 || math.Abs(got[1]) > 1e-9 || math.Abs(got[2]-1) > 1e-9 {
		t.Fatalf("centered point = %v, want (0,0,1)", got)
	}
}

func TestEaseOutCubic(t *testing.T) {
	if EaseOutCubic(0) != 0 || EaseOutCubic(1) != 1 {
		t.Fatal("endpoints must be fixed")
	}
	if EaseOutCubic(0.5) <= 0.5 {
		t.Fatal("ease-out must lead linear at midpoint")
	}
	if EaseOutCubic(2) != 1 {
		t.Fatal("input must be clamped")
	}
}
