package sphere

import (
	"math"
	"testing"

	"icon-sphere-renderer/internal/mathutil"
)

func TestGenerateUnitLength(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 50, 200} {
		pts := Generate(n)
		if len(pts) != n {
			t.Fatalf("Generate(%d) returned %d points", n, len(pts))
		}
		for i, p := range pts {
			if l := p.Len(); math.Abs(l-1) > 1e-9 {
				t.Fatalf("Generate(%d)[%d] length %v", n, i, l)
			}
		}
	}
}

func TestGenerateSingleAndEmpty(t *testing.T) {
	pts := Generate(1)
	if len(pts) != 1 || pts[0] != Pole {
		t.Fatalf("Generate(1) = %v, want [%v]", pts, Pole)
	}
	if Generate(0) != nil || Generate(-3) != nil {
		t.Fatal("non-positive count must yield nil")
	}
}

func TestGenerateThreeSymmetric(t *testing.T) {
	pts := Generate(3)
	if pts[0][1] != 1 || pts[2][1] != -1 {
		t.Fatalf("poles = %v, %v", pts[0], pts[2])
	}
	if math.Abs(pts[1][1]) > 1e-12 {
		t.Fatalf("middle y = %v, want 0", pts[1][1])
	}
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			if pts[i].Sub(pts[j]).Len() < 1e-6 {
				t.Fatalf("points %d and %d coincide", i, j)
			}
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, b := Generate(40), Generate(40)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("index %d differs between calls", i)
		}
	}
}

func TestCenteringRoundTrip(t *testing.T) {
	for _, tilt := range []float64{0, 0.25, -0.6} {
		for _, n := range []int{1, 3, 12, 64} {
			pts := Generate(n)
			for i := range pts {
				rx, rz, ok := CenteringRotation(n, i, tilt)
				if !ok {
					t.Fatalf("CenteringRotation(%d, %d) not ok", n, i)
				}
				got := mathutil.SphereView(tilt, rx, rz).MulVec3(pts[i])
				if math.Abs(got[0]) > 1e-9 || math.Abs(got[1]) > 1e-9 || got[2] < 1-1e-9 {
					t.Fatalf("n=%d i=%d tilt=%v: camera position %v not front-facing", n, i, tilt, got)
				}
			}
		}
	}
}

func TestCenteringRotationOutOfRange(t *testing.T) {
	if _, _, ok := CenteringRotation(3, 3, 0); ok {
		t.Fatal("index past the end must not be ok")
	}
	if _, _, ok := CenteringRotation(0, 0, 0); ok {
		t.Fatal("empty sphere must not be ok")
	}
}

func TestIndexOf(t *testing.T) {
	items := []Item{{Key: "a"}, {Key: "b"}, {Key: "c"}}
	if IndexOf(items, "b") != 1 || IndexOf(items, "z") != -1 {
		t.Fatal("IndexOf mismatch")
	}
}
