package rotation

import (
	"math"
	"testing"
	"time"

	"icon-sphere-renderer/internal/sphere"
)

var t0 = time.Unix(1700000000, 0)

func TestAutoRotationSpins(t *testing.T) {
	s := New(DefaultConfig())
	now := t0
	for i := 0; i < 10; i++ {
		now = now.Add(Frame)
		Advance(s, Frame, now)
	}
	if math.Abs(s.RX-0.02) > 1e-9 || math.Abs(s.RZ-0.03) > 1e-9 {
		t.Fatalf("after 10 frames RX=%v RZ=%v, want 0.02, 0.03", s.RX, s.RZ)
	}
}

func TestDragRotatesAndClampsPitch(t *testing.T) {
	s := New(DefaultConfig())
	BeginDrag(s, 100, 100)
	if !s.Dragging || !s.AutoStopped {
		t.Fatal("BeginDrag must enter dragging and stop auto-rotation")
	}
	Drag(s, 120, 100)
	if math.Abs(s.RZ-0.1) > 1e-9 {
		t.Fatalf("RZ = %v, want 0.1", s.RZ)
	}
	if math.Abs(s.VY-0.1) > 1e-9 || s.VX != 0 {
		t.Fatalf("velocity = (%v, %v)", s.VX, s.VY)
	}

	Drag(s, 120, -10000)
	if s.RX != math.Pi/2 {
		t.Fatalf("RX = %v, want clamp to π/2", s.RX)
	}
	Drag(s, 120, 20000)
	if s.RX != -math.Pi/2 {
		t.Fatalf("RX = %v, want clamp to -π/2", s.RX)
	}
}

func TestClampPitchDoesNotSnapOutsideValue(t *testing.T) {
	if got := clampPitch(2.5, 2.6); got != 2.5 {
		t.Fatalf("moving further out: got %v, want 2.5", got)
	}
	if got := clampPitch(2.5, 2.4); got != 2.4 {
		t.Fatalf("moving back in: got %v, want 2.4", got)
	}
}

func TestZeroNetDragResumesDefaultDirection(t *testing.T) {
	s := New(DefaultConfig())
	s.DirX, s.DirZ = -1, -1

	BeginDrag(s, 50, 50)
	Drag(s, 80, 60)
	Drag(s, 50, 50)
	EndDrag(s, t0)

	if s.VX != 0 || s.VY != 0 {
		t.Fatalf("residual velocity (%v, %v), want 0", s.VX, s.VY)
	}
	if s.DirX != 1 || s.DirZ != 1 {
		t.Fatalf("directions (%v, %v), want default (1, 1)", s.DirX, s.DirZ)
	}

	rx := s.RX
	Advance(s, Frame, t0.Add(100*time.Millisecond))
	if s.RX != rx {
		t.Fatal("auto-rotation must wait for the cool-down")
	}
	Advance(s, Frame, t0.Add(time.Second))
	if s.AutoStopped || s.RX <= rx || math.IsNaN(s.RX) || math.IsNaN(s.RZ) {
		t.Fatalf("auto-rotation did not resume: RX %v -> %v", rx, s.RX)
	}
}

func TestReleaseMomentumDecays(t *testing.T) {
	s := New(DefaultConfig())
	BeginDrag(s, 0, 0)
	Drag(s, -40, 0)
	EndDrag(s, t0)
	if s.DirZ != -1 {
		t.Fatalf("DirZ = %v, want -1 after leftward fling", s.DirZ)
	}

	now := t0
	for i := 0; i < 600; i++ {
		now = now.Add(Frame)
		Advance(s, Frame, now)
	}
	if s.VY != 0 {
		t.Fatalf("momentum VY = %v, want 0 after decay", s.VY)
	}
}

func TestHoverEnterAndExitDirection(t *testing.T) {
	s := New(DefaultConfig())
	Hover(s, 150, 100, 100, 100, 100)
	if !s.Hovering {
		t.Fatal("expected hovering")
	}
	if rx, rz, ok := s.HoverSnapshot(); !ok || rx != 0 || rz != 0 {
		t.Fatalf("snapshot = %v, %v, %v", rx, rz, ok)
	}

	rz := s.RZ
	Advance(s, Frame, t0)
	if s.RZ <= rz {
		t.Fatal("pointer right of centre must steer RZ up")
	}

	Hover(s, 140, 130, 100, 100, 100)
	LeaveHover(s, 100, 100)
	if s.Hovering || s.AutoStopped {
		t.Fatal("leave must end hover and resume auto-rotation")
	}
	if s.DirZ != -1 || s.DirX != -1 {
		t.Fatalf("exit direction (%v, %v), want (-1, -1)", s.DirX, s.DirZ)
	}
}

func TestHoverExitFallsBackToOffset(t *testing.T) {
	s := New(DefaultConfig())
	Hover(s, 60, 100, 100, 100, 100)
	Hover(s, 60.5, 100, 100, 100, 100)
	LeaveHover(s, 100, 100)
	if s.DirZ != -1 {
		t.Fatalf("DirZ = %v, want -1 from offset left of centre", s.DirZ)
	}
}

func TestCenteringWrapsShortWay(t *testing.T) {
	s := New(DefaultConfig())
	s.RX = 3.0
	StartCentering(s, "k", -3.0, 0)
	dx, _ := CenteringDelta(s)
	if math.Abs(dx) > math.Pi {
		t.Fatalf("wrapped delta %v exceeds π", dx)
	}
	if dx <= 0 {
		t.Fatalf("delta %v should go forward through π", dx)
	}
}

func TestCenteringFiresOnce(t *testing.T) {
	items := []sphere.Item{{Key: "a"}, {Key: "b"}, {Key: "c"}}
	tilt := 0.25
	rx, rz, ok := sphere.CenteringRotation(len(items), 1, tilt)
	if !ok {
		t.Fatal("centering rotation not ok")
	}

	s := New(DefaultConfig())
	s.RZ = 2.0
	StartCentering(s, "b", rx, rz)

	fired := 0
	now := t0
	for i := 0; i < 300; i++ {
		now = now.Add(Frame)
		if s.Centering.Active {
			// drag input must not move angles while centering
			BeginDrag(s, 0, 0)
			Drag(s, 50, 50)
			EndDrag(s, now)
		}
		if key := Advance(s, Frame, now); key != "" {
			if key != "b" {
				t.Fatalf("centered key %q, want b", key)
			}
			fired++
		}
	}
	if fired != 1 {
		t.Fatalf("centered fired %d times, want 1", fired)
	}
	if s.Centering.Active {
		t.Fatal("centering still active")
	}
	dx := math.Abs(math.Remainder(s.RX-rx, 2*math.Pi))
	dz := math.Abs(math.Remainder(s.RZ-rz, 2*math.Pi))
	if dx > 1e-9 || dz > 1e-9 {
		t.Fatalf("final angles off target by %v, %v", dx, dz)
	}
}
