package rotation

import (
	"math"
	"time"

	"icon-sphere-renderer/internal/mathutil"
)

// BeginDrag enters Dragging and suspends auto-rotation.
func BeginDrag(s *State, x, y float64) {
	s.Dragging = true
	s.AutoStopped = true
	s.resumeAt = time.Time{}
	s.Hovering = false
	s.VX, s.VY = 0, 0
	s.dragStartX, s.dragStartY = x, y
	s.lastX, s.lastY = x, y
}

// Drag applies the pointer delta since the previous sample. Horizontal
// movement yaws, vertical movement pitches so the surface follows the
// pointer. The delta also becomes the release momentum.
func Drag(s *State, x, y float64) {
	if !s.Dragging {
		return
	}
	dx, dy := x-s.lastX, y-s.lastY
	s.lastX, s.lastY = x, y
	if s.Centering.Active {
		return
	}

	k := s.cfg.DragSensitivity
	s.RZ += dx * k
	s.RX = clampPitch(s.RX, s.RX-dy*k)
	s.VX = -dy * k
	s.VY = dx * k
}

// clampPitch keeps next within ±π/2 without snapping a value that was
// already outside the range; it only refuses to move further out.
func clampPitch(cur, next float64) float64 {
	if next > mathutil.HalfPi && next > cur {
		return math.Max(cur, mathutil.HalfPi)
	}
	if next < -mathutil.HalfPi && next < cur {
		return math.Min(cur, -mathutil.HalfPi)
	}
	return next
}

// EndDrag leaves Dragging. Auto-rotation resumes after the cool-down in the
// direction of the release momentum; a release with no net movement keeps
// no momentum and resumes in the default direction.
func EndDrag(s *State, now time.Time) {
	if !s.Dragging {
		return
	}
	s.Dragging = false

	net := math.Hypot(s.lastX-s.dragStartX, s.lastY-s.dragStartY)
	if net < 1 || (abs(s.VX) < s.cfg.MinVelocity && abs(s.VY) < s.cfg.MinVelocity) {
		s.VX, s.VY = 0, 0
		s.DirX, s.DirZ = defaultDirs(s.cfg)
	} else {
		if abs(s.VX) >= s.cfg.MinVelocity {
			s.DirX = mathutil.Sign(s.VX)
		}
		if abs(s.VY) >= s.cfg.MinVelocity {
			s.DirZ = mathutil.Sign(s.VY)
		}
	}
	s.resumeAt = now.Add(s.cfg.ResumeDelay)
}

// Hover steers the sphere towards the pointer while it is inside the
// sphere's circle (centre cx, cy) and not dragging. Steering is zero at the
// centre and HoverSpeed at the rim.
func Hover(s *State, x, y, cx, cy, radius float64) {
	if s.Dragging || radius <= 0 {
		return
	}
	if !s.Hovering {
		s.Hovering = true
		s.savedRX, s.savedRZ = s.RX, s.RZ
		s.hoverSamples = 0
	}

	s.hoverPrev = s.hoverLast
	s.hoverLast = [2]float64{x, y}
	s.hoverSamples++

	ox := mathutil.Clamp((x-cx)/radius, -1, 1)
	oy := mathutil.Clamp((y-cy)/radius, -1, 1)
	s.hoverVY = ox * s.cfg.HoverSpeed
	s.hoverVX = -oy * s.cfg.HoverSpeed
}

// LeaveHover ends hover steering. The exit direction comes from the last two
// samples, or from the offset from centre when the pointer barely moved, and
// auto-rotation continues that way with the steering speed as momentum.
func LeaveHover(s *State, cx, cy float64) {
	if !s.Hovering {
		return
	}
	s.Hovering = false

	dx, dy := 0.0, 0.0
	if s.hoverSamples >= 2 {
		dx = s.hoverLast[0] - s.hoverPrev[0]
		dy = s.hoverLast[1] - s.hoverPrev[1]
	}
	if math.Hypot(dx, dy) < s.cfg.HoverMoveThreshold {
		dx = s.hoverLast[0] - cx
		dy = s.hoverLast[1] - cy
	}
	if dx != 0 {
		s.DirZ = mathutil.Sign(dx)
	}
	if dy != 0 {
		s.DirX = mathutil.Sign(-dy)
	}

	s.VX, s.VY = s.hoverVX, s.hoverVY
	s.hoverVX, s.hoverVY = 0, 0
	if !s.Centering.Active {
		s.AutoStopped = false
		s.resumeAt = time.Time{}
	}
}

// StartCentering begins rotating towards (rx, rz) for the item key.
func StartCentering(s *State, key string, rx, rz float64) {
	s.Centering = Centering{
		Active:   true,
		TargetRX: rx,
		TargetRZ: rz,
		Speed:    s.cfg.CenterFraction,
		Key:      key,
	}
	s.VX, s.VY = 0, 0
}

// CenteringDelta is the wrapped remaining rotation of an active centering.
func CenteringDelta(s *State) (dx, dz float64) {
	return mathutil.AngleDelta(s.RX, s.Centering.TargetRX), mathutil.AngleDelta(s.RZ, s.Centering.TargetRZ)
}

// Advance moves the state forward by dt. It returns the key of an item whose
// centering finished on this step, or "".
func Advance(s *State, dt time.Duration, now time.Time) string {
	f := frames(dt)

	if s.Centering.Active {
		return stepCentering(s, f)
	}
	if s.Dragging {
		return ""
	}

	if s.Hovering {
		s.RX += s.hoverVX * f
		s.RZ += s.hoverVY * f
	}

	s.RX += s.VX * f
	s.RZ += s.VY * f
	decay := math.Pow(s.cfg.Friction, f)
	s.VX *= decay
	s.VY *= decay
	if abs(s.VX) < s.cfg.MinVelocity {
		s.VX = 0
	}
	if abs(s.VY) < s.cfg.MinVelocity {
		s.VY = 0
	}

	if s.AutoStopped && !s.resumeAt.IsZero() && !now.Before(s.resumeAt) {
		s.AutoStopped = false
		s.resumeAt = time.Time{}
	}
	if !s.AutoStopped && !s.Hovering {
		s.RX += abs(s.cfg.AutoSpeedX) * s.DirX * f
		s.RZ += abs(s.cfg.AutoSpeedZ) * s.DirZ * f
	}
	return ""
}

func stepCentering(s *State, f float64) string {
	dx, dz := CenteringDelta(s)
	thr := s.cfg.CenterThreshold
	if abs(dx) < thr && abs(dz) < thr {
		s.RX += dx
		s.RZ += dz
		key := s.Centering.Key
		s.Centering = Centering{}
		s.AutoStopped = true
		s.resumeAt = time.Time{}
		return key
	}

	step := 1 - math.Pow(1-s.Centering.Speed, f)
	s.RX += dx * step
	s.RZ += dz * step
	return ""
}
