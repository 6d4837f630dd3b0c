// Package rotation owns the sphere's rotation angles and the transitions
// between auto-rotation, dragging, hover steering, momentum and centering.
//
// A State has a single writer: every mutation goes through the functions in
// this package, called from the engine's frame and input path.
package rotation

import (
	"time"

	"icon-sphere-renderer/internal/mathutil"
)

// Frame is the nominal frame duration all per-frame constants refer to.
const Frame = time.Second / 60

// Config holds tunables. Speeds are radians per nominal frame.
type Config struct {
	InitialRX float64
	InitialRZ float64

	// AutoSpeedX/Z drive RX/RZ while idle. The sign is the initial direction.
	AutoSpeedX float64
	AutoSpeedZ float64

	DragSensitivity float64 // radians per pixel
	Friction        float64 // momentum multiplier per frame
	MinVelocity     float64 // momentum below this snaps to zero
	ResumeDelay     time.Duration

	HoverSpeed         float64 // steering speed at the rim of the sphere
	HoverMoveThreshold float64 // pixels; smaller exit moves fall back to offset-from-center

	CenterFraction  float64 // share of the remaining delta closed per frame
	CenterThreshold float64 // radians; both deltas below this snap to target
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		AutoSpeedX:         0.002,
		AutoSpeedZ:         0.003,
		DragSensitivity:    0.005,
		Friction:           0.95,
		MinVelocity:        1e-4,
		ResumeDelay:        800 * time.Millisecond,
		HoverSpeed:         0.02,
		HoverMoveThreshold: 2,
		CenterFraction:     0.1,
		CenterThreshold:    0.05,
	}
}

// Centering is an in-progress "bring this item to the front" maneuver.
type Centering struct {
	Active   bool
	TargetRX float64
	TargetRZ float64
	Speed    float64
	Key      string
}

// State is the mutable rotation record of one engine.
type State struct {
	RX, RZ float64 // radians, unbounded
	VX, VY float64 // momentum applied to RX and RZ per frame

	// DirX/DirZ sign the auto-rotation on RX/RZ.
	DirX, DirZ float64

	Dragging    bool
	AutoStopped bool
	Hovering    bool
	Centering   Centering

	cfg      Config
	resumeAt time.Time

	dragStartX, dragStartY float64
	lastX, lastY           float64

	hoverVX, hoverVY float64
	hoverSamples     int
	hoverPrev        [2]float64
	hoverLast        [2]float64
	savedRX, savedRZ float64
}

// New creates a State from cfg. Zero tunables take DefaultConfig values.
func New(cfg Config) *State {
	def := DefaultConfig()
	if cfg.DragSensitivity == 0 {
		cfg.DragSensitivity = def.DragSensitivity
	}
	if cfg.Friction == 0 {
		cfg.Friction = def.Friction
	}
	if cfg.MinVelocity == 0 {
		cfg.MinVelocity = def.MinVelocity
	}
	if cfg.ResumeDelay == 0 {
		cfg.ResumeDelay = def.ResumeDelay
	}
	if cfg.HoverSpeed == 0 {
		cfg.HoverSpeed = def.HoverSpeed
	}
	if cfg.HoverMoveThreshold == 0 {
		cfg.HoverMoveThreshold = def.HoverMoveThreshold
	}
	if cfg.CenterFraction <= 0 || cfg.CenterFraction > 1 {
		cfg.CenterFraction = def.CenterFraction
	}
	if cfg.CenterThreshold == 0 {
		cfg.CenterThreshold = def.CenterThreshold
	}

	s := &State{
		RX:  cfg.InitialRX,
		RZ:  cfg.InitialRZ,
		cfg: cfg,
	}
	s.DirX, s.DirZ = defaultDirs(cfg)
	return s
}

// Config returns the tunables the state was created with.
func (s *State) Config() Config {
	return s.cfg
}

// HoverSnapshot returns the angles captured when the pointer entered the
// sphere, valid while hovering.
func (s *State) HoverSnapshot() (rx, rz float64, ok bool) {
	return s.savedRX, s.savedRZ, s.Hovering
}

func defaultDirs(cfg Config) (float64, float64) {
	return mathutil.Sign(cfg.AutoSpeedX), mathutil.Sign(cfg.AutoSpeedZ)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// frames converts dt to nominal frames; a non-positive dt counts as one.
func frames(dt time.Duration) float64 {
	if dt <= 0 {
		return 1
	}
	return float64(dt) / float64(Frame)
}
