package engine

import (
	"log"
	"time"
)

// Point is a position in logical container pixels.
type Point struct {
	X, Y float64
}

// Options configures an Engine.
type Options struct {
	Width    int // container size, logical pixels
	Height   int
	DPR      float64 // device pixel ratio
	Radius   float64 // sphere radius, logical pixels
	IconSize float64
	Tilt     float64 // camera tilt, radians

	// Initial velocities are the auto-rotation speed per axis in radians per
	// frame; their signs give the initial spin direction.
	InitialVelocityX float64
	InitialVelocityY float64
	InitialRotationX float64
	InitialRotationZ float64

	// Anchor is the on-screen point icons fly in from. Nil means the
	// bottom centre of the container.
	Anchor *Point

	ClickToCenter bool

	Logger *log.Logger
	Now    func() time.Time
}

// DefaultOptions returns a 480×480 container with a 180px sphere.
func DefaultOptions() Options {
	return Options{
		Width:            480,
		Height:           480,
		DPR:              1,
		Radius:           180,
		IconSize:         48,
		Tilt:             0.25,
		InitialVelocityX: 0.002,
		InitialVelocityY: 0.003,
	}
}

// Callbacks receive engine events. Any may be nil. They run on the goroutine
// that called Tick or HandlePointer, after the engine has released its lock.
type Callbacks struct {
	// OnHover reports the hovered item; key "" and a nil pos mean none.
	OnHover    func(key string, pos *Point)
	OnClick    func(key string, pos Point)
	OnCentered func(key string)
}
