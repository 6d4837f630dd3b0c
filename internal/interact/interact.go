// Package interact turns pointer events into rotation transitions and
// hover/click events, hit-testing against the last frame's ScreenRects.
package interact

import (
	"math"
	"time"

	"icon-sphere-renderer/internal/render"
	"icon-sphere-renderer/internal/rotation"
)

// Kind is a pointer event type.
type Kind int

const (
	Move Kind = iota
	Down
	Up
	Leave
)

func (k Kind) String() string {
	switch k {
	case Move:
		return "move"
	case Down:
		return "down"
	case Up:
		return "up"
	case Leave:
		return "leave"
	}
	return "unknown"
}

// Event is a pointer event in logical container pixels.
type Event struct {
	Kind Kind
	X, Y float64
}

// OutputKind is the type of an emitted event.
type OutputKind int

const (
	// Hover reports the hovered item changed; Key "" means none.
	Hover OutputKind = iota
	Click
	// CenterRequest asks the engine to center Key.
	CenterRequest
)

// Output is an event for the host, positioned at the item's screen rect.
type Output struct {
	Kind OutputKind
	Key  string
	X, Y float64
}

// Geometry is the sphere's circle on screen.
type Geometry struct {
	CX, CY float64
	Radius float64
}

// Contains reports whether (x, y) is within scale×Radius of the centre.
func (g Geometry) Contains(x, y, scale float64) bool {
	return math.Hypot(x-g.CX, y-g.CY) <= g.Radius*scale
}

// Config tunes the router.
type Config struct {
	ClickSlop     float64 // max pointer travel, px, for an up to count as a click
	RegionScale   float64 // hit region radius as a multiple of the sphere radius
	ClickToCenter bool
}

// DefaultConfig returns a 4px click slop and a region slightly larger than
// the sphere so rim icons stay hoverable.
func DefaultConfig() Config {
	return Config{ClickSlop: 4, RegionScale: 1.1}
}

// Router holds the per-pointer bookkeeping between events.
type Router struct {
	cfg      Config
	hoverKey string
	pressed  bool
	moved    bool
	downX    float64
	downY    float64
}

// NewRouter returns a Router for cfg.
func NewRouter(cfg Config) *Router {
	if cfg.RegionScale <= 0 {
		cfg.RegionScale = 1
	}
	return &Router{cfg: cfg}
}

// HoverKey is the item currently under the pointer, or "".
func (r *Router) HoverKey() string {
	return r.hoverKey
}

// Handle applies ev to st and returns the events it produces.
func (r *Router) Handle(ev Event, st *rotation.State, rects *render.ScreenRects, geo Geometry, now time.Time) []Output {
	switch ev.Kind {
	case Move:
		return r.move(ev, st, rects, geo)
	case Down:
		if !geo.Contains(ev.X, ev.Y, r.cfg.RegionScale) {
			return nil
		}
		rotation.BeginDrag(st, ev.X, ev.Y)
		r.pressed, r.moved = true, false
		r.downX, r.downY = ev.X, ev.Y
		return nil
	case Up:
		return r.up(ev, st, rects, now)
	case Leave:
		if st.Dragging {
			rotation.EndDrag(st, now)
		}
		r.pressed = false
		rotation.LeaveHover(st, geo.CX, geo.CY)
		return r.setHover("", 0, 0, nil)
	}
	return nil
}

func (r *Router) move(ev Event, st *rotation.State, rects *render.ScreenRects, geo Geometry) []Output {
	if st.Dragging {
		rotation.Drag(st, ev.X, ev.Y)
		if math.Hypot(ev.X-r.downX, ev.Y-r.downY) > r.cfg.ClickSlop {
			r.moved = true
		}
		return r.setHover("", 0, 0, nil)
	}

	if !geo.Contains(ev.X, ev.Y, r.cfg.RegionScale) {
		rotation.LeaveHover(st, geo.CX, geo.CY)
		return r.setHover("", 0, 0, nil)
	}

	rotation.Hover(st, ev.X, ev.Y, geo.CX, geo.CY, geo.Radius)
	key, rect, ok := rects.HitTest(ev.X, ev.Y)
	if !ok {
		return r.setHover("", 0, 0, nil)
	}
	return r.setHover(key, rect.X, rect.Y, nil)
}

func (r *Router) up(ev Event, st *rotation.State, rects *render.ScreenRects, now time.Time) []Output {
	if !r.pressed {
		return nil
	}
	r.pressed = false
	rotation.EndDrag(st, now)
	if r.moved {
		return nil
	}

	key, rect, ok := rects.HitTest(ev.X, ev.Y)
	if !ok {
		return nil
	}
	out := []Output{{Kind: Click, Key: key, X: rect.X, Y: rect.Y}}
	if r.cfg.ClickToCenter {
		out = append(out, Output{Kind: CenterRequest, Key: key, X: rect.X, Y: rect.Y})
	}
	return out
}

// setHover appends a Hover output to out when the hovered key changes.
func (r *Router) setHover(key string, x, y float64, out []Output) []Output {
	if key == r.hoverKey {
		return out
	}
	r.hoverKey = key
	if key == "" {
		return append(out, Output{Kind: Hover})
	}
	return append(out, Output{Kind: Hover, Key: key, X: x, Y: y})
}
