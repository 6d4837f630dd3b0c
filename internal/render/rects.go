package render

import "math"

// ScreenRect is where an item was last drawn, in logical pixels.
type ScreenRect struct {
	X, Y    float64 // centre
	Size    float64
	Depth   float64 // camera-space z, larger is nearer
	Visible bool
}

// Contains reports whether (x, y) lies within Size/2 of the centre on both axes.
func (r ScreenRect) Contains(x, y float64) bool {
	h := r.Size / 2
	return math.Abs(x-r.X) <= h && math.Abs(y-r.Y) <= h
}

// ScreenRects is the per-key table written by the pipeline every frame and
// read by hit-testing. It has a single writer; callers serialize access.
type ScreenRects struct {
	rects map[string]ScreenRect
}

// NewScreenRects returns an empty table.
func NewScreenRects() *ScreenRects {
	return &ScreenRects{rects: make(map[string]ScreenRect)}
}

// Set records key's rect.
func (t *ScreenRects) Set(key string, r ScreenRect) {
	t.rects[key] = r
}

// Get returns key's rect.
func (t *ScreenRects) Get(key string) (ScreenRect, bool) {
	r, ok := t.rects[key]
	return r, ok
}

// Delete forgets key.
func (t *ScreenRects) Delete(key string) {
	delete(t.rects, key)
}

// Len returns the number of recorded rects.
func (t *ScreenRects) Len() int {
	return len(t.rects)
}

// HitTest returns the visible rect containing (x, y). Overlaps resolve to
// the nearest item in depth, then to the closest centre.
func (t *ScreenRects) HitTest(x, y float64) (string, ScreenRect, bool) {
	var (
		bestKey  string
		best     ScreenRect
		bestDist float64
		found    bool
	)
	for key, r := range t.rects {
		if !r.Visible || !r.Contains(x, y) {
			continue
		}
		d := math.Hypot(x-r.X, y-r.Y)
		if !found || r.Depth > best.Depth || (r.Depth == best.Depth && (d < bestDist || (d == bestDist && key < bestKey))) {
			bestKey, best, bestDist, found = key, r, d, true
		}
	}
	return bestKey, best, found
}
