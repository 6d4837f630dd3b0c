// Package render projects sphere items to the screen each frame, draws them
// back to front and records where each one landed for hit-testing.
package render

import (
	"image"
	"sort"
	"time"

	"icon-sphere-renderer/internal/iconcache"
	"icon-sphere-renderer/internal/mathutil"
	"icon-sphere-renderer/internal/sphere"
)

// Source supplies loaded icons and their fade/fly-in state.
type Source interface {
	Icon(key string) (*image.NRGBA, bool)
	Animation(key string, now time.Time) (iconcache.Anim, bool)
}

// Options are the per-pipeline draw settings.
type Options struct {
	IconSize   float64 // logical pixels at the equator
	DepthScale float64 // size gain at the front, e.g. 0.25
	ArcHeight  float64 // fly-in arc, in sphere radii
	MinAlpha   float64 // items at or below are not drawn
}

// DefaultOptions returns the standard draw settings for iconSize.
func DefaultOptions(iconSize float64) Options {
	return Options{
		IconSize:   iconSize,
		DepthScale: 0.25,
		ArcHeight:  0.35,
		MinAlpha:   0.01,
	}
}

// Drawn is one item as placed in a frame.
type Drawn struct {
	Key     string
	Index   int
	X, Y    float64
	Size    float64
	Alpha   float64
	Depth   float64
	Visible bool

	img image.Image
}

// Pipeline owns the item layout, the surface and the ScreenRect table.
type Pipeline struct {
	proj      Projector
	opts      Options
	items     []sphere.Item
	positions []mathutil.Vec3
	surface   Surface
	rects     *ScreenRects
	drawn     []Drawn
}

// NewPipeline lays items out on the sphere once; index order follows items.
func NewPipeline(items []sphere.Item, proj Projector, opts Options, surface Surface) *Pipeline {
	return &Pipeline{
		proj:      proj,
		opts:      opts,
		items:     items,
		positions: sphere.Generate(len(items)),
		surface:   surface,
		rects:     NewScreenRects(),
	}
}

// Projector returns the current projection.
func (p *Pipeline) Projector() Projector {
	return p.proj
}

// Rects returns the ScreenRect table written by Frame.
func (p *Pipeline) Rects() *ScreenRects {
	return p.rects
}

// Resize updates the viewport and the surface's pixel scaling. Rotation
// state lives elsewhere and is not touched.
func (p *Pipeline) Resize(width, height int, dpr float64) {
	p.proj.Width = float64(width)
	p.proj.Height = float64(height)
	if r, ok := p.surface.(Resizer); ok {
		r.Resize(width, height, dpr)
	}
}

// Frame projects every loaded item at rotation (rx, rz), draws visible ones
// back to front and records their rects. Items that have not loaded are
// skipped and removed from the rect table. The returned slice is reused by
// the next call.
func (p *Pipeline) Frame(rx, rz float64, src Source, now time.Time) []Drawn {
	view := p.proj.View(rx, rz)
	p.drawn = p.drawn[:0]

	for i, it := range p.items {
		img, ok := src.Icon(it.Key)
		if !ok {
			p.rects.Delete(it.Key)
			continue
		}
		anim, ok := src.Animation(it.Key, now)
		if !ok {
			anim = iconcache.Anim{Opacity: 1, FlyProgress: 1}
		}

		pos := p.proj.Camera(view, p.positions[i])
		if anim.FlyProgress < 1 {
			pos = mathutil.LerpVec3(anim.Start, pos, anim.FlyProgress)
			pos[1] += mathutil.Arc(anim.FlyProgress, p.opts.ArcHeight)
		}

		alpha := DepthAlpha(pos[2]) * anim.Opacity
		x, y := p.proj.Screen(pos)
		p.drawn = append(p.drawn, Drawn{
			Key:     it.Key,
			Index:   i,
			X:       x,
			Y:       y,
			Size:    DepthSize(p.opts.IconSize, pos[2], p.opts.DepthScale),
			Alpha:   alpha,
			Depth:   pos[2],
			Visible: alpha > p.opts.MinAlpha,
			img:     img,
		})
	}

	// Painter's algorithm: farthest first.
	sort.SliceStable(p.drawn, func(a, b int) bool {
		return p.drawn[a].Depth < p.drawn[b].Depth
	})

	if p.surface != nil {
		p.surface.Clear()
	}
	for _, d := range p.drawn {
		if d.Visible && p.surface != nil {
			p.surface.DrawIcon(d.img, d.X, d.Y, d.Size, d.Alpha)
		}
		p.rects.Set(d.Key, ScreenRect{X: d.X, Y: d.Y, Size: d.Size, Depth: d.Depth, Visible: d.Visible})
	}
	return p.drawn
}
