// Package engine wires sphere layout, rotation, icon loading, drawing and
// input into one render-loop driven component.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"icon-sphere-renderer/internal/iconcache"
	"icon-sphere-renderer/internal/interact"
	"icon-sphere-renderer/internal/mathutil"
	"icon-sphere-renderer/internal/render"
	"icon-sphere-renderer/internal/rotation"
	"icon-sphere-renderer/internal/sphere"
)

// flyStartDepth places fly-in origins slightly in front of the equator.
const flyStartDepth = 0.5

// Engine is one interactive icon sphere.
//
// Tick and HandlePointer may be called from different goroutines; the
// engine serializes them. Icon loads run in their own goroutines and only
// touch the shared Cache.
type Engine struct {
	mu       sync.Mutex
	items    []sphere.Item
	keys     []string
	opts     Options
	cbs      Callbacks
	state    *rotation.State
	pipe     *render.Pipeline
	cache    *iconcache.Cache
	router   *interact.Router
	lastTick time.Time
	closed   bool

	cancel   context.CancelFunc
	loadDone chan struct{}
	done     chan struct{}
}

// New builds an engine drawing to surface. Icons come from cache, which may
// be shared with other engines.
func New(items []sphere.Item, opts Options, cache *iconcache.Cache, surface render.Surface, cbs Callbacks) (*Engine, error) {
	if cache == nil {
		return nil, errors.New("engine: nil icon cache")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("engine: invalid container size %dx%d", opts.Width, opts.Height)
	}
	if opts.Radius <= 0 {
		return nil, fmt.Errorf("engine: invalid radius %v", opts.Radius)
	}
	if opts.DPR <= 0 {
		opts.DPR = 1
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = it.Key
	}

	rcfg := rotation.DefaultConfig()
	rcfg.InitialRX = opts.InitialRotationX
	rcfg.InitialRZ = opts.InitialRotationZ
	rcfg.AutoSpeedX = opts.InitialVelocityX
	rcfg.AutoSpeedZ = opts.InitialVelocityY

	icfg := interact.DefaultConfig()
	icfg.ClickToCenter = opts.ClickToCenter

	proj := render.Projector{
		Width:  float64(opts.Width),
		Height: float64(opts.Height),
		Radius: opts.Radius,
		Tilt:   opts.Tilt,
	}
	if r, ok := surface.(render.Resizer); ok {
		r.Resize(opts.Width, opts.Height, opts.DPR)
	}

	return &Engine{
		items:  items,
		keys:   keys,
		opts:   opts,
		cbs:    cbs,
		state:  rotation.New(rcfg),
		pipe:   render.NewPipeline(items, proj, render.DefaultOptions(opts.IconSize), surface),
		cache:  cache,
		router: interact.NewRouter(icfg),
		done:   make(chan struct{}),
	}, nil
}

// Start begins the cascading icon load. It returns immediately; LoadDone
// closes when every load has finished or the engine is closed.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	if e.closed || e.loadDone != nil {
		e.mu.Unlock()
		return
	}
	ctx, e.cancel = context.WithCancel(ctx)
	e.loadDone = make(chan struct{})
	start := e.flyOrigin()
	loadDone, logger := e.loadDone, e.opts.Logger
	e.mu.Unlock()

	go func() {
		defer close(loadDone)
		if err := e.cache.LoadCascading(ctx, e.keys, start, nil); err != nil && !errors.Is(err, context.Canceled) {
			logger.Printf("Warning: icon load stopped: %v", err)
		}
	}()
}

// LoadDone is closed once the load started by Start finishes. It is nil
// before Start.
func (e *Engine) LoadDone() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadDone
}

// flyOrigin converts the anchor to unit camera space. Caller holds e.mu.
func (e *Engine) flyOrigin() mathutil.Vec3 {
	a := Point{X: float64(e.opts.Width) / 2, Y: float64(e.opts.Height)}
	if e.opts.Anchor != nil {
		a = *e.opts.Anchor
	}
	return e.pipe.Projector().Unproject(a.X, a.Y, flyStartDepth)
}

// Tick advances rotation exactly once and draws a frame.
func (e *Engine) Tick(now time.Time) []render.Drawn {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	dt := rotation.Frame
	if !e.lastTick.IsZero() {
		dt = now.Sub(e.lastTick)
	}
	e.lastTick = now

	centered := rotation.Advance(e.state, dt, now)
	drawn := e.pipe.Frame(e.state.RX, e.state.RZ, e.cache, now)
	onCentered := e.cbs.OnCentered
	e.mu.Unlock()

	if centered != "" && onCentered != nil {
		onCentered(centered)
	}
	return drawn
}

// HandlePointer routes one pointer event and dispatches the resulting
// hover and click callbacks.
func (e *Engine) HandlePointer(ev interact.Event) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	geo := interact.Geometry{
		CX:     float64(e.opts.Width) / 2,
		CY:     float64(e.opts.Height) / 2,
		Radius: e.opts.Radius,
	}
	outs := e.router.Handle(ev, e.state, e.pipe.Rects(), geo, e.opts.Now())
	for _, o := range outs {
		if o.Kind == interact.CenterRequest {
			e.center(o.Key)
		}
	}
	cbs := e.cbs
	e.mu.Unlock()

	for _, o := range outs {
		switch o.Kind {
		case interact.Hover:
			if cbs.OnHover == nil {
				continue
			}
			if o.Key == "" {
				cbs.OnHover("", nil)
			} else {
				cbs.OnHover(o.Key, &Point{X: o.X, Y: o.Y})
			}
		case interact.Click:
			if cbs.OnClick != nil {
				cbs.OnClick(o.Key, Point{X: o.X, Y: o.Y})
			}
		}
	}
}

// Center starts rotating key to the front. It reports false for unknown keys.
func (e *Engine) Center(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}
	return e.center(key)
}

func (e *Engine) center(key string) bool {
	idx := sphere.IndexOf(e.items, key)
	if idx < 0 {
		e.opts.Logger.Printf("Warning: center %q: unknown item", key)
		return false
	}
	rx, rz, ok := sphere.CenteringRotation(len(e.items), idx, e.opts.Tilt)
	if !ok {
		return false
	}
	rotation.StartCentering(e.state, key, rx, rz)
	return true
}

// Resize changes the container size and pixel ratio. Rotation, centering
// and drag state carry on unchanged.
func (e *Engine) Resize(width, height int, dpr float64) {
	if width <= 0 || height <= 0 {
		return
	}
	if dpr <= 0 {
		dpr = 1
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Width, e.opts.Height, e.opts.DPR = width, height, dpr
	e.pipe.Resize(width, height, dpr)
}

// Rotation returns a copy of the rotation state.
func (e *Engine) Rotation() rotation.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.state
}

// Rect returns key's last drawn screen rect.
func (e *Engine) Rect(key string) (render.ScreenRect, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pipe.Rects().Get(key)
}

// Run ticks the engine hz times per second until ctx is cancelled or the
// engine is closed.
func (e *Engine) Run(ctx context.Context, hz int) error {
	if hz <= 0 {
		hz = 60
	}
	d := time.Second / time.Duration(hz)
	t := time.NewTicker(d)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.done:
			return nil
		case <-t.C:
			e.Tick(e.opts.Now())
		}
	}
}

// Close stops the render loop, cancels in-flight loads and drops the
// callbacks so nothing fires after teardown. It waits for the load
// goroutine to exit.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.cbs = Callbacks{}
	close(e.done)
	if e.cancel != nil {
		e.cancel()
	}
	loadDone := e.loadDone
	e.mu.Unlock()

	if loadDone != nil {
		<-loadDone
	}
}
