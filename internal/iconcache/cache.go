// Package iconcache loads icon images by key, keeps them in memory for the
// renderer, persists re-encoded copies across sessions, and tracks the
// per-key fade and fly-in animation state.
package iconcache

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"icon-sphere-renderer/internal/mathutil"

	"golang.org/x/sync/errgroup"
)

// Animation timing.
const (
	FadeDuration = 300 * time.Millisecond
	FlyDuration  = 800 * time.Millisecond
)

// Options configures a Cache.
type Options struct {
	IconSize int           // decoded icons are fit into IconSize×IconSize
	TTL      time.Duration // persisted entry lifetime

	// Cascade timing; zero values start every load immediately.
	MinDelay     time.Duration
	Window       time.Duration
	StaggerRatio float64

	Now    func() time.Time
	Logger *log.Logger
}

// DefaultOptions returns the standard cascade: 100ms floor, 1.2s window.
func DefaultOptions() Options {
	return Options{
		IconSize:     96,
		TTL:          DefaultTTL,
		MinDelay:     100 * time.Millisecond,
		Window:       1200 * time.Millisecond,
		StaggerRatio: DefaultStaggerRatio,
	}
}

// LoadState is the per-key load record. Opacity and fly progress are not
// stored; Animation derives them from LoadTime.
type LoadState struct {
	Loaded   bool
	LoadTime time.Time
	Start    mathutil.Vec3 // fly-in origin in unit camera space
}

// Anim is the per-frame animation state of a loaded icon.
type Anim struct {
	Opacity     float64 // 0..1 over FadeDuration
	FlyProgress float64 // eased 0..1 over FlyDuration
	Start       mathutil.Vec3
}

// Cache is a concurrency-safe icon cache. Engines that share one Cache share
// its images and animation state.
type Cache struct {
	mu     sync.RWMutex
	icons  map[string]*image.NRGBA
	states map[string]*LoadState

	resolver Resolver
	store    Store
	opts     Options
}

// NewCache creates a cache that fetches misses from resolver and persists
// through store. A nil store disables persistence.
func NewCache(resolver Resolver, store Store, opts Options) *Cache {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Cache{
		icons:    make(map[string]*image.NRGBA),
		states:   make(map[string]*LoadState),
		resolver: resolver,
		store:    store,
		opts:     opts,
	}
}

// Icon returns the decoded image for key once it has loaded.
func (c *Cache) Icon(key string) (*image.NRGBA, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st, ok := c.states[key]
	if !ok || !st.Loaded {
		return nil, false
	}
	img, ok := c.icons[key]
	return img, ok
}

// State returns a copy of key's load record.
func (c *Cache) State(key string) (LoadState, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st, ok := c.states[key]
	if !ok {
		return LoadState{}, false
	}
	return *st, true
}

// Animation derives key's fade and fly-in progress at now. It reports false
// while the icon is not loaded.
func (c *Cache) Animation(key string, now time.Time) (Anim, bool) {
	st, ok := c.State(key)
	if !ok || !st.Loaded {
		return Anim{}, false
	}
	elapsed := now.Sub(st.LoadTime)
	return Anim{
		Opacity:     mathutil.Clamp(float64(elapsed)/float64(FadeDuration), 0, 1),
		FlyProgress: mathutil.EaseOutCubic(float64(elapsed) / float64(FlyDuration)),
		Start:       st.Start,
	}, true
}

// LoadCascading loads keys with staggered starts per Schedule. Every load
// begins at start (the fly-in origin) and onEach, if set, runs after each
// key finishes loading. Missing keys and failed loads are logged and
// skipped. The returned error is non-nil only when ctx is cancelled.
func (c *Cache) LoadCascading(ctx context.Context, keys []string, start mathutil.Vec3, onEach func(key string)) error {
	keys = c.available(keys)
	delays := Schedule(len(keys), c.opts.MinDelay, c.opts.Window, c.opts.StaggerRatio)

	g, ctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		c.schedule(key, start)
		delay := delays[i]
		g.Go(func() error {
			if err := sleep(ctx, delay); err != nil {
				return err
			}
			if err := c.load(ctx, key); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if errors.Is(err, ErrNotFound) {
					c.opts.Logger.Printf("Warning: icon %q not found, skipping", key)
				} else {
					c.opts.Logger.Printf("Warning: icon %q failed to load: %v", key, err)
				}
				return nil
			}
			if onEach != nil {
				onEach(key)
			}
			return nil
		})
	}
	return g.Wait()
}

// available drops keys the resolver cannot serve, with a warning each.
func (c *Cache) available(keys []string) []string {
	lister, ok := c.resolver.(Lister)
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		if ok && !lister.Has(k) && !c.inMemory(k) && !c.inStore(k) {
			c.opts.Logger.Printf("Warning: icon %q not found, skipping", k)
			continue
		}
		out = append(out, k)
	}
	return out
}

func (c *Cache) inMemory(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.icons[key]
	return ok
}

func (c *Cache) inStore(key string) bool {
	if c.store == nil {
		return false
	}
	e, ok := c.store.Get(key)
	return ok && e.Validate(c.opts.Now(), c.opts.TTL) == nil
}

// schedule records the fly-in origin for key. The first caller wins, so
// engines sharing a cache do not move each other's fly-in origins.
func (c *Cache) schedule(key string, start mathutil.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.states[key]; ok {
		return
	}
	c.states[key] = &LoadState{Start: start}
}

// load resolves one key: memory, then persistent store, then resolver.
func (c *Cache) load(ctx context.Context, key string) error {
	if c.inMemory(key) {
		c.markLoaded(key, nil)
		return nil
	}

	if img, err := c.fromStore(key); err == nil {
		c.markLoaded(key, img)
		return nil
	}

	if c.resolver == nil {
		return fmt.Errorf("resolve %q: %w", key, ErrNotFound)
	}
	data, err := c.resolver.Resolve(ctx, key)
	if err != nil {
		return err
	}
	img, err := Decode(data, c.opts.IconSize)
	if err != nil {
		return err
	}
	c.markLoaded(key, img)
	c.persist(key, img)
	return nil
}

func (c *Cache) fromStore(key string) (*image.NRGBA, error) {
	if c.store == nil {
		return nil, ErrCacheMiss
	}
	e, ok := c.store.Get(key)
	if !ok {
		return nil, ErrCacheMiss
	}
	if err := e.Validate(c.opts.Now(), c.opts.TTL); err != nil {
		return nil, err
	}
	img, err := Decode(e.Data, c.opts.IconSize)
	if err != nil {
		return nil, ErrCacheMiss
	}
	return img, nil
}

// persist is best-effort; failures are logged only.
func (c *Cache) persist(key string, img *image.NRGBA) {
	if c.store == nil {
		return
	}
	data, err := EncodeWebP(img)
	if err == nil {
		err = c.store.Put(key, Entry{
			Data:      data,
			Version:   FormatVersion,
			Timestamp: c.opts.Now().UnixMilli(),
		})
	}
	if err != nil {
		c.opts.Logger.Printf("Warning: icon %q not persisted: %v", key, err)
	}
}

// markLoaded stores img (nil keeps the in-memory image) and stamps the load
// time. A key that already loaded keeps its original time so it does not
// fly in twice.
func (c *Cache) markLoaded(key string, img *image.NRGBA) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if img != nil {
		c.icons[key] = img
	}
	st, ok := c.states[key]
	if !ok {
		st = &LoadState{}
		c.states[key] = st
	}
	if st.Loaded {
		return
	}
	st.Loaded = true
	st.LoadTime = c.opts.Now()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
