package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"os/signal"
	"sync"
	"time"

	"icon-sphere-renderer/internal/config"
	"icon-sphere-renderer/internal/engine"
	"icon-sphere-renderer/internal/iconcache"
	"icon-sphere-renderer/internal/itemlist"
	"icon-sphere-renderer/internal/render"
	"icon-sphere-renderer/internal/sphere"
)

// status is the last hover and click reported by the engine.
type status struct {
	mu      sync.Mutex
	labels  map[string]string
	hovered string
	clicked string
}

func (s *status) hover(key string, _ *engine.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hovered = key
}

func (s *status) click(key string, _ engine.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clicked = key
}

func (s *status) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := ""
	if s.hovered != "" {
		line = "hover: " + s.labels[s.hovered]
	}
	if s.clicked != "" {
		line += "\nclicked: " + s.labels[s.clicked]
	}
	return line
}

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	iconDir := flag.String("icons", "", "Icon directory (default: ./icons)")
	items := flag.String("items", "", "Item list, .xml or .json (default: every icon in -icons)")
	cachePath := flag.String("cache", "", "Persistent cache file (default: user cache dir)")
	width := flag.Int("width", 0, "Window width")
	height := flag.Int("height", 0, "Window height")
	headless := flag.Bool("headless", false, "Run without a window, ticking in the background")
	duration := flag.Duration("duration", 5*time.Second, "How long a headless run lasts")
	clickCenter := flag.Bool("click-center", true, "Centre items when clicked")

	flag.Parse()

	logger := log.New(os.Stderr, "spheredemo: ", log.LstdFlags)

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			logger.Fatalf("Error loading config: %v", err)
		}
	}
	cfg.Resolve(config.Flags{
		IconDir:   *iconDir,
		ItemList:  *items,
		CachePath: *cachePath,
		Width:     *width,
		Height:    *height,
	})
	if cfg.IconDir == "" {
		logger.Fatal("Error: cannot find an icon directory. Use -icons or config.json.")
	}

	index, err := iconcache.BuildIndex(cfg.IconDir)
	if err != nil {
		logger.Fatalf("Error: %v", err)
	}
	var defs []itemlist.ItemDef
	if cfg.ItemList != "" {
		if defs, err = itemlist.Parse(cfg.ItemList); err != nil {
			logger.Fatalf("Error loading item list: %v", err)
		}
	} else {
		defs = itemlist.FromKeys(index.Keys())
	}
	sphereItems := itemlist.Items(defs)
	logger.Printf("%d items, %d icons indexed", len(sphereItems), index.Len())

	var store iconcache.Store
	if fs, err := iconcache.OpenFileStore(cfg.CachePath); err != nil {
		logger.Printf("Warning: cache disabled: %v", err)
	} else {
		store = fs
	}
	copts := iconcache.DefaultOptions()
	copts.IconSize = cfg.IconSize * 2
	if cfg.CacheTTLHours > 0 {
		copts.TTL = time.Duration(cfg.CacheTTLHours) * time.Hour
	}
	copts.Logger = logger
	cache := iconcache.NewCache(index, store, copts)

	st := &status{labels: make(map[string]string, len(sphereItems))}
	for _, it := range sphereItems {
		st.labels[it.Key] = it.Label
	}
	cbs := engine.Callbacks{
		OnHover: st.hover,
		OnClick: st.click,
		OnCentered: func(key string) {
			logger.Printf("centred %s", st.labels[key])
		},
	}

	opts := engine.DefaultOptions()
	opts.Width, opts.Height = cfg.Width, cfg.Height
	opts.Radius = cfg.Radius
	opts.IconSize = float64(cfg.IconSize)
	opts.Tilt = *cfg.Tilt
	opts.ClickToCenter = *clickCenter
	opts.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *headless {
		if err := runHeadless(ctx, sphereItems, opts, cache, cbs, *duration, logger); err != nil {
			logger.Fatalf("Error: %v", err)
		}
		return
	}

	surf := newEbitenSurface(color.NRGBA{R: 0x10, G: 0x12, B: 0x18, A: 0xff})
	eng, err := engine.New(sphereItems, opts, cache, surf, cbs)
	if err != nil {
		logger.Fatalf("Error: %v", err)
	}
	defer eng.Close()
	eng.Start(ctx)

	title := fmt.Sprintf("Icon sphere (%d items)", len(sphereItems))
	if err := runWindow(eng, surf, st, sphereItems, cfg.Width, cfg.Height, title); err != nil {
		logger.Fatalf("Error: %v", err)
	}
}

// runHeadless drives the engine from its own ticker against an in-memory
// surface and logs progress once a second.
func runHeadless(ctx context.Context, items []sphere.Item, opts engine.Options, cache *iconcache.Cache, cbs engine.Callbacks, d time.Duration, logger *log.Logger) error {
	surf := render.NewImageSurface(opts.Width, opts.Height, opts.DPR)
	eng, err := engine.New(items, opts, cache, surf, cbs)
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	eng.Start(ctx)

	go func() {
		t := time.NewTicker(time.Second)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				rot := eng.Rotation()
				logger.Printf("rx=%.3f rz=%.3f auto=%v", rot.RX, rot.RZ, !rot.AutoStopped)
			}
		}
	}()

	if len(items) > 0 {
		eng.Center(items[len(items)/2].Key)
	}
	err = eng.Run(ctx, 60)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
