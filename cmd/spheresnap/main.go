package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"time"

	"icon-sphere-renderer/internal/config"
	"icon-sphere-renderer/internal/engine"
	"icon-sphere-renderer/internal/iconcache"
	"icon-sphere-renderer/internal/itemlist"
	"icon-sphere-renderer/internal/render"
	"icon-sphere-renderer/internal/rotation"

	"github.com/HugoSmits86/nativewebp"
)

// simClock advances only when ticked, so snapshots are reproducible.
type simClock struct{ now time.Time }

func (c *simClock) Now() time.Time { return c.now }

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	iconDir := flag.String("icons", "", "Icon directory (default: ./icons)")
	items := flag.String("items", "", "Item list, .xml or .json (default: every icon in -icons)")
	cachePath := flag.String("cache", "", "Persistent cache file (default: user cache dir)")
	noCache := flag.Bool("nocache", false, "Do not read or write the persistent cache")
	out := flag.String("o", "sphere.webp", "Output WebP file")
	width := flag.Int("width", 0, "Container width in logical pixels")
	height := flag.Int("height", 0, "Container height in logical pixels")
	dpr := flag.Float64("dpr", 1, "Device pixel ratio")
	frames := flag.Int("frames", 120, "Frames to simulate before the snapshot")
	center := flag.String("center", "", "Centre this item before the snapshot")
	bg := flag.String("bg", "", "Background colour as RRGGBB (default: transparent)")

	flag.Parse()

	logger := log.New(os.Stderr, "spheresnap: ", 0)

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

	var store iconcache.Store
	if !*noCache {
		fs, err := iconcache.OpenFileStore(cfg.CachePath)
		if err != nil {
			logger.Printf("Warning: cache disabled: %v", err)
		} else {
			store = fs
		}
	}

	clk := &simClock{now: time.Now()}
	copts := iconcache.DefaultOptions()
	copts.IconSize = int(float64(cfg.IconSize) * 2 * *dpr)
	copts.MinDelay, copts.Window = 0, 0
	copts.Now = clk.Now
	copts.Logger = logger
	cache := iconcache.NewCache(index, store, copts)

	surf := render.NewImageSurface(cfg.Width, cfg.Height, *dpr)
	if *bg != "" {
		c, err := parseHex(*bg)
		if err != nil {
			logger.Fatalf("Error: -bg: %v", err)
		}
		surf.Background = c
	}

	opts := engine.DefaultOptions()
	opts.Width, opts.Height, opts.DPR = cfg.Width, cfg.Height, *dpr
	opts.Radius = cfg.Radius
	opts.IconSize = float64(cfg.IconSize)
	opts.Tilt = *cfg.Tilt
	opts.Logger = logger
	opts.Now = clk.Now

	eng, err := engine.New(itemlist.Items(defs), opts, cache, surf, engine.Callbacks{
		OnCentered: func(key string) { logger.Printf("centred %s", key) },
	})
	if err != nil {
		logger.Fatalf("Error: %v", err)
	}
	defer eng.Close()

	eng.Start(context.Background())
	<-eng.LoadDone()

	if *center != "" && !eng.Center(*center) {
		logger.Printf("Warning: cannot centre %q", *center)
	}
	var drawn []render.Drawn
	for i := 0; i < max(*frames, 1); i++ {
		clk.now = clk.now.Add(rotation.Frame)
		drawn = eng.Tick(clk.now)
	}

	f, err := os.Create(*out)
	if err != nil {
		logger.Fatalf("Error: %v", err)
	}
	if err := nativewebp.Encode(f, surf.Image(), nil); err != nil {
		f.Close()
		logger.Fatalf("Error: WebP encode: %v", err)
	}
	if err := f.Close(); err != nil {
		logger.Fatalf("Error: %v", err)
	}

	visible := 0
	for _, d := range drawn {
		if d.Visible {
			visible++
		}
	}
	rot := eng.Rotation()
	fmt.Printf("%s: %d items, %d drawn, %d visible, rx=%.3f rz=%.3f\n",
		*out, len(defs), len(drawn), visible, rot.RX, rot.RZ)
}

func parseHex(s string) (color.NRGBA, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{}, fmt.Errorf("parse %q: %w", s, err)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
