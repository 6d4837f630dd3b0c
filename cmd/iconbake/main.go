package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"icon-sphere-renderer/internal/batch"
	"icon-sphere-renderer/internal/config"
	"icon-sphere-renderer/internal/iconcache"
	"icon-sphere-renderer/internal/itemlist"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	testN := flag.Int("test", 0, "Bake only the first N items")
	group := flag.String("group", "", "Bake only items from this group")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	iconDir := flag.String("icons", "", "Icon directory (default: ./icons)")
	items := flag.String("items", "", "Item list, .xml or .json (default: every icon in -icons)")
	cachePath := flag.String("cache", "", "Persistent cache file (default: user cache dir)")
	outputDir := flag.String("output", "", "Directory for manifest.json (default: next to the cache)")
	force := flag.Bool("force", false, "Re-encode icons whose cache entry is still valid")
	prune := flag.Bool("prune", false, "Drop stale cache entries before baking")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		IconDir:   *iconDir,
		ItemList:  *items,
		CachePath: *cachePath,
		OutputDir: *outputDir,
		Workers:   *workers,
	})

	if cfg.IconDir == "" {
		fmt.Fprintln(os.Stderr, "Error: cannot find an icon directory. Use -icons or config.json.")
		os.Exit(1)
	}

	index, err := iconcache.BuildIndex(cfg.IconDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Icons: %d indexed\n", index.Len())

	// Load item list
	var defs []itemlist.ItemDef
	if cfg.ItemList != "" {
		defs, err = itemlist.Parse(cfg.ItemList)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading item list: %v\n", err)
			os.Exit(1)
		}
	} else {
		defs = itemlist.FromKeys(index.Keys())
	}

	if *group != "" {
		var filtered []itemlist.ItemDef
		for _, d := range defs {
			if d.Group == *group {
				filtered = append(filtered, d)
			}
		}
		defs = filtered
	}
	if *testN > 0 && *testN < len(defs) {
		defs = defs[:*testN]
	}
	if len(defs) == 0 {
		fmt.Println("No items to bake.")
		os.Exit(0)
	}

	store, err := iconcache.OpenFileStore(cfg.CachePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening cache: %v\n", err)
		os.Exit(1)
	}
	ttl := iconcache.DefaultTTL
	if cfg.CacheTTLHours > 0 {
		ttl = time.Duration(cfg.CacheTTLHours) * time.Hour
	}
	if *prune {
		n, err := store.Prune(time.Now(), ttl)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: prune failed: %v\n", err)
		}
		fmt.Printf("Pruned: %d stale entries\n", n)
	}

	fmt.Println("Icon sphere cache bake")
	fmt.Printf("Items: %d, Workers: %d, Size: %dpx\n", len(defs), cfg.Workers, cfg.IconSize)
	fmt.Printf("Cache: %s\n", store.Path())
	fmt.Println("------------------------------------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := batch.Run(ctx, batch.Config{
		Resolver: index,
		Store:    store,
		IconSize: cfg.IconSize,
		TTL:      ttl,
		Workers:  cfg.Workers,
		Force:    *force,
		Progress: os.Stdout,
	}, defs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: bake stopped: %v\n", err)
	}

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())

	// Count results
	baked, skipped, failed := 0, 0, 0
	var failures []batch.Result
	for _, r := range results {
		switch {
		case r.Skipped:
			skipped++
		case r.Success:
			baked++
		case r.Key != "":
			failed++
			failures = append(failures, r)
		}
	}
	fmt.Printf("Baked: %d, already cached: %d, failed: %d\n", baked, skipped, failed)

	if len(failures) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := min(20, len(failures))
		for _, r := range failures[:limit] {
			fmt.Printf("  %s: %s\n", r.Key, r.Error)
		}
	}

	// Write manifest
	outDir := cfg.OutputDir
	if outDir == "" {
		outDir = filepath.Dir(store.Path())
	}
	manifestPath := filepath.Join(outDir, "manifest.json")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
