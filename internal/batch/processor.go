package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"icon-sphere-renderer/internal/iconcache"
	"icon-sphere-renderer/internal/itemlist"

	"golang.org/x/sync/errgroup"
)

// Config holds all shared resources for a pre-warm run.
type Config struct {
	Resolver iconcache.Resolver
	Store    iconcache.Store
	IconSize int
	TTL      time.Duration
	Workers  int
	Force    bool // re-encode entries that are still valid

	Now      func() time.Time
	Progress io.Writer // periodic progress lines; nil disables them
}

// Result holds the outcome of warming one item.
type Result struct {
	Key     string
	Label   string
	Group   string
	Success bool
	Skipped bool // a valid entry was already stored
	Bytes   int
	Error   string
}

// Run resolves, decodes, re-encodes and stores every item's icon using a
// worker pool. A failing item is reported in its Result and never stops the
// others; only ctx cancellation ends the run early.
func Run(ctx context.Context, cfg Config, items []itemlist.ItemDef) ([]Result, error) {
	if cfg.Resolver == nil || cfg.Store == nil {
		return nil, errors.New("batch: resolver and store are required")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.IconSize <= 0 {
		cfg.IconSize = iconcache.DefaultOptions().IconSize
	}
	if cfg.TTL <= 0 {
		cfg.TTL = iconcache.DefaultTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	total := len(items)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if cfg.Progress != nil {
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						rate := float64(p) / time.Since(start).Seconds()
						fmt.Fprintf(cfg.Progress, "  [%d/%d] %.1f icons/sec\n", p, total, rate)
					}
				}
			}
		}()
	}
	defer close(done)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = processItem(gctx, cfg, items[i])
			processed.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

func processItem(ctx context.Context, cfg Config, item itemlist.ItemDef) Result {
	key := item.IconKey()
	res := Result{Key: key, Label: item.Label, Group: item.Group}

	if !cfg.Force {
		if e, ok := cfg.Store.Get(key); ok && e.Validate(cfg.Now(), cfg.TTL) == nil {
			res.Success, res.Skipped, res.Bytes = true, true, len(e.Data)
			return res
		}
	}

	data, err := cfg.Resolver.Resolve(ctx, key)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	img, err := iconcache.Decode(data, cfg.IconSize)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	enc, err := iconcache.EncodeWebP(img)
	if err != nil {
		res.Error = fmt.Sprintf("WebP encode: %v", err)
		return res
	}
	err = cfg.Store.Put(key, iconcache.Entry{
		Data:      enc,
		Version:   iconcache.FormatVersion,
		Timestamp: cfg.Now().UnixMilli(),
	})
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.Success, res.Bytes = true, len(enc)
	return res
}
