package iconcache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// extRank orders formats for the same stem; lower wins. Formats with an
// alpha channel come first.
var extRank = map[string]int{
	".png":  0,
	".webp": 1,
	".tga":  2,
	".jpg":  3,
	".jpeg": 3,
}

// DirIndex maps lowercase file stems to icon paths under a directory.
type DirIndex struct {
	entries map[string]string // stem.lower() → full path
}

// BuildIndex walks dir recursively and indexes every supported image file.
func BuildIndex(dir string) (*DirIndex, error) {
	idx := &DirIndex{entries: make(map[string]string)}

	if info, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("iconcache: index %s: %w", dir, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("iconcache: index %s: not a directory", dir)
	}

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		rank, ok := extRank[ext]
		if !ok {
			return nil
		}
		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

		existing, exists := idx.entries[stem]
		if !exists || rank < extRank[strings.ToLower(filepath.Ext(existing))] {
			idx.entries[stem] = path
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iconcache: index %s: %w", dir, err)
	}
	return idx, nil
}

// ResolvePath returns the filesystem path for a key, or ("", false). A key
// may carry an image extension ("go.png"); any other dotted suffix is part of
// the key ("vue.js").
func (idx *DirIndex) ResolvePath(key string) (string, bool) {
	key = strings.ReplaceAll(key, "\\", "/")
	base := filepath.Base(key)
	stem := strings.ToLower(base)
	if ext := filepath.Ext(base); ext != "" {
		if _, ok := extRank[strings.ToLower(ext)]; ok {
			stem = strings.ToLower(strings.TrimSuffix(base, ext))
		}
	}

	path, ok := idx.entries[stem]
	return path, ok
}

// Has reports whether key maps to an indexed file.
func (idx *DirIndex) Has(key string) bool {
	_, ok := idx.ResolvePath(key)
	return ok
}

// Resolve reads the file indexed for key.
func (idx *DirIndex) Resolve(ctx context.Context, key string) ([]byte, error) {
	path, ok := idx.ResolvePath(key)
	if !ok {
		return nil, fmt.Errorf("resolve %q: %w", key, ErrNotFound)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("iconcache: read %s: %w", path, err)
	}
	return data, nil
}

// Len returns the number of indexed icons.
func (idx *DirIndex) Len() int {
	return len(idx.entries)
}

// Keys returns the indexed stems in sorted order.
func (idx *DirIndex) Keys() []string {
	keys := make([]string, 0, len(idx.entries))
	for k := range idx.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
