package iconcache

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// ErrNotFound means no image resource exists for a key.
var ErrNotFound = errors.New("iconcache: icon not found")

// Resolver fetches the encoded image bytes for a key.
type Resolver interface {
	Resolve(ctx context.Context, key string) ([]byte, error)
}

// Lister is implemented by resolvers that know their key set up front.
// Keys they do not list are skipped before loading starts.
type Lister interface {
	Has(key string) bool
}

// Loader fetches one icon's bytes.
type Loader func(ctx context.Context) ([]byte, error)

// Registry is an explicit key → loader map supplied at construction time.
type Registry map[string]Loader

// Resolve runs the loader registered for key.
func (r Registry) Resolve(ctx context.Context, key string) ([]byte, error) {
	load, ok := r[key]
	if !ok || load == nil {
		return nil, fmt.Errorf("resolve %q: %w", key, ErrNotFound)
	}
	return load(ctx)
}

// Has reports whether key has a loader.
func (r Registry) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Keys returns the registered keys in sorted order.
func (r Registry) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Bytes returns a Loader serving a fixed payload.
func Bytes(data []byte) Loader {
	return func(context.Context) ([]byte, error) {
		return data, nil
	}
}
