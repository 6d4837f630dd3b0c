package iconcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FormatVersion is the cache-format version. Bumping it invalidates every
// previously persisted entry.
const FormatVersion = 2

// DefaultTTL is how long a persisted icon stays valid.
const DefaultTTL = 7 * 24 * time.Hour

// ErrCacheMiss means a persisted entry is absent, stale or from another
// format version.
var ErrCacheMiss = errors.New("iconcache: cache miss")

// Entry is one persisted icon.
type Entry struct {
	Data      []byte `json:"data"`      // WebP-encoded, base64 in JSON
	Version   int    `json:"version"`   // FormatVersion at write time
	Timestamp int64  `json:"timestamp"` // unix milliseconds
}

// Validate returns ErrCacheMiss unless e is from the current format version
// and younger than ttl at now.
func (e Entry) Validate(now time.Time, ttl time.Duration) error {
	if e.Version != FormatVersion || len(e.Data) == 0 {
		return ErrCacheMiss
	}
	age := now.Sub(time.UnixMilli(e.Timestamp))
	if age < 0 || age >= ttl {
		return ErrCacheMiss
	}
	return nil
}

// Store is durable key-value storage for icons.
type Store interface {
	Get(key string) (Entry, bool)
	Put(key string, e Entry) error
}

// MemStore keeps entries in memory only.
type MemStore struct {
	mu      sync.Mutex
	entries map[string]Entry
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{entries: make(map[string]Entry)}
}

func (s *MemStore) Get(key string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	return e, ok
}

func (s *MemStore) Put(key string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = e
	return nil
}

// FileStore persists all entries as one JSON document:
// {"<key>": {"data": ..., "version": ..., "timestamp": ...}}.
type FileStore struct {
	path    string
	mu      sync.Mutex
	entries map[string]Entry
}

// OpenFileStore loads path. A missing file starts empty. A document that
// fails to parse is discarded, and so is any single entry that fails to
// parse; both count as cache misses rather than errors.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, entries: make(map[string]Entry)}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("iconcache: read %s: %w", path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return s, nil
	}
	for key, msg := range raw {
		var e Entry
		if err := json.Unmarshal(msg, &e); err != nil {
			continue
		}
		s.entries[key] = e
	}
	return s, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Len returns the number of entries held, valid or not.
func (s *FileStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *FileStore) Get(key string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	return e, ok
}

// Put stores e and rewrites the document.
func (s *FileStore) Put(key string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = e
	return s.flush()
}

// Prune drops entries that no longer validate and rewrites the document.
func (s *FileStore) Prune(now time.Time, ttl time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key, e := range s.entries {
		if e.Validate(now, ttl) != nil {
			delete(s.entries, key)
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return n, s.flush()
}

// flush writes via a temp file and rename so readers never see a torn
// document. Caller holds s.mu.
func (s *FileStore) flush() error {
	data, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("iconcache: encode store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("iconcache: write %s: %w", s.path, err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("iconcache: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("iconcache: write %s: %w", s.path, err)
	}
	return nil
}
