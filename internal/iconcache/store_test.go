package iconcache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEntryValidateTTL(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		entry   Entry
		wantErr bool
	}{
		{"fresh", Entry{Data: []byte{1}, Version: FormatVersion, Timestamp: now.Add(-time.Hour).UnixMilli()}, false},
		{"six days", Entry{Data: []byte{1}, Version: FormatVersion, Timestamp: now.Add(-6 * 24 * time.Hour).UnixMilli()}, false},
		{"eight days", Entry{Data: []byte{1}, Version: FormatVersion, Timestamp: now.Add(-8 * 24 * time.Hour).UnixMilli()}, true},
		{"old version", Entry{Data: []byte{1}, Version: FormatVersion - 1, Timestamp: now.UnixMilli()}, true},
		{"empty data", Entry{Version: FormatVersion, Timestamp: now.UnixMilli()}, true},
		{"future", Entry{Data: []byte{1}, Version: FormatVersion, Timestamp: now.Add(time.Hour).UnixMilli()}, true},
	}
	for _, tt := range tests {
		err := tt.entry.Validate(now, DefaultTTL)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrCacheMiss) {
			t.Errorf("%s: error %v is not ErrCacheMiss", tt.name, err)
		}
	}
}

func TestFileStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "icons.json")
	s, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
	}
	want := Entry{Data: []byte("webp"), Version: FormatVersion, Timestamp: 1234}
	if err := s.Put("go", want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	s2, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, ok := s2.Get("go")
	if !ok || string(got.Data) != "webp" || got.Version != want.Version || got.Timestamp != want.Timestamp {
		t.Fatalf("Get = %+v, %v", got, ok)
	}
}

func TestFileStoreCorruption(t *testing.T) {
	dir := t.TempDir()

	broken := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(broken, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := OpenFileStore(broken)
	if err != nil {
		t.Fatalf("corrupt document must not error: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("corrupt document kept %d entries", s.Len())
	}

	mixed := filepath.Join(dir, "mixed.json")
	doc := `{"ok":{"data":"aGk=","version":2,"timestamp":5},"bad":{"data":12}}`
	if err := os.WriteFile(mixed, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	s, err = OpenFileStore(mixed)
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
	}
	if _, ok := s.Get("bad"); ok {
		t.Fatal("unparsable entry must be dropped")
	}
	if e, ok := s.Get("ok"); !ok || string(e.Data) != "hi" {
		t.Fatalf("ok entry = %+v, %v", e, ok)
	}
}

func TestFileStorePrune(t *testing.T) {
	now := time.Now()
	s, err := OpenFileStore(filepath.Join(t.TempDir(), "icons.json"))
	if err != nil {
		t.Fatal(err)
	}
	s.Put("fresh", Entry{Data: []byte{1}, Version: FormatVersion, Timestamp: now.UnixMilli()})
	s.Put("stale", Entry{Data: []byte{1}, Version: FormatVersion, Timestamp: now.Add(-30 * 24 * time.Hour).UnixMilli()})

	n, err := s.Prune(now, DefaultTTL)
	if err != nil || n != 1 {
		t.Fatalf("Prune = %d, %v", n, err)
	}
	if _, ok := s.Get("stale"); ok {
		t.Fatal("stale entry survived prune")
	}
}
