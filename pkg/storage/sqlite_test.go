package storage

import (
	"path/filepath"
	"testing"
	"time"

	"rct/pkg/config"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "rct-log.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAppendAndRecent(t *testing.T) {
	store := newTestStore(t)

	entries := []*LogEntry{
		{Line: "subsystems", Source: "10.1.18.5", Output: "drive\nintake", ExecutedAt: time.Now().Add(-2 * time.Second)},
		{Line: "devices", Source: "10.1.18.5", Output: "talon-1", ExecutedAt: time.Now().Add(-1 * time.Second)},
		{Line: "bogus", Source: "10.1.18.5", ErrorText: "unknown command", ExecutedAt: time.Now()},
	}
	for _, e := range entries {
		if err := store.Append(e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
		if e.ID == 0 {
			t.Error("Append did not populate entry ID")
		}
	}

	recent, err := store.Recent(2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Recent returned %d entries, want 2", len(recent))
	}
	if recent[0].Line != "bogus" {
		t.Errorf("newest entry = %q, want %q", recent[0].Line, "bogus")
	}
	if recent[0].ErrorText != "unknown command" {
		t.Errorf("ErrorText = %q, want preserved", recent[0].ErrorText)
	}
	if recent[1].Line != "devices" {
		t.Errorf("second entry = %q, want %q", recent[1].Line, "devices")
	}
}

func TestCount(t *testing.T) {
	store := newTestStore(t)

	if n, err := store.Count(); err != nil || n != 0 {
		t.Fatalf("Count on empty store = %d, %v", n, err)
	}

	for i := 0; i < 5; i++ {
		if err := store.Append(&LogEntry{Line: "sysinfo"}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	if n, err := store.Count(); err != nil || n != 5 {
		t.Errorf("Count = %d, %v, want 5", n, err)
	}
}

func TestAppendFillsExecutedAt(t *testing.T) {
	store := newTestStore(t)

	e := &LogEntry{Line: "logs"}
	if err := store.Append(e); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if e.ExecutedAt.IsZero() {
		t.Error("ExecutedAt not defaulted")
	}
}

func TestNewStoreFactory(t *testing.T) {
	_, err := NewStore(config.DatabaseConfig{Type: "mongodb", Path: "x"})
	if err == nil {
		t.Error("unsupported database type accepted")
	}

	store, err := NewStore(config.DatabaseConfig{Type: "sqlite", Path: filepath.Join(t.TempDir(), "f.db")})
	if err != nil {
		t.Fatalf("sqlite factory failed: %v", err)
	}
	store.Close()
}
