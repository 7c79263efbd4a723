package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOperation_String(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Operation(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Operation(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestCoalesce(t *testing.T) {
	tests := []struct {
		name       string
		prev, next Operation
		want       Operation
	}{
		{"create then write", OpCreate, OpWrite, OpCreate},
		{"write then write", OpWrite, OpWrite, OpWrite},
		{"write then remove", OpWrite, OpRemove, OpRemove},
		{"rename then create", OpRename, OpCreate, OpCreate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := Event{Path: "/rx.toml", Op: tt.prev}
			next := Event{Path: "/rx.toml", Op: tt.next}
			if got := coalesce(prev, next).Op; got != tt.want {
				t.Errorf("coalesce(%v, %v) = %v, want %v", tt.prev, tt.next, got, tt.want)
			}
		})
	}
}

func TestWatcher_ReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("app = \"R\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	events := make(chan Event, 16)
	w, err := New(func(e Event) { events <- e }, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Noise in the same directory is ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("app = \"R64\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case e := <-events:
		want, _ := filepath.Abs(path)
		if e.Path != want {
			t.Errorf("Path = %q, want %q", e.Path, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change event")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run: %v", err)
	}
	if err := w.Watch(path); err != ErrClosed {
		t.Errorf("Watch after Run = %v, want ErrClosed", err)
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w, err := New(func(Event) {})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	if err := w.Watch(filepath.Join(t.TempDir(), "nope", "config.toml")); err == nil {
		t.Error("expected error watching a file in a missing directory")
	}
	if len(w.WatchedFiles()) != 0 {
		t.Errorf("WatchedFiles() = %v, want none", w.WatchedFiles())
	}
}
