// Package watcher reports changes to individual settings files.
//
// It watches the directory holding each file rather than the file
// itself, so editors that save by writing a temporary file and renaming
// it over the original are still seen. Bursts of events for the same
// file are coalesced into one.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrClosed is returned by Watch after Run has returned.
var ErrClosed = errors.New("watcher closed")

// Event is a change to a watched file.
type Event struct {
	// Path is the absolute path of the file.
	Path string
	// Op is the coalesced operation.
	Op Operation
	// Time is when the last raw event arrived.
	Time time.Time
}

// Operation is the kind of change.
type Operation int

const (
	// OpWrite indicates the file was modified.
	OpWrite Operation = iota
	// OpCreate indicates the file appeared.
	OpCreate
	// OpRemove indicates the file was deleted.
	OpRemove
	// OpRename indicates the file was renamed away.
	OpRename
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Handler is called once per coalesced change, from the Run goroutine.
type Handler func(event Event)

// Watcher watches settings files.
type Watcher struct {
	mu     sync.Mutex
	fsw    *fsnotify.Watcher
	files  map[string]bool
	dirs   map[string]bool
	closed bool

	handler  Handler
	debounce time.Duration
	onError  func(error)
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long a file must stay quiet before its change is
// reported. Zero reports every raw event.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithErrorHandler sets a callback for errors reported by the OS watcher.
func WithErrorHandler(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// New creates a watcher that calls handler for each change.
func New(handler Handler, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		handler:  handler,
		debounce: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch adds a file. The file need not exist yet but its directory must.
func (w *Watcher) Watch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}

	dir := filepath.Dir(absPath)
	if !w.dirs[dir] {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.dirs[dir] = true
	}
	w.files[absPath] = true
	return nil
}

// WatchedFiles returns the watched file paths.
func (w *Watcher) WatchedFiles() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	files := make([]string, 0, len(w.files))
	for path := range w.files {
		files = append(files, path)
	}
	return files
}

// Run delivers events until ctx is done, then releases the OS watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	pending := make(map[string]Event)
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case raw, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			event, tracked := w.translate(raw)
			if !tracked {
				continue
			}
			if w.debounce == 0 {
				w.handler(event)
				continue
			}
			pending[event.Path] = coalesce(pending[event.Path], event)
			timer.Reset(w.debounce)

		case <-timer.C:
			for path, event := range pending {
				delete(pending, path)
				w.handler(event)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

// Close releases the OS watcher. Run calls it on return.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.fsw.Close()
}

// translate maps a raw fsnotify event to an Event for a watched file.
func (w *Watcher) translate(raw fsnotify.Event) (Event, bool) {
	path := filepath.Clean(raw.Name)

	w.mu.Lock()
	tracked := w.files[path]
	w.mu.Unlock()
	if !tracked {
		return Event{}, false
	}

	event := Event{Path: path, Time: time.Now()}
	switch {
	case raw.Has(fsnotify.Remove):
		event.Op = OpRemove
	case raw.Has(fsnotify.Rename):
		event.Op = OpRename
	case raw.Has(fsnotify.Create):
		event.Op = OpCreate
	case raw.Has(fsnotify.Write):
		event.Op = OpWrite
	default:
		// chmod only
		return Event{}, false
	}
	return event, true
}

// coalesce folds next into prev. A later create or write wins over an
// earlier remove or rename since the file exists again; a create is not
// downgraded by the writes that follow it.
func coalesce(prev, next Event) Event {
	if prev.Path == "" {
		return next
	}
	if prev.Op == OpCreate && next.Op == OpWrite {
		next.Op = OpCreate
	}
	return next
}
