package config

import (
	"context"
	"fmt"

	"github.com/dshills/rx/internal/config/watcher"
)

// Watch reloads settings with opts whenever the settings file changes
// and passes the result to fn. Load errors are passed to fn as well so
// the caller can keep its previous settings. Watch blocks until ctx is
// done.
func Watch(ctx context.Context, opts Options, fn func(Settings, error)) error {
	w, err := NewWatcher(opts, fn)
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

// NewWatcher prepares a settings watcher. Changes are only seen once the
// returned watcher's Run is called, but the file is registered right
// away.
func NewWatcher(opts Options, fn func(Settings, error)) (*watcher.Watcher, error) {
	path, err := opts.ConfigPath()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, ErrFileNotFound
	}
	// Reload the same file even if another search path appears later.
	opts.Path = path

	w, err := watcher.New(func(e watcher.Event) {
		if e.Op == watcher.OpRemove || e.Op == watcher.OpRename {
			fn(Settings{}, fmt.Errorf("%w: %s", ErrFileNotFound, e.Path))
			return
		}
		fn(Load(opts))
	}, watcher.WithErrorHandler(func(err error) { fn(Settings{}, err) }))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}
