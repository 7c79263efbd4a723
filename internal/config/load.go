package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/rx/internal/config/loader"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "RX_"

// Options controls where Load looks for settings.
type Options struct {
	// Path names the settings file. It must exist when set. When empty
	// the first existing file among SearchPaths is used, if any.
	Path string

	// SearchPaths overrides DefaultPaths.
	SearchPaths []string

	// FS is the file system to read from. Defaults to the OS.
	FS loader.FileSystem

	// Env replaces the process environment when non-nil.
	Env []string

	// Overrides holds flag values keyed like the settings file.
	Overrides map[string]any
}

func (o Options) fs() loader.FileSystem {
	if o.FS == nil {
		return loader.DefaultFS()
	}
	return o.FS
}

// ConfigPath returns the settings file Load would read, or "" when there
// is none.
func (o Options) ConfigPath() (string, error) {
	fsys := o.fs()
	if o.Path != "" {
		if _, err := fsys.Stat(o.Path); err != nil {
			if os.IsNotExist(err) {
				return "", fmt.Errorf("%w: %s", ErrFileNotFound, o.Path)
			}
			return "", err
		}
		return o.Path, nil
	}

	paths := o.SearchPaths
	if paths == nil {
		paths = DefaultPaths()
	}
	for _, p := range paths {
		if _, err := fsys.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// DefaultPaths lists the settings files searched when no path is given:
// config.<ext> under $XDG_CONFIG_HOME/rx, then under ~/.config/rx.
func DefaultPaths() []string {
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "rx"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "rx"))
	}

	var paths []string
	for _, dir := range dirs {
		for _, ext := range loader.Extensions {
			paths = append(paths, filepath.Join(dir, "config"+ext))
		}
	}
	return paths
}

// Load resolves settings from defaults, the settings file, the
// environment and overrides, in increasing precedence, and validates the
// result.
func Load(opts Options) (Settings, error) {
	merged := make(map[string]any)

	path, err := opts.ConfigPath()
	if err != nil {
		return Settings{}, err
	}
	if path != "" {
		l, err := loader.ForPath(opts.fs(), path)
		if err != nil {
			return Settings{}, err
		}
		fileCfg, err := l.Load()
		if err != nil {
			return Settings{}, err
		}
		merged = loader.DeepMerge(merged, fileCfg)
	}

	env := loader.NewEnvLoader(EnvPrefix)
	if opts.Env != nil {
		env = loader.NewEnvLoaderFrom(EnvPrefix, opts.Env)
	}
	envCfg, err := env.Load()
	if err != nil {
		return Settings{}, err
	}
	merged = loader.DeepMerge(merged, envCfg)
	merged = loader.DeepMerge(merged, loader.Clone(opts.Overrides))

	s, err := FromMap(Default(), merged)
	if err != nil {
		if path != "" {
			return Settings{}, fmt.Errorf("%s: %w", path, err)
		}
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}
