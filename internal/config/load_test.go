package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	s, err := Load(Options{SearchPaths: []string{}, Env: []string{}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.App != "R" || s.Transport != TransportAuto {
		t.Errorf("Load() = %+v, want defaults", s)
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", `
app = "R64"
transport = "screen"
screen_session = "from-file"
tmux_target = "from-file"
`)

	s, err := Load(Options{
		Path:      path,
		Env:       []string{"RX_SCREEN_SESSION=from-env", "RX_TMUX_TARGET=from-env"},
		Overrides: map[string]any{"tmux_target": "from-flag"},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	checks := []struct {
		field, got, want string
	}{
		{"App", s.App, "R64"},
		{"Transport", s.Transport, "screen"},
		{"ScreenSession", s.ScreenSession, "from-env"},
		{"TmuxTarget", s.TmuxTarget, "from-flag"},
		{"ScopePattern", s.ScopePattern, Default().ScopePattern},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.field, c.got, c.want)
		}
	}
}

func TestLoad_SublimeSettings(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Rx.sublime-settings", `{
	// Regex for R scopes
	"r_scope_regex": "source\\.r",
	"Rapp": "R64"
}`)

	s, err := Load(Options{Path: path, Env: []string{}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.ScopePattern != `source\.r` {
		t.Errorf("ScopePattern = %q", s.ScopePattern)
	}
	if s.App != "R64" {
		t.Errorf("App = %q", s.App)
	}
}

func TestLoad_SearchPaths(t *testing.T) {
	dir := t.TempDir()
	yml := writeFile(t, dir, "config.yaml", "app: from-yaml\n")

	s, err := Load(Options{
		SearchPaths: []string{filepath.Join(dir, "config.toml"), yml},
		Env:         []string{},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.App != "from-yaml" {
		t.Errorf("App = %q, want from-yaml", s.App)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	badToml := writeFile(t, dir, "bad.toml", "app = \n")
	badPattern := writeFile(t, dir, "pattern.toml", "scope_pattern = \"source(\"\n")
	badType := writeFile(t, dir, "type.yaml", "app: [R]\n")

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(Options{Path: filepath.Join(dir, "nope.toml"), Env: []string{}})
		if !errors.Is(err, ErrFileNotFound) {
			t.Errorf("err = %v, want ErrFileNotFound", err)
		}
	})
	t.Run("parse error", func(t *testing.T) {
		_, err := Load(Options{Path: badToml, Env: []string{}})
		var perr *ParseError
		if !errors.As(err, &perr) || perr.Path != badToml {
			t.Errorf("err = %v, want ParseError for %s", err, badToml)
		}
	})
	t.Run("invalid pattern", func(t *testing.T) {
		_, err := Load(Options{Path: badPattern, Env: []string{}})
		if !errors.Is(err, ErrInvalidPattern) {
			t.Errorf("err = %v, want ErrInvalidPattern", err)
		}
	})
	t.Run("wrong type", func(t *testing.T) {
		_, err := Load(Options{Path: badType, Env: []string{}})
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("err = %v, want ErrInvalidValue", err)
		}
	})
	t.Run("invalid env override", func(t *testing.T) {
		_, err := Load(Options{SearchPaths: []string{}, Env: []string{"RX_TRANSPORT=carrier-pigeon"}})
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("err = %v, want ErrInvalidValue", err)
		}
	})
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	paths := DefaultPaths()
	if len(paths) == 0 || paths[0] != filepath.Join("/xdg", "rx", "config.toml") {
		t.Errorf("DefaultPaths()[0] = %v, want /xdg/rx/config.toml first", paths)
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", "app = \"R\"\n")

	got := make(chan Settings, 4)
	w, err := NewWatcher(Options{Path: path, Env: []string{}}, func(s Settings, err error) {
		if err == nil {
			got <- s
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	writeFile(t, dir, "config.toml", "app = \"R64\"\n")

	timeout := time.After(5 * time.Second)
	for {
		select {
		case s := <-got:
			if s.App == "R64" {
				return
			}
		case <-timeout:
			t.Fatal("timed out waiting for reload")
		}
	}
}

func TestWatch_NoFile(t *testing.T) {
	err := Watch(context.Background(), Options{SearchPaths: []string{}}, func(Settings, error) {})
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("err = %v, want ErrFileNotFound", err)
	}
}
