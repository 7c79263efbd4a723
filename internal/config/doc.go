// Package config loads rx settings.
//
// Settings come from four sources, later ones overriding earlier ones:
//
//  1. built-in defaults (Default)
//  2. a settings file (TOML, YAML, JSON or .sublime-settings)
//  3. RX_* environment variables
//  4. command line flags (Options.Overrides)
//
// The result is an immutable Settings value that callers pass along
// explicitly. Watch reloads it when the settings file changes.
//
// Example settings file:
//
//	scope_pattern = 'source\.r\b'
//	transport     = "tmux"
//	tmux_target   = "R:1.0"
//	r_command     = ["R", "--no-save", "--quiet"]
//
// Sublime Text settings from older installs are accepted as is; the
// r_scope_regex and Rapp keys map to scope_pattern and app.
package config
