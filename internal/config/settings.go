package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/dshills/rx/internal/scope"
)

// Transport names.
const (
	TransportAuto        = "auto"
	TransportAppleScript = "applescript"
	TransportTmux        = "tmux"
	TransportScreen      = "screen"
	TransportProcess     = "process"
)

// Transports lists the accepted transport names.
var Transports = []string{TransportAuto, TransportAppleScript, TransportTmux, TransportScreen, TransportProcess}

// Settings is the resolved rx configuration.
type Settings struct {
	// ScopePattern is the regular expression a scope label must contain
	// for a region to be sent.
	ScopePattern string
	// App is the macOS application that receives AppleScript commands.
	App string
	// Transport selects how code reaches the session.
	Transport string
	// TmuxTarget is the tmux target pane (send-keys -t).
	TmuxTarget string
	// ScreenSession is the GNU screen session name (screen -S).
	ScreenSession string
	// RCommand is the console started by the process transport.
	RCommand []string
	// HookScript is an optional Lua script defining before_send.
	HookScript string
	// LogLevel is debug, info, warn or error.
	LogLevel string
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		ScopePattern:  scope.DefaultPattern,
		App:           "R",
		Transport:     TransportAuto,
		TmuxTarget:    "R",
		ScreenSession: "R",
		RCommand:      []string{"R", "--no-save", "--quiet"},
		LogLevel:      "info",
	}
}

// Matcher compiles ScopePattern.
func (s Settings) Matcher() (*scope.RegexpMatcher, error) {
	return scope.NewMatcher(s.ScopePattern)
}

// Validate checks every field that can be wrong on its own.
func (s Settings) Validate() error {
	if _, err := s.Matcher(); err != nil {
		return err
	}
	if !slices.Contains(Transports, s.Transport) {
		return fmt.Errorf("%w: transport %q (want one of %s)", ErrInvalidValue, s.Transport, strings.Join(Transports, ", "))
	}
	if s.Transport == TransportProcess && len(s.RCommand) == 0 {
		return fmt.Errorf("%w: r_command is empty", ErrInvalidValue)
	}
	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "warning", "error", "":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalidValue, s.LogLevel)
	}
	return nil
}

// Setting keys as they appear in files, env vars and flag overrides.
const (
	KeyScopePattern  = "scope_pattern"
	KeyApp           = "app"
	KeyTransport     = "transport"
	KeyTmuxTarget    = "tmux_target"
	KeyScreenSession = "screen_session"
	KeyRCommand      = "r_command"
	KeyHookScript    = "hook_script"
	KeyLogLevel      = "log_level"
)

// legacyKeys maps Sublime Text plugin keys to their current names.
var legacyKeys = map[string]string{
	"r_scope_regex": KeyScopePattern,
	"Rapp":          KeyApp,
}

// Map returns s as a settings map, the inverse of FromMap.
func (s Settings) Map() map[string]any {
	cmd := make([]any, len(s.RCommand))
	for i, arg := range s.RCommand {
		cmd[i] = arg
	}
	return map[string]any{
		KeyScopePattern:  s.ScopePattern,
		KeyApp:           s.App,
		KeyTransport:     s.Transport,
		KeyTmuxTarget:    s.TmuxTarget,
		KeyScreenSession: s.ScreenSession,
		KeyRCommand:      cmd,
		KeyHookScript:    s.HookScript,
		KeyLogLevel:      s.LogLevel,
	}
}

// FromMap decodes a merged settings map on top of base. Legacy keys are
// honored unless the current key is also present. Unknown keys are
// ignored.
func FromMap(base Settings, m map[string]any) (Settings, error) {
	s := base
	s.RCommand = slices.Clone(base.RCommand)

	m = withLegacyKeys(m)

	strFields := []struct {
		key string
		dst *string
	}{
		{KeyScopePattern, &s.ScopePattern},
		{KeyApp, &s.App},
		{KeyTransport, &s.Transport},
		{KeyTmuxTarget, &s.TmuxTarget},
		{KeyScreenSession, &s.ScreenSession},
		{KeyHookScript, &s.HookScript},
		{KeyLogLevel, &s.LogLevel},
	}
	for _, f := range strFields {
		v, ok := m[f.key]
		if !ok {
			continue
		}
		str, ok := v.(string)
		if !ok {
			return base, fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidValue, f.key, v)
		}
		*f.dst = str
	}

	if v, ok := m[KeyRCommand]; ok {
		cmd, err := toArgs(v)
		if err != nil {
			return base, err
		}
		s.RCommand = cmd
	}

	s.Transport = strings.ToLower(s.Transport)
	return s, nil
}

func withLegacyKeys(m map[string]any) map[string]any {
	var out map[string]any
	for legacy, key := range legacyKeys {
		v, ok := m[legacy]
		if !ok {
			continue
		}
		if _, set := m[key]; set {
			continue
		}
		if out == nil {
			out = maps.Clone(m)
		}
		out[key] = v
	}
	if out == nil {
		return m
	}
	return out
}

// toArgs accepts a list of strings or a single space separated string.
func toArgs(v any) ([]string, error) {
	switch v := v.(type) {
	case string:
		return strings.Fields(v), nil
	case []string:
		return slices.Clone(v), nil
	case []any:
		args := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s entries must be strings, got %T", ErrInvalidValue, KeyRCommand, item)
			}
			args = append(args, s)
		}
		return args, nil
	default:
		return nil, fmt.Errorf("%w: %s must be a list, got %T", ErrInvalidValue, KeyRCommand, v)
	}
}
