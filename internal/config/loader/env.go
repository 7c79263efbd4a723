package loader

import (
	"os"
	"strings"
)

// EnvLoader loads settings from prefixed environment variables.
// RX_TMUX_TARGET=R:1 becomes {"tmux_target": "R:1"}.
type EnvLoader struct {
	prefix  string
	environ func() []string
}

// NewEnvLoader creates an environment loader. The prefix includes the
// trailing underscore, e.g. "RX_".
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{prefix: prefix, environ: os.Environ}
}

// NewEnvLoaderFrom creates a loader reading the given KEY=VALUE list
// instead of the process environment.
func NewEnvLoaderFrom(prefix string, env []string) *EnvLoader {
	return &EnvLoader{prefix: prefix, environ: func() []string { return env }}
}

// Load returns one key per prefixed variable. Empty values are kept.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)
	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		key := l.envToKey(name)
		if key == "" {
			continue
		}
		config[key] = value
	}
	return config, nil
}

// envToKey converts RX_SCOPE_PATTERN to scope_pattern.
func (l *EnvLoader) envToKey(env string) string {
	return strings.ToLower(strings.TrimPrefix(env, l.prefix))
}
