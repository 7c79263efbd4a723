package session

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/dshills/rx/internal/config"
)

// Transport sends code to an R session.
type Transport interface {
	// Name identifies the transport, e.g. "tmux".
	Name() string
	// Send delivers lines in order. Each line is submitted as if typed
	// followed by Enter.
	Send(ctx context.Context, lines []string) error
	// Activate brings the session to the foreground.
	Activate(ctx context.Context) error
	// Close releases resources held by the transport.
	Close() error
}

// Runner runs an external command to completion.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements Runner. A non-zero exit is returned as *CommandError.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return &CommandError{
			Name:   name,
			Args:   args,
			Output: strings.TrimSpace(string(out)),
			Err:    err,
		}
	}
	return nil
}

// Option configures New.
type Option func(*options)

type options struct {
	runner Runner
	output io.Writer
	goos   string
	getenv func(string) string

	console []ConsoleOption
}

// WithRunner sets the runner used by command based transports.
func WithRunner(r Runner) Option {
	return func(o *options) {
		o.runner = r
	}
}

// WithOutput sets where the process transport copies console output.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithConsoleOptions passes opts to the process transport.
func WithConsoleOptions(opts ...ConsoleOption) Option {
	return func(o *options) {
		o.console = append(o.console, opts...)
	}
}

// WithPlatform overrides the operating system and environment lookup
// used to resolve "auto".
func WithPlatform(goos string, getenv func(string) string) Option {
	return func(o *options) {
		o.goos = goos
		o.getenv = getenv
	}
}

// New returns the transport selected by s.Transport.
func New(s config.Settings, opts ...Option) (Transport, error) {
	o := options{
		runner: ExecRunner{},
		output: os.Stdout,
		goos:   runtime.GOOS,
		getenv: os.Getenv,
	}
	for _, opt := range opts {
		opt(&o)
	}

	name, err := Resolve(s.Transport, o.goos, o.getenv)
	if err != nil {
		return nil, err
	}

	switch name {
	case config.TransportAppleScript:
		return NewAppleScript(s.App, o.runner), nil
	case config.TransportTmux:
		return NewTmux(s.TmuxTarget, o.runner), nil
	case config.TransportScreen:
		return NewScreen(s.ScreenSession, o.runner), nil
	case config.TransportProcess:
		copts := append([]ConsoleOption{WithConsoleOutput(o.output)}, o.console...)
		return NewProcessSession(s.RCommand, copts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, name)
	}
}

// Resolve maps a transport name to a concrete one. "auto" (or "")
// becomes applescript on macOS, tmux inside a tmux client, and
// ErrUnsupportedPlatform otherwise.
func Resolve(name, goos string, getenv func(string) string) (string, error) {
	name = strings.ToLower(name)
	if name != "" && name != config.TransportAuto {
		return name, nil
	}
	switch {
	case goos == "darwin":
		return config.TransportAppleScript, nil
	case getenv("TMUX") != "":
		return config.TransportTmux, nil
	default:
		return "", fmt.Errorf("%w (%s); set transport to tmux, screen or process", ErrUnsupportedPlatform, goos)
	}
}
