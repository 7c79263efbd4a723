package session

import (
	"context"
	"fmt"

	"github.com/dshills/rx/internal/collate"
)

// AppleScript drives the macOS R GUI through osascript.
type AppleScript struct {
	app    string
	runner Runner
}

// NewAppleScript returns a transport that talks to the application app,
// e.g. "R" or "R64".
func NewAppleScript(app string, runner Runner) *AppleScript {
	return &AppleScript{app: app, runner: runner}
}

// Name implements Transport.
func (a *AppleScript) Name() string { return "applescript" }

// Send runs one osascript with a "cmd" statement per line.
func (a *AppleScript) Send(ctx context.Context, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	args := make([]string, 0, 2*len(lines))
	for _, line := range lines {
		args = append(args, "-e", fmt.Sprintf(`tell app "%s" to cmd "%s"`, a.app, collate.EscapeForShellQuoting(line)))
	}
	if err := a.runner.Run(ctx, "osascript", args...); err != nil {
		return fmt.Errorf("send to %s: %w", a.app, err)
	}
	return nil
}

// Activate brings the R application to the front.
func (a *AppleScript) Activate(ctx context.Context) error {
	if err := a.runner.Run(ctx, "osascript", "-e", fmt.Sprintf(`tell app "%s" to activate`, a.app)); err != nil {
		return fmt.Errorf("activate %s: %w", a.app, err)
	}
	return nil
}

// Close implements Transport.
func (a *AppleScript) Close() error { return nil }
