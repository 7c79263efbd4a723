package session

import (
	"context"
	"fmt"
	"strings"
)

// Tmux types lines into a tmux pane.
type Tmux struct {
	target string
	runner Runner
}

// NewTmux returns a transport for the tmux target pane, in any form
// send-keys -t accepts ("R", "work:2.1", "%3").
func NewTmux(target string, runner Runner) *Tmux {
	return &Tmux{target: target, runner: runner}
}

// Name implements Transport.
func (t *Tmux) Name() string { return "tmux" }

// Send types every line literally followed by Enter, in one tmux
// invocation.
func (t *Tmux) Send(ctx context.Context, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	var args []string
	for i, line := range lines {
		if i > 0 {
			args = append(args, ";")
		}
		if line != "" {
			args = append(args, "send-keys", "-t", t.target, "-l", "--", tmuxLiteral(line), ";")
		}
		args = append(args, "send-keys", "-t", t.target, "Enter")
	}
	if err := t.runner.Run(ctx, "tmux", args...); err != nil {
		return fmt.Errorf("send to tmux pane %s: %w", t.target, err)
	}
	return nil
}

// tmuxLiteral protects a trailing semicolon, which tmux would otherwise
// take as a command separator and drop. tmux turns "\;" back into ";".
func tmuxLiteral(line string) string {
	if strings.HasSuffix(line, ";") {
		return line[:len(line)-1] + `\;`
	}
	return line
}

// Activate selects the target window and pane.
func (t *Tmux) Activate(ctx context.Context) error {
	err := t.runner.Run(ctx, "tmux",
		"select-window", "-t", t.target, ";",
		"select-pane", "-t", t.target)
	if err != nil {
		return fmt.Errorf("select tmux pane %s: %w", t.target, err)
	}
	return nil
}

// Close implements Transport.
func (t *Tmux) Close() error { return nil }
