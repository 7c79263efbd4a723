package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/dshills/rx/internal/collate"
)

// Screen stuffs lines into a GNU screen session.
type Screen struct {
	session string
	runner  Runner
}

// NewScreen returns a transport for the named screen session.
func NewScreen(session string, runner Runner) *Screen {
	return &Screen{session: session, runner: runner}
}

// Name implements Transport.
func (s *Screen) Name() string { return "screen" }

// screenEscaper runs after backslashes are doubled. screen reads ^X as a
// control character and expands $VAR in a stuff argument.
var screenEscaper = strings.NewReplacer(`^`, `\^`, `$`, `\$`)

// Send stuffs each line followed by a newline. screen interprets
// backslash escapes in the stuff argument, so lines are escaped once and
// the newline is written as \n.
func (s *Screen) Send(ctx context.Context, lines []string) error {
	for _, line := range lines {
		arg := screenEscaper.Replace(collate.EscapeForShellQuoting(line)) + `\n`
		if err := s.runner.Run(ctx, "screen", "-S", s.session, "-X", "stuff", arg); err != nil {
			return fmt.Errorf("send to screen session %s: %w", s.session, err)
		}
	}
	return nil
}

// Activate has nothing to raise; it checks the session exists.
func (s *Screen) Activate(ctx context.Context) error {
	if err := s.runner.Run(ctx, "screen", "-S", s.session, "-X", "select", "."); err != nil {
		return fmt.Errorf("screen session %s: %w", s.session, err)
	}
	return nil
}

// Close implements Transport.
func (s *Screen) Close() error { return nil }
