package session

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors.
var (
	// ErrUnsupportedPlatform is returned when transport "auto" finds no
	// way to reach a session on this system.
	ErrUnsupportedPlatform = errors.New("no R session transport available on this platform")

	// ErrUnknownTransport is returned for an unrecognized transport name.
	ErrUnknownTransport = errors.New("unknown transport")

	// ErrClosed is returned when using a closed transport.
	ErrClosed = errors.New("transport closed")
)

// CommandError reports a failed external command together with what it
// printed.
type CommandError struct {
	Name   string
	Args   []string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Name, strings.Join(e.Args, " "), e.Err)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
