package app

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrClosed is returned by an Application after Close.
	ErrClosed = errors.New("application closed")

	// ErrUnknownCommand answers a serve request naming no known command.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrBadRequest answers a serve request that is not a JSON object or
	// has a malformed field.
	ErrBadRequest = errors.New("bad request")
)

// OperationError tags a failure with the step that failed and what it
// was acting on, e.g. "send tmux: exit status 1".
type OperationError struct {
	Op     string
	Target string
	Err    error
}

// NewOperationError wraps err.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Target != "" {
		b.WriteByte(' ')
		b.WriteString(e.Target)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ErrorList gathers the errors of a multi-step teardown. The zero value
// is ready to use; it is not safe for concurrent use.
type ErrorList struct {
	errs []error
}

// Add records err unless it is nil.
func (l *ErrorList) Add(err error) {
	if err != nil {
		l.errs = append(l.errs, err)
	}
}

// Len reports how many errors were recorded.
func (l *ErrorList) Len() int { return len(l.errs) }

// Error names the first error and how many there were.
func (l *ErrorList) Error() string {
	switch {
	case l == nil || len(l.errs) == 0:
		return ""
	case len(l.errs) == 1:
		return l.errs[0].Error()
	}
	return strconv.Itoa(len(l.errs)) + " errors: first: " + l.errs[0].Error()
}

// Unwrap lets errors.Is and errors.As see every recorded error.
func (l *ErrorList) Unwrap() []error {
	if l == nil {
		return nil
	}
	return l.errs
}

// AsError is nil when nothing was recorded.
func (l *ErrorList) AsError() error {
	if l == nil || len(l.errs) == 0 {
		return nil
	}
	return l
}
