package scope

import "errors"

// ErrInvalidPattern is returned when a scope pattern does not compile.
var ErrInvalidPattern = errors.New("invalid scope pattern")
