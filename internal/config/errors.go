package config

import (
	"errors"

	"github.com/dshills/rx/internal/config/loader"
	"github.com/dshills/rx/internal/scope"
)

// Errors returned by configuration operations.
var (
	// ErrInvalidPattern indicates the scope pattern does not compile.
	ErrInvalidPattern = scope.ErrInvalidPattern

	// ErrInvalidValue indicates a setting has the wrong type or an
	// unknown value.
	ErrInvalidValue = errors.New("invalid setting value")

	// ErrFileNotFound indicates an explicitly named settings file does
	// not exist.
	ErrFileNotFound = errors.New("config file not found")
)

// ParseError is returned when a settings file cannot be parsed.
type ParseError = loader.ParseError
