package process

import "errors"

// Sentinel errors.
var (
	// ErrProcessNotStarted is returned when an operation needs a running
	// process.
	ErrProcessNotStarted = errors.New("process not started")

	// ErrProcessAlreadyStarted is returned when starting a process twice.
	ErrProcessAlreadyStarted = errors.New("process already started")

	// ErrSupervisorShutdown is returned once the supervisor is shutting
	// down.
	ErrSupervisorShutdown = errors.New("supervisor is shutting down")
)
