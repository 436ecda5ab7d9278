package core

import "errors"

// Error taxonomy for the scheduling engine. Callers match with errors.Is;
// every surfaced error wraps one of these sentinels together with the
// offending process id or decision time.
var (
	// ErrInvalidInput marks malformed process fields. Rejected at
	// registration, never enters a simulation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateID marks a registration whose id is already present.
	// The registry is left unchanged.
	ErrDuplicateID = errors.New("duplicate process id")

	// ErrConfiguration marks invalid policy parameters or a dependency
	// graph with unknown or cyclic ids. Detected before a run starts.
	ErrConfiguration = errors.New("configuration error")

	// ErrDeadlock marks unsatisfiable readiness during a run. Fatal to
	// that run; never retried by the engine.
	ErrDeadlock = errors.New("deadlock")

	// ErrEmptyInput marks a metrics computation over zero processes.
	ErrEmptyInput = errors.New("empty input")
)
