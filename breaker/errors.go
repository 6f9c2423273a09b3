package breaker

import "errors"

// Sentinel errors for breaker operations.
var (
	// ErrOpen is returned when a call is rejected because the circuit is open.
	ErrOpen = errors.New("breaker: circuit is open")

	// ErrHalfOpenLimitReached is returned when the half-open probe budget is exhausted.
	ErrHalfOpenLimitReached = errors.New("breaker: half-open probe limit reached")

	// ErrUnknownClass is returned by the registry's class factories for an
	// unrecognized class name.
	ErrUnknownClass = errors.New("breaker: unknown class")

	// ErrNotFound is returned when a named breaker does not exist in the registry.
	ErrNotFound = errors.New("breaker: not found")

	// ErrTimeoutExceeded is returned when the breaker's own enforced
	// timeout elapses before the wrapped operation returns.
	ErrTimeoutExceeded = errors.New("breaker: operation timed out")
)
