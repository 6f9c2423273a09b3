// Package apperror implements the typed error hierarchy every request
// pipeline stage classifies its failures into: each carries an HTTP status,
// a machine-readable code, a severity, and optional structured context so
// the response-shaping stage can build §4.F's error envelope without
// re-deriving any of that from a bare error string.
package apperror

import (
	"errors"
	"fmt"
)

// Code is a stable machine-readable error code, emitted verbatim in
// response envelopes.
type Code string

const (
	CodeValidation             Code = "VALIDATION_ERROR"
	CodeBadRequest             Code = "BAD_REQUEST"
	CodeUnauthorized           Code = "UNAUTHORIZED"
	CodeNotFound               Code = "NOT_FOUND"
	CodeRequestTooLarge        Code = "REQUEST_TOO_LARGE"
	CodeServiceUnavailable     Code = "SERVICE_UNAVAILABLE"
	CodeInternalServerError    Code = "INTERNAL_SERVER_ERROR"
	CodeResponseTransformError Code = "RESPONSE_TRANSFORMATION_ERROR"
	CodeMCPToolError           Code = "MCP_TOOL_ERROR"
	CodeOperationFailed        Code = "OPERATION_FAILED"
)

// Severity mirrors the alerting package's severity scale for error context.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// AppError is the common shape every typed error below satisfies.
type AppError struct {
	Code         Code
	Status       int
	Severity     Severity
	Message      string
	Context      map[string]any
	RetryAfterMS int64
	cause        error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause, if any, for errors.Is/As.
func (e *AppError) Unwrap() error { return e.cause }

// ValidationError is raised by the pipeline's validation stage. Never
// cached, never retried.
type ValidationError struct {
	*AppError
	Violations []string
}

// NewValidationError builds a 400 ValidationError carrying the list of
// per-field violation messages.
func NewValidationError(violations []string) *ValidationError {
	return &ValidationError{
		AppError: &AppError{
			Code:     CodeValidation,
			Status:   400,
			Severity: SeverityLow,
			Message:  "request failed validation",
		},
		Violations: violations,
	}
}

// SourceError is raised by an adapter. Surfaced as 502 with a retry
// suggestion; counted toward the breaker governing that adapter.
type SourceError struct {
	*AppError
	Adapter string
}

// NewSourceError wraps an adapter-originated failure.
func NewSourceError(adapter string, cause error) *SourceError {
	return &SourceError{
		AppError: &AppError{
			Code:     CodeOperationFailed,
			Status:   502,
			Severity: SeverityHigh,
			Message:  fmt.Sprintf("adapter %q failed", adapter),
			cause:    cause,
		},
		Adapter: adapter,
	}
}

// TimeoutError is raised by a breaker's own timeout or the request-level
// deadline. Counted as a breaker failure.
type TimeoutError struct {
	*AppError
}

// NewTimeoutError builds a 503 TimeoutError with a suggested retry delay.
func NewTimeoutError(retryAfterMS int64, cause error) *TimeoutError {
	return &TimeoutError{
		AppError: &AppError{
			Code:         CodeServiceUnavailable,
			Status:       503,
			Severity:     SeverityHigh,
			Message:      "operation timed out",
			RetryAfterMS: retryAfterMS,
			cause:        cause,
		},
	}
}

// CircuitOpenError is a fast-fail from a breaker already in the OPEN state.
// Not itself recorded as a breaker failure.
type CircuitOpenError struct {
	*AppError
	Breaker     string
	NextRetryAt int64 // unix millis
}

// NewCircuitOpenError builds a 503 CircuitOpenError naming the open breaker.
func NewCircuitOpenError(breakerName string, nextRetryAt int64) *CircuitOpenError {
	return &CircuitOpenError{
		AppError: &AppError{
			Code:     CodeServiceUnavailable,
			Status:   503,
			Severity: SeverityMedium,
			Message:  fmt.Sprintf("circuit %q is open", breakerName),
		},
		Breaker:     breakerName,
		NextRetryAt: nextRetryAt,
	}
}

// CacheError is non-fatal: the request proceeds without cache, and the
// response carries X-Cache: ERROR.
type CacheError struct {
	*AppError
}

// NewCacheError wraps a cache-tier failure that should not fail the request.
func NewCacheError(cause error) *CacheError {
	return &CacheError{
		AppError: &AppError{
			Code:     CodeOperationFailed,
			Status:   200,
			Severity: SeverityLow,
			Message:  "cache operation failed",
			cause:    cause,
		},
	}
}

// SerializationError is fatal for the single request: the response could
// not be shaped into an envelope.
type SerializationError struct {
	*AppError
}

// NewSerializationError builds a 500 SerializationError.
func NewSerializationError(cause error) *SerializationError {
	return &SerializationError{
		AppError: &AppError{
			Code:     CodeResponseTransformError,
			Status:   500,
			Severity: SeverityHigh,
			Message:  "failed to shape response",
			cause:    cause,
		},
	}
}

// UnhandledError is caught only by the outermost handler boundary; it
// carries a correlation id so the generic message can still be traced.
type UnhandledError struct {
	*AppError
	CorrelationID string
}

// NewUnhandledError builds a 500 UnhandledError for an unclassified panic
// or error that reached the outermost boundary.
func NewUnhandledError(correlationID string, cause error) *UnhandledError {
	return &UnhandledError{
		AppError: &AppError{
			Code:     CodeInternalServerError,
			Status:   500,
			Severity: SeverityCritical,
			Message:  "an unexpected error occurred",
			cause:    cause,
		},
		CorrelationID: correlationID,
	}
}

type carriesAppError interface {
	appError() *AppError
}

func (e *ValidationError) appError() *AppError      { return e.AppError }
func (e *SourceError) appError() *AppError          { return e.AppError }
func (e *TimeoutError) appError() *AppError         { return e.AppError }
func (e *CircuitOpenError) appError() *AppError     { return e.AppError }
func (e *CacheError) appError() *AppError           { return e.AppError }
func (e *SerializationError) appError() *AppError   { return e.AppError }
func (e *UnhandledError) appError() *AppError       { return e.AppError }

// As reports whether err (or something it wraps) is one of the typed
// errors above, and if so returns its underlying *AppError. It is the
// standard way response-shaping stages read the status/code/severity
// fields regardless of the concrete typed error.
func As(err error) (*AppError, bool) {
	var withApp carriesAppError
	if errors.As(err, &withApp) {
		return withApp.appError(), true
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
