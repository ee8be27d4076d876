package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Input errors: malformed symbol or period. Fatal before any stage runs.
	ErrInvalidInput = &Error{Code: "INVALID_INPUT", Message: "invalid symbol or period"}

	// Market data errors. A provider with no coverage for a symbol returns
	// a nil/no-data value, never this error; this is for transport failures.
	ErrDataUnavailable = &Error{Code: "DATA_UNAVAILABLE", Message: "market data unavailable"}

	// Memory store errors. Never fatal to a pipeline run.
	ErrStoreUnavailable   = &Error{Code: "STORE_UNAVAILABLE", Message: "memory store unreachable"}
	ErrCollectionMismatch = &Error{Code: "COLLECTION_MISMATCH", Message: "collection exists with different dimension or distance"}

	// Insight generator errors. Fatal to the stage and the run.
	ErrGeneratorFailed = &Error{Code: "GENERATOR_FAILED", Message: "insight generation failed"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}
)
