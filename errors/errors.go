package errors

import (
	stderrors "errors"
	"fmt"
)

// WebAppError is the structured error type for bootstrap failures.
type WebAppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Fatal indicates the startup attempt cannot continue.
	Fatal bool `json:"fatal"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error, if any.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *WebAppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *WebAppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause and returns the receiver.
func (e *WebAppError) WithCause(cause error) *WebAppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *WebAppError) WithDetail(key string, value any) *WebAppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a WebAppError with automatic fatal detection.
func New(code ErrorCode, message string) *WebAppError {
	return &WebAppError{
		Code:    code,
		Message: message,
		Fatal:   IsFatalCode(code),
	}
}

// --- Constructors per error code ---

// InvalidAddress creates an error for a malformed or empty bind address.
func InvalidAddress(address, reason string) *WebAppError {
	return &WebAppError{
		Code: ErrCodeInvalidAddress, Message: fmt.Sprintf("invalid bind address %q: %s", address, reason),
		Details: map[string]any{"address": address},
	}
}

// AlreadyStarted creates an error for a second Start on the same builder.
func AlreadyStarted(name string) *WebAppError {
	return &WebAppError{
		Code: ErrCodeAlreadyStarted, Message: fmt.Sprintf("webapp %q already started from this builder", name),
		Details: map[string]any{"webapp": name},
	}
}

// DevModeRequiresFixedPort creates the fatal misconfiguration error for
// dev mode combined with an ephemeral port.
func DevModeRequiresFixedPort() *WebAppError {
	return &WebAppError{
		Code: ErrCodeDevModeFixedPort, Fatal: true,
		Message: "dev mode does not work with an ephemeral port; configure a fixed port",
	}
}

// ServerStartFailure wraps an underlying bind/listen error.
func ServerStartFailure(cause error) *WebAppError {
	return &WebAppError{
		Code: ErrCodeServerStart, Fatal: true,
		Message: "error starting http server", Cause: cause,
	}
}

// NotBound creates an error for a missing injection scope binding.
func NotBound(key string) *WebAppError {
	return &WebAppError{
		Code: ErrCodeNotBound, Message: fmt.Sprintf("no binding for key %q", key),
		Details: map[string]any{"key": key},
	}
}

// Internal creates an error for an unexpected internal failure.
func Internal(cause error) *WebAppError {
	return &WebAppError{
		Code: ErrCodeInternal, Message: "unexpected internal error", Cause: cause,
	}
}

// --- Inspection helpers ---

// IsCode reports whether err (or anything it wraps) carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var we *WebAppError
	if stderrors.As(err, &we) {
		return we.Code == code
	}
	return false
}

// IsFatal reports whether err is a fatal bootstrap error.
func IsFatal(err error) bool {
	var we *WebAppError
	if stderrors.As(err, &we) {
		return we.Fatal
	}
	return false
}

// As is a convenience wrapper around the standard errors.As for WebAppError.
func As(err error) (*WebAppError, bool) {
	var we *WebAppError
	ok := stderrors.As(err, &we)
	return we, ok
}
