package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Configuration errors, reported at builder configuration time.
const (
	// ErrCodeInvalidAddress indicates a malformed or empty bind address.
	ErrCodeInvalidAddress ErrorCode = "INVALID_ADDRESS"
	// ErrCodeAlreadyStarted indicates Start was called twice on one builder.
	ErrCodeAlreadyStarted ErrorCode = "ALREADY_STARTED"
	// ErrCodeInvalidConfig indicates a configuration object failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// Startup errors, reported from Start.
const (
	// ErrCodeDevModeFixedPort indicates dev mode combined with an ephemeral
	// port; the stop handshake has no port to target.
	ErrCodeDevModeFixedPort ErrorCode = "DEV_MODE_REQUIRES_FIXED_PORT"
	// ErrCodeServerStart wraps any underlying bind or listen failure.
	ErrCodeServerStart ErrorCode = "SERVER_START_FAILURE"
)

// General errors.
const (
	// ErrCodeNotBound indicates a missing injection scope binding.
	ErrCodeNotBound ErrorCode = "NOT_BOUND"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var fatalCodes = map[ErrorCode]bool{
	ErrCodeDevModeFixedPort: true,
	ErrCodeServerStart:      true,
}

// IsFatalCode returns true if the code terminates the startup attempt.
func IsFatalCode(code ErrorCode) bool {
	return fatalCodes[code]
}
