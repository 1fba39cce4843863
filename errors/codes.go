package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Capture errors. All of them abort the run.
const (
	// ErrCodeSchemaViolation indicates a matching step disagrees with the locked run schema.
	ErrCodeSchemaViolation ErrorCode = "SCHEMA_VIOLATION"
	// ErrCodeWideningFailed indicates a value cannot be widened to its declared type.
	ErrCodeWideningFailed ErrorCode = "WIDENING_FAILED"
	// ErrCodeChannelIO indicates a channel could not be created, written or closed.
	ErrCodeChannelIO ErrorCode = "CHANNEL_IO"
)

// Setup and input errors
const (
	// ErrCodeInvalidConfig indicates invalid configuration or match pattern.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeDecodeFailed indicates a step log or channel stream could not be decoded.
	ErrCodeDecodeFailed ErrorCode = "DECODE_FAILED"
	// ErrCodeInternal indicates misuse of the engine callback contract.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var fatalCodes = map[ErrorCode]bool{
	ErrCodeSchemaViolation: true,
	ErrCodeWideningFailed:  true,
	ErrCodeChannelIO:       true,
	ErrCodeInternal:        true,
}

// IsFatalCode reports whether errors with this code must abort the run.
func IsFatalCode(code ErrorCode) bool {
	return fatalCodes[code]
}
