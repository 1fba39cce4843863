package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Fatal indicates the run cannot continue.
	Fatal bool `json:"fatal"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError; fatality follows the code.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Fatal:   IsFatalCode(code),
	}
}

// --- Capture error constructors ---

// OperationMismatch reports a matching step whose operation differs from the locked one.
func OperationMismatch(locked, got string) *AppError {
	return &AppError{
		Code: ErrCodeSchemaViolation, Fatal: true,
		Message: fmt.Sprintf("capturing tuples for two different operations is not allowed: locked %s, matched %s", locked, got),
		Details: map[string]any{"locked": locked, "matched": got},
	}
}

// ArityMismatch reports a matching step whose input or output arity differs from the locked one.
func ArityMismatch(operation, direction string, locked, got int) *AppError {
	return &AppError{
		Code: ErrCodeSchemaViolation, Fatal: true,
		Message: fmt.Sprintf("capturing %d %ss for %s but the step produced %d", locked, direction, operation, got),
		Details: map[string]any{"operation": operation, "direction": direction, "locked": locked, "observed": got},
	}
}

// WideningFailed reports a value that cannot be converted to its declared kind.
func WideningFailed(value any, from, to string) *AppError {
	return &AppError{
		Code: ErrCodeWideningFailed, Fatal: true,
		Message: fmt.Sprintf("could not convert value %v of kind %s to kind %s", value, from, to),
		Details: map[string]any{"value": value, "from": from, "to": to},
	}
}

// ChannelCreate reports a channel resource that could not be created.
func ChannelCreate(resource string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeChannelIO, Fatal: true,
		Message: fmt.Sprintf("cannot create channel file: %s", resource),
		Details: map[string]any{"resource": resource}, Cause: cause,
	}
}

// ChannelWrite reports a value that could not be serialized or appended.
func ChannelWrite(resource string, value any, cause error) *AppError {
	return &AppError{
		Code: ErrCodeChannelIO, Fatal: true,
		Message: fmt.Sprintf("cannot serialize value: %v", value),
		Details: map[string]any{"resource": resource, "value": fmt.Sprintf("%v", value)}, Cause: cause,
	}
}

// ChannelClose reports channels that could not be closed.
func ChannelClose(location string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeChannelIO, Fatal: true,
		Message: fmt.Sprintf("cannot close channels in: %s", location),
		Details: map[string]any{"location": location}, Cause: cause,
	}
}

// InvalidConfig creates an error for an invalid configuration field.
func InvalidConfig(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidConfig, Message: fmt.Sprintf("invalid configuration: %s", reason),
		Details: details,
	}
}

// DecodeFailed creates an error for an unreadable step log or channel stream.
func DecodeFailed(resource string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeDecodeFailed, Message: fmt.Sprintf("cannot decode %s", resource),
		Details: map[string]any{"resource": resource}, Cause: cause,
	}
}

// Internal creates an error for a broken callback contract.
func Internal(message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message, Fatal: true}
}

// --- Inspection helpers ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether any AppError in err's tree carries code. Joined errors
// are searched member by member.
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	if appErr, ok := err.(*AppError); ok && appErr.Code == code {
		return true
	}
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			if Is(e, code) {
				return true
			}
		}
	case interface{ Unwrap() error }:
		return Is(u.Unwrap(), code)
	}
	return false
}
