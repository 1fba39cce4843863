// Package errors provides the structured error type used across iocapture.
//
// Every fatal condition raised while capturing tuples is an *AppError with a
// machine-readable ErrorCode, a human-readable message naming the operation,
// value or resource involved, and optional details:
//
//   - SCHEMA_VIOLATION: a matching step disagrees with the locked run schema
//   - WIDENING_FAILED: no numeric widening exists for a captured value
//   - CHANNEL_IO: a channel could not be created, appended to or closed
//
// Use Is to test the code of an error anywhere in a wrapped chain.
package errors
