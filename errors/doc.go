// Package errors provides structured error types for the sqlite-bridge library.
//
// Errors are categorized by Phase (which direction the failing conversion was
// heading) and Kind (error category). All boundary failures are detected
// locally at the point of conversion and returned to the immediate caller;
// conversions are pure and deterministic, so no error in this package is
// retryable.
//
// Use the convenience constructors for common patterns:
//
//	err := errors.InvalidUTF8(errors.PhaseRead, data)
//	err := errors.UnexpectedNull("argument 0")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
