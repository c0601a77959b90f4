package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which direction across the boundary the error occurred
type Phase string

const (
	PhaseRead  Phase = "read"  // host value to Go
	PhaseWrite Phase = "write" // Go value to host
	PhaseAlloc Phase = "alloc" // host-owned allocation
)

// Kind categorizes the error
type Kind string

const (
	// KindNulByte reports a string with an embedded nul byte, which cannot
	// cross a nul-terminated interface.
	KindNulByte Kind = "nul_byte"

	// KindInvalidUTF8 reports host text that is not valid UTF-8.
	KindInvalidUTF8 Kind = "invalid_utf8"

	// KindUnexpectedNull reports a null-typed value used where a non-null
	// value was required.
	KindUnexpectedNull Kind = "unexpected_null"

	// KindOverflow reports a length that cannot be represented in the
	// engine's 32-bit length type.
	KindOverflow Kind = "overflow"

	// KindAllocation reports that the engine's allocator returned no memory.
	// Unrecoverable at this layer; propagate without suppression.
	KindAllocation Kind = "allocation"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Convenience constructors for common error patterns

// NulByte creates an embedded-nul error for a string of the given length
func NulByte(phase Phase, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNulByte,
		Detail: fmt.Sprintf("string of %d bytes contains an embedded nul", length),
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// UnexpectedNull creates an unexpected-null error
func UnexpectedNull(what string) *Error {
	return &Error{
		Phase:  PhaseRead,
		Kind:   KindUnexpectedNull,
		Detail: fmt.Sprintf("unexpected null value: %s", what),
	}
}

// Overflow creates a length overflow error
func Overflow(phase Phase, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Detail: fmt.Sprintf("length %d does not fit the engine's 32-bit size type", length),
		Value:  length,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(size int) *Error {
	return &Error{
		Phase:  PhaseAlloc,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("engine allocator returned no memory for %d bytes", size),
	}
}

// Wrap wraps an existing error with boundary context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
