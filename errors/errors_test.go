package errors

import (
	"errors"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseWrite,
				Kind:   KindNulByte,
				Detail: "string of 7 bytes contains an embedded nul",
			},
			contains: []string{"[write]", "nul_byte", "7 bytes"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseRead,
				Kind:  KindUnexpectedNull,
			},
			contains: []string{"[read]", "unexpected_null"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseAlloc,
				Kind:   KindAllocation,
				Detail: "out of memory",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[alloc]", "allocation", "out of memory", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !containsSubstring(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(PhaseRead, KindInvalidUTF8, cause, "decode argument")

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not match cause through the chain")
	}
}

func TestError_Is(t *testing.T) {
	err := NulByte(PhaseWrite, 3)

	if !errors.Is(err, &Error{Phase: PhaseWrite, Kind: KindNulByte}) {
		t.Error("expected match on same phase and kind")
	}
	if errors.Is(err, &Error{Phase: PhaseRead, Kind: KindNulByte}) {
		t.Error("unexpected match across phases")
	}
	if errors.Is(err, &Error{Phase: PhaseWrite, Kind: KindOverflow}) {
		t.Error("unexpected match across kinds")
	}
}

func TestInvalidUTF8_TruncatesPreview(t *testing.T) {
	data := make([]byte, 100)
	for i := range data {
		data[i] = 0xff
	}
	err := InvalidUTF8(PhaseRead, data)
	if len(err.Detail) > 120 {
		t.Errorf("preview not truncated: %d chars", len(err.Detail))
	}
}

func containsSubstring(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
