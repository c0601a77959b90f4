package result

import (
	"encoding/json"
	"math"
	"strings"

	bridge "github.com/wippyai/sqlite-bridge"
	"github.com/wippyai/sqlite-bridge/errors"
	"github.com/wippyai/sqlite-bridge/pointer"
)

// SubtypeJSON marks a text result as canonically-encoded JSON, the subtype
// convention the engine's own JSON functions recognize.
const SubtypeJSON uint8 = 'J'

// Sink writes one invocation's outcome through a borrowed sqlite3_context
// handle. Like the handle it wraps, a Sink is call-scoped.
type Sink struct {
	api bridge.API
	ctx bridge.ContextHandle
}

// NewSink wraps a borrowed context handle.
func NewSink(api bridge.API, ctx bridge.ContextHandle) *Sink {
	return &Sink{api: api, ctx: ctx}
}

// Context returns the underlying borrowed handle.
func (s *Sink) Context() bridge.ContextHandle { return s.ctx }

// Text sets the result to text, transferring ownership of the encoded buffer
// to the engine along with the destructor that reclaims it. Fails if text
// embeds a nul byte or its length does not fit the engine's 32-bit size type.
func (s *Sink) Text(text string) error {
	buf, err := encodeText(text)
	if err != nil {
		return err
	}
	s.api.ResultText(s.ctx, buf, func() { putBuf(buf) })
	return nil
}

// Int sets the result to a 32-bit integer.
func (s *Sink) Int(n int32) { s.api.ResultInt(s.ctx, n) }

// Int64 sets the result to a 64-bit integer.
func (s *Sink) Int64(n int64) { s.api.ResultInt64(s.ctx, n) }

// Double sets the result to a double.
func (s *Sink) Double(f float64) { s.api.ResultDouble(s.ctx, f) }

// Blob sets the result to a copy of blob made by the engine; the caller keeps
// ownership of the slice.
func (s *Sink) Blob(blob []byte) { s.api.ResultBlob(s.ctx, blob) }

// Null sets the result to null.
func (s *Sink) Null() { s.api.ResultNull(s.ctx) }

// Bool sets the result to integer 1 for true or 0 for false.
func (s *Sink) Bool(v bool) {
	if v {
		s.Int(1)
	} else {
		s.Int(0)
	}
}

// Error sets the invocation's error message. The same encoding rules as Text
// apply.
func (s *Sink) Error(msg string) error {
	buf, err := encodeText(msg)
	if err != nil {
		return err
	}
	s.api.ResultError(s.ctx, buf)
	putBuf(buf)
	return nil
}

// ErrorCode sets only an engine-native error code, with no message.
func (s *Sink) ErrorCode(code int32) { s.api.ResultErrorCode(s.ctx, code) }

// Subtype attaches a single-byte subtype marker to the current result. The
// engine preserves only the low 8 bits of a subtype.
func (s *Sink) Subtype(subtype uint8) { s.api.ResultSubtype(s.ctx, subtype) }

// JSON serializes v to its canonical text form and sets it as text with the
// JSON subtype, so downstream JSON functions treat the result as
// self-describing structured data.
func (s *Sink) JSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(errors.PhaseWrite, errors.KindInvalidUTF8, err, "encode JSON result")
	}
	if err := s.Text(string(data)); err != nil {
		return err
	}
	s.Subtype(SubtypeJSON)
	return nil
}

// Pointer boxes payload under name and transfers ownership to the engine,
// registering a destructor that drops the box when the engine later discards
// the value.
func Pointer[T any](s *Sink, name string, payload T) {
	s.api.ResultPointer(s.ctx, pointer.Bind(name, payload, nil))
}

// PointerFunc is Pointer with an explicit destructor for payloads that need
// cleanup beyond being dropped.
func PointerFunc[T any](s *Sink, name string, payload T, free func(T)) {
	s.api.ResultPointer(s.ctx, pointer.Bind(name, payload, free))
}

// encodeText validates text for the nul-terminated boundary and copies it
// into a pooled buffer.
func encodeText(text string) ([]byte, error) {
	if strings.IndexByte(text, 0) >= 0 {
		return nil, errors.NulByte(errors.PhaseWrite, len(text))
	}
	if len(text) > math.MaxInt32 {
		return nil, errors.Overflow(errors.PhaseWrite, len(text))
	}
	buf := getBuf(len(text))
	copy(buf, text)
	return buf, nil
}
