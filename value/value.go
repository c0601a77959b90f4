package value

import (
	"unicode/utf8"

	bridge "github.com/wippyai/sqlite-bridge"
	"github.com/wippyai/sqlite-bridge/errors"
)

// Value is a typed view over one borrowed sqlite3_value handle. The
// fundamental type is resolved at construction and cached; the handle itself
// remains engine-owned and call-scoped.
type Value struct {
	api bridge.API
	raw bridge.ValueHandle
	typ Type
}

// New wraps a borrowed value handle, resolving its type once.
func New(api bridge.API, h bridge.ValueHandle) *Value {
	return &Value{api: api, raw: h, typ: TypeFromCode(api.ValueType(h))}
}

// At wraps the handle at index i of an argument array. Returns false when i
// is out of range; it never panics.
func At(api bridge.API, handles []bridge.ValueHandle, i int) (*Value, bool) {
	if i < 0 || i >= len(handles) {
		return nil, false
	}
	return New(api, handles[i]), true
}

// Type returns the fundamental type cached at construction.
func (v *Value) Type() Type { return v.typ }

// Handle returns the underlying borrowed handle.
func (v *Value) Handle() bridge.ValueHandle { return v.raw }

// IsNull reports whether the value has the NULL storage class.
func (v *Value) IsNull() bool { return v.typ == TypeNull }

// NotNullOr returns v when the value is not null, or err when it is.
func (v *Value) NotNullOr(err error) (*Value, error) {
	if v.typ == TypeNull {
		return nil, err
	}
	return v, nil
}

// NotNullOrElse returns v when the value is not null, or the error produced
// by fn when it is.
func (v *Value) NotNullOrElse(fn func() error) (*Value, error) {
	if v.typ == TypeNull {
		return nil, fn()
	}
	return v, nil
}

// Text returns the value's text representation decoded as UTF-8. The result
// for a null-typed value is undefined; check with NotNullOr first or use
// TextNotNull.
func (v *Value) Text() (string, error) {
	b := v.api.ValueText(v.raw)
	if !utf8.Valid(b) {
		return "", errors.InvalidUTF8(errors.PhaseRead, b)
	}
	return string(b), nil
}

// TextNotNull is Text with an internal null check: a null-typed value fails
// with an unexpected-null error instead of reading.
func (v *Value) TextNotNull() (string, error) {
	if v.typ == TypeNull {
		return "", errors.UnexpectedNull("text read")
	}
	return v.Text()
}

// Blob returns the value's byte representation, sized by the engine-reported
// byte length. The slice is call-scoped and must not outlive the invocation.
// The result for a null-typed value is undefined; use BlobNotNull when null
// is possible.
func (v *Value) Blob() []byte {
	return v.api.ValueBlob(v.raw)
}

// BlobNotNull is Blob with an internal null check.
func (v *Value) BlobNotNull() ([]byte, error) {
	if v.typ == TypeNull {
		return nil, errors.UnexpectedNull("blob read")
	}
	return v.Blob(), nil
}

// Bytes returns the engine-reported byte length of the value.
func (v *Value) Bytes() int32 { return v.api.ValueBytes(v.raw) }

// Int returns the value as int32 through the engine's own coercion rules.
func (v *Value) Int() int32 { return v.api.ValueInt(v.raw) }

// Int64 returns the value as int64 through the engine's own coercion rules.
func (v *Value) Int64() int64 { return v.api.ValueInt64(v.raw) }

// Double returns the value as float64 through the engine's own coercion rules.
func (v *Value) Double() float64 { return v.api.ValueDouble(v.raw) }

// PointerAs reclaims the opaque pointer carried by v under name, if any.
// Reclaiming consumes: the engine-side destructor becomes a no-op and a
// second reclaim reports not present. A value bound under a different name,
// or holding a payload of a different type, also reports not present - never
// a type-confused result.
func PointerAs[T any](v *Value, name string) (T, bool) {
	var zero T
	p := v.api.ValuePointer(v.raw, name)
	if p == nil {
		return zero, false
	}
	payload, ok := p.Take(name)
	if !ok {
		return zero, false
	}
	t, ok := payload.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
