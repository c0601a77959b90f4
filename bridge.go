package sqlitebridge

import (
	"strings"

	"github.com/wippyai/sqlite-bridge/errors"
)

// ValueHandle is a borrowed reference to one engine-owned sqlite3_value.
// It is valid only for the duration of the enclosing invocation.
type ValueHandle uintptr

// ContextHandle is a borrowed reference to one invocation's sqlite3_context
// result sink. It is valid only for the duration of the enclosing invocation
// and accepts exactly one terminal write.
type ContextHandle uintptr

// Destructor reclaims one allocation whose ownership was transferred to the
// host. The host invokes it exactly once, at a time it controls.
type Destructor func()

// Fundamental datatype codes as reported by sqlite3_value_type.
const (
	TypeCodeInteger int32 = 1
	TypeCodeFloat   int32 = 2
	TypeCodeText    int32 = 3
	TypeCodeBlob    int32 = 4
	TypeCodeNull    int32 = 5
)

// Result codes accepted by the error-code result setter.
const (
	ResultCodeError  int32 = 1
	ResultCodeNomem  int32 = 7
	ResultCodeMisuse int32 = 21
)

// API is the boundary this library marshals across. Implementations adapt the
// engine's published C surface: per-value accessors, per-context result
// setters, auxiliary data slots, and the engine-owned formatted allocator.
//
// All []byte values returned by accessors are call-scoped; all []byte values
// passed to setters must already be free of embedded nul bytes (the value and
// result packages check before crossing).
type API interface {
	// Per-value accessors. The numeric accessors pass through the engine's
	// own coercion rules; ValueText returns the raw byte representation
	// without UTF-8 validation.
	ValueType(v ValueHandle) int32
	ValueBytes(v ValueHandle) int32
	ValueText(v ValueHandle) []byte
	ValueBlob(v ValueHandle) []byte
	ValueInt(v ValueHandle) int32
	ValueInt64(v ValueHandle) int64
	ValueDouble(v ValueHandle) float64

	// ValuePointer reports the tagged pointer carried by v under name, or
	// nil if the value carries none or the name does not match.
	ValuePointer(v ValueHandle, name string) *TaggedPointer

	// Per-context result setters, each a one-shot terminal write except
	// ResultSubtype, which annotates the current result. ResultText takes
	// ownership of buf and invokes free exactly once when the engine is done
	// with it; ResultBlob copies, so the caller keeps ownership.
	ResultText(ctx ContextHandle, buf []byte, free Destructor)
	ResultBlob(ctx ContextHandle, blob []byte)
	ResultInt(ctx ContextHandle, n int32)
	ResultInt64(ctx ContextHandle, n int64)
	ResultDouble(ctx ContextHandle, f float64)
	ResultNull(ctx ContextHandle)
	ResultError(ctx ContextHandle, msg []byte)
	ResultErrorCode(ctx ContextHandle, code int32)
	ResultSubtype(ctx ContextHandle, subtype uint8)
	ResultPointer(ctx ContextHandle, p *TaggedPointer)

	// Auxiliary data slots, keyed by argument position. The engine owns the
	// slot lifetime and invokes free when it discards a stored value.
	AuxData(ctx ContextHandle, col int32) any
	SetAuxData(ctx ContextHandle, col int32, data any, free Destructor)

	// Mprintf formats through the engine's own allocator and returns a
	// nul-terminated buffer the engine will later free, or 0 on allocation
	// failure. format must not contain embedded nul bytes; use the package
	// level Mprintf wrapper, which checks.
	Mprintf(format []byte) uintptr
}

// TaggedPointer bundles an opaque payload with the name tag identifying its
// expected type and the destructor that reclaims it. It is the only unit in
// which opaque pointers cross the boundary: payload, tag, and destructor
// travel together, never a bare pointer.
//
// Ownership transfers to the host at creation. The payload comes back exactly
// once, either through Take (caller reclaim) or Destroy (host destructor).
type TaggedPointer struct {
	payload any
	free    Destructor
	name    string
	taken   bool
}

// NewTaggedPointer bundles payload under name with its destructor. free may
// be nil when reclaiming the payload needs no work beyond dropping it.
func NewTaggedPointer(name string, payload any, free Destructor) *TaggedPointer {
	return &TaggedPointer{name: name, payload: payload, free: free}
}

// Name returns the name tag the payload was bound under.
func (p *TaggedPointer) Name() string { return p.name }

// Take consumes the payload if name matches the bound tag and the pointer has
// not already been reclaimed. After a successful Take the host-side destructor
// becomes a no-op; the caller owns the payload again.
func (p *TaggedPointer) Take(name string) (any, bool) {
	if p.taken || p.name != name {
		return nil, false
	}
	p.taken = true
	return p.payload, true
}

// Reclaimed reports whether the payload has already been taken back or
// destroyed.
func (p *TaggedPointer) Reclaimed() bool { return p.taken }

// Destroy runs the destructor unless the payload was already reclaimed. Hosts
// call this when they discard the stored pointer.
func (p *TaggedPointer) Destroy() {
	if p.taken {
		return
	}
	p.taken = true
	if p.free != nil {
		p.free()
	}
}

// Mprintf formats s through the engine's own allocator so the returned buffer
// satisfies engine-owned-memory conventions, for fields the engine itself
// frees (a virtual table's zErrMsg, xBestIndex's idxStr). The engine treats s
// as the format string verbatim; no arguments are substituted.
func Mprintf(api API, s string) (uintptr, error) {
	if strings.IndexByte(s, 0) >= 0 {
		return 0, errors.NulByte(errors.PhaseAlloc, len(s))
	}
	p := api.Mprintf([]byte(s))
	if p == 0 {
		return 0, errors.AllocationFailed(len(s) + 1)
	}
	return p, nil
}
