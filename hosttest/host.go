package hosttest

import (
	"strconv"
	"strings"

	bridge "github.com/wippyai/sqlite-bridge"
)

// ResultKind identifies which terminal setter an invocation ended with.
type ResultKind int

const (
	ResultNone ResultKind = iota
	ResultText
	ResultInt
	ResultInt64
	ResultDouble
	ResultBlob
	ResultNull
	ResultError
	ResultErrorCode
	ResultPointer
)

// String returns the result kind name.
func (k ResultKind) String() string {
	switch k {
	case ResultNone:
		return "none"
	case ResultText:
		return "text"
	case ResultInt:
		return "int"
	case ResultInt64:
		return "int64"
	case ResultDouble:
		return "double"
	case ResultBlob:
		return "blob"
	case ResultNull:
		return "null"
	case ResultError:
		return "error"
	case ResultErrorCode:
		return "error_code"
	case ResultPointer:
		return "pointer"
	default:
		return "unknown"
	}
}

type cell struct {
	typ  int32
	i    int64
	f    float64
	text []byte
	blob []byte
	ptr  *bridge.TaggedPointer
}

type auxEntry struct {
	data any
	free bridge.Destructor
}

// Invocation records everything one context handle observed: the terminal
// result write, any subtype annotation, stored auxiliary data, and the
// destructors handed over along the way.
type Invocation struct {
	Kind   ResultKind
	Writes int

	Text    string
	Int     int32
	Int64   int64
	Double  float64
	Blob    []byte
	ErrMsg  string
	ErrCode int32

	Subtype    uint8
	HasSubtype bool

	Pointer *bridge.TaggedPointer

	textBuf  []byte
	textFree bridge.Destructor
	aux      map[int32]auxEntry
}

// Host is an in-memory stand-in for the engine. It owns value cells, records
// result writes per context, and runs every destructor it was handed when the
// test calls Teardown.
//
// A Host serves one test goroutine; it is not safe for concurrent use.
type Host struct {
	cells       []*cell
	invocations map[bridge.ContextHandle]*Invocation
	nextCtx     uintptr

	allocs    map[uintptr][]byte
	nextAlloc uintptr

	// FailAllocations makes Mprintf report allocation failure.
	FailAllocations bool

	// DestructorRuns counts destructor invocations the host performed,
	// including replaced auxiliary data and Teardown sweeps.
	DestructorRuns int
}

var _ bridge.API = (*Host)(nil)

// New returns an empty host.
func New() *Host {
	return &Host{
		invocations: make(map[bridge.ContextHandle]*Invocation),
		allocs:      make(map[uintptr][]byte),
	}
}

func (h *Host) add(c *cell) bridge.ValueHandle {
	h.cells = append(h.cells, c)
	return bridge.ValueHandle(len(h.cells))
}

func (h *Host) cell(v bridge.ValueHandle) *cell {
	i := int(v)
	if i < 1 || i > len(h.cells) {
		panic("hosttest: dangling value handle")
	}
	return h.cells[i-1]
}

// AddText stores a text value and returns its handle.
func (h *Host) AddText(s string) bridge.ValueHandle {
	return h.add(&cell{typ: bridge.TypeCodeText, text: []byte(s)})
}

// AddTextBytes stores a text value from raw bytes, allowing invalid UTF-8.
func (h *Host) AddTextBytes(b []byte) bridge.ValueHandle {
	c := &cell{typ: bridge.TypeCodeText, text: make([]byte, len(b))}
	copy(c.text, b)
	return h.add(c)
}

// AddInt64 stores an integer value and returns its handle.
func (h *Host) AddInt64(n int64) bridge.ValueHandle {
	return h.add(&cell{typ: bridge.TypeCodeInteger, i: n})
}

// AddDouble stores a float value and returns its handle.
func (h *Host) AddDouble(f float64) bridge.ValueHandle {
	return h.add(&cell{typ: bridge.TypeCodeFloat, f: f})
}

// AddBlob stores a blob value and returns its handle.
func (h *Host) AddBlob(b []byte) bridge.ValueHandle {
	c := &cell{typ: bridge.TypeCodeBlob, blob: make([]byte, len(b))}
	copy(c.blob, b)
	return h.add(c)
}

// AddNull stores a NULL value and returns its handle.
func (h *Host) AddNull() bridge.ValueHandle {
	return h.add(&cell{typ: bridge.TypeCodeNull})
}

// AddPointer stores a NULL value carrying p, as the engine does for pointer
// arguments.
func (h *Host) AddPointer(p *bridge.TaggedPointer) bridge.ValueHandle {
	return h.add(&cell{typ: bridge.TypeCodeNull, ptr: p})
}

// NewContext opens a fresh invocation and returns its context handle.
func (h *Host) NewContext() bridge.ContextHandle {
	h.nextCtx++
	ctx := bridge.ContextHandle(h.nextCtx)
	h.invocations[ctx] = &Invocation{aux: make(map[int32]auxEntry)}
	return ctx
}

// Invocation returns the record behind ctx for assertions.
func (h *Host) Invocation(ctx bridge.ContextHandle) *Invocation {
	inv, ok := h.invocations[ctx]
	if !ok {
		panic("hosttest: dangling context handle")
	}
	return inv
}

func (h *Host) ValueType(v bridge.ValueHandle) int32 { return h.cell(v).typ }

func (h *Host) ValueBytes(v bridge.ValueHandle) int32 {
	c := h.cell(v)
	switch c.typ {
	case bridge.TypeCodeBlob:
		return int32(len(c.blob))
	case bridge.TypeCodeNull:
		return 0
	default:
		return int32(len(h.textOf(c)))
	}
}

func (h *Host) ValueText(v bridge.ValueHandle) []byte {
	c := h.cell(v)
	if c.typ == bridge.TypeCodeNull {
		return nil
	}
	return h.textOf(c)
}

func (h *Host) ValueBlob(v bridge.ValueHandle) []byte {
	c := h.cell(v)
	switch c.typ {
	case bridge.TypeCodeBlob:
		return c.blob
	case bridge.TypeCodeNull:
		return nil
	default:
		return h.textOf(c)
	}
}

func (h *Host) ValueInt(v bridge.ValueHandle) int32 {
	return int32(h.ValueInt64(v))
}

func (h *Host) ValueInt64(v bridge.ValueHandle) int64 {
	c := h.cell(v)
	switch c.typ {
	case bridge.TypeCodeInteger:
		return c.i
	case bridge.TypeCodeFloat:
		return int64(c.f)
	case bridge.TypeCodeText, bridge.TypeCodeBlob:
		return prefixInt(h.ValueBlob(v))
	default:
		return 0
	}
}

func (h *Host) ValueDouble(v bridge.ValueHandle) float64 {
	c := h.cell(v)
	switch c.typ {
	case bridge.TypeCodeInteger:
		return float64(c.i)
	case bridge.TypeCodeFloat:
		return c.f
	case bridge.TypeCodeText, bridge.TypeCodeBlob:
		return prefixFloat(h.ValueBlob(v))
	default:
		return 0
	}
}

func (h *Host) ValuePointer(v bridge.ValueHandle, name string) *bridge.TaggedPointer {
	c := h.cell(v)
	if c.ptr == nil || c.ptr.Name() != name {
		return nil
	}
	return c.ptr
}

// textOf renders a cell's textual representation, converting numeric cells
// the way the engine does.
func (h *Host) textOf(c *cell) []byte {
	switch c.typ {
	case bridge.TypeCodeInteger:
		return strconv.AppendInt(nil, c.i, 10)
	case bridge.TypeCodeFloat:
		return strconv.AppendFloat(nil, c.f, 'g', -1, 64)
	case bridge.TypeCodeBlob:
		return c.blob
	default:
		return c.text
	}
}

// write records a terminal result write. A replaced text buffer or pointer
// releases its destructor immediately, as the engine does when a later write
// supersedes an earlier result.
func (h *Host) write(ctx bridge.ContextHandle, kind ResultKind) *Invocation {
	inv := h.Invocation(ctx)
	if inv.textFree != nil {
		inv.textFree()
		inv.textFree = nil
		h.DestructorRuns++
	}
	if inv.Pointer != nil {
		if !inv.Pointer.Reclaimed() {
			inv.Pointer.Destroy()
			h.DestructorRuns++
		}
		inv.Pointer = nil
	}
	inv.Writes++
	inv.Kind = kind
	return inv
}

func (h *Host) ResultText(ctx bridge.ContextHandle, buf []byte, free bridge.Destructor) {
	inv := h.write(ctx, ResultText)
	inv.Text = string(buf)
	inv.textBuf = buf
	inv.textFree = free
}

func (h *Host) ResultBlob(ctx bridge.ContextHandle, blob []byte) {
	inv := h.write(ctx, ResultBlob)
	inv.Blob = make([]byte, len(blob))
	copy(inv.Blob, blob)
}

func (h *Host) ResultInt(ctx bridge.ContextHandle, n int32) {
	h.write(ctx, ResultInt).Int = n
}

func (h *Host) ResultInt64(ctx bridge.ContextHandle, n int64) {
	h.write(ctx, ResultInt64).Int64 = n
}

func (h *Host) ResultDouble(ctx bridge.ContextHandle, f float64) {
	h.write(ctx, ResultDouble).Double = f
}

func (h *Host) ResultNull(ctx bridge.ContextHandle) {
	h.write(ctx, ResultNull)
}

func (h *Host) ResultError(ctx bridge.ContextHandle, msg []byte) {
	h.write(ctx, ResultError).ErrMsg = string(msg)
}

func (h *Host) ResultErrorCode(ctx bridge.ContextHandle, code int32) {
	h.write(ctx, ResultErrorCode).ErrCode = code
}

func (h *Host) ResultSubtype(ctx bridge.ContextHandle, subtype uint8) {
	inv := h.Invocation(ctx)
	inv.Subtype = subtype
	inv.HasSubtype = true
}

func (h *Host) ResultPointer(ctx bridge.ContextHandle, p *bridge.TaggedPointer) {
	h.write(ctx, ResultPointer).Pointer = p
}

func (h *Host) AuxData(ctx bridge.ContextHandle, col int32) any {
	return h.Invocation(ctx).aux[col].data
}

func (h *Host) SetAuxData(ctx bridge.ContextHandle, col int32, data any, free bridge.Destructor) {
	inv := h.Invocation(ctx)
	if old, ok := inv.aux[col]; ok && old.free != nil {
		old.free()
		h.DestructorRuns++
	}
	inv.aux[col] = auxEntry{data: data, free: free}
}

func (h *Host) Mprintf(format []byte) uintptr {
	if h.FailAllocations {
		return 0
	}
	buf := make([]byte, len(format)+1)
	copy(buf, format)
	h.nextAlloc++
	h.allocs[h.nextAlloc] = buf
	return h.nextAlloc
}

// AllocString returns the string stored behind an Mprintf allocation, without
// the trailing nul.
func (h *Host) AllocString(p uintptr) (string, bool) {
	buf, ok := h.allocs[p]
	if !ok {
		return "", false
	}
	s := string(buf)
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return s, true
}

// AllocCount reports live Mprintf allocations.
func (h *Host) AllocCount() int { return len(h.allocs) }

// Free releases one Mprintf allocation, as the engine would.
func (h *Host) Free(p uintptr) {
	if _, ok := h.allocs[p]; !ok {
		panic("hosttest: double free of engine allocation")
	}
	delete(h.allocs, p)
}

// Teardown runs every destructor the host still holds: result text buffers,
// stored pointers not yet reclaimed, and auxiliary data. Call it at the end of
// a test, then assert on DestructorRuns.
func (h *Host) Teardown() {
	for _, inv := range h.invocations {
		if inv.textFree != nil {
			inv.textFree()
			inv.textFree = nil
			h.DestructorRuns++
		}
		if inv.Pointer != nil && !inv.Pointer.Reclaimed() {
			inv.Pointer.Destroy()
			h.DestructorRuns++
		}
		for col, entry := range inv.aux {
			if entry.free != nil {
				entry.free()
				h.DestructorRuns++
			}
			delete(inv.aux, col)
		}
	}
	for _, c := range h.cells {
		if c.ptr != nil && !c.ptr.Reclaimed() {
			c.ptr.Destroy()
			h.DestructorRuns++
		}
	}
}

// prefixInt converts the longest leading integer prefix, the way the engine
// coerces text to integers. No prefix converts to zero.
func prefixInt(b []byte) int64 {
	s := strings.TrimLeft(string(b), " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// prefixFloat converts the longest leading numeric prefix to a float.
func prefixFloat(b []byte) float64 {
	s := strings.TrimLeft(string(b), " \t\n\r")
	for end := len(s); end > 0; end-- {
		if f, err := strconv.ParseFloat(s[:end], 64); err == nil {
			return f
		}
	}
	return 0
}
