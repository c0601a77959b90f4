package engine

import (
	"unsafe"

	"modernc.org/libc"
	"modernc.org/libc/sys/types"
	sqlite3 "modernc.org/sqlite/lib"

	bridge "github.com/wippyai/sqlite-bridge"
)

// Host implements the boundary API over a live SQLite engine. The handles it
// receives are raw sqlite3_value and sqlite3_context pointers, so a Host must
// only be used from inside a function callback the engine is currently
// running, on the TLS that invocation arrived on.
type Host struct {
	tls *libc.TLS
}

var _ bridge.API = (*Host)(nil)

// New returns a Host bound to tls. One TLS serves one connection's callbacks;
// the caller keeps ownership.
func New(tls *libc.TLS) *Host {
	return &Host{tls: tls}
}

// TLS exposes the bound thread-local state for direct sqlite3_* calls.
func (h *Host) TLS() *libc.TLS { return h.tls }

func (h *Host) ValueType(v bridge.ValueHandle) int32 {
	return sqlite3.Xsqlite3_value_type(h.tls, uintptr(v))
}

func (h *Host) ValueBytes(v bridge.ValueHandle) int32 {
	return sqlite3.Xsqlite3_value_bytes(h.tls, uintptr(v))
}

func (h *Host) ValueText(v bridge.ValueHandle) []byte {
	p := sqlite3.Xsqlite3_value_text(h.tls, uintptr(v))
	if p == 0 {
		return nil
	}
	// bytes after text: the text call settles the encoding first, so the
	// byte count matches the pointer just fetched.
	n := sqlite3.Xsqlite3_value_bytes(h.tls, uintptr(v))
	return libc.GoBytes(p, int(n))
}

func (h *Host) ValueBlob(v bridge.ValueHandle) []byte {
	p := sqlite3.Xsqlite3_value_blob(h.tls, uintptr(v))
	if p == 0 {
		return nil
	}
	n := sqlite3.Xsqlite3_value_bytes(h.tls, uintptr(v))
	return libc.GoBytes(p, int(n))
}

func (h *Host) ValueInt(v bridge.ValueHandle) int32 {
	return sqlite3.Xsqlite3_value_int(h.tls, uintptr(v))
}

func (h *Host) ValueInt64(v bridge.ValueHandle) int64 {
	return int64(sqlite3.Xsqlite3_value_int64(h.tls, uintptr(v)))
}

func (h *Host) ValueDouble(v bridge.ValueHandle) float64 {
	return float64(sqlite3.Xsqlite3_value_double(h.tls, uintptr(v)))
}

func (h *Host) ValuePointer(v bridge.ValueHandle, name string) *bridge.TaggedPointer {
	id := sqlite3.Xsqlite3_value_pointer(h.tls, uintptr(v), internCString(name))
	if id == 0 {
		return nil
	}
	tp, _ := pointers.get(id).(*bridge.TaggedPointer)
	return tp
}

// ResultText hands buf to the engine in a malloc'd copy whose engine-side
// destructor releases the copy and then runs free, preserving the
// exactly-once contract across the real callback path.
func (h *Host) ResultText(ctx bridge.ContextHandle, buf []byte, free bridge.Destructor) {
	n := len(buf)
	p := libc.Xmalloc(h.tls, types.Size_t(n+1))
	if p == 0 {
		if free != nil {
			free()
		}
		sqlite3.Xsqlite3_result_error_nomem(h.tls, uintptr(ctx))
		return
	}
	mem := (*libc.RawMem)(unsafe.Pointer(p))[: n+1 : n+1]
	copy(mem, buf)
	mem[n] = 0
	if free != nil {
		pendText(p, free)
	}
	sqlite3.Xsqlite3_result_text(h.tls, uintptr(ctx), p, int32(n), cFuncPointer(textDestructor))
}

func (h *Host) ResultBlob(ctx bridge.ContextHandle, blob []byte) {
	n := len(blob)
	if n == 0 {
		sqlite3.Xsqlite3_result_zeroblob(h.tls, uintptr(ctx), 0)
		return
	}
	p := libc.Xmalloc(h.tls, types.Size_t(n))
	if p == 0 {
		sqlite3.Xsqlite3_result_error_nomem(h.tls, uintptr(ctx))
		return
	}
	copy((*libc.RawMem)(unsafe.Pointer(p))[:n:n], blob)
	sqlite3.Xsqlite3_result_blob(h.tls, uintptr(ctx), p, int32(n), sqlite3.SQLITE_TRANSIENT)
	libc.Xfree(h.tls, p)
}

func (h *Host) ResultInt(ctx bridge.ContextHandle, n int32) {
	sqlite3.Xsqlite3_result_int(h.tls, uintptr(ctx), n)
}

func (h *Host) ResultInt64(ctx bridge.ContextHandle, n int64) {
	sqlite3.Xsqlite3_result_int64(h.tls, uintptr(ctx), n)
}

func (h *Host) ResultDouble(ctx bridge.ContextHandle, f float64) {
	sqlite3.Xsqlite3_result_double(h.tls, uintptr(ctx), f)
}

func (h *Host) ResultNull(ctx bridge.ContextHandle) {
	sqlite3.Xsqlite3_result_null(h.tls, uintptr(ctx))
}

func (h *Host) ResultError(ctx bridge.ContextHandle, msg []byte) {
	cmsg, err := libc.CString(string(msg))
	if err != nil {
		sqlite3.Xsqlite3_result_error_nomem(h.tls, uintptr(ctx))
		return
	}
	defer libc.Xfree(h.tls, cmsg)
	sqlite3.Xsqlite3_result_error(h.tls, uintptr(ctx), cmsg, int32(len(msg)))
}

func (h *Host) ResultErrorCode(ctx bridge.ContextHandle, code int32) {
	sqlite3.Xsqlite3_result_error_code(h.tls, uintptr(ctx), code)
}

func (h *Host) ResultSubtype(ctx bridge.ContextHandle, subtype uint8) {
	sqlite3.Xsqlite3_result_subtype(h.tls, uintptr(ctx), uint32(subtype))
}

func (h *Host) ResultPointer(ctx bridge.ContextHandle, p *bridge.TaggedPointer) {
	id := pointers.put(p)
	debugf("result pointer %q as id %d", p.Name(), id)
	sqlite3.Xsqlite3_result_pointer(h.tls, uintptr(ctx), id,
		internCString(p.Name()), cFuncPointer(pointerDestructor))
}

func (h *Host) AuxData(ctx bridge.ContextHandle, col int32) any {
	id := sqlite3.Xsqlite3_get_auxdata(h.tls, uintptr(ctx), col)
	if id == 0 {
		return nil
	}
	slot, _ := auxSlots.get(id).(*auxSlot)
	if slot == nil {
		return nil
	}
	return slot.data
}

func (h *Host) SetAuxData(ctx bridge.ContextHandle, col int32, data any, free bridge.Destructor) {
	id := auxSlots.put(&auxSlot{data: data, free: free})
	sqlite3.Xsqlite3_set_auxdata(h.tls, uintptr(ctx), col, id, cFuncPointer(auxDestructor))
}

func (h *Host) Mprintf(format []byte) uintptr {
	cfmt, err := libc.CString(string(format))
	if err != nil {
		return 0
	}
	defer libc.Xfree(h.tls, cfmt)
	return sqlite3.Xsqlite3_mprintf(h.tls, cfmt, 0)
}

type auxSlot struct {
	data any
	free bridge.Destructor
}

// pendText parks free under the malloc'd buffer address until the engine's
// destructor callback fires for that buffer.
func pendText(p uintptr, free bridge.Destructor) {
	textFrees.mu.Lock()
	defer textFrees.mu.Unlock()
	textFrees.m[p] = free
}

// textDestructor is the xDel callback for text results: it releases the
// malloc'd copy and runs the pending Go-side destructor.
func textDestructor(tls *libc.TLS, p uintptr) {
	if free, ok := textFrees.take(p).(bridge.Destructor); ok && free != nil {
		free()
	}
	libc.Xfree(tls, p)
}

// pointerDestructor is the xDestructor callback for pointer results.
func pointerDestructor(tls *libc.TLS, id uintptr) {
	if tp, ok := pointers.take(id).(*bridge.TaggedPointer); ok && tp != nil {
		tp.Destroy()
	}
}

// auxDestructor is the xDelete callback for auxiliary data slots.
func auxDestructor(tls *libc.TLS, id uintptr) {
	if slot, ok := auxSlots.take(id).(*auxSlot); ok && slot != nil && slot.free != nil {
		slot.free()
	}
}
