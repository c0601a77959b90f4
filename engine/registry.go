package engine

import (
	"sync"
	"unsafe"

	"modernc.org/libc"
)

// registry parks Go values the engine must hold across calls, handing out
// small integer ids that cross the boundary in place of Go pointers.
type registry struct {
	mu   sync.Mutex
	m    map[uintptr]any
	next uintptr
}

func newRegistry() *registry {
	return &registry{m: make(map[uintptr]any)}
}

// put stores v and returns its id. Ids start at 1; 0 stays the null pointer.
func (r *registry) put(v any) uintptr {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.m[r.next] = v
	return r.next
}

// get returns the value behind id without removing it.
func (r *registry) get(id uintptr) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.m[id]
}

// take removes and returns the value behind id.
func (r *registry) take(id uintptr) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.m[id]
	delete(r.m, id)
	return v
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.m)
}

// Registries shared by all hosts. Entries are keyed by the id (or buffer
// pointer) that crossed the boundary, so trampolines can find them without
// knowing which Host made the crossing.
var (
	pointers  = newRegistry()
	auxSlots  = newRegistry()
	textFrees = newRegistry()
)

var (
	internMu sync.Mutex
	interned = map[string]uintptr{}
)

// internCString returns a C string for s that lives for the remainder of the
// process. The engine compares pointer-tag names by address validity over the
// whole pointer lifetime, so these are never freed.
func internCString(s string) uintptr {
	internMu.Lock()
	defer internMu.Unlock()
	if p, ok := interned[s]; ok {
		return p
	}
	p, err := libc.CString(s)
	if err != nil {
		panic(err)
	}
	interned[s] = p
	return p
}

// cFuncPointer converts a function defined by a function declaration to a C
// pointer. The result of using cFuncPointer on closures is undefined.
func cFuncPointer[T any](f T) uintptr {
	// This assumes the memory representation described in
	// https://golang.org/s/go11func.
	return *(*uintptr)(unsafe.Pointer(&struct{ f T }{f}))
}
