// Package auxdata provides typed wrappers over the engine's per-column
// auxiliary data slots, used to memoize expensive per-value computation
// across repeated calls (for example, a compiled pattern for a constant
// argument across the rows of a prepared statement).
//
// The engine owns each slot and its lifetime; this package neither extends
// nor assumes it. A slot may be discarded between any two calls.
package auxdata

import (
	bridge "github.com/wippyai/sqlite-bridge"
)

// Get returns the value cached in the slot for argument position col, if the
// slot holds a value of type T. An empty slot or a slot holding a different
// type reports not present.
func Get[T any](api bridge.API, ctx bridge.ContextHandle, col int32) (T, bool) {
	var zero T
	data := api.AuxData(ctx, col)
	if data == nil {
		return zero, false
	}
	v, ok := data.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// Set stores value in the slot for argument position col. The engine invokes
// free when it discards the slot; free may be nil.
func Set[T any](api bridge.API, ctx bridge.ContextHandle, col int32, value T, free func(T)) {
	var d bridge.Destructor
	if free != nil {
		d = func() { free(value) }
	}
	api.SetAuxData(ctx, col, value, d)
}
