// Package pointer provides generic, name-tagged round trips for arbitrary Go
// values passed opaquely through the engine.
//
// The engine's pointer-passing interface moves untyped pointers tagged with a
// name string. Bind erases a typed value into that shape; Reclaim recovers
// it under a matching name. A reclaim always consumes: after one side has
// taken the payload back, the other side's destructor is a no-op and further
// reclaims report not present.
package pointer

import (
	bridge "github.com/wippyai/sqlite-bridge"
)

// Bind boxes value under name with a destructor specialized to T, producing
// the tagged unit the engine stores. Ownership transfers to the engine at
// this point: the payload comes back exactly once, through Reclaim or through
// the engine invoking the destructor. free may be nil when dropping the value
// needs no work.
func Bind[T any](name string, value T, free func(T)) *bridge.TaggedPointer {
	var d bridge.Destructor
	if free != nil {
		d = func() { free(value) }
	}
	return bridge.NewTaggedPointer(name, value, d)
}

// Reclaim takes the payload back out of a tagged pointer if name matches the
// tag it was bound under and the payload is of type T. A mismatched name, a
// mismatched type, or a prior reclaim all report not present.
func Reclaim[T any](p *bridge.TaggedPointer, name string) (T, bool) {
	var zero T
	if p == nil {
		return zero, false
	}
	payload, ok := p.Take(name)
	if !ok {
		return zero, false
	}
	v, ok := payload.(T)
	if !ok {
		return zero, false
	}
	return v, true
}
