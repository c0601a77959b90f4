// Package sqlitebridge provides safe, typed marshalling between Go code and
// the SQLite extension C ABI.
//
// SQLite invokes extension code once per row or value with raw, call-scoped
// handles: an array of sqlite3_value pointers and one sqlite3_context sink.
// This library converts those handles into bounds-checked, typed views and
// converts typed Go results back into the pointer/destructor protocol the
// engine expects.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	sqlitebridge/        Root package with the boundary contract: handle types,
//	                     the API interface, TaggedPointer, Mprintf
//	├── value/           Typed, null-checked accessors over borrowed value handles
//	├── result/          One-shot result writes with ownership transfer
//	├── pointer/         Generic name-tagged opaque pointer round trips
//	├── auxdata/         Typed wrappers over per-column auxiliary data slots
//	├── affinity/        Declared-type classification and text coercion
//	├── engine/          Production API backend over modernc.org/sqlite
//	├── errors/          Structured error types for boundary failures
//	└── hosttest/        In-memory API backend for tests
//
// # Quick Start
//
// Inside a scalar function callback:
//
//	func upper(api sqlitebridge.API, ctx sqlitebridge.ContextHandle, args []sqlitebridge.ValueHandle) {
//	    sink := result.NewSink(api, ctx)
//	    arg, ok := value.At(api, args, 0)
//	    if !ok {
//	        sink.ErrorCode(sqlitebridge.ResultCodeMisuse)
//	        return
//	    }
//	    s, err := arg.TextNotNull()
//	    if err != nil {
//	        sink.Error(err.Error())
//	        return
//	    }
//	    sink.Text(strings.ToUpper(s))
//	}
//
// # Ownership and Lifetime
//
// ValueHandle and ContextHandle are borrowed: they are valid only for the
// duration of the enclosing callback and must never be stored past it. The
// library cannot detect a retained handle; retaining one is a use-after-scope
// violation.
//
// Allocations that cross the boundary in the other direction (result text
// buffers, tagged pointers, auxiliary data) always travel together with the
// destructor that reclaims them. The host invokes each registered destructor
// exactly once, at a time it controls.
//
// # Write-Once Results
//
// The engine accepts exactly one terminal write (text, integer, float, blob,
// null, or error) per invocation. The Sink does not enforce this; issuing two
// terminal writes is undefined behavior at the boundary and is the caller's
// responsibility to avoid.
//
// # Thread Safety
//
// The invocation model is synchronous and single-threaded: the engine calls
// in, blocks, and returns. No type in this library is safe for concurrent use
// across invocations unless its documentation says otherwise.
package sqlitebridge
