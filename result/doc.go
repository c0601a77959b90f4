// Package result writes typed results back through the engine's one-shot
// result-setting protocol.
//
// A Sink wraps one borrowed sqlite3_context handle. Exactly one terminal
// write (text, integer, float, blob, null, or error) is permitted per
// invocation; the Sink does not and cannot enforce this, so a second terminal
// write is undefined behavior at the boundary and must be avoided by the
// caller. Subtype is the exception: it annotates the current result rather
// than terminating the invocation.
//
// Text results transfer ownership of an allocated buffer to the engine
// together with the destructor that reclaims it; blob results use the
// engine's copying setter and need no destructor.
package result
