// Package value provides typed, null-checked accessors over borrowed
// sqlite3_value handles.
//
// A Value wraps one borrowed handle plus its fundamental type, resolved once
// at construction and never re-queried: the underlying storage does not
// change type mid-call. Values are call-scoped, like the handles they wrap;
// never retain one past the enclosing invocation.
//
// The engine's text and blob accessors are documented to misbehave on a
// null-typed value. Guard every text or blob read with NotNullOr /
// NotNullOrElse, or use the NotNull accessor variants, which perform the
// check internally and fail with an unexpected-null error instead of reading.
package value
