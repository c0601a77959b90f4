// Package engine adapts the boundary API onto a real SQLite engine through
// modernc.org/sqlite, the pure-Go translation of the SQLite amalgamation.
//
// # Architecture
//
// The package provides one main type:
//
//	Host - implements the boundary API over sqlite3_* calls on a libc TLS
//
// Every handle the Host receives is the raw sqlite3_value or sqlite3_context
// pointer inside the engine's own memory, so a Host-backed invocation runs
// the exact code path a loaded C extension would.
//
// # Crossing conventions
//
//	Direction      Mechanism
//	──────────────────────────────────────────────────────────
//	bytes out      sqlite3_value_bytes + copy out of engine memory
//	bytes in       libc malloc + copy, freed by destructor trampoline
//	destructors    registry id + C function pointer trampoline
//	pointers       registry id passed as the opaque sqlite3 pointer
//	names          interned C strings, never freed
//
// Go values never cross as raw pointers. Anything the engine must hold
// between calls (a tagged pointer payload, an auxdata value, a pending text
// destructor) is parked in a package-level registry under a small integer id,
// and that id is what crosses; trampolines translate the engine's callbacks
// back into registry lookups.
//
// Trampolines are package-level function declarations because converting a Go
// closure to a C function pointer is undefined.
package engine
