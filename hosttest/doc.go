// Package hosttest provides an in-memory implementation of the boundary API
// for tests.
//
// The Host owns value storage, records the terminal result write of each
// invocation, stores tagged pointers and auxiliary data slots, and runs
// registered destructors deterministically on Teardown, so tests can assert
// the exactly-once pairing of allocations and destructors.
//
// Value coercion approximates the engine's rules closely enough for tests:
// numeric text converts whole-string first, then by leading numeric prefix,
// then to zero.
package hosttest
