// Package affinity classifies declared column types into type-coercion
// policies and applies them to textual values.
//
// SQLite column types are free-form schema text with no fixed grammar
// ("VARCHAR(255)", "UNSIGNED BIG INT", "STUFF"). Classification follows the
// engine's published determination rules: a case-insensitive substring match
// over the trimmed declared type, in strict precedence order, with NUMERIC as
// the universal fallback, so arbitrary and unknown strings always classify.
//
// Coercion converts a textual value into the most specific representation the
// affinity permits without losing exactness, falling back tier by tier to
// verbatim text. Parsing is strict whole-string; a leading-numeric prefix is
// not a number.
package affinity
