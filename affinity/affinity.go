package affinity

import (
	"strconv"
	"strings"

	"github.com/wippyai/sqlite-bridge/result"
)

// Affinity is a column's type-coercion policy, derived from its declared
// type. Immutable once computed.
type Affinity int

const (
	// Text matches declared types containing "char", "clob", or "text".
	Text Affinity = iota
	// Integer matches declared types containing "int".
	Integer
	// Real matches declared types containing "real", "floa", or "doub".
	Real
	// Blob matches declared types containing "blob", or an empty declaration.
	Blob
	// Numeric is the fallback when no other rule matches.
	Numeric
)

// String returns the affinity name as SQLite spells it.
func (a Affinity) String() string {
	switch a {
	case Text:
		return "TEXT"
	case Integer:
		return "INTEGER"
	case Real:
		return "REAL"
	case Blob:
		return "BLOB"
	default:
		return "NUMERIC"
	}
}

// Classify determines a column's affinity from its declared type, following
// the engine's determination rules. The match is case-insensitive over the
// trimmed string and first-match-wins: "int" beats every later rule no matter
// where it appears, so "integer text" classifies as Integer, not Text.
func Classify(declared string) Affinity {
	lowered := strings.ToLower(strings.TrimSpace(declared))

	if strings.Contains(lowered, "int") {
		return Integer
	}

	// VARCHAR contains "char" and therefore lands here.
	if strings.Contains(lowered, "char") || strings.Contains(lowered, "clob") || strings.Contains(lowered, "text") {
		return Text
	}

	if strings.Contains(lowered, "blob") || lowered == "" {
		return Blob
	}

	if strings.Contains(lowered, "real") || strings.Contains(lowered, "floa") || strings.Contains(lowered, "doub") {
		return Real
	}

	return Numeric
}

// Result writes text through sink in the most specific representation the
// affinity permits: Numeric tries int32, then int64, then float64; Integer
// never produces a float; Real tries only float64; Text and Blob emit
// verbatim. Every parse failure falls through to the next tier, with text as
// the universal fallback, so the only possible errors are the sink's own
// text-encoding failures.
func (a Affinity) Result(sink *result.Sink, text string) error {
	switch a {
	case Numeric:
		if n, err := strconv.ParseInt(text, 10, 32); err == nil {
			sink.Int(int32(n))
			return nil
		}
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			sink.Int64(n)
			return nil
		}
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			sink.Double(f)
			return nil
		}
		return sink.Text(text)
	case Integer:
		if n, err := strconv.ParseInt(text, 10, 32); err == nil {
			sink.Int(int32(n))
			return nil
		}
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			sink.Int64(n)
			return nil
		}
		return sink.Text(text)
	case Real:
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			sink.Double(f)
			return nil
		}
		return sink.Text(text)
	default:
		return sink.Text(text)
	}
}
