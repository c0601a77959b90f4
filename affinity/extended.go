package affinity

import "strings"

// Extended is an experimental superset of Affinity covering application-level
// type conventions the engine does not model natively: JSON, booleans, and
// the datetime family. Classification of the extended tags may change as the
// conventions settle.
type Extended int

const (
	ExtText Extended = iota
	ExtInteger
	ExtReal
	ExtBlob
	// ExtBoolean matches declared types containing "boolean".
	ExtBoolean
	// ExtJSON matches declared types containing "json".
	ExtJSON
	// ExtDatetime matches declared types containing "datetime" or "timestamp".
	ExtDatetime
	// ExtDate matches declared types containing "date".
	ExtDate
	// ExtTime matches declared types containing "time".
	ExtTime
	ExtNumeric
)

// String returns the extended affinity name.
func (e Extended) String() string {
	switch e {
	case ExtText:
		return "TEXT"
	case ExtInteger:
		return "INTEGER"
	case ExtReal:
		return "REAL"
	case ExtBlob:
		return "BLOB"
	case ExtBoolean:
		return "BOOLEAN"
	case ExtJSON:
		return "JSON"
	case ExtDatetime:
		return "DATETIME"
	case ExtDate:
		return "DATE"
	case ExtTime:
		return "TIME"
	default:
		return "NUMERIC"
	}
}

// ClassifyExtended determines a column's extended affinity from its declared
// type. The core rules run first in their usual precedence; the extended tags
// are matched before the NUMERIC fallback, most specific first ("datetime"
// contains both "date" and "time", "timestamp" contains "time").
func ClassifyExtended(declared string) Extended {
	lowered := strings.ToLower(strings.TrimSpace(declared))

	if strings.Contains(lowered, "int") {
		return ExtInteger
	}

	if strings.Contains(lowered, "char") || strings.Contains(lowered, "clob") || strings.Contains(lowered, "text") {
		return ExtText
	}

	if strings.Contains(lowered, "blob") || lowered == "" {
		return ExtBlob
	}

	if strings.Contains(lowered, "real") || strings.Contains(lowered, "floa") || strings.Contains(lowered, "doub") {
		return ExtReal
	}

	if strings.Contains(lowered, "json") {
		return ExtJSON
	}

	if strings.Contains(lowered, "boolean") {
		return ExtBoolean
	}

	if strings.Contains(lowered, "datetime") || strings.Contains(lowered, "timestamp") {
		return ExtDatetime
	}

	if strings.Contains(lowered, "date") {
		return ExtDate
	}

	if strings.Contains(lowered, "time") {
		return ExtTime
	}

	return ExtNumeric
}
