package value

import (
	bridge "github.com/wippyai/sqlite-bridge"
)

// Type is the fundamental datatype of a sqlite3_value, one of the engine's
// closed set of five storage classes.
type Type int32

const (
	TypeInteger Type = Type(bridge.TypeCodeInteger)
	TypeFloat   Type = Type(bridge.TypeCodeFloat)
	TypeText    Type = Type(bridge.TypeCodeText)
	TypeBlob    Type = Type(bridge.TypeCodeBlob)
	TypeNull    Type = Type(bridge.TypeCodeNull)
)

// TypeFromCode maps a raw sqlite3_value_type code to a Type. The engine has
// committed to these five codes for the lifetime of sqlite3; an out-of-set
// code is treated as raw bytes and maps to TypeBlob.
func TypeFromCode(code int32) Type {
	switch code {
	case bridge.TypeCodeInteger:
		return TypeInteger
	case bridge.TypeCodeFloat:
		return TypeFloat
	case bridge.TypeCodeText:
		return TypeText
	case bridge.TypeCodeBlob:
		return TypeBlob
	case bridge.TypeCodeNull:
		return TypeNull
	default:
		return TypeBlob
	}
}

// String returns the storage class name as SQLite spells it.
func (t Type) String() string {
	switch t {
	case TypeInteger:
		return "INTEGER"
	case TypeFloat:
		return "FLOAT"
	case TypeText:
		return "TEXT"
	case TypeBlob:
		return "BLOB"
	case TypeNull:
		return "NULL"
	default:
		return "BLOB"
	}
}
