// Package value implements the runtime value model shared by every
// expression node.
package value

import (
	"fmt"
	"regexp"
	"time"

	"remap/internal/types"
)

// Kind identifies the runtime type of a Value.
type Kind uint8

const (
	// VKNull represents the null value.
	VKNull Kind = iota
	// VKBytes represents a byte string (not guaranteed valid UTF-8).
	VKBytes
	// VKInteger represents a signed integer value.
	VKInteger
	// VKFloat represents a floating-point value.
	VKFloat
	// VKBoolean represents a boolean value.
	VKBoolean
	// VKTimestamp represents a point in time.
	VKTimestamp
	// VKRegex represents a compiled regular expression.
	VKRegex
	// VKArray represents an ordered list of values.
	VKArray
	// VKObject represents a string-keyed map of values.
	VKObject
)

// String returns a human-readable name for the value kind.
func (k Kind) String() string {
	switch k {
	case VKNull:
		return "null"
	case VKBytes:
		return "string"
	case VKInteger:
		return "integer"
	case VKFloat:
		return "float"
	case VKBoolean:
		return "boolean"
	case VKTimestamp:
		return "timestamp"
	case VKRegex:
		return "regex"
	case VKArray:
		return "array"
	case VKObject:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Value is the tagged union produced by expression evaluation.
type Value struct {
	Kind   Kind
	Bytes  []byte // for VKBytes
	Int    int64  // for VKInteger
	Float  float64
	Bool   bool
	Time   time.Time
	Regex  *regexp.Regexp
	Array  []Value
	Object map[string]Value
}

func Null() Value {
	return Value{Kind: VKNull}
}

func Bytes(b []byte) Value {
	return Value{Kind: VKBytes, Bytes: b}
}

func String(s string) Value {
	return Value{Kind: VKBytes, Bytes: []byte(s)}
}

func Integer(i int64) Value {
	return Value{Kind: VKInteger, Int: i}
}

func Float(f float64) Value {
	return Value{Kind: VKFloat, Float: f}
}

func Boolean(b bool) Value {
	return Value{Kind: VKBoolean, Bool: b}
}

func Timestamp(t time.Time) Value {
	return Value{Kind: VKTimestamp, Time: t}
}

func Regexp(re *regexp.Regexp) Value {
	return Value{Kind: VKRegex, Regex: re}
}

func Array(items []Value) Value {
	return Value{Kind: VKArray, Array: items}
}

func Object(fields map[string]Value) Value {
	return Value{Kind: VKObject, Object: fields}
}

func (v Value) IsNull() bool {
	return v.Kind == VKNull
}

// TypeKind maps the runtime value onto its static shape, used by literal
// type defs and diagnostics.
func (v Value) TypeKind() types.Kind {
	switch v.Kind {
	case VKBytes:
		return types.KindBytes
	case VKInteger:
		return types.KindInteger
	case VKFloat:
		return types.KindFloat
	case VKBoolean:
		return types.KindBoolean
	case VKTimestamp:
		return types.KindTimestamp
	case VKRegex:
		return types.KindRegex
	case VKArray:
		return types.KindArray
	case VKObject:
		return types.KindObject
	default:
		return types.KindNull
	}
}

// Equal compares two values structurally. Regexes compare by source text.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case VKNull:
		return true
	case VKBytes:
		return string(v.Bytes) == string(other.Bytes)
	case VKInteger:
		return v.Int == other.Int
	case VKFloat:
		return v.Float == other.Float
	case VKBoolean:
		return v.Bool == other.Bool
	case VKTimestamp:
		return v.Time.Equal(other.Time)
	case VKRegex:
		return v.Regex.String() == other.Regex.String()
	case VKArray:
		if len(v.Array) != len(other.Array) {
			return false
		}
		for i := range v.Array {
			if !v.Array[i].Equal(other.Array[i]) {
				return false
			}
		}
		return true
	case VKObject:
		if len(v.Object) != len(other.Object) {
			return false
		}
		for k, a := range v.Object {
			b, ok := other.Object[k]
			if !ok || !a.Equal(b) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
