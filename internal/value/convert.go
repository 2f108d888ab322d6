package value

import (
	"fmt"
	"strings"
	"time"

	"fortio.org/safecast"
)

// StringLossy converts a byte-string value to UTF-8, replacing invalid
// sequences with U+FFFD. It errors only when the value is not a string at
// all; invalid encoding is never surfaced as a failure.
func (v Value) StringLossy() (string, error) {
	if v.Kind != VKBytes {
		return "", fmt.Errorf("expected string value, got %s", v.Kind)
	}
	return strings.ToValidUTF8(string(v.Bytes), "�"), nil
}

// AsBoolean returns the boolean payload or errors on any other kind.
func (v Value) AsBoolean() (bool, error) {
	if v.Kind != VKBoolean {
		return false, fmt.Errorf("expected boolean value, got %s", v.Kind)
	}
	return v.Bool, nil
}

// FromAny converts the output of a generic decoder (encoding/json,
// msgpack) into a Value. Unsupported payloads collapse to null.
func FromAny(in any) Value {
	switch x := in.(type) {
	case nil:
		return Null()
	case bool:
		return Boolean(x)
	case string:
		return String(x)
	case []byte:
		return Bytes(x)
	case float64:
		return Float(x)
	case float32:
		return Float(float64(x))
	case int:
		return Integer(int64(x))
	case int8:
		return Integer(int64(x))
	case int16:
		return Integer(int64(x))
	case int32:
		return Integer(int64(x))
	case int64:
		return Integer(x)
	case uint8:
		return Integer(int64(x))
	case uint16:
		return Integer(int64(x))
	case uint32:
		return Integer(int64(x))
	case uint64:
		i, err := safecast.Conv[int64](x)
		if err != nil {
			return Float(float64(x))
		}
		return Integer(i)
	case uint:
		i, err := safecast.Conv[int64](x)
		if err != nil {
			return Float(float64(x))
		}
		return Integer(i)
	case time.Time:
		return Timestamp(x)
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			items[i] = FromAny(item)
		}
		return Array(items)
	case map[string]any:
		fields := make(map[string]Value, len(x))
		for k, item := range x {
			fields[k] = FromAny(item)
		}
		return Object(fields)
	case map[any]any:
		// msgpack may decode maps with untyped keys.
		fields := make(map[string]Value, len(x))
		for k, item := range x {
			fields[fmt.Sprint(k)] = FromAny(item)
		}
		return Object(fields)
	default:
		return Null()
	}
}

// ToAny converts a Value back into codec-friendly Go data.
func ToAny(v Value) any {
	switch v.Kind {
	case VKNull:
		return nil
	case VKBytes:
		return strings.ToValidUTF8(string(v.Bytes), "�")
	case VKInteger:
		return v.Int
	case VKFloat:
		return v.Float
	case VKBoolean:
		return v.Bool
	case VKTimestamp:
		return v.Time.UTC().Format(time.RFC3339Nano)
	case VKRegex:
		return v.Regex.String()
	case VKArray:
		items := make([]any, len(v.Array))
		for i, item := range v.Array {
			items[i] = ToAny(item)
		}
		return items
	case VKObject:
		fields := make(map[string]any, len(v.Object))
		for k, item := range v.Object {
			fields[k] = ToAny(item)
		}
		return fields
	default:
		return nil
	}
}
