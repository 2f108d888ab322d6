package value

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// String renders the value in canonical source-like form. The rendering is
// for error messages and CLI output, not for parse round-trips.
func (v Value) String() string {
	switch v.Kind {
	case VKNull:
		return "null"
	case VKBytes:
		lossy := strings.ToValidUTF8(string(v.Bytes), "�")
		return strconv.Quote(norm.NFC.String(lossy))
	case VKInteger:
		return strconv.FormatInt(v.Int, 10)
	case VKFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case VKBoolean:
		return strconv.FormatBool(v.Bool)
	case VKTimestamp:
		return "t'" + v.Time.UTC().Format("2006-01-02T15:04:05.999999999Z07:00") + "'"
	case VKRegex:
		return "r'" + v.Regex.String() + "'"
	case VKArray:
		parts := make([]string, len(v.Array))
		for i, item := range v.Array {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case VKObject:
		keys := make([]string, 0, len(v.Object))
		for k := range v.Object {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%q: %s", k, v.Object[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("Value(%d)", v.Kind)
	}
}
