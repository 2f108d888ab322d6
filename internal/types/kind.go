package types

import (
	"strings"
)

// Kind is a set of primitive value shapes, encoded as bit flags. The empty
// set is "never": the shape of expressions that always diverge.
type Kind uint16

// KindNever is the bottom shape: no value can inhabit it.
const KindNever Kind = 0

const (
	KindBytes Kind = 1 << iota
	KindInteger
	KindFloat
	KindBoolean
	KindTimestamp
	KindRegex
	KindNull
	KindArray
	KindObject

	KindAny = KindBytes | KindInteger | KindFloat | KindBoolean |
		KindTimestamp | KindRegex | KindNull | KindArray | KindObject
)

var kindNames = []struct {
	kind Kind
	name string
}{
	{KindBytes, "string"},
	{KindInteger, "integer"},
	{KindFloat, "float"},
	{KindBoolean, "boolean"},
	{KindTimestamp, "timestamp"},
	{KindRegex, "regex"},
	{KindNull, "null"},
	{KindArray, "array"},
	{KindObject, "object"},
}

// Contains reports whether every shape in other is included in k.
func (k Kind) Contains(other Kind) bool {
	return k&other == other
}

// Intersects reports whether k and other share at least one shape.
func (k Kind) Intersects(other Kind) bool {
	return k&other != 0
}

// Is reports whether k is exactly the given shape set.
func (k Kind) Is(other Kind) bool {
	return k == other
}

func (k Kind) Union(other Kind) Kind {
	return k | other
}

func (k Kind) String() string {
	if k == KindNever {
		return "never"
	}
	if k == KindAny {
		return "any"
	}
	parts := make([]string, 0, 4)
	for _, kn := range kindNames {
		if k.Contains(kn.kind) {
			parts = append(parts, kn.name)
		}
	}
	switch len(parts) {
	case 0:
		return "never"
	case 1:
		return parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " or " + parts[len(parts)-1]
	}
}
