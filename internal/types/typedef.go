package types

// TypeDef is the static descriptor of an expression: the shapes its value
// may take plus whether resolving it can fail at runtime. It is computed
// once when a node is constructed and never changes afterwards.
//
// Fallibility is a semantic property of a node's own resolve behavior, not
// a structural one: composition helpers never infer it from children on
// their own. Each node kind decides its rule and sets the flag explicitly.
type TypeDef struct {
	kind     Kind
	fallible bool
}

// Def builds an infallible descriptor over the given shape set.
func Def(kind Kind) TypeDef {
	return TypeDef{kind: kind}
}

// Never describes expressions that always diverge; it composes with any
// fallibility.
func Never() TypeDef {
	return TypeDef{kind: KindNever}
}

func Any() TypeDef       { return Def(KindAny) }
func Bytes() TypeDef     { return Def(KindBytes) }
func Integer() TypeDef   { return Def(KindInteger) }
func Float() TypeDef     { return Def(KindFloat) }
func Boolean() TypeDef   { return Def(KindBoolean) }
func Timestamp() TypeDef { return Def(KindTimestamp) }
func Regex() TypeDef     { return Def(KindRegex) }
func Null() TypeDef      { return Def(KindNull) }
func Array() TypeDef     { return Def(KindArray) }
func Object() TypeDef    { return Def(KindObject) }

// Union combines two descriptors: the union of their shape sets and the OR
// of their fallibility flags.
func (t TypeDef) Union(other TypeDef) TypeDef {
	return TypeDef{
		kind:     t.kind.Union(other.kind),
		fallible: t.fallible || other.fallible,
	}
}

// Fallible marks the descriptor as able to fail at runtime.
func (t TypeDef) Fallible() TypeDef {
	t.fallible = true
	return t
}

// Infallible clears the fallibility flag.
func (t TypeDef) Infallible() TypeDef {
	t.fallible = false
	return t
}

// WithFallibility sets the flag from a node's own semantic rule.
func (t TypeDef) WithFallibility(fallible bool) TypeDef {
	t.fallible = fallible
	return t
}

func (t TypeDef) Kind() Kind {
	return t.kind
}

func (t TypeDef) IsFallible() bool {
	return t.fallible
}

func (t TypeDef) IsNever() bool {
	return t.kind == KindNever
}

// Is reports whether the descriptor admits exactly the given shape set.
func (t TypeDef) Is(kind Kind) bool {
	return t.kind.Is(kind)
}

// Contains reports whether the descriptor admits every shape in kind.
func (t TypeDef) Contains(kind Kind) bool {
	return t.kind.Contains(kind)
}

func (t TypeDef) String() string {
	s := t.kind.String()
	if t.fallible {
		s += " (fallible)"
	}
	return s
}
