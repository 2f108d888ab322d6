package expr

import (
	"remap/internal/diag"
	"remap/internal/source"
	"remap/internal/types"
	"remap/internal/value"
)

// Variable reads a local variable. Construction requires the variable to
// be declared by an earlier assignment; its descriptor is snapshotted at
// that point, keeping TypeDef stable across later reassignments of the
// same name in source order.
type Variable struct {
	span source.Span
	name string
	td   types.TypeDef
}

func NewVariable(name string, span source.Span, state *TypeState) (*Variable, *diag.Diagnostic) {
	td, ok := state.Local(name)
	if !ok {
		return nil, diag.NewError(diag.CompUndefinedVariable,
			diag.Primary("undefined variable "+name, span)).
			WithContext("assign the variable before reading it", span).
			WithNote(diag.NoteSeeCodeDocs(diag.CompUndefinedVariable))
	}
	return &Variable{span: span, name: name, td: td}, nil
}

func (v *Variable) Resolve(ctx *Context) (value.Value, *ExpressionError) {
	val, ok := ctx.Variable(v.name)
	if !ok {
		return value.Null(), nil
	}
	return val, nil
}

func (v *Variable) ResolveBatch(ctx *BatchContext) {
	for _, i := range ctx.Pending() {
		ctx.Take(i)
		val, ok := ctx.Context(i).Variable(v.name)
		if !ok {
			val = value.Null()
		}
		ctx.Put(i, ResolvedValue(val))
	}
}

func (v *Variable) TypeDef(_ *TypeState) types.TypeDef {
	return v.td
}

func (v *Variable) String() string {
	return v.name
}

func (v *Variable) isExpression() {}
