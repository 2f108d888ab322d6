package expr

import (
	"strings"

	"remap/internal/source"
	"remap/internal/types"
	"remap/internal/value"
)

// Assign writes the value of an expression into the target record or a
// local variable, and yields the written value. Construction never
// rejects: any value shape may be stored. Assigning to a variable
// declares it in the static state with the value's infallible
// descriptor, since a runtime failure of the value expression propagates
// before anything is written.
type Assign struct {
	span     source.Span
	path     []string // record path target when non-empty
	variable string   // local variable target otherwise
	val      Expression
}

func NewPathAssign(path []string, val Spanned, span source.Span, state *TypeState) *Assign {
	return &Assign{span: span, path: path, val: val.Expr}
}

func NewVariableAssign(name string, val Spanned, span source.Span, state *TypeState) *Assign {
	state.SetLocal(name, val.Expr.TypeDef(state).Infallible())
	return &Assign{span: span, variable: name, val: val.Expr}
}

func (a *Assign) Resolve(ctx *Context) (value.Value, *ExpressionError) {
	v, err := a.val.Resolve(ctx)
	if err != nil {
		return value.Value{}, err
	}
	a.write(ctx, v)
	return v, nil
}

// ResolveBatch evaluates the value across the batch, then writes each
// slot's result into that slot's own record or variable state. A slot
// whose value failed keeps the failure and writes nothing.
func (a *Assign) ResolveBatch(ctx *BatchContext) {
	a.val.ResolveBatch(ctx)
	for _, i := range ctx.Pending() {
		r := ctx.Take(i)
		if !r.Failed() {
			a.write(ctx.Context(i), r.Value)
		}
		ctx.Put(i, r)
	}
}

func (a *Assign) write(ctx *Context, v value.Value) {
	if len(a.path) > 0 {
		ctx.Target().Set(a.path, v)
		return
	}
	ctx.SetVariable(a.variable, v)
}

// TypeDef reports the assigned value's descriptor: the assignment
// expression yields the value it wrote, and fails exactly when the value
// expression fails.
func (a *Assign) TypeDef(state *TypeState) types.TypeDef {
	return a.val.TypeDef(state)
}

func (a *Assign) String() string {
	var b strings.Builder
	if len(a.path) > 0 {
		b.WriteString(pathString(a.path))
	} else {
		b.WriteString(a.variable)
	}
	b.WriteString(" = ")
	b.WriteString(a.val.String())
	return b.String()
}

func (a *Assign) isExpression() {}
