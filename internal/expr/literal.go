package expr

import (
	"remap/internal/source"
	"remap/internal/types"
	"remap/internal/value"
)

// Literal wraps a constant value. It never fails, statically or at
// runtime.
type Literal struct {
	span source.Span
	val  value.Value
}

func NewLiteral(val value.Value, span source.Span) *Literal {
	return &Literal{span: span, val: val}
}

func (l *Literal) Resolve(_ *Context) (value.Value, *ExpressionError) {
	return l.val, nil
}

func (l *Literal) ResolveBatch(ctx *BatchContext) {
	for _, i := range ctx.Pending() {
		ctx.Take(i)
		ctx.Put(i, ResolvedValue(l.val))
	}
}

func (l *Literal) TypeDef(_ *TypeState) types.TypeDef {
	return types.Def(l.val.TypeKind())
}

func (l *Literal) String() string {
	return l.val.String()
}

func (l *Literal) isExpression() {}
