package expr

import (
	"remap/internal/source"
	"remap/internal/types"
	"remap/internal/value"
)

// Query reads a dotted field path from the target record. Missing paths
// resolve to null, so a query is infallible; its shape is whatever the
// static state assumes for external data.
type Query struct {
	span source.Span
	path []string
}

func NewQuery(path []string, span source.Span) *Query {
	return &Query{span: span, path: path}
}

func (q *Query) Path() []string {
	return q.path
}

func (q *Query) Resolve(ctx *Context) (value.Value, *ExpressionError) {
	v, ok := ctx.Target().Get(q.path)
	if !ok {
		return value.Null(), nil
	}
	return v, nil
}

func (q *Query) ResolveBatch(ctx *BatchContext) {
	for _, i := range ctx.Pending() {
		ctx.Take(i)
		v, ok := ctx.Context(i).Target().Get(q.path)
		if !ok {
			v = value.Null()
		}
		ctx.Put(i, ResolvedValue(v))
	}
}

func (q *Query) TypeDef(state *TypeState) types.TypeDef {
	return state.External().Union(types.Null()).Infallible()
}

func (q *Query) String() string {
	return pathString(q.path)
}

func (q *Query) isExpression() {}
