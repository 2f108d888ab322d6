package expr

import (
	"remap/internal/source"
	"remap/internal/types"
	"remap/internal/value"
)

// Program is a fully validated expression tree, ready for repeated
// scalar or batched evaluation. Once constructed it is immutable.
type Program struct {
	root  *Block
	state *TypeState
}

func NewProgram(stmts []Expression, span source.Span, state *TypeState) *Program {
	return &Program{
		root:  NewBlock(stmts, span),
		state: state,
	}
}

// Resolve evaluates the program against one record.
func (p *Program) Resolve(ctx *Context) (value.Value, *ExpressionError) {
	return p.root.Resolve(ctx)
}

// ResolveBatch evaluates the program against every record of a batch,
// statement by statement, preserving per-record outcome isolation.
func (p *Program) ResolveBatch(ctx *BatchContext) {
	p.root.ResolveBatch(ctx)
}

// TypeDef reports the program's result descriptor.
func (p *Program) TypeDef() types.TypeDef {
	return p.root.TypeDef(p.state)
}

func (p *Program) String() string {
	return p.root.String()
}
