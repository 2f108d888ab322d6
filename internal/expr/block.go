package expr

import (
	"strings"

	"remap/internal/source"
	"remap/internal/types"
	"remap/internal/value"
)

// Block evaluates a sequence of expressions and yields the value of the
// last one. Construction never fails: the children were already validated
// by their own constructors.
type Block struct {
	span  source.Span
	stmts []Expression
}

func NewBlock(stmts []Expression, span source.Span) *Block {
	return &Block{span: span, stmts: stmts}
}

func (b *Block) Resolve(ctx *Context) (value.Value, *ExpressionError) {
	out := value.Null()
	for _, stmt := range b.stmts {
		v, err := stmt.Resolve(ctx)
		if err != nil {
			return value.Value{}, err
		}
		out = v
	}
	return out, nil
}

// ResolveBatch runs one statement across all pending slots before moving
// to the next. A slot that fails is sealed so later statements skip it,
// which keeps per-record isolation: one record's failure never stops the
// remaining records from seeing the rest of the block.
func (b *Block) ResolveBatch(ctx *BatchContext) {
	for _, stmt := range b.stmts {
		stmt.ResolveBatch(ctx)
		ctx.SealFailed()
	}
}

// TypeDef reports the last statement's shapes; the block can fail when
// any statement can.
func (b *Block) TypeDef(state *TypeState) types.TypeDef {
	if len(b.stmts) == 0 {
		return types.Null()
	}
	fallible := false
	for _, stmt := range b.stmts {
		if stmt.TypeDef(state).IsFallible() {
			fallible = true
		}
	}
	last := b.stmts[len(b.stmts)-1].TypeDef(state)
	return last.WithFallibility(fallible || last.IsFallible())
}

func (b *Block) String() string {
	parts := make([]string, len(b.stmts))
	for i, stmt := range b.stmts {
		parts[i] = stmt.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

func (b *Block) isExpression() {}
