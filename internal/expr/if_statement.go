package expr

import (
	"strings"

	"remap/internal/diag"
	"remap/internal/source"
	"remap/internal/types"
	"remap/internal/value"
)

// IfStatement branches on a boolean predicate. The predicate must be
// statically boolean-only and infallible; branch values are unified.
type IfStatement struct {
	span        source.Span
	predicate   Expression
	consequent  Expression
	alternative Expression // may be nil
}

func NewIfStatement(predicate Spanned, consequent Expression, alternative Expression, span source.Span, state *TypeState) (*IfStatement, *diag.Diagnostic) {
	td := predicate.Expr.TypeDef(state)

	if td.IsFallible() {
		return nil, diag.NewError(diag.FallFalliblePredicate,
			diag.Primary("this predicate can fail at runtime", predicate.Span)).
			WithContext("handle the error before branching on the result", predicate.Span).
			WithNote(diag.NoteSeeCodeDocs(diag.FallFalliblePredicate))
	}
	if !td.Is(types.KindBoolean) {
		return nil, diag.NewError(diag.TypeNonBooleanPredicate,
			diag.Primary("this predicate resolves to "+td.Kind().String(), predicate.Span)).
			WithContext("if predicates must resolve to a boolean exclusively", predicate.Span).
			WithNote(diag.NoteSeeDocs("type coercion", diag.FuncDocURL("#coerce-functions"))).
			WithNote(diag.NoteSeeCodeDocs(diag.TypeNonBooleanPredicate))
	}

	return &IfStatement{
		span:        span,
		predicate:   predicate.Expr,
		consequent:  consequent,
		alternative: alternative,
	}, nil
}

func (s *IfStatement) Resolve(ctx *Context) (value.Value, *ExpressionError) {
	pred, err := s.predicate.Resolve(ctx)
	if err != nil {
		return value.Value{}, err
	}
	// The constructor guarantees an exclusively boolean predicate.
	if pred.Kind == value.VKBoolean && pred.Bool {
		return s.consequent.Resolve(ctx)
	}
	if s.alternative == nil {
		return value.Null(), nil
	}
	return s.alternative.Resolve(ctx)
}

// ResolveBatch evaluates the predicate across the whole batch, then runs
// each branch over a selection of the slots it owns. Slots in one branch
// never observe the other branch's records.
func (s *IfStatement) ResolveBatch(ctx *BatchContext) {
	s.predicate.ResolveBatch(ctx)

	var thenIdx, elseIdx []int
	for _, i := range ctx.Pending() {
		r := ctx.Take(i)
		if r.Failed() {
			ctx.Put(i, r)
			continue
		}
		if r.Value.Kind == value.VKBoolean && r.Value.Bool {
			thenIdx = append(thenIdx, i)
		} else {
			elseIdx = append(elseIdx, i)
		}
		ctx.Put(i, ResolvedValue(value.Null()))
	}

	if len(thenIdx) > 0 {
		s.consequent.ResolveBatch(ctx.Select(thenIdx))
	}
	if len(elseIdx) > 0 && s.alternative != nil {
		s.alternative.ResolveBatch(ctx.Select(elseIdx))
	}
}

func (s *IfStatement) TypeDef(state *TypeState) types.TypeDef {
	td := s.consequent.TypeDef(state)
	if s.alternative == nil {
		return td.Union(types.Null())
	}
	return td.Union(s.alternative.TypeDef(state))
}

func (s *IfStatement) String() string {
	var b strings.Builder
	b.WriteString("if ")
	b.WriteString(s.predicate.String())
	b.WriteString(" { ")
	b.WriteString(s.consequent.String())
	b.WriteString(" }")
	if s.alternative != nil {
		b.WriteString(" else { ")
		b.WriteString(s.alternative.String())
		b.WriteString(" }")
	}
	return b.String()
}

func (s *IfStatement) isExpression() {}
