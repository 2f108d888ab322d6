package expr

import (
	"strings"

	"remap/internal/diag"
	"remap/internal/source"
	"remap/internal/types"
	"remap/internal/value"
)

// Abort unconditionally terminates evaluation for the current record,
// optionally carrying a user message. From the type system's point of
// view it diverges: its descriptor is "never" and infallible, because the
// termination is an intended outcome, not a failure the surrounding tree
// must handle.
type Abort struct {
	span    source.Span
	message Expression // nil when no message was given
}

// NewAbort validates the optional message expression. The message must be
// statically infallible (an abort path that itself errors would hide the
// intended message behind an unrelated failure) and must resolve to a
// string exclusively.
func NewAbort(span source.Span, message *Spanned, state *TypeState) (*Abort, *diag.Diagnostic) {
	node := &Abort{span: span}
	if message == nil {
		return node, nil
	}

	td := message.Expr.TypeDef(state)
	if td.IsFallible() {
		return nil, diag.NewError(diag.FallFallibleExpr,
			diag.Primary("abort only accepts an infallible expression argument", message.Span)).
			WithContext("handle errors before using the expression as an abort message", message.Span).
			WithNote(diag.NoteSeeCodeDocs(diag.FallFallibleExpr))
	}
	if !td.Is(types.KindBytes) {
		return nil, diag.NewError(diag.TypeNonStringMessage,
			diag.Primary("abort only accepts an expression argument resolving to a string", message.Span)).
			WithContext("this expression resolves to "+td.Kind().String(), message.Span).
			WithNote(diag.NoteText("coerce the value to a string first")).
			WithNote(diag.NoteSeeDocs("type coercion", diag.FuncDocURL("#coerce-functions")))
	}

	node.message = message.Expr
	return node, nil
}

// Resolve always terminates with the abort outcome. The message is best
// effort: an inner failure while evaluating or converting it folds into a
// message-less abort instead of escaping as a separate error.
func (a *Abort) Resolve(ctx *Context) (value.Value, *ExpressionError) {
	var msg *string
	if a.message != nil {
		if v, err := a.message.Resolve(ctx); err == nil {
			if s, cerr := v.StringLossy(); cerr == nil {
				msg = &s
			}
		}
	}
	return value.Value{}, NewAbortError(a.span, msg)
}

// ResolveBatch evaluates the message across the whole batch first, then
// overwrites every pending slot with that record's abort outcome. A slot
// whose message computation failed gets a message-less abort; no record's
// outcome depends on another's. The pending set is fixed before the
// message runs, so a message expression that seals its failed slots
// cannot shield them from the abort outcome.
func (a *Abort) ResolveBatch(ctx *BatchContext) {
	pending := ctx.Pending()
	if a.message != nil {
		a.message.ResolveBatch(ctx.Select(pending))
	}
	for _, i := range pending {
		r := ctx.Take(i)
		var msg *string
		if a.message != nil && !r.Failed() {
			if s, cerr := r.Value.StringLossy(); cerr == nil {
				msg = &s
			}
		}
		ctx.Put(i, ResolvedError(NewAbortError(a.span, msg)))
	}
}

func (a *Abort) TypeDef(_ *TypeState) types.TypeDef {
	return types.Never().Infallible()
}

func (a *Abort) String() string {
	if a.message == nil {
		return "abort"
	}
	var b strings.Builder
	b.WriteString("abort ")
	b.WriteString(a.message.String())
	return b.String()
}

func (a *Abort) isExpression() {}
