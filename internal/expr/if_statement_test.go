package expr

import (
	"testing"

	"remap/internal/diag"
	"remap/internal/types"
	"remap/internal/value"
)

func TestIfRejectsNonBooleanPredicate(t *testing.T) {
	state := NewTypeState()
	pred := Spanned{Expr: NewLiteral(value.Integer(1), spanAt(3, 4)), Span: spanAt(3, 4)}
	node, d := NewIfStatement(pred, NewLiteral(value.Null(), spanAt(5, 9)), nil, spanAt(0, 9), state)
	if node != nil || d == nil || d.Code != diag.TypeNonBooleanPredicate {
		t.Fatalf("expected code 102, got %+v", d)
	}
}

func TestIfRejectsFalliblePredicate(t *testing.T) {
	state := NewTypeState()
	pred := Spanned{Expr: &fallibleBoolExpr{}, Span: spanAt(3, 6)}
	node, d := NewIfStatement(pred, NewLiteral(value.Null(), spanAt(7, 11)), nil, spanAt(0, 11), state)
	if node != nil || d == nil || d.Code != diag.FallFalliblePredicate {
		t.Fatalf("expected code 640, got %+v", d)
	}
}

type fallibleBoolExpr struct {
	Literal
}

func (f *fallibleBoolExpr) TypeDef(_ *TypeState) types.TypeDef {
	return types.Boolean().Fallible()
}

func TestIfScalarBranching(t *testing.T) {
	state := NewTypeState()
	pred := Spanned{Expr: NewLiteral(value.Boolean(true), spanAt(3, 7)), Span: spanAt(3, 7)}
	node, d := NewIfStatement(pred,
		NewLiteral(value.String("yes"), spanAt(8, 13)),
		NewLiteral(value.String("no"), spanAt(14, 18)),
		spanAt(0, 18), state)
	if d != nil {
		t.Fatalf("unexpected diagnostic: %v", d)
	}
	got, err := node.Resolve(NewContext(testTarget(nil)))
	if err != nil || !got.Equal(value.String("yes")) {
		t.Fatalf("expected \"yes\", got %s (%v)", got, err)
	}
}

func TestIfWithoutElseYieldsNull(t *testing.T) {
	state := NewTypeState()
	pred := Spanned{Expr: NewLiteral(value.Boolean(false), spanAt(3, 8)), Span: spanAt(3, 8)}
	node, _ := NewIfStatement(pred, NewLiteral(value.Integer(1), spanAt(9, 10)), nil, spanAt(0, 10), state)
	got, err := node.Resolve(NewContext(testTarget(nil)))
	if err != nil || !got.IsNull() {
		t.Fatalf("expected null, got %s (%v)", got, err)
	}
	if td := node.TypeDef(state); !td.Contains(types.KindNull) || !td.Contains(types.KindInteger) {
		t.Fatalf("descriptor must union the branch with null, got %s", td)
	}
}

func TestIfBatchRoutesSlotsToBranches(t *testing.T) {
	state := NewTypeState()
	// if .flag == true { "on" } else { "off" } -- flag queries are
	// fallible-free but not statically boolean, so compare explicitly.
	pred, d := NewOp(OpEq,
		Spanned{Expr: NewQuery([]string{"flag"}, spanAt(3, 8)), Span: spanAt(3, 8)},
		lit(value.Boolean(true)), spanAt(3, 13), state)
	if d != nil {
		t.Fatalf("unexpected diagnostic: %v", d)
	}
	node, d := NewIfStatement(
		Spanned{Expr: pred, Span: spanAt(3, 13)},
		NewLiteral(value.String("on"), spanAt(14, 18)),
		NewLiteral(value.String("off"), spanAt(19, 24)),
		spanAt(0, 24), state)
	if d != nil {
		t.Fatalf("unexpected diagnostic: %v", d)
	}

	targets := []Target{
		testTarget(map[string]value.Value{"flag": value.Boolean(true)}),
		testTarget(map[string]value.Value{"flag": value.Boolean(false)}),
		testTarget(map[string]value.Value{"flag": value.Boolean(true)}),
	}
	bctx := NewBatchContext(targets)
	node.ResolveBatch(bctx)

	want := []string{"on", "off", "on"}
	for i, r := range bctx.Outcomes() {
		if r.Failed() || !r.Value.Equal(value.String(want[i])) {
			t.Fatalf("slot %d: expected %q, got %+v", i, want[i], r)
		}
	}
}
