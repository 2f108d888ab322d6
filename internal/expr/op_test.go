package expr

import (
	"testing"

	"remap/internal/diag"
	"remap/internal/types"
	"remap/internal/value"
)

func lit(v value.Value) Spanned {
	return Spanned{Expr: NewLiteral(v, spanAt(0, 1)), Span: spanAt(0, 1)}
}

func mustOp(t *testing.T, op OpKind, lhs, rhs Spanned) *Op {
	t.Helper()
	node, d := NewOp(op, lhs, rhs, spanAt(0, 3), NewTypeState())
	if d != nil {
		t.Fatalf("unexpected diagnostic: %v", d)
	}
	return node
}

func TestOpRejectsImpossibleOperandShapes(t *testing.T) {
	state := NewTypeState()
	_, d := NewOp(OpSub, lit(value.Boolean(true)), lit(value.Integer(1)), spanAt(0, 3), state)
	if d == nil || d.Code != diag.TypeUnexpectedKind {
		t.Fatalf("expected code 203, got %+v", d)
	}

	_, d = NewOp(OpAnd, lit(value.Integer(1)), lit(value.Boolean(true)), spanAt(0, 3), state)
	if d == nil || d.Code != diag.TypeUnexpectedKind {
		t.Fatalf("expected code 203 for non-boolean logical operand, got %+v", d)
	}
}

func TestOpTypeDefRules(t *testing.T) {
	state := NewTypeState()

	add := mustOp(t, OpAdd, lit(value.Integer(1)), lit(value.Integer(2)))
	if td := add.TypeDef(state); !td.Is(types.KindInteger) || td.IsFallible() {
		t.Fatalf("int+int must be infallible integer, got %s", td)
	}

	concat := mustOp(t, OpAdd, lit(value.String("a")), lit(value.String("b")))
	if td := concat.TypeDef(state); !td.Is(types.KindBytes) || td.IsFallible() {
		t.Fatalf("string concat must be infallible string, got %s", td)
	}

	div := mustOp(t, OpDiv, lit(value.Integer(1)), lit(value.Integer(2)))
	if td := div.TypeDef(state); !td.IsFallible() {
		t.Fatalf("division must be fallible, got %s", td)
	}

	// A query can resolve to anything, so arithmetic on it can mismatch
	// at runtime.
	q := Spanned{Expr: NewQuery([]string{"n"}, spanAt(0, 2)), Span: spanAt(0, 2)}
	node, d := NewOp(OpAdd, q, lit(value.Integer(1)), spanAt(0, 4), state)
	if d != nil {
		t.Fatalf("unexpected diagnostic: %v", d)
	}
	if td := node.TypeDef(state); !td.IsFallible() {
		t.Fatalf("mixed-shape addition must be fallible, got %s", td)
	}
}

func TestOpScalarArithmetic(t *testing.T) {
	ctx := NewContext(testTarget(nil))
	cases := []struct {
		op   OpKind
		l, r value.Value
		want value.Value
	}{
		{OpAdd, value.Integer(2), value.Integer(3), value.Integer(5)},
		{OpAdd, value.Float(1.5), value.Integer(2), value.Float(3.5)},
		{OpAdd, value.String("ab"), value.String("cd"), value.String("abcd")},
		{OpSub, value.Integer(5), value.Integer(3), value.Integer(2)},
		{OpMul, value.Integer(4), value.Integer(3), value.Integer(12)},
		{OpDiv, value.Integer(7), value.Integer(2), value.Float(3.5)},
		{OpEq, value.String("x"), value.String("x"), value.Boolean(true)},
		{OpNe, value.Integer(1), value.Integer(2), value.Boolean(true)},
		// Numbers compare numerically across kinds: decoders are free to
		// produce either representation for the same record.
		{OpEq, value.Integer(502), value.Float(502), value.Boolean(true)},
		{OpEq, value.Float(502), value.Integer(502), value.Boolean(true)},
		{OpNe, value.Integer(1), value.Float(1.5), value.Boolean(true)},
		{OpEq, value.Integer(1), value.String("1"), value.Boolean(false)},
		{OpGt, value.Integer(2), value.Integer(1), value.Boolean(true)},
		{OpLe, value.String("a"), value.String("b"), value.Boolean(true)},
	}
	for _, tc := range cases {
		node := mustOp(t, tc.op, lit(tc.l), lit(tc.r))
		got, err := node.Resolve(ctx)
		if err != nil {
			t.Fatalf("%s %s %s: unexpected error %v", tc.l, tc.op, tc.r, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("%s %s %s: expected %s, got %s", tc.l, tc.op, tc.r, tc.want, got)
		}
	}
}

func TestOpDivisionByZero(t *testing.T) {
	node := mustOp(t, OpDiv, lit(value.Integer(1)), lit(value.Integer(0)))
	if _, err := node.Resolve(NewContext(testTarget(nil))); err == nil || err.IsAbort() {
		t.Fatalf("expected ordinary runtime failure, got %v", err)
	}
}

func TestOpLogicalShortCircuit(t *testing.T) {
	state := NewTypeState()
	// false && abort-side-effect-free rhs: rhs must not matter.
	node, d := NewOp(OpAnd, lit(value.Boolean(false)), lit(value.Boolean(true)), spanAt(0, 3), state)
	if d != nil {
		t.Fatalf("unexpected diagnostic: %v", d)
	}
	got, err := node.Resolve(NewContext(testTarget(nil)))
	if err != nil || got.Bool {
		t.Fatalf("expected false, got %s (%v)", got, err)
	}

	or, _ := NewOp(OpOr, lit(value.Boolean(true)), lit(value.Boolean(false)), spanAt(0, 3), state)
	got, err = or.Resolve(NewContext(testTarget(nil)))
	if err != nil || !got.Bool {
		t.Fatalf("expected true, got %s (%v)", got, err)
	}
}

func TestOpBatchPerSlotIsolation(t *testing.T) {
	state := NewTypeState()
	q := Spanned{Expr: NewQuery([]string{"n"}, spanAt(0, 2)), Span: spanAt(0, 2)}
	node, d := NewOp(OpAdd, q, lit(value.Integer(1)), spanAt(0, 4), state)
	if d != nil {
		t.Fatalf("unexpected diagnostic: %v", d)
	}

	targets := []Target{
		testTarget(map[string]value.Value{"n": value.Integer(10)}),
		testTarget(map[string]value.Value{"n": value.String("oops")}),
		testTarget(map[string]value.Value{"n": value.Integer(20)}),
	}
	bctx := NewBatchContext(targets)
	node.ResolveBatch(bctx)

	outcomes := bctx.Outcomes()
	if outcomes[0].Failed() || !outcomes[0].Value.Equal(value.Integer(11)) {
		t.Fatalf("slot 0: expected 11, got %+v", outcomes[0])
	}
	if !outcomes[1].Failed() || outcomes[1].Err.IsAbort() {
		t.Fatalf("slot 1: expected ordinary failure, got %+v", outcomes[1])
	}
	if outcomes[2].Failed() || !outcomes[2].Value.Equal(value.Integer(21)) {
		t.Fatalf("slot 2: expected 21, got %+v", outcomes[2])
	}
}

func TestOpDisplay(t *testing.T) {
	node := mustOp(t, OpAdd, lit(value.Integer(1)), lit(value.Integer(2)))
	if got := node.String(); got != "1 + 2" {
		t.Fatalf("expected %q, got %q", "1 + 2", got)
	}
}
