package expr

import (
	"strings"

	"remap/internal/diag"
	"remap/internal/source"
	"remap/internal/types"
	"remap/internal/value"
)

// Spanned pairs a constructed child expression with the lexical span it
// was parsed from, for constructor-time diagnostics.
type Spanned struct {
	Expr Expression
	Span source.Span
}

// OpKind enumerates the binary operators.
type OpKind uint8

const (
	OpAdd OpKind = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNe
	OpGt
	OpGe
	OpLt
	OpLe
	OpAnd
	OpOr
)

func (k OpKind) String() string {
	switch k {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	default:
		return "?"
	}
}

const kindNumeric = types.KindInteger | types.KindFloat

// Op applies a binary operator to two child expressions.
type Op struct {
	span     source.Span
	op       OpKind
	lhs, rhs Expression
	td       types.TypeDef
}

// NewOp validates the operand shapes against the operator and computes the
// node's descriptor. Operand shapes that can never satisfy the operator
// are rejected here; shapes that merely might mismatch at runtime make
// the node fallible instead.
func NewOp(op OpKind, lhs, rhs Spanned, span source.Span, state *TypeState) (*Op, *diag.Diagnostic) {
	lt := lhs.Expr.TypeDef(state)
	rt := rhs.Expr.TypeDef(state)

	permitted := opPermittedKinds(op)
	for _, side := range []struct {
		td types.TypeDef
		sp source.Span
	}{{lt, lhs.Span}, {rt, rhs.Span}} {
		if side.td.IsNever() {
			continue
		}
		if !side.td.Kind().Intersects(permitted) {
			return nil, diag.NewError(diag.TypeUnexpectedKind,
				diag.Primary("the \""+op.String()+"\" operator cannot be applied to "+side.td.Kind().String(), side.sp)).
				WithContext("this operator accepts "+permitted.String(), span).
				WithNote(diag.NoteSeeCodeDocs(diag.TypeUnexpectedKind))
		}
	}

	return &Op{
		span: span,
		op:   op,
		lhs:  lhs.Expr,
		rhs:  rhs.Expr,
		td:   opTypeDef(op, lt, rt),
	}, nil
}

func opPermittedKinds(op OpKind) types.Kind {
	switch op {
	case OpAdd:
		return kindNumeric | types.KindBytes
	case OpSub, OpMul, OpDiv:
		return kindNumeric
	case OpGt, OpGe, OpLt, OpLe:
		return kindNumeric | types.KindBytes
	case OpAnd, OpOr:
		return types.KindBoolean | types.KindNull
	default:
		return types.KindAny
	}
}

// opTypeDef derives the operator's descriptor from the operand
// descriptors. Fallibility is the operator's own rule: an operation whose
// operand shapes are statically homogeneous cannot mismatch at runtime,
// while division can always fail on a zero divisor.
func opTypeDef(op OpKind, lt, rt types.TypeDef) types.TypeDef {
	lk, rk := lt.Kind(), rt.Kind()
	switch op {
	case OpEq, OpNe:
		return types.Boolean()
	case OpAnd, OpOr:
		homogeneous := (types.KindBoolean | types.KindNull).Contains(lk) &&
			(types.KindBoolean | types.KindNull).Contains(rk)
		return types.Boolean().WithFallibility(!homogeneous)
	case OpGt, OpGe, OpLt, OpLe:
		comparable := (kindNumeric.Contains(lk) && kindNumeric.Contains(rk)) ||
			(lk.Is(types.KindBytes) && rk.Is(types.KindBytes))
		return types.Boolean().WithFallibility(!comparable)
	case OpDiv:
		return types.Float().Fallible()
	case OpAdd:
		if lk.Is(types.KindBytes) && rk.Is(types.KindBytes) {
			return types.Bytes()
		}
		if kindNumeric.Contains(lk) && kindNumeric.Contains(rk) {
			return numericResult(lk, rk)
		}
		mixed := types.Def(lk.Union(rk).Union(types.KindBytes) & (kindNumeric | types.KindBytes))
		return mixed.Fallible()
	default: // OpSub, OpMul
		if kindNumeric.Contains(lk) && kindNumeric.Contains(rk) {
			return numericResult(lk, rk)
		}
		return types.Integer().Union(types.Float()).Fallible()
	}
}

func numericResult(lk, rk types.Kind) types.TypeDef {
	if lk.Is(types.KindInteger) && rk.Is(types.KindInteger) {
		return types.Integer()
	}
	if lk.Is(types.KindFloat) && rk.Is(types.KindFloat) {
		return types.Float()
	}
	return types.Integer().Union(types.Float())
}

func (o *Op) Resolve(ctx *Context) (value.Value, *ExpressionError) {
	// Logical operators short-circuit in the scalar path.
	if o.op == OpAnd || o.op == OpOr {
		return o.resolveLogical(ctx)
	}

	l, err := o.lhs.Resolve(ctx)
	if err != nil {
		return value.Value{}, err
	}
	r, err := o.rhs.Resolve(ctx)
	if err != nil {
		return value.Value{}, err
	}
	return evalOp(o.op, l, r, o.span)
}

func (o *Op) resolveLogical(ctx *Context) (value.Value, *ExpressionError) {
	l, err := o.lhs.Resolve(ctx)
	if err != nil {
		return value.Value{}, err
	}
	lb, cerr := truthy(l, o.span)
	if cerr != nil {
		return value.Value{}, cerr
	}
	if o.op == OpAnd && !lb {
		return value.Boolean(false), nil
	}
	if o.op == OpOr && lb {
		return value.Boolean(true), nil
	}
	r, err := o.rhs.Resolve(ctx)
	if err != nil {
		return value.Value{}, err
	}
	rb, cerr := truthy(r, o.span)
	if cerr != nil {
		return value.Value{}, cerr
	}
	return value.Boolean(rb), nil
}

// ResolveBatch evaluates both operands across the batch, then combines
// per slot. An operand failure on one slot becomes that slot's outcome
// without disturbing the rest; logical operators do not short-circuit
// here, the lhs outcome simply wins where it decides the result.
func (o *Op) ResolveBatch(ctx *BatchContext) {
	o.lhs.ResolveBatch(ctx)
	left := make(map[int]Resolved, ctx.Size())
	for _, i := range ctx.Pending() {
		left[i] = ctx.Take(i)
	}

	o.rhs.ResolveBatch(ctx)
	for _, i := range ctx.Pending() {
		right := ctx.Take(i)
		ctx.Put(i, o.combine(left[i], right))
	}
}

func (o *Op) combine(left, right Resolved) Resolved {
	if left.Failed() {
		return left
	}
	if o.op == OpAnd || o.op == OpOr {
		lb, cerr := truthy(left.Value, o.span)
		if cerr != nil {
			return ResolvedError(cerr)
		}
		if o.op == OpAnd && !lb {
			return ResolvedValue(value.Boolean(false))
		}
		if o.op == OpOr && lb {
			return ResolvedValue(value.Boolean(true))
		}
		if right.Failed() {
			return right
		}
		rb, cerr := truthy(right.Value, o.span)
		if cerr != nil {
			return ResolvedError(cerr)
		}
		return ResolvedValue(value.Boolean(rb))
	}
	if right.Failed() {
		return right
	}
	v, err := evalOp(o.op, left.Value, right.Value, o.span)
	if err != nil {
		return ResolvedError(err)
	}
	return ResolvedValue(v)
}

func (o *Op) TypeDef(_ *TypeState) types.TypeDef {
	return o.td
}

func (o *Op) String() string {
	var b strings.Builder
	b.WriteString(o.lhs.String())
	b.WriteString(" ")
	b.WriteString(o.op.String())
	b.WriteString(" ")
	b.WriteString(o.rhs.String())
	return b.String()
}

func (o *Op) isExpression() {}
