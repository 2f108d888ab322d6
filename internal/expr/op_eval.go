package expr

import (
	"remap/internal/source"
	"remap/internal/value"
)

// evalOp applies a non-logical operator to two resolved operands.
func evalOp(op OpKind, l, r value.Value, span source.Span) (value.Value, *ExpressionError) {
	switch op {
	case OpEq:
		return value.Boolean(equalValues(l, r)), nil
	case OpNe:
		return value.Boolean(!equalValues(l, r)), nil
	case OpAdd:
		return evalAdd(l, r, span)
	case OpSub, OpMul:
		return evalArith(op, l, r, span)
	case OpDiv:
		return evalDiv(l, r, span)
	case OpGt, OpGe, OpLt, OpLe:
		return evalCompare(op, l, r, span)
	default:
		return value.Value{}, NewError(span, "unsupported operator %q", op)
	}
}

// equalValues compares operands of == and !=. Numbers compare
// numerically across the integer and float kinds, since decoders are
// free to pick either representation for the same record; everything
// else is structural.
func equalValues(l, r value.Value) bool {
	if l.Kind == r.Kind {
		return l.Equal(r)
	}
	_, lf, _, lok := numeric(l)
	_, rf, _, rok := numeric(r)
	return lok && rok && lf == rf
}

func evalAdd(l, r value.Value, span source.Span) (value.Value, *ExpressionError) {
	if l.Kind == value.VKBytes && r.Kind == value.VKBytes {
		out := make([]byte, 0, len(l.Bytes)+len(r.Bytes))
		out = append(out, l.Bytes...)
		out = append(out, r.Bytes...)
		return value.Bytes(out), nil
	}
	return evalArith(OpAdd, l, r, span)
}

func evalArith(op OpKind, l, r value.Value, span source.Span) (value.Value, *ExpressionError) {
	li, lf, lIsInt, ok := numeric(l)
	if !ok {
		return value.Value{}, NewError(span, "cannot apply %q to %s operand", op, l.Kind)
	}
	ri, rf, rIsInt, ok := numeric(r)
	if !ok {
		return value.Value{}, NewError(span, "cannot apply %q to %s operand", op, r.Kind)
	}

	if lIsInt && rIsInt {
		switch op {
		case OpAdd:
			return value.Integer(li + ri), nil
		case OpSub:
			return value.Integer(li - ri), nil
		default:
			return value.Integer(li * ri), nil
		}
	}
	switch op {
	case OpAdd:
		return value.Float(lf + rf), nil
	case OpSub:
		return value.Float(lf - rf), nil
	default:
		return value.Float(lf * rf), nil
	}
}

func evalDiv(l, r value.Value, span source.Span) (value.Value, *ExpressionError) {
	_, lf, _, ok := numeric(l)
	if !ok {
		return value.Value{}, NewError(span, "cannot divide %s operand", l.Kind)
	}
	_, rf, _, ok := numeric(r)
	if !ok {
		return value.Value{}, NewError(span, "cannot divide by %s operand", r.Kind)
	}
	if rf == 0 {
		return value.Value{}, NewError(span, "cannot divide by zero")
	}
	return value.Float(lf / rf), nil
}

func evalCompare(op OpKind, l, r value.Value, span source.Span) (value.Value, *ExpressionError) {
	if l.Kind == value.VKBytes && r.Kind == value.VKBytes {
		return value.Boolean(compareOrdered(op, string(l.Bytes), string(r.Bytes))), nil
	}
	_, lf, _, lok := numeric(l)
	_, rf, _, rok := numeric(r)
	if !lok || !rok {
		return value.Value{}, NewError(span, "cannot compare %s with %s", l.Kind, r.Kind)
	}
	return value.Boolean(compareOrdered(op, lf, rf)), nil
}

func compareOrdered[T string | float64](op OpKind, l, r T) bool {
	switch op {
	case OpGt:
		return l > r
	case OpGe:
		return l >= r
	case OpLt:
		return l < r
	default:
		return l <= r
	}
}

// numeric extracts a value's numeric payload: integer form, float form and
// whether the value was an integer.
func numeric(v value.Value) (i int64, f float64, isInt, ok bool) {
	switch v.Kind {
	case value.VKInteger:
		return v.Int, float64(v.Int), true, true
	case value.VKFloat:
		return int64(v.Float), v.Float, false, true
	default:
		return 0, 0, false, false
	}
}

// truthy interprets a logical operand: booleans as themselves, null as
// false, anything else is a runtime mismatch.
func truthy(v value.Value, span source.Span) (bool, *ExpressionError) {
	switch v.Kind {
	case value.VKBoolean:
		return v.Bool, nil
	case value.VKNull:
		return false, nil
	default:
		return false, NewError(span, "expected boolean operand, got %s", v.Kind)
	}
}
