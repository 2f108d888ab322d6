package expr

import (
	"remap/internal/ast"
	"remap/internal/diag"
)

// Compile validates a raw parse tree into a Program. Construction is the
// only place static errors originate: every rejected node adds one
// diagnostic to the bag and compilation of the remaining statements
// continues, so one program pass reports as many violations as possible.
// A Program is returned only when the bag stays free of errors.
func Compile(prog *ast.Program, state *TypeState, bag *diag.Bag) (*Program, bool) {
	c := &compiler{state: state, bag: bag}

	stmts := make([]Expression, 0, len(prog.Stmts))
	for _, stmt := range prog.Stmts {
		if node := c.compile(stmt); node != nil {
			stmts = append(stmts, node)
		}
	}

	if c.failed || bag.HasErrors() {
		return nil, false
	}
	return NewProgram(stmts, prog.Span(), state), true
}

type compiler struct {
	state  *TypeState
	bag    *diag.Bag
	failed bool
}

func (c *compiler) reject(d *diag.Diagnostic) {
	c.failed = true
	c.bag.Add(d)
}

// compile builds one validated node; nil states that a diagnostic was
// already recorded somewhere below.
func (c *compiler) compile(n ast.Node) Expression {
	switch x := n.(type) {
	case *ast.Literal:
		return NewLiteral(x.Val, x.Sp)

	case *ast.Query:
		return NewQuery(x.Path, x.Sp)

	case *ast.Variable:
		node, d := NewVariable(x.Name, x.Sp, c.state)
		if d != nil {
			c.reject(d)
			return nil
		}
		return node

	case *ast.Assign:
		val := c.compile(x.Value)
		if val == nil {
			return nil
		}
		spanned := Spanned{Expr: val, Span: x.Value.Span()}
		switch target := x.Target.(type) {
		case *ast.Query:
			return NewPathAssign(target.Path, spanned, x.Sp, c.state)
		case *ast.Variable:
			return NewVariableAssign(target.Name, spanned, x.Sp, c.state)
		default:
			c.reject(diag.NewError(diag.SynUnexpectedToken,
				diag.Primary("only a field path or a variable can be assigned to", x.Target.Span())))
			return nil
		}

	case *ast.Binary:
		lhs := c.compile(x.Lhs)
		rhs := c.compile(x.Rhs)
		if lhs == nil || rhs == nil {
			return nil
		}
		node, d := NewOp(binOpKind(x.Op),
			Spanned{Expr: lhs, Span: x.Lhs.Span()},
			Spanned{Expr: rhs, Span: x.Rhs.Span()},
			x.Sp, c.state)
		if d != nil {
			c.reject(d)
			return nil
		}
		return node

	case *ast.If:
		cond := c.compile(x.Cond)
		then := c.compile(x.Then)
		var alt Expression
		if x.Else != nil {
			alt = c.compile(x.Else)
			if alt == nil {
				return nil
			}
		}
		if cond == nil || then == nil {
			return nil
		}
		node, d := NewIfStatement(
			Spanned{Expr: cond, Span: x.Cond.Span()},
			then, alt, x.Sp, c.state)
		if d != nil {
			c.reject(d)
			return nil
		}
		return node

	case *ast.Abort:
		var message *Spanned
		if x.Message != nil {
			child := c.compile(x.Message)
			if child == nil {
				return nil
			}
			message = &Spanned{Expr: child, Span: x.Message.Span()}
		}
		node, d := NewAbort(x.Sp, message, c.state)
		if d != nil {
			c.reject(d)
			return nil
		}
		return node

	case *ast.Block:
		stmts := make([]Expression, 0, len(x.Stmts))
		ok := true
		for _, stmt := range x.Stmts {
			node := c.compile(stmt)
			if node == nil {
				ok = false
				continue
			}
			stmts = append(stmts, node)
		}
		if !ok {
			return nil
		}
		return NewBlock(stmts, x.Sp)

	default:
		c.reject(diag.NewError(diag.SynUnexpectedToken,
			diag.Primary("unsupported syntax node", n.Span())))
		return nil
	}
}

func binOpKind(op ast.BinOp) OpKind {
	switch op {
	case ast.OpAdd:
		return OpAdd
	case ast.OpSub:
		return OpSub
	case ast.OpMul:
		return OpMul
	case ast.OpDiv:
		return OpDiv
	case ast.OpEq:
		return OpEq
	case ast.OpNe:
		return OpNe
	case ast.OpGt:
		return OpGt
	case ast.OpGe:
		return OpGe
	case ast.OpLt:
		return OpLt
	case ast.OpLe:
		return OpLe
	case ast.OpAnd:
		return OpAnd
	default:
		return OpOr
	}
}
