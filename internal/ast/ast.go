// Package ast holds the raw parse tree handed to the expression
// compiler. Nodes carry spans and pre-parsed children only; no source
// text survives past the parser.
package ast

import (
	"remap/internal/source"
	"remap/internal/value"
)

// Node is a raw, unvalidated syntax node.
type Node interface {
	Span() source.Span
}

// BinOp enumerates the surface binary operators.
type BinOp uint8

const (
	OpAdd BinOp = iota
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

// Program is an ordered sequence of top-level statements.
type Program struct {
	Stmts []Node
	Sp    source.Span
}

func (p *Program) Span() source.Span { return p.Sp }

// Literal is a constant scalar value.
type Literal struct {
	Val value.Value
	Sp  source.Span
}

func (l *Literal) Span() source.Span { return l.Sp }

// Query is a dotted path into the external record, e.g. `.http.status`.
type Query struct {
	Path []string
	Sp   source.Span
}

func (q *Query) Span() source.Span { return q.Sp }

// Variable is a reference to a local variable.
type Variable struct {
	Name string
	Sp   source.Span
}

func (v *Variable) Span() source.Span { return v.Sp }

// Assign writes the value of an expression to a record path or a local
// variable. Target is a *Query or a *Variable.
type Assign struct {
	Target Node
	Value  Node
	Sp     source.Span
}

func (a *Assign) Span() source.Span { return a.Sp }

// Binary applies an infix operator to two operands.
type Binary struct {
	Op       BinOp
	Lhs, Rhs Node
	Sp       source.Span
}

func (b *Binary) Span() source.Span { return b.Sp }

// If is a conditional with an optional else branch.
type If struct {
	Cond Node
	Then Node
	Else Node // nil when absent
	Sp   source.Span
}

func (i *If) Span() source.Span { return i.Sp }

// Abort terminates the current record, optionally with a message
// expression.
type Abort struct {
	Message Node // nil when absent
	Sp      source.Span
}

func (a *Abort) Span() source.Span { return a.Sp }

// Block is a braced sequence of statements.
type Block struct {
	Stmts []Node
	Sp    source.Span
}

func (b *Block) Span() source.Span { return b.Sp }
