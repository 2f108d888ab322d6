// Package expr implements the expression-node contract at the center of
// the Remap evaluation core: construction-time validation, scalar
// resolution against one record, and vectorized resolution against a
// batch of records.
package expr

import (
	"fmt"

	"remap/internal/types"
	"remap/internal/value"
)

// Expression is the contract every node kind satisfies. The set of
// implementations is closed; construction goes through the per-kind New*
// functions, which are the only origin of compile-time diagnostics.
//
// TypeDef must be a pure function of the node and its children and must
// never fail. Resolve evaluates exactly once against one record and must
// not retain the context. ResolveBatch evaluates every pending slot of the
// batch in place; one record's failure must never block another's
// progress.
type Expression interface {
	fmt.Stringer

	Resolve(ctx *Context) (value.Value, *ExpressionError)
	ResolveBatch(ctx *BatchContext)
	TypeDef(state *TypeState) types.TypeDef

	isExpression()
}

// TypeState is the static environment visible while constructing and
// type-checking a tree: the descriptors of local variables plus the
// assumed shape of the external record.
type TypeState struct {
	external types.TypeDef
	locals   map[string]types.TypeDef
}

func NewTypeState() *TypeState {
	return &TypeState{
		external: types.Any(),
		locals:   make(map[string]types.TypeDef),
	}
}

// External returns the descriptor assumed for paths read from the record.
func (s *TypeState) External() types.TypeDef {
	return s.external
}

// Local returns the descriptor of a local variable, if declared.
func (s *TypeState) Local(name string) (types.TypeDef, bool) {
	td, ok := s.locals[name]
	return td, ok
}

// SetLocal records the descriptor of a local variable.
func (s *TypeState) SetLocal(name string, td types.TypeDef) {
	s.locals[name] = td
}
