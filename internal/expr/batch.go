package expr

import (
	"remap/internal/value"
)

// Resolved is one record's current outcome inside a batch: either a value
// or a runtime failure, never both.
type Resolved struct {
	Value value.Value
	Err   *ExpressionError
}

func ResolvedValue(v value.Value) Resolved {
	return Resolved{Value: v}
}

func ResolvedError(err *ExpressionError) Resolved {
	return Resolved{Err: err}
}

func (r Resolved) Failed() bool {
	return r.Err != nil
}

type slot struct {
	ctx      *Context
	resolved Resolved
	// done seals the slot once its record reached a terminal outcome;
	// later nodes skip sealed slots, preserving per-record isolation.
	done bool
}

// BatchContext is the vectorized evaluation environment: a fixed-length,
// ordered sequence of per-record slots. Slot order corresponds 1:1 to
// input record order and never changes for the lifetime of the batch.
//
// Nodes access outcomes through the move-and-replace discipline: Take
// moves the outcome out (leaving a placeholder), the node computes a
// replacement, and Put writes it back. The net visible effect is one
// read-then-write per slot per node.
//
// A BatchContext may be a selection over a parent's slots (used by
// branching nodes); selections share the backing slots, so writes are
// visible to the parent.
type BatchContext struct {
	slots []slot
	sel   []int // indices into slots visible to this context
}

// NewBatchContext builds a batch over the given targets. Every slot
// starts as a pending null success.
func NewBatchContext(targets []Target) *BatchContext {
	slots := make([]slot, len(targets))
	sel := make([]int, len(targets))
	for i, t := range targets {
		slots[i] = slot{
			ctx:      NewContext(t),
			resolved: ResolvedValue(value.Null()),
		}
		sel[i] = i
	}
	return &BatchContext{slots: slots, sel: sel}
}

// Size returns the number of slots visible to this context.
func (b *BatchContext) Size() int {
	return len(b.sel)
}

// Pending returns the visible slot indices that are not yet sealed, in
// input order. Every node visits each pending slot exactly once; no
// particular cross-slot order may be assumed beyond that.
func (b *BatchContext) Pending() []int {
	out := make([]int, 0, len(b.sel))
	for _, i := range b.sel {
		if !b.slots[i].done {
			out = append(out, i)
		}
	}
	return out
}

// Select derives a context restricted to the given absolute slot indices.
// The backing slots are shared with the parent.
func (b *BatchContext) Select(indices []int) *BatchContext {
	return &BatchContext{slots: b.slots, sel: indices}
}

// Context returns the per-record evaluation environment of a slot.
func (b *BatchContext) Context(i int) *Context {
	return b.slots[i].ctx
}

// Take moves the slot's current outcome out, leaving a null-success
// placeholder. The caller must Put a replacement before returning.
func (b *BatchContext) Take(i int) Resolved {
	r := b.slots[i].resolved
	b.slots[i].resolved = ResolvedValue(value.Null())
	return r
}

// Put writes the slot's replacement outcome.
func (b *BatchContext) Put(i int, r Resolved) {
	b.slots[i].resolved = r
}

// Seal marks a record's outcome terminal. Called by statement sequencers
// after a slot fails so that later statements skip it.
func (b *BatchContext) Seal(i int) {
	b.slots[i].done = true
}

// SealFailed seals every visible slot whose outcome is a failure.
func (b *BatchContext) SealFailed() {
	for _, i := range b.sel {
		if b.slots[i].resolved.Failed() {
			b.slots[i].done = true
		}
	}
}

// Outcomes returns every slot's final outcome in input order. Only the
// host consumes this, after evaluation finished.
func (b *BatchContext) Outcomes() []Resolved {
	out := make([]Resolved, len(b.slots))
	for i := range b.slots {
		out[i] = b.slots[i].resolved
	}
	return out
}
