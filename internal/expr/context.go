package expr

import (
	"strings"

	"remap/internal/value"
)

// Target is the record under transformation, as supplied by the host.
// Paths are pre-split field chains.
type Target interface {
	Get(path []string) (value.Value, bool)
	Set(path []string, v value.Value)
}

// ObjectTarget is a map-backed Target for hosts that decode records into
// plain objects, and for tests.
type ObjectTarget struct {
	root value.Value
}

func NewObjectTarget(root value.Value) *ObjectTarget {
	if root.Kind != value.VKObject {
		root = value.Object(map[string]value.Value{})
	}
	return &ObjectTarget{root: root}
}

// Value returns the current state of the record.
func (t *ObjectTarget) Value() value.Value {
	return t.root
}

func (t *ObjectTarget) Get(path []string) (value.Value, bool) {
	cur := t.root
	for _, seg := range path {
		if cur.Kind != value.VKObject {
			return value.Null(), false
		}
		next, ok := cur.Object[seg]
		if !ok {
			return value.Null(), false
		}
		cur = next
	}
	return cur, true
}

func (t *ObjectTarget) Set(path []string, v value.Value) {
	if len(path) == 0 {
		if v.Kind == value.VKObject {
			t.root = v
		}
		return
	}
	obj := t.root.Object
	for _, seg := range path[:len(path)-1] {
		next, ok := obj[seg]
		if !ok || next.Kind != value.VKObject {
			next = value.Object(map[string]value.Value{})
			obj[seg] = next
		}
		obj = next.Object
	}
	obj[path[len(path)-1]] = v
}

// Context is the single-record evaluation environment: the target record
// plus the record's own variable state. It lives for exactly one
// evaluation and is exclusively owned by the call in flight, so no
// locking happens anywhere in the resolve path.
type Context struct {
	target Target
	vars   map[string]value.Value
}

func NewContext(target Target) *Context {
	return &Context{
		target: target,
		vars:   make(map[string]value.Value),
	}
}

func (c *Context) Target() Target {
	return c.target
}

func (c *Context) Variable(name string) (value.Value, bool) {
	v, ok := c.vars[name]
	return v, ok
}

func (c *Context) SetVariable(name string, v value.Value) {
	c.vars[name] = v
}

func pathString(path []string) string {
	return "." + strings.Join(path, ".")
}
