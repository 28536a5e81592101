// Package scope tracks lexical bindings during front lowering: a stack
// of frames, innermost on top, searched outward on lookup. Each bound
// name records its storage slot, declared array dimensions, whether it
// is a decayed pointer parameter, and (for const bindings) the constant
// value itself so the constant evaluator can fold reads without
// re-walking the AST.
package scope

import (
	"sysyc/internal/collections"
	"sysyc/internal/ir"
)

// Entry is one bound name.
type Entry struct {
	Name string

	// Slot is the memory location backing this binding: an *ir.Alloc or
	// *ir.GlobalAlloc. Function parameters (scalar and array alike) have
	// no Slot of their own until front lowering spills them into a fresh
	// Alloc; by the time an Entry is visible to lookups, Slot is always
	// set.
	Slot ir.Value

	// Dims holds the declared element counts of each array dimension, in
	// declaration order (empty for a plain scalar).
	Dims []int

	// IsPtr is true when this binding is a decayed pointer (an array
	// function parameter), so indexing starts with GetPtr rather than
	// GetElemPtr.
	IsPtr bool

	IsConst bool

	// ConstScalar is valid when IsConst && len(Dims) == 0.
	ConstScalar int32

	// ConstFlat is valid when IsConst && len(Dims) > 0: the initializer's
	// values flattened in row-major order.
	ConstFlat []int32
}

// Scope is a stack of binding frames. The zero value is ready to use.
type Scope struct {
	frames collections.Stack[map[string]*Entry]
}

// Open pushes a new, empty innermost frame.
func (s *Scope) Open() {
	s.frames.Push(make(map[string]*Entry))
}

// Close pops the innermost frame.
func (s *Scope) Close() {
	s.frames.Pop()
}

// Bind adds e to the innermost frame. It does not check for
// redeclaration; callers perform that check before calling Bind, since
// only they know the right diagnostic wording.
func (s *Scope) Bind(e *Entry) {
	frame, ok := s.frames.Peek()
	if !ok {
		panic("scope: Bind called with no open frame")
	}
	frame[e.Name] = e
}

// DeclaredInCurrentScope reports whether name is already bound in the
// innermost frame (used for the Redeclaration check, which is scoped to
// the current block, not outer ones).
func (s *Scope) DeclaredInCurrentScope(name string) bool {
	frame, ok := s.frames.Peek()
	if !ok {
		return false
	}
	_, found := frame[name]
	return found
}

// Lookup searches frames from innermost to outermost and returns the
// first match.
func (s *Scope) Lookup(name string) (*Entry, bool) {
	var found *Entry
	s.frames.Each(func(frame map[string]*Entry) bool {
		if e, ok := frame[name]; ok {
			found = e
			return false
		}
		return true
	})
	return found, found != nil
}
