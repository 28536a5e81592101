package ir

import (
	"fmt"
	"strings"

	"sysyc/internal/types"
)

// Integer is a dataflow constant; it never becomes an instruction
// (nothing is emitted for a literal), so Id is not part of a block's
// instruction stream — it exists purely so literals can be passed
// anywhere a Value is expected.
type Integer struct {
	baseValue
	Val int32
}

func NewInteger(v int32) *Integer {
	return &Integer{baseValue: baseValue{kind: KindInteger, ty: types.I32}, Val: v}
}

func (v *Integer) String() string { return fmt.Sprintf("%d", v.Val) }

// FuncArgRef is a reference to the Index-th parameter of the owning
// Function, before it is spilled to its Alloc'd stack slot.
type FuncArgRef struct {
	baseValue
	Index int
}

func (v *FuncArgRef) String() string { return fmt.Sprintf("@arg%d", v.Index) }

// Alloc reserves a stack slot able to hold a value of Elem; its own Type
// is pointer(Elem).
type Alloc struct {
	baseValue
	Elem types.Type
}

func (v *Alloc) String() string {
	return fmt.Sprintf("%s = alloc %s", v.name(), v.Elem.String())
}

// GlobalAlloc is a top-level global slot with a compile-time
// initializer: Init is an Integer, Aggregate, or ZeroInit value.
type GlobalAlloc struct {
	baseValue
	Name string
	Elem types.Type
	Init Value
}

func (v *GlobalAlloc) String() string {
	return fmt.Sprintf("global %s = alloc %s, %s", v.Name, v.Elem.String(), v.Init.String())
}

// Load reads the value currently stored at Src (an Alloc, GlobalAlloc,
// GetElemPtr, or GetPtr result).
type Load struct {
	baseValue
	Src Value
}

func (v *Load) String() string { return fmt.Sprintf("%s = load %s", v.name(), ref(v.Src)) }

// Store writes Val into Dest.
type Store struct {
	baseValue
	Val  Value
	Dest Value
}

func (v *Store) String() string { return fmt.Sprintf("store %s, %s", ref(v.Val), ref(v.Dest)) }

// Binary computes LHS Op RHS.
type Binary struct {
	baseValue
	Op       BinaryOp
	LHS, RHS Value
}

func (v *Binary) String() string {
	return fmt.Sprintf("%s = %s %s, %s", v.name(), v.Op, ref(v.LHS), ref(v.RHS))
}

// Branch is a two-way conditional terminator.
type Branch struct {
	baseValue
	Cond        Value
	True, False *BasicBlock
}

func (v *Branch) String() string {
	return fmt.Sprintf("br %s, %s, %s", ref(v.Cond), v.True.Name(), v.False.Name())
}

// Jump is an unconditional terminator.
type Jump struct {
	baseValue
	Target *BasicBlock
}

func (v *Jump) String() string { return fmt.Sprintf("jump %s", v.Target.Name()) }

// Return is a function terminator; Val is nil for a void return.
type Return struct {
	baseValue
	Val Value
}

func (v *Return) String() string {
	if v.Val == nil {
		return "ret"
	}
	return fmt.Sprintf("ret %s", ref(v.Val))
}

// Call invokes Callee with Args, in source left-to-right evaluation order.
type Call struct {
	baseValue
	Callee *Function
	Args   []Value
}

func (v *Call) String() string {
	parts := make([]string, len(v.Args))
	for i, a := range v.Args {
		parts[i] = ref(a)
	}
	prefix := ""
	if !v.ty.IsUnit() {
		prefix = v.name() + " = "
	}
	return fmt.Sprintf("%scall %s(%s)", prefix, v.Callee.Name, strings.Join(parts, ", "))
}

// GetElemPtr computes the address of the Index-th element of array Src.
type GetElemPtr struct {
	baseValue
	Src   Value
	Index Value
}

func (v *GetElemPtr) String() string {
	return fmt.Sprintf("%s = getelemptr %s, %s", v.name(), ref(v.Src), ref(v.Index))
}

// GetPtr computes the address of the Index-th element reached from
// pointer Src.
type GetPtr struct {
	baseValue
	Src   Value
	Index Value
}

func (v *GetPtr) String() string {
	return fmt.Sprintf("%s = getptr %s, %s", v.name(), ref(v.Src), ref(v.Index))
}

// Aggregate is a nested-array constant, used only as a GlobalAlloc
// initializer or a leaf of another Aggregate; the canonical initializer
// tree materializes directly into this shape for globals.
type Aggregate struct {
	baseValue
	Elems []Value
}

// NewAggregate builds a nested-array constant of type ty from already-built
// element values (each itself an Integer or a nested Aggregate).
func NewAggregate(ty types.Type, elems []Value) *Aggregate {
	return &Aggregate{baseValue: baseValue{kind: KindAggregate, ty: ty}, Elems: elems}
}

func (v *Aggregate) String() string {
	parts := make([]string, len(v.Elems))
	for i, e := range v.Elems {
		parts[i] = e.String()
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}

// ZeroInit is an all-zero constant of type Ty, used as a GlobalAlloc
// initializer when no explicit initializer was supplied.
type ZeroInit struct {
	baseValue
	Ty types.Type
}

// NewZeroInit builds an all-zero constant of type ty.
func NewZeroInit(ty types.Type) *ZeroInit {
	return &ZeroInit{baseValue: baseValue{kind: KindZeroInit, ty: ty}, Ty: ty}
}

func (v *ZeroInit) String() string { return fmt.Sprintf("zeroinit %s", v.Ty.String()) }

// ref renders a Value reference for use inside another instruction's
// textual form: literals print their value, everything else prints its
// virtual register name.
func ref(v Value) string {
	if v == nil {
		return "<nil>"
	}
	if i, ok := v.(*Integer); ok {
		return i.String()
	}
	if g, ok := v.(*GlobalAlloc); ok {
		return g.Name
	}
	if a, ok := v.(*FuncArgRef); ok {
		return a.String()
	}
	return fmt.Sprintf("%%%d", v.Id())
}
