// Package ir is the in-memory SSA-style intermediate representation that
// front lowering builds and back lowering consumes. It uses a builder
// pattern: Create* methods on Block/Function/Program return typed
// instruction structs that all satisfy a shared Value interface. The
// Value interface stays minimal — no register-allocation bookkeeping —
// since this compiler never allocates registers; every value lives on
// the stack.
package ir

import (
	"fmt"

	"sysyc/internal/types"
)

// ValueKind is the closed set of instruction/value kinds the IR supports.
type ValueKind int

const (
	KindInteger ValueKind = iota
	KindFuncArgRef
	KindAlloc
	KindGlobalAlloc
	KindLoad
	KindStore
	KindBinary
	KindBranch
	KindJump
	KindReturn
	KindCall
	KindGetElemPtr
	KindGetPtr
	KindAggregate
	KindZeroInit
)

func (k ValueKind) String() string {
	switch k {
	case KindInteger:
		return "Integer"
	case KindFuncArgRef:
		return "FuncArgRef"
	case KindAlloc:
		return "Alloc"
	case KindGlobalAlloc:
		return "GlobalAlloc"
	case KindLoad:
		return "Load"
	case KindStore:
		return "Store"
	case KindBinary:
		return "Binary"
	case KindBranch:
		return "Branch"
	case KindJump:
		return "Jump"
	case KindReturn:
		return "Return"
	case KindCall:
		return "Call"
	case KindGetElemPtr:
		return "GetElemPtr"
	case KindGetPtr:
		return "GetPtr"
	case KindAggregate:
		return "Aggregate"
	case KindZeroInit:
		return "ZeroInit"
	default:
		return "?"
	}
}

// Value is a handle to one node of the data-flow graph: either a
// dataflow constant (Integer), a reference (FuncArgRef), or an
// instruction. A Value's identity is stable for the owning Program's
// lifetime; front lowering never mutates a Value after creation, it
// only appends new ones.
type Value interface {
	Id() int
	Kind() ValueKind
	Type() types.Type
	String() string
}

// BinaryOp is the closed set of IR binary operators. And/Or here are the
// bitwise forms that Binary instructions use once front lowering has
// expanded source-level short-circuit && / || into explicit branches and
// stack slots; constfold additionally treats And/Or as logical when
// folding purely constant short-circuit expressions.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	And
	Or
	Xor
	Shl
	Shr
	Sar
	Eq
	NotEq
	Lt
	Gt
	Le
	Ge
)

var binaryOpNames = map[BinaryOp]string{
	Add: "add", Sub: "sub", Mul: "mul", Div: "div", Mod: "mod",
	And: "and", Or: "or", Xor: "xor", Shl: "shl", Shr: "shr", Sar: "sar",
	Eq: "eq", NotEq: "ne", Lt: "lt", Gt: "gt", Le: "le", Ge: "ge",
}

func (op BinaryOp) String() string {
	if s, ok := binaryOpNames[op]; ok {
		return s
	}
	return "?"
}

// idGen hands out a monotonically increasing sequence number, scoped to
// one Function (or to the Program for globals).
type idGen struct{ next int }

func (g *idGen) next_() int {
	id := g.next
	g.next++
	return id
}

// baseValue factors the Id/Kind/Type triple every concrete instruction
// embeds, avoiding repeating the same three one-line methods fifteen times.
type baseValue struct {
	id   int
	kind ValueKind
	ty   types.Type
}

func (b *baseValue) Id() int           { return b.id }
func (b *baseValue) Kind() ValueKind   { return b.kind }
func (b *baseValue) Type() types.Type  { return b.ty }

func (b *baseValue) name() string { return fmt.Sprintf("%%%d", b.id) }
