package ir

import (
	"fmt"

	"sysyc/internal/types"
)

// BasicBlock is a straight-line instruction sequence terminated by
// exactly one of Branch, Jump, or Return: a block's last instruction
// must be a terminator, and no earlier instruction may be one.
type BasicBlock struct {
	f            *Function
	id           int
	name         string // optional source-level hint (e.g. "while.cond"); may be empty
	Instructions []Value
	Terminated   bool
}

// Id returns the block's function-local unique identifier.
func (b *BasicBlock) Id() int { return b.id }

// Name returns the block's textual label. Back lowering does not use
// this directly (it numbers blocks lazily by DFS order instead); this
// is for the koopa text printer and diagnostics.
func (b *BasicBlock) Name() string {
	if b.name != "" {
		return fmt.Sprintf("%%%s_%d", b.name, b.id)
	}
	return fmt.Sprintf("%%bb%d", b.id)
}

func (b *BasicBlock) append(v Value) {
	if b.Terminated {
		panic(fmt.Sprintf("ir: block %s already terminated, cannot append %s", b.Name(), v.Kind()))
	}
	b.Instructions = append(b.Instructions, v)
}

func (b *BasicBlock) new(kind ValueKind, ty types.Type) baseValue {
	return baseValue{id: b.f.nextID(), kind: kind, ty: ty}
}

// CreateAlloc reserves a stack slot for a value of type elem.
func (b *BasicBlock) CreateAlloc(elem types.Type) *Alloc {
	v := &Alloc{baseValue: b.new(KindAlloc, types.NewPointer(elem)), Elem: elem}
	b.append(v)
	return v
}

// CreateLoad reads the value stored at src.
func (b *BasicBlock) CreateLoad(src Value) *Load {
	v := &Load{baseValue: b.new(KindLoad, pointeeOrElem(src)), Src: src}
	b.append(v)
	return v
}

// CreateStore writes val into dest.
func (b *BasicBlock) CreateStore(val, dest Value) *Store {
	v := &Store{baseValue: b.new(KindStore, types.Void), Val: val, Dest: dest}
	b.append(v)
	return v
}

// CreateBinary computes lhs op rhs, always producing an i32.
func (b *BasicBlock) CreateBinary(op BinaryOp, lhs, rhs Value) *Binary {
	v := &Binary{baseValue: b.new(KindBinary, types.I32), Op: op, LHS: lhs, RHS: rhs}
	b.append(v)
	return v
}

// CreateBranch terminates b with a two-way conditional branch.
func (b *BasicBlock) CreateBranch(cond Value, t, f *BasicBlock) *Branch {
	v := &Branch{baseValue: b.new(KindBranch, types.Void), Cond: cond, True: t, False: f}
	b.append(v)
	b.Terminated = true
	return v
}

// CreateJump terminates b with an unconditional jump.
func (b *BasicBlock) CreateJump(target *BasicBlock) *Jump {
	v := &Jump{baseValue: b.new(KindJump, types.Void), Target: target}
	b.append(v)
	b.Terminated = true
	return v
}

// CreateReturn terminates b. val is nil for a void return.
func (b *BasicBlock) CreateReturn(val Value) *Return {
	v := &Return{baseValue: b.new(KindReturn, types.Void), Val: val}
	b.append(v)
	b.Terminated = true
	return v
}

// CreateCall invokes callee with args, in source evaluation order.
func (b *BasicBlock) CreateCall(callee *Function, args []Value) *Call {
	v := &Call{baseValue: b.new(KindCall, callee.Sig.Ret), Callee: callee, Args: args}
	b.append(v)
	return v
}

// CreateGetElemPtr computes the address of the index-th element of array
// src.
func (b *BasicBlock) CreateGetElemPtr(src, index Value) *GetElemPtr {
	v := &GetElemPtr{baseValue: b.new(KindGetElemPtr, types.NewPointer(elementOf(src))), Src: src, Index: index}
	b.append(v)
	return v
}

// CreateGetPtr computes the address of the index-th element reached from
// pointer src.
func (b *BasicBlock) CreateGetPtr(src, index Value) *GetPtr {
	v := &GetPtr{baseValue: b.new(KindGetPtr, types.NewPointer(pointeeOrElem(src))), Src: src, Index: index}
	b.append(v)
	return v
}

// elementOf returns the element type of an array-typed pointer (the type
// an Alloc/GlobalAlloc/GetElemPtr of an array produces).
func elementOf(src Value) types.Type {
	t := src.Type()
	if t.IsPointer() {
		t = t.Elem()
	}
	if t.IsArray() {
		return t.Elem()
	}
	return t
}

// pointeeOrElem returns the type Load should yield for src, and the
// element type GetPtr should step to: the pointee of src's pointer type,
// narrowed by one more array-nesting level if that pointee is itself an
// array, or src's own array element if src denotes an array slot directly.
func pointeeOrElem(src Value) types.Type {
	t := src.Type()
	if t.IsPointer() {
		t = t.Elem()
	}
	if t.IsArray() {
		return t.Elem()
	}
	return t
}
