package front

import (
	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/ir"
	"sysyc/internal/ir/scope"
	"sysyc/internal/types"
)

var binOpMap = map[ast.BinOp]ir.BinaryOp{
	ast.OpAdd: ir.Add, ast.OpSub: ir.Sub, ast.OpMul: ir.Mul,
	ast.OpDiv: ir.Div, ast.OpMod: ir.Mod,
	ast.OpLt: ir.Lt, ast.OpGt: ir.Gt, ast.OpLe: ir.Le, ast.OpGe: ir.Ge,
	ast.OpEq: ir.Eq, ast.OpNe: ir.NotEq,
}

// lowerExpr lowers e into the current block. It may append new basic
// blocks and reassign l.cur (short-circuit && / || and, via
// lowerLValRead's array decay, no new blocks but new instructions).
func (l *lowerer) lowerExpr(e ast.Expr) ir.Value {
	switch n := e.(type) {
	case *ast.IntLit:
		return ir.NewInteger(n.Val)

	case *ast.LVal:
		return l.lowerLValRead(n)

	case *ast.UnaryExpr:
		return l.lowerUnary(n)

	case *ast.BinaryExpr:
		return l.lowerBinary(n)

	case *ast.CallExpr:
		return l.lowerCall(n)

	default:
		l.bag.Add(diag.TypeMismatch, 0, 0, "unsupported expression")
		return ir.NewInteger(0)
	}
}

func (l *lowerer) lowerUnary(n *ast.UnaryExpr) ir.Value {
	v := l.lowerExpr(n.Operand)
	switch n.Op {
	case ast.UnaryPlus:
		return v
	case ast.UnaryNeg:
		return l.cur.CreateBinary(ir.Sub, ir.NewInteger(0), v)
	case ast.UnaryNot:
		return l.cur.CreateBinary(ir.Eq, v, ir.NewInteger(0))
	default:
		return v
	}
}

func (l *lowerer) lowerBinary(n *ast.BinaryExpr) ir.Value {
	if n.Op == ast.OpAnd || n.Op == ast.OpOr {
		return l.lowerShortCircuit(n)
	}
	lhs := l.lowerExpr(n.LHS)
	rhs := l.lowerExpr(n.RHS)
	op, ok := binOpMap[n.Op]
	if !ok {
		l.bag.Add(diag.TypeMismatch, n.Pos.Line, n.Pos.Col, "unsupported binary operator")
		return ir.NewInteger(0)
	}
	return l.cur.CreateBinary(op, lhs, rhs)
}

// lowerShortCircuit expands `&&`/`||` into the explicit branch-and-slot
// control flow: a result slot is allocated, the left operand decides
// whether the right operand is evaluated at all, and both paths
// converge on a join block that loads the slot.
//
//	&&:  result = 0; if (lhs != 0) { result = (rhs != 0) }
//	||:  result = 1; if (lhs == 0) { result = (rhs != 0) }
func (l *lowerer) lowerShortCircuit(n *ast.BinaryExpr) ir.Value {
	slot := l.cur.CreateAlloc(types.I32)
	lhs := l.lowerExpr(n.LHS)
	lhsBool := l.cur.CreateBinary(ir.NotEq, lhs, ir.NewInteger(0))

	rhsBlock := l.fn.CreateBlock("sc.rhs")
	joinBlock := l.fn.CreateBlock("sc.join")

	if n.Op == ast.OpAnd {
		skip := l.fn.CreateBlock("sc.skip")
		l.cur.CreateStore(ir.NewInteger(0), slot)
		l.cur.CreateBranch(lhsBool, rhsBlock, skip)
		l.cur = skip
		l.cur.CreateJump(joinBlock)
	} else {
		skip := l.fn.CreateBlock("sc.skip")
		l.cur.CreateStore(ir.NewInteger(1), slot)
		l.cur.CreateBranch(lhsBool, skip, rhsBlock)
		l.cur = skip
		l.cur.CreateJump(joinBlock)
	}

	l.cur = rhsBlock
	rhs := l.lowerExpr(n.RHS)
	rhsBool := l.cur.CreateBinary(ir.NotEq, rhs, ir.NewInteger(0))
	l.cur.CreateStore(rhsBool, slot)
	l.cur.CreateJump(joinBlock)

	l.cur = joinBlock
	return l.cur.CreateLoad(slot)
}

func (l *lowerer) lowerCall(n *ast.CallExpr) ir.Value {
	callee, ok := l.funcs[n.Name]
	if !ok {
		l.bag.Add(diag.UndeclaredIdentifier, n.Pos.Line, n.Pos.Col, "call to undeclared function %q", n.Name)
		return ir.NewInteger(0)
	}
	args := make([]ir.Value, len(n.Args))
	for i, a := range n.Args {
		args[i] = l.lowerExpr(a) // left-to-right, matching the source's left-to-right evaluation order
	}
	return l.cur.CreateCall(callee, args)
}

// lowerLValRead lowers a read of lv: a bare scalar identifier loads its
// slot; a fully-indexed array element loads through the computed element
// pointer; a partially-indexed array decays to a pointer to the
// remaining inner dimensions (used when passing an array by name as a
// call argument).
func (l *lowerer) lowerLValRead(lv *ast.LVal) ir.Value {
	entry, ok := l.scope.Lookup(lv.Name)
	if !ok {
		l.bag.Add(diag.UndeclaredIdentifier, lv.Pos.Line, lv.Pos.Col, "undeclared identifier %q", lv.Name)
		return ir.NewInteger(0)
	}
	if len(entry.Dims) == 0 && !entry.IsPtr {
		return l.cur.CreateLoad(entry.Slot)
	}
	ptr, isScalar := l.lowerIndexChain(entry, lv.Indices, lv.Pos)
	if isScalar {
		return l.cur.CreateLoad(ptr)
	}
	return ptr
}

// lowerLValAddr resolves lv as an assignment target: the result must be
// a pointer to a scalar element, never a decayed array.
func (l *lowerer) lowerLValAddr(lv *ast.LVal) ir.Value {
	entry, ok := l.scope.Lookup(lv.Name)
	if !ok {
		l.bag.Add(diag.UndeclaredIdentifier, lv.Pos.Line, lv.Pos.Col, "undeclared identifier %q", lv.Name)
		return nil
	}
	if len(entry.Dims) == 0 && !entry.IsPtr {
		if len(lv.Indices) != 0 {
			l.bag.Add(diag.TypeMismatch, lv.Pos.Line, lv.Pos.Col, "%q is not an array", lv.Name)
		}
		return entry.Slot
	}
	ptr, isScalar := l.lowerIndexChain(entry, lv.Indices, lv.Pos)
	if !isScalar {
		l.bag.Add(diag.TypeMismatch, lv.Pos.Line, lv.Pos.Col, "assignment target %q is not fully indexed", lv.Name)
	}
	return ptr
}

// lowerIndexChain walks an index chain against entry. Decayed-pointer
// bindings (entry.IsPtr) use GetPtr throughout, since the first step
// already starts from a loaded raw pointer; everything else (a
// directly-addressed array Alloc/GlobalAlloc) uses GetElemPtr
// throughout. If fewer indices are given than entry's declared
// dimensionality, the result decays to a pointer to the remaining inner
// array via a trailing zero-index step, used when passing an array by
// name as an argument.
func (l *lowerer) lowerIndexChain(entry *scope.Entry, indices []ast.Expr, pos ast.Pos) (ir.Value, bool) {
	totalSteps := len(entry.Dims)
	if entry.IsPtr {
		totalSteps++
	}
	if len(indices) > totalSteps {
		l.bag.Add(diag.TypeMismatch, pos.Line, pos.Col, "too many indices for %q", entry.Name)
	}

	var base ir.Value = entry.Slot
	step := func(index ir.Value) {
		if entry.IsPtr {
			base = l.cur.CreateGetPtr(base, index)
		} else {
			base = l.cur.CreateGetElemPtr(base, index)
		}
	}

	if entry.IsPtr {
		base = l.cur.CreateLoad(base)
	}

	n := len(indices)
	if n > totalSteps {
		n = totalSteps
	}
	for i := 0; i < n; i++ {
		step(l.lowerExpr(indices[i]))
	}

	if n == totalSteps {
		return base, true
	}
	// Partial indexing: decay to a pointer to the remaining inner array via
	// a trailing zero-index step.
	step(ir.NewInteger(0))
	return base, false
}
