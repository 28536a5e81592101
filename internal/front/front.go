// Package front lowers a parsed internal/ast tree into an *ir.Program:
// the scoped symbol environment walk, constant folding,
// expression/statement/declaration lowering, short-circuit expansion,
// array indexing and decay, aggregate initializer normalization, and
// function lowering. It is a recursive descent over the AST, driven by
// a scope stack that tracks bindings and compile-time constants as it
// descends.
package front

import (
	"sysyc/internal/ast"
	"sysyc/internal/constfold"
	"sysyc/internal/diag"
	"sysyc/internal/ir"
	"sysyc/internal/ir/scope"
	"sysyc/internal/runtime"
	"sysyc/internal/types"
)

// loopCtx is the nearest enclosing loop's continue/break targets.
type loopCtx struct {
	head, end *ir.BasicBlock
}

// lowerer holds all state threaded through one compilation unit's
// lowering.
type lowerer struct {
	prog  *ir.Program
	bag   *diag.Bag
	scope *scope.Scope
	funcs map[string]*ir.Function

	fn    *ir.Function
	retTy types.Type // current function's declared return type
	cur   *ir.BasicBlock
	loops []loopCtx
}

// Lower builds an *ir.Program from cu, recording any semantic diagnostics
// in bag. The returned Program is always non-nil; callers should check
// bag.HasErrors() before handing it to back lowering, since a malformed
// input must never produce output.
func Lower(cu *ast.CompUnit, bag *diag.Bag) *ir.Program {
	l := &lowerer{prog: &ir.Program{}, bag: bag, scope: &scope.Scope{}}
	l.scope.Open() // file (global) scope
	l.funcs = runtime.Inject(l.prog)

	type pending struct {
		def       *ast.FuncDef
		fn        *ir.Function
		paramDims [][]int
	}
	var work []pending

	for _, item := range cu.Items {
		switch n := item.(type) {
		case *ast.ConstDecl:
			l.lowerGlobalConstDecl(n)
		case *ast.VarDecl:
			l.lowerGlobalVarDecl(n)
		case *ast.FuncDef:
			if runtime.IsReserved(n.Name) || l.funcs[n.Name] != nil {
				l.bag.Add(diag.Redeclaration, n.Pos.Line, n.Pos.Col, "function %q already declared", n.Name)
				continue
			}
			sig, paramDims := l.funcSignature(n)
			fn := l.prog.CreateFunction("@"+n.Name, sig)
			l.funcs[n.Name] = fn
			work = append(work, pending{def: n, fn: fn, paramDims: paramDims})
		}
	}

	for _, w := range work {
		l.lowerFunctionBody(w.def, w.fn, w.paramDims)
	}

	return l.prog
}

// scopeEnv adapts the active scope to constfold.Env.
type scopeEnv struct{ s *scope.Scope }

func (e scopeEnv) LookupConstScalar(name string) (int32, bool) {
	entry, ok := e.s.Lookup(name)
	if !ok || !entry.IsConst || len(entry.Dims) != 0 {
		return 0, false
	}
	return entry.ConstScalar, true
}

func (e scopeEnv) LookupConstElement(name string, idx int32) (int32, bool) {
	entry, ok := e.s.Lookup(name)
	if !ok || !entry.IsConst || len(entry.Dims) == 0 {
		return 0, false
	}
	if idx < 0 || int(idx) >= len(entry.ConstFlat) {
		return 0, false
	}
	return entry.ConstFlat[idx], true
}

func (e scopeEnv) LookupDims(name string) ([]int, bool) {
	entry, ok := e.s.Lookup(name)
	if !ok || !entry.IsConst || len(entry.Dims) == 0 {
		return nil, false
	}
	return entry.Dims, true
}

// evalConstDims folds a list of dimension expressions to concrete,
// non-negative sizes. On failure it records a NotConstant diagnostic
// and substitutes 0 so lowering can continue without crashing on a
// malformed program.
func (l *lowerer) evalConstDims(exprs []ast.Expr, pos ast.Pos) []int {
	dims := make([]int, len(exprs))
	env := scopeEnv{l.scope}
	for i, e := range exprs {
		v, ok := constfold.Eval(e, env)
		if !ok {
			l.bag.Add(diag.NotConstant, pos.Line, pos.Col, "array dimension must be a constant expression")
			continue
		}
		if v < 0 {
			l.bag.Add(diag.NotConstant, pos.Line, pos.Col, "array dimension must not be negative")
			continue
		}
		dims[i] = int(v)
	}
	return dims
}

// buildArrayType composes types.Array constructors outermost-first from a
// declared dimension list, e.g. dims=[2,3] (source `T x[2][3]`) yields
// Array(Array(elem, 3), 2).
func buildArrayType(dims []int, elem types.Type) types.Type {
	t := elem
	for i := len(dims) - 1; i >= 0; i-- {
		t = types.NewArray(t, dims[i])
	}
	return t
}

// funcSignature computes a FuncDef's IR signature: scalar parameters
// are i32, array parameters decay to Pointer(inner)
// where inner drops the outermost (bracket-elided) dimension. It also
// returns each parameter's folded trailing dims (nil for scalars), so
// lowerFunctionBody can bind them without folding the same dimension
// expressions — and re-reporting the same diagnostics — a second time.
func (l *lowerer) funcSignature(def *ast.FuncDef) (types.Function, [][]int) {
	sig := types.Function{Ret: types.I32}
	if def.Ret == ast.FuncVoid {
		sig.Ret = types.Void
	}
	paramDims := make([][]int, len(def.Params))
	for i, p := range def.Params {
		if p.ArrayParam {
			dims := l.evalConstDims(p.Dims, p.Pos)
			paramDims[i] = dims
			inner := buildArrayType(dims, types.I32)
			sig.Params = append(sig.Params, types.NewPointer(inner))
		} else {
			sig.Params = append(sig.Params, types.I32)
		}
	}
	return sig, paramDims
}
