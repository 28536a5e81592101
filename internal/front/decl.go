package front

import (
	"sysyc/internal/ast"
	"sysyc/internal/constfold"
	"sysyc/internal/diag"
	"sysyc/internal/ir"
	"sysyc/internal/ir/scope"
	"sysyc/internal/types"
)

// lowerGlobalConstDecl lowers a top-level `const ...;`: every const def
// still gets real storage (a non-constant read such as
// `a[i]` with a runtime i must still load from memory), plus a scope
// Entry recording its folded value(s) so the constant evaluator can fold
// compile-time-constant reads without re-walking the AST.
func (l *lowerer) lowerGlobalConstDecl(n *ast.ConstDecl) {
	env := scopeEnv{l.scope}
	for _, def := range n.Defs {
		if l.scope.DeclaredInCurrentScope(def.Name) {
			l.bag.Add(diag.Redeclaration, def.Pos.Line, def.Pos.Col, "redeclaration of %q", def.Name)
			continue
		}
		dims := l.evalConstDims(def.Dims, def.Pos)
		if len(dims) == 0 {
			val := l.evalScalarConstInit(def.InitVal, def.Pos, env)
			g := l.prog.CreateGlobalAlloc(types.I32, ir.NewInteger(val))
			l.scope.Bind(&scope.Entry{Name: def.Name, Slot: g, IsConst: true, ConstScalar: val})
			continue
		}
		flat := l.evalFlatConstInit(def.InitVal, dims, def.Pos, env)
		arrTy := buildArrayType(dims, types.I32)
		g := l.prog.CreateGlobalAlloc(arrTy, buildConstAggregate(arrTy, dims, flat))
		l.scope.Bind(&scope.Entry{Name: def.Name, Slot: g, Dims: dims, IsConst: true, ConstFlat: flat})
	}
}

// lowerGlobalVarDecl lowers a top-level `int ...;`: GlobalAlloc with a
// built Integer/Aggregate initializer, or ZeroInit(T) when no
// initializer is supplied.
func (l *lowerer) lowerGlobalVarDecl(n *ast.VarDecl) {
	env := scopeEnv{l.scope}
	for _, def := range n.Defs {
		if l.scope.DeclaredInCurrentScope(def.Name) {
			l.bag.Add(diag.Redeclaration, def.Pos.Line, def.Pos.Col, "redeclaration of %q", def.Name)
			continue
		}
		dims := l.evalConstDims(def.Dims, def.Pos)
		if len(dims) == 0 {
			var init ir.Value = ir.NewZeroInit(types.I32)
			if def.InitVal != nil {
				init = ir.NewInteger(l.evalScalarConstInit(def.InitVal, def.Pos, env))
			}
			g := l.prog.CreateGlobalAlloc(types.I32, init)
			l.scope.Bind(&scope.Entry{Name: def.Name, Slot: g})
			continue
		}
		arrTy := buildArrayType(dims, types.I32)
		var init ir.Value = ir.NewZeroInit(arrTy)
		if def.InitVal != nil {
			flat := l.evalFlatConstInit(def.InitVal, dims, def.Pos, env)
			init = buildConstAggregate(arrTy, dims, flat)
		}
		g := l.prog.CreateGlobalAlloc(arrTy, init)
		l.scope.Bind(&scope.Entry{Name: def.Name, Slot: g, Dims: dims})
	}
}

func (l *lowerer) evalScalarConstInit(init ast.InitVal, pos ast.Pos, env scopeEnv) int32 {
	si, ok := init.(*ast.ScalarInit)
	if !ok {
		l.bag.Add(diag.TypeMismatch, pos.Line, pos.Col, "scalar declaration cannot take an aggregate initializer")
		return 0
	}
	v, ok := constfold.Eval(si.Expr, env)
	if !ok {
		l.bag.Add(diag.NotConstant, pos.Line, pos.Col, "const initializer must be a constant expression")
		return 0
	}
	return v
}

func (l *lowerer) evalFlatConstInit(init ast.InitVal, dims []int, pos ast.Pos, env scopeEnv) []int32 {
	return flattenInit(init, dims, int32(0), func(e ast.Expr) int32 {
		v, ok := constfold.Eval(e, env)
		if !ok {
			l.bag.Add(diag.NotConstant, pos.Line, pos.Col, "const initializer element must be a constant expression")
			return 0
		}
		return v
	})
}

// buildConstAggregate turns a flat row-major slice into the nested
// Aggregate tree a GlobalAlloc initializer needs, one ir.Aggregate level
// per declared dimension.
func buildConstAggregate(ty types.Type, dims []int, flat []int32) ir.Value {
	if len(dims) == 0 {
		if len(flat) == 0 {
			return ir.NewInteger(0)
		}
		return ir.NewInteger(flat[0])
	}
	n := dims[0]
	sub := dims[1:]
	subSize := product(sub)
	subTy := ty.Elem()
	elems := make([]ir.Value, n)
	for i := 0; i < n; i++ {
		lo, hi := i*subSize, (i+1)*subSize
		if hi > len(flat) {
			hi = len(flat)
		}
		if lo > hi {
			lo = hi
		}
		elems[i] = buildConstAggregate(subTy, sub, flat[lo:hi])
	}
	return ir.NewAggregate(ty, elems)
}

// lowerLocalConstDecl (and lowerLocalVarDecl below, for `int`) lowers a
// local `const`/`int` declaration inside a function body: fold dims, build the Array type, emit Alloc, bind the
// name, and if an initializer is present,
// normalize and materialize it as a sequence of GetElemPtr + Store (or a
// single Store for a scalar) into the freshly allocated slot.
func (l *lowerer) lowerLocalConstDecl(n *ast.ConstDecl) {
	env := scopeEnv{l.scope}
	for _, def := range n.Defs {
		if l.scope.DeclaredInCurrentScope(def.Name) {
			l.bag.Add(diag.Redeclaration, def.Pos.Line, def.Pos.Col, "redeclaration of %q", def.Name)
			continue
		}
		dims := l.evalConstDims(def.Dims, def.Pos)
		if len(dims) == 0 {
			val := l.evalScalarConstInit(def.InitVal, def.Pos, env)
			slot := l.cur.CreateAlloc(types.I32)
			l.cur.CreateStore(ir.NewInteger(val), slot)
			l.scope.Bind(&scope.Entry{Name: def.Name, Slot: slot, IsConst: true, ConstScalar: val})
			continue
		}
		flat := l.evalFlatConstInit(def.InitVal, dims, def.Pos, env)
		arrTy := buildArrayType(dims, types.I32)
		slot := l.cur.CreateAlloc(arrTy)
		l.storeFlatInts(slot, dims, flat)
		l.scope.Bind(&scope.Entry{Name: def.Name, Slot: slot, Dims: dims, IsConst: true, ConstFlat: flat})
	}
}

func (l *lowerer) lowerLocalVarDecl(n *ast.VarDecl) {
	env := scopeEnv{l.scope}
	for _, def := range n.Defs {
		if l.scope.DeclaredInCurrentScope(def.Name) {
			l.bag.Add(diag.Redeclaration, def.Pos.Line, def.Pos.Col, "redeclaration of %q", def.Name)
			continue
		}
		dims := l.evalConstDims(def.Dims, def.Pos)
		if len(dims) == 0 {
			slot := l.cur.CreateAlloc(types.I32)
			if def.InitVal != nil {
				si, ok := def.InitVal.(*ast.ScalarInit)
				if !ok {
					l.bag.Add(diag.TypeMismatch, def.Pos.Line, def.Pos.Col, "scalar declaration cannot take an aggregate initializer")
				} else {
					l.cur.CreateStore(l.lowerExpr(si.Expr), slot)
				}
			}
			l.scope.Bind(&scope.Entry{Name: def.Name, Slot: slot})
			continue
		}
		arrTy := buildArrayType(dims, types.I32)
		slot := l.cur.CreateAlloc(arrTy)
		if def.InitVal != nil {
			values := flattenInit(def.InitVal, dims, ir.Value(nil), func(e ast.Expr) ir.Value {
				return l.lowerExpr(e)
			})
			l.storeFlatValues(slot, dims, values, env)
		}
		l.scope.Bind(&scope.Entry{Name: def.Name, Slot: slot, Dims: dims})
	}
}

// storeFlatInts materializes a flattened const-int initializer into slot
// via GetElemPtr+Store in row-major order, the local-variable analogue of
// buildConstAggregate.
func (l *lowerer) storeFlatInts(slot ir.Value, dims []int, flat []int32) {
	values := make([]ir.Value, len(flat))
	for i, v := range flat {
		values[i] = ir.NewInteger(v)
	}
	l.storeFlatValues(slot, dims, values, scopeEnv{l.scope})
}

// storeFlatValues walks dims in row-major order, emitting one GetElemPtr
// chain + Store per leaf element of values.
func (l *lowerer) storeFlatValues(slot ir.Value, dims []int, values []ir.Value, _ scopeEnv) {
	idx := 0
	var walk func(base ir.Value, dims []int)
	walk = func(base ir.Value, dims []int) {
		if len(dims) == 0 {
			var v ir.Value = ir.NewInteger(0)
			if idx < len(values) && values[idx] != nil {
				v = values[idx]
			}
			l.cur.CreateStore(v, base)
			idx++
			return
		}
		for i := 0; i < dims[0]; i++ {
			elemPtr := l.cur.CreateGetElemPtr(base, ir.NewInteger(int32(i)))
			walk(elemPtr, dims[1:])
		}
	}
	walk(slot, dims)
}
