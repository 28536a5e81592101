package front

import (
	"sysyc/internal/ast"
	"sysyc/internal/ir"
	"sysyc/internal/ir/scope"
)

// lowerFunctionBody lowers def's body into fn, whose signature (and each
// array parameter's folded trailing dims) was already computed by Lower's
// first pass.
func (l *lowerer) lowerFunctionBody(def *ast.FuncDef, fn *ir.Function, paramDims [][]int) {
	l.fn = fn
	l.retTy = fn.Sig.Ret
	l.cur = fn.CreateBlock("entry")
	l.scope.Open()
	defer l.scope.Close()

	for i, p := range def.Params {
		paramTy := fn.Sig.Params[i]
		slot := l.cur.CreateAlloc(paramTy)
		l.cur.CreateStore(fn.Params[i], slot)

		e := &scope.Entry{Name: p.Name, Slot: slot}
		if p.ArrayParam {
			// IsPtr is true for every array parameter regardless of how many
			// trailing dimensions remain after the decayed outer `[]` — even
			// a bare `a[]` with zero trailing dims (e.g. `int sum(int a[], int
			// n)`) holds a pointer loaded from its slot, so indexing through
			// it must use GetPtr rather than GetElemPtr.
			e.IsPtr = true
			e.Dims = paramDims[i]
		}
		l.scope.Bind(e)
	}

	l.lowerBlockBody(def.Body)
	l.ensureFinalReturn()
}

// lowerBlockBody lowers the items of a block into the current function
// without opening a new scope frame (the caller already has the frame it
// wants items bound into — used for the function's own body block, which
// shares the parameter scope rather than nesting a new one).
func (l *lowerer) lowerBlockBody(b *ast.Block) {
	for _, item := range b.Items {
		l.lowerBlockItem(item)
	}
}

// ensureFinalReturn appends an implicit Return to the current block if
// it fell through without a terminator.
func (l *lowerer) ensureFinalReturn() {
	if l.cur.Terminated {
		return
	}
	if l.retTy.IsUnit() {
		l.cur.CreateReturn(nil)
	} else {
		l.cur.CreateReturn(ir.NewInteger(0))
	}
}
