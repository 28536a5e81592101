package ir

import (
	"fmt"

	"sysyc/internal/types"
)

// Program is the top-level IR unit: a set of functions (definitions and
// extern declarations) plus a set of global values. Functions and
// globals keep their insertion order, since the koopa text printer and
// the back-lowering emitter both walk them in source order.
type Program struct {
	Functions []*Function
	Globals   []*GlobalAlloc

	globalSeq int
}

// CreateFunction declares a new function named name with signature sig.
// Call CreateBlock on the result to give it a body; a Function that never
// receives a block is treated as an extern declaration.
func (p *Program) CreateFunction(name string, sig types.Function) *Function {
	f := &Function{Name: name, Sig: sig}
	for i, pt := range sig.Params {
		f.Params = append(f.Params, &FuncArgRef{
			baseValue: baseValue{id: f.nextID(), kind: KindFuncArgRef, ty: pt},
			Index:     i,
		})
	}
	p.Functions = append(p.Functions, f)
	return f
}

// CreateGlobalAlloc declares a new global of type elem with initializer
// init (an Integer, Aggregate, or ZeroInit), naming it `@gvar<k>`.
func (p *Program) CreateGlobalAlloc(elem types.Type, init Value) *GlobalAlloc {
	id := p.globalSeq
	name := fmt.Sprintf("@gvar%d", id)
	p.globalSeq++
	g := &GlobalAlloc{
		baseValue: baseValue{id: id, kind: KindGlobalAlloc, ty: types.NewPointer(elem)},
		Name:      name,
		Elem:      elem,
		Init:      init,
	}
	p.Globals = append(p.Globals, g)
	return g
}
