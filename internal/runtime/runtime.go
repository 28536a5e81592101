// Package runtime declares the eight SysY library functions every program
// may call without defining them: getint, getch, getarray, putint, putch,
// putarray, starttime, stoptime. Front lowering injects them into a fresh
// Program before lowering any user code, so every call site resolves
// against a real *ir.Function rather than a special-cased builtin name.
package runtime

import (
	"sysyc/internal/ir"
	"sysyc/internal/types"
)

// Names lists the reserved extern function names, in the fixed order
// Inject declares them.
var Names = []string{
	"getint", "getch", "getarray",
	"putint", "putch", "putarray",
	"starttime", "stoptime",
}

// Inject declares the runtime externs on prog and returns a name->Function
// map for front lowering to resolve calls against.
func Inject(prog *ir.Program) map[string]*ir.Function {
	fns := make(map[string]*ir.Function, len(Names))
	sig := func(ret types.Type, params ...types.Type) types.Function {
		return types.Function{Params: params, Ret: ret}
	}

	fns["getint"] = prog.CreateFunction("@getint", sig(types.I32))
	fns["getch"] = prog.CreateFunction("@getch", sig(types.I32))
	fns["getarray"] = prog.CreateFunction("@getarray", sig(types.I32, types.NewPointer(types.I32)))
	fns["putint"] = prog.CreateFunction("@putint", sig(types.Void, types.I32))
	fns["putch"] = prog.CreateFunction("@putch", sig(types.Void, types.I32))
	fns["putarray"] = prog.CreateFunction("@putarray", sig(types.Void, types.I32, types.NewPointer(types.I32)))
	fns["starttime"] = prog.CreateFunction("@starttime", sig(types.Void))
	fns["stoptime"] = prog.CreateFunction("@stoptime", sig(types.Void))
	return fns
}

// IsReserved reports whether name collides with a runtime extern; front
// lowering uses this to reject a user function definition that would
// redefine a builtin, reported as an ordinary redeclaration error.
func IsReserved(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}
