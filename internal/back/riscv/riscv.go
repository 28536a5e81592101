package riscv

import "sysyc/internal/ir"

// Generate lowers prog to RISC-V 32 assembly text: a .data section for
// every global followed by a .text section with one labeled, framed
// function body per user-defined function. Runtime externs (the eight
// library functions) have no body in prog and are emitted as bare
// `call` targets for the linker to resolve, so they are skipped here
// rather than given a label.
func Generate(prog *ir.Program) string {
	w := &asmWriter{}
	emitGlobals(w, prog)

	w.Write(".text\n")
	for _, fn := range prog.Functions {
		if fn.IsDeclaration() {
			continue
		}
		emitFunction(w, fn)
	}
	return w.String()
}
