// Package riscv lowers an *ir.Program into RISC-V 32-bit assembly text:
// per-function stack frame layout, a lazy-DFS block-order emitter, an
// instruction selector covering every IR ValueKind, and a .data emitter
// for global objects. There is no register allocation: every value
// lives in a fixed stack slot and a handful of pinned temporaries
// (t0-t6) carry operands across the span of a single emitted
// instruction.
package riscv

import (
	"fmt"
	"strings"
)

// asmWriter buffers assembly text: a small vocabulary of
// formatted-instruction helpers over a strings.Builder. The back end
// runs single-threaded, so no locking or fan-in is needed here.
type asmWriter struct {
	sb strings.Builder
}

// Write writes a format string to the buffer verbatim (for directives,
// labels, and comments).
func (w *asmWriter) Write(format string, args ...interface{}) {
	fmt.Fprintf(&w.sb, format, args...)
}

// Ins1 writes a one-operand instruction.
func (w *asmWriter) Ins1(op, rs1 string) {
	fmt.Fprintf(&w.sb, "\t%s\t%s\n", op, rs1)
}

// Ins2 writes a two-operand instruction.
func (w *asmWriter) Ins2(op, rd, rs1 string) {
	fmt.Fprintf(&w.sb, "\t%s\t%s, %s\n", op, rd, rs1)
}

// Ins3 writes a three-operand instruction.
func (w *asmWriter) Ins3(op, rd, rs1, rs2 string) {
	fmt.Fprintf(&w.sb, "\t%s\t%s, %s, %s\n", op, rd, rs1, rs2)
}

// LoadStore writes a load/store instruction addressing offset(base).
func (w *asmWriter) LoadStore(op, reg string, offset int, base string) {
	fmt.Fprintf(&w.sb, "\t%s\t%s, %d(%s)\n", op, reg, offset, base)
}

// Label writes a bare label line.
func (w *asmWriter) Label(name string) {
	fmt.Fprintf(&w.sb, "%s:\n", name)
}

func (w *asmWriter) String() string { return w.sb.String() }
