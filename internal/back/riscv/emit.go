package riscv

import (
	"fmt"
	"strconv"
	"strings"

	"sysyc/internal/ir"
)

// tempRegs is the full caller-saved temporary set conservatively spilled
// and reloaded around every Call. This naive selector never actually
// carries a live value in t4, t5, or t6 across an instruction boundary
// — only t0-t2 ever hold a cross-sub-step value within a single emitted
// instruction, and t3 is the long-lived frame anchor — so saving the
// full set is defensive rather than load-bearing here.
var tempRegs = []string{"t0", "t1", "t2", "t3", "t4", "t5", "t6"}

func regA(i int) string { return fmt.Sprintf("a%d", i) }

// resolveMem returns the (offset, base) pair to use for a memory
// operand, materializing offset into scratch and basing off it when
// offset doesn't fit a 12-bit signed immediate.
func resolveMem(w *asmWriter, offset int, base, scratch string) (int, string) {
	if offset >= -2048 && offset <= 2047 {
		return offset, base
	}
	w.Write("\tli\t%s, %d\n", scratch, offset)
	w.Ins3("add", scratch, scratch, base)
	return 0, scratch
}

// addImm emits dst = src + imm, falling back to li+add when imm doesn't
// fit addi's 12-bit immediate.
func addImm(w *asmWriter, dst, src string, imm int) {
	if imm >= -2048 && imm <= 2047 {
		w.Ins3("addi", dst, src, strconv.Itoa(imm))
		return
	}
	w.Write("\tli\tt4, %d\n", imm)
	w.Ins3("add", dst, src, "t4")
}

// funcLabel strips the IR's "@" printer prefix from a function name.
func funcLabel(name string) string { return strings.TrimPrefix(name, "@") }

// blockOrder runs a lazy DFS from fn's entry block, numbering each
// block on first visit and returning both the visiting order and a
// .L<funcname><k> label for each.
func blockOrder(fn *ir.Function, fnLabel string) ([]*ir.BasicBlock, map[*ir.BasicBlock]string) {
	var order []*ir.BasicBlock
	seen := map[*ir.BasicBlock]bool{}
	var visit func(b *ir.BasicBlock)
	visit = func(b *ir.BasicBlock) {
		if seen[b] {
			return
		}
		seen[b] = true
		order = append(order, b)
		if len(b.Instructions) == 0 {
			return
		}
		switch t := b.Instructions[len(b.Instructions)-1].(type) {
		case *ir.Jump:
			visit(t.Target)
		case *ir.Branch:
			visit(t.True)
			visit(t.False)
		}
	}
	visit(fn.Blocks[0])

	labels := make(map[*ir.BasicBlock]string, len(order))
	for i, b := range order {
		labels[b] = fmt.Sprintf(".L%s%d", fnLabel, i+1)
	}
	return order, labels
}

// valueOf puts the scalar value v denotes into dest.
func valueOf(w *asmWriter, fr frame, v ir.Value, dest string) {
	switch n := v.(type) {
	case *ir.Integer:
		w.Write("\tli\t%s, %d\n", dest, n.Val)
	case *ir.FuncArgRef:
		if n.Index < 8 {
			w.Ins2("mv", dest, regA(n.Index))
			return
		}
		off, base := resolveMem(w, fr.size+(n.Index-8)*4, "sp", "t4")
		w.LoadStore("lw", dest, off, base)
	default:
		off, base := resolveMem(w, fr.pos[v], "t3", "t4")
		w.LoadStore("lw", dest, off, base)
	}
}

// addressInto computes the address a GetElemPtr base denotes, leaving it
// in dest. A GetElemPtr chain always starts from a real array slot (an
// Alloc or GlobalAlloc), never a loaded pointer; each later step reads
// the previous step's computed address from its slot.
func addressInto(w *asmWriter, fr frame, base ir.Value, dest string) {
	switch b := base.(type) {
	case *ir.Alloc:
		addImm(w, dest, "t3", fr.pos[b])
	case *ir.GlobalAlloc:
		w.Write("\tla\t%s, %s\n", dest, globalLabel(b))
	default:
		// A chained GetElemPtr: its own slot already holds a computed
		// address value, one indirection away.
		off, mbase := resolveMem(w, fr.pos[b], "t3", "t4")
		w.LoadStore("lw", dest, off, mbase)
	}
}

// emitFunction lowers one function definition to assembly.
func emitFunction(w *asmWriter, fn *ir.Function) {
	label := funcLabel(fn.Name)
	fr := computeFrame(fn)
	order, labels := blockOrder(fn, label)

	w.Write(".globl\t%s\n", label)
	w.Label(label)

	addImm(w, "t3", "sp", -fr.slots)
	addImm(w, "sp", "sp", -fr.size)
	off, base := resolveMem(w, -4, "t3", "t4")
	w.LoadStore("sw", "ra", off, base)

	for i, b := range order {
		if i > 0 {
			w.Label(labels[b])
		}
		for _, inst := range b.Instructions {
			emitInst(w, fr, inst, labels)
		}
	}
}

func emitInst(w *asmWriter, fr frame, inst ir.Value, labels map[*ir.BasicBlock]string) {
	switch n := inst.(type) {
	case *ir.Alloc:
		// No code: the slot was reserved during frame layout.

	case *ir.Load:
		switch src := n.Src.(type) {
		case *ir.Alloc:
			off, base := resolveMem(w, fr.pos[src], "t3", "t4")
			w.LoadStore("lw", "t0", off, base)
		case *ir.GlobalAlloc:
			w.Write("\tla\tt4, %s\n", globalLabel(src))
			w.LoadStore("lw", "t0", 0, "t4")
		default:
			off, base := resolveMem(w, fr.pos[src], "t3", "t4")
			w.LoadStore("lw", "t0", off, base)
			w.LoadStore("lw", "t0", 0, "t0")
		}
		off, base := resolveMem(w, fr.pos[inst], "t3", "t4")
		w.LoadStore("sw", "t0", off, base)

	case *ir.Store:
		valueOf(w, fr, n.Val, "t1")
		switch dest := n.Dest.(type) {
		case *ir.Alloc:
			off, base := resolveMem(w, fr.pos[dest], "t3", "t4")
			w.LoadStore("sw", "t1", off, base)
		case *ir.GlobalAlloc:
			w.Write("\tla\tt4, %s\n", globalLabel(dest))
			w.LoadStore("sw", "t1", 0, "t4")
		default:
			off, base := resolveMem(w, fr.pos[dest], "t3", "t4")
			w.LoadStore("lw", "t0", off, base)
			w.LoadStore("sw", "t1", 0, "t0")
		}

	case *ir.Binary:
		valueOf(w, fr, n.LHS, "t0")
		valueOf(w, fr, n.RHS, "t1")
		emitBinary(w, n.Op, "t2", "t0", "t1")
		off, base := resolveMem(w, fr.pos[inst], "t3", "t4")
		w.LoadStore("sw", "t2", off, base)

	case *ir.Branch:
		valueOf(w, fr, n.Cond, "t0")
		w.Write("\tbnez\tt0, %s\n", labels[n.True])
		w.Write("\tj\t%s\n", labels[n.False])

	case *ir.Jump:
		w.Write("\tj\t%s\n", labels[n.Target])

	case *ir.Return:
		if n.Val != nil {
			valueOf(w, fr, n.Val, "a0")
		}
		off, base := resolveMem(w, -4, "t3", "t4")
		w.LoadStore("lw", "ra", off, base)
		addImm(w, "sp", "sp", fr.size)
		w.Write("\tret\n")

	case *ir.Call:
		emitCall(w, fr, n)

	case *ir.GetElemPtr:
		addressInto(w, fr, n.Src, "t0")
		valueOf(w, fr, n.Index, "t1")
		elemSize := n.Type().Elem().Size()
		w.Write("\tli\tt2, %d\n", elemSize)
		w.Ins3("mul", "t1", "t1", "t2")
		w.Ins3("add", "t0", "t0", "t1")
		off, base := resolveMem(w, fr.pos[inst], "t3", "t4")
		w.LoadStore("sw", "t0", off, base)

	case *ir.GetPtr:
		off0, base0 := resolveMem(w, fr.pos[n.Src], "t3", "t4")
		w.LoadStore("lw", "t0", off0, base0)
		valueOf(w, fr, n.Index, "t1")
		pointeeSize := n.Type().Elem().Size()
		w.Write("\tli\tt2, %d\n", pointeeSize)
		w.Ins3("mul", "t1", "t1", "t2")
		w.Ins3("add", "t0", "t0", "t1")
		off, base := resolveMem(w, fr.pos[inst], "t3", "t4")
		w.LoadStore("sw", "t0", off, base)
	}
}

// emitCall marshals arguments, spills the temporary set across the call
// boundary, and spills the return value.
func emitCall(w *asmWriter, fr frame, call *ir.Call) {
	for i, a := range call.Args {
		if i < 8 {
			valueOf(w, fr, a, regA(i))
			continue
		}
		valueOf(w, fr, a, "t0")
		off, base := resolveMem(w, (i-8)*4, "sp", "t4")
		w.LoadStore("sw", "t0", off, base)
	}

	off, base := resolveMem(w, fr.size-4, "sp", "t4")
	w.LoadStore("sw", "t3", off, base)
	for i, r := range tempRegs {
		w.LoadStore("sw", r, -8-4*i, "t3")
	}

	w.Write("\tcall\t%s\n", funcLabel(call.Callee.Name))

	off, base = resolveMem(w, fr.size-4, "sp", "t4")
	w.LoadStore("lw", "t3", off, base)
	for i, r := range tempRegs {
		w.LoadStore("lw", r, -8-4*i, "t3")
	}

	if !call.Type().IsUnit() {
		off, base := resolveMem(w, fr.pos[call], "t3", "t4")
		w.LoadStore("sw", "a0", off, base)
	}
}
