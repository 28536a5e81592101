package ir

import (
	"fmt"
	"strings"

	"sysyc/internal/types"
)

// Function is one `@name` definition: a signature, its FuncArgRef
// parameter values, and an ordered layout of basic blocks. Declared-only
// externs (the eight runtime functions) have a nil Blocks.
type Function struct {
	Name   string
	Sig    types.Function
	Params []*FuncArgRef
	Blocks []*BasicBlock

	ids idGen
}

func (f *Function) nextID() int { return f.ids.next_() }

// CreateBlock appends a new, empty basic block to f.
func (f *Function) CreateBlock(name string) *BasicBlock {
	b := &BasicBlock{f: f, id: f.nextID(), name: name}
	f.Blocks = append(f.Blocks, b)
	return b
}

// IsDeclaration reports whether f is an extern declaration with no body.
func (f *Function) IsDeclaration() bool { return f.Blocks == nil }

// String renders f as koopa-style text: its signature line, followed by
// each block's label and instructions when f has a body.
func (f *Function) String() string {
	sb := strings.Builder{}
	sb.WriteString("fun ")
	sb.WriteString(f.Name)
	sb.WriteRune('(')
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("@arg%d: %s", p.Index, p.Type()))
	}
	sb.WriteString(")")
	if !f.Sig.Ret.IsUnit() {
		sb.WriteString(": " + f.Sig.Ret.String())
	}
	if f.IsDeclaration() {
		return sb.String()
	}
	sb.WriteString(" {\n")
	for _, b := range f.Blocks {
		sb.WriteString(b.Name())
		sb.WriteString(":\n")
		for _, inst := range b.Instructions {
			sb.WriteString("  ")
			sb.WriteString(inst.String())
			sb.WriteRune('\n')
		}
	}
	sb.WriteString("}")
	return sb.String()
}
