// Package irprint renders an *ir.Program as the textual IR the `-koopa`
// CLI flag requests: a pure textual dump driven entirely by each node's
// own String(), with this package only responsible for assembling
// globals and functions into one program-wide listing in source order.
package irprint

import (
	"strings"

	"sysyc/internal/ir"
)

// Print renders prog as koopa-style text: one `global` line per global
// value, a blank line, then each function's declaration or definition in
// program order.
func Print(prog *ir.Program) string {
	sb := strings.Builder{}
	for _, g := range prog.Globals {
		sb.WriteString(g.String())
		sb.WriteRune('\n')
	}
	if len(prog.Globals) > 0 {
		sb.WriteRune('\n')
	}
	for i, f := range prog.Functions {
		if i > 0 {
			sb.WriteRune('\n')
		}
		sb.WriteString(f.String())
		sb.WriteRune('\n')
	}
	return sb.String()
}
