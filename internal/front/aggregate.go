package front

import "sysyc/internal/ast"

// flattenInit normalizes a (possibly partial, possibly nested) initializer
// against declared dims into a canonical row-major flat slice, sharing
// one implementation between const-array folding (leaf = int32) and
// local-variable lowering (leaf = ir.Value) via the
// generic eval callback. A ScalarInit always fills exactly one element at
// the current position; a nested ListInit always targets the next-inner
// dimension shape, snapping the fill cursor to its aligned start and, once
// the brace closes, to the end of the region it covers — which leaves any
// elements it didn't explicitly supply at their zero value, matching the
// language's "initializer shorter than declared extent is zero-filled"
// rule without a separate padding pass.
func flattenInit[T any](init ast.InitVal, dims []int, zero T, eval func(ast.Expr) T) []T {
	total := product(dims)
	result := make([]T, total)
	pos := 0

	var fill func(list *ast.ListInit, dims []int)
	fill = func(list *ast.ListInit, dims []int) {
		begin := pos
		limit := begin + product(dims)
		for _, item := range list.Elements {
			if pos >= limit {
				break
			}
			switch it := item.(type) {
			case *ast.ScalarInit:
				result[pos] = eval(it.Expr)
				pos++
			case *ast.ListInit:
				sub := dims[1:]
				subSize := product(sub)
				if subSize == 0 {
					continue
				}
				if rem := (pos - begin) % subSize; rem != 0 {
					pos += subSize - rem
				}
				fill(it, sub)
			}
		}
		pos = limit
	}

	switch n := init.(type) {
	case *ast.ScalarInit:
		// A scalar initializer for an array-typed declaration only makes
		// sense for a zero-dimensional (scalar) target; callers never pass
		// non-empty dims here in that case.
		if total > 0 {
			result[0] = eval(n.Expr)
		}
	case *ast.ListInit:
		fill(n, dims)
	}
	return result
}

func product(dims []int) int {
	p := 1
	for _, d := range dims {
		p *= d
	}
	return p
}
