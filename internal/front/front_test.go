package front

import (
	"strings"
	"testing"

	"sysyc/internal/diag"
	"sysyc/internal/ir"
	"sysyc/internal/irprint"
	"sysyc/internal/parser"
	"sysyc/internal/types"
)

func lower(t *testing.T, src string) (string, *diag.Bag) {
	t.Helper()
	bag := &diag.Bag{}
	cu := parser.Parse(src, bag)
	if bag.HasErrors() {
		t.Fatalf("parse errors for %q: %v", src, bag.Errors())
	}
	prog := Lower(cu, bag)
	return irprint.Print(prog), bag
}

func TestLowerMinimalMainReturnsConstant(t *testing.T) {
	out, bag := lower(t, `int main() { return 0; }`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Errors())
	}
	if !strings.Contains(out, "fun @main") || !strings.Contains(out, "ret 0") {
		t.Errorf("expected a main function returning 0, got:\n%s", out)
	}
}

func TestLowerGlobalScalarConstFoldsThroughLocalConst(t *testing.T) {
	out, bag := lower(t, `
		const int N = 10;
		int main() {
			const int M = N * 2;
			return M;
		}
	`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Errors())
	}
	// M folds to 20 at the const decl's own Store, so main's final return
	// loads the freshly-stored slot rather than folding the return itself
	// (returns are not constant-folded, only const decls are); either way
	// a store of 20 must appear.
	if !strings.Contains(out, "store 20") {
		t.Errorf("expected the folded constant 20 to be stored, got:\n%s", out)
	}
}

func TestLowerIfElseBothBranchesJoin(t *testing.T) {
	out, bag := lower(t, `
		int main() {
			int x = 0;
			if (1) { x = 1; } else { x = 2; }
			return x;
		}
	`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Errors())
	}
	for _, want := range []string{"if.then", "if.else", "if.end", "br "} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestLowerWhileWithBreakAndContinue(t *testing.T) {
	out, bag := lower(t, `
		int main() {
			int i = 0;
			int s = 0;
			while (i < 10) {
				i = i + 1;
				if (i == 5) { continue; }
				if (i == 8) { break; }
				s = s + i;
			}
			return s;
		}
	`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Errors())
	}
	for _, want := range []string{"while.cond", "while.body", "while.end"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestLowerShortCircuitAndExpandsToBranches(t *testing.T) {
	out, bag := lower(t, `
		int f() { return 1; }
		int main() {
			int x = 0;
			if (x == 0 && f() == 1) { return 1; }
			return 0;
		}
	`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Errors())
	}
	if !strings.Contains(out, "sc.rhs") || !strings.Contains(out, "sc.join") {
		t.Errorf("expected short-circuit expansion blocks, got:\n%s", out)
	}
}

func TestLowerLocalArrayInitializerZeroPadsPartialList(t *testing.T) {
	out, bag := lower(t, `
		int main() {
			int a[2][3] = {1, {2}};
			return a[1][0];
		}
	`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Errors())
	}
	// a[1] should have been snapped to index 3 by the nested {2} list, and
	// a[1][0] should load it back out through a GetElemPtr chain.
	if !strings.Contains(out, "getelemptr") {
		t.Errorf("expected array indexing to use getelemptr, got:\n%s", out)
	}
	// Every omitted element (a[0][1], a[0][2], a[1][1], a[1][2]) must still
	// get an explicit zero store, not a skipped one.
	if got := strings.Count(out, "store 0, "); got != 4 {
		t.Errorf("expected 4 zero-padded stores for the omitted elements, got %d in:\n%s", got, out)
	}
}

func TestLowerGlobalArrayAggregateInitializer(t *testing.T) {
	out, bag := lower(t, `
		int g[3] = {1, 2, 3};
		int main() { return g[0]; }
	`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Errors())
	}
	if !strings.Contains(out, "{1, 2, 3}") {
		t.Errorf("expected a materialized {1, 2, 3} aggregate, got:\n%s", out)
	}
}

func TestLowerGlobalArrayWithoutInitializerUsesZeroInit(t *testing.T) {
	out, bag := lower(t, `
		int g[4];
		int main() { return g[0]; }
	`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Errors())
	}
	if !strings.Contains(out, "zeroinit") {
		t.Errorf("expected zeroinit for an uninitialized global array, got:\n%s", out)
	}
}

func TestLowerArrayParameterDecaysAndUsesGetPtr(t *testing.T) {
	out, bag := lower(t, `
		int sum(int a[], int n) {
			int s = 0;
			int i = 0;
			while (i < n) { s = s + a[i]; i = i + 1; }
			return s;
		}
		int main() {
			int v[4] = {1, 2, 3, 4};
			return sum(v, 4);
		}
	`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Errors())
	}
	if !strings.Contains(out, "getptr") {
		t.Errorf("expected decayed-array indexing through a[i] to use getptr, got:\n%s", out)
	}
	if !strings.Contains(out, "call @sum") {
		t.Errorf("expected a call to @sum passing the decayed array, got:\n%s", out)
	}
}

func TestLowerMatrixParameterChainsGetPtrNarrowingEachStep(t *testing.T) {
	bag := &diag.Bag{}
	cu := parser.Parse(`
		int f(int a[][3], int n) {
			int i = 0;
			int s = 0;
			while (i < n) { s = s + a[i][0]; i = i + 1; }
			return s;
		}
	`, bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", bag.Errors())
	}
	prog := Lower(cu, bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected lowering errors: %v", bag.Errors())
	}

	var chain []*ir.GetPtr
	for _, fn := range prog.Functions {
		if fn.Name != "@f" {
			continue
		}
		for _, b := range fn.Blocks {
			for _, inst := range b.Instructions {
				if gp, ok := inst.(*ir.GetPtr); ok {
					chain = append(chain, gp)
				}
			}
		}
	}
	if len(chain) != 2 {
		t.Fatalf("expected a[i][0] to lower to two chained GetPtr steps, got %d", len(chain))
	}
	if chain[1].Src != ir.Value(chain[0]) {
		t.Fatalf("expected the second GetPtr to chain off the first's result")
	}
	want := types.NewPointer(types.I32)
	if !chain[0].Type().Equal(want) {
		t.Errorf("expected the first GetPtr on a[][3]'s row pointer to narrow to %s, got %s", want, chain[0].Type())
	}
	if !chain[1].Type().Equal(want) {
		t.Errorf("expected the second GetPtr to stay at %s, got %s", want, chain[1].Type())
	}
}

func TestLowerBreakOutsideLoopIsDiagnosed(t *testing.T) {
	_, bag := lower(t, `int main() { break; return 0; }`)
	if !bag.HasErrors() {
		t.Fatalf("expected a diagnostic for break outside a loop")
	}
	if bag.First().Kind != diag.IllegalBreakContinue {
		t.Errorf("expected IllegalBreakContinue, got %v", bag.First().Kind)
	}
}

func TestLowerMissingFinalReturnInsertsImplicitReturnZero(t *testing.T) {
	out, bag := lower(t, `int main() { int x = 1; }`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Errors())
	}
	if !strings.Contains(out, "ret 0") {
		t.Errorf("expected an implicit `ret 0` to be appended, got:\n%s", out)
	}
}

func TestLowerVoidFunctionGetsImplicitBareReturn(t *testing.T) {
	out, bag := lower(t, `void f() { } int main() { f(); return 0; }`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Errors())
	}
	if !strings.Contains(out, "fun @f()") {
		t.Errorf("expected a void function signature with no return type, got:\n%s", out)
	}
	if !strings.Contains(out, "  ret\n") {
		t.Errorf("expected an implicit bare `ret` to be appended to f, got:\n%s", out)
	}
}

func TestLowerRecursiveFunctionCallsItself(t *testing.T) {
	out, bag := lower(t, `
		int fib(int n) {
			if (n <= 1) { return n; }
			return fib(n - 1) + fib(n - 2);
		}
		int main() { return fib(10); }
	`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Errors())
	}
	if strings.Count(out, "call @fib") < 2 {
		t.Errorf("expected two recursive calls to @fib, got:\n%s", out)
	}
}
