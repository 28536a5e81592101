package riscv

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"sysyc/internal/diag"
	"sysyc/internal/front"
	"sysyc/internal/parser"
)

func generate(t *testing.T, src string) string {
	t.Helper()
	bag := &diag.Bag{}
	cu := parser.Parse(src, bag)
	if bag.HasErrors() {
		t.Fatalf("parse errors for %q: %v", src, bag.Errors())
	}
	prog := front.Lower(cu, bag)
	if bag.HasErrors() {
		t.Fatalf("lowering errors for %q: %v", src, bag.Errors())
	}
	return Generate(prog)
}

func TestGenerateMinimalMainReturnsConstant(t *testing.T) {
	out := generate(t, `int main() { return 0; }`)
	for _, want := range []string{".text", ".globl\tmain", "main:", "li\ta0, 0", "ret"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestGenerateDoesNotEmitRuntimeExterns(t *testing.T) {
	out := generate(t, `int main() { putint(1); return 0; }`)
	if strings.Contains(out, "putint:") {
		t.Errorf("runtime externs must not get a local label, got:\n%s", out)
	}
	if !strings.Contains(out, "call\tputint") {
		t.Errorf("expected a call to the unresolved extern putint, got:\n%s", out)
	}
}

func TestGenerateGlobalArrayEmitsDataSection(t *testing.T) {
	out := generate(t, `
		int g[3] = {1, 2, 3};
		int main() { return g[0]; }
	`)
	if !strings.Contains(out, ".data") {
		t.Errorf("expected a .data section, got:\n%s", out)
	}
	if !strings.Contains(out, ".word\t1") || !strings.Contains(out, ".word\t2") || !strings.Contains(out, ".word\t3") {
		t.Errorf("expected each aggregate element to emit its own .word, got:\n%s", out)
	}
}

func TestGenerateUninitializedGlobalEmitsZero(t *testing.T) {
	out := generate(t, `
		int g[4];
		int main() { return g[0]; }
	`)
	if !strings.Contains(out, ".zero\t16") {
		t.Errorf("expected a .zero directive sized to the array, got:\n%s", out)
	}
}

func TestGenerateIfElseEmitsDistinctLabelsForBothBranches(t *testing.T) {
	out := generate(t, `
		int main() {
			int x = 0;
			if (1) { x = 1; } else { x = 2; }
			return x;
		}
	`)
	if !strings.Contains(out, "bnez\tt0,") {
		t.Errorf("expected a conditional branch on the if condition, got:\n%s", out)
	}
	labelRe := regexp.MustCompile(`\.Lmain\d+:`)
	if len(labelRe.FindAllString(out, -1)) < 3 {
		t.Errorf("expected at least 3 numbered block labels (then/else/end), got:\n%s", out)
	}
}

func TestGenerateWhileLoopBranchesBackToCond(t *testing.T) {
	out := generate(t, `
		int main() {
			int i = 0;
			while (i < 10) { i = i + 1; }
			return i;
		}
	`)
	if strings.Count(out, "j\t.Lmain") < 1 {
		t.Errorf("expected an unconditional jump back to the loop head, got:\n%s", out)
	}
}

func TestGenerateCallSpillsTempsAroundCall(t *testing.T) {
	out := generate(t, `
		int f(int a, int b) { return a + b; }
		int main() { return f(1, 2); }
	`)
	for _, want := range []string{"call\tf", "sw\tt0,", "lw\tt0,"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected the call sequence to contain %q, got:\n%s", want, out)
		}
	}
}

func TestGenerateNinthArgumentSpillsToStack(t *testing.T) {
	out := generate(t, `
		int f(int a, int b, int c, int d, int e, int g, int h, int i, int j) {
			return j;
		}
		int main() { return f(1, 2, 3, 4, 5, 6, 7, 8, 9); }
	`)
	if !strings.Contains(out, "sw\tt0, 0(sp)") {
		t.Errorf("expected the 9th argument to be spilled to the outgoing-args area, got:\n%s", out)
	}
}

func TestGenerateArrayParameterUsesGetPtrAddressing(t *testing.T) {
	out := generate(t, `
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
	if !strings.Contains(out, "mul\tt1, t1, t2") {
		t.Errorf("expected GetPtr's index-scaling multiply, got:\n%s", out)
	}
}

func TestGenerateMatrixParameterChainsGetPtrStrides(t *testing.T) {
	out := generate(t, `
		int f(int a[][3], int n) {
			int i = 0;
			int s = 0;
			while (i < n) { s = s + a[i][0]; i = i + 1; }
			return s;
		}
	`)
	if strings.Count(out, "li\tt2, 4") < 2 {
		t.Errorf("expected both chained GetPtr steps on a[][3] to scale by 4, got:\n%s", out)
	}
	if strings.Contains(out, "li\tt2, 12") {
		t.Errorf("expected the first GetPtr's stride not to use the outer array's unnarrowed size 12, got:\n%s", out)
	}
}

func TestGenerateFrameSizeIsMultipleOf16(t *testing.T) {
	out := generate(t, `
		int main() {
			int a = 1;
			int b = 2;
			int c = a + b;
			return c;
		}
	`)
	re := regexp.MustCompile(`addi\tsp, sp, (-?\d+)`)
	m := re.FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("expected an addi sp, sp, N prologue adjustment, got:\n%s", out)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		t.Fatalf("bad immediate %q: %v", m[1], err)
	}
	if n%16 != 0 {
		t.Errorf("expected the frame adjustment to be a multiple of 16, got %d", n)
	}
}

func TestGenerateEveryBranchTargetHasAMatchingLabel(t *testing.T) {
	out := generate(t, `
		int main() {
			int i = 0;
			while (i < 3) {
				if (i == 1) { i = i + 1; continue; }
				i = i + 1;
			}
			return i;
		}
	`)
	targetRe := regexp.MustCompile(`\.Lmain\d+`)
	labelRe := regexp.MustCompile(`(\.Lmain\d+):`)
	labels := map[string]bool{}
	for _, m := range labelRe.FindAllStringSubmatch(out, -1) {
		labels[m[1]] = true
	}
	for _, m := range targetRe.FindAllString(out, -1) {
		if !labels[m] {
			t.Errorf("branch/jump target %s has no matching label in:\n%s", m, out)
		}
	}
}

func TestGenerateRecursiveCallReloadsFrameAnchor(t *testing.T) {
	out := generate(t, `
		int fib(int n) {
			if (n <= 1) { return n; }
			return fib(n - 1) + fib(n - 2);
		}
		int main() { return fib(10); }
	`)
	if strings.Count(out, "call\tfib") < 2 {
		t.Errorf("expected two recursive calls to fib, got:\n%s", out)
	}
	if !strings.Contains(out, "lw\tt3,") {
		t.Errorf("expected the frame anchor to be reloaded after a call, got:\n%s", out)
	}
}
