package constfold

import (
	"testing"

	"sysyc/internal/ast"
)

type fakeEnv struct {
	scalars map[string]int32
	arrays  map[string][]int32
	dims    map[string][]int
}

func (f fakeEnv) LookupDims(name string) ([]int, bool) {
	d, ok := f.dims[name]
	return d, ok
}

func (f fakeEnv) LookupConstScalar(name string) (int32, bool) {
	v, ok := f.scalars[name]
	return v, ok
}

func (f fakeEnv) LookupConstElement(name string, idx int32) (int32, bool) {
	a, ok := f.arrays[name]
	if !ok || idx < 0 || int(idx) >= len(a) {
		return 0, false
	}
	return a[idx], true
}

func intLit(v int32) ast.Expr { return &ast.IntLit{Val: v} }

func bin(op ast.BinOp, l, r ast.Expr) ast.Expr { return &ast.BinaryExpr{Op: op, LHS: l, RHS: r} }

func TestEvalArithmetic(t *testing.T) {
	// (2 + 3) * 4 - 1 == 19
	e := bin(ast.OpSub, bin(ast.OpMul, bin(ast.OpAdd, intLit(2), intLit(3)), intLit(4)), intLit(1))
	v, ok := Eval(e, fakeEnv{})
	if !ok || v != 19 {
		t.Fatalf("expected 19, got %d ok=%v", v, ok)
	}
}

func TestEvalConstIdentifier(t *testing.T) {
	env := fakeEnv{scalars: map[string]int32{"n": 7}}
	v, ok := Eval(&ast.LVal{Name: "n"}, env)
	if !ok || v != 7 {
		t.Fatalf("expected 7, got %d ok=%v", v, ok)
	}
}

func TestEvalNonConstIdentifierFails(t *testing.T) {
	_, ok := Eval(&ast.LVal{Name: "x"}, fakeEnv{})
	if ok {
		t.Fatalf("expected lookup of unbound identifier to fail")
	}
}

func TestEvalShortCircuitAndDoesNotRequireRHSConst(t *testing.T) {
	// 0 && <non-constant identifier> folds to 0 without evaluating RHS.
	e := bin(ast.OpAnd, intLit(0), &ast.LVal{Name: "not_const"})
	v, ok := Eval(e, fakeEnv{})
	if !ok || v != 0 {
		t.Fatalf("expected short-circuit fold to 0, got %d ok=%v", v, ok)
	}
}

func TestEvalShortCircuitOrDoesNotRequireRHSConst(t *testing.T) {
	e := bin(ast.OpOr, intLit(1), &ast.LVal{Name: "not_const"})
	v, ok := Eval(e, fakeEnv{})
	if !ok || v != 1 {
		t.Fatalf("expected short-circuit fold to 1, got %d ok=%v", v, ok)
	}
}

func TestEvalDivisionByZeroFoldsToZeroInsteadOfPanicking(t *testing.T) {
	v, ok := Eval(bin(ast.OpDiv, intLit(5), intLit(0)), fakeEnv{})
	if !ok || v != 0 {
		t.Fatalf("expected division by zero to fold to 0 without panicking, got %d ok=%v", v, ok)
	}
}

func TestEvalConstArrayIndex(t *testing.T) {
	env := fakeEnv{
		arrays: map[string][]int32{"a": {10, 20, 30}},
		dims:   map[string][]int{"a": {3}},
	}
	v, ok := Eval(&ast.LVal{Name: "a", Indices: []ast.Expr{intLit(1)}}, env)
	if !ok || v != 20 {
		t.Fatalf("expected a[1] == 20, got %d ok=%v", v, ok)
	}
}

func TestEvalConstArrayIndexMultiDimensional(t *testing.T) {
	// a[2][3] laid out row-major: a[1][2] is flat index 1*3+2 = 5.
	env := fakeEnv{
		arrays: map[string][]int32{"a": {0, 1, 2, 3, 4, 5}},
		dims:   map[string][]int{"a": {2, 3}},
	}
	v, ok := Eval(&ast.LVal{Name: "a", Indices: []ast.Expr{intLit(1), intLit(2)}}, env)
	if !ok || v != 5 {
		t.Fatalf("expected a[1][2] == 5, got %d ok=%v", v, ok)
	}
}

func TestEvalRelationalAndLogical(t *testing.T) {
	cases := []struct {
		e    ast.Expr
		want int32
	}{
		{bin(ast.OpLt, intLit(1), intLit(2)), 1},
		{bin(ast.OpGe, intLit(1), intLit(2)), 0},
		{bin(ast.OpEq, intLit(3), intLit(3)), 1},
		{bin(ast.OpAnd, intLit(1), intLit(0)), 0},
		{bin(ast.OpOr, intLit(0), intLit(0)), 0},
	}
	for i, c := range cases {
		v, ok := Eval(c.e, fakeEnv{})
		if !ok || v != c.want {
			t.Errorf("case %d: expected %d, got %d ok=%v", i, c.want, v, ok)
		}
	}
}
