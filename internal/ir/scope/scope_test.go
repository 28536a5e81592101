package scope

import "testing"

func TestLookupFindsInnermostShadow(t *testing.T) {
	s := &Scope{}
	s.Open()
	s.Bind(&Entry{Name: "x", ConstScalar: 1, IsConst: true})
	s.Open()
	s.Bind(&Entry{Name: "x", ConstScalar: 2, IsConst: true})

	e, ok := s.Lookup("x")
	if !ok || e.ConstScalar != 2 {
		t.Fatalf("expected innermost binding x=2, got %#v", e)
	}

	s.Close()
	e, ok = s.Lookup("x")
	if !ok || e.ConstScalar != 1 {
		t.Fatalf("expected outer binding x=1 after close, got %#v", e)
	}
}

func TestLookupMissingReturnsFalse(t *testing.T) {
	s := &Scope{}
	s.Open()
	if _, ok := s.Lookup("nope"); ok {
		t.Fatalf("expected lookup of unbound name to fail")
	}
}

func TestDeclaredInCurrentScopeIsBlockLocal(t *testing.T) {
	s := &Scope{}
	s.Open()
	s.Bind(&Entry{Name: "a"})
	s.Open()
	if s.DeclaredInCurrentScope("a") {
		t.Fatalf("expected a to not be declared in the new inner (empty) scope")
	}
	if _, ok := s.Lookup("a"); !ok {
		t.Fatalf("expected a to still be visible via outer-scope lookup")
	}
}
