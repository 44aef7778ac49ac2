package validator

import (
	"testing"

	"github.com/plang-lang/plang/internal/lexer"
	"github.com/plang-lang/plang/internal/namespace"
	"github.com/plang-lang/plang/internal/parser"
)

func analyze(t *testing.T, src string) *Analyzer {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l, src, "<test>")
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, errs)
	}
	a := NewAnalyzer(namespace.Default(), src, "<test>")
	a.Analyze(prog)
	return a
}

func TestAnalyze_RejectsStringPlusInteger(t *testing.T) {
	a := analyze(t, `"x" + 1;`)
	if len(a.Errors()) == 0 {
		t.Error("expected a type error combining String and Integer with +")
	}
}

func TestAnalyze_RejectsUndeclaredIdent(t *testing.T) {
	a := analyze(t, "print(undeclared);")
	if len(a.Errors()) == 0 {
		t.Error("expected an error referencing an undeclared variable")
	}
}

func TestAnalyze_AcceptsIntegerPlusReal(t *testing.T) {
	a := analyze(t, "1 + 2.5;")
	if len(a.Errors()) != 0 {
		t.Errorf("Integer + Real should type-check via Number promotion, got errors: %v", a.Errors())
	}
}

func TestAnalyze_StringRangeIndexTypeChecks(t *testing.T) {
	a := analyze(t, `"Good-bye!"[5..7];`)
	if len(a.Errors()) != 0 {
		t.Errorf("a range-slice of a String should type-check to String, got errors: %v", a.Errors())
	}
}

func TestAnalyze_SeedGlobalsCarriesStateAcrossLines(t *testing.T) {
	ns := namespace.Default()

	l1 := lexer.New("var x = 5;")
	p1 := parser.New(l1, "var x = 5;", "<test>")
	prog1 := p1.ParseProgram()
	a1 := NewAnalyzer(ns, "var x = 5;", "<test>")
	a1.Analyze(prog1)
	if len(a1.Errors()) != 0 {
		t.Fatalf("unexpected errors declaring x: %v", a1.Errors())
	}
	seed := a1.Globals()
	if _, ok := seed["x"]; !ok {
		t.Fatal("expected Globals() to report the newly declared binding \"x\"")
	}

	l2 := lexer.New("x + 1;")
	p2 := parser.New(l2, "x + 1;", "<test>")
	prog2 := p2.ParseProgram()
	a2 := NewAnalyzer(ns, "x + 1;", "<test>")
	a2.SeedGlobals(seed)
	a2.Analyze(prog2)
	if len(a2.Errors()) != 0 {
		t.Errorf("expected \"x\" seeded from a prior line to be visible, got errors: %v", a2.Errors())
	}
}

func TestAnalyze_FilterSignatureIsFunctionFirst(t *testing.T) {
	a := analyze(t, "filter(fn(x) x < 4, [1,2,3,4,5]);")
	if len(a.Errors()) != 0 {
		t.Errorf("filter(func, list) should type-check against the declared builtin signature, got: %v", a.Errors())
	}
}
