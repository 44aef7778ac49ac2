package parser

import (
	"testing"

	"github.com/plang-lang/plang/internal/ast"
	"github.com/plang-lang/plang/internal/lexer"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	l := lexer.New(src)
	p := New(l, src, "<test>")
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, errs)
	}
	return prog
}

func TestParseProgram_BinaryPrecedence(t *testing.T) {
	prog := parseProgram(t, "1 + 2 * 3;")
	if len(prog.Body) != 1 {
		t.Fatalf("expected 1 top-level node, got %d", len(prog.Body))
	}
	bin, ok := prog.Body[0].(*ast.Binary)
	if !ok {
		t.Fatalf("expected *ast.Binary at top level, got %T", prog.Body[0])
	}
	if _, ok := bin.Right.(*ast.Binary); !ok {
		t.Fatalf("expected multiplication to bind tighter and nest on the right, got %T", bin.Right)
	}
	if _, ok := bin.Left.(*ast.IntLit); !ok {
		t.Fatalf("expected left operand to be the literal 1, got %T", bin.Left)
	}
}

func TestParseProgram_TernaryRightAssociative(t *testing.T) {
	prog := parseProgram(t, "true ? 1 : false ? 2 : 3;")
	tern, ok := prog.Body[0].(*ast.Ternary)
	if !ok {
		t.Fatalf("expected *ast.Ternary, got %T", prog.Body[0])
	}
	if _, ok := tern.Else.(*ast.Ternary); !ok {
		t.Fatalf("expected the else-branch to nest the second ternary, got %T", tern.Else)
	}
}

func TestParseProgram_IndexAndRange(t *testing.T) {
	prog := parseProgram(t, `"Good-bye!"[5..7];`)
	idx, ok := prog.Body[0].(*ast.Index)
	if !ok {
		t.Fatalf("expected *ast.Index, got %T", prog.Body[0])
	}
	rng, ok := idx.Index.(*ast.Range)
	if !ok {
		t.Fatalf("expected index expression to be a *ast.Range, got %T", idx.Index)
	}
	lo, ok := rng.Low.(*ast.IntLit)
	if !ok || lo.Value != 5 {
		t.Errorf("expected range low bound 5, got %#v", rng.Low)
	}
}

func TestParseProgram_FunctionCallWithArgs(t *testing.T) {
	prog := parseProgram(t, "fib(n-1, n-2);")
	call, ok := prog.Body[0].(*ast.Call)
	if !ok {
		t.Fatalf("expected *ast.Call, got %T", prog.Body[0])
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 call args, got %d", len(call.Args))
	}
}

func TestParseProgram_MapLiteral(t *testing.T) {
	prog := parseProgram(t, `{"x": {"y": 42}};`)
	m, ok := prog.Body[0].(*ast.MapLit)
	if !ok {
		t.Fatalf("expected *ast.MapLit, got %T", prog.Body[0])
	}
	if len(m.Entries) != 1 || m.Entries[0].Key != "x" {
		t.Fatalf("expected a single entry keyed \"x\", got %#v", m.Entries)
	}
	if _, ok := m.Entries[0].Value.(*ast.MapLit); !ok {
		t.Errorf("expected nested map literal as value, got %T", m.Entries[0].Value)
	}
}

func TestParseProgram_VarDeclWithTypeAnnotation(t *testing.T) {
	prog := parseProgram(t, "var x: Integer = 5;")
	decl, ok := prog.Body[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected *ast.VarDecl, got %T", prog.Body[0])
	}
	if decl.Name != "x" {
		t.Errorf("expected declared name \"x\", got %q", decl.Name)
	}
	if decl.TypeAnnot == nil {
		t.Error("expected an explicit type annotation to be captured")
	}
}

func TestParseProgram_SyntaxErrorRecorded(t *testing.T) {
	l := lexer.New("1 +;")
	p := New(l, "1 +;", "<test>")
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Error("expected a parse error for a dangling binary operator")
	}
}

func TestParseExpression_ReturnsSingleNode(t *testing.T) {
	l := lexer.New("1 + 2")
	p := New(l, "1 + 2", "<test>")
	n := p.ParseExpression()
	if _, ok := n.(*ast.Binary); !ok {
		t.Fatalf("expected *ast.Binary, got %T", n)
	}
}
