package interp

import (
	"bytes"
	"testing"

	"github.com/plang-lang/plang/internal/lexer"
	"github.com/plang-lang/plang/internal/namespace"
	"github.com/plang-lang/plang/internal/parser"
	"github.com/plang-lang/plang/internal/validator"
)

func run(t *testing.T, src string) (*Evaluator, any) {
	t.Helper()
	ns := namespace.Default()
	l := lexer.New(src)
	p := parser.New(l, src, "<test>")
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, errs)
	}
	a := validator.NewAnalyzer(ns, src, "<test>")
	a.Analyze(prog)
	if errs := a.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected type errors for %q: %v", src, errs)
	}

	var out bytes.Buffer
	ev := New(ns, &out)
	v, err := ev.Run(prog)
	if err != nil {
		t.Fatalf("unexpected runtime error for %q: %v", src, err)
	}
	return ev, v
}

func TestRun_StringRangeSliceAssignmentSplicesAndReturnsWhole(t *testing.T) {
	_, v := run(t, `"Good-bye!"[5..7] = "night";`)
	got, ok := v.(interface{ AsString() string })
	if !ok {
		t.Fatalf("expected a value with AsString(), got %#v", v)
	}
	if got.AsString() != "Good-night!" {
		t.Errorf("spliced result = %q, want %q", got.AsString(), "Good-night!")
	}
}

func TestRun_StringRangeSliceAssignmentWritesBackToVariable(t *testing.T) {
	_, v := run(t, `var s = "Good-bye!"; s[5..7] = "night"; s;`)
	got, ok := v.(interface{ AsString() string })
	if !ok {
		t.Fatalf("expected a value with AsString(), got %#v", v)
	}
	if got.AsString() != "Good-night!" {
		t.Errorf("variable after splice = %q, want %q", got.AsString(), "Good-night!")
	}
}

func TestRun_NestedMapIndex(t *testing.T) {
	_, v := run(t, `var m = {"x": {"y": 42}}; m["x"]["y"];`)
	got, ok := v.(interface{ AsInt() int64 })
	if !ok {
		t.Fatalf("expected a value with AsInt(), got %#v", v)
	}
	if got.AsInt() != 42 {
		t.Errorf("m[\"x\"][\"y\"] = %d, want 42", got.AsInt())
	}
}

func TestRun_ClosureCapturesOuterVariable(t *testing.T) {
	_, v := run(t, `
var n = 0;
var inc = fn() { n = n + 1; n };
inc();
inc();
inc();
`)
	got, ok := v.(interface{ AsInt() int64 })
	if !ok {
		t.Fatalf("expected a value with AsInt(), got %#v", v)
	}
	if got.AsInt() != 3 {
		t.Errorf("closure counter = %d, want 3", got.AsInt())
	}
}

func TestRun_WhileLoopAccumulates(t *testing.T) {
	_, v := run(t, `
var i = 0;
var sum = 0;
while (i < 5) { sum = sum + i; i = i + 1; }
sum;
`)
	got, ok := v.(interface{ AsInt() int64 })
	if !ok {
		t.Fatalf("expected a value with AsInt(), got %#v", v)
	}
	if got.AsInt() != 10 {
		t.Errorf("sum = %d, want 10", got.AsInt())
	}
}

func TestRun_NegativeStringIndexFromEnd(t *testing.T) {
	_, v := run(t, `"hello"[-1];`)
	got, ok := v.(interface{ AsString() string })
	if !ok {
		t.Fatalf("expected a value with AsString(), got %#v", v)
	}
	if got.AsString() != "o" {
		t.Errorf("\"hello\"[-1] = %q, want %q", got.AsString(), "o")
	}
}

func TestRun_NegativeArrayIndexFromEnd(t *testing.T) {
	_, v := run(t, `[1,2,3][-1];`)
	got, ok := v.(interface{ AsInt() int64 })
	if !ok {
		t.Fatalf("expected a value with AsInt(), got %#v", v)
	}
	if got.AsInt() != 3 {
		t.Errorf("[1,2,3][-1] = %d, want 3", got.AsInt())
	}
}

func TestRun_NegativeArrayIndexAssignment(t *testing.T) {
	_, v := run(t, `var a = [1,2,3]; a[-1] = 9; a[2];`)
	got, ok := v.(interface{ AsInt() int64 })
	if !ok {
		t.Fatalf("expected a value with AsInt(), got %#v", v)
	}
	if got.AsInt() != 9 {
		t.Errorf("a[2] after a[-1]=9 = %d, want 9", got.AsInt())
	}
}

func TestRun_InclusiveRangeSlice(t *testing.T) {
	_, v := run(t, `"Good-bye!"[5..7];`)
	got, ok := v.(interface{ AsString() string })
	if !ok {
		t.Fatalf("expected a value with AsString(), got %#v", v)
	}
	if got.AsString() != "bye" {
		t.Errorf("\"Good-bye!\"[5..7] = %q, want %q (inclusive of index 7)", got.AsString(), "bye")
	}
}

func TestRun_DeleteKeyReturnsOldValue(t *testing.T) {
	_, v := run(t, `var m = {"x": 42}; delete m["x"];`)
	got, ok := v.(interface{ AsInt() int64 })
	if !ok {
		t.Fatalf("expected a value with AsInt(), got %#v", v)
	}
	if got.AsInt() != 42 {
		t.Errorf("delete m[\"x\"] = %d, want the old value 42", got.AsInt())
	}
}

func TestRun_DeleteMissingKeyReturnsNull(t *testing.T) {
	_, v := run(t, `var m = {"x": 42}; delete m["y"];`)
	got, ok := v.(interface{ IsNull() bool })
	if !ok || !got.IsNull() {
		t.Errorf("delete of a missing key should return Null, got %#v", v)
	}
}

func TestRun_DeleteWholeMapEmptiesAndReturnsIt(t *testing.T) {
	_, v := run(t, `var m = {"x": 1, "y": 2}; var cleared = delete m; length(cleared);`)
	got, ok := v.(interface{ AsInt() int64 })
	if !ok {
		t.Fatalf("expected a value with AsInt(), got %#v", v)
	}
	if got.AsInt() != 0 {
		t.Errorf("length(delete m) = %d, want 0 (the map itself, emptied)", got.AsInt())
	}

	_, v2 := run(t, `var m = {"x": 1, "y": 2}; delete m; length(m);`)
	got2, ok := v2.(interface{ AsInt() int64 })
	if !ok {
		t.Fatalf("expected a value with AsInt(), got %#v", v2)
	}
	if got2.AsInt() != 0 {
		t.Errorf("length(m) after delete m = %d, want 0", got2.AsInt())
	}
}

func TestRun_TryCatchRecoversThrow(t *testing.T) {
	_, v := run(t, `
try {
  throw "boom";
} catch {
  exception;
}
`)
	got, ok := v.(interface{ AsString() string })
	if !ok {
		t.Fatalf("expected a value with AsString(), got %#v", v)
	}
	if got.AsString() != "boom" {
		t.Errorf("caught value = %q, want %q", got.AsString(), "boom")
	}
}
