package plang

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEval_PrintAndFinalValue(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)

	result, err := engine.Eval(`print("hello", " ") print("world")  42`)
	require.NoError(t, err)
	require.Equal(t, "hello world\n", result.Output)
	require.Equal(t, int64(42), result.Value)
}

func TestEval_Fibonacci(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)

	result, err := engine.Eval(`fn fib(n) n == 1 ? 1 : n == 2 ? 1 : fib(n-1) + fib(n-2); fib(12)`)
	require.NoError(t, err)
	require.Equal(t, int64(144), result.Value)
}

func TestEval_ClosureCounter(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)

	result, err := engine.Eval(`fn counter { var i = 0; fn ++i }; var a = counter(); var b = counter(); $"{a()} {a()} {a()} {b()} {a()} {b()}"`)
	require.NoError(t, err)
	require.Equal(t, "1 2 3 1 4 2", result.Value)
}

func TestEval_NestedMapIndex(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)

	result, err := engine.Eval(`var m = {"x": {"y": 42}}; m["x"]["y"]`)
	require.NoError(t, err)
	require.Equal(t, int64(42), result.Value)
}

func TestEval_StringSliceAssignment(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)

	result, err := engine.Eval(`"Good-bye!"[5..7] = "night"`)
	require.NoError(t, err)
	require.Equal(t, "Good-night!", result.Value)
}

func TestCompile_RejectsStringPlusInteger(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)

	_, err = engine.Compile(`var a = "45"; a + 1`)
	require.Error(t, err)
	ce, ok := err.(*CompileError)
	require.True(t, ok)
	require.True(t, ce.HasErrors())
}

func TestEval_LazyParameterForcedOnce(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)

	result, err := engine.Eval(`fn force(f) f(); fn a(x){print("a");x}; var lazy = fn 1 + a(2); print("b"); force(lazy)`)
	require.NoError(t, err)
	require.Equal(t, "b\na\n", result.Output)
	require.Equal(t, int64(3), result.Value)
}

func TestEval_Filter(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)

	result, err := engine.Eval(`filter(fn(x) x<4, [1,2,3,4,5])`)
	require.NoError(t, err)
	require.Equal(t, []any{int64(1), int64(2), int64(3)}, result.Value)
}

func TestWithOutput_RedirectsPrint(t *testing.T) {
	var buf bytes.Buffer
	engine, err := New(WithOutput(&buf))
	require.NoError(t, err)

	_, err = engine.Eval(`print("redirected")`)
	require.NoError(t, err)
	require.Equal(t, "redirected\n", buf.String())
}

func TestWithTypeCheck_False_DemotesOnlyTypeMismatches(t *testing.T) {
	engine, err := New(WithTypeCheck(false))
	require.NoError(t, err)

	program, err := engine.Compile(`var a = "45"; a + 1`)
	require.NoError(t, err)
	require.NotNil(t, program)
}

func TestWithTypeCheck_False_StillFailsOnUndeclared(t *testing.T) {
	engine, err := New(WithTypeCheck(false))
	require.NoError(t, err)

	_, err = engine.Compile(`undeclaredName + 1`)
	require.Error(t, err)
}

func TestRegisterFunction_GoCallback(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)

	require.NoError(t, engine.RegisterFunction("double", func(n int64) int64 { return n * 2 }))

	result, err := engine.Eval(`double(21)`)
	require.NoError(t, err)
	require.Equal(t, int64(42), result.Value)
}

func TestRegisterFunction_DuplicateNameRejected(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)

	require.NoError(t, engine.RegisterFunction("double", func(n int64) int64 { return n * 2 }))
	require.Error(t, engine.RegisterFunction("double", func(n int64) int64 { return n }))
}
