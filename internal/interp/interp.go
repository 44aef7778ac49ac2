// Package interp implements Plang's tree-walking evaluator: it executes
// the desugared, type-checked AST the validator produces, carrying
// lexical scopes and closures, uniform function-call syntax, and the
// non-local control-flow protocol (normal | return | next | last |
// throw) via a Signal returned alongside every value. Dispatch is an
// opcode switch over ast.Node rather than a virtual-dispatch visitor
// hierarchy, matching how the interpreter this is modeled on walks its
// own AST.
package interp

import (
	"fmt"
	"io"
	"os"

	"github.com/plang-lang/plang/internal/ast"
	"github.com/plang-lang/plang/internal/diag"
	"github.com/plang-lang/plang/internal/errors"
	"github.com/plang-lang/plang/internal/namespace"
	"github.com/plang-lang/plang/internal/token"
	"github.com/plang-lang/plang/internal/types"
	"github.com/plang-lang/plang/internal/value"
)

// BuiltinImpl is the Go function a registered builtin actually runs.
// Arguments arrive already in canonical positional order (the validator
// reorders named arguments and fills optional ones the caller omitted).
type BuiltinImpl func(ev *Evaluator, args []*value.Value, pos token.Position) (*value.Value, error)

// Evaluator walks a validated AST and produces runtime values. One
// Evaluator corresponds to one Plang program run; pkg/plang's public API
// wraps it with source loading, the lex/parse/validate pipeline, and
// PlangError translation.
type Evaluator struct {
	Output    io.Writer
	global    *value.Scope
	builtins  map[string]BuiltinImpl
	namespace *namespace.Registry
	depth     int
}

// MaxCallDepth guards against runaway recursion (a stack-overflow
// condition is reported as a RuntimeError, not a Go panic).
const MaxCallDepth = 2048

// New creates an Evaluator with the default builtin set wired in.
// output is where `print` writes; pass os.Stdout for a CLI host.
func New(ns *namespace.Registry, output io.Writer) *Evaluator {
	if output == nil {
		output = os.Stdout
	}
	ev := &Evaluator{
		Output:    output,
		global:    value.NewScope(),
		builtins:  map[string]BuiltinImpl{},
		namespace: ns,
	}
	registerCoreBuiltins(ev)
	registerSequenceBuiltins(ev)
	registerConversionBuiltins(ev)
	registerDomainBuiltins(ev)
	return ev
}

// RegisterBuiltin lets a host add or override a builtin's implementation.
// The caller is responsible for also registering its namespace.Descriptor
// before validation (pkg/plang's public API does both together).
func (ev *Evaluator) RegisterBuiltin(name string, impl BuiltinImpl) {
	ev.builtins[name] = impl
}

// Global returns the evaluator's top-level scope, used by a host to seed
// pre-existing globals before Run.
func (ev *Evaluator) Global() *value.Scope { return ev.global }

// outcome bundles a value with the Signal it was produced under, and the
// non-local payload a return/throw carries.
type outcome struct {
	sig   value.Signal
	val   *value.Value
	label string // reserved for labelled loops; unused in the current grammar
}

func normal(v *value.Value) outcome { return outcome{sig: value.SigNormal, val: v} }

// Run evaluates every top-level expression of program in order against
// the global scope, returning the last expression's value.
func (ev *Evaluator) Run(program *ast.Program) (*value.Value, error) {
	var last *value.Value = value.Null()
	for _, n := range program.Body {
		out, err := ev.eval(n, ev.global)
		if err != nil {
			return nil, err
		}
		switch out.sig {
		case value.SigNormal:
			last = out.val
		case value.SigReturn:
			return nil, &errors.InternalError{Message: "return used outside a function", Pos: n.Pos()}
		case value.SigThrow:
			return nil, &errors.RuntimeError{Thrown: out.val.String(), Pos: n.Pos()}
		}
	}
	return last, nil
}

// eval is the opcode jump table: one case per ast.Node concrete type.
func (ev *Evaluator) eval(n ast.Node, sc *value.Scope) (outcome, error) {
	if n == nil {
		return normal(value.Null()), nil
	}
	diag.Printf("eval", "op=%v pos=%s", n.Op(), n.Pos())

	switch e := n.(type) {
	case *ast.IntLit:
		return normal(value.Int(e.Value)), nil
	case *ast.FloatLit:
		return normal(value.Real(e.Value)), nil
	case *ast.StringLit:
		return normal(value.Str(e.Value)), nil
	case *ast.BoolLit:
		return normal(value.Bool(e.Value)), nil
	case *ast.NullLit:
		return normal(value.Null()), nil
	case *ast.InterpString:
		return ev.evalInterpString(e, sc)
	case *ast.ArrayLit:
		return ev.evalArrayLit(e, sc)
	case *ast.MapLit:
		return ev.evalMapLit(e, sc)
	case *ast.Ident:
		return ev.evalIdent(e, sc)
	case *ast.Group:
		return ev.evalGroup(e, sc)
	case *ast.VarDecl:
		return ev.evalVarDecl(e, sc)
	case *ast.Assign:
		return ev.evalAssign(e, sc)
	case *ast.CompoundAssign:
		return ev.evalCompoundAssign(e, sc)
	case *ast.Binary:
		return ev.evalBinary(e, sc)
	case *ast.Unary:
		return ev.evalUnary(e, sc)
	case *ast.PreIncDec:
		return ev.evalPreIncDec(e, sc)
	case *ast.PostIncDec:
		return ev.evalPostIncDec(e, sc)
	case *ast.Index:
		return ev.evalIndex(e, sc)
	case *ast.Call:
		return ev.evalCall(e, sc)
	case *ast.If:
		return ev.evalIf(e, sc)
	case *ast.Ternary:
		return ev.evalTernary(e, sc)
	case *ast.While:
		return ev.evalWhile(e, sc)
	case *ast.Try:
		return ev.evalTry(e, sc)
	case *ast.Throw:
		return ev.evalThrow(e, sc)
	case *ast.Return:
		return ev.evalReturn(e, sc)
	case *ast.Next:
		return outcome{sig: value.SigNext, val: value.Null()}, nil
	case *ast.Last:
		return outcome{sig: value.SigLast, val: value.Null()}, nil
	case *ast.FuncLit:
		return ev.evalFuncLit(e, sc)
	case *ast.TypeDecl:
		return normal(value.Null()), nil
	case *ast.Exists:
		return ev.evalExists(e, sc)
	case *ast.Delete:
		return ev.evalDelete(e, sc)
	case *ast.Keys:
		return ev.evalKeys(e, sc)
	case *ast.Values:
		return ev.evalValues(e, sc)
	}
	return outcome{}, &errors.InternalError{Message: fmt.Sprintf("unhandled node %T in evaluator", n), Pos: n.Pos()}
}

func (ev *Evaluator) evalGroup(e *ast.Group, sc *value.Scope) (outcome, error) {
	inner := sc.Child()
	last := normal(value.Null())
	for _, n := range e.Body {
		out, err := ev.eval(n, inner)
		if err != nil {
			return outcome{}, err
		}
		if out.sig != value.SigNormal {
			return out, nil
		}
		last = out
	}
	return last, nil
}

func (ev *Evaluator) evalIdent(e *ast.Ident, sc *value.Scope) (outcome, error) {
	if v, ok := sc.Get(e.Name); ok {
		return normal(v), nil
	}
	if _, ok := ev.namespace.Lookup(e.Name); ok {
		return normal(value.NewBuiltin(types.Builtin, e.Name)), nil
	}
	return outcome{}, &errors.InternalError{Message: "undeclared identifier " + e.Name + " reached the evaluator", Pos: e.Pos()}
}

func (ev *Evaluator) evalVarDecl(e *ast.VarDecl, sc *value.Scope) (outcome, error) {
	out, err := ev.eval(e.Init, sc)
	if err != nil || out.sig != value.SigNormal {
		return out, err
	}
	sc.Declare(e.Name, out.val)
	return out, nil
}

func (ev *Evaluator) evalIf(e *ast.If, sc *value.Scope) (outcome, error) {
	cond, err := ev.eval(e.Cond, sc)
	if err != nil || cond.sig != value.SigNormal {
		return cond, err
	}
	if cond.val.Truthy() {
		return ev.eval(e.Then, sc)
	}
	if e.Else != nil {
		return ev.eval(e.Else, sc)
	}
	return normal(value.Null()), nil
}

func (ev *Evaluator) evalTernary(e *ast.Ternary, sc *value.Scope) (outcome, error) {
	cond, err := ev.eval(e.Cond, sc)
	if err != nil || cond.sig != value.SigNormal {
		return cond, err
	}
	if cond.val.Truthy() {
		return ev.eval(e.Then, sc)
	}
	return ev.eval(e.Else, sc)
}

func (ev *Evaluator) evalWhile(e *ast.While, sc *value.Scope) (outcome, error) {
	for {
		cond, err := ev.eval(e.Cond, sc)
		if err != nil || cond.sig != value.SigNormal {
			return cond, err
		}
		if !cond.val.Truthy() {
			return normal(value.Null()), nil
		}
		loopScope := sc.ChildLoop()
		out, err := ev.eval(e.Body, loopScope)
		if err != nil {
			return outcome{}, err
		}
		switch out.sig {
		case value.SigLast:
			return normal(value.Null()), nil
		case value.SigReturn, value.SigThrow:
			return out, nil
		}
		// SigNext and SigNormal both continue the loop.
	}
}

func (ev *Evaluator) evalThrow(e *ast.Throw, sc *value.Scope) (outcome, error) {
	out, err := ev.eval(e.Value, sc)
	if err != nil || out.sig != value.SigNormal {
		return out, err
	}
	return outcome{sig: value.SigThrow, val: out.val}, nil
}

func (ev *Evaluator) evalTry(e *ast.Try, sc *value.Scope) (outcome, error) {
	out, err := ev.eval(e.Body, sc)
	if err != nil {
		return outcome{}, err
	}
	if out.sig != value.SigThrow {
		return out, nil
	}
	thrown := out.val
	for _, c := range e.Catches {
		catchScope := sc.Child()
		if c.Cond != nil {
			condOut, err := ev.eval(c.Cond, catchScope)
			if err != nil {
				return outcome{}, err
			}
			if condOut.sig != value.SigNormal || !valuesEqual(condOut.val, thrown) {
				continue
			}
		}
		catchScope.Declare("exception", thrown)
		return ev.eval(c.Body, catchScope)
	}
	// The validator guarantees a default catch exists; reaching here means
	// no condition matched and there was no default, which cannot happen
	// in a validated program.
	return out, nil
}

func (ev *Evaluator) evalReturn(e *ast.Return, sc *value.Scope) (outcome, error) {
	if e.Value == nil {
		return outcome{sig: value.SigReturn, val: value.Null()}, nil
	}
	out, err := ev.eval(e.Value, sc)
	if err != nil || out.sig != value.SigNormal {
		return out, err
	}
	return outcome{sig: value.SigReturn, val: out.val}, nil
}

func (ev *Evaluator) evalExists(e *ast.Exists, sc *value.Scope) (outcome, error) {
	target, err := ev.eval(e.Target, sc)
	if err != nil || target.sig != value.SigNormal {
		return target, err
	}
	key, err := ev.eval(e.Key, sc)
	if err != nil || key.sig != value.SigNormal {
		return key, err
	}
	m := target.val.AsMap()
	if m == nil {
		return normal(value.Bool(false)), nil
	}
	_, ok := m.Get(key.val.AsString())
	return normal(value.Bool(ok)), nil
}

func (ev *Evaluator) evalDelete(e *ast.Delete, sc *value.Scope) (outcome, error) {
	target, err := ev.eval(e.Target, sc)
	if err != nil || target.sig != value.SigNormal {
		return target, err
	}
	m := target.val.AsMap()
	if m == nil {
		return normal(value.Null()), nil
	}
	if e.Key == nil {
		m.Clear()
		return normal(target.val), nil
	}
	key, err := ev.eval(e.Key, sc)
	if err != nil || key.sig != value.SigNormal {
		return key, err
	}
	old, ok := m.Delete(key.val.AsString())
	if !ok {
		return normal(value.Null()), nil
	}
	return normal(old), nil
}

func (ev *Evaluator) evalKeys(e *ast.Keys, sc *value.Scope) (outcome, error) {
	target, err := ev.eval(e.Target, sc)
	if err != nil || target.sig != value.SigNormal {
		return target, err
	}
	m := target.val.AsMap()
	if m == nil {
		return normal(value.NewArray(types.String_, nil)), nil
	}
	keys := m.SortedKeys()
	elems := make([]*value.Value, len(keys))
	for i, k := range keys {
		elems[i] = value.Str(k)
	}
	return normal(value.NewArray(types.String_, elems)), nil
}

func (ev *Evaluator) evalValues(e *ast.Values, sc *value.Scope) (outcome, error) {
	target, err := ev.eval(e.Target, sc)
	if err != nil || target.sig != value.SigNormal {
		return target, err
	}
	m := target.val.AsMap()
	if m == nil {
		return normal(value.NewArray(types.Any, nil)), nil
	}
	keys := m.SortedKeys()
	elems := make([]*value.Value, len(keys))
	elemTypes := make([]types.Type, len(keys))
	for i, k := range keys {
		v, _ := m.Get(k)
		elems[i] = v
		elemTypes[i] = v.Type
	}
	return normal(value.NewArray(types.Unite(elemTypes), elems)), nil
}
