package interp

import (
	"github.com/plang-lang/plang/internal/ast"
	"github.com/plang-lang/plang/internal/errors"
	"github.com/plang-lang/plang/internal/token"
	"github.com/plang-lang/plang/internal/types"
	"github.com/plang-lang/plang/internal/value"
)

// evalFuncLit builds a Closure value capturing sc as its defining scope
// Closures capture the scope they were created in, not the caller's.
// A named function literal is also declared into sc under its own name so
// it can call itself recursively.
func (ev *Evaluator) evalFuncLit(e *ast.FuncLit, sc *value.Scope) (outcome, error) {
	params := make([]value.Param, len(e.Params))
	for i, p := range e.Params {
		var pt types.Type = types.Any
		if p.Type != nil {
			pt = ev.resolveParamType(p.Type)
		}
		params[i] = value.Param{Name: p.Name, Type: pt, Default: p.Default}
	}
	var ret types.Type = types.Any
	if e.ReturnType != nil {
		ret = ev.resolveParamType(e.ReturnType)
	}
	closure := &value.Closure{Name: e.Name, Params: params, ReturnType: ret, Body: e.Body, Defining: sc}
	fnType := closureFuncType(closure)
	v := value.NewClosure(fnType, closure)
	if e.Name != "" {
		sc.Declare(e.Name, v)
	}
	return normal(v), nil
}

func closureFuncType(c *value.Closure) types.Func {
	params := make([]types.Type, len(c.Params))
	for i, p := range c.Params {
		params[i] = p.Type
	}
	return types.Func{Kind: types.KindFunction, Params: params, Returns: c.ReturnType}
}

// resolveParamType is a minimal mirror of the validator's resolveTypeExpr
// used only to recover a closure parameter's static type at evaluation
// time for its runtime Func type; user `type` declarations were already
// fully resolved away by the validator before the evaluator ever runs, so
// this only needs to cover the built-in spellings and structural shapes.
func (ev *Evaluator) resolveParamType(te *ast.TypeExpr) types.Type {
	if te == nil {
		return types.Any
	}
	switch te.Kind {
	case ast.TypeSimple:
		if t, ok := builtinTypeNames[te.Name]; ok {
			return t
		}
		return types.Simple{Name: te.Name}
	case ast.TypeArray:
		return types.ArrayOf{Elem: ev.resolveParamType(te.Elem)}
	case ast.TypeMapShape:
		fields := make([]types.Field, len(te.Fields))
		for i, f := range te.Fields {
			fields[i] = types.Field{Key: f.Key, Type: ev.resolveParamType(f.Type)}
		}
		return types.MapOf{Fields: fields}
	case ast.TypeFunc:
		params := make([]types.Type, len(te.Params))
		for i, p := range te.Params {
			params[i] = ev.resolveParamType(p)
		}
		kind := types.KindFunction
		if te.IsBuiltinFunc {
			kind = types.KindBuiltin
		}
		var ret types.Type = types.Any
		if te.Returns != nil {
			ret = ev.resolveParamType(te.Returns)
		}
		return types.Func{Kind: kind, Params: params, Returns: ret}
	case ast.TypeUnion:
		members := make([]types.Type, len(te.Members))
		for i, m := range te.Members {
			members[i] = ev.resolveParamType(m)
		}
		return types.Unite(members)
	}
	return types.Any
}

var builtinTypeNames = map[string]types.Type{
	"Any": types.Any, "Null": types.Null, "Boolean": types.Boolean,
	"Number": types.Number, "Integer": types.Integer, "Real": types.Real,
	"String": types.String_, "Array": types.ArrayOf{Elem: types.Any},
	"Map": types.MapOf{}, "Function": types.Function, "Builtin": types.Builtin,
}

// evalCall dispatches a call expression to a builtin, a closure value, or
// (through the Any escape hatch the validator leaves open) a value whose
// actual runtime shape is discovered only now.
func (ev *Evaluator) evalCall(e *ast.Call, sc *value.Scope) (outcome, error) {
	if ident, ok := e.Callee.(*ast.Ident); ok {
		if _, declared := sc.Get(ident.Name); !declared {
			if impl, ok := ev.builtins[ident.Name]; ok {
				return ev.invokeBuiltin(impl, ident.Name, e, sc)
			}
		}
	}

	callee, err := ev.eval(e.Callee, sc)
	if err != nil || callee.sig != value.SigNormal {
		return callee, err
	}

	if b := callee.val.AsBuiltin(); b != nil {
		impl, ok := ev.builtins[b.Name]
		if !ok {
			return outcome{}, &errors.InternalError{Message: "no implementation registered for builtin " + b.Name, Pos: e.Pos()}
		}
		return ev.invokeBuiltin(impl, b.Name, e, sc)
	}

	closure := callee.val.AsClosure()
	if closure == nil {
		return outcome{}, &errors.InternalError{Message: "call target is not callable at runtime", Pos: e.Pos()}
	}
	return ev.invokeClosure(closure, e, sc)
}

func (ev *Evaluator) invokeBuiltin(impl BuiltinImpl, name string, e *ast.Call, sc *value.Scope) (outcome, error) {
	args := make([]*value.Value, len(e.Args))
	for i, a := range e.Args {
		out, err := ev.eval(a.Value, sc)
		if err != nil || out.sig != value.SigNormal {
			return out, err
		}
		args[i] = out.val
	}
	v, err := impl(ev, args, e.Pos())
	if err != nil {
		if thrown, ok := err.(thrownValue); ok {
			return outcome{sig: value.SigThrow, val: thrown.v}, nil
		}
		return outcome{}, err
	}
	return normal(v), nil
}

// thrownValue lets a builtin implementation raise a catchable Plang
// throw (rather than an escaping Go error) by returning it as its error.
type thrownValue struct{ v *value.Value }

func (t thrownValue) Error() string { return t.v.String() }

func throwf(msg string) error { return thrownValue{v: value.Str(msg)} }

func (ev *Evaluator) invokeClosure(c *value.Closure, e *ast.Call, sc *value.Scope) (outcome, error) {
	callScope := sc.ChildFunction(c.Defining, c.Name)
	for i, p := range c.Params {
		if i < len(e.Args) {
			out, err := ev.eval(e.Args[i].Value, sc)
			if err != nil || out.sig != value.SigNormal {
				return out, err
			}
			callScope.Declare(p.Name, out.val)
			continue
		}
		if p.Default == nil {
			callScope.Declare(p.Name, value.Null())
			continue
		}
		defOut, err := ev.eval(p.Default.(ast.Node), callScope)
		if err != nil || defOut.sig != value.SigNormal {
			return defOut, err
		}
		callScope.Declare(p.Name, defOut.val)
	}
	return ev.runClosureBody(c, callScope, e.Pos())
}

// callClosure binds args positionally (used by higher-order builtins that
// invoke a Plang function value directly, without a source-level Call
// node) and runs the body.
func (ev *Evaluator) callClosure(c *value.Closure, args []*value.Value, pos token.Position) (outcome, error) {
	callScope := ev.global.ChildFunction(c.Defining, c.Name)
	for i, p := range c.Params {
		if i < len(args) {
			callScope.Declare(p.Name, args[i])
			continue
		}
		callScope.Declare(p.Name, value.Null())
	}
	return ev.runClosureBody(c, callScope, pos)
}

func (ev *Evaluator) runClosureBody(c *value.Closure, callScope *value.Scope, pos token.Position) (outcome, error) {
	ev.depth++
	defer func() { ev.depth-- }()
	if ev.depth > MaxCallDepth {
		return outcome{sig: value.SigThrow, val: value.Str("call stack depth exceeded")}, nil
	}

	body, _ := c.Body.(ast.Node)
	out, err := ev.eval(body, callScope)
	if err != nil {
		return outcome{}, err
	}
	switch out.sig {
	case value.SigReturn:
		return normal(ev.coerceReturn(c, out.val)), nil
	case value.SigThrow:
		return out, nil
	case value.SigNext, value.SigLast:
		return outcome{}, &errors.InternalError{Message: "next/last escaped a function body", Pos: pos}
	}
	return normal(ev.coerceReturn(c, out.val)), nil
}

// coerceReturn checks a closure's result against its declared return type.
// A value whose type checks against a declared (non-Any) return type is
// returned as a copy tagged with that return type; with no declared
// return type, or a value that does not check, it is returned unchanged.
// It never rejects a value at runtime.
func (ev *Evaluator) coerceReturn(c *value.Closure, v *value.Value) *value.Value {
	if c.ReturnType == nil || types.IsSimpleAny(c.ReturnType) {
		return v
	}
	if !types.Check(c.ReturnType, v.Type) {
		return v
	}
	narrowed := *v
	narrowed.Type = c.ReturnType
	return &narrowed
}
