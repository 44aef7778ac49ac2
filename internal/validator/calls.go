package validator

import (
	"github.com/plang-lang/plang/internal/ast"
	"github.com/plang-lang/plang/internal/errors"
	"github.com/plang-lang/plang/internal/namespace"
	"github.com/plang-lang/plang/internal/token"
	"github.com/plang-lang/plang/internal/types"
)

// descriptorFuncType builds the Func type a builtin name resolves to when
// referenced as a value (passed to `map`/`filter`, assigned to a Function
// variable), rather than called directly.
func descriptorFuncType(d *namespace.Descriptor) types.Func {
	params := make([]types.Type, len(d.Params))
	for i, p := range d.Params {
		params[i] = p.Type
	}
	ret := d.Returns
	if ret == nil {
		ret = types.Any
	}
	return types.Func{Kind: types.KindBuiltin, Params: params, Returns: ret}
}

// checkDot desugars `target.name`: when target resolves to a Map
// type with a `name` field, it becomes bracket-access `target["name"]`;
// otherwise it is uniform function call syntax sugar for `name(target)`,
// rewritten into a Call so the evaluator only ever sees Index and Call.
func (a *Analyzer) checkDot(e *ast.Dot, sc *scope) (ast.Node, types.Type) {
	target, tt := a.checkExpr(e.Target, sc)
	e.Target = target

	if m, ok := types.ResolveAlias(tt).(types.MapOf); ok {
		if i := m.FieldIndex(e.Name); i >= 0 {
			idx := ast.NewIndex(e.Pos(), target, ast.NewStringLit(e.Pos(), e.Name))
			return idx, m.Fields[i].Type
		}
	}

	call := ast.NewCall(e.Pos(), ast.NewIdent(e.Pos(), e.Name), []ast.Arg{{Value: target}})
	return a.checkCall(call, sc)
}

// checkCall resolves the callee to a user function or builtin signature
// and type-checks each argument against its parameter. Builtin calls go
// through checkDescriptorCall, which reorders named arguments. A call to
// a Function-typed value is checked positionally: argument names are not
// consulted, and the argument count must equal the parameter count, so
// omitting a defaulted parameter is reported as a bad call.
func (a *Analyzer) checkCall(e *ast.Call, sc *scope) (ast.Node, types.Type) {
	callee, ct := a.checkExpr(e.Callee, sc)
	e.Callee = callee

	if ident, ok := e.Callee.(*ast.Ident); ok {
		if d, ok := a.namespace.Lookup(ident.Name); ok {
			return a.checkDescriptorCall(e, d, sc)
		}
	}

	fn, ok := types.ResolveAlias(ct).(types.Func)
	if !ok {
		if types.IsSimpleAny(ct) {
			for i := range e.Args {
				v, _ := a.checkExpr(e.Args[i].Value, sc)
				e.Args[i].Value = v
			}
			return e, types.Any
		}
		a.addError(errors.BadCall, e.Pos(), "%s is not callable", types.ToString(ct))
		return e, types.Any
	}

	if len(e.Args) != len(fn.Params) {
		a.addError(errors.BadCall, e.Pos(), "expected %d argument(s), got %d", len(fn.Params), len(e.Args))
	}
	for i := range e.Args {
		v, vt := a.checkExpr(e.Args[i].Value, sc)
		e.Args[i].Value = v
		if i < len(fn.Params) && !types.Check(fn.Params[i], vt) {
			a.addError(errors.TypeMismatch, e.Pos(), "argument %d: expected %s, got %s", i+1, types.ToString(fn.Params[i]), types.ToString(vt))
		}
	}
	return e, fn.Returns
}

// checkDescriptorCall handles a call to a registered builtin: named
// arguments are matched by parameter name and reordered positionally
// (named arguments reordered to positional order), missing
// defaulted trailing arguments are left for the interpreter to fill from
// the builtin's own default behavior, and each positional slot is
// type-checked. A builtin whose descriptor sets Variadic accepts any
// number of trailing arguments beyond the declared parameter list.
func (a *Analyzer) checkDescriptorCall(e *ast.Call, d *namespace.Descriptor, sc *scope) (ast.Node, types.Type) {
	positional := make([]ast.Node, len(d.Params))
	var extra []ast.Node
	nextSlot := 0
	sawNamed := false

	for _, arg := range e.Args {
		value, vt := a.checkExpr(arg.Value, sc)

		if arg.Name == "" {
			if sawNamed {
				a.addError(errors.BadCall, e.Pos(), "positional argument follows a named argument in call to %s", d.Name)
			}
			if nextSlot < len(d.Params) {
				positional[nextSlot] = value
				a.checkArgType(d.Params[nextSlot], vt, e.Pos(), nextSlot+1, d.Name)
				nextSlot++
			} else if d.Variadic {
				extra = append(extra, value)
			} else {
				a.addError(errors.BadCall, e.Pos(), "too many arguments to %s", d.Name)
			}
			continue
		}

		sawNamed = true
		idx := -1
		for i, p := range d.Params {
			if p.Name == arg.Name {
				idx = i
				break
			}
		}
		if idx == -1 {
			a.addError(errors.BadCall, e.Pos(), "%s has no parameter named %s", d.Name, arg.Name)
			continue
		}
		if positional[idx] != nil {
			a.addError(errors.BadCall, e.Pos(), "argument %s passed more than once to %s", arg.Name, d.Name)
		}
		positional[idx] = value
		a.checkArgType(d.Params[idx], vt, e.Pos(), idx+1, d.Name)
	}

	newArgs := make([]ast.Arg, 0, len(d.Params)+len(extra))
	for i, p := range d.Params {
		if positional[i] == nil {
			if !p.HasDefault {
				a.addError(errors.BadCall, e.Pos(), "missing required argument %s to %s", p.Name, d.Name)
			}
			continue // the interpreter supplies the builtin's own default
		}
		newArgs = append(newArgs, ast.Arg{Value: positional[i]})
	}
	newArgs = append(newArgs, toArgs(extra)...)
	e.Args = newArgs

	ret := d.Returns
	if ret == nil {
		ret = types.Any
	}
	return e, ret
}

func toArgs(vs []ast.Node) []ast.Arg {
	out := make([]ast.Arg, len(vs))
	for i, v := range vs {
		out[i] = ast.Arg{Value: v}
	}
	return out
}

func (a *Analyzer) checkArgType(p namespace.Param, argType types.Type, pos token.Position, n int, name string) {
	if types.IsSimpleAny(p.Type) || types.Check(p.Type, argType) {
		return
	}
	a.addError(errors.TypeMismatch, pos, "%s argument %d (%s): expected %s, got %s", name, n, p.Name, types.ToString(p.Type), types.ToString(argType))
}
