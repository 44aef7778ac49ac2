package validator

import (
	"github.com/plang-lang/plang/internal/ast"
	"github.com/plang-lang/plang/internal/types"
)

var builtinSimpleNames = map[string]types.Type{
	"Any": types.Any, "Null": types.Null, "Boolean": types.Boolean,
	"Number": types.Number, "Integer": types.Integer, "Real": types.Real,
	"String": types.String_, "Array": types.ArrayOf{Elem: types.Any},
	"Map": types.MapOf{}, "Function": types.Function, "Builtin": types.Builtin,
}

// resolveTypeExpr turns the parsed syntax of a type literal into a
// types.Type, resolving user `type` declarations registered earlier in
// the same program.
func (a *Analyzer) resolveTypeExpr(te *ast.TypeExpr) types.Type {
	if te == nil {
		return types.Any
	}
	switch te.Kind {
	case ast.TypeSimple:
		if t, ok := builtinSimpleNames[te.Name]; ok {
			return t
		}
		if t, ok := a.userTypeDecls[te.Name]; ok {
			return t
		}
		return types.Simple{Name: te.Name}
	case ast.TypeArray:
		return types.ArrayOf{Elem: a.resolveTypeExpr(te.Elem)}
	case ast.TypeMapShape:
		fields := make([]types.Field, len(te.Fields))
		for i, f := range te.Fields {
			fields[i] = types.Field{Key: f.Key, Type: a.resolveTypeExpr(f.Type)}
		}
		return types.MapOf{Fields: fields}
	case ast.TypeFunc:
		params := make([]types.Type, len(te.Params))
		for i, p := range te.Params {
			params[i] = a.resolveTypeExpr(p)
		}
		kind := types.KindFunction
		if te.IsBuiltinFunc {
			kind = types.KindBuiltin
		}
		var ret types.Type = types.Any
		if te.Returns != nil {
			ret = a.resolveTypeExpr(te.Returns)
		}
		return types.Func{Kind: kind, Params: params, Returns: ret}
	case ast.TypeUnion:
		members := make([]types.Type, len(te.Members))
		for i, m := range te.Members {
			members[i] = a.resolveTypeExpr(m)
		}
		return types.Unite(members)
	}
	return types.Any
}
