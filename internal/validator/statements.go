package validator

import (
	"github.com/plang-lang/plang/internal/ast"
	"github.com/plang-lang/plang/internal/errors"
	"github.com/plang-lang/plang/internal/token"
	"github.com/plang-lang/plang/internal/types"
)

// checkVarDecl resolves the declared type (or infers it from the
// initializer), fills an omitted initializer with the type's default
// literal (the missing-initializer desugaring), and declares the name
// in sc.
func (a *Analyzer) checkVarDecl(e *ast.VarDecl, sc *scope) (ast.Node, types.Type) {
	var declared types.Type
	if e.TypeAnnot != nil {
		declared = a.resolveTypeExpr(e.TypeAnnot)
	}

	if e.Init == nil {
		if declared == nil {
			declared = types.Any
		}
		e.Init = defaultLiteral(declared, e.Pos())
		sc.declare(e.Name, declared)
		return e, declared
	}

	init, it := a.checkExpr(e.Init, sc)
	e.Init = init

	if declared == nil {
		declared = it
	} else if !types.Check(declared, it) {
		a.addError(errors.TypeMismatch, e.Pos(), "cannot initialize %s: %s with a value of type %s", e.Name, types.ToString(declared), types.ToString(it))
	}
	sc.declare(e.Name, declared)
	return e, declared
}

// defaultLiteral builds the AST literal for t's zero value,
// used both for an omitted `var` initializer and for an omitted map-shape
// field value.
func defaultLiteral(t types.Type, pos token.Position) ast.Node {
	d := types.ResolveDefaultValue(t)
	switch d.Kind {
	case "boolean":
		return ast.NewBoolLit(pos, d.Bool)
	case "integer":
		return ast.NewIntLit(pos, d.Int)
	case "real":
		return ast.NewFloatLit(pos, d.Real)
	case "string":
		return ast.NewStringLit(pos, d.Str)
	}
	return ast.NewNullLit(pos)
}

func (a *Analyzer) checkAssign(e *ast.Assign, sc *scope) (ast.Node, types.Type) {
	target, tt := a.checkExpr(e.Target, sc)
	e.Target = target
	if !isLvalue(target) {
		a.addError(errors.InvalidContext, e.Pos(), "left side of = must be an assignable target")
	}
	value, vt := a.checkExpr(e.Value, sc)
	e.Value = value
	if !types.Check(tt, vt) {
		a.addError(errors.TypeMismatch, e.Pos(), "cannot assign %s to a target of type %s", types.ToString(vt), types.ToString(tt))
	}
	return e, tt
}

func (a *Analyzer) checkCompoundAssign(e *ast.CompoundAssign, sc *scope) (ast.Node, types.Type) {
	target, tt := a.checkExpr(e.Target, sc)
	e.Target = target
	if !isLvalue(target) {
		a.addError(errors.InvalidContext, e.Pos(), "left side of %s must be an assignable target", e.Op)
	}
	value, vt := a.checkExpr(e.Value, sc)
	e.Value = value
	if e.Op == token.PLUS_EQ && types.IsSubtype(tt, types.String_) {
		if !types.IsSubtype(vt, types.String_) && !types.IsSimpleAny(vt) {
			a.addError(errors.BadOperandType, e.Pos(), "+= on a String requires a String, got %s", types.ToString(vt))
		}
		return e, tt
	}
	if !types.IsArithmetic(tt) && !types.IsSimpleAny(tt) {
		a.addError(errors.BadOperandType, e.Pos(), "%s requires a Number target, got %s", e.Op, types.ToString(tt))
	}
	if !types.IsArithmetic(vt) && !types.IsSimpleAny(vt) {
		a.addError(errors.BadOperandType, e.Pos(), "%s requires a Number operand, got %s", e.Op, types.ToString(vt))
	}
	return e, tt
}

// checkBinary implements the operator rules: arithmetic ops
// (+ - * / % ** ^ ^^) require Number operands and promote to the wider
// rank; `.` and `~` are string operators; comparisons (== != < <= > >=)
// and boolean combinators (&& || and or) return Boolean.
func (a *Analyzer) checkBinary(e *ast.Binary, sc *scope) (ast.Node, types.Type) {
	left, lt := a.checkExpr(e.Left, sc)
	e.Left = left
	right, rt := a.checkExpr(e.Right, sc)
	e.Right = right

	switch e.Op {
	case token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.POW, token.CARET, token.CARETCARET:
		if !arithmeticOrAny(lt) || !arithmeticOrAny(rt) {
			a.addError(errors.BadOperandType, e.Pos(), "%s requires Number operands, got %s and %s", e.Op, types.ToString(lt), types.ToString(rt))
			return e, types.Any
		}
		if types.IsSimpleAny(lt) || types.IsSimpleAny(rt) {
			return e, types.Any
		}
		return e, types.Promote(lt, rt)

	case token.DOT:
		if !stringOrAny(lt) || !stringOrAny(rt) {
			a.addError(errors.BadOperandType, e.Pos(), ". requires String operands, got %s and %s", types.ToString(lt), types.ToString(rt))
		}
		return e, types.String_

	case token.TILDE:
		if !stringOrAny(lt) || !stringOrAny(rt) {
			a.addError(errors.BadOperandType, e.Pos(), "~ requires String operands, got %s and %s", types.ToString(lt), types.ToString(rt))
		}
		return e, types.Integer

	case token.EQ, token.NEQ:
		return e, types.Boolean

	case token.LT, token.LE, token.GT, token.GE:
		if !comparableOrAny(lt, rt) {
			a.addError(errors.BadOperandType, e.Pos(), "%s requires comparable operands, got %s and %s", e.Op, types.ToString(lt), types.ToString(rt))
		}
		return e, types.Boolean

	case token.AND_AND, token.OR_OR, token.AND, token.OR:
		if !hasTruthiness(lt) || !hasTruthiness(rt) {
			a.addError(errors.BadOperandType, e.Pos(), "%s requires operands with a truth value", e.Op)
		}
		return e, types.Boolean
	}

	a.addError(errors.BadOperandType, e.Pos(), "unsupported binary operator %s", e.Op)
	return e, types.Any
}

func arithmeticOrAny(t types.Type) bool { return types.IsArithmetic(t) || types.IsSimpleAny(t) }
func stringOrAny(t types.Type) bool {
	return types.IsSubtype(t, types.String_) || types.IsSimpleAny(t)
}
func comparableOrAny(l, r types.Type) bool {
	if types.IsSimpleAny(l) || types.IsSimpleAny(r) {
		return true
	}
	if arithmeticOrAny(l) && arithmeticOrAny(r) {
		return true
	}
	return stringOrAny(l) && stringOrAny(r)
}

func (a *Analyzer) checkTry(e *ast.Try, sc *scope) (ast.Node, types.Type) {
	body, bt := a.checkExpr(e.Body, sc)
	e.Body = body

	seenDefault := false
	seenConds := map[string]bool{}
	branchTypes := []types.Type{bt}
	for i, c := range e.Catches {
		if c.Cond == nil {
			if seenDefault {
				a.addError(errors.DuplicateCatch, c.Pos(), "only one default catch is allowed")
			}
			seenDefault = true
			if i != len(e.Catches)-1 {
				a.addError(errors.InvalidContext, c.Pos(), "the default catch must be last")
			}
		} else {
			cond, _ := a.checkExpr(c.Cond, sc)
			c.Cond = cond
			if key, ok := constStringKey(cond); ok {
				if seenConds[key] {
					a.addError(errors.DuplicateCatch, c.Pos(), "duplicate catch condition %q", key)
				}
				seenConds[key] = true
			}
		}
		catchScope := newScope(sc)
		catchScope.declare("exception", types.Any)
		cbody, cbt := a.checkExpr(c.Body, catchScope)
		c.Body = cbody
		branchTypes = append(branchTypes, cbt)
	}
	if !seenDefault {
		a.addError(errors.MissingDefault, e.Pos(), "try requires a default catch clause")
	}
	return e, types.Unite(branchTypes)
}

func (a *Analyzer) checkReturn(e *ast.Return, sc *scope) (ast.Node, types.Type) {
	if sc.funcName == "" {
		a.addError(errors.InvalidContext, e.Pos(), "return used outside a function")
	}
	var rt types.Type = types.Null
	if e.Value != nil {
		value, t := a.checkExpr(e.Value, sc)
		e.Value = value
		rt = t
	}
	if len(a.returns) > 0 {
		top := len(a.returns) - 1
		a.returns[top] = append(a.returns[top], rt)
	}
	return e, rt
}

func (a *Analyzer) checkFuncLit(e *ast.FuncLit, sc *scope) (ast.Node, types.Type) {
	fnScope := newScope(sc)
	fnScope.funcName = nameOr(e.Name, "<anonymous>")
	fnScope.inLoop = false

	paramTypes := make([]types.Type, len(e.Params))
	seenDefault := false
	for i := range e.Params {
		p := &e.Params[i]
		var pt types.Type = types.Any
		if p.Type != nil {
			pt = a.resolveTypeExpr(p.Type)
		}
		if p.Default != nil {
			seenDefault = true
			def, dt := a.checkExpr(p.Default, sc)
			p.Default = def
			if !types.Check(pt, dt) {
				a.addError(errors.TypeMismatch, e.Pos(), "default value for parameter %s does not match its type %s", p.Name, types.ToString(pt))
			}
		} else if seenDefault {
			a.addError(errors.BadCall, e.Pos(), "parameter %s without a default follows a defaulted parameter", p.Name)
		}
		paramTypes[i] = pt
		fnScope.declare(p.Name, pt)
	}

	var declaredReturn types.Type
	if e.ReturnType != nil {
		declaredReturn = a.resolveTypeExpr(e.ReturnType)
	}
	if e.Name != "" {
		var provisional types.Type = types.Any
		if declaredReturn != nil {
			provisional = declaredReturn
		}
		sc.declare(e.Name, types.Func{Kind: types.KindFunction, Params: paramTypes, Returns: provisional})
	}

	a.returns = append(a.returns, nil)
	body, bodyType := a.checkExpr(e.Body, fnScope)
	e.Body = body
	collected := a.returns[len(a.returns)-1]
	a.returns = a.returns[:len(a.returns)-1]

	var returnType types.Type
	if declaredReturn != nil {
		returnType = declaredReturn
		for _, rt := range collected {
			if !types.Check(declaredReturn, rt) {
				a.addError(errors.TypeMismatch, e.Pos(), "function %s returns %s, incompatible with declared return type %s", nameOr(e.Name, "<anonymous>"), types.ToString(rt), types.ToString(declaredReturn))
			}
		}
	} else {
		// An omitted return type infers the union of every `return`
		// plus the body's fall-through value.
		returnType = types.Unite(append(append([]types.Type{}, collected...), bodyType))
	}

	fnType := types.Func{Kind: types.KindFunction, Params: paramTypes, Returns: returnType}
	if e.Name != "" {
		a.userFuncs[e.Name] = &fnType
		sc.declare(e.Name, fnType)
	}
	return e, fnType
}

// constValue extracts a types.Value from a literal node, used to record
// an explicit `type Name = Underlying = default` default.
func constValue(n ast.Node) (types.Value, bool) {
	switch v := n.(type) {
	case *ast.BoolLit:
		return types.Value{Kind: "boolean", Bool: v.Value}, true
	case *ast.IntLit:
		return types.Value{Kind: "integer", Int: v.Value}, true
	case *ast.FloatLit:
		return types.Value{Kind: "real", Real: v.Value}, true
	case *ast.StringLit:
		return types.Value{Kind: "string", Str: v.Value}, true
	case *ast.NullLit:
		return types.Value{Kind: "null"}, true
	}
	return types.Value{}, false
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

func (a *Analyzer) checkTypeDecl(e *ast.TypeDecl, sc *scope) (ast.Node, types.Type) {
	underlying := a.resolveTypeExpr(e.Underlying)
	var def *types.Value
	if e.Default != nil {
		val, dt := a.checkExpr(e.Default, sc)
		e.Default = val
		if !types.Check(underlying, dt) {
			a.addError(errors.TypeMismatch, e.Pos(), "default for type %s does not match underlying type %s", e.Name, types.ToString(underlying))
		}
		if cv, ok := constValue(val); ok {
			def = &cv
		}
	}
	nt := types.NewTypeDecl{Name: e.Name, Underlying: underlying, Default: def}
	a.userTypeDecls[e.Name] = nt
	return e, types.Null
}

func (a *Analyzer) checkExists(e *ast.Exists, sc *scope) (ast.Node, types.Type) {
	target, _ := a.checkExpr(e.Target, sc)
	e.Target = target
	key, kt := a.checkExpr(e.Key, sc)
	e.Key = key
	if !types.IsSubtype(kt, types.String_) && !types.IsSimpleAny(kt) {
		a.addError(errors.BadOperandType, e.Pos(), "exists key must be a String, got %s", types.ToString(kt))
	}
	return e, types.Boolean
}

func (a *Analyzer) checkDelete(e *ast.Delete, sc *scope) (ast.Node, types.Type) {
	target, _ := a.checkExpr(e.Target, sc)
	e.Target = target
	if e.Key != nil {
		key, kt := a.checkExpr(e.Key, sc)
		e.Key = key
		if !types.IsSubtype(kt, types.String_) && !types.IsSimpleAny(kt) {
			a.addError(errors.BadOperandType, e.Pos(), "delete key must be a String, got %s", types.ToString(kt))
		}
	}
	return e, types.Null
}

func (a *Analyzer) checkKeys(e *ast.Keys, sc *scope) (ast.Node, types.Type) {
	target, _ := a.checkExpr(e.Target, sc)
	e.Target = target
	return e, types.ArrayOf{Elem: types.String_}
}

func (a *Analyzer) checkValues(e *ast.Values, sc *scope) (ast.Node, types.Type) {
	target, tt := a.checkExpr(e.Target, sc)
	e.Target = target
	if m, ok := types.ResolveAlias(tt).(types.MapOf); ok {
		vts := make([]types.Type, len(m.Fields))
		for i, f := range m.Fields {
			vts[i] = f.Type
		}
		return e, types.ArrayOf{Elem: types.Unite(vts)}
	}
	return e, types.ArrayOf{Elem: types.Any}
}
