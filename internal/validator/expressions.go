package validator

import (
	"github.com/plang-lang/plang/internal/ast"
	"github.com/plang-lang/plang/internal/errors"
	"github.com/plang-lang/plang/internal/token"
	"github.com/plang-lang/plang/internal/types"
)

// checkExpr type-checks n within sc, returning the (possibly rewritten)
// node and its static type. Every AST shape that can nest other nodes
// reassigns its children's fields from this call so that desugaring
// (Dot rewriting, named-arg reordering, default-fill) propagates
// in place through the tree.
func (a *Analyzer) checkExpr(n ast.Node, sc *scope) (ast.Node, types.Type) {
	if n == nil {
		return nil, types.Any
	}
	switch e := n.(type) {
	case *ast.IntLit:
		return e, types.Integer
	case *ast.FloatLit:
		return e, types.Real
	case *ast.StringLit:
		return e, types.String_
	case *ast.BoolLit:
		return e, types.Boolean
	case *ast.NullLit:
		return e, types.Null
	case *ast.InterpString:
		return a.checkInterpString(e, sc)
	case *ast.ArrayLit:
		return a.checkArrayLit(e, sc)
	case *ast.MapLit:
		return a.checkMapLit(e, sc)
	case *ast.Ident:
		return a.checkIdent(e, sc)
	case *ast.Group:
		return a.checkGroup(e, sc)
	case *ast.VarDecl:
		return a.checkVarDecl(e, sc)
	case *ast.Assign:
		return a.checkAssign(e, sc)
	case *ast.CompoundAssign:
		return a.checkCompoundAssign(e, sc)
	case *ast.Binary:
		return a.checkBinary(e, sc)
	case *ast.Unary:
		return a.checkUnary(e, sc)
	case *ast.PreIncDec:
		return a.checkIncDec(e.Target, e.Op, e.Pos(), sc, e)
	case *ast.PostIncDec:
		return a.checkIncDec(e.Target, e.Op, e.Pos(), sc, e)
	case *ast.Index:
		return a.checkIndex(e, sc)
	case *ast.Dot:
		return a.checkDot(e, sc)
	case *ast.Call:
		return a.checkCall(e, sc)
	case *ast.If:
		return a.checkIf(e, sc)
	case *ast.Ternary:
		return a.checkTernary(e, sc)
	case *ast.While:
		return a.checkWhile(e, sc)
	case *ast.Try:
		return a.checkTry(e, sc)
	case *ast.Throw:
		_, _ = a.checkExpr(e.Value, sc)
		return e, types.Null
	case *ast.Return:
		return a.checkReturn(e, sc)
	case *ast.Next:
		if !sc.inLoop {
			a.addError(errors.InvalidContext, e.Pos(), "next used outside a while loop")
		}
		return e, types.Null
	case *ast.Last:
		if !sc.inLoop {
			a.addError(errors.InvalidContext, e.Pos(), "last used outside a while loop")
		}
		return e, types.Null
	case *ast.FuncLit:
		return a.checkFuncLit(e, sc)
	case *ast.TypeDecl:
		return a.checkTypeDecl(e, sc)
	case *ast.Exists:
		return a.checkExists(e, sc)
	case *ast.Delete:
		return a.checkDelete(e, sc)
	case *ast.Keys:
		return a.checkKeys(e, sc)
	case *ast.Values:
		return a.checkValues(e, sc)
	}
	a.addError(errors.InvalidContext, n.Pos(), "unsupported expression form")
	return n, types.Any
}

func (a *Analyzer) checkInterpString(e *ast.InterpString, sc *scope) (ast.Node, types.Type) {
	// The embedded `{expr}` spans are re-parsed and evaluated lazily by
	// the evaluator in the caller's live scope (closures can reference
	// locals bound after this literal was parsed), so the validator only
	// confirms the literal text is otherwise well-formed.
	return e, types.String_
}

func (a *Analyzer) checkArrayLit(e *ast.ArrayLit, sc *scope) (ast.Node, types.Type) {
	elemTypes := make([]types.Type, 0, len(e.Elements))
	for i, el := range e.Elements {
		rewritten, t := a.checkExpr(el, sc)
		e.Elements[i] = rewritten
		elemTypes = append(elemTypes, t)
	}
	return e, types.ArrayOf{Elem: types.Unite(elemTypes)}
}

func (a *Analyzer) checkMapLit(e *ast.MapLit, sc *scope) (ast.Node, types.Type) {
	fields := make([]types.Field, 0, len(e.Entries))
	for i, entry := range e.Entries {
		rewritten, t := a.checkExpr(entry.Value, sc)
		e.Entries[i].Value = rewritten
		fields = append(fields, types.Field{Key: entry.Key, Type: t})
	}
	return e, types.MapOf{Fields: fields}
}

func (a *Analyzer) checkIdent(e *ast.Ident, sc *scope) (ast.Node, types.Type) {
	if t, ok := sc.lookup(e.Name); ok {
		return e, t
	}
	if d, ok := a.namespace.Lookup(e.Name); ok {
		return e, descriptorFuncType(d)
	}
	a.addError(errors.Undeclared, e.Pos(), "undeclared identifier %q", e.Name)
	return e, types.Any
}

func (a *Analyzer) checkGroup(e *ast.Group, sc *scope) (ast.Node, types.Type) {
	inner := newScope(sc)
	var last types.Type = types.Null
	for i, n := range e.Body {
		rewritten, t := a.checkExpr(n, inner)
		e.Body[i] = rewritten
		last = t
	}
	return e, last
}

func (a *Analyzer) checkIf(e *ast.If, sc *scope) (ast.Node, types.Type) {
	cond, ct := a.checkExpr(e.Cond, sc)
	e.Cond = cond
	if !hasTruthiness(ct) {
		a.addError(errors.TypeMismatch, e.Cond.Pos(), "condition of type %s has no truth value", types.ToString(ct))
	}
	then, tt := a.checkExpr(e.Then, sc)
	e.Then = then
	if e.Else == nil {
		return e, types.Unite([]types.Type{tt, types.Null})
	}
	els, et := a.checkExpr(e.Else, sc)
	e.Else = els
	return e, types.Unite([]types.Type{tt, et})
}

func (a *Analyzer) checkTernary(e *ast.Ternary, sc *scope) (ast.Node, types.Type) {
	cond, ct := a.checkExpr(e.Cond, sc)
	e.Cond = cond
	if !hasTruthiness(ct) {
		a.addError(errors.TypeMismatch, e.Cond.Pos(), "condition of type %s has no truth value", types.ToString(ct))
	}
	then, tt := a.checkExpr(e.Then, sc)
	e.Then = then
	els, et := a.checkExpr(e.Else, sc)
	e.Else = els
	return e, types.Unite([]types.Type{tt, et})
}

func (a *Analyzer) checkWhile(e *ast.While, sc *scope) (ast.Node, types.Type) {
	cond, ct := a.checkExpr(e.Cond, sc)
	e.Cond = cond
	if !hasTruthiness(ct) {
		a.addError(errors.TypeMismatch, e.Cond.Pos(), "condition of type %s has no truth value", types.ToString(ct))
	}
	loopScope := newScope(sc)
	loopScope.inLoop = true
	body, _ := a.checkExpr(e.Body, loopScope)
	e.Body = body
	return e, types.Null
}

// hasTruthiness reports whether t is one of the types that defines a
// truth value for: Boolean, Integer, Real, String, or a union of only
// those.
func hasTruthiness(t types.Type) bool {
	t = types.ResolveAlias(t)
	if types.IsSimpleAny(t) {
		return true
	}
	if u, ok := t.(types.Union); ok {
		for _, m := range u.Members {
			if !hasTruthiness(m) {
				return false
			}
		}
		return true
	}
	s, ok := t.(types.Simple)
	if !ok {
		return false
	}
	switch s.Name {
	case "Boolean", "Integer", "Real", "Number", "String":
		return true
	}
	return false
}

func (a *Analyzer) checkUnary(e *ast.Unary, sc *scope) (ast.Node, types.Type) {
	operand, ot := a.checkExpr(e.Operand, sc)
	e.Operand = operand
	switch e.Op {
	case token.BANG:
		if !hasTruthiness(ot) {
			a.addError(errors.BadOperandType, e.Pos(), "! requires a value with a truth value, got %s", types.ToString(ot))
		}
		return e, types.Boolean
	case token.PLUS, token.MINUS:
		if !types.IsArithmetic(ot) && !types.IsSimpleAny(ot) {
			a.addError(errors.BadOperandType, e.Pos(), "unary %s requires a Number, got %s", e.Op, types.ToString(ot))
		}
		if types.IsSimpleAny(ot) {
			return e, types.Any
		}
		return e, ot
	}
	a.addError(errors.BadOperandType, e.Pos(), "unsupported unary operator %s", e.Op)
	return e, types.Any
}

func (a *Analyzer) checkIncDec(target ast.Node, op token.Kind, pos token.Position, sc *scope, self ast.Node) (ast.Node, types.Type) {
	rewritten, t := a.checkExpr(target, sc)
	if !isLvalue(rewritten) {
		a.addError(errors.InvalidContext, pos, "%s requires an assignable target", op)
	}
	if !types.IsArithmetic(t) && !types.IsSimpleAny(t) {
		a.addError(errors.BadOperandType, pos, "%s requires a Number target, got %s", op, types.ToString(t))
	}
	switch v := self.(type) {
	case *ast.PreIncDec:
		v.Target = rewritten
	case *ast.PostIncDec:
		v.Target = rewritten
	}
	return self, t
}

func isLvalue(n ast.Node) bool {
	switch n.(type) {
	case *ast.Ident, *ast.Index:
		return true
	}
	return false
}

func (a *Analyzer) checkIndex(e *ast.Index, sc *scope) (ast.Node, types.Type) {
	target, tt := a.checkExpr(e.Target, sc)
	e.Target = target
	tt = types.ResolveAlias(tt)

	if rng, ok := e.Index.(*ast.Range); ok {
		low, lt := a.checkExpr(rng.Low, sc)
		rng.Low = low
		high, ht := a.checkExpr(rng.High, sc)
		rng.High = high
		if !types.IsSubtype(lt, types.Integer) && !types.IsSimpleAny(lt) {
			a.addError(errors.BadOperandType, rng.Pos(), "range bound must be an Integer, got %s", types.ToString(lt))
		}
		if !types.IsSubtype(ht, types.Integer) && !types.IsSimpleAny(ht) {
			a.addError(errors.BadOperandType, rng.Pos(), "range bound must be an Integer, got %s", types.ToString(ht))
		}
		e.Index = rng
		switch v := tt.(type) {
		case types.ArrayOf:
			return e, types.ArrayOf{Elem: v.Elem}
		case types.Simple:
			if v.Name == "String" {
				return e, types.String_
			}
		}
		if types.IsSimpleAny(tt) {
			return e, types.Any
		}
		a.addError(errors.BadOperandType, e.Pos(), "range index requires an Array or String, got %s", types.ToString(tt))
		return e, types.Any
	}

	idx, it := a.checkExpr(e.Index, sc)
	e.Index = idx

	switch v := tt.(type) {
	case types.ArrayOf:
		if !types.IsSubtype(it, types.Integer) && !types.IsSimpleAny(it) {
			a.addError(errors.BadOperandType, e.Pos(), "array index must be an Integer, got %s", types.ToString(it))
		}
		return e, v.Elem
	case types.MapOf:
		key, ok := constStringKey(e.Index)
		if ok {
			if i := v.FieldIndex(key); i >= 0 {
				return e, v.Fields[i].Type
			}
		}
		if !types.IsSubtype(it, types.String_) && !types.IsSimpleAny(it) {
			a.addError(errors.BadOperandType, e.Pos(), "map index must be a String, got %s", types.ToString(it))
		}
		return e, types.Any
	case types.Simple:
		if v.Name == "String" {
			if !types.IsSubtype(it, types.Integer) && !types.IsSimpleAny(it) {
				a.addError(errors.BadOperandType, e.Pos(), "string index must be an Integer, got %s", types.ToString(it))
			}
			return e, types.String_
		}
		if v.Name == "Map" || v.Name == "Any" {
			return e, types.Any
		}
	}
	a.addError(errors.BadOperandType, e.Pos(), "%s is not indexable", types.ToString(tt))
	return e, types.Any
}

func constStringKey(n ast.Node) (string, bool) {
	if s, ok := n.(*ast.StringLit); ok {
		return s.Value, true
	}
	return "", false
}
