package interp

import (
	"fmt"
	"strings"

	"github.com/plang-lang/plang/internal/ast"
	"github.com/plang-lang/plang/internal/errors"
	"github.com/plang-lang/plang/internal/token"
	"github.com/plang-lang/plang/internal/types"
	"github.com/plang-lang/plang/internal/value"
)

func asReal(v *value.Value) float64 {
	if v.Type == types.Integer {
		return float64(v.AsInt())
	}
	return v.AsReal()
}

func isRealOperand(v *value.Value) bool { return v.Type == types.Real }

func (ev *Evaluator) evalBinary(e *ast.Binary, sc *value.Scope) (outcome, error) {
	left, err := ev.eval(e.Left, sc)
	if err != nil || left.sig != value.SigNormal {
		return left, err
	}
	switch e.Op {
	case token.AND_AND, token.AND:
		if !left.val.Truthy() {
			return normal(value.Bool(false)), nil
		}
		right, err := ev.eval(e.Right, sc)
		if err != nil || right.sig != value.SigNormal {
			return right, err
		}
		return normal(value.Bool(right.val.Truthy())), nil
	case token.OR_OR, token.OR:
		if left.val.Truthy() {
			return normal(value.Bool(true)), nil
		}
		right, err := ev.eval(e.Right, sc)
		if err != nil || right.sig != value.SigNormal {
			return right, err
		}
		return normal(value.Bool(right.val.Truthy())), nil
	}

	right, err := ev.eval(e.Right, sc)
	if err != nil || right.sig != value.SigNormal {
		return right, err
	}
	l, r := left.val, right.val

	switch e.Op {
	case token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT, token.POW, token.CARET, token.CARETCARET:
		return ev.evalArith(e.Op, l, r, e.Pos())
	case token.DOT:
		return normal(value.Str(l.String() + r.String())), nil
	case token.TILDE:
		idx := strings.Index(l.AsString(), r.AsString())
		return normal(value.Int(int64(idx))), nil
	case token.EQ:
		return normal(value.Bool(valuesEqual(l, r))), nil
	case token.NEQ:
		return normal(value.Bool(!valuesEqual(l, r))), nil
	case token.LT, token.LE, token.GT, token.GE:
		return ev.evalCompare(e.Op, l, r, e.Pos())
	}
	return outcome{}, &errors.InternalError{Message: "unhandled binary operator " + e.Op.String(), Pos: e.Pos()}
}

func (ev *Evaluator) evalArith(op token.Kind, l, r *value.Value, pos token.Position) (outcome, error) {
	useReal := isRealOperand(l) || isRealOperand(r)
	if useReal {
		a, b := asReal(l), asReal(r)
		var res float64
		switch op {
		case token.PLUS:
			res = a + b
		case token.MINUS:
			res = a - b
		case token.STAR:
			res = a * b
		case token.SLASH:
			if b == 0 {
				return outcome{sig: value.SigThrow, val: value.Str("division by zero")}, nil
			}
			res = a / b
		case token.PERCENT:
			return outcome{}, &errors.RuntimeError{Thrown: "% requires Integer operands", Pos: pos}
		case token.POW, token.CARET:
			res = pow(a, b)
		case token.CARETCARET:
			return outcome{}, &errors.RuntimeError{Thrown: "^^ requires Integer operands", Pos: pos}
		}
		return normal(value.Real(res)), nil
	}
	a, b := l.AsInt(), r.AsInt()
	switch op {
	case token.PLUS:
		return normal(value.Int(a + b)), nil
	case token.MINUS:
		return normal(value.Int(a - b)), nil
	case token.STAR:
		return normal(value.Int(a * b)), nil
	case token.SLASH:
		if b == 0 {
			return outcome{sig: value.SigThrow, val: value.Str("division by zero")}, nil
		}
		return normal(value.Int(a / b)), nil
	case token.PERCENT:
		if b == 0 {
			return outcome{sig: value.SigThrow, val: value.Str("modulo by zero")}, nil
		}
		return normal(value.Int(a % b)), nil
	case token.POW, token.CARET:
		return normal(value.Real(pow(float64(a), float64(b)))), nil
	case token.CARETCARET:
		return normal(value.Int(intPow(a, b))), nil
	}
	return outcome{}, &errors.InternalError{Message: "unhandled arithmetic operator " + op.String(), Pos: pos}
}

func pow(a, b float64) float64 {
	if b == 0 {
		return 1
	}
	result := 1.0
	neg := b < 0
	n := b
	if neg {
		n = -n
	}
	for i := 0; i < int(n); i++ {
		result *= a
	}
	if neg {
		return 1 / result
	}
	return result
}

func intPow(a, b int64) int64 {
	if b <= 0 {
		return 1
	}
	result := int64(1)
	for i := int64(0); i < b; i++ {
		result *= a
	}
	return result
}

func valuesEqual(l, r *value.Value) bool {
	if l.IsNull() || r.IsNull() {
		return l.IsNull() && r.IsNull()
	}
	switch lp := l.Payload.(type) {
	case bool:
		rp, ok := r.Payload.(bool)
		return ok && lp == rp
	case int64:
		switch rp := r.Payload.(type) {
		case int64:
			return lp == rp
		case float64:
			return float64(lp) == rp
		}
		return false
	case float64:
		switch rp := r.Payload.(type) {
		case int64:
			return lp == float64(rp)
		case float64:
			return lp == rp
		}
		return false
	case string:
		rp, ok := r.Payload.(string)
		return ok && lp == rp
	}
	return l.Payload == r.Payload
}

func (ev *Evaluator) evalCompare(op token.Kind, l, r *value.Value, pos token.Position) (outcome, error) {
	var cmp int
	if _, ok := l.Payload.(string); ok {
		cmp = strings.Compare(l.AsString(), r.AsString())
	} else {
		a, b := asReal(l), asReal(r)
		switch {
		case a < b:
			cmp = -1
		case a > b:
			cmp = 1
		default:
			cmp = 0
		}
	}
	var res bool
	switch op {
	case token.LT:
		res = cmp < 0
	case token.LE:
		res = cmp <= 0
	case token.GT:
		res = cmp > 0
	case token.GE:
		res = cmp >= 0
	}
	return normal(value.Bool(res)), nil
}

func (ev *Evaluator) evalUnary(e *ast.Unary, sc *value.Scope) (outcome, error) {
	out, err := ev.eval(e.Operand, sc)
	if err != nil || out.sig != value.SigNormal {
		return out, err
	}
	switch e.Op {
	case token.BANG:
		return normal(value.Bool(!out.val.Truthy())), nil
	case token.MINUS:
		if out.val.Type == types.Real {
			return normal(value.Real(-out.val.AsReal())), nil
		}
		return normal(value.Int(-out.val.AsInt())), nil
	case token.PLUS:
		return out, nil
	}
	return outcome{}, &errors.InternalError{Message: "unhandled unary operator " + e.Op.String(), Pos: e.Pos()}
}

func (ev *Evaluator) evalPreIncDec(e *ast.PreIncDec, sc *value.Scope) (outcome, error) {
	nv, err := ev.bumpTarget(e.Target, e.Op, sc, e.Pos())
	if err != nil {
		return outcome{}, err
	}
	return normal(nv), nil
}

func (ev *Evaluator) evalPostIncDec(e *ast.PostIncDec, sc *value.Scope) (outcome, error) {
	old, err := ev.eval(e.Target, sc)
	if err != nil || old.sig != value.SigNormal {
		return old, err
	}
	if _, err := ev.bumpTarget(e.Target, e.Op, sc, e.Pos()); err != nil {
		return outcome{}, err
	}
	return normal(old.val), nil
}

func (ev *Evaluator) bumpTarget(target ast.Node, op token.Kind, sc *value.Scope, pos token.Position) (*value.Value, error) {
	cur, err := ev.eval(target, sc)
	if err != nil {
		return nil, err
	}
	var nv *value.Value
	if cur.val.Type == types.Real {
		d := 1.0
		if op == token.DEC {
			d = -1
		}
		nv = value.Real(cur.val.AsReal() + d)
	} else {
		d := int64(1)
		if op == token.DEC {
			d = -1
		}
		nv = value.Int(cur.val.AsInt() + d)
	}
	if err := ev.assignTo(target, nv, sc); err != nil {
		return nil, err
	}
	return nv, nil
}

func (ev *Evaluator) evalAssign(e *ast.Assign, sc *value.Scope) (outcome, error) {
	val, err := ev.eval(e.Value, sc)
	if err != nil || val.sig != value.SigNormal {
		return val, err
	}
	if idx, ok := e.Target.(*ast.Index); ok {
		if rng, ok := idx.Index.(*ast.Range); ok {
			return ev.assignRangeSlice(idx, rng, val.val, sc)
		}
	}
	if err := ev.assignTo(e.Target, val.val, sc); err != nil {
		return outcome{}, err
	}
	return val, nil
}

// assignRangeSlice implements `s[lo..hi] = replacement`: a range slice has
// no single storage cell to write into and read back, so the expression's
// value is always the whole spliced string. When the sliced target is
// itself an assignable lvalue (a variable or another index expression),
// the spliced result is also written back there.
func (ev *Evaluator) assignRangeSlice(idx *ast.Index, rng *ast.Range, replacement *value.Value, sc *value.Scope) (outcome, error) {
	tgt, err := ev.eval(idx.Target, sc)
	if err != nil || tgt.sig != value.SigNormal {
		return tgt, err
	}
	s, ok := tgt.val.Payload.(string)
	if !ok {
		return outcome{}, fmt.Errorf("cannot assign to a range slice at %s", rng.Pos())
	}
	loOut, err := ev.eval(rng.Low, sc)
	if err != nil || loOut.sig != value.SigNormal {
		return loOut, err
	}
	hiOut, err := ev.eval(rng.High, sc)
	if err != nil || hiOut.sig != value.SigNormal {
		return hiOut, err
	}
	lo, hi := int(loOut.val.AsInt()), int(hiOut.val.AsInt())
	if lo < 0 {
		lo += len(s)
	}
	if hi < 0 {
		hi += len(s)
	}
	if lo < 0 || hi >= len(s) || lo > hi {
		return outcome{sig: value.SigThrow, val: value.Str("string slice out of range")}, nil
	}
	spliced := value.Str(s[:lo] + replacement.AsString() + s[hi+1:])
	switch idx.Target.(type) {
	case *ast.Ident, *ast.Index:
		if err := ev.assignTo(idx.Target, spliced, sc); err != nil {
			return outcome{}, err
		}
	}
	return normal(spliced), nil
}

func (ev *Evaluator) evalCompoundAssign(e *ast.CompoundAssign, sc *value.Scope) (outcome, error) {
	cur, err := ev.eval(e.Target, sc)
	if err != nil || cur.sig != value.SigNormal {
		return cur, err
	}
	rhs, err := ev.eval(e.Value, sc)
	if err != nil || rhs.sig != value.SigNormal {
		return rhs, err
	}
	var nv *value.Value
	if e.Op == token.PLUS_EQ && cur.val.Type == types.String_ {
		nv = value.Str(cur.val.AsString() + rhs.val.AsString())
	} else {
		arithOp := map[token.Kind]token.Kind{
			token.PLUS_EQ: token.PLUS, token.MINUS_EQ: token.MINUS,
			token.STAR_EQ: token.STAR, token.SLASH_EQ: token.SLASH,
			token.CARETCARET_EQ: token.CARETCARET,
		}[e.Op]
		out, err := ev.evalArith(arithOp, cur.val, rhs.val, e.Pos())
		if err != nil || out.sig != value.SigNormal {
			return out, err
		}
		nv = out.val
	}
	if err := ev.assignTo(e.Target, nv, sc); err != nil {
		return outcome{}, err
	}
	return normal(nv), nil
}

// assignTo stores v into target, an Ident (scope variable) or Index
// (array element or map field) lvalue. The validator guarantees target
// is one of these two shapes. An out-of-range write escapes as an
// uncatchable RuntimeError rather than a throw signal, since assignTo
// has no outcome channel to carry one back through.
func (ev *Evaluator) assignTo(target ast.Node, v *value.Value, sc *value.Scope) error {
	switch t := target.(type) {
	case *ast.Ident:
		if !sc.Set(t.Name, v) {
			return &errors.InternalError{Message: "assignment to undeclared identifier " + t.Name, Pos: t.Pos()}
		}
		return nil
	case *ast.Index:
		tgt, err := ev.eval(t.Target, sc)
		if err != nil {
			return err
		}
		if tgt.sig != value.SigNormal {
			return nil
		}
		if rng, ok := t.Index.(*ast.Range); ok {
			return fmt.Errorf("cannot assign to a range slice at %s", rng.Pos())
		}
		idx, err := ev.eval(t.Index, sc)
		if err != nil {
			return err
		}
		if idx.sig != value.SigNormal {
			return nil
		}
		if arr := tgt.val.AsArray(); arr != nil {
			i := int(idx.val.AsInt())
			if i < 0 {
				i += len(arr.Elements)
			}
			if i < 0 || i >= len(arr.Elements) {
				return &errors.RuntimeError{Thrown: "array index out of range", Pos: t.Pos()}
			}
			arr.Elements[i] = v
			return nil
		}
		if m := tgt.val.AsMap(); m != nil {
			m.Set(idx.val.AsString(), v)
			return nil
		}
		return &errors.InternalError{Message: "assignment target is not indexable", Pos: t.Pos()}
	}
	return &errors.InternalError{Message: "invalid assignment target", Pos: target.Pos()}
}

func (ev *Evaluator) evalIndex(e *ast.Index, sc *value.Scope) (outcome, error) {
	tgt, err := ev.eval(e.Target, sc)
	if err != nil || tgt.sig != value.SigNormal {
		return tgt, err
	}

	if rng, ok := e.Index.(*ast.Range); ok {
		lowOut, err := ev.eval(rng.Low, sc)
		if err != nil || lowOut.sig != value.SigNormal {
			return lowOut, err
		}
		highOut, err := ev.eval(rng.High, sc)
		if err != nil || highOut.sig != value.SigNormal {
			return highOut, err
		}
		lo, hi := int(lowOut.val.AsInt()), int(highOut.val.AsInt())
		if s, ok := tgt.val.Payload.(string); ok {
			if lo < 0 {
				lo += len(s)
			}
			if hi < 0 {
				hi += len(s)
			}
			if lo < 0 || hi >= len(s) || lo > hi {
				return outcome{sig: value.SigThrow, val: value.Str("string slice out of range")}, nil
			}
			return normal(value.Str(s[lo : hi+1])), nil
		}
		if arr := tgt.val.AsArray(); arr != nil {
			if lo < 0 {
				lo += len(arr.Elements)
			}
			if hi < 0 {
				hi += len(arr.Elements)
			}
			if lo < 0 || hi >= len(arr.Elements) || lo > hi {
				return outcome{sig: value.SigThrow, val: value.Str("array slice out of range")}, nil
			}
			elemT := types.Any
			if at, ok := tgt.val.Type.(types.ArrayOf); ok {
				elemT = at.Elem
			}
			sliced := make([]*value.Value, hi-lo+1)
			copy(sliced, arr.Elements[lo:hi+1])
			return normal(value.NewArray(elemT, sliced)), nil
		}
		return outcome{}, &errors.InternalError{Message: "range index on non-indexable value", Pos: e.Pos()}
	}

	idx, err := ev.eval(e.Index, sc)
	if err != nil || idx.sig != value.SigNormal {
		return idx, err
	}
	if s, ok := tgt.val.Payload.(string); ok {
		i := int(idx.val.AsInt())
		if i < 0 {
			i += len(s)
		}
		if i < 0 || i >= len(s) {
			return outcome{sig: value.SigThrow, val: value.Str("string index out of range")}, nil
		}
		return normal(value.Str(string(s[i]))), nil
	}
	if arr := tgt.val.AsArray(); arr != nil {
		i := int(idx.val.AsInt())
		if i < 0 {
			i += len(arr.Elements)
		}
		if i < 0 || i >= len(arr.Elements) {
			return outcome{sig: value.SigThrow, val: value.Str("array index out of range")}, nil
		}
		return normal(arr.Elements[i]), nil
	}
	if m := tgt.val.AsMap(); m != nil {
		v, ok := m.Get(idx.val.AsString())
		if !ok {
			return normal(value.Null()), nil
		}
		return normal(v), nil
	}
	return outcome{}, &errors.InternalError{Message: "index on non-indexable value", Pos: e.Pos()}
}
