package interp

import (
	"strings"

	"github.com/plang-lang/plang/internal/ast"
	"github.com/plang-lang/plang/internal/errors"
	"github.com/plang-lang/plang/internal/lexer"
	"github.com/plang-lang/plang/internal/parser"
	"github.com/plang-lang/plang/internal/token"
	"github.com/plang-lang/plang/internal/types"
	"github.com/plang-lang/plang/internal/value"
)

func (ev *Evaluator) evalArrayLit(e *ast.ArrayLit, sc *value.Scope) (outcome, error) {
	elems := make([]*value.Value, 0, len(e.Elements))
	var elemType types.Type
	for _, n := range e.Elements {
		out, err := ev.eval(n, sc)
		if err != nil || out.sig != value.SigNormal {
			return out, err
		}
		elems = append(elems, out.val)
		if elemType == nil {
			elemType = out.val.Type
		} else {
			elemType = types.Unite([]types.Type{elemType, out.val.Type})
		}
	}
	if elemType == nil {
		elemType = types.Any
	}
	return normal(value.NewArray(elemType, elems)), nil
}

func (ev *Evaluator) evalMapLit(e *ast.MapLit, sc *value.Scope) (outcome, error) {
	m := value.NewMap()
	fields := make([]types.Field, 0, len(e.Entries))
	for _, entry := range e.Entries {
		out, err := ev.eval(entry.Value, sc)
		if err != nil || out.sig != value.SigNormal {
			return out, err
		}
		m.Set(entry.Key, out.val)
		fields = append(fields, types.Field{Key: entry.Key, Type: out.val.Type})
	}
	return normal(value.NewMapValue(types.MapOf{Fields: fields}, m)), nil
}

// evalInterpString substitutes every embedded `{expr}` span of a
// `$"..."` literal in sc, re-parsing it fresh each time it is reached.
// Interpolation spans are parsed lazily, at evaluation time, in the
// caller's live scope, so they can reference variables declared after
// the literal was lexed but before it executes.
func (ev *Evaluator) evalInterpString(e *ast.InterpString, sc *value.Scope) (outcome, error) {
	var sb strings.Builder
	for i, part := range e.Parts {
		if !e.IsExpr[i] {
			sb.WriteString(part)
			continue
		}
		expr, err := parseSpan(part, e.Pos())
		if err != nil {
			return outcome{}, err
		}
		out, err := ev.eval(expr, sc)
		if err != nil {
			return outcome{}, err
		}
		if out.sig != value.SigNormal {
			return out, nil
		}
		sb.WriteString(out.val.String())
	}
	return normal(value.Str(sb.String())), nil
}

func parseSpan(src string, pos token.Position) (ast.Node, error) {
	l := lexer.New(src)
	p := parser.NewFromTokens(l.Tokenize())
	expr := p.ParseExpression()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, &errors.InternalError{Message: "malformed interpolation expression: " + errs[0].Error(), Pos: pos}
	}
	return expr, nil
}
