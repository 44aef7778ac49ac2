package parser

import (
	"github.com/plang-lang/plang/internal/ast"
	"github.com/plang-lang/plang/internal/errors"
	"github.com/plang-lang/plang/internal/token"
)

// parseTypeExpr parses a type literal: `[T]`, `{k:T, ...}`,
// `Function(Ts) -> T`, `Builtin(Ts) -> T`, a bare name, or a `|`-separated
// union of any of the above.
func (p *Parser) parseTypeExpr() *ast.TypeExpr {
	first := p.parseTypeAtom()
	members := []*ast.TypeExpr{first}
	for p.at(token.PIPE) {
		p.advance()
		members = append(members, p.parseTypeAtom())
	}
	if len(members) == 1 {
		return first
	}
	return ast.NewUnionTypeExpr(first.Pos(), members)
}

func (p *Parser) parseTypeAtom() *ast.TypeExpr {
	t := p.cur()
	switch {
	case t.Kind == token.LBRACK:
		p.advance()
		elem := p.parseTypeExpr()
		p.expect(token.RBRACK)
		return ast.NewArrayTypeExpr(t.Pos, elem)
	case t.Kind == token.LBRACE:
		return p.parseMapShapeType()
	case t.Kind == token.TYPE_FUNCTION || t.Kind == token.TYPE_BUILTIN:
		return p.parseFuncType(t.Kind == token.TYPE_BUILTIN)
	case t.Kind.IsTypeName():
		p.advance()
		return ast.NewSimpleTypeExpr(t.Pos, t.Lexeme)
	case t.Kind == token.IDENT:
		p.advance()
		return ast.NewSimpleTypeExpr(t.Pos, t.Lexeme)
	}
	p.errorf(errors.Syntax, "expected a type, got %s %q", t.Kind, t.Lexeme)
	p.advance()
	return ast.NewSimpleTypeExpr(t.Pos, "Any")
}

func (p *Parser) parseMapShapeType() *ast.TypeExpr {
	pos := p.advance().Pos // {
	var fields []ast.TypeFieldExpr
	p.skipTerms()
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		key, _ := p.expect(token.IDENT)
		p.expect(token.COLON)
		ft := p.parseTypeExpr()
		var def ast.Node
		if p.at(token.ASSIGN) {
			p.advance()
			def = p.parseExpression(ASSIGNMENT - 1)
		}
		fields = append(fields, ast.TypeFieldExpr{Key: key.Lexeme, Type: ft, Default: def})
		p.skipTerms()
		if p.at(token.COMMA) {
			p.advance()
			p.skipTerms()
		}
	}
	p.expect(token.RBRACE)
	return ast.NewMapShapeTypeExpr(pos, fields)
}

func (p *Parser) parseFuncType(isBuiltin bool) *ast.TypeExpr {
	pos := p.advance().Pos // Function | Builtin
	p.expect(token.LPAREN)
	var params []*ast.TypeExpr
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		params = append(params, p.parseTypeExpr())
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	var ret *ast.TypeExpr
	if p.at(token.ARROW) {
		p.advance()
		ret = p.parseTypeExpr()
	}
	return ast.NewFuncTypeExpr(pos, isBuiltin, params, ret)
}
