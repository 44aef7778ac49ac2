package parser

import (
	"github.com/plang-lang/plang/internal/ast"
	"github.com/plang-lang/plang/internal/errors"
	"github.com/plang-lang/plang/internal/token"
)

// parseVarDecl parses `var x [: Type] [= expr]`. A missing initializer is
// left nil; the validator fills it with the declared type's default
// value literal.
func (p *Parser) parseVarDecl() ast.Node {
	pos := p.advance().Pos // var
	name, _ := p.expect(token.IDENT)

	var ta *ast.TypeExpr
	if p.at(token.COLON) {
		p.advance()
		ta = p.parseTypeExpr()
	}

	var init ast.Node
	if p.at(token.ASSIGN) {
		p.advance()
		init = p.parseExpression(ASSIGNMENT - 1)
	}
	return ast.NewVarDecl(pos, name.Lexeme, ta, init)
}

// parseFuncLit parses `fn [name] [(params)] [-> Type] body`.
func (p *Parser) parseFuncLit() ast.Node {
	pos := p.advance().Pos // fn

	name := ""
	if p.at(token.IDENT) {
		name = p.advance().Lexeme
	}

	var params []ast.Param
	if p.at(token.LPAREN) {
		params = p.parseParamList()
	}

	var ret *ast.TypeExpr
	if p.at(token.ARROW) {
		p.advance()
		ret = p.parseTypeExpr()
	}

	body := p.parseExpression(LOWEST)
	return ast.NewFuncLit(pos, name, params, ret, body)
}

func (p *Parser) parseParamList() []ast.Param {
	p.advance() // (
	var params []ast.Param
	p.skipTerms()
	seenDefault := false
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		pname, _ := p.expect(token.IDENT)
		var pt *ast.TypeExpr
		if p.at(token.COLON) {
			p.advance()
			pt = p.parseTypeExpr()
		}
		var def ast.Node
		if p.at(token.ASSIGN) {
			p.advance()
			def = p.parseExpression(ASSIGNMENT - 1)
			seenDefault = true
		} else if seenDefault {
			p.errorf(errors.BadCall, "parameter %q without default follows a defaulted parameter", pname.Lexeme)
		}
		params = append(params, ast.Param{Name: pname.Lexeme, Type: pt, Default: def})
		p.skipTerms()
		if p.at(token.COMMA) {
			p.advance()
			p.skipTerms()
		}
	}
	p.expect(token.RPAREN)
	return params
}

// parseTypeDecl parses `type Name = Underlying [= default]`.
func (p *Parser) parseTypeDecl() ast.Node {
	pos := p.advance().Pos // type
	name, _ := p.expect(token.IDENT)
	p.expect(token.ASSIGN)
	underlying := p.parseTypeExpr()

	var def ast.Node
	if p.at(token.ASSIGN) {
		p.advance()
		def = p.parseExpression(ASSIGNMENT - 1)
	}
	return ast.NewTypeDecl(pos, name.Lexeme, underlying, def)
}
