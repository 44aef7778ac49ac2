package parser

import (
	"github.com/plang-lang/plang/internal/ast"
	"github.com/plang-lang/plang/internal/token"
)

// parseIf parses `if cond then thenBody [else elseBody]`. `then` is
// optional sugar; its absence is fine when thenBody is a brace group.
func (p *Parser) parseIf() ast.Node {
	pos := p.advance().Pos // if
	cond := p.parseExpression(ASSIGNMENT)
	if p.at(token.THEN) {
		p.advance()
	}
	thenBody := p.parseExpression(LOWEST)
	var elseBody ast.Node
	p.skipTerms()
	if p.at(token.ELSE) {
		p.advance()
		elseBody = p.parseExpression(LOWEST)
	}
	return ast.NewIf(pos, cond, thenBody, elseBody)
}

// parseWhile parses `while cond body`.
func (p *Parser) parseWhile() ast.Node {
	pos := p.advance().Pos // while
	cond := p.parseExpression(ASSIGNMENT)
	body := p.parseExpression(LOWEST)
	return ast.NewWhile(pos, cond, body)
}

// parseTry parses `try body catch (cond) body ... catch body`. Catchers
// keep source order; the validator enforces the at-most-one-default,
// default-last, no-duplicate-condition rules.
func (p *Parser) parseTry() ast.Node {
	pos := p.advance().Pos // try
	body := p.parseExpression(LOWEST)
	var catches []*ast.Catch
	p.skipTerms()
	for p.at(token.CATCH) {
		cpos := p.advance().Pos
		var cond ast.Node
		if p.at(token.LPAREN) {
			p.advance()
			cond = p.parseExpression(LOWEST)
			p.expect(token.RPAREN)
		}
		cbody := p.parseExpression(LOWEST)
		catches = append(catches, ast.NewCatch(cpos, cond, cbody))
		p.skipTerms()
	}
	return ast.NewTry(pos, body, catches)
}
