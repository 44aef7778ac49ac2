package parser

import (
	"strconv"
	"strings"

	"github.com/plang-lang/plang/internal/ast"
	"github.com/plang-lang/plang/internal/errors"
	"github.com/plang-lang/plang/internal/token"
)

// Precedence levels, low to high.
const (
	LOWEST int = iota
	LOW_OR
	LOW_AND
	LOW_NOT
	ASSIGNMENT
	CONDITIONAL
	LOGICAL_OR
	LOGICAL_AND
	EQUALITY
	RELATIONAL
	STRINGOP
	SUM
	PRODUCT
	EXPONENT
	PREFIX
	POSTFIX
	CALL
	ACCESS
)

var infixPrecedence = map[token.Kind]int{
	token.OR:      LOW_OR,
	token.AND:     LOW_AND,
	token.ASSIGN:     ASSIGNMENT,
	token.PLUS_EQ:    ASSIGNMENT,
	token.MINUS_EQ:   ASSIGNMENT,
	token.STAR_EQ:    ASSIGNMENT,
	token.SLASH_EQ:   ASSIGNMENT,
	token.CARETCARET_EQ: ASSIGNMENT,
	token.QUESTION:   CONDITIONAL,
	token.OR_OR:      LOGICAL_OR,
	token.AND_AND:    LOGICAL_AND,
	token.EQ:         EQUALITY,
	token.NEQ:        EQUALITY,
	token.LT:         RELATIONAL,
	token.GT:         RELATIONAL,
	token.LE:         RELATIONAL,
	token.GE:         RELATIONAL,
	token.DOT:        STRINGOP,
	token.TILDE:      STRINGOP,
	token.PLUS:       SUM,
	token.MINUS:      SUM,
	token.STAR:       PRODUCT,
	token.SLASH:      PRODUCT,
	token.PERCENT:    PRODUCT,
	token.POW:        EXPONENT,
	token.CARETCARET: EXPONENT,
	token.INC:        POSTFIX,
	token.DEC:        POSTFIX,
	token.LPAREN:     CALL,
	token.LBRACK:     ACCESS,
}

// rightAssoc marks operators parsed by recursing at precedence-1: the
// assignment family, `**`, and the conditional operator.
var rightAssoc = map[token.Kind]bool{
	token.ASSIGN: true, token.PLUS_EQ: true, token.MINUS_EQ: true,
	token.STAR_EQ: true, token.SLASH_EQ: true, token.CARETCARET_EQ: true,
	token.POW: true, token.QUESTION: true,
}

func (p *Parser) precedenceOf(k token.Kind) int {
	if pr, ok := infixPrecedence[k]; ok {
		return pr
	}
	return LOWEST
}

// parseExpression is the Pratt entry point: parse a prefix expression,
// then fold in infix/postfix operators while their precedence exceeds
// the caller's floor.
func (p *Parser) parseExpression(precedence int) ast.Node {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}
	for !p.at(token.TERM) && !p.at(token.EOF) {
		opPrec := p.precedenceOf(p.cur().Kind)
		if opPrec <= precedence {
			break
		}
		left = p.parseInfix(left, opPrec)
		if left == nil {
			return nil
		}
	}
	return left
}

func (p *Parser) parsePrefix() ast.Node {
	t := p.cur()
	switch t.Kind {
	case token.INT:
		return p.parseIntLit()
	case token.HEX:
		return p.parseHexLit()
	case token.FLOAT:
		return p.parseFloatLit()
	case token.STRING:
		p.advance()
		return ast.NewStringLit(t.Pos, t.Lexeme)
	case token.INTERP_STR:
		p.advance()
		return p.parseInterpString(t)
	case token.TRUE:
		p.advance()
		return ast.NewBoolLit(t.Pos, true)
	case token.FALSE:
		p.advance()
		return ast.NewBoolLit(t.Pos, false)
	case token.NULL:
		p.advance()
		return ast.NewNullLit(t.Pos)
	case token.IDENT:
		p.advance()
		return ast.NewIdent(t.Pos, t.Lexeme)
	case token.LPAREN:
		return p.parseGroupedExpr()
	case token.LBRACK:
		return p.parseArrayLit()
	case token.LBRACE:
		return p.parseBraceExpr()
	case token.MINUS, token.PLUS, token.BANG, token.NOT:
		return p.parseUnary()
	case token.INC, token.DEC:
		return p.parsePreIncDec()
	case token.VAR:
		return p.parseVarDecl()
	case token.FN:
		return p.parseFuncLit()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.TRY:
		return p.parseTry()
	case token.THROW:
		p.advance()
		v := p.parseExpression(LOWEST)
		return ast.NewThrow(t.Pos, v)
	case token.RETURN:
		p.advance()
		if p.at(token.TERM) || p.at(token.EOF) || p.at(token.RBRACE) {
			return ast.NewReturn(t.Pos, nil)
		}
		v := p.parseExpression(LOWEST)
		return ast.NewReturn(t.Pos, v)
	case token.NEXT:
		p.advance()
		return ast.NewNext(t.Pos)
	case token.LAST:
		p.advance()
		return ast.NewLast(t.Pos)
	case token.EXISTS:
		p.advance()
		target := p.parseExpression(CALL)
		idx, ok := target.(*ast.Index)
		if !ok {
			p.errorf(errors.Syntax, "exists requires a map/array access expression")
			return target
		}
		return ast.NewExists(t.Pos, idx.Target, idx.Index)
	case token.DELETE:
		p.advance()
		target := p.parseExpression(CALL)
		if idx, ok := target.(*ast.Index); ok {
			return ast.NewDelete(t.Pos, idx.Target, idx.Index)
		}
		return ast.NewDelete(t.Pos, target, nil)
	case token.KEYS:
		p.advance()
		return ast.NewKeys(t.Pos, p.parseExpression(ACCESS))
	case token.VALUES:
		p.advance()
		return ast.NewValues(t.Pos, p.parseExpression(ACCESS))
	case token.TYPE:
		return p.parseTypeDecl()
	}
	if t.Kind.IsTypeName() {
		p.advance()
		return ast.NewIdent(t.Pos, t.Lexeme)
	}
	p.errorf(errors.Syntax, "unexpected token %s %q", t.Kind, t.Lexeme)
	p.advance()
	return nil
}

func (p *Parser) parseIntLit() ast.Node {
	t := p.advance()
	v, err := strconv.ParseInt(t.Lexeme, 10, 64)
	if err != nil {
		p.errorf(errors.Syntax, "invalid integer literal %q", t.Lexeme)
		return ast.NewIntLit(t.Pos, 0)
	}
	return ast.NewIntLit(t.Pos, v)
}

func (p *Parser) parseHexLit() ast.Node {
	t := p.advance()
	v, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimPrefix(t.Lexeme, "0x"), "0X"), 16, 64)
	if err != nil {
		p.errorf(errors.Syntax, "invalid hex literal %q", t.Lexeme)
		return ast.NewIntLit(t.Pos, 0)
	}
	return ast.NewIntLit(t.Pos, v)
}

func (p *Parser) parseFloatLit() ast.Node {
	t := p.advance()
	v, err := strconv.ParseFloat(t.Lexeme, 64)
	if err != nil {
		p.errorf(errors.Syntax, "invalid float literal %q", t.Lexeme)
		return ast.NewFloatLit(t.Pos, 0)
	}
	return ast.NewFloatLit(t.Pos, v)
}

// parseInterpString splits a lexed interpolated-string body into literal
// and `{expr}` parts; the expression text itself is parsed lazily by the
// evaluator, since it must be evaluated in the caller's scope.
func (p *Parser) parseInterpString(t token.Token) ast.Node {
	var parts []string
	var isExpr []bool
	body := t.Lexeme
	i := 0
	for i < len(body) {
		if body[i] == '{' {
			depth := 1
			j := i + 1
			for j < len(body) && depth > 0 {
				switch body[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
				j++
			}
			parts = append(parts, body[i+1:j-1])
			isExpr = append(isExpr, true)
			i = j
			continue
		}
		j := strings.IndexByte(body[i:], '{')
		if j < 0 {
			parts = append(parts, body[i:])
			isExpr = append(isExpr, false)
			break
		}
		parts = append(parts, body[i:i+j])
		isExpr = append(isExpr, false)
		i += j
	}
	return ast.NewInterpString(t.Pos, parts, isExpr)
}

func (p *Parser) parseGroupedExpr() ast.Node {
	p.advance() // (
	e := p.parseExpression(LOWEST)
	p.expect(token.RPAREN)
	return e
}

func (p *Parser) parseArrayLit() ast.Node {
	pos := p.cur().Pos
	p.advance() // [
	var elems []ast.Node
	p.skipTerms()
	for !p.at(token.RBRACK) && !p.at(token.EOF) {
		elems = append(elems, p.parseExpression(LOWEST))
		p.skipTerms()
		if p.at(token.COMMA) {
			p.advance()
			p.skipTerms()
		}
	}
	p.expect(token.RBRACK)
	return ast.NewArrayLit(pos, elems)
}

// parseBraceExpr disambiguates `{ key: expr, ... }` map literals from
// `{ ... }` expression groups by trying the map-constructor grammar
// first, backtracking to a group on failure.
func (p *Parser) parseBraceExpr() ast.Node {
	cp := p.mark()
	if m := p.tryParseMapLit(); m != nil {
		return m
	}
	p.backtrack(cp)
	return p.parseGroup()
}

func (p *Parser) tryParseMapLit() (result ast.Node) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
		}
	}()
	pos := p.cur().Pos
	p.advance() // {
	p.skipTerms()
	if p.at(token.RBRACE) {
		p.advance()
		return ast.NewMapLit(pos, nil)
	}
	var entries []ast.MapEntry
	for {
		keyTok := p.cur()
		var key string
		switch keyTok.Kind {
		case token.IDENT, token.STRING:
			key = keyTok.Lexeme
			p.advance()
		default:
			return nil
		}
		if !p.at(token.COLON) {
			return nil
		}
		p.advance()
		before := len(p.errors)
		val := p.parseExpression(LOWEST)
		if val == nil || len(p.errors) > before {
			return nil
		}
		entries = append(entries, ast.MapEntry{Key: key, Value: val})
		p.skipTerms()
		if p.at(token.COMMA) {
			p.advance()
			p.skipTerms()
			continue
		}
		break
	}
	p.skipTerms()
	if !p.at(token.RBRACE) {
		return nil
	}
	p.advance()
	return ast.NewMapLit(pos, entries)
}

func (p *Parser) parseGroup() ast.Node {
	pos := p.cur().Pos
	p.advance() // {
	var body []ast.Node
	p.skipTerms()
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		body = append(body, p.parseExpression(LOWEST))
		p.skipTerms()
	}
	p.expect(token.RBRACE)
	return ast.NewGroup(pos, body)
}

func (p *Parser) parseUnary() ast.Node {
	t := p.advance()
	operand := p.parseExpression(PREFIX)
	return ast.NewUnary(t.Pos, t.Kind, operand)
}

func (p *Parser) parsePreIncDec() ast.Node {
	t := p.advance()
	operand := p.parseExpression(PREFIX)
	return ast.NewPreIncDec(t.Pos, t.Kind, operand)
}

func (p *Parser) parseInfix(left ast.Node, prec int) ast.Node {
	t := p.cur()
	switch t.Kind {
	case token.LPAREN:
		return p.parseCall(left)
	case token.LBRACK:
		return p.parseIndex(left)
	case token.DOT:
		return p.parseDotOrString(left, prec)
	case token.INC, token.DEC:
		p.advance()
		return ast.NewPostIncDec(t.Pos, t.Kind, left)
	case token.QUESTION:
		return p.parseTernary(left)
	case token.ASSIGN:
		p.advance()
		rhs := p.parseExpression(prec - 1)
		return ast.NewAssign(t.Pos, left, rhs)
	case token.PLUS_EQ, token.MINUS_EQ, token.STAR_EQ, token.SLASH_EQ, token.CARETCARET_EQ:
		p.advance()
		rhs := p.parseExpression(prec - 1)
		return ast.NewCompoundAssign(t.Pos, t.Kind, left, rhs)
	case token.POW:
		p.advance()
		rhs := p.parseExpression(prec - 1)
		return ast.NewBinary(t.Pos, t.Kind, left, rhs)
	default:
		p.advance()
		rhs := p.parseExpression(prec)
		return ast.NewBinary(t.Pos, t.Kind, left, rhs)
	}
}

// parseDotOrString handles `.` both as the string-concatenation operator
// and as dot-access (`x.y`); disambiguation between map-access and UFCS
// happens later, in the validator (two-pass dot access).
func (p *Parser) parseDotOrString(left ast.Node, prec int) ast.Node {
	t := p.advance() // .
	if p.at(token.IDENT) && (p.peek(1).Kind == token.LPAREN || !isOperatorStart(p.peek(1).Kind)) {
		name := p.advance()
		return ast.NewDot(t.Pos, left, name.Lexeme)
	}
	rhs := p.parseExpression(prec)
	return ast.NewBinary(t.Pos, t.Kind, left, rhs)
}

func isOperatorStart(k token.Kind) bool {
	_, ok := infixPrecedence[k]
	return ok || k == token.TERM || k == token.EOF || k == token.RPAREN ||
		k == token.RBRACK || k == token.RBRACE || k == token.COMMA || k == token.COLON
}

func (p *Parser) parseTernary(cond ast.Node) ast.Node {
	t := p.advance() // ?
	then := p.parseExpression(CONDITIONAL - 1)
	p.expect(token.COLON)
	els := p.parseExpression(CONDITIONAL - 1)
	return ast.NewTernary(t.Pos, cond, then, els)
}

func (p *Parser) parseCall(callee ast.Node) ast.Node {
	pos := p.advance().Pos // (
	var args []ast.Arg
	p.skipTerms()
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		arg := p.parseArg()
		args = append(args, arg)
		p.skipTerms()
		if p.at(token.COMMA) {
			p.advance()
			p.skipTerms()
		}
	}
	p.expect(token.RPAREN)
	return ast.NewCall(pos, callee, args)
}

// parseArg parses one call argument, recognising `name = expr` named-arg
// form (an assignment to a bare identifier) without consuming a plain
// positional expression that merely starts with an identifier.
func (p *Parser) parseArg() ast.Arg {
	if p.at(token.IDENT) && p.peek(1).Kind == token.ASSIGN {
		name := p.advance().Lexeme
		p.advance() // =
		val := p.parseExpression(ASSIGNMENT)
		return ast.Arg{Name: name, Value: val}
	}
	return ast.Arg{Value: p.parseExpression(ASSIGNMENT)}
}

func (p *Parser) parseIndex(target ast.Node) ast.Node {
	pos := p.advance().Pos // [
	first := p.parseExpression(LOWEST)
	if p.at(token.DOTDOT) {
		dp := p.advance().Pos
		second := p.parseExpression(LOWEST)
		p.expect(token.RBRACK)
		return ast.NewIndex(pos, target, ast.NewRange(dp, first, second))
	}
	p.expect(token.RBRACK)
	return ast.NewIndex(pos, target, first)
}
