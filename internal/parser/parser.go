// Package parser implements Plang's recursive-descent parser with
// statement-level backtracking and a Pratt expression parser.
package parser

import (
	"fmt"

	"github.com/plang-lang/plang/internal/ast"
	"github.com/plang-lang/plang/internal/errors"
	"github.com/plang-lang/plang/internal/lexer"
	"github.com/plang-lang/plang/internal/token"
)

// MaxErrors bounds how many syntax errors are accumulated before the
// parser gives up after N errors (default 3).
const MaxErrors = 3

// Parser consumes a pre-tokenized source and builds an AST.
type Parser struct {
	toks   []token.Token
	pos    int
	source string
	file   string
	errors []*errors.CompilerError
}

// New creates a Parser over the tokens produced by l.
func New(l *lexer.Lexer, source, file string) *Parser {
	return &Parser{toks: l.Tokenize(), source: source, file: file}
}

// NewFromTokens builds a Parser directly from a token slice, used by the
// evaluator to parse a single string-interpolation span.
func NewFromTokens(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

// Errors returns the syntax errors accumulated during parsing.
func (p *Parser) Errors() []*errors.CompilerError { return p.errors }

// ParseExpression parses a single expression from the full token stream,
// used by the evaluator to re-parse a `{expr}` span embedded in a string
// interpolation literal.
func (p *Parser) ParseExpression() ast.Node { return p.parseExpression(LOWEST) }

func (p *Parser) errorf(kind errors.Kind, format string, args ...any) {
	if len(p.errors) >= MaxErrors {
		return
	}
	e := errors.New(kind, p.cur().Pos, fmt.Sprintf(format, args...))
	e.Source = p.source
	e.File = p.file
	p.errors = append(p.errors, e)
}

// synchronize discards tokens up to the next TERM after a syntax error,
// so parsing can continue with the next top-level expression.
func (p *Parser) synchronize() {
	for !p.at(token.TERM) && !p.at(token.EOF) {
		p.advance()
	}
	p.skipTerms()
}

// ParseProgram parses the entire token stream into a Program node.
func (p *Parser) ParseProgram() *ast.Program {
	pos := p.cur().Pos
	var body []ast.Node
	p.skipTerms()
	for !p.at(token.EOF) {
		if len(p.errors) >= MaxErrors {
			break
		}
		before := len(p.errors)
		expr := p.parseExpression(LOWEST)
		if len(p.errors) > before {
			p.synchronize()
			continue
		}
		if expr != nil {
			body = append(body, expr)
		}
		p.skipTerms()
	}
	return ast.NewProgram(pos, body)
}
