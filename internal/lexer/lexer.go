// Package lexer turns Plang source text into a stream of tokens.
//
// # Unicode and column positions
//
// Columns are counted in runes, not bytes or display cells, so multi-byte
// UTF-8 sequences (emoji, combining characters) each count as one column.
// This keeps position tracking simple and reproducible at the cost of not
// always matching a terminal's visual cursor for wide glyphs.
//
// Identifier and string lexemes are normalised to Unicode NFC so that two
// source files spelling the same identifier with different combining-mark
// compositions compare equal.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/plang-lang/plang/internal/token"
)

// Error is a single lexical error with its source position.
type Error struct {
	Message string
	Pos     token.Position
}

// Lexer is a hand-written scanner over Plang source text.
type Lexer struct {
	input        string
	errors       []Error
	position     int
	readPosition int
	line         int
	col          int
	ch           rune
	chWidth      int
}

// New creates a Lexer over input, stripping a leading UTF-8 BOM if present.
func New(input string) *Lexer {
	if strings.HasPrefix(input, "﻿") {
		input = strings.TrimPrefix(input, "﻿")
	}
	l := &Lexer{input: input, line: 1, col: 0}
	l.readChar()
	return l
}

// Errors returns lexical errors accumulated so far (unterminated
// strings/comments); an unrecognised character is not an error here but
// an OTHER token left for the parser to report.
func (l *Lexer) Errors() []Error { return l.errors }

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.chWidth = 0
		l.position = l.readPosition
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	if r == utf8.RuneError && w == 1 {
		r = rune(l.input[l.readPosition])
	}
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	l.col++
	l.position = l.readPosition
	l.readPosition += w
	l.ch = r
	l.chWidth = w
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) peekAt(n int) rune {
	pos := l.readPosition
	var r rune
	for i := 0; i <= n; i++ {
		if pos >= len(l.input) {
			return 0
		}
		var w int
		r, w = utf8.DecodeRuneInString(l.input[pos:])
		pos += w
	}
	return r
}

func (l *Lexer) curPos() token.Position { return token.Position{Line: l.line, Col: l.col} }

func (l *Lexer) skipWhitespaceExceptNewline() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) skipComments() bool {
	if l.ch == '/' && l.peekChar() == '/' {
		for l.ch != '\n' && l.ch != 0 {
			l.readChar()
		}
		return true
	}
	if l.ch == '#' {
		for l.ch != '\n' && l.ch != 0 {
			l.readChar()
		}
		return true
	}
	if l.ch == '/' && l.peekChar() == '*' {
		l.readChar()
		l.readChar()
		for {
			if l.ch == 0 {
				l.errors = append(l.errors, Error{"unterminated block comment", l.curPos()})
				return true
			}
			if l.ch == '*' && l.peekChar() == '/' {
				l.readChar()
				l.readChar()
				return true
			}
			l.readChar()
		}
	}
	return false
}

// NextToken scans and returns the next token in the stream.
func (l *Lexer) NextToken() token.Token {
	for {
		l.skipWhitespaceExceptNewline()
		if l.skipComments() {
			continue
		}
		break
	}

	pos := l.curPos()

	if l.ch == '\n' {
		l.readChar()
		return token.Token{Kind: token.TERM, Lexeme: "\n", Pos: pos}
	}

	switch {
	case l.ch == 0:
		return token.Token{Kind: token.EOF, Lexeme: "", Pos: pos}
	case isIdentStart(l.ch):
		return l.readIdentifier(pos)
	case unicode.IsDigit(l.ch):
		return l.readNumber(pos)
	case l.ch == '\'' || l.ch == '"':
		return l.readString(pos, l.ch, false)
	case l.ch == '$' && (l.peekChar() == '\'' || l.peekChar() == '"'):
		l.readChar()
		quote := l.ch
		return l.readString(pos, quote, true)
	}

	tok := l.readOperator(pos)
	return tok
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (l *Lexer) readIdentifier(pos token.Position) token.Token {
	start := l.position
	for isIdentPart(l.ch) {
		l.readChar()
	}
	lit := norm.NFC.String(l.input[start:l.position])
	if kind, ok := token.Keywords[lit]; ok {
		return token.Token{Kind: kind, Lexeme: lit, Pos: pos}
	}
	if kind, ok := token.TypeNames[lit]; ok {
		return token.Token{Kind: kind, Lexeme: lit, Pos: pos}
	}
	return token.Token{Kind: token.IDENT, Lexeme: lit, Pos: pos}
}

func (l *Lexer) readNumber(pos token.Position) token.Token {
	start := l.position
	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) {
			l.readChar()
		}
		return token.Token{Kind: token.HEX, Lexeme: l.input[start:l.position], Pos: pos}
	}

	isFloat := false
	for unicode.IsDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && unicode.IsDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for unicode.IsDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		save := l.position
		saveLine, saveCol, saveCh, saveReadPos := l.line, l.col, l.ch, l.readPosition
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		if unicode.IsDigit(l.ch) {
			isFloat = true
			for unicode.IsDigit(l.ch) {
				l.readChar()
			}
		} else {
			l.position, l.line, l.col, l.ch, l.readPosition = save, saveLine, saveCol, saveCh, saveReadPos
		}
	}

	kind := token.INT
	if isFloat {
		kind = token.FLOAT
	}
	return token.Token{Kind: kind, Lexeme: l.input[start:l.position], Pos: pos}
}

func isHexDigit(r rune) bool {
	return unicode.IsDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// readString scans a single- or double-quoted string literal. When
// interpolated is true the body is returned with its `{...}` spans intact
// (the evaluator performs substitution); escape sequences are still
// expanded once here.
func (l *Lexer) readString(pos token.Position, quote rune, interpolated bool) token.Token {
	l.readChar() // consume opening quote
	var sb strings.Builder
	for {
		if l.ch == 0 {
			l.errors = append(l.errors, Error{"unterminated string literal", pos})
			break
		}
		if l.ch == quote {
			l.readChar()
			break
		}
		if l.ch == '\\' {
			l.readChar()
			sb.WriteRune(l.escapeChar(l.ch))
			l.readChar()
			continue
		}
		if interpolated && l.ch == '{' {
			depth := 0
			sb.WriteRune(l.ch)
			l.readChar()
			depth++
			for depth > 0 && l.ch != 0 {
				if l.ch == '{' {
					depth++
				} else if l.ch == '}' {
					depth--
				}
				sb.WriteRune(l.ch)
				l.readChar()
			}
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	kind := token.STRING
	if interpolated {
		kind = token.INTERP_STR
	}
	return token.Token{Kind: kind, Lexeme: norm.NFC.String(sb.String()), Pos: pos}
}

func (l *Lexer) escapeChar(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	case '\\', '\'', '"', '{', '}':
		return r
	default:
		return r
	}
}

type opEntry struct {
	text string
	kind token.Kind
}

// multiCharOps disambiguates multi-character operators: '==' must beat
// '=', '++' must beat '+', etc. Entries are tried longest-first.
var multiCharOps = []opEntry{
	{"^^=", token.CARETCARET_EQ},
	{"^^", token.CARETCARET},
	{"**", token.POW},
	{"==", token.EQ},
	{"!=", token.NEQ},
	{"<=", token.LE},
	{">=", token.GE},
	{"&&", token.AND_AND},
	{"||", token.OR_OR},
	{"++", token.INC},
	{"--", token.DEC},
	{"+=", token.PLUS_EQ},
	{"-=", token.MINUS_EQ},
	{"*=", token.STAR_EQ},
	{"/=", token.SLASH_EQ},
	{"..", token.DOTDOT},
	{"->", token.ARROW},
	{"::", token.COLONCOLON},
}

var singleCharOps = map[rune]token.Kind{
	'+': token.PLUS, '-': token.MINUS, '*': token.STAR, '/': token.SLASH,
	'%': token.PERCENT, '^': token.CARET, '.': token.DOT, '~': token.TILDE,
	'=': token.ASSIGN, '<': token.LT, '>': token.GT, '!': token.BANG,
	'?': token.QUESTION, ':': token.COLON, ',': token.COMMA, ';': token.TERM,
	'(': token.LPAREN, ')': token.RPAREN, '[': token.LBRACK, ']': token.RBRACK,
	'{': token.LBRACE, '}': token.RBRACE, '|': token.PIPE,
}

func (l *Lexer) readOperator(pos token.Position) token.Token {
	rest := l.input[l.position:]
	for _, op := range multiCharOps {
		if strings.HasPrefix(rest, op.text) {
			for range []rune(op.text) {
				l.readChar()
			}
			return token.Token{Kind: op.kind, Lexeme: op.text, Pos: pos}
		}
	}
	if kind, ok := singleCharOps[l.ch]; ok {
		lexeme := string(l.ch)
		l.readChar()
		return token.Token{Kind: kind, Lexeme: lexeme, Pos: pos}
	}
	lexeme := string(l.ch)
	l.readChar()
	return token.Token{Kind: token.OTHER, Lexeme: lexeme, Pos: pos}
}

// Tokenize scans the entire input into a token slice (EOF terminated). The
// parser works from this slice so that statement-level backtracking is a
// matter of rewinding a cursor rather than re-running the scanner.
func (l *Lexer) Tokenize() []token.Token {
	var toks []token.Token
	for {
		t := l.NextToken()
		toks = append(toks, t)
		if t.Kind == token.EOF {
			break
		}
	}
	return toks
}
