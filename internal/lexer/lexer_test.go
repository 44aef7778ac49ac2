package lexer

import (
	"testing"

	"github.com/plang-lang/plang/internal/token"
)

func kinds(t *testing.T, input string) []token.Kind {
	t.Helper()
	l := New(input)
	var out []token.Kind
	for {
		tok := l.NextToken()
		out = append(out, tok.Kind)
		if tok.Kind == token.EOF {
			break
		}
	}
	return out
}

func TestNextToken_LongestMatchOperators(t *testing.T) {
	cases := []struct {
		input string
		want  token.Kind
	}{
		{"==", token.EQ},
		{">=", token.GE},
		{"++", token.INC},
		{"**", token.POW},
		{"^^", token.CARETCARET},
		{"^^=", token.CARETCARET_EQ},
		{"..", token.DOTDOT},
		{"->", token.ARROW},
	}
	for _, c := range cases {
		got := kinds(t, c.input)
		if len(got) < 1 || got[0] != c.want {
			t.Errorf("lex(%q) first token kind = %v, want %v", c.input, got[0], c.want)
		}
	}
}

func TestNextToken_AmbiguousPrefixesFallBackToShortOp(t *testing.T) {
	got := kinds(t, "^ = .")
	want := []token.Kind{token.CARET, token.ASSIGN, token.DOT, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("lex(%q) = %v, want %v", "^ = .", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNextToken_NumericLiterals(t *testing.T) {
	got := kinds(t, "42 0x2A 3.14")
	want := []token.Kind{token.INT, token.HEX, token.FLOAT, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("lex numeric literals: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNextToken_FloatRequiresDigitAfterDot(t *testing.T) {
	l := New("1..5")
	first := l.NextToken()
	second := l.NextToken()
	third := l.NextToken()
	if first.Kind != token.INT || first.Lexeme != "1" {
		t.Fatalf("first token = %v %q, want INT \"1\"", first.Kind, first.Lexeme)
	}
	if second.Kind != token.DOTDOT {
		t.Fatalf("second token = %v, want DOTDOT (range operator must beat a trailing float dot)", second.Kind)
	}
	if third.Kind != token.INT || third.Lexeme != "5" {
		t.Fatalf("third token = %v %q, want INT \"5\"", third.Kind, third.Lexeme)
	}
}

func TestNextToken_StringQuotesInterchangeable(t *testing.T) {
	l := New(`'single' "double"`)
	first := l.NextToken()
	second := l.NextToken()
	if first.Kind != token.STRING || first.Lexeme != "single" {
		t.Fatalf("expected STRING \"single\", got %v %q", first.Kind, first.Lexeme)
	}
	if second.Kind != token.STRING || second.Lexeme != "double" {
		t.Fatalf("expected STRING \"double\", got %v %q", second.Kind, second.Lexeme)
	}
}

func TestNextToken_InterpolatedString(t *testing.T) {
	l := New(`$"hi {name}"`)
	tok := l.NextToken()
	if tok.Kind != token.INTERP_STR {
		t.Fatalf("expected INTERP_STR, got %v", tok.Kind)
	}
	if tok.Lexeme != "hi {name}" {
		t.Errorf("expected interpolation span preserved verbatim, got %q", tok.Lexeme)
	}
}

func TestNextToken_StringEscapes(t *testing.T) {
	l := New(`"a\nb\t\"c\""`)
	tok := l.NextToken()
	want := "a\nb\t\"c\""
	if tok.Kind != token.STRING || tok.Lexeme != want {
		t.Fatalf("escaped string = %v %q, want STRING %q", tok.Kind, tok.Lexeme, want)
	}
}

func TestNextToken_UnterminatedStringRecordsError(t *testing.T) {
	l := New(`"never closed`)
	l.NextToken()
	if len(l.Errors()) == 0 {
		t.Error("expected an error for an unterminated string literal")
	}
}

func TestNextToken_KeywordsAndTypeNames(t *testing.T) {
	got := kinds(t, "var fn Integer x")
	want := []token.Kind{token.VAR, token.FN, token.TYPE_INTEGER, token.IDENT, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNextToken_CommentsDiscarded(t *testing.T) {
	got := kinds(t, "// comment\n42")
	if len(got) != 3 || got[0] != token.TERM || got[1] != token.INT || got[2] != token.EOF {
		t.Fatalf("expected [TERM INT EOF] after discarding a line comment, got %v", got)
	}
}

func TestNextToken_NewlineProducesTerm(t *testing.T) {
	got := kinds(t, "x\ny")
	want := []token.Kind{token.IDENT, token.TERM, token.IDENT, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenize_DrainsToEOF(t *testing.T) {
	l := New("1 + 2")
	toks := l.Tokenize()
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		t.Fatalf("Tokenize must end with EOF, got %v", toks)
	}
}
