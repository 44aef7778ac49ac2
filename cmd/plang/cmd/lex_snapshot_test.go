package cmd

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/plang-lang/plang/internal/lexer"
	"github.com/plang-lang/plang/internal/token"
)

// TestFormatToken_Snapshot pins the `lex` subcommand's token dump format
// against a fixed script, the way the teacher pack snapshots interpreter
// output fixtures.
func TestFormatToken_Snapshot(t *testing.T) {
	src := `fn fib(n) n == 1 ? 1 : n == 2 ? 1 : fib(n-1) + fib(n-2);`

	var lines []string
	l := lexer.New(src)
	for {
		tok := l.NextToken()
		lines = append(lines, formatToken(tok, true))
		if tok.Kind == token.EOF {
			break
		}
	}

	snaps.MatchSnapshot(t, "fib_tokens", strings.Join(lines, "\n"))
}
