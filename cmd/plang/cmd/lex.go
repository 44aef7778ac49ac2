package cmd

import (
	"fmt"
	"os"

	"github.com/plang-lang/plang/internal/lexer"
	"github.com/plang-lang/plang/internal/token"
	"github.com/spf13/cobra"
)

var (
	lexFile    string
	lexShowPos bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [source...]",
	Short: "Tokenize a Plang program and print the resulting tokens",
	Long: `Tokenize (lex) a Plang program and print the resulting tokens, for
debugging the lexer and understanding how source is tokenized.`,
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVar(&lexFile, "file", "", "read the program from this file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show token positions (line:col)")
}

func lexScript(cmd *cobra.Command, args []string) error {
	src, _, err := readSource(cmd, lexFile, args)
	if err != nil {
		return err
	}

	l := lexer.New(src)
	for {
		tok := l.NextToken()
		printToken(tok)
		if tok.Kind == token.EOF {
			break
		}
	}

	if errs := l.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "lex error at %d:%d: %s\n", e.Pos.Line, e.Pos.Col, e.Message)
		}
		return fmt.Errorf("found %d lexical error(s)", len(errs))
	}
	return nil
}

func printToken(tok token.Token) {
	fmt.Println(formatToken(tok, lexShowPos))
}

func formatToken(tok token.Token, showPos bool) string {
	out := fmt.Sprintf("[%-12s] %q", tok.Kind, tok.Lexeme)
	if showPos {
		out += fmt.Sprintf(" @%d:%d", tok.Pos.Line, tok.Pos.Col)
	}
	return out
}
