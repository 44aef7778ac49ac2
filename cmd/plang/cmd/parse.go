package cmd

import (
	"fmt"
	"os"

	"github.com/kr/pretty"
	"github.com/plang-lang/plang/internal/lexer"
	"github.com/plang-lang/plang/internal/parser"
	"github.com/spf13/cobra"
)

var (
	parseFile     string
	parseDumpTree bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [source...]",
	Short: "Parse Plang source and report the resulting AST",
	Long: `Parse Plang source code and either report the statement count or,
with --dump-ast, print the full parsed tree.`,
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&parseFile, "file", "", "read the program from this file")
	parseCmd.Flags().BoolVar(&parseDumpTree, "dump-ast", false, "print the full parsed AST")
}

func runParse(cmd *cobra.Command, args []string) error {
	src, file, err := readSource(cmd, parseFile, args)
	if err != nil {
		return err
	}

	l := lexer.New(src)
	p := parser.New(l, src, file)
	if lexErrs := l.Errors(); len(lexErrs) > 0 {
		for _, e := range lexErrs {
			fmt.Fprintf(os.Stderr, "lex error at %d:%d: %s\n", e.Pos.Line, e.Pos.Col, e.Message)
		}
		return fmt.Errorf("lexing failed with %d error(s)", len(lexErrs))
	}

	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Format(false))
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	if parseDumpTree {
		pretty.Println(program)
		return nil
	}

	fmt.Printf("parsed %d top-level statement(s)\n", len(program.Body))
	return nil
}
