package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/plang-lang/plang/internal/interp"
	"github.com/plang-lang/plang/internal/lexer"
	"github.com/plang-lang/plang/internal/namespace"
	"github.com/plang-lang/plang/internal/parser"
	"github.com/plang-lang/plang/internal/types"
	"github.com/plang-lang/plang/internal/validator"
	"github.com/plang-lang/plang/internal/value"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive Plang session",
	Long: `Start a line-oriented REPL: each line is parsed, type-checked and run
against variables and functions declared on earlier lines. The value of
the final expression is printed with its type.`,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "plang> ",
		HistoryFile:     replHistoryFile(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to start REPL: %w", err)
	}
	defer rl.Close()

	ns := namespace.Default()
	ev := interp.New(ns, os.Stdout)
	globals := map[string]types.Type{}

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}

		result, ok := evalReplLine(ns, ev, globals, line)
		if !ok {
			continue
		}
		fmt.Printf("%s: %s\n", result.String(), result.Type.String())
	}
}

func evalReplLine(ns *namespace.Registry, ev *interp.Evaluator, globals map[string]types.Type, line string) (result *value.Value, ok bool) {
	l := lexer.New(line)
	p := parser.New(l, line, "<repl>")
	if lexErrs := l.Errors(); len(lexErrs) > 0 {
		for _, e := range lexErrs {
			fmt.Fprintf(os.Stderr, "lex error: %s\n", e.Message)
		}
		return nil, false
	}

	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Format(true))
		}
		return nil, false
	}

	an := validator.NewAnalyzer(ns, line, "<repl>")
	an.SeedGlobals(globals)
	an.Analyze(program)
	if errs := an.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Format(true))
		}
		return nil, false
	}
	for name, t := range an.Globals() {
		globals[name] = t
	}

	v, err := ev.Run(program)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Runtime error: %s\n", err)
		return nil, false
	}
	return v, true
}

func replHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.plang_history"
}
