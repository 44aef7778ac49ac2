package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/plang-lang/plang/pkg/plang"
	"github.com/spf13/cobra"
)

var (
	runFile    string
	runNoTypes bool
)

var runCmd = &cobra.Command{
	Use:   "run [source...]",
	Short: "Run a Plang program",
	Long: `Run a Plang program from a file, from stdin, or from inline source
given as positional arguments.

Examples:
  # Run a script file
  plang run --file script.pl

  # Run inline source
  plang run 'print("hi")'

  # Run source piped on stdin
  cat script.pl | plang run`,
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFile, "file", "", "read the program from this file")
	runCmd.Flags().BoolVar(&runNoTypes, "no-type-check", false, "demote type-mismatch diagnostics to warnings")
}

func runScript(cmd *cobra.Command, args []string) error {
	src, name, err := readSource(cmd, runFile, args)
	if err != nil {
		return err
	}

	modpaths, _ := cmd.Flags().GetStringArray("modpath")
	opts := []plang.Option{plang.WithModulePath(modpaths...)}
	if runNoTypes {
		opts = append(opts, plang.WithTypeCheck(false))
	}
	engine, err := plang.New(opts...)
	if err != nil {
		return err
	}

	program, err := engine.CompileFile(src, name)
	if err != nil {
		reportCompileError(err)
		return fmt.Errorf("compilation failed")
	}

	result, err := engine.Run(program)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Runtime error: %s\n", err)
		os.Exit(1)
	}

	os.Exit(exitCodeFor(result.Value))
	return nil
}

// exitCodeFor coerces a program's final value to the process exit code,
// the same conversion the Integer(value) builtin performs; Null exits 0.
func exitCodeFor(v any) int {
	switch n := v.(type) {
	case nil:
		return 0
	case bool:
		if n {
			return 1
		}
		return 0
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		s := strings.TrimSpace(n)
		end := 0
		if end < len(s) && (s[end] == '+' || s[end] == '-') {
			end++
		}
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
		}
		i, err := strconv.ParseInt(s[:end], 10, 64)
		if err != nil {
			return 0
		}
		return int(i)
	default:
		return 0
	}
}

// readSource resolves the --file flag, positional inline source, or
// stdin, in that order of preference.
func readSource(cmd *cobra.Command, file string, args []string) (src, name string, err error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", file, err)
		}
		return string(data), file, nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), "<arg>", nil
	}
	stat, _ := os.Stdin.Stat()
	if stat != nil && (stat.Mode()&os.ModeCharDevice) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	}
	return "", "", fmt.Errorf("provide --file, inline source arguments, or pipe source on stdin")
}

func reportCompileError(err error) {
	ce, ok := err.(*plang.CompileError)
	if !ok {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	for _, d := range ce.Errors {
		fmt.Fprintf(os.Stderr, "%s:%d:%d: %s: %s [%s]\n", ce.Stage, d.Line, d.Column, d.Severity, d.Message, d.Code)
	}
}
