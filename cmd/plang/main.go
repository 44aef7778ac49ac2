// Command plang is the reference CLI for the Plang scripting language:
// run scripts, inspect lexer/parser output, or drop into a REPL.
package main

import (
	"fmt"
	"os"

	"github.com/plang-lang/plang/cmd/plang/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
