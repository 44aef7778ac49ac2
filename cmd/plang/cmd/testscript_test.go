package cmd_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/plang-lang/plang/cmd/plang/cmd"
	"github.com/rogpeppe/go-internal/testscript"
)

// TestMain registers the `plang` binary so testscript can exec it as a
// subprocess without actually building one, following the teacher
// pack's idiomatic Go way of driving CLI-level golden transcripts.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"plang": runPlang,
	}))
}

func runPlang() int {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	return 0
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}
