// Package diag is a tiny tag-gated diagnostic logger driven by the DEBUG
// environment variable (comma-separated tags, or "ALL"). It is consulted
// by the lexer, parser, validator and evaluator to emit development
// traces to stderr; none of it affects program output.
package diag

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

var (
	once sync.Once
	tags map[string]bool
	all  bool
)

func load() {
	v := os.Getenv("DEBUG")
	tags = map[string]bool{}
	if v == "" {
		return
	}
	for _, t := range strings.Split(v, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if strings.EqualFold(t, "ALL") {
			all = true
		}
		tags[strings.ToLower(t)] = true
	}
}

// Enabled reports whether tracing is on for tag.
func Enabled(tag string) bool {
	once.Do(load)
	return all || tags[strings.ToLower(tag)]
}

// Printf writes a tagged trace line to stderr when Enabled(tag).
func Printf(tag, format string, args ...any) {
	if !Enabled(tag) {
		return
	}
	fmt.Fprintf(os.Stderr, "[%s] "+format+"\n", append([]any{tag}, args...)...)
}
