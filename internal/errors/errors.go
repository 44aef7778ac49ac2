// Package errors formats Plang compile-time diagnostics with source
// context.
package errors

import (
	"fmt"
	"strings"

	"github.com/plang-lang/plang/internal/token"
)

// Kind is the compile-time error taxonomy.
type Kind string

const (
	Syntax           Kind = "syntax"
	Undeclared       Kind = "undeclared"
	Redeclaration    Kind = "redeclaration"
	TypeMismatch     Kind = "type-mismatch"
	UnknownKeyword   Kind = "unknown-keyword"
	BadOperandType   Kind = "bad-operator-operand"
	InvalidContext   Kind = "invalid-context"
	BadCall          Kind = "bad-call"
	DuplicateCatch   Kind = "duplicate-catch"
	MissingDefault   Kind = "missing-default-catch"
)

// CompilerError is a single compile-time diagnostic with position and
// optional source context for pretty printing.
type CompilerError struct {
	Kind    Kind
	Message string
	Pos     token.Position
	Source  string
	File    string
}

func New(kind Kind, pos token.Position, message string) *CompilerError {
	return &CompilerError{Kind: kind, Message: message, Pos: pos}
}

// Error implements the error interface with the plain (no source context)
// rendering.
func (e *CompilerError) Error() string {
	return fmt.Sprintf("%s: %s at %s", e.Kind, e.Message, e.Pos)
}

// Format renders the error with a source-line-and-caret view; color adds
// ANSI escapes around the caret and message for terminal output.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder
	if e.File != "" {
		fmt.Fprintf(&sb, "Error in %s:%d:%d\n", e.File, e.Pos.Line, e.Pos.Col)
	} else {
		fmt.Fprintf(&sb, "Error at line %d:%d\n", e.Pos.Line, e.Pos.Col)
	}
	if line := sourceLine(e.Source, e.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat(" ", len(prefix)+e.Pos.Col-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteByte('^')
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteByte('\n')
	}
	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(fmt.Sprintf("[%s] %s", e.Kind, e.Message))
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

func sourceLine(src string, line int) string {
	if src == "" || line < 1 {
		return ""
	}
	lines := strings.Split(src, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// FormatAll renders a list of errors, each separated by a blank line.
func FormatAll(errs []*CompilerError, color bool) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Format(color)
	}
	return strings.Join(parts, "\n\n")
}

// Report is the composite error the interpreter raises once the
// accumulated error limit is hit or the pipeline stage completes with
// any errors at all.
type Report struct {
	Stage  string // "lex", "parse", "validate"
	Errors []*CompilerError
}

func (r *Report) Error() string {
	return fmt.Sprintf("%s failed with %d error(s)", r.Stage, len(r.Errors))
}

// RuntimeError is an uncaught `throw` or host-raised condition (recursion
// limit, conversion failure) escaping to the host.
type RuntimeError struct {
	Thrown string
	Pos    token.Position
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error at %s: %s", e.Pos, e.Thrown)
}

// InternalError marks a validator/evaluator invariant violation: a type
// mismatch the validator should have caught. This is a bug, not a
// user-facing condition, so it aborts evaluation rather than being
// catchable.
type InternalError struct {
	Message string
	Pos     token.Position
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error at %s: %s", e.Pos, e.Message)
}
