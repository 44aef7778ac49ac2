package plang

import (
	"fmt"

	"github.com/plang-lang/plang/internal/errors"
)

// ErrorSeverity classifies a diagnostic's impact on compilation.
type ErrorSeverity int

const (
	SeverityError ErrorSeverity = iota
	SeverityWarning
	SeverityInfo
	SeverityHint
)

func (s ErrorSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	}
	return "unknown"
}

// Error is a single structured diagnostic surfaced to a host embedding
// the engine: a source position, a severity, and a stable code derived
// from the internal error taxonomy.
type Error struct {
	Message  string
	Line     int
	Column   int
	Length   int
	Severity ErrorSeverity
	Code     string
}

func NewError(message string, line, col, length int, severity ErrorSeverity, code string) *Error {
	return &Error{Message: message, Line: line, Column: col, Length: length, Severity: severity, Code: code}
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%s at %d:%d: %s", e.Severity, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s at %d:%d: %s [%s]", e.Severity, e.Line, e.Column, e.Message, e.Code)
}

func (e *Error) IsError() bool   { return e.Severity == SeverityError }
func (e *Error) IsWarning() bool { return e.Severity == SeverityWarning }

// CompileError is the composite failure a failed Compile returns: every
// structured diagnostic collected at the stage ("lex", "parse",
// "validate") where the pipeline stopped.
type CompileError struct {
	Stage  string
	Errors []*Error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s failed with %d error(s)", e.Stage, len(e.Errors))
}

// HasErrors reports whether any collected diagnostic is error-severity.
func (e *CompileError) HasErrors() bool {
	for _, d := range e.Errors {
		if d.IsError() {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any collected diagnostic is warning-severity.
func (e *CompileError) HasWarnings() bool {
	for _, d := range e.Errors {
		if d.IsWarning() {
			return true
		}
	}
	return false
}

// codeForKind maps the internal compile-time taxonomy onto a stable
// public error code, so a host can switch on Code without depending on
// internal package types.
func codeForKind(k errors.Kind) string {
	switch k {
	case errors.Syntax:
		return "E_SYNTAX"
	case errors.Undeclared:
		return "E_UNDECLARED"
	case errors.Redeclaration:
		return "E_REDECLARATION"
	case errors.TypeMismatch:
		return "E_TYPE_MISMATCH"
	case errors.UnknownKeyword:
		return "E_UNKNOWN_KEYWORD"
	case errors.BadOperandType:
		return "E_BAD_OPERAND"
	case errors.InvalidContext:
		return "E_INVALID_CONTEXT"
	case errors.BadCall:
		return "E_BAD_CALL"
	case errors.DuplicateCatch:
		return "E_DUPLICATE_CATCH"
	case errors.MissingDefault:
		return "E_MISSING_DEFAULT"
	}
	return "E_UNKNOWN"
}

func fromCompilerError(stage string, errs []*errors.CompilerError) *CompileError {
	out := make([]*Error, len(errs))
	for i, e := range errs {
		out[i] = &Error{
			Message:  e.Message,
			Line:     e.Pos.Line,
			Column:   e.Pos.Col,
			Length:   1,
			Severity: SeverityError,
			Code:     codeForKind(e.Kind),
		}
	}
	return &CompileError{Stage: stage, Errors: out}
}
