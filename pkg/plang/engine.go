// Package plang is the embeddable, host-facing API for the Plang
// scripting language: lex, parse and validate source once into a
// reusable Program, run it any number of times, and register Go
// functions the script can call by name.
package plang

import (
	"io"
	"os"

	"github.com/plang-lang/plang/internal/errors"
	"github.com/plang-lang/plang/internal/interp"
	"github.com/plang-lang/plang/internal/lexer"
	"github.com/plang-lang/plang/internal/namespace"
	"github.com/plang-lang/plang/internal/parser"
	"github.com/plang-lang/plang/internal/validator"
)

// Engine owns the builtin namespace a host has extended with
// RegisterFunction calls, plus the output sink every Program it compiles
// and runs shares.
type Engine struct {
	namespace  *namespace.Registry
	output     io.Writer
	typeCheck  bool
	registered map[string]interp.BuiltinImpl
}

// New creates an Engine with Plang's default builtin set and os.Stdout
// output, as modified by opts.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		namespace:  namespace.Default(),
		output:     os.Stdout,
		typeCheck:  true,
		registered: map[string]interp.BuiltinImpl{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Compile lexes, parses and validates src, returning a Program ready to
// Run. A failure at any stage returns a *CompileError naming the stage
// ("lex", "parse", "validate") and every diagnostic collected there.
func (e *Engine) Compile(src string) (*Program, error) {
	return e.compileFile(src, "")
}

// CompileFile is Compile with a file name recorded on diagnostics.
func (e *Engine) CompileFile(src, file string) (*Program, error) {
	return e.compileFile(src, file)
}

func (e *Engine) compileFile(src, file string) (*Program, error) {
	lx := lexer.New(src)
	p := parser.New(lx, src, file)
	if lexErrs := lx.Errors(); len(lexErrs) > 0 {
		diags := make([]*errors.CompilerError, len(lexErrs))
		for i, le := range lexErrs {
			ce := errors.New(errors.Syntax, le.Pos, le.Message)
			ce.Source = src
			ce.File = file
			diags[i] = ce
		}
		return nil, fromCompilerError("lex", diags)
	}

	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, fromCompilerError("parse", errs)
	}

	an := validator.NewAnalyzer(e.namespace, src, file)
	an.Analyze(program)
	if errs := an.Errors(); len(errs) > 0 {
		compiled := fromCompilerError("validate", errs)
		if !e.typeCheck {
			allTypeMismatch := true
			for _, d := range compiled.Errors {
				if d.Code != "E_TYPE_MISMATCH" {
					allTypeMismatch = false
					break
				}
			}
			if allTypeMismatch {
				for _, d := range compiled.Errors {
					d.Severity = SeverityWarning
				}
				return &Program{ast: program, source: src, file: file}, nil
			}
		}
		return nil, compiled
	}

	return &Program{ast: program, source: src, file: file}, nil
}

// Run executes a compiled Program and returns its final value together
// with anything it printed.
func (e *Engine) Run(program *Program) (*Result, error) {
	var buf io.Writer = e.output
	capture := &captureWriter{w: buf}
	ev := interp.New(e.namespace, capture)
	for name, fn := range e.registered {
		ev.RegisterBuiltin(name, fn)
	}
	v, err := ev.Run(program.ast)
	if err != nil {
		return nil, err
	}
	return &Result{Output: capture.captured.String(), Value: toGo(v)}, nil
}

// Eval is Compile followed by Run, for one-shot scripts that don't need
// to be run more than once.
func (e *Engine) Eval(src string) (*Result, error) {
	program, err := e.Compile(src)
	if err != nil {
		return nil, err
	}
	return e.Run(program)
}
