// Package validator implements Plang's static semantic pass: a single
// walk over the parsed AST that both type-checks every expression against
// the subtype DAG in internal/types and desugars the tree into the
// reduced form internal/interp evaluates — dot-access rewritten to
// bracket-access or UFCS calls, omitted initializers filled with their
// type's default literal, named call arguments reordered to positional,
// and an omitted function return type resolved to the inferred union of
// its actual returns. The split mirrors a semantic analyzer organized as
// one file per concern rather than a single monolithic switch.
package validator

import (
	"fmt"

	"github.com/plang-lang/plang/internal/ast"
	"github.com/plang-lang/plang/internal/errors"
	"github.com/plang-lang/plang/internal/namespace"
	"github.com/plang-lang/plang/internal/token"
	"github.com/plang-lang/plang/internal/types"
)

// MaxErrors bounds how many diagnostics a single run accumulates.
const MaxErrors = 50

// binding is one declared name's static type in a scope.
type binding struct {
	typ types.Type
}

// scope is the validator's static symbol table, chained to its parent for
// lexical lookup; it tracks the variables declared at this nesting level
// plus whether `next`/`last` and a function return are currently legal.
type scope struct {
	vars     map[string]*binding
	parent   *scope
	funcName string // "" outside any function
	inLoop   bool
}

func newScope(parent *scope) *scope {
	s := &scope{vars: map[string]*binding{}, parent: parent}
	if parent != nil {
		s.funcName = parent.funcName
		s.inLoop = parent.inLoop
	}
	return s
}

func (s *scope) declare(name string, t types.Type) { s.vars[name] = &binding{typ: t} }

func (s *scope) lookup(name string) (types.Type, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if b, ok := sc.vars[name]; ok {
			return b.typ, true
		}
	}
	return nil, false
}

// Analyzer walks a parsed program, type-checking and desugaring it.
type Analyzer struct {
	source    string
	file      string
	namespace *namespace.Registry
	errs          []*errors.CompilerError
	returns       [][]types.Type // stack of per-function accumulated return types
	userFuncs     map[string]*types.Func
	userTypeDecls map[string]types.Type
	root          *scope
}

// NewAnalyzer creates an Analyzer. ns is consulted for builtin call
// signatures; pass namespace.Default() (or a host-extended clone of it).
func NewAnalyzer(ns *namespace.Registry, source, file string) *Analyzer {
	return &Analyzer{source: source, file: file, namespace: ns, userFuncs: map[string]*types.Func{}, userTypeDecls: map[string]types.Type{}}
}

// SeedGlobals pre-declares top-level bindings before Analyze runs, letting
// a REPL carry variable types forward from one line to the next without
// re-stating them.
func (a *Analyzer) SeedGlobals(vars map[string]types.Type) {
	a.root = newScope(nil)
	for name, t := range vars {
		a.root.declare(name, t)
	}
}

// Globals returns the top-level bindings visible after Analyze, for a
// REPL to pass to the next line's SeedGlobals.
func (a *Analyzer) Globals() map[string]types.Type {
	out := map[string]types.Type{}
	if a.root == nil {
		return out
	}
	for name, b := range a.root.vars {
		out[name] = b.typ
	}
	return out
}

// Errors returns the diagnostics accumulated so far.
func (a *Analyzer) Errors() []*errors.CompilerError { return a.errs }

func (a *Analyzer) addError(kind errors.Kind, pos token.Position, format string, args ...any) {
	if len(a.errs) >= MaxErrors {
		return
	}
	ce := errors.New(kind, pos, fmt.Sprintf(format, args...))
	ce.Source = a.source
	ce.File = a.file
	a.errs = append(a.errs, ce)
}

// Analyze type-checks and desugars program in place, returning the number
// of errors recorded (0 means the program is ready for evaluation).
func (a *Analyzer) Analyze(program *ast.Program) int {
	if a.root == nil {
		a.root = newScope(nil)
	}
	for i, n := range program.Body {
		rewritten, _ := a.checkExpr(n, a.root)
		program.Body[i] = rewritten
	}
	return len(a.errs)
}
