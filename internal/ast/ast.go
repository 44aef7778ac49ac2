// Package ast defines Plang's abstract syntax tree. Every statement is an
// expression (the evaluator returns the value of the last expression in a
// group), so the tree uses a single Node interface rather than separate
// Statement/Expression hierarchies. Nodes are opcoded: each carries a small
// closed Opcode so the validator and evaluator can both dispatch through a
// shared jump-table-style walker instead of virtual method dispatch.
package ast

import "github.com/plang-lang/plang/internal/token"

// Opcode discriminates AST node shapes for the walker, validator and
// evaluator dispatch tables.
type Opcode int

const (
	OpProgram Opcode = iota
	OpGroup          // { ... } expression group / block
	OpIntLit
	OpFloatLit
	OpStringLit
	OpInterpString
	OpBoolLit
	OpNullLit
	OpArrayLit
	OpMapLit
	OpIdent
	OpVarDecl
	OpAssign
	OpCompoundAssign
	OpBinary
	OpUnary
	OpPreIncDec
	OpPostIncDec
	OpIndex  // a[b], a[b..c]
	OpRange  // b..c, only legal directly inside OpIndex
	OpDot    // a.b  (desugared away by the validator)
	OpCall
	OpIf
	OpTernary
	OpWhile
	OpTry
	OpCatch
	OpThrow
	OpReturn
	OpNext
	OpLast
	OpFuncLit
	OpTypeDecl
	OpExists
	OpDelete
	OpKeys
	OpValues
	OpTypeExpr // a type literal appearing in source (annotations, `as`-like contexts)
)

// Node is the common interface for every AST node.
type Node interface {
	Op() Opcode
	Pos() token.Position
}

// base supplies the common Pos() implementation for every node.
type base struct {
	pos token.Position
}

func (b base) Pos() token.Position { return b.pos }

// Program is the root node: an ordered sequence of top-level expressions.
type Program struct {
	base
	Body []Node
}

func NewProgram(pos token.Position, body []Node) *Program { return &Program{base{pos}, body} }
func (*Program) Op() Opcode                                { return OpProgram }

// Group is a `{ ... }` expression group (also used as function bodies and
// block statements). Its value is the value of its last inner expression.
type Group struct {
	base
	Body []Node
}

func NewGroup(pos token.Position, body []Node) *Group { return &Group{base{pos}, body} }
func (*Group) Op() Opcode                              { return OpGroup }
