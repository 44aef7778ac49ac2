package ast

import "github.com/plang-lang/plang/internal/token"

// If is `if cond then thenBody [else elseBody]`, usable as a statement or
// an expression (its value is the taken branch's value, or Null if no
// branch was taken and there is no else).
type If struct {
	base
	Cond Node
	Then Node
	Else Node // nil if no else clause
}

func NewIf(pos token.Position, cond, then, els Node) *If { return &If{base{pos}, cond, then, els} }
func (*If) Op() Opcode                                     { return OpIf }

// Ternary is `cond ? then : else`.
type Ternary struct {
	base
	Cond Node
	Then Node
	Else Node
}

func NewTernary(pos token.Position, cond, then, els Node) *Ternary {
	return &Ternary{base{pos}, cond, then, els}
}
func (*Ternary) Op() Opcode { return OpTernary }

// While is `while cond body`.
type While struct {
	base
	Cond Node
	Body Node
}

func NewWhile(pos token.Position, cond, body Node) *While { return &While{base{pos}, cond, body} }
func (*While) Op() Opcode                                   { return OpWhile }

// Catch is one `catch (cond) body` or default `catch body` clause.
// Cond is nil for the default catcher.
type Catch struct {
	base
	Cond Node
	Body Node
}

func NewCatch(pos token.Position, cond, body Node) *Catch { return &Catch{base{pos}, cond, body} }
func (*Catch) Op() Opcode                                   { return OpCatch }

// Try is `try body catch ... catch ...`, with exactly one default (last).
type Try struct {
	base
	Body    Node
	Catches []*Catch
}

func NewTry(pos token.Position, body Node, catches []*Catch) *Try { return &Try{base{pos}, body, catches} }
func (*Try) Op() Opcode                                              { return OpTry }

// Throw is `throw expr`.
type Throw struct {
	base
	Value Node
}

func NewThrow(pos token.Position, value Node) *Throw { return &Throw{base{pos}, value} }
func (*Throw) Op() Opcode                              { return OpThrow }

// Return is `return [expr]`.
type Return struct {
	base
	Value Node // nil for a bare `return`
}

func NewReturn(pos token.Position, value Node) *Return { return &Return{base{pos}, value} }
func (*Return) Op() Opcode                               { return OpReturn }

// Next is `next` (continue).
type Next struct{ base }

func NewNext(pos token.Position) *Next { return &Next{base{pos}} }
func (*Next) Op() Opcode                { return OpNext }

// Last is `last` (break).
type Last struct{ base }

func NewLast(pos token.Position) *Last { return &Last{base{pos}} }
func (*Last) Op() Opcode                { return OpLast }
