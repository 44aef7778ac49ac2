package ast

import "github.com/plang-lang/plang/internal/token"

// VarDecl is `var x [: Type] [= expr]`.
type VarDecl struct {
	base
	Name       string
	TypeAnnot  *TypeExpr // nil if untyped (guard defaults to Any)
	Init       Node      // nil until the validator fills the type default
}

func NewVarDecl(pos token.Position, name string, ta *TypeExpr, init Node) *VarDecl {
	return &VarDecl{base{pos}, name, ta, init}
}
func (*VarDecl) Op() Opcode { return OpVarDecl }

// Assign is `target = value` (right-associative).
type Assign struct {
	base
	Target Node
	Value  Node
}

func NewAssign(pos token.Position, target, value Node) *Assign { return &Assign{base{pos}, target, value} }
func (*Assign) Op() Opcode                                       { return OpAssign }

// CompoundAssign is `target OP= value` for +=, -=, *=, /=, ^^=.
type CompoundAssign struct {
	base
	Op     token.Kind
	Target Node
	Value  Node
}

func NewCompoundAssign(pos token.Position, op token.Kind, target, value Node) *CompoundAssign {
	return &CompoundAssign{base{pos}, op, target, value}
}
func (*CompoundAssign) Op() Opcode { return OpCompoundAssign }

// Binary is a binary operator expression.
type Binary struct {
	base
	Op    token.Kind
	Left  Node
	Right Node
}

func NewBinary(pos token.Position, op token.Kind, left, right Node) *Binary {
	return &Binary{base{pos}, op, left, right}
}
func (*Binary) Op() Opcode { return OpBinary }

// Unary is a prefix unary operator expression (!, +, -).
type Unary struct {
	base
	Op      token.Kind
	Operand Node
}

func NewUnary(pos token.Position, op token.Kind, operand Node) *Unary {
	return &Unary{base{pos}, op, operand}
}
func (*Unary) Op() Opcode { return OpUnary }

// PreIncDec is `++x` / `--x`; PostIncDec is `x++` / `x--`. Target must be
// an lvalue (Ident or Index).
type PreIncDec struct {
	base
	Op     token.Kind
	Target Node
}

func NewPreIncDec(pos token.Position, op token.Kind, target Node) *PreIncDec {
	return &PreIncDec{base{pos}, op, target}
}
func (*PreIncDec) Op() Opcode { return OpPreIncDec }

type PostIncDec struct {
	base
	Op     token.Kind
	Target Node
}

func NewPostIncDec(pos token.Position, op token.Kind, target Node) *PostIncDec {
	return &PostIncDec{base{pos}, op, target}
}
func (*PostIncDec) Op() Opcode { return OpPostIncDec }

// Index is `target[idx]`, where idx may be a Range for a substring/slice.
type Index struct {
	base
	Target Node
	Index  Node
}

func NewIndex(pos token.Position, target, index Node) *Index { return &Index{base{pos}, target, index} }
func (*Index) Op() Opcode                                      { return OpIndex }

// Range is `a..b`, legal only as the direct index operand of Index.
type Range struct {
	base
	Low  Node
	High Node
}

func NewRange(pos token.Position, low, high Node) *Range { return &Range{base{pos}, low, high} }
func (*Range) Op() Opcode                                  { return OpRange }

// Dot is `target.name`; the validator rewrites every Dot node into either
// an Index (map bracket-access sugar) or a Call (UFCS sugar), so the
// evaluator never sees this opcode.
type Dot struct {
	base
	Target Node
	Name   string
}

func NewDot(pos token.Position, target Node, name string) *Dot { return &Dot{base{pos}, target, name} }
func (*Dot) Op() Opcode                                          { return OpDot }

// Arg is one call argument: positional (Name == "") or named.
type Arg struct {
	Name  string
	Value Node
}

// Call is a function/builtin invocation. Args starts in source order
// (named args interleaved); the validator rewrites Args into canonical
// positional order in place.
type Call struct {
	base
	Callee Node
	Args   []Arg
}

func NewCall(pos token.Position, callee Node, args []Arg) *Call { return &Call{base{pos}, callee, args} }
func (*Call) Op() Opcode                                          { return OpCall }
