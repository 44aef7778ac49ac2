package ast

import "github.com/plang-lang/plang/internal/token"

// IntLit is an integer literal (decimal or hex source).
type IntLit struct {
	base
	Value int64
}

func NewIntLit(pos token.Position, v int64) *IntLit { return &IntLit{base{pos}, v} }
func (*IntLit) Op() Opcode                           { return OpIntLit }

// FloatLit is a real-number literal.
type FloatLit struct {
	base
	Value float64
}

func NewFloatLit(pos token.Position, v float64) *FloatLit { return &FloatLit{base{pos}, v} }
func (*FloatLit) Op() Opcode                                { return OpFloatLit }

// StringLit is a plain (non-interpolated) string literal.
type StringLit struct {
	base
	Value string
}

func NewStringLit(pos token.Position, v string) *StringLit { return &StringLit{base{pos}, v} }
func (*StringLit) Op() Opcode                                { return OpStringLit }

// InterpString is a `$"..."` literal whose body may contain `{expr}`
// spans. Parts alternates literal text and embedded source spans in
// order; IsExpr marks which.
type InterpString struct {
	base
	Parts  []string
	IsExpr []bool
}

func NewInterpString(pos token.Position, parts []string, isExpr []bool) *InterpString {
	return &InterpString{base{pos}, parts, isExpr}
}
func (*InterpString) Op() Opcode { return OpInterpString }

// BoolLit is `true` or `false`.
type BoolLit struct {
	base
	Value bool
}

func NewBoolLit(pos token.Position, v bool) *BoolLit { return &BoolLit{base{pos}, v} }
func (*BoolLit) Op() Opcode                           { return OpBoolLit }

// NullLit is the `null` literal.
type NullLit struct{ base }

func NewNullLit(pos token.Position) *NullLit { return &NullLit{base{pos}} }
func (*NullLit) Op() Opcode                   { return OpNullLit }

// ArrayLit is an `[a, b, c]` array constructor.
type ArrayLit struct {
	base
	Elements []Node
}

func NewArrayLit(pos token.Position, elems []Node) *ArrayLit { return &ArrayLit{base{pos}, elems} }
func (*ArrayLit) Op() Opcode                                   { return OpArrayLit }

// MapEntry is one `key: value` pair of a map constructor.
type MapEntry struct {
	Key   string
	Value Node
}

// MapLit is a `{ key: expr, ... }` map constructor.
type MapLit struct {
	base
	Entries []MapEntry
}

func NewMapLit(pos token.Position, entries []MapEntry) *MapLit { return &MapLit{base{pos}, entries} }
func (*MapLit) Op() Opcode                                       { return OpMapLit }

// Ident is an identifier reference.
type Ident struct {
	base
	Name string
}

func NewIdent(pos token.Position, name string) *Ident { return &Ident{base{pos}, name} }
func (*Ident) Op() Opcode                               { return OpIdent }
