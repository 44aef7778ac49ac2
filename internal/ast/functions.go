package ast

import "github.com/plang-lang/plang/internal/token"

// Param is one function parameter: optionally typed, optionally
// defaulted. Defaults must trail non-defaulted parameters.
type Param struct {
	Name    string
	Type    *TypeExpr // nil -> Any
	Default Node      // nil -> no default
}

// FuncLit is `fn [name] [(params)] [-> Type] body`. Name is "" for an
// anonymous function literal.
type FuncLit struct {
	base
	Name       string
	Params     []Param
	ReturnType *TypeExpr // nil -> Any (inferred by the validator)
	Body       Node
}

func NewFuncLit(pos token.Position, name string, params []Param, ret *TypeExpr, body Node) *FuncLit {
	return &FuncLit{base{pos}, name, params, ret, body}
}
func (*FuncLit) Op() Opcode { return OpFuncLit }

// TypeDecl is `type Name = Underlying [= default]`.
type TypeDecl struct {
	base
	Name       string
	Underlying *TypeExpr
	Default    Node // optional explicit default-value expression
}

func NewTypeDecl(pos token.Position, name string, underlying *TypeExpr, def Node) *TypeDecl {
	return &TypeDecl{base{pos}, name, underlying, def}
}
func (*TypeDecl) Op() Opcode { return OpTypeDecl }

// Exists is `exists target[key]`.
type Exists struct {
	base
	Target Node
	Key    Node
}

func NewExists(pos token.Position, target, key Node) *Exists { return &Exists{base{pos}, target, key} }
func (*Exists) Op() Opcode                                      { return OpExists }

// Delete is `delete target[key]` (single entry) or `delete target` (whole
// map, Key == nil).
type Delete struct {
	base
	Target Node
	Key    Node
}

func NewDelete(pos token.Position, target, key Node) *Delete { return &Delete{base{pos}, target, key} }
func (*Delete) Op() Opcode                                     { return OpDelete }

// Keys is `keys target`.
type Keys struct {
	base
	Target Node
}

func NewKeys(pos token.Position, target Node) *Keys { return &Keys{base{pos}, target} }
func (*Keys) Op() Opcode                              { return OpKeys }

// Values is `values target`.
type Values struct {
	base
	Target Node
}

func NewValues(pos token.Position, target Node) *Values { return &Values{base{pos}, target} }
func (*Values) Op() Opcode                                { return OpValues }
