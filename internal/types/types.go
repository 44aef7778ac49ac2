// Package types implements Plang's static type representations and the
// pure operations over them: equality, subtyping, union/promotion, alias
// and default-value resolution, and canonical string rendering. Nothing
// here mutates its inputs or consults the AST; the validator and evaluator
// both build on this package.
package types

import (
	"sort"
	"strings"
)

// Type is the common interface implemented by every type variant:
// Simple, Array, Map, Union, Func and NewType.
type Type interface {
	// String returns the canonical printed form used in error messages
	// and by the type/whatis builtins.
	String() string
	// TypeKind returns a short machine-readable discriminator, used for
	// switch dispatch without a type assertion.
	TypeKind() string
}

// Simple is an atomic type: one of the fixed built-ins or a user-defined
// name introduced by a `type` declaration's underlying NewType.
type Simple struct {
	Name string
}

func (s Simple) String() string   { return s.Name }
func (Simple) TypeKind() string   { return "SIMPLE" }

// Built-in simple types. These are the only types with entries in the
// subtype DAG; everything else (Array, Map, Func, NewType, user simple
// names) participates in `check` structurally or via alias resolution.
var (
	Any      = Simple{"Any"}
	Null     = Simple{"Null"}
	Boolean  = Simple{"Boolean"}
	Number   = Simple{"Number"}
	Integer  = Simple{"Integer"}
	Real     = Simple{"Real"}
	String_  = Simple{"String"}
	ArrayT   = Simple{"Array"}
	MapT     = Simple{"Map"}
	Function = Simple{"Function"}
	Builtin  = Simple{"Builtin"}
)

// ArrayOf is a homogeneous array type.
type ArrayOf struct {
	Elem Type
}

func (a ArrayOf) String() string { return "[" + a.Elem.String() + "]" }
func (ArrayOf) TypeKind() string { return "ARRAY" }

// Field is one entry of a Map type's ordered field list.
type Field struct {
	Key     string
	Type    Type
	Default Value // optional; nil means no recorded default
}

// Value is the minimal representation of a constant default value a Map
// field may carry; the evaluator's runtime value is the authority on
// actual values. Kept here only so types.Map can describe struct-literal
// defaults without importing the interp package (which imports types).
type Value struct {
	Kind string // "null", "boolean", "integer", "real", "string"
	Bool bool
	Int  int64
	Real float64
	Str  string
}

// MapOf is an ordered, structural map (record) type.
type MapOf struct {
	Fields []Field
}

func (m MapOf) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, f := range m.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Key)
		sb.WriteString(": ")
		sb.WriteString(f.Type.String())
	}
	sb.WriteByte('}')
	return sb.String()
}
func (MapOf) TypeKind() string { return "MAP" }

// FieldIndex returns the index of key in the map type, or -1.
func (m MapOf) FieldIndex(key string) int {
	for i, f := range m.Fields {
		if f.Key == key {
			return i
		}
	}
	return -1
}

// Union is a sorted, deduplicated set of two or more member types.
type Union struct {
	Members []Type
}

func (u Union) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}
func (Union) TypeKind() string { return "UNION" }

// FuncKind distinguishes a user function type from a builtin's.
type FuncKind int

const (
	KindFunction FuncKind = iota
	KindBuiltin
)

// Func is a function or builtin signature type.
type Func struct {
	Kind    FuncKind
	Params  []Type
	Returns Type
}

func (f Func) String() string {
	name := "Function"
	if f.Kind == KindBuiltin {
		name = "Builtin"
	}
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	ret := "Any"
	if f.Returns != nil {
		ret = f.Returns.String()
	}
	return name + "(" + strings.Join(parts, ", ") + ") -> " + ret
}
func (Func) TypeKind() string { return "FUNC" }

// NewTypeDecl is a user-declared alias: `type Name = Underlying`.
type NewTypeDecl struct {
	Name       string
	Underlying Type
	Default    *Value
}

func (n NewTypeDecl) String() string { return n.Name }
func (NewTypeDecl) TypeKind() string { return "NEWTYPE" }

// ---- equality -------------------------------------------------------------

// IsEqual reports deep structural equality after alias resolution.
func IsEqual(a, b Type) bool {
	a = ResolveAlias(a)
	b = ResolveAlias(b)
	switch av := a.(type) {
	case Simple:
		bv, ok := b.(Simple)
		return ok && av.Name == bv.Name
	case ArrayOf:
		bv, ok := b.(ArrayOf)
		return ok && IsEqual(av.Elem, bv.Elem)
	case MapOf:
		bv, ok := b.(MapOf)
		if !ok || len(av.Fields) != len(bv.Fields) {
			return false
		}
		for i := range av.Fields {
			if av.Fields[i].Key != bv.Fields[i].Key || !IsEqual(av.Fields[i].Type, bv.Fields[i].Type) {
				return false
			}
		}
		return true
	case Union:
		bv, ok := b.(Union)
		if !ok || len(av.Members) != len(bv.Members) {
			return false
		}
		for i := range av.Members {
			if !IsEqual(av.Members[i], bv.Members[i]) {
				return false
			}
		}
		return true
	case Func:
		bv, ok := b.(Func)
		if !ok || av.Kind != bv.Kind || len(av.Params) != len(bv.Params) {
			return false
		}
		for i := range av.Params {
			if !IsEqual(av.Params[i], bv.Params[i]) {
				return false
			}
		}
		return IsEqual(av.Returns, bv.Returns)
	}
	return false
}

// ---- subtype DAG -----------------------------------------------------------

// dagParents lists, for each simple built-in, its immediate supertype.
// Any is the DAG root; Number sits between Any and Integer/Real (siblings,
// never subtypes of each other).
var dagParents = map[string]string{
	"Null": "Any", "Boolean": "Any", "Number": "Any", "String": "Any",
	"Array": "Any", "Map": "Any", "Function": "Any",
	"Integer": "Number", "Real": "Number",
	"Builtin": "Function",
}

// IsSubtype reports a is a subtype of b, considering only simple types via
// the DAG. Every simple type is trivially a subtype of itself.
func IsSubtype(a, b Type) bool {
	as, aok := ResolveAlias(a).(Simple)
	bs, bok := ResolveAlias(b).(Simple)
	if !aok || !bok {
		return false
	}
	if as.Name == bs.Name {
		return true
	}
	name := as.Name
	for {
		parent, ok := dagParents[name]
		if !ok {
			return false
		}
		if parent == bs.Name {
			return true
		}
		name = parent
	}
}

// Check reports whether a value of type valueType is acceptable where
// guard is declared, implementing the full acceptance rule:
// Any accepts everything; simple types use the subtype DAG; structural
// types (Array/Map/Func) recurse; a union guard accepts if any member
// accepts; two unions match only when equal.
func Check(guard, valueType Type) bool {
	guard = ResolveAlias(guard)
	valueType = ResolveAlias(valueType)

	if IsSimpleAny(guard) {
		return true
	}
	if gu, ok := guard.(Union); ok {
		if vu, ok := valueType.(Union); ok {
			return IsEqual(gu, vu)
		}
		for _, m := range gu.Members {
			if Check(m, valueType) {
				return true
			}
		}
		return false
	}
	if vu, ok := valueType.(Union); ok {
		for _, m := range vu.Members {
			if !Check(guard, m) {
				return false
			}
		}
		return true
	}

	switch gv := guard.(type) {
	case Simple:
		if vf, ok := valueType.(Func); ok {
			return gv.Name == "Function" || (gv.Name == "Builtin" && vf.Kind == KindBuiltin)
		}
		vv, ok := valueType.(Simple)
		if !ok {
			return false
		}
		return vv.Name == gv.Name || IsSubtype(vv, gv)
	case ArrayOf:
		vv, ok := valueType.(ArrayOf)
		return ok && Check(gv.Elem, vv.Elem)
	case MapOf:
		vv, ok := valueType.(MapOf)
		if !ok || len(gv.Fields) != len(vv.Fields) {
			return false
		}
		for i := range gv.Fields {
			if gv.Fields[i].Key != vv.Fields[i].Key || !Check(gv.Fields[i].Type, vv.Fields[i].Type) {
				return false
			}
		}
		return true
	case Func:
		vv, ok := valueType.(Func)
		if !ok || len(gv.Params) != len(vv.Params) {
			return false
		}
		for i := range gv.Params {
			if !Check(gv.Params[i], vv.Params[i]) {
				return false
			}
		}
		return Check(gv.Returns, vv.Returns)
	}
	return false
}

// IsSimpleAny reports whether t resolves to the Any type.
func IsSimpleAny(t Type) bool {
	s, ok := ResolveAlias(t).(Simple)
	return ok && s.Name == "Any"
}

// IsArithmetic reports whether t is a subtype of Number, or a union whose
// members are all arithmetic.
func IsArithmetic(t Type) bool {
	t = ResolveAlias(t)
	if u, ok := t.(Union); ok {
		for _, m := range u.Members {
			if !IsArithmetic(m) {
				return false
			}
		}
		return len(u.Members) > 0
	}
	s, ok := t.(Simple)
	return ok && (s.Name == "Number" || IsSubtype(s, Number))
}

// ---- union construction -----------------------------------------------

// Unite deduplicates ts by printed representation and collapses to Any if
// any member is Any; an empty input is Any; a single distinct member is
// returned bare; otherwise a sorted Union is returned.
func Unite(ts []Type) Type {
	if len(ts) == 0 {
		return Any
	}
	seen := map[string]Type{}
	order := []string{}
	for _, t := range ts {
		if t == nil {
			continue
		}
		if IsSimpleAny(t) {
			return Any
		}
		key := t.String()
		if _, ok := seen[key]; !ok {
			seen[key] = t
			order = append(order, key)
		}
	}
	if len(order) == 0 {
		return Any
	}
	if len(order) == 1 {
		return seen[order[0]]
	}
	sort.Strings(order)
	members := make([]Type, len(order))
	for i, k := range order {
		members[i] = seen[k]
	}
	return Union{Members: members}
}

// rank orders the promotion ladder Null < Boolean < Integer < Real used
// only to pick an arithmetic result type, never to imply subtyping.
var rank = map[string]int{"Null": 0, "Boolean": 1, "Integer": 2, "Real": 3}

// Promote returns a when a and b are the same simple type, the
// higher-ranked of the two when both are on the rank ladder, otherwise
// the supertype when one is a subtype of the other, and Any in every
// other case; used for arithmetic result types where Integer/Real are DAG
// siblings but Real still "wins" when mixed with Integer.
func Promote(a, b Type) Type {
	as, aok := ResolveAlias(a).(Simple)
	bs, bok := ResolveAlias(b).(Simple)
	if !aok || !bok {
		return Any
	}
	if as.Name == bs.Name {
		return as
	}
	ra, raok := rank[as.Name]
	rb, rbok := rank[bs.Name]
	if raok && rbok {
		if ra >= rb {
			return as
		}
		return bs
	}
	if IsSubtype(as, bs) {
		return bs
	}
	if IsSubtype(bs, as) {
		return as
	}
	return Any
}

// ---- aliases and defaults -----------------------------------------------

// ResolveAlias follows NewType chains down to their underlying type.
func ResolveAlias(t Type) Type {
	for {
		nt, ok := t.(NewTypeDecl)
		if !ok {
			return t
		}
		t = nt.Underlying
	}
}

// ResolveDefaultValue returns the canonical zero value description for t,
// following NewType chains and honoring an explicit declared default.
func ResolveDefaultValue(t Type) Value {
	if nt, ok := t.(NewTypeDecl); ok {
		if nt.Default != nil {
			return *nt.Default
		}
		return ResolveDefaultValue(nt.Underlying)
	}
	if s, ok := t.(Simple); ok {
		switch s.Name {
		case "Boolean":
			return Value{Kind: "boolean"}
		case "Integer":
			return Value{Kind: "integer"}
		case "Real":
			return Value{Kind: "real"}
		case "String":
			return Value{Kind: "string"}
		}
	}
	return Value{Kind: "null"}
}

// ToString renders t in the canonical form used in diagnostics and by the
// type/whatis builtins.
func ToString(t Type) string {
	if t == nil {
		return "Any"
	}
	return t.String()
}
