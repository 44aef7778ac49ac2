// Package value implements Plang's runtime value and lexical scope model:
// the tagged (type, payload, position) value, the ordered map/array
// payloads, function closures, and the Scope chain that backs variable
// lookup, closures and function-call framing.
package value

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/plang-lang/plang/internal/token"
	"github.com/plang-lang/plang/internal/types"
)

// Value is a runtime value: a type tag plus payload, with an optional
// source position used in error reporting (e.g. the position of a throw).
type Value struct {
	Type    types.Type
	Payload any // nil, bool, int64, float64, string, *Array, *Map, *Closure, *BuiltinRef
	Pos     token.Position
}

// Array is the ordered-sequence payload backing Array values.
type Array struct {
	Elements []*Value
}

// mapEntry preserves insertion order for Map values.
type mapEntry struct {
	key string
	val *Value
}

// Map is Plang's ordered, string-keyed map payload.
type Map struct {
	entries []mapEntry
	index   map[string]int
}

// NewMap creates an empty ordered map.
func NewMap() *Map { return &Map{index: map[string]int{}} }

// Get returns the value at key and whether it is present.
func (m *Map) Get(key string) (*Value, bool) {
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.entries[i].val, true
}

// Set inserts or updates key, preserving original insertion order on
// update and appending on a new key (map extension).
func (m *Map) Set(key string, v *Value) {
	if i, ok := m.index[key]; ok {
		m.entries[i].val = v
		return
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, mapEntry{key, v})
}

// Delete removes key, returning its prior value and whether it existed.
func (m *Map) Delete(key string) (*Value, bool) {
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	old := m.entries[i].val
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	delete(m.index, key)
	for k, idx := range m.index {
		if idx > i {
			m.index[k] = idx - 1
		}
	}
	return old, true
}

// Clear empties the map in place.
func (m *Map) Clear() {
	m.entries = nil
	m.index = map[string]int{}
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.entries) }

// Keys returns keys in insertion order.
func (m *Map) Keys() []string {
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.key
	}
	return out
}

// SortedKeys returns keys sorted lexically, used when stringifying a map.
func (m *Map) SortedKeys() []string {
	out := m.Keys()
	sort.Strings(out)
	return out
}

// Values returns values in insertion order.
func (m *Map) Values() []*Value {
	out := make([]*Value, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.val
	}
	return out
}

// Scope is a lexical variable frame: a map of local bindings chained
// to a parent (block nesting) and, for function bodies, a separate
// closure pointer back to the scope the function literal was created in.
type Scope struct {
	locals          map[string]*Value
	parent          *Scope
	closure         *Scope
	currentFunction string
	inWhileLoop     bool
}

// NewScope creates a root scope with no parent.
func NewScope() *Scope { return &Scope{locals: map[string]*Value{}} }

// Child creates a nested block scope.
func (s *Scope) Child() *Scope {
	return &Scope{locals: map[string]*Value{}, parent: s, closure: s.closure, currentFunction: s.currentFunction, inWhileLoop: s.inWhileLoop}
}

// ChildFunction creates the scope a function body executes in: lexically
// parented to its defining (closure) scope, not to the caller.
func (s *Scope) ChildFunction(defining *Scope, name string) *Scope {
	return &Scope{locals: map[string]*Value{}, parent: defining, closure: defining, currentFunction: name, inWhileLoop: false}
}

// ChildLoop creates the scope a while-loop body executes in.
func (s *Scope) ChildLoop() *Scope {
	c := s.Child()
	c.inWhileLoop = true
	return c
}

// Declare binds name to v in this scope (shadowing any outer binding).
func (s *Scope) Declare(name string, v *Value) { s.locals[name] = v }

// Get looks up name through the parent chain.
func (s *Scope) Get(name string) (*Value, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.locals[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set assigns to the nearest scope that already declares name, returning
// false if name is undeclared anywhere in the chain.
func (s *Scope) Set(name string, v *Value) bool {
	for sc := s; sc != nil; sc = sc.parent {
		if _, ok := sc.locals[name]; ok {
			sc.locals[name] = v
			return true
		}
	}
	return false
}

// CurrentFunction returns the name of the innermost enclosing function
// ("" at top level), used to validate/execute `return`.
func (s *Scope) CurrentFunction() string { return s.currentFunction }

// InWhileLoop reports whether `next`/`last` are currently legal.
func (s *Scope) InWhileLoop() bool { return s.inWhileLoop }

// Signal discriminates the non-local control-flow outcomes of evaluating
// a node: a plain value, or a propagating return/next/last/throw.
type Signal int

const (
	SigNormal Signal = iota
	SigReturn
	SigNext
	SigLast
	SigThrow
)

// Closure is a function value bundling its defining scope.
type Closure struct {
	Name        string
	Params      []Param
	ReturnType  types.Type
	Body        any // *ast.Node body root; typed any to avoid an import cycle with ast
	Defining    *Scope
}

// Param mirrors ast.Param at the value layer for closure binding.
type Param struct {
	Name    string
	Type    types.Type
	Default any // *ast.Node, nil if none
}

// BuiltinRef is a first-class reference to a registered builtin, usable
// as a Function-typed value (e.g. passed to `map`/`filter`).
type BuiltinRef struct {
	Name string
}

// ---- constructors -----------------------------------------------------

func Null() *Value               { return &Value{Type: types.Null} }
func Bool(b bool) *Value         { return &Value{Type: types.Boolean, Payload: b} }
func Int(i int64) *Value         { return &Value{Type: types.Integer, Payload: i} }
func Real(f float64) *Value      { return &Value{Type: types.Real, Payload: f} }
func Str(s string) *Value        { return &Value{Type: types.String_, Payload: s} }
func NewArray(elemT types.Type, elems []*Value) *Value {
	return &Value{Type: types.ArrayOf{Elem: elemT}, Payload: &Array{Elements: elems}}
}
func NewMapValue(t types.Type, m *Map) *Value { return &Value{Type: t, Payload: m} }
func NewClosure(t types.Type, c *Closure) *Value {
	return &Value{Type: t, Payload: c}
}
func NewBuiltin(t types.Type, name string) *Value {
	return &Value{Type: t, Payload: &BuiltinRef{Name: name}}
}

// ---- accessors ---------------------------------------------------------

func (v *Value) AsBool() bool      { b, _ := v.Payload.(bool); return b }
func (v *Value) AsInt() int64      { i, _ := v.Payload.(int64); return i }
func (v *Value) AsReal() float64   { f, _ := v.Payload.(float64); return f }
func (v *Value) AsString() string  { s, _ := v.Payload.(string); return s }
func (v *Value) AsArray() *Array   { a, _ := v.Payload.(*Array); return a }
func (v *Value) AsMap() *Map       { m, _ := v.Payload.(*Map); return m }
func (v *Value) AsClosure() *Closure {
	c, _ := v.Payload.(*Closure)
	return c
}
func (v *Value) AsBuiltin() *BuiltinRef {
	b, _ := v.Payload.(*BuiltinRef)
	return b
}

// IsNull reports whether v is the Null value.
func (v *Value) IsNull() bool { return v == nil || v.Type == types.Null }

// ---- truthiness ---------------------------------------------------------

// Truthy: false, 0 (int or real), and "" are falsy;
// everything else with defined truthiness is truthy. Null/Array/Map/
// Function have no defined truthiness and are rejected earlier by the
// validator; Truthy is only ever called on values that passed that check.
func (v *Value) Truthy() bool {
	switch p := v.Payload.(type) {
	case bool:
		return p
	case int64:
		return p != 0
	case float64:
		return p != 0
	case string:
		return p != ""
	}
	return true
}

// ---- string rendering ----------------------------------------------

// String renders v the way `print` does: strings unquoted at top level.
func (v *Value) String() string { return render(v, false) }

// Literal renders v the way it appears nested inside an array/map
// stringification: strings quoted.
func (v *Value) Literal() string { return render(v, true) }

func render(v *Value, quoted bool) string {
	if v == nil || v.Type == types.Null {
		return "null"
	}
	switch p := v.Payload.(type) {
	case bool:
		if p {
			return "true"
		}
		return "false"
	case int64:
		return strconv.FormatInt(p, 10)
	case float64:
		return strconv.FormatFloat(p, 'g', -1, 64)
	case string:
		if quoted {
			return strconv.Quote(p)
		}
		return p
	case *Array:
		parts := make([]string, len(p.Elements))
		for i, e := range p.Elements {
			parts[i] = e.Literal()
		}
		return "[" + strings.Join(parts, ",") + "]"
	case *Map:
		parts := make([]string, 0, p.Len())
		for _, k := range p.SortedKeys() {
			val, _ := p.Get(k)
			parts = append(parts, fmt.Sprintf("%q = %s", k, val.Literal()))
		}
		return "{" + strings.Join(parts, ",") + "}"
	case *Closure:
		return v.Type.String()
	case *BuiltinRef:
		return v.Type.String()
	}
	return fmt.Sprintf("%v", v.Payload)
}
