// Package namespace holds the single flat registry of builtin function
// signatures Plang exposes in its single global namespace. It
// deliberately knows nothing about values or evaluation: the validator
// consults it to type-check calls, and internal/interp keeps a parallel
// map of the same names to their actual implementations. Splitting the
// two mirrors how a semantic analyzer's builtin-call checks are kept
// separate from an interpreter's builtin execution.
package namespace

import "github.com/plang-lang/plang/internal/types"

// Param describes one positional parameter of a builtin signature.
type Param struct {
	Name       string
	Type       types.Type
	HasDefault bool
}

// Descriptor is a builtin's call signature, used by the validator for
// arity/type/named-argument checking and canonicalization.
type Descriptor struct {
	Name     string
	Params   []Param
	Variadic bool // last param accepts any number of trailing Any arguments
	Returns  types.Type
}

// Registry is a name -> Descriptor lookup table.
type Registry struct {
	entries     map[string]*Descriptor
	order       []string
	searchPaths []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: map[string]*Descriptor{}}
}

// AddSearchPath records a module search root, in the order given on the
// command line. Nothing currently resolves an import against these roots;
// the single-namespace language has no import statement yet, so this is
// storage a future module resolver will consult.
func (r *Registry) AddSearchPath(path string) {
	r.searchPaths = append(r.searchPaths, path)
}

// SearchPaths returns the recorded module search roots, in order.
func (r *Registry) SearchPaths() []string {
	out := make([]string, len(r.searchPaths))
	copy(out, r.searchPaths)
	return out
}

// Register adds or replaces d, keyed by d.Name. Host-registered builtins
// (pkg/plang's public API) use this to extend the default set.
func (r *Registry) Register(d *Descriptor) {
	if _, ok := r.entries[d.Name]; !ok {
		r.order = append(r.order, d.Name)
	}
	r.entries[d.Name] = d
}

// Lookup returns the descriptor for name, if registered.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	d, ok := r.entries[name]
	return d, ok
}

// Names returns registered builtin names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func any1(name string) *Descriptor {
	return &Descriptor{Name: name, Params: []Param{{Name: "value", Type: types.Any}}, Returns: types.Any}
}

// Default returns a registry populated with Plang's builtin set: print,
// the type-introspection pair, length, the higher-order sequence
// functions (map, filter, reduce, sort), the conversion functions, and
// the json/yaml/natural-sort helpers. Host code registers further
// functions into the returned registry before validation begins.
func Default() *Registry {
	r := NewRegistry()

	r.Register(&Descriptor{Name: "print", Params: []Param{
		{Name: "value", Type: types.Any},
		{Name: "end", Type: types.String_, HasDefault: true},
	}, Returns: types.Null})
	r.Register(&Descriptor{Name: "type", Params: []Param{{Name: "value", Type: types.Any}}, Returns: types.String_})
	r.Register(&Descriptor{Name: "whatis", Params: []Param{{Name: "value", Type: types.Any}}, Returns: types.String_})
	r.Register(&Descriptor{Name: "length", Params: []Param{{Name: "value", Type: types.Any}}, Returns: types.Integer})

	r.Register(&Descriptor{
		Name: "map",
		Params: []Param{
			{Name: "func", Type: types.Function},
			{Name: "list", Type: types.ArrayOf{Elem: types.Any}},
		},
		Returns: types.ArrayOf{Elem: types.Any},
	})
	r.Register(&Descriptor{
		Name: "filter",
		Params: []Param{
			{Name: "func", Type: types.Function},
			{Name: "list", Type: types.ArrayOf{Elem: types.Any}},
		},
		Returns: types.ArrayOf{Elem: types.Any},
	})
	r.Register(&Descriptor{
		Name: "reduce",
		Params: []Param{
			{Name: "func", Type: types.Function},
			{Name: "list", Type: types.ArrayOf{Elem: types.Any}},
			{Name: "initial", Type: types.Any, HasDefault: true},
		},
		Returns: types.Any,
	})
	r.Register(&Descriptor{
		Name: "sort",
		Params: []Param{
			{Name: "list", Type: types.ArrayOf{Elem: types.Any}},
			{Name: "func", Type: types.Function, HasDefault: true},
		},
		Returns: types.ArrayOf{Elem: types.Any},
	})

	r.Register(any1("Null"))
	r.entries["Null"].Returns = types.Null
	r.Register(any1("Boolean"))
	r.entries["Boolean"].Returns = types.Boolean
	r.Register(any1("Integer"))
	r.entries["Integer"].Returns = types.Integer
	r.Register(any1("Real"))
	r.entries["Real"].Returns = types.Real
	r.Register(any1("Number"))
	r.entries["Number"].Returns = types.Number
	r.Register(any1("String"))
	r.entries["String"].Returns = types.String_
	r.Register(any1("Array"))
	r.entries["Array"].Returns = types.ArrayOf{Elem: types.Any}
	r.Register(any1("Map"))
	r.entries["Map"].Returns = types.MapOf{}

	r.Register(&Descriptor{Name: "jsonEncode", Params: []Param{{Name: "value", Type: types.Any}}, Returns: types.String_})
	r.Register(&Descriptor{Name: "jsonDecode", Params: []Param{{Name: "text", Type: types.String_}}, Returns: types.Any})
	r.Register(&Descriptor{Name: "jsonGet", Params: []Param{{Name: "text", Type: types.String_}, {Name: "path", Type: types.String_}}, Returns: types.Any})
	r.Register(&Descriptor{Name: "jsonSet", Params: []Param{{Name: "text", Type: types.String_}, {Name: "path", Type: types.String_}, {Name: "value", Type: types.Any}}, Returns: types.String_})
	r.Register(&Descriptor{Name: "yamlDecode", Params: []Param{{Name: "text", Type: types.String_}}, Returns: types.Any})
	r.Register(&Descriptor{Name: "naturalSort", Params: []Param{{Name: "list", Type: types.ArrayOf{Elem: types.String_}}}, Returns: types.ArrayOf{Elem: types.String_}})

	return r
}

// Clone returns a shallow copy of r safe to extend with host-registered
// builtins without mutating the shared default registry.
func (r *Registry) Clone() *Registry {
	c := NewRegistry()
	for _, n := range r.order {
		c.Register(r.entries[n])
	}
	c.searchPaths = append(c.searchPaths, r.searchPaths...)
	return c
}
