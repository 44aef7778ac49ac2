package interp

import (
	"sort"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/maruel/natural"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/plang-lang/plang/internal/token"
	"github.com/plang-lang/plang/internal/types"
	"github.com/plang-lang/plang/internal/value"
)

// registerDomainBuiltins wires the JSON/YAML/natural-sort extras the
// DOMAIN STACK section adds on top of the core language's minimal set.
func registerDomainBuiltins(ev *Evaluator) {
	ev.RegisterBuiltin("jsonEncode", biJSONEncode)
	ev.RegisterBuiltin("jsonDecode", biJSONDecode)
	ev.RegisterBuiltin("jsonGet", biJSONGet)
	ev.RegisterBuiltin("jsonSet", biJSONSet)
	ev.RegisterBuiltin("yamlDecode", biYAMLDecode)
	ev.RegisterBuiltin("naturalSort", biNaturalSort)
}

func biJSONEncode(ev *Evaluator, args []*value.Value, pos token.Position) (*value.Value, error) {
	s, err := encodeJSON(args[0])
	if err != nil {
		return nil, throwf(err.Error())
	}
	return value.Str(s), nil
}

func biJSONDecode(ev *Evaluator, args []*value.Value, pos token.Position) (*value.Value, error) {
	text := args[0].AsString()
	if !gjson.Valid(text) {
		return nil, throwf("invalid JSON text")
	}
	return decodeGJSON(gjson.Parse(text)), nil
}

func biJSONGet(ev *Evaluator, args []*value.Value, pos token.Position) (*value.Value, error) {
	text, path := args[0].AsString(), args[1].AsString()
	res := gjson.Get(text, path)
	if !res.Exists() {
		return value.Null(), nil
	}
	return decodeGJSON(res), nil
}

func biJSONSet(ev *Evaluator, args []*value.Value, pos token.Position) (*value.Value, error) {
	text, path, v := args[0].AsString(), args[1].AsString(), args[2]
	raw, err := encodeJSON(v)
	if err != nil {
		return nil, throwf(err.Error())
	}
	out, err := sjson.SetRaw(text, path, raw)
	if err != nil {
		return nil, throwf(err.Error())
	}
	return value.Str(out), nil
}

// encodeJSON builds JSON text for v incrementally via sjson.SetRaw: each
// nested array/map member is encoded and spliced in by path rather than
// built through an intermediate map[string]interface{} tree.
func encodeJSON(v *value.Value) (string, error) {
	if v == nil || v.IsNull() {
		return "null", nil
	}
	switch p := v.Payload.(type) {
	case bool:
		if p {
			return "true", nil
		}
		return "false", nil
	case int64:
		return strconv.FormatInt(p, 10), nil
	case float64:
		return strconv.FormatFloat(p, 'g', -1, 64), nil
	case string:
		return strconv.Quote(p), nil
	case *value.Array:
		doc := "[]"
		var err error
		for i, el := range p.Elements {
			raw, e := encodeJSON(el)
			if e != nil {
				return "", e
			}
			doc, err = sjson.SetRaw(doc, strconv.Itoa(i), raw)
			if err != nil {
				return "", err
			}
		}
		return doc, nil
	case *value.Map:
		doc := "{}"
		var err error
		for _, k := range p.Keys() {
			val, _ := p.Get(k)
			raw, e := encodeJSON(val)
			if e != nil {
				return "", e
			}
			doc, err = sjson.SetRaw(doc, sjsonEscape(k), raw)
			if err != nil {
				return "", err
			}
		}
		return doc, nil
	}
	return "", errUnencodable(v)
}

func errUnencodable(v *value.Value) error {
	return &jsonEncodeError{typ: types.ToString(v.Type)}
}

type jsonEncodeError struct{ typ string }

func (e *jsonEncodeError) Error() string { return "cannot JSON-encode a " + e.typ + " value" }

// sjsonEscape guards a map key containing a literal '.' or '*' from being
// read back by sjson as a nested path separator/wildcard.
func sjsonEscape(key string) string {
	out := make([]byte, 0, len(key))
	for i := 0; i < len(key); i++ {
		if key[i] == '.' || key[i] == '*' || key[i] == '\\' {
			out = append(out, '\\')
		}
		out = append(out, key[i])
	}
	return string(out)
}

func decodeGJSON(r gjson.Result) *value.Value {
	switch r.Type {
	case gjson.Null:
		return value.Null()
	case gjson.True:
		return value.Bool(true)
	case gjson.False:
		return value.Bool(false)
	case gjson.Number:
		if r.Num == float64(int64(r.Num)) && !looksFloaty(r.Raw) {
			return value.Int(int64(r.Num))
		}
		return value.Real(r.Num)
	case gjson.String:
		return value.Str(r.Str)
	}
	if r.IsArray() {
		var elems []*value.Value
		var elemT types.Type
		r.ForEach(func(_, val gjson.Result) bool {
			v := decodeGJSON(val)
			elems = append(elems, v)
			if elemT == nil {
				elemT = v.Type
			} else {
				elemT = types.Unite([]types.Type{elemT, v.Type})
			}
			return true
		})
		if elemT == nil {
			elemT = types.Any
		}
		return value.NewArray(elemT, elems)
	}
	if r.IsObject() {
		m := value.NewMap()
		var fields []types.Field
		r.ForEach(func(key, val gjson.Result) bool {
			v := decodeGJSON(val)
			m.Set(key.Str, v)
			fields = append(fields, types.Field{Key: key.Str, Type: v.Type})
			return true
		})
		return value.NewMapValue(types.MapOf{Fields: fields}, m)
	}
	return value.Null()
}

func looksFloaty(raw string) bool {
	for _, c := range raw {
		if c == '.' || c == 'e' || c == 'E' {
			return true
		}
	}
	return false
}

func biYAMLDecode(ev *Evaluator, args []*value.Value, pos token.Position) (*value.Value, error) {
	text := args[0].AsString()
	var generic interface{}
	if err := yaml.Unmarshal([]byte(text), &generic); err != nil {
		return nil, throwf("invalid YAML: " + err.Error())
	}
	return decodeGeneric(generic), nil
}

// decodeGeneric converts a go-yaml-decoded interface{} tree (maps keyed
// by either string or interface{}, slices, and scalar primitives) into
// Plang runtime values.
func decodeGeneric(v interface{}) *value.Value {
	switch p := v.(type) {
	case nil:
		return value.Null()
	case bool:
		return value.Bool(p)
	case int:
		return value.Int(int64(p))
	case int64:
		return value.Int(p)
	case uint64:
		return value.Int(int64(p))
	case float64:
		return value.Real(p)
	case string:
		return value.Str(p)
	case []interface{}:
		elems := make([]*value.Value, len(p))
		var elemT types.Type
		for i, e := range p {
			ev := decodeGeneric(e)
			elems[i] = ev
			if elemT == nil {
				elemT = ev.Type
			} else {
				elemT = types.Unite([]types.Type{elemT, ev.Type})
			}
		}
		if elemT == nil {
			elemT = types.Any
		}
		return value.NewArray(elemT, elems)
	case map[string]interface{}:
		m := value.NewMap()
		var fields []types.Field
		keys := make([]string, 0, len(p))
		for k := range p {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			ev := decodeGeneric(p[k])
			m.Set(k, ev)
			fields = append(fields, types.Field{Key: k, Type: ev.Type})
		}
		return value.NewMapValue(types.MapOf{Fields: fields}, m)
	case map[interface{}]interface{}:
		flat := make(map[string]interface{}, len(p))
		for k, val := range p {
			if ks, ok := k.(string); ok {
				flat[ks] = val
			}
		}
		return decodeGeneric(flat)
	}
	return value.Null()
}

func biNaturalSort(ev *Evaluator, args []*value.Value, pos token.Position) (*value.Value, error) {
	arr := args[0].AsArray()
	strs := make([]string, len(arr.Elements))
	for i, e := range arr.Elements {
		strs[i] = e.AsString()
	}
	natural.Sort(strs)
	out := make([]*value.Value, len(strs))
	for i, s := range strs {
		out[i] = value.Str(s)
	}
	return value.NewArray(types.String_, out), nil
}
