package plang

import "github.com/plang-lang/plang/internal/value"

// toGo converts an internal runtime value into the Go-native shape a
// host program works with: nil, bool, int64, float64, string, []any, or
// map[string]any. Closures and builtin references surface as nil, since
// neither is meaningful outside the engine that produced them.
func toGo(v *value.Value) any {
	if v == nil || v.IsNull() {
		return nil
	}
	switch v.Payload.(type) {
	case bool:
		return v.AsBool()
	case int64:
		return v.AsInt()
	case float64:
		return v.AsReal()
	case string:
		return v.AsString()
	}
	if arr := v.AsArray(); arr != nil {
		out := make([]any, len(arr.Elements))
		for i, e := range arr.Elements {
			out[i] = toGo(e)
		}
		return out
	}
	if m := v.AsMap(); m != nil {
		out := make(map[string]any, m.Len())
		for _, k := range m.Keys() {
			val, _ := m.Get(k)
			out[k] = toGo(val)
		}
		return out
	}
	return nil
}
