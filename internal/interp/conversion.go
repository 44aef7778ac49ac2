package interp

import (
	"strconv"
	"strings"

	"github.com/plang-lang/plang/internal/token"
	"github.com/plang-lang/plang/internal/types"
	"github.com/plang-lang/plang/internal/value"
)

// registerConversionBuiltins wires the eight type-conversion functions of
// the conversion table: every built-in type name is callable as a
// one-argument function performing the documented coercion.
func registerConversionBuiltins(ev *Evaluator) {
	ev.RegisterBuiltin("Null", func(ev *Evaluator, args []*value.Value, pos token.Position) (*value.Value, error) {
		return value.Null(), nil
	})
	ev.RegisterBuiltin("Boolean", biToBoolean)
	ev.RegisterBuiltin("Integer", biToInteger)
	ev.RegisterBuiltin("Real", biToReal)
	ev.RegisterBuiltin("Number", biToNumber)
	ev.RegisterBuiltin("String", biToString)
	ev.RegisterBuiltin("Array", biToArray)
	ev.RegisterBuiltin("Map", biToMap)
}

func biToBoolean(ev *Evaluator, args []*value.Value, pos token.Position) (*value.Value, error) {
	v := args[0]
	switch p := v.Payload.(type) {
	case nil:
		return value.Bool(false), nil
	case bool:
		return value.Bool(p), nil
	case int64:
		return value.Bool(p != 0), nil
	case float64:
		return value.Bool(p != 0), nil
	case string:
		return value.Bool(p != ""), nil
	}
	return nil, throwf("cannot convert " + types.ToString(v.Type) + " to Boolean")
}

func biToInteger(ev *Evaluator, args []*value.Value, pos token.Position) (*value.Value, error) {
	v := args[0]
	switch p := v.Payload.(type) {
	case nil:
		return value.Int(0), nil
	case bool:
		if p {
			return value.Int(1), nil
		}
		return value.Int(0), nil
	case int64:
		return value.Int(p), nil
	case float64:
		return value.Int(int64(p)), nil
	case string:
		return value.Int(leadingInt(p)), nil
	}
	return nil, throwf("cannot convert " + types.ToString(v.Type) + " to Integer")
}

func biToReal(ev *Evaluator, args []*value.Value, pos token.Position) (*value.Value, error) {
	v := args[0]
	switch p := v.Payload.(type) {
	case nil:
		return value.Real(0), nil
	case bool:
		if p {
			return value.Real(1), nil
		}
		return value.Real(0), nil
	case int64:
		return value.Real(float64(p)), nil
	case float64:
		return value.Real(p), nil
	case string:
		return value.Real(leadingReal(p)), nil
	}
	return nil, throwf("cannot convert " + types.ToString(v.Type) + " to Real")
}

// biToNumber converts like Integer/Real but preserves whichever of the
// two the source value already is (or chooses Integer for Boolean/Null).
func biToNumber(ev *Evaluator, args []*value.Value, pos token.Position) (*value.Value, error) {
	v := args[0]
	if v.Type == types.Real {
		return biToReal(ev, args, pos)
	}
	return biToInteger(ev, args, pos)
}

func biToString(ev *Evaluator, args []*value.Value, pos token.Position) (*value.Value, error) {
	v := args[0]
	switch v.Payload.(type) {
	case nil, bool, int64, float64, string:
		return value.Str(v.String()), nil
	}
	if v.AsArray() != nil || v.AsMap() != nil {
		return value.Str(v.String()), nil
	}
	return nil, throwf("cannot convert " + types.ToString(v.Type) + " to String")
}

func biToArray(ev *Evaluator, args []*value.Value, pos token.Position) (*value.Value, error) {
	v := args[0]
	if v.IsNull() {
		return value.Null(), nil
	}
	if v.AsArray() != nil {
		return v, nil
	}
	s, ok := v.Payload.(string)
	if !ok {
		return nil, throwf("cannot convert " + types.ToString(v.Type) + " to Array")
	}
	out, err := ev.evalLiteralSpan(s, pos)
	if err != nil || out.AsArray() == nil {
		return nil, throwf(s + " is not a valid array literal")
	}
	return out, nil
}

func biToMap(ev *Evaluator, args []*value.Value, pos token.Position) (*value.Value, error) {
	v := args[0]
	if v.IsNull() {
		return value.Null(), nil
	}
	if v.AsMap() != nil {
		return v, nil
	}
	s, ok := v.Payload.(string)
	if !ok {
		return nil, throwf("cannot convert " + types.ToString(v.Type) + " to Map")
	}
	out, err := ev.evalLiteralSpan(s, pos)
	if err != nil || out.AsMap() == nil {
		return nil, throwf(s + " is not a valid map literal")
	}
	return out, nil
}

// evalLiteralSpan parses src as a standalone expression and evaluates it
// against the global scope, used by the String -> Array/Map conversions
// to parse and run an array/map literal given as a string.
func (ev *Evaluator) evalLiteralSpan(src string, pos token.Position) (*value.Value, error) {
	expr, err := parseSpan(src, pos)
	if err != nil {
		return nil, err
	}
	out, err := ev.eval(expr, ev.global)
	if err != nil {
		return nil, err
	}
	if out.sig != value.SigNormal {
		return nil, throwf("not a constant literal")
	}
	return out.val, nil
}

func leadingInt(s string) int64 {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func leadingReal(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	sawDigit := false
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
		sawDigit = true
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
			sawDigit = true
		}
	}
	if !sawDigit {
		return 0
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return f
}
