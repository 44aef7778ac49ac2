package interp

import (
	"fmt"
	"sort"

	"github.com/maruel/natural"

	"github.com/plang-lang/plang/internal/token"
	"github.com/plang-lang/plang/internal/types"
	"github.com/plang-lang/plang/internal/value"
)

// registerCoreBuiltins wires print/type/whatis/length, the four names
// every embedding of the interpreter needs regardless of domain.
func registerCoreBuiltins(ev *Evaluator) {
	ev.RegisterBuiltin("print", biPrint)
	ev.RegisterBuiltin("type", biType)
	ev.RegisterBuiltin("whatis", biWhatis)
	ev.RegisterBuiltin("length", biLength)
}

func biPrint(ev *Evaluator, args []*value.Value, pos token.Position) (*value.Value, error) {
	end := "\n"
	if len(args) > 1 {
		end = args[1].AsString()
	}
	fmt.Fprint(ev.Output, args[0].String(), end)
	return value.Null(), nil
}

func biType(ev *Evaluator, args []*value.Value, pos token.Position) (*value.Value, error) {
	return value.Str(types.ToString(args[0].Type)), nil
}

// biWhatis renders the value's runtime type tag, the same rendering
// `type` produces.
func biWhatis(ev *Evaluator, args []*value.Value, pos token.Position) (*value.Value, error) {
	return value.Str(types.ToString(args[0].Type)), nil
}

func biLength(ev *Evaluator, args []*value.Value, pos token.Position) (*value.Value, error) {
	v := args[0]
	if s, ok := v.Payload.(string); ok {
		return value.Int(int64(len(s))), nil
	}
	if arr := v.AsArray(); arr != nil {
		return value.Int(int64(len(arr.Elements))), nil
	}
	if m := v.AsMap(); m != nil {
		return value.Int(int64(m.Len())), nil
	}
	return nil, throwf("length requires an Array, Map or String")
}

// registerSequenceBuiltins wires the higher-order list operations, each
// calling back into the evaluator to invoke the caller-supplied closure
// or builtin reference per element.
func registerSequenceBuiltins(ev *Evaluator) {
	ev.RegisterBuiltin("map", biMap)
	ev.RegisterBuiltin("filter", biFilter)
	ev.RegisterBuiltin("reduce", biReduce)
	ev.RegisterBuiltin("sort", biSort)
}

// callValue invokes fn (a Closure or BuiltinRef value) with args, used by
// the higher-order sequence builtins to run a Plang function value
// without going through a source-level Call node.
func (ev *Evaluator) callValue(fn *value.Value, args []*value.Value, pos token.Position) (*value.Value, error) {
	if b := fn.AsBuiltin(); b != nil {
		impl, ok := ev.builtins[b.Name]
		if !ok {
			return nil, fmt.Errorf("no implementation registered for builtin %s", b.Name)
		}
		v, err := impl(ev, args, pos)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
	c := fn.AsClosure()
	if c == nil {
		return nil, fmt.Errorf("value is not callable")
	}
	out, err := ev.callClosure(c, args, pos)
	if err != nil {
		return nil, err
	}
	if out.sig == value.SigThrow {
		return nil, thrownValue{v: out.val}
	}
	return out.val, nil
}

func biMap(ev *Evaluator, args []*value.Value, pos token.Position) (*value.Value, error) {
	fn, list := args[0], args[1]
	arr := list.AsArray()
	out := make([]*value.Value, len(arr.Elements))
	var elemT types.Type
	for i, el := range arr.Elements {
		v, err := ev.callValue(fn, []*value.Value{el}, pos)
		if err != nil {
			return nil, err
		}
		out[i] = v
		if elemT == nil {
			elemT = v.Type
		} else {
			elemT = types.Unite([]types.Type{elemT, v.Type})
		}
	}
	if elemT == nil {
		elemT = types.Any
	}
	return value.NewArray(elemT, out), nil
}

func biFilter(ev *Evaluator, args []*value.Value, pos token.Position) (*value.Value, error) {
	fn, list := args[0], args[1]
	arr := list.AsArray()
	var out []*value.Value
	for _, el := range arr.Elements {
		v, err := ev.callValue(fn, []*value.Value{el}, pos)
		if err != nil {
			return nil, err
		}
		if v.Truthy() {
			out = append(out, el)
		}
	}
	elemT := types.Any
	if at, ok := list.Type.(types.ArrayOf); ok {
		elemT = at.Elem
	}
	return value.NewArray(elemT, out), nil
}

func biReduce(ev *Evaluator, args []*value.Value, pos token.Position) (*value.Value, error) {
	fn, list := args[0], args[1]
	arr := list.AsArray()
	var acc *value.Value
	start := 0
	if len(args) > 2 {
		acc = args[2]
	} else if len(arr.Elements) > 0 {
		acc = arr.Elements[0]
		start = 1
	} else {
		return value.Null(), nil
	}
	for i := start; i < len(arr.Elements); i++ {
		v, err := ev.callValue(fn, []*value.Value{acc, arr.Elements[i]}, pos)
		if err != nil {
			return nil, err
		}
		acc = v
	}
	return acc, nil
}

func biSort(ev *Evaluator, args []*value.Value, pos token.Position) (*value.Value, error) {
	list := args[0]
	arr := list.AsArray()
	out := make([]*value.Value, len(arr.Elements))
	copy(out, arr.Elements)

	if len(args) > 1 {
		fn := args[1]
		var callErr error
		sort.SliceStable(out, func(i, j int) bool {
			if callErr != nil {
				return false
			}
			v, err := ev.callValue(fn, []*value.Value{out[i], out[j]}, pos)
			if err != nil {
				callErr = err
				return false
			}
			return v.Truthy()
		})
		if callErr != nil {
			return nil, callErr
		}
		return value.NewArray(list.Type.(types.ArrayOf).Elem, out), nil
	}

	if allStrings(out) {
		strs := make([]string, len(out))
		for i, v := range out {
			strs[i] = v.AsString()
		}
		natural.Sort(strs)
		for i, s := range strs {
			out[i] = value.Str(s)
		}
		return value.NewArray(types.String_, out), nil
	}

	sort.SliceStable(out, func(i, j int) bool { return asReal(out[i]) < asReal(out[j]) })
	elemT := types.Any
	if at, ok := list.Type.(types.ArrayOf); ok {
		elemT = at.Elem
	}
	return value.NewArray(elemT, out), nil
}

func allStrings(vs []*value.Value) bool {
	for _, v := range vs {
		if _, ok := v.Payload.(string); !ok {
			return false
		}
	}
	return len(vs) > 0
}
