package plang

import (
	"fmt"
	"reflect"

	"github.com/plang-lang/plang/internal/interp"
	"github.com/plang-lang/plang/internal/namespace"
	"github.com/plang-lang/plang/internal/token"
	"github.com/plang-lang/plang/internal/types"
	"github.com/plang-lang/plang/internal/value"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// RegisterFunction exposes a Go function to scripts under name, deriving
// its Plang call signature from fn's reflected type. Supported parameter
// and return kinds are bool, the integer and float kinds, string, and
// Any (interface{}). A last return value of type error is left out of
// the script-visible return type; a non-nil error (or a recovered panic)
// ends the run as a runtime error returned from Run, and a script
// try/catch does not intercept it.
func (e *Engine) RegisterFunction(name string, fn any) error {
	if fn == nil {
		return fmt.Errorf("plang: RegisterFunction(%q): function is nil", name)
	}
	if _, exists := e.namespace.Lookup(name); exists {
		return fmt.Errorf("plang: RegisterFunction(%q): name already registered", name)
	}

	rv := reflect.ValueOf(fn)
	rt := rv.Type()
	if rt.Kind() != reflect.Func {
		return fmt.Errorf("plang: RegisterFunction(%q): expected a function, got %s", name, rt.Kind())
	}

	params := make([]namespace.Param, rt.NumIn())
	paramTypes := make([]reflect.Type, rt.NumIn())
	for i := 0; i < rt.NumIn(); i++ {
		pt := rt.In(i)
		gt, err := goTypeToPlang(pt)
		if err != nil {
			return fmt.Errorf("plang: RegisterFunction(%q): parameter %d: %w", name, i, err)
		}
		paramTypes[i] = pt
		params[i] = namespace.Param{Name: fmt.Sprintf("arg%d", i), Type: gt}
	}

	returnsError := rt.NumOut() > 0 && rt.Out(rt.NumOut()-1) == errorType
	valueOuts := rt.NumOut()
	if returnsError {
		valueOuts--
	}
	if valueOuts > 1 {
		return fmt.Errorf("plang: RegisterFunction(%q): functions with more than one non-error return value are not supported", name)
	}

	var returns types.Type = types.Null
	if valueOuts == 1 {
		gt, err := goTypeToPlang(rt.Out(0))
		if err != nil {
			return fmt.Errorf("plang: RegisterFunction(%q): return value: %w", name, err)
		}
		returns = gt
	}

	e.namespace.Register(&namespace.Descriptor{Name: name, Params: params, Returns: returns})
	e.registered[name] = makeFFIBuiltin(rv, paramTypes, returnsError)
	return nil
}

func goTypeToPlang(t reflect.Type) (types.Type, error) {
	switch t.Kind() {
	case reflect.Bool:
		return types.Boolean, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return types.Integer, nil
	case reflect.Float32, reflect.Float64:
		return types.Real, nil
	case reflect.String:
		return types.String_, nil
	case reflect.Interface:
		return types.Any, nil
	case reflect.Slice, reflect.Array:
		return types.ArrayOf{Elem: types.Any}, nil
	case reflect.Map:
		return types.MapOf{}, nil
	}
	return nil, fmt.Errorf("unsupported Go type %s", t)
}

// makeFFIBuiltin builds the interp.BuiltinImpl that marshals Plang
// arguments to fn's declared Go parameter types, calls fn, and marshals
// its result back.
func makeFFIBuiltin(fn reflect.Value, paramTypes []reflect.Type, returnsError bool) interp.BuiltinImpl {
	return func(ev *interp.Evaluator, args []*value.Value, pos token.Position) (result *value.Value, err error) {
		defer func() {
			if r := recover(); r != nil {
				result = nil
				err = fmt.Errorf("panic in registered function: %v", r)
			}
		}()

		in := make([]reflect.Value, len(paramTypes))
		for i, pt := range paramTypes {
			gv, convErr := goValueFor(args[i], pt)
			if convErr != nil {
				return nil, convErr
			}
			in[i] = gv
		}

		out := fn.Call(in)
		if returnsError {
			if e, ok := out[len(out)-1].Interface().(error); ok && e != nil {
				return nil, e
			}
			out = out[:len(out)-1]
		}
		if len(out) == 0 {
			return value.Null(), nil
		}
		return plangValueFor(out[0]), nil
	}
}

// goValueFor converts a Plang argument to a reflect.Value of the exact
// declared parameter type, including the Go integer/float width fn
// actually wants (e.g. int, int32), since Plang itself only has one
// integer width internally.
func goValueFor(v *value.Value, t reflect.Type) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.Bool:
		return reflect.ValueOf(v.AsBool()).Convert(t), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return reflect.ValueOf(v.AsInt()).Convert(t), nil
	case reflect.Float32, reflect.Float64:
		return reflect.ValueOf(v.AsReal()).Convert(t), nil
	case reflect.String:
		return reflect.ValueOf(v.AsString()).Convert(t), nil
	case reflect.Interface:
		return reflect.ValueOf(toGo(v)), nil
	case reflect.Slice, reflect.Array:
		return reflect.ValueOf(toGo(v)), nil
	case reflect.Map:
		return reflect.ValueOf(toGo(v)), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot marshal argument of type %s to Go", t)
}

// plangValueFor converts a Go return value back into a Plang runtime
// value, inferring the Plang type from the reflected Go kind.
func plangValueFor(rv reflect.Value) *value.Value {
	switch rv.Kind() {
	case reflect.Bool:
		return value.Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return value.Int(int64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return value.Real(rv.Float())
	case reflect.String:
		return value.Str(rv.String())
	case reflect.Interface:
		if rv.IsNil() {
			return value.Null()
		}
		return plangValueFor(rv.Elem())
	}
	return value.Null()
}
