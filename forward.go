package repometa

import (
	"reflect"

	platformerrors "github.com/jmgilman/go/errors"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Supports reports whether method is an exported method of the Repository or
// of the concrete engine bound to it. Engine methods are probed on the
// concrete type, so capabilities beyond engine.Engine are reported too.
func (r *Repository) Supports(method string) bool {
	if reflect.ValueOf(r).MethodByName(method).IsValid() {
		return true
	}

	h := r.Engine()
	return h != nil && reflect.ValueOf(h).MethodByName(method).IsValid()
}

// Call invokes method on the bound engine with args and returns its results.
// A trailing error result is split off and returned as err; the other results
// are returned in order.
//
// Call always targets the engine, bypassing the cache. It fails with
// NOT_IMPLEMENTED when the engine has no such method and INVALID_INPUT when
// args do not match its parameters.
//
// Example:
//
//	out, err := repo.Call("Blob", "main", "README.md")
//	blob := out[0].(*engine.Blob)
func (r *Repository) Call(method string, args ...any) ([]any, error) {
	h, err := r.bound()
	if err != nil {
		return nil, err
	}

	fn := reflect.ValueOf(h).MethodByName(method)
	if !fn.IsValid() {
		return nil, platformerrors.Newf(platformerrors.CodeNotImplemented,
			"engine %T does not implement %s", h, method)
	}

	in, err := callArgs(method, fn.Type(), args)
	if err != nil {
		return nil, err
	}

	out := fn.Call(in)

	results := make([]any, 0, len(out))
	for _, v := range out {
		results = append(results, v.Interface())
	}

	if n := fn.Type().NumOut(); n > 0 && fn.Type().Out(n-1) == errorType {
		results = results[:n-1]
		if e := out[n-1]; !e.IsNil() {
			return results, e.Interface().(error)
		}
	}

	return results, nil
}

// callArgs converts args to reflect values matching ft's parameters.
func callArgs(method string, ft reflect.Type, args []any) ([]reflect.Value, error) {
	fixed := ft.NumIn()
	if ft.IsVariadic() {
		fixed--
	}

	if len(args) < fixed || (!ft.IsVariadic() && len(args) > fixed) {
		return nil, platformerrors.Newf(platformerrors.CodeInvalidInput,
			"%s takes %d arguments, got %d", method, ft.NumIn(), len(args))
	}

	in := make([]reflect.Value, 0, len(args))
	for i, arg := range args {
		var pt reflect.Type
		if i < fixed {
			pt = ft.In(i)
		} else {
			pt = ft.In(fixed).Elem()
		}

		v, ok := argValue(arg, pt)
		if !ok {
			return nil, platformerrors.Newf(platformerrors.CodeInvalidInput,
				"%s argument %d: cannot use %T as %s", method, i, arg, pt)
		}
		in = append(in, v)
	}

	return in, nil
}

func argValue(arg any, pt reflect.Type) (reflect.Value, bool) {
	if arg == nil {
		switch pt.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
			return reflect.Zero(pt), true
		default:
			return reflect.Value{}, false
		}
	}

	v := reflect.ValueOf(arg)
	if !v.Type().AssignableTo(pt) {
		return reflect.Value{}, false
	}

	return v, true
}
