package doguda

import (
	"fmt"
	"reflect"
)

// provider is a registered dependency source. Its result type(s) are the keys
// it is looked up by; its parameters may only be context.Context or other
// provider-backed types.
type provider struct {
	handler      any
	handlerValue reflect.Value
	// produces lists the non-error result types this provider fills.
	produces []reflect.Type
	params   []reflect.Type
	hasError bool
}

// Provide registers fn as a dependency provider. The function's non-error
// result type becomes the type key that command and provider parameters are
// matched against. A function with multiple non-error results registers one
// table entry per produced type.
//
// Provider parameters are not supplied by callers: they must be
// context.Context or types that other providers produce. Provide panics when
// fn is not a function, produces no value, or declares more than one error
// result; a provider that cannot declare what it produces is unusable and
// should fail at registration, before any invocation is attempted.
//
// The last registration for a given produced type wins.
func (a *App) Provide(fn any) {
	p := newProvider(fn)
	for _, t := range p.produces {
		a.providers[t] = p
	}
}

func newProvider(fn any) *provider {
	fnType := reflect.TypeOf(fn)
	if fnType == nil || fnType.Kind() != reflect.Func {
		panic("provider must be a function")
	}

	info := getTypeInfo(fnType)
	if len(info.funcReturns) == 0 {
		panic(fmt.Sprintf("provider %s must have at least one non-error result", fnType))
	}

	return &provider{
		handler:      fn,
		handlerValue: reflect.ValueOf(fn),
		produces:     info.funcReturns,
		params:       info.funcParams,
		hasError:     info.hasError,
	}
}

// providedByTable reports whether a parameter of type t would be satisfied by
// the provider table rather than by caller input.
func (a *App) providedByTable(t reflect.Type) bool {
	_, ok := a.providers[t]
	return ok
}
