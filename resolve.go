package doguda

import (
	"context"
	"fmt"
	"reflect"

	"github.com/gburgyan/go-timing"
)

// resolution is the state owned by exactly one top-level invocation: the
// per-invocation cache of provider results plus the cycle checker for the
// chain currently being resolved. It is created at the start of an invocation
// and discarded at its end; concurrent invocations never share one.
type resolution struct {
	cache   map[reflect.Type]reflect.Value
	checker *cycleChecker
}

func newResolution() *resolution {
	return &resolution{
		cache:   map[reflect.Type]reflect.Value{},
		checker: &cycleChecker{inProcess: map[reflect.Type]bool{}},
	}
}

// resolveArgs builds the complete argument list for cmd's handler. Explicitly
// supplied values win over providers; context.Context parameters receive ctx;
// remaining parameters fall back to their declared default. Parameters that
// none of those cover are reported in missing and left as zero values - the
// resolver itself never fails on an unknown parameter, the caller decides
// whether its absence is an error.
func (a *App) resolveArgs(ctx context.Context, cmd *command, supplied map[string]any, res *resolution) ([]reflect.Value, []string, error) {
	handlerType := cmd.handlerValue.Type()
	args := make([]reflect.Value, handlerType.NumIn())
	var missing []string

	descriptor := 0
	for i := 0; i < handlerType.NumIn(); i++ {
		inType := handlerType.In(i)
		if inType == contextType {
			args[i] = reflect.ValueOf(ctx)
			continue
		}

		p := cmd.params[descriptor]
		descriptor++

		if raw, ok := supplied[p.name]; ok {
			v, err := coerceValue(raw, inType)
			if err != nil {
				return nil, nil, fmt.Errorf("argument %q: %w", p.name, err)
			}
			args[i] = v
			continue
		}

		v, ok, err := a.resolveType(ctx, inType, res)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			args[i] = v
			continue
		}

		if p.hasDefault {
			args[i] = p.defValue
			continue
		}

		missing = append(missing, p.name)
		args[i] = reflect.Zero(inType)
	}

	return args, missing, nil
}

// resolveType produces a value of type t from the provider table. The result
// is cached in res, so a given type is computed at most once per invocation
// even when several parameters across the dependency graph require it. The
// second result reports whether the table covers t at all.
func (a *App) resolveType(ctx context.Context, t reflect.Type, res *resolution) (reflect.Value, bool, error) {
	if v, ok := res.cache[t]; ok {
		return v, true, nil
	}

	p, ok := a.providers[t]
	if !ok {
		return reflect.Value{}, false, nil
	}

	unlock, err := res.checker.enter(a, t)
	if err != nil {
		return reflect.Value{}, false, err
	}
	defer unlock()

	if EnableTiming == TimingProviders {
		tCtx, complete := timing.Start(ctx, "provider:"+t.String())
		defer complete()
		ctx = tCtx
	}

	// Resolve the provider's own parameters against the same cache so the
	// whole graph sees exactly one instance of each type.
	args := make([]reflect.Value, len(p.params))
	for i, paramType := range p.params {
		if paramType == contextType {
			args[i] = reflect.ValueOf(ctx)
			continue
		}
		v, found, err := a.resolveType(ctx, paramType, res)
		if err != nil {
			return reflect.Value{}, false, err
		}
		if !found {
			return reflect.Value{}, false, &DependencyError{
				Message:        fmt.Sprintf("provider for %v has a parameter no provider can fill", t),
				ReferencedType: paramType,
				Status:         a.Status(),
			}
		}
		args[i] = v
	}

	results := p.handlerValue.Call(args)
	if err := extractError(results); err != nil {
		return reflect.Value{}, false, &DependencyError{
			Message:        "provider failed",
			ReferencedType: t,
			Status:         a.Status(),
			SourceError:    err,
		}
	}

	// Store every produced value before use; a multi-result provider fills
	// all of its type keys in one call.
	for _, result := range results {
		resultType := result.Type()
		if resultType.AssignableTo(errorType) {
			continue
		}
		if _, cached := res.cache[resultType]; !cached {
			res.cache[resultType] = result
		}
	}

	v, ok := res.cache[t]
	if !ok {
		// We should never get here since t is one of the produced types.
		return reflect.Value{}, false, &DependencyError{
			Message:        "provider did not produce its declared type",
			ReferencedType: t,
			Status:         a.Status(),
		}
	}
	return v, true, nil
}

// extractError finds the non-nil error result from a handler call, if any.
func extractError(results []reflect.Value) error {
	for _, result := range results {
		if result.Type().AssignableTo(errorType) {
			if result.IsNil() {
				continue
			}
			return result.Interface().(error)
		}
	}
	return nil
}
