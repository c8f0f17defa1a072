package doguda

import (
	"reflect"
)

// cycleChecker tracks which provider type keys are being resolved in the
// current chain. A provider that depends, directly or transitively, on its own
// produced type would otherwise recurse until the stack blows; the checker
// turns that into a deterministic error. The checker is part of the
// per-invocation resolution state, so no locking is needed.
type cycleChecker struct {
	inProcess map[reflect.Type]bool
}

// enter marks t as being resolved. It returns an error when t is already in
// process on this chain, and otherwise an unlocker that removes the mark.
func (c *cycleChecker) enter(a *App, t reflect.Type) (func(), error) {
	if c.inProcess[t] {
		return nil, &DependencyError{
			Message:        "cyclic provider dependency",
			ReferencedType: t,
			Status:         a.Status(),
		}
	}
	c.inProcess[t] = true
	return func() {
		delete(c.inProcess, t)
	}, nil
}
