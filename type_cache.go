package doguda

import (
	"reflect"
	"sync"
)

// typeInfo caches expensive reflection operations for a function type.
type typeInfo struct {
	// funcParams holds the parameter types in declaration order.
	funcParams []reflect.Type
	// funcReturns holds the non-error result types in declaration order.
	funcReturns []reflect.Type
	hasError    bool
}

// Global type cache to avoid repeated reflection operations. Handlers and
// providers are analyzed once per function type no matter how many apps
// register them.
var globalTypeCache sync.Map // map[reflect.Type]*typeInfo

// getTypeInfo returns cached signature information for a function type,
// computing it if necessary. Multiple error results are rejected here since
// no registration path permits them.
func getTypeInfo(t reflect.Type) *typeInfo {
	if cached, ok := globalTypeCache.Load(t); ok {
		return cached.(*typeInfo)
	}

	info := &typeInfo{}

	info.funcParams = make([]reflect.Type, t.NumIn())
	for i := 0; i < t.NumIn(); i++ {
		info.funcParams[i] = t.In(i)
	}

	info.funcReturns = make([]reflect.Type, 0, t.NumOut())
	errorCount := 0
	for i := 0; i < t.NumOut(); i++ {
		returnType := t.Out(i)
		if returnType.AssignableTo(errorType) {
			errorCount++
			if errorCount > 1 {
				panic("multiple error results on a handler function not permitted")
			}
			info.hasError = true
		} else {
			info.funcReturns = append(info.funcReturns, returnType)
		}
	}

	actual, _ := globalTypeCache.LoadOrStore(t, info)
	return actual.(*typeInfo)
}
