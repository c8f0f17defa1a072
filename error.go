package doguda

import (
	"fmt"
	"reflect"
)

// DependencyError reports a failure while resolving a provider-backed
// parameter. ReferencedType is the type key that was being resolved and
// Status carries a snapshot of the app's registration state at the time
// of the failure.
type DependencyError struct {
	Message        string
	ReferencedType reflect.Type
	Status         string
	SourceError    error
}

func (e *DependencyError) Error() string {
	if e.SourceError != nil {
		return fmt.Sprintf("%s: %v (%v)", e.Message, e.ReferencedType, e.SourceError)
	}
	return fmt.Sprintf("%s: %v", e.Message, e.ReferencedType)
}

func (e *DependencyError) Unwrap() error {
	return e.SourceError
}
