package reflectshape

import (
	"reflect"

	"github.com/on-the-ground/record_ive_go/shape"
)

// defaultRegistry is the process-wide registry backed by the reflect
// introspector. Consumers that want shape-build logging should construct
// their own shape.NewRegistry with a zap logger.
var defaultRegistry = shape.NewRegistry(Introspector{}, nil)

// DefaultRegistry returns the process-wide registry for Go struct types.
func DefaultRegistry() *shape.Registry {
	return defaultRegistry
}

// For returns the shape table for v's type. A pointer is dereferenced once,
// so For(&person) and For(person) resolve the same table.
func For(v any) (*shape.Table, error) {
	t := reflect.TypeOf(v)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return ForType(t)
}

// ForType returns the shape table for t.
func ForType(t reflect.Type) (*shape.Table, error) {
	return defaultRegistry.Get(t)
}
