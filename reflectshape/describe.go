// Package reflectshape is the standard type-introspection collaborator for
// the shape package: it describes plain Go structs with exported fields as
// named-field aggregates, using reflection.
//
// Accessors and constructors are ordinary closures over the field index, so
// the shape and record packages stay free of reflection on their hot paths.
package reflectshape

import (
	"fmt"
	"reflect"

	"github.com/on-the-ground/record_ive_go/shape"
)

// ErrUnassignableValue indicates that a supplied field value does not have
// the field's declared type. Constructors surface it wrapped with the field
// name.
var ErrUnassignableValue = fmt.Errorf("value not assignable to field type")

// Introspector describes Go struct types. The zero value is ready to use.
type Introspector struct{}

var _ shape.Introspector = Introspector{}

// DescribeFields returns the exported fields of a struct type in declaration
// order. Non-struct types fail with shape.ErrNotAnAggregate.
func (Introspector) DescribeFields(t reflect.Type) ([]shape.FieldInfo, error) {
	if err := checkStruct(t); err != nil {
		return nil, err
	}
	fields := make([]shape.FieldInfo, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		idx := i
		fields = append(fields, shape.FieldInfo{
			Name: f.Name,
			Type: f.Type,
			Accessor: func(instance any) any {
				return reflect.ValueOf(instance).Field(idx).Interface()
			},
		})
	}
	return fields, nil
}

// DescribeConstructor returns a closure building a new value of t from one
// value per exported field, in declaration order. A struct with unexported
// fields cannot be populated through reflection and fails with
// shape.ErrConstructorNotAccessible.
func (Introspector) DescribeConstructor(t reflect.Type) (shape.Constructor, error) {
	if err := checkStruct(t); err != nil {
		return nil, err
	}
	indexes := make([]int, 0, t.NumField())
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			return nil, fmt.Errorf("%w: %s has unexported field %q", shape.ErrConstructorNotAccessible, t, f.Name)
		}
		indexes = append(indexes, i)
		names = append(names, f.Name)
	}
	return func(args []any) (any, error) {
		out := reflect.New(t).Elem()
		for pos, idx := range indexes {
			if err := assign(out.Field(idx), args[pos]); err != nil {
				return nil, fmt.Errorf("field %q: %w", names[pos], err)
			}
		}
		return out.Interface(), nil
	}, nil
}

func checkStruct(t reflect.Type) error {
	if t == nil {
		return fmt.Errorf("%w: nil type", shape.ErrNotAnAggregate)
	}
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("%w: %s is a %s", shape.ErrNotAnAggregate, t, t.Kind())
	}
	return nil
}

// assign sets dst to v. Only assignable values are accepted; there is no
// implicit numeric conversion, mirroring the strictness of constructor
// invocation with exact argument types. nil is accepted for nilable kinds
// and leaves the zero value in place.
func assign(dst reflect.Value, v any) error {
	if v == nil {
		switch dst.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
			return nil
		default:
			return fmt.Errorf("%w: nil for %s", ErrUnassignableValue, dst.Type())
		}
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(dst.Type()) {
		return fmt.Errorf("%w: %s for %s", ErrUnassignableValue, rv.Type(), dst.Type())
	}
	dst.Set(rv)
	return nil
}
