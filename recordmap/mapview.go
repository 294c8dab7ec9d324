// Package recordmap exposes an aggregate instance as a read-only,
// declaration-ordered key/value view. It is a thin consumer of the shape
// table: keys iterate in field declaration order and point queries go
// through the table's name index.
package recordmap

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/on-the-ground/record_ive_go/reflectshape"
	"github.com/on-the-ground/record_ive_go/shape"
	"github.com/on-the-ground/record_ive_go/shared/helper"
)

// View is a read-only map view over one aggregate instance. The view holds
// the instance and resolves values through the shape accessors on demand; it
// never copies or mutates the instance.
type View struct {
	table    *shape.Table
	instance any
}

// Of returns a view over instance. A pointer is dereferenced once. Fails
// with an error wrapping shape.ErrNotAnAggregate for non-aggregate values.
func Of(instance any) (*View, error) {
	table, err := reflectshape.For(instance)
	if err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(instance)
	if rv.Kind() == reflect.Pointer {
		instance = rv.Elem().Interface()
	}
	return &View{table: table, instance: instance}, nil
}

// Len returns the number of fields.
func (v *View) Len() int {
	return v.table.Len()
}

// Get returns the value of the named field.
func (v *View) Get(name string) (any, bool) {
	slot, ok := v.table.Lookup(name)
	if !ok {
		return nil, false
	}
	return v.table.FieldAt(slot).Accessor(v.instance), true
}

// Contains reports whether the aggregate has a field with the given name.
func (v *View) Contains(name string) bool {
	_, ok := v.table.Lookup(name)
	return ok
}

// Keys returns the field names in declaration order.
func (v *View) Keys() []string {
	keys := make([]string, 0, v.table.Len())
	v.table.Range(func(f shape.FieldDescriptor) bool {
		keys = append(keys, f.Name)
		return true
	})
	return keys
}

// Values returns the field values in declaration order.
func (v *View) Values() []any {
	values := make([]any, 0, v.table.Len())
	v.table.Range(func(f shape.FieldDescriptor) bool {
		values = append(values, f.Accessor(v.instance))
		return true
	})
	return values
}

// Range iterates the entries in declaration order until fn returns false.
func (v *View) Range(fn func(name string, value any) bool) {
	v.table.Range(func(f shape.FieldDescriptor) bool {
		return fn(f.Name, f.Accessor(v.instance))
	})
}

// AsMap materializes the view into a plain map. Iteration order of the
// result is unspecified, as for any Go map; use Range or Keys for
// declaration order.
func (v *View) AsMap() map[string]any {
	out := make(map[string]any, v.table.Len())
	v.Range(func(name string, value any) bool {
		out[name] = value
		return true
	})
	return out
}

// String renders the view as "{name=value, ...}" in declaration order.
func (v *View) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	v.Range(func(name string, value any) bool {
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(name)
		b.WriteByte('=')
		fmt.Fprint(&b, value)
		return true
	})
	b.WriteByte('}')
	return b.String()
}

// GetAs is the typed variant of View.Get.
func GetAs[T any](v *View, name string) (T, bool) {
	return helper.GetTypedValueOf2[T](func() (any, bool) {
		return v.Get(name)
	})
}
