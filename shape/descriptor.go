package shape

import "reflect"

// Accessor reads one field value out of an aggregate instance.
// It must never mutate the instance.
type Accessor func(instance any) any

// Constructor builds a new aggregate instance from one value per field,
// supplied in declaration order.
type Constructor func(args []any) (any, error)

// FieldInfo is the raw description of one field as supplied by an
// introspection collaborator. Build turns a list of these into a Table.
type FieldInfo struct {
	Name     string
	Type     reflect.Type
	Accessor Accessor
}

// FieldDescriptor describes one field of a built shape Table.
// Immutable once its Table is built; owned exclusively by that Table.
type FieldDescriptor struct {
	// Name is the field name as declared on the aggregate type.
	Name string
	// Slot is the zero-based declaration-order position of the field.
	Slot int
	// Type is the declared field type.
	Type reflect.Type
	// Accessor fetches this field's value from an instance.
	Accessor Accessor
}
