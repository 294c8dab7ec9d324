package recordjson

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/on-the-ground/record_ive_go/reflectshape"
	"github.com/on-the-ground/record_ive_go/shape"
)

// ErrUnknownField indicates a JSON object key that matches no field of the
// target aggregate type.
var ErrUnknownField = fmt.Errorf("unknown field in JSON object")

// ErrInvalidTarget indicates that the Unmarshal target was not a non-nil
// pointer to an aggregate.
var ErrInvalidTarget = fmt.Errorf("target must be a non-nil pointer to an aggregate")

// Unmarshal parses a JSON object into a new aggregate instance and stores it
// through target, which must be a non-nil pointer to the aggregate type.
// Keys resolve through the type's shape table; fields absent from the input
// keep their zero values; an unknown key fails with ErrUnknownField before
// any value is stored.
func Unmarshal(data []byte, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w, got %T", ErrInvalidTarget, target)
	}
	t := rv.Elem().Type()
	table, err := reflectshape.ForType(t)
	if err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	args := make([]any, table.Len())
	table.Range(func(f shape.FieldDescriptor) bool {
		args[f.Slot] = reflect.Zero(f.Type).Interface()
		return true
	})
	for key, msg := range raw {
		slot, ok := table.Lookup(key)
		if !ok {
			return fmt.Errorf("%w: %q for type %s", ErrUnknownField, key, t)
		}
		fd := table.FieldAt(slot)
		fv := reflect.New(fd.Type)
		if err := json.Unmarshal(msg, fv.Interface()); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		args[slot] = fv.Elem().Interface()
	}

	out, err := table.Construct(args)
	if err != nil {
		return err
	}
	rv.Elem().Set(reflect.ValueOf(out))
	return nil
}
