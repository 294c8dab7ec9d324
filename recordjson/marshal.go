// Package recordjson serializes aggregates to JSON and parses JSON back into
// aggregate instances. Like the map view, it is a thin consumer of the shape
// table: object keys are emitted in field declaration order, and incoming
// keys are resolved through the table's name index.
//
// Leaf values are delegated to encoding/json, so field types implementing
// json.Marshaler or encoding.TextMarshaler serialize the way they would
// anywhere else.
package recordjson

import (
	"bytes"
	"encoding"
	"encoding/json"
	"reflect"

	"github.com/on-the-ground/record_ive_go/reflectshape"
	"github.com/on-the-ground/record_ive_go/shape"
)

// Marshal renders instance as a compact JSON object with keys in field
// declaration order. Nested aggregates become nested objects; slices and
// arrays become JSON arrays.
func Marshal(instance any) ([]byte, error) {
	var b bytes.Buffer
	if err := appendValue(&b, instance, "", "", ""); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// MarshalIndent is the human-readable variant of Marshal. Every entry starts
// on its own line indented one level deeper than its enclosing value, after
// the manner of json.MarshalIndent.
func MarshalIndent(instance any, prefix, indent string) ([]byte, error) {
	var b bytes.Buffer
	if err := appendValue(&b, instance, prefix, indent, "\n"); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func appendValue(b *bytes.Buffer, v any, linePrefix, indent, sep string) error {
	if v == nil {
		b.WriteString("null")
		return nil
	}
	// Types with their own JSON or text form (time.Time, date.Date,
	// decimal.Decimal, ...) take precedence over structural recursion.
	switch v.(type) {
	case json.Marshaler, encoding.TextMarshaler:
		return appendLeaf(b, v)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			b.WriteString("null")
			return nil
		}
		return appendValue(b, rv.Elem().Interface(), linePrefix, indent, sep)
	case reflect.Struct:
		return appendAggregate(b, v, linePrefix, indent, sep)
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			// []byte keeps encoding/json's base64 form.
			return appendLeaf(b, v)
		}
		return appendArray(b, rv, linePrefix, indent, sep)
	default:
		return appendLeaf(b, v)
	}
}

func appendAggregate(b *bytes.Buffer, v any, linePrefix, indent, sep string) error {
	table, err := reflectshape.For(v)
	if err != nil {
		return err
	}
	entrySep := ","
	if sep == "" {
		entrySep = ", "
	}
	inner := linePrefix + indent
	b.WriteByte('{')
	first := true
	table.Range(func(f shape.FieldDescriptor) bool {
		if !first {
			b.WriteString(entrySep)
		}
		first = false
		b.WriteString(sep)
		b.WriteString(inner)
		b.WriteByte('"')
		b.WriteString(f.Name)
		b.WriteString(`": `)
		err = appendValue(b, f.Accessor(v), inner, indent, sep)
		return err == nil
	})
	if err != nil {
		return err
	}
	b.WriteString(sep)
	b.WriteString(linePrefix)
	b.WriteByte('}')
	return nil
}

func appendArray(b *bytes.Buffer, rv reflect.Value, linePrefix, indent, sep string) error {
	entrySep := ","
	if sep == "" {
		entrySep = ", "
	}
	inner := linePrefix + indent
	b.WriteByte('[')
	for i := 0; i < rv.Len(); i++ {
		if i > 0 {
			b.WriteString(entrySep)
		}
		b.WriteString(sep)
		b.WriteString(inner)
		if err := appendValue(b, rv.Index(i).Interface(), inner, indent, sep); err != nil {
			return err
		}
	}
	b.WriteString(sep)
	b.WriteString(linePrefix)
	b.WriteByte(']')
	return nil
}

func appendLeaf(b *bytes.Buffer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	b.Write(data)
	return nil
}
