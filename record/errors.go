package record

import "fmt"

// ErrNilInstance indicates that the instance to update was nil.
var ErrNilInstance = fmt.Errorf("instance is nil")

// ErrEmptyFieldName indicates an update pair with an empty field name.
// No field of an aggregate can be named "".
var ErrEmptyFieldName = fmt.Errorf("empty field name")

// ErrDuplicateFieldName indicates the same field name appeared more than
// once in one update call, regardless of whether the values differ.
var ErrDuplicateFieldName = fmt.Errorf("duplicate field name")

// ErrUnknownFieldName indicates a field name that does not exist on the
// aggregate type being updated.
var ErrUnknownFieldName = fmt.Errorf("unknown field name")
