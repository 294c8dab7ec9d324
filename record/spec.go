package record

import (
	"fmt"

	"github.com/on-the-ground/record_ive_go/shape"
)

// Pair names one field and the value that replaces it.
type Pair struct {
	Name  string
	Value any
}

// P is shorthand for constructing a Pair.
func P(name string, value any) Pair {
	return Pair{Name: name, Value: value}
}

// updateSpec is the validated set of field names of one update call, in
// order of appearance. It lives only for the duration of one compilation.
type updateSpec struct {
	names []string
	// slots holds the declaration slot of each supplied name.
	slots []int
}

// normalizeSpec validates names against the shape table. Validation happens
// before any compilation or execution: a rejected call has no side effect.
// Name-level checks (empty, duplicate) run for every name before any name is
// resolved, matching the error precedence callers observe.
func normalizeSpec(table *shape.Table, names []string) (updateSpec, error) {
	for i, name := range names {
		if name == "" {
			return updateSpec{}, fmt.Errorf("%w: name %d", ErrEmptyFieldName, i)
		}
		for j := 0; j < i; j++ {
			if names[j] == name {
				return updateSpec{}, fmt.Errorf("%w: %q", ErrDuplicateFieldName, name)
			}
		}
	}
	slots := make([]int, len(names))
	for i, name := range names {
		slot, ok := table.Lookup(name)
		if !ok {
			return updateSpec{}, fmt.Errorf("%w: %q", ErrUnknownFieldName, name)
		}
		slots[i] = slot
	}
	return updateSpec{names: names, slots: slots}, nil
}
