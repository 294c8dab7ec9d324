package shape

import (
	"fmt"
	"math/bits"

	"github.com/cespare/xxhash/v2"
)

const emptySlot = -1

// Table is the built-once description of one aggregate type's fields.
//
// The dense fields array preserves declaration order and answers "what is at
// position i"; the index answers "which slot holds this name" via open
// addressing with linear probing over a power-of-two backing array. The
// index is sized max(2, nextPowerOfTwo(fieldCount)*4) to keep the load
// factor low and probe chains short even for pathological name sets.
//
// A Table is immutable after Build and safe for concurrent reads.
type Table struct {
	fields []FieldDescriptor
	index  []int32 // declaration slot per index position, emptySlot if free
	mask   uint64
	ctor   Constructor
}

// Build constructs a Table from an introspected field list and constructor.
// The field list order is the aggregate's declaration order and is never
// permuted.
func Build(fields []FieldInfo, ctor Constructor) (*Table, error) {
	if ctor == nil {
		return nil, fmt.Errorf("%w: nil constructor", ErrConstructorNotAccessible)
	}
	capacity := indexCapacity(len(fields))
	t := &Table{
		fields: make([]FieldDescriptor, len(fields)),
		index:  make([]int32, capacity),
		mask:   uint64(capacity - 1),
		ctor:   ctor,
	}
	for i := range t.index {
		t.index[i] = emptySlot
	}
	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("%w: field %d has an empty name", ErrNotAnAggregate, i)
		}
		if f.Accessor == nil {
			return nil, fmt.Errorf("%w: field %q has no accessor", ErrNotAnAggregate, f.Name)
		}
		if _, dup := t.Lookup(f.Name); dup {
			return nil, fmt.Errorf("%w: duplicate field %q", ErrNotAnAggregate, f.Name)
		}
		t.fields[i] = FieldDescriptor{Name: f.Name, Slot: i, Type: f.Type, Accessor: f.Accessor}
		t.insert(f.Name, int32(i))
	}
	return t, nil
}

// indexCapacity returns max(2, nextPowerOfTwo(n)*4).
func indexCapacity(n int) int {
	if n == 0 {
		return 2
	}
	return (1 << bits.Len(uint(n-1))) << 2
}

func (t *Table) insert(name string, slot int32) {
	i := xxhash.Sum64String(name) & t.mask
	for t.index[i] != emptySlot {
		i = (i + 1) & t.mask
	}
	t.index[i] = slot
}

// Lookup returns the declaration slot for name. Average O(1); worst case a
// linear probe over the colliding run.
func (t *Table) Lookup(name string) (int, bool) {
	i := xxhash.Sum64String(name) & t.mask
	for {
		s := t.index[i]
		if s == emptySlot {
			return 0, false
		}
		if t.fields[s].Name == name {
			return int(s), true
		}
		i = (i + 1) & t.mask
	}
}

// FieldAt returns the descriptor at the given declaration slot.
func (t *Table) FieldAt(slot int) FieldDescriptor {
	return t.fields[slot]
}

// Len returns the number of fields.
func (t *Table) Len() int {
	return len(t.fields)
}

// Range iterates the fields in declaration order until fn returns false.
func (t *Table) Range(fn func(FieldDescriptor) bool) {
	for _, f := range t.fields {
		if !fn(f) {
			return
		}
	}
}

// Construct invokes the aggregate constructor with one value per field in
// declaration order. An arity mismatch is a bug in the calling pipeline, not
// a user error, and panics.
func (t *Table) Construct(args []any) (any, error) {
	if len(args) != len(t.fields) {
		panic(fmt.Sprintf("shape: constructor called with %d arguments for %d fields", len(args), len(t.fields)))
	}
	return t.ctor(args)
}
