package shape_test

import (
	"fmt"
	"testing"

	"github.com/on-the-ground/record_ive_go/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceFields builds a synthetic aggregate whose instances are []any and
// whose constructor reassembles a fresh []any. Keeps table tests independent
// of any introspection collaborator.
func sliceFields(names ...string) []shape.FieldInfo {
	fields := make([]shape.FieldInfo, len(names))
	for i, name := range names {
		slot := i
		fields[i] = shape.FieldInfo{
			Name: name,
			Accessor: func(instance any) any {
				return instance.([]any)[slot]
			},
		}
	}
	return fields
}

func sliceConstructor(args []any) (any, error) {
	out := make([]any, len(args))
	copy(out, args)
	return out, nil
}

func TestTable_LookupAndOrder(t *testing.T) {
	table, err := shape.Build(sliceFields("name", "age", "email"), sliceConstructor)
	require.NoError(t, err)

	require.Equal(t, 3, table.Len())
	for i, name := range []string{"name", "age", "email"} {
		slot, ok := table.Lookup(name)
		require.True(t, ok, "expected %q to resolve", name)
		assert.Equal(t, i, slot)
		assert.Equal(t, name, table.FieldAt(slot).Name)
		assert.Equal(t, i, table.FieldAt(slot).Slot)
	}

	_, ok := table.Lookup("missing")
	assert.False(t, ok)
	_, ok = table.Lookup("")
	assert.False(t, ok)
}

func TestTable_RangePreservesDeclarationOrder(t *testing.T) {
	table, err := shape.Build(sliceFields("z", "a", "m"), sliceConstructor)
	require.NoError(t, err)

	var seen []string
	table.Range(func(f shape.FieldDescriptor) bool {
		seen = append(seen, f.Name)
		return true
	})
	assert.Equal(t, []string{"z", "a", "m"}, seen)
}

func TestTable_RangeStopsEarly(t *testing.T) {
	table, err := shape.Build(sliceFields("a", "b", "c"), sliceConstructor)
	require.NoError(t, err)

	count := 0
	table.Range(func(shape.FieldDescriptor) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}

func TestTable_Construct(t *testing.T) {
	table, err := shape.Build(sliceFields("x", "y"), sliceConstructor)
	require.NoError(t, err)

	out, err := table.Construct([]any{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2}, out)
}

func TestTable_ConstructArityMismatchPanics(t *testing.T) {
	table, err := shape.Build(sliceFields("x", "y"), sliceConstructor)
	require.NoError(t, err)

	assert.Panics(t, func() {
		_, _ = table.Construct([]any{1})
	})
}

func TestBuild_RejectsBadFieldLists(t *testing.T) {
	_, err := shape.Build(sliceFields("a", ""), sliceConstructor)
	assert.ErrorIs(t, err, shape.ErrNotAnAggregate)

	_, err = shape.Build(sliceFields("a", "a"), sliceConstructor)
	assert.ErrorIs(t, err, shape.ErrNotAnAggregate)

	fields := sliceFields("a")
	fields[0].Accessor = nil
	_, err = shape.Build(fields, sliceConstructor)
	assert.ErrorIs(t, err, shape.ErrNotAnAggregate)

	_, err = shape.Build(sliceFields("a"), nil)
	assert.ErrorIs(t, err, shape.ErrConstructorNotAccessible)
}

func TestBuild_ZeroFields(t *testing.T) {
	table, err := shape.Build(nil, sliceConstructor)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())

	_, ok := table.Lookup("anything")
	assert.False(t, ok)

	out, err := table.Construct(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestTable_StressManyFields(t *testing.T) {
	if testing.Short() {
		t.Skip("100k-field shape build")
	}
	const n = 100_000

	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("field_%06d", i)
	}
	table, err := shape.Build(sliceFields(names...), sliceConstructor)
	require.NoError(t, err)
	require.Equal(t, n, table.Len())

	for i, name := range names {
		slot, ok := table.Lookup(name)
		require.True(t, ok, "present name %q must resolve", name)
		require.Equal(t, i, slot)
	}
	for i := 0; i < n; i++ {
		_, ok := table.Lookup(fmt.Sprintf("absent_%06d", i))
		require.False(t, ok)
	}
}
