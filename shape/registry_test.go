package shape_test

import (
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/on-the-ground/record_ive_go/reflectshape"
	"github.com/on-the-ground/record_ive_go/shape"
	"github.com/on-the-ground/record_ive_go/shared/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	Name string
	Age  int
}

type hidden struct {
	Name   string
	secret int // unexported on purpose
}

// countingIntrospector counts how often field descriptions are requested, to
// observe registry memoization of both successes and failures.
type countingIntrospector struct {
	inner shape.Introspector
	calls atomic.Int32
}

func (c *countingIntrospector) DescribeFields(t reflect.Type) ([]shape.FieldInfo, error) {
	c.calls.Add(1)
	return c.inner.DescribeFields(t)
}

func (c *countingIntrospector) DescribeConstructor(t reflect.Type) (shape.Constructor, error) {
	return c.inner.DescribeConstructor(t)
}

func TestRegistry_MemoizesPerType(t *testing.T) {
	intro := &countingIntrospector{inner: reflectshape.Introspector{}}
	reg := shape.NewRegistry(intro, logging.NewTestLogger())

	first, err := reg.Get(reflect.TypeOf(person{}))
	require.NoError(t, err)
	second, err := reg.Get(reflect.TypeOf(person{}))
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), intro.calls.Load())

	// Memoization must be observable through consistent output.
	require.Equal(t, first.Len(), second.Len())
	for i := 0; i < first.Len(); i++ {
		assert.Equal(t, first.FieldAt(i).Name, second.FieldAt(i).Name)
		slotA, okA := first.Lookup(first.FieldAt(i).Name)
		slotB, okB := second.Lookup(first.FieldAt(i).Name)
		assert.True(t, okA)
		assert.True(t, okB)
		assert.Equal(t, slotA, slotB)
	}
}

func TestRegistry_CachesBuildFailures(t *testing.T) {
	intro := &countingIntrospector{inner: reflectshape.Introspector{}}
	reg := shape.NewRegistry(intro, nil)

	_, err := reg.Get(reflect.TypeOf(42))
	require.ErrorIs(t, err, shape.ErrNotAnAggregate)
	_, again := reg.Get(reflect.TypeOf(42))
	require.ErrorIs(t, again, shape.ErrNotAnAggregate)
	assert.Equal(t, int32(1), intro.calls.Load(), "failed build must not be retried")

	_, err = reg.Get(reflect.TypeOf(hidden{}))
	require.ErrorIs(t, err, shape.ErrConstructorNotAccessible)
	_, again = reg.Get(reflect.TypeOf(hidden{}))
	require.ErrorIs(t, again, shape.ErrConstructorNotAccessible)
}

func TestRegistry_ConcurrentFirstAccessConverges(t *testing.T) {
	reg := shape.NewRegistry(reflectshape.Introspector{}, nil)

	const goroutines = 32
	tables := make([]*shape.Table, goroutines)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			table, err := reg.Get(reflect.TypeOf(person{}))
			assert.NoError(t, err)
			tables[i] = table
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		assert.Same(t, tables[0], tables[i], "all callers must observe the published table")
	}
}
