package shape

import (
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// Introspector supplies raw field and constructor descriptions for a type.
// The reflectshape package provides the standard implementation for Go
// structs; tests may substitute their own.
type Introspector interface {
	// DescribeFields returns the aggregate's fields in declaration order,
	// or an error wrapping ErrNotAnAggregate.
	DescribeFields(t reflect.Type) ([]FieldInfo, error)
	// DescribeConstructor returns a constructor taking one value per field
	// in declaration order, or an error wrapping
	// ErrConstructorNotAccessible.
	DescribeConstructor(t reflect.Type) (Constructor, error)
}

// Registry memoizes one Table per aggregate type for the lifetime of the
// process. Entries are never evicted: aggregate types are assumed finite and
// long-lived.
//
// Concurrent first queries for the same type may each build a Table; the
// builds are value-equal, exactly one is published, and every caller
// observes the published one. Reads after publication take no lock.
// Build failures are cached the same way, so an unconstructible type
// surfaces the same error cheaply on every query.
type Registry struct {
	intro  Introspector
	logger *zap.Logger
	tables sync.Map // reflect.Type -> buildResult
}

type buildResult struct {
	table *Table
	err   error
}

// NewRegistry returns a Registry backed by the given introspector.
// A nil logger disables logging.
func NewRegistry(intro Introspector, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{intro: intro, logger: logger}
}

// Get returns the memoized Table for t, building it on first use.
func (r *Registry) Get(t reflect.Type) (*Table, error) {
	if res, ok := r.tables.Load(t); ok {
		br := res.(buildResult)
		return br.table, br.err
	}
	table, err := r.build(t)
	actual, _ := r.tables.LoadOrStore(t, buildResult{table: table, err: err})
	br := actual.(buildResult)
	return br.table, br.err
}

func (r *Registry) build(t reflect.Type) (*Table, error) {
	fields, err := r.intro.DescribeFields(t)
	if err != nil {
		r.logger.Warn("shape build failed",
			zap.String("type", typeName(t)),
			zap.Error(err),
		)
		return nil, err
	}
	ctor, err := r.intro.DescribeConstructor(t)
	if err != nil {
		r.logger.Warn("shape build failed",
			zap.String("type", typeName(t)),
			zap.Error(err),
		)
		return nil, err
	}
	table, err := Build(fields, ctor)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("shape table built",
		zap.String("type", typeName(t)),
		zap.Int("fields", table.Len()),
		zap.Int("index_slots", len(table.index)),
	)
	return table, nil
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
