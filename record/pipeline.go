package record

import (
	"fmt"

	"github.com/on-the-ground/record_ive_go/shape"
)

// argKind classifies where one constructor argument comes from.
type argKind uint8

const (
	// argFetch copies the field from the original instance via its accessor.
	argFetch argKind = iota
	// argSupplied takes a positional value from the update call.
	argSupplied
)

// argSource is one entry of a pipeline's argument plan. index is the
// declaration slot for argFetch and the supplied-value position for
// argSupplied.
type argSource struct {
	kind  argKind
	index int
}

// pipeline is a compiled update plan: one argument source per declaration
// slot, terminated by the aggregate constructor. Immutable once compiled and
// shared by every call with the identical name combination.
type pipeline struct {
	table   *shape.Table
	sources []argSource
}

// compile derives the pipeline for a validated spec: every slot named by the
// spec takes its supplied value, every other slot fetches from the original.
func compile(table *shape.Table, spec updateSpec) *pipeline {
	sources := make([]argSource, table.Len())
	for slot := range sources {
		sources[slot] = argSource{kind: argFetch, index: slot}
	}
	for pos, slot := range spec.slots {
		sources[slot] = argSource{kind: argSupplied, index: pos}
	}
	return &pipeline{table: table, sources: sources}
}

// run materializes the argument list and invokes the constructor. The
// original instance is never mutated. A source count that disagrees with the
// shape's field count is a compiler bug and panics.
func (p *pipeline) run(instance any, values []any) (any, error) {
	if len(p.sources) != p.table.Len() {
		panic(fmt.Sprintf("record: pipeline has %d sources for %d fields", len(p.sources), p.table.Len()))
	}
	args := make([]any, len(p.sources))
	for slot, src := range p.sources {
		if src.kind == argSupplied {
			args[slot] = values[src.index]
		} else {
			args[slot] = p.table.FieldAt(src.index).Accessor(instance)
		}
	}
	return p.table.Construct(args)
}
