package record

import (
	"reflect"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/on-the-ground/record_ive_go/reflectshape"
	"github.com/on-the-ground/record_ive_go/shape"
)

// chainWarnThreshold is the chain length past which a call site logs a
// one-time warning. Dispatch behavior is unchanged; the chain keeps growing.
const chainWarnThreshold = 8

// CallSite caches compiled update pipelines for the field-name combinations
// seen at one calling location.
//
// The cache is a singly linked chain of guarded nodes. A node matches when
// the instance type, the name count, and every name in supplied order equal
// the node's guard; on a match the node's pipeline runs directly, with no
// name lookups. On a miss the combination is validated, compiled, and
// prepended to the chain. Names supplied in a different order are a
// different combination: the result is the same, only a second chain entry
// is paid.
//
// Nodes are immutable once linked and the chain is only ever extended, so
// concurrent readers need no synchronization. Two goroutines missing on the
// same new combination may both install a node; the duplicate costs memory,
// not correctness.
type CallSite struct {
	id       uuid.UUID
	registry *shape.Registry
	logger   *zap.Logger
	head     atomic.Pointer[cacheNode]
	hits     atomic.Uint64
	misses   atomic.Uint64
	warned   atomic.Bool
}

// cacheNode is one guarded pipeline. Never mutated after being linked.
type cacheNode struct {
	typ      reflect.Type
	names    []string
	pipeline *pipeline
	next     *cacheNode
}

// NewCallSite returns a call site backed by the process-wide registry for Go
// struct types, with logging disabled.
func NewCallSite() *CallSite {
	return NewCallSiteFor(reflectshape.DefaultRegistry(), nil)
}

// NewCallSiteFor returns a call site backed by the given registry. A nil
// logger disables logging; otherwise compiles are logged at debug level with
// the site id as correlation key.
func NewCallSiteFor(registry *shape.Registry, logger *zap.Logger) *CallSite {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CallSite{
		id:       uuid.New(),
		registry: registry,
		logger:   logger,
	}
}

// ID returns the site's correlation id, as used in its log entries.
func (cs *CallSite) ID() uuid.UUID {
	return cs.id
}

// Update returns a new instance with the named fields replaced and all
// others copied from instance. Validation failures surface before any
// pipeline is installed or executed, and instance is left untouched.
func (cs *CallSite) Update(instance any, pairs ...Pair) (any, error) {
	instance, typ, err := normalizeInstance(instance)
	if err != nil {
		return nil, err
	}
	for node := cs.head.Load(); node != nil; node = node.next {
		if !node.matches(typ, pairs) {
			continue
		}
		cs.hits.Add(1)
		return node.pipeline.run(instance, suppliedValues(pairs))
	}
	cs.misses.Add(1)
	return cs.fallback(typ, instance, pairs)
}

// fallback is the slow path: resolve the shape, validate, compile, install,
// and execute for the current call.
func (cs *CallSite) fallback(typ reflect.Type, instance any, pairs []Pair) (any, error) {
	table, err := cs.registry.Get(typ)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(pairs))
	for i := range pairs {
		names[i] = pairs[i].Name
	}
	spec, err := normalizeSpec(table, names)
	if err != nil {
		return nil, err
	}
	node := &cacheNode{typ: typ, names: names, pipeline: compile(table, spec)}
	length := cs.prepend(node)

	cs.logger.Debug("update pipeline compiled",
		zap.String("site", cs.id.String()),
		zap.String("type", typ.String()),
		zap.Strings("names", names),
		zap.Int("chain_length", length),
	)
	if length > chainWarnThreshold && cs.warned.CompareAndSwap(false, true) {
		cs.logger.Warn("call site cache chain keeps growing, fast path degrades to a linear scan",
			zap.String("site", cs.id.String()),
			zap.Int("chain_length", length),
		)
	}
	return node.pipeline.run(instance, suppliedValues(pairs))
}

// prepend links node as the new head and returns the resulting chain length.
func (cs *CallSite) prepend(node *cacheNode) int {
	for {
		head := cs.head.Load()
		node.next = head
		if cs.head.CompareAndSwap(head, node) {
			break
		}
	}
	length := 0
	for n := cs.head.Load(); n != nil; n = n.next {
		length++
	}
	return length
}

func (n *cacheNode) matches(typ reflect.Type, pairs []Pair) bool {
	if n.typ != typ || len(n.names) != len(pairs) {
		return false
	}
	for i := range pairs {
		if n.names[i] != pairs[i].Name {
			return false
		}
	}
	return true
}

func suppliedValues(pairs []Pair) []any {
	values := make([]any, len(pairs))
	for i := range pairs {
		values[i] = pairs[i].Value
	}
	return values
}

// Stats is a point-in-time snapshot of one call site's cache effectiveness.
type Stats struct {
	SiteID      uuid.UUID
	Hits        uint64
	Misses      uint64
	ChainLength int
}

// Stats returns the site's hit/miss counters and current chain length.
func (cs *CallSite) Stats() Stats {
	length := 0
	for n := cs.head.Load(); n != nil; n = n.next {
		length++
	}
	return Stats{
		SiteID:      cs.id,
		Hits:        cs.hits.Load(),
		Misses:      cs.misses.Load(),
		ChainLength: length,
	}
}

// normalizeInstance unwraps one level of pointer and returns the aggregate
// value together with its type. The returned type keys both the guard chain
// and the shape registry.
func normalizeInstance(instance any) (any, reflect.Type, error) {
	if instance == nil {
		return nil, nil, ErrNilInstance
	}
	rv := reflect.ValueOf(instance)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil, ErrNilInstance
		}
		rv = rv.Elem()
		return rv.Interface(), rv.Type(), nil
	}
	return instance, rv.Type(), nil
}
