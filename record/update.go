package record

import (
	"sync"

	"github.com/on-the-ground/record_ive_go/shared/helper"
)

// sharedSites holds one call site per aggregate type for the package-level
// entry points. Keying by type keeps unrelated aggregates from polluting one
// another's guard chains.
var sharedSites sync.Map // reflect.Type -> *CallSite

// Update returns a new instance of the same type as instance with the named
// fields replaced and all others copied. It dispatches through a shared
// per-type call site; callers on a hot path should hold their own CallSite
// to skip the per-type map lookup.
func Update(instance any, pairs ...Pair) (any, error) {
	_, typ, err := normalizeInstance(instance)
	if err != nil {
		return nil, err
	}
	site, ok := sharedSites.Load(typ)
	if !ok {
		site, _ = sharedSites.LoadOrStore(typ, NewCallSite())
	}
	return site.(*CallSite).Update(instance, pairs...)
}

// UpdateAs is the typed variant of Update.
//
//	ana, err := record.UpdateAs(bob, record.P("Name", "Ana"))
func UpdateAs[T any](instance T, pairs ...Pair) (T, error) {
	return helper.GetTypedValueOf[T](func() (any, error) {
		return Update(instance, pairs...)
	})
}
