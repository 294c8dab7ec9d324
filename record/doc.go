// Package record produces modified copies of immutable, named-field
// aggregates: given an instance and a set of (field-name, new-value) pairs,
// it constructs a new instance with the named fields replaced and every
// other field copied from the original. The original is never mutated.
//
// The package is built around two levels of caching. The shape package
// memoizes one field-layout table per aggregate type. On top of that, a
// CallSite keeps a chain of guarded, precompiled update pipelines: repeated
// calls with the same field-name combination dispatch straight to the cached
// pipeline with no name lookups.
//
// # Usage
//
//	var site = record.NewCallSite()
//
//	func promote(p Person) (Person, error) {
//	    out, err := site.Update(p, record.P("Title", "Senior"), record.P("Salary", raise))
//	    if err != nil {
//	        return Person{}, err
//	    }
//	    return out.(Person), nil
//	}
//
// The package-level Update and UpdateAs entry points manage a call site per
// aggregate type for callers that do not want to hold one.
//
// # Known limitation
//
// Nothing bounds the length of a call site's chain. A site invoked with many
// distinct name combinations grows one guarded entry per combination,
// degrading its fast path to a linear scan and retaining every compiled
// pipeline. Monomorphic and lightly polymorphic sites — the common case —
// are unaffected. CallSite.Stats exposes chain length so megamorphic usage
// can be spotted.
package record
