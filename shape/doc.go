// Package shape derives and memoizes the field layout of immutable,
// named-field aggregate types.
//
// A shape Table is built once per aggregate type from the descriptions
// supplied by an introspection collaborator (see the reflectshape package
// for the standard one). It pairs a dense, declaration-ordered field array
// with an open-addressing hash index so that:
//   - ordered iteration (serializers, map views) walks the dense array,
//   - point queries (name -> slot) resolve in average O(1) through the index.
//
// A Registry memoizes one Table per type for the lifetime of the process.
// Tables are immutable after construction and safe for unsynchronized
// concurrent reads.
package shape
