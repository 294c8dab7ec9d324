package shape

import "fmt"

// ErrNotAnAggregate indicates that a type could not be described as a
// named-field aggregate (e.g. it is not a struct-like type).
var ErrNotAnAggregate = fmt.Errorf("not a named-field aggregate type")

// ErrConstructorNotAccessible indicates that no usable constructor could be
// resolved for an aggregate type. The Registry caches this failure, so every
// later query for the same type surfaces it again without rebuilding.
var ErrConstructorNotAccessible = fmt.Errorf("aggregate constructor not accessible")
