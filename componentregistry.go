package lattice

import (
	"reflect"
	"sync"

	"github.com/TheBitDrifter/table"
)

// componentRegistry caches one AccessibleComponent[T] per Go type T, mirroring
// spec.md §4.1: "the first call for a given type T allocates the next id ...
// subsequent calls return the cached id." The dense id itself is assigned by
// table.FactoryNewElementType the first time componentFor[T] runs; every
// later call for the same T returns the memoized AccessibleComponent without
// touching table again.
var componentRegistry sync.Map // reflect.Type -> any (AccessibleComponent[T])

// componentFor returns the process-wide AccessibleComponent handle for T,
// creating and caching it on first use.
func componentFor[T any]() AccessibleComponent[T] {
	key := reflect.TypeOf((*T)(nil)).Elem()
	if v, ok := componentRegistry.Load(key); ok {
		return v.(AccessibleComponent[T])
	}
	created := newAccessibleComponent[T]()
	actual, _ := componentRegistry.LoadOrStore(key, created)
	return actual.(AccessibleComponent[T])
}

func newAccessibleComponent[T any]() AccessibleComponent[T] {
	ident := table.FactoryNewElementType[T]()
	return AccessibleComponent[T]{
		Component: ident,
		Accessor:  table.FactoryNewAccessor[T](ident),
	}
}

// FactoryNewComponent returns the process-wide Component handle for T. It is
// the explicit-handle counterpart to componentFor, exported for callers that
// want to build Query trees or pass a Component value around; both paths
// share the same cache, so exactly one dense id is ever assigned per T.
func FactoryNewComponent[T any]() AccessibleComponent[T] {
	return componentFor[T]()
}
