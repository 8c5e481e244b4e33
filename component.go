package lattice

import "github.com/TheBitDrifter/table"

// Component represents a data attribute that can be attached to entities.
// Components can be used as leaves in a Query.
//
// A Component value does not hold state itself — it is a typed handle
// (dense id, byte size, relocation strategy) assigned once per type by
// table.FactoryNewElementType and cached for the life of the process, which
// is the Go rendition of the component type registry (spec C1).
type Component interface {
	table.ElementType
}

// Destroyer lets a component run logic when the entity carrying it is
// destroyed — the Go rendition of spec.md §9's type-erased per-component
// destroy_fn ("there is no component base type or virtual dispatch;
// polymorphism is by capability set {relocate, destroy} implemented as
// function pointers chosen at registration"). lattice checks the
// capability with a type assertion at the point of use (runDestroyHooks in
// space.go) rather than a separate registration step, since a component's
// column already hands back an addressable value to assert against.
// OnDestroy runs before the row is removed from its pool.
type Destroyer interface {
	OnDestroy(sp *Space, self Entity)
}
