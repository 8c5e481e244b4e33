package lattice

import "github.com/TheBitDrifter/table"

// ArchetypeIndexBackend selects the data structure archetypeIndex uses to
// resolve a signature to its archetype (spec "archetype-index backing").
type ArchetypeIndexBackend int

const (
	// MRUBackend is a linear scan with one-step bubble-towards-front
	// promotion on each match. Default: frame-to-frame workloads touch a
	// small, concentrated set of archetypes, so near-front placement beats
	// the constant overhead of hashing.
	MRUBackend ArchetypeIndexBackend = iota
	// HashMapBackend is a plain map[Signature]*archetype. No promotion,
	// O(1) lookup regardless of working-set locality.
	HashMapBackend
)

// Config holds process-wide configuration for lattice. It mirrors the
// teacher's package-level config singleton.
var Config config = config{
	ArchetypeIndexBackend: MRUBackend,
}

type config struct {
	// TableEvents is forwarded to every table.TableBuilder when a new
	// archetype's Pool is constructed.
	TableEvents table.TableEvents

	// DebugAsserts enables the precondition checks in errors.go. When
	// false, violating a precondition is undefined behavior (consistent
	// with a games-first, release-mode design).
	DebugAsserts bool

	// DeferDestruction routes Space.DestroyEntities through the operation
	// queue instead of destroying immediately. Space.ApplyQueuedOperations
	// (or the end of a Cursor pass) flushes it. This is the same mechanism
	// as locking a space during iteration; both drain through
	// entityOperationsQueue.
	DeferDestruction bool

	// ArchetypeIndexBackend selects the archetypeIndex implementation new
	// Spaces are constructed with.
	ArchetypeIndexBackend ArchetypeIndexBackend

	// ExposeInternals gates read-only accessors (Space.Archetypes,
	// entityManager introspection) used by package latticedebug.
	ExposeInternals bool
}

// SetTableEvents configures the table event callbacks used by future
// archetypes' Pools.
func (c *config) SetTableEvents(te table.TableEvents) {
	c.TableEvents = te
}
