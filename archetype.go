package lattice

import "github.com/TheBitDrifter/table"

type archetypeID uint32

// archetype is one bucket of the columnar store: every entity inside it
// carries exactly the same Signature. Unlike the teacher's thin id+table
// wrapper, lattice's archetype also owns the add/remove edges of the
// archetype graph (spec C4), so moving an entity across a single component
// boundary is a cached map lookup instead of a full signature rebuild.
type archetype struct {
	id         archetypeID
	signature  Signature
	components []Component
	pool       table.Table

	// addEdge/removeEdge are populated lazily, the first time a transfer
	// actually crosses that edge (original_source/Source/Archetype.h keeps
	// the same lazy-edge shape under ArchetypeMap).
	addEdge    map[uint32]*archetype
	removeEdge map[uint32]*archetype
}

func newArchetype(schema table.Schema, entryIndex table.EntryIndex, id archetypeID, components ...Component) (*archetype, error) {
	elementTypes := make([]table.ElementType, len(components))
	for i, c := range components {
		elementTypes[i] = c
	}
	pool, err := table.NewTableBuilder().
		WithSchema(schema).
		WithEntryIndex(entryIndex).
		WithElementTypes(elementTypes...).
		WithEvents(Config.TableEvents).
		Build()
	if err != nil {
		return nil, err
	}
	var sig Signature
	for _, c := range components {
		schema.Register(c)
		sig.Mark(schema.RowIndexFor(c))
	}
	return &archetype{
		id:         id,
		signature:  sig,
		components: append([]Component(nil), components...),
		pool:       pool,
	}, nil
}

func (a *archetype) ID() uint32             { return uint32(a.id) }
func (a *archetype) Signature() Signature   { return a.signature }
func (a *archetype) Pool() table.Table      { return a.pool }
func (a *archetype) Components() []Component { return a.components }

func (a *archetype) edgeAdd(bit uint32) (*archetype, bool) {
	dest, ok := a.addEdge[bit]
	return dest, ok
}

func (a *archetype) cacheEdgeAdd(bit uint32, dest *archetype) {
	if a.addEdge == nil {
		a.addEdge = make(map[uint32]*archetype)
	}
	a.addEdge[bit] = dest
}

func (a *archetype) edgeRemove(bit uint32) (*archetype, bool) {
	dest, ok := a.removeEdge[bit]
	return dest, ok
}

func (a *archetype) cacheEdgeRemove(bit uint32, dest *archetype) {
	if a.removeEdge == nil {
		a.removeEdge = make(map[uint32]*archetype)
	}
	a.removeEdge[bit] = dest
}

// withComponent returns the component slice this archetype would have if c
// were added, preserving relative order and skipping a no-op add.
func (a *archetype) withComponent(c Component) []Component {
	for _, existing := range a.components {
		if existing.ID() == c.ID() {
			return a.components
		}
	}
	return append(append([]Component(nil), a.components...), c)
}

// withoutComponent returns the component slice this archetype would have if
// c were removed.
func (a *archetype) withoutComponent(c Component) []Component {
	out := make([]Component, 0, len(a.components))
	for _, existing := range a.components {
		if existing.ID() != c.ID() {
			out = append(out, existing)
		}
	}
	return out
}
