package lattice

import "github.com/TheBitDrifter/table"

// Entity is a small, generational handle to a row inside some Space (spec
// C6). Two Entity values refer to the same live row iff both fields match;
// a stale handle (its row destroyed and the id recycled) compares unequal
// to the new occupant even though the id repeats, per
// original_source/Source/Entity.h's generation-counter design. Entity
// deliberately carries no pointer into the archetype or pool it came from,
// so it stays valid to copy, store, and compare across frames.
type Entity struct {
	id         uint32
	generation uint32
}

// ID returns the dense row id this handle was issued for. IDs are recycled,
// so an ID alone does not identify an entity; compare the whole Entity.
func (e Entity) ID() uint32 { return e.id }

// Generation returns the recycle count the id carried when this handle was
// issued.
func (e Entity) Generation() uint32 { return e.generation }

// entityManager owns the per-Space table.EntryIndex and translates Entity
// handles to live rows. table.Entry already tracks a recycle count per slot
// (EntityManager.h's RecycledCounter, reimplemented inside table), so
// entityManager does not maintain a second generation counter of its own —
// it only wraps Entry lookups in the Entity value type spec.md requires.
type entityManager struct {
	entries table.EntryIndex
}

func newEntityManager() *entityManager {
	return &entityManager{entries: table.Factory.NewEntryIndex()}
}

func handleFor(entry table.Entry) Entity {
	return Entity{id: uint32(entry.ID()), generation: uint32(entry.Recycled())}
}

// entry resolves e to its live table.Entry, failing if e's generation no
// longer matches the slot's current occupant.
func (m *entityManager) entry(e Entity) (table.Entry, bool) {
	if e.id == 0 {
		return nil, false
	}
	entry, err := m.entries.Entry(int(e.id) - 1)
	if err != nil {
		return nil, false
	}
	if uint32(entry.Recycled()) != e.generation {
		return nil, false
	}
	return entry, true
}

func (m *entityManager) valid(e Entity) bool {
	_, ok := m.entry(e)
	return ok
}
