package lattice

import "github.com/TheBitDrifter/table"

// AccessibleComponent extends a Component with table-based typed access. It
// is the thin lookup façade spec.md §1 treats as an external collaborator:
// the real work (dense id, relocation, column addressing) lives in
// table.Accessor[T]; AccessibleComponent only narrows it to a cursor.
type AccessibleComponent[T any] struct {
	Component
	table.Accessor[T]
}

// GetFromCursor returns a pointer to the component value at the cursor's
// current position. The pointer is a borrow, valid only until the next
// operation that may relocate this row (spec.md §5).
func (c AccessibleComponent[T]) GetFromCursor(cursor *Cursor) *T {
	return c.Get(cursor.entityIndex-1, cursor.currentArchetype.pool)
}

// GetFromCursorSafe is GetFromCursor guarded by a Check against the
// cursor's current archetype, for queries where T is optional.
func (c AccessibleComponent[T]) GetFromCursorSafe(cursor *Cursor) (bool, *T) {
	if !c.CheckCursor(cursor) {
		return false, nil
	}
	return true, c.GetFromCursor(cursor)
}

// CheckCursor reports whether the cursor's current archetype carries this
// component.
func (c AccessibleComponent[T]) CheckCursor(cursor *Cursor) bool {
	return c.Accessor.Check(cursor.currentArchetype.pool)
}
