package lattice

// factory implements the factory pattern for lattice's top-level types,
// mirroring the teacher's single package-level Factory value.
type factory struct{}

// Factory is the entry point for constructing Spaces, Queries, and Cursors.
var Factory factory

// NewSpace creates a new, independent Space.
func (f factory) NewSpace() *Space {
	return newSpace()
}

// NewQuery creates a new, unrooted Query builder.
func (f factory) NewQuery() Query {
	return newQuery()
}

// NewCursor creates a Cursor iterating query's matches within sp.
func (f factory) NewCursor(query QueryNode, sp *Space) *Cursor {
	return newCursor(query, sp)
}
