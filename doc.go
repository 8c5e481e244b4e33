/*
Package lattice provides an archetype-based Entity-Component-System (ECS)
runtime for games and simulations.

lattice groups entities by the exact set of component types they carry
("archetypes"), stores each archetype's components in densely packed
per-type columns, and links neighboring archetypes in a graph so that
adding or removing a single component is amortized O(1) after the first
time that transition is taken. Bulk iteration streams each matching
archetype's columns directly; random access goes through a generational
entity handle.

Core Concepts:

  - Entity: a generational handle (id + generation) identifying one object.
  - Component: a plain data value attached to an entity; typed.
  - Archetype: the set of entities sharing an exact component signature.
  - Space: an independent ECS instance (its own archetypes and entities).
  - Query: a cached, incrementally-updated list of archetypes matching a
    component signature.

Basic Usage:

	space := lattice.Factory.NewSpace()

	position := lattice.FactoryNewComponent[Position]()
	velocity := lattice.FactoryNewComponent[Velocity]()

	entities, _ := space.NewEntities(100, position, velocity)

	query := lattice.Factory.NewQuery()
	node := query.And(position, velocity)
	cursor := lattice.Factory.NewCursor(node, space)

	for cursor.Next() {
		pos := position.GetFromCursor(cursor)
		vel := velocity.GetFromCursor(cursor)
		pos.X += vel.X
		pos.Y += vel.Y
	}

lattice is the storage-and-indexing core only: scheduling, parallel
iteration, persistence, networking, and entity relations are out of scope.
*/
package lattice
