// Package latticedebug exposes read-only introspection into a lattice.Space.
// Every function here panics unless lattice.Config.ExposeInternals is set,
// so a production build can leave it permanently disabled without a build
// tag.
package latticedebug

import (
	"fmt"
	"io"

	"github.com/bytelattice/lattice"
)

// Dump writes one line per archetype in sp to w: its id, row count, and
// component count.
func Dump(w io.Writer, sp *lattice.Space) {
	for _, a := range sp.Archetypes() {
		fmt.Fprintf(w, "archetype %d: %d entities, %d components\n", a.ID(), a.Pool().Length(), len(a.Components()))
	}
}

// ArchetypeCount returns how many distinct archetypes sp currently holds.
func ArchetypeCount(sp *lattice.Space) int {
	return len(sp.Archetypes())
}
