package lattice

import (
	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
)

// Signature is the fixed-width bitset representation of a component set
// (spec C2). lattice never implements its own bitset — mask.Mask already
// supplies set/clear by id, equality, ContainsAll/ContainsAny/ContainsNone,
// and a cached hash, exactly as spec.md §4.2 specifies.
type Signature = mask.Mask

// SignatureOf builds the Signature for a component set against schema,
// registering each component along the way so its dense id is resolved.
func SignatureOf(schema table.Schema, components ...Component) Signature {
	var sig Signature
	for _, c := range components {
		schema.Register(c)
		sig.Mark(schema.RowIndexFor(c))
	}
	return sig
}
