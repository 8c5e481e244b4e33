package lattice

// queryIndex memoizes, per QueryNode, which of a Space's archetypes match —
// and only ever evaluates a given archetype against a given node once. This
// is lattice's answer to spec C7: the teacher's Cursor.Initialize rescans
// every archetype in storage on every cursor; here a Cursor asks queryIndex
// for the cached list, and queryIndex only evaluates the archetypes it
// hasn't seen yet since the last call.
type queryIndex struct {
	entries map[QueryNode]*queryCacheEntry
}

type queryCacheEntry struct {
	matched []*archetype
	scanned int
}

func newQueryIndex() *queryIndex {
	return &queryIndex{entries: make(map[QueryNode]*queryCacheEntry)}
}

// matchesFor returns the archetypes of sp matching node, bringing the cache
// up to date with any archetypes created since the last call.
func (qi *queryIndex) matchesFor(node QueryNode, sp *Space) []*archetype {
	entry, ok := qi.entries[node]
	if !ok {
		entry = &queryCacheEntry{}
		qi.entries[node] = entry
	}
	// archetypesByCreation, not index.all(): the MRU index backend bubbles
	// hits towards the front of its list, so its order is not safe to use
	// as a scanned/unscanned watermark.
	all := sp.archetypesByCreation
	for _, a := range all[entry.scanned:] {
		if node.Evaluate(a, sp) {
			entry.matched = append(entry.matched, a)
		}
	}
	entry.scanned = len(all)
	return entry.matched
}
