package lattice

// Spaces returns every Space created so far, in creation order.
func Spaces() []*Space {
	return spaceRegistry
}

// UpdateSpaces runs fn once per live Space, in creation order. It is the
// process-wide convenience the core interface leaves open for a caller's own
// scheduler to build on.
func UpdateSpaces(fn func(sp *Space)) {
	for _, sp := range spaceRegistry {
		fn(sp)
	}
}

// Update1 runs fn over every entity in sp matching query, handing fn a
// pointer to its T1 component. Go has no variadic generics, so lattice
// follows the teishoku/lazyecs convention of one hand-written function per
// arity instead of a single variadic entry point.
func Update1[T1 any](sp *Space, query QueryNode, fn func(e Entity, t1 *T1)) {
	c1 := componentFor[T1]()
	cur := newCursor(query, sp)
	for cur.Next() {
		e, err := cur.CurrentEntity()
		if err != nil {
			continue
		}
		fn(e, c1.GetFromCursor(cur))
	}
}

// Update2 is Update1 for two components.
func Update2[T1, T2 any](sp *Space, query QueryNode, fn func(e Entity, t1 *T1, t2 *T2)) {
	c1 := componentFor[T1]()
	c2 := componentFor[T2]()
	cur := newCursor(query, sp)
	for cur.Next() {
		e, err := cur.CurrentEntity()
		if err != nil {
			continue
		}
		fn(e, c1.GetFromCursor(cur), c2.GetFromCursor(cur))
	}
}

// Update3 is Update1 for three components.
func Update3[T1, T2, T3 any](sp *Space, query QueryNode, fn func(e Entity, t1 *T1, t2 *T2, t3 *T3)) {
	c1 := componentFor[T1]()
	c2 := componentFor[T2]()
	c3 := componentFor[T3]()
	cur := newCursor(query, sp)
	for cur.Next() {
		e, err := cur.CurrentEntity()
		if err != nil {
			continue
		}
		fn(e, c1.GetFromCursor(cur), c2.GetFromCursor(cur), c3.GetFromCursor(cur))
	}
}

// Update4 is Update1 for four components.
func Update4[T1, T2, T3, T4 any](sp *Space, query QueryNode, fn func(e Entity, t1 *T1, t2 *T2, t3 *T3, t4 *T4)) {
	c1 := componentFor[T1]()
	c2 := componentFor[T2]()
	c3 := componentFor[T3]()
	c4 := componentFor[T4]()
	cur := newCursor(query, sp)
	for cur.Next() {
		e, err := cur.CurrentEntity()
		if err != nil {
			continue
		}
		fn(e, c1.GetFromCursor(cur), c2.GetFromCursor(cur), c3.GetFromCursor(cur), c4.GetFromCursor(cur))
	}
}
