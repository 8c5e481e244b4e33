package lattice

// Cursor iterates the entities matching a QueryNode within one Space. A
// Cursor is single-use per pass: call Next until it returns false, then
// discard it — Reset happens automatically.
type Cursor struct {
	query QueryNode
	space *Space

	currentArchetype *archetype
	archetypeIndex   int
	entityIndex      int
	remaining        int

	initialized bool
	matched     []*archetype
}

func newCursor(query QueryNode, space *Space) *Cursor {
	return &Cursor{query: query, space: space}
}

// Next advances the cursor to the next matching entity. It returns false,
// and releases the Space's iteration lock, once the query is exhausted.
func (c *Cursor) Next() bool {
	if c.entityIndex < c.remaining {
		c.entityIndex++
		return true
	}
	return c.advance()
}

func (c *Cursor) advance() bool {
	if !c.initialized {
		c.Initialize()
	}
	for c.archetypeIndex < len(c.matched) {
		c.currentArchetype = c.matched[c.archetypeIndex]
		c.remaining = c.currentArchetype.pool.Length()
		if c.entityIndex < c.remaining {
			c.entityIndex++
			return true
		}
		c.archetypeIndex++
		c.entityIndex = 0
	}
	c.Reset()
	return false
}

// Initialize resolves the matching archetype list via the Space's queryIndex
// and locks the Space against structural mutation for the duration of the
// pass.
func (c *Cursor) Initialize() {
	if c.initialized {
		return
	}
	c.space.lockForIteration()
	c.matched = c.space.queries.matchesFor(c.query, c.space)
	if len(c.matched) > 0 {
		c.archetypeIndex = 0
		c.currentArchetype = c.matched[0]
		c.remaining = c.currentArchetype.pool.Length()
	}
	c.initialized = true
}

// Reset clears cursor position and releases the Space's iteration lock. It
// is called automatically once Next is exhausted, and by TotalMatched.
func (c *Cursor) Reset() {
	c.archetypeIndex = 0
	c.entityIndex = 0
	c.remaining = 0
	c.matched = nil
	if c.initialized {
		c.space.unlockForIteration()
	}
	c.initialized = false
}

// CurrentEntity returns the handle for the entity at the cursor's current
// position.
func (c *Cursor) CurrentEntity() (Entity, error) {
	entry, err := c.currentArchetype.pool.Entry(c.entityIndex - 1)
	if err != nil {
		return Entity{}, err
	}
	return handleFor(entry), nil
}

// EntityAtOffset returns the handle offset entries away from the cursor's
// current position, without moving the cursor.
func (c *Cursor) EntityAtOffset(offset int) (Entity, error) {
	entry, err := c.currentArchetype.pool.Entry(c.entityIndex - 1 + offset)
	if err != nil {
		return Entity{}, err
	}
	return handleFor(entry), nil
}

// TotalMatched returns how many entities the query currently matches,
// without requiring a Next loop. It consumes and resets the cursor.
func (c *Cursor) TotalMatched() int {
	if !c.initialized {
		c.Initialize()
	}
	total := 0
	for _, a := range c.matched {
		total += a.pool.Length()
	}
	c.Reset()
	return total
}
