package lattice

import "testing"

func TestQueryOperations(t *testing.T) {
	pos := FactoryNewComponent[testPosition]()
	vel := FactoryNewComponent[testVelocity]()
	hp := FactoryNewComponent[testHealth]()

	type setup struct {
		components []Component
		count      int
	}

	tests := []struct {
		name     string
		entities []setup
		build    func(q Query) QueryNode
		expected int
	}{
		{
			name: "and matches exact overlap",
			entities: []setup{
				{[]Component{pos, vel}, 5},
				{[]Component{pos}, 10},
				{[]Component{vel}, 15},
			},
			build:    func(q Query) QueryNode { return q.And(pos, vel) },
			expected: 5,
		},
		{
			name: "or matches either",
			entities: []setup{
				{[]Component{pos, vel}, 5},
				{[]Component{pos}, 10},
				{[]Component{vel}, 15},
			},
			build:    func(q Query) QueryNode { return q.Or(pos, vel) },
			expected: 30,
		},
		{
			name: "not excludes",
			entities: []setup{
				{[]Component{pos, vel}, 5},
				{[]Component{pos}, 10},
				{[]Component{hp}, 20},
			},
			build:    func(q Query) QueryNode { return q.Not(vel) },
			expected: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp := Factory.NewSpace()
			for _, s := range tt.entities {
				if _, err := sp.NewEntities(s.count, s.components...); err != nil {
					t.Fatalf("NewEntities: %v", err)
				}
			}
			q := Factory.NewQuery()
			node := tt.build(q)
			total := Factory.NewCursor(node, sp).TotalMatched()
			if total != tt.expected {
				t.Errorf("TotalMatched = %d, want %d", total, tt.expected)
			}
		})
	}
}

func TestQueryIndexIncrementallyCachesNewArchetypes(t *testing.T) {
	sp := Factory.NewSpace()
	pos := FactoryNewComponent[testPosition]()
	q := Factory.NewQuery()
	node := q.And(pos)

	if _, err := sp.NewEntities(3, pos); err != nil {
		t.Fatalf("NewEntities: %v", err)
	}
	if total := Factory.NewCursor(node, sp).TotalMatched(); total != 3 {
		t.Fatalf("TotalMatched = %d, want 3", total)
	}

	vel := FactoryNewComponent[testVelocity]()
	if _, err := sp.NewEntities(4, pos, vel); err != nil {
		t.Fatalf("NewEntities: %v", err)
	}
	if total := Factory.NewCursor(node, sp).TotalMatched(); total != 7 {
		t.Fatalf("TotalMatched = %d, want 7 after a new matching archetype appears", total)
	}

	entry := sp.queries.entries[node]
	if entry == nil || entry.scanned != len(sp.archetypesByCreation) {
		t.Fatalf("query cache did not settle at the current archetype count")
	}
}
