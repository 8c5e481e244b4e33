package lattice

import "testing"

type testPosition struct {
	X float64
	Y float64
}

type testVelocity struct {
	X float64
	Y float64
}

type testHealth struct {
	Value int
}

// testChainReaction destroys a partner entity when its own entity is
// destroyed, modeling spec.md's S5 scenario ("component whose destructor
// destroys another entity in the same archetype").
type testChainReaction struct {
	partner Entity
}

func (c *testChainReaction) OnDestroy(sp *Space, self Entity) {
	if sp.IsValid(c.partner) {
		sp.DestroyEntities(c.partner)
	}
}

func TestArchetypeReuse(t *testing.T) {
	pos := FactoryNewComponent[testPosition]()
	vel := FactoryNewComponent[testVelocity]()
	hp := FactoryNewComponent[testHealth]()

	tests := []struct {
		name     string
		first    []Component
		second   []Component
		expected bool
	}{
		{"identical", []Component{pos, vel}, []Component{pos, vel}, true},
		{"different order", []Component{pos, vel}, []Component{vel, pos}, true},
		{"different components", []Component{pos}, []Component{vel}, false},
		{"subset", []Component{pos, vel}, []Component{pos}, false},
		{"superset", []Component{pos}, []Component{pos, vel, hp}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp := Factory.NewSpace()
			a1, err := sp.archetypeFor(tt.first...)
			if err != nil {
				t.Fatalf("archetypeFor(first): %v", err)
			}
			a2, err := sp.archetypeFor(tt.second...)
			if err != nil {
				t.Fatalf("archetypeFor(second): %v", err)
			}
			if same := a1.ID() == a2.ID(); same != tt.expected {
				t.Errorf("same archetype = %v, want %v", same, tt.expected)
			}
		})
	}
}

func TestEntityDestruction(t *testing.T) {
	sp := Factory.NewSpace()
	pos := FactoryNewComponent[testPosition]()

	entities, err := sp.NewEntities(10, pos)
	if err != nil {
		t.Fatalf("NewEntities: %v", err)
	}

	if err := sp.DestroyEntities(entities[0], entities[2], entities[4]); err != nil {
		t.Fatalf("DestroyEntities: %v", err)
	}

	for i, e := range entities {
		wantValid := i != 0 && i != 2 && i != 4
		if got := sp.IsValid(e); got != wantValid {
			t.Errorf("entity %d valid = %v, want %v", i, got, wantValid)
		}
	}

	q := Factory.NewQuery()
	node := q.And(pos)
	total := Factory.NewCursor(node, sp).TotalMatched()
	if total != 7 {
		t.Errorf("TotalMatched = %d, want 7", total)
	}
}

func TestEmplaceMovesArchetype(t *testing.T) {
	sp := Factory.NewSpace()
	FactoryNewComponent[testPosition]()
	FactoryNewComponent[testVelocity]()

	e, err := sp.NewEntity(FactoryNewComponent[testPosition]())
	if err != nil {
		t.Fatalf("NewEntity: %v", err)
	}

	if Has[testVelocity](sp, e) {
		t.Fatal("entity should not have testVelocity yet")
	}

	if err := Emplace(sp, e, testVelocity{X: 1, Y: 2}); err != nil {
		t.Fatalf("Emplace: %v", err)
	}

	if !Has[testVelocity](sp, e) {
		t.Fatal("entity should have testVelocity after Emplace")
	}

	vel, err := Get[testVelocity](sp, e)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if vel.X != 1 || vel.Y != 2 {
		t.Errorf("vel = %+v, want {1 2}", *vel)
	}

	if err := Remove[testVelocity](sp, e); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if Has[testVelocity](sp, e) {
		t.Fatal("entity should not have testVelocity after Remove")
	}
}

func TestGetTemporaryMissingComponent(t *testing.T) {
	sp := Factory.NewSpace()
	e, err := sp.NewEntity(FactoryNewComponent[testPosition]())
	if err != nil {
		t.Fatalf("NewEntity: %v", err)
	}

	if _, err := GetTemporary[testVelocity](sp, e); err == nil {
		t.Fatal("GetTemporary should error for a missing component")
	}
}

func TestGetScopedMissingComponent(t *testing.T) {
	sp := Factory.NewSpace()
	e, err := sp.NewEntity(FactoryNewComponent[testPosition]())
	if err != nil {
		t.Fatalf("NewEntity: %v", err)
	}

	called := false
	if err := GetScoped(sp, e, func(v *testVelocity) { called = true }); err == nil {
		t.Fatal("GetScoped should error for a missing component")
	}
	if called {
		t.Fatal("GetScoped should not invoke fn when the component is missing")
	}
}

func TestStorageLockingDefersDestruction(t *testing.T) {
	Config.DeferDestruction = true
	defer func() { Config.DeferDestruction = false }()

	sp := Factory.NewSpace()
	pos := FactoryNewComponent[testPosition]()
	entities, err := sp.NewEntities(3, pos)
	if err != nil {
		t.Fatalf("NewEntities: %v", err)
	}

	q := Factory.NewQuery()
	node := q.And(pos)
	cursor := Factory.NewCursor(node, sp)

	cursor.Initialize()
	if err := sp.DestroyEntities(entities[0]); err != nil {
		t.Fatalf("DestroyEntities while locked: %v", err)
	}
	if !sp.IsValid(entities[0]) {
		t.Fatal("entity should still be valid until the queue drains")
	}
	cursor.Reset()

	if sp.IsValid(entities[0]) {
		t.Fatal("entity should be destroyed once the space unlocks")
	}
}

func TestEmplaceDuringIterationIsDeferred(t *testing.T) {
	sp := Factory.NewSpace()
	pos := FactoryNewComponent[testPosition]()
	entities, err := sp.NewEntities(1, pos)
	if err != nil {
		t.Fatalf("NewEntities: %v", err)
	}
	e := entities[0]

	q := Factory.NewQuery()
	node := q.And(pos)
	cursor := Factory.NewCursor(node, sp)
	cursor.Initialize()

	if err := Emplace(sp, e, testVelocity{X: 1, Y: 1}); err != nil {
		t.Fatalf("Emplace while locked: %v", err)
	}
	if Has[testVelocity](sp, e) {
		t.Fatal("component should not attach until the space unlocks")
	}
	cursor.Reset()

	if !Has[testVelocity](sp, e) {
		t.Fatal("component should attach once the deferred operation drains")
	}
}

func TestDestructionDuringUpdateIsFlagged(t *testing.T) {
	Config.DebugAsserts = true
	defer func() { Config.DebugAsserts = false }()

	sp := Factory.NewSpace()
	pos := FactoryNewComponent[testPosition]()
	entities, err := sp.NewEntities(1, pos)
	if err != nil {
		t.Fatalf("NewEntities: %v", err)
	}

	q := Factory.NewQuery()
	node := q.And(pos)
	cursor := Factory.NewCursor(node, sp)
	cursor.Initialize()
	defer cursor.Reset()

	err = sp.DestroyEntities(entities[0])
	if err == nil {
		t.Fatal("expected ErrDestructionDuringUpdate")
	}
	if _, ok := err.(ErrDestructionDuringUpdate); !ok {
		t.Errorf("got %T, want ErrDestructionDuringUpdate", err)
	}
}

func TestTransferEntitiesBetweenSpaces(t *testing.T) {
	src := Factory.NewSpace()
	dst := Factory.NewSpace()
	pos := FactoryNewComponent[testPosition]()

	e, err := src.NewEntity(pos)
	if err != nil {
		t.Fatalf("NewEntity: %v", err)
	}
	if err := Set1(src, e, func(p *testPosition) { *p = testPosition{X: 5, Y: 6} }); err != nil {
		t.Fatalf("Set1: %v", err)
	}

	moved, err := src.TransferEntities(dst, e)
	if err != nil {
		t.Fatalf("TransferEntities: %v", err)
	}
	if len(moved) != 1 {
		t.Fatalf("len(moved) = %d, want 1", len(moved))
	}
	if src.IsValid(e) {
		t.Fatal("source entity should be invalid after transfer")
	}
	if !dst.IsValid(moved[0]) {
		t.Fatal("destination entity should be valid after transfer")
	}
	got, err := Get[testPosition](dst, moved[0])
	if err != nil {
		t.Fatalf("Get on destination: %v", err)
	}
	if got.X != 5 || got.Y != 6 {
		t.Errorf("got = %+v, want {5 6}", *got)
	}
}

func TestDestroyEntityTriggersChainedDestruction(t *testing.T) {
	sp := Factory.NewSpace()
	pos := FactoryNewComponent[testPosition]()
	chain := FactoryNewComponent[testChainReaction]()

	// e2 and e3 start in the {pos, chain} archetype directly so e1 lands
	// there too once chain is emplaced onto it below.
	e2, err := sp.NewEntity(pos, chain)
	if err != nil {
		t.Fatalf("NewEntity e2: %v", err)
	}
	e3, err := sp.NewEntity(pos, chain)
	if err != nil {
		t.Fatalf("NewEntity e3: %v", err)
	}
	e1, err := sp.NewEntity(pos)
	if err != nil {
		t.Fatalf("NewEntity e1: %v", err)
	}
	if err := Emplace(sp, e1, testChainReaction{partner: e2}); err != nil {
		t.Fatalf("Emplace: %v", err)
	}

	if err := sp.DestroyEntities(e1); err != nil {
		t.Fatalf("DestroyEntities: %v", err)
	}

	if sp.IsValid(e1) {
		t.Fatal("e1 should be destroyed")
	}
	if sp.IsValid(e2) {
		t.Fatal("e1's OnDestroy should have destroyed its partner e2")
	}
	if !sp.IsValid(e3) {
		t.Fatal("e3 shares e1/e2's archetype and must survive the chained destruction intact")
	}

	q := Factory.NewQuery().And(pos)
	if total := Factory.NewCursor(q, sp).TotalMatched(); total != 1 {
		t.Fatalf("TotalMatched after chained destruction = %d, want 1", total)
	}
}
