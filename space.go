package lattice

import (
	"reflect"

	"github.com/TheBitDrifter/bark"
	"github.com/TheBitDrifter/table"
)

type spaceID uint32

var spaceRegistry []*Space

// Space is an independent ECS world: its own schema, archetypes, entities,
// and query cache. Nothing about one Space is visible from another except
// through an explicit TransferEntities call, which is the Go rendition of
// original_source/Source/Space.h's per-space isolation.
type Space struct {
	id spaceID

	schema      table.Schema
	entities    *entityManager
	index       archetypeIndex
	queries     *queryIndex
	archByTable map[table.Table]*archetype
	nextArchID  archetypeID

	// archetypesByCreation never reorders, unlike archetypeIndex (the MRU
	// backend bubbles hits towards the front). queryIndex relies on a
	// stable append-only sequence to know which archetypes it has already
	// scanned; index.all() cannot serve that role since a promotion could
	// swap an unscanned archetype behind the watermark and hide it forever.
	archetypesByCreation []*archetype

	lockDepth int
	opQueue   entityOperationsQueue
}

func newSpace() *Space {
	sp := &Space{
		schema:      table.Factory.NewSchema(),
		entities:    newEntityManager(),
		index:       newArchetypeIndex(),
		queries:     newQueryIndex(),
		archByTable: make(map[table.Table]*archetype),
		nextArchID:  1,
	}
	sp.id = spaceID(len(spaceRegistry) + 1)
	spaceRegistry = append(spaceRegistry, sp)
	return sp
}

// ID identifies this Space among its process-wide siblings.
func (sp *Space) ID() uint32 { return uint32(sp.id) }

func (sp *Space) locked() bool { return sp.lockDepth > 0 }

func (sp *Space) lockForIteration() { sp.lockDepth++ }

func (sp *Space) unlockForIteration() {
	sp.lockDepth--
	if sp.lockDepth == 0 {
		// Errors surfaced here would have nowhere to go (unlock has no
		// caller-facing return); ApplyQueuedOperations gives callers an
		// explicit way to drain the queue and observe failures instead.
		_ = sp.opQueue.processAll(sp)
	}
}

// ApplyQueuedOperations drains any operations deferred while sp was locked.
// It is a no-op if sp is still locked or the queue is empty.
func (sp *Space) ApplyQueuedOperations() error {
	if sp.locked() {
		return nil
	}
	return sp.opQueue.processAll(sp)
}

// archetypeFor returns the archetype carrying exactly components, creating
// it (and registering it with both the archetypeIndex and the schema) on
// first request.
func (sp *Space) archetypeFor(components ...Component) (*archetype, error) {
	sig := SignatureOf(sp.schema, components...)
	if a, ok := sp.index.find(sig); ok {
		return a, nil
	}
	created, err := newArchetype(sp.schema, sp.entities.entries, sp.nextArchID, components...)
	if err != nil {
		return nil, err
	}
	sp.nextArchID++
	sp.index.insert(created)
	sp.archByTable[created.pool] = created
	sp.archetypesByCreation = append(sp.archetypesByCreation, created)
	return created, nil
}

// NewEntities creates n entities carrying components, in one archetype.
func (sp *Space) NewEntities(n int, components ...Component) ([]Entity, error) {
	if sp.locked() {
		return nil, bark.AddTrace(ErrStorageLocked{})
	}
	return sp.newEntities(n, components...)
}

func (sp *Space) newEntities(n int, components ...Component) ([]Entity, error) {
	arch, err := sp.archetypeFor(components...)
	if err != nil {
		return nil, err
	}
	entries, err := arch.pool.NewEntries(n)
	if err != nil {
		return nil, err
	}
	out := make([]Entity, len(entries))
	for i, entry := range entries {
		out[i] = handleFor(entry)
	}
	return out, nil
}

// NewEntity is NewEntities(1, ...) for the common single-entity case.
func (sp *Space) NewEntity(components ...Component) (Entity, error) {
	entities, err := sp.NewEntities(1, components...)
	if err != nil {
		return Entity{}, err
	}
	return entities[0], nil
}

// EnqueueNewEntities creates entities immediately if sp is unlocked, or
// defers creation until it next unlocks.
func (sp *Space) EnqueueNewEntities(n int, components ...Component) error {
	if !sp.locked() {
		_, err := sp.newEntities(n, components...)
		return err
	}
	sp.opQueue.enqueue(newEntitiesOperation{count: n, components: components})
	return nil
}

// DestroyEntities removes entities from sp. With Config.DeferDestruction set,
// destruction is always deferred through the operation queue until
// ApplyQueuedOperations (or the end of a Cursor pass) drains it. While sp is
// locked (mid-Cursor pass), destruction is likewise deferred, unless
// Config.DebugAsserts is set and Config.DeferDestruction is not, in which
// case the attempt is reported as ErrDestructionDuringUpdate instead.
func (sp *Space) DestroyEntities(entities ...Entity) error {
	if sp.locked() {
		if Config.DebugAsserts && !Config.DeferDestruction {
			target := Entity{}
			if len(entities) > 0 {
				target = entities[0]
			}
			return bark.AddTrace(ErrDestructionDuringUpdate{Entity: target})
		}
		for _, e := range entities {
			sp.opQueue.enqueue(destroyEntityOperation{entity: e})
		}
		return nil
	}
	if Config.DeferDestruction {
		for _, e := range entities {
			sp.opQueue.enqueue(destroyEntityOperation{entity: e})
		}
		return nil
	}
	return sp.destroyEntities(entities...)
}

// destroyEntities destroys each entity in turn rather than batching by
// table: a destroy hook (Destroyer.OnDestroy) can itself destroy another
// entity in the same archetype, and that nested destroy's swap-remove
// shifts row positions out from under any precomputed batch of ids. Each
// entity's row is re-read from sp.entities immediately before it is
// actually deleted, matching spec.md §4.4's "per-column re-read of row"
// requirement for the destructor-in-destructor boundary (S5).
func (sp *Space) destroyEntities(entities ...Entity) error {
	for _, e := range entities {
		if err := sp.destroyOne(e); err != nil {
			return err
		}
	}
	return nil
}

func (sp *Space) destroyOne(e Entity) error {
	entry, ok := sp.entities.entry(e)
	if !ok {
		return nil
	}
	runDestroyHooks(sp, e, entry.Table(), entry.Index())

	// A hook may have already destroyed e (by destroying an entity that
	// turned out to be e, or indirectly), so re-validate before deleting.
	entry, ok = sp.entities.entry(e)
	if !ok {
		return nil
	}
	_, err := entry.Table().DeleteEntries(int(e.id))
	return err
}

// removeWithoutDestroy deletes e's row without running its Destroyer
// hooks — the `remove_entity(e, destroy = false)` half of spec.md §4.4's
// transfer contract: "we moved the values out; their destructors must not
// run again." TransferEntities uses this after copying e's columns into
// the target Space, since those values are still alive there.
func (sp *Space) removeWithoutDestroy(e Entity) error {
	entry, ok := sp.entities.entry(e)
	if !ok {
		return nil
	}
	_, err := entry.Table().DeleteEntries(int(e.id))
	return err
}

// runDestroyHooks calls OnDestroy on every component at (tbl, row) that
// implements Destroyer, in column order, before the row is removed.
func runDestroyHooks(sp *Space, e Entity, tbl table.Table, row int) {
	for _, col := range tbl.Rows() {
		elem := reflect.Value(col).Index(row)
		if !elem.CanAddr() {
			continue
		}
		if d, ok := elem.Addr().Interface().(Destroyer); ok {
			d.OnDestroy(sp, e)
		}
	}
}

// IsValid reports whether e still refers to a live row in sp.
func (sp *Space) IsValid(e Entity) bool {
	return sp.entities.valid(e)
}

// addComponentGuarded defers to the operation queue while sp is locked,
// mirroring DestroyEntities: a structural move mid-Cursor-pass would
// invalidate the Cursor's currentArchetype and the in-flight pool iteration.
func (sp *Space) addComponentGuarded(e Entity, c Component, value any) error {
	if sp.locked() {
		sp.opQueue.enqueue(addComponentOperation{entity: e, component: c, value: value})
		return nil
	}
	return sp.addComponent(e, c, value)
}

// removeComponentGuarded is addComponentGuarded's counterpart for removal.
func (sp *Space) removeComponentGuarded(e Entity, c Component) error {
	if sp.locked() {
		sp.opQueue.enqueue(removeComponentOperation{entity: e, component: c})
		return nil
	}
	return sp.removeComponent(e, c)
}

func (sp *Space) addComponent(e Entity, c Component, value any) error {
	entry, ok := sp.entities.entry(e)
	if !ok {
		if Config.DebugAsserts {
			return bark.AddTrace(ErrInvalidEntity{Entity: e})
		}
		return nil
	}
	srcTbl := entry.Table()
	src, ok := sp.archByTable[srcTbl]
	if !ok {
		if Config.DebugAsserts {
			return bark.AddTrace(ErrForeignEntity{Entity: e})
		}
		return nil
	}
	if srcTbl.Contains(c) {
		if Config.DebugAsserts {
			return bark.AddTrace(ErrDuplicateComponent{Entity: e, Component: c})
		}
		return nil
	}
	sp.schema.Register(c)
	bit := sp.schema.RowIndexFor(c)
	dest, ok := src.edgeAdd(bit)
	if !ok {
		var err error
		dest, err = sp.archetypeFor(src.withComponent(c)...)
		if err != nil {
			return err
		}
		src.cacheEdgeAdd(bit, dest)
		dest.cacheEdgeRemove(bit, src)
	}
	destIndex := entry.Index()
	if err := srcTbl.TransferEntries(dest.pool, destIndex); err != nil {
		return err
	}
	if value != nil {
		return setComponentValue(dest.pool, destIndex, value)
	}
	return nil
}

func (sp *Space) removeComponent(e Entity, c Component) error {
	entry, ok := sp.entities.entry(e)
	if !ok {
		if Config.DebugAsserts {
			return bark.AddTrace(ErrInvalidEntity{Entity: e})
		}
		return nil
	}
	srcTbl := entry.Table()
	src, ok := sp.archByTable[srcTbl]
	if !ok {
		if Config.DebugAsserts {
			return bark.AddTrace(ErrForeignEntity{Entity: e})
		}
		return nil
	}
	if !srcTbl.Contains(c) {
		if Config.DebugAsserts {
			return bark.AddTrace(ErrMissingComponent{Entity: e, Component: c})
		}
		return nil
	}
	bit := sp.schema.RowIndexFor(c)
	dest, ok := src.edgeRemove(bit)
	if !ok {
		var err error
		dest, err = sp.archetypeFor(src.withoutComponent(c)...)
		if err != nil {
			return err
		}
		src.cacheEdgeRemove(bit, dest)
		dest.cacheEdgeAdd(bit, src)
	}
	return srcTbl.TransferEntries(dest.pool, entry.Index())
}

func setComponentValue(pool table.Table, index int, value any) error {
	valueType := reflect.TypeOf(value)
	for _, row := range pool.Rows() {
		if row.Type().Elem() == valueType {
			reflect.Value(row).Index(index).Set(reflect.ValueOf(value))
			return nil
		}
	}
	return bark.AddTrace(ErrComponentValueType{ValueType: valueType})
}

// TransferEntities moves entities out of sp and into target, copying every
// column they share and creating a fresh Entity handle in target for each
// (an Entity is only ever valid within the Space that issued it, so a
// transferred entity cannot keep its old handle). Source entries are
// removed once the copy succeeds, without running Destroyer hooks.
func (sp *Space) TransferEntities(target *Space, entities ...Entity) ([]Entity, error) {
	if sp.locked() || target.locked() {
		return nil, bark.AddTrace(ErrStorageLocked{})
	}
	out := make([]Entity, 0, len(entities))
	for _, e := range entities {
		entry, ok := sp.entities.entry(e)
		if !ok {
			continue
		}
		src, ok := sp.archByTable[entry.Table()]
		if !ok {
			return out, bark.AddTrace(ErrForeignEntity{Entity: e})
		}
		dest, err := target.archetypeFor(src.components...)
		if err != nil {
			return out, err
		}
		newEntries, err := dest.pool.NewEntries(1)
		if err != nil {
			return out, err
		}
		newEntry := newEntries[0]
		copyRow(entry.Table(), entry.Index(), dest.pool, newEntry.Index())
		if err := sp.removeWithoutDestroy(e); err != nil {
			return out, err
		}
		out = append(out, handleFor(newEntry))
	}
	return out, nil
}

func copyRow(src table.Table, srcIdx int, dest table.Table, destIdx int) {
	for _, srow := range src.Rows() {
		for _, drow := range dest.Rows() {
			if srow.Type() == drow.Type() {
				reflect.Value(drow).Index(destIdx).Set(reflect.Value(srow).Index(srcIdx))
			}
		}
	}
}

// Archetypes exposes the live archetype list for package latticedebug. It
// panics if Config.ExposeInternals is false, matching the teacher's
// debug-only internals switch.
func (sp *Space) Archetypes() []*archetype {
	if !Config.ExposeInternals {
		panic("lattice: Config.ExposeInternals is false")
	}
	return sp.index.all()
}

// Emplace adds a T component to e with an initial value, moving e to the
// archetype that includes T. If e already carries T, nothing is written:
// the call reports ErrDuplicateComponent with Config.DebugAsserts set and
// is a no-op otherwise.
func Emplace[T any](sp *Space, e Entity, value T) error {
	c := componentFor[T]()
	return sp.addComponentGuarded(e, c.Component, value)
}

// Insert adds a T component to e with value, matching spec's
// insert<T>(Entity, value) contract. The design notes' Open Question on
// insert vs. emplace ("the source treats the insert path as
// assignment-over-raw-memory, which is unsafe for non-POD types ...
// implementers should unify on placement-construction for both paths") is
// resolved here by routing Insert through the same addComponentGuarded
// write Emplace uses — the two stay separate functions to keep the
// spec-named insert<T>/emplace<T> call sites distinct, but share one
// mechanism rather than two.
func Insert[T any](sp *Space, e Entity, value T) error {
	c := componentFor[T]()
	return sp.addComponentGuarded(e, c.Component, value)
}

// InsertMany adds several zero-valued components to e, matching spec's
// insert_many<T…>(Entity). Go has no variadic type parameters, so unlike
// Insert/Emplace this takes explicit Component handles rather than a type
// list — grounded on original_source/Source/Space.h's
// InsertComponents<Components...>, which folds InsertComponent over the
// same pack.
func InsertMany(sp *Space, e Entity, components ...Component) error {
	for _, c := range components {
		if err := sp.addComponentGuarded(e, c, nil); err != nil {
			return err
		}
	}
	return nil
}

// Remove strips the T component from e, moving it to the archetype without
// T.
func Remove[T any](sp *Space, e Entity) error {
	c := componentFor[T]()
	return sp.removeComponentGuarded(e, c.Component)
}

// Has reports whether e currently carries a T component.
func Has[T any](sp *Space, e Entity) bool {
	entry, ok := sp.entities.entry(e)
	if !ok {
		return false
	}
	c := componentFor[T]()
	return entry.Table().Contains(c.Component)
}

// GetTemporary returns a pointer to e's T component, valid only until the
// next mutation that may relocate e's row — spec's get_temporary<T>(Entity)
// → &T, grounded on original_source/Source/Space.h's
// GetComponentTemporary (its doc comment there: "Reference is only valid
// until the parent space is edited in ANY way").
func GetTemporary[T any](sp *Space, e Entity) (*T, error) {
	entry, ok := sp.entities.entry(e)
	if !ok {
		return nil, bark.AddTrace(ErrInvalidEntity{Entity: e})
	}
	c := componentFor[T]()
	if !c.Accessor.Check(entry.Table()) {
		return nil, bark.AddTrace(ErrMissingComponent{Entity: e, Component: c.Component})
	}
	return c.Accessor.Get(entry.Index(), entry.Table()), nil
}

// Get is GetTemporary under the name most call sites reach for first; both
// return the same live borrow.
func Get[T any](sp *Space, e Entity) (*T, error) {
	return GetTemporary[T](sp, e)
}

// GetScoped borrows e's T component for the duration of f, matching spec's
// get<T>(Entity, f) scoped-access contract. Grounded on
// original_source/Source/Space.h's GetComponent<Component, Function>
// (`return function(entityManager.GetComponent<Component>(entity))`).
// Unlike GetTemporary/Get, the pointer never escapes past f's return.
func GetScoped[T any](sp *Space, e Entity, f func(*T)) error {
	v, err := GetTemporary[T](sp, e)
	if err != nil {
		return err
	}
	f(v)
	return nil
}

// Set1 ensures e carries a T1 (inserting a zero value if absent) and hands
// fn a pointer to initialize it in place, matching spec's set<T…>(Entity,
// f). Go has no variadic generics, so — following the Update1..Update4
// convention — lattice hand-writes one arity per count instead of a single
// variadic entry point. Grounded on original_source/Source/Space.h's
// SetComponent<Components..., Function>.
func Set1[T1 any](sp *Space, e Entity, fn func(t1 *T1)) error {
	if !Has[T1](sp, e) {
		var zero T1
		if err := Insert(sp, e, zero); err != nil {
			return err
		}
	}
	v, err := Get[T1](sp, e)
	if err != nil {
		return err
	}
	fn(v)
	return nil
}

// Set2 is Set1 for two components.
func Set2[T1, T2 any](sp *Space, e Entity, fn func(t1 *T1, t2 *T2)) error {
	if !Has[T1](sp, e) {
		var zero T1
		if err := Insert(sp, e, zero); err != nil {
			return err
		}
	}
	if !Has[T2](sp, e) {
		var zero T2
		if err := Insert(sp, e, zero); err != nil {
			return err
		}
	}
	v1, err := Get[T1](sp, e)
	if err != nil {
		return err
	}
	v2, err := Get[T2](sp, e)
	if err != nil {
		return err
	}
	fn(v1, v2)
	return nil
}

// Set3 is Set1 for three components.
func Set3[T1, T2, T3 any](sp *Space, e Entity, fn func(t1 *T1, t2 *T2, t3 *T3)) error {
	if !Has[T1](sp, e) {
		var zero T1
		if err := Insert(sp, e, zero); err != nil {
			return err
		}
	}
	if !Has[T2](sp, e) {
		var zero T2
		if err := Insert(sp, e, zero); err != nil {
			return err
		}
	}
	if !Has[T3](sp, e) {
		var zero T3
		if err := Insert(sp, e, zero); err != nil {
			return err
		}
	}
	v1, err := Get[T1](sp, e)
	if err != nil {
		return err
	}
	v2, err := Get[T2](sp, e)
	if err != nil {
		return err
	}
	v3, err := Get[T3](sp, e)
	if err != nil {
		return err
	}
	fn(v1, v2, v3)
	return nil
}

// Set4 is Set1 for four components.
func Set4[T1, T2, T3, T4 any](sp *Space, e Entity, fn func(t1 *T1, t2 *T2, t3 *T3, t4 *T4)) error {
	if !Has[T1](sp, e) {
		var zero T1
		if err := Insert(sp, e, zero); err != nil {
			return err
		}
	}
	if !Has[T2](sp, e) {
		var zero T2
		if err := Insert(sp, e, zero); err != nil {
			return err
		}
	}
	if !Has[T3](sp, e) {
		var zero T3
		if err := Insert(sp, e, zero); err != nil {
			return err
		}
	}
	if !Has[T4](sp, e) {
		var zero T4
		if err := Insert(sp, e, zero); err != nil {
			return err
		}
	}
	v1, err := Get[T1](sp, e)
	if err != nil {
		return err
	}
	v2, err := Get[T2](sp, e)
	if err != nil {
		return err
	}
	v3, err := Get[T3](sp, e)
	if err != nil {
		return err
	}
	v4, err := Get[T4](sp, e)
	if err != nil {
		return err
	}
	fn(v1, v2, v3, v4)
	return nil
}
