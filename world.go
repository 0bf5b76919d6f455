package stockpile

import (
	"iter"
	"slices"

	"github.com/TheBitDrifter/mask"
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var _ World = &world{}

type location struct {
	archetype int
	row       int
}

type world struct {
	id         uuid.UUID
	log        *zap.Logger
	nextID     EntityID
	archetypes []*archetype
	byMask     map[mask.Mask]int
	locations  map[EntityID]location
	layouts    *SimpleCache[uint64, Layout]
	active     int
	locks      mask.Mask
	opQueue    opQueue
}

func newWorld() *world {
	id := uuid.New()
	return &world{
		id:        id,
		log:       Config.Logger().With(zap.Stringer("world", id)),
		byMask:    make(map[mask.Mask]int),
		locations: make(map[EntityID]location),
		layouts: &SimpleCache[uint64, Layout]{
			itemIndices: make(map[uint64]int),
			maxCapacity: Config.LayoutCacheCapacity(),
		},
	}
}

func (w *world) ID() uuid.UUID {
	return w.id
}

// CreateEntity allocates the next entity id and appends a row for it to the
// archetype holding exactly the fields of l. The row's fields are zero until
// emplaced through the returned cursor.
func (w *world) CreateEntity(l Layout) (EntityID, RawCursor, error) {
	if w.Locked() {
		return 0, RawCursor{}, LockedWorldError{}
	}
	w.nextID++
	id := w.nextID

	arch := w.findOrAddArchetype(l)
	row, cursor := arch.add(id)
	w.locations[id] = location{archetype: arch.id, row: row}
	return id, cursor, nil
}

// EnqueueCreateEntity creates the entity immediately when the world is
// unlocked, otherwise once the last lock is released. init runs right after
// creation in both cases.
func (w *world) EnqueueCreateEntity(l Layout, init EntityInit) error {
	if !w.Locked() {
		id, row, err := w.CreateEntity(l)
		if err != nil {
			return err
		}
		if init != nil {
			init(id, row)
		}
		return nil
	}
	w.opQueue.enqueueCreate(l, init)
	return nil
}

// Archetypes match on mask equality, which for layouts is equality of their
// field sets.
func (w *world) findOrAddArchetype(l Layout) *archetype {
	if index, ok := w.byMask[l.mask]; ok {
		return w.archetypes[index]
	}
	created := newArchetype(len(w.archetypes), l)
	w.archetypes = append(w.archetypes, created)
	w.byMask[l.mask] = created.id

	w.log.Debug("archetype created",
		zap.Int("archetype", created.id),
		zap.Stringer("layout", l),
	)
	return created
}

// Entity returns a cursor to the entity's row, or the null cursor for an
// unknown id.
func (w *world) Entity(id EntityID) RawCursor {
	loc, ok := w.locations[id]
	if !ok {
		return RawCursor{}
	}
	return w.archetypes[loc.archetype].store.At(loc.row)
}

func (w *world) Location(id EntityID) (archetype, row int, ok bool) {
	loc, ok := w.locations[id]
	return loc.archetype, loc.row, ok
}

// Layout returns the layout for components, reusing the one planned for an
// earlier request with the same field set.
func (w *world) Layout(components ...Component) Layout {
	ids := make([]FieldID, len(components))
	for i, c := range components {
		ids[i] = mustRegistered(c).id
	}
	slices.Sort(ids)
	key := fieldKey(slices.Compact(ids))
	hash := xxhash.Sum64String(key)

	if index, ok := w.layouts.GetIndex(hash); ok {
		if cached := w.layouts.GetItem(index); cached.Key() == key {
			return *cached
		}
		return NewLayout(components...)
	}

	l := NewLayout(components...)
	if _, err := w.layouts.Register(hash, l); err != nil {
		w.log.Debug("layout not interned", zap.String("layout", key), zap.Error(err))
	}
	return l
}

func (w *world) Archetype(index int) Archetype {
	return w.archetypes[index]
}

func (w *world) Archetypes() iter.Seq[Archetype] {
	return func(yield func(Archetype) bool) {
		for _, a := range w.archetypes {
			if !yield(a) {
				return
			}
		}
	}
}

// Len returns the number of live entities.
func (w *world) Len() int {
	return len(w.locations)
}

// Query lazily yields every entity whose archetype holds at least the fields of
// sel, with a view bound to those fields. The set of matching archetypes is
// fixed when Query is called. The world stays locked while the sequence is
// being ranged over.
func (w *world) Query(sel Selection) iter.Seq2[EntityID, View] {
	matched := w.match(sel)
	return func(yield func(EntityID, View) bool) {
		w.acquire()
		defer w.release()

		for _, a := range matched {
			n := a.Len()
			if n == 0 {
				continue
			}
			view := a.store.Begin().Select(sel.components...)
			for i := 0; i < n; i++ {
				if !yield(a.entities[i], view) {
					return
				}
				view.Advance()
			}
		}
	}
}

func (w *world) match(node QueryNode) []*archetype {
	matched := make([]*archetype, 0, len(w.archetypes))
	for _, a := range w.archetypes {
		if node.Evaluate(a) {
			matched = append(matched, a)
		}
	}
	return matched
}

// Clear destroys every entity's fields. Archetypes survive, and ids handed out
// afterwards continue from where they were.
func (w *world) Clear() error {
	if w.Locked() {
		return LockedWorldError{}
	}
	for _, a := range w.archetypes {
		a.clear()
	}
	clear(w.locations)
	return nil
}

func (w *world) Locked() bool {
	return w.active > 0 || w.locks != (mask.Mask{})
}

// AddLock marks bit as held. The world stays locked while any bit is held.
func (w *world) AddLock(bit uint32) {
	w.locks.Mark(bit)
}

// RemoveLock releases bit and, once the world is unlocked, processes queued
// operations.
func (w *world) RemoveLock(bit uint32) {
	w.locks.Unmark(bit)
	w.drain()
}

func (w *world) acquire() {
	w.active++
}

func (w *world) release() {
	w.active--
	w.drain()
}

func (w *world) drain() {
	if w.Locked() {
		return
	}
	if err := w.processOperationQueue(); err != nil {
		w.log.Error("queued operations failed", zap.Error(err))
	}
}
