package stockpile

import "github.com/TheBitDrifter/mask"

var _ Archetype = &archetype{}

type archetype struct {
	id       int
	store    *RowStore
	entities []EntityID
}

func newArchetype(id int, l Layout) *archetype {
	return &archetype{
		id:    id,
		store: NewRowStore(l),
	}
}

// add appends a row for entity and returns its index.
func (a *archetype) add(entity EntityID) (int, RawCursor) {
	index := len(a.entities)
	row := a.store.PushBack()
	a.entities = append(a.entities, entity)
	return index, row
}

func (a *archetype) clear() {
	a.store.Clear()
	a.entities = nil
}

func (a *archetype) ID() int {
	return a.id
}

func (a *archetype) Layout() Layout {
	return a.store.layout
}

func (a *archetype) Mask() mask.Mask {
	return a.store.layout.mask
}

func (a *archetype) Len() int {
	return len(a.entities)
}

func (a *archetype) Cap() int {
	return a.store.Cap()
}

func (a *archetype) Entity(row int) EntityID {
	return a.entities[row]
}

func (a *archetype) Entities() []EntityID {
	return a.entities[:len(a.entities):len(a.entities)]
}

func (a *archetype) Row(i int) RawCursor {
	return a.store.At(i)
}

// WithComponent returns the layout of this archetype plus c. It does not
// create an archetype.
func (a *archetype) WithComponent(c Component) Layout {
	return a.store.layout.With(c)
}

func (a *archetype) WithComponents(components ...Component) Layout {
	return a.store.layout.WithFields(components...)
}
