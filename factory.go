package stockpile

type factory struct{}

var Factory factory

func (f factory) NewWorld() World {
	return newWorld()
}

func (f factory) NewQuery() Query {
	return newQuery()
}

func (f factory) NewCursor(query QueryNode, w World) *Cursor {
	return newCursor(query, w)
}

func (f factory) NewSelection(components ...Component) Selection {
	return Select(components...)
}

func (f factory) NewLayout(components ...Component) Layout {
	return NewLayout(components...)
}

func (f factory) NewRowStore(l Layout) *RowStore {
	return NewRowStore(l)
}

func FactoryNewComponent[T any]() AccessibleComponent[T] {
	return AccessibleComponent[T]{Field: FieldFor[T]()}
}

func FactoryNewCache[K comparable, T any](cap int) Cache[K, T] {
	return &SimpleCache[K, T]{
		itemIndices: make(map[K]int),
		maxCapacity: cap,
	}
}
