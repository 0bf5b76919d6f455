package stockpile

// Component is anything that names a component type: a Field, or an
// AccessibleComponent wrapping one. Layouts, selections and queries accept it.
type Component interface {
	Descriptor() Field
}

// AccessibleComponent extends a Field with typed access to its values
// It provides methods to construct and retrieve components through views,
// cursors and entities
type AccessibleComponent[T any] struct {
	Field
}

// Emplace constructs val in place at the view's current row and returns a
// pointer to it. Emplacing over a live value overwrites it without running its
// Destroy hook.
func (c AccessibleComponent[T]) Emplace(v View, val T) *T {
	ptr := c.Get(v)
	*ptr = val
	return ptr
}

// Get returns a pointer to the component at the view's current row
func (c AccessibleComponent[T]) Get(v View) *T {
	return (*T)(v.Pointer(c.Field))
}

// Destroy destroys the component at the view's current row in place
func (c AccessibleComponent[T]) Destroy(v View) {
	c.Field.Destroy(v.Pointer(c.Field))
}

// GetFromCursor retrieves a component value for the entity at the cursor position
func (c AccessibleComponent[T]) GetFromCursor(cursor *Cursor) *T {
	row := cursor.Row()
	off := row.Layout().MustOffset(c.Field)
	return (*T)(offsetPointer(row, off))
}

// GetFromCursorSafe safely retrieves a component value, checking if the component exists
// Returns a boolean indicating success and the component pointer if found
func (c AccessibleComponent[T]) GetFromCursorSafe(cursor *Cursor) (bool, *T) {
	if !c.CheckCursor(cursor) {
		return false, nil
	}
	return true, c.GetFromCursor(cursor)
}

// CheckCursor determines if the component exists in the archetype at the cursor position
func (c AccessibleComponent[T]) CheckCursor(cursor *Cursor) bool {
	return cursor.currentArchetype != nil && cursor.currentArchetype.store.layout.Contains(c.Field)
}

// GetFromEntity retrieves the component value of an entity. It reports false
// when the entity is unknown or does not carry the component.
func (c AccessibleComponent[T]) GetFromEntity(w World, id EntityID) (*T, bool) {
	row := w.Entity(id)
	if row.IsNil() {
		return nil, false
	}
	off, ok := row.Layout().Offset(c.Field)
	if !ok {
		return nil, false
	}
	return (*T)(offsetPointer(row, off)), true
}

// EmplaceField constructs val as the T field of the view's current row.
func EmplaceField[T any](v View, val T) *T {
	ptr := GetField[T](v)
	*ptr = val
	return ptr
}

// GetField returns the T field of the view's current row.
func GetField[T any](v View) *T {
	return (*T)(v.Pointer(FieldFor[T]()))
}
