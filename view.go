package stockpile

import "unsafe"

// RawCursor points at one row of row storage without knowing which component
// types the caller cares about. It supports iteration and identity only; use
// Select to obtain a View with field access.
//
// The zero RawCursor is the null cursor.
type RawCursor struct {
	base   unsafe.Pointer
	row    int
	layout *Layout
}

func (c RawCursor) IsNil() bool {
	return c.base == nil
}

func (c RawCursor) Row() int {
	return c.row
}

// Layout returns the layout of the rows the cursor walks.
func (c RawCursor) Layout() Layout {
	if c.layout == nil {
		return EmptyLayout()
	}
	return *c.layout
}

// Pointer returns the address of the current row.
func (c RawCursor) Pointer() unsafe.Pointer {
	if c.layout == nil || c.layout.stride == 0 {
		return c.base
	}
	return unsafe.Add(c.base, uintptr(c.row)*c.layout.stride)
}

// addr computes the row address without materialising a pointer, so end
// sentinels one past the last row are safe to compare.
func (c RawCursor) addr() uintptr {
	if c.layout == nil {
		return uintptr(c.base)
	}
	return uintptr(c.base) + uintptr(c.row)*c.layout.stride
}

// Next returns a cursor one stride further.
func (c RawCursor) Next() RawCursor {
	c.row++
	return c
}

func (c *RawCursor) Advance() {
	c.row++
}

// Equal reports whether both cursors point at the same row. Rows of a
// zero-stride layout share one address, so for them the row index decides.
func (c RawCursor) Equal(other RawCursor) bool {
	if c.base == other.base && c.layout == other.layout {
		return c.row == other.row
	}
	if c.stride() == 0 || other.stride() == 0 {
		return false
	}
	return c.addr() == other.addr()
}

func (c RawCursor) stride() uintptr {
	if c.layout == nil {
		return 0
	}
	return c.layout.stride
}

// Select reinterprets the cursor as a View exposing components. Each offset is
// resolved once, here; a component missing from the layout panics with a
// FieldNotFoundError.
func (c RawCursor) Select(components ...Component) View {
	l := c.Layout()
	slots := make([]slot, len(components))
	for i, comp := range components {
		f := comp.Descriptor()
		slots[i] = slot{id: f.id, offset: l.MustOffset(f)}
	}
	return View{raw: c, slots: slots}
}

type slot struct {
	id     FieldID
	offset uintptr
}

// View is a cursor bound to a subset of a row's fields, each with a cached
// offset. It is used both to walk row storage and to construct and read fields
// in place.
//
// A View is invalidated when the storage it points into grows.
type View struct {
	raw   RawCursor
	slots []slot
}

// Pointer returns the address of component c in the current row. c must be one
// of the components the view was selected with.
func (v View) Pointer(c Component) unsafe.Pointer {
	f := c.Descriptor()
	for _, s := range v.slots {
		if s.id == f.id {
			return unsafe.Add(v.raw.Pointer(), s.offset)
		}
	}
	panic(FieldNotFoundError{Field: f, Layout: v.raw.Layout()})
}

// Has reports whether c is bound in the view.
func (v View) Has(c Component) bool {
	f := c.Descriptor()
	for _, s := range v.slots {
		if s.id == f.id {
			return true
		}
	}
	return false
}

func (v View) Raw() RawCursor {
	return v.raw
}

func (v View) IsNil() bool {
	return v.raw.IsNil()
}

func (v View) Row() int {
	return v.raw.row
}

func (v View) Next() View {
	v.raw.row++
	return v
}

func (v *View) Advance() {
	v.raw.row++
}

func (v View) Equal(other View) bool {
	return v.raw.Equal(other.raw)
}

func offsetPointer(c RawCursor, off uintptr) unsafe.Pointer {
	return unsafe.Add(c.Pointer(), off)
}
