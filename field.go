package stockpile

import (
	"cmp"
	"reflect"
	"sync"
	"unsafe"

	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
)

// MaxFields is the number of distinct component types a process may register.
// Field identities double as mask bits, so the limit is the width of the mask
// compiled in: 64 by default, more with the mask package's m256, m512 or m1024
// build tags.
const MaxFields = mask.MaxBits

// FieldID is the identity of a registered component type. Layouts order their
// members by it.
type FieldID uint32

// CopyFunc copy-constructs the value at src into the slot at dst.
type CopyFunc func(dst, src unsafe.Pointer)

// MoveFunc moves the value at src into dst and leaves src destroyed.
type MoveFunc func(dst, src unsafe.Pointer)

// DestroyFunc destroys the value stored at ptr in place.
type DestroyFunc func(ptr unsafe.Pointer)

// Cloner lets a component type supply its own copy semantics.
type Cloner[T any] interface {
	Clone() T
}

// Destroyer is implemented by component types (on the pointer receiver) that
// must release something before their slot is cleared.
type Destroyer interface {
	Destroy()
}

// Field describes one component type at runtime: its identity, native size and
// alignment, and the operations needed to manage values of it without static
// type information. Fields are values; two fields for the same type are equal.
type Field struct {
	id      FieldID
	typ     reflect.Type
	elem    table.ElementType
	size    uintptr
	align   uintptr
	copy    CopyFunc
	move    MoveFunc
	destroy DestroyFunc
}

var registry = struct {
	sync.Mutex
	schema table.Schema
	byType map[reflect.Type]Field
}{
	schema: table.Factory.NewSchema(),
	byType: make(map[reflect.Type]Field),
}

// FieldFor returns the descriptor for T, registering T on first use.
func FieldFor[T any]() Field {
	typ := reflect.TypeFor[T]()

	registry.Lock()
	defer registry.Unlock()

	if f, ok := registry.byType[typ]; ok {
		return f
	}
	if len(registry.byType) >= MaxFields {
		panic(FieldLimitError{Type: typ})
	}

	elem := table.FactoryNewElementType[T]()
	registry.schema.Register(elem)
	id := registry.schema.RowIndexFor(elem)
	if id >= MaxFields {
		panic(FieldLimitError{Type: typ})
	}

	f := Field{
		id:      FieldID(id),
		typ:     typ,
		elem:    elem,
		size:    typ.Size(),
		align:   uintptr(typ.Align()),
		copy:    copyFunc[T](),
		move:    moveFunc[T](),
		destroy: destroyFunc[T](),
	}
	registry.byType[typ] = f
	return f
}

func copyFunc[T any]() CopyFunc {
	var zero T
	if _, ok := any(zero).(Cloner[T]); ok {
		return func(dst, src unsafe.Pointer) {
			*(*T)(dst) = any(*(*T)(src)).(Cloner[T]).Clone()
		}
	}
	return func(dst, src unsafe.Pointer) {
		*(*T)(dst) = *(*T)(src)
	}
}

// A moved-from value no longer owns anything, so Destroy hooks are skipped and
// the source slot is only cleared.
func moveFunc[T any]() MoveFunc {
	return func(dst, src unsafe.Pointer) {
		var zero T
		*(*T)(dst) = *(*T)(src)
		*(*T)(src) = zero
	}
}

func destroyFunc[T any]() DestroyFunc {
	if _, ok := any((*T)(nil)).(Destroyer); ok {
		return func(ptr unsafe.Pointer) {
			var zero T
			v := (*T)(ptr)
			any(v).(Destroyer).Destroy()
			*v = zero
		}
	}
	return func(ptr unsafe.Pointer) {
		var zero T
		*(*T)(ptr) = zero
	}
}

func (f Field) Descriptor() Field {
	return f
}

func (f Field) ID() FieldID {
	return f.id
}

// Type returns the Go type the field describes.
func (f Field) Type() reflect.Type {
	return f.typ
}

// ElementType returns the table element type registered for the field.
func (f Field) ElementType() table.ElementType {
	return f.elem
}

func (f Field) Size() uintptr {
	return f.size
}

func (f Field) Align() uintptr {
	return f.align
}

// IsZero reports whether f is the zero Field rather than a registered one.
func (f Field) IsZero() bool {
	return f.typ == nil
}

// Copy copy-constructs the value at src into dst.
func (f Field) Copy(dst, src unsafe.Pointer) {
	f.copy(dst, src)
}

// Move moves the value at src into dst; src is left zeroed.
func (f Field) Move(dst, src unsafe.Pointer) {
	f.move(dst, src)
}

// Destroy runs the type's Destroy hook, if any, and zeroes the slot.
func (f Field) Destroy(ptr unsafe.Pointer) {
	f.destroy(ptr)
}

func (f Field) Equal(other Field) bool {
	return f.typ == other.typ
}

// Compare orders fields by identity.
func (f Field) Compare(other Field) int {
	return cmp.Compare(f.id, other.id)
}

func (f Field) String() string {
	if f.typ == nil {
		return "<nil>"
	}
	return f.typ.String()
}
