package stockpile

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/TheBitDrifter/mask"
	"github.com/cespare/xxhash/v2"
)

// Member is one placed field of a Layout.
type Member struct {
	Field  Field
	Offset uintptr
}

// Layout is the packed, alignment-correct memory layout of a set of fields.
//
// Members are ordered by field identity, never by insertion order, so two
// layouts built from the same set of fields are identical no matter how they
// were composed. A Layout is immutable: With and WithFields return new layouts.
// The zero Layout is the empty layout.
type Layout struct {
	members []Member
	size    uintptr
	stride  uintptr
	align   uintptr
	mask    mask.Mask
	shape   reflect.Type
}

var byteType = reflect.TypeFor[byte]()

// EmptyLayout returns the layout with no members.
func EmptyLayout() Layout {
	return Layout{align: 1}
}

// NewLayout plans a layout holding every distinct field among components.
func NewLayout(components ...Component) Layout {
	seen := make(map[reflect.Type]struct{}, len(components))
	fields := make([]Field, 0, len(components))
	for _, c := range components {
		f := mustRegistered(c)
		if _, dup := seen[f.typ]; dup {
			continue
		}
		seen[f.typ] = struct{}{}
		fields = append(fields, f)
	}
	slices.SortFunc(fields, Field.Compare)
	return plan(fields)
}

// WithMember returns l extended by the field for T.
func WithMember[T any](l Layout) Layout {
	return l.With(FieldFor[T]())
}

// mustRegistered returns c's descriptor, panicking on the zero Field, whose id
// would alias the first registered type.
func mustRegistered(c Component) Field {
	f := c.Descriptor()
	if f.IsZero() {
		panic("stockpile: unregistered field in layout")
	}
	return f
}

func plan(fields []Field) Layout {
	l := Layout{
		members: make([]Member, 0, len(fields)),
		align:   1,
	}
	var offset uintptr
	for _, f := range fields {
		offset = alignUp(offset, f.align)
		l.members = append(l.members, Member{Field: f, Offset: offset})
		l.mask.Mark(uint32(f.id))
		offset += f.size
		l.align = max(l.align, f.align)
	}
	l.size = offset
	l.stride = alignUp(offset, l.align)
	l.shape = rowShape(l.members, l.stride)
	return l
}

func alignUp(n, align uintptr) uintptr {
	if align == 0 {
		return n
	}
	if rem := n % align; rem != 0 {
		n += align - rem
	}
	return n
}

// rowShape builds a struct type whose fields sit at exactly the planned
// offsets and whose size is the stride. Buffers are allocated as slices of it
// so the collector knows which words of a row hold pointers. Zero-sized members
// are left out; explicit byte padding pins every other member in place.
func rowShape(members []Member, stride uintptr) reflect.Type {
	fields := make([]reflect.StructField, 0, 2*len(members)+1)
	pad := func(n uintptr) {
		fields = append(fields, reflect.StructField{
			Name: "Pad" + strconv.Itoa(len(fields)),
			Type: reflect.ArrayOf(int(n), byteType),
		})
	}

	var cursor uintptr
	for i, m := range members {
		if m.Field.size == 0 {
			continue
		}
		if m.Offset > cursor {
			pad(m.Offset - cursor)
		}
		fields = append(fields, reflect.StructField{
			Name: "F" + strconv.Itoa(i),
			Type: m.Field.typ,
		})
		cursor = m.Offset + m.Field.size
	}
	if stride > cursor {
		pad(stride - cursor)
	}

	shape := reflect.StructOf(fields)
	if shape.Size() != stride {
		panic(fmt.Sprintf("stockpile: row shape size %d does not match stride %d", shape.Size(), stride))
	}
	return shape
}

// With returns a new layout that also holds c. Adding a field that is already
// present yields an equal layout.
func (l Layout) With(c Component) Layout {
	return l.WithFields(c)
}

// WithFields returns a new layout that also holds every component given.
func (l Layout) WithFields(components ...Component) Layout {
	all := make([]Component, 0, len(l.members)+len(components))
	for _, m := range l.members {
		all = append(all, m.Field)
	}
	all = append(all, components...)
	return NewLayout(all...)
}

// Members returns a copy of the placed members in identity order.
func (l Layout) Members() []Member {
	return slices.Clone(l.members)
}

func (l Layout) Fields() []Field {
	fields := make([]Field, len(l.members))
	for i, m := range l.members {
		fields[i] = m.Field
	}
	return fields
}

func (l Layout) Len() int {
	return len(l.members)
}

// Size is the number of bytes occupied by the members, including padding
// between them but not trailing padding.
func (l Layout) Size() uintptr {
	return l.size
}

// Stride is Size rounded up to Align; it is the distance between rows.
func (l Layout) Stride() uintptr {
	return l.stride
}

func (l Layout) Align() uintptr {
	return max(l.align, 1)
}

// Mask returns the set of member identities as a mask.
func (l Layout) Mask() mask.Mask {
	return l.mask
}

func (l Layout) Contains(c Component) bool {
	_, ok := l.Offset(c)
	return ok
}

// Offset returns the byte offset of c within a row.
func (l Layout) Offset(c Component) (uintptr, bool) {
	f := c.Descriptor()
	for _, m := range l.members {
		if m.Field.typ == f.typ {
			return m.Offset, true
		}
	}
	return 0, false
}

// MustOffset is like Offset but panics with a FieldNotFoundError when c is
// not a member.
func (l Layout) MustOffset(c Component) uintptr {
	off, ok := l.Offset(c)
	if !ok {
		panic(FieldNotFoundError{Field: c.Descriptor(), Layout: l})
	}
	return off
}

// Equal reports whether both layouts hold the same set of fields.
func (l Layout) Equal(other Layout) bool {
	return len(l.members) == len(other.members) && l.mask == other.mask
}

// Key is the canonical signature of the layout's field set.
func (l Layout) Key() string {
	ids := make([]FieldID, len(l.members))
	for i, m := range l.members {
		ids[i] = m.Field.id
	}
	return fieldKey(ids)
}

// fieldKey joins sorted, distinct ids.
func fieldKey(ids []FieldID) string {
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	return b.String()
}

func (l Layout) Hash() uint64 {
	return xxhash.Sum64String(l.Key())
}

func (l Layout) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, m := range l.members {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s@%d", m.Field, m.Offset)
	}
	fmt.Fprintf(&b, "} size=%d stride=%d align=%d", l.size, l.stride, l.Align())
	return b.String()
}
