package stockpile

import (
	"fmt"
	"iter"
	"unsafe"

	"go.uber.org/zap"
)

// zeroRow backs every row of a layout whose stride is zero.
var zeroRow [0]uint64

// RowStore is a growable, contiguous array of rows that all share one Layout.
//
// PushBack reserves a row but constructs nothing in it: every field reads as
// its zero value until the caller emplaces it. Growing the store moves each
// live field through its Field's Move function, so cursors obtained before a
// growth must not be used afterwards.
type RowStore struct {
	layout   Layout
	buf      Buffer
	len      int
	capacity int
}

func NewRowStore(l Layout) *RowStore {
	if l.align == 0 {
		l = EmptyLayout()
	}
	return &RowStore{layout: l}
}

func (s *RowStore) Layout() Layout {
	return s.layout
}

func (s *RowStore) Len() int {
	return s.len
}

func (s *RowStore) Cap() int {
	return s.capacity
}

// PushBack appends a row and returns a cursor to it.
func (s *RowStore) PushBack() RawCursor {
	s.Reserve(s.len + 1)
	c := s.cursor(s.len)
	s.len++
	return c
}

// At returns a cursor to row i. At(Len()) is the end sentinel.
func (s *RowStore) At(i int) RawCursor {
	if i < 0 || i > s.len {
		panic(fmt.Sprintf("stockpile: row index %d out of range [0:%d]", i, s.len))
	}
	return s.cursor(i)
}

func (s *RowStore) Begin() RawCursor {
	return s.cursor(0)
}

func (s *RowStore) End() RawCursor {
	return s.cursor(s.len)
}

// View returns typed cursors to the first row and one past the last.
func (s *RowStore) View(components ...Component) (begin, end View) {
	begin = s.Begin().Select(components...)
	end = begin
	end.raw.row = s.len
	return begin, end
}

// All yields every live row with its index.
func (s *RowStore) All() iter.Seq2[int, RawCursor] {
	return func(yield func(int, RawCursor) bool) {
		for i := 0; i < s.len; i++ {
			if !yield(i, s.cursor(i)) {
				return
			}
		}
	}
}

func (s *RowStore) cursor(i int) RawCursor {
	return RawCursor{base: s.base(), row: i, layout: &s.layout}
}

func (s *RowStore) base() unsafe.Pointer {
	if s.layout.stride == 0 {
		return unsafe.Pointer(&zeroRow)
	}
	return s.buf.Pointer()
}

// Reserve ensures room for at least n rows. Capacity doubles, starting at one,
// until it covers n.
func (s *RowStore) Reserve(n int) {
	if s.capacity >= n {
		return
	}
	capacity := max(s.capacity, 1)
	for capacity < n {
		capacity *= 2
	}

	next := AllocateRows(s.layout, capacity)
	stride := s.layout.stride
	for i := 0; i < s.len; i++ {
		row := uintptr(i) * stride
		for _, m := range s.layout.members {
			if m.Field.size == 0 {
				continue
			}
			m.Field.Move(next.At(row+m.Offset), s.buf.At(row+m.Offset))
		}
	}

	old := s.buf.Take()
	s.buf = next.Take()
	old.Release()

	Config.Logger().Debug("row store grown",
		zap.String("layout", s.layout.Key()),
		zap.Int("from", s.capacity),
		zap.Int("to", capacity),
	)
	s.capacity = capacity
}

// Clear destroys every field of every live row and releases the storage.
func (s *RowStore) Clear() {
	stride := s.layout.stride
	for i := 0; i < s.len; i++ {
		row := uintptr(i) * stride
		for _, m := range s.layout.members {
			if m.Field.size == 0 {
				continue
			}
			m.Field.Destroy(s.buf.At(row + m.Offset))
		}
	}
	s.buf.Release()
	s.len = 0
	s.capacity = 0
}
