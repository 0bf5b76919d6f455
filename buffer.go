package stockpile

import (
	"reflect"
	"unsafe"
)

// Buffer exclusively owns one heap region, or none when empty.
//
// A Buffer knows nothing about the values living inside it: releasing it never
// runs destructors. Whoever constructed values in it must destroy them first.
// Copying a Buffer value aliases the region; use Take to transfer ownership.
type Buffer struct {
	ptr unsafe.Pointer
	len uintptr
}

// Allocate returns a buffer of n pointer-free bytes aligned to 8. Zero yields
// an empty buffer.
func Allocate(n uintptr) Buffer {
	if n == 0 {
		return Buffer{}
	}
	words := make([]uint64, (n+7)/8)
	return Buffer{ptr: unsafe.Pointer(unsafe.SliceData(words)), len: n}
}

// AllocateRows returns a zeroed buffer of rows*l.Stride() bytes, shaped as rows
// of l so component values holding pointers stay visible to the collector.
func AllocateRows(l Layout, rows int) Buffer {
	n := uintptr(rows) * l.stride
	if n == 0 {
		return Buffer{}
	}
	block := reflect.MakeSlice(reflect.SliceOf(l.shape), rows, rows)
	return Buffer{ptr: block.UnsafePointer(), len: n}
}

// Take transfers ownership of the region to the returned buffer and leaves b
// empty.
func (b *Buffer) Take() Buffer {
	taken := *b
	*b = Buffer{}
	return taken
}

// Release drops the region unconditionally.
func (b *Buffer) Release() {
	*b = Buffer{}
}

func (b Buffer) Len() uintptr {
	return b.len
}

func (b Buffer) Empty() bool {
	return b.ptr == nil
}

func (b Buffer) Pointer() unsafe.Pointer {
	return b.ptr
}

// At returns the address off bytes into the region.
func (b Buffer) At(off uintptr) unsafe.Pointer {
	return unsafe.Add(b.ptr, off)
}

// Rows returns a cursor at the first row of the buffer interpreted as rows of l.
func (b Buffer) Rows(l *Layout) RawCursor {
	return RawCursor{base: b.ptr, layout: l}
}
