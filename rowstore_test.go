package stockpile

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowStoreCapacityDoubling(t *testing.T) {
	store := NewRowStore(NewLayout(FieldFor[Position]()))
	require.Zero(t, store.Len())
	require.Zero(t, store.Cap())

	wantCaps := []int{1, 2, 4, 4, 8, 8, 8, 8, 16}
	for i, want := range wantCaps {
		store.PushBack()
		assert.Equal(t, i+1, store.Len())
		assert.Equal(t, want, store.Cap(), "capacity after %d pushes", i+1)
	}
}

func TestRowStoreReserve(t *testing.T) {
	store := NewRowStore(NewLayout(FieldFor[Position]()))

	store.Reserve(5)
	assert.Equal(t, 8, store.Cap())
	assert.Zero(t, store.Len())

	store.Reserve(3)
	assert.Equal(t, 8, store.Cap(), "reserving less is a no-op")
}

func TestRowStoreGrowthPreservesRows(t *testing.T) {
	a := FactoryNewComponent[ComponentA]()
	c := FactoryNewComponent[ComponentC]()
	inv := FactoryNewComponent[Inventory]()

	for _, n := range []int{1, 4, 64} {
		t.Run(fmt.Sprintf("%d rows", n), func(t *testing.T) {
			store := NewRowStore(NewLayout(a, c, inv))
			for store.Len() < n {
				i := store.Len()
				view := store.PushBack().Select(a, c, inv)
				a.Emplace(view, ComponentA{Value: int32(i)})
				c.Emplace(view, ComponentC{Value: fmt.Sprintf("row %d", i)})
				inv.Emplace(view, Inventory{Items: []int{i, i * 2}})
			}

			before := store.Cap()
			for store.Len() < before+1 {
				store.PushBack()
			}
			require.GreaterOrEqual(t, store.Cap(), 2*before)

			runtime.GC()

			for i := 0; i < n; i++ {
				view := store.At(i).Select(a, c, inv)
				assert.Equal(t, int32(i), a.Get(view).Value)
				assert.Equal(t, fmt.Sprintf("row %d", i), c.Get(view).Value)
				assert.Equal(t, []int{i, i * 2}, inv.Get(view).Items)
			}
		})
	}
}

func TestRowStoreFreshRowsAreZero(t *testing.T) {
	c := FactoryNewComponent[ComponentC]()
	store := NewRowStore(NewLayout(c))

	for range 10 {
		view := store.PushBack().Select(c)
		assert.Equal(t, ComponentC{}, *c.Get(view))
	}
}

func TestRowStoreCursors(t *testing.T) {
	pos := FactoryNewComponent[Position]()
	store := NewRowStore(NewLayout(pos))
	for i := range 5 {
		view := store.PushBack().Select(pos)
		pos.Emplace(view, Position{X: float64(i)})
	}

	t.Run("end sentinel", func(t *testing.T) {
		assert.True(t, store.At(store.Len()).Equal(store.End()))
		assert.False(t, store.Begin().Equal(store.End()))
		assert.True(t, store.At(0).Next().Equal(store.At(1)))
	})

	t.Run("view walk", func(t *testing.T) {
		begin, end := store.View(pos)
		x := 0.0
		for it := begin; !it.Equal(end); it.Advance() {
			assert.Equal(t, x, pos.Get(it).X)
			x++
		}
		assert.Equal(t, 5.0, x)
	})

	t.Run("all", func(t *testing.T) {
		count := 0
		for i, row := range store.All() {
			assert.Equal(t, i, row.Row())
			assert.Equal(t, float64(i), pos.Get(row.Select(pos)).X)
			count++
		}
		assert.Equal(t, 5, count)
	})

	t.Run("out of range", func(t *testing.T) {
		assert.Panics(t, func() { store.At(-1) })
		assert.Panics(t, func() { store.At(store.Len() + 1) })
	})
}

func TestRowStoreGrowthSkipsDestroyHooks(t *testing.T) {
	h := FactoryNewComponent[Handle]()
	store := NewRowStore(NewLayout(h))
	destroyed := 0

	for range 9 {
		view := store.PushBack().Select(h)
		h.Emplace(view, Handle{Destroyed: &destroyed})
	}
	assert.Zero(t, destroyed)

	store.Clear()
	assert.Equal(t, 9, destroyed)
	assert.Zero(t, store.Len())
	assert.Zero(t, store.Cap())
}

func TestRowStoreZeroStride(t *testing.T) {
	store := NewRowStore(NewLayout(FieldFor[Tag]()))
	for range 3 {
		row := store.PushBack()
		assert.False(t, row.IsNil())
	}
	assert.Equal(t, 3, store.Len())
	assert.Equal(t, uintptr(0), store.Layout().Stride())

	count := 0
	for range store.All() {
		count++
	}
	assert.Equal(t, 3, count)
}

func TestRowStoreZeroStrideViewWalk(t *testing.T) {
	tag := FactoryNewComponent[Tag]()
	store := NewRowStore(NewLayout(tag))
	for range 3 {
		store.PushBack()
	}

	begin, end := store.View(tag)
	assert.False(t, begin.Equal(end))

	walked := 0
	for it := begin; !it.Equal(end); it.Advance() {
		walked++
	}
	assert.Equal(t, store.Len(), walked)
	assert.True(t, store.At(store.Len()).Equal(store.End()))
	assert.False(t, store.At(0).Equal(store.At(1)))

	other := NewRowStore(NewLayout(tag))
	other.PushBack()
	assert.False(t, other.Begin().Equal(store.Begin()), "rows of different stores never compare equal")
}
