package stockpile

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEachChunkVisitsEachArchetypeOnce(t *testing.T) {
	pos := FactoryNewComponent[Position]()
	vel := FactoryNewComponent[Velocity]()
	w := Factory.NewWorld()

	createEntities(t, w, 8, pos, vel)
	createEntities(t, w, 5, pos, vel, FieldFor[Health]())
	createEntities(t, w, 3, pos)
	createEntities(t, w, 0, pos, vel, FieldFor[Flag]())

	var (
		mu      sync.Mutex
		visited = map[int]int{}
	)
	err := w.ForEachChunk(context.Background(), Select(pos, vel), func(ctx context.Context, c Chunk) error {
		for _, view := range c.All() {
			p := pos.Get(view)
			p.X += 1
			vel.Get(view).Y = 2
		}
		mu.Lock()
		visited[c.Archetype().ID()] += c.Len()
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, map[int]int{0: 8, 1: 5}, visited)
	assert.False(t, w.Locked())

	for _, view := range w.Query(Select(pos, vel)) {
		assert.Equal(t, 1.0, pos.Get(view).X)
		assert.Equal(t, 2.0, vel.Get(view).Y)
	}
}

func TestForEachChunkLocksWorld(t *testing.T) {
	a := FieldFor[ComponentA]()
	w := Factory.NewWorld()
	createEntities(t, w, 2, a)

	err := w.ForEachChunk(context.Background(), Select(a), func(context.Context, Chunk) error {
		if !w.Locked() {
			return errors.New("world not locked")
		}
		return nil
	})
	require.NoError(t, err)
	assert.False(t, w.Locked())
}

func TestForEachChunkError(t *testing.T) {
	a := FieldFor[ComponentA]()
	w := Factory.NewWorld()
	createEntities(t, w, 2, a)
	createEntities(t, w, 2, a, FieldFor[ComponentB]())
	createEntities(t, w, 2, a, FieldFor[ComponentC]())

	prev := Config.Parallelism()
	Config.SetParallelism(1)
	t.Cleanup(func() { Config.SetParallelism(prev) })

	errBoom := errors.New("boom")
	var calls atomic.Int32
	err := w.ForEachChunk(context.Background(), Select(a), func(ctx context.Context, c Chunk) error {
		calls.Add(1)
		if c.Archetype().ID() == 0 {
			return errBoom
		}
		return nil
	})

	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "chunk 0")
	assert.Equal(t, int32(1), calls.Load(), "later chunks see the cancelled context")
	assert.False(t, w.Locked())
}

func TestForEachChunkCancelled(t *testing.T) {
	a := FieldFor[ComponentA]()
	w := Factory.NewWorld()
	createEntities(t, w, 2, a)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.ForEachChunk(ctx, Select(a), func(context.Context, Chunk) error {
		t.Error("chunk processed after cancellation")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChunkAllBreak(t *testing.T) {
	a := FactoryNewComponent[ComponentA]()
	w := Factory.NewWorld()
	ids := createEntities(t, w, 6, a)

	err := w.ForEachChunk(context.Background(), Select(a), func(_ context.Context, c Chunk) error {
		var got []EntityID
		for id := range c.All() {
			got = append(got, id)
			if len(got) == 2 {
				break
			}
		}
		if len(got) != 2 || got[0] != ids[0] || got[1] != ids[1] {
			return errors.New("unexpected entities")
		}
		return nil
	})
	assert.NoError(t, err)
}
