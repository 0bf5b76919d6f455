package stockpile

import (
	"context"
	"fmt"
	"iter"

	"golang.org/x/sync/errgroup"
)

// Chunk is the slice of a query that lives in one archetype. Chunks of
// different archetypes never share memory, so they may be processed in
// parallel.
type Chunk struct {
	archetype  *archetype
	components []Component
}

func (c Chunk) Archetype() Archetype {
	return c.archetype
}

func (c Chunk) Len() int {
	return c.archetype.Len()
}

// All yields every entity of the chunk with a view bound to the selected
// fields.
func (c Chunk) All() iter.Seq2[EntityID, View] {
	return func(yield func(EntityID, View) bool) {
		n := c.archetype.Len()
		if n == 0 {
			return
		}
		view := c.archetype.store.Begin().Select(c.components...)
		for i := 0; i < n; i++ {
			if !yield(c.archetype.entities[i], view) {
				return
			}
			view.Advance()
		}
	}
}

// ForEachChunk calls fn once per archetype matching sel, running up to
// Config.Parallelism calls at a time. The world is locked until every call has
// returned. fn must only touch its own chunk. The first error cancels ctx for
// the remaining calls and is returned.
func (w *world) ForEachChunk(ctx context.Context, sel Selection, fn ChunkFunc) error {
	matched := w.match(sel)

	w.acquire()
	defer w.release()

	g, ctx := errgroup.WithContext(ctx)
	if n := Config.Parallelism(); n > 0 {
		g.SetLimit(n)
	}
	for _, a := range matched {
		if a.Len() == 0 {
			continue
		}
		chunk := Chunk{archetype: a, components: sel.components}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(ctx, chunk); err != nil {
				return fmt.Errorf("chunk %d: %w", chunk.archetype.id, err)
			}
			return nil
		})
	}
	return g.Wait()
}
