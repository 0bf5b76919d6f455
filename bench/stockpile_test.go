package bench

import (
	"context"
	"testing"

	"github.com/TheBitDrifter/stockpile"
)

const (
	nPos    = 9000
	nPosVel = 1000
)

type Position struct {
	X float64
	Y float64
}

type Velocity struct {
	X float64
	Y float64
}

func setupStockpile() (stockpile.World, stockpile.AccessibleComponent[Position], stockpile.AccessibleComponent[Velocity]) {
	position := stockpile.FactoryNewComponent[Position]()
	velocity := stockpile.FactoryNewComponent[Velocity]()
	world := stockpile.Factory.NewWorld()

	posVel := world.Layout(position, velocity)
	for range nPosVel {
		world.CreateEntity(posVel)
	}
	pos := world.Layout(position)
	for range nPos {
		world.CreateEntity(pos)
	}
	return world, position, velocity
}

func BenchmarkIterStockpileQuery(b *testing.B) {
	b.StopTimer()
	world, position, velocity := setupStockpile()
	sel := stockpile.Select(position, velocity)
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		for _, view := range world.Query(sel) {
			pos := position.Get(view)
			vel := velocity.Get(view)
			pos.X += vel.X
			pos.Y += vel.Y
		}
	}
}

func BenchmarkIterStockpileCursor(b *testing.B) {
	b.StopTimer()
	world, position, velocity := setupStockpile()
	query := stockpile.Factory.NewQuery()
	node := query.And(velocity, position)
	cursor := stockpile.Factory.NewCursor(node, world)
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		for cursor.Next() {
			pos := position.GetFromCursor(cursor)
			vel := velocity.GetFromCursor(cursor)
			pos.X += vel.X
			pos.Y += vel.Y
		}
	}
}

func BenchmarkIterStockpileChunks(b *testing.B) {
	b.StopTimer()
	world, position, velocity := setupStockpile()
	sel := stockpile.Select(position, velocity)
	ctx := context.Background()
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		world.ForEachChunk(ctx, sel, func(_ context.Context, c stockpile.Chunk) error {
			for _, view := range c.All() {
				pos := position.Get(view)
				vel := velocity.Get(view)
				pos.X += vel.X
				pos.Y += vel.Y
			}
			return nil
		})
	}
}

func BenchmarkCreateStockpile(b *testing.B) {
	position := stockpile.FactoryNewComponent[Position]()
	velocity := stockpile.FactoryNewComponent[Velocity]()

	for i := 0; i < b.N; i++ {
		world := stockpile.Factory.NewWorld()
		layout := world.Layout(position, velocity)
		for range nPosVel {
			_, row, _ := world.CreateEntity(layout)
			velocity.Emplace(row.Select(velocity), Velocity{X: 1, Y: 1})
		}
	}
}
