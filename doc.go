/*
Package stockpile provides a runtime-typed, archetype-organized object store.

Entities are ad-hoc bags of typed component values whose shape is decided at
runtime. Entities with the same set of component types share an archetype, whose
rows are packed contiguously in one buffer for cache-friendly bulk iteration.

Core Concepts:

  - Field: A runtime descriptor of a component type (size, alignment, copy/move/destroy).
  - Layout: The alignment-correct placement of a set of fields within a row.
  - RowStore: A growable array of rows sharing one layout.
  - View: A cursor over rows exposing a chosen subset of fields.
  - World: Archetypes plus the entity to row mapping, answering queries.

Basic Usage:

	world := stockpile.Factory.NewWorld()

	// Define components
	position := stockpile.FactoryNewComponent[Position]()
	velocity := stockpile.FactoryNewComponent[Velocity]()

	// Create an entity and construct its fields
	_, row, _ := world.CreateEntity(world.Layout(position, velocity))
	view := row.Select(position, velocity)
	position.Emplace(view, Position{X: 1})
	velocity.Emplace(view, Velocity{X: 2})

	// Query every entity holding at least position and velocity
	for _, view := range world.Query(stockpile.Select(position, velocity)) {
		pos := position.Get(view)
		vel := velocity.Get(view)
		pos.X += vel.X
	}

A world is owned by one goroutine at a time. While a query is being ranged over
the world is locked: CreateEntity fails and EnqueueCreateEntity defers creation
until the query ends.
*/
package stockpile
