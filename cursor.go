package stockpile

import "iter"

var _ iCursor = &Cursor{}

// Cursor walks every entity of the archetypes matching a query node, one entity
// per call to Next. The world is locked from the first Next until the walk ends
// or Reset is called.
type Cursor struct {
	query QueryNode
	world *world

	currentArchetype *archetype
	storageIndex     int
	entityIndex      int
	remaining        int

	initialized     bool
	matchedStorages []*archetype
}

func newCursor(query QueryNode, w World) *Cursor {
	return &Cursor{
		query: query,
		world: w.(*world),
	}
}

// Next positions the cursor on the next matching entity. The first call
// starts the walk and locks the world; the call that returns false unlocks it,
// after which the cursor can walk again.
func (c *Cursor) Next() bool {
	c.initialize()
	for c.entityIndex >= c.remaining {
		if !c.nextArchetype() {
			c.Reset()
			return false
		}
	}
	c.entityIndex++
	return true
}

// nextArchetype moves to the following matched archetype, if any.
func (c *Cursor) nextArchetype() bool {
	if c.storageIndex+1 >= len(c.matchedStorages) {
		return false
	}
	c.storageIndex++
	c.currentArchetype = c.matchedStorages[c.storageIndex]
	c.remaining = c.currentArchetype.Len()
	c.entityIndex = 0
	return true
}

// Entities yields each matching entity with a cursor to its row. Breaking out
// of the loop resets the cursor.
func (c *Cursor) Entities() iter.Seq2[EntityID, RawCursor] {
	return func(yield func(EntityID, RawCursor) bool) {
		defer c.Reset()
		for c.Next() {
			if !yield(c.Entity(), c.Row()) {
				return
			}
		}
	}
}

func (c *Cursor) initialize() {
	if c.initialized {
		return
	}
	c.matchedStorages = c.world.match(c.query)
	if len(c.matchedStorages) > 0 {
		c.storageIndex = 0
		c.currentArchetype = c.matchedStorages[0]
		c.remaining = c.currentArchetype.Len()
	}
	c.initialized = true
	c.world.acquire()
}

// Reset ends the walk and unlocks the world.
func (c *Cursor) Reset() {
	wasInitialized := c.initialized
	c.storageIndex = 0
	c.entityIndex = 0
	c.remaining = 0
	c.currentArchetype = nil
	c.matchedStorages = nil
	c.initialized = false
	if wasInitialized {
		c.world.release()
	}
}

// Entity returns the entity the cursor is positioned on.
func (c *Cursor) Entity() EntityID {
	return c.currentArchetype.entities[c.entityIndex-1]
}

// Row returns a cursor to the current entity's row.
func (c *Cursor) Row() RawCursor {
	if c.currentArchetype == nil || c.entityIndex == 0 {
		return RawCursor{}
	}
	return c.currentArchetype.store.At(c.entityIndex - 1)
}

func (c *Cursor) CurrentArchetype() Archetype {
	return c.currentArchetype
}

func (c *Cursor) RemainingInArchetype() int {
	return c.remaining - c.entityIndex
}

// TotalMatched counts the entities the walk will visit. It does not start the
// walk.
func (c *Cursor) TotalMatched() int {
	matched := c.matchedStorages
	if !c.initialized {
		matched = c.world.match(c.query)
	}
	total := 0
	for _, arch := range matched {
		total += arch.Len()
	}
	return total
}
