package stockpile

import (
	"context"
	"iter"

	"github.com/TheBitDrifter/mask"
	"github.com/google/uuid"
)

// EntityID identifies an entity. IDs start at 1 and are never reused.
type EntityID uint64

type World interface {
	ID() uuid.UUID
	CreateEntity(Layout) (EntityID, RawCursor, error)
	EnqueueCreateEntity(Layout, EntityInit) error
	Entity(EntityID) RawCursor
	Location(EntityID) (archetype, row int, ok bool)
	Layout(...Component) Layout
	Query(Selection) iter.Seq2[EntityID, View]
	ForEachChunk(context.Context, Selection, ChunkFunc) error
	Archetype(int) Archetype
	Archetypes() iter.Seq[Archetype]
	Len() int
	Clear() error
	Locked() bool
	AddLock(bit uint32)
	RemoveLock(bit uint32)
}

// EntityInit fills in a freshly created entity's row.
type EntityInit func(EntityID, RawCursor)

// ChunkFunc processes every entity of one matching archetype.
type ChunkFunc func(context.Context, Chunk) error

type Archetype interface {
	mask.Maskable
	ID() int
	Layout() Layout
	Len() int
	Cap() int
	Entity(row int) EntityID
	Entities() []EntityID
	Row(int) RawCursor
	WithComponent(Component) Layout
	WithComponents(...Component) Layout
}

type Query interface {
	QueryNode
	And(items ...any) QueryNode
	Or(items ...any) QueryNode
	Not(items ...any) QueryNode
}

type QueryNode interface {
	Evaluate(archetype Archetype) bool
}

type iCursor interface {
	Entities() iter.Seq2[EntityID, RawCursor]
	Next() bool
}

type Cache[K comparable, T any] interface {
	GetIndex(K) (int, bool)
	GetItem(int) *T
	GetItem32(uint32) *T
	Register(K, T) (int, error)
	Len() int
}
