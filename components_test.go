package stockpile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Test component types
type ComponentA struct {
	Value int32
}

type ComponentB struct {
	Value float64
}

type ComponentC struct {
	Value string
}

type Position struct {
	X, Y float64
}

type Velocity struct {
	X, Y float64
}

type Health struct {
	Current, Max int
}

type Moveable struct {
	Value int
}

type Flag struct {
	On bool
}

type Counter struct {
	N uint16
}

type Tag struct{}

// Inventory copies deeply.
type Inventory struct {
	Items []int
}

func (i Inventory) Clone() Inventory {
	return Inventory{Items: append([]int(nil), i.Items...)}
}

// Handle counts how often it has been destroyed.
type Handle struct {
	Destroyed *int
}

func (h *Handle) Destroy() {
	if h.Destroyed != nil {
		*h.Destroyed++
	}
}

func requireFieldNotFound(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected a panic")
		_, ok := r.(FieldNotFoundError)
		require.Truef(t, ok, "panic value %v is not a FieldNotFoundError", r)
	}()
	fn()
}
