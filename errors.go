package stockpile

import (
	"fmt"
	"reflect"
)

type LockedWorldError struct{}

func (e LockedWorldError) Error() string {
	return "world is currently locked"
}

type FieldNotFoundError struct {
	Field  Field
	Layout Layout
}

func (e FieldNotFoundError) Error() string {
	return fmt.Sprintf("field %v not found in layout %v", e.Field, e.Layout)
}

type FieldLimitError struct {
	Type reflect.Type
}

func (e FieldLimitError) Error() string {
	return fmt.Sprintf("cannot register %v: limit of %d field types reached", e.Type, MaxFields)
}

type CacheCapacityError struct {
	Capacity int
}

func (e CacheCapacityError) Error() string {
	return fmt.Sprintf("cache at maximum capacity (%d)", e.Capacity)
}
