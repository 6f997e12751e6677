package ecs

import (
	"fmt"
	"io"
	"iter"
	"slices"

	"github.com/kamstrup/intmap"
)

const initialStorageCapacity = 64

// iComponentStorage is a type-erased per-type component container.
type iComponentStorage interface {
	Type() ComponentType
	SetAny(e Entity, item any) bool
	GetAny(e Entity) (any, bool)
	Remove(e Entity) bool
	Has(e Entity) bool
	Len() int
	Entities() iter.Seq[Entity]
	Dump(w io.Writer)
}

// componentArray maps entities to values of one component type. Values are
// boxed so a lookup hands out a pointer that stays valid until removal.
type componentArray[T any] struct {
	typ        ComponentType
	components *intmap.Map[Entity, *T]
}

func newComponentArray[T any]() *componentArray[T] {
	return &componentArray[T]{
		typ:        TypeOf[T](),
		components: intmap.New[Entity, *T](initialStorageCapacity),
	}
}

func (a *componentArray[T]) Type() ComponentType {
	return a.typ
}

// Set inserts or replaces the value for e.
func (a *componentArray[T]) Set(e Entity, component T) {
	if ptr, ok := a.components.Get(e); ok {
		*ptr = component
		return
	}
	a.components.Put(e, &component)
}

// GetAny returns the boxed *T stored for e.
func (a *componentArray[T]) GetAny(e Entity) (any, bool) {
	ptr, ok := a.components.Get(e)
	if !ok {
		return nil, false
	}
	return ptr, true
}

// SetAny accepts either a T or a *T. It returns false for any other type.
func (a *componentArray[T]) SetAny(e Entity, item any) bool {
	switch v := item.(type) {
	case T:
		a.Set(e, v)
	case *T:
		if v == nil {
			return false
		}
		a.Set(e, *v)
	default:
		return false
	}
	return true
}

// Get returns the stored value for e.
func (a *componentArray[T]) Get(e Entity) (*T, bool) {
	return a.components.Get(e)
}

// Take removes the value for e and returns it.
func (a *componentArray[T]) Take(e Entity) (T, bool) {
	ptr, ok := a.components.Get(e)
	if !ok {
		var zero T
		return zero, false
	}
	a.components.Del(e)
	return *ptr, true
}

func (a *componentArray[T]) Remove(e Entity) bool {
	return a.components.Del(e)
}

func (a *componentArray[T]) Has(e Entity) bool {
	return a.components.Has(e)
}

func (a *componentArray[T]) Len() int {
	return a.components.Len()
}

func (a *componentArray[T]) Entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		a.components.ForEach(func(e Entity, _ *T) bool {
			return yield(e)
		})
	}
}

func (a *componentArray[T]) Dump(w io.Writer) {
	entities := slices.Sorted(a.Entities())
	fmt.Fprintf(w, "%s (%d):\n", a.typ, len(entities))
	for _, e := range entities {
		c, _ := a.components.Get(e)
		fmt.Fprintf(w, "  entity %d: %+v\n", e, *c)
	}
}
