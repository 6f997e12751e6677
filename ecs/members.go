package ecs

import (
	"iter"
	"slices"

	"github.com/kamstrup/intmap"
)

// Members is the set of entities a system currently acts on. Embed it in a
// system struct to get the Accept and Reject methods the System interface
// requires.
//
// The zero value is an empty set ready to use.
type Members struct {
	set *intmap.Set[Entity]
}

// Accept adds e to the set.
func (m *Members) Accept(e Entity) {
	if m.set == nil {
		m.set = intmap.NewSet[Entity](initialStorageCapacity)
	}
	m.set.Add(e)
}

// Reject removes e from the set.
func (m *Members) Reject(e Entity) {
	if m.set == nil {
		return
	}
	m.set.Del(e)
}

// Contains reports whether e is in the set.
func (m *Members) Contains(e Entity) bool {
	return m.set != nil && m.set.Has(e)
}

// Len returns the number of entities in the set.
func (m *Members) Len() int {
	if m.set == nil {
		return 0
	}
	return m.set.Len()
}

// All iterates over the set in no particular order. Systems must not rely on
// the order in which entities are visited.
func (m *Members) All() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		if m.set == nil {
			return
		}
		m.set.ForEach(func(e Entity) bool {
			return yield(e)
		})
	}
}

// Slice returns the members sorted by id.
func (m *Members) Slice() []Entity {
	return slices.Sorted(m.All())
}
