package ecs

import (
	"iter"

	"github.com/kamstrup/intmap"
	"github.com/rotisserie/eris"
)

// DefaultMaxEntities is the pool capacity used when none is configured.
const DefaultMaxEntities = 100

// Entity is an opaque, recyclable identifier. It carries no data of its own
// and is unique only while it is taken from the pool.
type Entity uint32

// EntityPool hands out entities from a fixed range and takes them back.
// Returned ids go onto a free list and are reissued most-recent first.
type EntityPool struct {
	free     []Entity
	taken    *intmap.Set[Entity]
	capacity int
}

// NewEntityPool creates a pool holding the ids [0, capacity).
// A non-positive capacity falls back to DefaultMaxEntities.
func NewEntityPool(capacity int) *EntityPool {
	if capacity <= 0 {
		capacity = DefaultMaxEntities
	}

	free := make([]Entity, capacity)
	// Lowest ids sit at the top of the stack so a fresh pool issues 0, 1, 2...
	for i := range free {
		free[i] = Entity(capacity - 1 - i)
	}

	return &EntityPool{
		free:     free,
		taken:    intmap.NewSet[Entity](capacity),
		capacity: capacity,
	}
}

// Take removes an id from the available set and marks it taken.
func (p *EntityPool) Take() (Entity, error) {
	if len(p.free) == 0 {
		return 0, eris.Wrapf(ErrPoolExhausted, "all %d entities are taken", p.capacity)
	}

	e := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.taken.Add(e)
	return e, nil
}

// Return moves e from taken back to available.
func (p *EntityPool) Return(e Entity) error {
	if !p.taken.Del(e) {
		return eris.Wrapf(ErrEntityNotTaken, "return entity %d", e)
	}
	p.free = append(p.free, e)
	return nil
}

// Alive reports whether e is currently taken.
func (p *EntityPool) Alive(e Entity) bool {
	return p.taken.Has(e)
}

// Len returns the number of taken entities.
func (p *EntityPool) Len() int {
	return p.taken.Len()
}

// Available returns the number of entities that can still be taken.
func (p *EntityPool) Available() int {
	return len(p.free)
}

// Cap returns the fixed capacity of the pool.
func (p *EntityPool) Cap() int {
	return p.capacity
}

// Entities iterates over the taken entities in no particular order.
// The pool must not be modified while iterating.
func (p *EntityPool) Entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		p.taken.ForEach(func(e Entity) bool {
			return yield(e)
		})
	}
}
