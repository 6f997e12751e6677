package ecs

import (
	"iter"
	"sync"
	"unsafe"
)

// Query is an embeddable system base that derives the system signature from
// a view struct. Embedding it provides Signature, Accept and Reject, so a
// system only has to implement Execute:
//
//	type MovementSystem struct {
//		ecs.Query[struct {
//			*Position
//			*Velocity
//		}]
//	}
//
//	func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
//		for _, item := range s.Iter(frame.Storage) {
//			item.Position.X += item.Velocity.DX
//		}
//	}
type Query[T any] struct {
	Members

	once   sync.Once
	layout viewLayout
}

func (q *Query[T]) ensureLayout() *viewLayout {
	q.once.Do(func() {
		q.layout = layoutOf[T]()
	})
	return &q.layout
}

// Signature returns the required component types of T.
func (q *Query[T]) Signature() Signature {
	return q.ensureLayout().required.Clone()
}

// Iter yields every member together with its populated view struct.
// Members are visited in no particular order.
func (q *Query[T]) Iter(reader ComponentReader) iter.Seq2[Entity, T] {
	layout := q.ensureLayout()
	registry := reader.componentRegistry()

	return func(yield func(Entity, T) bool) {
		var result T
		for e := range q.All() {
			if !layout.fill(registry, e, unsafe.Pointer(&result)) {
				continue
			}
			if !yield(e, result) {
				return
			}
		}
	}
}

// Values yields only the view structs of the members.
func (q *Query[T]) Values(reader ComponentReader) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range q.Iter(reader) {
			if !yield(value) {
				return
			}
		}
	}
}

// Get returns the view struct for e if e is a member.
func (q *Query[T]) Get(reader ComponentReader, e Entity) *T {
	if !q.Contains(e) {
		return nil
	}
	var result T
	if !q.ensureLayout().fill(reader.componentRegistry(), e, unsafe.Pointer(&result)) {
		return nil
	}
	return &result
}
