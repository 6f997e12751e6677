package ecs

import "io"

// Storage is the component access handed to systems while they execute.
// It can read and modify the values an entity already has but cannot attach
// new component types or create entities; those changes go through Commands
// so that system membership stays consistent with the attached types.
type Storage struct {
	registry *ComponentRegistry
}

// NewStorage wraps registry in the restricted view systems execute against.
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{registry: registry}
}

// Has reports whether e has a component of type t.
func (s *Storage) Has(e Entity, t ComponentType) bool {
	return s.registry.Has(e, t)
}

// ComponentTypesOf returns a copy of the types attached to e.
func (s *Storage) ComponentTypesOf(e Entity) Signature {
	return s.registry.ComponentTypesOf(e)
}

// Registered reports whether a container exists for t.
func (s *Storage) Registered(t ComponentType) bool {
	return s.registry.Registered(t)
}

// Len returns the number of values stored for t.
func (s *Storage) Len(t ComponentType) int {
	return s.registry.Len(t)
}

// Types returns every registered component type, sorted by name.
func (s *Storage) Types() []ComponentType {
	return s.registry.Types()
}

// Dump writes every container and its entries to w.
func (s *Storage) Dump(w io.Writer) {
	s.registry.Dump(w)
}

func (s *Storage) componentRegistry() *ComponentRegistry {
	return s.registry
}

// WriteComponent replaces e's component of type T. It only replaces an
// existing value and reports false when e has no component of type T.
func WriteComponent[T any](s *Storage, e Entity, component T) bool {
	ptr, ok := GetComponent[T](s, e)
	if !ok {
		return false
	}
	*ptr = component
	return true
}
