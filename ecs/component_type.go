package ecs

import (
	"reflect"
	"sort"
	"strings"
)

// ComponentType identifies the concrete Go type of a component.
// Two ComponentTypes are equal exactly when they describe the same type.
type ComponentType struct {
	typ reflect.Type
}

// TypeOf returns the ComponentType of T.
func TypeOf[T any]() ComponentType {
	return ComponentType{typ: reflect.TypeFor[T]()}
}

// TypeOfValue returns the ComponentType of a component value. Pointers
// resolve to the type they point to, so *Position and Position are the same
// component type.
func TypeOfValue(component any) ComponentType {
	t := reflect.TypeOf(component)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return ComponentType{typ: t}
}

// Reflect returns the underlying reflect.Type.
func (t ComponentType) Reflect() reflect.Type {
	return t.typ
}

// IsZero reports whether t was never initialized.
func (t ComponentType) IsZero() bool {
	return t.typ == nil
}

func (t ComponentType) String() string {
	if t.typ == nil {
		return "<nil>"
	}
	return t.typ.String()
}

type byTypeName []ComponentType

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }

// Signature is a set of component types. Systems declare one to select the
// entities they act on; the registry keeps one per entity.
//
// The zero value is an empty signature ready to use.
type Signature struct {
	types map[ComponentType]struct{}
}

// NewSignature builds a signature from the given types.
func NewSignature(types ...ComponentType) Signature {
	s := Signature{types: make(map[ComponentType]struct{}, len(types))}
	for _, t := range types {
		s.types[t] = struct{}{}
	}
	return s
}

// Has reports whether t is in the signature.
func (s Signature) Has(t ComponentType) bool {
	_, ok := s.types[t]
	return ok
}

// Len returns the number of types in the signature.
func (s Signature) Len() int {
	return len(s.types)
}

// IsSubsetOf reports whether every type of s is also in other.
// The empty signature is a subset of every signature.
func (s Signature) IsSubsetOf(other Signature) bool {
	if len(s.types) > len(other.types) {
		return false
	}
	for t := range s.types {
		if !other.Has(t) {
			return false
		}
	}
	return true
}

// Equal reports whether both signatures hold the same types.
func (s Signature) Equal(other Signature) bool {
	return len(s.types) == len(other.types) && s.IsSubsetOf(other)
}

// Types returns the types sorted by name.
func (s Signature) Types() []ComponentType {
	types := make([]ComponentType, 0, len(s.types))
	for t := range s.types {
		types = append(types, t)
	}
	sort.Sort(byTypeName(types))
	return types
}

// Clone returns an independent copy of s.
func (s Signature) Clone() Signature {
	return NewSignature(s.Types()...)
}

func (s Signature) String() string {
	types := s.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return "{" + strings.Join(names, ", ") + "}"
}

func (s *Signature) add(t ComponentType) {
	if s.types == nil {
		s.types = make(map[ComponentType]struct{})
	}
	s.types[t] = struct{}{}
}

func (s *Signature) remove(t ComponentType) {
	delete(s.types, t)
}
