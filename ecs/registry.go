package ecs

import (
	"fmt"
	"io"
	"reflect"
	"sort"

	"github.com/rotisserie/eris"
)

// ComponentRegistry owns one storage container per registered component type
// and the index of which types each entity currently has. Each Coordinator
// has its own registry, so independent worlds never share component data.
type ComponentRegistry struct {
	storages map[ComponentType]iComponentStorage
	index    map[Entity]Signature
}

// ComponentReader is implemented by everything components can be read from.
type ComponentReader interface {
	componentRegistry() *ComponentRegistry
}

// ComponentStore is implemented by everything components can be attached to
// and detached from. The Coordinator checks entity liveness before an attach
// and updates system membership after every change; a bare registry does
// neither.
type ComponentStore interface {
	ComponentReader
	attach(e Entity) error
	changed(e Entity)
}

func (r *ComponentRegistry) componentRegistry() *ComponentRegistry { return r }
func (r *ComponentRegistry) attach(Entity) error                   { return nil }
func (r *ComponentRegistry) changed(Entity)                        {}

// NewComponentRegistry creates an empty component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		storages: make(map[ComponentType]iComponentStorage),
		index:    make(map[Entity]Signature),
	}
}

// RegisterComponent allocates an empty container for T. Registering the same
// type twice keeps the existing container and its values.
//
// Components can be structs or primitives but not pointers, maps, channels
// or functions; registering one of those panics.
func RegisterComponent[T any](s ComponentStore) ComponentType {
	r := s.componentRegistry()
	t := TypeOf[T]()
	switch t.typ.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func:
		panic("components cannot be pointers, maps, channels, or functions: " + t.String())
	}

	if _, ok := r.storages[t]; !ok {
		r.storages[t] = newComponentArray[T]()
	}
	return t
}

// storageFor resolves the typed container for T. The container under T's key
// is only ever created by RegisterComponent[T], so a failed assertion means
// the registry itself is broken.
func storageFor[T any](r *ComponentRegistry) (*componentArray[T], error) {
	t := TypeOf[T]()
	storage, ok := r.storages[t]
	if !ok {
		return nil, eris.Wrapf(ErrUnregisteredComponent, "component %s", t)
	}

	typed, ok := storage.(*componentArray[T])
	if !ok {
		panic(fmt.Sprintf("component storage for %s holds %s", t, storage.Type()))
	}
	return typed, nil
}

func mustStorageFor[T any](r *ComponentRegistry) *componentArray[T] {
	storage, err := storageFor[T](r)
	if err != nil {
		panic(err)
	}
	return storage
}

// AddComponent attaches component to e, replacing any value of the same type.
func AddComponent[T any](s ComponentStore, e Entity, component T) error {
	r := s.componentRegistry()
	storage, err := storageFor[T](r)
	if err != nil {
		return err
	}
	if err := s.attach(e); err != nil {
		return err
	}

	storage.Set(e, component)
	r.indexAdd(e, storage.Type())
	s.changed(e)
	return nil
}

// GetComponent returns a pointer to e's component of type T. The pointer may
// be used to modify the value in place. A missing component is reported as
// (nil, false).
//
// Looking up a type that was never registered panics.
func GetComponent[T any](reader ComponentReader, e Entity) (*T, bool) {
	return mustStorageFor[T](reader.componentRegistry()).Get(e)
}

// RemoveComponent detaches e's component of type T and returns it.
func RemoveComponent[T any](s ComponentStore, e Entity) (T, bool, error) {
	r := s.componentRegistry()
	storage, err := storageFor[T](r)
	if err != nil {
		var zero T
		return zero, false, err
	}

	component, ok := storage.Take(e)
	if ok {
		r.indexRemove(e, storage.Type())
		s.changed(e)
	}
	return component, ok, nil
}

// ComponentTypesOf returns a copy of the set of types attached to e.
// Entities the registry has never seen have an empty set.
func (r *ComponentRegistry) ComponentTypesOf(e Entity) Signature {
	return r.index[e].Clone()
}

// Has reports whether e has a component of type t.
func (r *ComponentRegistry) Has(e Entity, t ComponentType) bool {
	return r.index[e].Has(t)
}

// Registered reports whether a container exists for t.
func (r *ComponentRegistry) Registered(t ComponentType) bool {
	_, ok := r.storages[t]
	return ok
}

// Types returns every registered component type, sorted by name.
func (r *ComponentRegistry) Types() []ComponentType {
	types := make([]ComponentType, 0, len(r.storages))
	for t := range r.storages {
		types = append(types, t)
	}
	sort.Sort(byTypeName(types))
	return types
}

// Len returns the number of values stored for t.
func (r *ComponentRegistry) Len(t ComponentType) int {
	storage, ok := r.storages[t]
	if !ok {
		return 0
	}
	return storage.Len()
}

// Dump writes every container and its entries to w, types sorted by name.
func (r *ComponentRegistry) Dump(w io.Writer) {
	for _, t := range r.Types() {
		r.storages[t].Dump(w)
	}
}

// addAny attaches a component whose type is only known at runtime.
func (r *ComponentRegistry) addAny(e Entity, component any) (ComponentType, error) {
	if component == nil {
		return ComponentType{}, eris.Wrapf(ErrNilComponent, "add to entity %d", e)
	}

	t := TypeOfValue(component)
	storage, ok := r.storages[t]
	if !ok {
		return t, eris.Wrapf(ErrUnregisteredComponent, "component %s", t)
	}
	if !storage.SetAny(e, component) {
		return t, eris.Wrapf(ErrNilComponent, "add %s to entity %d", t, e)
	}

	r.indexAdd(e, t)
	return t, nil
}

// removeType detaches e's component of type t.
func (r *ComponentRegistry) removeType(e Entity, t ComponentType) (bool, error) {
	storage, ok := r.storages[t]
	if !ok {
		return false, eris.Wrapf(ErrUnregisteredComponent, "component %s", t)
	}

	if !storage.Remove(e) {
		return false, nil
	}
	r.indexRemove(e, t)
	return true, nil
}

// removeAll drops every component of e and returns the types it had.
func (r *ComponentRegistry) removeAll(e Entity) Signature {
	types, ok := r.index[e]
	if !ok {
		return Signature{}
	}

	for t := range types.types {
		r.storages[t].Remove(e)
	}
	delete(r.index, e)
	return types
}

// typesOf returns the live type set of e. Callers must not modify it.
func (r *ComponentRegistry) typesOf(e Entity) Signature {
	return r.index[e]
}

func (r *ComponentRegistry) indexAdd(e Entity, t ComponentType) {
	types := r.index[e]
	types.add(t)
	r.index[e] = types
}

func (r *ComponentRegistry) indexRemove(e Entity, t ComponentType) {
	types, ok := r.index[e]
	if !ok {
		return
	}
	types.remove(t)
	if types.Len() == 0 {
		delete(r.index, e)
	}
}
