package ecs

import (
	"fmt"
	"iter"
	"reflect"
	"unsafe"
)

// iface represents the internal memory layout of an interface{}.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

type viewField struct {
	typ      ComponentType
	offset   uintptr
	optional bool
}

// viewLayout is the parsed shape of a view struct.
type viewLayout struct {
	fields   []viewField
	required Signature
}

// layoutOf parses T, which must be a struct whose fields are all pointers to
// component types. Embedded fields are always required. Named fields can be
// marked as optional with the `ecs:"optional"` struct tag.
func layoutOf[T any]() viewLayout {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	layout := viewLayout{fields: make([]viewField, 0, structType.NumField())}
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if field.Type.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types")
		}

		isOptional := false
		if tag := field.Tag.Get("ecs"); tag != "" && !field.Anonymous {
			if tag != "optional" {
				panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
			}
			isOptional = true
		}

		t := ComponentType{typ: field.Type.Elem()}
		layout.fields = append(layout.fields, viewField{typ: t, offset: field.Offset, optional: isOptional})
		if !isOptional {
			layout.required.add(t)
		}
	}
	return layout
}

// fill points every field of the struct at structPtr to e's components.
func (l *viewLayout) fill(r *ComponentRegistry, e Entity, structPtr unsafe.Pointer) bool {
	for _, f := range l.fields {
		fieldPtr := unsafe.Pointer(uintptr(structPtr) + f.offset)

		storage, ok := r.storages[f.typ]
		if !ok {
			panic(fmt.Sprintf("view over unregistered component %s", f.typ))
		}

		component, ok := storage.GetAny(e)
		if !ok {
			if !f.optional {
				return false
			}
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}
		*(*unsafe.Pointer)(fieldPtr) = (*iface)(unsafe.Pointer(&component)).data
	}
	return true
}

// View reads several components of one entity at once. T is a struct of
// pointer fields, one per component type:
//
//	view := ecs.NewView[struct {
//		*Position
//		*Velocity
//		Name *Name `ecs:"optional"`
//	}](world)
//
// The pointers refer to the stored values, so writes through them modify the
// components in place.
type View[T any] struct {
	registry *ComponentRegistry
	layout   viewLayout
}

// NewView creates a view over reader. It panics if T is not a struct of
// pointer fields.
func NewView[T any](reader ComponentReader) *View[T] {
	return &View[T]{
		registry: reader.componentRegistry(),
		layout:   layoutOf[T](),
	}
}

// Signature returns the required component types of the view.
func (v *View[T]) Signature() Signature {
	return v.layout.required.Clone()
}

// Fill populates ptr with e's components. It returns false if e is missing
// a required component. Missing optional components are set to nil.
func (v *View[T]) Fill(e Entity, ptr *T) bool {
	return v.layout.fill(v.registry, e, unsafe.Pointer(ptr))
}

// Get returns a populated view struct for e, or nil if e is missing a
// required component.
func (v *View[T]) Get(e Entity) *T {
	var result T
	if !v.Fill(e, &result) {
		return nil
	}
	return &result
}

// Iter yields the populated view struct for every entity in entities that
// has all required components.
func (v *View[T]) Iter(entities iter.Seq[Entity]) iter.Seq2[Entity, T] {
	return func(yield func(Entity, T) bool) {
		var result T
		for e := range entities {
			if !v.Fill(e, &result) {
				continue
			}
			if !yield(e, result) {
				return
			}
		}
	}
}

// Components flattens data into component values for Commands.Spawn. Nil
// optional fields are skipped; a nil required field panics.
func (v *View[T]) Components(data T) []any {
	structPtr := unsafe.Pointer(&data)

	components := make([]any, 0, len(v.layout.fields))
	for _, f := range v.layout.fields {
		componentPtr := *(*unsafe.Pointer)(unsafe.Pointer(uintptr(structPtr) + f.offset))
		if componentPtr == nil {
			if !f.optional {
				panic("required component " + f.typ.String() + " is nil")
			}
			continue
		}
		components = append(components, reflect.NewAt(f.typ.typ, componentPtr).Elem().Interface())
	}
	return components
}
