package ecs

import (
	"sort"
)

// Globals holds named values that belong to the world rather than to any
// entity: configuration, counters, shared state read by several systems.
// Values are boxed on insertion, so GetGlobal hands out a pointer that
// modifies the stored value in place.
type Globals struct {
	values map[string]any
}

// NewGlobals creates an empty set of globals.
func NewGlobals() *Globals {
	return &Globals{values: make(map[string]any)}
}

// SetGlobal stores value under name, replacing whatever was there before,
// including a value of a different type.
func SetGlobal[T any](g *Globals, name string, value T) {
	g.values[name] = &value
}

// GetGlobal returns the value stored under name. It reports false when
// nothing is stored there or the stored value is not a T.
func GetGlobal[T any](g *Globals, name string) (*T, bool) {
	v, ok := g.values[name]
	if !ok {
		return nil, false
	}
	ptr, ok := v.(*T)
	return ptr, ok
}

// Has reports whether a value is stored under name.
func (g *Globals) Has(name string) bool {
	_, ok := g.values[name]
	return ok
}

// Delete removes the value stored under name and reports whether there was one.
func (g *Globals) Delete(name string) bool {
	if _, ok := g.values[name]; !ok {
		return false
	}
	delete(g.values, name)
	return true
}

// Len returns the number of stored values.
func (g *Globals) Len() int {
	return len(g.values)
}

// Names returns the stored names in sorted order.
func (g *Globals) Names() []string {
	names := make([]string, 0, len(g.values))
	for name := range g.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
