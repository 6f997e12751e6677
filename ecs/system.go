package ecs

import (
	"iter"
	"reflect"
	"time"

	"github.com/rotisserie/eris"
)

// System represents a behavior that operates on every entity whose attached
// component types include the system's signature.
//
// The registry calls Accept and Reject as entities start and stop matching;
// embedding Members provides both. Execute runs once per step with the frame
// for that step. It may read and modify existing components through
// frame.Storage but must route structural changes (new entities, new or
// removed component types) through frame.Commands.
type System interface {
	Signature() Signature
	Accept(e Entity)
	Reject(e Entity)
	Execute(frame *UpdateFrame)
}

// SystemType identifies a registered system by its concrete type.
type SystemType struct {
	typ reflect.Type
}

// SystemTypeOf returns the SystemType of sys. Pointer systems resolve to the
// type they point to.
func SystemTypeOf(sys System) SystemType {
	t := reflect.TypeOf(sys)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return SystemType{typ: t}
}

// Name returns the bare type name of the system.
func (t SystemType) Name() string {
	if t.typ == nil {
		return "<nil>"
	}
	return t.typ.Name()
}

func (t SystemType) String() string {
	if t.typ == nil {
		return "<nil>"
	}
	return t.typ.String()
}

type systemEntry struct {
	system    System
	typ       SystemType
	signature Signature
	members   Members
	stats     systemStatsInternal
}

func (s *systemEntry) accept(e Entity) {
	if s.members.Contains(e) {
		return
	}
	s.members.Accept(e)
	s.system.Accept(e)
}

func (s *systemEntry) reject(e Entity) {
	if !s.members.Contains(e) {
		return
	}
	s.members.Reject(e)
	s.system.Reject(e)
}

// update decides membership from e's current types. An entity without any
// component is never a member, not even of a system with an empty signature.
func (s *systemEntry) update(e Entity, types Signature) {
	if types.Len() > 0 && s.signature.IsSubsetOf(types) {
		s.accept(e)
	} else {
		s.reject(e)
	}
}

func (s *systemEntry) execute(frame *UpdateFrame) {
	start := time.Now()
	s.system.Execute(frame)
	s.stats.record(time.Since(start))
}

// SystemRegistry owns the registered systems and keeps each system's
// membership in step with the component types attached to entities.
type SystemRegistry struct {
	systems []*systemEntry
	byType  map[SystemType]*systemEntry
}

// NewSystemRegistry creates an empty system registry.
func NewSystemRegistry() *SystemRegistry {
	return &SystemRegistry{
		byType: make(map[SystemType]*systemEntry),
	}
}

// Register adds a system. Its signature is read once, here, and fixed for
// the lifetime of the registry. Entities that already have components are
// not evaluated; see Backfill.
func (r *SystemRegistry) Register(sys System) (SystemType, error) {
	if sys == nil {
		return SystemType{}, eris.Wrap(ErrNilSystem, "register system")
	}

	st := SystemTypeOf(sys)
	if _, exists := r.byType[st]; exists {
		return st, eris.Wrapf(ErrSystemAlreadyRegistered, "system %s", st)
	}

	entry := &systemEntry{
		system:    sys,
		typ:       st,
		signature: sys.Signature().Clone(),
		stats:     newSystemStats(st.Name()),
	}
	r.systems = append(r.systems, entry)
	r.byType[st] = entry
	return st, nil
}

// Backfill evaluates already existing entities against a single system.
func (r *SystemRegistry) Backfill(st SystemType, entities iter.Seq2[Entity, Signature]) error {
	entry, ok := r.byType[st]
	if !ok {
		return eris.Wrapf(ErrUnknownSystem, "backfill %s", st)
	}
	for e, types := range entities {
		entry.update(e, types)
	}
	return nil
}

// ComponentsChanged re-evaluates e against every system after its component
// types changed. Systems whose signature is a subset of types gain e, all
// others lose it. An empty types set removes e from every system.
func (r *SystemRegistry) ComponentsChanged(e Entity, types Signature) {
	for _, entry := range r.systems {
		entry.update(e, types)
	}
}

// EntityReturned removes e from every system.
func (r *SystemRegistry) EntityReturned(e Entity) {
	for _, entry := range r.systems {
		entry.reject(e)
	}
}

// Apply executes one system against frame.
func (r *SystemRegistry) Apply(st SystemType, frame *UpdateFrame) error {
	entry, ok := r.byType[st]
	if !ok {
		return eris.Wrapf(ErrUnknownSystem, "apply %s", st)
	}
	entry.execute(frame)
	return nil
}

// ApplyAll executes every system against frame in registration order.
// Systems must not depend on that order.
func (r *SystemRegistry) ApplyAll(frame *UpdateFrame) {
	for _, entry := range r.systems {
		entry.execute(frame)
	}
}

// Members returns the entities system st currently acts on, sorted by id.
func (r *SystemRegistry) Members(st SystemType) []Entity {
	entry, ok := r.byType[st]
	if !ok {
		return nil
	}
	return entry.members.Slice()
}

// Contains reports whether e is a member of system st.
func (r *SystemRegistry) Contains(st SystemType, e Entity) bool {
	entry, ok := r.byType[st]
	return ok && entry.members.Contains(e)
}

// Signature returns the signature captured when st was registered.
func (r *SystemRegistry) Signature(st SystemType) (Signature, bool) {
	entry, ok := r.byType[st]
	if !ok {
		return Signature{}, false
	}
	return entry.signature.Clone(), true
}

// Types returns the registered system types in registration order.
func (r *SystemRegistry) Types() []SystemType {
	types := make([]SystemType, len(r.systems))
	for i, entry := range r.systems {
		types[i] = entry.typ
	}
	return types
}

// Len returns the number of registered systems.
func (r *SystemRegistry) Len() int {
	return len(r.systems)
}
