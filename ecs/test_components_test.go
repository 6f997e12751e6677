package ecs_test

import "github.com/plus3/ecscore/ecs"

// Common test component types
type Position struct {
	X, Y int
}

type Velocity struct {
	VX, VY int
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

// Custom primitive types for testing non-struct components
type Score int32
type Tag string

// Never registered anywhere.
type Unregistered struct{}

func newTestCoordinator(opts ...ecs.Option) *ecs.Coordinator {
	c := ecs.NewCoordinator(opts...)
	registerTestComponents(c)
	return c
}

func newTestRegistry() *ecs.ComponentRegistry {
	r := ecs.NewComponentRegistry()
	registerTestComponents(r)
	return r
}

func registerTestComponents(s ecs.ComponentStore) {
	ecs.RegisterComponent[Position](s)
	ecs.RegisterComponent[Velocity](s)
	ecs.RegisterComponent[Name](s)
	ecs.RegisterComponent[Health](s)
	ecs.RegisterComponent[Score](s)
	ecs.RegisterComponent[Tag](s)
	ecs.RegisterComponent[uint32](s)
}

// incrementSystem adds one to every uint32 component it owns.
type incrementSystem struct {
	ecs.Members
}

func (s *incrementSystem) Signature() ecs.Signature {
	return ecs.NewSignature(ecs.TypeOf[uint32]())
}

func (s *incrementSystem) Execute(frame *ecs.UpdateFrame) {
	for e := range s.All() {
		v, ok := ecs.GetComponent[uint32](frame.Storage, e)
		if ok {
			*v++
		}
	}
}

// movementSystem replaces Position with Position + Velocity.
type movementSystem struct {
	ecs.Members
}

func (s *movementSystem) Signature() ecs.Signature {
	return ecs.NewSignature(ecs.TypeOf[Position](), ecs.TypeOf[Velocity]())
}

func (s *movementSystem) Execute(frame *ecs.UpdateFrame) {
	for e := range s.All() {
		pos, _ := ecs.GetComponent[Position](frame.Storage, e)
		vel, _ := ecs.GetComponent[Velocity](frame.Storage, e)
		ecs.WriteComponent(frame.Storage, e, Position{X: pos.X + vel.VX, Y: pos.Y + vel.VY})
	}
}

// spawnSystem queues one new entity holding a uint32 per step.
type spawnSystem struct {
	ecs.Members
	value uint32
}

func (s *spawnSystem) Signature() ecs.Signature {
	return ecs.NewSignature()
}

func (s *spawnSystem) Execute(frame *ecs.UpdateFrame) {
	frame.Commands.Spawn(s.value)
}

// observerSystem records how many uint32 entities it saw during each step.
type observerSystem struct {
	ecs.Members
	seen []int
}

func (s *observerSystem) Signature() ecs.Signature {
	return ecs.NewSignature(ecs.TypeOf[uint32]())
}

func (s *observerSystem) Execute(frame *ecs.UpdateFrame) {
	s.seen = append(s.seen, s.Len())
}

// recordingSystem keeps the order of Accept and Reject calls.
type recordingSystem struct {
	signature ecs.Signature
	events    []string
	ecs.Members
}

func (s *recordingSystem) Signature() ecs.Signature {
	return s.signature
}

func (s *recordingSystem) Accept(e ecs.Entity) {
	s.events = append(s.events, "accept")
	s.Members.Accept(e)
}

func (s *recordingSystem) Reject(e ecs.Entity) {
	s.events = append(s.events, "reject")
	s.Members.Reject(e)
}

func (s *recordingSystem) Execute(*ecs.UpdateFrame) {}
