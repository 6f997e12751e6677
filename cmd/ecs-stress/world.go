package main

import (
	"math/rand/v2"

	"github.com/plus3/ecscore/ecs"
)

type Position struct {
	X, Y float64
}

type Velocity struct {
	DX, DY float64
}

// Lifetime is the number of steps an entity has left before it is despawned.
type Lifetime int

type Health struct {
	Current, Max int
}

// Counters is stored as a global and shared by the systems below.
// Population already accounts for spawns and despawns queued in the
// current step.
type Counters struct {
	Target     int
	Population int
	Spawned    int
	Despawned  int
	Healed     int
}

const (
	globalRand     = "rand"
	globalCounters = "counters"
)

func registerComponents(world *ecs.Coordinator) {
	ecs.RegisterComponent[Position](world)
	ecs.RegisterComponent[Velocity](world)
	ecs.RegisterComponent[Lifetime](world)
	ecs.RegisterComponent[Health](world)
}

// randomComponents builds the component set of a new entity. Every entity
// has a position and a lifetime; velocity and health are each present half
// of the time so systems see overlapping but different populations.
func randomComponents(rng *rand.Rand) []any {
	components := []any{
		Position{X: rng.Float64() * 1000, Y: rng.Float64() * 1000},
		Lifetime(10 + rng.IntN(90)),
	}
	if rng.IntN(2) == 0 {
		components = append(components, Velocity{DX: rng.Float64()*2 - 1, DY: rng.Float64()*2 - 1})
	}
	if rng.IntN(2) == 0 {
		components = append(components, Health{Current: 1 + rng.IntN(100), Max: 100})
	}
	return components
}

// populate spawns n entities directly, before any system has run.
func populate(world *ecs.Coordinator, rng *rand.Rand, n int) error {
	for i := 0; i < n; i++ {
		e, err := world.TakeEntity()
		if err != nil {
			return err
		}
		for _, comp := range randomComponents(rng) {
			if err := addAny(world, e, comp); err != nil {
				return err
			}
		}
	}
	return nil
}

func addAny(world *ecs.Coordinator, e ecs.Entity, component any) error {
	switch v := component.(type) {
	case Position:
		return ecs.AddComponent(world, e, v)
	case Velocity:
		return ecs.AddComponent(world, e, v)
	case Lifetime:
		return ecs.AddComponent(world, e, v)
	case Health:
		return ecs.AddComponent(world, e, v)
	default:
		panic("unknown stress component")
	}
}

func registerSystems(world *ecs.Coordinator) error {
	for _, sys := range []ecs.System{
		&MovementSystem{},
		&DecaySystem{},
		&RegenSystem{},
		&SpawnerSystem{},
	} {
		if _, err := world.RegisterSystem(sys); err != nil {
			return err
		}
	}
	return nil
}

// MovementSystem integrates velocity into position.
type MovementSystem struct {
	ecs.Query[struct {
		*Position
		*Velocity
	}]
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Values(frame.Storage) {
		item.Position.X += item.Velocity.DX * frame.DeltaTime
		item.Position.Y += item.Velocity.DY * frame.DeltaTime
	}
}

// DecaySystem counts lifetimes down and despawns expired entities.
type DecaySystem struct {
	ecs.Query[struct{ *Lifetime }]
}

func (s *DecaySystem) Execute(frame *ecs.UpdateFrame) {
	counters, _ := ecs.GetGlobal[Counters](frame.Globals, globalCounters)
	for e, item := range s.Iter(frame.Storage) {
		*item.Lifetime--
		if *item.Lifetime <= 0 {
			frame.Commands.Despawn(e)
			counters.Despawned++
			counters.Population--
		}
	}
}

// RegenSystem heals damaged entities and drops the Health component of the
// ones that are back to full.
type RegenSystem struct {
	ecs.Query[struct{ *Health }]
}

func (s *RegenSystem) Execute(frame *ecs.UpdateFrame) {
	counters, _ := ecs.GetGlobal[Counters](frame.Globals, globalCounters)
	for e, item := range s.Iter(frame.Storage) {
		item.Health.Current++
		if item.Health.Current >= item.Health.Max {
			frame.Commands.RemoveComponent(e, ecs.TypeOf[Health]())
			counters.Healed++
		}
	}
}

// SpawnerSystem tops the population back up to its target.
type SpawnerSystem struct {
	ecs.Members
}

func (s *SpawnerSystem) Signature() ecs.Signature { return ecs.NewSignature() }

func (s *SpawnerSystem) Execute(frame *ecs.UpdateFrame) {
	rng, _ := ecs.GetGlobal[*rand.Rand](frame.Globals, globalRand)
	counters, _ := ecs.GetGlobal[Counters](frame.Globals, globalCounters)

	for counters.Population < counters.Target {
		frame.Commands.Spawn(randomComponents(*rng)...)
		counters.Spawned++
		counters.Population++
	}
}
