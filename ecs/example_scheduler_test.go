package ecs_test

import (
	"context"
	"fmt"
	"time"

	"github.com/plus3/ecscore/ecs"
)

type Transform struct {
	X, Y float32
}

type Speed struct {
	DX, DY float32
}

type Hitpoints struct {
	Current, Max int
}

type PhysicsSystem struct {
	ecs.Members
}

func (s *PhysicsSystem) Signature() ecs.Signature {
	return ecs.NewSignature(ecs.TypeOf[Transform](), ecs.TypeOf[Speed]())
}

func (s *PhysicsSystem) Execute(frame *ecs.UpdateFrame) {
	for e := range s.All() {
		transform, _ := ecs.GetComponent[Transform](frame.Storage, e)
		speed, _ := ecs.GetComponent[Speed](frame.Storage, e)
		transform.X += speed.DX * float32(frame.DeltaTime)
		transform.Y += speed.DY * float32(frame.DeltaTime)
	}
}

type HealingSystem struct {
	ecs.Members
	RegenRate float32
}

func (s *HealingSystem) Signature() ecs.Signature {
	return ecs.NewSignature(ecs.TypeOf[Hitpoints]())
}

func (s *HealingSystem) Execute(frame *ecs.UpdateFrame) {
	for e := range s.All() {
		hp, _ := ecs.GetComponent[Hitpoints](frame.Storage, e)
		if hp.Current < hp.Max {
			hp.Current = min(hp.Max, hp.Current+int(s.RegenRate*float32(frame.DeltaTime)))
		}
	}
}

// ExampleCoordinator builds a small world with two systems and runs one step.
// Each system only visits the entities whose components cover its signature.
func ExampleCoordinator() {
	world := ecs.NewCoordinator()
	ecs.RegisterComponent[Transform](world)
	ecs.RegisterComponent[Speed](world)
	ecs.RegisterComponent[Hitpoints](world)

	world.RegisterSystem(&PhysicsSystem{})
	world.RegisterSystem(&HealingSystem{RegenRate: 10})

	ship, _ := world.TakeEntity()
	ecs.AddComponent(world, ship, Transform{X: 0, Y: 0})
	ecs.AddComponent(world, ship, Speed{DX: 10, DY: 5})
	ecs.AddComponent(world, ship, Hitpoints{Current: 80, Max: 100})

	wreck, _ := world.TakeEntity()
	ecs.AddComponent(world, wreck, Transform{X: 100, Y: 100})
	ecs.AddComponent(world, wreck, Hitpoints{Current: 95, Max: 100})

	world.Step(1.0)

	for _, e := range []ecs.Entity{ship, wreck} {
		t, _ := ecs.GetComponent[Transform](world, e)
		hp, _ := ecs.GetComponent[Hitpoints](world, e)
		fmt.Printf("entity %d at (%.0f, %.0f), health %d/%d\n", e, t.X, t.Y, hp.Current, hp.Max)
	}

	// Output:
	// entity 0 at (10, 5), health 90/100
	// entity 1 at (100, 100), health 100/100
}

// ExampleCoordinator_Run runs the world at a fixed interval until the context
// is cancelled.
func ExampleCoordinator_Run() {
	world := ecs.NewCoordinator()
	ecs.RegisterComponent[Transform](world)
	ecs.RegisterComponent[Speed](world)
	world.RegisterSystem(&PhysicsSystem{})

	e, _ := world.TakeEntity()
	ecs.AddComponent(world, e, Transform{})
	ecs.AddComponent(world, e, Speed{DX: 1, DY: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	world.Run(ctx, 16*time.Millisecond)

	fmt.Println("world stopped")
	// Output:
	// world stopped
}

type GameTime struct {
	TotalFrames int
	TotalTime   float64
}

type TimeTracker struct {
	ecs.Members
}

func (s *TimeTracker) Signature() ecs.Signature { return ecs.NewSignature() }

func (s *TimeTracker) Execute(frame *ecs.UpdateFrame) {
	gameTime, _ := ecs.GetGlobal[GameTime](frame.Globals, "time")
	gameTime.TotalFrames++
	gameTime.TotalTime += frame.DeltaTime
}

// ExampleCoordinator_withGlobals keeps world-wide state in a named global
// instead of on an entity.
func ExampleCoordinator_withGlobals() {
	world := ecs.NewCoordinator()
	ecs.SetGlobal(world.Globals(), "time", GameTime{})
	world.RegisterSystem(&TimeTracker{})

	world.Step(0.016)
	world.Step(0.016)
	world.Step(0.016)

	gameTime, _ := ecs.GetGlobal[GameTime](world.Globals(), "time")
	fmt.Printf("Frames: %d, Time: %.3f\n", gameTime.TotalFrames, gameTime.TotalTime)

	// Output:
	// Frames: 3, Time: 0.048
}
