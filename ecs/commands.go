package ecs

import (
	"fmt"
	"strings"
)

// CommandKind tells which structural change a Command requests.
type CommandKind uint8

const (
	CommandSpawn CommandKind = iota
	CommandAddComponent
	CommandRemoveComponent
	CommandDespawn
)

func (k CommandKind) String() string {
	switch k {
	case CommandSpawn:
		return "spawn"
	case CommandAddComponent:
		return "add"
	case CommandRemoveComponent:
		return "remove"
	case CommandDespawn:
		return "despawn"
	default:
		return fmt.Sprintf("CommandKind(%d)", uint8(k))
	}
}

// Command is one deferred structural change. Only the fields relevant to
// Kind are set.
type Command struct {
	Kind       CommandKind
	Entity     Entity
	Type       ComponentType
	Component  any
	Components []any
}

func (c Command) String() string {
	switch c.Kind {
	case CommandSpawn:
		names := make([]string, len(c.Components))
		for i, comp := range c.Components {
			names[i] = TypeOfValue(comp).String()
		}
		return "spawn(" + strings.Join(names, ", ") + ")"
	case CommandAddComponent:
		return fmt.Sprintf("add(%d, %s)", c.Entity, TypeOfValue(c.Component))
	case CommandRemoveComponent:
		return fmt.Sprintf("remove(%d, %s)", c.Entity, c.Type)
	case CommandDespawn:
		return fmt.Sprintf("despawn(%d)", c.Entity)
	default:
		return c.Kind.String()
	}
}

// Commands buffers the structural changes systems request during a step.
// The Coordinator executes them in the order they were queued once every
// system of the step has run.
type Commands struct {
	queue []Command
}

func newCommands() *Commands {
	return &Commands{}
}

// Spawn queues the creation of an entity with the given components.
func (c *Commands) Spawn(components ...any) {
	c.queue = append(c.queue, Command{Kind: CommandSpawn, Components: components})
}

// AddComponent queues attaching component to entity, replacing any value of
// the same type.
func (c *Commands) AddComponent(entity Entity, component any) {
	c.queue = append(c.queue, Command{Kind: CommandAddComponent, Entity: entity, Component: component})
}

// RemoveComponent queues detaching the component of type t from entity.
func (c *Commands) RemoveComponent(entity Entity, t ComponentType) {
	c.queue = append(c.queue, Command{Kind: CommandRemoveComponent, Entity: entity, Type: t})
}

// Despawn queues returning entity to the pool along with all its components.
func (c *Commands) Despawn(entity Entity) {
	c.queue = append(c.queue, Command{Kind: CommandDespawn, Entity: entity})
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	return len(c.queue)
}

// Commands returns a copy of the queue in the order commands were added.
func (c *Commands) Commands() []Command {
	out := make([]Command, len(c.queue))
	copy(out, c.queue)
	return out
}

// Reset drops every queued command.
func (c *Commands) Reset() {
	clear(c.queue)
	c.queue = c.queue[:0]
}
