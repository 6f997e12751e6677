package ecs

import (
	"io"
	"iter"

	"github.com/rotisserie/eris"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Coordinator ties the entity pool, the component registry and the system
// registry together. It is the only place world state changes: attaching a
// component always updates system membership in the same call, and changes
// requested by systems are applied only after every system of a step has run.
//
// A Coordinator is not safe for concurrent use.
type Coordinator struct {
	pool       *EntityPool
	components *ComponentRegistry
	systems    *SystemRegistry
	storage    *Storage
	globals    *Globals

	logger   *zap.Logger
	backfill bool
	tick     uint64
}

// NewCoordinator creates an empty world.
func NewCoordinator(opts ...Option) *Coordinator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	components := NewComponentRegistry()
	return &Coordinator{
		pool:       NewEntityPool(o.maxEntities),
		components: components,
		systems:    NewSystemRegistry(),
		storage:    NewStorage(components),
		globals:    NewGlobals(),
		logger:     o.logger,
		backfill:   o.backfill,
	}
}

func (c *Coordinator) componentRegistry() *ComponentRegistry {
	return c.components
}

func (c *Coordinator) attach(e Entity) error {
	if !c.pool.Alive(e) {
		return eris.Wrapf(ErrEntityNotAlive, "attach component to entity %d", e)
	}
	return nil
}

func (c *Coordinator) changed(e Entity) {
	c.systems.ComponentsChanged(e, c.components.typesOf(e))
}

// TakeEntity takes a fresh entity from the pool.
func (c *Coordinator) TakeEntity() (Entity, error) {
	return c.pool.Take()
}

// ReturnEntity destroys e: its components are dropped, every system forgets
// it, and the id goes back to the pool for reuse.
func (c *Coordinator) ReturnEntity(e Entity) error {
	if !c.pool.Alive(e) {
		return eris.Wrapf(ErrEntityNotTaken, "return entity %d", e)
	}

	types := c.components.removeAll(e)
	c.systems.EntityReturned(e)
	c.logger.Debug("entity returned",
		zap.Uint32("entity", uint32(e)),
		zap.Stringer("components", types),
	)
	return c.pool.Return(e)
}

// Alive reports whether e is currently taken from the pool.
func (c *Coordinator) Alive(e Entity) bool {
	return c.pool.Alive(e)
}

// Entities iterates over all live entities in no particular order.
func (c *Coordinator) Entities() iter.Seq[Entity] {
	return c.pool.Entities()
}

// EntityCount returns the number of live entities.
func (c *Coordinator) EntityCount() int {
	return c.pool.Len()
}

// ComponentTypesOf returns a copy of the component types attached to e.
func (c *Coordinator) ComponentTypesOf(e Entity) Signature {
	return c.components.ComponentTypesOf(e)
}

// Components returns the same restricted storage systems execute against.
// Values can be read and modified in place through it, but attaching or
// detaching component types has to go through the Coordinator.
func (c *Coordinator) Components() *Storage {
	return c.storage
}

// Globals returns the world's named values.
func (c *Coordinator) Globals() *Globals {
	return c.globals
}

// RegisterSystem adds sys and returns its type tag. Unless backfill was
// disabled, entities that already match the system's signature become
// members right away.
func (c *Coordinator) RegisterSystem(sys System) (SystemType, error) {
	st, err := c.systems.Register(sys)
	if err != nil {
		return st, err
	}

	if c.backfill {
		if err := c.systems.Backfill(st, c.entityTypes()); err != nil {
			return st, err
		}
	}

	signature, _ := c.systems.Signature(st)
	c.logger.Info("system registered",
		zap.Stringer("system", st),
		zap.Stringer("signature", signature),
		zap.Int("members", len(c.systems.Members(st))),
	)
	return st, nil
}

func (c *Coordinator) entityTypes() iter.Seq2[Entity, Signature] {
	return func(yield func(Entity, Signature) bool) {
		for e := range c.pool.Entities() {
			if !yield(e, c.components.typesOf(e)) {
				return
			}
		}
	}
}

// Members returns the entities system st acts on, sorted by id.
func (c *Coordinator) Members(st SystemType) []Entity {
	return c.systems.Members(st)
}

// Systems returns the registered system types in registration order.
func (c *Coordinator) Systems() []SystemType {
	return c.systems.Types()
}

// Apply runs a single system and then the commands it queued.
func (c *Coordinator) Apply(st SystemType) error {
	frame := c.newFrame(0)
	if err := c.systems.Apply(st, frame); err != nil {
		return err
	}
	return c.flush(frame.Commands)
}

// ApplyAll runs one step with no elapsed time. See Step.
func (c *Coordinator) ApplyAll() error {
	return c.Step(0)
}

// Step runs every system once and then executes the commands they queued,
// in the order they were queued. No system observes a change requested by
// another system in the same step.
func (c *Coordinator) Step(dt float64) error {
	frame := c.newFrame(dt)
	c.systems.ApplyAll(frame)
	return c.flush(frame.Commands)
}

func (c *Coordinator) newFrame(dt float64) *UpdateFrame {
	c.tick++
	return newUpdateFrame(c.tick, dt, c.storage, c.globals)
}

// Tick returns the number of steps run so far.
func (c *Coordinator) Tick() uint64 {
	return c.tick
}

// Stats returns execution statistics for every system.
func (c *Coordinator) Stats() *SchedulerStats {
	stats := c.systems.Stats()
	stats.Tick = c.tick
	return stats
}

// Dump writes every component container and its entries to w.
func (c *Coordinator) Dump(w io.Writer) {
	c.components.Dump(w)
}

// flush executes queued commands. A command that fails does not stop the
// ones after it; all failures are returned together.
func (c *Coordinator) flush(commands *Commands) error {
	defer commands.Reset()

	var errs error
	var despawned map[Entity]struct{}

	for _, cmd := range commands.queue {
		if cmd.Kind != CommandSpawn {
			if _, gone := despawned[cmd.Entity]; gone {
				c.logger.Debug("command skipped, entity despawned",
					zap.Uint64("tick", c.tick),
					zap.Stringer("command", cmd),
				)
				continue
			}
		}

		if err := c.execute(cmd); err != nil {
			errs = multierr.Append(errs, eris.Wrapf(err, "command %s", cmd))
			continue
		}

		if cmd.Kind == CommandDespawn {
			if despawned == nil {
				despawned = make(map[Entity]struct{})
			}
			despawned[cmd.Entity] = struct{}{}
		}

		c.logger.Debug("command executed",
			zap.Uint64("tick", c.tick),
			zap.Stringer("command", cmd),
		)
	}
	return errs
}

func (c *Coordinator) execute(cmd Command) error {
	switch cmd.Kind {
	case CommandSpawn:
		_, err := c.spawn(cmd.Components)
		return err
	case CommandAddComponent:
		return c.addAny(cmd.Entity, cmd.Component)
	case CommandRemoveComponent:
		return c.removeType(cmd.Entity, cmd.Type)
	case CommandDespawn:
		return c.ReturnEntity(cmd.Entity)
	default:
		return eris.Errorf("unknown command kind %s", cmd.Kind)
	}
}

// spawn takes an entity and attaches components to it. Every component is
// validated before the entity is taken so a failed spawn leaves no trace.
func (c *Coordinator) spawn(components []any) (Entity, error) {
	for _, comp := range components {
		if comp == nil {
			return 0, eris.Wrap(ErrNilComponent, "spawn")
		}
		if t := TypeOfValue(comp); !c.components.Registered(t) {
			return 0, eris.Wrapf(ErrUnregisteredComponent, "spawn with component %s", t)
		}
	}

	e, err := c.pool.Take()
	if err != nil {
		return 0, err
	}

	for _, comp := range components {
		if _, err := c.components.addAny(e, comp); err != nil {
			c.components.removeAll(e)
			_ = c.pool.Return(e)
			return 0, err
		}
	}
	c.changed(e)
	return e, nil
}

func (c *Coordinator) addAny(e Entity, component any) error {
	if err := c.attach(e); err != nil {
		return err
	}
	if _, err := c.components.addAny(e, component); err != nil {
		return err
	}
	c.changed(e)
	return nil
}

func (c *Coordinator) removeType(e Entity, t ComponentType) error {
	removed, err := c.components.removeType(e, t)
	if err != nil {
		return err
	}
	if removed {
		c.changed(e)
	}
	return nil
}
