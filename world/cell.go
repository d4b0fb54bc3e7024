package world

import (
	"fmt"

	"github.com/google/uuid"

	"pkg.world.dev/world-engine/ecs/archetype"
	"pkg.world.dev/world-engine/ecs/component"
	"pkg.world.dev/world-engine/ecs/entity"
	"pkg.world.dev/world-engine/ecs/event"
	"pkg.world.dev/world-engine/ecs/storage"
	"pkg.world.dev/world-engine/ecs/types"
)

// Cell is a copyable handle to a World that allows disjoint parts of it to be read and written at the
// same time, possibly from different goroutines.
//
// A Cell does not track what has been handed out. Callers must make sure that no value is written
// through one handle while any other handle to the same value is in use. A read-only Cell, obtained
// from World.AsReadOnlyCell, panics when asked for write access unless the module is built with the
// ecs_release tag.
type Cell struct {
	world  *World
	access capability
}

// WorldMut returns the world for exclusive use. Nothing else derived from c may be in use while the
// returned world is.
func (c Cell) WorldMut() *World {
	c.access.assertAllowsMutableAccess()
	return c.world
}

// World returns the world for shared use. No write handle derived from c may be in use while the
// returned world is.
func (c Cell) World() *World {
	return c.world
}

// metadata returns the world for reading fields that never alias component or resource data.
func (c Cell) metadata() *World {
	return c.world
}

func (c Cell) ID() uuid.UUID {
	return c.metadata().id
}

func (c Cell) String() string {
	w := c.metadata()
	return fmt.Sprintf("World(id=%s, entities=%d, archetypes=%d, components=%d)",
		w.id, w.entities.Len(), w.archetypes.Len(), w.components.Len())
}

func (c Cell) Entities() *entity.Entities {
	return c.metadata().entities
}

func (c Cell) Archetypes() *archetype.Archetypes {
	return c.metadata().archetypes
}

func (c Cell) Components() *component.Manager {
	return c.metadata().components
}

func (c Cell) Bundles() *archetype.Bundles {
	return c.metadata().bundles
}

func (c Cell) RemovedComponents() *event.RemovedComponents {
	return c.metadata().removedComponents
}

func (c Cell) Observers() *event.Observers {
	return c.metadata().observers
}

// Storages returns the payload stores. Anything read or written through them is subject to the same
// disjointness rules as the accessors of c.
func (c Cell) Storages() *storage.Storages {
	return c.world.storages
}

// ChangeTick returns the current change tick.
func (c Cell) ChangeTick() types.Tick {
	return c.metadata().ReadChangeTick()
}

// IncrementChangeTick advances the change tick and returns the value it had before.
func (c Cell) IncrementChangeTick() types.Tick {
	return c.metadata().IncrementChangeTick()
}

// LastChangeTick returns the tick recorded by the last World.ClearTrackers.
func (c Cell) LastChangeTick() types.Tick {
	return c.metadata().lastChangeTick
}

func (c Cell) LastTriggerID() event.TriggerID {
	return c.metadata().lastTriggerID
}

// IncrementTriggerID advances the trigger counter, wrapping on overflow.
func (c Cell) IncrementTriggerID() {
	c.access.assertAllowsMutableAccess()
	c.world.lastTriggerID++
}

// CommandQueue returns a handle to the world's command queue.
func (c Cell) CommandQueue() RawCommandQueue {
	c.access.assertAllowsMutableAccess()
	return c.world.commandQueue.Clone()
}

// DefaultErrorHandler returns the handler stored in the DefaultErrorHandler resource, or PanicHandler.
func (c Cell) DefaultErrorHandler() ErrorHandler {
	if res, ok := GetResource[DefaultErrorHandler](c); ok && res.Handler != nil {
		return res.Handler
	}
	return PanicHandler
}

// GetEntity returns the sub-cell of e with the world's own change-detection window.
func (c Cell) GetEntity(e types.Entity) (EntityCell, error) {
	return c.GetEntityWithTicks(e, c.LastChangeTick(), c.ChangeTick())
}

// GetEntityWithTicks returns the sub-cell of e that interprets change ticks against (lastRun, thisRun).
func (c Cell) GetEntityWithTicks(e types.Entity, lastRun, thisRun types.Tick) (EntityCell, error) {
	loc, ok := c.Entities().Get(e)
	if !ok {
		return EntityCell{}, &EntityDoesNotExistError{Entity: e, Details: despawnDetails(c.Entities(), e)}
	}
	return EntityCell{
		world:    c,
		entity:   e,
		location: loc,
		lastRun:  lastRun,
		thisRun:  thisRun,
	}, nil
}
