package query

import (
	"pkg.world.dev/world-engine/ecs/archetype"
	"pkg.world.dev/world-engine/ecs/component"
	"pkg.world.dev/world-engine/ecs/storage"
	"pkg.world.dev/world-engine/ecs/types"
	"pkg.world.dev/world-engine/ecs/world"
)

// HasState is the state of Has. An unregistered type matches every entity and is never present.
type HasState struct {
	ID         types.ComponentID
	Registered bool
}

// HasFetch caches whether the current archetype has the component.
type HasFetch struct {
	has bool
}

// Has reports whether the entity has a component of type T. It matches every entity.
type Has[T any] struct{}

func (Has[T]) GetState(components *component.Manager) (HasState, bool) {
	id, ok := components.GetID(component.TypeOf[T]())
	return HasState{ID: id, Registered: ok}, true
}

func (Has[T]) MatchesComponentSet(HasState, func(types.ComponentID) bool) bool {
	return true
}

func (Has[T]) InitFetch(world.Cell, HasState, types.Tick, types.Tick) HasFetch {
	return HasFetch{}
}

func (Has[T]) SetArchetype(fetch *HasFetch, state HasState, arch *archetype.Archetype, _ *storage.Table) {
	fetch.has = state.Registered && arch.Contains(state.ID)
}

func (Has[T]) Fetch(fetch *HasFetch, _ types.Entity, _ types.TableRow) bool {
	return fetch.has
}

func (Has[T]) ReleaseState(item bool) bool {
	return item
}
