package query

import (
	"pkg.world.dev/world-engine/ecs/archetype"
	"pkg.world.dev/world-engine/ecs/change"
	"pkg.world.dev/world-engine/ecs/component"
	"pkg.world.dev/world-engine/ecs/storage"
	"pkg.world.dev/world-engine/ecs/types"
	"pkg.world.dev/world-engine/ecs/world"
)

// RefOf fetches a change-detecting read handle to the component of type T.
type RefOf[T any] struct{}

func (RefOf[T]) GetState(components *component.Manager) (ComponentState, bool) {
	return componentState[T](components)
}

func (RefOf[T]) MatchesComponentSet(state ComponentState, contains func(types.ComponentID) bool) bool {
	return contains(state.ID)
}

func (RefOf[T]) InitFetch(c world.Cell, state ComponentState, lastRun, thisRun types.Tick) ComponentFetch {
	return initFetch(c, state, lastRun, thisRun)
}

func (RefOf[T]) SetArchetype(
	fetch *ComponentFetch, state ComponentState, _ *archetype.Archetype, table *storage.Table,
) {
	fetch.setTable(state, table)
}

func (RefOf[T]) Fetch(fetch *ComponentFetch, e types.Entity, row types.TableRow) change.Ref[T] {
	ptr, cells, changedBy := fetch.withTicks(e, row)
	return change.NewRef((*T)(ptr), change.NewTicks(cells, fetch.lastRun, fetch.thisRun), changedBy)
}

func (RefOf[T]) ReleaseState(item change.Ref[T]) change.Ref[T] {
	return item
}
