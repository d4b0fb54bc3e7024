// Package query provides read-only query descriptors for world.GetComponents.
package query

import (
	"unsafe"

	"pkg.world.dev/world-engine/ecs/archetype"
	"pkg.world.dev/world-engine/ecs/component"
	"pkg.world.dev/world-engine/ecs/storage"
	"pkg.world.dev/world-engine/ecs/types"
	"pkg.world.dev/world-engine/ecs/world"
)

// ComponentState is the resolved id and storage kind of a queried component.
type ComponentState struct {
	ID          types.ComponentID
	StorageType types.StorageType
}

func componentState[T any](components *component.Manager) (ComponentState, bool) {
	id, ok := components.GetValidID(component.TypeOf[T]())
	if !ok {
		return ComponentState{}, false
	}
	info, _ := components.GetInfo(id)
	return ComponentState{ID: id, StorageType: info.StorageType()}, true
}

// ComponentFetch locates one component for the archetype being fetched.
type ComponentFetch struct {
	sparse  *storage.ComponentSparseSet
	column  *storage.Column
	lastRun types.Tick
	thisRun types.Tick
}

func initFetch(c world.Cell, state ComponentState, lastRun, thisRun types.Tick) ComponentFetch {
	fetch := ComponentFetch{lastRun: lastRun, thisRun: thisRun}
	if state.StorageType == types.StorageSparseSet {
		fetch.sparse = c.Storages().SparseSets.Get(state.ID)
	}
	return fetch
}

func (f *ComponentFetch) setTable(state ComponentState, table *storage.Table) {
	if state.StorageType == types.StorageTable && table != nil {
		f.column = table.GetColumn(state.ID)
	}
}

func (f *ComponentFetch) ptr(e types.Entity, row types.TableRow) unsafe.Pointer {
	if f.sparse != nil {
		return f.sparse.Get(e)
	}
	return f.column.Get(row)
}

func (f *ComponentFetch) withTicks(
	e types.Entity, row types.TableRow,
) (unsafe.Pointer, types.TickCells, *types.CallerLocation) {
	if f.sparse != nil {
		ptr, cells, changedBy, _ := f.sparse.GetWithTicks(e)
		return ptr, cells, changedBy
	}
	return f.column.Get(row), f.column.TickCells(row), f.column.ChangedBy(row)
}

// Read fetches a read-only pointer to the component of type T.
type Read[T any] struct{}

func (Read[T]) GetState(components *component.Manager) (ComponentState, bool) {
	return componentState[T](components)
}

func (Read[T]) MatchesComponentSet(state ComponentState, contains func(types.ComponentID) bool) bool {
	return contains(state.ID)
}

func (Read[T]) InitFetch(c world.Cell, state ComponentState, lastRun, thisRun types.Tick) ComponentFetch {
	return initFetch(c, state, lastRun, thisRun)
}

func (Read[T]) SetArchetype(
	fetch *ComponentFetch, state ComponentState, _ *archetype.Archetype, table *storage.Table,
) {
	fetch.setTable(state, table)
}

func (Read[T]) Fetch(fetch *ComponentFetch, e types.Entity, row types.TableRow) *T {
	return (*T)(fetch.ptr(e, row))
}

func (Read[T]) ReleaseState(item *T) *T {
	return item
}
