package world

import (
	"fmt"
	"reflect"

	"pkg.world.dev/world-engine/ecs/archetype"
	"pkg.world.dev/world-engine/ecs/change"
	"pkg.world.dev/world-engine/ecs/component"
	"pkg.world.dev/world-engine/ecs/types"
)

// EntityCell is a Cell narrowed to one entity. It caches the entity's location, so it must not be used
// after a structural change to the world.
type EntityCell struct {
	world    Cell
	entity   types.Entity
	location types.EntityLocation
	lastRun  types.Tick
	thisRun  types.Tick
}

func (ec EntityCell) ID() types.Entity {
	return ec.entity
}

func (ec EntityCell) Location() types.EntityLocation {
	return ec.location
}

// Archetype returns the archetype the entity belonged to when ec was created.
func (ec EntityCell) Archetype() *archetype.Archetype {
	return ec.world.Archetypes().Get(ec.location.ArchetypeID)
}

// World returns the cell ec was derived from.
func (ec EntityCell) World() Cell {
	return ec.world
}

// LastRun and ThisRun bound the window change ticks are compared against.
func (ec EntityCell) LastRun() types.Tick {
	return ec.lastRun
}

func (ec EntityCell) ThisRun() types.Tick {
	return ec.thisRun
}

// SpawnedBy returns where the entity was spawned. It is nil unless the module is built with the
// ecs_track_location tag. It panics if a live entity has no spawn record.
func (ec EntityCell) SpawnedBy() *types.CallerLocation {
	if !types.TrackLocation {
		return nil
	}
	record, ok := ec.world.Entities().SpawnedOrDespawned(ec.entity)
	if !ok {
		panic(fmt.Sprintf("entity %s has no spawn metadata", ec.entity))
	}
	return record.By
}

// SpawnedAt returns the tick at which the entity was spawned.
func (ec EntityCell) SpawnedAt() types.Tick {
	return ec.world.Entities().SpawnedOrDespawnedUnchecked(ec.entity).At
}

// ContainsID reports whether the entity has component id.
func (ec EntityCell) ContainsID(id types.ComponentID) bool {
	return ec.Archetype().Contains(id)
}

// ContainsType reports whether the entity has a component of typ.
func (ec EntityCell) ContainsType(typ reflect.Type) bool {
	id, ok := ec.world.Components().GetID(typ)
	return ok && ec.ContainsID(id)
}

// Contains reports whether the entity has a component of type T.
func Contains[T any](ec EntityCell) bool {
	return ec.ContainsType(component.TypeOf[T]())
}

// GetByID returns the component id of the entity, if present.
func (ec EntityCell) GetByID(id types.ComponentID) (change.Ptr, bool) {
	info, ok := ec.world.Components().GetInfo(id)
	if !ok {
		return change.Ptr{}, false
	}
	ptr, ok := getComponent(ec.world, id, info.StorageType(), ec.entity, ec.location)
	if !ok {
		return change.Ptr{}, false
	}
	return change.NewPtr(ptr, info.Type()), true
}

// GetChangeTicksByID returns the ticks of component id, if present.
func (ec EntityCell) GetChangeTicksByID(id types.ComponentID) (types.ComponentTicks, bool) {
	info, ok := ec.world.Components().GetInfo(id)
	if !ok {
		return types.ComponentTicks{}, false
	}
	return getTicks(ec.world, id, info.StorageType(), ec.entity, ec.location)
}

// GetMutByID returns a write handle to component id. It fails with ErrInfoNotFound when id is not
// registered, ErrComponentIsImmutable when the component is immutable and ErrComponentNotFound when
// the entity does not have it.
func (ec EntityCell) GetMutByID(id types.ComponentID) (change.MutUntyped, error) {
	ec.world.access.assertAllowsMutableAccess()
	info, ok := ec.world.Components().GetInfo(id)
	if !ok {
		return change.MutUntyped{}, ErrInfoNotFound
	}
	if !info.Mutable() {
		return change.MutUntyped{}, ErrComponentIsImmutable
	}
	m, ok := ec.getMutByInfo(info)
	if !ok {
		return change.MutUntyped{}, ErrComponentNotFound
	}
	return m, nil
}

// GetMutAssumeMutableByID is GetMutByID without the mutability check. The caller must have checked
// it already.
func (ec EntityCell) GetMutAssumeMutableByID(id types.ComponentID) (change.MutUntyped, error) {
	ec.world.access.assertAllowsMutableAccess()
	info, ok := ec.world.Components().GetInfo(id)
	if !ok {
		return change.MutUntyped{}, ErrInfoNotFound
	}
	m, ok := ec.getMutByInfo(info)
	if !ok {
		return change.MutUntyped{}, ErrComponentNotFound
	}
	return m, nil
}

func (ec EntityCell) getMutByInfo(info *component.Info) (change.MutUntyped, bool) {
	ptr, cells, changedBy, ok := getComponentAndTicks(ec.world, info.ID(), info.StorageType(), ec.entity, ec.location)
	if !ok {
		return change.MutUntyped{}, false
	}
	ticks := change.NewTicksMut(cells, ec.lastRun, ec.thisRun)
	return change.NewMutUntyped(change.NewPtr(ptr, info.Type()), ticks, changedBy), true
}

func (ec EntityCell) infoOf(typ reflect.Type) (*component.Info, bool) {
	id, ok := ec.world.Components().GetValidID(typ)
	if !ok {
		return nil, false
	}
	return ec.world.Components().GetInfo(id)
}

// Get returns the component of type T, if present. Callers must not write through the pointer.
func Get[T any](ec EntityCell) (*T, bool) {
	info, ok := ec.infoOf(component.TypeOf[T]())
	if !ok {
		return nil, false
	}
	ptr, ok := getComponent(ec.world, info.ID(), info.StorageType(), ec.entity, ec.location)
	if !ok {
		return nil, false
	}
	return (*T)(ptr), true
}

// GetRef returns a read handle to the component of type T.
func GetRef[T any](ec EntityCell) (change.Ref[T], bool) {
	info, ok := ec.infoOf(component.TypeOf[T]())
	if !ok {
		return change.Ref[T]{}, false
	}
	ptr, cells, changedBy, ok := getComponentAndTicks(ec.world, info.ID(), info.StorageType(), ec.entity, ec.location)
	if !ok {
		return change.Ref[T]{}, false
	}
	return change.NewRef((*T)(ptr), change.NewTicks(cells, ec.lastRun, ec.thisRun), changedBy), true
}

// GetChangeTicks returns the ticks of the component of type T.
func GetChangeTicks[T any](ec EntityCell) (types.ComponentTicks, bool) {
	info, ok := ec.infoOf(component.TypeOf[T]())
	if !ok {
		return types.ComponentTicks{}, false
	}
	return getTicks(ec.world, info.ID(), info.StorageType(), ec.entity, ec.location)
}

// GetMut returns a write handle to the component of type T. It panics if T is registered as immutable.
func GetMut[T any](ec EntityCell) (change.Mut[T], bool) {
	ec.world.access.assertAllowsMutableAccess()
	info, ok := ec.infoOf(component.TypeOf[T]())
	if !ok {
		return change.Mut[T]{}, false
	}
	if !info.Mutable() {
		panic(fmt.Sprintf("component %s is immutable and cannot be accessed for writing", info.Name()))
	}
	return getMutTyped[T](ec, info)
}

// GetMutAssumeMutable is GetMut without the mutability check.
func GetMutAssumeMutable[T any](ec EntityCell) (change.Mut[T], bool) {
	ec.world.access.assertAllowsMutableAccess()
	info, ok := ec.infoOf(component.TypeOf[T]())
	if !ok {
		return change.Mut[T]{}, false
	}
	return getMutTyped[T](ec, info)
}

func getMutTyped[T any](ec EntityCell, info *component.Info) (change.Mut[T], bool) {
	ptr, cells, changedBy, ok := getComponentAndTicks(ec.world, info.ID(), info.StorageType(), ec.entity, ec.location)
	if !ok {
		return change.Mut[T]{}, false
	}
	return change.NewMut((*T)(ptr), change.NewTicksMut(cells, ec.lastRun, ec.thisRun), changedBy), true
}
