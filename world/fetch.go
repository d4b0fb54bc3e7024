package world

import (
	"unsafe"

	"pkg.world.dev/world-engine/ecs/types"
)

// getComponent resolves the value of id for e. Table rows are trusted to be in bounds; a sparse set
// that does not hold e yields absent.
func getComponent(
	c Cell, id types.ComponentID, storageType types.StorageType, e types.Entity, loc types.EntityLocation,
) (unsafe.Pointer, bool) {
	switch storageType {
	case types.StorageTable:
		table := c.Storages().Tables.Get(loc.TableID)
		if table == nil {
			return nil, false
		}
		ptr := table.GetComponent(id, loc.TableRow)
		return ptr, ptr != nil
	case types.StorageSparseSet:
		set := c.Storages().SparseSets.Get(id)
		if set == nil {
			return nil, false
		}
		ptr := set.Get(e)
		return ptr, ptr != nil
	default:
		return nil, false
	}
}

// getComponentAndTicks is getComponent that also returns the tick and caller cells of the value.
func getComponentAndTicks(
	c Cell, id types.ComponentID, storageType types.StorageType, e types.Entity, loc types.EntityLocation,
) (unsafe.Pointer, types.TickCells, *types.CallerLocation, bool) {
	switch storageType {
	case types.StorageTable:
		table := c.Storages().Tables.Get(loc.TableID)
		if table == nil {
			return nil, types.TickCells{}, nil, false
		}
		col := table.GetColumn(id)
		if col == nil {
			return nil, types.TickCells{}, nil, false
		}
		return col.Get(loc.TableRow), col.TickCells(loc.TableRow), col.ChangedBy(loc.TableRow), true
	case types.StorageSparseSet:
		set := c.Storages().SparseSets.Get(id)
		if set == nil {
			return nil, types.TickCells{}, nil, false
		}
		return set.GetWithTicks(e)
	default:
		return nil, types.TickCells{}, nil, false
	}
}

// getTicks copies the ticks of id for e.
func getTicks(
	c Cell, id types.ComponentID, storageType types.StorageType, e types.Entity, loc types.EntityLocation,
) (types.ComponentTicks, bool) {
	switch storageType {
	case types.StorageTable:
		table := c.Storages().Tables.Get(loc.TableID)
		if table == nil {
			return types.ComponentTicks{}, false
		}
		return table.GetTicksUnchecked(id, loc.TableRow)
	case types.StorageSparseSet:
		set := c.Storages().SparseSets.Get(id)
		if set == nil {
			return types.ComponentTicks{}, false
		}
		return set.GetTicks(e)
	default:
		return types.ComponentTicks{}, false
	}
}
