package archetype_test

import (
	"testing"

	"pkg.world.dev/world-engine/assert"

	"pkg.world.dev/world-engine/ecs/archetype"
	"pkg.world.dev/world-engine/ecs/types"
)

func sparseAbove(limit types.ComponentID) func(types.ComponentID) types.StorageType {
	return func(id types.ComponentID) types.StorageType {
		if id > limit {
			return types.StorageSparseSet
		}
		return types.StorageTable
	}
}

func TestEmptyArchetypeExists(t *testing.T) {
	as := archetype.NewArchetypes()
	assert.Equal(t, 1, as.Len())
	assert.Equal(t, types.EmptyArchetypeID, as.Empty().ID())
	assert.Equal(t, types.EmptyTableID, as.Empty().TableID())
	assert.Check(t, as.Get(5) == nil)
}

func TestArchetypeIsKeyedByComponentSet(t *testing.T) {
	as := archetype.NewArchetypes()
	a := as.GetIDOrInsert([]types.ComponentID{3, 1}, 1, sparseAbove(2))
	b := as.GetIDOrInsert([]types.ComponentID{1, 3}, 1, sparseAbove(2))
	assert.Equal(t, a, b)

	arch := as.Get(a)
	assert.DeepEqual(t, []types.ComponentID{1, 3}, arch.Components())
	assert.Check(t, arch.Contains(1))
	assert.Check(t, !arch.Contains(2))
	assert.DeepEqual(t, []types.ComponentID{1}, arch.TableComponents())
	assert.DeepEqual(t, []types.ComponentID{3}, arch.SparseSetComponents())

	st, ok := arch.StorageType(3)
	assert.Check(t, ok)
	assert.Equal(t, types.StorageSparseSet, st)
}

func TestArchetypeSwapRemove(t *testing.T) {
	as := archetype.NewArchetypes()
	arch := as.Empty()
	e1, e2, e3 := types.NewEntity(1, 0), types.NewEntity(2, 0), types.NewEntity(3, 0)
	arch.Allocate(e1, 0)
	arch.Allocate(e2, 1)
	arch.Allocate(e3, 2)

	swapped, ok := arch.SwapRemove(0)
	assert.Check(t, ok)
	assert.Equal(t, e3, swapped.Entity)
	assert.Equal(t, 2, arch.Len())

	_, ok = arch.SwapRemove(1)
	assert.Check(t, !ok, "removing the last row swaps nothing")
}

func TestBundlesRegisterOnce(t *testing.T) {
	bs := archetype.NewBundles()
	a := bs.Register([]types.ComponentID{2, 1})
	b := bs.Register([]types.ComponentID{1, 2})
	assert.Equal(t, a.ID(), b.ID())
	assert.Equal(t, 1, bs.Len())
	assert.DeepEqual(t, []types.ComponentID{1, 2}, bs.Get(a.ID()).Components())
}
