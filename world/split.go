package world

import (
	"pkg.world.dev/world-engine/ecs/change"
	"pkg.world.dev/world-engine/ecs/types"
)

// ResourceAccess can only write resources.
type ResourceAccess struct {
	cell Cell
}

// ComponentAccess can only write components.
type ComponentAccess struct {
	cell Cell
}

// SplitAccess divides write access to w into a resource half and a component half. Both halves may be
// used at the same time since they never touch the same data.
func SplitAccess(w *World) (ResourceAccess, ComponentAccess) {
	c := w.AsCell()
	return ResourceAccess{cell: c}, ComponentAccess{cell: c}
}

// ResourceMut returns a write handle to the send resource of type T.
func ResourceMut[T any](r ResourceAccess) (change.Mut[T], bool) {
	return GetResourceMut[T](r.cell)
}

// ComponentMut returns a write handle to the component of type T on e.
func ComponentMut[T any](a ComponentAccess, e types.Entity) (change.Mut[T], bool) {
	ec, err := a.cell.GetEntity(e)
	if err != nil {
		return change.Mut[T]{}, false
	}
	return GetMut[T](ec)
}
