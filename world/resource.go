package world

import (
	"pkg.world.dev/world-engine/ecs/change"
	"pkg.world.dev/world-engine/ecs/component"
	"pkg.world.dev/world-engine/ecs/storage"
	"pkg.world.dev/world-engine/ecs/types"
)

// GetResourceByID returns the send resource with id, if present.
func (c Cell) GetResourceByID(id types.ComponentID) (change.Ptr, bool) {
	return resourcePtr(c.Storages().Resources.Get(id))
}

// GetNonSendResourceByID returns the goroutine-bound resource with id, if present. It panics when
// called from a goroutine other than the one that inserted the resource.
func (c Cell) GetNonSendResourceByID(id types.ComponentID) (change.Ptr, bool) {
	return resourcePtr(c.Storages().NonSendResources.Get(id))
}

// GetResourceWithTicks returns the send resource with id together with its tick and caller cells.
func (c Cell) GetResourceWithTicks(id types.ComponentID) (change.Ptr, types.TickCells, *types.CallerLocation, bool) {
	return resourceWithTicks(c.Storages().Resources.Get(id))
}

// GetNonSendWithTicks is GetResourceWithTicks for goroutine-bound resources.
func (c Cell) GetNonSendWithTicks(id types.ComponentID) (change.Ptr, types.TickCells, *types.CallerLocation, bool) {
	return resourceWithTicks(c.Storages().NonSendResources.Get(id))
}

// GetResourceMutByID returns a write handle to the send resource with id.
func (c Cell) GetResourceMutByID(id types.ComponentID) (change.MutUntyped, bool) {
	c.access.assertAllowsMutableAccess()
	return c.resourceMut(c.Storages().Resources.Get(id))
}

// GetNonSendResourceMutByID returns a write handle to the goroutine-bound resource with id.
func (c Cell) GetNonSendResourceMutByID(id types.ComponentID) (change.MutUntyped, bool) {
	c.access.assertAllowsMutableAccess()
	return c.resourceMut(c.Storages().NonSendResources.Get(id))
}

func (c Cell) resourceMut(data *storage.ResourceData) (change.MutUntyped, bool) {
	ptr, cells, changedBy, ok := resourceWithTicks(data)
	if !ok {
		return change.MutUntyped{}, false
	}
	ticks := change.NewTicksMut(cells, c.LastChangeTick(), c.ChangeTick())
	return change.NewMutUntyped(ptr, ticks, changedBy), true
}

func resourcePtr(data *storage.ResourceData) (change.Ptr, bool) {
	if data == nil {
		return change.Ptr{}, false
	}
	ptr, ok := data.GetData()
	if !ok {
		return change.Ptr{}, false
	}
	return change.NewPtr(ptr, data.Type()), true
}

func resourceWithTicks(data *storage.ResourceData) (change.Ptr, types.TickCells, *types.CallerLocation, bool) {
	if data == nil {
		return change.Ptr{}, types.TickCells{}, nil, false
	}
	ptr, cells, changedBy, ok := data.GetWithTicks()
	if !ok {
		return change.Ptr{}, types.TickCells{}, nil, false
	}
	return change.NewPtr(ptr, data.Type()), cells, changedBy, true
}

// GetResource returns the send resource of type T, if present.
func GetResource[T any](c Cell) (*T, bool) {
	id, ok := c.Components().GetValidResourceID(component.TypeOf[T]())
	if !ok {
		return nil, false
	}
	ptr, ok := c.GetResourceByID(id)
	if !ok {
		return nil, false
	}
	return (*T)(ptr.Unsafe()), true
}

// GetResourceRef returns a read handle to the send resource of type T.
func GetResourceRef[T any](c Cell) (change.Ref[T], bool) {
	id, ok := c.Components().GetValidResourceID(component.TypeOf[T]())
	if !ok {
		return change.Ref[T]{}, false
	}
	ptr, cells, changedBy, ok := c.GetResourceWithTicks(id)
	if !ok {
		return change.Ref[T]{}, false
	}
	ticks := change.NewTicks(cells, c.LastChangeTick(), c.ChangeTick())
	return change.NewRef((*T)(ptr.Unsafe()), ticks, changedBy), true
}

// GetResourceMut returns a write handle to the send resource of type T.
func GetResourceMut[T any](c Cell) (change.Mut[T], bool) {
	c.access.assertAllowsMutableAccess()
	id, ok := c.Components().GetValidResourceID(component.TypeOf[T]())
	if !ok {
		return change.Mut[T]{}, false
	}
	m, ok := c.GetResourceMutByID(id)
	if !ok {
		return change.Mut[T]{}, false
	}
	return change.WithType[T](m), true
}

// GetNonSendResource returns the goroutine-bound resource of type T, if present.
func GetNonSendResource[T any](c Cell) (*T, bool) {
	id, ok := c.Components().GetValidResourceID(component.TypeOf[T]())
	if !ok {
		return nil, false
	}
	ptr, ok := c.GetNonSendResourceByID(id)
	if !ok {
		return nil, false
	}
	return (*T)(ptr.Unsafe()), true
}

// GetNonSendResourceRef returns a read handle to the goroutine-bound resource of type T.
func GetNonSendResourceRef[T any](c Cell) (change.Ref[T], bool) {
	id, ok := c.Components().GetValidResourceID(component.TypeOf[T]())
	if !ok {
		return change.Ref[T]{}, false
	}
	ptr, cells, changedBy, ok := c.GetNonSendWithTicks(id)
	if !ok {
		return change.Ref[T]{}, false
	}
	ticks := change.NewTicks(cells, c.LastChangeTick(), c.ChangeTick())
	return change.NewRef((*T)(ptr.Unsafe()), ticks, changedBy), true
}

// GetNonSendResourceMut returns a write handle to the goroutine-bound resource of type T.
func GetNonSendResourceMut[T any](c Cell) (change.Mut[T], bool) {
	c.access.assertAllowsMutableAccess()
	id, ok := c.Components().GetValidResourceID(component.TypeOf[T]())
	if !ok {
		return change.Mut[T]{}, false
	}
	m, ok := c.GetNonSendResourceMutByID(id)
	if !ok {
		return change.Mut[T]{}, false
	}
	return change.WithType[T](m), true
}
