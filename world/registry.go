package world

import (
	"reflect"

	"pkg.world.dev/world-engine/ecs/component"
	"pkg.world.dev/world-engine/ecs/storage"
	"pkg.world.dev/world-engine/ecs/types"
)

// RegisterComponent registers T as a component of w and returns its id.
func RegisterComponent[T any](w *World, opts ...component.Option) types.ComponentID {
	return component.RegisterType[T](w.components, opts...)
}

// Remove removes the component of type T from e. Removing a component e does not have is a no-op.
func Remove[T any](w *World, e types.Entity) error {
	id, ok := w.components.GetValidID(component.TypeOf[T]())
	if !ok {
		if !w.entities.Contains(e) {
			return w.entityDoesNotExist(e)
		}
		return nil
	}
	return w.RemoveByID(e, id)
}

// RegisterResource registers T as a send resource of w and returns its id.
func RegisterResource[T any](w *World) types.ComponentID {
	return w.components.RegisterResource(component.TypeOf[T](), true)
}

// InsertResource stores value as the send resource of type T, replacing any previous value.
func InsertResource[T any](w *World, value T) {
	id := RegisterResource[T](w)
	insertResource(w, w.storages.Resources, id, value, types.Caller(1))
}

// InitResource inserts the zero value of T unless the resource is already present.
func InitResource[T any](w *World) {
	id := RegisterResource[T](w)
	if data := w.storages.Resources.Get(id); data != nil && data.IsPresent() {
		return
	}
	var zero T
	insertResource(w, w.storages.Resources, id, zero, types.Caller(1))
}

// RemoveResource removes the send resource of type T and returns it.
func RemoveResource[T any](w *World) (T, bool) {
	return removeResource[T](w, w.storages.Resources)
}

// InsertNonSendResource stores value as the goroutine-bound resource of type T. Only the calling
// goroutine may access it afterwards.
func InsertNonSendResource[T any](w *World, value T) {
	id := w.components.RegisterResource(component.TypeOf[T](), false)
	insertResource(w, w.storages.NonSendResources, id, value, types.Caller(1))
}

// RemoveNonSendResource removes the goroutine-bound resource of type T. It panics when called from a
// goroutine other than the one that inserted it.
func RemoveNonSendResource[T any](w *World) (T, bool) {
	return removeResource[T](w, w.storages.NonSendResources)
}

func insertResource[T any](
	w *World, resources *storage.Resources, id types.ComponentID, value T, caller *types.CallerLocation,
) {
	typ := component.TypeOf[T]()
	name, _ := w.components.GetName(id)
	data := resources.InitializeWith(id, name, typ)
	data.Insert(reflect.ValueOf(&value).Elem(), w.ReadChangeTick(), caller)
	w.logger.Debug().Str("resource", name).Bool("send", data.IsSend()).Msg("inserted resource")
}

func removeResource[T any](w *World, resources *storage.Resources) (T, bool) {
	var zero T
	id, ok := w.components.GetValidResourceID(component.TypeOf[T]())
	if !ok {
		return zero, false
	}
	data := resources.Get(id)
	if data == nil {
		return zero, false
	}
	value, ok := data.Remove()
	if !ok {
		return zero, false
	}
	return *value.Addr().Interface().(*T), true
}
