package storage

import (
	"fmt"
	"reflect"
	"unsafe"

	"pkg.world.dev/world-engine/ecs/types"
)

// ResourceData holds at most one value of a resource type. Non-send data remembers the goroutine that
// inserted it and panics when touched from any other goroutine.
type ResourceData struct {
	name      string
	column    *Column
	send      bool
	origin    uint64
	hasOrigin bool
}

func newResourceData(name string, typ reflect.Type, send bool) *ResourceData {
	return &ResourceData{
		name:   name,
		column: NewColumn(typ, 1),
		send:   send,
	}
}

func (r *ResourceData) Name() string {
	return r.name
}

// Type returns the type of the stored value.
func (r *ResourceData) Type() reflect.Type {
	return r.column.Type()
}

// IsSend reports whether the data may be accessed from any goroutine.
func (r *ResourceData) IsSend() bool {
	return r.send
}

// IsPresent reports whether a value is stored. It never checks goroutine affinity.
func (r *ResourceData) IsPresent() bool {
	return r.column.Len() > 0
}

// GetData returns a pointer to the stored value.
func (r *ResourceData) GetData() (unsafe.Pointer, bool) {
	if !r.IsPresent() {
		return nil, false
	}
	r.validateAccess()
	return r.column.Get(0), true
}

// GetValue returns the stored value as an addressable reflect value.
func (r *ResourceData) GetValue() (reflect.Value, bool) {
	if !r.IsPresent() {
		return reflect.Value{}, false
	}
	r.validateAccess()
	return r.column.Value(0), true
}

// GetTicks copies the ticks of the stored value.
func (r *ResourceData) GetTicks() (types.ComponentTicks, bool) {
	if !r.IsPresent() {
		return types.ComponentTicks{}, false
	}
	return r.column.Ticks(0), true
}

// GetWithTicks returns the stored value with its tick and caller cells.
func (r *ResourceData) GetWithTicks() (unsafe.Pointer, types.TickCells, *types.CallerLocation, bool) {
	if !r.IsPresent() {
		return nil, types.TickCells{}, nil, false
	}
	r.validateAccess()
	return r.column.Get(0), r.column.TickCells(0), r.column.ChangedBy(0), true
}

// Insert stores value. Replacing an existing value keeps its added tick and marks it changed.
func (r *ResourceData) Insert(value reflect.Value, tick types.Tick, caller *types.CallerLocation) {
	if r.IsPresent() {
		r.validateAccess()
		r.column.Replace(0, value, tick, caller)
		return
	}
	if !r.send {
		r.origin = CurrentGoroutineID()
		r.hasOrigin = true
	}
	r.column.Push(value, tick, caller)
}

// Remove drops the stored value and returns a copy of it.
func (r *ResourceData) Remove() (reflect.Value, bool) {
	if !r.IsPresent() {
		return reflect.Value{}, false
	}
	r.validateAccess()
	value := reflect.New(r.column.Type()).Elem()
	value.Set(r.column.Value(0))
	r.column.SwapRemove(0)
	r.hasOrigin = false
	return value, true
}

// CheckChangeTicks clamps the ticks of the stored value.
func (r *ResourceData) CheckChangeTicks(changeTick types.Tick) {
	r.column.CheckChangeTicks(changeTick)
}

func (r *ResourceData) validateAccess() {
	if r.send || !r.hasOrigin {
		return
	}
	current := CurrentGoroutineID()
	if current != r.origin {
		panic(fmt.Sprintf(
			"attempted to access or drop non-send resource %s from goroutine %d on goroutine %d, this is not allowed",
			r.name, r.origin, current,
		))
	}
}

// Resources maps resource ids to their data. A world keeps one set for send resources and one for
// goroutine-bound ones.
type Resources struct {
	send      bool
	resources map[types.ComponentID]*ResourceData
}

func NewResources(send bool) *Resources {
	return &Resources{
		send:      send,
		resources: make(map[types.ComponentID]*ResourceData),
	}
}

// Get returns the data slot of id, or nil if it was never initialized.
func (rs *Resources) Get(id types.ComponentID) *ResourceData {
	return rs.resources[id]
}

// InitializeWith returns the data slot of id, creating an empty one for values of typ.
func (rs *Resources) InitializeWith(id types.ComponentID, name string, typ reflect.Type) *ResourceData {
	data, ok := rs.resources[id]
	if !ok {
		data = newResourceData(name, typ, rs.send)
		rs.resources[id] = data
	}
	return data
}

func (rs *Resources) Len() int {
	return len(rs.resources)
}

// IDs returns the ids that have a data slot.
func (rs *Resources) IDs() []types.ComponentID {
	ids := make([]types.ComponentID, 0, len(rs.resources))
	for id := range rs.resources {
		ids = append(ids, id)
	}
	return ids
}

// CheckChangeTicks clamps the ticks of every resource.
func (rs *Resources) CheckChangeTicks(changeTick types.Tick) {
	for _, data := range rs.resources {
		data.CheckChangeTicks(changeTick)
	}
}
