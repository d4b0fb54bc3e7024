package storage

import (
	"reflect"
	"unsafe"

	"pkg.world.dev/world-engine/ecs/types"
)

// Column stores the values of one component type together with their change ticks. Values live in a
// typed slice so the garbage collector sees any pointers they contain. Pointers handed out by a column
// are invalidated when the column grows or a row is swap-removed.
type Column struct {
	typ       reflect.Type
	data      reflect.Value
	added     []types.Tick
	changed   []types.Tick
	changedBy []types.CallerLocation
}

// NewColumn creates an empty column for values of typ.
func NewColumn(typ reflect.Type, capacity int) *Column {
	c := &Column{
		typ:     typ,
		data:    reflect.MakeSlice(reflect.SliceOf(typ), 0, capacity),
		added:   make([]types.Tick, 0, capacity),
		changed: make([]types.Tick, 0, capacity),
	}
	if types.TrackLocation {
		c.changedBy = make([]types.CallerLocation, 0, capacity)
	}
	return c
}

func (c *Column) Type() reflect.Type {
	return c.typ
}

func (c *Column) Len() int {
	return c.data.Len()
}

// Push appends value, which must be assignable to the column type, and returns its row.
func (c *Column) Push(value reflect.Value, tick types.Tick, caller *types.CallerLocation) types.TableRow {
	c.data = reflect.Append(c.data, value)
	c.added = append(c.added, tick)
	c.changed = append(c.changed, tick)
	if c.changedBy != nil || types.TrackLocation {
		c.changedBy = append(c.changedBy, derefCaller(caller))
	}
	return types.TableRow(c.data.Len() - 1)
}

// PushZero appends the zero value.
func (c *Column) PushZero(tick types.Tick) types.TableRow {
	return c.Push(reflect.Zero(c.typ), tick, nil)
}

// Initialize overwrites the value at row and resets both ticks, as if it had just been added.
func (c *Column) Initialize(row types.TableRow, value reflect.Value, tick types.Tick, caller *types.CallerLocation) {
	c.data.Index(int(row)).Set(value)
	c.added[row] = tick
	c.changed[row] = tick
	if c.changedBy != nil {
		c.changedBy[row] = derefCaller(caller)
	}
}

// Replace overwrites the value at row and marks it changed.
func (c *Column) Replace(row types.TableRow, value reflect.Value, tick types.Tick, caller *types.CallerLocation) {
	c.data.Index(int(row)).Set(value)
	c.changed[row] = tick
	if c.changedBy != nil {
		c.changedBy[row] = derefCaller(caller)
	}
}

// Get returns a pointer to the value at row. Row is trusted to be in bounds.
func (c *Column) Get(row types.TableRow) unsafe.Pointer {
	return c.data.Index(int(row)).Addr().UnsafePointer()
}

// Value returns the addressable reflect value at row.
func (c *Column) Value(row types.TableRow) reflect.Value {
	return c.data.Index(int(row))
}

// TickCells returns pointers to the stored ticks at row.
func (c *Column) TickCells(row types.TableRow) types.TickCells {
	return types.TickCells{Added: &c.added[row], Changed: &c.changed[row]}
}

// Ticks returns a copy of the ticks at row.
func (c *Column) Ticks(row types.TableRow) types.ComponentTicks {
	return types.ComponentTicks{Added: c.added[row], Changed: c.changed[row]}
}

// ChangedBy returns the caller cell at row, or nil when location tracking is compiled out.
func (c *Column) ChangedBy(row types.TableRow) *types.CallerLocation {
	if c.changedBy == nil {
		return nil
	}
	return &c.changedBy[row]
}

// SwapRemove removes row by moving the last value into it.
func (c *Column) SwapRemove(row types.TableRow) {
	last := c.data.Len() - 1
	if int(row) != last {
		c.data.Index(int(row)).Set(c.data.Index(last))
		c.added[row] = c.added[last]
		c.changed[row] = c.changed[last]
		if c.changedBy != nil {
			c.changedBy[row] = c.changedBy[last]
		}
	}
	// Zero the vacated slot so it does not keep anything alive.
	c.data.Index(last).Set(reflect.Zero(c.typ))
	c.data = c.data.Slice(0, last)
	c.added = c.added[:last]
	c.changed = c.changed[:last]
	if c.changedBy != nil {
		c.changedBy = c.changedBy[:last]
	}
}

// MoveTo appends the value at row, with its ticks, to dst and swap-removes it from c.
func (c *Column) MoveTo(row types.TableRow, dst *Column) types.TableRow {
	dst.data = reflect.Append(dst.data, c.data.Index(int(row)))
	dst.added = append(dst.added, c.added[row])
	dst.changed = append(dst.changed, c.changed[row])
	if dst.changedBy != nil || types.TrackLocation {
		dst.changedBy = append(dst.changedBy, c.changedByAt(row))
	}
	c.SwapRemove(row)
	return types.TableRow(dst.data.Len() - 1)
}

// CheckChangeTicks clamps every stored tick against changeTick.
func (c *Column) CheckChangeTicks(changeTick types.Tick) {
	for i := range c.added {
		c.added[i].CheckTick(changeTick)
		c.changed[i].CheckTick(changeTick)
	}
}

// Clear drops every row.
func (c *Column) Clear() {
	c.data = reflect.MakeSlice(reflect.SliceOf(c.typ), 0, c.data.Cap())
	c.added = c.added[:0]
	c.changed = c.changed[:0]
	if c.changedBy != nil {
		c.changedBy = c.changedBy[:0]
	}
}

func (c *Column) changedByAt(row types.TableRow) types.CallerLocation {
	if c.changedBy == nil {
		return types.CallerLocation{}
	}
	return c.changedBy[row]
}

func derefCaller(caller *types.CallerLocation) types.CallerLocation {
	if caller == nil {
		return types.CallerLocation{}
	}
	return *caller
}
