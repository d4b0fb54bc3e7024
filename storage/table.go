package storage

import (
	"reflect"
	"slices"
	"unsafe"

	"pkg.world.dev/world-engine/ecs/types"
)

// Table is the dense storage shared by every archetype with the same set of table components. Each row
// holds one entity and one value per column.
type Table struct {
	id       types.TableID
	entities []types.Entity
	columns  map[types.ComponentID]*Column
	ids      []types.ComponentID
}

func newTable(id types.TableID, ids []types.ComponentID, typs []reflect.Type, capacity int) *Table {
	t := &Table{
		id:       id,
		entities: make([]types.Entity, 0, capacity),
		columns:  make(map[types.ComponentID]*Column, len(ids)),
		ids:      slices.Clone(ids),
	}
	for i, cid := range ids {
		t.columns[cid] = NewColumn(typs[i], capacity)
	}
	return t
}

func (t *Table) ID() types.TableID {
	return t.id
}

// ComponentIDs returns the sorted ids of the table's columns.
func (t *Table) ComponentIDs() []types.ComponentID {
	return t.ids
}

func (t *Table) Entities() []types.Entity {
	return t.entities
}

func (t *Table) EntityCount() int {
	return len(t.entities)
}

func (t *Table) HasColumn(id types.ComponentID) bool {
	_, ok := t.columns[id]
	return ok
}

// GetColumn returns the column of id, or nil if the table does not store id.
func (t *Table) GetColumn(id types.ComponentID) *Column {
	return t.columns[id]
}

// GetComponent returns a pointer to the value of id at row, or nil if the table has no such column.
func (t *Table) GetComponent(id types.ComponentID, row types.TableRow) unsafe.Pointer {
	col, ok := t.columns[id]
	if !ok {
		return nil
	}
	return col.Get(row)
}

// GetAddedTick returns the added tick cell of id at row.
func (t *Table) GetAddedTick(id types.ComponentID, row types.TableRow) *types.Tick {
	col, ok := t.columns[id]
	if !ok {
		return nil
	}
	return col.TickCells(row).Added
}

// GetChangedTick returns the changed tick cell of id at row.
func (t *Table) GetChangedTick(id types.ComponentID, row types.TableRow) *types.Tick {
	col, ok := t.columns[id]
	if !ok {
		return nil
	}
	return col.TickCells(row).Changed
}

// GetChangedBy returns the caller cell of id at row.
func (t *Table) GetChangedBy(id types.ComponentID, row types.TableRow) *types.CallerLocation {
	col, ok := t.columns[id]
	if !ok {
		return nil
	}
	return col.ChangedBy(row)
}

// GetTicksUnchecked copies the ticks of id at row.
func (t *Table) GetTicksUnchecked(id types.ComponentID, row types.TableRow) (types.ComponentTicks, bool) {
	col, ok := t.columns[id]
	if !ok {
		return types.ComponentTicks{}, false
	}
	return col.Ticks(row), true
}

// AllocateRow appends entity with zero values in every column and returns its row.
func (t *Table) AllocateRow(entity types.Entity, tick types.Tick) types.TableRow {
	t.entities = append(t.entities, entity)
	for _, col := range t.columns {
		col.PushZero(tick)
	}
	return types.TableRow(len(t.entities) - 1)
}

// SwapRemove removes row and returns the entity that was moved into it, if any.
func (t *Table) SwapRemove(row types.TableRow) (types.Entity, bool) {
	for _, col := range t.columns {
		col.SwapRemove(row)
	}
	return t.swapRemoveEntity(row)
}

// MoveTo moves the entity at row into dst. Columns dst lacks are dropped; columns only dst has are
// zero-filled at tick. It returns the new row and the entity swapped into row, if any.
func (t *Table) MoveTo(row types.TableRow, dst *Table, tick types.Tick) (types.TableRow, types.Entity, bool) {
	newRow := types.TableRow(len(dst.entities))
	dst.entities = append(dst.entities, t.entities[row])
	for id, col := range t.columns {
		if dstCol, ok := dst.columns[id]; ok {
			col.MoveTo(row, dstCol)
		} else {
			col.SwapRemove(row)
		}
	}
	for id, dstCol := range dst.columns {
		if _, ok := t.columns[id]; !ok {
			dstCol.PushZero(tick)
		}
	}
	swapped, ok := t.swapRemoveEntity(row)
	return newRow, swapped, ok
}

// CheckChangeTicks clamps every tick stored in the table.
func (t *Table) CheckChangeTicks(changeTick types.Tick) {
	for _, col := range t.columns {
		col.CheckChangeTicks(changeTick)
	}
}

func (t *Table) swapRemoveEntity(row types.TableRow) (types.Entity, bool) {
	last := len(t.entities) - 1
	moved := int(row) != last
	var swapped types.Entity
	if moved {
		swapped = t.entities[last]
		t.entities[row] = swapped
	}
	t.entities = t.entities[:last]
	return swapped, moved
}
