package storage

import (
	"reflect"
	"slices"
	"strconv"
	"strings"

	"pkg.world.dev/world-engine/ecs/types"
)

// Tables owns every table of the world. Table EmptyTableID always exists and has no columns.
type Tables struct {
	tables   []*Table
	byKey    map[string]types.TableID
	capacity int
}

// NewTables creates the table set with the empty table in place.
func NewTables(capacity int) *Tables {
	ts := &Tables{
		byKey:    make(map[string]types.TableID),
		capacity: capacity,
	}
	ts.tables = append(ts.tables, newTable(types.EmptyTableID, nil, nil, capacity))
	ts.byKey[""] = types.EmptyTableID
	return ts
}

// Get returns the table with id, or nil.
func (ts *Tables) Get(id types.TableID) *Table {
	if int(id) >= len(ts.tables) {
		return nil
	}
	return ts.tables[id]
}

func (ts *Tables) Len() int {
	return len(ts.tables)
}

// All returns every table ordered by id.
func (ts *Tables) All() []*Table {
	return ts.tables
}

// GetIDOrInsert returns the table storing exactly ids, creating it if needed. typeOf resolves the
// value type of each id.
func (ts *Tables) GetIDOrInsert(ids []types.ComponentID, typeOf func(types.ComponentID) reflect.Type) types.TableID {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	key := tableKey(sorted)
	if id, ok := ts.byKey[key]; ok {
		return id
	}
	typs := make([]reflect.Type, len(sorted))
	for i, cid := range sorted {
		typs[i] = typeOf(cid)
	}
	id := types.TableID(len(ts.tables))
	ts.tables = append(ts.tables, newTable(id, sorted, typs, ts.capacity))
	ts.byKey[key] = id
	return id
}

// CheckChangeTicks clamps the ticks of every table.
func (ts *Tables) CheckChangeTicks(changeTick types.Tick) {
	for _, t := range ts.tables {
		t.CheckChangeTicks(changeTick)
	}
}

func tableKey(ids []types.ComponentID) string {
	var sb strings.Builder
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	return sb.String()
}
