package archetype

import (
	"slices"

	"pkg.world.dev/world-engine/ecs/types"
)

// Entry is one entity of an archetype together with its row in the archetype's table.
type Entry struct {
	Entity   types.Entity
	TableRow types.TableRow
}

// Archetype is a unique set of components. Table components of all its entities live in one table;
// sparse components live in per-component sparse sets.
type Archetype struct {
	id         types.ArchetypeID
	tableID    types.TableID
	components []types.ComponentID
	storage    map[types.ComponentID]types.StorageType
	entities   []Entry
}

func (a *Archetype) ID() types.ArchetypeID {
	return a.id
}

func (a *Archetype) TableID() types.TableID {
	return a.tableID
}

// Components returns the sorted component ids of the archetype.
func (a *Archetype) Components() []types.ComponentID {
	return a.components
}

// Contains reports whether the archetype has component id. It reads metadata only.
func (a *Archetype) Contains(id types.ComponentID) bool {
	_, ok := a.storage[id]
	return ok
}

// StorageType returns how id is stored for entities of this archetype.
func (a *Archetype) StorageType(id types.ComponentID) (types.StorageType, bool) {
	st, ok := a.storage[id]
	return st, ok
}

// TableComponents returns the ids stored in the archetype's table.
func (a *Archetype) TableComponents() []types.ComponentID {
	return a.componentsOf(types.StorageTable)
}

// SparseSetComponents returns the ids stored in sparse sets.
func (a *Archetype) SparseSetComponents() []types.ComponentID {
	return a.componentsOf(types.StorageSparseSet)
}

func (a *Archetype) Entities() []Entry {
	return a.entities
}

func (a *Archetype) Len() int {
	return len(a.entities)
}

func (a *Archetype) IsEmpty() bool {
	return len(a.entities) == 0
}

// Allocate appends entity at tableRow and returns its archetype row.
func (a *Archetype) Allocate(entity types.Entity, tableRow types.TableRow) types.ArchetypeRow {
	a.entities = append(a.entities, Entry{Entity: entity, TableRow: tableRow})
	return types.ArchetypeRow(len(a.entities) - 1)
}

// SwapRemove removes row and returns the entry that was moved into it, if any.
func (a *Archetype) SwapRemove(row types.ArchetypeRow) (Entry, bool) {
	last := len(a.entities) - 1
	moved := int(row) != last
	var swapped Entry
	if moved {
		swapped = a.entities[last]
		a.entities[row] = swapped
	}
	a.entities = a.entities[:last]
	return swapped, moved
}

// SetEntityTableRow updates the table row cached for the entity at row.
func (a *Archetype) SetEntityTableRow(row types.ArchetypeRow, tableRow types.TableRow) {
	a.entities[row].TableRow = tableRow
}

func (a *Archetype) componentsOf(st types.StorageType) []types.ComponentID {
	ids := make([]types.ComponentID, 0, len(a.components))
	for _, id := range a.components {
		if a.storage[id] == st {
			ids = append(ids, id)
		}
	}
	return ids
}

func newArchetype(
	id types.ArchetypeID, tableID types.TableID, components []types.ComponentID, storage []types.StorageType,
) *Archetype {
	a := &Archetype{
		id:         id,
		tableID:    tableID,
		components: slices.Clone(components),
		storage:    make(map[types.ComponentID]types.StorageType, len(components)),
	}
	for i, cid := range components {
		a.storage[cid] = storage[i]
	}
	return a
}
