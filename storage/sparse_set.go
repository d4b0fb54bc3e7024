package storage

import (
	"reflect"
	"unsafe"

	"pkg.world.dev/world-engine/ecs/types"
)

// ComponentSparseSet stores one component keyed by entity index. Values are packed densely; sparse
// maps an entity index to its dense slot plus one, so zero means absent.
type ComponentSparseSet struct {
	sparse   []uint32
	dense    *Column
	entities []types.Entity
}

// NewComponentSparseSet creates an empty sparse set for values of typ.
func NewComponentSparseSet(typ reflect.Type, capacity int) *ComponentSparseSet {
	return &ComponentSparseSet{
		dense:    NewColumn(typ, capacity),
		entities: make([]types.Entity, 0, capacity),
	}
}

func (s *ComponentSparseSet) Len() int {
	return len(s.entities)
}

func (s *ComponentSparseSet) IsEmpty() bool {
	return len(s.entities) == 0
}

// Contains reports whether the set holds a value for entity.
func (s *ComponentSparseSet) Contains(entity types.Entity) bool {
	_, ok := s.slot(entity)
	return ok
}

// Insert stores value for entity. An existing value is replaced and marked changed; a new value is
// added at tick.
func (s *ComponentSparseSet) Insert(
	entity types.Entity, value reflect.Value, tick types.Tick, caller *types.CallerLocation,
) {
	if row, ok := s.slot(entity); ok {
		s.dense.Replace(row, value, tick, caller)
		return
	}
	row := s.dense.Push(value, tick, caller)
	s.entities = append(s.entities, entity)
	for int(entity.Index) >= len(s.sparse) {
		s.sparse = append(s.sparse, 0)
	}
	s.sparse[entity.Index] = uint32(row) + 1
}

// Get returns a pointer to the value of entity, or nil if absent.
func (s *ComponentSparseSet) Get(entity types.Entity) unsafe.Pointer {
	row, ok := s.slot(entity)
	if !ok {
		return nil
	}
	return s.dense.Get(row)
}

// GetWithTicks returns the value of entity together with its tick and caller cells.
func (s *ComponentSparseSet) GetWithTicks(
	entity types.Entity,
) (unsafe.Pointer, types.TickCells, *types.CallerLocation, bool) {
	row, ok := s.slot(entity)
	if !ok {
		return nil, types.TickCells{}, nil, false
	}
	return s.dense.Get(row), s.dense.TickCells(row), s.dense.ChangedBy(row), true
}

// GetTicks copies the ticks of entity.
func (s *ComponentSparseSet) GetTicks(entity types.Entity) (types.ComponentTicks, bool) {
	row, ok := s.slot(entity)
	if !ok {
		return types.ComponentTicks{}, false
	}
	return s.dense.Ticks(row), true
}

// GetValue returns the addressable value of entity.
func (s *ComponentSparseSet) GetValue(entity types.Entity) (reflect.Value, bool) {
	row, ok := s.slot(entity)
	if !ok {
		return reflect.Value{}, false
	}
	return s.dense.Value(row), true
}

// Remove drops the value of entity and reports whether there was one.
func (s *ComponentSparseSet) Remove(entity types.Entity) bool {
	row, ok := s.slot(entity)
	if !ok {
		return false
	}
	s.sparse[entity.Index] = 0
	s.dense.SwapRemove(row)
	last := len(s.entities) - 1
	if int(row) != last {
		moved := s.entities[last]
		s.entities[row] = moved
		s.sparse[moved.Index] = uint32(row) + 1
	}
	s.entities = s.entities[:last]
	return true
}

// CheckChangeTicks clamps every tick in the set.
func (s *ComponentSparseSet) CheckChangeTicks(changeTick types.Tick) {
	s.dense.CheckChangeTicks(changeTick)
}

func (s *ComponentSparseSet) slot(entity types.Entity) (types.TableRow, bool) {
	if int(entity.Index) >= len(s.sparse) {
		return 0, false
	}
	idx := s.sparse[entity.Index]
	if idx == 0 {
		return 0, false
	}
	row := types.TableRow(idx - 1)
	// The index may have been recycled by a newer generation.
	if s.entities[row] != entity {
		return 0, false
	}
	return row, true
}

// SparseSets owns the sparse set of every sparse-stored component.
type SparseSets struct {
	sets     map[types.ComponentID]*ComponentSparseSet
	capacity int
}

func NewSparseSets(capacity int) *SparseSets {
	return &SparseSets{
		sets:     make(map[types.ComponentID]*ComponentSparseSet),
		capacity: capacity,
	}
}

// Get returns the sparse set of id, or nil if it was never created.
func (ss *SparseSets) Get(id types.ComponentID) *ComponentSparseSet {
	return ss.sets[id]
}

// GetOrInsert returns the sparse set of id, creating it for values of typ.
func (ss *SparseSets) GetOrInsert(id types.ComponentID, typ reflect.Type) *ComponentSparseSet {
	set, ok := ss.sets[id]
	if !ok {
		set = NewComponentSparseSet(typ, ss.capacity)
		ss.sets[id] = set
	}
	return set
}

func (ss *SparseSets) Len() int {
	return len(ss.sets)
}

// CheckChangeTicks clamps the ticks of every sparse set.
func (ss *SparseSets) CheckChangeTicks(changeTick types.Tick) {
	for _, set := range ss.sets {
		set.CheckChangeTicks(changeTick)
	}
}
