package types

import "math"

type (
	ComponentID  uint32
	ArchetypeID  uint32
	ArchetypeRow uint32
	TableID      uint32
	TableRow     uint32
	BundleID     uint32
)

const (
	// EmptyArchetypeID is the archetype of entities that hold no components.
	EmptyArchetypeID ArchetypeID = 0
	// EmptyTableID is the table backing archetypes that hold no table components.
	EmptyTableID TableID = 0

	InvalidArchetypeRow ArchetypeRow = math.MaxUint32
	InvalidTableRow     TableRow     = math.MaxUint32
)

// StorageType decides how a (component, entity) pair resolves to a value.
type StorageType uint8

const (
	// StorageTable stores the component in the dense table of the entity's archetype, indexed by row.
	StorageTable StorageType = iota
	// StorageSparseSet stores the component in a per-component sparse set keyed by entity.
	StorageSparseSet
)

func (s StorageType) String() string {
	switch s {
	case StorageTable:
		return "Table"
	case StorageSparseSet:
		return "SparseSet"
	default:
		return "Unknown"
	}
}

// EntityLocation caches where an entity's data lives. It is invalidated by any structural change
// that moves the entity between archetypes or tables.
type EntityLocation struct {
	ArchetypeID  ArchetypeID
	ArchetypeRow ArchetypeRow
	TableID      TableID
	TableRow     TableRow
}

// InvalidLocation is the location of entities that are allocated but not placed in any archetype.
var InvalidLocation = EntityLocation{
	ArchetypeID:  math.MaxUint32,
	ArchetypeRow: InvalidArchetypeRow,
	TableID:      math.MaxUint32,
	TableRow:     InvalidTableRow,
}
