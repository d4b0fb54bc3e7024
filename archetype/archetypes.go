package archetype

import (
	"slices"
	"strconv"
	"strings"

	"pkg.world.dev/world-engine/ecs/types"
)

// Archetypes owns every archetype of a world. Archetype EmptyArchetypeID always exists.
type Archetypes struct {
	archetypes []*Archetype
	byKey      map[string]types.ArchetypeID
}

func NewArchetypes() *Archetypes {
	as := &Archetypes{byKey: make(map[string]types.ArchetypeID)}
	as.archetypes = append(as.archetypes, newArchetype(types.EmptyArchetypeID, types.EmptyTableID, nil, nil))
	as.byKey[""] = types.EmptyArchetypeID
	return as
}

// Get returns the archetype with id, or nil.
func (as *Archetypes) Get(id types.ArchetypeID) *Archetype {
	if int(id) >= len(as.archetypes) {
		return nil
	}
	return as.archetypes[id]
}

// Empty returns the archetype of entities without components.
func (as *Archetypes) Empty() *Archetype {
	return as.archetypes[types.EmptyArchetypeID]
}

func (as *Archetypes) Len() int {
	return len(as.archetypes)
}

// All returns every archetype ordered by id.
func (as *Archetypes) All() []*Archetype {
	return as.archetypes
}

// GetIDOrInsert returns the archetype for components, creating it with tableID if needed. storageOf
// resolves the storage kind of each component.
func (as *Archetypes) GetIDOrInsert(
	components []types.ComponentID, tableID types.TableID, storageOf func(types.ComponentID) types.StorageType,
) types.ArchetypeID {
	sorted := slices.Clone(components)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	key := idKey(sorted)
	if id, ok := as.byKey[key]; ok {
		return id
	}
	storage := make([]types.StorageType, len(sorted))
	for i, cid := range sorted {
		storage[i] = storageOf(cid)
	}
	id := types.ArchetypeID(len(as.archetypes))
	as.archetypes = append(as.archetypes, newArchetype(id, tableID, sorted, storage))
	as.byKey[key] = id
	return id
}

func idKey(ids []types.ComponentID) string {
	var sb strings.Builder
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	return sb.String()
}
