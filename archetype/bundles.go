package archetype

import (
	"slices"

	"pkg.world.dev/world-engine/ecs/types"
)

// BundleInfo describes a set of components that are inserted together.
type BundleInfo struct {
	id         types.BundleID
	components []types.ComponentID
}

func (b *BundleInfo) ID() types.BundleID {
	return b.id
}

// Components returns the sorted component ids of the bundle.
func (b *BundleInfo) Components() []types.ComponentID {
	return b.components
}

// Bundles is the registry of bundles seen by a world.
type Bundles struct {
	infos []*BundleInfo
	byKey map[string]types.BundleID
}

func NewBundles() *Bundles {
	return &Bundles{byKey: make(map[string]types.BundleID)}
}

// Register returns the bundle of components, creating it if needed.
func (bs *Bundles) Register(components []types.ComponentID) *BundleInfo {
	sorted := slices.Clone(components)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	key := idKey(sorted)
	if id, ok := bs.byKey[key]; ok {
		return bs.infos[id]
	}
	info := &BundleInfo{id: types.BundleID(len(bs.infos)), components: sorted}
	bs.infos = append(bs.infos, info)
	bs.byKey[key] = info.id
	return info
}

// Get returns the bundle with id, or nil.
func (bs *Bundles) Get(id types.BundleID) *BundleInfo {
	if int(id) >= len(bs.infos) {
		return nil
	}
	return bs.infos[id]
}

func (bs *Bundles) Len() int {
	return len(bs.infos)
}
