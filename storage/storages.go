package storage

import "pkg.world.dev/world-engine/ecs/types"

const defaultCapacity = 64

// Storages groups every payload store of a world.
type Storages struct {
	Tables           *Tables
	SparseSets       *SparseSets
	Resources        *Resources
	NonSendResources *Resources
}

// NewStorages creates empty stores. A non-positive capacity selects the default.
func NewStorages(capacity int) *Storages {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Storages{
		Tables:           NewTables(capacity),
		SparseSets:       NewSparseSets(capacity),
		Resources:        NewResources(true),
		NonSendResources: NewResources(false),
	}
}

// CheckChangeTicks clamps every stored tick against changeTick.
func (s *Storages) CheckChangeTicks(changeTick types.Tick) {
	s.Tables.CheckChangeTicks(changeTick)
	s.SparseSets.CheckChangeTicks(changeTick)
	s.Resources.CheckChangeTicks(changeTick)
	s.NonSendResources.CheckChangeTicks(changeTick)
}
