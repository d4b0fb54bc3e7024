package entity

import (
	"github.com/rotisserie/eris"

	"pkg.world.dev/world-engine/ecs/types"
)

var ErrEntityNotAlive = eris.New("entity is not alive")

// SpawnedOrDespawned records who last spawned or despawned an entity index, and when.
type SpawnedOrDespawned struct {
	By *types.CallerLocation
	At types.Tick
}

type meta struct {
	generation uint32
	location   types.EntityLocation
	alive      bool
	spawned    *SpawnedOrDespawned
}

// Entities is the entity index. Freed indices are recycled with a bumped generation.
type Entities struct {
	meta    []meta
	pending []uint32
	alive   int
}

func NewEntities(capacity int) *Entities {
	return &Entities{meta: make([]meta, 0, capacity)}
}

// Alloc returns a new live entity with an invalid location.
func (es *Entities) Alloc() types.Entity {
	es.alive++
	if n := len(es.pending); n > 0 {
		index := es.pending[n-1]
		es.pending = es.pending[:n-1]
		m := &es.meta[index]
		m.alive = true
		m.location = types.InvalidLocation
		return types.NewEntity(index, m.generation)
	}
	index := uint32(len(es.meta))
	es.meta = append(es.meta, meta{location: types.InvalidLocation, alive: true})
	return types.NewEntity(index, 0)
}

// Free releases entity and returns its last location.
func (es *Entities) Free(entity types.Entity) (types.EntityLocation, error) {
	if !es.Contains(entity) {
		return types.InvalidLocation, eris.Wrapf(ErrEntityNotAlive, "entity %s", entity)
	}
	m := &es.meta[entity.Index]
	loc := m.location
	m.alive = false
	m.generation++
	m.location = types.InvalidLocation
	es.pending = append(es.pending, entity.Index)
	es.alive--
	return loc, nil
}

// Get returns the location of a live entity.
func (es *Entities) Get(entity types.Entity) (types.EntityLocation, bool) {
	if !es.Contains(entity) {
		return types.InvalidLocation, false
	}
	return es.meta[entity.Index].location, true
}

// Set updates the location of a live entity.
func (es *Entities) Set(entity types.Entity, location types.EntityLocation) {
	if es.Contains(entity) {
		es.meta[entity.Index].location = location
	}
}

// Contains reports whether entity is alive with the same generation.
func (es *Entities) Contains(entity types.Entity) bool {
	if int(entity.Index) >= len(es.meta) {
		return false
	}
	m := es.meta[entity.Index]
	return m.alive && m.generation == entity.Generation
}

// Len returns the number of live entities.
func (es *Entities) Len() int {
	return es.alive
}

// Total returns the number of indices ever handed out.
func (es *Entities) Total() int {
	return len(es.meta)
}

// SetSpawnedOrDespawnedBy records caller and tick for the index of entity. It is called on spawn and
// despawn, so after a despawn the record names the despawn site.
func (es *Entities) SetSpawnedOrDespawnedBy(entity types.Entity, caller *types.CallerLocation, at types.Tick) {
	if int(entity.Index) >= len(es.meta) {
		return
	}
	es.meta[entity.Index].spawned = &SpawnedOrDespawned{By: caller, At: at}
}

// SpawnedOrDespawnedBy returns where the index of entity was last spawned or despawned. It is nil when
// location tracking is off or nothing was recorded.
func (es *Entities) SpawnedOrDespawnedBy(entity types.Entity) *types.CallerLocation {
	if !types.TrackLocation || int(entity.Index) >= len(es.meta) {
		return nil
	}
	if s := es.meta[entity.Index].spawned; s != nil {
		return s.By
	}
	return nil
}

// SpawnedOrDespawned returns the full record of the index of entity.
func (es *Entities) SpawnedOrDespawned(entity types.Entity) (SpawnedOrDespawned, bool) {
	if int(entity.Index) >= len(es.meta) {
		return SpawnedOrDespawned{}, false
	}
	s := es.meta[entity.Index].spawned
	if s == nil {
		return SpawnedOrDespawned{}, false
	}
	return *s, true
}

// SpawnedOrDespawnedUnchecked is SpawnedOrDespawned for entities known to be live. It panics if the
// record is missing.
func (es *Entities) SpawnedOrDespawnedUnchecked(entity types.Entity) SpawnedOrDespawned {
	s := es.meta[entity.Index].spawned
	if s == nil {
		panic("entity " + entity.String() + " has no spawn metadata")
	}
	return *s
}

// CheckChangeTicks clamps recorded spawn ticks.
func (es *Entities) CheckChangeTicks(changeTick types.Tick) {
	for i := range es.meta {
		if s := es.meta[i].spawned; s != nil {
			s.At.CheckTick(changeTick)
		}
	}
}

// Each calls fn for every live entity in index order.
func (es *Entities) Each(fn func(types.Entity, types.EntityLocation)) {
	for i, m := range es.meta {
		if m.alive {
			fn(types.NewEntity(uint32(i), m.generation), m.location)
		}
	}
}
