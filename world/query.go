package world

import (
	"pkg.world.dev/world-engine/ecs/archetype"
	"pkg.world.dev/world-engine/ecs/component"
	"pkg.world.dev/world-engine/ecs/storage"
	"pkg.world.dev/world-engine/ecs/types"
)

// QueryData is a compiled read-only query over one entity. S is the query state resolved from the
// component registry, F the per-archetype fetch state and I the item produced for an entity.
type QueryData[S, F, I any] interface {
	// GetState resolves the state, failing if a queried component is not registered.
	GetState(components *component.Manager) (S, bool)
	// MatchesComponentSet reports whether an archetype with the components accepted by contains
	// satisfies the query.
	MatchesComponentSet(state S, contains func(types.ComponentID) bool) bool
	InitFetch(c Cell, state S, lastRun, thisRun types.Tick) F
	SetArchetype(fetch *F, state S, arch *archetype.Archetype, table *storage.Table)
	Fetch(fetch *F, e types.Entity, row types.TableRow) I
	// ReleaseState detaches the item from the fetch state that produced it.
	ReleaseState(item I) I
}

// GetComponents runs q against the entity of ec. It returns false if the entity does not match.
func GetComponents[S, F, I any](ec EntityCell, q QueryData[S, F, I]) (I, bool) {
	var zero I
	state, ok := q.GetState(ec.world.Components())
	if !ok {
		return zero, false
	}
	arch := ec.Archetype()
	if !q.MatchesComponentSet(state, arch.Contains) {
		return zero, false
	}
	fetch := q.InitFetch(ec.world, state, ec.lastRun, ec.thisRun)
	table := ec.world.Storages().Tables.Get(ec.location.TableID)
	q.SetArchetype(&fetch, state, arch, table)
	return q.ReleaseState(q.Fetch(&fetch, ec.entity, ec.location.TableRow)), true
}
