package query

import (
	"pkg.world.dev/world-engine/ecs/archetype"
	"pkg.world.dev/world-engine/ecs/component"
	"pkg.world.dev/world-engine/ecs/storage"
	"pkg.world.dev/world-engine/ecs/types"
	"pkg.world.dev/world-engine/ecs/world"
)

// Pair is the item of Read2.
type Pair[A, B any] struct {
	First  *A
	Second *B
}

type PairState struct {
	First, Second ComponentState
}

type PairFetch struct {
	First, Second ComponentFetch
}

// Read2 fetches read-only pointers to components of types A and B. It matches entities that have both.
type Read2[A, B any] struct{}

func (Read2[A, B]) GetState(components *component.Manager) (PairState, bool) {
	first, ok := componentState[A](components)
	if !ok {
		return PairState{}, false
	}
	second, ok := componentState[B](components)
	if !ok {
		return PairState{}, false
	}
	return PairState{First: first, Second: second}, true
}

func (Read2[A, B]) MatchesComponentSet(state PairState, contains func(types.ComponentID) bool) bool {
	return contains(state.First.ID) && contains(state.Second.ID)
}

func (Read2[A, B]) InitFetch(c world.Cell, state PairState, lastRun, thisRun types.Tick) PairFetch {
	return PairFetch{
		First:  initFetch(c, state.First, lastRun, thisRun),
		Second: initFetch(c, state.Second, lastRun, thisRun),
	}
}

func (Read2[A, B]) SetArchetype(fetch *PairFetch, state PairState, _ *archetype.Archetype, table *storage.Table) {
	fetch.First.setTable(state.First, table)
	fetch.Second.setTable(state.Second, table)
}

func (Read2[A, B]) Fetch(fetch *PairFetch, e types.Entity, row types.TableRow) Pair[A, B] {
	return Pair[A, B]{
		First:  (*A)(fetch.First.ptr(e, row)),
		Second: (*B)(fetch.Second.ptr(e, row)),
	}
}

func (Read2[A, B]) ReleaseState(item Pair[A, B]) Pair[A, B] {
	return item
}
