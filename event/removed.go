package event

import (
	"pkg.world.dev/world-engine/ecs/types"
)

// RemovedComponents is a double-buffered log of entities that lost a component. Removals stay
// readable for one Update after they are sent.
type RemovedComponents struct {
	current  map[types.ComponentID][]types.Entity
	previous map[types.ComponentID][]types.Entity
}

func NewRemovedComponents() *RemovedComponents {
	return &RemovedComponents{
		current:  make(map[types.ComponentID][]types.Entity),
		previous: make(map[types.ComponentID][]types.Entity),
	}
}

// Send records that entity lost component id.
func (r *RemovedComponents) Send(id types.ComponentID, entity types.Entity) {
	r.current[id] = append(r.current[id], entity)
}

// Get returns the entities that lost id during this and the previous update.
func (r *RemovedComponents) Get(id types.ComponentID) []types.Entity {
	prev, cur := r.previous[id], r.current[id]
	out := make([]types.Entity, 0, len(prev)+len(cur))
	out = append(out, prev...)
	return append(out, cur...)
}

// Len returns the number of removals currently readable.
func (r *RemovedComponents) Len() int {
	n := 0
	for _, es := range r.previous {
		n += len(es)
	}
	for _, es := range r.current {
		n += len(es)
	}
	return n
}

// Update drops the previous buffer and starts a new one.
func (r *RemovedComponents) Update() {
	r.previous, r.current = r.current, r.previous
	clear(r.current)
}
