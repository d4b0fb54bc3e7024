package event

import (
	"slices"

	"pkg.world.dev/world-engine/ecs/types"
)

// ObserverID identifies a registered observer.
type ObserverID uint32

// TriggerID numbers triggers. It wraps around.
type TriggerID uint32

// Trigger is what an observer receives when its event fires.
type Trigger struct {
	Event  string
	Target types.Entity
	ID     TriggerID
}

// ObserverFunc reacts to a trigger.
type ObserverFunc func(Trigger)

type observer struct {
	id ObserverID
	fn ObserverFunc
}

// Observers is the registry of event observers.
type Observers struct {
	byEvent map[string][]observer
	events  map[ObserverID]string
	nextID  ObserverID
}

func NewObservers() *Observers {
	return &Observers{
		byEvent: make(map[string][]observer),
		events:  make(map[ObserverID]string),
	}
}

// Add registers fn for event.
func (o *Observers) Add(event string, fn ObserverFunc) ObserverID {
	id := o.nextID
	o.nextID++
	o.byEvent[event] = append(o.byEvent[event], observer{id: id, fn: fn})
	o.events[id] = event
	return id
}

// Remove unregisters id and reports whether it was registered.
func (o *Observers) Remove(id ObserverID) bool {
	event, ok := o.events[id]
	if !ok {
		return false
	}
	delete(o.events, id)
	o.byEvent[event] = slices.DeleteFunc(o.byEvent[event], func(obs observer) bool { return obs.id == id })
	return true
}

// Get returns the observers of event in registration order.
func (o *Observers) Get(event string) []ObserverFunc {
	obs := o.byEvent[event]
	fns := make([]ObserverFunc, len(obs))
	for i, ob := range obs {
		fns[i] = ob.fn
	}
	return fns
}

// Len returns the number of registered observers.
func (o *Observers) Len() int {
	return len(o.events)
}
