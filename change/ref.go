package change

import (
	"pkg.world.dev/world-engine/ecs/types"
)

// Ref is a read handle to a value of T with change detection.
type Ref[T any] struct {
	value     *T
	ticks     Ticks
	changedBy *types.CallerLocation
}

// NewRef wraps value. changedBy may be nil.
func NewRef[T any](value *T, ticks Ticks, changedBy *types.CallerLocation) Ref[T] {
	return Ref[T]{value: value, ticks: ticks, changedBy: changedBy}
}

// Get returns the value. Callers must not write through the pointer.
func (r Ref[T]) Get() *T {
	return r.value
}

// Value returns a copy of the value.
func (r Ref[T]) Value() T {
	return *r.value
}

func (r Ref[T]) IsAdded() bool {
	return r.ticks.IsAdded()
}

func (r Ref[T]) IsChanged() bool {
	return r.ticks.IsChanged()
}

func (r Ref[T]) LastChanged() types.Tick {
	return r.ticks.LastChanged()
}

func (r Ref[T]) Added() types.Tick {
	return r.ticks.Added()
}

// Ticks returns the change-detection view of the value.
func (r Ref[T]) Ticks() Ticks {
	return r.ticks
}

// ChangedBy returns where the value was last changed. It is nil unless location tracking is on.
func (r Ref[T]) ChangedBy() *types.CallerLocation {
	if r.changedBy == nil {
		return nil
	}
	loc := *r.changedBy
	return &loc
}
