package change

import (
	"pkg.world.dev/world-engine/ecs/types"
)

// Mut is a write handle to a value of T. Every access that may write stamps the value as changed at
// the handle's thisRun tick and records the caller when location tracking is on. Only one Mut to a
// given value may be alive at a time.
type Mut[T any] struct {
	value     *T
	ticks     TicksMut
	changedBy *types.CallerLocation
}

// NewMut wraps value. changedBy may be nil.
func NewMut[T any](value *T, ticks TicksMut, changedBy *types.CallerLocation) Mut[T] {
	return Mut[T]{value: value, ticks: ticks, changedBy: changedBy}
}

// Read returns a copy of the value without marking it changed.
func (m Mut[T]) Read() T {
	return *m.value
}

// Get returns a pointer for writing and marks the value changed.
func (m Mut[T]) Get() *T {
	m.markChanged(types.Caller(1))
	return m.value
}

// Set overwrites the value.
func (m Mut[T]) Set(value T) {
	m.markChanged(types.Caller(1))
	*m.value = value
}

// Modify applies fn to the value in place.
func (m Mut[T]) Modify(fn func(*T)) {
	m.markChanged(types.Caller(1))
	fn(m.value)
}

// BypassChangeDetection returns a pointer for writing without touching the ticks.
func (m Mut[T]) BypassChangeDetection() *T {
	return m.value
}

// SetChanged marks the value changed without writing it.
func (m Mut[T]) SetChanged() {
	m.markChanged(types.Caller(1))
}

// SetLastChanged overwrites the changed tick.
func (m Mut[T]) SetLastChanged(tick types.Tick) {
	m.ticks.SetLastChanged(tick)
}

func (m Mut[T]) IsAdded() bool {
	return m.ticks.IsAdded()
}

func (m Mut[T]) IsChanged() bool {
	return m.ticks.IsChanged()
}

func (m Mut[T]) LastChanged() types.Tick {
	return m.ticks.LastChanged()
}

func (m Mut[T]) Added() types.Tick {
	return m.ticks.Added()
}

// AsRef downgrades the handle to a read handle.
func (m Mut[T]) AsRef() Ref[T] {
	return NewRef(m.value, m.ticks.Ticks, m.changedBy)
}

// ChangedBy returns where the value was last changed.
func (m Mut[T]) ChangedBy() *types.CallerLocation {
	return m.AsRef().ChangedBy()
}

func (m Mut[T]) markChanged(caller *types.CallerLocation) {
	m.ticks.SetChanged()
	if m.changedBy != nil && caller != nil {
		*m.changedBy = *caller
	}
}

// SetIfNeq writes value only if it differs from the current one, and reports whether it wrote.
func SetIfNeq[T comparable](m Mut[T], value T) bool {
	if *m.value == value {
		return false
	}
	m.markChanged(types.Caller(1))
	*m.value = value
	return true
}
