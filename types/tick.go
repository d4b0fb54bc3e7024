package types

import "math"

const (
	// CheckTickThreshold is the number of change ticks that may elapse before stored ticks must be
	// clamped by World.CheckChangeTicks.
	CheckTickThreshold uint32 = 518_400_000

	// MaxChangeAge is the largest age a stored tick can have and still be compared correctly.
	// Older ticks are clamped to this age.
	MaxChangeAge uint32 = math.MaxUint32 - (2*CheckTickThreshold - 1)
)

// Tick is a change-detection counter value. Ticks wrap around, so they are only ever compared relative
// to one another inside a window of MaxChangeAge.
type Tick uint32

// MaxTick is the tick of age MaxChangeAge relative to tick zero.
const MaxTick = Tick(MaxChangeAge)

func (t Tick) Get() uint32 {
	return uint32(t)
}

// RelativeTo returns the wrapping difference t - other.
func (t Tick) RelativeTo(other Tick) Tick {
	return Tick(uint32(t) - uint32(other))
}

// IsNewerThan reports whether t happened after lastRun, as observed from thisRun.
func (t Tick) IsNewerThan(lastRun, thisRun Tick) bool {
	ticksSinceInsert := min(thisRun.RelativeTo(t).Get(), MaxChangeAge)
	ticksSinceSystem := min(thisRun.RelativeTo(lastRun).Get(), MaxChangeAge)
	return ticksSinceSystem > ticksSinceInsert
}

// CheckTick clamps t so that its age relative to tick never exceeds MaxChangeAge. It reports
// whether t was changed.
func (t *Tick) CheckTick(tick Tick) bool {
	age := tick.RelativeTo(*t)
	if age.Get() > MaxChangeAge {
		*t = tick.RelativeTo(MaxTick)
		return true
	}
	return false
}

// ComponentTicks is a snapshot of when a value was added and last changed.
type ComponentTicks struct {
	Added   Tick
	Changed Tick
}

// NewComponentTicks returns ticks for a value that was added, and therefore changed, at tick.
func NewComponentTicks(tick Tick) ComponentTicks {
	return ComponentTicks{Added: tick, Changed: tick}
}

func (c ComponentTicks) IsAdded(lastRun, thisRun Tick) bool {
	return c.Added.IsNewerThan(lastRun, thisRun)
}

func (c ComponentTicks) IsChanged(lastRun, thisRun Tick) bool {
	return c.Changed.IsNewerThan(lastRun, thisRun)
}

func (c *ComponentTicks) SetChanged(tick Tick) {
	c.Changed = tick
}

// TickCells points at the stored added and changed ticks of a single value. Writing through the
// pointers updates storage directly; callers must not hold two TickCells for the same value while one
// of them is written.
type TickCells struct {
	Added   *Tick
	Changed *Tick
}

// Read copies the ticks behind the cells.
func (c TickCells) Read() ComponentTicks {
	return ComponentTicks{Added: *c.Added, Changed: *c.Changed}
}
