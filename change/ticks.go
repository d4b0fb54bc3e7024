package change

import "pkg.world.dev/world-engine/ecs/types"

// Ticks is a read view of the tick cells of one value, interpreted against a (lastRun, thisRun)
// window.
type Ticks struct {
	cells   types.TickCells
	lastRun types.Tick
	thisRun types.Tick
}

// NewTicks wraps cells with the change-detection window.
func NewTicks(cells types.TickCells, lastRun, thisRun types.Tick) Ticks {
	return Ticks{cells: cells, lastRun: lastRun, thisRun: thisRun}
}

// IsAdded reports whether the value was added after lastRun.
func (t Ticks) IsAdded() bool {
	return t.cells.Added.IsNewerThan(t.lastRun, t.thisRun)
}

// IsChanged reports whether the value was added or changed after lastRun.
func (t Ticks) IsChanged() bool {
	return t.cells.Changed.IsNewerThan(t.lastRun, t.thisRun)
}

// LastChanged returns the tick of the last change.
func (t Ticks) LastChanged() types.Tick {
	return *t.cells.Changed
}

// Added returns the tick at which the value was added.
func (t Ticks) Added() types.Tick {
	return *t.cells.Added
}

func (t Ticks) LastRun() types.Tick {
	return t.lastRun
}

func (t Ticks) ThisRun() types.Tick {
	return t.thisRun
}

// TicksMut is the write view of the tick cells of one value.
type TicksMut struct {
	Ticks
}

// NewTicksMut wraps cells with the change-detection window.
func NewTicksMut(cells types.TickCells, lastRun, thisRun types.Tick) TicksMut {
	return TicksMut{Ticks: NewTicks(cells, lastRun, thisRun)}
}

// SetChanged stamps the value as changed at thisRun.
func (t TicksMut) SetChanged() {
	*t.cells.Changed = t.thisRun
}

// SetLastChanged overwrites the changed tick. It is meant for rollback and replay, not regular writes.
func (t TicksMut) SetLastChanged(tick types.Tick) {
	*t.cells.Changed = tick
}

// SetAdded stamps the value as added, and therefore changed, at thisRun.
func (t TicksMut) SetAdded() {
	*t.cells.Added = t.thisRun
	*t.cells.Changed = t.thisRun
}
