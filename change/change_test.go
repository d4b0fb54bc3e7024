package change_test

import (
	"reflect"
	"testing"
	"unsafe"

	"pkg.world.dev/world-engine/assert"

	"pkg.world.dev/world-engine/ecs/change"
	"pkg.world.dev/world-engine/ecs/types"
)

type Score struct{ Points int }

type cells struct {
	added, changed types.Tick
}

func (c *cells) tickCells() types.TickCells {
	return types.TickCells{Added: &c.added, Changed: &c.changed}
}

func TestMutWritesStampThisRun(t *testing.T) {
	testCases := []struct {
		name  string
		write func(change.Mut[Score])
	}{
		{name: "get", write: func(m change.Mut[Score]) { m.Get().Points = 3 }},
		{name: "set", write: func(m change.Mut[Score]) { m.Set(Score{3}) }},
		{name: "modify", write: func(m change.Mut[Score]) { m.Modify(func(s *Score) { s.Points = 3 }) }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			value := Score{1}
			c := &cells{added: 2, changed: 2}
			m := change.NewMut(&value, change.NewTicksMut(c.tickCells(), 4, 7), nil)

			tc.write(m)
			assert.Equal(t, 3, value.Points)
			assert.Equal(t, types.Tick(7), c.changed)
			assert.Equal(t, types.Tick(2), c.added)
			assert.Check(t, m.IsChanged())
			assert.Check(t, !m.IsAdded())
		})
	}
}

func TestMutReadDoesNotMarkChanged(t *testing.T) {
	value := Score{5}
	c := &cells{added: 2, changed: 2}
	m := change.NewMut(&value, change.NewTicksMut(c.tickCells(), 4, 7), nil)

	assert.Equal(t, Score{5}, m.Read())
	m.BypassChangeDetection().Points = 6
	assert.Equal(t, types.Tick(2), c.changed)
	assert.Check(t, !m.AsRef().IsChanged())
	assert.Equal(t, Score{6}, m.AsRef().Value())
}

func TestSetIfNeq(t *testing.T) {
	value := 1
	c := &cells{added: 1, changed: 1}
	m := change.NewMut(&value, change.NewTicksMut(c.tickCells(), 1, 3), nil)

	assert.Check(t, !change.SetIfNeq(m, 1))
	assert.Equal(t, types.Tick(1), c.changed)
	assert.Check(t, change.SetIfNeq(m, 2))
	assert.Equal(t, types.Tick(3), c.changed)
	assert.Equal(t, 2, value)
}

func TestTicksMutSetAdded(t *testing.T) {
	c := &cells{added: 1, changed: 1}
	ticks := change.NewTicksMut(c.tickCells(), 5, 9)
	assert.Check(t, !ticks.IsAdded())
	ticks.SetAdded()
	assert.Check(t, ticks.IsAdded())
	assert.Equal(t, types.Tick(9), ticks.LastChanged())

	ticks.SetLastChanged(6)
	assert.Equal(t, types.Tick(6), c.changed)
}

func TestRefChangedByIsACopy(t *testing.T) {
	value := Score{}
	c := &cells{}
	loc := types.CallerLocation{File: "a.go", Line: 1}
	ref := change.NewRef(&value, change.NewTicks(c.tickCells(), 0, 1), &loc)

	got := ref.ChangedBy()
	got.Line = 99
	assert.Equal(t, 1, loc.Line)

	noLoc := change.NewRef(&value, change.NewTicks(c.tickCells(), 0, 1), nil)
	assert.Check(t, noLoc.ChangedBy() == nil)
}

func TestMutRecordsCallerWhenTracking(t *testing.T) {
	if !types.TrackLocation {
		t.Skip("location tracking is compiled out")
	}
	value := Score{}
	c := &cells{}
	var loc types.CallerLocation
	m := change.NewMut(&value, change.NewTicksMut(c.tickCells(), 0, 1), &loc)
	m.Set(Score{1})
	assert.Check(t, loc.Line > 0)
}

func TestPtrDeref(t *testing.T) {
	value := Score{4}
	p := change.NewPtr(unsafe.Pointer(&value), reflect.TypeOf(value))
	assert.Equal(t, 4, change.Deref[Score](p).Points)
	assert.Equal(t, Score{4}, p.Interface())
	assert.Panics(t, func() { change.Deref[int](p) })
}

func TestMutUntypedValueMarksChanged(t *testing.T) {
	value := Score{1}
	c := &cells{added: 1, changed: 1}
	p := change.NewPtr(unsafe.Pointer(&value), reflect.TypeOf(value))
	m := change.NewMutUntyped(p, change.NewTicksMut(c.tickCells(), 1, 8), nil)

	_ = m.BypassChangeDetection()
	assert.Equal(t, types.Tick(1), c.changed)

	m.Value().Field(0).SetInt(10)
	assert.Equal(t, 10, value.Points)
	assert.Equal(t, types.Tick(8), c.changed)

	typed := change.WithType[Score](m)
	assert.Equal(t, Score{10}, typed.Read())
	assert.Panics(t, func() { change.WithType[string](m) })
}
