package world_test

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"pkg.world.dev/world-engine/assert"

	"pkg.world.dev/world-engine/ecs/event"
	"pkg.world.dev/world-engine/ecs/types"
	"pkg.world.dev/world-engine/ecs/world"
)

func position(t *testing.T, w *world.World, e types.Entity) (Position, bool) {
	t.Helper()
	ec, err := w.AsReadOnlyCell().GetEntity(e)
	require.NoError(t, err)
	p, ok := world.Get[Position](ec)
	if !ok {
		return Position{}, false
	}
	return *p, true
}

func TestInsertMovesEntityWithoutDisturbingOthers(t *testing.T) {
	w := world.New()
	a := w.Spawn(Position{X: 1})
	b := w.Spawn(Position{X: 2})
	c := w.Spawn(Position{X: 3})

	require.NoError(t, w.Insert(a, Velocity{DX: 1}))

	for e, want := range map[types.Entity]float64{a: 1, b: 2, c: 3} {
		got, ok := position(t, w, e)
		require.True(t, ok)
		assert.Equal(t, want, got.X)
	}

	ec, err := w.AsCell().GetEntity(a)
	require.NoError(t, err)
	v, ok := world.Get[Velocity](ec)
	require.True(t, ok)
	assert.Equal(t, 1.0, v.DX)
}

func TestInsertExistingComponentMarksChanged(t *testing.T) {
	w := world.New()
	e := w.Spawn(Position{X: 1})
	w.ClearTrackers()
	require.NoError(t, w.Insert(e, Position{X: 5}))

	ec, err := w.AsCell().GetEntity(e)
	require.NoError(t, err)
	ticks, ok := world.GetChangeTicks[Position](ec)
	require.True(t, ok)
	assert.Equal(t, types.ComponentTicks{Added: 1, Changed: 2}, ticks)
	got, _ := position(t, w, e)
	assert.Equal(t, 5.0, got.X)
}

func TestInsertRejectsNilAndDeadEntities(t *testing.T) {
	w := world.New()
	e := w.SpawnEmpty()
	assert.ErrorIs(t, w.Insert(e, nil), world.ErrNilComponent)

	w.Despawn(e)
	assert.ErrorIs(t, w.Insert(e, Position{}), world.ErrEntityDoesNotExist)
}

func TestRemoveComponent(t *testing.T) {
	w := world.New()
	a := w.Spawn(Position{X: 1}, Velocity{DX: 1}, Stunned{Turns: 2})
	b := w.Spawn(Position{X: 2}, Velocity{DX: 2})

	require.NoError(t, world.Remove[Velocity](w, a))
	require.NoError(t, world.Remove[Stunned](w, a))
	require.NoError(t, world.Remove[Stunned](w, b), "removing an absent component is a no-op")

	ec, err := w.AsCell().GetEntity(a)
	require.NoError(t, err)
	assert.Check(t, !world.Contains[Velocity](ec))
	assert.Check(t, !world.Contains[Stunned](ec))
	got, ok := position(t, w, a)
	require.True(t, ok)
	assert.Equal(t, 1.0, got.X)

	ec, err = w.AsCell().GetEntity(b)
	require.NoError(t, err)
	v, ok := world.Get[Velocity](ec)
	require.True(t, ok)
	assert.Equal(t, 2.0, v.DX)

	velocityID := world.RegisterComponent[Velocity](w)
	assert.DeepEqual(t, []types.Entity{a}, w.RemovedComponents().Get(velocityID))
}

func TestDespawnKeepsOtherEntitiesReachable(t *testing.T) {
	w := world.New()
	entities := []types.Entity{
		w.Spawn(Position{X: 0}, Stunned{Turns: 0}),
		w.Spawn(Position{X: 1}, Stunned{Turns: 1}),
		w.Spawn(Position{X: 2}, Stunned{Turns: 2}),
	}
	assert.Check(t, w.Despawn(entities[0]))
	assert.Check(t, !w.Despawn(entities[0]))
	assert.Equal(t, 2, w.Entities().Len())

	for i, e := range entities[1:] {
		ec, err := w.AsCell().GetEntity(e)
		require.NoError(t, err)
		p, _ := world.Get[Position](ec)
		assert.Equal(t, float64(i+1), p.X)
		s, _ := world.Get[Stunned](ec)
		assert.Equal(t, i+1, s.Turns)
	}

	reused := w.Spawn(Position{X: 9})
	assert.Equal(t, entities[0].Index, reused.Index)
	_, err := w.AsCell().GetEntity(entities[0])
	assert.ErrorIs(t, err, world.ErrEntityDoesNotExist)
}

func TestIncrementChangeTickIsMonotonic(t *testing.T) {
	w := world.New()
	c := w.AsCell()
	prev := c.IncrementChangeTick()
	for range 100 {
		next := c.IncrementChangeTick()
		assert.Equal(t, prev+1, next)
		prev = next
	}
	assert.Equal(t, prev+1, c.ChangeTick())
}

func TestClearTrackersAdvancesWindow(t *testing.T) {
	w := world.New()
	assert.Equal(t, types.Tick(0), w.LastChangeTick())
	w.ClearTrackers()
	assert.Equal(t, types.Tick(1), w.LastChangeTick())
	assert.Equal(t, types.Tick(2), w.ReadChangeTick())
	assert.Equal(t, w.LastChangeTick(), w.AsReadOnlyCell().LastChangeTick())
}

func TestFlushAppliesCommands(t *testing.T) {
	w := world.New()
	queue := w.AsCell().CommandQueue()
	var spawned types.Entity
	queue.Push("spawn", func(w *world.World) error {
		spawned = w.Spawn(Position{X: 4})
		return nil
	})
	assert.Equal(t, 1, queue.Len())

	w.Flush()
	assert.Equal(t, 0, queue.Len())
	got, ok := position(t, w, spawned)
	require.True(t, ok)
	assert.Equal(t, 4.0, got.X)
}

func TestFlushRoutesErrorsToDefaultHandler(t *testing.T) {
	w := world.New()
	queue := w.AsCell().CommandQueue()
	queue.Push("fail", func(*world.World) error { return eris.New("boom") })
	assert.Panics(t, w.Flush)

	var contexts []world.ErrorContext
	world.InsertResource(w, world.DefaultErrorHandler{Handler: func(_ error, ctx world.ErrorContext) {
		contexts = append(contexts, ctx)
	}})
	queue.Push("fail", func(*world.World) error { return eris.New("boom") })
	w.Flush()
	require.Equal(t, 1, len(contexts))
	assert.Equal(t, "fail", contexts[0].Name)

	world.InsertResource(w, world.DefaultErrorHandler{Handler: world.IgnoreHandler})
	queue.Push("fail", func(*world.World) error { return eris.New("boom") })
	assert.NotPanics(t, w.Flush)
}

func TestTriggerRunsObservers(t *testing.T) {
	w := world.New()
	target := w.SpawnEmpty()
	var got []event.Trigger
	w.AddObserver("explode", func(tr event.Trigger) { got = append(got, tr) })

	w.Trigger("explode", target)
	w.Trigger("fizzle", target)
	require.Equal(t, 1, len(got))
	assert.Equal(t, target, got[0].Target)
	assert.Equal(t, event.TriggerID(1), got[0].ID)
	assert.Equal(t, event.TriggerID(2), w.AsCell().LastTriggerID())
}

func TestMetadataProjections(t *testing.T) {
	logger := zerolog.Nop()
	w := world.New(world.WithLogger(&logger), world.WithInitialCapacity(8))
	w.Spawn(Position{}, Velocity{})
	w.AddObserver("x", func(event.Trigger) {})
	c := w.AsReadOnlyCell()

	assert.Equal(t, w.ID(), c.ID())
	assert.Equal(t, 1, c.Entities().Len())
	assert.Equal(t, 2, c.Archetypes().Len())
	assert.Equal(t, 2, c.Components().Len())
	assert.Equal(t, 1, c.Bundles().Len())
	assert.Equal(t, 1, c.Observers().Len())
	assert.Equal(t, 0, c.RemovedComponents().Len())
	assert.Check(t, len(c.String()) > 0)
	assert.Equal(t, &logger, w.Logger())
}

func TestSplitAccess(t *testing.T) {
	w := world.New()
	world.InsertResource(w, Counter{})
	e := w.Spawn(Position{})

	resources, components := world.SplitAccess(w)
	counter, ok := world.ResourceMut[Counter](resources)
	require.True(t, ok)
	pos, ok := world.ComponentMut[Position](components, e)
	require.True(t, ok)

	counter.Set(Counter{Value: 1})
	pos.Set(Position{X: 1})

	got, _ := position(t, w, e)
	assert.Equal(t, 1.0, got.X)
	value, _ := world.GetResource[Counter](w.AsReadOnlyCell())
	assert.Equal(t, 1, value.Value)

	_, ok = world.ComponentMut[Position](components, types.PlaceholderEntity)
	assert.Check(t, !ok)
}
