package query_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pkg.world.dev/world-engine/assert"

	"pkg.world.dev/world-engine/ecs/component"
	"pkg.world.dev/world-engine/ecs/query"
	"pkg.world.dev/world-engine/ecs/world"
)

type Position struct{ X, Y float64 }

type Health struct{ HP int }

type Poisoned struct {
	component.SparseStorage
	Damage int
}

func TestReadFetchesTableAndSparseComponents(t *testing.T) {
	w := world.New()
	e := w.Spawn(Position{X: 1}, Poisoned{Damage: 3})
	ec, err := w.AsReadOnlyCell().GetEntity(e)
	require.NoError(t, err)

	pos, ok := world.GetComponents(ec, query.Read[Position]{})
	require.True(t, ok)
	assert.Equal(t, 1.0, pos.X)

	poisoned, ok := world.GetComponents(ec, query.Read[Poisoned]{})
	require.True(t, ok)
	assert.Equal(t, 3, poisoned.Damage)
}

func TestReadDoesNotMatchMissingComponent(t *testing.T) {
	w := world.New()
	world.RegisterComponent[Health](w)
	e := w.Spawn(Position{})
	ec, err := w.AsReadOnlyCell().GetEntity(e)
	require.NoError(t, err)

	_, ok := world.GetComponents(ec, query.Read[Health]{})
	assert.Check(t, !ok, "registered but absent")

	_, ok = world.GetComponents(ec, query.Read[float64]{})
	assert.Check(t, !ok, "never registered")
}

func TestRefOfCarriesChangeTicks(t *testing.T) {
	w := world.New()
	e := w.Spawn(Position{}, Poisoned{})
	w.ClearTrackers()
	c := w.AsCell()
	ec, err := c.GetEntity(e)
	require.NoError(t, err)

	m, ok := world.GetMut[Position](ec)
	require.True(t, ok)
	m.Set(Position{X: 2})

	ref, ok := world.GetComponents(ec, query.RefOf[Position]{})
	require.True(t, ok)
	assert.Equal(t, 2.0, ref.Value().X)
	assert.Check(t, ref.IsChanged())
	assert.Check(t, !ref.IsAdded())

	sparse, ok := world.GetComponents(ec, query.RefOf[Poisoned]{})
	require.True(t, ok)
	assert.Check(t, !sparse.IsChanged())
}

func TestHasMatchesEveryEntity(t *testing.T) {
	w := world.New()
	with := w.Spawn(Health{HP: 1})
	without := w.SpawnEmpty()
	c := w.AsReadOnlyCell()

	ec, err := c.GetEntity(with)
	require.NoError(t, err)
	has, ok := world.GetComponents(ec, query.Has[Health]{})
	require.True(t, ok)
	assert.Check(t, has)

	ec, err = c.GetEntity(without)
	require.NoError(t, err)
	has, ok = world.GetComponents(ec, query.Has[Health]{})
	require.True(t, ok)
	assert.Check(t, !has)

	has, ok = world.GetComponents(ec, query.Has[string]{})
	require.True(t, ok)
	assert.Check(t, !has)
}

func TestRead2RequiresBoth(t *testing.T) {
	w := world.New()
	both := w.Spawn(Position{X: 5}, Health{HP: 7})
	one := w.Spawn(Position{X: 6})
	c := w.AsReadOnlyCell()

	ec, err := c.GetEntity(both)
	require.NoError(t, err)
	pair, ok := world.GetComponents(ec, query.Read2[Position, Health]{})
	require.True(t, ok)
	assert.Equal(t, 5.0, pair.First.X)
	assert.Equal(t, 7, pair.Second.HP)

	ec, err = c.GetEntity(one)
	require.NoError(t, err)
	_, ok = world.GetComponents(ec, query.Read2[Position, Health]{})
	assert.Check(t, !ok)
}
