package snapshot_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"pkg.world.dev/world-engine/assert"

	"pkg.world.dev/world-engine/ecs/component"
	"pkg.world.dev/world-engine/ecs/event"
	"pkg.world.dev/world-engine/ecs/snapshot"
	"pkg.world.dev/world-engine/ecs/types"
	"pkg.world.dev/world-engine/ecs/world"
)

type Position struct{ X, Y float64 }

type Frozen struct {
	component.SparseStorage
	component.Immutable
}

type Clock struct{ Tick int }

func newWorld(t *testing.T) *world.World {
	t.Helper()
	w := world.New()
	w.Spawn(Position{X: 1}, Frozen{})
	w.Spawn(Position{X: 2})
	w.SpawnEmpty()
	world.InsertResource(w, Clock{})
	w.AddObserver("tick", func(event.Trigger) {})
	w.ClearTrackers()
	return w
}

func TestTake(t *testing.T) {
	w := newWorld(t)
	s := snapshot.Take(w.AsReadOnlyCell())

	assert.Equal(t, w.ID(), s.WorldID)
	assert.Equal(t, w.ReadChangeTick(), s.ChangeTick)
	assert.Equal(t, w.LastChangeTick(), s.LastChangeTick)
	assert.Equal(t, 3, s.Entities)
	assert.Equal(t, 2, s.Bundles)
	assert.Equal(t, 1, s.Observers)

	require.Len(t, s.Components, 3)
	assert.Equal(t, "SparseSet", s.Components[1].Storage)
	assert.Check(t, !s.Components[1].Mutable)
	assert.Check(t, s.Components[2].Resource)

	require.Len(t, s.Archetypes, 3)
	entities := 0
	for _, arch := range s.Archetypes {
		entities += arch.Entities
	}
	assert.Equal(t, s.Entities, entities)
	assert.DeepEqual(t, []types.ComponentID{0, 1}, s.Archetypes[1].Components)
}

func TestTakeDoesNotAdvanceTicks(t *testing.T) {
	w := newWorld(t)
	before := w.ReadChangeTick()
	snapshot.Take(w.AsReadOnlyCell())
	assert.Equal(t, before, w.ReadChangeTick())
}

func newStore(t *testing.T) *snapshot.RedisStore {
	t.Helper()
	s := miniredis.RunT(t)
	store := snapshot.NewRedisStore(snapshot.Options{Addr: s.Addr()})
	t.Cleanup(func() { assert.NilError(t, store.Close()) })
	return store
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	w := newWorld(t)
	want := snapshot.Take(w.AsReadOnlyCell())

	require.NoError(t, store.Save(ctx, want))
	got, err := store.Load(ctx, w.ID())
	require.NoError(t, err)

	assert.Check(t, want.TakenAt.Equal(got.TakenAt))
	want.TakenAt, got.TakenAt = time.Time{}, time.Time{}
	assert.DeepEqual(t, want, got)

	keys, err := store.Client.Keys(ctx, "ECS:SNAPSHOT:*").Result()
	require.NoError(t, err)
	assert.DeepEqual(t, []string{"ECS:SNAPSHOT:" + w.ID().String()}, keys)
}

func TestRedisStoreKeepsLatest(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	w := newWorld(t)

	require.NoError(t, store.Save(ctx, snapshot.Take(w.AsReadOnlyCell())))
	w.Spawn(Position{})
	require.NoError(t, store.Save(ctx, snapshot.Take(w.AsReadOnlyCell())))

	got, err := store.Load(ctx, w.ID())
	require.NoError(t, err)
	assert.Equal(t, 4, got.Entities)
}

func TestRedisStoreMissingSnapshot(t *testing.T) {
	store := newStore(t)
	_, err := store.Load(context.Background(), uuid.New())
	assert.ErrorIs(t, err, snapshot.ErrSnapshotNotFound)
}
