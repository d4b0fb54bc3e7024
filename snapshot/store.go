package snapshot

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"

	"pkg.world.dev/world-engine/ecs/codec"
	"pkg.world.dev/world-engine/ecs/statsd"
)

var ErrSnapshotNotFound = eris.New("snapshot not found")

type Store interface {
	Save(ctx context.Context, s Snapshot) error
	Load(ctx context.Context, worldID uuid.UUID) (Snapshot, error)
}

var _ Store = (*RedisStore)(nil)

// RedisStore keeps the latest snapshot of each world under ECS:SNAPSHOT:<world id>.
type RedisStore struct {
	Client *redis.Client
}

type Options = redis.Options

func NewRedisStore(options Options) *RedisStore {
	return &RedisStore{Client: redis.NewClient(&options)}
}

func (r *RedisStore) Save(ctx context.Context, s Snapshot) error {
	start := time.Now()
	defer statsd.EmitSnapshot(start, "save")

	bz, err := codec.Encode(s)
	if err != nil {
		return err
	}
	return eris.Wrap(r.Client.Set(ctx, snapshotKey(s.WorldID), bz, 0).Err(), "failed to save snapshot")
}

func (r *RedisStore) Load(ctx context.Context, worldID uuid.UUID) (Snapshot, error) {
	start := time.Now()
	defer statsd.EmitSnapshot(start, "load")

	bz, err := r.Client.Get(ctx, snapshotKey(worldID)).Bytes()
	if eris.Is(err, redis.Nil) {
		return Snapshot{}, eris.Wrapf(ErrSnapshotNotFound, "world %s", worldID)
	} else if err != nil {
		return Snapshot{}, eris.Wrap(err, "failed to load snapshot")
	}
	return codec.Decode[Snapshot](bz)
}

func (r *RedisStore) Close() error {
	return eris.Wrap(r.Client.Close(), "")
}

func snapshotKey(worldID uuid.UUID) string {
	return "ECS:SNAPSHOT:" + worldID.String()
}
