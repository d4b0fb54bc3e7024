package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"pkg.world.dev/world-engine/ecs/change"
	"pkg.world.dev/world-engine/ecs/component"
	ecslog "pkg.world.dev/world-engine/ecs/log"
	"pkg.world.dev/world-engine/ecs/query"
	"pkg.world.dev/world-engine/ecs/snapshot"
	"pkg.world.dev/world-engine/ecs/statsd"
	"pkg.world.dev/world-engine/ecs/types"
	"pkg.world.dev/world-engine/ecs/world"
)

var ErrInvalidOptions = eris.New("invalid bench options")

type Position struct{ X, Y float64 }

type Velocity struct{ DX, DY float64 }

// Burning is attached to a few entities so that writes also go through sparse set storage.
type Burning struct {
	component.SparseStorage
	Turns int
}

// Stats is updated once per tick on the goroutine that owns the world.
type Stats struct {
	Ticks   int
	Changed int
}

type Options struct {
	Entities int
	Workers  int
	Ticks    int
	Snapshot bool
	Store    snapshot.Store
}

func (o Options) validate() error {
	switch {
	case o.Entities < 0:
		return eris.Wrapf(ErrInvalidOptions, "entities must not be negative, got %d", o.Entities)
	case o.Workers < 1:
		return eris.Wrapf(ErrInvalidOptions, "workers must be at least 1, got %d", o.Workers)
	case o.Ticks < 0:
		return eris.Wrapf(ErrInvalidOptions, "ticks must not be negative, got %d", o.Ticks)
	case o.Snapshot && o.Store == nil:
		return eris.Wrap(ErrInvalidOptions, "snapshot requested without a store")
	}
	return nil
}

type Result struct {
	Entities int
	Ticks    int
	// Changed is the number of Position writes observed across all ticks.
	Changed  int
	Snapshot *snapshot.Snapshot
}

// Run spawns opts.Entities entities and then, for every tick, splits them into opts.Workers disjoint
// chunks written from separate goroutines through copies of one read-write cell. Every other entity
// is stationary, so its Position is never marked changed.
func Run(ctx context.Context, w *world.World, opts Options) (Result, error) {
	if err := opts.validate(); err != nil {
		return Result{}, err
	}
	world.InsertResource(w, Stats{})
	entities := make([]types.Entity, opts.Entities)
	for i := range entities {
		velocity := Velocity{}
		if i%2 == 0 {
			velocity = Velocity{DX: 1, DY: 0.5}
		}
		if i%8 == 0 {
			entities[i] = w.Spawn(Position{}, velocity, Burning{Turns: opts.Ticks})
		} else {
			entities[i] = w.Spawn(Position{}, velocity)
		}
	}
	w.ClearTrackers()
	ecslog.Components(w.Logger(), w.AsReadOnlyCell(), zerolog.DebugLevel)

	result := Result{Entities: opts.Entities}
	for tick := 0; tick < opts.Ticks; tick++ {
		if err := ctx.Err(); err != nil {
			return result, eris.Wrap(err, "bench interrupted")
		}
		start := time.Now()
		if err := writeTick(ctx, w.AsCell(), entities, opts.Workers); err != nil {
			return result, err
		}
		changed, err := countChanged(w.AsReadOnlyCell(), entities)
		if err != nil {
			return result, err
		}
		stats, ok := world.GetResourceMut[Stats](w.AsCell())
		if !ok {
			return result, eris.New("stats resource is missing")
		}
		stats.Modify(func(s *Stats) {
			s.Ticks++
			s.Changed += changed
		})
		result.Ticks++
		result.Changed += changed

		w.ClearTrackers()
		w.CheckChangeTicks()
		statsd.EmitTiming("cellbench.tick", start)
		statsd.Count("cellbench.changed", int64(changed))
		w.Logger().Debug().Int("tick", tick).Int("changed", changed).Msg("tick complete")
	}
	ecslog.World(w.Logger(), w.AsReadOnlyCell(), zerolog.InfoLevel)

	if opts.Snapshot {
		s := snapshot.Take(w.AsReadOnlyCell())
		if err := opts.Store.Save(ctx, s); err != nil {
			return result, err
		}
		result.Snapshot = &s
	}
	return result, nil
}

// writeTick hands each worker a disjoint chunk of entities. Each worker only touches the components
// of its own entities, so sharing the cell is sound.
func writeTick(ctx context.Context, c world.Cell, entities []types.Entity, workers int) error {
	g, ctx := errgroup.WithContext(ctx)
	size := (len(entities) + workers - 1) / workers
	for start := 0; start < len(entities); start += size {
		chunk := entities[start:min(start+size, len(entities))]
		g.Go(func() error {
			for _, e := range chunk {
				if err := ctx.Err(); err != nil {
					return eris.Wrap(err, "")
				}
				ec, err := c.GetEntity(e)
				if err != nil {
					return err
				}
				move(ec)
			}
			return nil
		})
	}
	return g.Wait()
}

func move(ec world.EntityCell) {
	velocity, ok := world.Get[Velocity](ec)
	if !ok {
		return
	}
	if pos, ok := world.GetMut[Position](ec); ok {
		current := pos.Read()
		change.SetIfNeq(pos, Position{X: current.X + velocity.DX, Y: current.Y + velocity.DY})
	}
	if burning, ok := world.GetMut[Burning](ec); ok && burning.Read().Turns > 0 {
		burning.Modify(func(b *Burning) { b.Turns-- })
	}
}

func countChanged(c world.Cell, entities []types.Entity) (int, error) {
	changed := 0
	for _, e := range entities {
		ec, err := c.GetEntity(e)
		if err != nil {
			return 0, err
		}
		ref, ok := world.GetComponents(ec, query.RefOf[Position]{})
		if ok && ref.IsChanged() {
			changed++
		}
	}
	return changed, nil
}
