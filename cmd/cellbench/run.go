package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"pkg.world.dev/world-engine/ecs/config"
	ecslog "pkg.world.dev/world-engine/ecs/log"
	"pkg.world.dev/world-engine/ecs/snapshot"
	"pkg.world.dev/world-engine/ecs/statsd"
	"pkg.world.dev/world-engine/ecs/world"
)

func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Spawn entities and write to them from disjoint goroutines for a number of ticks",
		Example: "cellbench run --entities 10000 --workers 8 --ticks 100 --snapshot",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			opts, err := benchOptionsFromFlags(cmd)
			if err != nil {
				return err
			}

			logger, err := ecslog.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogPretty)
			if err != nil {
				return err
			}
			if cfg.StatsdAddress != "" {
				if err := statsd.Init(cfg.StatsdAddress, cfg.StatsdTags); err != nil {
					return err
				}
				defer func() {
					if err := statsd.Close(); err != nil {
						logger.Warn().Err(err).Msg("failed to close statsd client")
					}
				}()
			}

			w := world.New(world.WithLogger(&logger), world.WithInitialCapacity(cfg.InitialEntityCapacity))
			if opts.Snapshot {
				store := snapshot.NewRedisStore(snapshot.Options{
					Addr:     cfg.RedisAddress,
					Password: cfg.RedisPassword,
				})
				defer func() {
					if err := store.Close(); err != nil {
						logger.Warn().Err(err).Msg("failed to close snapshot store")
					}
				}()
				opts.Store = store
			}

			result, err := Run(cmd.Context(), w, opts)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(),
				"world %s: %d entities, %d workers, %d ticks, %d component writes\n",
				w.ID(), result.Entities, opts.Workers, result.Ticks, result.Changed)
			return eris.Wrap(err, "")
		},
	}
	cmd.Flags().Int("entities", 1000, "number of entities to spawn")
	cmd.Flags().Int("workers", 4, "number of goroutines writing per tick")
	cmd.Flags().Int("ticks", 10, "number of ticks to run")
	cmd.Flags().Bool("snapshot", false, "save a snapshot of the world to redis when done")
	return cmd
}

func benchOptionsFromFlags(cmd *cobra.Command) (Options, error) {
	var opts Options
	var err error
	if opts.Entities, err = cmd.Flags().GetInt("entities"); err != nil {
		return opts, eris.Wrap(err, "")
	}
	if opts.Workers, err = cmd.Flags().GetInt("workers"); err != nil {
		return opts, eris.Wrap(err, "")
	}
	if opts.Ticks, err = cmd.Flags().GetInt("ticks"); err != nil {
		return opts, eris.Wrap(err, "")
	}
	if opts.Snapshot, err = cmd.Flags().GetBool("snapshot"); err != nil {
		return opts, eris.Wrap(err, "")
	}
	return opts, nil
}
