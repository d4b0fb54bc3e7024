package main

import (
	"github.com/spf13/cobra"

	"pkg.world.dev/world-engine/ecs/config"
)

func NewRootCmd() *cobra.Command {
	def := config.Default()
	rootCmd := &cobra.Command{
		Use:           "cellbench",
		Short:         "Exercise disjoint world access from many goroutines",
		SilenceUsage:  true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("log-level", def.LogLevel, "log level (trace, debug, info, warn, error)")
	flags.Bool("log-pretty", def.LogPretty, "human readable log output")
	flags.Int("initial-entity-capacity", def.InitialEntityCapacity, "entities to preallocate")
	flags.String("redis-address", def.RedisAddress, "redis address for snapshots")
	flags.String("redis-password", def.RedisPassword, "redis password for snapshots")
	flags.String("statsd-address", def.StatsdAddress, "statsd agent address, metrics are disabled if empty")
	flags.StringSlice("statsd-tags", def.StatsdTags, "statsd tags of the form key:value")

	rootCmd.AddCommand(NewRunCmd())
	return rootCmd
}
