package config_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"pkg.world.dev/world-engine/assert"

	"pkg.world.dev/world-engine/ecs/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 64, cfg.InitialEntityCapacity)
	assert.Equal(t, "localhost:6379", cfg.RedisAddress)
	assert.Equal(t, 0, len(cfg.StatsdTags))
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ECS_LOG_LEVEL", "debug")
	t.Setenv("ECS_LOG_PRETTY", "true")
	t.Setenv("ECS_INITIAL_ENTITY_CAPACITY", "1024")
	t.Setenv("ECS_REDIS_ADDRESS", "redis:6380")
	t.Setenv("ECS_REDIS_PASSWORD", "hunter2")
	t.Setenv("ECS_STATSD_ADDRESS", "statsd:8125")
	t.Setenv("ECS_STATSD_TAGS", "env:dev,team:ecs")

	cfg, err := config.Load(nil)
	require.NoError(t, err)
	assert.DeepEqual(t, config.Config{
		LogLevel:              "debug",
		LogPretty:             true,
		InitialEntityCapacity: 1024,
		RedisAddress:          "redis:6380",
		RedisPassword:         "hunter2",
		StatsdAddress:         "statsd:8125",
		StatsdTags:            []string{"env:dev", "team:ecs"},
	}, cfg)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("ECS_LOG_LEVEL", "debug")
	t.Setenv("ECS_INITIAL_ENTITY_CAPACITY", "10")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "info", "")
	flags.Int("initial-entity-capacity", 64, "")
	require.NoError(t, flags.Parse([]string{"--log-level", "warn"}))

	cfg, err := config.Load(flags)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 10, cfg.InitialEntityCapacity, "unset flags fall through to the environment")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*config.Config)
		err    error
	}{
		{"log level", func(c *config.Config) { c.LogLevel = "loud" }, config.ErrInvalidLogLevel},
		{"capacity", func(c *config.Config) { c.InitialEntityCapacity = -1 }, config.ErrInvalidCapacity},
		{"redis", func(c *config.Config) { c.RedisAddress = "nowhere" }, config.ErrInvalidAddress},
		{"statsd", func(c *config.Config) { c.StatsdAddress = "nowhere" }, config.ErrInvalidAddress},
		{"tags", func(c *config.Config) { c.StatsdTags = []string{"novalue"} }, config.ErrInvalidTag},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.modify(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tc.err)
		})
	}
	assert.NilError(t, config.Default().Validate())
}

func TestLoadRejectsInvalidEnvironment(t *testing.T) {
	t.Setenv("ECS_INITIAL_ENTITY_CAPACITY", "-5")
	_, err := config.Load(nil)
	assert.ErrorIs(t, err, config.ErrInvalidCapacity)
}
