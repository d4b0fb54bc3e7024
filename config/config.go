// Package config loads world and tooling settings from ECS_* environment variables and command
// line flags.
package config

import (
	"net"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "ECS"

const (
	KeyLogLevel              = "log_level"
	KeyLogPretty             = "log_pretty"
	KeyInitialEntityCapacity = "initial_entity_capacity"
	KeyRedisAddress          = "redis_address"
	KeyRedisPassword         = "redis_password"
	KeyStatsdAddress         = "statsd_address"
	KeyStatsdTags            = "statsd_tags"
)

var (
	ErrInvalidLogLevel = eris.New("invalid log level")
	ErrInvalidCapacity = eris.New("initial entity capacity must not be negative")
	ErrInvalidAddress  = eris.New("address must be of the form host:port")
	ErrInvalidTag      = eris.New("statsd tags must be of the form key:value")
)

type Config struct {
	LogLevel              string   `mapstructure:"log_level"`
	LogPretty             bool     `mapstructure:"log_pretty"`
	InitialEntityCapacity int      `mapstructure:"initial_entity_capacity"`
	RedisAddress          string   `mapstructure:"redis_address"`
	RedisPassword         string   `mapstructure:"redis_password"`
	StatsdAddress         string   `mapstructure:"statsd_address"`
	StatsdTags            []string `mapstructure:"statsd_tags"`
}

func Default() Config {
	return Config{
		LogLevel:              zerolog.InfoLevel.String(),
		InitialEntityCapacity: 64,
		RedisAddress:          "localhost:6379",
	}
}

// Load reads the configuration from the environment. Flags in flags whose names match a key with
// dashes in place of underscores take precedence over the environment once they are set.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	def := Default()
	v.SetDefault(KeyLogLevel, def.LogLevel)
	v.SetDefault(KeyLogPretty, def.LogPretty)
	v.SetDefault(KeyInitialEntityCapacity, def.InitialEntityCapacity)
	v.SetDefault(KeyRedisAddress, def.RedisAddress)
	v.SetDefault(KeyRedisPassword, def.RedisPassword)
	v.SetDefault(KeyStatsdAddress, def.StatsdAddress)
	v.SetDefault(KeyStatsdTags, []string{})

	if flags != nil {
		for _, key := range v.AllKeys() {
			flag := flags.Lookup(strings.ReplaceAll(key, "_", "-"))
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return Config{}, eris.Wrapf(err, "failed to bind flag %s", flag.Name)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, eris.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return eris.Wrapf(ErrInvalidLogLevel, "%q", c.LogLevel)
	}
	if c.InitialEntityCapacity < 0 {
		return eris.Wrapf(ErrInvalidCapacity, "got %d", c.InitialEntityCapacity)
	}
	if _, _, err := net.SplitHostPort(c.RedisAddress); err != nil {
		return eris.Wrapf(ErrInvalidAddress, "redis address %q", c.RedisAddress)
	}
	if c.StatsdAddress != "" {
		if _, _, err := net.SplitHostPort(c.StatsdAddress); err != nil {
			return eris.Wrapf(ErrInvalidAddress, "statsd address %q", c.StatsdAddress)
		}
	}
	for _, tag := range c.StatsdTags {
		if k, _, ok := strings.Cut(tag, ":"); !ok || k == "" {
			return eris.Wrapf(ErrInvalidTag, "%q", tag)
		}
	}
	return nil
}

// Level returns the parsed log level. It assumes c has been validated.
func (c Config) Level() zerolog.Level {
	lvl, _ := zerolog.ParseLevel(c.LogLevel)
	return lvl
}
