// Package statsd wraps the datadog client behind a process-wide instance. The client is a no-op until
// Init is called, so timings can be emitted unconditionally.
package statsd

import (
	"time"

	ddstatsd "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
)

const namespace = "ecs."

var client ddstatsd.ClientInterface = &ddstatsd.NoOpClient{}

func Client() ddstatsd.ClientInterface {
	return client
}

// EmitTiming records the time elapsed since start under name, tagged with tags.
func EmitTiming(name string, start time.Time, tags ...string) {
	if err := Client().Timing(name, time.Since(start), tags, 1); err != nil {
		log.Logger.Warn().Err(err).Str("metric", name).Msg("failed to emit timing")
	}
}

// EmitCheckChangeTicks records a pass of change tick clamping.
func EmitCheckChangeTicks(start time.Time) {
	EmitTiming("check_change_ticks", start)
}

// EmitSnapshot records a snapshot save or load.
func EmitSnapshot(start time.Time, op string) {
	EmitTiming("snapshot", start, "op:"+op)
}

// Count increments the counter name by value.
func Count(name string, value int64, tags ...string) {
	if err := Client().Count(name, value, tags, 1); err != nil {
		log.Logger.Warn().Err(err).Str("metric", name).Msg("failed to emit count")
	}
}

// Init replaces the no-op client with one that sends to address.
func Init(address string, tags []string) error {
	if address == "" {
		return eris.New("statsd address must not be empty")
	}
	opts := []ddstatsd.Option{
		ddstatsd.WithNamespace(namespace),
	}
	if len(tags) > 0 {
		opts = append(opts, ddstatsd.WithTags(tags))
	}

	newClient, err := ddstatsd.New(address, opts...)
	if err != nil {
		return eris.Wrap(err, "failed to create statsd client")
	}
	client = newClient
	return nil
}

// Close flushes and closes the client and restores the no-op client.
func Close() error {
	old := client
	client = &ddstatsd.NoOpClient{}
	return old.Close()
}
