package log

import (
	"io"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"pkg.world.dev/world-engine/ecs/archetype"
	"pkg.world.dev/world-engine/ecs/component"
	"pkg.world.dev/world-engine/ecs/world"
)

// New builds a logger writing to w at the named level. Pretty output uses zerolog's console writer.
func New(w io.Writer, level string, pretty bool) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), eris.Wrapf(err, "invalid log level %q", level)
	}
	if w == nil {
		w = os.Stderr
	}
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

func loadComponentIntoArrayLogger(info *component.Info, arrayLogger *zerolog.Array) *zerolog.Array {
	dictLogger := zerolog.Dict()
	dictLogger = dictLogger.Int("component_id", int(info.ID()))
	dictLogger = dictLogger.Str("component_name", info.Name())
	dictLogger = dictLogger.Str("storage", info.StorageType().String())
	dictLogger = dictLogger.Bool("mutable", info.Mutable())
	return arrayLogger.Dict(dictLogger)
}

func loadComponentsToEvent(zeroLoggerEvent *zerolog.Event, components *component.Manager) *zerolog.Event {
	total := 0
	arrayLogger := zerolog.Arr()
	for _, info := range components.Infos() {
		if info.IsResource() {
			continue
		}
		total++
		arrayLogger = loadComponentIntoArrayLogger(info, arrayLogger)
	}
	zeroLoggerEvent.Int("total_components", total)
	return zeroLoggerEvent.Array("components", arrayLogger)
}

func loadArchetypeIntoArrayLogger(arch *archetype.Archetype, arrayLogger *zerolog.Array) *zerolog.Array {
	ids := zerolog.Arr()
	for _, id := range arch.Components() {
		ids = ids.Int(int(id))
	}
	dictLogger := zerolog.Dict()
	dictLogger = dictLogger.Int("archetype_id", int(arch.ID()))
	dictLogger = dictLogger.Int("table_id", int(arch.TableID()))
	dictLogger = dictLogger.Array("component_ids", ids)
	dictLogger = dictLogger.Int("entities", arch.Len())
	return arrayLogger.Dict(dictLogger)
}

func loadArchetypesToEvent(zeroLoggerEvent *zerolog.Event, archetypes *archetype.Archetypes) *zerolog.Event {
	zeroLoggerEvent.Int("total_archetypes", archetypes.Len())
	arrayLogger := zerolog.Arr()
	for _, arch := range archetypes.All() {
		arrayLogger = loadArchetypeIntoArrayLogger(arch, arrayLogger)
	}
	return zeroLoggerEvent.Array("archetypes", arrayLogger)
}

// Components logs the component registry of the world behind c.
func Components(logger *zerolog.Logger, c world.Cell, level zerolog.Level) {
	loadComponentsToEvent(logger.WithLevel(level), c.Components()).Send()
}

// Archetypes logs every archetype of the world behind c.
func Archetypes(logger *zerolog.Logger, c world.Cell, level zerolog.Level) {
	loadArchetypesToEvent(logger.WithLevel(level), c.Archetypes()).Send()
}

// Entity logs the location and components of the entity behind ec.
func Entity(logger *zerolog.Logger, ec world.EntityCell, level zerolog.Level) {
	components := ec.World().Components()
	arrayLogger := zerolog.Arr()
	for _, id := range ec.Archetype().Components() {
		if info, ok := components.GetInfo(id); ok {
			arrayLogger = loadComponentIntoArrayLogger(info, arrayLogger)
		}
	}
	location := ec.Location()
	logger.WithLevel(level).
		Str("entity", ec.ID().String()).
		Int("archetype_id", int(location.ArchetypeID)).
		Int("table_id", int(location.TableID)).
		Int("table_row", int(location.TableRow)).
		Array("components", arrayLogger).
		Send()
}

// World logs the tick counters, components and archetypes of the world behind c.
func World(logger *zerolog.Logger, c world.Cell, level zerolog.Level) {
	zeroLoggerEvent := logger.WithLevel(level).
		Str("world_id", c.ID().String()).
		Uint32("change_tick", uint32(c.ChangeTick())).
		Uint32("last_change_tick", uint32(c.LastChangeTick())).
		Int("total_entities", c.Entities().Len())
	zeroLoggerEvent = loadComponentsToEvent(zeroLoggerEvent, c.Components())
	zeroLoggerEvent = loadArchetypesToEvent(zeroLoggerEvent, c.Archetypes())
	zeroLoggerEvent.Send()
}
