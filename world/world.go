package world

import (
	"reflect"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pkg.world.dev/world-engine/ecs/archetype"
	"pkg.world.dev/world-engine/ecs/component"
	"pkg.world.dev/world-engine/ecs/entity"
	"pkg.world.dev/world-engine/ecs/event"
	"pkg.world.dev/world-engine/ecs/statsd"
	"pkg.world.dev/world-engine/ecs/storage"
	"pkg.world.dev/world-engine/ecs/types"
)

var ErrNilComponent = eris.New("cannot insert a nil component")

// World stores every entity, component and resource. Structural changes go through the World itself;
// disjoint access from many goroutines goes through a Cell.
type World struct {
	id                uuid.UUID
	entities          *entity.Entities
	components        *component.Manager
	archetypes        *archetype.Archetypes
	bundles           *archetype.Bundles
	storages          *storage.Storages
	observers         *event.Observers
	removedComponents *event.RemovedComponents

	changeTick     atomic.Uint32
	lastChangeTick types.Tick
	lastCheckTick  types.Tick
	lastTriggerID  event.TriggerID

	commandQueue RawCommandQueue
	capacity     int
	logger       *zerolog.Logger
}

// New creates an empty world. The change tick starts at 1 so that everything added before the first
// ClearTrackers reads as added.
func New(opts ...Option) *World {
	w := &World{
		id:                uuid.New(),
		components:        component.NewManager(),
		archetypes:        archetype.NewArchetypes(),
		bundles:           archetype.NewBundles(),
		observers:         event.NewObservers(),
		removedComponents: event.NewRemovedComponents(),
		commandQueue:      NewRawCommandQueue(),
		logger:            &log.Logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.entities = entity.NewEntities(w.capacity)
	w.storages = storage.NewStorages(w.capacity)
	w.changeTick.Store(1)
	return w
}

func (w *World) ID() uuid.UUID {
	return w.id
}

func (w *World) Logger() *zerolog.Logger {
	return w.logger
}

// InjectLogger replaces the world's logger.
func (w *World) InjectLogger(logger *zerolog.Logger) {
	w.logger = logger
}

// AsCell returns a read-write cell. The caller must not use w directly while the cell or anything
// derived from it is in use.
func (w *World) AsCell() Cell {
	return Cell{world: w, access: newCapability(true)}
}

// AsReadOnlyCell returns a read-only cell.
func (w *World) AsReadOnlyCell() Cell {
	return Cell{world: w, access: newCapability(false)}
}

func (w *World) Entities() *entity.Entities {
	return w.entities
}

func (w *World) Components() *component.Manager {
	return w.components
}

func (w *World) Archetypes() *archetype.Archetypes {
	return w.archetypes
}

func (w *World) Bundles() *archetype.Bundles {
	return w.bundles
}

func (w *World) Storages() *storage.Storages {
	return w.storages
}

func (w *World) Observers() *event.Observers {
	return w.observers
}

func (w *World) RemovedComponents() *event.RemovedComponents {
	return w.removedComponents
}

// ReadChangeTick returns the current change tick.
func (w *World) ReadChangeTick() types.Tick {
	return types.Tick(w.changeTick.Load())
}

// IncrementChangeTick advances the change tick and returns the value it had before.
func (w *World) IncrementChangeTick() types.Tick {
	return types.Tick(w.changeTick.Add(1) - 1)
}

// LastChangeTick returns the tick recorded by the last ClearTrackers.
func (w *World) LastChangeTick() types.Tick {
	return w.lastChangeTick
}

// ClearTrackers ages the removed-component log and starts a new change-detection window.
func (w *World) ClearTrackers() {
	w.removedComponents.Update()
	w.lastChangeTick = w.IncrementChangeTick()
}

// CheckChangeTicks clamps stored ticks that are about to become too old to compare. It only does work
// once every CheckTickThreshold ticks and reports whether it did.
func (w *World) CheckChangeTicks() bool {
	changeTick := w.ReadChangeTick()
	if changeTick.RelativeTo(w.lastCheckTick).Get() < types.CheckTickThreshold {
		return false
	}
	start := time.Now()
	w.storages.CheckChangeTicks(changeTick)
	w.entities.CheckChangeTicks(changeTick)
	w.lastCheckTick = changeTick
	statsd.EmitCheckChangeTicks(start)
	w.logger.Debug().Uint32("change_tick", changeTick.Get()).Msg("clamped stored change ticks")
	return true
}

// Spawn creates an entity holding components and returns it.
func (w *World) Spawn(components ...any) types.Entity {
	caller := types.Caller(1)
	e := w.spawnEmpty(caller)
	if err := w.insert(e, caller, components); err != nil {
		panic(err)
	}
	return e
}

// SpawnEmpty creates an entity without components.
func (w *World) SpawnEmpty() types.Entity {
	return w.spawnEmpty(types.Caller(1))
}

func (w *World) spawnEmpty(caller *types.CallerLocation) types.Entity {
	tick := w.ReadChangeTick()
	e := w.entities.Alloc()
	empty := w.archetypes.Empty()
	tableRow := w.storages.Tables.Get(types.EmptyTableID).AllocateRow(e, tick)
	w.entities.Set(e, types.EntityLocation{
		ArchetypeID:  empty.ID(),
		ArchetypeRow: empty.Allocate(e, tableRow),
		TableID:      types.EmptyTableID,
		TableRow:     tableRow,
	})
	w.entities.SetSpawnedOrDespawnedBy(e, caller, tick)
	w.logger.Debug().Str("entity", e.String()).Msg("spawned entity")
	return e
}

// Despawn removes e and all of its components. It reports whether e was alive.
func (w *World) Despawn(e types.Entity) bool {
	caller := types.Caller(1)
	loc, ok := w.entities.Get(e)
	if !ok {
		w.logger.Warn().Str("entity", e.String()).Msg("cannot despawn entity that does not exist")
		return false
	}
	arch := w.archetypes.Get(loc.ArchetypeID)
	for _, id := range arch.Components() {
		w.removedComponents.Send(id, e)
	}
	for _, id := range arch.SparseSetComponents() {
		w.storages.SparseSets.Get(id).Remove(e)
	}
	if swapped, moved := arch.SwapRemove(loc.ArchetypeRow); moved {
		w.setArchetypeRow(swapped.Entity, loc.ArchetypeRow)
	}
	if swapped, moved := w.storages.Tables.Get(loc.TableID).SwapRemove(loc.TableRow); moved {
		w.setTableRow(swapped, loc.TableRow)
	}
	if _, err := w.entities.Free(e); err != nil {
		panic(err)
	}
	w.entities.SetSpawnedOrDespawnedBy(e, caller, w.ReadChangeTick())
	w.logger.Debug().Str("entity", e.String()).Msg("despawned entity")
	return true
}

// Insert adds components to e, replacing values of components e already has.
func (w *World) Insert(e types.Entity, components ...any) error {
	return w.insert(e, types.Caller(1), components)
}

func (w *World) insert(e types.Entity, caller *types.CallerLocation, components []any) error {
	loc, ok := w.entities.Get(e)
	if !ok {
		return w.entityDoesNotExist(e)
	}
	if len(components) == 0 {
		return nil
	}
	ids := make([]types.ComponentID, len(components))
	values := make([]reflect.Value, len(components))
	for i, c := range components {
		if c == nil {
			return eris.Wrapf(ErrNilComponent, "component %d of entity %s", i, e)
		}
		ids[i] = w.components.Register(reflect.TypeOf(c))
		values[i] = reflect.ValueOf(c)
	}
	w.bundles.Register(ids)

	tick := w.ReadChangeTick()
	before := w.archetypes.Get(loc.ArchetypeID)
	had := make([]bool, len(ids))
	for i, id := range ids {
		had[i] = before.Contains(id)
	}
	loc = w.moveEntity(e, loc, append(slices.Clone(before.Components()), ids...), tick)

	table := w.storages.Tables.Get(loc.TableID)
	for i, id := range ids {
		info, _ := w.components.GetInfo(id)
		switch info.StorageType() {
		case types.StorageTable:
			col := table.GetColumn(id)
			if had[i] {
				col.Replace(loc.TableRow, values[i], tick, caller)
			} else {
				col.Initialize(loc.TableRow, values[i], tick, caller)
			}
		case types.StorageSparseSet:
			w.storages.SparseSets.GetOrInsert(id, info.Type()).Insert(e, values[i], tick, caller)
		}
	}
	return nil
}

// RemoveByID removes component id from e. Removing a component e does not have is a no-op.
func (w *World) RemoveByID(e types.Entity, id types.ComponentID) error {
	loc, ok := w.entities.Get(e)
	if !ok {
		return w.entityDoesNotExist(e)
	}
	arch := w.archetypes.Get(loc.ArchetypeID)
	storageType, ok := arch.StorageType(id)
	if !ok {
		return nil
	}
	if storageType == types.StorageSparseSet {
		w.storages.SparseSets.Get(id).Remove(e)
	}
	remaining := slices.DeleteFunc(slices.Clone(arch.Components()), func(c types.ComponentID) bool {
		return c == id
	})
	w.moveEntity(e, loc, remaining, w.ReadChangeTick())
	w.removedComponents.Send(id, e)
	return nil
}

// moveEntity moves e into the archetype of components and returns its new location.
func (w *World) moveEntity(
	e types.Entity, loc types.EntityLocation, components []types.ComponentID, tick types.Tick,
) types.EntityLocation {
	tableComponents := make([]types.ComponentID, 0, len(components))
	for _, id := range components {
		if w.storageTypeOf(id) == types.StorageTable {
			tableComponents = append(tableComponents, id)
		}
	}
	tableID := w.storages.Tables.GetIDOrInsert(tableComponents, w.typeOf)
	archID := w.archetypes.GetIDOrInsert(components, tableID, w.storageTypeOf)
	if archID == loc.ArchetypeID {
		return loc
	}

	if swapped, moved := w.archetypes.Get(loc.ArchetypeID).SwapRemove(loc.ArchetypeRow); moved {
		w.setArchetypeRow(swapped.Entity, loc.ArchetypeRow)
	}
	tableRow := loc.TableRow
	if tableID != loc.TableID {
		var swapped types.Entity
		var moved bool
		tableRow, swapped, moved = w.storages.Tables.Get(loc.TableID).MoveTo(
			loc.TableRow, w.storages.Tables.Get(tableID), tick,
		)
		if moved {
			w.setTableRow(swapped, loc.TableRow)
		}
	}
	arch := w.archetypes.Get(archID)
	newLoc := types.EntityLocation{
		ArchetypeID:  archID,
		ArchetypeRow: arch.Allocate(e, tableRow),
		TableID:      tableID,
		TableRow:     tableRow,
	}
	w.entities.Set(e, newLoc)
	return newLoc
}

func (w *World) setArchetypeRow(e types.Entity, row types.ArchetypeRow) {
	loc, _ := w.entities.Get(e)
	loc.ArchetypeRow = row
	w.entities.Set(e, loc)
}

func (w *World) setTableRow(e types.Entity, row types.TableRow) {
	loc, _ := w.entities.Get(e)
	loc.TableRow = row
	w.archetypes.Get(loc.ArchetypeID).SetEntityTableRow(loc.ArchetypeRow, row)
	w.entities.Set(e, loc)
}

func (w *World) typeOf(id types.ComponentID) reflect.Type {
	info, _ := w.components.GetInfo(id)
	return info.Type()
}

func (w *World) storageTypeOf(id types.ComponentID) types.StorageType {
	info, _ := w.components.GetInfo(id)
	return info.StorageType()
}

func (w *World) entityDoesNotExist(e types.Entity) error {
	return &EntityDoesNotExistError{Entity: e, Details: despawnDetails(w.entities, e)}
}

// Flush applies every queued command. Command errors go to the default error handler.
func (w *World) Flush() {
	handler := w.AsReadOnlyCell().DefaultErrorHandler()
	for _, cmd := range w.commandQueue.drain() {
		if err := cmd.Apply(w); err != nil {
			handler(err, ErrorContext{Kind: "command", Name: cmd.Name, LastRun: w.lastChangeTick})
		}
	}
}

// Trigger runs every observer of name with target.
func (w *World) Trigger(name string, target types.Entity) {
	c := w.AsCell()
	c.IncrementTriggerID()
	tr := event.Trigger{Event: name, Target: target, ID: c.LastTriggerID()}
	for _, fn := range w.observers.Get(name) {
		fn(tr)
	}
}

// AddObserver registers fn to run whenever name is triggered.
func (w *World) AddObserver(name string, fn event.ObserverFunc) event.ObserverID {
	return w.observers.Add(name, fn)
}
