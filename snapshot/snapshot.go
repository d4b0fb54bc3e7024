// Package snapshot captures the metadata of a world and persists it.
package snapshot

import (
	"time"

	"github.com/google/uuid"

	"pkg.world.dev/world-engine/ecs/event"
	"pkg.world.dev/world-engine/ecs/types"
	"pkg.world.dev/world-engine/ecs/world"
)

type Component struct {
	ID       types.ComponentID `json:"id"`
	Name     string            `json:"name"`
	Storage  string            `json:"storage"`
	Mutable  bool              `json:"mutable"`
	Resource bool              `json:"resource,omitempty"`
}

type Archetype struct {
	ID         types.ArchetypeID   `json:"id"`
	TableID    types.TableID       `json:"table_id"`
	Components []types.ComponentID `json:"components"`
	Entities   int                 `json:"entities"`
}

// Snapshot is a point-in-time summary of a world. It holds no component data.
type Snapshot struct {
	WorldID        uuid.UUID       `json:"world_id"`
	TakenAt        time.Time       `json:"taken_at"`
	ChangeTick     types.Tick      `json:"change_tick"`
	LastChangeTick types.Tick      `json:"last_change_tick"`
	LastTriggerID  event.TriggerID `json:"last_trigger_id"`
	Entities       int             `json:"entities"`
	Components     []Component     `json:"components"`
	Archetypes     []Archetype     `json:"archetypes"`
	Bundles        int             `json:"bundles"`
	Observers      int             `json:"observers"`
}

// Take summarizes the world behind c. It only reads metadata, so c may be a read-only cell shared
// with goroutines that are writing component data.
func Take(c world.Cell) Snapshot {
	s := Snapshot{
		WorldID:        c.ID(),
		TakenAt:        time.Now().UTC(),
		ChangeTick:     c.ChangeTick(),
		LastChangeTick: c.LastChangeTick(),
		LastTriggerID:  c.LastTriggerID(),
		Entities:       c.Entities().Len(),
		Bundles:        c.Bundles().Len(),
		Observers:      c.Observers().Len(),
	}
	for _, info := range c.Components().Infos() {
		s.Components = append(s.Components, Component{
			ID:       info.ID(),
			Name:     info.Name(),
			Storage:  info.StorageType().String(),
			Mutable:  info.Mutable(),
			Resource: info.IsResource(),
		})
	}
	for _, arch := range c.Archetypes().All() {
		s.Archetypes = append(s.Archetypes, Archetype{
			ID:         arch.ID(),
			TableID:    arch.TableID(),
			Components: append([]types.ComponentID{}, arch.Components()...),
			Entities:   arch.Len(),
		})
	}
	return s
}
