package world

import (
	"fmt"

	"github.com/rotisserie/eris"

	"pkg.world.dev/world-engine/ecs/entity"
	"pkg.world.dev/world-engine/ecs/types"
)

var (
	ErrEntityDoesNotExist = eris.New("entity does not exist")

	// Errors returned by EntityCell.GetMutByID.
	ErrInfoNotFound         = eris.New("component id is not registered")
	ErrComponentIsImmutable = eris.New("component is immutable")
	ErrComponentNotFound    = eris.New("entity does not have the component")
)

// EntityDoesNotExistError is returned when an entity is not alive. It matches ErrEntityDoesNotExist
// with errors.Is.
type EntityDoesNotExistError struct {
	Entity  types.Entity
	Details string
}

func (e *EntityDoesNotExistError) Error() string {
	return fmt.Sprintf("entity %s %s", e.Entity, e.Details)
}

func (e *EntityDoesNotExistError) Is(target error) bool {
	return target == ErrEntityDoesNotExist
}

func despawnDetails(entities *entity.Entities, e types.Entity) string {
	if !types.TrackLocation {
		return "does not exist (build with -tags ecs_track_location for more details)"
	}
	if by := entities.SpawnedOrDespawnedBy(e); by != nil {
		return "was despawned by " + by.String()
	}
	return "does not exist"
}
