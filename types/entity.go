package types

import (
	"fmt"
	"math"
)

// Entity identifies one row of the world. The generation is bumped every time the index is recycled,
// so a stale Entity never resolves to the entity that later reused its index.
type Entity struct {
	Index      uint32
	Generation uint32
}

// PlaceholderEntity is an Entity that is never allocated by the entity index.
var PlaceholderEntity = Entity{Index: math.MaxUint32, Generation: 1}

// NewEntity returns the entity with the given index and generation.
func NewEntity(index, generation uint32) Entity {
	return Entity{Index: index, Generation: generation}
}

// Bits packs the entity into a single integer, generation in the high half.
func (e Entity) Bits() uint64 {
	return uint64(e.Generation)<<32 | uint64(e.Index)
}

// EntityFromBits is the inverse of Entity.Bits.
func EntityFromBits(bits uint64) Entity {
	return Entity{Index: uint32(bits), Generation: uint32(bits >> 32)}
}

func (e Entity) String() string {
	if e == PlaceholderEntity {
		return "PLACEHOLDER"
	}
	return fmt.Sprintf("%dv%d", e.Index, e.Generation)
}
