package world_test

import (
	"pkg.world.dev/world-engine/ecs/component"
)

type Position struct {
	X, Y float64
}

type Velocity struct {
	DX, DY float64
}

type Stunned struct {
	component.SparseStorage
	Turns int
}

type Name struct {
	component.Immutable
	Value string
}

type Counter struct {
	Value int
}

type Settings struct {
	Volume int
}
