package component

import (
	"reflect"

	"pkg.world.dev/world-engine/ecs/types"
)

// Option augments a Descriptor at registration time.
type Option func(*Descriptor)

// WithStorage overrides the storage kind of the component.
func WithStorage(storage types.StorageType) Option {
	return func(d *Descriptor) {
		d.StorageType = storage
	}
}

// WithImmutable marks the component as immutable. Immutable components can be replaced by inserting a
// new value but are never handed out for writing.
func WithImmutable() Option {
	return func(d *Descriptor) {
		d.Mutable = false
	}
}

// WithName overrides the registered name.
func WithName(name string) Option {
	return func(d *Descriptor) {
		d.Name = name
	}
}

// SparseStorage can be embedded into a component struct to store it in a sparse set instead of the
// archetype table. Sparse components are cheap to add and remove but slower to iterate.
//
//	type Stunned struct {
//		component.SparseStorage
//		Remaining int
//	}
type SparseStorage struct{}

func (SparseStorage) sparseStored() {}

// Immutable can be embedded into a component struct to register it as immutable.
type Immutable struct{}

func (Immutable) immutable() {}

type sparseStored interface{ sparseStored() }

type immutable interface{ immutable() }

var (
	sparseStoredType = reflect.TypeOf((*sparseStored)(nil)).Elem()
	immutableType    = reflect.TypeOf((*immutable)(nil)).Elem()
)
