package component

import (
	"reflect"

	"pkg.world.dev/world-engine/ecs/types"
)

// Info is the registry entry of a component or resource type.
type Info struct {
	id       types.ComponentID
	name     string
	typ      reflect.Type
	storage  types.StorageType
	mutable  bool
	resource bool
	send     bool
}

func (i *Info) ID() types.ComponentID {
	return i.id
}

// Name returns the fully qualified type name.
func (i *Info) Name() string {
	return i.name
}

func (i *Info) Type() reflect.Type {
	return i.typ
}

func (i *Info) StorageType() types.StorageType {
	return i.storage
}

// Mutable reports whether values of this component may be handed out for writing.
func (i *Info) Mutable() bool {
	return i.mutable
}

func (i *Info) IsResource() bool {
	return i.resource
}

// IsSend reports whether a resource may be accessed from any goroutine. It is always true for
// components.
func (i *Info) IsSend() bool {
	return i.send
}

// Descriptor describes a type before it is registered.
type Descriptor struct {
	Name        string
	Type        reflect.Type
	StorageType types.StorageType
	Mutable     bool
}

// DescriptorOf builds the descriptor of typ, honoring the SparseStorage and Immutable markers.
func DescriptorOf(typ reflect.Type, opts ...Option) Descriptor {
	desc := Descriptor{
		Name:        typeName(typ),
		Type:        typ,
		StorageType: types.StorageTable,
		Mutable:     true,
	}
	if typ.Implements(sparseStoredType) {
		desc.StorageType = types.StorageSparseSet
	}
	if typ.Implements(immutableType) {
		desc.Mutable = false
	}
	for _, opt := range opts {
		opt(&desc)
	}
	return desc
}

func typeName(typ reflect.Type) string {
	if typ.PkgPath() == "" {
		return typ.String()
	}
	return typ.PkgPath() + "." + typ.Name()
}
