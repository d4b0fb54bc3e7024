package component

import (
	"fmt"
	"reflect"

	"github.com/rotisserie/eris"

	"pkg.world.dev/world-engine/ecs/types"
)

var (
	ErrComponentNotRegistered = eris.New("component not registered")
	ErrRegistrationConflict   = eris.New("type already registered with a different descriptor")
)

// Manager is the registry of component and resource types. Components and resources share one id
// space but are indexed separately, so the same Go type can be both a component and a resource.
type Manager struct {
	infos []*Info

	indices         map[reflect.Type]types.ComponentID
	resourceIndices map[reflect.Type]types.ComponentID

	// queued ids are reserved but not yet valid. They are finalized by ApplyQueued.
	queued         map[reflect.Type]queuedRegistration
	queuedResource map[reflect.Type]queuedRegistration
	nextQueuedID   types.ComponentID
}

type queuedRegistration struct {
	id   types.ComponentID
	desc Descriptor
	send bool
}

// NewManager creates an empty registry.
func NewManager() *Manager {
	return &Manager{
		infos:           make([]*Info, 0, 32),
		indices:         make(map[reflect.Type]types.ComponentID),
		resourceIndices: make(map[reflect.Type]types.ComponentID),
		queued:          make(map[reflect.Type]queuedRegistration),
		queuedResource:  make(map[reflect.Type]queuedRegistration),
	}
}

// Register registers typ as a component and returns its id. Registering the same type twice returns the
// existing id; options passed on later calls are ignored.
func (m *Manager) Register(typ reflect.Type, opts ...Option) types.ComponentID {
	if id, ok := m.indices[typ]; ok {
		return id
	}
	if q, ok := m.queued[typ]; ok {
		m.finalize(q.id, q.desc, false, true)
		delete(m.queued, typ)
		m.indices[typ] = q.id
		return q.id
	}
	desc := DescriptorOf(typ, opts...)
	id := m.nextID()
	m.finalize(id, desc, false, true)
	m.indices[typ] = id
	return id
}

// RegisterResource registers typ as a resource. Non-send resources are bound to the goroutine that
// inserts them.
func (m *Manager) RegisterResource(typ reflect.Type, send bool) types.ComponentID {
	if id, ok := m.resourceIndices[typ]; ok {
		return id
	}
	if q, ok := m.queuedResource[typ]; ok {
		m.finalize(q.id, q.desc, true, q.send)
		delete(m.queuedResource, typ)
		m.resourceIndices[typ] = q.id
		return q.id
	}
	id := m.nextID()
	m.finalize(id, resourceDescriptor(typ), true, send)
	m.resourceIndices[typ] = id
	return id
}

// RegisterWithDescriptor registers a component from an explicit descriptor. It fails if the type is
// already registered with a different storage kind or mutability.
func (m *Manager) RegisterWithDescriptor(desc Descriptor) (types.ComponentID, error) {
	if id, ok := m.indices[desc.Type]; ok {
		info := m.infos[id]
		if info.storage != desc.StorageType || info.mutable != desc.Mutable {
			return 0, eris.Wrap(ErrRegistrationConflict, fmt.Sprintf("component %q", info.name))
		}
		return id, nil
	}
	id := m.nextID()
	m.finalize(id, desc, false, true)
	m.indices[desc.Type] = id
	return id, nil
}

// Queue reserves an id for typ without making it valid. GetID sees queued ids, GetValidID does not.
func (m *Manager) Queue(typ reflect.Type, opts ...Option) types.ComponentID {
	if id, ok := m.GetID(typ); ok {
		return id
	}
	id := m.nextID()
	m.queued[typ] = queuedRegistration{id: id, desc: DescriptorOf(typ, opts...), send: true}
	return id
}

// QueueResource is the resource variant of Queue.
func (m *Manager) QueueResource(typ reflect.Type, send bool) types.ComponentID {
	if id, ok := m.GetResourceID(typ); ok {
		return id
	}
	id := m.nextID()
	m.queuedResource[typ] = queuedRegistration{id: id, desc: resourceDescriptor(typ), send: send}
	return id
}

// ApplyQueued finalizes every queued registration.
func (m *Manager) ApplyQueued() {
	for typ := range m.queued {
		m.Register(typ)
	}
	for typ := range m.queuedResource {
		m.RegisterResource(typ, m.queuedResource[typ].send)
	}
}

// HasQueued reports whether any registration is still pending.
func (m *Manager) HasQueued() bool {
	return len(m.queued) > 0 || len(m.queuedResource) > 0
}

// GetID returns the component id of typ, including ids that are only queued.
func (m *Manager) GetID(typ reflect.Type) (types.ComponentID, bool) {
	if id, ok := m.indices[typ]; ok {
		return id, true
	}
	q, ok := m.queued[typ]
	return q.id, ok
}

// GetValidID returns the component id of typ if it is fully registered.
func (m *Manager) GetValidID(typ reflect.Type) (types.ComponentID, bool) {
	id, ok := m.indices[typ]
	return id, ok
}

// GetResourceID returns the resource id of typ, including ids that are only queued.
func (m *Manager) GetResourceID(typ reflect.Type) (types.ComponentID, bool) {
	if id, ok := m.resourceIndices[typ]; ok {
		return id, true
	}
	q, ok := m.queuedResource[typ]
	return q.id, ok
}

// GetValidResourceID returns the resource id of typ if it is fully registered.
func (m *Manager) GetValidResourceID(typ reflect.Type) (types.ComponentID, bool) {
	id, ok := m.resourceIndices[typ]
	return id, ok
}

// GetInfo returns the info of a registered id. Queued and unknown ids return false.
func (m *Manager) GetInfo(id types.ComponentID) (*Info, bool) {
	if int(id) >= len(m.infos) {
		return nil, false
	}
	info := m.infos[id]
	return info, info != nil
}

// GetName returns the registered name of id.
func (m *Manager) GetName(id types.ComponentID) (string, bool) {
	info, ok := m.GetInfo(id)
	if !ok {
		return "", false
	}
	return info.name, true
}

// Len returns the number of ids handed out, queued ones included.
func (m *Manager) Len() int {
	return int(m.nextQueuedID)
}

// Infos returns every registered info ordered by id.
func (m *Manager) Infos() []*Info {
	infos := make([]*Info, 0, len(m.infos))
	for _, info := range m.infos {
		if info != nil {
			infos = append(infos, info)
		}
	}
	return infos
}

func (m *Manager) nextID() types.ComponentID {
	id := m.nextQueuedID
	m.nextQueuedID++
	return id
}

func (m *Manager) finalize(id types.ComponentID, desc Descriptor, resource, send bool) {
	for int(id) >= len(m.infos) {
		m.infos = append(m.infos, nil)
	}
	m.infos[id] = &Info{
		id:       id,
		name:     desc.Name,
		typ:      desc.Type,
		storage:  desc.StorageType,
		mutable:  desc.Mutable,
		resource: resource,
		send:     send,
	}
}

func resourceDescriptor(typ reflect.Type) Descriptor {
	return Descriptor{
		Name:        typeName(typ),
		Type:        typ,
		StorageType: types.StorageTable,
		Mutable:     true,
	}
}

// TypeOf returns the reflect.Type of T, including interface types.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// RegisterType registers T as a component.
func RegisterType[T any](m *Manager, opts ...Option) types.ComponentID {
	return m.Register(TypeOf[T](), opts...)
}
