package change

import (
	"fmt"
	"reflect"
	"unsafe"

	"pkg.world.dev/world-engine/ecs/types"
)

// Ptr is a type-erased read pointer into world storage.
type Ptr struct {
	ptr unsafe.Pointer
	typ reflect.Type
}

// NewPtr wraps ptr, which must point at a value of typ.
func NewPtr(ptr unsafe.Pointer, typ reflect.Type) Ptr {
	return Ptr{ptr: ptr, typ: typ}
}

func (p Ptr) Type() reflect.Type {
	return p.typ
}

// Unsafe returns the raw pointer.
func (p Ptr) Unsafe() unsafe.Pointer {
	return p.ptr
}

// Value returns the pointed-to value. Callers must not write through it.
func (p Ptr) Value() reflect.Value {
	return reflect.NewAt(p.typ, p.ptr).Elem()
}

// Interface returns a copy of the pointed-to value.
func (p Ptr) Interface() any {
	return p.Value().Interface()
}

// Deref reinterprets p as a pointer to T. It panics if p does not point at a T.
func Deref[T any](p Ptr) *T {
	mustBe[T](p.typ)
	return (*T)(p.ptr)
}

// MutUntyped is a type-erased write handle.
type MutUntyped struct {
	ptr       Ptr
	ticks     TicksMut
	changedBy *types.CallerLocation
}

// NewMutUntyped wraps ptr. changedBy may be nil.
func NewMutUntyped(ptr Ptr, ticks TicksMut, changedBy *types.CallerLocation) MutUntyped {
	return MutUntyped{ptr: ptr, ticks: ticks, changedBy: changedBy}
}

func (m MutUntyped) Type() reflect.Type {
	return m.ptr.typ
}

// Value returns the settable value and marks it changed.
func (m MutUntyped) Value() reflect.Value {
	m.markChanged(types.Caller(1))
	return m.ptr.Value()
}

// Set overwrites the value. It panics if value is not assignable to the stored type.
func (m MutUntyped) Set(value any) {
	m.markChanged(types.Caller(1))
	m.ptr.Value().Set(reflect.ValueOf(value))
}

// BypassChangeDetection returns the raw pointer without touching the ticks.
func (m MutUntyped) BypassChangeDetection() Ptr {
	return m.ptr
}

func (m MutUntyped) SetChanged() {
	m.markChanged(types.Caller(1))
}

func (m MutUntyped) IsAdded() bool {
	return m.ticks.IsAdded()
}

func (m MutUntyped) IsChanged() bool {
	return m.ticks.IsChanged()
}

func (m MutUntyped) LastChanged() types.Tick {
	return m.ticks.LastChanged()
}

// AsRef returns a read view of the value and its ticks.
func (m MutUntyped) AsRef() (Ptr, Ticks) {
	return m.ptr, m.ticks.Ticks
}

func (m MutUntyped) markChanged(caller *types.CallerLocation) {
	m.ticks.SetChanged()
	if m.changedBy != nil && caller != nil {
		*m.changedBy = *caller
	}
}

// WithType converts m into a typed handle. It panics if m does not point at a T.
func WithType[T any](m MutUntyped) Mut[T] {
	mustBe[T](m.ptr.typ)
	return NewMut((*T)(m.ptr.ptr), m.ticks, m.changedBy)
}

func mustBe[T any](typ reflect.Type) {
	want := reflect.TypeOf((*T)(nil)).Elem()
	if typ != want {
		panic(fmt.Sprintf("pointer to %s cannot be used as %s", typ, want))
	}
}
