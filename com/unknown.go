// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package com

import "unsafe"

// IUnknown method slots shared by every interface. FirstMethodSlot
// depends on the platform.
const (
	SlotQueryInterface = 0
	SlotAddRef         = 1
	SlotRelease        = 2
)

// noCopy lets go vet's copylocks check flag handles copied by value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Unknown owns one reference to an object implementing IUnknown.
//
// The zero value and nil are released handles. Every method on a released
// handle is a no-op that reports E_POINTER where a status is returned.
type Unknown struct {
	_   noCopy
	ptr uintptr
}

// FromRaw adopts one reference to the object at ptr. The caller must not
// release that reference itself. FromRaw returns nil for a null pointer.
func FromRaw(ptr uintptr) *Unknown {
	if ptr == 0 {
		return nil
	}
	return &Unknown{ptr: ptr}
}

// Raw returns the interface pointer without affecting the reference count.
func (u *Unknown) Raw() uintptr {
	if u == nil {
		return 0
	}
	return u.ptr
}

// Valid reports whether the handle still owns a reference.
func (u *Unknown) Valid() bool {
	return u != nil && u.ptr != 0
}

// method reads the function pointer stored in the given vtable slot.
func (u *Unknown) method(slot int) uintptr {
	vtbl := *(*uintptr)(unsafe.Pointer(u.ptr))
	return *(*uintptr)(unsafe.Pointer(vtbl + uintptr(slot)*unsafe.Sizeof(uintptr(0))))
}

// CallRaw invokes the method in slot with the object pointer prepended and
// returns the raw result word. Use it for methods that do not return an
// HRESULT, such as IDxcBlob::GetBufferSize.
//
//go:uintptrescapes
func (u *Unknown) CallRaw(slot int, args ...uintptr) uintptr {
	if !u.Valid() {
		return 0
	}
	full := make([]uintptr, 0, len(args)+1)
	full = append(full, u.ptr)
	full = append(full, args...)
	return call(u.method(slot), full...)
}

// Call invokes the method in slot and returns its status.
//
//go:uintptrescapes
func (u *Unknown) Call(slot int, args ...uintptr) HRESULT {
	if !u.Valid() {
		return E_POINTER
	}
	return FromWord(u.CallRaw(slot, args...))
}

// QueryInterface asks the object for another interface. On success the
// returned handle owns a new reference; on failure the raw status is
// returned as the error.
func (u *Unknown) QueryInterface(iid GUID) (*Unknown, error) {
	if !u.Valid() {
		return nil, E_POINTER
	}
	var out uintptr
	hr := u.Call(SlotQueryInterface, uintptr(unsafe.Pointer(&iid)), uintptr(unsafe.Pointer(&out)))
	if hr.Failed() {
		return nil, hr
	}
	if out == 0 {
		return nil, E_NOINTERFACE
	}
	return FromRaw(out), nil
}

// AddRef increments the object's reference count and returns the new
// count as reported by the object. The extra reference belongs to the
// caller, who must balance it with ReleaseRaw or adopt it with FromRaw.
func (u *Unknown) AddRef() uint32 {
	if !u.Valid() {
		return 0
	}
	return uint32(u.CallRaw(SlotAddRef))
}

// Clone returns a second handle to the same object, backed by its own
// reference.
func (u *Unknown) Clone() *Unknown {
	if !u.Valid() {
		return nil
	}
	u.AddRef()
	return &Unknown{ptr: u.ptr}
}

// Release gives back the handle's reference and returns the count the
// object reported. The handle is cleared, so releasing twice is harmless.
func (u *Unknown) Release() uint32 {
	if !u.Valid() {
		return 0
	}
	n := uint32(u.CallRaw(SlotRelease))
	u.ptr = 0
	return n
}

// Detach clears the handle without releasing and returns the pointer.
// Ownership of the reference moves to the caller, typically foreign code
// receiving an out-parameter.
func (u *Unknown) Detach() uintptr {
	if u == nil {
		return 0
	}
	p := u.ptr
	u.ptr = 0
	return p
}

// ReleaseRaw releases one reference of a bare interface pointer.
func ReleaseRaw(ptr uintptr) uint32 {
	if ptr == 0 {
		return 0
	}
	u := Unknown{ptr: ptr}
	return u.Release()
}
