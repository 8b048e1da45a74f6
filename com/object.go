// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package com

import (
	"fmt"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"unsafe"
)

// Method is the Go implementation of one vtable slot of a host object.
type Method struct {
	// Name is used in diagnostics only.
	Name string

	// Args is the number of arguments after the object pointer.
	Args int

	// Fn receives the object and exactly Args arguments and returns the
	// raw result word, usually an HRESULT.
	Fn func(o *Object, args []uintptr) uintptr
}

// VTable describes a host-implemented interface: the interface identifiers
// it answers to and its methods in binary order from FirstMethodSlot. The
// IUnknown slots are always provided, and outside Windows so are the two
// destructor slots, which do nothing: host objects are destroyed by their
// last Release.
//
// VTables are never freed. Create them once, typically as package-level
// variables.
type VTable struct {
	iids    []GUID
	methods []Method
	slots   []uintptr
}

var (
	vtablesMu sync.Mutex
	vtables   []*VTable
	vtPinner  runtime.Pinner
)

// NewVTable builds a method table. iids lists every interface the object
// may be queried for, base interfaces included; IUnknown is implicit.
func NewVTable(iids []GUID, methods ...Method) *VTable {
	vt := &VTable{
		iids:    slices.Clone(iids),
		methods: slices.Clone(methods),
		slots:   make([]uintptr, FirstMethodSlot+len(methods)),
	}
	vt.slots[SlotQueryInterface] = entryPoint(SlotQueryInterface, 2)
	vt.slots[SlotAddRef] = entryPoint(SlotAddRef, 0)
	vt.slots[SlotRelease] = entryPoint(SlotRelease, 0)
	for slot := SlotRelease + 1; slot < FirstMethodSlot; slot++ {
		vt.slots[slot] = entryPoint(slot, 0)
	}
	for i, m := range vt.methods {
		if m.Args < 0 || m.Args > MaxMethodArgs {
			panic(fmt.Sprintf("com: method %s has %d arguments, at most %d supported", m.Name, m.Args, MaxMethodArgs))
		}
		vt.slots[FirstMethodSlot+i] = entryPoint(FirstMethodSlot+i, m.Args)
	}

	vtablesMu.Lock()
	vtPinner.Pin(&vt.slots[0])
	vtables = append(vtables, vt)
	vtablesMu.Unlock()
	return vt
}

// implements reports whether the table answers to iid.
func (vt *VTable) implements(iid GUID) bool {
	return iid == IID_IUnknown || slices.Contains(vt.iids, iid)
}

// Destroyer is implemented by host object values that need to observe the
// release of the last reference.
type Destroyer interface {
	Destroy()
}

// Object is the memory image of a host object. Its first word is the
// address of the native slot table, as foreign callers expect.
type Object struct {
	vtbl   uintptr
	refs   atomic.Int32
	table  *VTable
	impl   any
	pinner runtime.Pinner
}

// objects maps live host object addresses to their Go values and keeps them
// reachable while foreign code holds references.
var objects sync.Map

// NewObject creates a host object with a reference count of one and
// returns the handle owning that reference. impl is available to methods
// through Object.Impl.
func NewObject(vt *VTable, impl any) *Unknown {
	o := &Object{
		vtbl:  uintptr(unsafe.Pointer(&vt.slots[0])),
		table: vt,
		impl:  impl,
	}
	o.refs.Store(1)
	o.pinner.Pin(o)
	objects.Store(o.addr(), o)
	return FromRaw(o.addr())
}

// LookupObject returns the host object at ptr, if ptr addresses one.
func LookupObject(ptr uintptr) (*Object, bool) {
	v, ok := objects.Load(ptr)
	if !ok {
		return nil, false
	}
	return v.(*Object), true
}

func (o *Object) addr() uintptr {
	return uintptr(unsafe.Pointer(o))
}

// Impl returns the value passed to NewObject.
func (o *Object) Impl() any {
	return o.impl
}

// Refs returns the current reference count.
func (o *Object) Refs() int32 {
	return o.refs.Load()
}

// Pin keeps the memory p points to in place until the object is destroyed.
// Use it for buffers whose addresses are handed to foreign code.
func (o *Object) Pin(p any) {
	o.pinner.Pin(p)
}

func (o *Object) queryInterface(iidPtr, out uintptr) HRESULT {
	if iidPtr == 0 || out == 0 {
		return E_POINTER
	}
	if !o.table.implements(ReadGUID(iidPtr)) {
		WriteUintptr(out, 0)
		return E_NOINTERFACE
	}
	o.refs.Add(1)
	return WriteUintptr(out, o.addr())
}

func (o *Object) release() uint32 {
	n := o.refs.Add(-1)
	switch {
	case n > 0:
		return uint32(n)
	case n < 0:
		// Over-release; the object is already gone.
		o.refs.Store(0)
		return 0
	}
	objects.Delete(o.addr())
	if d, ok := o.impl.(Destroyer); ok {
		d.Destroy()
	}
	o.pinner.Unpin()
	return 0
}

// dispatch runs slot of the host object at this.
func dispatch(slot int, this uintptr, args []uintptr) uintptr {
	o, ok := LookupObject(this)
	if !ok {
		return uintptr(E_POINTER)
	}
	switch slot {
	case SlotQueryInterface:
		args = fit(args, 2)
		return uintptr(o.queryInterface(args[0], args[1]))
	case SlotAddRef:
		return uintptr(uint32(o.refs.Add(1)))
	case SlotRelease:
		return uintptr(o.release())
	}
	i := slot - FirstMethodSlot
	if i < 0 {
		// Destructor slots.
		return 0
	}
	if i >= len(o.table.methods) {
		return uintptr(E_NOTIMPL)
	}
	m := o.table.methods[i]
	return m.Fn(o, fit(args, m.Args))
}

// fit truncates or zero-pads args to exactly n words.
func fit(args []uintptr, n int) []uintptr {
	if len(args) >= n {
		return args[:n]
	}
	padded := make([]uintptr, n)
	copy(padded, args)
	return padded
}
