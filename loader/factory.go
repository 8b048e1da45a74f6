// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package loader

import (
	"github.com/ebitengine/purego"

	"github.com/gogpu/dxc/com"
)

// Exported factory entry points.
const (
	// SymbolCreateInstance is HRESULT DxcCreateInstance(REFCLSID, REFIID, LPVOID*).
	SymbolCreateInstance = "DxcCreateInstance"

	// SymbolCreateInstance2 is HRESULT DxcCreateInstance2(IMalloc*, REFCLSID, REFIID, LPVOID*).
	SymbolCreateInstance2 = "DxcCreateInstance2"
)

// Factory creates objects through a library's factory entry points.
type Factory struct {
	lib             *Library
	createInstance  func(clsid, iid *com.GUID, out *uintptr) int32
	createInstance2 func(malloc uintptr, clsid, iid *com.GUID, out *uintptr) int32
}

// NewFactory binds the factory entry points of lib. DxcCreateInstance is
// required; DxcCreateInstance2 is bound when present.
func NewFactory(lib *Library) (*Factory, error) {
	sym, err := lib.Lookup(SymbolCreateInstance)
	if err != nil {
		return nil, err
	}
	f := &Factory{lib: lib}
	purego.RegisterFunc(&f.createInstance, sym)
	if sym2, err := lib.Lookup(SymbolCreateInstance2); err == nil {
		purego.RegisterFunc(&f.createInstance2, sym2)
	}
	return f, nil
}

// OpenFactory opens the library at path and binds its factory. The library
// is closed again if binding fails.
func OpenFactory(path string) (*Factory, error) {
	lib, err := Open(path)
	if err != nil {
		return nil, err
	}
	f, err := NewFactory(lib)
	if err != nil {
		lib.Close()
		return nil, err
	}
	return f, nil
}

// Library returns the library the factory was bound from.
func (f *Factory) Library() *Library {
	return f.lib
}

// HasCreateInstance2 reports whether the allocator-taking entry point exists.
func (f *Factory) HasCreateInstance2() bool {
	return f.createInstance2 != nil
}

// CreateInstance creates the object identified by clsid and returns its
// iid interface. A failure status is returned as a com.HRESULT error.
func (f *Factory) CreateInstance(clsid, iid com.GUID) (*com.Unknown, error) {
	var out uintptr
	hr := com.HRESULT(uint32(f.createInstance(&clsid, &iid, &out)))
	return adopt(hr, out)
}

// CreateInstance2 is CreateInstance with an explicit IMalloc allocator.
// Libraries without DxcCreateInstance2 report E_NOTIMPL.
func (f *Factory) CreateInstance2(malloc uintptr, clsid, iid com.GUID) (*com.Unknown, error) {
	if f.createInstance2 == nil {
		return nil, com.E_NOTIMPL
	}
	var out uintptr
	hr := com.HRESULT(uint32(f.createInstance2(malloc, &clsid, &iid, &out)))
	return adopt(hr, out)
}

// Close unloads the underlying library.
func (f *Factory) Close() error {
	return f.lib.Close()
}

func adopt(hr com.HRESULT, out uintptr) (*com.Unknown, error) {
	if hr.Failed() {
		return nil, hr
	}
	if out == 0 {
		return nil, com.E_POINTER
	}
	return com.FromRaw(out), nil
}
