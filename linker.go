// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dxc

import (
	"unsafe"

	"github.com/gogpu/dxc/com"
	"github.com/gogpu/dxc/wstr"
)

const (
	slotLinkerRegisterLibrary = com.FirstMethodSlot + iota
	slotLinkerLink
)

// Linker is an IDxcLinker, which links compiled libraries into a shader.
type Linker struct {
	u *com.Unknown
}

// NewLinker adopts u, which must be an IDxcLinker reference.
func NewLinker(u *com.Unknown) *Linker {
	return &Linker{u: u}
}

// Unknown returns the underlying handle.
func (l *Linker) Unknown() *com.Unknown {
	return l.u
}

// RegisterLibrary makes a compiled library available to Link under name.
func (l *Linker) RegisterLibrary(name string, lib BlobRef) error {
	n, err := wstr.Encode(name)
	if err != nil {
		return decodeError("library name", err)
	}
	return l.u.Call(slotLinkerRegisterLibrary, uintptr(unsafe.Pointer(&n[0])), lib.Unknown().Raw()).Err()
}

// Link links the named, previously registered libraries.
func (l *Linker) Link(entryPoint, targetProfile string, libraries, args []string) (*OperationResult, error) {
	var b wstr.Builder
	defer b.Unpin()
	entry := b.String(entryPoint)
	profile := b.String(targetProfile)
	libv, libc := b.Strings(libraries)
	argv, argc := b.Strings(args)
	if err := b.Err(); err != nil {
		return nil, decodeError("link arguments", err)
	}

	var out uintptr
	hr := l.u.Call(slotLinkerLink, entry, profile, libv, uintptr(libc), argv, uintptr(argc), uintptr(unsafe.Pointer(&out)))
	return newResult(hr, out)
}

// Release gives back the linker's reference.
func (l *Linker) Release() {
	if l != nil {
		l.u.Release()
	}
}
