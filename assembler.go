// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dxc

import (
	"unsafe"

	"github.com/gogpu/dxc/com"
)

const slotAssemblerAssembleToContainer = com.FirstMethodSlot

// Assembler is an IDxcAssembler, which wraps LLVM IR in a container.
type Assembler struct {
	u *com.Unknown
}

// NewAssembler adopts u, which must be an IDxcAssembler reference.
func NewAssembler(u *com.Unknown) *Assembler {
	return &Assembler{u: u}
}

// Unknown returns the underlying handle.
func (a *Assembler) Unknown() *com.Unknown {
	return a.u
}

// AssembleToContainer assembles shader IR into a container.
func (a *Assembler) AssembleToContainer(shader BlobRef) (*OperationResult, error) {
	var out uintptr
	hr := a.u.Call(slotAssemblerAssembleToContainer, shader.Unknown().Raw(), uintptr(unsafe.Pointer(&out)))
	return newResult(hr, out)
}

// Release gives back the assembler's reference.
func (a *Assembler) Release() {
	if a != nil {
		a.u.Release()
	}
}
