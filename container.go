// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dxc

import (
	"unsafe"

	"github.com/gogpu/dxc/com"
)

// FourCC identifies a container part: four ASCII bytes, first byte lowest.
type FourCC uint32

// NewFourCC packs the first four bytes of s.
func NewFourCC(s string) FourCC {
	var b [4]byte
	copy(b[:], s)
	return FourCC(uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24)
}

// String returns the four characters.
func (f FourCC) String() string {
	return string([]byte{byte(f), byte(f >> 8), byte(f >> 16), byte(f >> 24)})
}

// Well-known container parts.
var (
	PartContainer          = NewFourCC("DXBC")
	PartResourceDef        = NewFourCC("RDEF")
	PartInputSignature     = NewFourCC("ISG1")
	PartOutputSignature    = NewFourCC("OSG1")
	PartPatchConstantSig   = NewFourCC("PSG1")
	PartShaderStatistics   = NewFourCC("STAT")
	PartShaderDebugInfo    = NewFourCC("ILDB")
	PartShaderDebugName    = NewFourCC("ILDN")
	PartFeatureInfo        = NewFourCC("SFI0")
	PartPrivateData        = NewFourCC("PRIV")
	PartRootSignature      = NewFourCC("RTS0")
	PartDXIL               = NewFourCC("DXIL")
	PartPipelineStateValid = NewFourCC("PSV0")
	PartRuntimeData        = NewFourCC("RDAT")
	PartShaderHash         = NewFourCC("HASH")
)

const (
	slotContainerBuilderLoad = com.FirstMethodSlot + iota
	slotContainerBuilderAddPart
	slotContainerBuilderRemovePart
	slotContainerBuilderSerializeContainer
)

// ContainerBuilder is an IDxcContainerBuilder, which edits the parts of a
// container.
type ContainerBuilder struct {
	u *com.Unknown
}

// NewContainerBuilder adopts u, which must be an IDxcContainerBuilder
// reference.
func NewContainerBuilder(u *com.Unknown) *ContainerBuilder {
	return &ContainerBuilder{u: u}
}

// Unknown returns the underlying handle.
func (b *ContainerBuilder) Unknown() *com.Unknown {
	return b.u
}

// Load starts from an existing container.
func (b *ContainerBuilder) Load(container BlobRef) error {
	return b.u.Call(slotContainerBuilderLoad, container.Unknown().Raw()).Err()
}

// AddPart adds a part.
func (b *ContainerBuilder) AddPart(kind FourCC, part BlobRef) error {
	return b.u.Call(slotContainerBuilderAddPart, uintptr(kind), part.Unknown().Raw()).Err()
}

// RemovePart removes a part.
func (b *ContainerBuilder) RemovePart(kind FourCC) error {
	return b.u.Call(slotContainerBuilderRemovePart, uintptr(kind)).Err()
}

// SerializeContainer produces the edited container.
func (b *ContainerBuilder) SerializeContainer() (*OperationResult, error) {
	var out uintptr
	hr := b.u.Call(slotContainerBuilderSerializeContainer, uintptr(unsafe.Pointer(&out)))
	return newResult(hr, out)
}

// Release gives back the builder's reference.
func (b *ContainerBuilder) Release() {
	if b != nil {
		b.u.Release()
	}
}

const (
	slotReflectionLoad = com.FirstMethodSlot + iota
	slotReflectionGetPartCount
	slotReflectionGetPartKind
	slotReflectionGetPartContent
	slotReflectionFindFirstPartKind
	slotReflectionGetPartReflection
)

// ContainerReflection is an IDxcContainerReflection, which reads the parts
// of a container.
type ContainerReflection struct {
	u *com.Unknown
}

// NewContainerReflection adopts u, which must be an
// IDxcContainerReflection reference.
func NewContainerReflection(u *com.Unknown) *ContainerReflection {
	return &ContainerReflection{u: u}
}

// Unknown returns the underlying handle.
func (r *ContainerReflection) Unknown() *com.Unknown {
	return r.u
}

// Load selects the container to inspect.
func (r *ContainerReflection) Load(container BlobRef) error {
	return r.u.Call(slotReflectionLoad, container.Unknown().Raw()).Err()
}

// PartCount returns the number of parts.
func (r *ContainerReflection) PartCount() (uint32, error) {
	var n uint32
	hr := r.u.Call(slotReflectionGetPartCount, uintptr(unsafe.Pointer(&n)))
	return n, hr.Err()
}

// PartKind returns the kind of part idx.
func (r *ContainerReflection) PartKind(idx uint32) (FourCC, error) {
	var kind uint32
	hr := r.u.Call(slotReflectionGetPartKind, uintptr(idx), uintptr(unsafe.Pointer(&kind)))
	return FourCC(kind), hr.Err()
}

// PartContent returns the content of part idx.
func (r *ContainerReflection) PartContent(idx uint32) (*Blob, error) {
	var out uintptr
	hr := r.u.Call(slotReflectionGetPartContent, uintptr(idx), uintptr(unsafe.Pointer(&out)))
	return adoptBlob(hr, out)
}

// FindFirstPartKind returns the index of the first part of kind.
func (r *ContainerReflection) FindFirstPartKind(kind FourCC) (uint32, error) {
	var idx uint32
	hr := r.u.Call(slotReflectionFindFirstPartKind, uintptr(kind), uintptr(unsafe.Pointer(&idx)))
	return idx, hr.Err()
}

// PartReflection returns the iid reflection interface of part idx, such as
// ID3D12ShaderReflection.
func (r *ContainerReflection) PartReflection(idx uint32, iid com.GUID) (*com.Unknown, error) {
	var out uintptr
	hr := r.u.Call(slotReflectionGetPartReflection, uintptr(idx), uintptr(unsafe.Pointer(&iid)), uintptr(unsafe.Pointer(&out)))
	return adopt(hr, out)
}

// Release gives back the reflection's reference.
func (r *ContainerReflection) Release() {
	if r != nil {
		r.u.Release()
	}
}
