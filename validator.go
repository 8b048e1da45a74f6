// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dxc

import (
	"unsafe"

	"github.com/gogpu/dxc/com"
)

const slotValidatorValidate = com.FirstMethodSlot

// ValidatorFlags select what Validate checks and whether it may modify the
// container.
type ValidatorFlags uint32

const (
	ValidatorFlagsDefault ValidatorFlags = 0

	// ValidatorFlagsInPlaceEdit lets the validator update the container,
	// for example to sign it.
	ValidatorFlagsInPlaceEdit ValidatorFlags = 1

	ValidatorFlagsRootSignatureOnly ValidatorFlags = 2
	ValidatorFlagsModuleOnly        ValidatorFlags = 4
	ValidatorFlagsValidMask         ValidatorFlags = 0x7
)

// Valid reports whether f only uses defined bits.
func (f ValidatorFlags) Valid() bool {
	return f&^ValidatorFlagsValidMask == 0
}

// Validator is an IDxcValidator.
type Validator struct {
	u *com.Unknown
}

// NewValidator adopts u, which must be an IDxcValidator reference.
func NewValidator(u *com.Unknown) *Validator {
	return &Validator{u: u}
}

// Unknown returns the underlying handle.
func (v *Validator) Unknown() *com.Unknown {
	return v.u
}

// Validate checks a compiled container. Undefined flag bits are rejected
// with E_INVALIDARG before calling the validator.
func (v *Validator) Validate(blob BlobRef, flags ValidatorFlags) (*OperationResult, error) {
	if !flags.Valid() {
		return nil, com.E_INVALIDARG
	}
	var out uintptr
	hr := v.u.Call(slotValidatorValidate, blob.Unknown().Raw(), uintptr(flags), uintptr(unsafe.Pointer(&out)))
	return newResult(hr, out)
}

// VersionInfo returns the validator's IDxcVersionInfo interface.
func (v *Validator) VersionInfo() (*VersionInfo, error) {
	return queryVersionInfo(v.u)
}

// Release gives back the validator's reference.
func (v *Validator) Release() {
	if v != nil {
		v.u.Release()
	}
}
