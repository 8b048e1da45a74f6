// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dxc

import (
	"unsafe"

	"github.com/gogpu/dxc/com"
	"github.com/gogpu/dxc/wstr"
)

const (
	slotVersionGetVersion = com.FirstMethodSlot + iota
	slotVersionGetFlags
	slotVersion2GetCommitInfo
)

// VersionFlags describe the build of a compiler or validator.
type VersionFlags uint32

const (
	VersionFlagsNone     VersionFlags = 0
	VersionFlagsDebug    VersionFlags = 1
	VersionFlagsInternal VersionFlags = 2
)

// VersionInfo is an IDxcVersionInfo.
type VersionInfo struct {
	u *com.Unknown
}

// Unknown returns the underlying handle.
func (v *VersionInfo) Unknown() *com.Unknown {
	return v.u
}

func queryVersionInfo(u *com.Unknown) (*VersionInfo, error) {
	vu, err := u.QueryInterface(IID_IDxcVersionInfo)
	if err != nil {
		return nil, err
	}
	return &VersionInfo{u: vu}, nil
}

// Version returns the major and minor version.
func (v *VersionInfo) Version() (major, minor uint32, err error) {
	hr := v.u.Call(slotVersionGetVersion, uintptr(unsafe.Pointer(&major)), uintptr(unsafe.Pointer(&minor)))
	if hr.Failed() {
		return 0, 0, hr
	}
	return major, minor, nil
}

// Flags returns the build flags.
func (v *VersionInfo) Flags() (VersionFlags, error) {
	var flags uint32
	hr := v.u.Call(slotVersionGetFlags, uintptr(unsafe.Pointer(&flags)))
	return VersionFlags(flags), hr.Err()
}

// CommitInfo returns the commit count and hash of the build through
// IDxcVersionInfo2. Older builds report E_NOINTERFACE.
func (v *VersionInfo) CommitInfo() (count uint32, hash string, err error) {
	v2, err := v.u.QueryInterface(IID_IDxcVersionInfo2)
	if err != nil {
		return 0, "", err
	}
	defer v2.Release()

	var p uintptr
	hr := v2.Call(slotVersion2GetCommitInfo, uintptr(unsafe.Pointer(&count)), uintptr(unsafe.Pointer(&p)))
	if hr.Failed() {
		return 0, "", hr
	}
	defer wstr.FreeTask(p)
	hash, err = wstr.FromNarrow(p)
	if err != nil {
		return 0, "", decodeError("commit hash", err)
	}
	return count, hash, nil
}

// Release gives back the reference.
func (v *VersionInfo) Release() {
	if v != nil {
		v.u.Release()
	}
}
