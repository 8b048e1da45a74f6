// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package com

import (
	"unsafe"

	"github.com/ebitengine/purego"
)

// syscallN performs a foreign call. Tests replace it to observe traffic.
var syscallN = func(fn uintptr, args ...uintptr) uintptr {
	r1, _, _ := purego.SyscallN(fn, args...)
	return r1
}

// call invokes fn. Entry points of host objects are dispatched directly in
// Go without crossing into foreign code.
func call(fn uintptr, args ...uintptr) uintptr {
	if key, ok := lookupEntry(fn); ok {
		var this uintptr
		if len(args) > 0 {
			this = args[0]
			args = args[1:]
		}
		return dispatch(key.slot, this, args)
	}
	return syscallN(fn, args...)
}

// ReadGUID copies the GUID pointed to by p, as received in a callback.
func ReadGUID(p uintptr) GUID {
	return *(*GUID)(unsafe.Pointer(p))
}

// WriteUintptr stores v through an out-parameter pointer. A null
// pointer is reported with E_POINTER.
func WriteUintptr(p, v uintptr) HRESULT {
	if p == 0 {
		return E_POINTER
	}
	*(*uintptr)(unsafe.Pointer(p)) = v
	return S_OK
}

// WriteUint32 stores v through a UINT32 out-parameter pointer.
func WriteUint32(p uintptr, v uint32) HRESULT {
	if p == 0 {
		return E_POINTER
	}
	*(*uint32)(unsafe.Pointer(p)) = v
	return S_OK
}
