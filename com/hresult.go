// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package com

import "fmt"

// HRESULT is the raw status code returned by every foreign method.
// The high bit marks failure.
type HRESULT uint32

// Well-known status codes.
const (
	S_OK             HRESULT = 0x00000000
	S_FALSE          HRESULT = 0x00000001
	E_NOTIMPL        HRESULT = 0x80004001
	E_NOINTERFACE    HRESULT = 0x80004002
	E_POINTER        HRESULT = 0x80004003
	E_FAIL           HRESULT = 0x80004005
	E_FILE_NOT_FOUND HRESULT = 0x80070002
	E_OUTOFMEMORY    HRESULT = 0x8007000E
	E_INVALIDARG     HRESULT = 0x80070057
)

// Succeeded reports whether the code signals success.
func (hr HRESULT) Succeeded() bool {
	return hr&0x80000000 == 0
}

// Failed reports whether the code signals failure.
func (hr HRESULT) Failed() bool {
	return !hr.Succeeded()
}

// Err returns hr as an error when it signals failure and nil otherwise.
func (hr HRESULT) Err() error {
	if hr.Succeeded() {
		return nil
	}
	return hr
}

// Error implements the error interface.
func (hr HRESULT) Error() string {
	if name := hr.name(); name != "" {
		return fmt.Sprintf("HRESULT 0x%08X (%s)", uint32(hr), name)
	}
	return fmt.Sprintf("HRESULT 0x%08X", uint32(hr))
}

func (hr HRESULT) name() string {
	switch hr {
	case S_OK:
		return "S_OK"
	case S_FALSE:
		return "S_FALSE"
	case E_NOTIMPL:
		return "E_NOTIMPL"
	case E_NOINTERFACE:
		return "E_NOINTERFACE"
	case E_POINTER:
		return "E_POINTER"
	case E_FAIL:
		return "E_FAIL"
	case E_FILE_NOT_FOUND:
		return "ERROR_FILE_NOT_FOUND"
	case E_OUTOFMEMORY:
		return "E_OUTOFMEMORY"
	case E_INVALIDARG:
		return "E_INVALIDARG"
	default:
		return ""
	}
}

// FromWord extracts the 32-bit status from a raw return register.
func FromWord(r uintptr) HRESULT {
	return HRESULT(uint32(r))
}
