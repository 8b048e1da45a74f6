// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wstr

import "golang.org/x/sys/windows"

var (
	modoleaut32       = windows.NewLazySystemDLL("oleaut32.dll")
	procSysFreeString = modoleaut32.NewProc("SysFreeString")

	modole32           = windows.NewLazySystemDLL("ole32.dll")
	procCoTaskMemAlloc = modole32.NewProc("CoTaskMemAlloc")
)

// FreeBSTR releases a BSTR allocated by the foreign component.
func FreeBSTR(p uintptr) {
	if p == 0 {
		return
	}
	procSysFreeString.Call(p)
}

// FreeTask releases memory the foreign component allocated with
// CoTaskMemAlloc, such as LPWSTR out-parameters.
func FreeTask(p uintptr) {
	if p == 0 {
		return
	}
	windows.CoTaskMemFree(at(p))
}

func allocTask(n uintptr) uintptr {
	p, _, _ := procCoTaskMemAlloc.Call(n)
	return p
}
