// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

//go:build !windows

package wstr

import (
	"sync"

	"github.com/ebitengine/purego"
)

// libcNames lists the C runtimes the foreign component may be linked
// against, most common first.
var libcNames = []string{
	"libc.so.6",
	"/usr/lib/libSystem.B.dylib",
	"libc.so.7",
	"libc.so",
}

type libcFuncs struct {
	malloc, free uintptr
}

// libc resolves malloc(3) and free(3). The foreign component's allocation
// routines are thin wrappers over them on these platforms.
var libc = sync.OnceValue(func() libcFuncs {
	for _, name := range libcNames {
		h, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			continue
		}
		malloc, err := purego.Dlsym(h, "malloc")
		if err != nil {
			continue
		}
		free, err := purego.Dlsym(h, "free")
		if err != nil {
			continue
		}
		return libcFuncs{malloc: malloc, free: free}
	}
	return libcFuncs{}
})

func free(p uintptr) {
	if p == 0 {
		return
	}
	if fn := libc().free; fn != 0 {
		purego.SyscallN(fn, p)
	}
}

func allocTask(n uintptr) uintptr {
	fn := libc().malloc
	if fn == 0 {
		return 0
	}
	p, _, _ := purego.SyscallN(fn, n)
	return p
}

// FreeBSTR releases a BSTR allocated by the foreign component.
func FreeBSTR(p uintptr) { free(p) }

// FreeTask releases memory the foreign component allocated with its
// CoTaskMemAlloc replacement, such as LPWSTR out-parameters.
func FreeTask(p uintptr) { free(p) }
