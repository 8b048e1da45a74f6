// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wstr

import (
	"runtime"
	"unsafe"
)

// Builder encodes the string arguments of one foreign call and pins their
// buffers and pointer tables until Unpin. The first encoding error sticks
// and is reported by Err.
//
//	var b wstr.Builder
//	defer b.Unpin()
//	name := b.String(sourceName)
//	args, argc := b.Strings(arguments)
//	if err := b.Err(); err != nil { ... }
//	hr := u.Call(slot, name, args, uintptr(argc))
type Builder struct {
	pinner runtime.Pinner
	err    error
}

// String returns a pointer to a NUL-terminated copy of s.
func (b *Builder) String(s string) uintptr {
	buf, err := Encode(s)
	if err != nil {
		if b.err == nil {
			b.err = err
		}
		return 0
	}
	b.pinner.Pin(&buf[0])
	return uintptr(unsafe.Pointer(&buf[0]))
}

// Optional is like String but passes the empty string as a null pointer.
func (b *Builder) Optional(s string) uintptr {
	if s == "" {
		return 0
	}
	return b.String(s)
}

// Strings returns a pointer to an array of string pointers and its length.
// An empty list yields a null pointer.
func (b *Builder) Strings(ss []string) (uintptr, uint32) {
	if len(ss) == 0 {
		return 0, 0
	}
	table := make([]uintptr, len(ss))
	for i, s := range ss {
		table[i] = b.String(s)
	}
	b.pinner.Pin(&table[0])
	return uintptr(unsafe.Pointer(&table[0])), uint32(len(table))
}

// Table pins an arbitrary pointer table alongside the strings and returns
// its address. It is used for arrays of structures of pointers.
func (b *Builder) Table(words []uintptr) uintptr {
	if len(words) == 0 {
		return 0
	}
	b.pinner.Pin(&words[0])
	return uintptr(unsafe.Pointer(&words[0]))
}

// Err returns the first encoding error.
func (b *Builder) Err() error {
	return b.err
}

// Unpin releases every buffer and table. Addresses returned earlier must
// no longer be used.
func (b *Builder) Unpin() {
	b.pinner.Unpin()
}
