// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package com implements the small subset of the Component Object Model
// binary interface needed to drive a vtable-dispatched native library.
//
// Two kinds of objects cross the boundary:
//
//   - Foreign objects, created by the native library and reached through an
//     [Unknown] handle. A handle owns exactly one reference; [Unknown.Clone]
//     is the only way to obtain a second one and [Unknown.Release] gives it
//     back.
//   - Host objects, implemented in Go through a [VTable] and handed to the
//     native library so it can call back into Go (see [NewObject]).
//
// # Calling convention
//
// Method slots are invoked with [Unknown.Call]. Pointer arguments must be
// converted in the call expression itself,
//
//	var out uintptr
//	hr := u.Call(slotGetResult, uintptr(unsafe.Pointer(&out)))
//
// so that the compiler keeps the pointee alive and on the heap for the
// duration of the call, exactly as with syscall.SyscallN.
//
// # Concurrency
//
// Reference counts of host objects are atomic. A single [Unknown] is not
// safe for concurrent use; independent handles may be used from different
// goroutines.
package com
