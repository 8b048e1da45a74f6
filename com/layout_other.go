// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

//go:build !windows

package com

// Outside Windows the compiler's IUnknown declares a virtual destructor,
// which the Itanium C++ ABI lays out as two slots after Release.
const (
	SlotDestructor         = 3
	SlotDeletingDestructor = 4

	// FirstMethodSlot is the slot of the first interface-specific method.
	FirstMethodSlot = 5
)
