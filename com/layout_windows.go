// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package com

// FirstMethodSlot is the slot of the first interface-specific method.
// Windows IUnknown has only the three reference-counting methods.
const FirstMethodSlot = 3
