// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package com

import (
	"sync"

	"github.com/ebitengine/purego"
)

// MaxMethodArgs is the largest number of arguments, after the object
// pointer, a host method may take.
const MaxMethodArgs = 12

// entryKey identifies a native entry point. Host objects with different
// tables share entry points per slot and arity; dispatch selects the method
// from the object's own table.
type entryKey struct {
	slot int
	args int
}

var (
	entryMu sync.Mutex
	entries = map[entryKey]uintptr{}
	entryPC sync.Map // uintptr -> entryKey
)

// newCallback creates a foreign-callable function pointer. The number of
// callbacks a process can create is limited, hence the cache above.
var newCallback = purego.NewCallback

func entryPoint(slot, args int) uintptr {
	key := entryKey{slot: slot, args: args}

	entryMu.Lock()
	defer entryMu.Unlock()
	if pc, ok := entries[key]; ok {
		return pc
	}
	pc := newCallback(nativeEntry(slot, args))
	entries[key] = pc
	entryPC.Store(pc, key)
	return pc
}

func lookupEntry(pc uintptr) (entryKey, bool) {
	v, ok := entryPC.Load(pc)
	if !ok {
		return entryKey{}, false
	}
	return v.(entryKey), true
}

// nativeEntry returns a function of exactly args+1 uintptr parameters that
// forwards to dispatch.
func nativeEntry(slot, args int) any {
	d := func(this uintptr, a ...uintptr) uintptr { return dispatch(slot, this, a) }
	switch args {
	case 0:
		return func(t uintptr) uintptr { return d(t) }
	case 1:
		return func(t, a0 uintptr) uintptr { return d(t, a0) }
	case 2:
		return func(t, a0, a1 uintptr) uintptr { return d(t, a0, a1) }
	case 3:
		return func(t, a0, a1, a2 uintptr) uintptr { return d(t, a0, a1, a2) }
	case 4:
		return func(t, a0, a1, a2, a3 uintptr) uintptr { return d(t, a0, a1, a2, a3) }
	case 5:
		return func(t, a0, a1, a2, a3, a4 uintptr) uintptr { return d(t, a0, a1, a2, a3, a4) }
	case 6:
		return func(t, a0, a1, a2, a3, a4, a5 uintptr) uintptr { return d(t, a0, a1, a2, a3, a4, a5) }
	case 7:
		return func(t, a0, a1, a2, a3, a4, a5, a6 uintptr) uintptr {
			return d(t, a0, a1, a2, a3, a4, a5, a6)
		}
	case 8:
		return func(t, a0, a1, a2, a3, a4, a5, a6, a7 uintptr) uintptr {
			return d(t, a0, a1, a2, a3, a4, a5, a6, a7)
		}
	case 9:
		return func(t, a0, a1, a2, a3, a4, a5, a6, a7, a8 uintptr) uintptr {
			return d(t, a0, a1, a2, a3, a4, a5, a6, a7, a8)
		}
	case 10:
		return func(t, a0, a1, a2, a3, a4, a5, a6, a7, a8, a9 uintptr) uintptr {
			return d(t, a0, a1, a2, a3, a4, a5, a6, a7, a8, a9)
		}
	case 11:
		return func(t, a0, a1, a2, a3, a4, a5, a6, a7, a8, a9, a10 uintptr) uintptr {
			return d(t, a0, a1, a2, a3, a4, a5, a6, a7, a8, a9, a10)
		}
	default:
		return func(t, a0, a1, a2, a3, a4, a5, a6, a7, a8, a9, a10, a11 uintptr) uintptr {
			return d(t, a0, a1, a2, a3, a4, a5, a6, a7, a8, a9, a10, a11)
		}
	}
}
