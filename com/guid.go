// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package com

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// GUID is a 128-bit class or interface identifier in its in-memory layout.
type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

// IID_IUnknown identifies the base interface every object implements.
var IID_IUnknown = MustParseGUID("00000000-0000-0000-C000-000000000046")

// ParseGUID parses the canonical textual form, with or without braces.
func ParseGUID(s string) (GUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return GUID{}, fmt.Errorf("com: parse guid %q: %w", s, err)
	}
	return FromUUID(u), nil
}

// MustParseGUID is like ParseGUID but panics on malformed input.
// Use it only for constant identifiers.
func MustParseGUID(s string) GUID {
	g, err := ParseGUID(s)
	if err != nil {
		panic(err)
	}
	return g
}

// FromUUID converts the RFC 4122 byte order into the GUID layout.
func FromUUID(u uuid.UUID) GUID {
	g := GUID{
		Data1: binary.BigEndian.Uint32(u[0:4]),
		Data2: binary.BigEndian.Uint16(u[4:6]),
		Data3: binary.BigEndian.Uint16(u[6:8]),
	}
	copy(g.Data4[:], u[8:16])
	return g
}

// UUID converts the GUID back into RFC 4122 byte order.
func (g GUID) UUID() uuid.UUID {
	var u uuid.UUID
	binary.BigEndian.PutUint32(u[0:4], g.Data1)
	binary.BigEndian.PutUint16(u[4:6], g.Data2)
	binary.BigEndian.PutUint16(u[6:8], g.Data3)
	copy(u[8:16], g.Data4[:])
	return u
}

// String returns the lower-case canonical form, e.g.
// "8ba5fb08-5195-40e2-ac58-0d989c3a0102".
func (g GUID) String() string {
	return g.UUID().String()
}
