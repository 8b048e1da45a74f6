// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

//go:build !windows

package wstr

// Char is one wide character as the foreign component sees it: a 32-bit
// wchar_t.
type Char = uint32

// LengthPrefixed reports whether foreign BSTRs carry their length prefix.
// The compiler's non-Windows builds allocate BSTRs without one.
const LengthPrefixed = false

func encodeChars(s string) ([]Char, error) { return encodeUTF32(s) }

func decodeChars(units []Char) (string, error) { return decodeUTF32(units) }
