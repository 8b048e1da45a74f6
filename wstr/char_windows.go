// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wstr

// Char is one wide character as the foreign component sees it.
type Char = uint16

// LengthPrefixed reports whether foreign BSTRs carry their length prefix.
const LengthPrefixed = true

func encodeChars(s string) ([]Char, error) { return encodeUTF16(s) }

func decodeChars(units []Char) (string, error) { return decodeUTF16(units) }
