// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wstr

import (
	"errors"
	"slices"
	"strings"
	"unicode/utf8"
	"unsafe"
)

var (
	// ErrInvalidUTF8 reports host or narrow foreign text that is not UTF-8.
	ErrInvalidUTF8 = errors.New("wstr: invalid UTF-8")

	// ErrInvalidWide reports foreign wide text with unpaired surrogates or
	// out-of-range code points.
	ErrInvalidWide = errors.New("wstr: invalid wide character sequence")

	// ErrInteriorNUL reports host text that cannot be represented as a
	// NUL-terminated string.
	ErrInteriorNUL = errors.New("wstr: string contains NUL")
)

// charSize is the size in bytes of one wide character.
const charSize = int(unsafe.Sizeof(Char(0)))

// Encode converts s into a NUL-terminated wide string.
func Encode(s string) ([]Char, error) {
	if !utf8.ValidString(s) {
		return nil, ErrInvalidUTF8
	}
	if strings.IndexByte(s, 0) >= 0 {
		return nil, ErrInteriorNUL
	}
	units, err := encodeChars(s)
	if err != nil {
		return nil, err
	}
	return append(units, 0), nil
}

// Decode reads a NUL-terminated wide string from foreign memory.
// A null pointer decodes to the empty string.
func Decode(p uintptr) (string, error) {
	if p == 0 {
		return "", nil
	}
	return decodeAt(at(p))
}

func decodeAt(p unsafe.Pointer) (string, error) {
	n := 0
	for *(*Char)(unsafe.Add(p, n*charSize)) != 0 {
		n++
	}
	return DecodeChars(unsafe.Slice((*Char)(p), n))
}

// DecodeChars decodes wide characters held in Go memory. A terminating NUL,
// if present, ends the string.
func DecodeChars(units []Char) (string, error) {
	if i := slices.Index(units, 0); i >= 0 {
		units = units[:i]
	}
	return decodeChars(units)
}

// FromNarrow reads a NUL-terminated narrow string from foreign memory and
// validates it as UTF-8. The caller keeps ownership of the memory.
func FromNarrow(p uintptr) (string, error) {
	if p == 0 {
		return "", nil
	}
	ptr := at(p)
	n := 0
	for *(*byte)(unsafe.Add(ptr, n)) != 0 {
		n++
	}
	b := unsafe.Slice((*byte)(ptr), n)
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}

// FromBSTR decodes a length-prefixed string and frees it with FreeBSTR.
//
// Where LengthPrefixed is true the exact prefixed length is read and
// embedded NUL characters survive. Elsewhere the foreign component does not
// write the prefix, so the string ends at its first NUL; anything after an
// embedded NUL is lost.
func FromBSTR(p uintptr) (string, error) {
	if p == 0 {
		return "", nil
	}
	defer FreeBSTR(p)
	return decodeBSTR(at(p), LengthPrefixed)
}

func decodeBSTR(p unsafe.Pointer, prefixed bool) (string, error) {
	if !prefixed {
		return decodeAt(p)
	}
	byteLen := *(*uint32)(unsafe.Add(p, -4))
	n := int(byteLen) / charSize
	return decodeChars(unsafe.Slice((*Char)(p), n))
}

// at converts a foreign address into a pointer.
func at(p uintptr) unsafe.Pointer {
	return unsafe.Pointer(p)
}
