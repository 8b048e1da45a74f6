// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wstr

import (
	"encoding/binary"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

var littleEndian = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

var (
	utf16Codec encoding.Encoding
	utf32Codec encoding.Encoding
)

func init() {
	if littleEndian {
		utf16Codec = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
		utf32Codec = utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM)
	} else {
		utf16Codec = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
		utf32Codec = utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM)
	}
}

// encodeUTF16 expects valid UTF-8 without a terminator.
func encodeUTF16(s string) ([]uint16, error) {
	b, err := utf16Codec.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, err
	}
	units := make([]uint16, len(b)/2, len(b)/2+1)
	for i := range units {
		units[i] = binary.NativeEndian.Uint16(b[2*i:])
	}
	return units, nil
}

// encodeUTF32 expects valid UTF-8 without a terminator.
func encodeUTF32(s string) ([]uint32, error) {
	b, err := utf32Codec.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, err
	}
	units := make([]uint32, len(b)/4, len(b)/4+1)
	for i := range units {
		units[i] = binary.NativeEndian.Uint32(b[4*i:])
	}
	return units, nil
}

func decodeUTF16(units []uint16) (string, error) {
	for i := 0; i < len(units); i++ {
		switch u := rune(units[i]); {
		case utf16.IsSurrogate(u) && u < 0xDC00:
			if i+1 >= len(units) || rune(units[i+1]) < 0xDC00 || rune(units[i+1]) > 0xDFFF {
				return "", ErrInvalidWide
			}
			i++
		case utf16.IsSurrogate(u):
			return "", ErrInvalidWide
		}
	}
	b := make([]byte, 2*len(units))
	for i, u := range units {
		binary.NativeEndian.PutUint16(b[2*i:], u)
	}
	out, err := utf16Codec.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func decodeUTF32(units []uint32) (string, error) {
	for _, u := range units {
		if u > utf8.MaxRune || !utf8.ValidRune(rune(u)) {
			return "", ErrInvalidWide
		}
	}
	b := make([]byte, 4*len(units))
	for i, u := range units {
		binary.NativeEndian.PutUint32(b[4*i:], u)
	}
	out, err := utf32Codec.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
