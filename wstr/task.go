// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wstr

import (
	"errors"
	"strings"
	"unicode/utf8"
	"unsafe"
)

// ErrOutOfMemory is returned when the task allocator fails.
var ErrOutOfMemory = errors.New("wstr: task allocation failed")

// TaskString copies s into task-allocated memory as a NUL-terminated wide
// string. The receiver releases it with FreeTask, as foreign callers do
// with LPWSTR out-parameters.
func TaskString(s string) (uintptr, error) {
	units, err := Encode(s)
	if err != nil {
		return 0, err
	}
	p := allocTask(uintptr(len(units) * charSize))
	if p == 0 {
		return 0, ErrOutOfMemory
	}
	copy(unsafe.Slice((*Char)(at(p)), len(units)), units)
	return p, nil
}

// TaskNarrow copies s into task-allocated memory as a NUL-terminated
// UTF-8 string, released with FreeTask.
func TaskNarrow(s string) (uintptr, error) {
	if !utf8.ValidString(s) {
		return 0, ErrInvalidUTF8
	}
	if strings.IndexByte(s, 0) >= 0 {
		return 0, ErrInteriorNUL
	}
	p := allocTask(uintptr(len(s) + 1))
	if p == 0 {
		return 0, ErrOutOfMemory
	}
	buf := unsafe.Slice((*byte)(at(p)), len(s)+1)
	copy(buf, s)
	buf[len(s)] = 0
	return p, nil
}
