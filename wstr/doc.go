// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package wstr converts between Go strings and the string shapes used at the
// shader compiler's binary boundary:
//
//   - NUL-terminated wide strings (LPCWSTR / LPWSTR). A wide character is
//     UTF-16 on Windows and a 32-bit wchar_t (UTF-32) elsewhere, see [Char].
//   - Length-prefixed wide strings (BSTR), see [FromBSTR].
//   - NUL-terminated narrow UTF-8 strings (LPSTR), see [FromNarrow].
//
// Buffers produced by the foreign side are always released through the
// foreign side's own deallocation routines ([FreeBSTR], [FreeTask]), never
// through the Go allocator.
package wstr
