// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package loader

// Default library file names.
const (
	CompilerLibrary  = "libdxcompiler.dylib"
	ValidatorLibrary = "libdxil.dylib"
)
