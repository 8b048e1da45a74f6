// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

//go:build !windows && !darwin

package loader

// Default library file names.
const (
	CompilerLibrary  = "libdxcompiler.so"
	ValidatorLibrary = "libdxil.so"
)
