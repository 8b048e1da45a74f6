// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package loader opens the shader compiler's shared libraries and creates
// objects through their exported factory functions.
//
// Objects are identified purely by a class identifier and an interface
// identifier resolved against the freshly loaded library; no system-wide
// component registration is consulted.
//
//	f, err := loader.OpenFactory(loader.Path(dir, loader.CompilerLibrary))
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//	obj, err := f.CreateInstance(clsid, iid)
//
// A missing library is reported as [*LoadError] and a missing export as
// [*SymbolError], so callers can tell the two apart.
package loader
