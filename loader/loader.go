// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package loader

import (
	"errors"
	"fmt"
	"path/filepath"
)

// LoadError reports a shared library that could not be located or opened.
type LoadError struct {
	// Name is the path or file name that was attempted.
	Name string

	// Err is the platform loader's own failure detail.
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load library %q: %v", e.Name, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SymbolError reports an export missing from an opened library.
type SymbolError struct {
	Library string
	Symbol  string
	Err     error
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("symbol %s not found in %q: %v", e.Symbol, e.Library, e.Err)
}

func (e *SymbolError) Unwrap() error { return e.Err }

var errNullSymbol = errors.New("symbol resolved to a null address")

// Library is an opened shared library.
type Library struct {
	name   string
	handle uintptr
}

// Open loads the shared library at path. A bare file name is resolved by
// the platform loader's search rules.
func Open(path string) (*Library, error) {
	h, err := dlopen(path)
	if err != nil {
		return nil, &LoadError{Name: path, Err: err}
	}
	return &Library{name: path, handle: h}, nil
}

// Name returns the path the library was opened with.
func (l *Library) Name() string {
	return l.name
}

// Lookup resolves an exported symbol.
func (l *Library) Lookup(symbol string) (uintptr, error) {
	p, err := dlsym(l.handle, symbol)
	if err != nil {
		return 0, &SymbolError{Library: l.name, Symbol: symbol, Err: err}
	}
	if p == 0 {
		return 0, &SymbolError{Library: l.name, Symbol: symbol, Err: errNullSymbol}
	}
	return p, nil
}

// Close unloads the library. Objects created from it must already be
// released.
func (l *Library) Close() error {
	if l == nil || l.handle == 0 {
		return nil
	}
	err := dlclose(l.handle)
	l.handle = 0
	return err
}

// Path joins an optional directory with a library file name.
func Path(dir, name string) string {
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}
