// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dxc

import (
	"errors"
	"strings"
	"sync"

	"github.com/gogpu/dxc/cache"
	"github.com/gogpu/dxc/config"
)

// CompileHLSL compiles HLSL source with a compiler library located through
// config.Load. Includes are read from the file system. Pass "-spirv" in
// args to target SPIR-V.
func CompileHLSL(sourceName, text, entryPoint, targetProfile string, args []string, defines []Define) ([]byte, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}
	d, err := New(WithConfig(cfg))
	if err != nil {
		return nil, err
	}
	defer d.Close()
	return d.CompileHLSL(sourceName, text, entryPoint, targetProfile, args, defines)
}

// ValidateDXIL validates and signs a compiled container with the
// validator library located through config.Load, and returns the signed
// container.
func ValidateDXIL(data []byte) ([]byte, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}
	d, err := New(WithConfig(cfg))
	if err != nil {
		return nil, err
	}
	defer d.Close()
	v, err := NewDxil(WithConfig(cfg))
	if err != nil {
		return nil, err
	}
	defer v.Close()
	return d.ValidateDXIL(v, data)
}

// CompileHLSL compiles source and returns the compiled object. A rejected
// source yields an *Error of kind ErrCompile carrying the diagnostics.
func (d *Dxc) CompileHLSL(sourceName, text, entryPoint, targetProfile string, args []string, defines []Define) ([]byte, error) {
	key := compileKey(d.library, sourceName, text, entryPoint, targetProfile, args, defines)
	if data, ok := d.cached(key); ok {
		d.log.Debug("compile cache hit", "source", sourceName, "profile", targetProfile)
		return data, nil
	}

	compiler, err := d.CreateCompiler()
	if err != nil {
		return nil, err
	}
	defer compiler.Release()
	library := compiler.Library()

	blob, err := library.CreateBlobWithEncodingFromString(text)
	if err != nil {
		return nil, callError(err)
	}
	defer blob.Release()

	deps := &dependencyRecorder{handler: d.include}
	result, err := compiler.Compile(blob, sourceName, entryPoint, targetProfile, args, deps, defines)
	if err != nil {
		var opErr *OperationError
		if !errors.As(err, &opErr) {
			return nil, callError(err)
		}
		defer opErr.Release()
		msg, derr := diagnostics(library, opErr.Result)
		if derr != nil {
			return nil, derr
		}
		d.log.Debug("compile failed", "source", sourceName, "profile", targetProfile, "status", opErr.Status)
		return nil, &Error{Kind: ErrCompile, Code: opErr.Status, Message: msg}
	}
	defer result.Release()

	out, err := result.Result()
	if err != nil {
		return nil, callError(err)
	}
	defer out.Release()
	data := out.Bytes()
	included := deps.list()
	d.log.Debug("compiled", "source", sourceName, "entry", entryPoint, "profile", targetProfile, "bytes", len(data), "includes", len(included))

	d.store(key, data, included)
	return data, nil
}

// ValidateDXIL validates data with a validator from dxil and returns the
// container, signed in place by the validator. A rejected container
// yields an *Error of kind ErrValidation carrying the diagnostics.
func (d *Dxc) ValidateDXIL(dxil *Dxil, data []byte) ([]byte, error) {
	validator, err := dxil.CreateValidator()
	if err != nil {
		return nil, err
	}
	defer validator.Release()

	library, err := d.CreateLibrary()
	if err != nil {
		return nil, err
	}
	defer library.Release()

	blob, err := library.CreateBlobWithEncoding(data)
	if err != nil {
		return nil, callError(err)
	}
	defer blob.Release()

	result, err := validator.Validate(blob, ValidatorFlagsInPlaceEdit)
	if err != nil {
		var opErr *OperationError
		if !errors.As(err, &opErr) {
			return nil, callError(err)
		}
		defer opErr.Release()
		msg, derr := diagnostics(library, opErr.Result)
		if derr != nil {
			return nil, derr
		}
		d.log.Debug("validation failed", "bytes", len(data), "status", opErr.Status)
		return nil, &Error{Kind: ErrValidation, Code: opErr.Status, Message: msg}
	}
	result.Release()

	d.log.Debug("validated", "bytes", len(data))
	return blob.Bytes(), nil
}

// diagnostics extracts the error text of a failed result.
func diagnostics(library *Library, r *OperationResult) (string, error) {
	eb, err := r.ErrorBuffer()
	if err != nil {
		return "", callError(err)
	}
	defer eb.Release()
	msg, err := library.GetBlobAsString(eb)
	if err != nil {
		return "", callError(err)
	}
	return msg, nil
}

func compileKey(library, sourceName, text, entryPoint, targetProfile string, args []string, defines []Define) cache.Key {
	defs := make([]string, len(defines))
	for i, def := range defines {
		defs[i] = def.Name + "=" + def.Value
	}
	return cache.NewKey(
		"compile", library, sourceName, text, entryPoint, targetProfile,
		strings.Join(args, "\x00"), strings.Join(defs, "\x00"),
	)
}

// cached returns a cached compile whose recorded includes still resolve
// to the same content.
func (d *Dxc) cached(key cache.Key) ([]byte, bool) {
	if d.cache == nil {
		return nil, false
	}
	e, err := d.cache.Get(key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			d.log.Warn("compile cache read failed", "error", err)
		}
		return nil, false
	}
	for _, dep := range e.Deps {
		src, ok := d.include.LoadSource(dep.Name)
		if !ok || cache.Hash([]byte(src)) != dep.Hash {
			d.log.Debug("compile cache entry stale", "include", dep.Name)
			return nil, false
		}
	}
	return e.Data, true
}

func (d *Dxc) store(key cache.Key, data []byte, deps []cache.Dependency) {
	if d.cache == nil {
		return
	}
	if err := d.cache.Put(key, &cache.Entry{Data: data, Deps: deps}); err != nil {
		d.log.Warn("compile cache write failed", "error", err)
	}
}

// dependencyRecorder forwards include requests and remembers what each
// resolved name contained.
type dependencyRecorder struct {
	handler IncludeHandler

	mu    sync.Mutex
	deps  []cache.Dependency
	names map[string]bool
}

func (r *dependencyRecorder) LoadSource(filename string) (string, bool) {
	src, ok := r.handler.LoadSource(filename)
	if !ok {
		return "", false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.names == nil {
		r.names = make(map[string]bool)
	}
	if !r.names[filename] {
		r.names[filename] = true
		r.deps = append(r.deps, cache.Dependency{Name: filename, Hash: cache.Hash([]byte(src))})
	}
	return src, true
}

func (r *dependencyRecorder) list() []cache.Dependency {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deps
}
