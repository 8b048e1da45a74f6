// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dxc

import (
	"log/slog"
	"unsafe"

	"github.com/gogpu/dxc/com"
	"github.com/gogpu/dxc/internal/logging"
	"github.com/gogpu/dxc/wstr"
)

const (
	slotCompilerCompile = com.FirstMethodSlot + iota
	slotCompilerPreprocess
	slotCompilerDisassemble
	slotCompiler2CompileWithDebug
)

// Define is a preprocessor definition. An empty Value defines the name
// without a value.
type Define struct {
	Name  string
	Value string
}

// Compiler is an IDxcCompiler together with the Library used to build the
// blobs its include handlers return.
type Compiler struct {
	u   *com.Unknown
	lib *Library
	log *slog.Logger
}

// NewCompiler adopts u, an IDxcCompiler reference, and lib. Both are
// released with the compiler. log may be nil.
func NewCompiler(u *com.Unknown, lib *Library, log *slog.Logger) *Compiler {
	if log == nil {
		log = logging.Discard()
	}
	return &Compiler{u: u, lib: lib, log: log}
}

// Unknown returns the underlying handle.
func (c *Compiler) Unknown() *com.Unknown {
	return c.u
}

// Library returns the compiler's library. It is owned by the compiler.
func (c *Compiler) Library() *Library {
	return c.lib
}

// Release gives back the compiler's references.
func (c *Compiler) Release() {
	if c == nil {
		return
	}
	c.u.Release()
	c.lib.Release()
}

// Compile compiles source. include may be nil, in which case any
// #include fails. A result whose status reports failure is returned as
// *OperationError.
func (c *Compiler) Compile(source BlobRef, sourceName, entryPoint, targetProfile string, args []string, include IncludeHandler, defines []Define) (*OperationResult, error) {
	var b wstr.Builder
	defer b.Unpin()
	name := b.String(sourceName)
	entry := b.String(entryPoint)
	profile := b.String(targetProfile)
	argv, argc := b.Strings(args)
	defs, defc := defineTable(&b, defines)
	if err := b.Err(); err != nil {
		return nil, decodeError("compile arguments", err)
	}

	handler, done := c.includeObject(include)
	defer done()

	var out uintptr
	hr := c.u.Call(slotCompilerCompile,
		source.Unknown().Raw(), name, entry, profile,
		argv, uintptr(argc), defs, uintptr(defc),
		handler, uintptr(unsafe.Pointer(&out)))
	return newResult(hr, out)
}

// Preprocess runs only the preprocessor over source.
func (c *Compiler) Preprocess(source BlobRef, sourceName string, args []string, include IncludeHandler, defines []Define) (*OperationResult, error) {
	var b wstr.Builder
	defer b.Unpin()
	name := b.String(sourceName)
	argv, argc := b.Strings(args)
	defs, defc := defineTable(&b, defines)
	if err := b.Err(); err != nil {
		return nil, decodeError("preprocess arguments", err)
	}

	handler, done := c.includeObject(include)
	defer done()

	var out uintptr
	hr := c.u.Call(slotCompilerPreprocess,
		source.Unknown().Raw(), name,
		argv, uintptr(argc), defs, uintptr(defc),
		handler, uintptr(unsafe.Pointer(&out)))
	return newResult(hr, out)
}

// Disassemble returns the textual form of a compiled container.
func (c *Compiler) Disassemble(blob BlobRef) (*BlobEncoding, error) {
	var out uintptr
	hr := c.u.Call(slotCompilerDisassemble, blob.Unknown().Raw(), uintptr(unsafe.Pointer(&out)))
	return adoptEncoding(hr, out)
}

// DebugOutput is the debug information produced by CompileWithDebug.
type DebugOutput struct {
	// Name is the suggested file name for Blob.
	Name string
	Blob *Blob
}

// Release releases the debug blob.
func (d *DebugOutput) Release() {
	if d != nil {
		d.Blob.Release()
	}
}

// CompileWithDebug is Compile through IDxcCompiler2, also returning the
// separate debug information. Compilers without IDxcCompiler2 report
// E_NOINTERFACE.
func (c *Compiler) CompileWithDebug(source BlobRef, sourceName, entryPoint, targetProfile string, args []string, include IncludeHandler, defines []Define) (*OperationResult, *DebugOutput, error) {
	c2, err := c.u.QueryInterface(IID_IDxcCompiler2)
	if err != nil {
		return nil, nil, err
	}
	defer c2.Release()

	var b wstr.Builder
	defer b.Unpin()
	name := b.String(sourceName)
	entry := b.String(entryPoint)
	profile := b.String(targetProfile)
	argv, argc := b.Strings(args)
	defs, defc := defineTable(&b, defines)
	if err := b.Err(); err != nil {
		return nil, nil, decodeError("compile arguments", err)
	}

	handler, done := c.includeObject(include)
	defer done()

	var out, debugName, debugBlob uintptr
	hr := c2.Call(slotCompiler2CompileWithDebug,
		source.Unknown().Raw(), name, entry, profile,
		argv, uintptr(argc), defs, uintptr(defc),
		handler, uintptr(unsafe.Pointer(&out)),
		uintptr(unsafe.Pointer(&debugName)), uintptr(unsafe.Pointer(&debugBlob)))

	var debug *DebugOutput
	if debugBlob != 0 || debugName != 0 {
		debug = &DebugOutput{}
		if debugBlob != 0 {
			debug.Blob = &Blob{u: com.FromRaw(debugBlob)}
		}
		if debugName != 0 {
			debug.Name, err = wstr.Decode(debugName)
			wstr.FreeTask(debugName)
			if err != nil {
				debug.Release()
				com.ReleaseRaw(out)
				return nil, nil, decodeError("debug blob name", err)
			}
		}
	}

	r, err := newResult(hr, out)
	if err != nil {
		debug.Release()
		return nil, nil, err
	}
	return r, debug, nil
}

// VersionInfo returns the compiler's IDxcVersionInfo interface.
func (c *Compiler) VersionInfo() (*VersionInfo, error) {
	return queryVersionInfo(c.u)
}

// includeObject wraps include in a trampoline for one call. The returned
// function releases the trampoline.
func (c *Compiler) includeObject(include IncludeHandler) (uintptr, func()) {
	if include == nil {
		return 0, func() {}
	}
	u := NewIncludeObject(c.lib, include, c.log)
	return u.Raw(), func() { u.Release() }
}

// defineTable lays out defines as an array of DxcDefine {LPCWSTR Name;
// LPCWSTR Value}.
func defineTable(b *wstr.Builder, defines []Define) (uintptr, uint32) {
	if len(defines) == 0 {
		return 0, 0
	}
	words := make([]uintptr, 0, 2*len(defines))
	for _, d := range defines {
		words = append(words, b.String(d.Name), b.Optional(d.Value))
	}
	return b.Table(words), uint32(len(defines))
}
