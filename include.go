// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dxc

import (
	"log/slog"
	"path/filepath"
	"sync"
	"unsafe"

	"github.com/spf13/afero"

	"github.com/gogpu/dxc/com"
	"github.com/gogpu/dxc/internal/logging"
	"github.com/gogpu/dxc/wstr"
)

const slotIncludeHandlerLoadSource = com.FirstMethodSlot

// IncludeHandler resolves #include requests during compilation.
//
// LoadSource is called synchronously from inside the compiler, once per
// textual include, on the goroutine that issued the compile. It must not
// call back into the compiler that is running.
type IncludeHandler interface {
	LoadSource(filename string) (source string, ok bool)
}

// IncludeFunc adapts a function to IncludeHandler.
type IncludeFunc func(filename string) (string, bool)

// LoadSource calls f.
func (f IncludeFunc) LoadSource(filename string) (string, bool) {
	return f(filename)
}

// FileIncludeHandler resolves includes from a file system: the requested
// name as given, then the name joined with each of Dirs in order.
type FileIncludeHandler struct {
	// FS defaults to the operating system's file system.
	FS afero.Fs

	Dirs []string
}

// LoadSource reads the first candidate path that exists.
func (h *FileIncludeHandler) LoadSource(filename string) (string, bool) {
	fs := h.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}
	for _, path := range h.candidates(filename) {
		data, err := afero.ReadFile(fs, path)
		if err == nil {
			return string(data), true
		}
	}
	return "", false
}

func (h *FileIncludeHandler) candidates(filename string) []string {
	paths := []string{filename}
	if filepath.IsAbs(filename) {
		return paths
	}
	for _, dir := range h.Dirs {
		paths = append(paths, filepath.Join(dir, filename))
	}
	return paths
}

var includeVTable = sync.OnceValue(func() *com.VTable {
	return com.NewVTable([]com.GUID{IID_IDxcIncludeHandler}, com.Method{
		Name: "LoadSource",
		Args: 2,
		Fn: func(o *com.Object, args []uintptr) uintptr {
			return uintptr(o.Impl().(*includeTrampoline).loadSource(args[0], args[1]))
		},
	})
})

type includeTrampoline struct {
	handler IncludeHandler
	lib     *Library
	log     *slog.Logger
}

// NewIncludeObject exposes h as an IDxcIncludeHandler. Source text is
// handed to the compiler in UTF-8 blobs created by lib, which must outlive
// the object. log may be nil.
func NewIncludeObject(lib *Library, h IncludeHandler, log *slog.Logger) *com.Unknown {
	if log == nil {
		log = logging.Discard()
	}
	return com.NewObject(includeVTable(), &includeTrampoline{handler: h, lib: lib, log: log})
}

func (t *includeTrampoline) loadSource(namePtr, out uintptr) com.HRESULT {
	if out == 0 {
		return com.E_POINTER
	}
	com.WriteUintptr(out, 0)

	name, err := wstr.Decode(namePtr)
	if err != nil {
		t.log.Warn("undecodable include name", "error", err)
		return com.E_INVALIDARG
	}
	source, ok := t.handler.LoadSource(name)
	if !ok {
		t.log.Debug("include not found", "name", name)
		return com.E_FILE_NOT_FOUND
	}
	t.log.Debug("include resolved", "name", name, "bytes", len(source))

	blob, err := t.lib.CreateBlobWithEncodingFromString(source)
	if err != nil {
		return statusOf(err)
	}
	return com.WriteUintptr(out, blob.detach())
}

// NativeIncludeHandler is an include handler implemented by the compiler
// library itself.
type NativeIncludeHandler struct {
	u *com.Unknown
}

// Unknown returns the underlying handle, suitable for passing as the
// include handler of a compile.
func (h *NativeIncludeHandler) Unknown() *com.Unknown {
	return h.u
}

// LoadSource asks the handler for filename.
func (h *NativeIncludeHandler) LoadSource(filename string) (*Blob, error) {
	name, err := wstr.Encode(filename)
	if err != nil {
		return nil, decodeError("include name", err)
	}
	var out uintptr
	hr := h.u.Call(slotIncludeHandlerLoadSource, uintptr(unsafe.Pointer(&name[0])), uintptr(unsafe.Pointer(&out)))
	return adoptBlob(hr, out)
}

// Release gives back the handler's reference.
func (h *NativeIncludeHandler) Release() {
	if h != nil {
		h.u.Release()
	}
}
