// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dxc

import (
	"runtime"
	"unsafe"

	"github.com/gogpu/dxc/com"
	"github.com/gogpu/dxc/wstr"
)

const (
	slotLibrarySetMalloc = com.FirstMethodSlot + iota
	slotLibraryCreateBlobFromBlob
	slotLibraryCreateBlobFromFile
	slotLibraryCreateBlobWithEncodingFromPinned
	slotLibraryCreateBlobWithEncodingOnHeapCopy
	slotLibraryCreateBlobWithEncodingOnMalloc
	slotLibraryCreateIncludeHandler
	slotLibraryCreateStreamFromBlobReadOnly
	slotLibraryGetBlobAsUtf8
	slotLibraryGetBlobAsUtf16
)

// Library is an IDxcLibrary, the blob factory of the compiler.
type Library struct {
	u *com.Unknown
}

// NewLibrary adopts u, which must be an IDxcLibrary reference.
func NewLibrary(u *com.Unknown) *Library {
	return &Library{u: u}
}

// Unknown returns the underlying handle.
func (l *Library) Unknown() *com.Unknown {
	return l.u
}

// Release gives back the library's reference.
func (l *Library) Release() {
	if l != nil {
		l.u.Release()
	}
}

// SetMalloc installs an IMalloc allocator.
func (l *Library) SetMalloc(malloc uintptr) error {
	return l.u.Call(slotLibrarySetMalloc, malloc).Err()
}

// CreateBlobFromBlob creates a blob viewing length bytes of b starting at
// offset.
func (l *Library) CreateBlobFromBlob(b BlobRef, offset, length uint32) (*Blob, error) {
	var out uintptr
	hr := l.u.Call(slotLibraryCreateBlobFromBlob, b.Unknown().Raw(), uintptr(offset), uintptr(length), uintptr(unsafe.Pointer(&out)))
	return adoptBlob(hr, out)
}

// CreateBlobFromFile reads a file into a blob. A nil codePage lets the
// compiler detect the encoding.
func (l *Library) CreateBlobFromFile(filename string, codePage *uint32) (*BlobEncoding, error) {
	name, err := wstr.Encode(filename)
	if err != nil {
		return nil, decodeError("file name", err)
	}
	var out uintptr
	hr := l.u.Call(slotLibraryCreateBlobFromFile, uintptr(unsafe.Pointer(&name[0])), uintptr(unsafe.Pointer(codePage)), uintptr(unsafe.Pointer(&out)))
	return adoptEncoding(hr, out)
}

// CreateBlobWithEncodingFromPinned wraps data without copying it. data
// stays pinned and must not be modified until the returned handle is
// released; other references to the blob must be released first.
func (l *Library) CreateBlobWithEncodingFromPinned(data []byte, codePage uint32) (*BlobEncoding, error) {
	if len(data) == 0 {
		return l.CreateBlobWithEncodingOnHeapCopy(nil, codePage)
	}
	pin := new(runtime.Pinner)
	pin.Pin(&data[0])
	var out uintptr
	hr := l.u.Call(slotLibraryCreateBlobWithEncodingFromPinned, uintptr(unsafe.Pointer(&data[0])), uintptr(len(data)), uintptr(codePage), uintptr(unsafe.Pointer(&out)))
	e, err := adoptEncoding(hr, out)
	if err != nil {
		pin.Unpin()
		return nil, err
	}
	e.pin = pin
	return e, nil
}

// CreateBlobWithEncodingOnHeapCopy copies data into a compiler-owned blob.
func (l *Library) CreateBlobWithEncodingOnHeapCopy(data []byte, codePage uint32) (*BlobEncoding, error) {
	var p uintptr
	if len(data) > 0 {
		p = uintptr(unsafe.Pointer(&data[0]))
	}
	var out uintptr
	hr := l.u.Call(slotLibraryCreateBlobWithEncodingOnHeapCopy, p, uintptr(len(data)), uintptr(codePage), uintptr(unsafe.Pointer(&out)))
	runtime.KeepAlive(data)
	return adoptEncoding(hr, out)
}

// CreateBlobWithEncodingOnMalloc hands a buffer allocated by malloc over
// to the blob, which frees it with the same allocator.
func (l *Library) CreateBlobWithEncodingOnMalloc(text, malloc uintptr, size, codePage uint32) (*BlobEncoding, error) {
	var out uintptr
	hr := l.u.Call(slotLibraryCreateBlobWithEncodingOnMalloc, text, malloc, uintptr(size), uintptr(codePage), uintptr(unsafe.Pointer(&out)))
	return adoptEncoding(hr, out)
}

// CreateBlobWithEncodingFromString copies text into a UTF-8 blob.
func (l *Library) CreateBlobWithEncodingFromString(text string) (*BlobEncoding, error) {
	return l.CreateBlobWithEncodingOnHeapCopy([]byte(text), CP_UTF8)
}

// CreateBlobWithEncoding copies binary data into a blob with no code page.
func (l *Library) CreateBlobWithEncoding(data []byte) (*BlobEncoding, error) {
	return l.CreateBlobWithEncodingOnHeapCopy(data, CP_ACP)
}

// CreateIncludeHandler returns the compiler's own file-system include
// handler.
func (l *Library) CreateIncludeHandler() (*NativeIncludeHandler, error) {
	var out uintptr
	hr := l.u.Call(slotLibraryCreateIncludeHandler, uintptr(unsafe.Pointer(&out)))
	u, err := adopt(hr, out)
	if err != nil {
		return nil, err
	}
	return &NativeIncludeHandler{u: u}, nil
}

// CreateStreamFromBlobReadOnly returns an IStream reading b.
func (l *Library) CreateStreamFromBlobReadOnly(b BlobRef) (*com.Unknown, error) {
	var out uintptr
	hr := l.u.Call(slotLibraryCreateStreamFromBlobReadOnly, b.Unknown().Raw(), uintptr(unsafe.Pointer(&out)))
	return adopt(hr, out)
}

// GetBlobAsUTF8 converts b to UTF-8.
func (l *Library) GetBlobAsUTF8(b BlobRef) (*BlobEncoding, error) {
	var out uintptr
	hr := l.u.Call(slotLibraryGetBlobAsUtf8, b.Unknown().Raw(), uintptr(unsafe.Pointer(&out)))
	return adoptEncoding(hr, out)
}

// GetBlobAsUTF16 converts b to UTF-16.
func (l *Library) GetBlobAsUTF16(b BlobRef) (*BlobEncoding, error) {
	var out uintptr
	hr := l.u.Call(slotLibraryGetBlobAsUtf16, b.Unknown().Raw(), uintptr(unsafe.Pointer(&out)))
	return adoptEncoding(hr, out)
}

// GetBlobAsString returns the text of b, converted to UTF-8 by the
// compiler.
func (l *Library) GetBlobAsString(b BlobRef) (string, error) {
	utf8, err := l.GetBlobAsUTF8(b)
	if err != nil {
		return "", err
	}
	defer utf8.Release()
	return decodeText(utf8.Bytes(), CP_UTF8)
}

// adopt turns an out-parameter into an owned handle. The reference is
// released again when the status reports failure.
func adopt(hr com.HRESULT, out uintptr) (*com.Unknown, error) {
	if hr.Failed() {
		com.ReleaseRaw(out)
		return nil, hr
	}
	if out == 0 {
		return nil, com.E_POINTER
	}
	return com.FromRaw(out), nil
}

func adoptBlob(hr com.HRESULT, out uintptr) (*Blob, error) {
	u, err := adopt(hr, out)
	if err != nil {
		return nil, err
	}
	return &Blob{u: u}, nil
}

func adoptEncoding(hr com.HRESULT, out uintptr) (*BlobEncoding, error) {
	u, err := adopt(hr, out)
	if err != nil {
		return nil, err
	}
	return &BlobEncoding{u: u}, nil
}
