// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dxc

import (
	"bytes"
	"errors"
	"fmt"
	"runtime"
	"unicode/utf8"
	"unsafe"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"

	"github.com/gogpu/dxc/com"
)

const (
	slotBlobGetBufferPointer = com.FirstMethodSlot + iota
	slotBlobGetBufferSize
	slotBlobEncodingGetEncoding
)

// Code pages Text decodes besides CP_UTF8 and CP_UTF16.
const (
	cpUTF16BE uint32 = 1201
	cpUTF32LE uint32 = 12000
	cpUTF32BE uint32 = 12001
)

var errInvalidText = errors.New("text is not valid UTF-8")

type codePageError uint32

func (cp codePageError) Error() string {
	return fmt.Sprintf("unsupported code page %d", uint32(cp))
}

// BlobRef is implemented by Blob and BlobEncoding. Operations taking a
// BlobRef borrow its reference for the duration of the call.
type BlobRef interface {
	Unknown() *com.Unknown
}

// Blob is an IDxcBlob: an immutable byte buffer owned by the compiler.
type Blob struct {
	u *com.Unknown
}

// NewBlob adopts u, which must be an IDxcBlob reference.
func NewBlob(u *com.Unknown) *Blob {
	return &Blob{u: u}
}

// Unknown returns the underlying handle.
func (b *Blob) Unknown() *com.Unknown {
	return b.u
}

// Pointer returns the address of the buffer. It stays valid until the
// last reference to the blob is released.
func (b *Blob) Pointer() uintptr {
	return bufferPointer(b.u)
}

// Size returns the buffer length in bytes.
func (b *Blob) Size() int {
	return bufferSize(b.u)
}

// Bytes returns a copy of the buffer.
func (b *Blob) Bytes() []byte {
	return bufferBytes(b.u)
}

// Encoding returns the blob's IDxcBlobEncoding interface, or the
// E_NOINTERFACE status when the blob carries no encoding.
func (b *Blob) Encoding() (*BlobEncoding, error) {
	u, err := b.u.QueryInterface(IID_IDxcBlobEncoding)
	if err != nil {
		return nil, err
	}
	return &BlobEncoding{u: u}, nil
}

// Release gives back the blob's reference.
func (b *Blob) Release() {
	if b != nil {
		b.u.Release()
	}
}

// BlobEncoding is an IDxcBlobEncoding: a blob that knows the code page of
// the text it holds.
type BlobEncoding struct {
	u   *com.Unknown
	pin *runtime.Pinner
}

// NewBlobEncoding adopts u, which must be an IDxcBlobEncoding reference.
func NewBlobEncoding(u *com.Unknown) *BlobEncoding {
	return &BlobEncoding{u: u}
}

// Unknown returns the underlying handle.
func (e *BlobEncoding) Unknown() *com.Unknown {
	return e.u
}

// Blob returns a new IDxcBlob reference to the same object.
func (e *BlobEncoding) Blob() *Blob {
	return &Blob{u: e.u.Clone()}
}

// Pointer returns the address of the buffer.
func (e *BlobEncoding) Pointer() uintptr {
	return bufferPointer(e.u)
}

// Size returns the buffer length in bytes.
func (e *BlobEncoding) Size() int {
	return bufferSize(e.u)
}

// Bytes returns a copy of the buffer.
func (e *BlobEncoding) Bytes() []byte {
	return bufferBytes(e.u)
}

// Encoding reports whether the code page is known, and the code page.
func (e *BlobEncoding) Encoding() (known bool, codePage uint32, err error) {
	var k int32
	var cp uint32
	hr := e.u.Call(slotBlobEncodingGetEncoding, uintptr(unsafe.Pointer(&k)), uintptr(unsafe.Pointer(&cp)))
	if hr.Failed() {
		return false, 0, hr
	}
	return k != 0, cp, nil
}

// Text decodes the buffer according to its code page. Text in an unknown
// code page is accepted when it is valid UTF-8. Trailing NULs are dropped.
func (e *BlobEncoding) Text() (string, error) {
	known, cp, err := e.Encoding()
	if err != nil {
		return "", err
	}
	if !known {
		cp = CP_ACP
	}
	return decodeText(e.Bytes(), cp)
}

// Release gives back the reference and unpins any borrowed Go memory.
func (e *BlobEncoding) Release() {
	if e == nil {
		return
	}
	e.u.Release()
	if e.pin != nil {
		e.pin.Unpin()
		e.pin = nil
	}
}

// detach hands the reference to a foreign caller.
func (e *BlobEncoding) detach() uintptr {
	return e.u.Detach()
}

func bufferPointer(u *com.Unknown) uintptr {
	return u.CallRaw(slotBlobGetBufferPointer)
}

func bufferSize(u *com.Unknown) int {
	return int(u.CallRaw(slotBlobGetBufferSize))
}

func bufferBytes(u *com.Unknown) []byte {
	p, n := bufferPointer(u), bufferSize(u)
	if p == 0 || n <= 0 {
		return []byte{}
	}
	return bytes.Clone(unsafe.Slice((*byte)(unsafe.Pointer(p)), n))
}

func decodeText(data []byte, cp uint32) (string, error) {
	var (
		out []byte
		err error
	)
	switch cp {
	case CP_UTF8, CP_ACP:
		out = data
	case CP_UTF16:
		out, err = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(data)
	case cpUTF16BE:
		out, err = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder().Bytes(data)
	case cpUTF32LE:
		out, err = utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM).NewDecoder().Bytes(data)
	case cpUTF32BE:
		out, err = utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM).NewDecoder().Bytes(data)
	default:
		return "", decodeError("blob text", codePageError(cp))
	}
	if err != nil {
		return "", decodeError("blob text", err)
	}
	out = bytes.TrimRight(out, "\x00")
	if !utf8.Valid(out) {
		return "", decodeError("blob text", errInvalidText)
	}
	return string(out), nil
}
