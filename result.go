// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dxc

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/dxc/com"
)

const (
	slotResultGetStatus = com.FirstMethodSlot + iota
	slotResultGetResult
	slotResultGetErrorBuffer
)

// OperationResult is an IDxcOperationResult, produced by every
// compiler-like operation.
type OperationResult struct {
	u *com.Unknown
}

// NewOperationResult adopts u, which must be an IDxcOperationResult
// reference.
func NewOperationResult(u *com.Unknown) *OperationResult {
	return &OperationResult{u: u}
}

// Unknown returns the underlying handle.
func (r *OperationResult) Unknown() *com.Unknown {
	return r.u
}

// Status returns the status of the operation.
func (r *OperationResult) Status() (com.HRESULT, error) {
	var status uint32
	hr := r.u.Call(slotResultGetStatus, uintptr(unsafe.Pointer(&status)))
	if hr.Failed() {
		return 0, hr
	}
	return com.HRESULT(status), nil
}

// Result returns the output blob.
func (r *OperationResult) Result() (*Blob, error) {
	var out uintptr
	hr := r.u.Call(slotResultGetResult, uintptr(unsafe.Pointer(&out)))
	return adoptBlob(hr, out)
}

// ErrorBuffer returns the diagnostics blob.
func (r *OperationResult) ErrorBuffer() (*BlobEncoding, error) {
	var out uintptr
	hr := r.u.Call(slotResultGetErrorBuffer, uintptr(unsafe.Pointer(&out)))
	return adoptEncoding(hr, out)
}

// Release gives back the result's reference.
func (r *OperationResult) Release() {
	if r != nil {
		r.u.Release()
	}
}

// OperationError is returned when an operation ran but its result reports
// failure. Result stays readable for diagnostics and is owned by the
// error; call Release when done with it.
type OperationError struct {
	Status com.HRESULT
	Result *OperationResult
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("operation failed: %v", e.Status)
}

// Unwrap returns the failure status.
func (e *OperationError) Unwrap() error {
	return e.Status
}

// Release releases the result.
func (e *OperationError) Release() {
	e.Result.Release()
}

// newResult adopts a result out-parameter and checks its status. A failed
// status is reported as *OperationError carrying the result.
func newResult(hr com.HRESULT, out uintptr) (*OperationResult, error) {
	u, err := adopt(hr, out)
	if err != nil {
		return nil, err
	}
	r := &OperationResult{u: u}
	status, err := r.Status()
	if err != nil {
		r.Release()
		return nil, err
	}
	if status.Failed() {
		return nil, &OperationError{Status: status, Result: r}
	}
	return r, nil
}
