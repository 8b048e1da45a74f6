// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dxc

import (
	"errors"
	"fmt"

	"github.com/gogpu/dxc/com"
	"github.com/gogpu/dxc/loader"
)

// ErrorKind categorizes errors reported by this package.
type ErrorKind uint8

const (
	// ErrCall indicates a foreign call returned a failure status with no
	// diagnostic text attached.
	ErrCall ErrorKind = iota

	// ErrCompile indicates the compiler rejected the source. Message holds
	// its diagnostics.
	ErrCompile

	// ErrValidation indicates the validator rejected a container. Message
	// holds its diagnostics.
	ErrValidation

	// ErrLoadLibrary indicates a shared library could not be opened.
	ErrLoadLibrary

	// ErrLoadSymbol indicates a shared library lacks a required export.
	ErrLoadSymbol

	// ErrDecode indicates text crossing the boundary was not valid in its
	// declared encoding.
	ErrDecode

	// ErrInvalidProfile indicates a malformed or unsupported target profile.
	ErrInvalidProfile
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrCall:
		return "Call"
	case ErrCompile:
		return "Compile"
	case ErrValidation:
		return "Validation"
	case ErrLoadLibrary:
		return "LoadLibrary"
	case ErrLoadSymbol:
		return "LoadSymbol"
	case ErrDecode:
		return "Decode"
	case ErrInvalidProfile:
		return "InvalidProfile"
	default:
		return "Unknown"
	}
}

// Error is the typed error returned by the orchestration layer and by the
// façade operations that have diagnostic context to attach.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Code is the raw status for ErrCall, ErrCompile and ErrValidation.
	Code com.HRESULT

	// Message carries diagnostic text.
	Message string

	// Library is the path attempted for ErrLoadLibrary and ErrLoadSymbol.
	Library string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case ErrCall:
		if e.Err != nil {
			return fmt.Sprintf("dxc %s: %v", e.Kind, e.Err)
		}
		return fmt.Sprintf("dxc %s: %v", e.Kind, e.Code)
	case ErrLoadLibrary, ErrLoadSymbol:
		return fmt.Sprintf("dxc %s %q: %v", e.Kind, e.Library, e.Err)
	case ErrDecode:
		if e.Message != "" {
			return fmt.Sprintf("dxc %s: %s: %v", e.Kind, e.Message, e.Err)
		}
		return fmt.Sprintf("dxc %s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("dxc %s: %s", e.Kind, e.Message)
	}
}

// Unwrap returns the underlying cause, or the raw status when there is
// none, so errors.Is matches com.HRESULT values.
func (e *Error) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	if e.Code.Failed() {
		return e.Code
	}
	return nil
}

// NewError creates a new error without a status code.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

// IsCallError returns true if the error is ErrCall.
func (e *Error) IsCallError() bool {
	return e.Kind == ErrCall
}

// IsCompileError returns true if the error is ErrCompile.
func (e *Error) IsCompileError() bool {
	return e.Kind == ErrCompile
}

// IsValidationError returns true if the error is ErrValidation.
func (e *Error) IsValidationError() bool {
	return e.Kind == ErrValidation
}

// IsLoadError returns true if the error is ErrLoadLibrary or ErrLoadSymbol.
func (e *Error) IsLoadError() bool {
	return e.Kind == ErrLoadLibrary || e.Kind == ErrLoadSymbol
}

// IsDecodeError returns true if the error is ErrDecode.
func (e *Error) IsDecodeError() bool {
	return e.Kind == ErrDecode
}

// callError translates a raw failure into ErrCall. Typed errors pass
// through unchanged.
func callError(err error) error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return err
	}
	var hr com.HRESULT
	if errors.As(err, &hr) {
		return &Error{Kind: ErrCall, Code: hr}
	}
	return &Error{Kind: ErrCall, Err: err}
}

func decodeError(what string, err error) error {
	return &Error{Kind: ErrDecode, Message: what, Err: err}
}

func loadError(path string, err error) error {
	var se *loader.SymbolError
	if errors.As(err, &se) {
		return &Error{Kind: ErrLoadSymbol, Library: path, Err: err}
	}
	return &Error{Kind: ErrLoadLibrary, Library: path, Err: err}
}

// statusOf extracts a status to hand back to foreign callers.
func statusOf(err error) com.HRESULT {
	var hr com.HRESULT
	if errors.As(err, &hr) && hr.Failed() {
		return hr
	}
	return com.E_FAIL
}
