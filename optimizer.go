// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dxc

import (
	"unsafe"

	"github.com/gogpu/dxc/com"
	"github.com/gogpu/dxc/wstr"
)

const (
	slotPassGetOptionName = com.FirstMethodSlot + iota
	slotPassGetDescription
	slotPassGetOptionArgCount
	slotPassGetOptionArgName
	slotPassGetOptionArgDescription
)

// OptimizerPass is an IDxcOptimizerPass describing one available pass.
type OptimizerPass struct {
	u *com.Unknown
}

// Unknown returns the underlying handle.
func (p *OptimizerPass) Unknown() *com.Unknown {
	return p.u
}

// OptionName returns the pass's command-line name.
func (p *OptimizerPass) OptionName() (string, error) {
	return p.text(slotPassGetOptionName, -1)
}

// Description returns the pass's description.
func (p *OptimizerPass) Description() (string, error) {
	return p.text(slotPassGetDescription, -1)
}

// OptionArgCount returns the number of arguments the pass accepts.
func (p *OptimizerPass) OptionArgCount() (uint32, error) {
	var n uint32
	hr := p.u.Call(slotPassGetOptionArgCount, uintptr(unsafe.Pointer(&n)))
	return n, hr.Err()
}

// OptionArgName returns the name of argument idx.
func (p *OptimizerPass) OptionArgName(idx uint32) (string, error) {
	return p.text(slotPassGetOptionArgName, int64(idx))
}

// OptionArgDescription returns the description of argument idx.
func (p *OptimizerPass) OptionArgDescription(idx uint32) (string, error) {
	return p.text(slotPassGetOptionArgDescription, int64(idx))
}

// text calls a method returning an LPWSTR allocated with CoTaskMemAlloc.
// A negative idx calls the argument-less form.
func (p *OptimizerPass) text(slot int, idx int64) (string, error) {
	var s uintptr
	var hr com.HRESULT
	if idx < 0 {
		hr = p.u.Call(slot, uintptr(unsafe.Pointer(&s)))
	} else {
		hr = p.u.Call(slot, uintptr(idx), uintptr(unsafe.Pointer(&s)))
	}
	if hr.Failed() {
		return "", hr
	}
	defer wstr.FreeTask(s)
	out, err := wstr.Decode(s)
	if err != nil {
		return "", decodeError("optimizer pass text", err)
	}
	return out, nil
}

// Release gives back the pass's reference.
func (p *OptimizerPass) Release() {
	if p != nil {
		p.u.Release()
	}
}

const (
	slotOptimizerGetAvailablePassCount = com.FirstMethodSlot + iota
	slotOptimizerGetAvailablePass
	slotOptimizerRunOptimizer
)

// Optimizer is an IDxcOptimizer.
type Optimizer struct {
	u *com.Unknown
}

// NewOptimizer adopts u, which must be an IDxcOptimizer reference.
func NewOptimizer(u *com.Unknown) *Optimizer {
	return &Optimizer{u: u}
}

// Unknown returns the underlying handle.
func (o *Optimizer) Unknown() *com.Unknown {
	return o.u
}

// AvailablePassCount returns the number of passes.
func (o *Optimizer) AvailablePassCount() (uint32, error) {
	var n uint32
	hr := o.u.Call(slotOptimizerGetAvailablePassCount, uintptr(unsafe.Pointer(&n)))
	return n, hr.Err()
}

// AvailablePass returns pass idx.
func (o *Optimizer) AvailablePass(idx uint32) (*OptimizerPass, error) {
	var out uintptr
	hr := o.u.Call(slotOptimizerGetAvailablePass, uintptr(idx), uintptr(unsafe.Pointer(&out)))
	u, err := adopt(hr, out)
	if err != nil {
		return nil, err
	}
	return &OptimizerPass{u: u}, nil
}

// PassInfo describes a pass in plain values.
type PassInfo struct {
	Name        string
	Description string
	Args        []PassArg
}

// PassArg describes one pass argument.
type PassArg struct {
	Name        string
	Description string
}

// AvailablePasses collects the description of every pass.
func (o *Optimizer) AvailablePasses() ([]PassInfo, error) {
	n, err := o.AvailablePassCount()
	if err != nil {
		return nil, err
	}
	passes := make([]PassInfo, 0, n)
	for i := range n {
		info, err := o.passInfo(i)
		if err != nil {
			return nil, err
		}
		passes = append(passes, info)
	}
	return passes, nil
}

func (o *Optimizer) passInfo(idx uint32) (PassInfo, error) {
	p, err := o.AvailablePass(idx)
	if err != nil {
		return PassInfo{}, err
	}
	defer p.Release()

	var info PassInfo
	if info.Name, err = p.OptionName(); err != nil {
		return PassInfo{}, err
	}
	if info.Description, err = p.Description(); err != nil {
		return PassInfo{}, err
	}
	argc, err := p.OptionArgCount()
	if err != nil {
		return PassInfo{}, err
	}
	for j := range argc {
		var arg PassArg
		if arg.Name, err = p.OptionArgName(j); err != nil {
			return PassInfo{}, err
		}
		if arg.Description, err = p.OptionArgDescription(j); err != nil {
			return PassInfo{}, err
		}
		info.Args = append(info.Args, arg)
	}
	return info, nil
}

// RunOptimizer runs the passes named by options over blob and returns the
// optimized module and, when requested by the options, a textual dump.
// text is nil when no dump was produced.
func (o *Optimizer) RunOptimizer(blob BlobRef, options []string) (module *Blob, text *BlobEncoding, err error) {
	var b wstr.Builder
	defer b.Unpin()
	optv, optc := b.Strings(options)
	if err := b.Err(); err != nil {
		return nil, nil, decodeError("optimizer options", err)
	}

	var outModule, outText uintptr
	hr := o.u.Call(slotOptimizerRunOptimizer, blob.Unknown().Raw(), optv, uintptr(optc),
		uintptr(unsafe.Pointer(&outModule)), uintptr(unsafe.Pointer(&outText)))
	if hr.Failed() {
		com.ReleaseRaw(outModule)
		com.ReleaseRaw(outText)
		return nil, nil, hr
	}
	if outModule == 0 {
		com.ReleaseRaw(outText)
		return nil, nil, com.E_POINTER
	}
	module = &Blob{u: com.FromRaw(outModule)}
	if outText != 0 {
		text = &BlobEncoding{u: com.FromRaw(outText)}
	}
	return module, text, nil
}

// Release gives back the optimizer's reference.
func (o *Optimizer) Release() {
	if o != nil {
		o.u.Release()
	}
}
