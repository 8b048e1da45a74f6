// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dxc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf16"
	"unsafe"

	"github.com/gogpu/dxc/com"
	"github.com/gogpu/dxc/wstr"
)

// The objects below emulate the compiler library with host objects, so
// every façade call goes through real vtable dispatch without loading
// the native library.

// live counts fake objects that have not been destroyed.
var live atomic.Int64

type tracked struct{}

func (tracked) Destroy() { live.Add(-1) }

func newFake(vt *com.VTable, impl any) *com.Unknown {
	live.Add(1)
	return com.NewObject(vt, impl)
}

func implOf[T any](ptr uintptr) T {
	var zero T
	o, ok := com.LookupObject(ptr)
	if !ok {
		return zero
	}
	v, _ := o.Impl().(T)
	return v
}

func method(name string, args int, fn func(o *com.Object, args []uintptr) com.HRESULT) com.Method {
	return com.Method{Name: name, Args: args, Fn: func(o *com.Object, a []uintptr) uintptr {
		return uintptr(fn(o, a))
	}}
}

func notImpl(name string, args int) com.Method {
	return method(name, args, func(*com.Object, []uintptr) com.HRESULT { return com.E_NOTIMPL })
}

func readBytes(p, n uintptr) []byte {
	if p == 0 || n == 0 {
		return nil
	}
	return bytes.Clone(unsafe.Slice((*byte)(unsafe.Pointer(p)), n))
}

func readTable(p uintptr, n uintptr) []string {
	if p == 0 {
		return nil
	}
	words := unsafe.Slice((*uintptr)(unsafe.Pointer(p)), n)
	out := make([]string, n)
	for i, w := range words {
		out[i], _ = wstr.Decode(w)
	}
	return out
}

func readDefines(p uintptr, n uintptr) []Define {
	if p == 0 {
		return nil
	}
	words := unsafe.Slice((*uintptr)(unsafe.Pointer(p)), 2*n)
	out := make([]Define, n)
	for i := range out {
		out[i].Name, _ = wstr.Decode(words[2*i])
		out[i].Value, _ = wstr.Decode(words[2*i+1])
	}
	return out
}

// fakeBlob is an IDxcBlobEncoding.
type fakeBlob struct {
	tracked
	data  []byte
	cp    uint32
	known bool
}

var fakeBlobVTable = sync.OnceValue(func() *com.VTable {
	return com.NewVTable([]com.GUID{IID_IDxcBlob, IID_IDxcBlobEncoding},
		com.Method{Name: "GetBufferPointer", Fn: func(o *com.Object, _ []uintptr) uintptr {
			b := o.Impl().(*fakeBlob)
			if len(b.data) == 0 {
				return 0
			}
			o.Pin(&b.data[0])
			return uintptr(unsafe.Pointer(&b.data[0]))
		}},
		com.Method{Name: "GetBufferSize", Fn: func(o *com.Object, _ []uintptr) uintptr {
			return uintptr(len(o.Impl().(*fakeBlob).data))
		}},
		method("GetEncoding", 2, func(o *com.Object, a []uintptr) com.HRESULT {
			b := o.Impl().(*fakeBlob)
			var known uint32
			if b.known {
				known = 1
			}
			if hr := com.WriteUint32(a[0], known); hr.Failed() {
				return hr
			}
			return com.WriteUint32(a[1], b.cp)
		}),
	)
})

func newFakeBlob(data []byte, cp uint32, known bool) *com.Unknown {
	return newFake(fakeBlobVTable(), &fakeBlob{data: bytes.Clone(data), cp: cp, known: known})
}

func fakeBlobOf(ptr uintptr) *fakeBlob {
	return implOf[*fakeBlob](ptr)
}

// fakeLibrary is an IDxcLibrary.
type fakeLibrary struct {
	tracked
	heapCopies atomic.Int32
}

func (l *fakeLibrary) createBlob(a []uintptr, alias bool) com.HRESULT {
	p, n, cp, out := a[0], a[1], uint32(a[2]), a[3]
	data := readBytes(p, n)
	u := newFakeBlob(data, cp, true)
	if alias && n > 0 {
		fakeBlobOf(u.Raw()).data = unsafe.Slice((*byte)(unsafe.Pointer(p)), n)
	}
	return com.WriteUintptr(out, u.Detach())
}

var fakeLibraryVTable = sync.OnceValue(func() *com.VTable {
	return com.NewVTable([]com.GUID{IID_IDxcLibrary},
		notImpl("SetMalloc", 1),
		method("CreateBlobFromBlob", 4, func(_ *com.Object, a []uintptr) com.HRESULT {
			src := fakeBlobOf(a[0])
			off, n := int(a[1]), int(a[2])
			if src == nil || off+n > len(src.data) {
				return com.E_INVALIDARG
			}
			return com.WriteUintptr(a[3], newFakeBlob(src.data[off:off+n], src.cp, src.known).Detach())
		}),
		notImpl("CreateBlobFromFile", 3),
		method("CreateBlobWithEncodingFromPinned", 4, func(o *com.Object, a []uintptr) com.HRESULT {
			return o.Impl().(*fakeLibrary).createBlob(a, true)
		}),
		method("CreateBlobWithEncodingOnHeapCopy", 4, func(o *com.Object, a []uintptr) com.HRESULT {
			l := o.Impl().(*fakeLibrary)
			l.heapCopies.Add(1)
			return l.createBlob(a, false)
		}),
		notImpl("CreateBlobWithEncodingOnMalloc", 5),
		notImpl("CreateIncludeHandler", 1),
		notImpl("CreateStreamFromBlobReadOnly", 2),
		method("GetBlobAsUtf8", 2, func(_ *com.Object, a []uintptr) com.HRESULT {
			src := fakeBlobOf(a[0])
			if src == nil {
				return com.E_INVALIDARG
			}
			data := src.data
			if src.cp == CP_UTF16 {
				units := make([]uint16, len(data)/2)
				for i := range units {
					units[i] = binary.LittleEndian.Uint16(data[2*i:])
				}
				data = []byte(string(utf16.Decode(units)))
			}
			return com.WriteUintptr(a[1], newFakeBlob(data, CP_UTF8, true).Detach())
		}),
		method("GetBlobAsUtf16", 2, func(_ *com.Object, a []uintptr) com.HRESULT {
			src := fakeBlobOf(a[0])
			if src == nil {
				return com.E_INVALIDARG
			}
			units := utf16.Encode([]rune(string(src.data)))
			data := make([]byte, 2*len(units))
			for i, u := range units {
				binary.LittleEndian.PutUint16(data[2*i:], u)
			}
			return com.WriteUintptr(a[1], newFakeBlob(data, CP_UTF16, true).Detach())
		}),
	)
})

// fakeResult is an IDxcOperationResult.
type fakeResult struct {
	tracked
	status com.HRESULT
	result []byte
	errors string
}

var fakeResultVTable = sync.OnceValue(func() *com.VTable {
	return com.NewVTable([]com.GUID{IID_IDxcOperationResult},
		method("GetStatus", 1, func(o *com.Object, a []uintptr) com.HRESULT {
			return com.WriteUint32(a[0], uint32(o.Impl().(*fakeResult).status))
		}),
		method("GetResult", 1, func(o *com.Object, a []uintptr) com.HRESULT {
			r := o.Impl().(*fakeResult)
			if r.result == nil {
				return com.WriteUintptr(a[0], 0)
			}
			return com.WriteUintptr(a[0], newFakeBlob(r.result, CP_ACP, false).Detach())
		}),
		method("GetErrorBuffer", 1, func(o *com.Object, a []uintptr) com.HRESULT {
			r := o.Impl().(*fakeResult)
			return com.WriteUintptr(a[0], newFakeBlob([]byte(r.errors), CP_UTF8, true).Detach())
		}),
	)
})

func writeResult(out uintptr, r *fakeResult) com.HRESULT {
	return com.WriteUintptr(out, newFake(fakeResultVTable(), r).Detach())
}

// fakeCompiler is an IDxcCompiler2. Sources may contain #include "name"
// lines, resolved through the include handler, and fail to compile when
// they contain the word "error".
type fakeCompiler struct {
	tracked
	name, entry, profile string
	args                 []string
	defines              []Define
	includes             []string
}

func (c *fakeCompiler) expand(handler uintptr, text string, depth int, diags *[]string) string {
	var out strings.Builder
	for _, line := range strings.Split(text, "\n") {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), "#include")
		if !ok {
			out.WriteString(line)
			out.WriteByte('\n')
			continue
		}
		name := strings.Trim(strings.TrimSpace(rest), `"<>`)
		c.includes = append(c.includes, name)
		src, hr := callInclude(handler, name)
		if hr.Failed() {
			*diags = append(*diags, fmt.Sprintf("fatal error: '%s' file not found", name))
			continue
		}
		if depth < 8 {
			src = c.expand(handler, src, depth+1, diags)
		}
		out.WriteString(src)
	}
	return out.String()
}

func callInclude(handler uintptr, name string) (string, com.HRESULT) {
	if handler == 0 {
		return "", com.E_FAIL
	}
	h := com.FromRaw(handler)
	defer h.Detach()
	buf, err := wstr.Encode(name)
	if err != nil {
		return "", com.E_INVALIDARG
	}
	var blob uintptr
	hr := h.Call(slotIncludeHandlerLoadSource, uintptr(unsafe.Pointer(&buf[0])), uintptr(unsafe.Pointer(&blob)))
	if hr.Failed() {
		return "", hr
	}
	b := fakeBlobOf(blob)
	text := string(b.data)
	com.ReleaseRaw(blob)
	return text, com.S_OK
}

func (c *fakeCompiler) compile(a []uintptr, out uintptr) com.HRESULT {
	src := fakeBlobOf(a[0])
	if src == nil {
		return com.E_INVALIDARG
	}
	c.name, _ = wstr.Decode(a[1])
	c.entry, _ = wstr.Decode(a[2])
	c.profile, _ = wstr.Decode(a[3])
	c.args = readTable(a[4], a[5])
	c.defines = readDefines(a[6], a[7])

	var diags []string
	text := c.expand(a[8], string(src.data), 0, &diags)
	if strings.Contains(text, "error") {
		diags = append(diags, c.name+":1:1: error: unexpected token")
	}
	if len(diags) > 0 {
		return writeResult(out, &fakeResult{status: com.E_FAIL, errors: strings.Join(diags, "\n")})
	}
	return writeResult(out, &fakeResult{result: []byte("DXIL|" + c.entry + "|" + c.profile)})
}

var fakeCompilerVTable = sync.OnceValue(func() *com.VTable {
	return com.NewVTable([]com.GUID{IID_IDxcCompiler, IID_IDxcCompiler2},
		method("Compile", 10, func(o *com.Object, a []uintptr) com.HRESULT {
			return o.Impl().(*fakeCompiler).compile(a, a[9])
		}),
		method("Preprocess", 8, func(o *com.Object, a []uintptr) com.HRESULT {
			c := o.Impl().(*fakeCompiler)
			src := fakeBlobOf(a[0])
			if src == nil {
				return com.E_INVALIDARG
			}
			c.name, _ = wstr.Decode(a[1])
			c.args = readTable(a[2], a[3])
			c.defines = readDefines(a[4], a[5])
			var diags []string
			text := c.expand(a[6], string(src.data), 0, &diags)
			if len(diags) > 0 {
				return writeResult(a[7], &fakeResult{status: com.E_FAIL, errors: strings.Join(diags, "\n")})
			}
			return writeResult(a[7], &fakeResult{result: []byte(text)})
		}),
		method("Disassemble", 2, func(_ *com.Object, a []uintptr) com.HRESULT {
			src := fakeBlobOf(a[0])
			if src == nil {
				return com.E_INVALIDARG
			}
			text := fmt.Sprintf("; disassembly of %d bytes", len(src.data))
			return com.WriteUintptr(a[1], newFakeBlob([]byte(text), CP_UTF8, true).Detach())
		}),
		method("CompileWithDebug", 12, func(o *com.Object, a []uintptr) com.HRESULT {
			c := o.Impl().(*fakeCompiler)
			if hr := c.compile(a, a[9]); hr.Failed() {
				return hr
			}
			name, err := wstr.TaskString(c.name + ".pdb")
			if err != nil {
				return com.E_OUTOFMEMORY
			}
			com.WriteUintptr(a[10], name)
			return com.WriteUintptr(a[11], newFakeBlob([]byte("PDB"), CP_ACP, false).Detach())
		}),
	)
})

// fakeValidator is an IDxcValidator. Containers starting with "BAD" are
// rejected; in-place edits stamp "SIGN" over bytes 4 to 8.
type fakeValidator struct {
	tracked
	flags []ValidatorFlags
}

var fakeValidatorVTable = sync.OnceValue(func() *com.VTable {
	return com.NewVTable([]com.GUID{IID_IDxcValidator},
		method("Validate", 3, func(o *com.Object, a []uintptr) com.HRESULT {
			v := o.Impl().(*fakeValidator)
			flags := ValidatorFlags(a[1])
			v.flags = append(v.flags, flags)
			b := fakeBlobOf(a[0])
			if b == nil {
				return com.E_INVALIDARG
			}
			if bytes.HasPrefix(b.data, []byte("BAD")) {
				return writeResult(a[2], &fakeResult{status: 0x80AA0009, errors: "error: Container part 'DXIL' is malformed."})
			}
			if flags&ValidatorFlagsInPlaceEdit != 0 && len(b.data) >= 8 {
				copy(b.data[4:8], "SIGN")
			}
			return writeResult(a[2], &fakeResult{})
		}),
	)
})

// fakeLinker is an IDxcLinker concatenating registered libraries.
type fakeLinker struct {
	tracked
	libs map[string][]byte
	args []string
}

var fakeLinkerVTable = sync.OnceValue(func() *com.VTable {
	return com.NewVTable([]com.GUID{IID_IDxcLinker},
		method("RegisterLibrary", 2, func(o *com.Object, a []uintptr) com.HRESULT {
			l := o.Impl().(*fakeLinker)
			name, err := wstr.Decode(a[0])
			b := fakeBlobOf(a[1])
			if err != nil || b == nil {
				return com.E_INVALIDARG
			}
			l.libs[name] = bytes.Clone(b.data)
			return com.S_OK
		}),
		method("Link", 7, func(o *com.Object, a []uintptr) com.HRESULT {
			l := o.Impl().(*fakeLinker)
			entry, _ := wstr.Decode(a[0])
			profile, _ := wstr.Decode(a[1])
			l.args = readTable(a[4], a[5])
			var out []byte
			for _, name := range readTable(a[2], a[3]) {
				lib, ok := l.libs[name]
				if !ok {
					return writeResult(a[6], &fakeResult{status: com.E_FAIL, errors: "error: undefined library " + name})
				}
				out = append(out, lib...)
			}
			out = append(out, "|"+entry+"|"+profile...)
			return writeResult(a[6], &fakeResult{result: out})
		}),
	)
})

var fakeAssemblerVTable = sync.OnceValue(func() *com.VTable {
	return com.NewVTable([]com.GUID{IID_IDxcAssembler},
		method("AssembleToContainer", 2, func(_ *com.Object, a []uintptr) com.HRESULT {
			b := fakeBlobOf(a[0])
			if b == nil {
				return com.E_INVALIDARG
			}
			return writeResult(a[1], &fakeResult{result: append([]byte("DXBC"), b.data...)})
		}),
	)
})

// fakeParts is the container format shared by the fake builder and
// reflection: repeated {fourcc uint32, size uint32, data}.
type fakePart struct {
	kind FourCC
	data []byte
}

func serializeParts(parts []fakePart) []byte {
	var buf []byte
	for _, p := range parts {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(p.kind))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(p.data)))
		buf = append(buf, p.data...)
	}
	return buf
}

func parseParts(data []byte) ([]fakePart, bool) {
	var parts []fakePart
	for len(data) > 0 {
		if len(data) < 8 {
			return nil, false
		}
		kind := FourCC(binary.LittleEndian.Uint32(data))
		n := int(binary.LittleEndian.Uint32(data[4:]))
		if len(data) < 8+n {
			return nil, false
		}
		parts = append(parts, fakePart{kind: kind, data: bytes.Clone(data[8 : 8+n])})
		data = data[8+n:]
	}
	return parts, true
}

type fakeContainer struct {
	tracked
	parts []fakePart
}

func (c *fakeContainer) load(ptr uintptr) com.HRESULT {
	b := fakeBlobOf(ptr)
	if b == nil {
		return com.E_INVALIDARG
	}
	parts, ok := parseParts(b.data)
	if !ok {
		return com.E_INVALIDARG
	}
	c.parts = parts
	return com.S_OK
}

var fakeBuilderVTable = sync.OnceValue(func() *com.VTable {
	return com.NewVTable([]com.GUID{IID_IDxcContainerBuilder},
		method("Load", 1, func(o *com.Object, a []uintptr) com.HRESULT {
			return o.Impl().(*fakeContainer).load(a[0])
		}),
		method("AddPart", 2, func(o *com.Object, a []uintptr) com.HRESULT {
			c := o.Impl().(*fakeContainer)
			b := fakeBlobOf(a[1])
			if b == nil {
				return com.E_INVALIDARG
			}
			c.parts = append(c.parts, fakePart{kind: FourCC(a[0]), data: bytes.Clone(b.data)})
			return com.S_OK
		}),
		method("RemovePart", 1, func(o *com.Object, a []uintptr) com.HRESULT {
			c := o.Impl().(*fakeContainer)
			for i, p := range c.parts {
				if p.kind == FourCC(a[0]) {
					c.parts = append(c.parts[:i], c.parts[i+1:]...)
					return com.S_OK
				}
			}
			return com.E_INVALIDARG
		}),
		method("SerializeContainer", 1, func(o *com.Object, a []uintptr) com.HRESULT {
			c := o.Impl().(*fakeContainer)
			return writeResult(a[0], &fakeResult{result: serializeParts(c.parts)})
		}),
	)
})

var fakeReflectionVTable = sync.OnceValue(func() *com.VTable {
	return com.NewVTable([]com.GUID{IID_IDxcContainerReflection},
		method("Load", 1, func(o *com.Object, a []uintptr) com.HRESULT {
			return o.Impl().(*fakeContainer).load(a[0])
		}),
		method("GetPartCount", 1, func(o *com.Object, a []uintptr) com.HRESULT {
			return com.WriteUint32(a[0], uint32(len(o.Impl().(*fakeContainer).parts)))
		}),
		method("GetPartKind", 2, func(o *com.Object, a []uintptr) com.HRESULT {
			c := o.Impl().(*fakeContainer)
			if int(a[0]) >= len(c.parts) {
				return com.E_INVALIDARG
			}
			return com.WriteUint32(a[1], uint32(c.parts[a[0]].kind))
		}),
		method("GetPartContent", 2, func(o *com.Object, a []uintptr) com.HRESULT {
			c := o.Impl().(*fakeContainer)
			if int(a[0]) >= len(c.parts) {
				return com.E_INVALIDARG
			}
			return com.WriteUintptr(a[1], newFakeBlob(c.parts[a[0]].data, CP_ACP, false).Detach())
		}),
		method("FindFirstPartKind", 2, func(o *com.Object, a []uintptr) com.HRESULT {
			for i, p := range o.Impl().(*fakeContainer).parts {
				if p.kind == FourCC(a[0]) {
					return com.WriteUint32(a[1], uint32(i))
				}
			}
			return 0x80070490 // HRESULT_FROM_WIN32(ERROR_NOT_FOUND)
		}),
		notImpl("GetPartReflection", 3),
	)
})

// fakePass is an IDxcOptimizerPass.
type fakePass struct {
	tracked
	name, desc string
	args       []PassArg
}

func taskString(out uintptr, s string) com.HRESULT {
	p, err := wstr.TaskString(s)
	if err != nil {
		return com.E_OUTOFMEMORY
	}
	return com.WriteUintptr(out, p)
}

var fakePassVTable = sync.OnceValue(func() *com.VTable {
	return com.NewVTable([]com.GUID{IID_IDxcOptimizerPass},
		method("GetOptionName", 1, func(o *com.Object, a []uintptr) com.HRESULT {
			return taskString(a[0], o.Impl().(*fakePass).name)
		}),
		method("GetDescription", 1, func(o *com.Object, a []uintptr) com.HRESULT {
			return taskString(a[0], o.Impl().(*fakePass).desc)
		}),
		method("GetOptionArgCount", 1, func(o *com.Object, a []uintptr) com.HRESULT {
			return com.WriteUint32(a[0], uint32(len(o.Impl().(*fakePass).args)))
		}),
		method("GetOptionArgName", 2, func(o *com.Object, a []uintptr) com.HRESULT {
			p := o.Impl().(*fakePass)
			if int(a[0]) >= len(p.args) {
				return com.E_INVALIDARG
			}
			return taskString(a[1], p.args[a[0]].Name)
		}),
		method("GetOptionArgDescription", 2, func(o *com.Object, a []uintptr) com.HRESULT {
			p := o.Impl().(*fakePass)
			if int(a[0]) >= len(p.args) {
				return com.E_INVALIDARG
			}
			return taskString(a[1], p.args[a[0]].Description)
		}),
	)
})

// fakeOptimizer is an IDxcOptimizer whose passes upper-case the module.
type fakeOptimizer struct {
	tracked
	passes  []fakePass
	options []string
}

var fakeOptimizerVTable = sync.OnceValue(func() *com.VTable {
	return com.NewVTable([]com.GUID{IID_IDxcOptimizer},
		method("GetAvailablePassCount", 1, func(o *com.Object, a []uintptr) com.HRESULT {
			return com.WriteUint32(a[0], uint32(len(o.Impl().(*fakeOptimizer).passes)))
		}),
		method("GetAvailablePass", 2, func(o *com.Object, a []uintptr) com.HRESULT {
			opt := o.Impl().(*fakeOptimizer)
			if int(a[0]) >= len(opt.passes) {
				return com.E_INVALIDARG
			}
			p := opt.passes[a[0]]
			return com.WriteUintptr(a[1], newFake(fakePassVTable(), &fakePass{name: p.name, desc: p.desc, args: p.args}).Detach())
		}),
		method("RunOptimizer", 5, func(o *com.Object, a []uintptr) com.HRESULT {
			opt := o.Impl().(*fakeOptimizer)
			b := fakeBlobOf(a[0])
			if b == nil {
				return com.E_INVALIDARG
			}
			opt.options = readTable(a[1], a[2])
			com.WriteUintptr(a[3], newFakeBlob(bytes.ToUpper(b.data), CP_ACP, false).Detach())
			if a[4] != 0 {
				com.WriteUintptr(a[4], newFakeBlob([]byte(strings.Join(opt.options, " ")), CP_UTF8, true).Detach())
			}
			return com.S_OK
		}),
	)
})

// fakeVersion is an IDxcVersionInfo2.
type fakeVersion struct {
	tracked
}

var fakeVersionVTable = sync.OnceValue(func() *com.VTable {
	return com.NewVTable([]com.GUID{IID_IDxcVersionInfo, IID_IDxcVersionInfo2},
		method("GetVersion", 2, func(_ *com.Object, a []uintptr) com.HRESULT {
			com.WriteUint32(a[0], 1)
			return com.WriteUint32(a[1], 8)
		}),
		method("GetFlags", 1, func(_ *com.Object, a []uintptr) com.HRESULT {
			return com.WriteUint32(a[0], uint32(VersionFlagsDebug))
		}),
		method("GetCommitInfo", 2, func(_ *com.Object, a []uintptr) com.HRESULT {
			hash, err := wstr.TaskNarrow("8a4b2f1c")
			if err != nil {
				return com.E_OUTOFMEMORY
			}
			com.WriteUint32(a[0], 4242)
			return com.WriteUintptr(a[1], hash)
		}),
	)
})

// fakeInstantiator hands out fake objects by class identifier and keeps
// the last object of each kind for inspection.
type fakeInstantiator struct {
	compiler  *fakeCompiler
	library   *fakeLibrary
	validator *fakeValidator
	linker    *fakeLinker
	optimizer *fakeOptimizer
	created   map[com.GUID]int
}

func newFakeInstantiator() *fakeInstantiator {
	return &fakeInstantiator{created: make(map[com.GUID]int)}
}

func (f *fakeInstantiator) CreateInstance(clsid, iid com.GUID) (*com.Unknown, error) {
	var obj *com.Unknown
	switch clsid {
	case CLSID_DxcCompiler:
		f.compiler = &fakeCompiler{}
		obj = newFake(fakeCompilerVTable(), f.compiler)
	case CLSID_DxcLibrary:
		f.library = &fakeLibrary{}
		obj = newFake(fakeLibraryVTable(), f.library)
	case CLSID_DxcValidator:
		f.validator = &fakeValidator{}
		obj = newFake(fakeValidatorVTable(), f.validator)
	case CLSID_DxcLinker:
		f.linker = &fakeLinker{libs: make(map[string][]byte)}
		obj = newFake(fakeLinkerVTable(), f.linker)
	case CLSID_DxcAssembler:
		obj = newFake(fakeAssemblerVTable(), &fakeContainer{})
	case CLSID_DxcContainerBuilder:
		obj = newFake(fakeBuilderVTable(), &fakeContainer{})
	case CLSID_DxcContainerReflection:
		obj = newFake(fakeReflectionVTable(), &fakeContainer{})
	case CLSID_DxcOptimizer:
		f.optimizer = &fakeOptimizer{passes: []fakePass{
			{name: "mem2reg", desc: "Promote memory to registers"},
			{name: "inline", desc: "Inline functions", args: []PassArg{{Name: "threshold", Description: "Inlining cost threshold"}}},
		}}
		obj = newFake(fakeOptimizerVTable(), f.optimizer)
	default:
		return nil, com.HRESULT(0x80040154) // REGDB_E_CLASSNOTREG
	}
	f.created[clsid]++

	defer obj.Release()
	return obj.QueryInterface(iid)
}
