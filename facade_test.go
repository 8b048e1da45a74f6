// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dxc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/dxc/com"
)

func newTestLibrary(t *testing.T) (*Dxc, *Library) {
	t.Helper()
	d, _ := newTestDxc(t)
	lib, err := d.CreateLibrary()
	require.NoError(t, err)
	t.Cleanup(lib.Release)
	return d, lib
}

func blobOf(t *testing.T, lib *Library, data []byte) *BlobEncoding {
	t.Helper()
	b, err := lib.CreateBlobWithEncodingOnHeapCopy(data, CP_ACP)
	require.NoError(t, err)
	t.Cleanup(b.Release)
	return b
}

func TestBlobBytes(t *testing.T) {
	_, lib := newTestLibrary(t)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"text", []byte("float4 main() : SV_Target { return 0; }")},
		{"interior zeros", []byte{0x00, 0x01, 0x00, 0xff, 0x00}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := blobOf(t, lib, tt.data)
			assert.Equal(t, len(tt.data), b.Size())
			assert.Equal(t, tt.data, b.Bytes())
		})
	}
}

func TestBlobEncodingText(t *testing.T) {
	_, lib := newTestLibrary(t)

	tests := []struct {
		name    string
		data    []byte
		cp      uint32
		want    string
		wantErr bool
	}{
		{"utf8", []byte("grüße\x00"), CP_UTF8, "grüße", false},
		{"acp", []byte("plain"), CP_ACP, "plain", false},
		{"utf16", []byte{'h', 0, 0xe9, 0, 'j', 0, 0, 0}, CP_UTF16, "héj", false},
		{"utf32", []byte{'o', 0, 0, 0, 'k', 0, 0, 0}, cpUTF32LE, "ok", false},
		{"invalid utf8", []byte{0xff, 0xfe, 'x'}, CP_UTF8, "", true},
		{"shift-jis", []byte("abc"), 932, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := lib.CreateBlobWithEncodingOnHeapCopy(tt.data, tt.cp)
			require.NoError(t, err)
			defer b.Release()

			known, cp, err := b.Encoding()
			require.NoError(t, err)
			assert.True(t, known)
			assert.Equal(t, tt.cp, cp)

			got, err := b.Text()
			if tt.wantErr {
				var e *Error
				require.ErrorAs(t, err, &e)
				assert.True(t, e.IsDecodeError())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateBlobWithEncodingFromPinned(t *testing.T) {
	_, lib := newTestLibrary(t)

	data := []byte("pinned")
	b, err := lib.CreateBlobWithEncodingFromPinned(data, CP_UTF8)
	require.NoError(t, err)
	defer b.Release()

	data[0] = 'P'
	assert.Equal(t, []byte("Pinned"), b.Bytes(), "pinned blobs borrow the caller's memory")
}

func TestCreateBlobFromBlob(t *testing.T) {
	_, lib := newTestLibrary(t)
	src := blobOf(t, lib, []byte("0123456789"))

	sub, err := lib.CreateBlobFromBlob(src, 2, 5)
	require.NoError(t, err)
	defer sub.Release()
	assert.Equal(t, []byte("23456"), sub.Bytes())

	enc, err := sub.Encoding()
	require.NoError(t, err)
	defer enc.Release()
	assert.Equal(t, sub.Size(), enc.Size())

	_, err = lib.CreateBlobFromBlob(src, 8, 5)
	assert.ErrorIs(t, err, com.E_INVALIDARG)
}

func TestGetBlobAsString(t *testing.T) {
	_, lib := newTestLibrary(t)
	src := blobOf(t, lib, []byte("Ωmega"))

	u16, err := lib.GetBlobAsUTF16(src)
	require.NoError(t, err)
	defer u16.Release()
	assert.Equal(t, 10, u16.Size())

	text, err := u16.Text()
	require.NoError(t, err)
	assert.Equal(t, "Ωmega", text)

	s, err := lib.GetBlobAsString(u16)
	require.NoError(t, err)
	assert.Equal(t, "Ωmega", s)
}

func TestLibraryNotImplemented(t *testing.T) {
	_, lib := newTestLibrary(t)

	_, err := lib.CreateIncludeHandler()
	assert.ErrorIs(t, err, com.E_NOTIMPL)
	_, err = lib.CreateBlobFromFile("shader.hlsl", nil)
	assert.ErrorIs(t, err, com.E_NOTIMPL)
}

func TestCompilerFacade(t *testing.T) {
	d, inst := newTestDxc(t)
	c, err := d.CreateCompiler()
	require.NoError(t, err)
	defer c.Release()

	src, err := c.Library().CreateBlobWithEncodingFromString("void main() {}")
	require.NoError(t, err)
	defer src.Release()

	t.Run("Compile", func(t *testing.T) {
		r, err := c.Compile(src, "a.hlsl", "main", "cs_6_0", []string{"-Od"}, nil, nil)
		require.NoError(t, err)
		defer r.Release()

		status, err := r.Status()
		require.NoError(t, err)
		assert.Equal(t, com.S_OK, status)

		out, err := r.Result()
		require.NoError(t, err)
		defer out.Release()
		assert.Equal(t, "DXIL|main|cs_6_0", string(out.Bytes()))
		assert.Equal(t, []string{"-Od"}, inst.compiler.args)
	})

	t.Run("OperationError", func(t *testing.T) {
		bad, err := c.Library().CreateBlobWithEncodingFromString("error")
		require.NoError(t, err)
		defer bad.Release()

		_, err = c.Compile(bad, "bad.hlsl", "main", "cs_6_0", nil, nil, nil)
		var opErr *OperationError
		require.ErrorAs(t, err, &opErr)
		defer opErr.Release()
		assert.Equal(t, com.E_FAIL, opErr.Status)
		assert.ErrorIs(t, err, com.E_FAIL)

		eb, err := opErr.Result.ErrorBuffer()
		require.NoError(t, err)
		defer eb.Release()
		text, err := eb.Text()
		require.NoError(t, err)
		assert.Equal(t, "bad.hlsl:1:1: error: unexpected token", text)
	})

	t.Run("Preprocess", func(t *testing.T) {
		text, err := c.Library().CreateBlobWithEncodingFromString("#include \"x.hlsli\"\nvoid main() {}")
		require.NoError(t, err)
		defer text.Release()

		include := IncludeFunc(func(name string) (string, bool) { return "// " + name, name == "x.hlsli" })
		r, err := c.Preprocess(text, "p.hlsl", nil, include, []Define{{Name: "A", Value: "1"}})
		require.NoError(t, err)
		defer r.Release()

		out, err := r.Result()
		require.NoError(t, err)
		defer out.Release()
		assert.Equal(t, "// x.hlsli\nvoid main() {}\n", string(out.Bytes()))
		assert.Equal(t, []Define{{Name: "A", Value: "1"}}, inst.compiler.defines)
	})

	t.Run("Disassemble", func(t *testing.T) {
		text, err := c.Disassemble(src)
		require.NoError(t, err)
		defer text.Release()
		s, err := text.Text()
		require.NoError(t, err)
		assert.Equal(t, "; disassembly of 14 bytes", s)
	})

	t.Run("CompileWithDebug", func(t *testing.T) {
		r, debug, err := c.CompileWithDebug(src, "x", "main", "ps_6_0", []string{"-Zi"}, nil, nil)
		require.NoError(t, err)
		defer r.Release()
		defer debug.Release()

		require.NotNil(t, debug)
		assert.Equal(t, "x.pdb", debug.Name)
		assert.Equal(t, []byte("PDB"), debug.Blob.Bytes())
	})

	t.Run("VersionInfo", func(t *testing.T) {
		_, err := c.VersionInfo()
		assert.ErrorIs(t, err, com.E_NOINTERFACE)
	})

	t.Run("ArgumentWithNUL", func(t *testing.T) {
		_, err := c.Compile(src, "a.hlsl", "ma\x00in", "cs_6_0", nil, nil, nil)
		var e *Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, ErrDecode, e.Kind)
	})
}

func TestValidatorFacade(t *testing.T) {
	d, inst := newTestDxc(t)
	lib, err := d.CreateLibrary()
	require.NoError(t, err)
	defer lib.Release()
	v, err := d.CreateValidator()
	require.NoError(t, err)
	defer v.Release()

	blob := blobOf(t, lib, []byte("DXBC0000"))

	_, err = v.Validate(blob, ValidatorFlags(8))
	assert.ErrorIs(t, err, com.E_INVALIDARG)
	assert.Empty(t, inst.validator.flags, "invalid flags never reach the validator")

	r, err := v.Validate(blob, ValidatorFlagsDefault)
	require.NoError(t, err)
	r.Release()
	assert.Equal(t, []byte("DXBC0000"), blob.Bytes())
}

func TestValidatorFlagsValid(t *testing.T) {
	assert.True(t, ValidatorFlagsDefault.Valid())
	assert.True(t, (ValidatorFlagsInPlaceEdit | ValidatorFlagsModuleOnly).Valid())
	assert.True(t, ValidatorFlagsValidMask.Valid())
	assert.False(t, ValidatorFlags(8).Valid())
	assert.False(t, ValidatorFlags(0x80000001).Valid())
}

func TestLinker(t *testing.T) {
	d, inst := newTestDxc(t)
	lib, err := d.CreateLibrary()
	require.NoError(t, err)
	defer lib.Release()
	l, err := d.CreateLinker()
	require.NoError(t, err)
	defer l.Release()

	require.NoError(t, l.RegisterLibrary("lighting", blobOf(t, lib, []byte("L"))))
	require.NoError(t, l.RegisterLibrary("shadows", blobOf(t, lib, []byte("S"))))

	r, err := l.Link("main", "ps_6_3", []string{"shadows", "lighting"}, []string{"-Zi"})
	require.NoError(t, err)
	defer r.Release()
	out, err := r.Result()
	require.NoError(t, err)
	defer out.Release()
	assert.Equal(t, "SL|main|ps_6_3", string(out.Bytes()))
	assert.Equal(t, []string{"-Zi"}, inst.linker.args)

	_, err = l.Link("main", "ps_6_3", []string{"missing"}, nil)
	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	opErr.Release()
}

func TestAssembler(t *testing.T) {
	d, _ := newTestDxc(t)
	lib, err := d.CreateLibrary()
	require.NoError(t, err)
	defer lib.Release()
	a, err := d.CreateAssembler()
	require.NoError(t, err)
	defer a.Release()

	r, err := a.AssembleToContainer(blobOf(t, lib, []byte("IR")))
	require.NoError(t, err)
	defer r.Release()
	out, err := r.Result()
	require.NoError(t, err)
	defer out.Release()
	assert.Equal(t, []byte("DXBCIR"), out.Bytes())
}

func TestContainerRoundTrip(t *testing.T) {
	d, _ := newTestDxc(t)
	lib, err := d.CreateLibrary()
	require.NoError(t, err)
	defer lib.Release()

	container := serializeParts([]fakePart{
		{kind: PartDXIL, data: []byte("il")},
		{kind: PartPrivateData, data: []byte("private")},
	})

	b, err := d.CreateContainerBuilder()
	require.NoError(t, err)
	defer b.Release()
	require.NoError(t, b.Load(blobOf(t, lib, container)))
	require.NoError(t, b.RemovePart(PartPrivateData))
	require.NoError(t, b.AddPart(PartShaderHash, blobOf(t, lib, []byte("hash"))))
	assert.ErrorIs(t, b.RemovePart(PartRootSignature), com.E_INVALIDARG)

	r, err := b.SerializeContainer()
	require.NoError(t, err)
	defer r.Release()
	edited, err := r.Result()
	require.NoError(t, err)
	defer edited.Release()

	refl, err := d.CreateContainerReflection()
	require.NoError(t, err)
	defer refl.Release()
	require.NoError(t, refl.Load(edited))

	n, err := refl.PartCount()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), n)

	kind, err := refl.PartKind(0)
	require.NoError(t, err)
	assert.Equal(t, PartDXIL, kind)

	idx, err := refl.FindFirstPartKind(PartShaderHash)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), idx)

	part, err := refl.PartContent(idx)
	require.NoError(t, err)
	defer part.Release()
	assert.Equal(t, []byte("hash"), part.Bytes())

	_, err = refl.FindFirstPartKind(PartRootSignature)
	assert.ErrorIs(t, err, com.HRESULT(0x80070490))

	_, err = refl.PartReflection(0, IID_IDxcBlob)
	assert.ErrorIs(t, err, com.E_NOTIMPL)
}

func TestFourCC(t *testing.T) {
	assert.Equal(t, FourCC(0x4C495844), PartDXIL)
	assert.Equal(t, "DXIL", PartDXIL.String())
	assert.Equal(t, "RTS0", NewFourCC("RTS0").String())
	assert.Equal(t, "AB\x00\x00", NewFourCC("AB").String())
}

func TestOptimizer(t *testing.T) {
	d, inst := newTestDxc(t)
	lib, err := d.CreateLibrary()
	require.NoError(t, err)
	defer lib.Release()
	o, err := d.CreateOptimizer()
	require.NoError(t, err)
	defer o.Release()

	passes, err := o.AvailablePasses()
	require.NoError(t, err)
	assert.Equal(t, []PassInfo{
		{Name: "mem2reg", Description: "Promote memory to registers"},
		{Name: "inline", Description: "Inline functions", Args: []PassArg{{Name: "threshold", Description: "Inlining cost threshold"}}},
	}, passes)

	_, err = o.AvailablePass(2)
	assert.ErrorIs(t, err, com.E_INVALIDARG)

	module, text, err := o.RunOptimizer(blobOf(t, lib, []byte("module")), []string{"-mem2reg", "-inline"})
	require.NoError(t, err)
	defer module.Release()
	defer text.Release()
	assert.Equal(t, []byte("MODULE"), module.Bytes())
	s, err := text.Text()
	require.NoError(t, err)
	assert.Equal(t, "-mem2reg -inline", s)
	assert.Equal(t, []string{"-mem2reg", "-inline"}, inst.optimizer.options)
}

func TestVersionInfo(t *testing.T) {
	baseline := live.Load()
	v := &VersionInfo{u: newFake(fakeVersionVTable(), &fakeVersion{})}

	major, minor, err := v.Version()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), major)
	assert.Equal(t, uint32(8), minor)

	flags, err := v.Flags()
	require.NoError(t, err)
	assert.Equal(t, VersionFlagsDebug, flags)

	count, hash, err := v.CommitInfo()
	require.NoError(t, err)
	assert.Equal(t, uint32(4242), count)
	assert.Equal(t, "8a4b2f1c", hash)

	v.Release()
	assert.Equal(t, baseline, live.Load())
}

func TestOperationErrorUnwrap(t *testing.T) {
	err := error(&OperationError{Status: 0x80AA0009})
	assert.ErrorIs(t, err, com.HRESULT(0x80AA0009))
	assert.False(t, errors.Is(err, com.E_FAIL))
	assert.Contains(t, err.Error(), "operation failed")
}
