// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dxc

import "github.com/gogpu/dxc/com"

// Interface identifiers.
var (
	IID_IDxcBlob                = com.MustParseGUID("8BA5FB08-5195-40e2-AC58-0D989C3A0102")
	IID_IDxcBlobEncoding        = com.MustParseGUID("7241d424-2646-4191-97c0-98e96e42fc68")
	IID_IDxcLibrary             = com.MustParseGUID("e5204dc7-d18c-4c3c-bdfb-851673980fe7")
	IID_IDxcOperationResult     = com.MustParseGUID("CEDB484A-D4E9-445A-B991-CA21CA157DC2")
	IID_IDxcIncludeHandler      = com.MustParseGUID("7f61fc7d-950d-467f-b3e3-3c02fb49187c")
	IID_IDxcCompiler            = com.MustParseGUID("8c210bf3-011f-4422-8d70-6f9acb8db617")
	IID_IDxcCompiler2           = com.MustParseGUID("A005A9D9-B8BB-4594-B5C9-0E633BEC4D37")
	IID_IDxcLinker              = com.MustParseGUID("F1B5BE2A-62DD-4327-A1C2-42AC1E1E78E6")
	IID_IDxcValidator           = com.MustParseGUID("A6E82BD2-1FD7-4826-9811-2857E797F49A")
	IID_IDxcContainerBuilder    = com.MustParseGUID("334b1f50-2292-4b35-99a1-25588d8c17fe")
	IID_IDxcAssembler           = com.MustParseGUID("091f7a26-1c1f-4948-904b-e6e3a8a771d5")
	IID_IDxcContainerReflection = com.MustParseGUID("d2c21b26-8350-4bdc-976a-331ce6f4c54c")
	IID_IDxcOptimizerPass       = com.MustParseGUID("AE2CD79F-CC22-453F-9B6B-B124E7A5204C")
	IID_IDxcOptimizer           = com.MustParseGUID("25740E2E-9CBA-401B-9119-4FB42F39F270")
	IID_IDxcVersionInfo         = com.MustParseGUID("b04f5b50-2059-4f12-a8ff-a1e0cde1cc7e")
	IID_IDxcVersionInfo2        = com.MustParseGUID("fb6904c4-42f0-4b62-9c46-983af7da7c83")
)

// Class identifiers accepted by DxcCreateInstance.
var (
	CLSID_DxcCompiler            = com.MustParseGUID("73e22d93-e6ce-47f3-b5bf-f0664f39c1b0")
	CLSID_DxcLinker              = com.MustParseGUID("ef6a8087-b0ea-4d56-9e45-d07e1a8b7806")
	CLSID_DxcDiaDataSource       = com.MustParseGUID("cd1f6b73-2ab0-484d-8edc-ebe7a43ca09f")
	CLSID_DxcLibrary             = com.MustParseGUID("6245d6af-66e0-48fd-80b4-4d271796748c")
	CLSID_DxcValidator           = com.MustParseGUID("8ca3e215-f728-4cf3-8cdd-88af917587a1")
	CLSID_DxcAssembler           = com.MustParseGUID("d728db68-f903-4f80-94cd-dccf76ec7151")
	CLSID_DxcContainerReflection = com.MustParseGUID("b9f54489-55b8-400c-ba3a-1675e4728b91")
	CLSID_DxcOptimizer           = com.MustParseGUID("ae2cd79f-cc22-453f-9b6b-b124e7a5204c")
	CLSID_DxcContainerBuilder    = com.MustParseGUID("94134294-411f-4574-b4d0-8741e25240d2")
)

// Code pages understood by blob encodings.
const (
	CP_ACP   uint32 = 0
	CP_UTF16 uint32 = 1200
	CP_UTF8  uint32 = 65001
)
