// Command dxcc compiles and inspects HLSL shaders with the DirectX Shader
// Compiler libraries.
//
// Usage:
//
//	dxcc [global flags] <command> [flags] <input>
//
// Examples:
//
//	dxcc compile -T ps_6_0 -o shader.dxil shader.hlsl   # Compile to a container
//	dxcc compile -T cs_6_6 --validate shader.hlsl      # Compile and sign
//	dxcc disasm shader.dxil                            # Print the disassembly
//	dxcc parts shader.dxil                             # List container parts
//	dxcc version                                       # Print library versions
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gogpu/dxc"
)

func main() {
	if err := RootCommand.Execute(); err != nil {
		var e *dxc.Error
		if errors.As(err, &e) && (e.IsCompileError() || e.IsValidationError()) {
			fmt.Fprintln(os.Stderr, e.Message)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
