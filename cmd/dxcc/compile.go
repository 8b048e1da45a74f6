// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/dxc"
)

var compileOpts = &compileOptions{}

type compileOptions struct {
	Entry    string
	Profile  string
	Output   string
	Defines  []string
	Args     []string
	Validate bool
	PDB      string
}

var compileCommand = &cobra.Command{
	Use:   "compile <input.hlsl>",
	Short: "Compile HLSL source to a shader container",
	Long: `Compile HLSL source. Includes are searched next to the input first, then
in the configured include directories.

Usage examples:

1. Compile a pixel shader:

	dxcc compile -T ps_6_0 -o shader.dxil shader.hlsl

2. Compile, validate and sign in one go:

	dxcc compile -T cs_6_6 -E CSMain --validate -o shader.dxil shader.hlsl

3. Keep debug information in a separate file:

	dxcc compile -T vs_6_0 --arg -Zi --pdb shader.pdb shader.hlsl
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		source, err := readInput(cmd, input)
		if err != nil {
			return err
		}
		if _, _, err := dxc.ParseProfile(compileOpts.Profile); err != nil {
			logger.Warn("unrecognized target profile, passing it to the compiler as is",
				"profile", compileOpts.Profile, "error", err)
		}
		defines, err := parseDefines(compileOpts.Defines)
		if err != nil {
			return err
		}

		include := includeHandler(input)
		d, err := openDxc(dxc.WithIncludeHandler(include))
		if err != nil {
			return err
		}
		defer d.Close()

		var out []byte
		if compileOpts.PDB != "" {
			out, err = compileWithDebug(d, input, string(source), include, defines)
		} else {
			out, err = d.CompileHLSL(input, string(source), compileOpts.Entry, compileOpts.Profile, compileOpts.Args, defines)
		}
		if err != nil {
			return err
		}

		if compileOpts.Validate {
			dxil, err := openDxil()
			if err != nil {
				return err
			}
			defer dxil.Close()
			if out, err = d.ValidateDXIL(dxil, out); err != nil {
				return err
			}
		}

		return writeOutput(cmd, compileOpts.Output, out)
	},
}

// compileWithDebug compiles through IDxcCompiler2 and writes the separate
// debug information to the --pdb path.
func compileWithDebug(d *dxc.Dxc, name, source string, include dxc.IncludeHandler, defines []dxc.Define) ([]byte, error) {
	c, err := d.CreateCompiler()
	if err != nil {
		return nil, err
	}
	defer c.Release()

	blob, err := c.Library().CreateBlobWithEncodingFromString(source)
	if err != nil {
		return nil, err
	}
	defer blob.Release()

	r, debug, err := c.CompileWithDebug(blob, name, compileOpts.Entry, compileOpts.Profile, compileOpts.Args, include, defines)
	if err != nil {
		return nil, operationError(err, dxc.ErrCompile)
	}
	defer debug.Release()

	out, err := resultBytes(r, nil, dxc.ErrCompile)
	if err != nil {
		return nil, err
	}
	if debug == nil || debug.Blob == nil {
		logger.Warn("compiler produced no debug information", "hint", "pass --arg -Zi")
		return out, nil
	}
	if err := os.WriteFile(compileOpts.PDB, debug.Blob.Bytes(), 0o644); err != nil {
		return nil, err
	}
	logger.Info("wrote debug information", "path", compileOpts.PDB, "name", debug.Name)
	return out, nil
}

func init() {
	flags := compileCommand.Flags()
	flags.StringVarP(&compileOpts.Entry, "entry", "E", "main",
		"Entry point name")
	flags.StringVarP(&compileOpts.Profile, "target", "T", "",
		"Target profile, such as ps_6_0 or cs_6_6")
	flags.StringVarP(&compileOpts.Output, "output", "o", "",
		"Output file. Writes to standard output if empty.")
	flags.StringArrayVarP(&compileOpts.Defines, "define", "D", nil,
		"Macro definition NAME or NAME=VALUE. May be repeated.")
	flags.StringArrayVar(&compileOpts.Args, "arg", nil,
		"Extra compiler argument, such as -O3 or -Zi. May be repeated.")
	flags.BoolVar(&compileOpts.Validate, "validate", false,
		"Validate and sign the output with the dxil library")
	flags.StringVar(&compileOpts.PDB, "pdb", "",
		"Write separate debug information to this file")
	_ = compileCommand.MarkFlagRequired("target")
}
