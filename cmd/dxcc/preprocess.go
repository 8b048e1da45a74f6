// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"

	"github.com/gogpu/dxc"
)

var preprocessOpts = &preprocessOptions{}

type preprocessOptions struct {
	Output  string
	Defines []string
	Args    []string
}

var preprocessCommand = &cobra.Command{
	Use:   "preprocess <input.hlsl>",
	Short: "Run only the preprocessor over HLSL source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		source, err := readInput(cmd, input)
		if err != nil {
			return err
		}
		defines, err := parseDefines(preprocessOpts.Defines)
		if err != nil {
			return err
		}

		d, err := openDxc()
		if err != nil {
			return err
		}
		defer d.Close()

		c, err := d.CreateCompiler()
		if err != nil {
			return err
		}
		defer c.Release()

		blob, err := c.Library().CreateBlobWithEncodingFromString(string(source))
		if err != nil {
			return err
		}
		defer blob.Release()

		r, err := c.Preprocess(blob, input, preprocessOpts.Args, includeHandler(input), defines)
		out, err := resultBytes(r, err, dxc.ErrCompile)
		if err != nil {
			return err
		}
		return writeOutput(cmd, preprocessOpts.Output, out)
	},
}

func init() {
	flags := preprocessCommand.Flags()
	flags.StringVarP(&preprocessOpts.Output, "output", "o", "",
		"Output file. Writes to standard output if empty.")
	flags.StringArrayVarP(&preprocessOpts.Defines, "define", "D", nil,
		"Macro definition NAME or NAME=VALUE. May be repeated.")
	flags.StringArrayVar(&preprocessOpts.Args, "arg", nil,
		"Extra compiler argument. May be repeated.")
}
