// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"
)

var optimizeOpts = &optimizeOptions{}

type optimizeOptions struct {
	Passes []string
	Output string
	Text   string
}

var optimizeCommand = &cobra.Command{
	Use:   "optimize <input.bc>",
	Short: "Run optimizer passes over a DXIL module",
	Long: `Run optimizer passes over a DXIL module. Passes are given as optimizer
options in order; list them with "dxcc passes".

Usage examples:

	dxcc optimize -p -mem2reg -p -simplifycfg -o out.bc module.bc
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}

		d, err := openDxc()
		if err != nil {
			return err
		}
		defer d.Close()

		lib, err := d.CreateLibrary()
		if err != nil {
			return err
		}
		defer lib.Release()

		o, err := d.CreateOptimizer()
		if err != nil {
			return err
		}
		defer o.Release()

		blob, err := lib.CreateBlobWithEncoding(data)
		if err != nil {
			return err
		}
		defer blob.Release()

		module, text, err := o.RunOptimizer(blob, optimizeOpts.Passes)
		if err != nil {
			return err
		}
		defer module.Release()
		defer text.Release()

		if optimizeOpts.Text != "" && text != nil {
			if err := writeOutput(cmd, optimizeOpts.Text, text.Bytes()); err != nil {
				return err
			}
		}
		return writeOutput(cmd, optimizeOpts.Output, module.Bytes())
	},
}

func init() {
	flags := optimizeCommand.Flags()
	flags.StringArrayVarP(&optimizeOpts.Passes, "pass", "p", nil,
		"Optimizer option, such as -mem2reg. May be repeated.")
	flags.StringVarP(&optimizeOpts.Output, "output", "o", "",
		"Output file. Writes to standard output if empty.")
	flags.StringVar(&optimizeOpts.Text, "text", "",
		"Write the textual dump requested by the passes to this file")
}
