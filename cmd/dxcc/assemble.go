// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"

	"github.com/gogpu/dxc"
)

var assembleOpts = &assembleOptions{}

type assembleOptions struct {
	Output string
}

var assembleCommand = &cobra.Command{
	Use:   "assemble <input.ll>",
	Short: "Assemble DXIL into a shader container",
	Args:  cobra.ExactArgs(1),
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

		a, err := d.CreateAssembler()
		if err != nil {
			return err
		}
		defer a.Release()

		blob, err := lib.CreateBlobWithEncoding(data)
		if err != nil {
			return err
		}
		defer blob.Release()

		r, err := a.AssembleToContainer(blob)
		out, err := resultBytes(r, err, dxc.ErrCompile)
		if err != nil {
			return err
		}
		return writeOutput(cmd, assembleOpts.Output, out)
	},
}

func init() {
	assembleCommand.Flags().StringVarP(&assembleOpts.Output, "output", "o", "",
		"Output file. Writes to standard output if empty.")
}
