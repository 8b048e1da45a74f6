// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var disasmCommand = &cobra.Command{
	Use:   "disasm <input.dxil>",
	Short: "Print the textual form of a compiled container",
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

		c, err := d.CreateCompiler()
		if err != nil {
			return err
		}
		defer c.Release()

		blob, err := c.Library().CreateBlobWithEncoding(data)
		if err != nil {
			return err
		}
		defer blob.Release()

		text, err := c.Disassemble(blob)
		if err != nil {
			return err
		}
		defer text.Release()

		s, err := text.Text()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), s)
		return nil
	},
}
