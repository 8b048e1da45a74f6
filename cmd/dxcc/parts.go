// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var partsCommand = &cobra.Command{
	Use:   "parts <input.dxil>",
	Short: "List the parts of a shader container",
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

		refl, err := d.CreateContainerReflection()
		if err != nil {
			return err
		}
		defer refl.Release()

		blob, err := lib.CreateBlobWithEncoding(data)
		if err != nil {
			return err
		}
		defer blob.Release()

		if err := refl.Load(blob); err != nil {
			return err
		}
		n, err := refl.PartCount()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "INDEX\tKIND\tSIZE")
		for i := range n {
			kind, err := refl.PartKind(i)
			if err != nil {
				return err
			}
			part, err := refl.PartContent(i)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%d\t%s\t%d\n", i, kind, part.Size())
			part.Release()
		}
		return w.Flush()
	},
}
