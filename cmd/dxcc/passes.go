// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var passesCommand = &cobra.Command{
	Use:   "passes",
	Short: "List the optimizer passes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		d, err := openDxc()
		if err != nil {
			return err
		}
		defer d.Close()

		o, err := d.CreateOptimizer()
		if err != nil {
			return err
		}
		defer o.Release()

		passes, err := o.AvailablePasses()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, p := range passes {
			fmt.Fprintf(w, "-%s\t%s\n", p.Name, p.Description)
			for _, a := range p.Args {
				fmt.Fprintf(w, "  %s\t%s\n", a.Name, a.Description)
			}
		}
		return w.Flush()
	},
}
