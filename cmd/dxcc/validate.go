// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateOpts = &validateOptions{}

type validateOptions struct {
	Output string
}

var validateCommand = &cobra.Command{
	Use:   "validate <input.dxil>",
	Short: "Validate and sign a compiled container",
	Long: `Validate a compiled container with the dxil library. A valid container is
signed in place and written to the output; without --output only the
validation result is reported.`,
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

		dxil, err := openDxil()
		if err != nil {
			return err
		}
		defer dxil.Close()

		signed, err := d.ValidateDXIL(dxil, data)
		if err != nil {
			return err
		}
		if validateOpts.Output == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid\n", args[0])
			return nil
		}
		return writeOutput(cmd, validateOpts.Output, signed)
	},
}

func init() {
	validateCommand.Flags().StringVarP(&validateOpts.Output, "output", "o", "",
		"Write the signed container to this file")
}
