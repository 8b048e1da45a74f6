// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/dxc"
)

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Print the versions of the compiler and validator libraries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
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

		v, err := c.VersionInfo()
		if err != nil {
			return err
		}
		defer v.Release()
		if err := printVersion(cmd, "dxcompiler", d.LibraryPath(), v); err != nil {
			return err
		}

		dxil, err := openDxil()
		if err != nil {
			logger.Warn("validator library unavailable", "error", err)
			return nil
		}
		defer dxil.Close()

		val, err := dxil.CreateValidator()
		if err != nil {
			return err
		}
		defer val.Release()

		vv, err := val.VersionInfo()
		if err != nil {
			return err
		}
		defer vv.Release()
		return printVersion(cmd, "dxil", dxil.LibraryPath(), vv)
	},
}

func printVersion(cmd *cobra.Command, name, path string, v *dxc.VersionInfo) error {
	major, minor, err := v.Version()
	if err != nil {
		return err
	}
	flags, err := v.Flags()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d.%d (%s)", name, major, minor, path)
	if flags&dxc.VersionFlagsDebug != 0 {
		fmt.Fprint(cmd.OutOrStdout(), " debug")
	}
	if count, hash, err := v.CommitInfo(); err == nil {
		fmt.Fprintf(cmd.OutOrStdout(), " commit %d %s", count, hash)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}
